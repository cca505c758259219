package security

import (
	"errors"
	"strings"
	"testing"
)

func TestHashAndVerify_RoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	if !strings.HasPrefix(hash, "$2") {
		t.Fatalf("expected bcrypt hash, got %q", hash)
	}

	ok, err := VerifyPassword("correct horse battery staple", hash)
	if err != nil {
		t.Fatalf("VerifyPassword error: %v", err)
	}
	if !ok {
		t.Fatalf("expected match")
	}
}

func TestVerifyPassword_Mismatch(t *testing.T) {
	hash, err := HashPassword("password-one")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	ok, err := VerifyPassword("password-two", hash)
	if err != nil {
		t.Fatalf("mismatch must not be an error, got %v", err)
	}
	if ok {
		t.Fatalf("expected mismatch")
	}
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	ok, err := VerifyPassword("whatever", "not-a-bcrypt-hash")

	if ok {
		t.Fatalf("malformed hash must never verify")
	}
	if !errors.Is(err, ErrInvalidHashFormat) {
		t.Fatalf("expected ErrInvalidHashFormat, got %v", err)
	}
}

func TestHashPassword_SaltsDiffer(t *testing.T) {
	h1, err := HashPassword("same input")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	h2, err := HashPassword("same input")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	if h1 == h2 {
		t.Fatalf("two hashes of the same input must not be equal")
	}
}
