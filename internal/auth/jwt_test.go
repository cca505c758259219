package auth

import (
	"errors"
	"testing"
	"time"
)

func TestIssueAndVerify_RoundTrip(t *testing.T) {
	m := NewManager("test-secret", 30*time.Minute)

	token, err := m.IssueToken("user-123")
	if err != nil {
		t.Fatalf("IssueToken error: %v", err)
	}

	subject, err := m.VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken error: %v", err)
	}

	if subject != "user-123" {
		t.Fatalf("expected subject user-123, got %s", subject)
	}
}

func TestVerifyToken_Expired(t *testing.T) {
	m := NewManager("test-secret", 30*time.Minute)

	// a zero TTL token is already expired at verification time
	token, err := m.IssueTokenWithTTL("user-123", 0)
	if err != nil {
		t.Fatalf("IssueTokenWithTTL error: %v", err)
	}

	_, err = m.VerifyToken(token)

	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestVerifyToken_WrongKey(t *testing.T) {
	issuer := NewManager("secret-a", time.Minute)
	verifier := NewManager("secret-b", time.Minute)

	token, err := issuer.IssueToken("user-123")
	if err != nil {
		t.Fatalf("IssueToken error: %v", err)
	}

	_, err = verifier.VerifyToken(token)

	if !errors.Is(err, ErrBadSignature) {
		t.Fatalf("expected ErrBadSignature, got %v", err)
	}
}

func TestVerifyToken_Malformed(t *testing.T) {
	m := NewManager("test-secret", time.Minute)

	cases := []string{
		"",
		"garbage",
		"a.b",
		"a.b.c",
	}

	for _, raw := range cases {
		_, err := m.VerifyToken(raw)

		if !errors.Is(err, ErrTokenMalformed) {
			t.Fatalf("token %q: expected ErrTokenMalformed, got %v", raw, err)
		}
	}
}

func TestVerifyToken_TamperedPayload(t *testing.T) {
	m := NewManager("test-secret", time.Minute)

	token, err := m.IssueToken("user-123")
	if err != nil {
		t.Fatalf("IssueToken error: %v", err)
	}

	// flip a character inside the payload segment
	tampered := []byte(token)
	mid := len(tampered) / 2
	if tampered[mid] == 'a' {
		tampered[mid] = 'b'
	} else {
		tampered[mid] = 'a'
	}

	if _, err := m.VerifyToken(string(tampered)); err == nil {
		t.Fatalf("tampered token must not verify")
	}
}
