package jobs

import (
	"errors"
	"testing"
)

func TestEncodeDecode_UserWelcome(t *testing.T) {
	payload := UserWelcomePayload{
		UserID:   "user-123",
		Username: "alice",
		Email:    "alice@example.com",
	}

	b, err := EncodePayload(JobUserWelcome, payload)
	if err != nil {
		t.Fatalf("EncodePayload error: %v", err)
	}

	j, err := NewJob(JobUserWelcome, b)
	if err != nil {
		t.Fatalf("NewJob error: %v", err)
	}

	decoded, err := DecodePayload(j)
	if err != nil {
		t.Fatalf("DecodePayload error: %v", err)
	}

	p, ok := decoded.(UserWelcomePayload)
	if !ok {
		t.Fatalf("expected UserWelcomePayload, got %T", decoded)
	}

	if p.UserID != payload.UserID || p.Email != payload.Email {
		t.Fatalf("round trip mismatch: %+v", p)
	}
}

func TestEncodeDecode_PostPublished(t *testing.T) {
	payload := PostPublishedPayload{
		PostID:   "post-1",
		Title:    "Hello",
		AuthorID: "user-1",
	}

	b, err := EncodePayload(JobPostPublished, payload)
	if err != nil {
		t.Fatalf("EncodePayload error: %v", err)
	}

	j, err := NewJob(JobPostPublished, b)
	if err != nil {
		t.Fatalf("NewJob error: %v", err)
	}

	decoded, err := DecodePayload(j)
	if err != nil {
		t.Fatalf("DecodePayload error: %v", err)
	}

	p, ok := decoded.(PostPublishedPayload)
	if !ok {
		t.Fatalf("expected PostPublishedPayload, got %T", decoded)
	}

	if p.PostID != payload.PostID || p.AuthorID != payload.AuthorID {
		t.Fatalf("round trip mismatch: %+v", p)
	}
}

func TestEncodePayload_TypeMismatch(t *testing.T) {
	_, err := EncodePayload(JobUserWelcome, PostPublishedPayload{
		PostID:   "post-1",
		AuthorID: "user-1",
	})

	if !errors.Is(err, ErrPayloadTypeMismatch) {
		t.Fatalf("expected ErrPayloadTypeMismatch, got %v", err)
	}
}

func TestNewJob_InvalidType(t *testing.T) {
	_, err := NewJob(JobType("nope"), []byte(`{}`))

	if !errors.Is(err, ErrInvalidJobType) {
		t.Fatalf("expected ErrInvalidJobType, got %v", err)
	}
}

func TestDecodePayload_EmptyPayload(t *testing.T) {
	j := Job{Type: JobUserWelcome}

	_, err := DecodePayload(j)

	if !errors.Is(err, ErrInvalidJobPayload) {
		t.Fatalf("expected ErrInvalidJobPayload, got %v", err)
	}
}

func TestValidatePayload_RequiredIDs(t *testing.T) {
	if err := ValidatePayload(JobUserWelcome, UserWelcomePayload{UserID: "", Email: ""}); err == nil {
		t.Fatalf("expected error for missing ids")
	}

	if err := ValidatePayload(JobPostPublished, PostPublishedPayload{PostID: "p", AuthorID: ""}); err == nil {
		t.Fatalf("expected error for missing author")
	}

	if err := ValidatePayload(JobUserWelcome, UserWelcomePayload{UserID: "u", Email: "e@x.io"}); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestValidatePayload_WrongType(t *testing.T) {
	err := ValidatePayload(JobUserWelcome, PostPublishedPayload{PostID: "p", AuthorID: "a"})

	if !errors.Is(err, ErrPayloadTypeMismatch) {
		t.Fatalf("expected ErrPayloadTypeMismatch, got %v", err)
	}
}
