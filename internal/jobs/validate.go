package jobs

import "strings"

// ValidatePayload performs minimal structural validation on decoded payloads.
func ValidatePayload(t JobType, payload any) error {
	if !t.IsValid() {
		return ErrInvalidJobType
	}

	trim := func(s string) string { return strings.TrimSpace(s) }

	switch t {
	case JobUserWelcome:
		var p UserWelcomePayload
		switch v := payload.(type) {
		case UserWelcomePayload:
			p = v
		case *UserWelcomePayload:
			p = *v
		default:
			return ErrPayloadTypeMismatch
		}
		if trim(p.UserID) == "" || trim(p.Email) == "" {
			return ErrInvalidJobPayload
		}
		return nil

	case JobPostPublished:
		var p PostPublishedPayload
		switch v := payload.(type) {
		case PostPublishedPayload:
			p = v
		case *PostPublishedPayload:
			p = *v
		default:
			return ErrPayloadTypeMismatch
		}
		if trim(p.PostID) == "" || trim(p.AuthorID) == "" {
			return ErrInvalidJobPayload
		}
		return nil

	default:
		return ErrInvalidJobType
	}
}
