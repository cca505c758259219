package user

import (
	"time"

	"github.com/google/uuid"
)

// NewFromCreateRequest builds a User from a validated signup request and an
// already-computed password hash. Hashing stays in the security package.
func NewFromCreateRequest(req CreateUserRequest, passwordHash string) User {
	now := time.Now().UTC()

	return User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		Email:        req.Email,
		FullName:     req.FullName,
		PasswordHash: passwordHash,
		Active:       true,
		Admin:        false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
