package user

import (
	"errors"
	"time"
)

var (
	ErrNotFound      = errors.New("user not found")
	ErrEmailTaken    = errors.New("email already in use")
	ErrUsernameTaken = errors.New("username already in use")
)

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FullName     string    `json:"fullName,omitempty"`
	PasswordHash string    `json:"-"` // never expose hash in JSON
	Active       bool      `json:"isActive"`
	Admin        bool      `json:"isAdmin"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type CreateUserRequest struct {
	Username string `json:"username" binding:"required,min=3,max=100"`
	Email    string `json:"email" binding:"required,email,max=255"`
	FullName string `json:"fullName" binding:"omitempty,max=255"`
	Password string `json:"password" binding:"required,min=8,max=100"`
}

// Partial update; nil fields are left untouched. PasswordHash is filled
// in by the handler after hashing Password and is never read from JSON.
type UpdateUserRequest struct {
	Username     *string `json:"username" binding:"omitempty,min=3,max=100"`
	Email        *string `json:"email" binding:"omitempty,email,max=255"`
	FullName     *string `json:"fullName" binding:"omitempty,max=255"`
	Password     *string `json:"password" binding:"omitempty,min=8,max=100"`
	Active       *bool   `json:"isActive"`
	PasswordHash *string `json:"-"`
}

type ListUsersFilter struct {
	Limit  int
	Offset int
}
