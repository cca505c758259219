package post

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("post not found")

type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body,omitempty"`
	Published bool      `json:"published"`
	AuthorID  string    `json:"authorId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CreatePostRequest struct {
	Title     string `json:"title" binding:"required,min=1,max=255"`
	Body      string `json:"body" binding:"omitempty,max=100000"`
	Published bool   `json:"published"`
}

// Partial update; nil fields are left untouched.
type UpdatePostRequest struct {
	Title     *string `json:"title" binding:"omitempty,min=1,max=255"`
	Body      *string `json:"body" binding:"omitempty,max=100000"`
	Published *bool   `json:"published"`
}

type ListPostsFilter struct {
	PublishedOnly bool
	AuthorID      *string
	Limit         int
	Offset        int
}
