package post

import (
	"time"

	"github.com/google/uuid"
)

func NewFromCreateRequest(req CreatePostRequest, authorID string) Post {
	now := time.Now().UTC()

	return Post{
		ID:        uuid.NewString(),
		Title:     req.Title,
		Body:      req.Body,
		Published: req.Published,
		AuthorID:  authorID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
