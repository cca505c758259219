package notifications

import "context"

type SendUserWelcomeInput struct {
	UserID   string
	Username string
	Email    string
}

type SendPostPublishedInput struct {
	PostID   string
	Title    string
	AuthorID string
}

type Notifier interface {
	SendUserWelcome(ctx context.Context, input SendUserWelcomeInput) error
	SendPostPublished(ctx context.Context, input SendPostPublishedInput) error
}
