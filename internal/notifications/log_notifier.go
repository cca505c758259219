package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"
)

// LogNotifier writes notifications to the log. Stands in for a real mail
// or push provider in dev and test environments.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier { return &LogNotifier{} }

func (n *LogNotifier) SendUserWelcome(ctx context.Context, in SendUserWelcomeInput) error {
	if err := simulateProvider(ctx); err != nil {
		return err
	}

	slog.Default().InfoContext(ctx, "notification.user_welcome",
		"user_id", in.UserID,
		"username", in.Username,
		"email", in.Email,
	)
	return nil
}

func (n *LogNotifier) SendPostPublished(ctx context.Context, in SendPostPublishedInput) error {
	if err := simulateProvider(ctx); err != nil {
		return err
	}

	slog.Default().InfoContext(ctx, "notification.post_published",
		"post_id", in.PostID,
		"title", in.Title,
		"author_id", in.AuthorID,
	)
	return nil
}

// simulateProvider lets local runs exercise slow or failing providers.
func simulateProvider(ctx context.Context) error {
	if msStr := os.Getenv("NOTIFIER_SLEEP_MS"); msStr != "" {
		ms, _ := strconv.Atoi(msStr)
		if ms > 0 {
			select {
			case <-time.After(time.Duration(ms) * time.Millisecond):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	if os.Getenv("NOTIFIER_FAIL") == "1" {
		return fmt.Errorf("provider down (simulated)")
	}

	return nil
}
