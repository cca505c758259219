package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/geocoder89/bloghub/internal/jobs"
	"github.com/geocoder89/bloghub/internal/queue/redisclient"
	"github.com/redis/go-redis/v9"
)

const (
	// Stream is the Redis stream carrying notification jobs.
	Stream = "bloghub:jobs"
	// Group is the consumer group shared by all worker processes.
	Group = "notifiers"
)

// ErrEmpty signals that no job was available within the blocking window.
var ErrEmpty = errors.New("queue empty")

type Queue struct {
	rdb *redis.Client
}

func New(client *redisclient.Client) *Queue {
	return &Queue{rdb: client.Raw()}
}

// Enqueue appends a job to the stream.
func (q *Queue) Enqueue(ctx context.Context, j jobs.Job) error {
	b, err := json.Marshal(j)

	if err != nil {
		return fmt.Errorf("encode job: %w", err)
	}

	return q.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: Stream,
		Values: map[string]interface{}{"job": b},
	}).Err()
}

// EnsureGroup creates the consumer group if it does not exist yet.
// Safe to call on every worker boot.
func (q *Queue) EnsureGroup(ctx context.Context) error {
	err := q.rdb.XGroupCreateMkStream(ctx, Stream, Group, "0").Err()

	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		return err
	}

	return nil
}

// Claim blocks up to `block` waiting for the next job for this consumer.
// The returned message ID must be passed back to Ack once the job is
// handled (or permanently failed).
func (q *Queue) Claim(ctx context.Context, consumer string, block time.Duration) (jobs.Job, string, error) {
	res, err := q.rdb.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    Group,
		Consumer: consumer,
		Streams:  []string{Stream, ">"},
		Count:    1,
		Block:    block,
	}).Result()

	if err != nil {
		if errors.Is(err, redis.Nil) {
			return jobs.Job{}, "", ErrEmpty
		}
		return jobs.Job{}, "", err
	}

	if len(res) == 0 || len(res[0].Messages) == 0 {
		return jobs.Job{}, "", ErrEmpty
	}

	msg := res[0].Messages[0]

	raw, ok := msg.Values["job"].(string)

	if !ok {
		// poison entry; ack it away so it cannot wedge the group
		_ = q.Ack(ctx, msg.ID)
		return jobs.Job{}, "", fmt.Errorf("malformed stream entry %s", msg.ID)
	}

	var j jobs.Job

	if err := json.Unmarshal([]byte(raw), &j); err != nil {
		_ = q.Ack(ctx, msg.ID)
		return jobs.Job{}, "", fmt.Errorf("decode job from entry %s: %w", msg.ID, err)
	}

	return j, msg.ID, nil
}

func (q *Queue) Ack(ctx context.Context, msgID string) error {
	return q.rdb.XAck(ctx, Stream, Group, msgID).Err()
}
