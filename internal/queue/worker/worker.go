package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/geocoder89/bloghub/internal/jobs"
	"github.com/geocoder89/bloghub/internal/notifications"
	"github.com/geocoder89/bloghub/internal/observability"
	"github.com/geocoder89/bloghub/internal/queue"
)

type Config struct {
	WorkerID      string
	ClaimBlock    time.Duration // how long a claim blocks waiting for work
	ShutdownGrace time.Duration
}

// Worker drains the notification stream and hands jobs to the notifier.
type Worker struct {
	cfg      Config
	queue    *queue.Queue
	notifier notifications.Notifier
	prom     *observability.Prom
	log      *slog.Logger

	readyMu sync.RWMutex
	ready   bool
}

func New(cfg Config, q *queue.Queue, notifier notifications.Notifier, prom *observability.Prom, log *slog.Logger) *Worker {
	if cfg.ClaimBlock <= 0 {
		cfg.ClaimBlock = 2 * time.Second
	}
	if cfg.ShutdownGrace <= 0 {
		cfg.ShutdownGrace = 10 * time.Second
	}

	return &Worker{
		cfg:      cfg,
		queue:    q,
		notifier: notifier,
		prom:     prom,
		log:      log,
	}
}

func (w *Worker) Ready() bool {
	w.readyMu.RLock()
	defer w.readyMu.RUnlock()
	return w.ready
}

func (w *Worker) setReady(v bool) {
	w.readyMu.Lock()
	w.ready = v
	w.readyMu.Unlock()
}

func (w *Worker) Run(ctx context.Context) error {
	if err := w.queue.EnsureGroup(ctx); err != nil {
		return err
	}

	w.setReady(true)
	defer w.setReady(false)

	for {
		select {
		case <-ctx.Done():
			w.log.Info("worker received shutdown signal")
			return nil
		default:
		}

		processed, err := w.ProcessOne(ctx)

		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			w.log.Error("claim error", "err", err)
			// brief pause so a broken redis does not spin the loop
			select {
			case <-time.After(time.Second):
			case <-ctx.Done():
				return nil
			}
			continue
		}

		_ = processed
	}
}

// ProcessOne claims and executes a single job. Returns false when the
// queue was empty for the whole blocking window.
func (w *Worker) ProcessOne(ctx context.Context) (bool, error) {
	j, msgID, err := w.queue.Claim(ctx, w.cfg.WorkerID, w.cfg.ClaimBlock)

	if err != nil {
		if errors.Is(err, queue.ErrEmpty) {
			return false, nil
		}
		return false, err
	}

	if w.prom != nil {
		w.prom.JobsInFlight.Inc()
		defer w.prom.JobsInFlight.Dec()
	}

	start := time.Now()

	execErr := w.execute(ctx, j)

	result := "done"

	if execErr != nil {
		if j.Attempts+1 >= j.MaxTries {
			result = "failed"
			w.log.Error("job permanently failed",
				"job_id", j.ID, "job_type", string(j.Type), "attempts", j.Attempts+1, "err", execErr)
		} else {
			result = "retry"
			w.retryLater(ctx, j)
		}
	}

	if w.prom != nil {
		w.prom.JobResults.WithLabelValues(string(j.Type), result).Inc()
		w.prom.JobDuration.WithLabelValues(string(j.Type), result).Observe(time.Since(start).Seconds())
	}

	// the original entry is acked in every branch: retries travel as a
	// fresh entry with a bumped attempt count
	if err := w.queue.Ack(ctx, msgID); err != nil {
		w.log.Error("ack failed", "job_id", j.ID, "err", err)
	}

	return true, nil
}

func (w *Worker) execute(ctx context.Context, j jobs.Job) error {
	payload, err := jobs.DecodePayload(j)

	if err != nil {
		return err
	}

	if err := jobs.ValidatePayload(j.Type, payload); err != nil {
		return err
	}

	switch p := payload.(type) {
	case jobs.UserWelcomePayload:
		return w.notifier.SendUserWelcome(ctx, notifications.SendUserWelcomeInput{
			UserID:   p.UserID,
			Username: p.Username,
			Email:    p.Email,
		})

	case jobs.PostPublishedPayload:
		return w.notifier.SendPostPublished(ctx, notifications.SendPostPublishedInput{
			PostID:   p.PostID,
			Title:    p.Title,
			AuthorID: p.AuthorID,
		})

	default:
		return jobs.ErrInvalidJobType
	}
}

// retryLater re-enqueues the job with an incremented attempt count after
// an exponential backoff, without blocking the claim loop.
func (w *Worker) retryLater(ctx context.Context, j jobs.Job) {
	j.Attempts++
	delay := ExponentialBackoff(j.Attempts)

	go func() {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return
		}

		if err := w.queue.Enqueue(ctx, j); err != nil {
			w.log.Error("retry enqueue failed", "job_id", j.ID, "err", err)
		}
	}()
}
