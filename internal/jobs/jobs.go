package jobs

import (
	"time"

	"github.com/google/uuid"
)

// A Job is one unit of asynchronous notification work carried on the
// Redis stream between the API and the worker.
type Job struct {
	ID         string    `json:"id"`
	Type       JobType   `json:"type"`
	Payload    []byte    `json:"payload"` // raw json
	Attempts   int       `json:"attempts"`
	MaxTries   int       `json:"maxTries"`
	EnqueuedAt time.Time `json:"enqueuedAt"`
}

// NewJob creates a job with defaults and a fresh ID.
func NewJob(t JobType, payloadJSON []byte) (Job, error) {
	if !t.IsValid() {
		return Job{}, ErrInvalidJobType
	}

	return Job{
		ID:         uuid.NewString(),
		Type:       t,
		Payload:    payloadJSON,
		Attempts:   0,
		MaxTries:   5,
		EnqueuedAt: time.Now().UTC(),
	}, nil
}
