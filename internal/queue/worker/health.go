package worker

import (
	"context"
	"net/http"
	"time"
)

type ReadinessDeps interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves liveness and readiness for the worker process.
// Readiness requires the claim loop to be running and redis reachable.
func (w *Worker) HealthHandler(deps ReadinessDeps) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(rw http.ResponseWriter, _ *http.Request) {
		rw.WriteHeader(http.StatusOK)
		_, _ = rw.Write([]byte("ok"))
	})

	mux.HandleFunc("/readyz", func(rw http.ResponseWriter, _ *http.Request) {
		if !w.Ready() {
			http.Error(rw, "not ready", http.StatusServiceUnavailable)
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()

		if err := deps.Ping(ctx); err != nil {
			http.Error(rw, "redis not ready", http.StatusServiceUnavailable)
			return
		}

		rw.WriteHeader(http.StatusOK)
		_, _ = rw.Write([]byte("ready"))
	})

	return mux
}
