// Package background runs best-effort tasks off the request path.
package background

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Runner dispatches fire-and-forget tasks. A failed task is logged and
// never retried; callers are never told about the outcome.
type Runner struct {
	log     *slog.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewRunner(log *slog.Logger, timeout time.Duration) *Runner {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Runner{log: log, timeout: timeout}
}

// Go starts task in its own goroutine. The task context is detached from
// any request so it outlives the response.
func (r *Runner) Go(name string, task func(ctx context.Context) error) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer func() {
			if p := recover(); p != nil {
				r.log.Error("background task panicked", slog.String("task", name), slog.Any("panic", p))
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()

		if err := task(ctx); err != nil {
			r.log.Warn("background task failed", slog.String("task", name), slog.String("error", err.Error()))
			return
		}
		r.log.Debug("background task done", slog.String("task", name))
	}()
}

// Wait blocks until every dispatched task has returned or ctx is done.
func (r *Runner) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
