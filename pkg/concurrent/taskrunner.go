// Copyright The RoomScout Authors.
// SPDX-License-Identifier: MIT

package concurrent

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/roomscout/attendance-service/internal/logging"
)

// TaskRunner runs named fire-and-forget tasks on background goroutines with
// bounded concurrency. Callers that need to observe completion (tests, shutdown)
// use Wait.
type TaskRunner struct {
	sem chan struct{}
	wg  sync.WaitGroup
}

// NewTaskRunner creates a task runner allowing up to maxConcurrent tasks at once.
func NewTaskRunner(maxConcurrent int) *TaskRunner {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &TaskRunner{
		sem: make(chan struct{}, maxConcurrent),
	}
}

// Defer schedules fn to run after the given delay on a background goroutine.
// The task context is detached from the caller's request lifetime but keeps
// its log attributes. Errors are logged, never returned.
func (tr *TaskRunner) Defer(ctx context.Context, name string, delay time.Duration, fn func(ctx context.Context) error) {
	taskCtx := context.WithoutCancel(ctx)
	taskCtx = logging.AppendCtx(taskCtx, slog.String("task", name))

	tr.wg.Add(1)
	go func() {
		defer tr.wg.Done()

		// taskCtx never cancels (it is detached from the caller), so the
		// delay is a plain sleep.
		if delay > 0 {
			time.Sleep(delay)
		}

		tr.sem <- struct{}{}
		defer func() { <-tr.sem }()

		if err := fn(taskCtx); err != nil {
			slog.ErrorContext(taskCtx, "background task failed", logging.ErrKey, err)
		}
	}()
}

// Go schedules fn to run immediately on a background goroutine.
func (tr *TaskRunner) Go(ctx context.Context, name string, fn func(ctx context.Context) error) {
	tr.Defer(ctx, name, 0, fn)
}

// Wait blocks until all scheduled tasks have finished.
func (tr *TaskRunner) Wait() {
	tr.wg.Wait()
}
