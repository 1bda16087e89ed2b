// Copyright The RoomScout Authors.
// SPDX-License-Identifier: MIT

package concurrent

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTaskRunnerDeferRuns(t *testing.T) {
	runner := NewTaskRunner(2)

	var ran atomic.Bool
	runner.Defer(t.Context(), "test-task", 0, func(ctx context.Context) error {
		ran.Store(true)
		return nil
	})
	runner.Wait()

	assert.True(t, ran.Load())
}

func TestTaskRunnerDeferSurvivesCallerCancellation(t *testing.T) {
	runner := NewTaskRunner(1)
	ctx, cancel := context.WithCancel(t.Context())

	var ran, sawCancel atomic.Bool
	runner.Defer(ctx, "detached-task", 10*time.Millisecond, func(taskCtx context.Context) error {
		ran.Store(true)
		sawCancel.Store(taskCtx.Err() != nil)
		return nil
	})
	cancel()
	runner.Wait()

	// The task context is detached from the request lifetime, so a cancel
	// during the delay neither skips the task nor cancels its context.
	assert.True(t, ran.Load())
	assert.False(t, sawCancel.Load())
}

func TestTaskRunnerDeferWithDelay(t *testing.T) {
	runner := NewTaskRunner(1)

	start := time.Now()
	var elapsed atomic.Int64
	runner.Defer(t.Context(), "delayed-task", 20*time.Millisecond, func(ctx context.Context) error {
		elapsed.Store(int64(time.Since(start)))
		return nil
	})
	runner.Wait()

	assert.GreaterOrEqual(t, time.Duration(elapsed.Load()), 20*time.Millisecond)
}

func TestTaskRunnerSwallowsErrors(t *testing.T) {
	runner := NewTaskRunner(1)

	// Errors are logged, never propagated; this must not panic or block.
	runner.Defer(t.Context(), "failing-task", 0, func(ctx context.Context) error {
		return errors.New("boom")
	})
	runner.Wait()
}
