// Copyright The RoomScout Authors.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"
	"time"
)

// TaskScheduler runs named fire-and-forget work on background goroutines.
type TaskScheduler interface {
	// Defer schedules fn to run after delay. Errors are logged by the
	// implementation, never returned to the caller.
	Defer(ctx context.Context, name string, delay time.Duration, fn func(ctx context.Context) error)
}
