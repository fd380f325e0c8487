// Package pool recycles the timers behind the gripper's poll and settle
// waits, so that tight feedback polling does not allocate a timer per poll.
package pool

import (
	"context"
	"sync"
	"time"
)

var timers sync.Pool

// acquire returns a timer armed to fire after d.
//
// With Go 1.23 timer semantics a stopped or reset timer never delivers a
// stale value, so pooled timers need no channel draining.
func acquire(d time.Duration) *time.Timer {
	if t, ok := timers.Get().(*time.Timer); ok {
		t.Reset(d)
		return t
	}

	return time.NewTimer(d)
}

// release stops t and returns it to the pool. t must not be used afterwards.
func release(t *time.Timer) {
	t.Stop()
	timers.Put(t)
}

// Sleep waits for d or until ctx is done, whichever comes first.
// It returns ctx.Err() if the context ended the wait. A non-positive d
// only checks ctx.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t := acquire(d)
	defer release(t)

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
