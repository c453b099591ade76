// Package debounce delays a callback until its trigger has been quiet for a while.
package debounce

import (
	"sync"
	"time"
)

// Timer runs at most one pending callback. Re-arming replaces it.
type Timer struct {
	mu      sync.Mutex
	pending *time.Timer
	gen     uint64
	stopped bool
}

// Arm cancels any pending callback and schedules fn after delay.
func (t *Timer) Arm(delay time.Duration, fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stopped {
		return
	}
	t.cancelLocked()

	gen := t.gen
	t.pending = time.AfterFunc(delay, func() {
		t.mu.Lock()
		// A later Arm or Cancel bumped gen while this one was already firing.
		if t.gen != gen || t.stopped {
			t.mu.Unlock()
			return
		}
		t.pending = nil
		t.mu.Unlock()
		fn()
	})
}

// Cancel drops the pending callback, if any.
func (t *Timer) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancelLocked()
}

// Stop cancels and turns further Arm calls into no-ops.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancelLocked()
	t.stopped = true
}

// Pending reports whether a callback is scheduled.
func (t *Timer) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending != nil
}

func (t *Timer) cancelLocked() {
	t.gen++
	if t.pending != nil {
		t.pending.Stop()
		t.pending = nil
	}
}
