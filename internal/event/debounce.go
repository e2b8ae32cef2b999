package event

import (
	"sync"
	"time"
)

// Debouncer coalesces bursts of triggers into a single callback.
//
// Each Trigger cancels any pending callback and schedules a new one after the
// window elapses; only the last trigger in a burst narrower than the window
// fires. This is the cancellation mechanism for high-frequency event streams
// such as caret movement.
type Debouncer struct {
	mu      sync.Mutex
	window  time.Duration
	timer   *time.Timer
	gen     uint64
	pending bool
}

// NewDebouncer creates a debouncer with the given window. A non-positive
// window fires callbacks immediately.
func NewDebouncer(window time.Duration) *Debouncer {
	return &Debouncer{window: window}
}

// Trigger schedules fn to run after the window, cancelling any pending run.
func (d *Debouncer) Trigger(fn func()) {
	if d.window <= 0 {
		d.Cancel()
		fn()
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}

	d.gen++
	d.pending = true
	gen := d.gen
	d.timer = time.AfterFunc(d.window, func() {
		d.mu.Lock()
		stale := gen != d.gen
		if !stale {
			d.pending = false
		}
		d.mu.Unlock()
		if !stale {
			fn()
		}
	})
}

// Cancel drops any pending callback without running it.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	d.pending = false
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Pending reports whether a callback is currently scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}
