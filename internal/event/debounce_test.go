package event

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncerCoalescesBurst(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)

	var fired atomic.Int32
	for i := 0; i < 10; i++ {
		d.Trigger(func() { fired.Add(1) })
	}

	time.Sleep(100 * time.Millisecond)

	if got := fired.Load(); got != 1 {
		t.Errorf("burst of 10 triggers fired %d times, want 1", got)
	}
}

func TestDebouncerCancel(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)

	var fired atomic.Int32
	d.Trigger(func() { fired.Add(1) })
	if !d.Pending() {
		t.Error("Pending() = false after Trigger")
	}

	d.Cancel()
	if d.Pending() {
		t.Error("Pending() = true after Cancel")
	}

	time.Sleep(60 * time.Millisecond)
	if got := fired.Load(); got != 0 {
		t.Errorf("fired %d times after Cancel, want 0", got)
	}
}

func TestDebouncerZeroWindowFiresImmediately(t *testing.T) {
	d := NewDebouncer(0)

	fired := 0
	d.Trigger(func() { fired++ })
	d.Trigger(func() { fired++ })

	if fired != 2 {
		t.Errorf("zero-window debouncer fired %d times, want 2", fired)
	}
}

func TestDebouncerSeparateBursts(t *testing.T) {
	d := NewDebouncer(10 * time.Millisecond)

	var fired atomic.Int32
	d.Trigger(func() { fired.Add(1) })
	time.Sleep(50 * time.Millisecond)
	d.Trigger(func() { fired.Add(1) })
	time.Sleep(50 * time.Millisecond)

	if got := fired.Load(); got != 2 {
		t.Errorf("two separated triggers fired %d times, want 2", got)
	}
}
