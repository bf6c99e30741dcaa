package particle

import (
	"sync"
	"time"
)

// Scheduler runs a callback once at the next frame, the way requestAnimationFrame does.
// A driver re-registers itself from inside the callback to keep animating.
type Scheduler interface {
	// Schedule registers fn for the next frame, replacing any pending callback.
	Schedule(fn func())
	// Cancel drops the pending callback and refuses new ones.
	Cancel()
}

// TickerScheduler fires callbacks from a single goroutine at a fixed frame rate.
type TickerScheduler struct {
	interval time.Duration

	mu        sync.Mutex
	pending   func()
	started   bool
	cancelled bool
	done      chan struct{}
}

// NewTickerScheduler creates a scheduler targeting fps frames per second.
func NewTickerScheduler(fps int) *TickerScheduler {
	if fps <= 0 {
		fps = 60
	}
	return &TickerScheduler{
		interval: time.Second / time.Duration(fps),
		done:     make(chan struct{}),
	}
}

// Schedule implements Scheduler.
func (ts *TickerScheduler) Schedule(fn func()) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if ts.cancelled {
		return
	}
	ts.pending = fn
	if !ts.started {
		ts.started = true
		go ts.loop()
	}
}

// Cancel implements Scheduler.
func (ts *TickerScheduler) Cancel() {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if ts.cancelled {
		return
	}
	ts.cancelled = true
	ts.pending = nil
	close(ts.done)
}

func (ts *TickerScheduler) loop() {
	ticker := time.NewTicker(ts.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ts.done:
			return
		case <-ticker.C:
			ts.mu.Lock()
			fn := ts.pending
			ts.pending = nil
			ts.mu.Unlock()
			if fn != nil {
				fn()
			}
		}
	}
}

// ManualScheduler only fires when told to. Tests and the headless report use it.
type ManualScheduler struct {
	mu        sync.Mutex
	pending   func()
	cancelled bool
}

// NewManualScheduler creates an idle ManualScheduler.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// Schedule implements Scheduler.
func (ms *ManualScheduler) Schedule(fn func()) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if !ms.cancelled {
		ms.pending = fn
	}
}

// Cancel implements Scheduler.
func (ms *ManualScheduler) Cancel() {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.cancelled = true
	ms.pending = nil
}

// Fire runs the pending callback, if any, and reports whether one ran.
func (ms *ManualScheduler) Fire() bool {
	ms.mu.Lock()
	fn := ms.pending
	ms.pending = nil
	ms.mu.Unlock()
	if fn == nil {
		return false
	}
	fn()
	return true
}

// Pending reports whether a callback is waiting.
func (ms *ManualScheduler) Pending() bool {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.pending != nil
}
