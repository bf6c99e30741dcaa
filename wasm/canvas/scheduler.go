//go:build js && wasm
// +build js,wasm

package canvas

import (
	"sync"
	"syscall/js"
)

// RAFScheduler runs driver ticks on the browser's requestAnimationFrame.
type RAFScheduler struct {
	window js.Value

	mu        sync.Mutex
	pending   func()
	id        js.Value
	cancelled bool
	cb        js.Func
}

// NewRAFScheduler creates a scheduler bound to the global window.
func NewRAFScheduler() *RAFScheduler {
	s := &RAFScheduler{window: js.Global()}
	s.cb = js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		s.mu.Lock()
		fn := s.pending
		s.pending = nil
		s.id = js.Undefined()
		s.mu.Unlock()
		if fn != nil {
			fn()
		}
		return nil
	})
	return s
}

// Schedule implements particle.Scheduler.
func (s *RAFScheduler) Schedule(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelled {
		return
	}
	s.pending = fn
	if s.id.IsUndefined() {
		s.id = s.window.Call("requestAnimationFrame", s.cb)
	}
}

// Cancel implements particle.Scheduler.
func (s *RAFScheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelled {
		return
	}
	s.cancelled = true
	s.pending = nil
	if !s.id.IsUndefined() {
		s.window.Call("cancelAnimationFrame", s.id)
		s.id = js.Undefined()
	}
	s.cb.Release()
}
