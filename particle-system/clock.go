package particle

import (
	"sync"
	"time"
)

// TimeProvider is the wall clock the Clock reads.
type TimeProvider interface {
	Now() time.Time
}

// MonotonicTimeProvider reads time.Now, which carries a monotonic reading.
type MonotonicTimeProvider struct{}

// Now returns the current time.
func (MonotonicTimeProvider) Now() time.Time {
	return time.Now()
}

// ManualTimeProvider provides a controllable time source for tests and headless runs.
type ManualTimeProvider struct {
	mu          sync.RWMutex
	currentTime time.Time
}

// NewManualTimeProvider creates a provider stopped at start.
func NewManualTimeProvider(start time.Time) *ManualTimeProvider {
	return &ManualTimeProvider{currentTime: start}
}

// Now returns the current mocked time.
func (m *ManualTimeProvider) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentTime
}

// Set sets the current time.
func (m *ManualTimeProvider) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentTime = t
}

// Advance moves the current time forward by d.
func (m *ManualTimeProvider) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentTime = m.currentTime.Add(d)
}

// Clock turns wall clock readings into simulation time. Simulation time never
// goes backwards: a reading earlier than the previous one yields a zero delta.
type Clock struct {
	provider TimeProvider
	last     time.Time
	started  bool
	time     float64
	ticks    uint64
}

// NewClock creates a clock on top of tp, or the monotonic clock when tp is nil.
func NewClock(tp TimeProvider) *Clock {
	if tp == nil {
		tp = MonotonicTimeProvider{}
	}
	return &Clock{provider: tp}
}

// Tick samples the provider and returns the seconds elapsed since the previous tick.
// The first tick returns 0.
func (c *Clock) Tick() float64 {
	now := c.provider.Now()
	var dt float64
	if c.started {
		if d := now.Sub(c.last); d > 0 {
			dt = d.Seconds()
		}
	}
	if !c.started || now.After(c.last) {
		c.last = now
	}
	c.started = true
	c.time += dt
	c.ticks++
	return dt
}

// Time returns the accumulated simulation time in seconds.
func (c *Clock) Time() float64 {
	return c.time
}

// Ticks returns how many times Tick was called.
func (c *Clock) Ticks() uint64 {
	return c.ticks
}
