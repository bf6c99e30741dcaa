package particle

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

// ErrStopped is returned when running a driver that has already been stopped.
var ErrStopped = errors.New("driver already stopped")

// Frame is what the tick callbacks see after every pool has been stepped.
type Frame struct {
	Tick    uint64
	Time    float64
	Delta   float64
	Pools   []*Pool
	Impulse ImpulseField
}

// Draw hands every particle of the frame to r, pool by pool.
func (f Frame) Draw(r Renderer) {
	for _, pl := range f.Pools {
		pl.Draw(r)
	}
}

// Option configures a Driver.
type Option func(*Driver)

// WithTimeProvider replaces the wall clock.
func WithTimeProvider(tp TimeProvider) Option {
	return func(d *Driver) {
		d.clock = NewClock(tp)
	}
}

// WithLogger sets the driver logger.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(d *Driver) {
		if log != nil {
			d.log = log
		}
	}
}

// WithImpulse replaces the impulse field, e.g. to retune radius or strength.
func WithImpulse(f *ImpulseField) Option {
	return func(d *Driver) {
		if f != nil {
			d.impulse = f
		}
	}
}

// WithSpikeThreshold logs every frame whose delta exceeds seconds.
// The step itself is never split.
func WithSpikeThreshold(seconds float64) Option {
	return func(d *Driver) {
		d.spike = seconds
	}
}

type inputKind int

const (
	inputTrigger inputKind = iota
	inputResize
)

type input struct {
	kind inputKind
	x, y float64
}

// Driver is the cooperative animation loop. Each scheduled invocation samples the
// clock once, applies queued pointer and resize input, steps every pool exactly once
// and calls the frame callbacks before re-registering itself.
// A driver is single use: once stopped it never ticks again.
type Driver struct {
	sched   Scheduler
	clock   *Clock
	impulse *ImpulseField
	pools   []*Pool
	onFrame []func(Frame)
	log     *zap.SugaredLogger
	spike   float64

	mu      sync.Mutex
	inbox   []input
	running bool
	stopped bool
	ticks   uint64
	simTime float64
}

// NewDriver creates a stopped driver on top of sched.
func NewDriver(sched Scheduler, opts ...Option) *Driver {
	d := &Driver{
		sched:   sched,
		clock:   NewClock(nil),
		impulse: NewImpulseField(),
		log:     zap.NewNop().Sugar(),
		spike:   0.25,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Register adds pools to the loop. Must be called before Start.
func (d *Driver) Register(pools ...*Pool) {
	for _, pl := range pools {
		d.pools = append(d.pools, pl)
		d.log.Debugw("pool registered", "species", pl.species.Name, "count", pl.Len())
	}
}

// OnFrame adds a callback invoked after each tick. Must be called before Start.
func (d *Driver) OnFrame(fn func(Frame)) {
	d.onFrame = append(d.onFrame, fn)
}

// Pools returns the registered pools.
func (d *Driver) Pools() []*Pool {
	return d.pools
}

// Impulse returns the shared impulse field.
func (d *Driver) Impulse() *ImpulseField {
	return d.impulse
}

// Start schedules the first tick. It does nothing on a stopped driver.
func (d *Driver) Start() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		d.log.Warnw("start ignored", "error", ErrStopped)
		return
	}
	if d.running {
		d.mu.Unlock()
		return
	}
	d.running = true
	d.mu.Unlock()

	d.log.Infow("animation started", "pools", len(d.pools))
	d.sched.Schedule(d.frame)
}

// Stop halts the whole loop for good; no pool is stepped afterwards.
func (d *Driver) Stop() {
	d.mu.Lock()
	wasRunning := d.running
	d.running = false
	d.stopped = true
	ticks, simTime := d.ticks, d.simTime
	d.mu.Unlock()

	d.sched.Cancel()
	if wasRunning {
		d.log.Infow("animation stopped", "ticks", ticks, "time", simTime)
	}
}

// Run starts the loop and blocks until ctx is done.
func (d *Driver) Run(ctx context.Context) error {
	if d.Stopped() {
		return ErrStopped
	}
	d.Start()
	<-ctx.Done()
	d.Stop()
	return ctx.Err()
}

// Running reports whether the loop is scheduled.
func (d *Driver) Running() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.running
}

// Stopped reports whether Stop has been called.
func (d *Driver) Stopped() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stopped
}

// Trigger queues a pointer impulse at {x, y}. Safe to call from any goroutine;
// the impulse applies from the next tick.
func (d *Driver) Trigger(x, y float64) {
	if !finite(x) || !finite(y) {
		return
	}
	d.enqueue(input{kind: inputTrigger, x: x, y: y})
}

// Resize queues new surface bounds. Safe to call from any goroutine.
func (d *Driver) Resize(width, height float64) {
	d.enqueue(input{kind: inputResize, x: width, y: height})
}

func (d *Driver) enqueue(in input) {
	d.mu.Lock()
	d.inbox = append(d.inbox, in)
	d.mu.Unlock()
}

func (d *Driver) frame() {
	if !d.Running() {
		return
	}
	d.Tick()
	if d.Running() {
		d.sched.Schedule(d.frame)
	}
}

// Tick performs one cooperative step and returns the resulting frame.
func (d *Driver) Tick() Frame {
	dt := d.clock.Tick()
	if d.spike > 0 && dt > d.spike {
		d.log.Debugw("large frame delta", "dt", dt, "tick", d.clock.Ticks())
	}

	d.drain()
	d.impulse.Advance(dt)

	now := d.clock.Time()
	for _, pl := range d.pools {
		pl.Step(dt, now, d.impulse)
	}

	f := Frame{
		Tick:    d.clock.Ticks(),
		Time:    now,
		Delta:   dt,
		Pools:   d.pools,
		Impulse: *d.impulse,
	}
	d.mu.Lock()
	d.ticks, d.simTime = f.Tick, f.Time
	d.mu.Unlock()

	for _, fn := range d.onFrame {
		fn(f)
	}
	return f
}

func (d *Driver) drain() {
	d.mu.Lock()
	pending := d.inbox
	d.inbox = nil
	d.mu.Unlock()

	for _, in := range pending {
		switch in.kind {
		case inputTrigger:
			d.impulse.Trigger(in.x, in.y)
			d.log.Debugw("impulse triggered", "x", in.x, "y", in.y)
		case inputResize:
			b := Bounds{Width: in.x, Height: in.y}
			for _, pl := range d.pools {
				if err := pl.SetBounds(b); err != nil {
					d.log.Warnw("resize ignored", "error", err)
					break
				}
			}
		}
	}
}
