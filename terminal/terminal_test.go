package terminal

import (
	"context"
	"sync"
	"testing"
	"time"

	particle "github.com/esimov/ascii-seasons/particle-system"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memScreen struct {
	w, h   int
	cells  map[[2]int]rune
	fgs    map[[2]int]particle.RGB
	events chan Event

	mu      sync.Mutex
	flushes int
}

func newMemScreen(w, h int) *memScreen {
	return &memScreen{
		w: w, h: h,
		cells:  make(map[[2]int]rune),
		fgs:    make(map[[2]int]particle.RGB),
		events: make(chan Event, 8),
	}
}

func (m *memScreen) Init() error      { return nil }
func (m *memScreen) Close()           {}
func (m *memScreen) Size() (int, int) { return m.w, m.h }
func (m *memScreen) Interrupt()       { m.events <- Event{Type: EventInterrupt} }
func (m *memScreen) PollEvent() Event { return <-m.events }

func (m *memScreen) SetCell(x, y int, ch rune, fg, bg particle.RGB) {
	m.cells[[2]int{x, y}] = ch
	m.fgs[[2]int{x, y}] = fg
}

func (m *memScreen) Flush() error {
	m.mu.Lock()
	m.flushes++
	m.mu.Unlock()
	return nil
}

func (m *memScreen) flushCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.flushes
}

func dot() particle.Species {
	return particle.Species{
		Name:     "dot",
		Count:    1,
		Motion:   particle.MotionFall,
		Region:   particle.SpawnRegion{OffsetX: particle.Fixed(20), OffsetY: particle.Fixed(40)},
		Size:     particle.Fixed(2),
		Alpha:    particle.Fixed(1),
		Lifespan: particle.Fixed(1000),
		Color:    particle.ColorRule{Gradients: []particle.Gradient{particle.Solid(particle.RGB{R: 255, G: 255, B: 255})}},
	}
}

func TestRenderPlotsParticle(t *testing.T) {
	screen := newMemScreen(10, 5)
	prof := particle.Profile{Trail: 0.5, Species: []particle.Species{dot()}}
	term := New(screen, prof, nil)
	b, err := term.Open()
	require.NoError(t, err)
	assert.Equal(t, particle.Bounds{Width: 80, Height: 80}, b)

	pools, err := prof.Pools(b, particle.NewSequenceRand(0))
	require.NoError(t, err)

	term.Render(particle.Frame{Pools: pools})
	assert.Equal(t, '.', screen.cells[[2]int{2, 2}])
	assert.Equal(t, particle.RGB{R: 255, G: 255, B: 255}, screen.fgs[[2]int{2, 2}])
	assert.Equal(t, ' ', screen.cells[[2]int{0, 0}])

	// the particle moved away, its old cell fades towards the background
	term.Render(particle.Frame{})
	assert.Equal(t, '.', screen.cells[[2]int{2, 2}])
	assert.Equal(t, particle.RGB{R: 128, G: 128, B: 128}, screen.fgs[[2]int{2, 2}])

	for i := 0; i < 5; i++ {
		term.Render(particle.Frame{})
	}
	assert.Equal(t, ' ', screen.cells[[2]int{2, 2}])
}

func TestRenderSkipsOffscreen(t *testing.T) {
	screen := newMemScreen(4, 4)
	s := dot()
	s.Region.OffsetX = particle.Fixed(-5)
	prof := particle.Profile{Species: []particle.Species{s}}
	term := New(screen, prof, nil)
	b, err := term.Open()
	require.NoError(t, err)
	pools, err := prof.Pools(b, particle.NewSequenceRand(0))
	require.NoError(t, err)

	term.Render(particle.Frame{Pools: pools})
	for _, ch := range screen.cells {
		assert.Equal(t, ' ', ch)
	}
}

func TestRenderSkipsHugeCoordinates(t *testing.T) {
	screen := newMemScreen(4, 4)
	s := dot()
	s.Region.OffsetX = particle.Fixed(1e300)
	s.Region.OffsetY = particle.Fixed(1e19)
	prof := particle.Profile{Species: []particle.Species{s}}
	term := New(screen, prof, nil)
	b, err := term.Open()
	require.NoError(t, err)
	pools, err := prof.Pools(b, particle.NewSequenceRand(0))
	require.NoError(t, err)

	assert.NotPanics(t, func() { term.Render(particle.Frame{Pools: pools}) })
	for _, ch := range screen.cells {
		assert.Equal(t, ' ', ch)
	}
}

func TestRunForwardsInput(t *testing.T) {
	screen := newMemScreen(20, 10)
	prof := particle.Profile{Trail: 0.2, Species: []particle.Species{dot()}}
	term := New(screen, prof, nil)
	b, err := term.Open()
	require.NoError(t, err)
	pools, err := prof.Pools(b, nil)
	require.NoError(t, err)

	d := particle.NewDriver(particle.NewTickerScheduler(200))
	d.Register(pools...)

	// Pool state is only read on the driver goroutine.
	applied := make(chan struct{})
	var once sync.Once
	d.OnFrame(func(f particle.Frame) {
		if f.Impulse.Active() && f.Pools[0].Bounds() == SurfaceBounds(40, 12) {
			once.Do(func() { close(applied) })
		}
	})

	done := make(chan error)
	go func() { done <- term.Run(context.Background(), d) }()

	screen.events <- Event{Type: EventResize, Width: 40, Height: 12}
	screen.events <- Event{Type: EventClick, X: 3, Y: 4}
	select {
	case <-applied:
	case <-time.After(time.Second):
		t.Fatal("resize and click never reached the driver")
	}
	assert.NotZero(t, screen.flushCount())

	screen.events <- Event{Type: EventQuit}
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("terminal did not stop")
	}
	assert.False(t, d.Running())
}

func TestGlyph(t *testing.T) {
	assert.Equal(t, '█', Glyph(particle.ShapeFlame, 18, 0, 1))
	assert.Equal(t, '░', Glyph(particle.ShapeFlame, 1, 0, 1))
	assert.Equal(t, '|', Glyph(particle.ShapePetal, 0.1, 0.1, 1))
	assert.Equal(t, '-', Glyph(particle.ShapePetal, 0.1, 1.6, 1))
	assert.Equal(t, '|', Glyph(particle.ShapePetal, 0.1, -3.1, 1))
	assert.Equal(t, '•', Glyph(particle.ShapeFirefly, 2, 0, 0.9))
	assert.Equal(t, 'o', Glyph("", 6, 0, 1))
}

func TestCellMapping(t *testing.T) {
	x, y := CellCenter(2, 3)
	assert.Equal(t, 20.0, x)
	assert.Equal(t, 56.0, y)
	assert.Equal(t, particle.Bounds{Width: 640, Height: 384}, SurfaceBounds(80, 24))
}

func TestIndex256(t *testing.T) {
	assert.Equal(t, uint8(196), Index256(particle.RGB{R: 255}))
	assert.Equal(t, uint8(16), Index256(particle.RGB{}))
	assert.Equal(t, uint8(231), Index256(particle.RGB{R: 255, G: 255, B: 255}))
	assert.Equal(t, uint8(244), Index256(particle.RGB{R: 128, G: 128, B: 128}))
	assert.Equal(t, uint8(208), Index256(particle.RGB{R: 255, G: 135}))
}
