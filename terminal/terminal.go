package terminal

import (
	"context"
	"math"
	"sync"

	particle "github.com/esimov/ascii-seasons/particle-system"
	"go.uber.org/zap"
)

// Every cell covers CellWidth x CellHeight surface units, so the effects keep the
// proportions they were tuned for on a pixel canvas.
const (
	CellWidth  = 8.0
	CellHeight = 16.0
)

// fadeOut is the brightness under which a trailing cell is cleared.
const fadeOut = 0.04

type cell struct {
	ch  rune
	fg  particle.RGB
	lit float64
}

// Terminal renders particle frames as coloured glyphs and feeds pointer clicks
// and resizes back to the driver.
type Terminal struct {
	screen  Screen
	profile particle.Profile
	log     *zap.SugaredLogger

	mu       sync.Mutex
	backbuf  []cell
	bbw, bbh int
	closed   bool
	simTime  float64
}

// New creates a terminal renderer for the given effect on top of screen.
func New(screen Screen, profile particle.Profile, log *zap.SugaredLogger) *Terminal {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Terminal{
		screen:  screen,
		profile: profile,
		log:     log,
	}
}

// Open initialises the screen and returns its size in surface units.
func (t *Terminal) Open() (particle.Bounds, error) {
	if err := t.screen.Init(); err != nil {
		return particle.Bounds{}, err
	}
	w, h := t.screen.Size()
	t.reallocBackBuffer(w, h)
	return SurfaceBounds(w, h), nil
}

// Run animates d on the screen until ctx is done or the user quits with Esc, q or Ctrl-C.
// The screen must have been opened.
func (t *Terminal) Run(ctx context.Context, d *particle.Driver) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	d.OnFrame(t.Render)

	polled := make(chan struct{})
	go func() {
		defer close(polled)
		t.poll(cancel, d)
	}()

	d.Start()
	<-ctx.Done()
	d.Stop()

	t.screen.Interrupt()
	<-polled

	t.mu.Lock()
	t.closed = true
	t.screen.Close()
	t.mu.Unlock()
	return nil
}

func (t *Terminal) poll(quit context.CancelFunc, d *particle.Driver) {
	for {
		ev := t.screen.PollEvent()
		switch ev.Type {
		case EventQuit:
			t.log.Infow("quit requested")
			quit()
		case EventInterrupt:
			return
		case EventClick:
			x, y := CellCenter(ev.X, ev.Y)
			t.log.Debugw("click", "col", ev.X, "row", ev.Y, "x", x, "y", y)
			d.Trigger(x, y)
		case EventResize:
			t.mu.Lock()
			t.reallocBackBuffer(ev.Width, ev.Height)
			t.mu.Unlock()
			b := SurfaceBounds(ev.Width, ev.Height)
			t.log.Debugw("resize", "cols", ev.Width, "rows", ev.Height)
			d.Resize(b.Width, b.Height)
		}
	}
}

func (t *Terminal) reallocBackBuffer(w, h int) {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	t.bbw, t.bbh = w, h
	t.backbuf = make([]cell, w*h)
}

// Render fades the previous frame into the background, draws f on top and flushes.
func (t *Terminal) Render(f particle.Frame) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}

	t.simTime = f.Time
	t.fade()
	f.Draw(t)
	t.redraw()
}

// fade moves every lit cell towards the background, the way the canvas effects
// paint a translucent background rectangle over the previous frame.
func (t *Terminal) fade() {
	trail := t.profile.Trail
	if trail <= 0 {
		trail = 1
	}
	for i := range t.backbuf {
		c := &t.backbuf[i]
		if c.lit == 0 {
			continue
		}
		c.lit *= 1 - trail
		c.fg = c.fg.Blend(t.profile.Background, trail)
		if c.lit < fadeOut {
			*c = cell{}
		}
	}
}

// Draw implements particle.Renderer.
func (t *Terminal) Draw(p *particle.Particle, v particle.Visual) {
	col, row, ok := t.cellOf(p.X(), p.Y())
	if !ok {
		return
	}
	alpha := v.Opacity(p, t.simTime)
	if v.Core {
		alpha = math.Min(1, alpha*1.2)
	}
	t.plot(col, row, Glyph(p.Shape(), p.Size(), p.Rotation(), alpha), p.Color(), alpha)

	if v.Glow <= 0 {
		return
	}
	halo := p.Size() * v.Glow
	if halo < CellWidth {
		return
	}
	for _, d := range [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
		c, r := col+d[0], row+d[1]
		if c < 0 || r < 0 || c >= t.bbw || r >= t.bbh {
			continue
		}
		t.plot(c, r, '·', p.Color(), alpha*0.25)
	}
}

// plot keeps the brighter of the existing and the new glyph.
func (t *Terminal) plot(col, row int, ch rune, c particle.RGB, alpha float64) {
	cur := &t.backbuf[row*t.bbw+col]
	if alpha <= cur.lit {
		return
	}
	*cur = cell{ch: ch, fg: t.backgroundAt(col, row).Blend(c, alpha), lit: alpha}
}

func (t *Terminal) cellOf(x, y float64) (int, int, bool) {
	if math.IsNaN(x) || math.IsNaN(y) || x < 0 || y < 0 {
		return 0, 0, false
	}
	// Compare before converting: huge floats do not fit an int.
	if x >= float64(t.bbw)*CellWidth || y >= float64(t.bbh)*CellHeight {
		return 0, 0, false
	}
	return int(x / CellWidth), int(y / CellHeight), true
}

// backgroundAt returns the background colour of a cell including the effect glow.
func (t *Terminal) backgroundAt(col, row int) particle.RGB {
	bg := t.profile.Background
	g := t.profile.Glow
	if g.Radius <= 0 {
		return bg
	}
	cx := g.AnchorX * float64(t.bbw) * CellWidth
	cy := g.AnchorY * float64(t.bbh) * CellHeight
	x, y := CellCenter(col, row)
	d := math.Hypot(x-cx, y-cy)
	if d >= g.Radius {
		return bg
	}
	return bg.Blend(g.Color, 0.3*(1-d/g.Radius))
}

func (t *Terminal) redraw() {
	for row := 0; row < t.bbh; row++ {
		for col := 0; col < t.bbw; col++ {
			bg := t.backgroundAt(col, row)
			c := t.backbuf[row*t.bbw+col]
			if c.lit == 0 {
				t.screen.SetCell(col, row, ' ', bg, bg)
				continue
			}
			t.screen.SetCell(col, row, c.ch, c.fg, bg)
		}
	}
	if err := t.screen.Flush(); err != nil {
		t.log.Warnw("flush failed", "error", err)
	}
}

// SurfaceBounds converts a screen size in cells to surface units.
func SurfaceBounds(cols, rows int) particle.Bounds {
	return particle.Bounds{Width: float64(cols) * CellWidth, Height: float64(rows) * CellHeight}
}

// CellCenter returns the surface position of the middle of a cell.
func CellCenter(col, row int) (float64, float64) {
	return (float64(col) + 0.5) * CellWidth, (float64(row) + 0.5) * CellHeight
}

var (
	flameRamp = []rune("░▒▓█")
	spinRamp  = []rune("|/-\\")
	crystals  = []rune("+x")
)

// Glyph picks the character that stands for a particle.
func Glyph(shape string, size, rotation, alpha float64) rune {
	switch shape {
	case particle.ShapeFlame:
		i := int(size / 18 * float64(len(flameRamp)))
		if i >= len(flameRamp) {
			i = len(flameRamp) - 1
		}
		return flameRamp[i]
	case particle.ShapeEmber:
		if size > 1.5 {
			return '*'
		}
		return '.'
	case particle.ShapeCrystal:
		return crystals[quadrant(rotation, len(crystals))]
	case particle.ShapePetal:
		return spinRamp[quadrant(rotation, len(spinRamp))]
	case particle.ShapeMaple:
		return '%'
	case particle.ShapeGinkgo:
		return '&'
	case particle.ShapeFirefly:
		if alpha > 0.6 {
			return '•'
		}
		return '·'
	}
	switch {
	case size > 5:
		return 'o'
	case size > 3:
		return '*'
	}
	return '.'
}

// quadrant buckets a rotation into n sectors of a half turn.
func quadrant(rotation float64, n int) int {
	sector := math.Pi / float64(n)
	i := int(math.Floor(rotation/sector)) % n
	if i < 0 {
		i += n
	}
	return i
}
