package particle

import (
	"errors"
	"fmt"
)

// ErrInvalidBounds is returned for a surface without area.
var ErrInvalidBounds = errors.New("invalid surface bounds")

// Bounds is the size of the drawing surface in surface units.
type Bounds struct {
	Width, Height float64
}

func (b Bounds) validate() error {
	if !(b.Width > 0) || !(b.Height > 0) || !finite(b.Width) || !finite(b.Height) {
		return fmt.Errorf("%w: %vx%v", ErrInvalidBounds, b.Width, b.Height)
	}
	return nil
}

// Renderer turns particles into pixels. It must treat the particle as read-only.
type Renderer interface {
	Draw(p *Particle, v Visual)
}

// Pool owns the fixed population of one species.
type Pool struct {
	species   Species
	bounds    Bounds
	rnd       Rand
	particles []Particle
	resets    uint64
}

// NewPool validates the species and spawns exactly Count particles inside bounds.
// A nil rnd uses a clock seeded source.
func NewPool(s Species, b Bounds, rnd Rand) (*Pool, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if err := b.validate(); err != nil {
		return nil, err
	}
	if rnd == nil {
		rnd = NewRand()
	}
	s.Shapes = append([]Shape(nil), s.Shapes...)
	s.Color.Gradients = append([]Gradient(nil), s.Color.Gradients...)

	pl := &Pool{
		species:   s,
		bounds:    b,
		rnd:       rnd,
		particles: make([]Particle, s.Count),
	}
	for i := range pl.particles {
		pl.particles[i].reset(&pl.species, pl.bounds, pl.rnd)
	}
	return pl, nil
}

// Step advances every particle by one tick. Expired particles are reset in place and
// only start moving on the next tick; the others move, feel the impulse field if it is
// active and are recycled (or wrapped) when they leave the surface or degenerate.
func (pl *Pool) Step(dt, simTime float64, impulse *ImpulseField) {
	s := &pl.species
	push := impulse.Active()

	for i := range pl.particles {
		p := &pl.particles[i]
		p.age++
		if !p.live(s) {
			pl.recycle(p)
			continue
		}

		// A pause ending on this tick still holds the particle in place.
		paused := p.Paused()
		advance(p, s, pl.rnd, simTime)
		if push && !paused {
			impulse.Apply(p)
		}

		if pl.crossed(p) || !p.live(s) {
			pl.recycle(p)
		}
	}
}

// crossed applies the boundary policy. It wraps the particle when the species
// wraps and reports whether the particle must be recycled otherwise.
func (pl *Pool) crossed(p *Particle) bool {
	bd := pl.species.Boundary
	m := bd.Margin
	w, h := pl.bounds.Width, pl.bounds.Height

	if bd.Wrap {
		if p.x < -m {
			p.x = w + m
		} else if p.x > w+m {
			p.x = -m
		}
		if p.y < -m {
			p.y = h + m
		} else if p.y > h+m {
			p.y = -m
		}
		return false
	}

	switch {
	case bd.Bottom && p.y > h+m:
		return true
	case bd.Top && p.y < -m:
		return true
	case bd.Sides && (p.x < -m || p.x > w+m):
		return true
	}
	return false
}

func (pl *Pool) recycle(p *Particle) {
	p.reset(&pl.species, pl.bounds, pl.rnd)
	pl.resets++
}

// Draw hands every particle to r together with the species visual config.
func (pl *Pool) Draw(r Renderer) {
	for i := range pl.particles {
		r.Draw(&pl.particles[i], pl.species.Visual)
	}
}

// Len returns the population size. It never changes after NewPool.
func (pl *Pool) Len() int {
	return len(pl.particles)
}

// At returns the i-th particle.
func (pl *Pool) At(i int) *Particle {
	return &pl.particles[i]
}

// Species returns a copy of the species table.
func (pl *Pool) Species() Species {
	return pl.species
}

// Bounds returns the current surface bounds.
func (pl *Pool) Bounds() Bounds {
	return pl.bounds
}

// SetBounds updates the surface used for spawning and recycling.
// Particles already on screen keep their positions.
func (pl *Pool) SetBounds(b Bounds) error {
	if err := b.validate(); err != nil {
		return err
	}
	pl.bounds = b
	return nil
}

// Resets returns how many particles were recycled since construction.
func (pl *Pool) Resets() uint64 {
	return pl.resets
}
