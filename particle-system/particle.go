package particle

import "math"

// Particle defines the general components of the particle system.
// Its state is only written by the pool that owns it; renderers get read access.
type Particle struct {
	x, y      float64
	vx, vy    float64
	direction float64
	accel     float64

	rotation      float64
	rotationSpeed float64
	spin          bool

	size   float64
	shrink float64

	alpha float64
	fade  float64

	age      int
	lifespan float64

	phase         float64
	swayAmplitude float64
	swayFrequency float64

	gradient    Gradient
	colorT      float64
	colorByLife bool
	shape       string

	// erratic flight
	ax, ay         float64
	baseAlpha      float64
	pulseSpeed     float64
	pulseOffset    float64
	maxPause       float64
	pauseRemaining float64
	changeInterval float64
	lastChange     int
}

// reset redraws every field from the species table and zeroes the age.
// The draw order is fixed; tests with a SequenceRand rely on it.
func (p *Particle) reset(s *Species, b Bounds, rnd Rand) {
	*p = Particle{}

	p.x, p.y = s.Region.point(b, rnd)
	p.size = s.Size.draw(rnd)
	p.shrink = 1
	if !s.Shrink.isZero() {
		p.shrink = s.Shrink.draw(rnd)
	}
	p.alpha = s.Alpha.draw(rnd)
	p.fade = s.Fade
	p.vx = s.SpeedX.draw(rnd)
	p.vy = s.SpeedY.draw(rnd)
	p.direction = 1
	if rnd.Float64() <= 0.5 {
		p.direction = -1
	}
	p.accel = s.Accel
	if p.accel == 0 {
		p.accel = 1
	}
	p.lifespan = s.Lifespan.draw(rnd)

	p.swayAmplitude = s.SwayAmplitude.draw(rnd)
	p.swayFrequency = s.SwayFrequency.draw(rnd)
	p.phase = s.Phase.draw(rnd)
	p.rotation = rnd.Float64() * 2 * math.Pi
	p.rotationSpeed = s.RotationSpeed.draw(rnd)

	shape := s.pickShape(rnd)
	p.shape = shape.Name
	p.spin = shape.Spin

	p.gradient, p.colorT = s.Color.pick(rnd)
	p.colorByLife = s.Color.Mode == ColorLife

	if s.Motion == MotionErratic {
		p.baseAlpha = p.alpha
		p.pulseSpeed = s.Erratic.PulseSpeed.draw(rnd)
		p.pulseOffset = rnd.Float64() * 2 * math.Pi
		p.maxPause = s.Erratic.MaxPause.draw(rnd)
		p.changeInterval = s.Erratic.ChangeInterval.draw(rnd)
	}
}

// live reports whether the particle may be drawn as it is.
func (p *Particle) live(s *Species) bool {
	if float64(p.age) > p.lifespan {
		return false
	}
	if p.size < s.MinSize || p.size <= 0 {
		return false
	}
	if p.alpha <= 0 || p.alpha < s.MinAlpha {
		return false
	}
	return finite(p.x) && finite(p.y) && finite(p.size) && finite(p.alpha)
}

// X retrieve the particle position on the {x} axis.
func (p *Particle) X() float64 {
	return p.x
}

// Y retrieve the particle position on the {y} axis.
func (p *Particle) Y() float64 {
	return p.y
}

// Vx get the particle velocity on the {x} axis.
func (p *Particle) Vx() float64 {
	return p.vx
}

// Vy get the particle velocity on the {y} axis.
func (p *Particle) Vy() float64 {
	return p.vy
}

// Rotation returns the orientation in radians.
func (p *Particle) Rotation() float64 {
	return p.rotation
}

// Size returns the current particle size.
func (p *Particle) Size() float64 {
	return p.size
}

// Alpha returns the opacity in [0, 1].
func (p *Particle) Alpha() float64 {
	return p.alpha
}

// Age get the particle age in ticks.
func (p *Particle) Age() int {
	return p.age
}

// Lifespan returns the number of ticks the particle may live.
func (p *Particle) Lifespan() float64 {
	return p.lifespan
}

// LifeRatio returns age/lifespan clamped to [0, 1].
func (p *Particle) LifeRatio() float64 {
	if p.lifespan <= 0 {
		return 1
	}
	return clamp01(float64(p.age) / p.lifespan)
}

// Color returns the colour for the current draw.
func (p *Particle) Color() RGB {
	t := p.colorT
	if p.colorByLife {
		t = p.LifeRatio()
	}
	return p.gradient.From.Blend(p.gradient.To, t)
}

// Shape returns the silhouette tag picked at reset.
func (p *Particle) Shape() string {
	return p.shape
}

// Phase returns the sway phase offset, handy as a per particle seed for renderers.
func (p *Particle) Phase() float64 {
	return p.phase
}

// Paused reports whether an erratic particle is resting.
func (p *Particle) Paused() bool {
	return p.pauseRemaining > 0
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
