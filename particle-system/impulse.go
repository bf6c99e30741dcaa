package particle

import "math"

// Impulse defaults, in surface units and seconds.
const (
	DefaultImpulseRadius   = 300.0
	DefaultImpulseDuration = 2.0
	DefaultImpulseStrength = 5.0
	DefaultImpulseLift     = 0.5
	DefaultImpulseSpin     = 0.1
)

// ImpulseField is the puff of air left by a pointer click. Its push fades linearly
// with the distance from the origin and with the time since the trigger.
type ImpulseField struct {
	Radius   float64
	Duration float64
	Strength float64
	// Lift is the extra upward push as a fraction of the influence.
	Lift float64
	// Spin is the added rotation as a fraction of the influence.
	Spin float64

	originX, originY float64
	elapsed          float64
	armed            bool
}

// NewImpulseField returns a dormant field with the default tuning.
func NewImpulseField() *ImpulseField {
	return &ImpulseField{
		Radius:   DefaultImpulseRadius,
		Duration: DefaultImpulseDuration,
		Strength: DefaultImpulseStrength,
		Lift:     DefaultImpulseLift,
		Spin:     DefaultImpulseSpin,
	}
}

// Trigger restarts the field at {x, y}.
func (f *ImpulseField) Trigger(x, y float64) {
	f.originX, f.originY = x, y
	f.elapsed = 0
	f.armed = true
}

// Advance moves the field clock by dt seconds.
func (f *ImpulseField) Advance(dt float64) {
	if !f.armed {
		return
	}
	f.elapsed += dt
	if f.elapsed >= f.Duration {
		f.armed = false
	}
}

// Active reports whether the field still pushes particles.
func (f *ImpulseField) Active() bool {
	return f != nil && f.armed && f.elapsed < f.Duration
}

// Origin returns the last trigger point.
func (f *ImpulseField) Origin() (float64, float64) {
	return f.originX, f.originY
}

// Elapsed returns the seconds since the last trigger.
func (f *ImpulseField) Elapsed() float64 {
	return f.elapsed
}

// Influence returns the push strength felt at distance d, 0 outside the field.
func (f *ImpulseField) Influence(d float64) float64 {
	if !f.Active() || d >= f.Radius {
		return 0
	}
	timeInfluence := 1 - f.elapsed/f.Duration
	distanceInfluence := 1 - d/f.Radius
	return timeInfluence * distanceInfluence * f.Strength
}

// Apply pushes p away from the origin and returns the radial displacement.
// A particle sitting exactly on the origin has no bearing and is left in place.
func (f *ImpulseField) Apply(p *Particle) float64 {
	dx := p.x - f.originX
	dy := p.y - f.originY
	d := math.Hypot(dx, dy)
	if d == 0 {
		return 0
	}
	influence := f.Influence(d)
	if influence <= 0 {
		return 0
	}
	p.x += dx / d * influence
	p.y += dy / d * influence
	p.y -= influence * f.Lift
	p.rotation += influence * f.Spin
	return influence
}
