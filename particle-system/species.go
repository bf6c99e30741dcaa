package particle

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidSpecies is returned when a species table cannot produce well formed particles.
var ErrInvalidSpecies = errors.New("invalid species")

// MotionProfile selects the motion model applied to a species.
type MotionProfile int

const (
	// MotionFall drifts down with a sinusoidal sway (snow, petals, leaves).
	MotionFall MotionProfile = iota
	// MotionRise accelerates upwards while shrinking and fading (flames, embers).
	MotionRise
	// MotionErratic wanders with random accelerations and pauses (fireflies).
	MotionErratic
)

var motionNames = map[MotionProfile]string{
	MotionFall:    "fall",
	MotionRise:    "rise",
	MotionErratic: "erratic",
}

func (m MotionProfile) String() string {
	if s, ok := motionNames[m]; ok {
		return s
	}
	return fmt.Sprintf("MotionProfile(%d)", int(m))
}

// UnmarshalYAML reads the profile from its name.
func (m *MotionProfile) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	for k, v := range motionNames {
		if v == s {
			*m = k
			return nil
		}
	}
	return fmt.Errorf("unknown motion profile %q", s)
}

// MarshalYAML writes the profile name.
func (m MotionProfile) MarshalYAML() (interface{}, error) {
	return m.String(), nil
}

// Range is a uniform draw from [Min, Max). A range with Min == Max is a constant.
type Range struct {
	Min float64 `yaml:"Min"`
	Max float64 `yaml:"Max"`
}

// Fixed returns the constant range {v, v}.
func Fixed(v float64) Range {
	return Range{Min: v, Max: v}
}

// UnmarshalYAML accepts either a {Min, Max} mapping or a bare number.
func (r *Range) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var v float64
	if err := unmarshal(&v); err == nil {
		*r = Fixed(v)
		return nil
	}
	type plain Range
	return unmarshal((*plain)(r))
}

func (r Range) draw(rnd Rand) float64 {
	return between(rnd, r.Min, r.Max)
}

func (r Range) isZero() bool {
	return r.Min == 0 && r.Max == 0
}

func (r Range) validate(field string) error {
	if !finite(r.Min) || !finite(r.Max) {
		return fmt.Errorf("%s range [%v, %v] is not finite", field, r.Min, r.Max)
	}
	if r.Max < r.Min {
		return fmt.Errorf("%s range is inverted: min %v > max %v", field, r.Min, r.Max)
	}
	return nil
}

// SpawnRegion describes where particles appear. Anchors and spans are fractions of the
// surface, offsets are in surface units:
//
//	x = AnchorX*width  + U(0, SpanX*width)  + OffsetX
//	y = AnchorY*height + U(0, SpanY*height) + OffsetY
type SpawnRegion struct {
	AnchorX float64 `yaml:"AnchorX"`
	AnchorY float64 `yaml:"AnchorY"`
	SpanX   float64 `yaml:"SpanX"`
	SpanY   float64 `yaml:"SpanY"`
	OffsetX Range   `yaml:"OffsetX"`
	OffsetY Range   `yaml:"OffsetY"`
}

func (sr SpawnRegion) point(b Bounds, rnd Rand) (float64, float64) {
	x := sr.AnchorX*b.Width + sr.SpanX*b.Width*rnd.Float64() + sr.OffsetX.draw(rnd)
	y := sr.AnchorY*b.Height + sr.SpanY*b.Height*rnd.Float64() + sr.OffsetY.draw(rnd)
	return x, y
}

// Boundary says which surface edges recycle a particle once it is more than Margin
// units past them. With Wrap set the particle re-enters from the opposite edge instead.
type Boundary struct {
	Bottom bool    `yaml:"Bottom"`
	Top    bool    `yaml:"Top"`
	Sides  bool    `yaml:"Sides"`
	Wrap   bool    `yaml:"Wrap"`
	Margin float64 `yaml:"Margin"`
}

// Erratic holds the flight parameters of MotionErratic species.
// Interval and pause lengths are measured in ticks.
type Erratic struct {
	// Accel bounds each re-rolled acceleration component to [-Accel, Accel).
	Accel float64 `yaml:"Accel"`
	// MaxSpeed caps the velocity magnitude.
	MaxSpeed float64 `yaml:"MaxSpeed"`
	// PauseChance is the probability of pausing at a direction change.
	PauseChance float64 `yaml:"PauseChance"`
	// MaxPause is the per particle upper bound of a pause.
	MaxPause Range `yaml:"MaxPause"`
	// ChangeInterval is the number of ticks between direction changes.
	ChangeInterval Range `yaml:"ChangeInterval"`
	// PulseSpeed is the angular speed of the brightness pulse.
	PulseSpeed Range `yaml:"PulseSpeed"`
	// PulseDepth is the alpha swing added on top of the base alpha.
	PulseDepth float64 `yaml:"PulseDepth"`
}

// Shape is a silhouette tag a renderer understands. Spin marks shapes with an orientation.
type Shape struct {
	Name   string  `yaml:"Name"`
	Weight float64 `yaml:"Weight"`
	Spin   bool    `yaml:"Spin"`
}

// Visual is handed to renderers untouched.
type Visual struct {
	// Glow is the halo radius as a multiple of the particle size, 0 for none.
	Glow float64 `yaml:"Glow"`
	// Twinkle is the display-only flicker rate; stored alpha is never modified by it.
	Twinkle float64 `yaml:"Twinkle"`
	// Core draws a bright centre dot.
	Core bool `yaml:"Core"`
}

// Opacity is the alpha a particle is drawn with at simTime. Twinkling species
// flicker around their stored alpha; the particle itself is left untouched.
func (v Visual) Opacity(p *Particle, simTime float64) float64 {
	a := p.Alpha()
	if v.Twinkle > 0 {
		a *= 0.7 + 0.3*math.Sin(simTime*v.Twinkle+p.Phase())
	}
	return clamp01(a)
}

// Species is the parameter table of one particle population.
// Speeds, fades and lifespans are expressed per tick.
type Species struct {
	Name   string        `yaml:"Name"`
	Count  int           `yaml:"Count"`
	Motion MotionProfile `yaml:"Motion"`
	Region SpawnRegion   `yaml:"Region"`

	Size    Range   `yaml:"Size"`
	Shrink  Range   `yaml:"Shrink"`
	MinSize float64 `yaml:"MinSize"`

	Alpha    Range   `yaml:"Alpha"`
	Fade     float64 `yaml:"Fade"`
	MinAlpha float64 `yaml:"MinAlpha"`

	SpeedX Range   `yaml:"SpeedX"`
	SpeedY Range   `yaml:"SpeedY"`
	Accel  float64 `yaml:"Accel"`

	Lifespan Range `yaml:"Lifespan"`

	SwayAmplitude Range `yaml:"SwayAmplitude"`
	SwayFrequency Range `yaml:"SwayFrequency"`
	Phase         Range `yaml:"Phase"`
	RotationSpeed Range `yaml:"RotationSpeed"`

	Erratic  Erratic   `yaml:"Erratic"`
	Color    ColorRule `yaml:"Color"`
	Shapes   []Shape   `yaml:"Shapes"`
	Boundary Boundary  `yaml:"Boundary"`
	Visual   Visual    `yaml:"Visual"`
}

// Validate reports the first problem that would make the species produce
// malformed particles. The returned error wraps ErrInvalidSpecies.
func (s Species) Validate() error {
	if err := s.validate(); err != nil {
		name := s.Name
		if name == "" {
			name = "<unnamed>"
		}
		return fmt.Errorf("%w %s: %v", ErrInvalidSpecies, name, err)
	}
	return nil
}

func (s Species) validate() error {
	if s.Name == "" {
		return errors.New("name is empty")
	}
	if s.Count <= 0 {
		return fmt.Errorf("count %d must be positive", s.Count)
	}
	if _, ok := motionNames[s.Motion]; !ok {
		return fmt.Errorf("unknown motion profile %v", s.Motion)
	}

	ranges := []struct {
		field string
		r     Range
	}{
		{"offset x", s.Region.OffsetX},
		{"offset y", s.Region.OffsetY},
		{"size", s.Size},
		{"shrink", s.Shrink},
		{"alpha", s.Alpha},
		{"speed x", s.SpeedX},
		{"speed y", s.SpeedY},
		{"lifespan", s.Lifespan},
		{"sway amplitude", s.SwayAmplitude},
		{"sway frequency", s.SwayFrequency},
		{"phase", s.Phase},
		{"rotation speed", s.RotationSpeed},
	}
	for _, v := range ranges {
		if err := v.r.validate(v.field); err != nil {
			return err
		}
	}

	if s.Size.Min <= 0 {
		return fmt.Errorf("size must be positive, got min %v", s.Size.Min)
	}
	if s.Size.Min < s.MinSize {
		return fmt.Errorf("size min %v is below the expiry threshold %v", s.Size.Min, s.MinSize)
	}
	if s.Lifespan.Min <= 0 {
		return fmt.Errorf("lifespan must be positive, got min %v", s.Lifespan.Min)
	}
	if s.Alpha.Min <= 0 || s.Alpha.Max > 1 {
		return fmt.Errorf("alpha range [%v, %v] must lie in (0, 1]", s.Alpha.Min, s.Alpha.Max)
	}
	if !s.Shrink.isZero() && (s.Shrink.Min <= 0 || s.Shrink.Max > 1) {
		return fmt.Errorf("shrink range [%v, %v] must lie in (0, 1]", s.Shrink.Min, s.Shrink.Max)
	}
	if s.Fade < 0 || !finite(s.Fade) {
		return fmt.Errorf("fade %v must be a non-negative number", s.Fade)
	}
	if s.Accel < 0 || !finite(s.Accel) {
		return fmt.Errorf("accel %v must be a non-negative number", s.Accel)
	}
	if s.MinAlpha < 0 || s.MinAlpha > s.Alpha.Min {
		return fmt.Errorf("min alpha %v must lie in [0, %v]", s.MinAlpha, s.Alpha.Min)
	}
	if s.Boundary.Margin < 0 {
		return fmt.Errorf("boundary margin %v must not be negative", s.Boundary.Margin)
	}
	for _, sh := range s.Shapes {
		if sh.Weight < 0 {
			return fmt.Errorf("shape %q has negative weight", sh.Name)
		}
	}
	if err := s.Color.validate(); err != nil {
		return err
	}
	if s.Motion == MotionErratic {
		return s.Erratic.validate()
	}
	return nil
}

func (e Erratic) validate() error {
	for _, v := range []struct {
		field string
		r     Range
	}{
		{"max pause", e.MaxPause},
		{"change interval", e.ChangeInterval},
		{"pulse speed", e.PulseSpeed},
	} {
		if err := v.r.validate(v.field); err != nil {
			return err
		}
	}
	if e.MaxSpeed <= 0 {
		return fmt.Errorf("erratic max speed %v must be positive", e.MaxSpeed)
	}
	if e.ChangeInterval.Min <= 0 {
		return fmt.Errorf("erratic change interval must be positive, got min %v", e.ChangeInterval.Min)
	}
	if e.PauseChance < 0 || e.PauseChance > 1 {
		return fmt.Errorf("erratic pause chance %v must lie in [0, 1]", e.PauseChance)
	}
	if e.Accel < 0 || e.PulseDepth < 0 || e.MaxPause.Min < 0 {
		return errors.New("erratic accel, pulse depth and pause must not be negative")
	}
	return nil
}

// pickShape chooses a shape by weight. Species without shapes yield the zero Shape.
func (s Species) pickShape(rnd Rand) Shape {
	if len(s.Shapes) == 0 {
		return Shape{}
	}
	var total float64
	for _, sh := range s.Shapes {
		total += sh.Weight
	}
	u := rnd.Float64()
	if total <= 0 {
		i := int(u * float64(len(s.Shapes)))
		if i >= len(s.Shapes) {
			i = len(s.Shapes) - 1
		}
		return s.Shapes[i]
	}
	u *= total
	for _, sh := range s.Shapes {
		if u < sh.Weight {
			return sh
		}
		u -= sh.Weight
	}
	return s.Shapes[len(s.Shapes)-1]
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
