package particle

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Glow is a soft light drawn behind an effect, anchored like a SpawnRegion.
type Glow struct {
	AnchorX float64 `yaml:"AnchorX"`
	AnchorY float64 `yaml:"AnchorY"`
	Radius  float64 `yaml:"Radius"`
	Color   RGB     `yaml:"Color"`
}

// ImpulseConfig overrides the impulse field tuning. Zero fields keep the defaults.
type ImpulseConfig struct {
	Radius   float64 `yaml:"Radius"`
	Duration float64 `yaml:"Duration"`
	Strength float64 `yaml:"Strength"`
	Lift     float64 `yaml:"Lift"`
	Spin     float64 `yaml:"Spin"`
}

// Profile describes one visual effect: its species tables plus the backdrop the
// renderers paint behind them.
type Profile struct {
	Label      string        `yaml:"Label"`
	Background RGB           `yaml:"Background"`
	Trail      float64       `yaml:"Trail"`
	Glow       Glow          `yaml:"Glow"`
	Impulse    ImpulseConfig `yaml:"Impulse"`
	Species    []Species     `yaml:"Species"`
}

// LoadProfile reads and validates a yaml profile file.
func LoadProfile(path string) (Profile, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, err
	}
	p, err := ParseProfile(source)
	if err != nil {
		return Profile{}, fmt.Errorf("profile %s: %w", path, err)
	}
	return p, nil
}

// ParseProfile decodes and validates a yaml profile. Unknown keys are rejected.
func ParseProfile(source []byte) (Profile, error) {
	var p Profile
	if err := yaml.UnmarshalStrict(source, &p); err != nil {
		return Profile{}, err
	}
	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// Validate checks the backdrop settings and every species table.
func (p Profile) Validate() error {
	if len(p.Species) == 0 {
		return errors.New("profile has no species")
	}
	if p.Trail < 0 || p.Trail > 1 {
		return fmt.Errorf("trail %v must lie in [0, 1]", p.Trail)
	}
	if p.Glow.Radius < 0 {
		return fmt.Errorf("glow radius %v must not be negative", p.Glow.Radius)
	}
	ic := p.Impulse
	if ic.Radius < 0 || ic.Duration < 0 || ic.Strength < 0 || ic.Lift < 0 || ic.Spin < 0 {
		return errors.New("impulse settings must not be negative")
	}
	seen := make(map[string]bool)
	for _, s := range p.Species {
		if err := s.Validate(); err != nil {
			return err
		}
		if seen[s.Name] {
			return fmt.Errorf("%w: duplicate species %s", ErrInvalidSpecies, s.Name)
		}
		seen[s.Name] = true
	}
	return nil
}

// Pools builds one pool per species. All pools share rnd.
func (p Profile) Pools(b Bounds, rnd Rand) ([]*Pool, error) {
	if rnd == nil {
		rnd = NewRand()
	}
	pools := make([]*Pool, 0, len(p.Species))
	for _, s := range p.Species {
		pl, err := NewPool(s, b, rnd)
		if err != nil {
			return nil, err
		}
		pools = append(pools, pl)
	}
	return pools, nil
}

// NewImpulse returns an impulse field with the profile overrides applied.
func (p Profile) NewImpulse() *ImpulseField {
	f := NewImpulseField()
	ic := p.Impulse
	if ic.Radius > 0 {
		f.Radius = ic.Radius
	}
	if ic.Duration > 0 {
		f.Duration = ic.Duration
	}
	if ic.Strength > 0 {
		f.Strength = ic.Strength
	}
	if ic.Lift > 0 {
		f.Lift = ic.Lift
	}
	if ic.Spin > 0 {
		f.Spin = ic.Spin
	}
	return f
}

// Marshal encodes the profile as yaml.
func (p Profile) Marshal() ([]byte, error) {
	return yaml.Marshal(p)
}
