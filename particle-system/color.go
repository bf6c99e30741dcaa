package particle

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// RGB is an 8 bit per channel colour. In profile files it is written as a hex string.
type RGB struct {
	R, G, B uint8
}

// ParseHex parses colours of the form "#rrggbb" or "#rgb".
func ParseHex(s string) (RGB, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return RGB{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return fromColorful(c), nil
}

// Hex returns the colour as "#rrggbb".
func (c RGB) Hex() string {
	return c.colorful().Hex()
}

// Blend interpolates from c towards to by t in RGB space. t is clamped to [0, 1].
func (c RGB) Blend(to RGB, t float64) RGB {
	return fromColorful(c.colorful().BlendRgb(to.colorful(), clamp01(t)))
}

// UnmarshalYAML reads the colour from a hex string.
func (c *RGB) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseHex(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// MarshalYAML writes the colour as a hex string.
func (c RGB) MarshalYAML() (interface{}, error) {
	return c.Hex(), nil
}

func (c RGB) colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

func fromColorful(c colorful.Color) RGB {
	r, g, b := c.Clamped().RGB255()
	return RGB{R: r, G: g, B: b}
}

// ColorMode selects what drives the position along a particle's gradient.
type ColorMode int

const (
	// ColorRandom fixes the gradient position once per reset.
	ColorRandom ColorMode = iota
	// ColorLife follows the life ratio age/lifespan.
	ColorLife
)

var colorModeNames = map[ColorMode]string{
	ColorRandom: "random",
	ColorLife:   "life",
}

func (m ColorMode) String() string {
	if s, ok := colorModeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("ColorMode(%d)", int(m))
}

// UnmarshalYAML reads the mode from its name.
func (m *ColorMode) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	for k, v := range colorModeNames {
		if v == s {
			*m = k
			return nil
		}
	}
	return fmt.Errorf("unknown colour mode %q", s)
}

// MarshalYAML writes the mode name.
func (m ColorMode) MarshalYAML() (interface{}, error) {
	return m.String(), nil
}

// Gradient is a two stop colour ramp.
type Gradient struct {
	From RGB `yaml:"From"`
	To   RGB `yaml:"To"`
}

// Solid returns a gradient that always yields c.
func Solid(c RGB) Gradient {
	return Gradient{From: c, To: c}
}

// ColorRule is the colour generation rule of a species. On reset one of the
// gradients is picked uniformly together with a random position on it.
type ColorRule struct {
	Mode      ColorMode  `yaml:"Mode"`
	Gradients []Gradient `yaml:"Gradients"`
}

func (cr ColorRule) validate() error {
	if len(cr.Gradients) == 0 {
		return fmt.Errorf("colour rule has no gradients")
	}
	if _, ok := colorModeNames[cr.Mode]; !ok {
		return fmt.Errorf("unknown colour mode %v", cr.Mode)
	}
	return nil
}

func (cr ColorRule) pick(r Rand) (Gradient, float64) {
	i := int(r.Float64() * float64(len(cr.Gradients)))
	if i >= len(cr.Gradients) {
		i = len(cr.Gradients) - 1
	}
	return cr.Gradients[i], r.Float64()
}
