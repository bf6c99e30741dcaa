package particle

import (
	"fmt"
	"math"
	"sort"
)

// Shape tags used by the built-in species.
const (
	ShapeFlame   = "flame"
	ShapeEmber   = "ember"
	ShapeCircle  = "circle"
	ShapeCrystal = "crystal"
	ShapePetal   = "petal"
	ShapeMaple   = "maple"
	ShapeGinkgo  = "ginkgo"
	ShapeFirefly = "firefly"
)

// topEdge spawns across the whole width, just above the surface.
func topEdge(above, jitter float64) SpawnRegion {
	return SpawnRegion{SpanX: 1, OffsetY: Range{Min: -above - jitter, Max: -above}}
}

// Fire is the flame body: big particles rising from the logs, shrinking until they vanish.
func Fire() Species {
	return Species{
		Name:   "fire",
		Count:  150,
		Motion: MotionRise,
		Region: SpawnRegion{
			AnchorX: 0.5, AnchorY: 0.8,
			OffsetX: Range{-35, 35},
			OffsetY: Range{-10, 0},
		},
		Size:          Range{3, 18},
		Shrink:        Range{0.94, 0.98},
		MinSize:       0.5,
		Alpha:         Range{0.7, 1},
		Fade:          0.005,
		SpeedX:        Range{-0.5, 0.5},
		SpeedY:        Range{1, 4},
		Accel:         1.01,
		Lifespan:      Range{40, 100},
		SwayAmplitude: Fixed(0.5),
		SwayFrequency: Range{0.1, 0.2},
		Phase:         Range{0, 2 * math.Pi},
		Color: ColorRule{
			Mode: ColorLife,
			Gradients: []Gradient{
				{From: RGB{255, 50, 0}, To: RGB{255, 150, 0}},
				{From: RGB{255, 100, 0}, To: RGB{255, 180, 0}},
				{From: RGB{255, 180, 0}, To: RGB{255, 255, 100}},
			},
		},
		Shapes: []Shape{{Name: ShapeFlame, Weight: 1}},
		Visual: Visual{Glow: 2},
	}
}

// Embers are the sparks above the flames; they die when they fade out or leave the surface.
func Embers() Species {
	return Species{
		Name:   "embers",
		Count:  50,
		Motion: MotionRise,
		Region: SpawnRegion{
			AnchorX: 0.5, AnchorY: 0.8,
			OffsetX: Range{-20, 20},
			OffsetY: Range{-100, -50},
		},
		Size:          Range{0.5, 2.5},
		Alpha:         Range{0.4, 1},
		Fade:          0.002,
		MinAlpha:      0.1,
		SpeedX:        Range{-0.5, 0.5},
		SpeedY:        Range{0.5, 2.5},
		Lifespan:      Range{100, 300},
		SwayAmplitude: Range{0.5, 1.5},
		SwayFrequency: Range{0.02, 0.05},
		Phase:         Range{0, 100},
		Color: ColorRule{
			Gradients: []Gradient{{From: RGB{255, 100, 0}, To: RGB{255, 220, 50}}},
		},
		Shapes:   []Shape{{Name: ShapeEmber, Weight: 1}},
		Boundary: Boundary{Top: true, Sides: true},
		Visual:   Visual{Glow: 3, Twinkle: 10, Core: true},
	}
}

// Snow is powder snow; about a third of the flakes are spinning crystals.
func Snow() Species {
	return Species{
		Name:          "snow",
		Count:         250,
		Motion:        MotionFall,
		Region:        topEdge(5, 30),
		Size:          Range{2, 7},
		Alpha:         Range{0.5, 1},
		SpeedX:        Range{0.1, 0.4},
		SpeedY:        Range{0.3, 1.3},
		Lifespan:      Range{6000, 9000},
		SwayAmplitude: Range{0.3, 1},
		SwayFrequency: Range{0.01, 0.03},
		Phase:         Range{0, 100},
		RotationSpeed: Range{0.01, 0.04},
		Color: ColorRule{
			Gradients: []Gradient{{From: RGB{240, 250, 255}, To: RGB{220, 230, 255}}},
		},
		Shapes: []Shape{
			{Name: ShapeCircle, Weight: 0.7},
			{Name: ShapeCrystal, Weight: 0.3, Spin: true},
		},
		Boundary: Boundary{Bottom: true, Sides: true, Margin: 20},
	}
}

// Sakura petals fall a little faster and sway wider than snow.
func Sakura() Species {
	return Species{
		Name:          "sakura",
		Count:         300,
		Motion:        MotionFall,
		Region:        topEdge(10, 50),
		Size:          Range{2, 6},
		Alpha:         Range{0.7, 1},
		SpeedX:        Range{0.3, 1},
		SpeedY:        Range{0.3, 1.5},
		Lifespan:      Range{6000, 9000},
		SwayAmplitude: Range{0.5, 2},
		SwayFrequency: Range{0.01, 0.03},
		Phase:         Range{0, 100},
		RotationSpeed: Range{0.01, 0.04},
		Color: ColorRule{
			Gradients: []Gradient{{From: RGB{245, 200, 220}, To: RGB{255, 230, 240}}},
		},
		Shapes:   []Shape{{Name: ShapePetal, Weight: 1, Spin: true}},
		Boundary: Boundary{Bottom: true, Sides: true, Margin: 20},
	}
}

// Leaves are autumn maple and ginkgo leaves.
func Leaves() Species {
	solid := func(cs ...RGB) []Gradient {
		gs := make([]Gradient, len(cs))
		for i, c := range cs {
			gs[i] = Solid(c)
		}
		return gs
	}
	return Species{
		Name:          "leaves",
		Count:         100,
		Motion:        MotionFall,
		Region:        topEdge(20, 50),
		Size:          Range{15, 30},
		Alpha:         Range{0.7, 1},
		SpeedX:        Range{0.3, 1.1},
		SpeedY:        Range{0.6, 1.8},
		Lifespan:      Range{4000, 6000},
		SwayAmplitude: Range{1, 3},
		SwayFrequency: Range{0.01, 0.03},
		Phase:         Range{0, 100},
		RotationSpeed: Range{0.01, 0.04},
		Color: ColorRule{
			Gradients: solid(
				RGB{187, 37, 37}, RGB{214, 69, 65},
				RGB{232, 121, 36}, RGB{235, 140, 52},
				RGB{212, 175, 55}, RGB{255, 215, 0},
				RGB{139, 69, 19},
			),
		},
		Shapes: []Shape{
			{Name: ShapeMaple, Weight: 0.5, Spin: true},
			{Name: ShapeGinkgo, Weight: 0.5, Spin: true},
		},
		Boundary: Boundary{Bottom: true, Sides: true, Margin: 30},
	}
}

// Fireflies drift, hover and pulse, and wrap around the edges instead of leaving.
func Fireflies() Species {
	return Species{
		Name:     "fireflies",
		Count:    80,
		Motion:   MotionErratic,
		Region:   SpawnRegion{SpanX: 1, SpanY: 1},
		Size:     Range{1.5, 3.5},
		Alpha:    Range{0.3, 0.7},
		SpeedX:   Range{-0.5, 0.5},
		SpeedY:   Range{-0.5, 0.5},
		Lifespan: Range{100, 300},
		Erratic: Erratic{
			Accel:          0.05,
			MaxSpeed:       1.5,
			PauseChance:    0.3,
			MaxPause:       Range{50, 150},
			ChangeInterval: Range{50, 150},
			PulseSpeed:     Range{0.02, 0.06},
			PulseDepth:     0.6,
		},
		Color: ColorRule{
			Gradients: []Gradient{
				Solid(RGB{179, 255, 0}), Solid(RGB{150, 255, 20}),
				Solid(RGB{120, 220, 255}), Solid(RGB{160, 240, 230}),
			},
		},
		Shapes:   []Shape{{Name: ShapeFirefly, Weight: 1}},
		Boundary: Boundary{Wrap: true, Margin: 50},
		Visual:   Visual{Glow: 4.5, Core: true},
	}
}

var presets = map[string]func() Profile{
	"fire": func() Profile {
		return Profile{
			Label:      "fire",
			Background: RGB{10, 10, 10},
			Trail:      0.2,
			Glow:       Glow{AnchorX: 0.5, AnchorY: 0.8, Radius: 150, Color: RGB{255, 100, 0}},
			Species:    []Species{Fire(), Embers()},
		}
	},
	"snow": func() Profile {
		return Profile{Label: "snow", Trail: 0.05, Species: []Species{Snow()}}
	},
	"sakura": func() Profile {
		return Profile{Label: "sakura", Background: RGB{232, 244, 248}, Trail: 0.05, Species: []Species{Sakura()}}
	},
	"autumn": func() Profile {
		return Profile{Label: "autumn", Background: RGB{42, 21, 6}, Trail: 0.05, Species: []Species{Leaves()}}
	},
	"summer": func() Profile {
		return Profile{Label: "summer", Background: RGB{0, 20, 38}, Trail: 0.2, Species: []Species{Fireflies()}}
	},
	"seasons": func() Profile {
		return Profile{Label: "seasons", Trail: 0.05, Species: []Species{Snow(), Sakura()}}
	},
}

// Preset returns a built-in effect by name.
func Preset(name string) (Profile, error) {
	fn, ok := presets[name]
	if !ok {
		return Profile{}, fmt.Errorf("unknown effect %q (available: %v)", name, PresetNames())
	}
	return fn(), nil
}

// PresetNames lists the built-in effects in alphabetical order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for k := range presets {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
