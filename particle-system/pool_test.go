package particle

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var surface = Bounds{Width: 800, Height: 600}

// stillFall is a falling species without sway, drift or decay.
func stillFall() Species {
	return Species{
		Name:     "still",
		Count:    1,
		Motion:   MotionFall,
		Size:     Fixed(1),
		Alpha:    Fixed(1),
		SpeedY:   Fixed(1),
		Lifespan: Fixed(2),
		Color:    ColorRule{Gradients: []Gradient{Solid(RGB{255, 255, 255})}},
	}
}

func TestFallingParticleLifecycle(t *testing.T) {
	pl, err := NewPool(stillFall(), surface, NewSequenceRand(0))
	require.NoError(t, err)
	p := pl.At(0)
	require.Equal(t, 0.0, p.Y())

	pl.Step(0.016, 0.016, nil)
	assert.Equal(t, 1, p.Age())
	assert.Equal(t, 1.0, p.Y())
	assert.True(t, p.live(&pl.species))

	pl.Step(0.016, 0.032, nil)
	assert.Equal(t, 2, p.Age())
	assert.Equal(t, 2.0, p.Y())
	assert.True(t, p.live(&pl.species), "age equal to lifespan is still live")
	assert.Zero(t, pl.Resets())

	pl.Step(0.016, 0.048, nil)
	assert.Equal(t, 0, p.Age())
	assert.Equal(t, 0.0, p.Y(), "y is redrawn inside the spawn region")
	assert.Equal(t, uint64(1), pl.Resets())
}

func TestResetParticleWaitsOneTick(t *testing.T) {
	s := stillFall()
	s.Lifespan = Fixed(1)
	pl, err := NewPool(s, surface, NewSequenceRand(0))
	require.NoError(t, err)
	p := pl.At(0)

	pl.Step(0, 0, nil)
	pl.Step(0, 0, nil)
	require.Equal(t, 0, p.Age())
	require.Equal(t, 0.0, p.Y(), "a particle reset this tick has not moved yet")

	pl.Step(0, 0, nil)
	assert.Equal(t, 1.0, p.Y())
}

func TestPopulationIsConstant(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	for _, name := range PresetNames() {
		prof, err := Preset(name)
		require.NoError(t, err, name)
		pools, err := prof.Pools(surface, rnd)
		require.NoError(t, err, name)

		impulse := NewImpulseField()
		impulse.Trigger(400, 300)
		for tick := 1; tick <= 500; tick++ {
			impulse.Advance(1.0 / 60)
			for _, pl := range pools {
				pl.Step(1.0/60, float64(tick)/60, impulse)
			}
		}
		for i, pl := range pools {
			assert.Equal(t, prof.Species[i].Count, pl.Len(), "%s/%s", name, prof.Species[i].Name)
			for j := 0; j < pl.Len(); j++ {
				p := pl.At(j)
				assert.True(t, finite(p.X()) && finite(p.Y()), "%s particle %d has non-finite position", name, j)
				assert.True(t, p.Alpha() >= 0 && p.Alpha() <= 1, "%s particle %d alpha %v", name, j, p.Alpha())
			}
		}
	}
}

func TestDecayNeverIncreases(t *testing.T) {
	pl, err := NewPool(Fire(), surface, rand.New(rand.NewSource(3)))
	require.NoError(t, err)

	type sample struct {
		age         int
		size, alpha float64
	}
	prev := make([]sample, pl.Len())
	for i := range prev {
		p := pl.At(i)
		prev[i] = sample{p.Age(), p.Size(), p.Alpha()}
	}
	for tick := 1; tick <= 200; tick++ {
		pl.Step(1.0/60, float64(tick)/60, nil)
		for i := range prev {
			p := pl.At(i)
			cur := sample{p.Age(), p.Size(), p.Alpha()}
			if cur.age == prev[i].age+1 {
				assert.LessOrEqual(t, cur.size, prev[i].size)
				assert.LessOrEqual(t, cur.alpha, prev[i].alpha)
			}
			prev[i] = cur
		}
	}
	assert.NotZero(t, pl.Resets())
}

func TestBoundaryRecycle(t *testing.T) {
	s := stillFall()
	s.Lifespan = Fixed(1000)
	s.SpeedY = Fixed(50)
	s.Boundary = Boundary{Bottom: true, Margin: 20}
	pl, err := NewPool(s, Bounds{Width: 100, Height: 100}, NewSequenceRand(0))
	require.NoError(t, err)

	// 50, 100, 150 > 120 recycles on the third tick
	pl.Step(0, 0, nil)
	pl.Step(0, 0, nil)
	assert.Equal(t, 100.0, pl.At(0).Y())
	assert.Zero(t, pl.Resets())
	pl.Step(0, 0, nil)
	assert.Equal(t, uint64(1), pl.Resets())
	assert.Equal(t, 0.0, pl.At(0).Y())
}

func TestWrapKeepsParticle(t *testing.T) {
	s := stillFall()
	s.Lifespan = Fixed(1000)
	s.SpeedY = Fixed(80)
	s.Boundary = Boundary{Wrap: true, Margin: 10}
	pl, err := NewPool(s, Bounds{Width: 100, Height: 100}, NewSequenceRand(0))
	require.NoError(t, err)

	pl.Step(0, 0, nil)
	pl.Step(0, 0, nil)
	assert.Equal(t, -10.0, pl.At(0).Y())
	assert.Zero(t, pl.Resets())
	assert.Equal(t, 2, pl.At(0).Age())
}

func TestDegenerateSizeExpires(t *testing.T) {
	s := stillFall()
	s.Lifespan = Fixed(1000)
	s.Size = Fixed(1)
	s.Shrink = Fixed(0.5)
	s.MinSize = 0.3
	pl, err := NewPool(s, surface, NewSequenceRand(0))
	require.NoError(t, err)

	pl.Step(0, 0, nil)
	assert.Equal(t, 0.5, pl.At(0).Size())
	pl.Step(0, 0, nil)
	assert.Equal(t, uint64(1), pl.Resets(), "0.25 is below the minimum size")
	assert.Equal(t, 1.0, pl.At(0).Size())
}

func TestPausedFireflyHoldsPosition(t *testing.T) {
	s := Fireflies()
	s.Count = 1
	s.Lifespan = Fixed(1000)
	s.Erratic.PulseSpeed = Fixed(1)
	s.Alpha = Fixed(0.2)
	pl, err := NewPool(s, surface, rand.New(rand.NewSource(11)))
	require.NoError(t, err)

	p := pl.At(0)
	p.pauseRemaining = 5
	x, y := p.X(), p.Y()

	impulse := NewImpulseField()
	impulse.Trigger(x+10, y+10)

	alphas := make(map[float64]bool)
	for tick := 1; tick <= 5; tick++ {
		pl.Step(0.1, float64(tick)*0.5, impulse)
		assert.Equal(t, x, p.X(), "tick %d", tick)
		assert.Equal(t, y, p.Y(), "tick %d", tick)
		alphas[p.Alpha()] = true
	}
	assert.False(t, p.Paused())
	assert.Greater(t, len(alphas), 1, "brightness keeps pulsing while paused")
}

func TestInvalidSpecies(t *testing.T) {
	cases := map[string]func(*Species){
		"empty name":      func(s *Species) { s.Name = "" },
		"zero count":      func(s *Species) { s.Count = 0 },
		"inverted range":  func(s *Species) { s.SpeedY = Range{2, 1} },
		"zero size":       func(s *Species) { s.Size = Fixed(0) },
		"alpha above one": func(s *Species) { s.Alpha = Range{0.5, 1.5} },
		"nan fade":        func(s *Species) { s.Fade = math.NaN() },
		"no colours":      func(s *Species) { s.Color.Gradients = nil },
		"min alpha":       func(s *Species) { s.MinAlpha = 2 },
		"motion":          func(s *Species) { s.Motion = MotionProfile(9) },
		"erratic speed":   func(s *Species) { s.Motion = MotionErratic },
	}
	for name, mutate := range cases {
		s := stillFall()
		mutate(&s)
		_, err := NewPool(s, surface, nil)
		assert.True(t, errors.Is(err, ErrInvalidSpecies), "%s: %v", name, err)
	}

	_, err := NewPool(stillFall(), Bounds{Width: 0, Height: 10}, nil)
	assert.True(t, errors.Is(err, ErrInvalidBounds))
}

func TestShapeWeights(t *testing.T) {
	s := Snow()
	assert.Equal(t, ShapeCircle, s.pickShape(NewSequenceRand(0.69)).Name)
	assert.Equal(t, ShapeCrystal, s.pickShape(NewSequenceRand(0.71)).Name)

	s.Shapes = []Shape{{Name: "a"}, {Name: "b"}}
	assert.Equal(t, "b", s.pickShape(NewSequenceRand(0.99)).Name, "zero weights pick uniformly")
}

func TestColorByLife(t *testing.T) {
	s := stillFall()
	s.Lifespan = Fixed(4)
	s.Color = ColorRule{Mode: ColorLife, Gradients: []Gradient{{From: RGB{0, 0, 0}, To: RGB{200, 100, 0}}}}
	pl, err := NewPool(s, surface, NewSequenceRand(0))
	require.NoError(t, err)

	assert.Equal(t, RGB{0, 0, 0}, pl.At(0).Color())
	pl.Step(0, 0, nil)
	pl.Step(0, 0, nil)
	assert.Equal(t, RGB{100, 50, 0}, pl.At(0).Color())
}

func TestSetBounds(t *testing.T) {
	pl, err := NewPool(stillFall(), surface, nil)
	require.NoError(t, err)
	assert.Error(t, pl.SetBounds(Bounds{Width: -1, Height: 5}))
	assert.Equal(t, surface, pl.Bounds())
	require.NoError(t, pl.SetBounds(Bounds{Width: 10, Height: 5}))
	assert.Equal(t, Bounds{Width: 10, Height: 5}, pl.Bounds())
}

func TestOpacityTwinkleLeavesAlpha(t *testing.T) {
	pl, err := NewPool(stillFall(), surface, NewSequenceRand(0))
	require.NoError(t, err)
	p := pl.At(0)

	v := Visual{Twinkle: 10}
	assert.InDelta(t, 1.0, v.Opacity(p, math.Pi/20), 1e-9)
	assert.InDelta(t, 0.4, v.Opacity(p, 3*math.Pi/20), 1e-9)
	assert.Equal(t, 1.0, p.Alpha())

	assert.Equal(t, 1.0, Visual{}.Opacity(p, 3*math.Pi/20))
}

// wanderer is an erratic species parked in the middle of a 100x100 surface,
// without drift, pulse or re-rolls unless a test configures them.
func wanderer() Species {
	return Species{
		Name:     "wanderer",
		Count:    1,
		Motion:   MotionErratic,
		Region:   SpawnRegion{AnchorX: 0.5, AnchorY: 0.5},
		Size:     Fixed(1),
		Alpha:    Fixed(0.5),
		Lifespan: Fixed(1000),
		Erratic: Erratic{
			Accel:          1,
			MaxSpeed:       100,
			MaxPause:       Fixed(10),
			ChangeInterval: Fixed(1000),
		},
		Color:    ColorRule{Gradients: []Gradient{Solid(RGB{255, 255, 255})}},
		Boundary: Boundary{Wrap: true, Margin: 10},
	}
}

var square = Bounds{Width: 100, Height: 100}

func TestErraticChangesDirection(t *testing.T) {
	s := wanderer()
	s.Erratic.ChangeInterval = Fixed(2)
	pl, err := NewPool(s, square, NewSequenceRand(0.5))
	require.NoError(t, err)
	p := pl.At(0)
	require.Equal(t, 50.0, p.X())
	require.Equal(t, 50.0, p.Y())

	// ax, ay, pause roll
	pl.rnd = NewSequenceRand(0.75, 0.25, 0.9)

	pl.Step(0, 0, nil)
	pl.Step(0, 0, nil)
	assert.Equal(t, 50.0, p.X(), "no acceleration before the first change")
	assert.Equal(t, 50.0, p.Y())

	pl.Step(0, 0, nil)
	assert.Equal(t, 0.5, p.Vx())
	assert.Equal(t, -0.5, p.Vy())
	assert.Equal(t, 50.5, p.X())
	assert.Equal(t, 49.5, p.Y())

	pl.Step(0, 0, nil)
	assert.Equal(t, 51.5, p.X())
	assert.Equal(t, 48.5, p.Y())
	assert.False(t, p.Paused())
}

func TestErraticPausesOnChange(t *testing.T) {
	s := wanderer()
	s.Erratic.ChangeInterval = Fixed(2)
	s.Erratic.PauseChance = 0.5
	pl, err := NewPool(s, square, NewSequenceRand(0.5))
	require.NoError(t, err)
	p := pl.At(0)

	// ax, ay, pause roll, pause length
	pl.rnd = NewSequenceRand(0.75, 0.25, 0.1, 0.5)

	for tick := 1; tick <= 3; tick++ {
		pl.Step(0, 0, nil)
	}
	require.True(t, p.Paused())
	assert.Equal(t, 5.0, p.pauseRemaining)

	for tick := 4; tick <= 8; tick++ {
		pl.Step(0, 0, nil)
		assert.Equal(t, 50.0, p.X(), "tick %d", tick)
		assert.Equal(t, 50.0, p.Y(), "tick %d", tick)
	}
	assert.False(t, p.Paused())
	assert.Zero(t, p.Vx())
	assert.Zero(t, p.Vy())
}

func TestErraticSpeedIsClamped(t *testing.T) {
	s := wanderer()
	s.Erratic.Accel = 10
	s.Erratic.MaxSpeed = 1
	s.Erratic.ChangeInterval = Fixed(0.5)
	pl, err := NewPool(s, square, NewSequenceRand(0.5))
	require.NoError(t, err)
	p := pl.At(0)

	// ax = 6, ay = 0, no pause
	pl.rnd = NewSequenceRand(0.8, 0.5, 0.9)
	pl.Step(0, 0, nil)

	assert.InDelta(t, 1.0, p.Vx(), 1e-12)
	assert.Zero(t, p.Vy())
	assert.InDelta(t, 51.0, p.X(), 1e-12)
	assert.LessOrEqual(t, math.Hypot(p.Vx(), p.Vy()), s.Erratic.MaxSpeed+1e-12)
}

func TestErraticWrapsAround(t *testing.T) {
	pl, err := NewPool(wanderer(), square, NewSequenceRand(0.5))
	require.NoError(t, err)
	p := pl.At(0)
	p.vx = 20

	// 70, 90, 110 stays within the margin, 130 re-enters on the left
	for tick := 1; tick <= 3; tick++ {
		pl.Step(0, 0, nil)
	}
	assert.Equal(t, 110.0, p.X())
	pl.Step(0, 0, nil)
	assert.Equal(t, -10.0, p.X())
	assert.Equal(t, 50.0, p.Y())
	assert.Equal(t, 4, p.Age())
	assert.Zero(t, pl.Resets())
}

// riser starts near the bottom of a 100x100 surface and climbs.
func riser() Species {
	s := stillFall()
	s.Motion = MotionRise
	s.Region = SpawnRegion{AnchorX: 0.5, AnchorY: 0.9}
	s.Lifespan = Fixed(1000)
	return s
}

func TestRiseAccelerates(t *testing.T) {
	s := riser()
	s.SpeedY = Fixed(2)
	s.Accel = 1.5
	pl, err := NewPool(s, square, NewSequenceRand(0.5))
	require.NoError(t, err)
	p := pl.At(0)
	require.Equal(t, 90.0, p.Y())

	pl.Step(0, 0, nil)
	assert.Equal(t, 3.0, p.Vy())
	assert.Equal(t, 87.0, p.Y())

	pl.Step(0, 0, nil)
	assert.Equal(t, 4.5, p.Vy())
	assert.Equal(t, 82.5, p.Y())
}

func TestRiseRecyclesPastTop(t *testing.T) {
	s := riser()
	s.SpeedY = Fixed(40)
	s.Boundary = Boundary{Top: true, Margin: 5}
	pl, err := NewPool(s, square, NewSequenceRand(0.5))
	require.NoError(t, err)
	p := pl.At(0)

	// 50, 10, -30 is past the margin
	pl.Step(0, 0, nil)
	pl.Step(0, 0, nil)
	assert.Equal(t, 10.0, p.Y())
	assert.Zero(t, pl.Resets())

	pl.Step(0, 0, nil)
	assert.Equal(t, uint64(1), pl.Resets())
	assert.Equal(t, 90.0, p.Y())
	assert.Zero(t, p.Age())
}
