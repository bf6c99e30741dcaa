package particle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImpulseDecaysWithDistance(t *testing.T) {
	f := NewImpulseField()
	f.Trigger(0, 0)

	near := &Particle{x: 50}
	far := &Particle{x: 250}
	dNear := f.Apply(near)
	dFar := f.Apply(far)

	assert.Greater(t, dNear, dFar)
	assert.Greater(t, near.x, 50.0)
	assert.Less(t, near.y, 0.0, "the puff lifts particles")
	assert.InDelta(t, (1-50.0/300)*5, dNear, 1e-9)
}

func TestImpulseDecaysWithTime(t *testing.T) {
	f := NewImpulseField()
	f.Trigger(0, 0)
	start := f.Influence(100)

	f.Advance(1)
	assert.InDelta(t, start/2, f.Influence(100), 1e-9)

	f.Advance(1)
	assert.False(t, f.Active())
	assert.Zero(t, f.Influence(100))

	p := &Particle{x: 100}
	assert.Zero(t, f.Apply(p))
	assert.Equal(t, 100.0, p.x)
}

func TestImpulseOutsideRadius(t *testing.T) {
	f := NewImpulseField()
	f.Trigger(0, 0)
	p := &Particle{x: 300}
	assert.Zero(t, f.Apply(p))
	assert.Equal(t, 300.0, p.x)
}

func TestImpulseAtOrigin(t *testing.T) {
	f := NewImpulseField()
	f.Trigger(10, 10)
	p := &Particle{x: 10, y: 10}
	assert.Zero(t, f.Apply(p))
	assert.Equal(t, 10.0, p.x)
	assert.Equal(t, 10.0, p.y)
}

func TestImpulseRetrigger(t *testing.T) {
	f := NewImpulseField()
	assert.False(t, f.Active())
	f.Advance(5)
	assert.Zero(t, f.Elapsed(), "a dormant field does not age")

	f.Trigger(1, 2)
	f.Advance(1.5)
	f.Trigger(3, 4)
	assert.True(t, f.Active())
	assert.Zero(t, f.Elapsed())
	x, y := f.Origin()
	assert.Equal(t, 3.0, x)
	assert.Equal(t, 4.0, y)

	var nilField *ImpulseField
	assert.False(t, nilField.Active())
}
