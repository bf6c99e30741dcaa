package particle

import (
	"math/rand"
	"time"
)

// Rand is the uniform source behind every reset and every erratic re-roll.
// Float64 must return values in [0, 1).
type Rand interface {
	Float64() float64
}

// NewRand returns a Rand seeded from the wall clock.
func NewRand() Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// SequenceRand replays a fixed list of values, wrapping around at the end.
// An empty sequence always yields 0.
type SequenceRand struct {
	values []float64
	next   int
}

// NewSequenceRand creates a SequenceRand over the given values.
func NewSequenceRand(values ...float64) *SequenceRand {
	return &SequenceRand{values: values}
}

// Float64 returns the next value of the sequence.
func (s *SequenceRand) Float64() float64 {
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

// between always consumes exactly one draw so that reset sequences stay aligned.
func between(r Rand, lo, hi float64) float64 {
	return lo + (hi-lo)*r.Float64()
}
