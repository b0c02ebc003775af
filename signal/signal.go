package signal

import "math"

// Signal pairs a time grid with one real sample per grid position.
// Signals are value-like: constructed, read, and replaced rather than
// mutated in place.
type Signal struct {
	grid    *Grid
	samples []float64
}

// NewSignal validates that samples match the grid length and are finite,
// then wraps them in a Signal.
func NewSignal(grid *Grid, samples []float64) (*Signal, error) {
	if grid == nil || len(samples) == 0 {
		return nil, ErrEmptyInput
	}
	if len(samples) != grid.Len() {
		return nil, ErrLengthMismatch
	}
	for _, s := range samples {
		if math.IsNaN(s) || math.IsInf(s, 0) {
			return nil, ErrNonFinite
		}
	}

	owned := make([]float64, len(samples))
	copy(owned, samples)

	return &Signal{grid: grid, samples: owned}, nil
}

// Grid returns the signal's time grid.
func (s *Signal) Grid() *Grid {
	return s.grid
}

// Len returns the number of samples.
func (s *Signal) Len() int {
	return len(s.samples)
}

// At returns the i-th sample value.
func (s *Signal) At(i int) float64 {
	return s.samples[i]
}

// Samples returns a copy of the sample values.
func (s *Signal) Samples() []float64 {
	out := make([]float64, len(s.samples))
	copy(out, s.samples)
	return out
}

// IsUnitImpulse reports whether the signal is a single sample of
// (numerically) exactly one.
func (s *Signal) IsUnitImpulse() bool {
	return len(s.samples) == 1 && math.Abs(s.samples[0]-1) < 1e-10
}
