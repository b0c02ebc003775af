package signal

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Tolerances for grid construction and lookup
const (
	// SpacingTol is the maximum deviation between consecutive steps
	// for a grid to count as uniformly spaced.
	SpacingTol = 1e-9
)

// Errors returned by grid construction and parsing.
var (
	ErrEmptyInput        = errors.New("signal: empty input")
	ErrInvalidNumber     = errors.New("signal: invalid numeric value")
	ErrNonIncreasing     = errors.New("signal: grid is not strictly increasing")
	ErrNonUniform        = errors.New("signal: grid spacing is not uniform")
	ErrZeroStep          = errors.New("signal: step must be non-zero")
	ErrDirectionMismatch = errors.New("signal: step sign does not match start/end ordering")
	ErrLengthMismatch    = errors.New("signal: sample count does not match grid length")
	ErrNonFinite         = errors.New("signal: non-finite value")
)

// Grid is a strictly increasing, uniformly spaced sequence of sample
// positions. A Grid is immutable once constructed; all mutating-looking
// operations return new grids.
type Grid struct {
	points []float64
	step   float64
}

// NewGrid validates points and wraps them in a Grid. Points must be
// finite, strictly increasing, and uniformly spaced within SpacingTol.
// Single-point grids are valid and report a step of 0.
func NewGrid(points []float64) (*Grid, error) {
	if len(points) == 0 {
		return nil, ErrEmptyInput
	}

	for _, p := range points {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return nil, ErrNonFinite
		}
	}

	step := 0.0
	if len(points) > 1 {
		step = points[1] - points[0]
		for i := 1; i < len(points); i++ {
			d := points[i] - points[i-1]
			if d <= 0 {
				return nil, ErrNonIncreasing
			}
			if math.Abs(d-step) > SpacingTol {
				return nil, ErrNonUniform
			}
		}
	}

	owned := make([]float64, len(points))
	copy(owned, points)

	return &Grid{points: owned, step: step}, nil
}

// Span builds a grid of n linearly spaced points covering [start, end].
// For n == 1 the grid holds start alone.
func Span(start, end float64, n int) (*Grid, error) {
	if n <= 0 {
		return nil, ErrEmptyInput
	}
	if n == 1 {
		return &Grid{points: []float64{start}}, nil
	}
	if end <= start {
		return nil, ErrNonIncreasing
	}

	points := make([]float64, n)
	floats.Span(points, start, end)

	return &Grid{points: points, step: (end - start) / float64(n-1)}, nil
}

// Len returns the number of sample positions.
func (g *Grid) Len() int {
	return len(g.points)
}

// Step returns the spacing between consecutive positions (0 for a
// single-point grid).
func (g *Grid) Step() float64 {
	return g.step
}

// At returns the i-th sample position.
func (g *Grid) At(i int) float64 {
	return g.points[i]
}

// First returns the smallest sample position.
func (g *Grid) First() float64 {
	return g.points[0]
}

// Last returns the largest sample position.
func (g *Grid) Last() float64 {
	return g.points[len(g.points)-1]
}

// Values returns a copy of the sample positions.
func (g *Grid) Values() []float64 {
	out := make([]float64, len(g.points))
	copy(out, g.points)
	return out
}

// IndexOf returns the index whose position is within tol of t, or -1
// when no position is that close. The grid is uniform, so the candidate
// index is computed directly rather than searched.
func (g *Grid) IndexOf(t, tol float64) int {
	if g.step == 0 {
		if math.Abs(t-g.points[0]) <= tol {
			return 0
		}
		return -1
	}

	i := int(math.Round((t - g.points[0]) / g.step))
	if i < 0 || i >= len(g.points) {
		return -1
	}
	if math.Abs(g.points[i]-t) > tol {
		return -1
	}
	return i
}
