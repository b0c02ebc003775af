package conv

import (
	"math"

	"github.com/convolab/convolab/signal"
)

// unified holds both input signals remapped onto one shared grid. The
// unified view exists purely for flip-and-slide visualization; the
// authoritative output never touches it.
type unified struct {
	grid *signal.Grid
	x    []float64
	h    []float64
}

// unifySignals builds a uniform grid wide enough to host both inputs
// and the full convolution support, then places each input's samples
// onto it.
//
// The grid starts at the smaller of the two input starts and extends by
// (Lx+Lh-1 + max(Lnx,Lnh) - 1) steps, a heuristic margin that always
// covers the convolution support. The step is taken from whichever
// input grid has at least two points; two single-point inputs fall
// back to a unit step.
func unifySignals(x, h *signal.Signal) (*unified, error) {
	nx, nh := x.Grid(), h.Grid()

	step := 1.0
	switch {
	case nx.Len() > 1:
		step = nx.Step()
	case nh.Len() > 1:
		step = nh.Step()
	}

	start := math.Min(nx.First(), nh.First())
	count := x.Len() + h.Len() - 1 + max(nx.Len(), nh.Len())

	grid, err := signal.Span(start, start+float64(count-1)*step, count)
	if err != nil {
		return nil, err
	}

	return &unified{
		grid: grid,
		x:    placeSamples(x, grid),
		h:    placeSamples(h, grid),
	}, nil
}

// placeSamples maps a signal onto the unified grid by nearest-index
// placement within half a step. Only non-zero samples are placed, so an
// isolated impulse survives the remap instead of being averaged away by
// resampling.
func placeSamples(s *signal.Signal, grid *signal.Grid) []float64 {
	out := make([]float64, grid.Len())
	tol := grid.Step() / 2
	if tol == 0 {
		tol = 0.5
	}

	for i := 0; i < s.Len(); i++ {
		v := s.At(i)
		if v == 0 {
			continue
		}
		if j := grid.IndexOf(s.Grid().At(i), tol); j >= 0 {
			out[j] = v
		}
	}
	return out
}
