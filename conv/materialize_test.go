package conv_test

import (
	"testing"

	"github.com/convolab/convolab/conv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestUnified_CoversConvolutionSupport verifies that the shared grid is
// wide enough to host the full output support.
func TestUnified_CoversConvolutionSupport(t *testing.T) {
	x := mustSignal(t, "0:3", []float64{1, 2, 1, 1})
	h := mustSignal(t, "0:2", []float64{1, 1, 1})

	e := conv.NewEngine()
	require.NoError(t, e.Initialize(x, h))

	uniGrid, _, _, err := e.Unified()
	require.NoError(t, err)

	outGrid, _, err := e.Output()
	require.NoError(t, err)

	assert.LessOrEqual(t, uniGrid.First(), outGrid.First())
	assert.GreaterOrEqual(t, uniGrid.Last(), outGrid.Last())
	assert.InDelta(t, 1.0, uniGrid.Step(), 1e-12, "step carried over from the inputs")
}

// TestUnified_PreservesImpulse verifies that a single-sample impulse
// survives the remap onto the shared grid instead of vanishing into
// interpolation.
func TestUnified_PreservesImpulse(t *testing.T) {
	x := mustExpr(t, "delta[n-1]", "0:2")
	h := mustExpr(t, "u[n]", "0:4")

	e := conv.NewEngine()
	require.NoError(t, e.Initialize(x, h))

	uniGrid, ux, _, err := e.Unified()
	require.NoError(t, err)

	nonzero := 0
	impulseIdx := -1
	for i, v := range ux {
		if v != 0 {
			nonzero++
			impulseIdx = i
		}
	}
	require.Equal(t, 1, nonzero, "the impulse occupies exactly one index")
	assert.Equal(t, 1.0, ux[impulseIdx])
	assert.Equal(t, 1.0, uniGrid.At(impulseIdx), "and sits at its original time position")
}

// TestUnified_OffsetGrids verifies placement when the input supports do
// not share a start.
func TestUnified_OffsetGrids(t *testing.T) {
	x := mustSignal(t, "3:5", []float64{1, 2, 3})
	h := mustSignal(t, "0:4", []float64{1, 0, 0, 0, 1})

	e := conv.NewEngine()
	require.NoError(t, e.Initialize(x, h))

	uniGrid, ux, uh, err := e.Unified()
	require.NoError(t, err)

	assert.Equal(t, 0.0, uniGrid.First(), "grid starts at the earlier input")
	assert.Equal(t, len(ux), uniGrid.Len())
	assert.Equal(t, len(uh), uniGrid.Len())

	// x's samples land at their original positions 3, 4, 5.
	for i, want := range []float64{1, 2, 3} {
		idx := uniGrid.IndexOf(float64(3+i), 0.5)
		require.GreaterOrEqual(t, idx, 0)
		assert.Equal(t, want, ux[idx])
	}

	// h keeps its endpoints and its interior zeros.
	assert.Equal(t, 1.0, uh[uniGrid.IndexOf(0, 0.5)])
	assert.Equal(t, 0.0, uh[uniGrid.IndexOf(2, 0.5)])
	assert.Equal(t, 1.0, uh[uniGrid.IndexOf(4, 0.5)])
}

// TestUnified_ScalarInputs verifies the unit-step fallback when neither
// grid defines a spacing.
func TestUnified_ScalarInputs(t *testing.T) {
	x := mustSignal(t, "0", []float64{2})
	h := mustSignal(t, "1", []float64{3})

	e := conv.NewEngine()
	require.NoError(t, e.Initialize(x, h))

	uniGrid, ux, uh, err := e.Unified()
	require.NoError(t, err)

	assert.InDelta(t, 1.0, uniGrid.Step(), 1e-12)
	assert.Equal(t, 2.0, ux[uniGrid.IndexOf(0, 0.5)])
	assert.Equal(t, 3.0, uh[uniGrid.IndexOf(1, 0.5)])

	// The session itself is a one-sample product at n=1.
	grid, reference, err := e.Output()
	require.NoError(t, err)
	assert.Equal(t, []float64{6}, reference)
	assert.Equal(t, 1.0, grid.First())
}
