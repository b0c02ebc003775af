package conv_test

import (
	"math/rand"
	"testing"

	"github.com/convolab/convolab/conv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDirect_Known verifies the textbook example [1,2,1,1]*[1,1,1].
func TestDirect_Known(t *testing.T) {
	result, err := conv.Direct([]float64{1, 2, 1, 1}, []float64{1, 1, 1})
	require.NoError(t, err)

	assert.Equal(t, []float64{1, 3, 4, 4, 2, 1}, result)
}

// TestDirect_Length verifies the Lx+Lh-1 output length over a spread
// of sizes.
func TestDirect_Length(t *testing.T) {
	for _, sizes := range [][2]int{{1, 1}, {1, 7}, {4, 3}, {16, 5}} {
		x := make([]float64, sizes[0])
		h := make([]float64, sizes[1])
		result, err := conv.Direct(x, h)
		require.NoError(t, err)
		assert.Len(t, result, sizes[0]+sizes[1]-1)
	}
}

// TestDirect_ImpulseIdentity verifies that convolving with [1]
// reproduces the other input exactly.
func TestDirect_ImpulseIdentity(t *testing.T) {
	h := []float64{3, -1, 0.5, 2}

	result, err := conv.Direct([]float64{1}, h)
	require.NoError(t, err)
	assert.Equal(t, h, result)
}

// TestDirect_Commutativity verifies conv(x,h) == conv(h,x) for
// randomized finite sequences.
func TestDirect_Commutativity(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 20; trial++ {
		x := make([]float64, 1+rng.Intn(12))
		h := make([]float64, 1+rng.Intn(12))
		for i := range x {
			x[i] = rng.Float64()*4 - 2
		}
		for i := range h {
			h[i] = rng.Float64()*4 - 2
		}

		xh, err := conv.Direct(x, h)
		require.NoError(t, err)
		hx, err := conv.Direct(h, x)
		require.NoError(t, err)

		require.Len(t, hx, len(xh))
		for i := range xh {
			assert.InDelta(t, xh[i], hx[i], 1e-10, "trial %d, sample %d", trial, i)
		}
	}
}

// TestDirect_EmptyInput verifies the empty-input rejection.
func TestDirect_EmptyInput(t *testing.T) {
	_, err := conv.Direct(nil, []float64{1})
	assert.ErrorIs(t, err, conv.ErrEmptyInput)

	_, err = conv.Direct([]float64{1}, nil)
	assert.ErrorIs(t, err, conv.ErrEmptyInput)
}
