package conv

import "errors"

// Errors returned by the convolution engine.
var (
	ErrEmptyInput    = errors.New("conv: empty input")
	ErrNoSession     = errors.New("conv: no session initialized")
	ErrIndexRange    = errors.New("conv: step index out of range")
	ErrGridMismatch  = errors.New("conv: sample count does not match grid length")
	ErrInvalidRewind = errors.New("conv: rewind index out of range")
)

// Direct performs direct time-domain linear convolution of x and h.
// Returns a new slice of length len(x) + len(h) - 1.
//
// This is the O(N*M) algorithm; the inputs here are short classroom
// sequences, so no FFT fast path is needed on the authoritative path.
func Direct(x, h []float64) ([]float64, error) {
	if len(x) == 0 || len(h) == 0 {
		return nil, ErrEmptyInput
	}

	result := make([]float64, len(x)+len(h)-1)
	for i := range x {
		for j := range h {
			result[i+j] += x[i] * h[j]
		}
	}
	return result, nil
}
