package conv

import (
	"math"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/floats"
)

// Tolerances for the theory checks.
const (
	// theoryTol bounds max-abs-error for the exact identities.
	theoryTol = 1e-10

	// spectralTol bounds the FFT cross-check, which accumulates
	// round-off from the transform pair.
	spectralTol = 1e-6
)

// ComplianceReport is a read-only snapshot of the convolution-theory
// checks for the current session. Every check is evaluated and reported
// independently; a failing check never short-circuits the others.
type ComplianceReport struct {
	// Length: the reference has Lx+Lh-1 samples.
	Length bool

	// Commutativity: conv(h,x) matches conv(x,h).
	Commutativity      bool
	CommutativityError float64

	// ImpulseResponse: conv(impulse, h) reproduces h. Only applicable
	// when x is a one-sample unit impulse.
	ImpulseApplicable bool
	ImpulseResponse   bool

	// TimeIndexing: the output support endpoints equal the sums of the
	// input support endpoints.
	TimeIndexing bool

	// SelfConsistency: every output sample revealed by stepping matches
	// the reference.
	SelfConsistency bool
	SteppedCount    int

	// SpectralCrossCheck: frequency-domain convolution reproduces the
	// time-domain reference. Informational; not part of Overall.
	SpectralCrossCheck bool
	SpectralError      float64

	// Overall is the conjunction of Length, Commutativity,
	// SelfConsistency, and ImpulseResponse when applicable.
	Overall bool
}

// Verify runs the convolution-theory checks against the current
// session.
func (e *Engine) Verify() (*ComplianceReport, error) {
	s := e.session
	if s == nil {
		return nil, ErrNoSession
	}

	report := &ComplianceReport{}

	report.Length = len(s.reference) == s.x.Len()+s.h.Len()-1

	if swapped, err := Direct(s.h.Samples(), s.x.Samples()); err == nil {
		report.CommutativityError = maxAbsDiff(swapped, s.reference)
		report.Commutativity = report.CommutativityError <= theoryTol
	}

	report.ImpulseApplicable = s.x.IsUnitImpulse()
	if report.ImpulseApplicable {
		report.ImpulseResponse = maxAbsDiff(s.reference, s.h.Samples()) <= theoryTol
	}

	nx, nh := s.x.Grid(), s.h.Grid()
	report.TimeIndexing = math.Abs(s.outGrid.First()-(nx.First()+nh.First())) <= theoryTol &&
		math.Abs(s.outGrid.Last()-(nx.Last()+nh.Last())) <= theoryTol

	report.SelfConsistency = true
	for i, v := range s.revealed {
		if math.IsNaN(v) {
			continue
		}
		report.SteppedCount++
		if math.Abs(v-s.reference[i]) > theoryTol {
			report.SelfConsistency = false
		}
	}

	spectral := fftConvolve(s.x.Samples(), s.h.Samples())
	report.SpectralError = maxAbsDiff(spectral, s.reference)
	report.SpectralCrossCheck = report.SpectralError <= spectralTol

	report.Overall = report.Length && report.Commutativity && report.SelfConsistency
	if report.ImpulseApplicable {
		report.Overall = report.Overall && report.ImpulseResponse
	}

	return report, nil
}

// fftConvolve convolves via the frequency domain: zero-pad both inputs
// to the full output length, transform, multiply, invert.
func fftConvolve(x, h []float64) []float64 {
	n := len(x) + len(h) - 1

	xPad := make([]float64, n)
	copy(xPad, x)
	hPad := make([]float64, n)
	copy(hPad, h)

	xf := fft.FFTReal(xPad)
	hf := fft.FFTReal(hPad)

	prod := make([]complex128, n)
	for i := range prod {
		prod[i] = xf[i] * hf[i]
	}

	inv := fft.IFFT(prod)
	out := make([]float64, n)
	for i, v := range inv {
		out[i] = real(v)
	}
	return out
}

// maxAbsDiff returns the largest elementwise absolute difference.
func maxAbsDiff(a, b []float64) float64 {
	if len(a) != len(b) {
		return math.Inf(1)
	}
	d := make([]float64, len(a))
	copy(d, a)
	floats.Sub(d, b)
	return floats.Norm(d, math.Inf(1))
}
