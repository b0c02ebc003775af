package conv

import (
	"math"

	"github.com/convolab/convolab/logging"
	"github.com/convolab/convolab/signal"
)

// Engine owns one convolution session: the precomputed reference
// output, the output time grid, and the stepping cursor. An Engine is
// not safe for concurrent use; callers needing parallel sessions run
// independent engines.
type Engine struct {
	session *session
	logger  logging.Logger
}

// session is the mutable state behind one Initialize call.
type session struct {
	x, h *signal.Signal

	// reference is the authoritative convolution of the original,
	// unpadded inputs. Stepping replays it and never recomputes.
	reference []float64

	// outGrid is the analytic output support [nx0+nh0, nxEnd+nhEnd].
	outGrid *signal.Grid

	// uni hosts both inputs on one grid for flip-and-slide display.
	uni *unified

	// cursor is the next output index to reveal, in [0, len(reference)].
	cursor int

	// revealed mirrors reference but holds NaN at indices not yet
	// stepped through.
	revealed []float64
}

// StepResult is one revealed output sample together with the
// visualization vectors for that shift position.
type StepResult struct {
	// Index is the output index this result describes.
	Index int

	// N is the output sample position on the time axis.
	N float64

	// Y is the output sample value.
	Y float64

	// HShifted is the second input flipped and shifted to N, sampled
	// over the unified grid.
	HShifted []float64

	// Product is the elementwise product of the first input and
	// HShifted over the unified grid.
	Product []float64
}

// NewEngine creates an engine with no session.
func NewEngine() *Engine {
	return &Engine{
		logger: logging.WithFields(logging.Fields{
			"component": "conv_engine",
		}),
	}
}

// Initialize builds a new session from two signals. Any prior session
// is replaced. On error the engine keeps whatever session it had;
// initialization never leaves partial state behind.
func (e *Engine) Initialize(x, h *signal.Signal) error {
	if x == nil || h == nil || x.Len() == 0 || h.Len() == 0 {
		return ErrEmptyInput
	}
	if x.Len() != x.Grid().Len() || h.Len() != h.Grid().Len() {
		return ErrGridMismatch
	}

	reference, err := Direct(x.Samples(), h.Samples())
	if err != nil {
		return err
	}

	// Output support comes from the input supports analytically, never
	// from counting samples on a padded grid.
	outGrid, err := outputGrid(x.Grid(), h.Grid(), len(reference))
	if err != nil {
		return err
	}

	uni, err := unifySignals(x, h)
	if err != nil {
		return err
	}

	revealed := make([]float64, len(reference))
	for i := range revealed {
		revealed[i] = math.NaN()
	}

	e.session = &session{
		x:         x,
		h:         h,
		reference: reference,
		outGrid:   outGrid,
		uni:       uni,
		revealed:  revealed,
	}

	e.logger.Debug("session initialized", logging.Fields{
		"output_len":   len(reference),
		"output_start": outGrid.First(),
		"output_end":   outGrid.Last(),
	})
	return nil
}

// outputGrid builds the output support [nx0+nh0, nxEnd+nhEnd] with n
// linearly spaced points.
func outputGrid(nx, nh *signal.Grid, n int) (*signal.Grid, error) {
	return signal.Span(nx.First()+nh.First(), nx.Last()+nh.Last(), n)
}

// Step reveals the next output sample and advances the cursor. Once the
// session is complete it returns a sentinel result with NaN sample
// positions and empty visualization vectors.
func (e *Engine) Step() StepResult {
	s := e.session
	if s == nil || s.cursor >= len(s.reference) {
		return StepResult{
			Index:    -1,
			N:        math.NaN(),
			Y:        math.NaN(),
			HShifted: []float64{},
			Product:  []float64{},
		}
	}

	result := e.stepAt(s.cursor)
	s.revealed[s.cursor] = result.Y
	s.cursor++
	return result
}

// StepAt computes the step result for an arbitrary output index without
// touching the cursor or the revealed buffer. Callers combine it with
// Rewind to walk backward.
func (e *Engine) StepAt(i int) (StepResult, error) {
	s := e.session
	if s == nil {
		return StepResult{}, ErrNoSession
	}
	if i < 0 || i >= len(s.reference) {
		return StepResult{}, ErrIndexRange
	}
	return e.stepAt(i), nil
}

// stepAt computes one step. The output value replays the precomputed
// reference; only the shift visualization is computed per call.
func (e *Engine) stepAt(i int) StepResult {
	s := e.session
	n := s.outGrid.At(i)

	uniGrid := s.uni.grid
	tol := uniGrid.Step() / 2
	if tol == 0 {
		tol = 0.5
	}

	hGrid := s.h.Grid()
	hShifted := make([]float64, uniGrid.Len())
	product := make([]float64, uniGrid.Len())
	clamped := 0
	for k := 0; k < uniGrid.Len(); k++ {
		if j := hGrid.IndexOf(n-uniGrid.At(k), tol); j >= 0 {
			hShifted[k] = s.h.At(j)
		}
		product[k] = s.uni.x[k] * hShifted[k]

		// Fail-soft: the display vectors are clamped rather than
		// propagating degenerate values; the reference is untouched.
		if math.IsNaN(product[k]) || math.IsInf(product[k], 0) {
			product[k] = 0
			clamped++
		}
	}
	if clamped > 0 {
		e.logger.Warn("non-finite product samples clamped to zero", logging.Fields{
			"index": i,
			"count": clamped,
		})
	}

	return StepResult{
		Index:    i,
		N:        n,
		Y:        s.reference[i],
		HShifted: hShifted,
		Product:  product,
	}
}

// Rewind moves the cursor back to index i and un-reveals every output
// sample at or beyond it. Rewinding to the current cursor or forward is
// rejected only when out of the valid range [0, OutputLen].
func (e *Engine) Rewind(i int) error {
	s := e.session
	if s == nil {
		return ErrNoSession
	}
	if i < 0 || i > len(s.reference) {
		return ErrInvalidRewind
	}

	for k := i; k < len(s.revealed); k++ {
		s.revealed[k] = math.NaN()
	}
	s.cursor = i
	return nil
}

// Reset drops the session entirely.
func (e *Engine) Reset() {
	e.session = nil
}

// IsComplete reports whether every output sample has been revealed.
func (e *Engine) IsComplete() bool {
	return e.session != nil && e.session.cursor >= len(e.session.reference)
}

// Progress returns stepping progress in percent, clamped to [0, 100].
func (e *Engine) Progress() float64 {
	s := e.session
	if s == nil || len(s.reference) == 0 {
		return 0
	}
	p := float64(s.cursor) / float64(len(s.reference)) * 100
	return math.Min(100, math.Max(0, p))
}

// OutputLen returns the reference output length, or 0 with no session.
func (e *Engine) OutputLen() int {
	if e.session == nil {
		return 0
	}
	return len(e.session.reference)
}

// Output returns the output time grid and the full reference result.
// Available immediately after Initialize, regardless of stepping.
func (e *Engine) Output() (*signal.Grid, []float64, error) {
	s := e.session
	if s == nil {
		return nil, nil, ErrNoSession
	}
	out := make([]float64, len(s.reference))
	copy(out, s.reference)
	return s.outGrid, out, nil
}

// Revealed returns the stepped-so-far output buffer; indices not yet
// stepped hold NaN.
func (e *Engine) Revealed() ([]float64, error) {
	s := e.session
	if s == nil {
		return nil, ErrNoSession
	}
	out := make([]float64, len(s.revealed))
	copy(out, s.revealed)
	return out, nil
}

// Unified returns the shared visualization grid and both inputs mapped
// onto it.
func (e *Engine) Unified() (*signal.Grid, []float64, []float64, error) {
	s := e.session
	if s == nil {
		return nil, nil, nil, ErrNoSession
	}
	x := make([]float64, len(s.uni.x))
	copy(x, s.uni.x)
	h := make([]float64, len(s.uni.h))
	copy(h, s.uni.h)
	return s.uni.grid, x, h, nil
}
