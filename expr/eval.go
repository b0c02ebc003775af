package expr

import (
	"math"

	"github.com/convolab/convolab/logging"
	"github.com/convolab/convolab/signal"
)

// deltaTol is the half-width inside which an impulse argument counts
// as zero.
const deltaTol = 1e-10

// Parse parses text and samples the result over grid. The returned
// signal always has exactly one sample per grid position. Degenerate
// numeric results (NaN, Inf) are zeroed with a warning rather than
// failing the parse; syntax failures are hard errors.
func Parse(text string, grid *signal.Grid) (*signal.Signal, error) {
	if grid == nil {
		return nil, ErrEmptyInput
	}

	node, err := ParseAST(text)
	if err != nil {
		return nil, err
	}

	samples := Eval(node, grid)
	if len(samples) != grid.Len() {
		return nil, ErrLengthMismatch
	}

	sanitize(samples)

	return signal.NewSignal(grid, samples)
}

// Eval samples node over grid. The result length always equals the
// grid length.
func Eval(node Node, grid *signal.Grid) []float64 {
	switch n := node.(type) {
	case *Literal:
		return alignLiteral(n.Values, grid.Len())

	case *Identity:
		return grid.Values()

	case *Constant:
		out := make([]float64, grid.Len())
		for i := range out {
			out[i] = n.Value
		}
		return out

	case *Exponential:
		out := make([]float64, grid.Len())
		for i := range out {
			out[i] = math.Pow(n.Base, grid.At(i))
		}
		return out

	case *Call:
		return evalCall(n, grid)

	case *BinaryOp:
		left := Eval(n.Left, grid)
		right := Eval(n.Right, grid)
		out := make([]float64, len(left))
		for i := range out {
			switch n.Op {
			case OpAdd:
				out[i] = left[i] + right[i]
			case OpSub:
				out[i] = left[i] - right[i]
			case OpMul:
				out[i] = left[i] * right[i]
			}
		}
		return out
	}
	return nil
}

// alignLiteral left-aligns explicit values onto a grid of length n,
// zero-padding short vectors and truncating long ones.
func alignLiteral(values []float64, n int) []float64 {
	if len(values) > n {
		logging.Warn("literal vector longer than time grid, truncating", logging.Fields{
			"values": len(values),
			"grid":   n,
		})
	}

	out := make([]float64, n)
	copy(out, values)
	return out
}

// evalCall applies a primitive to its argument values. For composition
// the inner call is evaluated first and its numeric output becomes the
// outer argument.
func evalCall(call *Call, grid *signal.Grid) []float64 {
	var args []float64
	if call.Inner != nil {
		args = evalCall(call.Inner, grid)
	} else {
		args = make([]float64, grid.Len())
		for i := range args {
			args[i] = call.Arg.Coeff*grid.At(i) + call.Arg.Offset
		}
	}

	out := make([]float64, len(args))
	for i, a := range args {
		out[i] = applyPrimitive(call.Fn, a)
	}
	return out
}

// applyPrimitive evaluates one primitive at one argument value. The
// switch is exhaustive over the closed primitive set.
func applyPrimitive(fn Primitive, a float64) float64 {
	switch fn {
	case PrimU:
		if a >= 0 {
			return 1
		}
		return 0
	case PrimDelta:
		if math.Abs(a) < deltaTol {
			return 1
		}
		return 0
	case PrimSin:
		return math.Sin(a)
	case PrimCos:
		return math.Cos(a)
	case PrimTan:
		return math.Tan(a)
	case PrimGauss:
		return math.Exp(-a * a / 2)
	case PrimAbs:
		return math.Abs(a)
	}
	return 0
}

// sanitize zeroes non-finite samples in place, warning once per sweep.
// Expression evaluation is a visualization input, so degenerate values
// are recovered from rather than propagated.
func sanitize(samples []float64) {
	bad := 0
	for i, s := range samples {
		if math.IsNaN(s) || math.IsInf(s, 0) {
			samples[i] = 0
			bad++
		}
	}
	if bad > 0 {
		logging.Warn("non-finite samples zeroed", logging.Fields{
			"count": bad,
			"total": len(samples),
		})
	}
}
