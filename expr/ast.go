package expr

import "fmt"

// Primitive identifies one of the built-in signal functions. The set is
// closed; evaluation switches over it exhaustively, so adding a new
// primitive forces every dispatch site to handle it.
type Primitive int

const (
	// PrimU is the unit step: 1 where the argument is >= 0, else 0.
	PrimU Primitive = iota

	// PrimDelta is the unit impulse: 1 where the argument is zero
	// (within 1e-10), else 0.
	PrimDelta

	// PrimSin, PrimCos, PrimTan are the trigonometric functions.
	PrimSin
	PrimCos
	PrimTan

	// PrimGauss is the unnormalized Gaussian exp(-x^2/2).
	PrimGauss

	// PrimAbs is the absolute value.
	PrimAbs
)

// primitiveNames maps the textual function names to their tags.
var primitiveNames = map[string]Primitive{
	"u":     PrimU,
	"delta": PrimDelta,
	"sin":   PrimSin,
	"cos":   PrimCos,
	"tan":   PrimTan,
	"gauss": PrimGauss,
	"abs":   PrimAbs,
}

func (p Primitive) String() string {
	switch p {
	case PrimU:
		return "u"
	case PrimDelta:
		return "delta"
	case PrimSin:
		return "sin"
	case PrimCos:
		return "cos"
	case PrimTan:
		return "tan"
	case PrimGauss:
		return "gauss"
	case PrimAbs:
		return "abs"
	default:
		return fmt.Sprintf("Primitive(%d)", int(p))
	}
}

// Op is a binary arithmetic operator. Division is deliberately absent;
// the grammar rejects it.
type Op int

const (
	OpAdd Op = iota
	OpSub
	OpMul
)

func (o Op) String() string {
	switch o {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	default:
		return fmt.Sprintf("Op(%d)", int(o))
	}
}

// Node is one node of a parsed signal expression.
type Node interface {
	isNode()
}

// Literal is an explicit sample vector, left-aligned onto the grid at
// evaluation time.
type Literal struct {
	Values []float64
}

// Identity is the bare time variable.
type Identity struct{}

// Constant is a numeric constant broadcast over the grid.
type Constant struct {
	Value float64
}

// Exponential is base^t sampled over the grid.
type Exponential struct {
	Base float64
}

// Affine is the restricted function-argument form coeff*t + offset.
// The grammar only admits t, -t, t+k, t-k, c*t, and a bare constant,
// all of which reduce to this shape (a bare constant has Coeff 0).
type Affine struct {
	Coeff  float64
	Offset float64
}

// Call applies a primitive either to an affine argument or, for
// composition, to the numeric result of an inner call.
type Call struct {
	Fn    Primitive
	Arg   *Affine
	Inner *Call
}

// BinaryOp combines two sub-expressions elementwise.
type BinaryOp struct {
	Op    Op
	Left  Node
	Right Node
}

func (*Literal) isNode()     {}
func (*Identity) isNode()    {}
func (*Constant) isNode()    {}
func (*Exponential) isNode() {}
func (*Call) isNode()        {}
func (*BinaryOp) isNode()    {}
