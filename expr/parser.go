package expr

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// Errors returned by expression parsing.
var (
	ErrEmptyInput     = errors.New("expr: empty expression")
	ErrUnparseable    = errors.New("expr: expression does not match the grammar")
	ErrDivision       = errors.New("expr: division is not supported")
	ErrNestedBrackets = errors.New("expr: nested literal brackets are not supported")
	ErrComplex        = errors.New("expr: complex values are not supported")
	ErrLengthMismatch = errors.New("expr: sample count does not match grid length")
)

var (
	// callPattern matches name[...] over the whole expression. The
	// bracket content still needs a balance check because the pattern
	// is anchored on the final bracket only.
	callPattern = regexp.MustCompile(`^(u|delta|sin|cos|tan|gauss|abs)\[(.+)\]$`)

	// numberToken matches one real numeric literal.
	numberToken = regexp.MustCompile(`[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

	// complexToken spots an imaginary suffix on a numeric literal.
	complexToken = regexp.MustCompile(`[0-9.][ij]`)

	// powerPattern matches base^t simple terminals.
	powerPattern = regexp.MustCompile(`^([+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?)\^n$`)

	// scalePattern matches coeff*t simple terminals.
	scalePattern = regexp.MustCompile(`^([+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?)\*n$`)

	// affineShiftPattern matches t+k / t-k function arguments.
	affineShiftPattern = regexp.MustCompile(`^n([+-])((\d+\.?\d*|\.\d+)([eE][+-]?\d+)?)$`)
)

// ParseAST parses a signal expression into its syntax tree. Whitespace
// is insignificant and removed up front; operator scanning below works
// on the stripped text.
func ParseAST(text string) (Node, error) {
	stripped := strings.ReplaceAll(text, " ", "")
	stripped = strings.ReplaceAll(stripped, "\t", "")
	if stripped == "" {
		return nil, ErrEmptyInput
	}

	// Hard rejects: these are never valid anywhere in an expression.
	if strings.Contains(stripped, "/") {
		return nil, ErrDivision
	}
	if strings.Contains(stripped, "[[") {
		return nil, ErrNestedBrackets
	}
	if complexToken.MatchString(stripped) {
		return nil, ErrComplex
	}

	node := parseExpr(stripped)
	if node == nil {
		return nil, ErrUnparseable
	}
	return node, nil
}

// parseExpr dispatches one expression string. Returns nil when no rule
// matches; the rule order is the grammar's precedence.
func parseExpr(s string) Node {
	if s == "" {
		return nil
	}

	// 1. Direct vector literal.
	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") && !strings.ContainsAny(s[1:len(s)-1], "[]") {
		return parseLiteral(s)
	}

	// 2. Compound expressions: additive before multiplicative.
	if node := splitBinary(s, OpAdd); node != nil {
		return node
	}
	if node := splitBinary(s, OpSub); node != nil {
		return node
	}
	if node := splitBinary(s, OpMul); node != nil {
		return node
	}

	// 3/4. Function application, including one level of composition.
	if node := parseCall(s); node != nil {
		return node
	}

	// 5. Simple terminals.
	return parseSimple(s)
}

// splitBinary scans for a top-level occurrence of the operator and
// splits there. Additive operators scan right to left so that chains
// associate left; multiplication scans left to right. A split point is
// valid only when both sides parse as expressions on their own, so
// operators inside brackets or numeric literals fall through naturally.
func splitBinary(s string, op Op) Node {
	try := func(i int) Node {
		left := parseExpr(s[:i])
		if left == nil {
			return nil
		}
		right := parseExpr(s[i+1:])
		if right == nil {
			return nil
		}
		return &BinaryOp{Op: op, Left: left, Right: right}
	}

	switch op {
	case OpAdd:
		for i := len(s) - 2; i >= 1; i-- {
			// A '+' after a digit, '.', or exponent marker belongs to a
			// numeric literal such as 1e+5.
			if s[i] != '+' || isNumericContext(s[i-1]) {
				continue
			}
			if node := try(i); node != nil {
				return node
			}
		}
	case OpSub:
		for i := len(s) - 2; i >= 1; i-- {
			// A '-' after a digit belongs to a negative literal.
			if s[i] != '-' || isDigit(s[i-1]) {
				continue
			}
			if node := try(i); node != nil {
				return node
			}
		}
	case OpMul:
		for i := 1; i <= len(s)-2; i++ {
			if s[i] != '*' {
				continue
			}
			if node := try(i); node != nil {
				return node
			}
		}
	}
	return nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isNumericContext(c byte) bool {
	return isDigit(c) || c == '.' || c == 'e' || c == 'E'
}

// parseLiteral parses a bracketed sample vector.
func parseLiteral(s string) Node {
	inner := s[1 : len(s)-1]
	matches := numberToken.FindAllString(inner, -1)
	if len(matches) == 0 {
		return nil
	}

	leftover := numberToken.ReplaceAllString(inner, "")
	if strings.Trim(leftover, ", ;") != "" {
		return nil
	}

	values := make([]float64, len(matches))
	for i, m := range matches {
		v, err := strconv.ParseFloat(m, 64)
		if err != nil {
			return nil
		}
		values[i] = v
	}
	return &Literal{Values: values}
}

// parseCall parses name[arg]. The argument grammar is deliberately
// narrower than the expression grammar: an affine form of the time
// variable, or a single inner call for composition.
func parseCall(s string) *Call {
	m := callPattern.FindStringSubmatch(s)
	if m == nil {
		return nil
	}
	fn := primitiveNames[m[1]]
	arg := m[2]

	if !bracketsBalanced(arg) {
		return nil
	}

	if affine := parseAffine(arg); affine != nil {
		return &Call{Fn: fn, Arg: affine}
	}

	// Composition: the inner call must itself take an affine argument.
	if inner := parseCall(arg); inner != nil && inner.Inner == nil {
		return &Call{Fn: fn, Inner: inner}
	}
	return nil
}

// bracketsBalanced reports whether every ']' in s closes a '[' opened
// within s. The call pattern anchors on the final bracket, so without
// this check an argument could reach across sibling calls.
func bracketsBalanced(s string) bool {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}

// parseAffine parses the restricted argument grammar: n, -n, n+k, n-k,
// c*n, or a bare constant. All reduce to coeff*n + offset.
func parseAffine(s string) *Affine {
	if s == "n" {
		return &Affine{Coeff: 1}
	}
	if s == "-n" {
		return &Affine{Coeff: -1}
	}
	if m := affineShiftPattern.FindStringSubmatch(s); m != nil {
		k, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			return nil
		}
		if m[1] == "-" {
			k = -k
		}
		return &Affine{Coeff: 1, Offset: k}
	}
	if m := scalePattern.FindStringSubmatch(s); m != nil {
		c, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return nil
		}
		return &Affine{Coeff: c}
	}
	if c, err := strconv.ParseFloat(s, 64); err == nil {
		return &Affine{Offset: c}
	}
	return nil
}

// parseSimple parses the terminal forms: the bare time variable, a
// scaled variable, a geometric base^t term, or a numeric constant.
func parseSimple(s string) Node {
	if s == "n" {
		return &Identity{}
	}
	if m := scalePattern.FindStringSubmatch(s); m != nil {
		c, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return nil
		}
		return &BinaryOp{Op: OpMul, Left: &Constant{Value: c}, Right: &Identity{}}
	}
	if m := powerPattern.FindStringSubmatch(s); m != nil {
		base, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return nil
		}
		return &Exponential{Base: base}
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return &Constant{Value: v}
	}
	return nil
}
