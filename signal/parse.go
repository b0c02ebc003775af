package signal

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// numberPattern matches one real numeric token, including scientific
// notation, inside a bracketed vector.
var numberPattern = regexp.MustCompile(`[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// ParseGrid parses a textual time-vector specification into a Grid.
// Accepted forms:
//
//	start:end        step defaults to 1, requires start < end
//	start:step:end   step sign must match the start/end ordering
//	[v1, v2, ...]    explicit positions, sorted and deduplicated
//	scalar           a single position
//
// Values that arrive out of order are sorted; duplicates are removed.
func ParseGrid(text string) (*Grid, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, ErrEmptyInput
	}

	var points []float64
	var err error

	switch {
	case strings.HasPrefix(trimmed, "["):
		points, err = parseBracketVector(trimmed)
	case strings.Contains(trimmed, ":"):
		points, err = parseRange(trimmed)
	default:
		v, perr := parseNumber(trimmed)
		if perr != nil {
			err = perr
		} else {
			points = []float64{v}
		}
	}
	if err != nil {
		return nil, err
	}

	return normalizePoints(points)
}

// parseBracketVector extracts numeric tokens from a [...] literal.
func parseBracketVector(text string) ([]float64, error) {
	if !strings.HasSuffix(text, "]") {
		return nil, ErrInvalidNumber
	}
	inner := text[1 : len(text)-1]
	if strings.ContainsAny(inner, "[]") {
		return nil, ErrInvalidNumber
	}

	matches := numberPattern.FindAllString(inner, -1)
	if len(matches) == 0 {
		if strings.Trim(inner, ", ;\t") == "" {
			return nil, ErrEmptyInput
		}
		return nil, ErrInvalidNumber
	}

	// Everything besides the numeric tokens must be separators.
	leftover := numberPattern.ReplaceAllString(inner, "")
	if strings.Trim(leftover, ", ;\t") != "" {
		return nil, ErrInvalidNumber
	}

	points := make([]float64, len(matches))
	for i, m := range matches {
		v, err := parseNumber(m)
		if err != nil {
			return nil, err
		}
		points[i] = v
	}
	return points, nil
}

// parseRange expands start:end or start:step:end into explicit positions.
func parseRange(text string) ([]float64, error) {
	parts := strings.Split(text, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return nil, ErrInvalidNumber
	}

	vals := make([]float64, len(parts))
	for i, p := range parts {
		v, err := parseNumber(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}

	start := vals[0]
	step := 1.0
	end := vals[len(vals)-1]
	if len(parts) == 3 {
		step = vals[1]
	}

	if step == 0 {
		return nil, ErrZeroStep
	}
	if step > 0 && start >= end {
		return nil, ErrDirectionMismatch
	}
	if step < 0 && start <= end {
		return nil, ErrDirectionMismatch
	}

	// Inclusive endpoint with a small slack against float drift.
	count := int(math.Floor((end-start)/step+SpacingTol)) + 1
	points := make([]float64, count)
	for i := range points {
		points[i] = start + float64(i)*step
	}
	return points, nil
}

// parseNumber parses one finite real number.
func parseNumber(text string) (float64, error) {
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrInvalidNumber
	}
	return v, nil
}

// normalizePoints sorts and deduplicates positions, then applies the
// Grid invariants.
func normalizePoints(points []float64) (*Grid, error) {
	if !sort.Float64sAreSorted(points) {
		sort.Float64s(points)
	}

	dedup := points[:0]
	for i, p := range points {
		if i == 0 || p != points[i-1] {
			dedup = append(dedup, p)
		}
	}

	return NewGrid(dedup)
}
