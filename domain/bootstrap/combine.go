package bootstrap

import (
	"fmt"

	"recoverystats/domain/core"
)

// CombineKind selects how two values at the same round index are combined
type CombineKind int

const (
	// Ratio is 100 * a / b.
	Ratio CombineKind = iota
	// RelativeDifference is 100 * (a - b) / b.
	RelativeDifference
)

func (k CombineKind) String() string {
	switch k {
	case Ratio:
		return "ratio"
	case RelativeDifference:
		return "relative_difference"
	default:
		return fmt.Sprintf("CombineKind(%d)", int(k))
	}
}

// ParseCombineKind parses "ratio" or "relative_difference"
func ParseCombineKind(s string) (CombineKind, error) {
	switch s {
	case "ratio":
		return Ratio, nil
	case "relative_difference":
		return RelativeDifference, nil
	default:
		return 0, fmt.Errorf("unknown combine kind %q", s)
	}
}

// Combine pairs x[i] with y[i] for every round index i.
//
// The two inputs come from independent resampling runs, so pairing by
// position is an approximation: it is not a coupled bootstrap with shared
// draws, and the resulting interval is wider than a paired one would be.
func Combine(x, y Distribution, kind CombineKind) (Distribution, error) {
	if len(x) != len(y) {
		return nil, core.NewInconsistencyError("distribution lengths differ: %d vs %d", len(x), len(y))
	}
	if len(x) == 0 {
		return nil, core.NewDegenerateInputError("cannot combine empty distributions")
	}

	out := make(Distribution, len(x))
	for i := range x {
		a, b := x[i], y[i]
		if b == 0 {
			return nil, core.NewDegenerateInputError("zero denominator at round %d", i)
		}
		switch kind {
		case Ratio:
			out[i] = a / b * 100.0
		case RelativeDifference:
			out[i] = (a - b) / b * 100.0
		default:
			return nil, fmt.Errorf("unknown combine kind %v", kind)
		}
	}
	return out, nil
}
