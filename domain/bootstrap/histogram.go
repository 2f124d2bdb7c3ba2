package bootstrap

import (
	"recoverystats/domain/core"
)

// BinInterval is the confidence interval of one histogram bin's count
type BinInterval struct {
	Lower    float64  `json:"lower"`
	Upper    float64  `json:"upper"`
	Interval Interval `json:"interval"`
}

// Histogram is a bootstrapped histogram: for every bin the interval of its
// count across rounds.
type Histogram struct {
	Name    string        `json:"name"`
	Binning Binning       `json:"binning"`
	Bins    []BinInterval `json:"bins"`
	Groups  int           `json:"groups"`
}

// Medians returns the per-bin median counts in bin order
func (h *Histogram) Medians() []float64 {
	out := make([]float64, len(h.Bins))
	for i, b := range h.Bins {
		out[i] = b.Interval.Median
	}
	return out
}

// Errors returns the per-bin error bars in bin order
func (h *Histogram) Errors() []float64 {
	out := make([]float64, len(h.Bins))
	for i, b := range h.Bins {
		out[i] = b.Interval.Error
	}
	return out
}

// FlatZip interleaves two equally long sequences: x0, y0, x1, y1, ...
func FlatZip[T any](x, y []T) ([]T, error) {
	if len(x) != len(y) {
		return nil, core.NewInconsistencyError("cannot interleave sequences of length %d and %d", len(x), len(y))
	}
	out := make([]T, 0, 2*len(x))
	for i := range x {
		out = append(out, x[i], y[i])
	}
	return out, nil
}
