package bootstrap

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Binning describes Bins equal-width histogram bins over [0, Max). Values
// outside the range are not counted. With InclusiveMax the top bin is closed
// and a value equal to Max lands in the last bin.
type Binning struct {
	Bins         int
	Max          float64
	InclusiveMax bool
}

// Validate checks the binning is usable
func (b Binning) Validate() error {
	if b.Bins < 1 {
		return fmt.Errorf("histogram needs at least one bin, got %d", b.Bins)
	}
	if !(b.Max > 0) || math.IsInf(b.Max, 0) {
		return fmt.Errorf("histogram range must be positive and finite, got %g", b.Max)
	}
	return nil
}

// Width returns the width of a single bin
func (b Binning) Width() float64 {
	return b.Max / float64(b.Bins)
}

// Bin classifies v. The second result is false when v is out of range.
func (b Binning) Bin(v float64) (int, bool) {
	if math.IsNaN(v) || v < 0 || v > b.Max {
		return 0, false
	}
	if v == b.Max {
		if !b.InclusiveMax {
			return 0, false
		}
		return b.Bins - 1, true
	}
	i := int(v / b.Width())
	// v/width can round up to Bins for v just below Max
	if i >= b.Bins {
		i = b.Bins - 1
	}
	return i, true
}

// Counts buckets values in a single deterministic pass
func (b Binning) Counts(values []float64) []int {
	counts := make([]int, b.Bins)
	for _, v := range values {
		if i, ok := b.Bin(v); ok {
			counts[i]++
		}
	}
	return counts
}

// Edges returns the Bins+1 bin boundaries from 0 to Max
func (b Binning) Edges() []float64 {
	return floats.Span(make([]float64, b.Bins+1), 0, b.Max)
}
