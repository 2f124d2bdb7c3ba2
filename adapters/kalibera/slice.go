// Package kalibera estimates confidence intervals from bootstrap
// distributions by slicing the sorted sample at symmetric quantiles, in the
// style of the Kalibera-Jones benchmarking method.
package kalibera

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"recoverystats/domain/bootstrap"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// Slice implements ports.ConfidenceEstimator
type Slice struct{}

// NewSlice creates a new quantile-slice estimator
func NewSlice() *Slice {
	return &Slice{}
}

// Estimate returns the median of sample and the interval between the
// (1-level)/2 and 1-(1-level)/2 empirical quantiles. Error is the larger
// distance from the median to either bound.
func (s *Slice) Estimate(sample []float64, level float64) (bootstrap.Interval, error) {
	if len(sample) == 0 {
		return bootstrap.Interval{}, fmt.Errorf("confidence interval of an empty sample")
	}
	if !(level > 0 && level < 1) {
		return bootstrap.Interval{}, fmt.Errorf("confidence level must be in (0, 1), got %g", level)
	}

	sorted := make([]float64, len(sample))
	copy(sorted, sample)
	for _, v := range sorted {
		if math.IsNaN(v) {
			return bootstrap.Interval{}, fmt.Errorf("confidence interval of a sample containing NaN")
		}
	}
	sort.Float64s(sorted)

	median, err := stats.Median(sorted)
	if err != nil {
		return bootstrap.Interval{}, fmt.Errorf("median: %w", err)
	}

	exclude := (1 - level) / 2
	lower := stat.Quantile(exclude, stat.Empirical, sorted, nil)
	upper := stat.Quantile(1-exclude, stat.Empirical, sorted, nil)

	return bootstrap.Interval{
		Median: median,
		Error:  math.Max(median-lower, upper-median),
		Lower:  lower,
		Upper:  upper,
	}, nil
}

// ParseLevel parses a confidence level such as "0.99"
func ParseLevel(s string) (float64, error) {
	level, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid confidence level %q: %w", s, err)
	}
	if !(level > 0 && level < 1) {
		return 0, fmt.Errorf("confidence level must be in (0, 1), got %q", s)
	}
	return level, nil
}
