package app

import (
	"fmt"

	"recoverystats/domain/bootstrap"
	"recoverystats/domain/core"
	"recoverystats/ports"
)

// Comparator derives intervals for statistics relating two result sets
type Comparator struct {
	estimator ports.ConfidenceEstimator
	level     float64
}

// NewComparator creates a comparator reporting at the given confidence level
func NewComparator(estimator ports.ConfidenceEstimator, level float64) *Comparator {
	return &Comparator{estimator: estimator, level: level}
}

// Compare combines the distributions of stat from x and y position by
// position and estimates an interval over the result. Both sets must have
// produced the same number of rounds for stat.
func (c *Comparator) Compare(x, y *ResultSet, stat bootstrap.Statistic, kind bootstrap.CombineKind) (bootstrap.Interval, error) {
	xd, err := x.Distribution(stat)
	if err != nil {
		return bootstrap.Interval{}, err
	}
	yd, err := y.Distribution(stat)
	if err != nil {
		return bootstrap.Interval{}, err
	}

	combined, err := bootstrap.Combine(xd, yd, kind)
	if err != nil {
		return bootstrap.Interval{}, fmt.Errorf("%s vs %s: %s: %w", x.Name(), y.Name(), stat, err)
	}
	return c.estimator.Estimate(combined, c.level)
}

// RecoveryTimeMeanRatio is 100*x/y over the recovery time mean
func (c *Comparator) RecoveryTimeMeanRatio(x, y *ResultSet) (bootstrap.Interval, error) {
	return c.Compare(x, y, bootstrap.RecoveryTimeMean, bootstrap.Ratio)
}

// ErrorLocationsDifference is 100*(x-y)/y over the error location count
func (c *Comparator) ErrorLocationsDifference(x, y *ResultSet) (bootstrap.Interval, error) {
	return c.Compare(x, y, bootstrap.ErrorLocations, bootstrap.RelativeDifference)
}

// CheckRunCounts verifies every result set was collected over the same
// number of runs. Sets whose groups are short because anomalies were
// dropped still report the full run count.
func CheckRunCounts(sets ...*ResultSet) error {
	if len(sets) == 0 {
		return nil
	}
	want := sets[0].RunCount()
	for _, rs := range sets[1:] {
		if rs.RunCount() != want {
			return core.NewInconsistencyError("%s has %d runs but %s has %d",
				rs.Name(), rs.RunCount(), sets[0].Name(), want)
		}
	}
	return nil
}
