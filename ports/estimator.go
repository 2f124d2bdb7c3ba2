package ports

import "recoverystats/domain/bootstrap"

// ConfidenceEstimator turns an empirical distribution into a confidence
// interval. Implementations must accept any non-empty sample and a level in
// (0, 1); a constant sample yields an interval with zero error.
type ConfidenceEstimator interface {
	Estimate(sample []float64, level float64) (bootstrap.Interval, error)
}
