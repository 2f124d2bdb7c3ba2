package app

import (
	"fmt"

	"recoverystats/domain/bootstrap"
	"recoverystats/domain/core"
	"recoverystats/domain/experiment"
	"recoverystats/ports"
)

const (
	recoveryTimeHistogram   = "recovery_time_histogram"
	errorLocationsHistogram = "error_locations_histogram"
)

// HistogramBinner bootstraps per-bin counts: every round is binned and each
// bin's count across rounds forms its own distribution.
type HistogramBinner struct {
	rngPort    ports.RNGPort
	estimator  ports.ConfidenceEstimator
	iterations int
	level      float64
}

// NewHistogramBinner creates a binner drawing iterations rounds per histogram
func NewHistogramBinner(rngPort ports.RNGPort, estimator ports.ConfidenceEstimator, iterations int, level float64) *HistogramBinner {
	return &HistogramBinner{
		rngPort:    rngPort,
		estimator:  estimator,
		iterations: iterations,
		level:      level,
	}
}

// RecoveryTimes bins the recovery time of every drawn observation
func (h *HistogramBinner) RecoveryTimes(rs *ResultSet, binning bootstrap.Binning) (*bootstrap.Histogram, error) {
	return h.build(rs, recoveryTimeHistogram, binning, func(obs experiment.Observation) (float64, bool) {
		return obs.RecoveryTime(), true
	})
}

// ErrorLocations bins the error location count of drawn observations that
// succeeded. With zoom > 0 observations above zoom locations are skipped.
func (h *HistogramBinner) ErrorLocations(rs *ResultSet, binning bootstrap.Binning, zoom int) (*bootstrap.Histogram, error) {
	return h.build(rs, errorLocationsHistogram, binning, func(obs experiment.Observation) (float64, bool) {
		if !obs.Succeeded() {
			return 0, false
		}
		locs := obs.ErrorLocations()
		if zoom > 0 && locs > zoom {
			return 0, false
		}
		return float64(locs), true
	})
}

func (h *HistogramBinner) build(rs *ResultSet, purpose string, binning bootstrap.Binning,
	value func(experiment.Observation) (float64, bool)) (*bootstrap.Histogram, error) {
	if err := binning.Validate(); err != nil {
		return nil, core.NewDegenerateInputError("%s: %s: %v", rs.Name(), purpose, err)
	}

	perBin := make([]bootstrap.Distribution, binning.Bins)
	for i := range perBin {
		perBin[i] = make(bootstrap.Distribution, 0, h.iterations)
	}
	counts := make([]int, binning.Bins)

	resampler := bootstrap.NewResampler(h.rngPort.Stream(rs.Name(), purpose))
	err := resampler.Rounds(rs.Groups(), h.iterations, func(round bootstrap.Round) error {
		for i := range counts {
			counts[i] = 0
		}
		for _, obs := range round {
			v, ok := value(obs)
			if !ok {
				continue
			}
			if bin, ok := binning.Bin(v); ok {
				counts[bin]++
			}
		}
		for i, n := range counts {
			perBin[i] = append(perBin[i], float64(n))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", rs.Name(), purpose, err)
	}

	edges := binning.Edges()
	hist := &bootstrap.Histogram{
		Name:    rs.Name().String(),
		Binning: binning,
		Bins:    make([]bootstrap.BinInterval, binning.Bins),
		Groups:  rs.Groups().Len(),
	}
	for i, dist := range perBin {
		iv, err := h.estimator.Estimate(dist, h.level)
		if err != nil {
			return nil, fmt.Errorf("%s: %s bin %d: %w", rs.Name(), purpose, i, err)
		}
		hist.Bins[i] = bootstrap.BinInterval{Lower: edges[i], Upper: edges[i+1], Interval: iv}
	}
	return hist, nil
}

// MaxErrorLocations returns the largest error location count observed in
// any of the sets
func MaxErrorLocations(sets ...*ResultSet) int {
	n := 0
	for _, rs := range sets {
		if m := rs.Groups().MaxErrorLocations(); m > n {
			n = m
		}
	}
	return n
}
