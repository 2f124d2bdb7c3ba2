package bootstrap

import (
	"fmt"
)

// DefaultIterations is the number of bootstrap rounds per statistic.
const DefaultIterations = 10000

// DefaultConfidenceLevel is the level every interval is reported at.
const DefaultConfidenceLevel = 0.99

// Distribution is an empirical distribution: one reduced value per round.
// Order carries no statistical meaning except when two distributions are
// combined position by position (see Combine).
type Distribution []float64

// Len returns the number of rounds that produced a value
func (d Distribution) Len() int { return len(d) }

// Statistic names a derived statistic computed by a reducer
type Statistic string

const (
	RecoveryTimeMean   Statistic = "recovery_time_mean"
	RecoveryTimeMedian Statistic = "recovery_time_median"
	FailureRate        Statistic = "failure_rate"
	ErrorLocations     Statistic = "error_locations"
	CostMean           Statistic = "cost_mean"
	InputSkipped       Statistic = "input_skipped"
)

// AllStatistics lists the statistics in reporting order
var AllStatistics = []Statistic{
	RecoveryTimeMean,
	RecoveryTimeMedian,
	FailureRate,
	ErrorLocations,
	CostMean,
	InputSkipped,
}

// ParseStatistic parses a statistic name
func ParseStatistic(s string) (Statistic, error) {
	for _, stat := range AllStatistics {
		if string(stat) == s {
			return stat, nil
		}
	}
	return "", fmt.Errorf("unknown statistic %q", s)
}

func (s Statistic) String() string { return string(s) }

// Interval is a confidence interval snapshot. Error is the symmetric
// half-width: the larger distance from Median to either bound.
type Interval struct {
	Median float64 `json:"median"`
	Error  float64 `json:"error"`
	Lower  float64 `json:"lower"`
	Upper  float64 `json:"upper"`
}

func (i Interval) String() string {
	return fmt.Sprintf("%g ± %g", i.Median, i.Error)
}
