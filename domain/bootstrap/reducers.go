package bootstrap

import (
	"fmt"

	"recoverystats/domain/core"

	"github.com/montanaflynn/stats"
)

func recoveryTimes(round Round) []float64 {
	times := make([]float64, len(round))
	for i, obs := range round {
		times[i] = obs.RecoveryTime()
	}
	return times
}

// ReduceRecoveryTimeMean is the arithmetic mean of the drawn recovery times.
func ReduceRecoveryTimeMean(round Round) (float64, error) {
	if len(round) == 0 {
		return 0, core.NewDegenerateInputError("empty round")
	}
	return stats.Mean(recoveryTimes(round))
}

// ReduceRecoveryTimeMedian is the median of the drawn recovery times; for an
// even count it is the mean of the two middle values.
func ReduceRecoveryTimeMedian(round Round) (float64, error) {
	if len(round) == 0 {
		return 0, core.NewDegenerateInputError("empty round")
	}
	return stats.Median(recoveryTimes(round))
}

// ReduceFailureRate is the percentage of groups whose drawn run failed.
func ReduceFailureRate(round Round) (float64, error) {
	if len(round) == 0 {
		return 0, core.NewDegenerateInputError("failure rate over zero groups")
	}
	failures := 0
	for _, obs := range round {
		if !obs.Succeeded() {
			failures++
		}
	}
	return float64(failures) / float64(len(round)) * 100.0, nil
}

// ReduceErrorLocations is the total number of error locations in the round.
func ReduceErrorLocations(round Round) (float64, error) {
	n := 0
	for _, obs := range round {
		n += obs.ErrorLocations()
	}
	return float64(n), nil
}

// ReduceCostMean pools the repair costs of every successful draw and returns
// their mean. A round with no pooled cost yields ErrNoValue.
func ReduceCostMean(round Round) (float64, error) {
	var costs []float64
	for _, obs := range round {
		if obs.Succeeded() {
			costs = obs.AppendCosts(costs)
		}
	}
	if len(costs) == 0 {
		return 0, ErrNoValue
	}
	return stats.Mean(costs)
}

// ReduceInputSkipped is the percentage of lexemes skipped across the round.
func ReduceInputSkipped(round Round) (float64, error) {
	total, skipped := 0, 0
	for _, obs := range round {
		total += obs.LexemesTotal()
		skipped += obs.LexemesSkipped()
	}
	if total == 0 {
		return 0, core.NewDegenerateInputError("input skipped ratio over zero lexemes")
	}
	return float64(skipped) / float64(total) * 100.0, nil
}

// Reducer returns the reduce function for a statistic
func Reducer(stat Statistic) (ReduceFunc, error) {
	switch stat {
	case RecoveryTimeMean:
		return ReduceRecoveryTimeMean, nil
	case RecoveryTimeMedian:
		return ReduceRecoveryTimeMedian, nil
	case FailureRate:
		return ReduceFailureRate, nil
	case ErrorLocations:
		return ReduceErrorLocations, nil
	case CostMean:
		return ReduceCostMean, nil
	case InputSkipped:
		return ReduceInputSkipped, nil
	default:
		return nil, fmt.Errorf("no reducer for statistic %q", stat)
	}
}
