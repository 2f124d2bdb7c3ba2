package ports

import (
	"math/rand"

	"recoverystats/domain/core"
)

// RNGPort provides random sources for resampling. Each (experiment,
// purpose) pair gets its own stream so that seeded runs are reproducible
// while the streams of two experiments stay independent. The purpose is a
// statistic name or a histogram name.
type RNGPort interface {
	// Stream creates the random source for one purpose of one experiment
	Stream(experiment core.ExperimentName, purpose string) *rand.Rand

	// Seed returns the base seed, or zero when streams are seeded from entropy
	Seed() int64
}
