package rng

import (
	"math/rand"
	"time"

	"recoverystats/domain/core"
)

// Streams implements ports.RNGPort. A zero seed draws every stream from
// entropy; otherwise each stream is seeded from the base seed mixed with the
// experiment and statistic names.
type Streams struct {
	seed int64
}

// NewStreams creates a stream factory with the given base seed
func NewStreams(seed int64) *Streams {
	return &Streams{seed: seed}
}

// Stream creates the random source for one purpose of one experiment
func (s *Streams) Stream(experiment core.ExperimentName, purpose string) *rand.Rand {
	if s.seed == 0 {
		return rand.New(rand.NewSource(time.Now().UnixNano() ^ int64(hashString(experiment.String()+"/"+purpose))))
	}
	return rand.New(rand.NewSource(StreamSeed(s.seed, experiment.String(), purpose)))
}

// Seed returns the base seed
func (s *Streams) Seed() int64 { return s.seed }

// StreamSeed derives a deterministic per-stream seed
func StreamSeed(base int64, names ...string) int64 {
	seed := base
	for _, name := range names {
		if name != "" {
			seed = int64(hashString(name)) + seed*31
		}
	}
	return seed
}

// hashString creates a simple hash for deterministic seeding
func hashString(s string) uint32 {
	var hash uint32 = 5381
	for _, c := range s {
		hash = ((hash << 5) + hash) + uint32(c) // djb2
	}
	return hash
}
