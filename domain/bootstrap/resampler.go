package bootstrap

import (
	"errors"
	"math/rand"

	"recoverystats/domain/core"
	"recoverystats/domain/experiment"
)

// ErrNoValue is returned by a reducer when a round contributes nothing to
// reduce. The round is dropped from the distribution, not retried.
var ErrNoValue = errors.New("round produced no value")

// Round is one bootstrap draw: exactly one observation per sample group, in
// group order. The slice is reused between rounds; reducers must not retain it.
type Round []experiment.Observation

// ReduceFunc maps one round to a scalar. It must be pure.
type ReduceFunc func(Round) (float64, error)

// Resampler is the clustered bootstrap primitive: the resampling unit is the
// sample group, not the individual observation.
type Resampler struct {
	rng *rand.Rand
}

// NewResampler creates a resampler drawing from rng
func NewResampler(rng *rand.Rand) *Resampler {
	return &Resampler{rng: rng}
}

// Rounds draws iterations rounds and hands each to fn. An error from fn stops
// the loop and is returned unchanged.
func (r *Resampler) Rounds(groups experiment.Groups, iterations int, fn func(Round) error) error {
	if groups.Len() == 0 {
		return core.NewDegenerateInputError("no sample groups to resample")
	}
	if iterations < 1 {
		return core.NewDegenerateInputError("iterations must be positive, got %d", iterations)
	}

	round := make(Round, groups.Len())
	for i := 0; i < iterations; i++ {
		for g := 0; g < groups.Len(); g++ {
			obs := groups.At(g).Observations
			round[g] = obs[r.rng.Intn(len(obs))]
		}
		if err := fn(round); err != nil {
			return err
		}
	}
	return nil
}

// Resample builds the empirical distribution of reduce over iterations
// rounds. Rounds for which reduce returns ErrNoValue are omitted, so the
// result may be shorter than iterations.
func (r *Resampler) Resample(groups experiment.Groups, iterations int, reduce ReduceFunc) (Distribution, error) {
	out := make(Distribution, 0, iterations)
	err := r.Rounds(groups, iterations, func(round Round) error {
		v, err := reduce(round)
		if errors.Is(err, ErrNoValue) {
			return nil
		}
		if err != nil {
			return err
		}
		out = append(out, v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
