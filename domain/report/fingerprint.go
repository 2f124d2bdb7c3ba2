package report

import (
	"fmt"
	"io"
	"strconv"

	"recoverystats/domain/core"
)

// InputDigest pins the records file one experiment was loaded from
type InputDigest struct {
	Experiment core.ExperimentName `json:"experiment"`
	Digest     core.Hash           `json:"digest"`
}

// Fingerprint identifies everything a seeded report depends on. Two reports
// with equal fingerprints carry identical intervals.
type Fingerprint struct {
	Seed            int64         `json:"seed"`
	Iterations      int           `json:"iterations"`
	ConfidenceLevel float64       `json:"confidence_level"`
	Plan            core.Hash     `json:"plan"`
	Inputs          []InputDigest `json:"inputs"`
	Value           core.Hash     `json:"value"` // hash of all above
}

// NewFingerprint computes the fingerprint of one analysis. inputs must be
// in plan order.
func NewFingerprint(seed int64, iterations int, level float64, plan core.Hash, inputs []InputDigest) Fingerprint {
	return Fingerprint{
		Seed:            seed,
		Iterations:      iterations,
		ConfidenceLevel: level,
		Plan:            plan,
		Inputs:          inputs,
		Value:           computeFingerprint(seed, iterations, level, plan, inputs),
	}
}

// Reproducible reports whether rerunning with the same inputs yields the
// same intervals. Entropy-seeded reports never do.
func (f Fingerprint) Reproducible() bool {
	return f.Seed != 0
}

func computeFingerprint(seed int64, iterations int, level float64, plan core.Hash, inputs []InputDigest) core.Hash {
	h := core.NewHasher()
	fmt.Fprintf(h, "seed:%d|iterations:%d|level:%s|plan:%s",
		seed, iterations, strconv.FormatFloat(level, 'g', -1, 64), plan)
	for _, in := range inputs {
		_, _ = io.WriteString(h, "|"+in.Experiment.String()+":"+in.Digest.String())
	}
	return core.HashOf(h)
}
