package testkit

import (
	"fmt"
	"io"
	"math/rand"
	"strings"

	"recoverystats/domain/experiment"
)

// CorpusConfig configures the synthetic parser-run generator
type CorpusConfig struct {
	Samples      int     `json:"samples"`
	Runs         int     `json:"runs"`
	FailureRate  float64 `json:"failure_rate"`  // probability a run fails to recover
	MeanTime     float64 `json:"mean_time"`     // mean recovery time in seconds
	MaxLocations int     `json:"max_locations"` // error locations per run are drawn from [1, MaxLocations]
	MaxCost      int     `json:"max_cost"`      // repair cost per location is drawn from [1, MaxCost]
	TracksCosts  bool    `json:"tracks_costs"`  // when false, costs are written as 0 like a panic-mode parser
	SkipFraction float64 `json:"skip_fraction"` // upper bound on the share of lexemes skipped
	Seed         int64   `json:"seed"`
}

// DefaultCorpusConfig returns a small corpus shaped like real recovery runs
func DefaultCorpusConfig() CorpusConfig {
	return CorpusConfig{
		Samples:      40,
		Runs:         5,
		FailureRate:  0.05,
		MeanTime:     0.0004,
		MaxLocations: 12,
		MaxCost:      4,
		TracksCosts:  true,
		SkipFraction: 0.1,
		Seed:         42,
	}
}

// CorpusGenerator produces deterministic per-run records for tests
type CorpusGenerator struct {
	config CorpusConfig
	rng    *rand.Rand
}

// NewCorpusGenerator creates a generator seeded from config
func NewCorpusGenerator(config CorpusConfig) *CorpusGenerator {
	return &CorpusGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Records generates Runs records for each of Samples inputs. Runs are
// written run-major, the order the benchmark harness appends them in.
func (g *CorpusGenerator) Records() []experiment.Record {
	records := make([]experiment.Record, 0, g.config.Samples*g.config.Runs)
	for run := 0; run < g.config.Runs; run++ {
		for s := 0; s < g.config.Samples; s++ {
			records = append(records, g.record(fmt.Sprintf("sample%04d.java", s), run))
		}
	}
	return records
}

func (g *CorpusGenerator) record(name string, run int) experiment.Record {
	locations := 1 + g.rng.Intn(max(g.config.MaxLocations, 1))
	costs := make([]int, locations)
	for i := range costs {
		if g.config.TracksCosts {
			costs[i] = 1 + g.rng.Intn(max(g.config.MaxCost, 1))
		}
	}
	total := 200 + g.rng.Intn(2000)
	return experiment.Record{
		SampleName:     name,
		RunIndex:       run,
		RecoveryTime:   g.rng.ExpFloat64() * g.config.MeanTime,
		Succeeded:      g.rng.Float64() >= g.config.FailureRate,
		ErrorCosts:     costs,
		LexemesTotal:   total,
		LexemesSkipped: int(float64(total) * g.config.SkipFraction * g.rng.Float64()),
	}
}

// Observations generates the records and freezes them
func (g *CorpusGenerator) Observations() []experiment.Observation {
	records := g.Records()
	out := make([]experiment.Observation, len(records))
	for i, r := range records {
		out[i] = experiment.MustObservation(r)
	}
	return out
}

// WriteRecords renders records in the on-disk result file format
func WriteRecords(w io.Writer, records []experiment.Record) error {
	for _, r := range records {
		costs := make([]string, len(r.ErrorCosts))
		for i, c := range r.ErrorCosts {
			costs[i] = fmt.Sprint(c)
		}
		succeeded := 0
		if r.Succeeded {
			succeeded = 1
		}
		_, err := fmt.Fprintf(w, "%s, %d, %.9f, %d, %s, %d, %d\n",
			r.SampleName, r.RunIndex, r.RecoveryTime, succeeded, strings.Join(costs, ":"), r.LexemesTotal, r.LexemesSkipped)
		if err != nil {
			return err
		}
	}
	return nil
}
