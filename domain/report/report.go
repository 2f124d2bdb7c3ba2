package report

import (
	"time"

	"recoverystats/domain/bootstrap"
	"recoverystats/domain/core"
)

// Report is everything one analysis run produces. Writers render it; they
// never compute statistics themselves.
type Report struct {
	ID              core.ReportID `json:"id"`
	CreatedAt       time.Time     `json:"created_at"`
	Iterations      int           `json:"iterations"`
	ConfidenceLevel float64       `json:"confidence_level"`
	Seed            int64         `json:"seed"`
	RunCount        int           `json:"run_count"`
	Corpus          CorpusSize    `json:"corpus"`
	Fingerprint     Fingerprint   `json:"fingerprint"`

	Experiments             []ExperimentSummary    `json:"experiments"`
	Comparisons             []ComparisonResult     `json:"comparisons"`
	TimeHistograms          []*bootstrap.Histogram `json:"time_histograms"`
	ErrorLocationHistograms []PairedHistogram      `json:"error_location_histograms"`
}

// CorpusSize describes the input programs the runs were collected over
type CorpusSize struct {
	Files int   `json:"files"`
	Bytes int64 `json:"bytes"`
}

// MB returns the corpus size in megabytes (1024*1024 bytes)
func (c CorpusSize) MB() float64 {
	return float64(c.Bytes) / 1024 / 1024
}

// ExperimentSummary holds the intervals of one result set
type ExperimentSummary struct {
	Name        core.ExperimentName                        `json:"name"`
	Label       string                                     `json:"label"`
	TracksCosts bool                                       `json:"tracks_costs"`
	Groups      int                                        `json:"groups"`
	Digest      core.Hash                                  `json:"digest"`
	Intervals   map[bootstrap.Statistic]bootstrap.Interval `json:"intervals"`
}

// Interval returns the interval for stat and whether it was computed
func (e ExperimentSummary) Interval(stat bootstrap.Statistic) (bootstrap.Interval, bool) {
	iv, ok := e.Intervals[stat]
	return iv, ok
}

// Statistics lists the computed statistics in reporting order
func (e ExperimentSummary) Statistics() []bootstrap.Statistic {
	var out []bootstrap.Statistic
	for _, stat := range bootstrap.AllStatistics {
		if _, ok := e.Intervals[stat]; ok {
			out = append(out, stat)
		}
	}
	return out
}

// ComparisonResult is one combined statistic between two experiments
type ComparisonResult struct {
	Name         string                `json:"name"`
	X            core.ExperimentName   `json:"x"`
	Y            core.ExperimentName   `json:"y"`
	Statistic    bootstrap.Statistic   `json:"statistic"`
	Kind         bootstrap.CombineKind `json:"kind"`
	MedianDigits int                   `json:"median_digits"`
	ErrorDigits  int                   `json:"error_digits"`
	Interval     bootstrap.Interval    `json:"interval"`
}

// PairedHistogram holds two error-location histograms drawn side by side
type PairedHistogram struct {
	Name string               `json:"name"`
	Zoom int                  `json:"zoom"`
	X    *bootstrap.Histogram `json:"x"`
	Y    *bootstrap.Histogram `json:"y"`
}

// Experiment finds a summary by name
func (r *Report) Experiment(name core.ExperimentName) (ExperimentSummary, bool) {
	for _, e := range r.Experiments {
		if e.Name == name {
			return e, true
		}
	}
	return ExperimentSummary{}, false
}

// TableOrder returns summaries ordered for tabular output: experiments that
// do not track costs first, then the rest, each keeping plan order.
func (r *Report) TableOrder() []ExperimentSummary {
	out := make([]ExperimentSummary, 0, len(r.Experiments))
	for _, e := range r.Experiments {
		if !e.TracksCosts {
			out = append(out, e)
		}
	}
	for _, e := range r.Experiments {
		if e.TracksCosts {
			out = append(out, e)
		}
	}
	return out
}
