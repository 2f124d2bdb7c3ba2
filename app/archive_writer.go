package app

import (
	"context"

	"recoverystats/domain/report"
	"recoverystats/ports"
)

// ArchiveWriter stores a report's final intervals in an interval archive
type ArchiveWriter struct {
	archive ports.IntervalArchive
}

// NewArchiveWriter creates a writer backed by archive
func NewArchiveWriter(archive ports.IntervalArchive) *ArchiveWriter {
	return &ArchiveWriter{archive: archive}
}

func (w *ArchiveWriter) Name() string { return "interval archive" }

// Write archives every experiment interval and every comparison interval
func (w *ArchiveWriter) Write(ctx context.Context, r *report.Report) error {
	return w.archive.SaveIntervals(ctx, FlattenIntervals(r))
}

// FlattenIntervals lists a report's intervals in archive form. Experiment
// rows use the statistic name; comparison rows use "x/y" as subject and the
// comparison name as statistic.
func FlattenIntervals(r *report.Report) []ports.ArchivedInterval {
	var out []ports.ArchivedInterval
	for _, exp := range r.Experiments {
		for _, stat := range exp.Statistics() {
			iv := exp.Intervals[stat]
			out = append(out, ports.NewArchivedInterval(r.ID, exp.Name.String(), stat.String(), iv, r.Iterations, r.ConfidenceLevel))
		}
	}
	for _, cmp := range r.Comparisons {
		subject := cmp.X.String() + "/" + cmp.Y.String()
		out = append(out, ports.NewArchivedInterval(r.ID, subject, cmp.Name, cmp.Interval, r.Iterations, r.ConfidenceLevel))
	}
	return out
}
