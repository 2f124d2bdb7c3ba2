package ports

import (
	"context"

	"recoverystats/domain/core"
	"recoverystats/domain/experiment"
	"recoverystats/domain/report"
)

// RecordSource loads the per-run records of one experiment. Anomalous records
// are dropped by the source; malformed records fail the whole load. The
// returned digest covers the raw bytes read.
type RecordSource interface {
	Load(path string, tracksCosts bool) ([]experiment.Observation, core.Hash, error)
}

// ReportWriter renders or persists a finished report
type ReportWriter interface {
	// Name identifies the writer in log lines
	Name() string
	Write(ctx context.Context, r *report.Report) error
}
