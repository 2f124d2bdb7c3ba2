package ports

import (
	"context"
	"time"

	"recoverystats/domain/bootstrap"
	"recoverystats/domain/core"
)

// ArchivedInterval is one reported interval as stored in the archive
type ArchivedInterval struct {
	ReportID   core.ReportID `db:"report_id"`
	Subject    string        `db:"subject"`   // experiment name, or "x/y" for comparisons
	Statistic  string        `db:"statistic"` // statistic name, or comparison name
	Median     float64       `db:"median"`
	Error      float64       `db:"error"`
	Lower      float64       `db:"lower_bound"`
	Upper      float64       `db:"upper_bound"`
	Iterations int           `db:"iterations"`
	Level      float64       `db:"confidence_level"`
	CreatedAt  time.Time     `db:"created_at"`
}

// NewArchivedInterval flattens an interval for archiving
func NewArchivedInterval(report core.ReportID, subject, statistic string, iv bootstrap.Interval, iterations int, level float64) ArchivedInterval {
	return ArchivedInterval{
		ReportID:   report,
		Subject:    subject,
		Statistic:  statistic,
		Median:     iv.Median,
		Error:      iv.Error,
		Lower:      iv.Lower,
		Upper:      iv.Upper,
		Iterations: iterations,
		Level:      level,
		CreatedAt:  time.Now().UTC(),
	}
}

// IntervalArchive stores final confidence intervals of a report. Bootstrap
// distributions are never archived.
type IntervalArchive interface {
	SaveIntervals(ctx context.Context, intervals []ArchivedInterval) error
	ListByReport(ctx context.Context, report core.ReportID) ([]ArchivedInterval, error)
}
