package postgres

import (
	"context"
	"fmt"

	"recoverystats/domain/core"
	"recoverystats/ports"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// intervalRepository implements ports.IntervalArchive
type intervalRepository struct {
	db *sqlx.DB
}

// NewIntervalRepository creates a new PostgreSQL interval archive
func NewIntervalRepository(db *sqlx.DB) ports.IntervalArchive {
	return &intervalRepository{db: db}
}

// SaveIntervals inserts every interval of a report in one transaction.
// Saving a report twice replaces its earlier rows.
func (r *intervalRepository) SaveIntervals(ctx context.Context, intervals []ports.ArchivedInterval) error {
	if len(intervals) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM report_intervals WHERE report_id = $1`, intervals[0].ReportID); err != nil {
		return fmt.Errorf("failed to clear report intervals: %w", err)
	}

	for _, iv := range intervals {
		_, err := tx.NamedExecContext(ctx, `
			INSERT INTO report_intervals (
				report_id, subject, statistic, median, error,
				lower_bound, upper_bound, iterations, confidence_level, created_at
			) VALUES (
				:report_id, :subject, :statistic, :median, :error,
				:lower_bound, :upper_bound, :iterations, :confidence_level, :created_at
			)
		`, iv)
		if err != nil {
			return fmt.Errorf("failed to insert interval %s/%s: %w", iv.Subject, iv.Statistic, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit report intervals: %w", err)
	}
	return nil
}

// ListByReport retrieves the archived intervals of one report
func (r *intervalRepository) ListByReport(ctx context.Context, report core.ReportID) ([]ports.ArchivedInterval, error) {
	var intervals []ports.ArchivedInterval
	err := r.db.SelectContext(ctx, &intervals, `
		SELECT report_id, subject, statistic, median, error,
		       lower_bound, upper_bound, iterations, confidence_level, created_at
		FROM report_intervals
		WHERE report_id = $1
		ORDER BY id
	`, report)
	if err != nil {
		return nil, fmt.Errorf("failed to list report intervals: %w", err)
	}
	if len(intervals) == 0 {
		return nil, fmt.Errorf("report %s: %w", report, core.ErrNotFound)
	}
	return intervals, nil
}

// Connect opens and pings a PostgreSQL database
func Connect(databaseURL string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}
