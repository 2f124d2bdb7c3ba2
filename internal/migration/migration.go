package migration

import (
	"context"

	"recoverystats/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner handles the interval archive schema
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in the correct order
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if err := r.createReportIntervalsTable(ctx, db); err != nil {
		return errors.WithCode(errors.CodeDatabaseError, errors.Wrap(err, "failed to create report_intervals table"))
	}

	if err := r.createIndexes(ctx, db); err != nil {
		return errors.WithCode(errors.CodeDatabaseError, errors.Wrap(err, "failed to create indexes"))
	}

	return nil
}

// Statements returns the DDL Run executes, in order
func (r *MigrationRunner) Statements() []string {
	return []string{reportIntervalsTable, reportIntervalsIndex}
}

const reportIntervalsTable = `
		CREATE TABLE IF NOT EXISTS report_intervals (
			id BIGSERIAL PRIMARY KEY,
			report_id VARCHAR(64) NOT NULL,
			subject VARCHAR(255) NOT NULL,
			statistic VARCHAR(255) NOT NULL,
			median DOUBLE PRECISION NOT NULL,
			error DOUBLE PRECISION NOT NULL,
			lower_bound DOUBLE PRECISION NOT NULL,
			upper_bound DOUBLE PRECISION NOT NULL,
			iterations INTEGER NOT NULL,
			confidence_level DOUBLE PRECISION NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`

const reportIntervalsIndex = `
		CREATE INDEX IF NOT EXISTS idx_report_intervals_report_id ON report_intervals(report_id)
	`

func (r *MigrationRunner) createReportIntervalsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, reportIntervalsTable)
	return err
}

func (r *MigrationRunner) createIndexes(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, reportIntervalsIndex)
	return err
}
