package container

import (
	"context"
	"fmt"
	"path/filepath"

	"recoverystats/adapters/chart"
	"recoverystats/adapters/excel"
	"recoverystats/adapters/kalibera"
	"recoverystats/adapters/latex"
	"recoverystats/adapters/markdown"
	"recoverystats/adapters/postgres"
	"recoverystats/adapters/records"
	"recoverystats/adapters/rng"
	"recoverystats/app"
	"recoverystats/internal"
	"recoverystats/internal/config"
	"recoverystats/internal/migration"
	"recoverystats/ports"

	"github.com/jmoiron/sqlx"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure
	DB *sqlx.DB

	// Adapters
	Source    ports.RecordSource
	RNG       ports.RNGPort
	Estimator ports.ConfidenceEstimator
	Archive   ports.IntervalArchive

	// Output, in the order reports are written
	Writers []ports.ReportWriter
}

// New creates a new dependency injection container
func New(cfg *config.Config, format chart.Format) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	logger := internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel))
	out := cfg.Paths.OutputDir

	c := &Container{
		Config:    cfg,
		Logger:    logger,
		Source:    records.NewReader(logger),
		RNG:       rng.NewStreams(cfg.Bootstrap.Seed),
		Estimator: kalibera.NewSlice(),
		Writers: []ports.ReportWriter{
			latex.NewWriter(out),
			excel.NewWriter(filepath.Join(out, excel.DefaultWorkbook)),
			markdown.NewWriter(out),
			chart.NewWriter(out, format),
		},
	}

	return c, nil
}

// InitWithDatabase migrates the archive schema and archives every report
// after the file writers ran
func (c *Container) InitWithDatabase(ctx context.Context, db *sqlx.DB) error {
	if db == nil {
		return fmt.Errorf("database connection cannot be nil")
	}

	c.DB = db

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database connection test failed: %w", err)
	}

	if err := migration.NewRunner().Run(ctx, db); err != nil {
		return err
	}

	c.Archive = postgres.NewIntervalRepository(db)
	c.Writers = append(c.Writers, app.NewArchiveWriter(c.Archive))
	c.Logger.Debug("[container] interval archive enabled")
	return nil
}

// ReportService wires the report pipeline from the container's adapters
func (c *Container) ReportService() *app.ReportService {
	return app.NewReportService(c.Source, c.RNG, c.Estimator, c.Logger, c.Writers...)
}

// Shutdown releases the database connection, if any
func (c *Container) Shutdown() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
