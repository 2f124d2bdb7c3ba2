package main

import (
	"fmt"
	"path/filepath"

	"recoverystats/adapters/chart"
	"recoverystats/adapters/kalibera"
	"recoverystats/adapters/postgres"
	"recoverystats/app"
	"recoverystats/internal/config"
	"recoverystats/internal/container"

	"github.com/spf13/cobra"
)

type reportOptions struct {
	plan        string
	recordsDir  string
	iterations  int
	seed        int64
	level       string
	outputDir   string
	corpusDir   string
	chartFormat string
}

func newReportCmd() *cobra.Command {
	var opts reportOptions

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Bootstrap every experiment of a plan and write the report",
		Long: `Load the per-run records of every experiment in the plan, bootstrap
confidence intervals for each statistic, compare experiments and bin
histograms. Writes LaTeX macros and table, a results workbook, a
Markdown/HTML summary and histogram charts into the output directory.

Settings come from the environment (BOOTSTRAP_ITERATIONS, CONFIDENCE_LEVEL,
BOOTSTRAP_SEED, OUTPUT_DIR, CORPUS_DIR, PLAN_FILE, DATABASE_URL, LOG_LEVEL),
optionally loaded from .env. Flags override them. When DATABASE_URL is set
the final intervals are also archived to PostgreSQL.

Example: recoverystats report --plan plan.yaml --seed 42 --iterations 1000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := opts.apply(cmd, cfg); err != nil {
				return err
			}
			return runReport(cmd, cfg, opts)
		},
	}

	cmd.Flags().StringVar(&opts.plan, "plan", "", "Experiment plan YAML (default: built-in plan)")
	cmd.Flags().StringVar(&opts.recordsDir, "records-dir", "", "Directory relative record paths are resolved against (default: the plan's directory)")
	cmd.Flags().IntVar(&opts.iterations, "iterations", 0, "Bootstrap rounds per statistic")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "Random seed for reproducible resampling (0 seeds from entropy)")
	cmd.Flags().StringVar(&opts.level, "level", "", "Confidence level, e.g. 0.99")
	cmd.Flags().StringVar(&opts.outputDir, "output-dir", "", "Directory the report files are written to")
	cmd.Flags().StringVar(&opts.corpusDir, "corpus-dir", "", "Directory of input programs to measure")
	cmd.Flags().StringVar(&opts.chartFormat, "chart-format", "svg", "Histogram chart format: svg|png")

	return cmd
}

// apply overrides environment settings with explicitly set flags
func (o reportOptions) apply(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("iterations") {
		cfg.Bootstrap.Iterations = o.iterations
	}
	if flags.Changed("seed") {
		cfg.Bootstrap.Seed = o.seed
	}
	if flags.Changed("level") {
		level, err := kalibera.ParseLevel(o.level)
		if err != nil {
			return err
		}
		cfg.Bootstrap.ConfidenceLevel = level
	}
	if flags.Changed("output-dir") {
		cfg.Paths.OutputDir = o.outputDir
	}
	if flags.Changed("corpus-dir") {
		cfg.Paths.CorpusDir = o.corpusDir
	}
	if flags.Changed("plan") {
		cfg.Paths.PlanFile = o.plan
	}
	return cfg.Validate()
}

func runReport(cmd *cobra.Command, cfg *config.Config, opts reportOptions) error {
	plan := config.DefaultPlan()
	recordsDir := opts.recordsDir
	if cfg.Paths.PlanFile != "" {
		loaded, err := config.LoadPlan(cfg.Paths.PlanFile)
		if err != nil {
			return err
		}
		plan = loaded
		if recordsDir == "" {
			recordsDir = filepath.Dir(cfg.Paths.PlanFile)
		}
	}

	format, err := chart.ParseFormat(opts.chartFormat)
	if err != nil {
		return err
	}

	c, err := container.New(cfg, format)
	if err != nil {
		return err
	}
	defer c.Shutdown()

	if cfg.ArchiveEnabled() {
		db, err := postgres.Connect(cfg.Database.URL)
		if err != nil {
			return err
		}
		if err := c.InitWithDatabase(cmd.Context(), db); err != nil {
			return err
		}
	}

	r, err := c.ReportService().Run(cmd.Context(), app.ReportRequest{
		Plan:            plan,
		Iterations:      cfg.Bootstrap.Iterations,
		ConfidenceLevel: cfg.Bootstrap.ConfidenceLevel,
		RecordsDir:      recordsDir,
		CorpusDir:       cfg.Paths.CorpusDir,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "report %s written to %s\n", r.ID, cfg.Paths.OutputDir)
	return nil
}
