package main

import (
	"fmt"
	"text/tabwriter"

	"recoverystats/adapters/postgres"
	"recoverystats/domain/core"
	"recoverystats/internal/config"
	"recoverystats/internal/errors"
	"recoverystats/internal/migration"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the interval archive schema in DATABASE_URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := connectArchive()
			if err != nil {
				return err
			}
			defer db.Close()

			runner := migration.NewRunner()
			if err := runner.Run(cmd.Context(), db); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "archive schema at version %s\n", runner.Version())
			return nil
		},
	}
}

func newIntervalsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "intervals [report-id]",
		Short: "List the archived intervals of a report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := core.ParseReportID(args[0])
			if err != nil {
				return err
			}

			db, err := connectArchive()
			if err != nil {
				return err
			}
			defer db.Close()

			rows, err := postgres.NewIntervalRepository(db).ListByReport(cmd.Context(), id)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "SUBJECT\tSTATISTIC\tMEDIAN\tERROR\tLOWER\tUPPER")
			for _, row := range rows {
				fmt.Fprintf(w, "%s\t%s\t%g\t%g\t%g\t%g\n", row.Subject, row.Statistic, row.Median, row.Error, row.Lower, row.Upper)
			}
			return w.Flush()
		},
	}
}

func connectArchive() (*sqlx.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if !cfg.ArchiveEnabled() {
		return nil, errors.ConfigInvalid("DATABASE_URL is required")
	}
	return postgres.Connect(cfg.Database.URL)
}
