package main

import (
	"fmt"
	"os"

	"recoverystats/internal/config"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "recoverystats",
		Short:         "Bootstrap confidence intervals for parser error recovery benchmarks",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newReportCmd(),
		newPlanCmd(),
		newMigrateCmd(),
		newIntervalsCmd(),
	)
	return rootCmd
}

func newPlanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Print the default experiment plan",
		Long: `Print the default experiment plan as YAML. Edit a copy and pass it to
"recoverystats report --plan" to analyse a different set of corpora.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprint(cmd.OutOrStdout(), config.DefaultPlanYAML)
			return err
		},
	}
}
