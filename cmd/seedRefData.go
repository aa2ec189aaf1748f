package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"qualrecon/internal/bootstrap/logging"
	"qualrecon/internal/errs"
)

var seedRefDataCmd = &cobra.Command{
	Use:   "seed-ref-data",
	Short: "Seed the reference data tables (action types, statuses, stages, offer types)",
	RunE: withApp(func(cmd *cobra.Command, deps appDeps) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		if err := deps.RefData.Seed(ctx); err != nil {
			return errs.Wrap(err, "seed reference data")
		}

		if _, err := fmt.Fprintln(cmd.OutOrStdout(), "reference data seeded"); err != nil {
			return errs.Wrap(err, "write seed output")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(seedRefDataCmd)
}
