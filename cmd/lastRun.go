package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"qualrecon/internal/bootstrap/logging"
	"qualrecon/internal/errs"
)

var lastRunCmd = &cobra.Command{
	Use:   "last-run [job]",
	Short: "Show the last recorded run summary for a reconciliation job",
	Args:  cobra.MaximumNArgs(1),
	RunE: withApp(func(cmd *cobra.Command, deps appDeps) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		job := reconcileJob
		if len(cmd.Flags().Args()) > 0 {
			job = cmd.Flags().Args()[0]
		}

		summary, found, err := deps.RunState.LastRun(ctx, job)
		if err != nil {
			return errs.Wrap(err, "query last run")
		}
		if !found {
			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "no recorded run for job %q\n", job); err != nil {
				return errs.Wrap(err, "write last-run output")
			}
			return nil
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", job, summary); err != nil {
			return errs.Wrap(err, "write last-run output")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(lastRunCmd)
}
