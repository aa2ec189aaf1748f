package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"qualrecon/internal/bootstrap/logging"
	"qualrecon/internal/errs"
	"qualrecon/internal/ports"
)

const reconcileJob = "reconcile"

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile staged register records into versioned qualifications",
	RunE: withApp(func(cmd *cobra.Command, deps appDeps) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		if err := deps.RunState.Acquire(ctx, reconcileJob); err != nil {
			if errors.Is(err, ports.ErrRunInProgress) {
				return errs.Wrap(err, "a reconciliation run is already in progress")
			}
			return errs.Wrap(err, "acquire run flag")
		}
		defer func() {
			if err := deps.RunState.Release(ctx, reconcileJob); err != nil {
				logging.Error(ctx, "release run flag failed", slog.Any("err", errs.Loggable(err)))
			}
		}()

		processed, err := deps.Reconcile.Run(ctx)
		if err != nil {
			return errs.Wrap(err, "reconcile staged records")
		}

		summary := fmt.Sprintf("%s processed=%d", time.Now().UTC().Format(time.RFC3339), processed)
		if err := deps.RunState.RecordRun(ctx, reconcileJob, summary); err != nil {
			logging.Error(ctx, "record run summary failed", slog.Any("err", errs.Loggable(err)))
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "reconciled %d staged records\n", processed); err != nil {
			return errs.Wrap(err, "write reconcile output")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(reconcileCmd)
}
