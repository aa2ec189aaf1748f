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

const reconcileFundingJob = "reconcile-funding"

var reconcileFundingCmd = &cobra.Command{
	Use:   "reconcile-funding",
	Short: "Reconcile imported funding offers against existing funding records",
	RunE: withApp(func(cmd *cobra.Command, deps appDeps) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		if err := deps.RunState.Acquire(ctx, reconcileFundingJob); err != nil {
			if errors.Is(err, ports.ErrRunInProgress) {
				return errs.Wrap(err, "a funding reconciliation run is already in progress")
			}
			return errs.Wrap(err, "acquire run flag")
		}
		defer func() {
			if err := deps.RunState.Release(ctx, reconcileFundingJob); err != nil {
				logging.Error(ctx, "release run flag failed", slog.Any("err", errs.Loggable(err)))
			}
		}()

		ok, err := deps.Funding.ReconcileOffers(ctx)
		if err != nil {
			return errs.Wrap(err, "reconcile funding offers")
		}

		summary := fmt.Sprintf("%s succeeded=%t", time.Now().UTC().Format(time.RFC3339), ok)
		if err := deps.RunState.RecordRun(ctx, reconcileFundingJob, summary); err != nil {
			logging.Error(ctx, "record run summary failed", slog.Any("err", errs.Loggable(err)))
		}

		if _, err := fmt.Fprintln(cmd.OutOrStdout(), "funding offers reconciled"); err != nil {
			return errs.Wrap(err, "write reconcile-funding output")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(reconcileFundingCmd)
}
