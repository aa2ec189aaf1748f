package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"qualrecon/internal/bootstrap/logging"
	"qualrecon/internal/errs"
	"qualrecon/internal/usecase/staging"
)

var stageCmd = &cobra.Command{
	Use:   "stage",
	Short: "Load a register feed CSV into the staging table",
	RunE: withApp(func(cmd *cobra.Command, deps appDeps) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		inputFile, _ := cmd.Flags().GetString("file")
		file, err := os.Open(inputFile)
		if err != nil {
			return errs.Wrap(err, "open register feed file")
		}
		defer func() { _ = file.Close() }()

		records, err := staging.ParseRegisterCSV(file)
		if err != nil {
			return errs.Wrap(err, "parse register feed")
		}
		if err := deps.Staging.InsertStagedRecords(ctx, records); err != nil {
			return errs.Wrap(err, "insert staged records")
		}

		logging.Info(ctx, "register feed staged",
			slog.String("file", inputFile),
			slog.Int("records", len(records)),
		)
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "staged %d register records from %s\n", len(records), inputFile); err != nil {
			return errs.Wrap(err, "write stage output")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(stageCmd)
	stageCmd.Flags().String("file", "", "Register feed CSV file")
	_ = stageCmd.MarkFlagRequired("file")
}
