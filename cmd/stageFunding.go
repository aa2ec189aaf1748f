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

var stageFundingCmd = &cobra.Command{
	Use:   "stage-funding",
	Short: "Load a funding offer feed CSV into the imported offers table",
	RunE: withApp(func(cmd *cobra.Command, deps appDeps) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		inputFile, _ := cmd.Flags().GetString("file")
		file, err := os.Open(inputFile)
		if err != nil {
			return errs.Wrap(err, "open funding feed file")
		}
		defer func() { _ = file.Close() }()

		offers, err := staging.ParseFundingCSV(file)
		if err != nil {
			return errs.Wrap(err, "parse funding feed")
		}
		if err := deps.Staging.InsertImportedOffers(ctx, offers); err != nil {
			return errs.Wrap(err, "insert imported offers")
		}

		logging.Info(ctx, "funding feed staged",
			slog.String("file", inputFile),
			slog.Int("offers", len(offers)),
		)
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "staged %d funding offers from %s\n", len(offers), inputFile); err != nil {
			return errs.Wrap(err, "write stage-funding output")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(stageFundingCmd)
	stageFundingCmd.Flags().String("file", "", "Funding offer feed CSV file")
	_ = stageFundingCmd.MarkFlagRequired("file")
}
