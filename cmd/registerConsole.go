package cmd

import (
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"qualrecon/internal/bootstrap/logging"
	"qualrecon/internal/errs"
	"qualrecon/internal/usecase/qualconsole"
)

var consoleRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Browse qualifications, their versions and discussion history",
	RunE: withApp(func(cmd *cobra.Command, deps appDeps) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		limit, _ := cmd.Flags().GetInt("limit")
		refreshInterval, _ := cmd.Flags().GetDuration("refresh-interval")
		if refreshInterval <= 0 {
			refreshInterval = 10 * time.Second
		}

		model := qualconsole.NewModel(ctx, deps.Register, qualconsole.Options{
			Limit:           limit,
			RefreshInterval: refreshInterval,
		})

		program := tea.NewProgram(model, tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return errs.Wrap(err, "run register console")
		}
		return nil
	}),
}

func init() {
	consoleCmd.AddCommand(consoleRegisterCmd)
	consoleRegisterCmd.Flags().Int("limit", 50, "Maximum qualifications to list")
	consoleRegisterCmd.Flags().Duration("refresh-interval", 10*time.Second, "Auto refresh interval")
}
