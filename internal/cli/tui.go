package cli

import (
	"context"

	"arbitrage-scanner/internal/job"
	"arbitrage-scanner/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var runProgramFunc = func(m tea.Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func newTUICommand(rt *runtime) *cobra.Command {
	var exportPath string

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive opportunity table",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			controller := job.NewRefreshController(rt.tracer, rt.opportunities, rt.cfg.AutoRefreshSecs, rt.cfg.AutoRefreshEnabled)
			model := tui.NewModel(rt.opportunities, controller)
			model.SetExportPath(exportPath)
			defer model.Close()

			controller.Start(ctx)
			return runProgramFunc(model)
		},
	}
	cmd.Flags().StringVarP(&exportPath, "output", "o", "arbitrage.csv", "File written by the export key")
	return cmd
}
