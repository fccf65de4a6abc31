package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/willibrandon/tswindow/internal/app"
)

func newBrowseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse [metric]",
		Short: "Page through metric history in an interactive chart",
		Long: `Open a terminal chart of one window of a metric. Arrow keys move to older
and newer windows, tab cycles metrics and ? lists every key. The live window
refreshes every ui.refresh_interval.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var metric string
			if len(args) == 1 {
				metric = args[0]
			}

			store, closeStore, err := openStore(commandContext(cmd), cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			model, err := app.New(cfg, store, cfg.Storage.Source, metric)
			if err != nil {
				return err
			}

			p := tea.NewProgram(
				model,
				tea.WithAltScreen(),
				tea.WithContext(commandContext(cmd)),
			)
			_, err = p.Run()
			return err
		},
	}
}
