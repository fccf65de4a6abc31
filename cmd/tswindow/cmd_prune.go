package main

import (
	"github.com/spf13/cobra"

	"github.com/willibrandon/tswindow/internal/logger"
	"github.com/willibrandon/tswindow/internal/output"
)

func newPruneCmd() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete samples older than the retention period",
		Example: `  tswindow prune
  tswindow prune --days 7`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("days") {
				days = cfg.Storage.RetentionDays
			}

			ctx := commandContext(cmd)
			store, closeStore, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			deleted, err := store.Prune(ctx, days)
			if err != nil {
				return err
			}
			logger.Info("pruned samples", "deleted", deleted, "retention_days", days)
			printer.Success("deleted %s samples older than %d days", output.Count(deleted), days)
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 0, "retention in days (default storage.retention_days)")
	return cmd
}
