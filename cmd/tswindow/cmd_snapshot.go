package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/willibrandon/tswindow/internal/logger"
	"github.com/willibrandon/tswindow/internal/metrics"
	"github.com/willibrandon/tswindow/internal/output"
	"github.com/willibrandon/tswindow/internal/snapshot"
	"github.com/willibrandon/tswindow/internal/timerange"
)

func newExportCmd() *cobra.Command {
	var (
		wf          windowFlags
		all         bool
		compression string
	)

	cmd := &cobra.Command{
		Use:   "export <metric> [file]",
		Short: "Export a metric's samples to a CSV snapshot",
		Long: `Write a metric's samples as timestamp,value CSV.

The codec comes from --compression, then from the file extension (.gz, .lz4,
.zst). Without a file the snapshot is written to <metric>.csv with the
storage.compression codec.`,
		Example: `  tswindow export cpu --all
  tswindow export cpu cpu-week.csv.gz --unit day --qty 7`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			metric := args[0]

			limits := everything()
			if !all {
				w, err := wf.window(cmd)
				if err != nil {
					return err
				}
				if limits, err = w.Resolve(); err != nil {
					return err
				}
			}

			var c snapshot.Compression
			if compression != "" {
				var err error
				if c, err = snapshot.ParseCompression(compression); err != nil {
					return err
				}
			}

			path := ""
			if len(args) == 2 {
				path = args[1]
			} else {
				if c == "" {
					c = snapshot.Compression(cfg.Storage.Compression)
				}
				path = metric + ".csv" + c.Extension()
			}

			ctx := commandContext(cmd)
			store, closeStore, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			points, err := store.GetRange(ctx, metric, limits)
			if err != nil {
				return err
			}
			if len(points) == 0 {
				printer.Warning("no samples for %s in %s", metric, limits)
			}

			stats, err := snapshot.ExportFile(ctx, path, points, c)
			if err != nil {
				return err
			}
			logger.Info("snapshot exported", "metric", metric, "path", stats.Path, "rows", stats.Rows)

			printer.Success("exported %s", stats.Path)
			printer.KeyValue("Rows", output.Count(int64(stats.Rows)))
			printer.KeyValue("Size", output.Bytes(stats.SizeBytes))
			printer.KeyValue("Codec", string(stats.Compression))
			printer.KeyValue("Checksum", stats.Checksum)
			return nil
		},
	}

	addWindowFlags(cmd, &wf)
	cmd.Flags().BoolVar(&all, "all", false, "export every sample, ignoring the window flags")
	cmd.Flags().StringVar(&compression, "compression", "", "codec: none, gzip, lz4 or zstd")
	return cmd
}

func newImportCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import <metric> <file>",
		Short: "Import a CSV snapshot into a metric",
		Long: `Read timestamp,value CSV (optionally .gz, .lz4 or .zst compressed) and
store its samples under metric. Rows with a non-finite value are skipped.`,
		Example: `  tswindow import cpu cpu-week.csv.gz`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			metric, path := args[0], args[1]
			ctx := commandContext(cmd)

			points, err := snapshot.ImportFile(ctx, path)
			if err != nil {
				return err
			}

			valid := points[:0]
			for _, dp := range points {
				if dp.IsValid() {
					valid = append(valid, dp)
				}
			}
			skipped := len(points) - len(valid)
			metrics.SortByTime(valid)

			if dryRun {
				printer.Info("would import %s samples into %s", output.Count(int64(len(valid))), metric)
			} else {
				store, closeStore, err := openStore(ctx, cfg)
				if err != nil {
					return err
				}
				defer closeStore()

				if err := store.SaveBatch(ctx, metric, valid); err != nil {
					return err
				}
				logger.Info("snapshot imported", "metric", metric, "path", path, "rows", len(valid))
				printer.Success("imported %s samples into %s", output.Count(int64(len(valid))), metric)
			}
			if skipped > 0 {
				printer.Warning("skipped %d invalid rows", skipped)
			}
			if len(valid) > 0 {
				printer.KeyValue("From", valid[0].Timestamp.Format(time.RFC3339))
				printer.KeyValue("To", valid[len(valid)-1].Timestamp.Format(time.RFC3339))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "parse the file without storing it")
	return cmd
}

// everything spans every storable sample time.
func everything() timerange.Limits {
	return timerange.Limits{
		From: time.Unix(0, 0),
		To:   time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC),
	}
}
