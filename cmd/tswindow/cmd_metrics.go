package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/spf13/cobra"

	"github.com/willibrandon/tswindow/internal/metrics"
	"github.com/willibrandon/tswindow/internal/output"
)

// inspector is implemented by stores that can summarise a metric.
type inspector interface {
	Count(ctx context.Context, metric string) (int64, error)
	GetLatest(ctx context.Context, metric string) (metrics.DataPoint, bool, error)
}

type metricSummary struct {
	Name    string     `json:"name"`
	Samples *int64     `json:"samples,omitempty"`
	Latest  *time.Time `json:"latest,omitempty"`
	Value   *float64   `json:"value,omitempty"`
}

func newMetricsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "metrics",
		Aliases: []string{"ls"},
		Short:   "List stored metrics",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			store, closeStore, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			names, err := store.Metrics(ctx)
			if err != nil {
				return err
			}

			summaries := make([]metricSummary, 0, len(names))
			insp, detailed := store.(inspector)
			for _, name := range names {
				s := metricSummary{Name: name}
				if detailed {
					count, err := insp.Count(ctx, name)
					if err != nil {
						return err
					}
					s.Samples = &count
					if dp, ok, err := insp.GetLatest(ctx, name); err != nil {
						return err
					} else if ok {
						s.Latest = &dp.Timestamp
						s.Value = &dp.Value
					}
				}
				summaries = append(summaries, s)
			}

			if asJSON {
				enc := json.NewEncoder(printer.Out())
				enc.SetIndent("", "  ")
				return enc.Encode(summaries)
			}

			if len(summaries) == 0 {
				printer.Info("no metrics in %s", cfg.Storage.Source)
				return nil
			}
			for _, s := range summaries {
				if s.Samples == nil {
					printer.Print("%s", printer.Bold(s.Name))
					continue
				}
				line := printer.Bold(s.Name) + "  " + output.Count(*s.Samples) + " samples"
				if s.Latest != nil {
					line += printer.Dim("  last " + output.Ago(*s.Latest))
				}
				printer.Print("%s", line)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}
