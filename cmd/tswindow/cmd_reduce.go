package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/willibrandon/tswindow/internal/api"
	"github.com/willibrandon/tswindow/internal/output"
	"github.com/willibrandon/tswindow/internal/query"
	"github.com/willibrandon/tswindow/internal/render"
)

func newReduceCmd() *cobra.Command {
	var (
		wf     windowFlags
		rf     reduceFlags
		asJSON bool
		layout string
	)

	cmd := &cobra.Command{
		Use:   "reduce <metric>",
		Short: "Reduce a metric's window to chart points",
		Long: `Resolve a window, load the metric's samples inside it and reduce them to at
most --max-count points.

Strategies:
  middle   keep the middle sample of each group (order statistics)
  average  average each group
  fixed    fixed-width time buckets; the first and last bucket are half width
  equal    equal-width time buckets; --post anchors them at the window end`,
		Example: `  tswindow reduce cpu --unit minute --qty 60 --strategy fixed --max-count 12
  tswindow reduce cpu --preset 7d --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := wf.window(cmd)
			if err != nil {
				return err
			}
			q, err := rf.query(cmd, args[0], w, wf.preset)
			if err != nil {
				return err
			}

			res, err := runQuery(commandContext(cmd), q)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(printer.Out())
				enc.SetIndent("", "  ")
				return enc.Encode(api.ReduceResponse{
					Metric:   res.Metric,
					From:     &res.Limits.From,
					To:       &res.Limits.To,
					Unit:     res.Formatter.Unit().String(),
					Strategy: res.Strategy.String(),
					Samples:  res.Samples,
					Entries:  api.EntryResponses(res.Entries, res.Formatter),
				})
			}

			printer.Header(fmt.Sprintf("%s %s", res.Metric, res.Limits))
			fmt.Fprint(printer.Out(), render.Table(res.Entries, res.Formatter, layout))
			printer.Info("%d points from %s samples (%s)", len(res.Entries), output.Count(int64(res.Samples)), res.Strategy)
			return nil
		},
	}

	addWindowFlags(cmd, &wf)
	addReduceFlags(cmd, &rf)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	cmd.Flags().StringVar(&layout, "layout", "", "Go time layout for labels (default depends on the unit)")
	return cmd
}

// runQuery opens the configured store and runs q against it.
func runQuery(ctx context.Context, q query.Query) (*query.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer closeStore()

	return query.Run(ctx, store, q)
}
