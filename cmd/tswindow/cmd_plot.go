package main

import (
	"fmt"
	"os"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/willibrandon/tswindow/internal/render"
	"github.com/willibrandon/tswindow/internal/ui/styles"
)

func newPlotCmd() *cobra.Command {
	var (
		wf     windowFlags
		rf     reduceFlags
		width  int
		height int
	)

	cmd := &cobra.Command{
		Use:   "plot <metric>",
		Short: "Plot a metric's window in the terminal",
		Example: `  tswindow plot cpu --preset 24h
  tswindow plot cpu --unit day --qty 30 --strategy equal --max-count 30`,
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

			opts := render.DefaultOptions()
			opts.Width = plotWidth(width)
			opts.Height = height
			opts.Caption = fmt.Sprintf("%s  %s  (%s, %d samples)", res.Metric, res.Limits, res.Strategy, res.Samples)
			if printer.Colors() {
				opts.Color = styles.StrategyGraphColor(res.Strategy)
			} else {
				opts.Color = asciigraph.Default
			}

			fmt.Fprintln(printer.Out(), render.Graph(res.Entries, res.Formatter, opts))
			return nil
		},
	}

	addWindowFlags(cmd, &wf)
	addReduceFlags(cmd, &rf)
	cmd.Flags().IntVar(&width, "width", 0, "graph width in columns (default: terminal width)")
	cmd.Flags().IntVar(&height, "height", 12, "graph height in rows")
	return cmd
}

// plotWidth leaves room for the y-axis labels.
func plotWidth(requested int) int {
	if requested > 0 {
		return requested
	}
	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			return max(w-12, 20)
		}
	}
	return 80
}
