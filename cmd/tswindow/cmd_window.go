package main

import (
	"encoding/json"
	"time"

	"github.com/spf13/cobra"
)

type windowOutput struct {
	From      time.Time `json:"from"`
	To        time.Time `json:"to"`
	Unit      string    `json:"unit"`
	Qty       int       `json:"qty"`
	Offset    int       `json:"offset"`
	Algorithm string    `json:"algorithm"`
}

func newWindowCmd() *cobra.Command {
	var (
		wf      windowFlags
		asJSON  bool
		layout  string
		utcOnly bool
	)

	cmd := &cobra.Command{
		Use:   "window",
		Short: "Resolve a time window",
		Long: `Resolve the [from, to) limits of a window.

With the upper algorithm the live window (offset 0) ends at the reference
instant and earlier windows are aligned to unit boundaries. With rounded
every window is aligned, the live one ending at the next boundary.`,
		Example: `  tswindow window --unit day --qty 7
  tswindow window --unit hour --offset -1 --algorithm rounded --ref 2020-01-01T13:02:03Z`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := wf.window(cmd)
			if err != nil {
				return err
			}
			limits, err := w.Resolve()
			if err != nil {
				return err
			}
			if utcOnly {
				limits.From = limits.From.UTC()
				limits.To = limits.To.UTC()
			}

			if asJSON {
				enc := json.NewEncoder(printer.Out())
				enc.SetIndent("", "  ")
				return enc.Encode(windowOutput{
					From:      limits.From,
					To:        limits.To,
					Unit:      w.Unit.String(),
					Qty:       w.Qty,
					Offset:    w.Offset,
					Algorithm: w.Algorithm.String(),
				})
			}

			printer.KeyValue("From", limits.From.Format(layout))
			printer.KeyValue("To", limits.To.Format(layout))
			printer.KeyValue("Duration", limits.Duration().String())
			printer.KeyValue("Window", printer.Dim(w.Algorithm.String()+", "+w.Unit.String()))
			return nil
		},
	}

	addWindowFlags(cmd, &wf)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	cmd.Flags().StringVar(&layout, "layout", time.RFC3339Nano, "Go time layout for text output")
	cmd.Flags().BoolVar(&utcOnly, "utc", false, "print in UTC rather than local time")
	return cmd
}
