// Package render draws reduced chart entries as terminal line graphs.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/guptarohit/asciigraph"
	"github.com/mattn/go-runewidth"

	"github.com/willibrandon/tswindow/internal/chart"
)

// Options controls graph size and decoration.
type Options struct {
	Width     int
	Height    int
	Caption   string
	Color     asciigraph.AnsiColor
	Precision uint
}

// DefaultOptions returns an 80x10 green graph.
func DefaultOptions() Options {
	return Options{
		Width:     80,
		Height:    10,
		Color:     asciigraph.Green,
		Precision: 2,
	}
}

func (o Options) normalized() Options {
	o.Width = max(o.Width, 20)
	o.Height = max(o.Height, 2)
	return o
}

// Graph plots entries and appends an axis line labelling the first, middle
// and last entry with the formatter's default layout. Empty input renders a
// placeholder.
func Graph(entries []chart.Entry, f chart.CoordinateFormatter, opts Options) string {
	opts = opts.normalized()
	if len(entries) == 0 {
		return placeholder(opts)
	}

	values := chart.Values(entries)
	if len(values) == 1 {
		// asciigraph needs two points to draw a line
		values = append(values, values[0])
	}

	plotOpts := []asciigraph.Option{
		asciigraph.Height(opts.Height),
		asciigraph.Width(opts.Width),
		asciigraph.Precision(opts.Precision),
		asciigraph.SeriesColors(opts.Color),
	}
	if opts.Caption != "" {
		plotOpts = append(plotOpts, asciigraph.Caption(opts.Caption))
	}

	graph := strings.TrimRight(asciigraph.Plot(values, plotOpts...), "\n")
	return graph + "\n" + AxisLabels(entries, f, lineWidth(graph))
}

// AxisLabels renders a line of width columns with the first entry's label on
// the left, the middle entry's centred and the last entry's on the right.
// Labels that would overlap are dropped, middle first.
func AxisLabels(entries []chart.Entry, f chart.CoordinateFormatter, width int) string {
	if len(entries) == 0 || width <= 0 {
		return ""
	}

	first := f.Label(float64(entries[0].X))
	last := f.Label(float64(entries[len(entries)-1].X))
	if len(entries) == 1 || first == last {
		return first
	}

	line := []rune(strings.Repeat(" ", width))
	place := func(label string, at int) bool {
		r := []rune(label)
		if at < 0 || at+len(r) > len(line) {
			return false
		}
		for i := max(at-1, 0); i < min(at+len(r)+1, len(line)); i++ {
			if line[i] != ' ' {
				return false
			}
		}
		copy(line[at:], r)
		return true
	}

	place(first, 0)
	place(last, width-len([]rune(last)))
	if len(entries) > 2 {
		mid := f.Label(float64(entries[len(entries)/2].X))
		place(mid, width/2-len([]rune(mid))/2)
	}

	return strings.TrimRight(string(line), " ")
}

// Table renders entries as aligned "label  value" rows.
func Table(entries []chart.Entry, f chart.CoordinateFormatter, layout string) string {
	if layout == "" {
		layout = chart.DefaultLayout(f.Unit())
	}

	labels := make([]string, len(entries))
	pad := 0
	for i, e := range entries {
		labels[i] = f.Format(float64(e.X), layout)
		pad = max(pad, runewidth.StringWidth(labels[i]))
	}

	var b strings.Builder
	for i, e := range entries {
		fmt.Fprintf(&b, "%s  %12.4f\n", runewidth.FillRight(labels[i], pad), e.Y)
	}
	return b.String()
}

func placeholder(opts Options) string {
	msg := "no data"
	if opts.Caption != "" {
		msg = opts.Caption + ": no data"
	}
	return msg
}

// lineWidth returns the cell width of the longest line, ignoring ANSI
// escape sequences.
func lineWidth(s string) int {
	widest := 0
	for _, line := range strings.Split(s, "\n") {
		widest = max(widest, ansi.StringWidth(line))
	}
	return widest
}
