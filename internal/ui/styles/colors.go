// Package styles provides centralized Lipgloss styling for the tswindow browser.
package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/willibrandon/tswindow/internal/chart"
)

// Color palette
var (
	ColorBorder  = lipgloss.Color("240") // Gray - all borders
	ColorAccent  = lipgloss.Color("6")   // Cyan - titles, highlights
	ColorPrimary = lipgloss.Color("117") // Light blue - key names
	ColorText    = lipgloss.Color("252")
	ColorMuted   = lipgloss.Color("8") // Dark gray - secondary text
	ColorSuccess = lipgloss.Color("10")
	ColorWarning = lipgloss.Color("11")
	ColorError   = lipgloss.Color("9")

	ColorSelectedFg = lipgloss.Color("229") // Light yellow text
	ColorSelectedBg = lipgloss.Color("57")  // Purple background
)

// StrategyColor returns the lipgloss color used for a reduction strategy's
// label.
func StrategyColor(s chart.Strategy) lipgloss.Color {
	switch s {
	case chart.MiddlePick:
		return lipgloss.Color("12")
	case chart.Average:
		return ColorSuccess
	case chart.FixedPartition:
		return ColorWarning
	case chart.EqualCountPartition:
		return lipgloss.Color("13")
	default:
		return ColorMuted
	}
}

// StrategyGraphColor returns the asciigraph series color for a strategy.
func StrategyGraphColor(s chart.Strategy) asciigraph.AnsiColor {
	switch s {
	case chart.MiddlePick:
		return asciigraph.Blue
	case chart.Average:
		return asciigraph.Green
	case chart.FixedPartition:
		return asciigraph.Yellow
	case chart.EqualCountPartition:
		return asciigraph.Magenta
	default:
		return asciigraph.Default
	}
}
