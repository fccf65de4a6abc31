package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/VividCortex/ewma"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"github.com/willibrandon/tswindow/internal/logger"
	"github.com/willibrandon/tswindow/internal/timerange"
	"github.com/willibrandon/tswindow/internal/ui/styles"
)

// StatusBar shows the history source, the resolved window and fetch health.
type StatusBar struct {
	width int

	source     string
	timestamp  time.Time
	dateFormat string

	limits  timerange.Limits
	offset  int
	samples int

	// latency is smoothed over recent fetches
	latency ewma.MovingAverage
	fetches int
}

// NewStatusBar creates a new status bar component
func NewStatusBar(source string) *StatusBar {
	return &StatusBar{
		source:     source,
		dateFormat: "2006-01-02 15:04:05",
		latency:    ewma.NewMovingAverage(),
	}
}

// SetSize sets the width of the status bar
func (s *StatusBar) SetSize(width int) {
	s.width = width
}

// SetTimestamp sets the current timestamp
func (s *StatusBar) SetTimestamp(timestamp time.Time) {
	s.timestamp = timestamp
}

// SetDateFormat sets the date format string; empty keeps the default.
func (s *StatusBar) SetDateFormat(format string) {
	if format != "" {
		s.dateFormat = format
	}
}

// SetWindow records the window on screen and how many samples it held.
func (s *StatusBar) SetWindow(limits timerange.Limits, offset, samples int) {
	s.limits = limits
	s.offset = offset
	s.samples = samples
}

// ObserveFetch feeds a fetch duration into the smoothed latency.
func (s *StatusBar) ObserveFetch(d time.Duration) {
	s.latency.Add(float64(d) / float64(time.Millisecond))
	s.fetches++
}

// Latency returns the smoothed fetch latency, zero before the first fetch.
func (s *StatusBar) Latency() time.Duration {
	if s.fetches == 0 {
		return 0
	}
	return time.Duration(s.latency.Value() * float64(time.Millisecond))
}

// View renders the status bar
func (s *StatusBar) View() string {
	parts := []string{styles.StatusTitleStyle.Render(s.source)}

	if !s.limits.From.IsZero() {
		window := fmt.Sprintf("%s → %s",
			s.limits.From.Format(s.dateFormat), s.limits.To.Format(s.dateFormat))
		if s.offset == 0 {
			window += " " + styles.Badge("LIVE", styles.ColorSuccess)
		} else {
			window += styles.MutedStyle.Render(fmt.Sprintf(" (offset %d)", s.offset))
		}
		parts = append(parts, window)
	}

	parts = append(parts, fmt.Sprintf("%s samples", humanize.Comma(int64(s.samples))))
	if s.fetches > 0 {
		parts = append(parts, fmt.Sprintf("fetch %v", s.Latency().Round(time.Microsecond)))
	}

	if recent := logger.Recent(); len(recent) > 0 {
		parts = append(parts, styles.WarningStyle.Render(fmt.Sprintf("⚠ %d", len(recent))))
	}

	parts = append(parts, styles.StatusTimeStyle.Render(s.timestamp.Format(s.dateFormat)))

	statusLine := strings.Join(parts, " | ")
	if s.width > 0 {
		statusLine = ansi.Truncate(statusLine, s.width, "…")
		return lipgloss.NewStyle().Width(s.width).Render(statusLine)
	}
	return styles.StatusBarStyle.Render(statusLine)
}
