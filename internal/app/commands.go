package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/willibrandon/tswindow/internal/query"
	"github.com/willibrandon/tswindow/internal/ui"
)

// fetchTimeout bounds a single window fetch.
const fetchTimeout = 15 * time.Second

// fetchResult runs q against src off the UI goroutine.
func fetchResult(src Source, q query.Query, seq int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		started := time.Now()
		res, err := query.Run(ctx, src, q)
		return ui.ResultDataMsg{
			Result:    res,
			FetchedAt: time.Now(),
			Elapsed:   time.Since(started),
			Error:     err,
			Seq:       seq,
		}
	}
}

// fetchMetricList lists the metrics src holds.
func fetchMetricList(src Source) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		names, err := src.Metrics(ctx)
		return ui.MetricListMsg{Names: names, Error: err}
	}
}

// tickStatusBar creates a command to update the status bar timestamp
func tickStatusBar() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return StatusBarTickMsg{Timestamp: t}
	})
}

// tickRefresh schedules the next reload of the live window.
func tickRefresh(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return ui.RefreshTickMsg{Timestamp: t}
	})
}
