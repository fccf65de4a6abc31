package ui

import (
	"time"

	"github.com/willibrandon/tswindow/internal/query"
)

// Data messages (from fetch commands to the browser)

// ResultDataMsg carries a reduced window.
type ResultDataMsg struct {
	Result    *query.Result
	FetchedAt time.Time
	Elapsed   time.Duration
	Error     error

	// Seq identifies the request so stale responses can be dropped.
	Seq int
}

// MetricListMsg carries the metric names known to the history source.
type MetricListMsg struct {
	Names []string
	Error error
}

// RefreshTickMsg triggers a reload of the live window.
type RefreshTickMsg struct {
	Timestamp time.Time
}
