// Package query runs the resolve, fetch and reduce pipeline shared by the
// CLI, the HTTP API and the terminal browser.
package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/willibrandon/tswindow/internal/chart"
	"github.com/willibrandon/tswindow/internal/logger"
	"github.com/willibrandon/tswindow/internal/metrics"
	"github.com/willibrandon/tswindow/internal/telemetry"
	"github.com/willibrandon/tswindow/internal/timerange"
)

// Window selects a time window relative to a reference instant.
type Window struct {
	Ref       time.Time
	Unit      timerange.Unit
	Qty       int
	Offset    int
	Algorithm timerange.Algorithm
}

// Resolve computes the window's limits.
func (w Window) Resolve() (timerange.Limits, error) {
	limits, err := timerange.Calculate(w.Algorithm, w.Ref, w.Unit, w.Offset, w.Qty)
	telemetry.RecordWindow(w.Algorithm.String(), err)
	if err != nil {
		return timerange.Limits{}, err
	}
	return limits, nil
}

// Query is one chart request.
type Query struct {
	Metric   string
	Window   Window
	MaxCount int
	Strategy chart.Strategy
	Post     bool

	// Source labels fetch telemetry, e.g. "sqlite".
	Source string
}

// Result is a reduced window ready to render.
type Result struct {
	Metric    string
	Limits    timerange.Limits
	Formatter chart.CoordinateFormatter
	Entries   []chart.Entry
	Samples   int
	Strategy  chart.Strategy
}

// IsUserError reports whether err comes from bad query parameters rather
// than a failing history source.
func IsUserError(err error) bool {
	return errors.Is(err, timerange.ErrInvalidArgument) || errors.Is(err, timerange.ErrInvalidTimeUnit)
}

// Run resolves q's window, fetches its samples from src and reduces them.
// Coordinates are anchored at the window start, so the first entry sits at
// or near zero.
func Run(ctx context.Context, src metrics.HistorySource, q Query) (*Result, error) {
	if q.Metric == "" {
		return nil, fmt.Errorf("%w: metric name is required", timerange.ErrInvalidArgument)
	}

	limits, err := q.Window.Resolve()
	if err != nil {
		return nil, err
	}

	f, err := chart.NewCoordinateFormatter(limits.From, q.Window.Unit)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	samples, err := src.GetRange(ctx, q.Metric, fetchLimits(limits, q.Strategy))
	telemetry.RecordFetch(q.Source, time.Since(started), err)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", q.Metric, err)
	}
	metrics.SortByTime(samples)

	started = time.Now()
	entries, err := chart.Reduce(chart.Request{
		Samples:   samples,
		MaxCount:  q.MaxCount,
		Strategy:  q.Strategy,
		Formatter: f,
		Range:     &limits,
		Post:      q.Post,
	})
	telemetry.RecordReduction(q.Strategy.String(), len(samples), time.Since(started), err)
	if err != nil {
		return nil, err
	}

	logger.Debug("query reduced",
		"metric", q.Metric,
		"window", limits.String(),
		"strategy", q.Strategy.String(),
		"samples", len(samples),
		"entries", len(entries),
	)

	return &Result{
		Metric:    q.Metric,
		Limits:    limits,
		Formatter: f,
		Entries:   entries,
		Samples:   len(samples),
		Strategy:  q.Strategy,
	}, nil
}

// fetchLimits closes the window at its end for the partition strategies,
// which bucket samples stamped exactly at To. Stores serve [From, To) at
// millisecond resolution.
func fetchLimits(limits timerange.Limits, s chart.Strategy) timerange.Limits {
	if s == chart.FixedPartition || s == chart.EqualCountPartition {
		limits.To = limits.To.Add(time.Millisecond)
	}
	return limits
}
