package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/willibrandon/tswindow/internal/chart"
	"github.com/willibrandon/tswindow/internal/query"
	"github.com/willibrandon/tswindow/internal/timerange"
)

// windowFlags select a window. Unset flags fall back to the chart config.
type windowFlags struct {
	unit      string
	qty       int
	offset    int
	algorithm string
	preset    string
	ref       string
}

func addWindowFlags(cmd *cobra.Command, wf *windowFlags) {
	f := cmd.Flags()
	f.StringVarP(&wf.unit, "unit", "u", "", "window unit: ms, second, minute, hour, day, month, year")
	f.IntVarP(&wf.qty, "qty", "n", 0, "window length in units")
	f.IntVarP(&wf.offset, "offset", "o", 0, "windows to shift; negative is the past, 0 the live window")
	f.StringVarP(&wf.algorithm, "algorithm", "a", "", "rounding: upper or rounded")
	f.StringVarP(&wf.preset, "preset", "p", "", "named range: 1h, 24h, 7d, 30d, 12mo (sets unit and qty)")
	f.StringVar(&wf.ref, "ref", "now", "reference instant, RFC 3339")
}

func (wf *windowFlags) window(cmd *cobra.Command) (query.Window, error) {
	unitName := cfg.Chart.Unit
	qty := cfg.Chart.Qty

	if wf.preset != "" {
		p, err := timerange.ParsePreset(wf.preset)
		if err != nil {
			return query.Window{}, err
		}
		unitName = p.Unit().String()
		qty = p.Qty()
	}
	if cmd.Flags().Changed("unit") {
		unitName = wf.unit
	}
	if cmd.Flags().Changed("qty") {
		qty = wf.qty
	}

	unit, err := timerange.ParseUnit(unitName)
	if err != nil {
		return query.Window{}, err
	}

	algName := cfg.Chart.Algorithm
	if cmd.Flags().Changed("algorithm") {
		algName = wf.algorithm
	}
	alg, err := timerange.ParseAlgorithm(algName)
	if err != nil {
		return query.Window{}, err
	}

	ref, err := parseRef(wf.ref)
	if err != nil {
		return query.Window{}, err
	}

	return query.Window{
		Ref:       ref,
		Unit:      unit,
		Qty:       qty,
		Offset:    wf.offset,
		Algorithm: alg,
	}, nil
}

func parseRef(s string) (time.Time, error) {
	if s == "" || strings.EqualFold(s, "now") {
		return time.Now(), nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: --ref must be RFC 3339, got %q", timerange.ErrInvalidArgument, s)
	}
	return t, nil
}

// reduceFlags choose the reduction. Unset flags fall back to the chart
// config, or to the preset's point count when a preset is given.
type reduceFlags struct {
	maxCount int
	strategy string
	post     bool
}

func addReduceFlags(cmd *cobra.Command, rf *reduceFlags) {
	f := cmd.Flags()
	f.IntVarP(&rf.maxCount, "max-count", "k", 0, "maximum number of chart points")
	f.StringVarP(&rf.strategy, "strategy", "s", "", "reduction: middle, average, fixed or equal")
	f.BoolVar(&rf.post, "post", false, "anchor equal-count buckets at the window end")
}

func (rf *reduceFlags) query(cmd *cobra.Command, metric string, w query.Window, preset string) (query.Query, error) {
	maxCount := cfg.Chart.MaxCount
	if preset != "" {
		p, err := timerange.ParsePreset(preset)
		if err != nil {
			return query.Query{}, err
		}
		maxCount = p.MaxCount()
	}
	if cmd.Flags().Changed("max-count") {
		maxCount = rf.maxCount
	}

	name := cfg.Chart.Strategy
	if cmd.Flags().Changed("strategy") {
		name = rf.strategy
	}
	strategy, err := chart.ParseStrategy(name)
	if err != nil {
		return query.Query{}, err
	}

	post := cfg.Chart.Post
	if cmd.Flags().Changed("post") {
		post = rf.post
	}

	return query.Query{
		Metric:   metric,
		Window:   w,
		MaxCount: maxCount,
		Strategy: strategy,
		Post:     post,
		Source:   cfg.Storage.Source,
	}, nil
}
