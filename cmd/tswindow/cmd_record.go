package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/willibrandon/tswindow/internal/logger"
	"github.com/willibrandon/tswindow/internal/metrics"
	"github.com/willibrandon/tswindow/internal/output"
	"github.com/willibrandon/tswindow/internal/timerange"
)

// recordBatchSize is how many stdin samples are recorded between flushes.
const recordBatchSize = 4096

func newRecordCmd() *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "record <metric> [value]",
		Short: "Record samples for a metric",
		Long: `Record one sample, or read samples from stdin when no value is given.

Each stdin line is either a value, recorded at the current time, or an
RFC 3339 timestamp and a value separated by a comma or whitespace. Blank
lines and lines starting with # are skipped.`,
		Example: `  tswindow record cpu 42.5
  tswindow record cpu 40 --at 2024-05-01T12:00:00Z
  vmstat 1 | awk '{print $15}' | tswindow record idle`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			metric := args[0]
			if metric == "" {
				return errNoMetric
			}

			ctx := commandContext(cmd)
			store, closeStore, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			collector := metrics.NewCollector(metrics.WithStore(store), metrics.WithCapacity(recordBatchSize))
			n := 1
			if len(args) == 2 {
				ts, err := parseRef(at)
				if err != nil {
					return err
				}
				v, err := strconv.ParseFloat(args[1], 64)
				if err != nil {
					return fmt.Errorf("%w: value %q is not a number", timerange.ErrInvalidArgument, args[1])
				}
				if !metrics.NewDataPointAt(ts, v).IsValid() {
					return fmt.Errorf("%w: value must be finite", timerange.ErrInvalidArgument)
				}
				collector.RecordAt(metric, ts, v)
			} else {
				var skipped int
				n, skipped, err = readSamples(ctx, os.Stdin, metric, collector, time.Now)
				if err != nil {
					return err
				}
				if skipped > 0 {
					printer.Warning("skipped %d unreadable lines", skipped)
				}
			}

			if err := collector.Flush(ctx); err != nil {
				return err
			}
			logger.Info("samples recorded", "metric", metric, "count", n)
			printer.Success("recorded %s samples for %s", output.Count(int64(n)), metric)
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "now", "sample time, RFC 3339")
	return cmd
}

// readSamples records every parseable line of r into c, flushing c every
// recordBatchSize samples. The caller flushes the remainder.
func readSamples(ctx context.Context, r io.Reader, metric string, c *metrics.Collector, now func() time.Time) (n, skipped int, err error) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		dp, err := parseSampleLine(line, now)
		if err != nil || !dp.IsValid() {
			skipped++
			continue
		}
		c.RecordAt(metric, dp.Timestamp, dp.Value)
		n++
		if n%recordBatchSize == 0 {
			if err := c.Flush(ctx); err != nil {
				return n, skipped, err
			}
		}
	}
	if err := sc.Err(); err != nil {
		return n, skipped, fmt.Errorf("reading samples: %w", err)
	}
	return n, skipped, nil
}

func parseSampleLine(line string, now func() time.Time) (metrics.DataPoint, error) {
	fields := strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	switch len(fields) {
	case 1:
		v, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return metrics.DataPoint{}, err
		}
		return metrics.NewDataPointAt(now(), v), nil
	case 2:
		ts, err := time.Parse(time.RFC3339Nano, fields[0])
		if err != nil {
			return metrics.DataPoint{}, err
		}
		v, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return metrics.DataPoint{}, err
		}
		return metrics.NewDataPointAt(ts, v), nil
	default:
		return metrics.DataPoint{}, fmt.Errorf("expected 1 or 2 fields, got %d", len(fields))
	}
}
