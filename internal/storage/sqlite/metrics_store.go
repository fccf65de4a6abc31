package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/willibrandon/tswindow/internal/metrics"
	"github.com/willibrandon/tswindow/internal/timerange"
)

// MetricsStore reads and writes samples. It satisfies metrics.HistoryStore.
type MetricsStore struct {
	db *DB
}

// NewMetricsStore creates a MetricsStore on db.
func NewMetricsStore(db *DB) *MetricsStore {
	return &MetricsStore{db: db}
}

// SaveDataPoint persists a single sample.
func (s *MetricsStore) SaveDataPoint(ctx context.Context, metric string, dp metrics.DataPoint) error {
	return s.SaveBatch(ctx, metric, []metrics.DataPoint{dp})
}

// SaveBatch persists points in one transaction, skipping invalid ones.
func (s *MetricsStore) SaveBatch(ctx context.Context, metric string, points []metrics.DataPoint) error {
	if len(points) == 0 {
		return nil
	}

	tx, err := s.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO samples (metric, ts, value) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, dp := range points {
		if !dp.IsValid() {
			continue
		}
		if _, err := stmt.ExecContext(ctx, metric, dp.Timestamp.UnixMilli(), dp.Value); err != nil {
			return fmt.Errorf("failed to insert sample: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetRange returns the samples of metric with From <= ts < To, oldest first.
func (s *MetricsStore) GetRange(ctx context.Context, metric string, limits timerange.Limits) ([]metrics.DataPoint, error) {
	const query = `
		SELECT ts, value
		FROM samples
		WHERE metric = ? AND ts >= ? AND ts < ?
		ORDER BY ts ASC, rowid ASC
	`

	rows, err := s.db.conn.QueryContext(ctx, query, metric, limits.From.UnixMilli(), limits.To.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("failed to query range: %w", err)
	}
	defer rows.Close()

	return scanDataPoints(rows)
}

// GetLatest returns the newest sample of metric.
func (s *MetricsStore) GetLatest(ctx context.Context, metric string) (metrics.DataPoint, bool, error) {
	const query = `SELECT ts, value FROM samples WHERE metric = ? ORDER BY ts DESC LIMIT 1`

	var ts int64
	var value float64
	err := s.db.conn.QueryRowContext(ctx, query, metric).Scan(&ts, &value)
	if errors.Is(err, sql.ErrNoRows) {
		return metrics.DataPoint{}, false, nil
	}
	if err != nil {
		return metrics.DataPoint{}, false, fmt.Errorf("failed to get latest: %w", err)
	}
	return metrics.NewDataPointAt(time.UnixMilli(ts), value), true, nil
}

// Metrics returns the distinct metric names, sorted.
func (s *MetricsStore) Metrics(ctx context.Context) ([]string, error) {
	rows, err := s.db.conn.QueryContext(ctx, `SELECT DISTINCT metric FROM samples ORDER BY metric`)
	if err != nil {
		return nil, fmt.Errorf("failed to list metrics: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return names, nil
}

// Count returns the number of samples of metric, or of every metric when
// metric is empty.
func (s *MetricsStore) Count(ctx context.Context, metric string) (int64, error) {
	var (
		count int64
		err   error
	)
	if metric == "" {
		err = s.db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM samples`).Scan(&count)
	} else {
		err = s.db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM samples WHERE metric = ?`, metric).Scan(&count)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to count: %w", err)
	}
	return count, nil
}

// Prune deletes samples older than retentionDays and returns how many went.
func (s *MetricsStore) Prune(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, fmt.Errorf("%w: retention must be at least one day, got %d", timerange.ErrInvalidArgument, retentionDays)
	}
	return s.PruneBefore(ctx, time.Now().AddDate(0, 0, -retentionDays))
}

// PruneBefore deletes samples older than cutoff.
func (s *MetricsStore) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.conn.ExecContext(ctx, `DELETE FROM samples WHERE ts < ?`, cutoff.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to prune: %w", err)
	}
	return result.RowsAffected()
}

func scanDataPoints(rows *sql.Rows) ([]metrics.DataPoint, error) {
	var result []metrics.DataPoint
	for rows.Next() {
		var ts int64
		var value float64
		if err := rows.Scan(&ts, &value); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		result = append(result, metrics.NewDataPointAt(time.UnixMilli(ts), value))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return result, nil
}
