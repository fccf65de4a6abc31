// Package postgres serves metric history from a PostgreSQL samples table.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/willibrandon/tswindow/internal/logger"
	"github.com/willibrandon/tswindow/internal/metrics"
	"github.com/willibrandon/tswindow/internal/timerange"
)

const schema = `
CREATE TABLE IF NOT EXISTS samples (
	metric text NOT NULL,
	ts     timestamptz NOT NULL,
	value  double precision NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_samples_metric_ts ON samples (metric, ts);
`

// PoolConfig sizes the connection pool.
type PoolConfig struct {
	DSN      string
	MaxConns int
	MinConns int
}

// Source reads and writes samples through a pgx pool. It satisfies
// metrics.HistoryStore.
type Source struct {
	pool *pgxpool.Pool
}

// Connect opens a pool for cfg and validates it with a round trip.
func Connect(ctx context.Context, cfg PoolConfig) (*Source, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = int32(cfg.MaxConns)
	}
	if cfg.MinConns > 0 {
		poolConfig.MinConns = int32(cfg.MinConns)
	}
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute
	poolConfig.ConnConfig.RuntimeParams["application_name"] = "tswindow"

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	var version string
	if err := pool.QueryRow(ctx, "SELECT version()").Scan(&version); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connection validation failed: %w", err)
	}

	logger.Debug("connected to postgres",
		"host", poolConfig.ConnConfig.Host,
		"database", poolConfig.ConnConfig.Database,
		"version", version,
	)
	return New(pool), nil
}

// New wraps an existing pool. The caller keeps ownership of pool unless it
// calls Close on the returned Source.
func New(pool *pgxpool.Pool) *Source {
	return &Source{pool: pool}
}

// Close closes the pool.
func (s *Source) Close() {
	s.pool.Close()
}

// EnsureSchema creates the samples table and index when missing.
func (s *Source) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// SaveBatch bulk-loads points with COPY, skipping invalid ones.
func (s *Source) SaveBatch(ctx context.Context, metric string, points []metrics.DataPoint) error {
	rows := make([][]any, 0, len(points))
	for _, dp := range points {
		if dp.IsValid() {
			rows = append(rows, []any{metric, dp.Timestamp, dp.Value})
		}
	}
	if len(rows) == 0 {
		return nil
	}

	_, err := s.pool.CopyFrom(ctx,
		pgx.Identifier{"samples"},
		[]string{"metric", "ts", "value"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("failed to copy samples: %w", err)
	}
	return nil
}

// GetRange returns the samples of metric with From <= ts < To, oldest first.
func (s *Source) GetRange(ctx context.Context, metric string, limits timerange.Limits) ([]metrics.DataPoint, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT ts, value
		FROM samples
		WHERE metric = $1 AND ts >= $2 AND ts < $3
		ORDER BY ts ASC
	`, metric, limits.From, limits.To)
	if err != nil {
		return nil, fmt.Errorf("failed to query range: %w", err)
	}

	points, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (metrics.DataPoint, error) {
		var dp metrics.DataPoint
		err := row.Scan(&dp.Timestamp, &dp.Value)
		return dp, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan samples: %w", err)
	}
	return points, nil
}

// Metrics returns the distinct metric names, sorted.
func (s *Source) Metrics(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT DISTINCT metric FROM samples ORDER BY metric`)
	if err != nil {
		return nil, fmt.Errorf("failed to list metrics: %w", err)
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan metrics: %w", err)
	}
	return names, nil
}

// Prune deletes samples older than retentionDays.
func (s *Source) Prune(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, fmt.Errorf("%w: retention must be at least one day, got %d", timerange.ErrInvalidArgument, retentionDays)
	}
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM samples WHERE ts < now() - make_interval(days => $1)`, retentionDays)
	if err != nil {
		return 0, fmt.Errorf("failed to prune: %w", err)
	}
	return tag.RowsAffected(), nil
}
