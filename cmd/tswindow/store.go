package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/willibrandon/tswindow/internal/config"
	"github.com/willibrandon/tswindow/internal/metrics"
	"github.com/willibrandon/tswindow/internal/storage/postgres"
	"github.com/willibrandon/tswindow/internal/storage/sqlite"
)

// historyStore is what every command needs from a backend.
type historyStore interface {
	metrics.HistoryStore
	Metrics(ctx context.Context) ([]string, error)
}

// openStore opens the configured backend. The returned func releases it.
func openStore(ctx context.Context, cfg *config.Config) (historyStore, func(), error) {
	switch cfg.Storage.Source {
	case "postgres":
		src, err := postgres.Connect(ctx, postgres.PoolConfig{
			DSN:      cfg.Storage.Postgres.DSN,
			MaxConns: cfg.Storage.Postgres.PoolMaxConns,
			MinConns: cfg.Storage.Postgres.PoolMinConns,
		})
		if err != nil {
			return nil, nil, err
		}
		if err := src.EnsureSchema(ctx); err != nil {
			src.Close()
			return nil, nil, err
		}
		return src, src.Close, nil

	case "sqlite":
		db, err := sqlite.Open(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return sqlite.NewMetricsStore(db), func() { _ = db.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage source %q", cfg.Storage.Source)
	}
}

// commandContext returns the command's context, or Background when run
// outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
