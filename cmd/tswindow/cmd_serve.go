package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/willibrandon/tswindow/internal/api"
	"github.com/willibrandon/tswindow/internal/logger"
	"github.com/willibrandon/tswindow/internal/metrics"
)

func newServeCmd() *cobra.Command {
	var (
		addr            string
		persistInterval time.Duration
		capacity        int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the window and reduction HTTP API",
		Long: `Start the HTTP API.

Samples posted to /api/v1/series/<metric> are buffered in memory and
flushed to the configured store every --persist-interval. Queries merge the
store with the buffer, and the store is pruned to storage.retention_days.

Endpoints:
  GET  /health
  GET  /metrics                  Prometheus metrics
  GET  /api/v1/window            resolve a window
  GET  /api/v1/metrics           list metrics
  GET  /api/v1/series/<metric>   reduce a stored window
  POST /api/v1/series/<metric>   record samples
  POST /api/v1/reduce            reduce posted samples`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}

			ctx, stop := signal.NotifyContext(commandContext(cmd), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			store, closeStore, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			collector := metrics.NewCollector(
				metrics.WithStore(store),
				metrics.WithCapacity(capacity),
				metrics.WithPersistInterval(persistInterval),
				metrics.WithRetentionDays(cfg.Storage.RetentionDays),
			)
			if err := collector.Start(ctx); err != nil {
				return err
			}
			defer collector.Stop()

			srv, err := api.New(cfg, collector, cfg.Storage.Source)
			if err != nil {
				return err
			}

			printer.Info("listening on http://%s (%s)", cfg.Server.Addr, cfg.Storage.Source)

			g, gCtx := errgroup.WithContext(ctx)
			g.Go(srv.Start)
			g.Go(func() error {
				<-gCtx.Done()
				logger.Info("shutting down API server")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			})
			return g.Wait()
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default server.addr)")
	cmd.Flags().DurationVar(&persistInterval, "persist-interval", 10*time.Second, "how often buffered samples are flushed")
	cmd.Flags().IntVar(&capacity, "buffer", 3600, "samples buffered per metric")
	return cmd
}
