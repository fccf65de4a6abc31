// Package api serves window resolution and reduction over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/willibrandon/tswindow/internal/config"
	"github.com/willibrandon/tswindow/internal/logger"
	"github.com/willibrandon/tswindow/internal/metrics"
)

// Source is a history source that can also list its metrics.
type Source interface {
	metrics.HistorySource
	Metrics(ctx context.Context) ([]string, error)
}

// Recorder accepts samples. When the source also implements it, the server
// exposes POST /api/v1/series/:metric.
type Recorder interface {
	RecordAt(metric string, timestamp time.Time, value float64)
}

// Server is the HTTP API.
type Server struct {
	echo       *echo.Echo
	cfg        config.ServerConfig
	source     Source
	sourceName string
	defaults   defaults

	now func() time.Time
}

// New builds the server and its routes. Parameters a request omits fall back
// to cfg.Chart.
func New(cfg *config.Config, src Source, sourceName string) (*Server, error) {
	d, err := newDefaults(cfg.Chart)
	if err != nil {
		return nil, err
	}

	s := &Server{
		echo:       echo.New(),
		cfg:        cfg.Server,
		source:     src,
		sourceName: sourceName,
		defaults:   d,
		now:        time.Now,
	}
	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	e := s.echo

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			path := c.Request().URL.Path
			return path == "/health" || path == "/metrics"
		},
		LogStatus:    true,
		LogURI:       true,
		LogError:     true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error == nil {
				logger.Debug("request completed",
					"request_id", v.RequestID,
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"latency_ms", v.Latency.Milliseconds())
			} else {
				logger.Warn("request failed",
					"request_id", v.RequestID,
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"latency_ms", v.Latency.Milliseconds(),
					"error", v.Error.Error())
			}
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("8M"))

	e.GET("/health", s.handleHealth)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := e.Group("/api/v1")
	if s.cfg.RateLimit > 0 {
		v1.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rate.Limit(s.cfg.RateLimit))))
	}
	v1.GET("/window", s.handleWindow)
	v1.GET("/metrics", s.handleMetrics)
	v1.GET("/series/:metric", s.handleQuery)
	v1.POST("/reduce", s.handleReduce)
	if _, ok := s.source.(Recorder); ok {
		v1.POST("/series/:metric", s.handleIngest)
	}
}

// Handler exposes the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start listens on the configured address until Shutdown.
func (s *Server) Start() error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.echo,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}
	logger.Info("starting API server", "address", s.cfg.Addr, "source", s.sourceName)
	if err := s.echo.StartServer(srv); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
