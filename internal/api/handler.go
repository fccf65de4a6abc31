package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/willibrandon/tswindow/internal/chart"
	"github.com/willibrandon/tswindow/internal/logger"
	"github.com/willibrandon/tswindow/internal/metrics"
	"github.com/willibrandon/tswindow/internal/query"
	"github.com/willibrandon/tswindow/internal/telemetry"
	"github.com/willibrandon/tswindow/internal/timerange"
)

// WindowResponse is a resolved window.
type WindowResponse struct {
	From      time.Time `json:"from"`
	To        time.Time `json:"to"`
	Unit      string    `json:"unit"`
	Qty       int       `json:"qty"`
	Offset    int       `json:"offset"`
	Algorithm string    `json:"algorithm"`
}

// EntryResponse is a chart entry with its coordinate mapped back to time.
type EntryResponse struct {
	X     float32   `json:"x"`
	Y     float32   `json:"y"`
	Time  time.Time `json:"time"`
	Label string    `json:"label"`
}

// ReduceResponse is a reduced series.
type ReduceResponse struct {
	Metric   string          `json:"metric,omitempty"`
	From     *time.Time      `json:"from,omitempty"`
	To       *time.Time      `json:"to,omitempty"`
	Unit     string          `json:"unit"`
	Strategy string          `json:"strategy"`
	Samples  int             `json:"samples"`
	Entries  []EntryResponse `json:"entries"`
}

// ReduceRequest is the body of POST /api/v1/reduce: samples supplied by the
// caller rather than read from the history source.
type ReduceRequest struct {
	Samples  []metrics.DataPoint `json:"samples"`
	Unit     string              `json:"unit"`
	MaxCount int                 `json:"max_count"`
	Strategy string              `json:"strategy"`
	Post     bool                `json:"post"`
	From     *time.Time          `json:"from,omitempty"`
	To       *time.Time          `json:"to,omitempty"`
}

// IngestRequest is the body of POST /api/v1/series/:metric.
type IngestRequest struct {
	Samples []metrics.DataPoint `json:"samples"`
}

// IngestResponse reports how many samples were kept.
type IngestResponse struct {
	Metric   string `json:"metric"`
	Accepted int    `json:"accepted"`
	Rejected int    `json:"rejected"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "healthy",
		"source": s.sourceName,
	})
}

// handleWindow resolves a window without touching the history source.
func (s *Server) handleWindow(c echo.Context) error {
	w, err := s.bindWindow(c)
	if err != nil {
		return mapError(c, err)
	}
	limits, err := w.Resolve()
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, WindowResponse{
		From:      limits.From,
		To:        limits.To,
		Unit:      w.Unit.String(),
		Qty:       w.Qty,
		Offset:    w.Offset,
		Algorithm: w.Algorithm.String(),
	})
}

func (s *Server) handleMetrics(c echo.Context) error {
	names, err := s.source.Metrics(c.Request().Context())
	if err != nil {
		return mapError(c, err)
	}
	if names == nil {
		names = []string{}
	}
	return c.JSON(http.StatusOK, map[string][]string{"metrics": names})
}

// handleQuery reduces a stored metric over a resolved window.
func (s *Server) handleQuery(c echo.Context) error {
	w, err := s.bindWindow(c)
	if err != nil {
		return mapError(c, err)
	}
	maxCount, strategy, post, err := s.bindReduction(c)
	if err != nil {
		return mapError(c, err)
	}

	res, err := query.Run(c.Request().Context(), s.source, query.Query{
		Metric:   c.Param("metric"),
		Window:   w,
		MaxCount: maxCount,
		Strategy: strategy,
		Post:     post,
		Source:   s.sourceName,
	})
	if err != nil {
		return mapError(c, err)
	}

	return c.JSON(http.StatusOK, ReduceResponse{
		Metric:   res.Metric,
		From:     &res.Limits.From,
		To:       &res.Limits.To,
		Unit:     res.Formatter.Unit().String(),
		Strategy: res.Strategy.String(),
		Samples:  res.Samples,
		Entries:  EntryResponses(res.Entries, res.Formatter),
	})
}

// handleReduce reduces caller-supplied samples.
func (s *Server) handleReduce(c echo.Context) error {
	req := ReduceRequest{
		Unit:     s.defaults.unit.String(),
		MaxCount: s.defaults.maxCount,
		Strategy: s.defaults.strategy.String(),
		Post:     s.defaults.post,
	}
	if err := c.Bind(&req); err != nil {
		return err
	}

	if err := s.checkMaxCount(req.MaxCount); err != nil {
		return mapError(c, err)
	}
	unit, err := timerange.ParseUnit(req.Unit)
	if err != nil {
		return mapError(c, err)
	}
	strategy, err := chart.ParseStrategy(req.Strategy)
	if err != nil {
		return mapError(c, err)
	}
	if (req.From == nil) != (req.To == nil) {
		return echo.NewHTTPError(http.StatusBadRequest, "from and to must be given together")
	}

	samples := make([]metrics.DataPoint, 0, len(req.Samples))
	for _, dp := range req.Samples {
		if dp.IsValid() {
			samples = append(samples, dp)
		}
	}
	metrics.SortByTime(samples)

	var rng *timerange.Limits
	anchor := s.now()
	if req.From != nil {
		limits, err := timerange.NewLimits(*req.From, *req.To)
		if err != nil {
			return mapError(c, err)
		}
		rng = &limits
		anchor = limits.From
	} else if len(samples) > 0 {
		anchor = samples[0].Timestamp
	}

	f, err := chart.NewCoordinateFormatter(anchor, unit)
	if err != nil {
		return mapError(c, err)
	}

	started := time.Now()
	entries, err := chart.Reduce(chart.Request{
		Samples:   samples,
		MaxCount:  req.MaxCount,
		Strategy:  strategy,
		Formatter: f,
		Range:     rng,
		Post:      req.Post,
	})
	telemetry.RecordReduction(strategy.String(), len(samples), time.Since(started), err)
	if err != nil {
		return mapError(c, err)
	}

	return c.JSON(http.StatusOK, ReduceResponse{
		From:     req.From,
		To:       req.To,
		Unit:     unit.String(),
		Strategy: strategy.String(),
		Samples:  len(samples),
		Entries:  EntryResponses(entries, f),
	})
}

// handleIngest records samples for a metric. Samples without a timestamp
// or with a non-finite value are rejected.
func (s *Server) handleIngest(c echo.Context) error {
	metric := c.Param("metric")
	var req IngestRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	rec := s.source.(Recorder)
	resp := IngestResponse{Metric: metric}
	for _, dp := range req.Samples {
		if !dp.IsValid() {
			resp.Rejected++
			continue
		}
		rec.RecordAt(metric, dp.Timestamp, dp.Value)
		resp.Accepted++
	}
	logger.Debug("samples ingested", "metric", metric, "accepted", resp.Accepted, "rejected", resp.Rejected)
	return c.JSON(http.StatusAccepted, resp)
}

// EntryResponses maps entries back to instants and labels with f.
func EntryResponses(entries []chart.Entry, f chart.CoordinateFormatter) []EntryResponse {
	out := make([]EntryResponse, len(entries))
	for i, e := range entries {
		out[i] = EntryResponse{
			X:     e.X,
			Y:     e.Y,
			Time:  f.ToInstant(float64(e.X)),
			Label: f.Label(float64(e.X)),
		}
	}
	return out
}
