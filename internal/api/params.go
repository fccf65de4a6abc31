package api

import (
	"fmt"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/willibrandon/tswindow/internal/chart"
	"github.com/willibrandon/tswindow/internal/config"
	"github.com/willibrandon/tswindow/internal/query"
	"github.com/willibrandon/tswindow/internal/timerange"
)

// defaults are the parsed chart settings used for omitted parameters.
type defaults struct {
	unit      timerange.Unit
	qty       int
	maxCount  int
	strategy  chart.Strategy
	algorithm timerange.Algorithm
	post      bool

	maxCountLimit int
}

func newDefaults(cfg config.ChartConfig) (defaults, error) {
	d := defaults{qty: cfg.Qty, maxCount: cfg.MaxCount, post: cfg.Post, maxCountLimit: cfg.MaxCountLimit}
	var err error
	if d.unit, err = timerange.ParseUnit(cfg.Unit); err != nil {
		return d, err
	}
	if d.strategy, err = chart.ParseStrategy(cfg.Strategy); err != nil {
		return d, err
	}
	if d.algorithm, err = timerange.ParseAlgorithm(cfg.Algorithm); err != nil {
		return d, err
	}
	return d, nil
}

// windowParams are the query parameters shared by /window and /reduce.
type windowParams struct {
	Unit      string
	Qty       int
	Offset    int
	Algorithm string
	Ref       time.Time
}

func (s *Server) bindWindow(c echo.Context) (query.Window, error) {
	p := windowParams{
		Unit:      s.defaults.unit.String(),
		Qty:       s.defaults.qty,
		Algorithm: s.defaults.algorithm.String(),
	}
	err := echo.QueryParamsBinder(c).
		String("unit", &p.Unit).
		Int("qty", &p.Qty).
		Int("offset", &p.Offset).
		String("algorithm", &p.Algorithm).
		Time("ref", &p.Ref, time.RFC3339Nano).
		BindError()
	if err != nil {
		return query.Window{}, err
	}

	unit, err := timerange.ParseUnit(p.Unit)
	if err != nil {
		return query.Window{}, err
	}
	algorithm, err := timerange.ParseAlgorithm(p.Algorithm)
	if err != nil {
		return query.Window{}, err
	}
	if p.Ref.IsZero() {
		p.Ref = s.now()
	}

	return query.Window{
		Ref:       p.Ref,
		Unit:      unit,
		Qty:       p.Qty,
		Offset:    p.Offset,
		Algorithm: algorithm,
	}, nil
}

// bindReduction reads max_count, strategy and post.
func (s *Server) bindReduction(c echo.Context) (int, chart.Strategy, bool, error) {
	maxCount := s.defaults.maxCount
	name := s.defaults.strategy.String()
	post := s.defaults.post

	err := echo.QueryParamsBinder(c).
		Int("max_count", &maxCount).
		String("strategy", &name).
		Bool("post", &post).
		BindError()
	if err != nil {
		return 0, 0, false, err
	}

	if err := s.checkMaxCount(maxCount); err != nil {
		return 0, 0, false, err
	}
	strategy, err := chart.ParseStrategy(name)
	if err != nil {
		return 0, 0, false, err
	}
	return maxCount, strategy, post, nil
}

// checkMaxCount rejects output sizes above the configured limit. The
// partition strategies allocate max_count entries up front.
func (s *Server) checkMaxCount(maxCount int) error {
	if s.defaults.maxCountLimit > 0 && maxCount > s.defaults.maxCountLimit {
		return fmt.Errorf("%w: max_count %d exceeds the limit of %d",
			timerange.ErrInvalidArgument, maxCount, s.defaults.maxCountLimit)
	}
	return nil
}
