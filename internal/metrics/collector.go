package metrics

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/willibrandon/tswindow/internal/logger"
	"github.com/willibrandon/tswindow/internal/timerange"
)

// HistorySource serves the samples of one metric inside a window.
// Implementations return points with From <= Timestamp < To, oldest first.
type HistorySource interface {
	GetRange(ctx context.Context, metric string, limits timerange.Limits) ([]DataPoint, error)
}

// HistoryStore is a HistorySource that can also persist and expire samples.
type HistoryStore interface {
	HistorySource
	SaveBatch(ctx context.Context, metric string, points []DataPoint) error
	Prune(ctx context.Context, retentionDays int) (int64, error)
}

// MetricSeries is a named series and its live buffer.
type MetricSeries struct {
	Name       string
	Buffer     *CircularBuffer
	LastUpdate time.Time

	// pending holds samples not yet written to the store, in record order.
	pending []DataPoint
}

// Collector buffers recent samples in memory, periodically persists them to
// an optional HistoryStore, and serves windows merged from both.
type Collector struct {
	series   map[string]*MetricSeries
	store    HistoryStore
	mu       sync.RWMutex
	flushMu  sync.RWMutex // held by Flush while a batch is being saved
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	capacity int

	persistInterval time.Duration
	pruneInterval   time.Duration
	retentionDays   int
}

// CollectorOption configures a Collector.
type CollectorOption func(*Collector)

// WithCapacity sets the buffer capacity of each series.
func WithCapacity(capacity int) CollectorOption {
	return func(c *Collector) {
		c.capacity = capacity
	}
}

// WithStore sets the persistent history store.
func WithStore(store HistoryStore) CollectorOption {
	return func(c *Collector) {
		c.store = store
	}
}

// WithPersistInterval sets how often buffered samples are flushed to the store.
func WithPersistInterval(d time.Duration) CollectorOption {
	return func(c *Collector) {
		c.persistInterval = d
	}
}

// WithPruneInterval sets how often the store is pruned.
func WithPruneInterval(d time.Duration) CollectorOption {
	return func(c *Collector) {
		c.pruneInterval = d
	}
}

// WithRetentionDays sets how many days of history the store keeps.
func WithRetentionDays(days int) CollectorOption {
	return func(c *Collector) {
		c.retentionDays = days
	}
}

// NewCollector creates a Collector.
func NewCollector(opts ...CollectorOption) *Collector {
	c := &Collector{
		series:          make(map[string]*MetricSeries),
		capacity:        DefaultBufferCapacity,
		persistInterval: 10 * time.Second,
		pruneInterval:   time.Hour,
		retentionDays:   30,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// getOrCreate returns the series for name. Caller holds the write lock.
func (c *Collector) getOrCreate(name string) *MetricSeries {
	s, ok := c.series[name]
	if !ok {
		s = &MetricSeries{
			Name:   name,
			Buffer: NewCircularBuffer(c.capacity),
		}
		c.series[name] = s
	}
	return s
}

// Record adds a sample stamped with the current time.
func (c *Collector) Record(metric string, value float64) {
	c.RecordAt(metric, time.Now(), value)
}

// RecordAt adds a sample at timestamp. Invalid samples are dropped.
func (c *Collector) RecordAt(metric string, timestamp time.Time, value float64) {
	dp := NewDataPointAt(timestamp, value)
	if !dp.IsValid() {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.getOrCreate(metric)
	s.Buffer.Push(dp)
	if c.store != nil {
		s.pending = append(s.pending, dp)
	}
	if timestamp.After(s.LastUpdate) {
		s.LastUpdate = timestamp
	}
}

// GetRange returns the samples of metric inside limits, oldest first.
//
// Persisted history is merged with the samples still waiting to be flushed,
// so every recorded sample is seen exactly once. Without a store only the
// buffer is consulted.
func (c *Collector) GetRange(ctx context.Context, metric string, limits timerange.Limits) ([]DataPoint, error) {
	if c.store == nil {
		c.mu.RLock()
		s := c.series[metric]
		c.mu.RUnlock()
		if s == nil {
			return nil, nil
		}
		points := s.Buffer.GetRange(limits)
		SortByTime(points)
		return points, nil
	}

	c.flushMu.RLock()
	defer c.flushMu.RUnlock()

	points, err := c.store.GetRange(ctx, metric, limits)
	if err != nil {
		return nil, fmt.Errorf("failed to load history for %s: %w", metric, err)
	}

	c.mu.RLock()
	if s := c.series[metric]; s != nil {
		for _, dp := range s.pending {
			if limits.Contains(dp.Timestamp) {
				points = append(points, dp)
			}
		}
	}
	c.mu.RUnlock()

	SortByTime(points)
	return points, nil
}

// Pending returns how many samples of metric are waiting to be flushed.
func (c *Collector) Pending(metric string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if s := c.series[metric]; s != nil {
		return len(s.pending)
	}
	return 0
}

// GetLatest returns the most recent value of metric.
func (c *Collector) GetLatest(metric string) (float64, time.Time, bool) {
	c.mu.RLock()
	s, ok := c.series[metric]
	c.mu.RUnlock()
	if !ok {
		return 0, time.Time{}, false
	}

	dp, ok := s.Buffer.Latest()
	if !ok {
		return 0, time.Time{}, false
	}
	return dp.Value, dp.Timestamp, true
}

// HasData reports whether metric has buffered samples.
func (c *Collector) HasData(metric string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s, ok := c.series[metric]
	return ok && !s.Buffer.IsEmpty()
}

// MetricNames returns the buffered metric names, sorted.
func (c *Collector) MetricNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.series))
	for name := range c.series {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// metricLister is implemented by stores that can enumerate their metrics.
type metricLister interface {
	Metrics(ctx context.Context) ([]string, error)
}

// Metrics returns the buffered metric names merged with those the store
// holds, when the store can list them.
func (c *Collector) Metrics(ctx context.Context) ([]string, error) {
	names := c.MetricNames()
	lister, ok := c.store.(metricLister)
	if !ok {
		return names, nil
	}

	stored, err := lister.Metrics(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list stored metrics: %w", err)
	}
	for _, name := range stored {
		if !slices.Contains(names, name) {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names, nil
}

// Start launches the persistence and pruning loops when a store is set.
func (c *Collector) Start(ctx context.Context) error {
	c.ctx, c.cancel = context.WithCancel(ctx)

	if c.store != nil {
		c.wg.Add(2)
		go c.persistLoop()
		go c.pruneLoop()
	}
	return nil
}

// Stop cancels the background loops and waits for the final flush.
func (c *Collector) Stop() error {
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()
	return nil
}

// Flush writes every sample recorded since the last successful flush to the
// store, whatever its timestamp. Samples of a failed batch stay pending.
func (c *Collector) Flush(ctx context.Context) error {
	if c.store == nil {
		return nil
	}

	c.flushMu.Lock()
	defer c.flushMu.Unlock()

	for _, name := range c.MetricNames() {
		c.mu.RLock()
		s := c.series[name]
		batch := slices.Clone(s.pending)
		c.mu.RUnlock()

		if len(batch) == 0 {
			continue
		}

		if err := c.store.SaveBatch(ctx, name, batch); err != nil {
			return fmt.Errorf("failed to persist %s: %w", name, err)
		}

		// samples recorded during the save were appended after the batch
		c.mu.Lock()
		s.pending = slices.Delete(s.pending, 0, len(batch))
		c.mu.Unlock()

		logger.Debug("persisted samples", "metric", name, "count", len(batch))
	}
	return nil
}

func (c *Collector) persistLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(c.persistInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			// Final flush on a fresh context; c.ctx is already cancelled.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := c.Flush(ctx); err != nil {
				logger.Warn("final flush failed", "error", err)
			}
			cancel()
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(c.ctx, 5*time.Second)
			if err := c.Flush(ctx); err != nil {
				logger.Warn("flush failed", "error", err)
			}
			cancel()
		}
	}
}

func (c *Collector) pruneLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(c.pruneInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(c.ctx, 30*time.Second)
			n, err := c.store.Prune(ctx, c.retentionDays)
			cancel()
			if err != nil {
				logger.Warn("prune failed", "error", err)
				continue
			}
			if n > 0 {
				logger.Info("pruned samples", "count", n, "retention_days", c.retentionDays)
			}
		}
	}
}
