package metrics

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/willibrandon/tswindow/internal/logger"
	"github.com/willibrandon/tswindow/internal/timerange"
)

func init() {
	logger.InitLogger(logger.LevelWarn, "")
}

// memStore is an in-memory HistoryStore.
type memStore struct {
	mu      sync.Mutex
	points  map[string][]DataPoint
	saves   int
	failErr error
}

func newMemStore() *memStore {
	return &memStore{points: make(map[string][]DataPoint)}
}

func (m *memStore) SaveBatch(_ context.Context, metric string, points []DataPoint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	m.saves++
	m.points[metric] = append(m.points[metric], points...)
	return nil
}

func (m *memStore) GetRange(_ context.Context, metric string, limits timerange.Limits) ([]DataPoint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return nil, m.failErr
	}
	var out []DataPoint
	for _, dp := range m.points[metric] {
		if limits.Contains(dp.Timestamp) {
			out = append(out, dp)
		}
	}
	return out, nil
}

func (m *memStore) Prune(context.Context, int) (int64, error) {
	return 0, nil
}

func (m *memStore) count(metric string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.points[metric])
}

func minutes(from, to int) timerange.Limits {
	return timerange.Limits{
		From: t0.Add(time.Duration(from) * time.Minute),
		To:   t0.Add(time.Duration(to) * time.Minute),
	}
}

func TestCollector_RecordAndLatest(t *testing.T) {
	c := NewCollector()

	c.RecordAt("cpu", t0, 100.0)
	c.Record("cpu", 42.5)

	value, ts, ok := c.GetLatest("cpu")
	if !ok {
		t.Fatal("expected GetLatest to return true")
	}
	if value != 42.5 {
		t.Errorf("expected value 42.5, got %f", value)
	}
	if ts.IsZero() {
		t.Error("expected non-zero timestamp")
	}

	if _, _, ok := c.GetLatest("missing"); ok {
		t.Error("expected false for unknown metric")
	}
}

func TestCollector_InvalidSamplesDropped(t *testing.T) {
	c := NewCollector()

	c.RecordAt("cpu", time.Time{}, 1.0)
	if c.HasData("cpu") {
		t.Error("expected no data for zero timestamp")
	}
}

func TestCollector_MetricNamesSorted(t *testing.T) {
	c := NewCollector()
	for _, name := range []string{"mem", "cpu", "disk"} {
		c.Record(name, 1)
	}

	names := c.MetricNames()
	expected := []string{"cpu", "disk", "mem"}
	if len(names) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, names)
	}
	for i := range expected {
		if names[i] != expected[i] {
			t.Errorf("expected %v, got %v", expected, names)
		}
	}
}

func TestCollector_GetRangeBufferOnly(t *testing.T) {
	c := NewCollector(WithCapacity(5))
	for i := 0; i < 10; i++ {
		c.RecordAt("cpu", t0.Add(time.Duration(i)*time.Minute), float64(i))
	}

	points, err := c.GetRange(context.Background(), "cpu", minutes(0, 60))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// capacity keeps the last five
	assertValues(t, Values(points), 5, 6, 7, 8, 9)

	none, err := c.GetRange(context.Background(), "missing", minutes(0, 60))
	if err != nil || none != nil {
		t.Errorf("expected nil, nil for unknown metric, got %v, %v", none, err)
	}
}

func TestCollector_GetRangeMergesStoreAndBuffer(t *testing.T) {
	store := newMemStore()
	store.points["cpu"] = []DataPoint{
		NewDataPointAt(t0.Add(-2*time.Minute), -2),
		NewDataPointAt(t0.Add(-time.Minute), -1),
	}
	c := NewCollector(WithStore(store))

	for i := 0; i < 3; i++ {
		c.RecordAt("cpu", t0.Add(time.Duration(i)*time.Minute), float64(i))
	}
	ctx := context.Background()

	points, err := c.GetRange(ctx, "cpu", minutes(-5, 5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertValues(t, Values(points), -2, -1, 0, 1, 2)

	// after a flush the buffered samples live in both places but are reported once
	if err := c.Flush(ctx); err != nil {
		t.Fatalf("flush failed: %v", err)
	}
	c.RecordAt("cpu", t0.Add(3*time.Minute), 3)

	points, err = c.GetRange(ctx, "cpu", minutes(-5, 5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertValues(t, Values(points), -2, -1, 0, 1, 2, 3)
}

func TestCollector_FlushOnlyWritesNewSamples(t *testing.T) {
	store := newMemStore()
	c := NewCollector(WithStore(store))
	ctx := context.Background()

	c.RecordAt("cpu", t0, 1)
	c.RecordAt("cpu", t0.Add(time.Minute), 2)
	if err := c.Flush(ctx); err != nil {
		t.Fatalf("flush failed: %v", err)
	}
	if err := c.Flush(ctx); err != nil {
		t.Fatalf("flush failed: %v", err)
	}
	if store.count("cpu") != 2 {
		t.Errorf("expected 2 stored samples, got %d", store.count("cpu"))
	}
	if store.saves != 1 {
		t.Errorf("expected 1 save, got %d", store.saves)
	}

	c.RecordAt("cpu", t0.Add(2*time.Minute), 3)
	if err := c.Flush(ctx); err != nil {
		t.Fatalf("flush failed: %v", err)
	}
	if store.count("cpu") != 3 {
		t.Errorf("expected 3 stored samples, got %d", store.count("cpu"))
	}
}

func TestCollector_StoreErrors(t *testing.T) {
	store := newMemStore()
	store.failErr = errors.New("disk full")
	c := NewCollector(WithStore(store))
	c.RecordAt("cpu", t0, 1)

	if err := c.Flush(context.Background()); !errors.Is(err, store.failErr) {
		t.Errorf("expected wrapped store error, got %v", err)
	}
	if _, err := c.GetRange(context.Background(), "cpu", minutes(0, 1)); !errors.Is(err, store.failErr) {
		t.Errorf("expected wrapped store error, got %v", err)
	}
}

func TestCollector_StopFlushes(t *testing.T) {
	store := newMemStore()
	c := NewCollector(WithStore(store), WithPersistInterval(time.Hour))

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	c.RecordAt("cpu", t0, 1)
	if err := c.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	if store.count("cpu") != 1 {
		t.Errorf("expected final flush on stop, got %d stored", store.count("cpu"))
	}
	if !c.HasData("cpu") {
		t.Error("expected buffered data after stop")
	}
}

func TestCollector_Concurrent(t *testing.T) {
	c := NewCollector(WithCapacity(1000), WithStore(newMemStore()))
	var wg sync.WaitGroup
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Record("cpu", float64(id*100+j))
			}
		}(i)
	}

	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_, _ = c.GetRange(ctx, "cpu", timerange.Limits{From: t0, To: time.Now().Add(time.Minute)})
				_ = c.Flush(ctx)
				_, _, _ = c.GetLatest("cpu")
			}
		}()
	}

	wg.Wait()

	if !c.HasData("cpu") {
		t.Error("expected data after concurrent operations")
	}
}

func TestCollector_MetricsWithoutListingStore(t *testing.T) {
	c := NewCollector(WithStore(newMemStore()))
	c.Record("mem", 1)
	c.Record("cpu", 1)

	names, err := c.Metrics(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(names) != 2 || names[0] != "cpu" || names[1] != "mem" {
		t.Errorf("expected [cpu mem], got %v", names)
	}
}

func TestCollector_FlushWritesBackdatedSamples(t *testing.T) {
	store := newMemStore()
	c := NewCollector(WithStore(store))
	ctx := context.Background()

	c.RecordAt("cpu", t0, 1)
	if err := c.Flush(ctx); err != nil {
		t.Fatalf("flush failed: %v", err)
	}

	c.RecordAt("cpu", t0.Add(-time.Hour), 0)
	if c.Pending("cpu") != 1 {
		t.Errorf("expected 1 pending sample, got %d", c.Pending("cpu"))
	}

	points, err := c.GetRange(ctx, "cpu", minutes(-120, 5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertValues(t, Values(points), 0, 1)

	if err := c.Flush(ctx); err != nil {
		t.Fatalf("flush failed: %v", err)
	}
	if store.count("cpu") != 2 {
		t.Errorf("expected 2 stored samples, got %d", store.count("cpu"))
	}
	if c.Pending("cpu") != 0 {
		t.Errorf("expected nothing pending, got %d", c.Pending("cpu"))
	}

	points, err = c.GetRange(ctx, "cpu", minutes(-120, 5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertValues(t, Values(points), 0, 1)
}

func TestCollector_FlushKeepsSamplesPastBufferCapacity(t *testing.T) {
	store := newMemStore()
	c := NewCollector(WithStore(store), WithCapacity(4))

	for i := 0; i < 10; i++ {
		c.RecordAt("cpu", t0.Add(time.Duration(i)*time.Minute), float64(i))
	}
	if err := c.Flush(context.Background()); err != nil {
		t.Fatalf("flush failed: %v", err)
	}
	if store.count("cpu") != 10 {
		t.Errorf("expected 10 stored samples, got %d", store.count("cpu"))
	}
}

func TestCollector_FailedFlushKeepsSamplesPending(t *testing.T) {
	store := newMemStore()
	store.failErr = errors.New("disk full")
	c := NewCollector(WithStore(store))
	ctx := context.Background()

	c.RecordAt("cpu", t0, 1)
	if err := c.Flush(ctx); err == nil {
		t.Fatal("expected flush error")
	}
	if c.Pending("cpu") != 1 {
		t.Errorf("expected sample to stay pending, got %d", c.Pending("cpu"))
	}

	store.failErr = nil
	c.RecordAt("cpu", t0.Add(time.Minute), 2)
	if err := c.Flush(ctx); err != nil {
		t.Fatalf("flush failed: %v", err)
	}
	if store.count("cpu") != 2 {
		t.Errorf("expected 2 stored samples, got %d", store.count("cpu"))
	}
}
