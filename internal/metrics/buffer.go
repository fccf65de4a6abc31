package metrics

import (
	"sync"
	"time"

	"github.com/willibrandon/tswindow/internal/timerange"
)

// DefaultBufferCapacity is the default number of samples kept per series.
const DefaultBufferCapacity = 10000

// CircularBuffer is a fixed-size, mutex-guarded ring of DataPoints.
// Pushing into a full buffer evicts the oldest point.
type CircularBuffer struct {
	data     []DataPoint
	capacity int
	head     int // next write position
	size     int
	mu       sync.RWMutex
}

// NewCircularBuffer creates a buffer holding up to capacity points.
func NewCircularBuffer(capacity int) *CircularBuffer {
	if capacity <= 0 {
		capacity = DefaultBufferCapacity
	}
	return &CircularBuffer{
		data:     make([]DataPoint, capacity),
		capacity: capacity,
	}
}

// Push appends dp, dropping invalid points.
func (b *CircularBuffer) Push(dp DataPoint) {
	if !dp.IsValid() {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.data[b.head] = dp
	b.head = (b.head + 1) % b.capacity
	if b.size < b.capacity {
		b.size++
	}
}

// oldest returns the ring index of the oldest point. Caller holds mu.
func (b *CircularBuffer) oldest() int {
	return (b.head - b.size + b.capacity) % b.capacity
}

// collect walks the buffer oldest first and keeps points accepted by keep.
func (b *CircularBuffer) collect(keep func(DataPoint) bool) []DataPoint {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var result []DataPoint
	start := b.oldest()
	for i := 0; i < b.size; i++ {
		dp := b.data[(start+i)%b.capacity]
		if keep(dp) {
			result = append(result, dp)
		}
	}
	return result
}

// GetRecent returns the n most recent points, oldest first.
func (b *CircularBuffer) GetRecent(n int) []DataPoint {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if n <= 0 || b.size == 0 {
		return nil
	}
	n = min(n, b.size)

	result := make([]DataPoint, n)
	start := (b.head - n + b.capacity) % b.capacity
	for i := range result {
		result[i] = b.data[(start+i)%b.capacity]
	}
	return result
}

// GetSince returns the points at or after since, oldest first.
func (b *CircularBuffer) GetSince(since time.Time) []DataPoint {
	return b.collect(func(dp DataPoint) bool {
		return !dp.Timestamp.Before(since)
	})
}

// GetRange returns the points inside the half-open window [From, To), in
// insertion order.
func (b *CircularBuffer) GetRange(limits timerange.Limits) []DataPoint {
	return b.collect(func(dp DataPoint) bool {
		return limits.Contains(dp.Timestamp)
	})
}

// GetValues returns every value in insertion order.
func (b *CircularBuffer) GetValues() []float64 {
	return Values(b.collect(func(DataPoint) bool { return true }))
}

// Len returns the number of points held.
func (b *CircularBuffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.size
}

// Cap returns the buffer capacity.
func (b *CircularBuffer) Cap() int {
	return b.capacity
}

// Clear drops every point.
func (b *CircularBuffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.head = 0
	b.size = 0
	clear(b.data)
}

// Latest returns the most recently pushed point.
func (b *CircularBuffer) Latest() (DataPoint, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.size == 0 {
		return DataPoint{}, false
	}
	return b.data[(b.head-1+b.capacity)%b.capacity], true
}

// IsEmpty reports whether the buffer holds no points.
func (b *CircularBuffer) IsEmpty() bool {
	return b.Len() == 0
}

// IsFull reports whether the next push evicts a point.
func (b *CircularBuffer) IsFull() bool {
	return b.Len() == b.capacity
}
