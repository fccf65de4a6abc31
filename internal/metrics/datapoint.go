// Package metrics holds time-series samples, the in-memory ring buffer that
// keeps the most recent ones, and the Collector that serves history windows.
package metrics

import (
	"math"
	"slices"
	"time"
)

// DataPoint is a single sample: a value observed at an instant.
type DataPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// IsValid reports whether the point can be stored.
// Points with a zero timestamp or an Inf/NaN value are rejected by the buffer
// and the stores; the reducer itself accepts NaN and lets it propagate.
func (dp DataPoint) IsValid() bool {
	if dp.Timestamp.IsZero() {
		return false
	}
	return !math.IsInf(dp.Value, 0) && !math.IsNaN(dp.Value)
}

// NewDataPoint creates a DataPoint stamped with the current time.
func NewDataPoint(value float64) DataPoint {
	return DataPoint{Timestamp: time.Now(), Value: value}
}

// NewDataPointAt creates a DataPoint at timestamp.
func NewDataPointAt(timestamp time.Time, value float64) DataPoint {
	return DataPoint{Timestamp: timestamp, Value: value}
}

// SortByTime sorts points in place by timestamp, keeping the input order of
// equal timestamps.
func SortByTime(points []DataPoint) {
	slices.SortStableFunc(points, func(a, b DataPoint) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
}

// Values extracts the values of points in order.
func Values(points []DataPoint) []float64 {
	if len(points) == 0 {
		return nil
	}
	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.Value
	}
	return values
}
