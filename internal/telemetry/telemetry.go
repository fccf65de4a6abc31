// Package telemetry exports Prometheus metrics about window resolution,
// history fetches and reductions.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tswindow"

var (
	// WindowsTotal counts resolved windows.
	WindowsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "windows_total",
			Help:      "Total number of resolved time windows",
		},
		[]string{"algorithm", "status"},
	)

	// ReductionsTotal counts reductions.
	ReductionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reductions_total",
			Help:      "Total number of reductions",
		},
		[]string{"strategy", "status"},
	)

	// ReductionInputSize observes how many samples each reduction received.
	ReductionInputSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reduction_input_samples",
			Help:      "Distribution of reduction input sizes",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		},
		[]string{"strategy"},
	)

	// ReductionDuration measures reduction time.
	ReductionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reduction_duration_seconds",
			Help:      "Duration of reductions in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		},
		[]string{"strategy"},
	)

	// FetchDuration measures history fetches.
	FetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "history_fetch_duration_seconds",
			Help:      "Duration of history fetches in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"source", "status"},
	)
)

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// RecordWindow records a window resolution.
func RecordWindow(algorithm string, err error) {
	WindowsTotal.WithLabelValues(algorithm, status(err)).Inc()
}

// RecordReduction records a reduction of inputSize samples.
func RecordReduction(strategy string, inputSize int, d time.Duration, err error) {
	ReductionsTotal.WithLabelValues(strategy, status(err)).Inc()
	if err != nil {
		return
	}
	ReductionInputSize.WithLabelValues(strategy).Observe(float64(inputSize))
	ReductionDuration.WithLabelValues(strategy).Observe(d.Seconds())
}

// RecordFetch records a history fetch from source.
func RecordFetch(source string, d time.Duration, err error) {
	FetchDuration.WithLabelValues(source, status(err)).Observe(d.Seconds())
}
