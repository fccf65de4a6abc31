package chart

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willibrandon/tswindow/internal/metrics"
	"github.com/willibrandon/tswindow/internal/timerange"
)

var epoch = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

// twentyMinuteSeries returns 13 samples from 00:00 to 04:00, one every 20
// minutes, valued 0 through 12.
func twentyMinuteSeries() []metrics.DataPoint {
	points := make([]metrics.DataPoint, 13)
	for i := range points {
		points[i] = metrics.NewDataPointAt(epoch.Add(time.Duration(i)*20*time.Minute), float64(i))
	}
	return points
}

// minuteSeries returns n samples one minute apart valued by their index.
func minuteSeries(n int) []metrics.DataPoint {
	points := make([]metrics.DataPoint, n)
	for i := range points {
		points[i] = metrics.NewDataPointAt(epoch.Add(time.Duration(i)*time.Minute), float64(i))
	}
	return points
}

func minuteFormatter(t *testing.T) CoordinateFormatter {
	t.Helper()
	f, err := NewCoordinateFormatter(epoch, timerange.Minute)
	require.NoError(t, err)
	return f
}

func limits(from, to time.Duration) timerange.Limits {
	return timerange.Limits{From: epoch.Add(from), To: epoch.Add(to)}
}

func ys(entries []Entry) []float32 {
	out := make([]float32, len(entries))
	for i, e := range entries {
		out[i] = e.Y
	}
	return out
}

func xs(entries []Entry) []float32 {
	out := make([]float32, len(entries))
	for i, e := range entries {
		out[i] = e.X
	}
	return out
}

func TestReduceFixedPartition_TwentyMinuteSeries(t *testing.T) {
	f := minuteFormatter(t)

	got, err := ReduceFixedPartition(twentyMinuteSeries(), 6, f, limits(0, 4*time.Hour))
	require.NoError(t, err)

	assert.Equal(t, []float32{0, 1.5, 4, 7, 10, 12}, ys(got))
	assert.Equal(t, []float32{0, 30, 90, 150, 210, 240}, xs(got))
}

func TestReduceFixedPartition_MissingFirstSample(t *testing.T) {
	f := minuteFormatter(t)

	got, err := ReduceFixedPartition(twentyMinuteSeries()[1:], 6, f, limits(0, 4*time.Hour))
	require.NoError(t, err)

	assert.Equal(t, []float32{1, 2, 4, 7, 10, 12}, ys(got))
}

func TestReduceFixedPartition_MissingLastSample(t *testing.T) {
	f := minuteFormatter(t)
	series := twentyMinuteSeries()

	got, err := ReduceFixedPartition(series[:len(series)-1], 6, f, limits(0, 4*time.Hour))
	require.NoError(t, err)

	assert.Equal(t, []float32{0, 1.5, 4, 7, 10, 0}, ys(got))
	assert.Equal(t, float32(240), got[5].X)
}

func TestReduceFixedPartition_IgnoresOutOfRange(t *testing.T) {
	f := minuteFormatter(t)
	series := append([]metrics.DataPoint{
		metrics.NewDataPointAt(epoch.Add(-time.Hour), 1000),
	}, twentyMinuteSeries()...)
	series = append(series, metrics.NewDataPointAt(epoch.Add(5*time.Hour), 1000))

	got, err := ReduceFixedPartition(series, 6, f, limits(0, 4*time.Hour))
	require.NoError(t, err)

	assert.Equal(t, []float32{0, 1.5, 4, 7, 10, 12}, ys(got))
}

func TestReduceFixedPartition_SmallCounts(t *testing.T) {
	f := minuteFormatter(t)
	r := limits(0, 4*time.Hour)

	one, err := ReduceFixedPartition(twentyMinuteSeries(), 1, f, r)
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, Entry{X: 240, Y: 6}, one[0])

	two, err := ReduceFixedPartition(twentyMinuteSeries(), 2, f, r)
	require.NoError(t, err)
	assert.Equal(t, []Entry{{X: 0, Y: 0}, {X: 240, Y: 12}}, two)
}

func TestReduce_EmptyInputGivesZeros(t *testing.T) {
	f := minuteFormatter(t)
	r := limits(0, 4*time.Hour)

	for _, s := range AllStrategies() {
		t.Run(s.String(), func(t *testing.T) {
			got, err := Reduce(Request{
				MaxCount:  6,
				Strategy:  s,
				Formatter: f,
				Range:     &r,
			})
			require.NoError(t, err)
			require.Len(t, got, 6)
			for i, e := range got {
				assert.Zero(t, e.Y, "entry %d", i)
			}
			assert.Equal(t, float32(0), got[0].X)
		})
	}
}

func TestReduce_EmptyInputWithoutRange(t *testing.T) {
	f := minuteFormatter(t)

	got, err := Reduce(Request{MaxCount: 6, Strategy: MiddlePick, Formatter: f})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReduceMiddlePick(t *testing.T) {
	f := minuteFormatter(t)

	got, err := ReduceMiddlePick(minuteSeries(10), 4, f)
	require.NoError(t, err)

	// buckets [0] [1..4] [5..8] [9]
	assert.Equal(t, []float32{0, 2, 6, 9}, ys(got))
	assert.Equal(t, []float32{0, 2, 6, 9}, xs(got))
}

func TestReduceMiddlePick_SingleBucket(t *testing.T) {
	f := minuteFormatter(t)

	got, err := ReduceMiddlePick(minuteSeries(10), 1, f)
	require.NoError(t, err)
	assert.Equal(t, []Entry{{X: 4, Y: 4}}, got)
}

func TestReduceAverage_HundredTwoSamples(t *testing.T) {
	f := minuteFormatter(t)

	got, err := ReduceAverage(minuteSeries(102), 9, f)
	require.NoError(t, err)
	require.Len(t, got, 9)

	assert.Equal(t, Entry{X: 0, Y: 0}, got[0])
	assert.Equal(t, Entry{X: 101, Y: 101}, got[8])

	// first interior bucket holds samples 1..14
	assert.Equal(t, Entry{X: 1, Y: 7.5}, got[1])
}

func TestReduceAverage_FewerSamplesThanBuckets(t *testing.T) {
	f := minuteFormatter(t)

	got, err := ReduceAverage(minuteSeries(3), 10, f)
	require.NoError(t, err)
	assert.Equal(t, []Entry{{0, 0}, {1, 1}, {2, 2}}, got)
}

func TestReduceAverage_NaNPropagates(t *testing.T) {
	f := minuteFormatter(t)
	series := minuteSeries(10)
	series[3].Value = math.NaN()

	got, err := ReduceAverage(series, 4, f)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(float64(got[1].Y)))
	assert.False(t, math.IsNaN(float64(got[2].Y)))
}

func TestReduceEqualCountPartition(t *testing.T) {
	f := minuteFormatter(t)
	series := minuteSeries(11) // 00:00 .. 00:10
	r := limits(0, 10*time.Minute)

	forward, err := ReduceEqualCountPartition(series, 3, f, r, false)
	require.NoError(t, err)
	assert.Equal(t, []Entry{{X: 0, Y: 1}, {X: 3, Y: 4}, {X: 6, Y: 8}}, forward)

	post, err := ReduceEqualCountPartition(series, 3, f, r, true)
	require.NoError(t, err)
	assert.Equal(t, []Entry{{X: 4, Y: 2}, {X: 7, Y: 6}, {X: 10, Y: 9}}, post)
}

func TestReduceEqualCountPartition_BoundariesAreAveraged(t *testing.T) {
	f := minuteFormatter(t)

	got, err := ReduceEqualCountPartition(twentyMinuteSeries(), 4, f, limits(0, 4*time.Hour), false)
	require.NoError(t, err)

	// first bucket [0, 60) averages 0, 1 and 2 rather than keeping 0
	assert.Equal(t, float32(1), got[0].Y)
	// last bucket [180, 240] averages 9 through 12
	assert.Equal(t, float32(10.5), got[3].Y)
}

func TestReduce_SizeBounds(t *testing.T) {
	f := minuteFormatter(t)
	r := limits(0, 200*time.Minute)

	for _, n := range []int{0, 1, 2, 5, 50, 200} {
		series := minuteSeries(n)
		for _, k := range []int{1, 2, 3, 7, 64} {
			for _, s := range AllStrategies() {
				got, err := Reduce(Request{
					Samples:   series,
					MaxCount:  k,
					Strategy:  s,
					Formatter: f,
					Range:     &r,
				})
				require.NoError(t, err)

				want := k
				if !s.NeedsRange() && n > 0 {
					want = min(k, n)
				}
				assert.Len(t, got, want, "strategy=%s n=%d k=%d", s, n, k)

				if !s.NeedsRange() && n > 0 && k >= 2 {
					assert.Equal(t, float32(0), got[0].Y)
					assert.Equal(t, float32(n-1), got[len(got)-1].Y)
				}
			}
		}
	}
}

func TestReduce_Errors(t *testing.T) {
	f := minuteFormatter(t)
	r := limits(0, time.Hour)

	tests := []struct {
		name string
		req  Request
	}{
		{"zero max count", Request{MaxCount: 0, Strategy: MiddlePick, Formatter: f}},
		{"negative max count", Request{MaxCount: -3, Strategy: FixedPartition, Formatter: f, Range: &r}},
		{"fixed without range", Request{MaxCount: 5, Strategy: FixedPartition, Formatter: f}},
		{"equal without range", Request{MaxCount: 5, Strategy: EqualCountPartition, Formatter: f}},
		{"unknown strategy", Request{MaxCount: 5, Strategy: Strategy(9), Formatter: f, Range: &r}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Reduce(tt.req)
			assert.ErrorIs(t, err, timerange.ErrInvalidArgument)
		})
	}
}

func TestStrategy_ParseAndCycle(t *testing.T) {
	for _, s := range AllStrategies() {
		parsed, err := ParseStrategy(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}

	assert.Equal(t, Average, MiddlePick.Next())
	assert.Equal(t, MiddlePick, EqualCountPartition.Next())

	_, err := ParseStrategy("median")
	assert.ErrorIs(t, err, timerange.ErrInvalidArgument)
}
