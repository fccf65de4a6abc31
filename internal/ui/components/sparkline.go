// Package components provides reusable UI components.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// blocks run from lowest to highest.
var blocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// RenderSparkline renders values as a single line of Unicode blocks, width
// columns wide. Longer input is averaged down; empty input renders a rule.
func RenderSparkline(values []float64, width int, color lipgloss.Color) string {
	if len(values) == 0 || width <= 0 {
		return strings.Repeat("─", max(width, 0))
	}

	minVal, maxVal := values[0], values[0]
	for _, v := range values {
		minVal = min(minVal, v)
		maxVal = max(maxVal, v)
	}
	valueRange := maxVal - minVal
	if valueRange == 0 {
		valueRange = 1
	}

	var sb strings.Builder
	for _, v := range resample(values, width) {
		idx := int((v - minVal) / valueRange * float64(len(blocks)-1))
		sb.WriteRune(blocks[min(max(idx, 0), len(blocks)-1)])
	}

	if color == "" {
		return sb.String()
	}
	return lipgloss.NewStyle().Foreground(color).Render(sb.String())
}

// resample averages values down to at most width buckets.
func resample(values []float64, width int) []float64 {
	if len(values) <= width {
		return values
	}

	result := make([]float64, width)
	bucket := float64(len(values)) / float64(width)
	for i := range result {
		start := int(float64(i) * bucket)
		end := min(int(float64(i+1)*bucket), len(values))
		start = max(min(start, end-1), 0)

		sum := 0.0
		for _, v := range values[start:end] {
			sum += v
		}
		result[i] = sum / float64(end-start)
	}
	return result
}

// Trend indicates the overall direction of a series.
type Trend int

const (
	TrendStable Trend = iota
	TrendUp
	TrendDown
)

// GetTrend compares the mean of the first and last thirds of values. A
// change under 10% of the first third's mean, or under 1, is stable.
func GetTrend(values []float64) Trend {
	if len(values) < 2 {
		return TrendStable
	}

	third := max(len(values)/3, 1)
	var firstSum, lastSum float64
	for _, v := range values[:third] {
		firstSum += v
	}
	for _, v := range values[len(values)-third:] {
		lastSum += v
	}
	firstAvg := firstSum / float64(third)
	lastAvg := lastSum / float64(third)

	diff := lastAvg - firstAvg
	threshold := max(firstAvg*0.1, 1)
	switch {
	case diff > threshold:
		return TrendUp
	case diff < -threshold:
		return TrendDown
	default:
		return TrendStable
	}
}

// String returns a Unicode arrow for the trend.
func (t Trend) String() string {
	switch t {
	case TrendUp:
		return "↑"
	case TrendDown:
		return "↓"
	default:
		return "→"
	}
}
