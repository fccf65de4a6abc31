package components

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestRenderSparkline_Empty(t *testing.T) {
	got := RenderSparkline(nil, 5, "")
	if got != "─────" {
		t.Errorf("expected rule, got %q", got)
	}
}

func TestRenderSparkline_ScalesToBlocks(t *testing.T) {
	got := RenderSparkline([]float64{0, 7}, 10, "")
	if got != "▁█" {
		t.Errorf("expected ▁█, got %q", got)
	}
}

func TestRenderSparkline_Resamples(t *testing.T) {
	values := make([]float64, 100)
	for i := range values {
		values[i] = float64(i)
	}

	got := RenderSparkline(values, 10, "")
	if n := utf8.RuneCountInString(got); n != 10 {
		t.Errorf("expected 10 columns, got %d", n)
	}
	// bucket means run from 4.5 to 94.5 of a 0..99 range
	if !strings.HasPrefix(got, "▁") || !strings.HasSuffix(got, "▇") {
		t.Errorf("expected rising sparkline, got %q", got)
	}
}

func TestResample_AveragesBuckets(t *testing.T) {
	got := resample([]float64{1, 3, 5, 7}, 2)
	if len(got) != 2 || got[0] != 2 || got[1] != 6 {
		t.Errorf("expected [2 6], got %v", got)
	}
}

func TestGetTrend(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   Trend
	}{
		{"single", []float64{5}, TrendStable},
		{"rising", []float64{1, 1, 1, 10, 10, 10}, TrendUp},
		{"falling", []float64{10, 10, 10, 1, 1, 1}, TrendDown},
		{"flat", []float64{100, 101, 100, 102, 101, 105}, TrendStable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetTrend(tt.values); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}
