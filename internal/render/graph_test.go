package render

import (
	"strings"
	"testing"
	"time"

	"github.com/willibrandon/tswindow/internal/chart"
	"github.com/willibrandon/tswindow/internal/timerange"
)

func hourFormatter(t *testing.T) chart.CoordinateFormatter {
	t.Helper()
	f, err := chart.NewCoordinateFormatter(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), timerange.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return f
}

func TestGraph_Empty(t *testing.T) {
	opts := DefaultOptions()
	opts.Caption = "cpu"
	if got := Graph(nil, hourFormatter(t), opts); got != "cpu: no data" {
		t.Errorf("expected placeholder, got %q", got)
	}
}

func TestGraph_PlotsWithCaptionAndAxis(t *testing.T) {
	entries := []chart.Entry{{X: 0, Y: 1}, {X: 6, Y: 4}, {X: 12, Y: 2}, {X: 18, Y: 8}, {X: 23, Y: 3}}
	opts := DefaultOptions()
	opts.Caption = "cpu (24h, average)"
	opts.Height = 5

	out := Graph(entries, hourFormatter(t), opts)
	if !strings.Contains(out, "cpu (24h, average)") {
		t.Errorf("expected caption in output:\n%s", out)
	}

	lines := strings.Split(out, "\n")
	axis := lines[len(lines)-1]
	if !strings.HasPrefix(axis, "00:00") || !strings.HasSuffix(axis, "23:00") {
		t.Errorf("expected axis from 00:00 to 23:00, got %q", axis)
	}
	if !strings.Contains(axis, "12:00") {
		t.Errorf("expected middle label 12:00, got %q", axis)
	}
}

func TestGraph_SingleEntry(t *testing.T) {
	out := Graph([]chart.Entry{{X: 3, Y: 7}}, hourFormatter(t), DefaultOptions())
	if !strings.HasSuffix(out, "03:00") {
		t.Errorf("expected single label, got %q", out)
	}
}

func TestAxisLabels_DropsOverlappingMiddle(t *testing.T) {
	entries := []chart.Entry{{X: 0}, {X: 1}, {X: 2}}
	got := AxisLabels(entries, hourFormatter(t), 12)
	if got != "00:00  02:00" {
		t.Errorf("expected %q, got %q", "00:00  02:00", got)
	}
}

func TestTable(t *testing.T) {
	entries := []chart.Entry{{X: 1, Y: 1.5}, {X: 2, Y: -2}}
	got := Table(entries, hourFormatter(t), "")

	expected := "01:00        1.5000\n02:00       -2.0000\n"
	if got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}

func TestLineWidth_IgnoresANSI(t *testing.T) {
	if got := lineWidth("\x1b[32mabc\x1b[0m\nab"); got != 3 {
		t.Errorf("expected 3, got %d", got)
	}
}
