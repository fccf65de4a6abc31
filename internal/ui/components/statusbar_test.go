package components

import (
	"strings"
	"testing"
	"time"

	"github.com/willibrandon/tswindow/internal/timerange"
)

func TestStatusBar_View(t *testing.T) {
	s := NewStatusBar("sqlite")
	from := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	s.SetWindow(timerange.Limits{From: from, To: from.Add(time.Hour)}, -2, 12345)
	s.SetTimestamp(from)
	s.SetDateFormat("15:04")

	view := s.View()
	for _, want := range []string{"sqlite", "00:00 → 01:00", "offset -2", "12,345 samples"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected %q in %q", want, view)
		}
	}
	if strings.Contains(view, "fetch") {
		t.Error("expected no latency before the first fetch")
	}
}

func TestStatusBar_Latency(t *testing.T) {
	s := NewStatusBar("postgres")
	if s.Latency() != 0 {
		t.Errorf("expected zero latency, got %v", s.Latency())
	}

	s.ObserveFetch(20 * time.Millisecond)
	if got := s.Latency(); got != 20*time.Millisecond {
		t.Errorf("expected first sample to seed latency, got %v", got)
	}

	s.ObserveFetch(40 * time.Millisecond)
	got := s.Latency()
	if got <= 20*time.Millisecond || got >= 40*time.Millisecond {
		t.Errorf("expected smoothed latency between samples, got %v", got)
	}
}
