package telemetry

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordReduction(t *testing.T) {
	ok := testutil.ToFloat64(ReductionsTotal.WithLabelValues("fixed", "ok"))
	failed := testutil.ToFloat64(ReductionsTotal.WithLabelValues("fixed", "error"))

	RecordReduction("fixed", 120, time.Millisecond, nil)
	RecordReduction("fixed", 0, 0, errors.New("bad max count"))

	if got := testutil.ToFloat64(ReductionsTotal.WithLabelValues("fixed", "ok")); got != ok+1 {
		t.Errorf("expected %v ok reductions, got %v", ok+1, got)
	}
	if got := testutil.ToFloat64(ReductionsTotal.WithLabelValues("fixed", "error")); got != failed+1 {
		t.Errorf("expected %v failed reductions, got %v", failed+1, got)
	}
}

func TestRecordWindow(t *testing.T) {
	before := testutil.ToFloat64(WindowsTotal.WithLabelValues("rounded", "ok"))
	RecordWindow("rounded", nil)
	if got := testutil.ToFloat64(WindowsTotal.WithLabelValues("rounded", "ok")); got != before+1 {
		t.Errorf("expected %v, got %v", before+1, got)
	}
}
