package output

import (
	"bytes"
	"testing"
	"time"
)

func TestParseColorMode(t *testing.T) {
	tests := []struct {
		in      string
		want    ColorMode
		wantErr bool
	}{
		{"", ColorAuto, false},
		{"auto", ColorAuto, false},
		{"always", ColorAlways, false},
		{"never", ColorNever, false},
		{"sometimes", ColorAuto, true},
	}

	for _, tt := range tests {
		got, err := ParseColorMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseColorMode(%q): expected error=%v, got %v", tt.in, tt.wantErr, err)
		}
		if got != tt.want {
			t.Errorf("ParseColorMode(%q): expected %v, got %v", tt.in, tt.want, got)
		}
	}
}

func TestResolveColors_NoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	if ResolveColors(ColorAuto) {
		t.Error("expected NO_COLOR to disable colors")
	}
	if !ResolveColors(ColorAlways) {
		t.Error("expected always to win over NO_COLOR")
	}
}

func TestPrinter_PlainOutput(t *testing.T) {
	var out, errOut bytes.Buffer
	p := NewPrinter(&out, &errOut, false, false)

	p.Success("imported %d rows", 3)
	p.Warning("skipped %d rows", 1)
	p.Print("result")

	if got := errOut.String(); got != "[OK] imported 3 rows\n[WARN] skipped 1 rows\n" {
		t.Errorf("unexpected stderr %q", got)
	}
	if got := out.String(); got != "result\n" {
		t.Errorf("unexpected stdout %q", got)
	}
}

func TestPrinter_Quiet(t *testing.T) {
	var out, errOut bytes.Buffer
	p := NewPrinter(&out, &errOut, false, true)

	p.Info("hidden")
	p.Success("hidden")
	p.Error("shown")

	if got := errOut.String(); got != "[ERROR] shown\n" {
		t.Errorf("expected only the error, got %q", got)
	}
}

func TestHumanize(t *testing.T) {
	if got := Count(1234567); got != "1,234,567" {
		t.Errorf("expected 1,234,567, got %s", got)
	}
	if got := Bytes(1500); got != "1.5 kB" {
		t.Errorf("expected 1.5 kB, got %s", got)
	}
	if got := Ago(time.Time{}); got != "never" {
		t.Errorf("expected never, got %s", got)
	}
}
