package timerange

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func at(hour, min, sec int) time.Time {
	return time.Date(2020, time.January, 1, hour, min, sec, 0, time.UTC)
}

func TestCalculateRounded_PreviousHour(t *testing.T) {
	got, err := CalculateRounded(at(13, 2, 3), Hour, -1, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !got.From.Equal(at(12, 0, 0)) {
		t.Errorf("expected from 12:00, got %s", got.From)
	}
	if !got.To.Equal(at(13, 0, 0)) {
		t.Errorf("expected to 13:00, got %s", got.To)
	}
}

func TestCalculate_LiveWindowIsUnrounded(t *testing.T) {
	ref := time.Date(2020, time.March, 31, 13, 2, 3, 500, time.UTC)

	for _, alg := range []Algorithm{Rounded, UpperRounded} {
		t.Run(alg.String(), func(t *testing.T) {
			got, err := Calculate(alg, ref, Hour, 0, 3)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.To.Equal(ref) {
				t.Errorf("expected to %s, got %s", ref, got.To)
			}
			if want := ref.Add(-3 * time.Hour); !got.From.Equal(want) {
				t.Errorf("expected from %s, got %s", want, got.From)
			}
		})
	}

	// Calendar months, not 30-day blocks.
	got, err := CalculateRounded(ref, Month, 0, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2020, time.February, 29, 13, 2, 3, 500, time.UTC)
	if !got.From.Equal(want) {
		t.Errorf("expected from %s, got %s", want, got.From)
	}
}

func TestCalculateRounded_Blocks(t *testing.T) {
	ref := at(13, 2, 3)

	tests := []struct {
		offset int
		from   time.Time
		to     time.Time
	}{
		{1, at(13, 0, 0), at(16, 0, 0)},
		{2, at(16, 0, 0), at(19, 0, 0)},
		{-1, at(10, 0, 0), at(13, 0, 0)},
		{-2, at(7, 0, 0), at(10, 0, 0)},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("offset=%d", tt.offset), func(t *testing.T) {
			got, err := CalculateRounded(ref, Hour, tt.offset, 3)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.From.Equal(tt.from) || !got.To.Equal(tt.to) {
				t.Errorf("expected [%s, %s], got %s", tt.from, tt.to, got)
			}
		})
	}
}

func TestCalculateRounded_Continuity(t *testing.T) {
	ref := time.Date(2021, time.July, 19, 17, 41, 9, 0, time.UTC)

	for _, unit := range AllUnits() {
		for _, qty := range []int{1, 3, 7} {
			t.Run(fmt.Sprintf("%s/%d", unit, qty), func(t *testing.T) {
				for offset := -6; offset < 6; offset++ {
					if offset == 0 || offset == -1 {
						continue
					}
					cur, err := CalculateRounded(ref, unit, offset, qty)
					if err != nil {
						t.Fatalf("offset %d: %v", offset, err)
					}
					next, err := CalculateRounded(ref, unit, offset+1, qty)
					if err != nil {
						t.Fatalf("offset %d: %v", offset+1, err)
					}
					if !cur.To.Equal(next.From) {
						t.Errorf("offset %d: to %s does not meet next from %s", offset, cur.To, next.From)
					}
				}

				// -1 and +1 meet at the truncated reference.
				prev, _ := CalculateRounded(ref, unit, -1, qty)
				next, _ := CalculateRounded(ref, unit, 1, qty)
				if !prev.To.Equal(next.From) {
					t.Errorf("-1 to %s does not meet +1 from %s", prev.To, next.From)
				}
			})
		}
	}
}

func TestCalculate_Monotonic(t *testing.T) {
	ref := time.Date(2024, time.February, 29, 23, 59, 59, 999_000_000, time.UTC)

	for _, alg := range []Algorithm{Rounded, UpperRounded} {
		for _, unit := range AllUnits() {
			for qty := 0; qty <= 5; qty++ {
				for offset := -3; offset <= 3; offset++ {
					got, err := Calculate(alg, ref, unit, offset, qty)
					if err != nil {
						t.Fatalf("%s %s qty=%d offset=%d: %v", alg, unit, qty, offset, err)
					}
					if got.From.After(got.To) {
						t.Errorf("%s %s qty=%d offset=%d: from after to: %s", alg, unit, qty, offset, got)
					}
				}
			}
		}
	}
}

func TestCalculateUpperRounded_AlignsToUpperUnit(t *testing.T) {
	ref := at(13, 7, 30)

	tests := []struct {
		offset int
		from   time.Time
		to     time.Time
	}{
		{1, at(13, 5, 0), at(13, 10, 0)},
		{2, at(13, 10, 0), at(13, 15, 0)},
		{-1, at(13, 0, 0), at(13, 5, 0)},
		{-2, at(12, 55, 0), at(13, 0, 0)},
		// shift (3-1)*5 = 10 minutes
		{3, at(13, 15, 0), at(13, 20, 0)},
		// shift -3*5 = -15 minutes
		{-3, at(12, 50, 0), at(12, 55, 0)},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("offset=%d", tt.offset), func(t *testing.T) {
			got, err := CalculateUpperRounded(ref, Minute, tt.offset, 5)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.From.Equal(tt.from) || !got.To.Equal(tt.to) {
				t.Errorf("expected [%s, %s], got %s", tt.from, tt.to, got)
			}
		})
	}
}

func TestCalculateUpperRounded_UnevenQtyLeavesGap(t *testing.T) {
	ref := at(13, 7, 30)

	prev, err := CalculateUpperRounded(ref, Minute, -2, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cur, err := CalculateUpperRounded(ref, Minute, -1, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !prev.From.Equal(at(12, 49, 0)) || !prev.To.Equal(at(12, 56, 0)) {
		t.Errorf("expected [12:49, 12:56], got %s", prev)
	}
	if !cur.From.Equal(at(13, 0, 0)) || !cur.To.Equal(at(13, 7, 0)) {
		t.Errorf("expected [13:00, 13:07], got %s", cur)
	}
}

func TestCalculateUpperRounded_Days(t *testing.T) {
	ref := time.Date(2021, time.March, 17, 10, 0, 0, 0, time.UTC)

	got, err := CalculateUpperRounded(ref, Day, 1, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	from := time.Date(2021, time.March, 15, 0, 0, 0, 0, time.UTC)
	to := time.Date(2021, time.March, 22, 0, 0, 0, 0, time.UTC)
	if !got.From.Equal(from) || !got.To.Equal(to) {
		t.Errorf("expected [%s, %s], got %s", from, to, got)
	}
}

func TestCalculate_ZeroQty(t *testing.T) {
	ref := at(13, 2, 3)

	live, err := CalculateRounded(ref, Hour, 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !live.From.Equal(ref) || !live.To.Equal(ref) {
		t.Errorf("expected [ref, ref], got %s", live)
	}

	rounded, err := CalculateRounded(ref, Hour, 2, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rounded.From.Equal(at(13, 0, 0)) || !rounded.To.Equal(at(13, 0, 0)) {
		t.Errorf("expected [13:00, 13:00], got %s", rounded)
	}

	upper, err := CalculateUpperRounded(ref, Hour, -3, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !upper.From.Equal(at(13, 0, 0)) || !upper.IsEmpty() {
		t.Errorf("expected [13:00, 13:00], got %s", upper)
	}
}

func TestCalculate_Errors(t *testing.T) {
	ref := at(13, 2, 3)

	for _, alg := range []Algorithm{Rounded, UpperRounded} {
		if _, err := Calculate(alg, ref, Unit(99), 1, 1); !errors.Is(err, ErrInvalidTimeUnit) {
			t.Errorf("%s: expected ErrInvalidTimeUnit, got %v", alg, err)
		}
		if _, err := Calculate(alg, ref, Hour, 1, -1); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("%s: expected ErrInvalidArgument, got %v", alg, err)
		}
	}

	if _, err := Calculate(Algorithm(7), ref, Hour, 1, 1); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for unknown algorithm, got %v", err)
	}
}

func TestParseAlgorithm(t *testing.T) {
	tests := map[string]Algorithm{
		"":        UpperRounded,
		"upper":   UpperRounded,
		"Rounded": Rounded,
	}
	for input, want := range tests {
		got, err := ParseAlgorithm(input)
		if err != nil {
			t.Fatalf("ParseAlgorithm(%q): %v", input, err)
		}
		if got != want {
			t.Errorf("ParseAlgorithm(%q): expected %s, got %s", input, want, got)
		}
	}

	if _, err := ParseAlgorithm("ceil"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestLimits(t *testing.T) {
	l, err := NewLimits(at(12, 0, 0), at(13, 0, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if l.Duration() != time.Hour {
		t.Errorf("expected 1h, got %v", l.Duration())
	}
	if !l.Contains(at(12, 0, 0)) {
		t.Error("expected from to be contained")
	}
	if l.Contains(at(13, 0, 0)) {
		t.Error("expected to to be excluded")
	}

	if _, err := NewLimits(at(13, 0, 0), at(12, 0, 0)); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}
