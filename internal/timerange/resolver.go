package timerange

import (
	"fmt"
	"strings"
	"time"
)

// Algorithm selects how non-zero offsets are aligned.
type Algorithm int

const (
	// UpperRounded aligns windows to multiples of qty inside the upper unit.
	UpperRounded Algorithm = iota
	// Rounded aligns windows to unit boundaries relative to the reference.
	Rounded
)

// String returns the algorithm name.
func (a Algorithm) String() string {
	switch a {
	case UpperRounded:
		return "upper"
	case Rounded:
		return "rounded"
	default:
		return fmt.Sprintf("algorithm(%d)", int(a))
	}
}

// ParseAlgorithm parses "upper" or "rounded". An empty string selects UpperRounded.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "upper", "upper_rounded", "upper-rounded":
		return UpperRounded, nil
	case "rounded", "round":
		return Rounded, nil
	default:
		return 0, fmt.Errorf("%w: unknown algorithm %q", ErrInvalidArgument, s)
	}
}

// Calculate resolves a window of qty units shifted by offset windows from ref.
func Calculate(alg Algorithm, ref time.Time, unit Unit, offset, qty int) (Limits, error) {
	switch alg {
	case UpperRounded:
		return CalculateUpperRounded(ref, unit, offset, qty)
	case Rounded:
		return CalculateRounded(ref, unit, offset, qty)
	default:
		return Limits{}, fmt.Errorf("%w: unknown algorithm %d", ErrInvalidArgument, int(alg))
	}
}

// CalculateRounded resolves a window aligned to unit boundaries.
//
// Offset 0 is the live window ending at ref, unrounded. Offset -1 is the last
// complete qty-unit window before the unit containing ref, offset 1 the window
// starting at it; consecutive offsets abut exactly.
func CalculateRounded(ref time.Time, unit Unit, offset, qty int) (Limits, error) {
	if err := checkArgs(unit, qty); err != nil {
		return Limits{}, err
	}
	if offset == 0 {
		return liveWindow(ref, unit, qty)
	}

	base, err := Truncate(ref, unit)
	if err != nil {
		return Limits{}, err
	}

	start, end := blockBounds(offset, qty)
	from, err := AddUnits(base, unit, start)
	if err != nil {
		return Limits{}, err
	}
	to, err := AddUnits(base, unit, end)
	if err != nil {
		return Limits{}, err
	}
	return Limits{From: from, To: to}, nil
}

// CalculateUpperRounded resolves a window aligned to multiples of qty units
// counted from the start of the enclosing upper unit, e.g. 5-minute windows at
// :00, :05, :10 of each hour. When qty does not divide the upper unit's span,
// windows around the upper unit's boundary may overlap or leave gaps.
//
// For a non-zero offset, ref is first shifted by (offset-1)*qty units when
// offset > 0 and by offset*qty units when offset < 0, and the window is the
// aligned block containing the shifted instant. Offsets -1 and +1 therefore
// abut at the block holding ref.
func CalculateUpperRounded(ref time.Time, unit Unit, offset, qty int) (Limits, error) {
	if err := checkArgs(unit, qty); err != nil {
		return Limits{}, err
	}
	if offset == 0 {
		return liveWindow(ref, unit, qty)
	}

	shift, _ := blockBounds(offset, qty)
	shifted, err := AddUnits(ref, unit, shift)
	if err != nil {
		return Limits{}, err
	}

	if qty == 0 {
		t, err := Truncate(shifted, unit)
		if err != nil {
			return Limits{}, err
		}
		return Limits{From: t, To: t}, nil
	}

	upper, err := unit.Upper()
	if err != nil {
		return Limits{}, err
	}
	start, err := Truncate(shifted, upper)
	if err != nil {
		return Limits{}, err
	}

	end, err := AddUnits(start, unit, qty)
	if err != nil {
		return Limits{}, err
	}
	for !end.After(shifted) {
		start = end
		if end, err = AddUnits(start, unit, qty); err != nil {
			return Limits{}, err
		}
	}
	return Limits{From: start, To: end}, nil
}

// liveWindow is the offset 0 window: qty units ending exactly at ref.
func liveWindow(ref time.Time, unit Unit, qty int) (Limits, error) {
	from, err := AddUnits(ref, unit, -qty)
	if err != nil {
		return Limits{}, err
	}
	return Limits{From: from, To: ref}, nil
}

// blockBounds returns the window bounds, in units relative to the truncated
// reference, for a non-zero offset. Offsets are normalized towards zero by one
// so that -1 ends and +1 starts at the reference unit.
func blockBounds(offset, qty int) (start, end int) {
	if offset > 0 {
		o := offset - 1
		return o * qty, o*qty + qty
	}
	o := offset + 1
	return o*qty - qty, o * qty
}

func checkArgs(unit Unit, qty int) error {
	if !unit.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidTimeUnit, int(unit))
	}
	if qty < 0 {
		return fmt.Errorf("%w: qty must be >= 0, got %d", ErrInvalidArgument, qty)
	}
	return nil
}
