// Package timerange resolves chart time windows from a reference instant.
package timerange

import (
	"fmt"
	"strings"
	"time"
)

// Unit is a calendar-like time granularity.
type Unit int

const (
	Millisecond Unit = iota
	Second
	Minute
	Hour
	Day
	Month
	Year
)

const msPerDay = 86_400_000

// Valid reports whether u is one of the supported units.
func (u Unit) Valid() bool {
	return u >= Millisecond && u <= Year
}

// Millis returns the fixed millisecond approximation of one unit.
// Month and Year are approximate (30 and 365 days) and must only be used
// for coordinate scaling, never for calendar arithmetic.
func (u Unit) Millis() (int64, error) {
	switch u {
	case Millisecond:
		return 1, nil
	case Second:
		return 1000, nil
	case Minute:
		return 60_000, nil
	case Hour:
		return 3_600_000, nil
	case Day:
		return msPerDay, nil
	case Month:
		return 30 * msPerDay, nil
	case Year:
		return 365 * msPerDay, nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrInvalidTimeUnit, int(u))
	}
}

// Upper returns the next coarser unit. Year is its own upper unit.
func (u Unit) Upper() (Unit, error) {
	if !u.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidTimeUnit, int(u))
	}
	if u == Year {
		return Year, nil
	}
	return u + 1, nil
}

// Lower returns the next finer unit. Millisecond is its own lower unit.
func (u Unit) Lower() (Unit, error) {
	if !u.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidTimeUnit, int(u))
	}
	if u == Millisecond {
		return Millisecond, nil
	}
	return u - 1, nil
}

// String returns a display label.
func (u Unit) String() string {
	switch u {
	case Millisecond:
		return "millisecond"
	case Second:
		return "second"
	case Minute:
		return "minute"
	case Hour:
		return "hour"
	case Day:
		return "day"
	case Month:
		return "month"
	case Year:
		return "year"
	default:
		return fmt.Sprintf("unit(%d)", int(u))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (u Unit) MarshalText() ([]byte, error) {
	if !u.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTimeUnit, int(u))
	}
	return []byte(u.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (u *Unit) UnmarshalText(text []byte) error {
	parsed, err := ParseUnit(string(text))
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}

// AllUnits returns all units from finest to coarsest.
func AllUnits() []Unit {
	return []Unit{Millisecond, Second, Minute, Hour, Day, Month, Year}
}

// ParseUnit parses a unit name or abbreviation, e.g. "ms", "min", "hours", "mo".
func ParseUnit(s string) (Unit, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if len(name) > 2 {
		name = strings.TrimSuffix(name, "s")
	}
	switch name {
	case "ms", "milli", "millisecond":
		return Millisecond, nil
	case "s", "sec", "second":
		return Second, nil
	case "m", "min", "minute":
		return Minute, nil
	case "h", "hr", "hour":
		return Hour, nil
	case "d", "day":
		return Day, nil
	case "mo", "mon", "month":
		return Month, nil
	case "y", "yr", "year":
		return Year, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeUnit, s)
	}
}

// Truncate zeroes every calendar component of t finer than unit, in t's location.
// Truncating to Minute zeroes seconds and sub-seconds; truncating to Month yields
// midnight on the first day of the month.
func Truncate(t time.Time, unit Unit) (time.Time, error) {
	y, mo, d := t.Date()
	h, mi, s := t.Clock()
	loc := t.Location()

	switch unit {
	case Millisecond:
		return time.Date(y, mo, d, h, mi, s, t.Nanosecond()/1e6*1e6, loc), nil
	case Second:
		return time.Date(y, mo, d, h, mi, s, 0, loc), nil
	case Minute:
		return time.Date(y, mo, d, h, mi, 0, 0, loc), nil
	case Hour:
		return time.Date(y, mo, d, h, 0, 0, 0, loc), nil
	case Day:
		return time.Date(y, mo, d, 0, 0, 0, 0, loc), nil
	case Month:
		return time.Date(y, mo, 1, 0, 0, 0, 0, loc), nil
	case Year:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, loc), nil
	default:
		return time.Time{}, fmt.Errorf("%w: %d", ErrInvalidTimeUnit, int(unit))
	}
}

// AddUnits adds n units to t using calendar rules.
// Sub-day units add absolute durations. Day adds calendar days. Month and Year
// add calendar months and clamp the day to the end of the target month, so
// Jan 31 plus one month is the last day of February.
func AddUnits(t time.Time, unit Unit, n int) (time.Time, error) {
	switch unit {
	case Millisecond:
		return t.Add(time.Duration(n) * time.Millisecond), nil
	case Second:
		return t.Add(time.Duration(n) * time.Second), nil
	case Minute:
		return t.Add(time.Duration(n) * time.Minute), nil
	case Hour:
		return t.Add(time.Duration(n) * time.Hour), nil
	case Day:
		return t.AddDate(0, 0, n), nil
	case Month:
		return addMonths(t, n), nil
	case Year:
		return addMonths(t, 12*n), nil
	default:
		return time.Time{}, fmt.Errorf("%w: %d", ErrInvalidTimeUnit, int(unit))
	}
}

func addMonths(t time.Time, n int) time.Time {
	y, mo, d := t.Date()
	h, mi, s := t.Clock()

	// Normalize via the first of the month so time.Date does not roll over.
	first := time.Date(y, mo+time.Month(n), 1, h, mi, s, t.Nanosecond(), t.Location())
	if last := daysIn(first.Year(), first.Month()); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, h, mi, s, t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
