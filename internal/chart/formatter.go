// Package chart maps timestamps to plot coordinates and reduces sample series
// to a bounded number of chart entries.
package chart

import (
	"math"
	"time"

	"github.com/willibrandon/tswindow/internal/timerange"
)

// CoordinateFormatter maps instants to float coordinates measured in whole
// units from an anchor. It is an immutable value: coordinates produced by one
// formatter are meaningless to a formatter with a different anchor or unit.
type CoordinateFormatter struct {
	raw    time.Time // anchor as supplied, before truncation
	anchor time.Time // raw truncated to unit
	unit   timerange.Unit
	millis int64
}

// NewCoordinateFormatter creates a formatter anchored at anchor truncated to unit.
func NewCoordinateFormatter(anchor time.Time, unit timerange.Unit) (CoordinateFormatter, error) {
	millis, err := unit.Millis()
	if err != nil {
		return CoordinateFormatter{}, err
	}
	truncated, err := timerange.Truncate(anchor, unit)
	if err != nil {
		return CoordinateFormatter{}, err
	}
	return CoordinateFormatter{
		raw:    anchor,
		anchor: truncated,
		unit:   unit,
		millis: millis,
	}, nil
}

// WithAnchor returns a formatter for the same unit anchored at anchor.
func (f CoordinateFormatter) WithAnchor(anchor time.Time) (CoordinateFormatter, error) {
	return NewCoordinateFormatter(anchor, f.unit)
}

// WithUnit returns a formatter for unit, re-truncating the original raw anchor.
func (f CoordinateFormatter) WithUnit(unit timerange.Unit) (CoordinateFormatter, error) {
	return NewCoordinateFormatter(f.raw, unit)
}

// Anchor returns the truncated anchor.
func (f CoordinateFormatter) Anchor() time.Time {
	return f.anchor
}

// Unit returns the coordinate unit.
func (f CoordinateFormatter) Unit() timerange.Unit {
	return f.unit
}

// ToCoordinate returns the distance from the anchor to t truncated to the
// formatter's unit, in units. Instants within the same unit share a coordinate.
func (f CoordinateFormatter) ToCoordinate(t time.Time) float64 {
	truncated, err := timerange.Truncate(t, f.unit)
	if err != nil || f.millis == 0 {
		// Only reachable through the zero value.
		return 0
	}
	return float64(truncated.Sub(f.anchor).Milliseconds()) / float64(f.millis)
}

// ToInstant maps a coordinate back to an instant in the anchor's location.
// The sub-unit part of the original instant is lost:
// ToInstant(ToCoordinate(t)) equals Truncate(t, unit).
func (f CoordinateFormatter) ToInstant(c float64) time.Time {
	ms := math.Round(c * float64(f.millis))
	return f.anchor.Add(time.Duration(ms) * time.Millisecond)
}

// Format renders the instant of coordinate c with a Go time layout.
func (f CoordinateFormatter) Format(c float64, layout string) string {
	return f.ToInstant(c).Format(layout)
}

// Label renders coordinate c with the default layout for the unit.
func (f CoordinateFormatter) Label(c float64) string {
	return f.Format(c, DefaultLayout(f.unit))
}

// DefaultLayout returns an axis label layout suited to unit.
func DefaultLayout(unit timerange.Unit) string {
	switch unit {
	case timerange.Millisecond:
		return "15:04:05.000"
	case timerange.Second:
		return "15:04:05"
	case timerange.Minute, timerange.Hour:
		return "15:04"
	case timerange.Day:
		return "2006-01-02"
	case timerange.Month:
		return "Jan 2006"
	case timerange.Year:
		return "2006"
	default:
		return time.RFC3339
	}
}
