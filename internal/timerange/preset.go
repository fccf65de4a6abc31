package timerange

import (
	"fmt"
	"strings"
)

// Preset is a named chart range, e.g. "last 24 hours".
type Preset int

const (
	PresetLast1h Preset = iota
	PresetLast24h
	PresetLast7d
	PresetLast30d
	PresetLast12mo
)

// Unit returns the window unit for the preset.
func (p Preset) Unit() Unit {
	switch p {
	case PresetLast1h:
		return Minute
	case PresetLast24h:
		return Hour
	case PresetLast7d, PresetLast30d:
		return Day
	case PresetLast12mo:
		return Month
	default:
		return Hour
	}
}

// Qty returns how many units the preset spans.
func (p Preset) Qty() int {
	switch p {
	case PresetLast1h:
		return 60
	case PresetLast24h:
		return 24
	case PresetLast7d:
		return 7
	case PresetLast30d:
		return 30
	case PresetLast12mo:
		return 12
	default:
		return 24
	}
}

// MaxCount returns the suggested number of chart points.
// Short ranges keep one point per unit, long ranges are capped.
func (p Preset) MaxCount() int {
	switch p {
	case PresetLast1h:
		return 60
	case PresetLast24h:
		return 25
	case PresetLast7d:
		return 8
	case PresetLast30d:
		return 31
	case PresetLast12mo:
		return 13
	default:
		return 25
	}
}

// String returns a display label.
func (p Preset) String() string {
	switch p {
	case PresetLast1h:
		return "1h"
	case PresetLast24h:
		return "24h"
	case PresetLast7d:
		return "7d"
	case PresetLast30d:
		return "30d"
	case PresetLast12mo:
		return "12mo"
	default:
		return "24h"
	}
}

// Next cycles to the next preset.
func (p Preset) Next() Preset {
	if p >= PresetLast12mo || p < PresetLast1h {
		return PresetLast1h
	}
	return p + 1
}

// ParsePreset parses a preset label such as "24h" or "7d".
func ParsePreset(s string) (Preset, error) {
	label := strings.ToLower(strings.TrimSpace(s))
	for _, p := range AllPresets() {
		if p.String() == label {
			return p, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown preset %q", ErrInvalidArgument, s)
}

// AllPresets returns all presets in order.
func AllPresets() []Preset {
	return []Preset{
		PresetLast1h,
		PresetLast24h,
		PresetLast7d,
		PresetLast30d,
		PresetLast12mo,
	}
}
