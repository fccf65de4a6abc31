package chart

import (
	"fmt"
	"strings"

	"github.com/willibrandon/tswindow/internal/timerange"
)

// Strategy selects a reduction algorithm.
type Strategy int

const (
	// MiddlePick keeps the sample nearest the middle of each index bucket.
	MiddlePick Strategy = iota
	// Average keeps the mean of each index bucket.
	Average
	// FixedPartition averages equal-duration partitions of the range and
	// always reports the range's start and end.
	FixedPartition
	// EqualCountPartition averages count equal-duration buckets anchored at
	// either end of the range.
	EqualCountPartition
)

// String returns the strategy name.
func (s Strategy) String() string {
	switch s {
	case MiddlePick:
		return "middle"
	case Average:
		return "average"
	case FixedPartition:
		return "fixed"
	case EqualCountPartition:
		return "equal"
	default:
		return fmt.Sprintf("strategy(%d)", int(s))
	}
}

// NeedsRange reports whether the strategy partitions by time and so requires
// the window the samples were fetched for.
func (s Strategy) NeedsRange() bool {
	return s == FixedPartition || s == EqualCountPartition
}

// Next cycles to the next strategy.
func (s Strategy) Next() Strategy {
	if s >= EqualCountPartition || s < MiddlePick {
		return MiddlePick
	}
	return s + 1
}

// ParseStrategy parses a strategy name.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "middle", "middle-pick", "middle_pick":
		return MiddlePick, nil
	case "average", "avg":
		return Average, nil
	case "fixed", "fixed-partition", "fixed_partition":
		return FixedPartition, nil
	case "equal", "equal-count", "equal_count", "equal-count-partition":
		return EqualCountPartition, nil
	default:
		return 0, fmt.Errorf("%w: unknown strategy %q", timerange.ErrInvalidArgument, name)
	}
}

// AllStrategies returns all strategies in order.
func AllStrategies() []Strategy {
	return []Strategy{MiddlePick, Average, FixedPartition, EqualCountPartition}
}
