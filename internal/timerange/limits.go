package timerange

import (
	"fmt"
	"time"
)

// Limits is a resolved time window. It is half-open, [From, To), when used
// for history queries, and From is never after To.
type Limits struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// NewLimits creates Limits, rejecting a window whose From is after To.
func NewLimits(from, to time.Time) (Limits, error) {
	if from.After(to) {
		return Limits{}, fmt.Errorf("%w: from %s is after to %s",
			ErrInvalidArgument, from.Format(time.RFC3339), to.Format(time.RFC3339))
	}
	return Limits{From: from, To: to}, nil
}

// Duration returns the length of the window.
func (l Limits) Duration() time.Duration {
	return l.To.Sub(l.From)
}

// Contains reports whether t lies in [From, To).
func (l Limits) Contains(t time.Time) bool {
	return !t.Before(l.From) && t.Before(l.To)
}

// IsEmpty returns true for a zero-length window.
func (l Limits) IsEmpty() bool {
	return !l.To.After(l.From)
}

// String formats the window as "[from, to)".
func (l Limits) String() string {
	return fmt.Sprintf("[%s, %s)", l.From.Format(time.RFC3339), l.To.Format(time.RFC3339))
}
