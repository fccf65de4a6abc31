package timerange

import "errors"

var (
	// ErrInvalidTimeUnit is returned for a Unit outside the supported enumeration.
	ErrInvalidTimeUnit = errors.New("invalid time unit")

	// ErrInvalidArgument is returned when a caller breaks an argument contract,
	// e.g. a negative quantity or a max count below one.
	ErrInvalidArgument = errors.New("invalid argument")
)
