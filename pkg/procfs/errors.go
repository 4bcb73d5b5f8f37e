package procfs

import (
	"errors"
	"strconv"
)

var (
	// ErrUnavailable means the source could not be opened or read, typically because the
	// process exited. Accessors return their documented default alongside it.
	ErrUnavailable = errors.New("source unavailable")

	// ErrMalformed means the source was read but held fewer tokens than its schema requires.
	ErrMalformed = errors.New("malformed content")

	// ErrUndefined means a derived value has no meaning for the sampled input,
	// e.g. a utilization ratio over a zero total.
	ErrUndefined = errors.New("value undefined")
)

// ParseUint converts tok, yielding 0 for non-numeric input.
func ParseUint(tok string) uint64 {
	v, err := strconv.ParseUint(tok, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// ParseFloat converts tok, yielding 0 for non-numeric input.
func ParseFloat(tok string) float64 {
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0
	}
	return v
}
