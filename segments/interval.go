// Package segments implements the interval algebra used to describe
// data-quality flags: half-open time intervals, canonical interval sets,
// and flags built from an active and a known interval set.
package segments

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// Sentinel errors for conditions callers may need to handle differently.
var (
	// ErrInvalidInterval indicates an interval whose start is after its end,
	// or whose endpoints are not numbers.
	ErrInvalidInterval = errors.New("segments: invalid interval")

	// ErrMalformedEncoding indicates binary flag data that could not be decoded.
	ErrMalformedEncoding = errors.New("segments: malformed encoding")
)

// Interval is the half-open time range [Start, End).
type Interval struct {
	Start float64
	End   float64
}

// NewInterval returns the interval [start, end). Endpoints are never swapped:
// start > end is an error.
func NewInterval(start, end float64) (Interval, error) {
	if math.IsNaN(start) || math.IsNaN(end) {
		return Interval{}, fmt.Errorf("%w: NaN endpoint in [%v, %v)", ErrInvalidInterval, start, end)
	}
	if start > end {
		return Interval{}, fmt.Errorf("%w: start %v is after end %v", ErrInvalidInterval, start, end)
	}
	return Interval{Start: start, End: end}, nil
}

// Duration returns End - Start.
func (i Interval) Duration() float64 {
	return i.End - i.Start
}

// Contains reports whether Start <= t < End.
func (i Interval) Contains(t float64) bool {
	return i.Start <= t && t < i.End
}

// Overlaps reports whether the two intervals share any time.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start < o.End && o.Start < i.End
}

func (i Interval) String() string {
	return "[" + formatFloat(i.Start) + ", " + formatFloat(i.End) + ")"
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
