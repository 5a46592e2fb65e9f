package segments

import (
	"errors"
	"fmt"
)

// ErrPaddingMismatch indicates a padding list whose length matches neither
// one nor the number of flags it is applied to.
var ErrPaddingMismatch = errors.New("segments: padding count does not match flag count")

// Flag is a named data-quality flag. Active holds the time during which the
// flag marks data as bad; Known holds the time for which the flag's state is
// defined.
//
// Flag operations return new flags and never modify the receiver.
type Flag struct {
	Name   string      `json:"name,omitempty"`
	Active IntervalSet `json:"active"`
	Known  IntervalSet `json:"known"`
}

// NewFlag returns a flag with the given name and interval sets.
func NewFlag(name string, active, known IntervalSet) *Flag {
	return &Flag{Name: name, Active: active, Known: known}
}

// FromActive wraps raw active time into an unnamed flag with no known time.
func FromActive(active IntervalSet) *Flag {
	return &Flag{Active: active}
}

// Pad returns a copy of the flag with every active interval padded by
// before and after (see IntervalSet.Pad). Known time is unchanged.
func (f *Flag) Pad(before, after float64) *Flag {
	return &Flag{Name: f.Name, Active: f.Active.Pad(before, after), Known: f.Known}
}

// MinDuration returns a copy of the flag without active intervals shorter
// than d.
func (f *Flag) MinDuration(d float64) *Flag {
	return &Flag{Name: f.Name, Active: f.Active.MinDuration(d), Known: f.Known}
}

// Restrict returns a copy of the flag with both active and known time
// limited to span.
func (f *Flag) Restrict(span IntervalSet) *Flag {
	return &Flag{Name: f.Name, Active: f.Active.Intersect(span), Known: f.Known.Intersect(span)}
}

// Equal reports whether both flags have the same name and interval sets.
func (f *Flag) Equal(o *Flag) bool {
	if f == nil || o == nil {
		return f == o
	}
	return f.Name == o.Name && f.Active.Equal(o.Active) && f.Known.Equal(o.Known)
}

func (f *Flag) String() string {
	if f == nil {
		return "<nil>"
	}
	return f.Name
}

// Padding is the amount of time added before the start and after the end of
// each active interval of a flag.
type Padding struct {
	Before float64 `json:"before"`
	After  float64 `json:"after"`
}

func (p Padding) String() string {
	return "(" + formatFloat(p.Before) + ", " + formatFloat(p.After) + ")"
}

// PadAll pads each flag. An empty paddings list leaves the flags unchanged, a
// single padding applies to every flag, and otherwise there must be exactly
// one padding per flag.
func PadAll(flags []*Flag, paddings []Padding) ([]*Flag, error) {
	switch {
	case len(paddings) == 0:
		return append([]*Flag(nil), flags...), nil
	case len(paddings) == 1:
	case len(paddings) != len(flags):
		return nil, fmt.Errorf("%w: %d paddings for %d flags", ErrPaddingMismatch, len(paddings), len(flags))
	}
	out := make([]*Flag, len(flags))
	for i, f := range flags {
		p := paddings[0]
		if len(paddings) > 1 {
			p = paddings[i]
		}
		out[i] = f.Pad(p.Before, p.After)
	}
	return out, nil
}
