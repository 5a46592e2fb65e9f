package segments

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoFlags indicates a combination of zero flags.
	ErrNoFlags = errors.New("segments: no flags to combine")

	// ErrMixedCombine indicates an expression that mixes '&' and '|'.
	ErrMixedCombine = errors.New("segments: expression mixes '&' and '|'")

	// ErrUnknownCombine indicates a combine keyword other than "union" or
	// "intersection".
	ErrUnknownCombine = errors.New("segments: unknown combine operator")

	// ErrInvalidExpression indicates an expression with an empty flag name.
	ErrInvalidExpression = errors.New("segments: invalid flag expression")

	// ErrUnknownFlag indicates an expression naming a flag that was not
	// supplied.
	ErrUnknownFlag = errors.New("segments: unknown flag")
)

// Combine selects how several flags are merged into one.
type Combine int

const (
	// CombineUnion vetoes time that is active in any flag (logical OR).
	CombineUnion Combine = iota
	// CombineIntersection vetoes time that is active in every flag (logical AND).
	CombineIntersection
)

// Operator returns the expression operator for c: "|" or "&".
func (c Combine) Operator() string {
	if c == CombineIntersection {
		return "&"
	}
	return "|"
}

func (c Combine) String() string {
	if c == CombineIntersection {
		return "intersection"
	}
	return "union"
}

// Label returns a human-readable description of c.
func (c Combine) Label() string {
	if c == CombineIntersection {
		return "Intersection (logical AND)"
	}
	return "Union (logical OR)"
}

// ParseCombine parses "union" or "intersection", ignoring case and
// surrounding space.
func ParseCombine(s string) (Combine, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "union":
		return CombineUnion, nil
	case "intersection":
		return CombineIntersection, nil
	}
	return CombineUnion, fmt.Errorf("%w: %q", ErrUnknownCombine, s)
}

// CombineFlags merges flags into a derived flag. Active and known time are
// combined independently with the same operation, and the derived name is the
// flag names joined by the mode's operator. A single flag combines to a copy
// of itself.
func CombineFlags(mode Combine, flags ...*Flag) (*Flag, error) {
	if len(flags) == 0 {
		return nil, ErrNoFlags
	}
	if len(flags) == 1 {
		f := *flags[0]
		return &f, nil
	}

	names := make([]string, len(flags))
	actives := make([]IntervalSet, len(flags))
	knowns := make([]IntervalSet, len(flags))
	for i, f := range flags {
		names[i] = f.Name
		actives[i] = f.Active
		knowns[i] = f.Known
	}

	out := &Flag{Name: strings.Join(names, mode.Operator())}
	if mode == CombineIntersection {
		out.Active = Intersection(actives...)
		out.Known = Intersection(knowns...)
	} else {
		out.Active = Union(actives...)
		out.Known = Union(knowns...)
	}
	return out, nil
}

// ParseExpression splits an expression such as "A&B&C" or "A|B" into flag
// names and the combine mode. An expression without operators names a single
// flag and reports CombineUnion.
func ParseExpression(expr string) ([]string, Combine, error) {
	hasAnd := strings.Contains(expr, "&")
	hasOr := strings.Contains(expr, "|")
	if hasAnd && hasOr {
		return nil, CombineUnion, fmt.Errorf("%w: %q", ErrMixedCombine, expr)
	}

	mode, sep := CombineUnion, "|"
	if hasAnd {
		mode, sep = CombineIntersection, "&"
	}

	names := strings.Split(expr, sep)
	for i, n := range names {
		names[i] = strings.TrimSpace(n)
		if names[i] == "" {
			return nil, mode, fmt.Errorf("%w: empty flag name in %q", ErrInvalidExpression, expr)
		}
	}
	return names, mode, nil
}

// Resolve parses expr and combines the named flags from known.
func Resolve(expr string, known map[string]*Flag) (*Flag, error) {
	names, mode, err := ParseExpression(expr)
	if err != nil {
		return nil, err
	}
	flags := make([]*Flag, len(names))
	for i, n := range names {
		f, ok := known[n]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownFlag, n)
		}
		flags[i] = f
	}
	return CombineFlags(mode, flags...)
}
