package triggers

import (
	"fmt"

	"github.com/jamesainslie/go-dqvet/segments"
)

// Partition splits s by membership of each trigger's time in span. Both
// results keep the relative order of s, and every trigger lands in exactly
// one of them. A trigger whose time field is missing or non-numeric aborts
// the whole partition with ErrMissingField.
//
// A nil s yields two nil sets.
func Partition(s *Set, span segments.IntervalSet) (inside, outside *Set, err error) {
	if s == nil {
		return nil, nil, nil
	}
	field := s.TimeField()
	inside, outside = s.derive(0), s.derive(len(s.events))
	for i, t := range s.events {
		tm, err := t.Float(field)
		if err != nil {
			return nil, nil, fmt.Errorf("trigger %d: %w", i, err)
		}
		if span.Contains(tm) {
			inside.events = append(inside.events, t)
		} else {
			outside.events = append(outside.events, t)
		}
	}
	return inside, outside, nil
}

// Veto removes the triggers whose time lies in a flag's active time.
// after holds the survivors and vetoed the removed triggers.
func Veto(s *Set, active segments.IntervalSet) (after, vetoed *Set, err error) {
	vetoed, after, err = Partition(s, active)
	return after, vetoed, err
}
