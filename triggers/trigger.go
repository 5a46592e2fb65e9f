// Package triggers holds timestamped event records and the veto partition
// that splits them by data-quality flag membership.
package triggers

import (
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"math"
	"reflect"
	"slices"
)

// DefaultTimeField is the field used for event time when none is given.
const DefaultTimeField = "time"

var (
	// ErrMissingField indicates a trigger without the requested field, or
	// whose field value is not numeric.
	ErrMissingField = errors.New("triggers: missing field")

	// ErrShape indicates a table row whose length differs from the column count.
	ErrShape = errors.New("triggers: row does not match columns")
)

// Trigger is a single event record mapping field names to scalar values.
type Trigger map[string]any

// Float returns the named field as a float64. Values of any integer or
// floating-point kind and json.Number are accepted; anything else, and NaN,
// is ErrMissingField.
func (t Trigger) Float(field string) (float64, error) {
	v, ok := t[field]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrMissingField, field)
	}

	var f float64
	if n, isNumber := v.(json.Number); isNumber {
		var err error
		if f, err = n.Float64(); err != nil {
			return 0, fmt.Errorf("%w: %q is not numeric: %w", ErrMissingField, field, err)
		}
	} else {
		rv := reflect.ValueOf(v)
		switch {
		case rv.CanFloat():
			f = rv.Float()
		case rv.CanInt():
			f = float64(rv.Int())
		case rv.CanUint():
			f = float64(rv.Uint())
		default:
			return 0, fmt.Errorf("%w: %q has non-numeric type %T", ErrMissingField, field, v)
		}
	}

	if math.IsNaN(f) {
		return 0, fmt.Errorf("%w: %q is NaN", ErrMissingField, field)
	}
	return f, nil
}

// Set is an ordered collection of triggers sharing a time field.
//
// A nil *Set means no trigger analysis was requested and is distinct from an
// empty set. Sets are never modified after construction; filtering returns a
// new Set that shares the underlying Trigger values.
type Set struct {
	timeField string
	events    []Trigger
}

// New returns a set of events whose time is read from timeField
// (DefaultTimeField when empty).
func New(timeField string, events ...Trigger) *Set {
	if timeField == "" {
		timeField = DefaultTimeField
	}
	return &Set{timeField: timeField, events: slices.Clone(events)}
}

// FromTimes returns a set with one trigger per time, keyed by DefaultTimeField.
func FromTimes(times ...float64) *Set {
	events := make([]Trigger, len(times))
	for i, t := range times {
		events[i] = Trigger{DefaultTimeField: t}
	}
	return &Set{timeField: DefaultTimeField, events: events}
}

// FromTable builds a set from tabular records: one Trigger per row, with
// values keyed by the matching column name.
func FromTable(timeField string, columns []string, rows [][]any) (*Set, error) {
	events := make([]Trigger, len(rows))
	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("%w: row %d has %d values for %d columns", ErrShape, i, len(row), len(columns))
		}
		t := make(Trigger, len(columns))
		for j, c := range columns {
			t[c] = row[j]
		}
		events[i] = t
	}
	s := New(timeField)
	s.events = events
	return s, nil
}

// TimeField returns the name of the field holding event time.
func (s *Set) TimeField() string {
	if s == nil {
		return DefaultTimeField
	}
	return s.timeField
}

// Len returns the number of triggers; zero for a nil set.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.events)
}

// At returns the i-th trigger.
func (s *Set) At(i int) Trigger { return s.events[i] }

// All iterates over the triggers in order.
func (s *Set) All() iter.Seq2[int, Trigger] {
	return func(yield func(int, Trigger) bool) {
		if s == nil {
			return
		}
		for i, t := range s.events {
			if !yield(i, t) {
				return
			}
		}
	}
}

// Column returns the named field of every trigger as float64.
func (s *Set) Column(field string) ([]float64, error) {
	out := make([]float64, s.Len())
	for i, t := range s.All() {
		v, err := t.Float(field)
		if err != nil {
			return nil, fmt.Errorf("trigger %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

// Times returns the time field of every trigger.
func (s *Set) Times() ([]float64, error) {
	return s.Column(s.TimeField())
}

// derive returns an empty set with the same time field as s.
func (s *Set) derive(capacity int) *Set {
	return &Set{timeField: s.TimeField(), events: make([]Trigger, 0, capacity)}
}
