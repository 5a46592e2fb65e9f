package segments

import (
	"encoding/json"
	"fmt"
	"iter"
	"math"
	"slices"
	"sort"
	"strings"
)

// IntervalSet is an ordered, non-overlapping collection of intervals.
//
// Every IntervalSet is canonical: intervals are sorted by start, zero-length
// intervals are dropped, and intervals that overlap or touch are merged.
// The zero value is the empty set. IntervalSet values are immutable; every
// operation returns a new set and never modifies its operands, so a set may
// be shared between goroutines without locking.
type IntervalSet struct {
	ivs []Interval
}

// New builds a canonical IntervalSet from intervals in any order.
// Each interval is validated with the same rules as NewInterval.
func New(intervals ...Interval) (IntervalSet, error) {
	for _, iv := range intervals {
		if _, err := NewInterval(iv.Start, iv.End); err != nil {
			return IntervalSet{}, err
		}
	}
	return IntervalSet{ivs: coalesce(slices.Clone(intervals))}, nil
}

// FromPairs builds an IntervalSet from raw [start, end] pairs.
func FromPairs(pairs [][2]float64) (IntervalSet, error) {
	ivs := make([]Interval, 0, len(pairs))
	for i, p := range pairs {
		iv, err := NewInterval(p[0], p[1])
		if err != nil {
			return IntervalSet{}, fmt.Errorf("pair %d: %w", i, err)
		}
		ivs = append(ivs, iv)
	}
	return IntervalSet{ivs: coalesce(ivs)}, nil
}

// MustFromPairs is like FromPairs but panics on invalid input.
// It is intended for tests and static tables.
func MustFromPairs(pairs ...[2]float64) IntervalSet {
	s, err := FromPairs(pairs)
	if err != nil {
		panic(err)
	}
	return s
}

// coalesce sorts ivs in place and merges overlapping or touching intervals.
func coalesce(ivs []Interval) []Interval {
	if len(ivs) == 0 {
		return nil
	}
	sort.Slice(ivs, func(i, j int) bool {
		if ivs[i].Start != ivs[j].Start {
			return ivs[i].Start < ivs[j].Start
		}
		return ivs[i].End < ivs[j].End
	})
	out := ivs[:0]
	for _, iv := range ivs {
		out = appendMerged(out, iv)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// appendMerged appends iv to a canonical, start-ordered slice, merging it
// into the last interval when they overlap or touch. iv.Start must not be
// less than the start of the last interval.
func appendMerged(out []Interval, iv Interval) []Interval {
	if iv.Start >= iv.End {
		return out
	}
	if n := len(out); n > 0 && iv.Start <= out[n-1].End {
		if iv.End > out[n-1].End {
			out[n-1].End = iv.End
		}
		return out
	}
	return append(out, iv)
}

// Len returns the number of intervals.
func (s IntervalSet) Len() int { return len(s.ivs) }

// IsEmpty reports whether the set covers no time.
func (s IntervalSet) IsEmpty() bool { return len(s.ivs) == 0 }

// At returns the i-th interval in start order.
func (s IntervalSet) At(i int) Interval { return s.ivs[i] }

// Intervals returns a copy of the intervals in start order.
func (s IntervalSet) Intervals() []Interval { return slices.Clone(s.ivs) }

// All iterates over the intervals in start order.
func (s IntervalSet) All() iter.Seq[Interval] {
	return func(yield func(Interval) bool) {
		for _, iv := range s.ivs {
			if !yield(iv) {
				return
			}
		}
	}
}

// Pairs returns the intervals as raw [start, end] pairs, or nil for the
// empty set.
func (s IntervalSet) Pairs() [][2]float64 {
	if len(s.ivs) == 0 {
		return nil
	}
	out := make([][2]float64, len(s.ivs))
	for i, iv := range s.ivs {
		out[i] = [2]float64{iv.Start, iv.End}
	}
	return out
}

// Duration returns the total time covered by the set.
func (s IntervalSet) Duration() float64 {
	var total float64
	for _, iv := range s.ivs {
		total += iv.Duration()
	}
	return total
}

// Extent returns the smallest interval covering the whole set, and false
// when the set is empty.
func (s IntervalSet) Extent() (Interval, bool) {
	if len(s.ivs) == 0 {
		return Interval{}, false
	}
	return Interval{Start: s.ivs[0].Start, End: s.ivs[len(s.ivs)-1].End}, true
}

// Find returns the index of the interval containing t.
// It runs in O(log n) using a binary search over interval starts.
// NaN is in no interval.
func (s IntervalSet) Find(t float64) (int, bool) {
	if math.IsNaN(t) {
		return -1, false
	}
	// first interval starting strictly after t; its predecessor is the only candidate
	i := sort.Search(len(s.ivs), func(k int) bool { return s.ivs[k].Start > t }) - 1
	if i < 0 || t >= s.ivs[i].End {
		return -1, false
	}
	return i, true
}

// Contains reports whether t lies in some interval of the set.
func (s IntervalSet) Contains(t float64) bool {
	_, ok := s.Find(t)
	return ok
}

// Overlaps reports whether iv shares any time with the set, in O(log n).
func (s IntervalSet) Overlaps(iv Interval) bool {
	// first interval ending after iv starts; only it can reach into iv
	i := sort.Search(len(s.ivs), func(k int) bool { return s.ivs[k].End > iv.Start })
	return i < len(s.ivs) && s.ivs[i].Overlaps(iv)
}

// Union returns the time covered by either set.
func (s IntervalSet) Union(o IntervalSet) IntervalSet {
	if len(s.ivs) == 0 {
		return o
	}
	if len(o.ivs) == 0 {
		return s
	}
	out := make([]Interval, 0, len(s.ivs)+len(o.ivs))
	i, j := 0, 0
	for i < len(s.ivs) || j < len(o.ivs) {
		var next Interval
		if j >= len(o.ivs) || (i < len(s.ivs) && s.ivs[i].Start <= o.ivs[j].Start) {
			next = s.ivs[i]
			i++
		} else {
			next = o.ivs[j]
			j++
		}
		out = appendMerged(out, next)
	}
	return IntervalSet{ivs: out}
}

// Intersect returns the time covered by both sets.
func (s IntervalSet) Intersect(o IntervalSet) IntervalSet {
	var out []Interval
	i, j := 0, 0
	for i < len(s.ivs) && j < len(o.ivs) {
		a, b := s.ivs[i], o.ivs[j]
		lo, hi := max(a.Start, b.Start), min(a.End, b.End)
		if lo < hi {
			out = append(out, Interval{Start: lo, End: hi})
		}
		if a.End < b.End {
			i++
		} else {
			j++
		}
	}
	return IntervalSet{ivs: out}
}

// Difference returns the time covered by s but not by o.
func (s IntervalSet) Difference(o IntervalSet) IntervalSet {
	if len(o.ivs) == 0 || len(s.ivs) == 0 {
		return s
	}
	var out []Interval
	j := 0
	for _, iv := range s.ivs {
		for j < len(o.ivs) && o.ivs[j].End <= iv.Start {
			j++
		}
		cur := iv.Start
		for k := j; k < len(o.ivs) && o.ivs[k].Start < iv.End; k++ {
			if o.ivs[k].Start > cur {
				out = append(out, Interval{Start: cur, End: o.ivs[k].Start})
			}
			cur = max(cur, o.ivs[k].End)
			if cur >= iv.End {
				break
			}
		}
		if cur < iv.End {
			out = append(out, Interval{Start: cur, End: iv.End})
		}
	}
	return IntervalSet{ivs: out}
}

// Pad moves every interval's start earlier by before and its end later by
// after. Negative values shrink intervals; intervals that shrink to zero or
// negative length are discarded. Intervals that come to overlap or touch are
// merged in the same pass.
func (s IntervalSet) Pad(before, after float64) IntervalSet {
	if before == 0 && after == 0 {
		return s
	}
	// a uniform shift keeps starts (and ends) ordered, so one merge pass suffices
	out := make([]Interval, 0, len(s.ivs))
	for _, iv := range s.ivs {
		out = appendMerged(out, Interval{Start: iv.Start - before, End: iv.End + after})
	}
	if len(out) == 0 {
		return IntervalSet{}
	}
	return IntervalSet{ivs: out}
}

// MinDuration drops intervals shorter than d.
func (s IntervalSet) MinDuration(d float64) IntervalSet {
	if d <= 0 {
		return s
	}
	var out []Interval
	for _, iv := range s.ivs {
		if iv.Duration() >= d {
			out = append(out, iv)
		}
	}
	return IntervalSet{ivs: out}
}

// Equal reports whether both sets cover exactly the same intervals.
func (s IntervalSet) Equal(o IntervalSet) bool {
	return slices.Equal(s.ivs, o.ivs)
}

func (s IntervalSet) String() string {
	parts := make([]string, len(s.ivs))
	for i, iv := range s.ivs {
		parts[i] = iv.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// MarshalJSON encodes the set as a list of [start, end] pairs.
func (s IntervalSet) MarshalJSON() ([]byte, error) {
	if len(s.ivs) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(s.Pairs())
}

// UnmarshalJSON decodes a list of [start, end] pairs, validating and
// canonicalising them.
func (s *IntervalSet) UnmarshalJSON(data []byte) error {
	var raw [][]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding interval pairs: %w", err)
	}
	pairs := make([][2]float64, len(raw))
	for i, p := range raw {
		if len(p) != 2 {
			return fmt.Errorf("%w: pair %d has %d values, want 2", ErrInvalidInterval, i, len(p))
		}
		pairs[i] = [2]float64{p[0], p[1]}
	}
	set, err := FromPairs(pairs)
	if err != nil {
		return err
	}
	*s = set
	return nil
}

// Union returns the union of all sets.
func Union(sets ...IntervalSet) IntervalSet {
	var out IntervalSet
	for _, s := range sets {
		out = out.Union(s)
	}
	return out
}

// Intersection returns the intersection of all sets. The intersection of no
// sets is empty.
func Intersection(sets ...IntervalSet) IntervalSet {
	if len(sets) == 0 {
		return IntervalSet{}
	}
	out := sets[0]
	for _, s := range sets[1:] {
		out = out.Intersect(s)
	}
	return out
}
