package vet

import (
	"fmt"
	"iter"
	"reflect"

	"github.com/jamesainslie/go-dqvet/metric"
)

// MetricRef identifies a requested metric either by registry name or by
// instance.
type MetricRef struct {
	name   string
	metric metric.Metric
}

// Named refers to a metric by registry name.
func Named(name string) MetricRef { return MetricRef{name: name} }

// Using refers to a metric instance, bypassing the registry.
func Using(m metric.Metric) MetricRef { return MetricRef{metric: m} }

// Names refers to several metrics by registry name.
func Names(names ...string) []MetricRef {
	refs := make([]MetricRef, len(names))
	for i, n := range names {
		refs[i] = Named(n)
	}
	return refs
}

// Key returns the identifier results are normally stored under: the name
// exactly as requested, or the instance's own name. See Results for keys
// shared by different refs.
func (r MetricRef) Key() string {
	if r.metric != nil {
		return r.metric.Name()
	}
	return r.name
}

// Metric returns the instance for refs created with Using, else nil.
func (r MetricRef) Metric() metric.Metric { return r.metric }

func (r MetricRef) String() string { return r.Key() }

// same reports whether r and o request the same metric: equal names, or
// equal instances. Instances of incomparable types are never the same.
func (r MetricRef) same(o MetricRef) bool {
	if r.metric == nil || o.metric == nil {
		return r.metric == nil && o.metric == nil && r.name == o.name
	}
	t := reflect.TypeOf(r.metric)
	return t == reflect.TypeOf(o.metric) && t.Comparable() && r.metric == o.metric
}

// Entry is one evaluated metric.
type Entry struct {
	Ref    MetricRef
	Metric metric.Metric
	Result metric.Result
}

// Results maps metric keys to results in request order.
//
// Requesting the same metric twice keeps its first position and the last
// result. When different refs share a key, such as two instances with the
// same name, the later ones are stored under "key#2", "key#3" and so on.
type Results struct {
	keys    []string
	entries map[string]Entry
}

func newResults(capacity int) *Results {
	return &Results{
		keys:    make([]string, 0, capacity),
		entries: make(map[string]Entry, capacity),
	}
}

func (r *Results) set(e Entry) {
	key := e.Ref.Key()
	for n := 2; ; n++ {
		prev, ok := r.entries[key]
		if !ok {
			r.keys = append(r.keys, key)
			break
		}
		if prev.Ref.same(e.Ref) {
			break
		}
		key = fmt.Sprintf("%s#%d", e.Ref.Key(), n)
	}
	r.entries[key] = e
}

// Len returns the number of results.
func (r *Results) Len() int { return len(r.keys) }

// Keys returns the metric keys in request order.
func (r *Results) Keys() []string { return append([]string(nil), r.keys...) }

// Get returns the result stored under key.
func (r *Results) Get(key string) (metric.Result, bool) {
	e, ok := r.entries[key]
	return e.Result, ok
}

// Entry returns the full entry stored under key.
func (r *Results) Entry(key string) (Entry, bool) {
	e, ok := r.entries[key]
	return e, ok
}

// All iterates over key and result pairs in request order.
func (r *Results) All() iter.Seq2[string, metric.Result] {
	return func(yield func(string, metric.Result) bool) {
		for _, k := range r.keys {
			if !yield(k, r.entries[k].Result) {
				return
			}
		}
	}
}

// Row is one line of a performance summary table.
type Row struct {
	Metric      string
	Result      string
	Description string
}

// Rows returns a summary row per result: the key, the value to two decimals
// with its unit, and the first line of the metric's description.
func (r *Results) Rows() []Row {
	rows := make([]Row, 0, len(r.keys))
	for _, k := range r.keys {
		e := r.entries[k]
		rows = append(rows, Row{
			Metric:      k,
			Result:      e.Result.String(),
			Description: metric.Summary(e.Metric),
		})
	}
	return rows
}
