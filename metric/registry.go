package metric

import (
	"errors"
	"fmt"
	"sync"
)

// Registry maps metric names to metrics. Names are matched ignoring case and
// redundant whitespace.
//
// A Registry is populated during startup and then sealed; after Seal every
// method is read-only and safe for concurrent use. Registration and lookup
// may also be interleaved safely, but evaluations that start before
// registration completes may not see every metric.
type Registry struct {
	mu      sync.RWMutex
	metrics map[string]Metric
	order   []string
	sealed  bool
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{metrics: make(map[string]Metric)}
}

// Builtin returns a sealed registry holding the built-in metrics.
func Builtin() *Registry {
	r := NewRegistry()
	if err := RegisterBuiltins(r); err != nil {
		// built-in names are unique
		panic(err)
	}
	r.Seal()
	return r
}

// Register adds m under name.
func (r *Registry) Register(name string, m Metric) error {
	key := normalizeName(name)
	if key == "" {
		return errors.New("metric: empty metric name")
	}
	if m == nil {
		return fmt.Errorf("metric: nil metric for %q", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return fmt.Errorf("%w: cannot register %q", ErrRegistrySealed, name)
	}
	if _, ok := r.metrics[key]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateMetric, name)
	}
	r.metrics[key] = m
	r.order = append(r.order, key)
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(name string, m Metric) {
	if err := r.Register(name, m); err != nil {
		panic(err)
	}
}

// Get returns the metric registered under name.
func (r *Registry) Get(name string) (Metric, error) {
	r.mu.RLock()
	m, ok := r.metrics[normalizeName(name)]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMetric, name)
	}
	return m, nil
}

// Names returns the registered names (normalised) in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Seal ends the registration phase.
func (r *Registry) Seal() {
	r.mu.Lock()
	r.sealed = true
	r.mu.Unlock()
}

// Sealed reports whether Seal has been called.
func (r *Registry) Sealed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sealed
}
