// Package metric defines the capability that every flag performance metric
// implements, the registry that maps metric names to implementations, and
// the built-in metric family.
package metric

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jamesainslie/go-dqvet/segments"
	"github.com/jamesainslie/go-dqvet/triggers"
)

// Sentinel errors returned by metrics and the registry.
var (
	// ErrUnknownMetric indicates a name with no registry entry.
	ErrUnknownMetric = errors.New("metric: unknown metric")

	// ErrDuplicateMetric indicates a second registration under the same name.
	ErrDuplicateMetric = errors.New("metric: duplicate metric")

	// ErrRegistrySealed indicates a registration after the registry was sealed.
	ErrRegistrySealed = errors.New("metric: registry sealed")

	// ErrNoKnownTime indicates a flag without known time given to a metric
	// normalised by known time.
	ErrNoKnownTime = errors.New("metric: flag has no known time")

	// ErrNoTriggers indicates a trigger metric evaluated without triggers.
	ErrNoTriggers = errors.New("metric: no triggers")

	// ErrNoInjections indicates an injection metric evaluated without injections.
	ErrNoInjections = errors.New("metric: no injections")

	// ErrUnsupportedInjections indicates injections of a type the metric
	// cannot read.
	ErrUnsupportedInjections = errors.New("metric: unsupported injections")
)

// SafetyName is the metric name that always receives injections instead of
// triggers.
const SafetyName = "safety"

// Result is the outcome of one metric evaluation.
type Result struct {
	Value       float64 `json:"value"`
	Unit        string  `json:"unit"`
	Description string  `json:"description"`
}

// String formats the value to two decimals followed by the unit.
func (r Result) String() string {
	return strings.TrimSpace(fmt.Sprintf("%.2f %s", r.Value, r.Unit))
}

// Input carries the data a metric is evaluated on. The evaluator fills only
// the fields matching the metric's declared needs:
//
//   - injection metrics get Flag and Injections;
//   - trigger metrics get Flag, Triggers and After;
//   - all others get Flag alone.
type Input struct {
	Flag *segments.Flag

	// Triggers is the stream before vetoes; nil when no triggers were given.
	Triggers *triggers.Set

	// After is Triggers with vetoed events removed; nil when Triggers is nil.
	After *triggers.Set

	// Injections is opaque to the evaluator; each metric documents the
	// formats it accepts.
	Injections any
}

// Metric is a named computation of one performance statistic for a flag.
type Metric interface {
	// Name identifies the metric in the registry and in results.
	Name() string

	// Description is a human-readable explanation. The first line is used
	// as a summary.
	Description() string

	// NeedsTriggers reports whether the metric reads Input.Triggers and
	// Input.After.
	NeedsTriggers() bool

	// Evaluate computes the statistic. Errors are returned to the caller
	// unchanged.
	Evaluate(in Input) (Result, error)
}

// InjectionConsumer is implemented by metrics that read Input.Injections.
type InjectionConsumer interface {
	NeedsInjections() bool
}

// NeedsInjections reports whether m is dispatched with injections: either
// its name is "safety" (ignoring case) or it declares so through
// InjectionConsumer.
func NeedsInjections(m Metric) bool {
	if normalizeName(m.Name()) == SafetyName {
		return true
	}
	ic, ok := m.(InjectionConsumer)
	return ok && ic.NeedsInjections()
}

// Summary returns the first line of a metric's description.
func Summary(m Metric) string {
	d, _, _ := strings.Cut(m.Description(), "\n")
	return strings.TrimSpace(d)
}

// Func adapts a plain function into a Metric.
type Func struct {
	name          string
	description   string
	unit          string
	needsTriggers bool
	fn            func(Input) (float64, error)
}

// New returns a Metric computing fn. The result carries unit and description.
func New(name, description, unit string, needsTriggers bool, fn func(Input) (float64, error)) *Func {
	return &Func{name: name, description: description, unit: unit, needsTriggers: needsTriggers, fn: fn}
}

func (f *Func) Name() string        { return f.name }
func (f *Func) Description() string { return f.description }
func (f *Func) NeedsTriggers() bool { return f.needsTriggers }

func (f *Func) Evaluate(in Input) (Result, error) {
	v, err := f.fn(in)
	if err != nil {
		return Result{}, err
	}
	return Result{Value: v, Unit: f.unit, Description: f.description}, nil
}
