package vet

import (
	"log/slog"
	"sync"

	"github.com/jamesainslie/go-dqvet/metric"
	"github.com/jamesainslie/go-dqvet/segments"
	"github.com/jamesainslie/go-dqvet/triggers"
)

// dispatch branches, used in log output
const (
	branchInjections = "injections"
	branchTriggers   = "triggers"
	branchFlag       = "flag"
)

// Evaluator scores data-quality flags with registered metrics.
// It is safe for concurrent use.
type Evaluator struct {
	registry       *metric.Registry
	logger         *slog.Logger
	defaultMetrics []MetricRef
	concurrency    int
}

// New creates an Evaluator.
func New(opts ...Option) *Evaluator {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.registry == nil {
		cfg.registry = metric.Builtin()
	}

	return &Evaluator{
		registry:       cfg.registry,
		logger:         cfg.logger,
		defaultMetrics: cfg.defaultMetrics,
		concurrency:    cfg.concurrency,
	}
}

var defaultEvaluator = sync.OnceValue(func() *Evaluator { return New() })

// EvaluateFlag evaluates flag with the built-in metric registry.
// See Evaluator.Evaluate.
func EvaluateFlag(flag *segments.Flag, trigs *triggers.Set, metrics []MetricRef, injections any) (*Results, *triggers.Set, error) {
	return defaultEvaluator().Evaluate(flag, trigs, metrics, injections)
}

// Registry returns the registry used to resolve metric names.
func (e *Evaluator) Registry() *metric.Registry { return e.registry }

// Evaluate scores flag with each requested metric, in order.
//
// When trigs is non-nil, triggers whose time lies in the flag's active time
// are vetoed and after holds the survivors in their original order; when trigs
// is nil, after is nil. When metrics is empty the evaluator's default metrics
// are used.
//
// Every metric name is resolved before any work is done, so an unknown name
// fails the call with ErrUnknownMetric without partitioning triggers. A
// metric error aborts the evaluation and is returned unchanged.
func (e *Evaluator) Evaluate(flag *segments.Flag, trigs *triggers.Set, metrics []MetricRef, injections any) (results *Results, after *triggers.Set, err error) {
	if flag == nil {
		return nil, nil, ErrNilFlag
	}
	if len(metrics) == 0 {
		metrics = e.defaultMetrics
	}

	resolved, err := e.resolve(metrics)
	if err != nil {
		return nil, nil, err
	}

	after, vetoed, err := triggers.Veto(trigs, flag.Active)
	if err != nil {
		return nil, nil, err
	}
	if trigs != nil {
		e.logger.Debug("applied veto",
			"flag", flag.Name,
			"before", trigs.Len(),
			"vetoed", vetoed.Len(),
			"after", after.Len())
	}

	results = newResults(len(metrics))
	for i, m := range resolved {
		res, err := e.dispatch(m, flag, trigs, after, injections)
		if err != nil {
			return nil, nil, err
		}
		results.set(Entry{Ref: metrics[i], Metric: m, Result: res})
	}
	return results, after, nil
}

// EvaluateActive wraps raw active time into a flag with no known time and
// evaluates it.
//
// Metrics that divide by known time, deadtime among them, fail with
// metric.ErrNoKnownTime on such a flag. With no metrics requested
// EvaluateActive therefore evaluates DefaultActiveMetrics rather than the
// evaluator's defaults.
func (e *Evaluator) EvaluateActive(active segments.IntervalSet, trigs *triggers.Set, metrics []MetricRef, injections any) (*Results, *triggers.Set, error) {
	if len(metrics) == 0 {
		metrics = DefaultActiveMetrics()
	}
	return e.Evaluate(segments.FromActive(active), trigs, metrics, injections)
}

// DefaultActiveMetrics returns the metrics EvaluateActive uses when none are
// requested: efficiency, which needs only triggers.
func DefaultActiveMetrics() []MetricRef { return Names("efficiency") }

// resolve maps every ref to a metric instance, failing on the first unknown
// name.
func (e *Evaluator) resolve(refs []MetricRef) ([]metric.Metric, error) {
	out := make([]metric.Metric, len(refs))
	for i, ref := range refs {
		if m := ref.Metric(); m != nil {
			out[i] = m
			continue
		}
		m, err := e.registry.Get(ref.name)
		if err != nil {
			return nil, err
		}
		out[i] = m
	}
	return out, nil
}

// dispatch evaluates m with the inputs its declared needs allow.
func (e *Evaluator) dispatch(m metric.Metric, flag *segments.Flag, trigs, after *triggers.Set, injections any) (metric.Result, error) {
	in := metric.Input{Flag: flag}
	branch := branchFlag
	switch {
	case metric.NeedsInjections(m):
		in.Injections = injections
		branch = branchInjections
	case m.NeedsTriggers():
		in.Triggers = trigs
		in.After = after
		branch = branchTriggers
	}

	e.logger.Debug("evaluating metric", "metric", m.Name(), "inputs", branch)
	return m.Evaluate(in)
}
