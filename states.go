package vet

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/jamesainslie/go-dqvet/segments"
	"github.com/jamesainslie/go-dqvet/triggers"
)

// State is a named analysis period, such as the time an instrument was in
// observation mode.
type State struct {
	Name     string
	Segments segments.IntervalSet
}

// StateResult holds the evaluation of one State.
type StateResult struct {
	State    State
	Results  *Results
	Triggers *triggers.Set // triggers within the state; nil when none were given
	After    *triggers.Set
}

// EvaluateStates evaluates flag separately within each state. For each state
// the flag's active and known time and the triggers are restricted to the
// state's segments; injections are passed through unchanged.
//
// States are evaluated in parallel, at most WithConcurrency at a time, and
// returned in input order. The first failure cancels the remaining states
// and is returned.
func (e *Evaluator) EvaluateStates(ctx context.Context, flag *segments.Flag, trigs *triggers.Set, states []State, metrics []MetricRef, injections any) ([]StateResult, error) {
	if flag == nil {
		return nil, ErrNilFlag
	}
	if len(metrics) == 0 {
		metrics = e.defaultMetrics
	}
	// fail on unknown names before starting any state
	if _, err := e.resolve(metrics); err != nil {
		return nil, err
	}

	out := make([]StateResult, len(states))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for i, st := range states {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			inState, _, err := triggers.Partition(trigs, st.Segments)
			if err != nil {
				return fmt.Errorf("state %q: %w", st.Name, err)
			}
			results, after, err := e.Evaluate(flag.Restrict(st.Segments), inState, metrics, injections)
			if err != nil {
				return fmt.Errorf("state %q: %w", st.Name, err)
			}

			out[i] = StateResult{State: st, Results: results, Triggers: inState, After: after}
			e.logger.Debug("evaluated state", "state", st.Name, "metrics", results.Len())
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
