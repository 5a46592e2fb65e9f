// Package vet evaluates how well a data-quality flag removes artifacts from a
// stream of triggers, scoring candidate flags before they are adopted as
// vetoes.
//
// # Quick Start
//
//	active, err := segments.FromPairs([][2]float64{{10, 20}})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	known, _ := segments.FromPairs([][2]float64{{0, 100}})
//	flag := segments.NewFlag("X1:DMT-BAD:1", active, known)
//
//	results, after, err := vet.EvaluateFlag(flag, triggers.FromTimes(5, 15, 25),
//	    vet.Names("deadtime", "efficiency"), nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for key, r := range results.All() {
//	    fmt.Printf("%s: %s\n", key, r)
//	}
//	fmt.Printf("%d triggers survive\n", after.Len())
//
// # Metrics
//
// Metrics are looked up by name in a metric.Registry. Each metric declares
// what it needs: injection metrics (the "safety" family) receive the flag and
// the injections, trigger metrics receive the flag and the triggers before and
// after the veto, and every other metric receives the flag alone. New metrics
// are added by implementing metric.Metric and registering them; the evaluator
// has no metric-specific code.
//
// # Thread Safety
//
// Evaluator is safe for concurrent use. Flags, interval sets and trigger sets
// are never modified by evaluation and may be shared between concurrent
// evaluations. EvaluateStates runs independent analysis states in parallel.
package vet
