package vet

import (
	"log/slog"
	"runtime"

	"github.com/jamesainslie/go-dqvet/metric"
)

// Option configures an Evaluator.
type Option func(*config)

type config struct {
	registry       *metric.Registry
	logger         *slog.Logger
	defaultMetrics []MetricRef
	concurrency    int
}

func defaultConfig() config {
	return config{
		logger:         slog.Default(),
		defaultMetrics: Names("deadtime"),
		concurrency:    runtime.NumCPU(),
	}
}

// WithRegistry sets the registry used to resolve metric names
// (default: metric.Builtin()).
func WithRegistry(r *metric.Registry) Option {
	return func(c *config) {
		if r != nil {
			c.registry = r
		}
	}
}

// WithLogger sets the logger (default: slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithDefaultMetrics sets the metrics evaluated when a call passes none
// (default: deadtime).
func WithDefaultMetrics(refs ...MetricRef) Option {
	return func(c *config) {
		if len(refs) > 0 {
			c.defaultMetrics = refs
		}
	}
}

// WithConcurrency sets how many analysis states EvaluateStates evaluates at
// once (default: runtime.NumCPU()).
func WithConcurrency(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.concurrency = n
		}
	}
}
