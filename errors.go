package vet

import (
	"errors"

	"github.com/jamesainslie/go-dqvet/metric"
	"github.com/jamesainslie/go-dqvet/segments"
	"github.com/jamesainslie/go-dqvet/triggers"
)

// Sentinel errors for conditions callers may need to handle differently.
var (
	// ErrInvalidInterval indicates an interval with start after end.
	ErrInvalidInterval = segments.ErrInvalidInterval

	// ErrUnknownMetric indicates a metric name with no registry entry.
	ErrUnknownMetric = metric.ErrUnknownMetric

	// ErrMissingField indicates a trigger without a numeric time field.
	ErrMissingField = triggers.ErrMissingField

	// ErrNilFlag indicates evaluation of a nil flag.
	ErrNilFlag = errors.New("vet: nil flag")
)
