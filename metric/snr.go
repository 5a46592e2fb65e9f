package metric

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DefaultSNRColumn is the trigger field read by the SNR metrics.
const DefaultSNRColumn = "snr"

// LoudestEvent is the largest value of Column among the triggers that
// survive the veto.
type LoudestEvent struct {
	Column string
}

func (l LoudestEvent) column() string {
	if l.Column == "" {
		return DefaultSNRColumn
	}
	return l.Column
}

func (l LoudestEvent) Name() string { return "loudest event by " + l.column() }

func (l LoudestEvent) Description() string {
	return fmt.Sprintf("Largest %s of any trigger remaining after the veto.\n"+
		"Zero when every trigger is vetoed.", l.column())
}

func (LoudestEvent) NeedsTriggers() bool { return true }

func (l LoudestEvent) Evaluate(in Input) (Result, error) {
	values, err := afterColumn(l.Name(), in, l.column())
	if err != nil {
		return Result{}, err
	}
	var loudest float64
	if len(values) > 0 {
		loudest = floats.Max(values)
	}
	return Result{Value: loudest, Description: l.Description()}, nil
}

// MedianAfterVeto is the median of Column among the triggers that survive
// the veto.
type MedianAfterVeto struct {
	Column string
}

func (m MedianAfterVeto) column() string {
	if m.Column == "" {
		return DefaultSNRColumn
	}
	return m.Column
}

func (m MedianAfterVeto) Name() string { return "median " + m.column() + " after veto" }

func (m MedianAfterVeto) Description() string {
	return fmt.Sprintf("Median %s of the triggers remaining after the veto.", m.column())
}

func (MedianAfterVeto) NeedsTriggers() bool { return true }

func (m MedianAfterVeto) Evaluate(in Input) (Result, error) {
	values, err := afterColumn(m.Name(), in, m.column())
	if err != nil {
		return Result{}, err
	}
	return Result{Value: median(values), Description: m.Description()}, nil
}

// median sorts values in place and returns the middle value, or the mean of
// the two middle values when there is an even number. It is zero for no
// values.
func median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sort.Float64s(values)
	if n%2 == 1 {
		return values[n/2]
	}
	return stat.Mean(values[n/2-1:n/2+1], nil)
}

func afterColumn(name string, in Input, column string) ([]float64, error) {
	if in.After == nil {
		return nil, fmt.Errorf("%s: %w", name, ErrNoTriggers)
	}
	return in.After.Column(column)
}
