// Package sweep searches flag padding for the best trade-off between
// trigger efficiency and deadtime.
package sweep

import (
	"fmt"

	vet "github.com/jamesainslie/go-dqvet"
)

// Config holds scoring parameters.
type Config struct {
	EfficiencyWeight float64
	DeadtimeWeight   float64
	Concurrency      int // paddings evaluated at once; <= 0 means unlimited
}

// DefaultConfig returns the default scoring configuration.
func DefaultConfig() Config {
	return Config{
		EfficiencyWeight: 1.0,
		DeadtimeWeight:   1.0,
		Concurrency:      4,
	}
}

// Score holds the figures of merit for one padded flag. Efficiency and
// Deadtime are percentages.
type Score struct {
	Efficiency float64
	Deadtime   float64
	Ratio      float64 // efficiency/deadtime
	Weighted   float64
}

// metric names a Score is computed from
var scoreMetrics = vet.Names("efficiency", "deadtime", "efficiency/deadtime")

// ComputeScore builds a Score from evaluated results. Results must contain
// the efficiency, deadtime and efficiency/deadtime metrics.
func ComputeScore(results *vet.Results, cfg Config) (Score, error) {
	var vals [3]float64
	for i, ref := range scoreMetrics {
		r, ok := results.Get(ref.Key())
		if !ok {
			return Score{}, fmt.Errorf("missing %s result", ref.Key())
		}
		vals[i] = r.Value
	}

	s := Score{Efficiency: vals[0], Deadtime: vals[1], Ratio: vals[2]}
	we := cfg.EfficiencyWeight
	wd := cfg.DeadtimeWeight
	if we+wd > 0 {
		s.Weighted = (we*s.Efficiency + wd*(100-s.Deadtime)) / (we + wd)
	}
	return s, nil
}
