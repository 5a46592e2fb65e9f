package metric

import (
	"fmt"

	"github.com/jamesainslie/go-dqvet/segments"
)

// Deadtime is the percentage of known time covered by the flag's active time.
type Deadtime struct{}

func (Deadtime) Name() string { return "deadtime" }

func (Deadtime) Description() string {
	return "Percentage of analysable time removed by the flag.\n" +
		"Computed as the active time within known time over the known time."
}

func (Deadtime) NeedsTriggers() bool { return false }

func (d Deadtime) Evaluate(in Input) (Result, error) {
	frac, err := deadtimeFraction(in.Flag)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", d.Name(), err)
	}
	return Result{Value: frac * 100, Unit: "%", Description: d.Description()}, nil
}

// deadtimeFraction returns |active ∩ known| / |known|.
func deadtimeFraction(f *segments.Flag) (float64, error) {
	known := f.Known.Duration()
	if known == 0 {
		return 0, fmt.Errorf("%w: %q", ErrNoKnownTime, f.Name)
	}
	return f.Active.Intersect(f.Known).Duration() / known, nil
}

// Livetime is the known time left after removing the flag's active time.
type Livetime struct{}

func (Livetime) Name() string { return "livetime" }

func (Livetime) Description() string {
	return "Known time remaining after the flag is applied."
}

func (Livetime) NeedsTriggers() bool { return false }

func (l Livetime) Evaluate(in Input) (Result, error) {
	return Result{
		Value:       in.Flag.Known.Difference(in.Flag.Active).Duration(),
		Unit:        "s",
		Description: l.Description(),
	}, nil
}
