package metric

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/jamesainslie/go-dqvet/segments"
	"github.com/jamesainslie/go-dqvet/triggers"
)

// Safety measures whether a flag vetoes hardware injections more often than
// chance. The value is the Poisson significance -log10 P(X >= k) of seeing k
// vetoed injections when N injections fall at random into the flag's
// deadtime fraction.
//
// Injections may be given as a *triggers.Set (read through its time field),
// a []float64 of injection times, or injection windows as []segments.Interval
// or [][2]float64. Each window counts once, even when it touches or overlaps
// another, and is vetoed when it overlaps active time. A segments.IntervalSet
// is not accepted: canonicalisation would merge neighbouring windows.
type Safety struct{}

func (Safety) Name() string { return SafetyName }

func (Safety) Description() string {
	return "Poisson significance of the number of injections vetoed.\n" +
		"Large values mean the flag vetoes signal-like events and is unsafe."
}

func (Safety) NeedsTriggers() bool { return false }

func (Safety) NeedsInjections() bool { return true }

func (s Safety) Evaluate(in Input) (Result, error) {
	vetoed, total, err := countVetoedInjections(in.Flag.Active, in.Injections)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", s.Name(), err)
	}
	frac, err := deadtimeFraction(in.Flag)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", s.Name(), err)
	}
	return Result{
		Value:       poissonSignificance(vetoed, float64(total)*frac),
		Description: s.Description(),
	}, nil
}

func countVetoedInjections(active segments.IntervalSet, injections any) (vetoed, total int, err error) {
	switch inj := injections.(type) {
	case nil:
		return 0, 0, ErrNoInjections
	case *triggers.Set:
		if inj == nil {
			return 0, 0, ErrNoInjections
		}
		_, out, err := triggers.Veto(inj, active)
		if err != nil {
			return 0, 0, err
		}
		return out.Len(), inj.Len(), nil
	case []float64:
		for _, t := range inj {
			if active.Contains(t) {
				vetoed++
			}
		}
		return vetoed, len(inj), nil
	case []segments.Interval:
		for _, iv := range inj {
			if active.Overlaps(iv) {
				vetoed++
			}
		}
		return vetoed, len(inj), nil
	case [][2]float64:
		for i, p := range inj {
			iv, err := segments.NewInterval(p[0], p[1])
			if err != nil {
				return 0, 0, fmt.Errorf("injection window %d: %w", i, err)
			}
			if active.Overlaps(iv) {
				vetoed++
			}
		}
		return vetoed, len(inj), nil
	}
	return 0, 0, fmt.Errorf("%w: %T", ErrUnsupportedInjections, injections)
}

// poissonSignificance returns -log10 P(X >= k) for X ~ Poisson(mu).
func poissonSignificance(k int, mu float64) float64 {
	if k == 0 {
		return 0
	}
	if mu <= 0 {
		return math.Inf(1)
	}
	// Survival is P(X > x), so P(X >= k) = Survival(k-1)
	p := distuv.Poisson{Lambda: mu}.Survival(float64(k - 1))
	return -math.Log10(p)
}
