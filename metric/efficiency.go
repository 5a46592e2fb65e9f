package metric

import (
	"fmt"
	"math"

	"github.com/jamesainslie/go-dqvet/triggers"
)

// vetoCounts returns how many triggers the flag removed and how many there
// were before the veto. After is recomputed when the caller left it unset.
func vetoCounts(name string, in Input) (vetoed, total int, err error) {
	if in.Triggers == nil {
		return 0, 0, fmt.Errorf("%s: %w", name, ErrNoTriggers)
	}
	after := in.After
	if after == nil {
		after, _, err = triggers.Veto(in.Triggers, in.Flag.Active)
		if err != nil {
			return 0, 0, err
		}
	}
	total = in.Triggers.Len()
	return total - after.Len(), total, nil
}

// Efficiency is the percentage of triggers removed by the flag.
type Efficiency struct{}

func (Efficiency) Name() string { return "efficiency" }

func (Efficiency) Description() string {
	return "Percentage of triggers removed by the flag.\n" +
		"Zero when there are no triggers."
}

func (Efficiency) NeedsTriggers() bool { return true }

func (e Efficiency) Evaluate(in Input) (Result, error) {
	vetoed, total, err := vetoCounts(e.Name(), in)
	if err != nil {
		return Result{}, err
	}
	return Result{Value: percent(vetoed, total), Unit: "%", Description: e.Description()}, nil
}

// EfficiencyOverDeadtime is the ratio of efficiency to deadtime. A random
// flag scores about one; useful flags score well above.
type EfficiencyOverDeadtime struct{}

func (EfficiencyOverDeadtime) Name() string { return "efficiency/deadtime" }

func (EfficiencyOverDeadtime) Description() string {
	return "Ratio of efficiency to deadtime.\n" +
		"A flag placed at random scores 1."
}

func (EfficiencyOverDeadtime) NeedsTriggers() bool { return true }

func (m EfficiencyOverDeadtime) Evaluate(in Input) (Result, error) {
	vetoed, total, err := vetoCounts(m.Name(), in)
	if err != nil {
		return Result{}, err
	}
	frac, err := deadtimeFraction(in.Flag)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", m.Name(), err)
	}
	eff := percent(vetoed, total)
	dead := frac * 100

	var ratio float64
	switch {
	case dead > 0:
		ratio = eff / dead
	case eff > 0:
		ratio = math.Inf(1)
	}
	return Result{Value: ratio, Unit: "", Description: m.Description()}, nil
}

// UsePercentage is the percentage of active intervals that veto at least one
// trigger.
type UsePercentage struct{}

func (UsePercentage) Name() string { return "use percentage" }

func (UsePercentage) Description() string {
	return "Percentage of active segments containing at least one trigger."
}

func (UsePercentage) NeedsTriggers() bool { return true }

func (u UsePercentage) Evaluate(in Input) (Result, error) {
	if in.Triggers == nil {
		return Result{}, fmt.Errorf("%s: %w", u.Name(), ErrNoTriggers)
	}
	active := in.Flag.Active
	times, err := in.Triggers.Times()
	if err != nil {
		return Result{}, err
	}

	used := make([]bool, active.Len())
	count := 0
	for _, t := range times {
		if i, ok := active.Find(t); ok && !used[i] {
			used[i] = true
			count++
		}
	}
	return Result{Value: percent(count, active.Len()), Unit: "%", Description: u.Description()}, nil
}

func percent(n, of int) float64 {
	if of == 0 {
		return 0
	}
	return float64(n) / float64(of) * 100
}
