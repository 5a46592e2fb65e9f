package metric

import "errors"

// Builtins returns a fresh instance of every built-in metric.
func Builtins() []Metric {
	return []Metric{
		Deadtime{},
		Livetime{},
		Efficiency{},
		EfficiencyOverDeadtime{},
		UsePercentage{},
		LoudestEvent{Column: DefaultSNRColumn},
		MedianAfterVeto{Column: DefaultSNRColumn},
		Safety{},
	}
}

// RegisterBuiltins registers every built-in metric under its own name.
func RegisterBuiltins(r *Registry) error {
	var errs []error
	for _, m := range Builtins() {
		if err := r.Register(m.Name(), m); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
