package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	vet "github.com/jamesainslie/go-dqvet"
	"github.com/jamesainslie/go-dqvet/internal/input"
	"github.com/jamesainslie/go-dqvet/segments"
)

type evaluateOptions struct {
	job         string
	flagDirs    []string
	flags       []string
	combine     string
	metrics     []string
	pads        []string
	minDuration float64
	byState     bool
}

func newEvaluateCmd(root *rootOptions) *cobra.Command {
	opts := &evaluateOptions{}
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Print performance metrics for one or more flags",
		Long: `Evaluate combines the selected flags into one, applies the veto to the job's
triggers and prints a table of metric results.

Flags come from the --job file and from the protobuf or JSON flag files in
each --flag-dir. Several --flag values are plain names combined with
--combine; to combine with operators give a single expression instead.

Each --pad is "before,after" in seconds. A single padding applies to every
flag; otherwise give one per --flag, in order.

Examples:
  dqvet evaluate --job job.json
  dqvet evaluate --job job.json --flag A --flag B --combine intersection
  dqvet evaluate --job job.json --flag-dir flags/ --flag 'A|H1:OVERFLOW'
  dqvet evaluate --job job.json --flag A --pad 0.5,1 --min-duration 0.1 --metric efficiency/deadtime`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvaluate(cmd, root, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.job, "job", "j", "", "Job file")
	f.StringArrayVar(&opts.flagDirs, "flag-dir", nil, "Directory of flag files to add to the job")
	f.StringArrayVarP(&opts.flags, "flag", "f", nil, "Flag name, or a single expression such as 'A|B' (default: all flags)")
	f.StringVar(&opts.combine, "combine", "union", "How to combine several flags: union or intersection")
	f.StringArrayVarP(&opts.metrics, "metric", "m", nil, "Metric to evaluate (default: deadtime)")
	f.StringArrayVar(&opts.pads, "pad", nil, "Padding as before,after")
	f.Float64Var(&opts.minDuration, "min-duration", 0, "Drop active segments shorter than this")
	f.BoolVar(&opts.byState, "by-state", false, "Evaluate separately within each analysis state")
	cmd.MarkFlagsOneRequired("job", "flag-dir")
	return cmd
}

func runEvaluate(cmd *cobra.Command, root *rootOptions, opts *evaluateOptions) error {
	job, err := input.Load(opts.job, opts.flagDirs...)
	if err != nil {
		return err
	}
	flag, err := selectFlag(job, opts)
	if err != nil {
		return err
	}

	ev := vet.New(vet.WithLogger(root.logger(cmd)))
	metrics := vet.Names(opts.metrics...)
	w := cmd.OutOrStdout()

	if opts.byState {
		if len(job.States) == 0 {
			return errors.New("--by-state needs a job file that defines states")
		}
		out, err := ev.EvaluateStates(cmd.Context(), flag, job.Triggers, job.States, metrics, job.Injections)
		if err != nil {
			return err
		}
		for i, sr := range out {
			if i > 0 {
				fmt.Fprintln(w)
			}
			printResults(w, flag.Name+" in "+sr.State.Name, sr.Results)
			printSurvivors(w, sr.After, sr.Triggers)
		}
		return nil
	}

	results, after, err := ev.Evaluate(flag, job.Triggers, metrics, job.Injections)
	if err != nil {
		return err
	}
	printResults(w, flag.Name, results)
	printSurvivors(w, after, job.Triggers)
	return nil
}

// selectFlag builds the flag to evaluate: the chosen flags, each padded and
// filtered by duration, combined into one.
func selectFlag(job *input.Job, opts *evaluateOptions) (*segments.Flag, error) {
	mode, err := segments.ParseCombine(opts.combine)
	if err != nil {
		return nil, err
	}

	flags, err := chooseFlags(job, opts.flags)
	if err != nil {
		return nil, err
	}

	paddings, err := parsePaddings(opts.pads)
	if err != nil {
		return nil, err
	}
	if flags, err = segments.PadAll(flags, paddings); err != nil {
		return nil, err
	}
	if opts.minDuration > 0 {
		for i, f := range flags {
			flags[i] = f.MinDuration(opts.minDuration)
		}
	}
	return segments.CombineFlags(mode, flags...)
}

// chooseFlags returns every flag when names is empty, the resolved flag for a
// single name or expression, and otherwise the named flags in order.
func chooseFlags(job *input.Job, names []string) ([]*segments.Flag, error) {
	switch len(names) {
	case 0:
		return job.Select(job.Names()...)
	case 1:
		f, err := job.Flag(names[0])
		if err != nil {
			return nil, err
		}
		return []*segments.Flag{f}, nil
	}
	trimmed := make([]string, len(names))
	for i, n := range names {
		if strings.ContainsAny(n, "&|") {
			return nil, fmt.Errorf("%w: %q: operators are only allowed in a single --flag", segments.ErrInvalidExpression, n)
		}
		trimmed[i] = strings.TrimSpace(n)
	}
	return job.Select(trimmed...)
}

func parsePaddings(raw []string) ([]segments.Padding, error) {
	out := make([]segments.Padding, len(raw))
	for i, s := range raw {
		before, after, ok := strings.Cut(s, ",")
		if !ok {
			return nil, fmt.Errorf("invalid padding %q: want before,after", s)
		}
		b, err := strconv.ParseFloat(strings.TrimSpace(before), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid padding %q: %w", s, err)
		}
		a, err := strconv.ParseFloat(strings.TrimSpace(after), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid padding %q: %w", s, err)
		}
		out[i] = segments.Padding{Before: b, After: a}
	}
	return out, nil
}
