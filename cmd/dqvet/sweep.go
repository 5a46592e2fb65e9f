package main

import (
	"github.com/spf13/cobra"

	vet "github.com/jamesainslie/go-dqvet"
	"github.com/jamesainslie/go-dqvet/internal/input"
	"github.com/jamesainslie/go-dqvet/internal/sweep"
)

type sweepOptions struct {
	job      string
	flagDirs []string
	flag     string
	min      float64
	max      float64
	step     float64
	config   sweep.Config
}

func newSweepCmd(root *rootOptions) *cobra.Command {
	opts := &sweepOptions{config: sweep.DefaultConfig()}
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Search symmetric paddings for the best efficiency/deadtime trade-off",
		Long: `Sweep pads the flag by each value from --pad-min to --pad-max and scores it as

  (we*efficiency + wd*(100-deadtime)) / (we+wd)

Example:
  dqvet sweep --job job.json --flag 'A|B' --pad-max 4 --pad-step 0.5 --we 2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSweep(cmd, root, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.job, "job", "j", "", "Job file")
	f.StringArrayVar(&opts.flagDirs, "flag-dir", nil, "Directory of flag files to add to the job")
	f.StringVarP(&opts.flag, "flag", "f", "", "Flag name or expression (default: union of all flags)")
	f.Float64Var(&opts.min, "pad-min", 0, "Smallest padding")
	f.Float64Var(&opts.max, "pad-max", 2, "Largest padding")
	f.Float64Var(&opts.step, "pad-step", 0.25, "Padding step")
	f.Float64Var(&opts.config.EfficiencyWeight, "we", opts.config.EfficiencyWeight, "Efficiency weight")
	f.Float64Var(&opts.config.DeadtimeWeight, "wd", opts.config.DeadtimeWeight, "Deadtime weight")
	f.IntVar(&opts.config.Concurrency, "concurrency", opts.config.Concurrency, "Paddings evaluated at once")
	cmd.MarkFlagsOneRequired("job", "flag-dir")
	return cmd
}

func runSweep(cmd *cobra.Command, root *rootOptions, opts *sweepOptions) error {
	job, err := input.Load(opts.job, opts.flagDirs...)
	if err != nil {
		return err
	}
	flag, err := job.Flag(opts.flag)
	if err != nil {
		return err
	}
	paddings, err := sweep.Paddings(opts.min, opts.max, opts.step)
	if err != nil {
		return err
	}

	ev := vet.New(vet.WithLogger(root.logger(cmd)))
	results, err := sweep.Sweep(cmd.Context(), ev, flag, job.Triggers, paddings, opts.config)
	if err != nil {
		return err
	}
	printSweep(cmd.OutOrStdout(), "Padding sweep for "+flag.Name, results, opts.config)
	return nil
}
