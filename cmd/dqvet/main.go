// Command dqvet evaluates data-quality flags against trigger sets.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// set by -ldflags at release time
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color.RedString("Error:"), err)
		os.Exit(1)
	}
}

type rootOptions struct {
	verbose bool
	noColor bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "dqvet",
		Short: "Evaluate data-quality flags against event triggers",
		Long: `dqvet measures how well data-quality flags remove noise triggers.

A job file holds the flags, the triggers and optional injections and analysis
states. Flags are given inline or as references to protobuf or JSON flag files.

Examples:
  # Deadtime and efficiency for every flag combined
  dqvet evaluate --job job.json --metric deadtime --metric efficiency

  # Find the best padding for one flag
  dqvet sweep --job job.json --flag H1:OVERFLOW --pad-max 2 --pad-step 0.25`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.noColor {
				color.NoColor = true
			}
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log evaluation details to stderr")
	cmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")

	cmd.AddCommand(
		newEvaluateCmd(opts),
		newSweepCmd(opts),
		newMetricsCmd(),
	)
	return cmd
}

// logger returns the logger commands pass to the evaluator.
func (o *rootOptions) logger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}
