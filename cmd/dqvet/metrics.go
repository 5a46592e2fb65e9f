package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/go-dqvet/metric"
)

func newMetricsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "List the available metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := metric.Builtin()
			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintln(tw, "NAME\tINPUTS\tDESCRIPTION")
			for _, name := range reg.Names() {
				m, err := reg.Get(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", name, inputsOf(m), metric.Summary(m))
			}
			return tw.Flush()
		},
	}
}

func inputsOf(m metric.Metric) string {
	switch {
	case metric.NeedsInjections(m):
		return "injections"
	case m.NeedsTriggers():
		return "triggers"
	}
	return "flag"
}
