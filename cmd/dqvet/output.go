package main

import (
	"cmp"
	"fmt"
	"io"
	"math"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	vet "github.com/jamesainslie/go-dqvet"
	"github.com/jamesainslie/go-dqvet/internal/sweep"
	"github.com/jamesainslie/go-dqvet/triggers"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// printResults writes a performance summary table.
func printResults(w io.Writer, title string, results *vet.Results) {
	fmt.Fprintln(w, color.New(color.FgCyan, color.Bold).Sprint(title))

	tw := newTable(w)
	fmt.Fprintln(tw, "METRIC\tRESULT\tDESCRIPTION")
	for _, row := range results.Rows() {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", row.Metric, row.Result, row.Description)
	}
	_ = tw.Flush()
}

// printSurvivors reports how many triggers the veto kept; nothing is
// printed when no triggers were analysed.
func printSurvivors(w io.Writer, after, before *triggers.Set) {
	if after == nil {
		return
	}
	fmt.Fprintf(w, "%s of %d triggers survive the veto\n", color.GreenString("%d", after.Len()), before.Len())
}

// printSweep writes sweep results ordered by padding, followed by the best
// candidate.
func printSweep(w io.Writer, title string, results []sweep.Result, cfg sweep.Config) {
	fmt.Fprintf(w, "%s (we=%.1f, wd=%.1f)\n", color.New(color.FgCyan, color.Bold).Sprint(title),
		cfg.EfficiencyWeight, cfg.DeadtimeWeight)
	fmt.Fprintln(w, strings.Repeat("-", 60))

	tw := newTable(w)
	fmt.Fprintln(tw, "PADDING\tEFFICIENCY\tDEADTIME\tEFF/DT\tWEIGHTED\tSURVIVORS")
	for _, r := range byPadding(results) {
		fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%s\t%.2f\t%d\n",
			r.Padding, r.Score.Efficiency, r.Score.Deadtime, formatRatio(r.Score.Ratio), r.Score.Weighted, r.After)
	}
	_ = tw.Flush()

	fmt.Fprintln(w, strings.Repeat("-", 60))
	if len(results) > 0 {
		best := results[0]
		fmt.Fprintf(w, "Optimal: %s (Weighted: %s)\n", best.Padding, color.GreenString("%.2f", best.Score.Weighted))
	}
}

// byPadding returns a copy of results ordered by padding.
func byPadding(results []sweep.Result) []sweep.Result {
	out := slices.Clone(results)
	slices.SortStableFunc(out, func(a, b sweep.Result) int {
		return cmp.Or(
			cmp.Compare(a.Padding.Before, b.Padding.Before),
			cmp.Compare(a.Padding.After, b.Padding.After),
		)
	})
	return out
}

func formatRatio(v float64) string {
	if math.IsInf(v, 1) {
		return "inf"
	}
	return fmt.Sprintf("%.2f", v)
}
