//go:build ignore

// Generate a synthetic evaluation job: two flags written as protobuf files, a
// trigger table with loud glitches inside one flag's active time, and a set of
// injections.
// Usage: go run ./scripts/gen-fixtures.go
package main

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/jamesainslie/go-dqvet/internal/input"
	"github.com/jamesainslie/go-dqvet/segments"
)

const (
	outDir   = "testdata/synthetic"
	span     = 4096.0
	glitches = 40
	noise    = 2000
	injected = 50
)

func main() {
	src := rand.NewPCG(2015, 914)
	r := rand.New(src)

	known := segments.MustFromPairs([2]float64{0, span})

	glitchTimes := make([]float64, glitches)
	pairs := make([][2]float64, glitches)
	for i := range glitchTimes {
		t := r.Float64() * span
		glitchTimes[i] = t
		pairs[i] = [2]float64{t - 0.5, t + 0.5}
	}
	overflow := mustFlag("H1:DMT-ETMY_ESD_DAC_OVERFLOW:1", pairs, known)

	// a flag that is active at random, for comparison
	randomPairs := make([][2]float64, glitches)
	for i := range randomPairs {
		t := r.Float64() * span
		randomPairs[i] = [2]float64{t, t + 2}
	}
	random := mustFlag("H1:RANDOM:1", randomPairs, known)

	// background SNRs follow an exponential tail above threshold
	bg := distuv.Exponential{Rate: 1, Src: src}
	rows := make([][]float64, 0, noise+glitches)
	for range noise {
		rows = append(rows, []float64{r.Float64() * span, 5.5 + bg.Rand()})
	}
	loud := distuv.Uniform{Min: 20, Max: 200, Src: src}
	for _, t := range glitchTimes {
		rows = append(rows, []float64{t + (r.Float64()-0.5)*0.8, loud.Rand()})
	}

	injections := make([]float64, injected)
	for i := range injections {
		injections[i] = r.Float64() * span
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		fail(err)
	}
	for file, f := range map[string]*segments.Flag{"overflow.pb": overflow, "random.pb": random} {
		if err := input.SaveFlag(filepath.Join(outDir, file), f); err != nil {
			fail(err)
		}
	}

	job := map[string]any{
		"flags": map[string]string{
			overflow.Name: "overflow.pb",
			random.Name:   "random.pb",
		},
		"triggers": map[string]any{
			"time_field": "time",
			"columns":    []string{"time", "snr"},
			"rows":       rows,
		},
		"injections": injections,
		"states": map[string]any{
			"first half":  [][2]float64{{0, span / 2}},
			"second half": [][2]float64{{span / 2, span}},
		},
	}
	data, err := json.MarshalIndent(job, "", "  ")
	if err != nil {
		fail(err)
	}
	path := filepath.Join(outDir, "job.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		fail(err)
	}

	fmt.Printf("Wrote %s (%d triggers, %d injections)\n", path, len(rows), len(injections))
}

func mustFlag(name string, pairs [][2]float64, known segments.IntervalSet) *segments.Flag {
	active, err := segments.FromPairs(pairs)
	if err != nil {
		fail(err)
	}
	return segments.NewFlag(name, active.Intersect(known), known)
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
