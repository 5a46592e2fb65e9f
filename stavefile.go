//go:build stave

package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/yaklabco/stave/pkg/sh"
	"github.com/yaklabco/stave/pkg/st"
	"github.com/yaklabco/stave/pkg/target"
)

// Default target when running `stave` with no arguments.
var Default = All

// Aliases for common targets.
var Aliases = map[string]interface{}{
	"b": Build,
	"t": Test,
	"l": Lint,
	"c": Clean,
}

const binary = "bin/dqvet"

// All runs lint and test, then builds.
func All() error {
	st.Deps(Init)
	st.Deps(Lint, Test)
	st.Deps(Build)
	return nil
}

// Init ensures the module dependencies are up to date.
func Init() error {
	return sh.Run("go", "mod", "tidy")
}

// Build compiles the dqvet binary with version information.
func Build() error {
	st.Deps(Init)

	rebuild, err := target.Glob(binary, "**/*.go", "go.mod", "go.sum")
	if err != nil {
		return fmt.Errorf("checking rebuild: %w", err)
	}
	if !rebuild {
		if st.Verbose() {
			fmt.Println("dqvet is up to date")
		}
		return nil
	}

	return sh.RunV("go", "build", "-ldflags", buildLdflags(), "-o", binary, "./cmd/dqvet")
}

// buildLdflags returns ldflags for version injection.
func buildLdflags() string {
	version, _ := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	commit, _ := sh.Output("git", "rev-parse", "--short", "HEAD")
	date := time.Now().Format(time.RFC3339)

	return fmt.Sprintf(
		"-X main.version=%s -X main.commit=%s -X main.date=%s",
		strings.TrimSpace(version),
		strings.TrimSpace(commit),
		date,
	)
}

// Test runs all tests with race detection and coverage.
func Test() error {
	st.Deps(Init)
	return sh.RunV("go", "test", "-race", "-cover", "./...")
}

// TestShort runs tests in short mode, skipping the randomized property tests.
func TestShort() error {
	st.Deps(Init)
	return sh.RunV("go", "test", "-short", "-race", "./...")
}

// Properties runs only the randomized interval and veto property tests.
// DQVET_PROP_COUNT repeats them (default 20).
func Properties() error {
	count := os.Getenv("DQVET_PROP_COUNT")
	if count == "" {
		count = "20"
	}
	return sh.RunV("go", "test", "-run", "Properties|CompleteAndOrdered", "-count", count, "./segments", "./triggers")
}

// Lint runs golangci-lint on the codebase.
func Lint() error {
	return sh.RunV("golangci-lint", "run", "./...")
}

// Fmt formats all Go code using gofmt and goimports.
func Fmt() error {
	if err := sh.Run("gofmt", "-w", "."); err != nil {
		return fmt.Errorf("gofmt: %w", err)
	}
	if err := sh.Run("goimports", "-w", "."); err != nil {
		return fmt.Errorf("goimports: %w", err)
	}
	return nil
}

// Vet runs go vet on all packages.
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Clean removes build artifacts.
func Clean() error {
	for _, a := range []string{"bin/", "coverage.out", "coverage.html"} {
		if err := sh.Rm(a); err != nil {
			return fmt.Errorf("removing %s: %w", a, err)
		}
	}
	return nil
}

// Install installs dqvet into GOBIN with the same version information as
// Build.
func Install() error {
	st.Deps(Init)
	return sh.RunV(st.GoCmd(), "install", "-ldflags", buildLdflags(), "./cmd/dqvet")
}

// Fixtures namespace for sample data targets.
type Fixtures st.Namespace

// Generate writes a synthetic job with protobuf flag files to
// testdata/synthetic.
func (Fixtures) Generate() error {
	return sh.RunV("go", "run", "./scripts/gen-fixtures.go")
}

// Demo namespace for running dqvet against a sample job.
// DQVET_JOB selects the job file (default testdata/job.json).
type Demo st.Namespace

// Evaluate prints the built-in metrics for every flag combined.
func (Demo) Evaluate() error {
	st.Deps(Build)
	return sh.RunV(binary, "evaluate", "--job", demoJob(),
		"-m", "deadtime", "-m", "efficiency", "-m", "efficiency/deadtime",
		"-m", "use percentage", "-m", "loudest event by snr", "-m", "safety")
}

// Sweep searches paddings for the flag named by DQVET_FLAG, or all flags.
func (Demo) Sweep() error {
	st.Deps(Build)
	return sh.RunV(binary, "sweep", "--job", demoJob(), "--flag", os.Getenv("DQVET_FLAG"),
		"--pad-max", "4", "--pad-step", "0.5")
}

func demoJob() string {
	if job := os.Getenv("DQVET_JOB"); job != "" {
		return job
	}
	return "testdata/job.json"
}

// CI checks that the module is tidy, then lints, tests and builds, and
// finishes with a demo evaluation of the bundled job as a smoke test.
func CI() error {
	st.Deps(Tidy)
	st.SerialDeps(Vet, Lint, Test, Build, Demo.Evaluate)
	return nil
}

// Check is the pre-commit loop: vet and the short tests of the library
// packages, skipping lint and the CLI.
func Check() error {
	st.Deps(Vet)
	return sh.RunV("go", "test", "-short", ".", "./segments/...", "./triggers/...", "./metric/...")
}

// coverPackages are the packages whose statements count towards coverage.
var coverPackages = []string{".", "./segments", "./triggers", "./metric", "./internal/..."}

// Coverage writes coverage.out and coverage.html for the library packages
// and prints the per-function summary. The CLI is exercised but not counted.
func Coverage() error {
	st.Deps(Init)
	coverpkg := "-coverpkg=" + strings.Join(coverPackages, ",")
	if err := sh.RunV("go", "test", "-covermode=atomic", coverpkg, "-coverprofile=coverage.out", "./..."); err != nil {
		return err
	}
	if err := sh.RunV("go", "tool", "cover", "-func=coverage.out"); err != nil {
		return err
	}
	return sh.Run("go", "tool", "cover", "-html=coverage.out", "-o", "coverage.html")
}

// Tidy fails when go.mod or go.sum would change under go mod tidy. It does
// not modify either file; run Init to apply the changes.
func Tidy() error {
	diff, err := sh.Output("go", "mod", "tidy", "-diff")
	if err != nil {
		return fmt.Errorf("module files are not tidy:\n%s", diff)
	}
	return nil
}
