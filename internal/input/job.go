package input

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/samber/lo"

	vet "github.com/jamesainslie/go-dqvet"
	"github.com/jamesainslie/go-dqvet/segments"
	"github.com/jamesainslie/go-dqvet/triggers"
)

var (
	// ErrNoFlags indicates a job without any flags.
	ErrNoFlags = errors.New("input: job has no flags")

	// ErrDuplicateFlag indicates a flag name defined by more than one source.
	ErrDuplicateFlag = errors.New("input: duplicate flag")
)

// Job is everything needed to evaluate a set of flags.
type Job struct {
	Flags      map[string]*segments.Flag
	Triggers   *triggers.Set // nil when the job has no triggers
	Injections []float64
	States     []vet.State // sorted by name
}

// jobFile is the on-disk layout of a job.
//
//	{
//	  "flags": {"NAME": {"active": [[s, e]], "known": [[s, e]]} | "flag.pb"},
//	  "triggers": {"time_field": "time", "columns": ["time", "snr"], "rows": [[1.5, 8.2]]},
//	  "injections": [12.5],
//	  "states": {"science": [[0, 100]]}
//	}
type jobFile struct {
	Flags      map[string]json.RawMessage      `json:"flags"`
	Triggers   *triggerTable                   `json:"triggers"`
	Injections []float64                       `json:"injections"`
	States     map[string]segments.IntervalSet `json:"states"`
}

type triggerTable struct {
	TimeField string   `json:"time_field"`
	Columns   []string `json:"columns"`
	Rows      [][]any  `json:"rows"`
}

// LoadJob reads a job file. Flag file references are resolved relative to
// the job file's directory.
func LoadJob(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	job, err := ParseJob(data, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return job, nil
}

// Load builds a job from an optional job file plus the flag files in each of
// flagDirs. A flag name defined twice across all sources is an error.
func Load(jobPath string, flagDirs ...string) (*Job, error) {
	job := &Job{Flags: make(map[string]*segments.Flag)}
	if jobPath != "" {
		var err error
		if job, err = LoadJob(jobPath); err != nil {
			return nil, err
		}
	}
	for _, dir := range flagDirs {
		flags, err := LoadFlagDir(dir)
		if err != nil {
			return nil, fmt.Errorf("flag dir %s: %w", dir, err)
		}
		if err := job.AddFlags(flags); err != nil {
			return nil, fmt.Errorf("flag dir %s: %w", dir, err)
		}
	}
	if len(job.Flags) == 0 {
		return nil, ErrNoFlags
	}
	return job, nil
}

// ParseJob decodes a job, resolving relative flag file references against
// baseDir.
func ParseJob(data []byte, baseDir string) (*Job, error) {
	var raw jobFile
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	dec.DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode job: %w", err)
	}
	if len(raw.Flags) == 0 {
		return nil, ErrNoFlags
	}

	job := &Job{
		Flags:      make(map[string]*segments.Flag, len(raw.Flags)),
		Injections: raw.Injections,
	}
	for name, msg := range raw.Flags {
		f, err := parseFlag(name, msg, baseDir)
		if err != nil {
			return nil, fmt.Errorf("flag %q: %w", name, err)
		}
		job.Flags[name] = f
	}

	if raw.Triggers != nil {
		cols := raw.Triggers.Columns
		if len(cols) == 0 {
			cols = []string{lo.CoalesceOrEmpty(raw.Triggers.TimeField, triggers.DefaultTimeField)}
		}
		set, err := triggers.FromTable(raw.Triggers.TimeField, cols, raw.Triggers.Rows)
		if err != nil {
			return nil, fmt.Errorf("triggers: %w", err)
		}
		job.Triggers = set
	}

	stateNames := lo.Keys(raw.States)
	slices.Sort(stateNames)
	job.States = lo.Map(stateNames, func(name string, _ int) vet.State {
		return vet.State{Name: name, Segments: raw.States[name]}
	})

	return job, nil
}

// parseFlag decodes an inline flag object or loads a referenced flag file.
// The job's key names the flag in both cases.
func parseFlag(name string, msg json.RawMessage, baseDir string) (*segments.Flag, error) {
	var ref string
	if err := json.Unmarshal(msg, &ref); err == nil {
		if !filepath.IsAbs(ref) {
			ref = filepath.Join(baseDir, ref)
		}
		f, err := LoadFlag(ref)
		if err != nil {
			return nil, err
		}
		f.Name = name
		return f, nil
	}

	f := &segments.Flag{}
	if err := json.Unmarshal(msg, f); err != nil {
		return nil, err
	}
	f.Name = name
	return f, nil
}

// AddFlags adds flags to the job. Nothing is added if any name is already
// taken.
func (j *Job) AddFlags(flags map[string]*segments.Flag) error {
	names := lo.Keys(flags)
	slices.Sort(names)
	for _, n := range names {
		if _, dup := j.Flags[n]; dup {
			return fmt.Errorf("%w %q", ErrDuplicateFlag, n)
		}
	}
	if j.Flags == nil {
		j.Flags = make(map[string]*segments.Flag, len(flags))
	}
	for _, n := range names {
		j.Flags[n] = flags[n]
	}
	return nil
}

// Names returns the job's flag names in sorted order.
func (j *Job) Names() []string {
	names := lo.Keys(j.Flags)
	slices.Sort(names)
	return names
}

// Flag resolves a flag name or a combination expression such as "A | B"
// against the job's flags. An empty expression combines every flag by union.
func (j *Job) Flag(expr string) (*segments.Flag, error) {
	if expr == "" {
		flags := lo.Map(j.Names(), func(n string, _ int) *segments.Flag { return j.Flags[n] })
		return segments.CombineFlags(segments.CombineUnion, flags...)
	}
	return segments.Resolve(expr, j.Flags)
}

// Select returns the named flags in the given order.
func (j *Job) Select(names ...string) ([]*segments.Flag, error) {
	out := make([]*segments.Flag, len(names))
	for i, n := range names {
		f, ok := j.Flags[n]
		if !ok {
			return nil, fmt.Errorf("%w: %q", segments.ErrUnknownFlag, n)
		}
		out[i] = f
	}
	return out, nil
}
