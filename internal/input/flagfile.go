// Package input loads evaluation jobs and flag files for the dqvet tools.
package input

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jamesainslie/go-dqvet/segments"
)

// ErrUnsupportedFormat indicates a flag file extension that is neither
// protobuf nor JSON.
var ErrUnsupportedFormat = errors.New("input: unsupported flag file format")

// flag file extensions
const (
	extProto  = ".pb"
	extBinary = ".bin"
	extJSON   = ".json"
)

// flagName derives a flag name from a file path: the base name without its
// extension.
func flagName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// LoadFlag reads a flag from a protobuf (.pb, .bin) or JSON (.json) file.
// A flag without a stored name is named after the file.
func LoadFlag(path string) (*segments.Flag, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	f := &segments.Flag{}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case extProto, extBinary:
		err = f.UnmarshalBinary(data)
	case extJSON:
		err = json.Unmarshal(data, f)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}

	if f.Name == "" {
		f.Name = flagName(path)
	}
	return f, nil
}

// SaveFlag writes f to path, choosing the encoding from the extension as
// LoadFlag does.
func SaveFlag(path string, f *segments.Flag) error {
	var (
		data []byte
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case extProto, extBinary:
		data, err = f.MarshalBinary()
	case extJSON:
		data, err = json.MarshalIndent(f, "", "  ")
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", f.Name, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

// LoadFlagDir loads every flag file in dir, keyed by flag name. Files with
// other extensions and subdirectories are skipped.
func LoadFlagDir(dir string) (map[string]*segments.Flag, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}

	flags := make(map[string]*segments.Flag)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case extProto, extBinary, extJSON:
		default:
			continue
		}

		f, err := LoadFlag(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", entry.Name(), err)
		}
		if _, dup := flags[f.Name]; dup {
			return nil, fmt.Errorf("loading %s: %w %q", entry.Name(), ErrDuplicateFlag, f.Name)
		}
		flags[f.Name] = f
	}
	return flags, nil
}
