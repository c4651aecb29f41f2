// Package config loads event-study run files.
//
// A run file is YAML or CUE and describes the dataset and the study
// parameters:
//
//	dataset: firms
//	event: ev
//	state: regime
//	panel: firm_id
//	time: year
//	k: 3
//	l: 5
//
// Both formats are validated against the embedded CUE schema (schema.cue)
// before decoding, so type errors carry file positions.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"

	"github.com/roach88/panelstudy/internal/study"
)

//go:embed schema.cue
var schemaCUE string

// File is a decoded run file. Zero values mean "not set".
type File struct {
	Dataset string `json:"dataset,omitempty"`
	Event   string `json:"event,omitempty"`
	State   string `json:"state,omitempty"`
	Panel   string `json:"panel,omitempty"`
	Time    string `json:"time,omitempty"`
	K       *int   `json:"k,omitempty"`
	L       *int   `json:"l,omitempty"`
	Workers *int   `json:"workers,omitempty"`
}

// Load reads and validates a run file. The format is chosen by extension:
// .cue for CUE, .yaml or .yml for YAML.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".cue":
		return Parse(data, path, FormatCUE)
	case ".yaml", ".yml":
		return Parse(data, path, FormatYAML)
	}
	return nil, fmt.Errorf("config %s: unsupported extension (want .cue, .yaml or .yml)", path)
}

// Format identifies a run-file syntax.
type Format int

const (
	FormatYAML Format = iota
	FormatCUE
)

// Parse validates and decodes run-file content. name is used in error
// positions only.
func Parse(data []byte, name string, format Format) (*File, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Study"))

	var v cue.Value
	switch format {
	case FormatCUE:
		v = ctx.CompileBytes(data, cue.Filename(name))
	case FormatYAML:
		raw := map[string]any{}
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("config %s: %w", name, err)
		}
		v = ctx.Encode(raw)
	default:
		return nil, fmt.Errorf("config %s: unknown format %d", name, format)
	}
	if err := v.Err(); err != nil {
		return nil, formatCUEError(name, err)
	}

	unified := def.Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(name, err)
	}

	var f File
	if err := unified.Decode(&f); err != nil {
		return nil, formatCUEError(name, err)
	}
	return &f, nil
}

// Apply copies every field set in f into cfg, replacing what was there.
func (f *File) Apply(cfg *study.Config) {
	for _, s := range []struct {
		dst *string
		src string
	}{
		{&cfg.Event, f.Event},
		{&cfg.State, f.State},
		{&cfg.Panel, f.Panel},
		{&cfg.Time, f.Time},
	} {
		if s.src != "" {
			*s.dst = s.src
		}
	}
	if f.K != nil {
		cfg.K = *f.K
	}
	if f.L != nil {
		cfg.L = *f.L
	}
	if f.Workers != nil {
		cfg.Workers = *f.Workers
	}
}

func formatCUEError(name string, err error) error {
	return fmt.Errorf("config %s: %s", name, strings.TrimSpace(cueerrors.Details(err, nil)))
}
