// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the patterngen pipeline:
// extraction rules, dataset definitions and generator configuration.
package types

import (
	"fmt"
	"sort"
)

// DefaultMachine is the Ragel machine every emitted block declares. All
// datasets share it so the generated fragments can be included together.
const DefaultMachine = "snitchd_search"

// RuleKind identifies how a token is extracted from one input line.
type RuleKind string

const (
	// RuleFixedWidth takes the first Width characters of each line.
	RuleFixedWidth RuleKind = "fixed_width"
	// RuleFirstField takes the first whitespace-delimited field of each line,
	// keeps it only when it is at least MinLength characters long, and
	// lowercases it.
	RuleFirstField RuleKind = "first_field"
)

// RuleConfig selects and parameterizes an extraction rule.
type RuleConfig struct {
	// Kind is fixed_width or first_field.
	Kind RuleKind `json:"kind" yaml:"kind" mapstructure:"kind"`

	// Width is the prefix length for fixed_width.
	Width int `json:"width,omitempty" yaml:"width,omitempty" mapstructure:"width"`

	// MinLength is the shortest first field kept by first_field.
	MinLength int `json:"min_length,omitempty" yaml:"min_length,omitempty" mapstructure:"min_length"`
}

// Validate reports whether the rule is complete for its kind.
func (r RuleConfig) Validate() error {
	switch r.Kind {
	case RuleFixedWidth:
		if r.Width <= 0 {
			return fmt.Errorf("fixed_width rule needs a positive width, got %d", r.Width)
		}
	case RuleFirstField:
		if r.MinLength < 0 {
			return fmt.Errorf("first_field rule needs a non-negative min_length, got %d", r.MinLength)
		}
	case "":
		return fmt.Errorf("rule kind is required")
	default:
		return fmt.Errorf("unknown rule kind %q: use fixed_width or first_field", r.Kind)
	}
	return nil
}

// DatasetConfig describes one reference dataset: how tokens are pulled out
// of its lines and whether the emitted literals match case-insensitively.
type DatasetConfig struct {
	// Name identifies the dataset on the command line (e.g. "ach").
	Name string `json:"name" yaml:"name" mapstructure:"name"`

	// Rule is the per-line extraction rule.
	Rule RuleConfig `json:"rule" yaml:"rule" mapstructure:"rule"`

	// CaseInsensitive appends Ragel's i flag to every emitted literal.
	CaseInsensitive bool `json:"case_insensitive" yaml:"case_insensitive" mapstructure:"case_insensitive"`
}

// Preset datasets.
var (
	// ACHDataset reads the Fed ACH routing directory (FedACHdir.txt); each
	// record starts with a 9-digit routing number.
	ACHDataset = DatasetConfig{
		Name:            "ach",
		Rule:            RuleConfig{Kind: RuleFixedWidth, Width: 9},
		CaseInsensitive: false,
	}

	// NamesDataset reads census name lists (dist.all.last and friends). The
	// first column is the name; names of four characters or fewer are dropped.
	NamesDataset = DatasetConfig{
		Name:            "names",
		Rule:            RuleConfig{Kind: RuleFirstField, MinLength: 5},
		CaseInsensitive: true,
	}
)

// GeneratorConfig holds settings loaded from patterngen.yaml.
type GeneratorConfig struct {
	// Machine is the Ragel machine name declared in every block.
	Machine string `json:"machine" yaml:"machine" mapstructure:"machine"`

	// Catalog is the path of the SQLite catalog; empty disables it.
	Catalog string `json:"catalog,omitempty" yaml:"catalog,omitempty" mapstructure:"catalog"`

	// Datasets adds user-defined datasets keyed by name.
	Datasets map[string]DatasetConfig `json:"datasets,omitempty" yaml:"datasets,omitempty" mapstructure:"datasets"`
}

// Registry maps dataset names to their definitions.
type Registry map[string]DatasetConfig

// NewRegistry returns the preset datasets merged with the datasets from cfg.
// A configured dataset whose name matches a preset replaces the preset; the
// names of replaced presets are returned so the caller can report them.
func NewRegistry(cfg GeneratorConfig) (Registry, []string, error) {
	reg := Registry{
		ACHDataset.Name:   ACHDataset,
		NamesDataset.Name: NamesDataset,
	}

	names := make([]string, 0, len(cfg.Datasets))
	for name := range cfg.Datasets {
		names = append(names, name)
	}
	sort.Strings(names)

	var replaced []string
	for _, name := range names {
		ds := cfg.Datasets[name]
		ds.Name = name
		if err := ds.Rule.Validate(); err != nil {
			return nil, nil, fmt.Errorf("dataset %s: %w", name, err)
		}
		if _, ok := reg[name]; ok {
			replaced = append(replaced, name)
		}
		reg[name] = ds
	}
	return reg, replaced, nil
}

// Lookup returns the dataset registered under name.
func (r Registry) Lookup(name string) (DatasetConfig, error) {
	ds, ok := r[name]
	if !ok {
		return DatasetConfig{}, fmt.Errorf("unknown dataset %q: available: %v", name, r.Names())
	}
	return ds, nil
}

// Names returns the registered dataset names in sorted order.
func (r Registry) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
