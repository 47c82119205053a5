// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/patterngen/pkg/types"
)

// Manifest is the on-disk record of one generation run. Build scripts keep
// it next to the .rl fragment to see which inputs produced it.
type Manifest struct {
	Pattern         string           `yaml:"pattern"`
	Machine         string           `yaml:"machine"`
	Dataset         string           `yaml:"dataset"`
	Rule            types.RuleConfig `yaml:"rule"`
	CaseInsensitive bool             `yaml:"case_insensitive"`
	Inputs          []string         `yaml:"inputs"`
	Summary         ManifestSummary  `yaml:"summary"`
	Tokens          []string         `yaml:"tokens"`
}

// ManifestSummary stores line and token counts and a timestamp.
type ManifestSummary struct {
	Lines      int       `yaml:"lines"`
	Tokens     int       `yaml:"tokens"`
	Duplicates int       `yaml:"duplicates"`
	Skipped    int       `yaml:"skipped"`
	Timestamp  time.Time `yaml:"timestamp"`
}

// NewManifest builds the manifest for a finished run.
func NewManifest(req Request, res Result) Manifest {
	machine := req.Machine
	if machine == "" {
		machine = types.DefaultMachine
	}
	inputs := req.Inputs
	if inputs == nil {
		inputs = []string{}
	}
	return Manifest{
		Pattern:         req.Name,
		Machine:         machine,
		Dataset:         req.Dataset.Name,
		Rule:            req.Dataset.Rule,
		CaseInsensitive: req.Dataset.CaseInsensitive,
		Inputs:          inputs,
		Summary: ManifestSummary{
			Lines:      res.Stats.Lines,
			Tokens:     res.Tokens.Len(),
			Duplicates: res.Stats.Duplicates,
			Skipped:    res.Stats.Skipped,
			Timestamp:  time.Now().UTC(),
		},
		Tokens: res.Tokens.Sorted(),
	}
}

// WriteManifest saves m to path as YAML.
func WriteManifest(path string, m Manifest) error {
	data, err := yaml.Marshal(&m)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}

// ReadManifest loads a manifest written by WriteManifest.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	return &m, nil
}
