//go:build mage

package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/patterngen/internal/generate"
	"github.com/pdiddy/patterngen/pkg/types"
)

// patternsFile lists the fragments Patterns regenerates.
const patternsFile = "patterns.yaml"

// patternJob is one entry of patterns.yaml.
type patternJob struct {
	Name    string   `yaml:"name"`
	Dataset string   `yaml:"dataset"`
	Inputs  []string `yaml:"inputs"`
	Output  string   `yaml:"output"`
}

type patternsConfig struct {
	Machine  string                         `yaml:"machine"`
	Datasets map[string]types.DatasetConfig `yaml:"datasets"`
	Patterns []patternJob                   `yaml:"patterns"`
}

// Patterns regenerates the Ragel fragments listed in patterns.yaml. Each
// fragment is written only after its inputs were read in full.
func Patterns() error {
	data, err := os.ReadFile(patternsFile)
	if err != nil {
		return fmt.Errorf("reading %s: %w", patternsFile, err)
	}
	var pc patternsConfig
	if err := yaml.Unmarshal(data, &pc); err != nil {
		return fmt.Errorf("parsing %s: %w", patternsFile, err)
	}

	reg, _, err := types.NewRegistry(types.GeneratorConfig{Machine: pc.Machine, Datasets: pc.Datasets})
	if err != nil {
		return err
	}

	for _, job := range pc.Patterns {
		ds, err := reg.Lookup(job.Dataset)
		if err != nil {
			return fmt.Errorf("pattern %s: %w", job.Name, err)
		}
		req := generate.Request{Name: job.Name, Dataset: ds, Machine: pc.Machine, Inputs: job.Inputs}

		var block bytes.Buffer
		res, err := generate.Run(req, &block, os.Stdout)
		if err != nil {
			return fmt.Errorf("pattern %s: %w", job.Name, err)
		}
		if err := os.MkdirAll(filepath.Dir(job.Output), 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", filepath.Dir(job.Output), err)
		}
		if err := os.WriteFile(job.Output, block.Bytes(), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", job.Output, err)
		}
		fmt.Printf("  %s -> %s (%d tokens)\n", job.Name, job.Output, res.Tokens.Len())
	}
	return nil
}
