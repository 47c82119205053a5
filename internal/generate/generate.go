// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package generate runs one pattern generation request end to end: extract
// tokens from the dataset files, then emit the Ragel block.
package generate

import (
	"fmt"
	"io"

	"github.com/pdiddy/patterngen/internal/extract"
	"github.com/pdiddy/patterngen/internal/pattern"
	"github.com/pdiddy/patterngen/pkg/types"
)

// Request describes a single generation.
type Request struct {
	// Name is the left-hand side of the emitted rule, used verbatim.
	Name string

	// Dataset selects the extraction rule and literal quoting.
	Dataset types.DatasetConfig

	// Machine overrides the Ragel machine name when non-empty.
	Machine string

	// Inputs are read in order.
	Inputs []string
}

// Result holds the extracted tokens and what it took to get them.
type Result struct {
	Tokens extract.TokenSet
	Stats  extract.Stats
}

// Run extracts tokens from req.Inputs and writes the pattern block to out.
// Nothing is written to out unless every input was read successfully.
// Progress lines go to log.
func Run(req Request, out, log io.Writer) (Result, error) {
	rule, err := extract.RuleFor(req.Dataset.Rule)
	if err != nil {
		return Result{}, fmt.Errorf("dataset %s: %w", req.Dataset.Name, err)
	}

	tokens, stats, err := extract.ExtractFiles(req.Inputs, rule, log)
	if err != nil {
		return Result{}, err
	}

	if err := pattern.Write(out, req.Name, tokens, pattern.OptionsFor(req.Dataset, req.Machine)); err != nil {
		return Result{}, err
	}

	fmt.Fprintf(log, "emitted: %s (%s, %d files, %d lines, %d tokens)\n",
		req.Name, req.Dataset.Name, stats.Files, stats.Lines, tokens.Len())
	return Result{Tokens: tokens, Stats: stats}, nil
}
