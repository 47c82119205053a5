// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pattern renders a token set as a named Ragel alternation:
//
//	%%{
//	machine snitchd_search;
//	routing_number = ("011000015" | "021000089");
//	}%%
//
// Literals are written between double quotes without escaping. Tokens must
// not contain double quotes, backslashes or line breaks. The reference
// datasets (routing digits, alphabetic names) never do and the emitter does
// not check.
package pattern

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pdiddy/patterngen/pkg/types"
)

const (
	blockOpen  = "%%{"
	blockClose = "}%%"
	alternate  = " | "

	// caseFlag makes a Ragel literal match case-insensitively.
	caseFlag = "i"
)

// Options controls how literals are quoted and which machine the block
// belongs to.
type Options struct {
	// Machine is the Ragel machine name. Empty means types.DefaultMachine.
	Machine string

	// CaseInsensitive appends the i flag to every literal.
	CaseInsensitive bool
}

// OptionsFor returns the emitter options for a dataset.
func OptionsFor(ds types.DatasetConfig, machine string) Options {
	return Options{Machine: machine, CaseInsensitive: ds.CaseInsensitive}
}

func (o Options) machine() string {
	if o.Machine == "" {
		return types.DefaultMachine
	}
	return o.Machine
}

// Render returns the complete block for tokens. Tokens are emitted in
// ascending byte order regardless of their order in the slice; duplicates
// are the caller's concern.
func Render(name string, tokens []string, opts Options) string {
	sorted := append([]string(nil), tokens...)
	sort.Strings(sorted)

	var b strings.Builder
	b.WriteString(blockOpen + "\n")
	fmt.Fprintf(&b, "machine %s;\n", opts.machine())
	fmt.Fprintf(&b, "%s = (", name)
	for i, tok := range sorted {
		if i > 0 {
			b.WriteString(alternate)
		}
		b.WriteByte('"')
		b.WriteString(tok)
		b.WriteByte('"')
		if opts.CaseInsensitive {
			b.WriteString(caseFlag)
		}
	}
	b.WriteString(");\n")
	b.WriteString(blockClose + "\n")
	return b.String()
}

// TokenSource is anything that can list its tokens in sorted order, such as
// extract.TokenSet.
type TokenSource interface {
	Sorted() []string
}

// Write renders the block for src and writes it to w in a single call.
func Write(w io.Writer, name string, src TokenSource, opts Options) error {
	if _, err := io.WriteString(w, Render(name, src.Sorted(), opts)); err != nil {
		return fmt.Errorf("writing pattern %s: %w", name, err)
	}
	return nil
}
