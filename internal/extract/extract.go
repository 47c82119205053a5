// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract turns line-oriented reference datasets into a set of
// unique tokens using a per-dataset extraction rule.
package extract

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/patterngen/pkg/types"
)

// maxLineSize bounds a single input line. Longer lines fail the read.
const maxLineSize = 16 << 20

// Rule pulls at most one token out of a line. The line excludes its
// terminator. ok is false when the line contributes nothing.
type Rule interface {
	Token(line string) (token string, ok bool)
}

// FixedWidth keeps the first Width characters of every line. Shorter lines,
// including empty ones, contribute whatever prefix they have.
type FixedWidth struct {
	Width int
}

// Token implements Rule.
func (r FixedWidth) Token(line string) (string, bool) {
	n := 0
	for i := range line {
		if n == r.Width {
			return line[:i], true
		}
		n++
	}
	return line, true
}

// FirstField keeps the first whitespace-delimited field of a line, lowercased,
// when it is at least MinLength characters long. Blank lines are skipped.
type FirstField struct {
	MinLength int
}

// Token implements Rule.
func (r FirstField) Token(line string) (string, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", false
	}
	field := fields[0]
	if utf8.RuneCountInString(field) < r.MinLength {
		return "", false
	}
	return strings.ToLower(field), true
}

// RuleFor builds the Rule described by cfg.
func RuleFor(cfg types.RuleConfig) (Rule, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Kind {
	case types.RuleFixedWidth:
		return FixedWidth{Width: cfg.Width}, nil
	default:
		return FirstField{MinLength: cfg.MinLength}, nil
	}
}

// TokenSet holds unique tokens. The zero value is not usable; use NewTokenSet.
type TokenSet map[string]struct{}

// NewTokenSet returns an empty set, optionally seeded with tokens.
func NewTokenSet(tokens ...string) TokenSet {
	s := make(TokenSet, len(tokens))
	for _, t := range tokens {
		s.Add(t)
	}
	return s
}

// Add inserts token and reports whether it was new.
func (s TokenSet) Add(token string) bool {
	if _, ok := s[token]; ok {
		return false
	}
	s[token] = struct{}{}
	return true
}

// Contains reports whether token is in the set.
func (s TokenSet) Contains(token string) bool {
	_, ok := s[token]
	return ok
}

// Len returns the number of unique tokens.
func (s TokenSet) Len() int {
	return len(s)
}

// Sorted returns the tokens in ascending byte order.
func (s TokenSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Stats counts what happened to the lines of one or more inputs.
type Stats struct {
	Files      int
	Lines      int
	Kept       int
	Duplicates int
	Skipped    int
}

func (s *Stats) add(o Stats) {
	s.Files += o.Files
	s.Lines += o.Lines
	s.Kept += o.Kept
	s.Duplicates += o.Duplicates
	s.Skipped += o.Skipped
}

// ExtractReader applies rule to every line of r, adding tokens to set.
func ExtractReader(r io.Reader, rule Rule, set TokenSet) (Stats, error) {
	var st Stats
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for sc.Scan() {
		st.Lines++
		token, ok := rule.Token(sc.Text())
		if !ok {
			st.Skipped++
			continue
		}
		if set.Add(token) {
			st.Kept++
		} else {
			st.Duplicates++
		}
	}
	if err := sc.Err(); err != nil {
		return st, err
	}
	return st, nil
}

// ExtractFiles reads every path in order and returns the combined token set.
// The first open or read failure aborts extraction; no partial set is
// returned. Per-file statistics are written to w.
func ExtractFiles(paths []string, rule Rule, w io.Writer) (TokenSet, Stats, error) {
	set := NewTokenSet()
	var total Stats
	for _, path := range paths {
		st, err := extractFile(path, rule, set)
		if err != nil {
			return nil, Stats{}, err
		}
		fmt.Fprintf(w, "read: %s (%d lines, %d new tokens, %d duplicates, %d skipped)\n",
			path, st.Lines, st.Kept, st.Duplicates, st.Skipped)
		total.add(st)
	}
	return set, total, nil
}

func extractFile(path string, rule Rule, set TokenSet) (Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return Stats{}, fmt.Errorf("opening input: %w", err)
	}
	defer f.Close()

	st, err := ExtractReader(f, rule, set)
	if err != nil {
		return Stats{}, fmt.Errorf("reading %s: %w", path, err)
	}
	st.Files = 1
	return st, nil
}
