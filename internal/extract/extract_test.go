// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/patterngen/pkg/types"
)

func writeInput(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFixedWidthToken(t *testing.T) {
	rule := FixedWidth{Width: 9}
	tests := []struct {
		name string
		line string
		want string
	}{
		{name: "long line is truncated", line: "123456789extra", want: "123456789"},
		{name: "exact width", line: "011000015", want: "011000015"},
		{name: "short line is not padded", line: "42", want: "42"},
		{name: "empty line gives empty token", line: "", want: ""},
		{name: "fedach record", line: "011000015O0110000150020802000000000FEDERAL RESERVE BANK", want: "011000015"},
		{name: "counts characters not bytes", line: "ééééééééééé", want: "ééééééééé"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := rule.Token(tt.line)
			assert.True(t, ok, "fixed width never skips a line")
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFirstFieldToken(t *testing.T) {
	rule := FirstField{MinLength: 5}
	tests := []struct {
		name   string
		line   string
		want   string
		wantOK bool
	}{
		{name: "qualifying name is lowercased", line: "ALICE 1985 F", want: "alice", wantOK: true},
		{name: "mixed case", line: "Alice 1990 F", want: "alice", wantOK: true},
		{name: "four characters are filtered", line: "JOHN 3.271 3.271 1", wantOK: false},
		{name: "three characters are filtered", line: "Bob 1991 M", wantOK: false},
		{name: "leading whitespace is ignored", line: "  \tMARGARET   0.768", want: "margaret", wantOK: true},
		{name: "blank line is skipped", line: "", wantOK: false},
		{name: "whitespace only line is skipped", line: " \t  ", wantOK: false},
		{name: "single field", line: "PATRICIA", want: "patricia", wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := rule.Token(tt.line)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRuleFor(t *testing.T) {
	rule, err := RuleFor(types.ACHDataset.Rule)
	require.NoError(t, err)
	assert.Equal(t, FixedWidth{Width: 9}, rule)

	rule, err = RuleFor(types.NamesDataset.Rule)
	require.NoError(t, err)
	assert.Equal(t, FirstField{MinLength: 5}, rule)

	_, err = RuleFor(types.RuleConfig{Kind: "suffix"})
	require.Error(t, err)
}

func TestTokenSet(t *testing.T) {
	s := NewTokenSet("b", "a", "b")
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Contains("a"))
	assert.False(t, s.Contains("c"))

	assert.True(t, s.Add("c"))
	assert.False(t, s.Add("c"))
	assert.Equal(t, []string{"a", "b", "c"}, s.Sorted())

	assert.Empty(t, NewTokenSet().Sorted())
}

func TestExtractReader(t *testing.T) {
	t.Run("fixed width dedups and keeps empty lines", func(t *testing.T) {
		set := NewTokenSet()
		st, err := ExtractReader(strings.NewReader("011000015\n011000015\n\n021000089xyz\n"), FixedWidth{Width: 9}, set)
		require.NoError(t, err)
		assert.Equal(t, []string{"", "011000015", "021000089"}, set.Sorted())
		assert.Equal(t, Stats{Lines: 4, Kept: 3, Duplicates: 1}, st)
	})

	t.Run("crlf terminators are stripped", func(t *testing.T) {
		set := NewTokenSet()
		_, err := ExtractReader(strings.NewReader("42\r\n7\r\n"), FixedWidth{Width: 9}, set)
		require.NoError(t, err)
		assert.Equal(t, []string{"42", "7"}, set.Sorted())
	})

	t.Run("last line without terminator", func(t *testing.T) {
		set := NewTokenSet()
		_, err := ExtractReader(strings.NewReader("MARGARET 1\nDOROTHY 2"), FirstField{MinLength: 5}, set)
		require.NoError(t, err)
		assert.Equal(t, []string{"dorothy", "margaret"}, set.Sorted())
	})

	t.Run("case folding merges names", func(t *testing.T) {
		set := NewTokenSet()
		st, err := ExtractReader(strings.NewReader("Alice 1990 F\nBob 1991 M\nALICE 1985 F\n\n"), FirstField{MinLength: 5}, set)
		require.NoError(t, err)
		assert.Equal(t, []string{"alice"}, set.Sorted())
		assert.Equal(t, Stats{Lines: 4, Kept: 1, Duplicates: 1, Skipped: 2}, st)
	})

	t.Run("empty input", func(t *testing.T) {
		set := NewTokenSet()
		st, err := ExtractReader(strings.NewReader(""), FixedWidth{Width: 9}, set)
		require.NoError(t, err)
		assert.Equal(t, 0, set.Len())
		assert.Equal(t, Stats{}, st)
	})

	t.Run("line over the size limit fails", func(t *testing.T) {
		huge := strings.Repeat("9", maxLineSize+1)
		_, err := ExtractReader(strings.NewReader(huge), FixedWidth{Width: 9}, NewTokenSet())
		require.Error(t, err)
	})
}

func TestExtractFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeInput(t, dir, "a.txt", "021000089\n011000015\n")
	b := writeInput(t, dir, "b.txt", "011000015\n091000019\n")

	var log bytes.Buffer
	set, st, err := ExtractFiles([]string{a, b}, FixedWidth{Width: 9}, &log)
	require.NoError(t, err)
	assert.Equal(t, []string{"011000015", "021000089", "091000019"}, set.Sorted())
	assert.Equal(t, Stats{Files: 2, Lines: 4, Kept: 3, Duplicates: 1}, st)
	assert.Contains(t, log.String(), "read: "+a)
	assert.Contains(t, log.String(), "read: "+b)
}

func TestExtractFilesNoInputs(t *testing.T) {
	set, st, err := ExtractFiles(nil, FirstField{MinLength: 5}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())
	assert.Equal(t, Stats{}, st)
}

func TestExtractFilesMissingInput(t *testing.T) {
	dir := t.TempDir()
	good := writeInput(t, dir, "good.txt", "011000015\n")
	missing := filepath.Join(dir, "missing.txt")

	set, _, err := ExtractFiles([]string{good, missing, good}, FixedWidth{Width: 9}, io.Discard)
	require.Error(t, err)
	assert.Nil(t, set, "no partial result on failure")
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "missing.txt")
}

func TestExtractFilesOrderIndependent(t *testing.T) {
	dir := t.TempDir()
	a := writeInput(t, dir, "a.txt", "Alice 1990 F\nMARGARET 1\n")
	b := writeInput(t, dir, "b.txt", "ALICE 1985 F\nDorothy 2\n")
	// Same multiset of lines, reshuffled between files.
	c := writeInput(t, dir, "c.txt", "Dorothy 2\nALICE 1985 F\n")
	d := writeInput(t, dir, "d.txt", "MARGARET 1\nAlice 1990 F\n")

	rule := FirstField{MinLength: 5}
	first, _, err := ExtractFiles([]string{a, b}, rule, io.Discard)
	require.NoError(t, err)
	second, _, err := ExtractFiles([]string{b, a}, rule, io.Discard)
	require.NoError(t, err)
	third, _, err := ExtractFiles([]string{c, d}, rule, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, first.Sorted(), second.Sorted())
	assert.Equal(t, first.Sorted(), third.Sorted())
	assert.Equal(t, []string{"alice", "dorothy", "margaret"}, first.Sorted())
}
