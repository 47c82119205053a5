// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog records generated token sets in a SQLite database so a
// pattern can be re-emitted without the source datasets at hand.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/patterngen/internal/extract"
)

// ErrNotFound is returned by Load for an unknown pattern name.
var ErrNotFound = errors.New("pattern not found in catalog")

// Entry is one stored pattern: its token set and how it was produced.
type Entry struct {
	Name            string
	Dataset         string
	Machine         string
	CaseInsensitive bool
	Tokens          extract.TokenSet
	CreatedAt       time.Time
}

// EntryInfo summarizes a stored pattern for listing.
type EntryInfo struct {
	Name      string    `json:"name" yaml:"name"`
	Dataset   string    `json:"dataset" yaml:"dataset"`
	Machine   string    `json:"machine" yaml:"machine"`
	Tokens    int       `json:"tokens" yaml:"tokens"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// Catalog manages the pattern catalog database.
type Catalog struct {
	db *sql.DB
}

// Open opens or creates the catalog at path, creating parent directories
// and the schema as needed.
func Open(path string) (*Catalog, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating catalog directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}

	c := &Catalog{db: db}
	if err := c.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return c, nil
}

// Close releases the database connection.
func (c *Catalog) Close() error {
	return c.db.Close()
}

func (c *Catalog) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS patterns (
			name TEXT PRIMARY KEY,
			dataset TEXT NOT NULL,
			machine TEXT NOT NULL,
			case_insensitive INTEGER NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS tokens (
			pattern TEXT NOT NULL REFERENCES patterns(name) ON DELETE CASCADE,
			token TEXT NOT NULL,
			PRIMARY KEY (pattern, token)
		)`,
	}
	for _, stmt := range statements {
		if _, err := c.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Save stores e, replacing any earlier entry with the same name.
func (c *Catalog) Save(ctx context.Context, e Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM patterns WHERE name = ?`, e.Name); err != nil {
		return fmt.Errorf("deleting old pattern: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO patterns (name, dataset, machine, case_insensitive, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		e.Name, e.Dataset, e.Machine, e.CaseInsensitive,
		e.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting pattern: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO tokens (pattern, token) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for tok := range e.Tokens {
		if _, err := stmt.ExecContext(ctx, e.Name, tok); err != nil {
			return fmt.Errorf("inserting token %q: %w", tok, err)
		}
	}

	return tx.Commit()
}

// Load returns the stored entry for name, or ErrNotFound.
func (c *Catalog) Load(ctx context.Context, name string) (Entry, error) {
	e := Entry{Name: name}
	var created string
	err := c.db.QueryRowContext(ctx,
		`SELECT dataset, machine, case_insensitive, created_at FROM patterns WHERE name = ?`, name,
	).Scan(&e.Dataset, &e.Machine, &e.CaseInsensitive, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	if err != nil {
		return Entry{}, fmt.Errorf("querying pattern %s: %w", name, err)
	}
	e.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)

	rows, err := c.db.QueryContext(ctx, `SELECT token FROM tokens WHERE pattern = ?`, name)
	if err != nil {
		return Entry{}, fmt.Errorf("querying tokens: %w", err)
	}
	defer rows.Close()

	e.Tokens = extract.NewTokenSet()
	for rows.Next() {
		var tok string
		if err := rows.Scan(&tok); err != nil {
			return Entry{}, fmt.Errorf("scanning token: %w", err)
		}
		e.Tokens.Add(tok)
	}
	if err := rows.Err(); err != nil {
		return Entry{}, fmt.Errorf("iterating tokens: %w", err)
	}
	return e, nil
}

// List returns every stored pattern ordered by name.
func (c *Catalog) List(ctx context.Context) ([]EntryInfo, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT p.name, p.dataset, p.machine, p.created_at, count(t.token)
		 FROM patterns p
		 LEFT JOIN tokens t ON t.pattern = p.name
		 GROUP BY p.name
		 ORDER BY p.name`)
	if err != nil {
		return nil, fmt.Errorf("listing patterns: %w", err)
	}
	defer rows.Close()

	var out []EntryInfo
	for rows.Next() {
		var info EntryInfo
		var created string
		if err := rows.Scan(&info.Name, &info.Dataset, &info.Machine, &created, &info.Tokens); err != nil {
			return nil, fmt.Errorf("scanning pattern: %w", err)
		}
		info.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		out = append(out, info)
	}
	return out, rows.Err()
}
