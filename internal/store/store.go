// Package store persists a named-expression library to SQLite, grounded on
// randalmurphal-flowgraph's pkg/flowgraph/checkpoint/sqlite.go. This backs
// the CLI's `feel save`/`feel run` subcommands (SPEC_FULL.md §3); it is
// unrelated to, and not a substitute for, the persistent-AST-cache
// non-goal of spec.md §1.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

var (
	ErrNotFound    = errors.New("store: expression not found")
	ErrStoreClosed = errors.New("store: closed")
)

// Entry is one saved named expression.
type Entry struct {
	Name      string
	Text      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Library is an on-disk collection of named FEEL expressions.
type Library struct {
	db     *sql.DB
	closed bool
}

// Open opens (creating if needed) a SQLite-backed Library at path. Use
// ":memory:" for an ephemeral in-process library.
func Open(path string) (*Library, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS expressions (
			name TEXT PRIMARY KEY,
			text TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	return &Library{db: db}, nil
}

// Save inserts or updates the named expression's text.
func (l *Library) Save(name, text string) error {
	if l.closed {
		return ErrStoreClosed
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := l.db.Exec(`
		INSERT INTO expressions (name, text, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			text = excluded.text,
			updated_at = excluded.updated_at
	`, name, text, now, now)
	if err != nil {
		return fmt.Errorf("save expression %q: %w", name, err)
	}
	return nil
}

// Load fetches a saved expression's text by name.
func (l *Library) Load(name string) (Entry, error) {
	if l.closed {
		return Entry{}, ErrStoreClosed
	}
	var e Entry
	var created, updated string
	e.Name = name
	err := l.db.QueryRow(`
		SELECT text, created_at, updated_at FROM expressions WHERE name = ?
	`, name).Scan(&e.Text, &created, &updated)
	if err == sql.ErrNoRows {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, fmt.Errorf("load expression %q: %w", name, err)
	}
	e.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
	e.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
	return e, nil
}

// List returns every saved expression, most recently updated first.
func (l *Library) List() ([]Entry, error) {
	if l.closed {
		return nil, ErrStoreClosed
	}
	rows, err := l.db.Query(`
		SELECT name, text, created_at, updated_at FROM expressions ORDER BY updated_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list expressions: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var created, updated string
		if err := rows.Scan(&e.Name, &e.Text, &created, &updated); err != nil {
			return nil, fmt.Errorf("scan expression: %w", err)
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		e.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expressions: %w", err)
	}
	return out, nil
}

// Delete removes a saved expression; it is not an error to delete a name
// that does not exist.
func (l *Library) Delete(name string) error {
	if l.closed {
		return ErrStoreClosed
	}
	if _, err := l.db.Exec(`DELETE FROM expressions WHERE name = ?`, name); err != nil {
		return fmt.Errorf("delete expression %q: %w", name, err)
	}
	return nil
}

func (l *Library) Close() error {
	l.closed = true
	return l.db.Close()
}
