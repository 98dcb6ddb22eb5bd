// Package history persists the list of recently opened documents and the
// last selected paragraph per document, so reopening a book drops the
// reader where they left off. Only metadata is stored, never translations.
package history

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Entry is one recently opened document.
type Entry struct {
	Path      string
	OpenedAt  time.Time
	LastIndex int
	Target    string
}

// Store is the on-disk reading history.
type Store struct {
	db *sql.DB
}

// DefaultPath returns the history database location following the XDG
// state directory convention.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "biread", "history.db")
}

// Open opens (and if needed creates) the history database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS documents (
		path       TEXT PRIMARY KEY,
		opened_at  INTEGER NOT NULL,
		last_index INTEGER NOT NULL DEFAULT -1,
		target     TEXT NOT NULL DEFAULT ''
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create history schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Touch records that path was opened now, resetting the saved selection for
// documents seen for the first time while keeping it for known ones.
func (s *Store) Touch(path string) error {
	_, err := s.db.Exec(`INSERT INTO documents (path, opened_at) VALUES (?, ?)
		ON CONFLICT(path) DO UPDATE SET opened_at = excluded.opened_at`,
		path, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to record document open: %w", err)
	}
	return nil
}

// SaveIndex stores the currently selected paragraph for path.
func (s *Store) SaveIndex(path string, index int) error {
	_, err := s.db.Exec(`UPDATE documents SET last_index = ? WHERE path = ?`, index, path)
	if err != nil {
		return fmt.Errorf("failed to save selection: %w", err)
	}
	return nil
}

// SaveTarget stores the target language last used for path.
func (s *Store) SaveTarget(path, target string) error {
	_, err := s.db.Exec(`UPDATE documents SET target = ? WHERE path = ?`, target, path)
	if err != nil {
		return fmt.Errorf("failed to save target language: %w", err)
	}
	return nil
}

// LastIndex returns the saved selection for path, or -1 when none exists.
func (s *Store) LastIndex(path string) (int, error) {
	var index int
	err := s.db.QueryRow(`SELECT last_index FROM documents WHERE path = ?`, path).Scan(&index)
	if errors.Is(err, sql.ErrNoRows) {
		return -1, nil
	}
	if err != nil {
		return -1, fmt.Errorf("failed to load selection: %w", err)
	}
	return index, nil
}

// Recent returns up to limit entries, most recently opened first.
func (s *Store) Recent(limit int) ([]Entry, error) {
	rows, err := s.db.Query(`SELECT path, opened_at, last_index, target
		FROM documents ORDER BY opened_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent documents: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var openedAt int64
		if err := rows.Scan(&e.Path, &openedAt, &e.LastIndex, &e.Target); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		e.OpenedAt = time.Unix(openedAt, 0)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Forget removes path from the history, e.g. when the file is gone.
func (s *Store) Forget(path string) error {
	_, err := s.db.Exec(`DELETE FROM documents WHERE path = ?`, path)
	if err != nil {
		return fmt.Errorf("failed to remove history entry: %w", err)
	}
	return nil
}
