// Package history keeps the directories a user has browsed in SQLite.
package history

import (
	"database/sql"
	"embed"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"nordify/internal/errors"
	"nordify/internal/log"
)

//go:embed db/schema.sql
var dbFS embed.FS

// Visit is one row of the history table.
type Visit struct {
	Path        string
	Frequency   int
	LastVisited time.Time
}

// Store records visited directories.
type Store struct {
	db     *sql.DB
	now    func() time.Time
	closed bool
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Open opens (creating if needed) the database at path. An empty path
// opens an in-memory database.
func Open(path string, opts ...Option) (*Store, error) {
	dsn := path
	if dsn == "" {
		dsn = ":memory:"
	} else if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.NewDatabaseError("failed to create history directory", err).
			WithOperation("open").
			WithContext("path", path)
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to open SQLite database", err).
			WithOperation("open").
			WithContext("path", path)
	}
	// One connection keeps an in-memory database alive across calls
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.NewDatabaseError("failed to connect to database", err).WithOperation("open")
	}

	if path != "" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			log.LogWithFields(log.F("path", path)).WithError(err).Warn("failed to enable WAL")
		}
	}

	schema, err := dbFS.ReadFile("db/schema.sql")
	if err != nil {
		db.Close()
		return nil, errors.NewDatabaseError("failed to read schema SQL", err).WithOperation("schema")
	}
	if _, err := db.Exec(string(schema)); err != nil {
		db.Close()
		return nil, errors.NewDatabaseError("failed to initialize database schema", err).WithOperation("schema")
	}

	s := &Store{db: db, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Record counts one visit to dir.
func (s *Store) Record(dir string) error {
	if s.closed {
		return errors.NewDatabaseError("history store is closed", nil).WithOperation("record")
	}
	_, err := s.db.Exec(`
		INSERT INTO history (path, frequency, last_visited) VALUES (?, 1, ?)
		ON CONFLICT(path) DO UPDATE SET
			frequency = frequency + 1,
			last_visited = excluded.last_visited`,
		dir, s.now().UnixNano())
	if err != nil {
		return errors.NewDatabaseError("failed to record visit", err).
			WithOperation("record").
			WithContext("path", dir)
	}
	return nil
}

// Recent returns up to limit visits, most recent first.
func (s *Store) Recent(limit int) ([]Visit, error) {
	return s.query("recent", `
		SELECT path, frequency, last_visited FROM history
		ORDER BY last_visited DESC, id DESC
		LIMIT ?`, limit)
}

// Frecent returns up to limit visits ranked by frequency decayed by the
// hours since the last visit.
func (s *Store) Frecent(limit int) ([]Visit, error) {
	return s.query("frecent", `
		SELECT path, frequency, last_visited FROM history
		ORDER BY frequency * 1.0 / (1.0 + (? - last_visited) / 3600000000000.0) DESC,
			last_visited DESC
		LIMIT ?`, s.now().UnixNano(), limit)
}

func (s *Store) query(operation, query string, args ...interface{}) ([]Visit, error) {
	if s.closed {
		return nil, errors.NewDatabaseError("history store is closed", nil).WithOperation(operation)
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to query history", err).WithOperation(operation)
	}
	defer rows.Close()

	var visits []Visit
	for rows.Next() {
		var v Visit
		var nanos int64
		if err := rows.Scan(&v.Path, &v.Frequency, &nanos); err != nil {
			return nil, errors.NewDatabaseError("failed to scan history row", err).WithOperation(operation)
		}
		v.LastVisited = time.Unix(0, nanos)
		visits = append(visits, v)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDatabaseError("failed to read history", err).WithOperation(operation)
	}
	return visits, nil
}

// Forget removes dir from the history.
func (s *Store) Forget(dir string) error {
	if s.closed {
		return errors.NewDatabaseError("history store is closed", nil).WithOperation("forget")
	}
	if _, err := s.db.Exec("DELETE FROM history WHERE path = ?", dir); err != nil {
		return errors.NewDatabaseError("failed to forget directory", err).
			WithOperation("forget").
			WithContext("path", dir)
	}
	return nil
}

// Prune drops directories that no longer exist and returns how many were removed.
func (s *Store) Prune() (int, error) {
	visits, err := s.Recent(-1)
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, v := range visits {
		if info, err := os.Stat(v.Path); err == nil && info.IsDir() {
			continue
		}
		if err := s.Forget(v.Path); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// Close closes the database. It is safe to call more than once.
func (s *Store) Close() error {
	if s == nil || s.closed {
		return nil
	}
	s.closed = true
	if err := s.db.Close(); err != nil {
		return errors.NewDatabaseError("failed to close database", err).WithOperation("close")
	}
	return nil
}
