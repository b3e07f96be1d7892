// Package history records past compile and run cycles in a local SQLite
// database. The execution core never touches it; the CLI records entries
// after each cycle and reads them back for `umlc history`.
package history

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when no entry matches the requested id.
var ErrNotFound = errors.New("history entry not found")

// Entry is one recorded compile or run cycle.
type Entry struct {
	ID          string        `json:"id" yaml:"id"`
	Kind        string        `json:"kind" yaml:"kind"` // "run" or "compile"
	Language    string        `json:"language" yaml:"language"`
	Source      string        `json:"source" yaml:"source"`
	Fingerprint string        `json:"fingerprint" yaml:"fingerprint"`
	Success     bool          `json:"success" yaml:"success"`
	ExitCode    int           `json:"exit_code" yaml:"exit_code"`
	TimedOut    bool          `json:"timed_out" yaml:"timed_out"`
	Duration    time.Duration `json:"duration" yaml:"duration"`
	Stdout      string        `json:"stdout,omitempty" yaml:"stdout,omitempty"`
	Stderr      string        `json:"stderr,omitempty" yaml:"stderr,omitempty"`
	Detail      string        `json:"detail,omitempty" yaml:"detail,omitempty"`
	CreatedAt   time.Time     `json:"created_at" yaml:"created_at"`
}

const schema = `
CREATE TABLE IF NOT EXISTS executions (
	id          TEXT PRIMARY KEY,
	kind        TEXT NOT NULL,
	language    TEXT NOT NULL,
	source      TEXT NOT NULL,
	fingerprint TEXT NOT NULL DEFAULT '',
	success     INTEGER NOT NULL,
	exit_code   INTEGER NOT NULL,
	timed_out   INTEGER NOT NULL,
	duration_ms INTEGER NOT NULL,
	stdout      BLOB,
	stderr      BLOB,
	detail      TEXT NOT NULL DEFAULT '',
	created_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_executions_created ON executions(created_at);
`

// Store is a run-history database. Safe for use from one process; SQLite
// serializes writers itself.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the history database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating history dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening history db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing history db: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts one entry. A missing ID or timestamp is filled in.
func (s *Store) Record(e *Entry) error {
	if e.ID == "" {
		e.ID = NewID()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	stdout, err := encodeBlob(e.Stdout)
	if err != nil {
		return err
	}
	stderr, err := encodeBlob(e.Stderr)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`
		INSERT INTO executions
			(id, kind, language, source, fingerprint, success, exit_code,
			 timed_out, duration_ms, stdout, stderr, detail, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Kind, e.Language, e.Source, e.Fingerprint,
		boolInt(e.Success), e.ExitCode, boolInt(e.TimedOut),
		e.Duration.Milliseconds(), stdout, stderr, e.Detail,
		e.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("recording history entry: %w", err)
	}
	return nil
}

// List returns the most recent entries, newest first. Output blobs are not
// decoded; use Get for the full entry.
func (s *Store) List(limit int) ([]*Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(`
		SELECT id, kind, language, source, fingerprint, success, exit_code,
		       timed_out, duration_ms, detail, created_at
		FROM executions ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		e, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Get returns one entry with its captured output, by full id or unique
// prefix.
func (s *Store) Get(id string) (*Entry, error) {
	row := s.db.QueryRow(`
		SELECT id, kind, language, source, fingerprint, success, exit_code,
		       timed_out, duration_ms, stdout, stderr, detail, created_at
		FROM executions WHERE id = ? OR id LIKE ?
		ORDER BY created_at DESC LIMIT 1`, id, likePrefix(id))

	e := &Entry{}
	var success, timedOut int
	var durationMS, createdAt int64
	var stdout, stderr []byte
	err := row.Scan(&e.ID, &e.Kind, &e.Language, &e.Source, &e.Fingerprint,
		&success, &e.ExitCode, &timedOut, &durationMS,
		&stdout, &stderr, &e.Detail, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("reading history entry: %w", err)
	}

	e.Success = success != 0
	e.TimedOut = timedOut != 0
	e.Duration = time.Duration(durationMS) * time.Millisecond
	e.CreatedAt = time.UnixMilli(createdAt)
	if e.Stdout, err = decodeBlob(stdout); err != nil {
		return nil, err
	}
	if e.Stderr, err = decodeBlob(stderr); err != nil {
		return nil, err
	}
	return e, nil
}

// Clear removes every entry and reports how many were deleted.
func (s *Store) Clear() (int64, error) {
	res, err := s.db.Exec(`DELETE FROM executions`)
	if err != nil {
		return 0, fmt.Errorf("clearing history: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// Cleanup enforces the retention policy: entries older than the window go,
// then the table is trimmed to maxEntries newest. Zero disables either
// bound.
func (s *Store) Cleanup(retention time.Duration, maxEntries int) (int64, error) {
	var total int64

	if retention > 0 {
		cutoff := time.Now().Add(-retention).UnixMilli()
		res, err := s.db.Exec(`DELETE FROM executions WHERE created_at < ?`, cutoff)
		if err != nil {
			return total, fmt.Errorf("history cleanup: %w", err)
		}
		n, _ := res.RowsAffected()
		total += n
	}

	if maxEntries > 0 {
		res, err := s.db.Exec(`
			DELETE FROM executions WHERE id NOT IN (
				SELECT id FROM executions
				ORDER BY created_at DESC, id LIMIT ?
			)`, maxEntries)
		if err != nil {
			return total, fmt.Errorf("history cleanup: %w", err)
		}
		n, _ := res.RowsAffected()
		total += n
	}
	return total, nil
}

func scanSummary(rows *sql.Rows) (*Entry, error) {
	e := &Entry{}
	var success, timedOut int
	var durationMS, createdAt int64
	err := rows.Scan(&e.ID, &e.Kind, &e.Language, &e.Source, &e.Fingerprint,
		&success, &e.ExitCode, &timedOut, &durationMS, &e.Detail, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("reading history entry: %w", err)
	}
	e.Success = success != 0
	e.TimedOut = timedOut != 0
	e.Duration = time.Duration(durationMS) * time.Millisecond
	e.CreatedAt = time.UnixMilli(createdAt)
	return e, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func likePrefix(id string) string {
	return strings.ReplaceAll(strings.ReplaceAll(id, "%", ""), "_", "") + "%"
}
