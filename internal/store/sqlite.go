package store

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Current schema version
const SchemaVersion = "2"

// SQLite is a SQLite-backed store.
type SQLite struct {
	mu sync.Mutex
	db *sql.DB
}

// NewSQLite creates a new SQLite store at the given path.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS metadata (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	if err != nil {
		db.Close()
		return nil, err
	}

	s := &SQLite{db: db}

	// Check/set schema version (use unlocked versions since we're in init)
	version, err := s.getMetadataUnlocked("schema_version")
	if err != nil {
		db.Close()
		return nil, err
	}

	switch version {
	case "":
		if err := s.migrateToV1(); err != nil {
			db.Close()
			return nil, err
		}
		fallthrough
	case "1":
		if err := s.migrateToV2(); err != nil {
			db.Close()
			return nil, err
		}
		if err := s.setMetadataUnlocked("schema_version", SchemaVersion); err != nil {
			db.Close()
			return nil, err
		}
	case SchemaVersion:
	default:
		db.Close()
		return nil, fmt.Errorf("unsupported schema version: %s (expected %s)", version, SchemaVersion)
	}

	return s, nil
}

// migrateToV1 creates the versioned program table.
func (s *SQLite) migrateToV1() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS programs (
			name TEXT NOT NULL,
			version INTEGER NOT NULL,
			source TEXT NOT NULL,
			ts TEXT NOT NULL,
			PRIMARY KEY (name, version)
		);
	`)
	return err
}

// migrateToV2 creates the run history table.
func (s *SQLite) migrateToV2() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			program TEXT NOT NULL,
			output BLOB,
			steps INTEGER NOT NULL,
			error TEXT NOT NULL,
			ts TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS runs_program ON runs (program);
	`)
	return err
}

// Get retrieves the latest version of a program.
func (s *SQLite) Get(name string) (*Program, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := Program{Name: name}
	err := s.db.QueryRow(
		"SELECT version, source, ts FROM programs WHERE name = ? ORDER BY version DESC LIMIT 1",
		name,
	).Scan(&p.Version, &p.Source, &p.Ts)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Put stores a new version of a program unless the source is unchanged.
func (s *SQLite) Put(name, source string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var latest int
	var current string
	err = tx.QueryRow(
		"SELECT version, source FROM programs WHERE name = ? ORDER BY version DESC LIMIT 1",
		name,
	).Scan(&latest, &current)
	switch {
	case err == sql.ErrNoRows:
	case err != nil:
		return err
	case current == source:
		return nil
	}

	_, err = tx.Exec(
		"INSERT INTO programs (name, version, source, ts) VALUES (?, ?, ?, ?)",
		name, latest+1, source, now(),
	)
	if err != nil {
		return err
	}
	return tx.Commit()
}

// Delete removes every version of a program and its runs.
func (s *SQLite) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec("DELETE FROM programs WHERE name = ?", name); err != nil {
		return err
	}
	_, err := s.db.Exec("DELETE FROM runs WHERE program = ?", name)
	return err
}

// List returns stored program names.
func (s *SQLite) List() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.db.Query("SELECT DISTINCT name FROM programs ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// History returns versions newest first.
func (s *SQLite) History(name string, limit int) ([]Version, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.Query(
		"SELECT version, source, ts FROM programs WHERE name = ? ORDER BY version DESC LIMIT ?",
		name, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var entries []Version
	for rows.Next() {
		var v Version
		if err := rows.Scan(&v.Version, &v.Source, &v.Ts); err != nil {
			return nil, err
		}
		entries = append(entries, v)
	}
	return entries, rows.Err()
}

// RecordRun stores a run.
func (s *SQLite) RecordRun(r Run) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.ID = uuid.NewString()
	if r.Ts == "" {
		r.Ts = now()
	}
	_, err := s.db.Exec(
		"INSERT INTO runs (id, program, output, steps, error, ts) VALUES (?, ?, ?, ?, ?, ?)",
		r.ID, r.Program, r.Output, r.Steps, r.Err, r.Ts,
	)
	if err != nil {
		return "", err
	}
	return r.ID, nil
}

// Runs returns runs of a program newest first.
func (s *SQLite) Runs(program string, limit int) ([]Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.Query(
		"SELECT id, program, output, steps, error, ts FROM runs WHERE program = ? ORDER BY seq DESC LIMIT ?",
		program, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Program, &r.Output, &r.Steps, &r.Err, &r.Ts); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// GetMetadata retrieves a metadata value by key.
func (s *SQLite) GetMetadata(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getMetadataUnlocked(key)
}

// getMetadataUnlocked retrieves metadata without locking (caller must hold lock).
func (s *SQLite) getMetadataUnlocked(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM metadata WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// setMetadataUnlocked stores metadata without locking (caller must hold lock).
func (s *SQLite) setMetadataUnlocked(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}
