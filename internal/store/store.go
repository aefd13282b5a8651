// Package store provides persistence for named tape programs and the
// records of their runs.
package store

import (
	"errors"
	"time"
)

// ErrNotFound is returned by callers that require a stored program.
var ErrNotFound = errors.New("program not found")

// Program is the latest version of a stored program.
type Program struct {
	Name    string
	Source  string
	Version int
	Ts      string
}

// Version represents a single version of a stored program.
type Version struct {
	Version int
	Source  string
	Ts      string
}

// Run records one execution of a program.
type Run struct {
	ID      string
	Program string // Empty for anonymous sources
	Output  []byte // Printed cell values in order
	Steps   int
	Err     string
	Ts      string
}

// Store is the interface for program persistence.
type Store interface {
	// Get retrieves the latest version of a program. Returns nil if not found.
	Get(name string) (*Program, error)
	// Put stores a new version of a program. Storing the current source
	// again is a no-op.
	Put(name, source string) error
	// Delete removes every version of a program and its runs.
	Delete(name string) error
	// List returns stored program names in sorted order.
	List() ([]string, error)
	// History returns versions newest first. A limit of 0 returns all.
	History(name string, limit int) ([]Version, error)
	// RecordRun stores a run and returns its generated ID.
	RecordRun(r Run) (string, error)
	// Runs returns runs of a program newest first. A limit of 0 returns all.
	Runs(program string, limit int) ([]Run, error)
	// Close releases resources.
	Close() error
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}
