package tape

import (
	"io"
	"log/slog"

	"nickandperla.net/tape/internal/store"
)

// Option configures a Runtime.
type Option func(*Runtime)

// WithSQLiteStore configures SQLite persistence at the given path.
// The database is opened by New.
func WithSQLiteStore(path string) Option {
	return func(r *Runtime) {
		r.dbPath = path
		r.store = nil
	}
}

// WithMemoryStore configures an in-memory store (the default).
func WithMemoryStore() Option {
	return func(r *Runtime) {
		r.dbPath = ""
		r.store = store.NewMemory()
	}
}

// WithStore configures a custom store. The runtime closes it on Close.
func WithStore(s Store) Option {
	return func(r *Runtime) {
		r.dbPath = ""
		r.store = s
	}
}

// WithOutput sets the io.Writer printed values are written to.
func WithOutput(w io.Writer) Option {
	return func(r *Runtime) {
		r.output = w
	}
}

// WithStepLimit bounds the steps of every run. 0 means unbounded.
func WithStepLimit(n int) Option {
	return func(r *Runtime) {
		r.stepLimit = n
	}
}

// WithLogger sets the debug logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runtime) {
		r.logger = l
	}
}

// WithRecordRuns enables writing a run record after each run.
func WithRecordRuns(enabled bool) Option {
	return func(r *Runtime) {
		r.recordRuns = enabled
	}
}

// WithNoStdlib disables the bundled program prelude.
func WithNoStdlib() Option {
	return func(r *Runtime) {
		r.noStdlib = true
	}
}

// Store interface for custom stores.
type Store = store.Store
