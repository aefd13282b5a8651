package store

import (
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Memory is an in-memory store for testing.
type Memory struct {
	mu       sync.RWMutex
	versions map[string][]Version // Oldest first
	runs     []Run                // Oldest first
}

// NewMemory creates a new in-memory store.
func NewMemory() *Memory {
	return &Memory{
		versions: make(map[string][]Version),
	}
}

// Get retrieves the latest version of a program.
func (m *Memory) Get(name string) (*Program, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	vs := m.versions[name]
	if len(vs) == 0 {
		return nil, nil
	}
	v := vs[len(vs)-1]
	return &Program{Name: name, Source: v.Source, Version: v.Version, Ts: v.Ts}, nil
}

// Put stores a new version of a program.
func (m *Memory) Put(name, source string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	vs := m.versions[name]
	if len(vs) > 0 && vs[len(vs)-1].Source == source {
		return nil
	}
	m.versions[name] = append(vs, Version{Version: len(vs) + 1, Source: source, Ts: now()})
	return nil
}

// Delete removes a program and its runs.
func (m *Memory) Delete(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.versions, name)
	kept := m.runs[:0]
	for _, r := range m.runs {
		if r.Program != name {
			kept = append(kept, r)
		}
	}
	m.runs = kept
	return nil
}

// List returns stored program names.
func (m *Memory) List() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.versions))
	for name := range m.versions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// History returns versions newest first.
func (m *Memory) History(name string, limit int) ([]Version, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	vs := m.versions[name]
	if len(vs) == 0 {
		return nil, nil
	}
	var out []Version
	for i := len(vs) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, vs[i])
	}
	return out, nil
}

// RecordRun stores a run.
func (m *Memory) RecordRun(r Run) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r.ID = uuid.NewString()
	if r.Ts == "" {
		r.Ts = now()
	}
	r.Output = append([]byte(nil), r.Output...)
	m.runs = append(m.runs, r)
	return r.ID, nil
}

// Runs returns runs of a program newest first.
func (m *Memory) Runs(program string, limit int) ([]Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Run
	for i := len(m.runs) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		if m.runs[i].Program == program {
			out = append(out, m.runs[i])
		}
	}
	return out, nil
}

// Close is a no-op for memory store.
func (m *Memory) Close() error {
	return nil
}
