// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package tape provides the public API for the tape interpreter.
package tape

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"

	"nickandperla.net/tape/internal/ast"
	"nickandperla.net/tape/internal/eval"
	"nickandperla.net/tape/internal/parser"
	"nickandperla.net/tape/internal/scanner"
	"nickandperla.net/tape/internal/stdlib"
	"nickandperla.net/tape/internal/store"
)

// Errors reported by Run and Check. Use errors.Is to classify.
var (
	ErrUnmatchedBracket = parser.ErrUnmatchedBracket
	ErrPointerUnderflow = eval.ErrPointerUnderflow
	ErrStepLimit        = eval.ErrStepLimit
	ErrNotFound         = store.ErrNotFound
)

// Result describes a finished run.
type Result struct {
	Values  []byte // Printed cell values in order
	Steps   int
	TapeLen int
	RunID   string // Set when the run was recorded
}

// Runtime is the tape interpreter runtime.
type Runtime struct {
	store      store.Store
	dbPath     string
	output     io.Writer
	stepLimit  int
	logger     *slog.Logger
	recordRuns bool
	noStdlib   bool
	prelude    map[string]string
}

// New creates a new tape runtime with the given options.
func New(opts ...Option) (*Runtime, error) {
	r := &Runtime{
		output: os.Stdout,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.dbPath != "" {
		s, err := store.NewSQLite(r.dbPath)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		r.store = s
	}
	if r.store == nil {
		r.store = store.NewMemory()
	}

	if !r.noStdlib {
		r.prelude = stdlib.Programs()
	}

	return r, nil
}

// Check lexes and parses source without running it.
func (r *Runtime) Check(source string) error {
	_, err := r.parse(source)
	return err
}

func (r *Runtime) parse(source string) ([]ast.Node, error) {
	items, err := scanner.LexItems(source)
	if err != nil {
		return nil, err
	}
	nodes, err := parser.ParseItems(items)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("parsed",
		"tokens", len(items),
		"nodes", ast.Count(nodes),
		"depth", ast.Depth(nodes))
	return nodes, nil
}

// Run lexes, parses and evaluates source. Parse errors are returned before
// anything runs. When evaluation fails the partial Result is returned with
// the error.
func (r *Runtime) Run(ctx context.Context, source string) (*Result, error) {
	return r.run(ctx, "", source)
}

// RunNamed runs a stored program, falling back to the bundled prelude.
func (r *Runtime) RunNamed(ctx context.Context, name string) (*Result, error) {
	source, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}
	return r.run(ctx, name, source)
}

// Lookup resolves a program name. Stored programs shadow bundled ones.
func (r *Runtime) Lookup(name string) (string, error) {
	p, err := r.store.Get(name)
	if err != nil {
		return "", fmt.Errorf("load %s: %w", name, err)
	}
	if p != nil {
		return p.Source, nil
	}
	if src, ok := r.prelude[name]; ok {
		return src, nil
	}
	return "", fmt.Errorf("%w: %s", store.ErrNotFound, name)
}

func (r *Runtime) run(ctx context.Context, name, source string) (*Result, error) {
	nodes, err := r.parse(source)
	if err != nil {
		return nil, err
	}

	e := eval.New(
		eval.WithOutput(r.output),
		eval.WithStepLimit(r.stepLimit),
		eval.WithLogger(r.logger),
	)
	runErr := e.Run(ctx, nodes)

	res := &Result{
		Values:  e.Values(),
		Steps:   e.Steps(),
		TapeLen: len(e.Tape()),
	}

	if r.recordRuns {
		rec := store.Run{Program: name, Output: res.Values, Steps: res.Steps}
		if runErr != nil {
			rec.Err = runErr.Error()
		}
		id, err := r.store.RecordRun(rec)
		if err != nil {
			return res, errors.Join(runErr, fmt.Errorf("record run: %w", err))
		}
		res.RunID = id
		r.logger.Debug("run recorded", "id", id, "program", name)
	}

	return res, runErr
}

// Save validates source and stores it under name.
func (r *Runtime) Save(name, source string) error {
	if name == "" {
		return errors.New("program name must not be empty")
	}
	if err := r.Check(source); err != nil {
		return err
	}
	if err := r.store.Put(name, source); err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}
	r.logger.Debug("program saved", "name", name)
	return nil
}

// Delete removes a stored program and its runs.
func (r *Runtime) Delete(name string) error {
	return r.store.Delete(name)
}

// Programs returns stored and bundled program names, sorted.
func (r *Runtime) Programs() ([]string, error) {
	stored, err := r.store.List()
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var names []string
	for _, n := range stored {
		seen[n] = true
		names = append(names, n)
	}
	for n := range r.prelude {
		if !seen[n] {
			names = append(names, n)
		}
	}
	sort.Strings(names)
	return names, nil
}

// History returns stored versions of a program, newest first.
func (r *Runtime) History(name string, limit int) ([]store.Version, error) {
	return r.store.History(name, limit)
}

// Runs returns recorded runs of a program, newest first. Anonymous runs
// are listed under the empty name.
func (r *Runtime) Runs(name string, limit int) ([]store.Run, error) {
	return r.store.Runs(name, limit)
}

// Close releases resources.
func (r *Runtime) Close() error {
	return r.store.Close()
}

// Interpret runs source once against a fresh tape, writing one decimal
// value per line to w.
func Interpret(source string, w io.Writer) error {
	nodes, err := parser.Parse(scanner.Lex(source))
	if err != nil {
		return err
	}
	return eval.New(eval.WithOutput(w)).Run(context.Background(), nodes)
}
