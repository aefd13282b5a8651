// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package eval executes a node tree against a fresh tape.
package eval

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"nickandperla.net/tape/internal/ast"
)

// ErrStepLimit is returned when a run executes more nodes than allowed.
var ErrStepLimit = errors.New("step limit exceeded")

// OutputWriter receives each printed cell value.
type OutputWriter func(value byte) error

// Evaluator walks node trees. Each Run owns a new tape.
type Evaluator struct {
	tape         *Tape
	outputWriter OutputWriter
	stepLimit    int // 0 = unbounded
	steps        int
	values       []byte
	logger       *slog.Logger
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithOutputWriter sets the callback for printed values.
func WithOutputWriter(w OutputWriter) Option {
	return func(e *Evaluator) { e.outputWriter = w }
}

// WithOutput writes printed values to w, one decimal value per line.
func WithOutput(w io.Writer) Option {
	return func(e *Evaluator) { e.outputWriter = lineWriter(w) }
}

// WithStepLimit bounds the number of steps a run may take. A step is one
// executed node or one loop pass.
func WithStepLimit(n int) Option {
	return func(e *Evaluator) { e.stepLimit = n }
}

// WithLogger sets the debug logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Evaluator) { e.logger = l }
}

func lineWriter(w io.Writer) OutputWriter {
	return func(v byte) error {
		_, err := fmt.Fprintf(w, "%d\n", v)
		return err
	}
}

// New creates a new Evaluator with the given options.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{
		tape:         NewTape(),
		outputWriter: lineWriter(os.Stdout),
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes nodes from a fresh tape. The context is checked before every
// loop pass so callers can bound programs that never terminate.
func (e *Evaluator) Run(ctx context.Context, nodes []ast.Node) error {
	e.tape = NewTape()
	e.steps = 0
	e.values = nil

	if err := ctx.Err(); err != nil {
		return err
	}
	err := e.run(ctx, nodes)
	e.logger.Debug("run finished",
		"steps", e.steps,
		"tape_len", e.tape.Len(),
		"pointer", e.tape.Pointer(),
		"printed", len(e.values),
		"err", err)
	return err
}

func (e *Evaluator) run(ctx context.Context, nodes []ast.Node) error {
	for _, n := range nodes {
		if err := e.step(); err != nil {
			return err
		}

		switch n := n.(type) {
		case ast.Shift:
			if err := e.tape.Shift(n.Delta); err != nil {
				return err
			}

		case ast.Add:
			e.tape.Add(n.Delta)

		case ast.Loop:
			for e.tape.Get() != 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := e.step(); err != nil {
					return err
				}
				if err := e.run(ctx, n.Body); err != nil {
					return err
				}
			}

		case ast.Print:
			v := e.tape.Get()
			e.values = append(e.values, v)
			if e.outputWriter != nil {
				if err := e.outputWriter(v); err != nil {
					return fmt.Errorf("write output: %w", err)
				}
			}

		case ast.Input:
			// Reserved: no byte is read.

		default:
			return fmt.Errorf("unknown node %T", n)
		}
	}
	return nil
}

// step counts one executed node or loop pass against the limit.
func (e *Evaluator) step() error {
	e.steps++
	if e.stepLimit > 0 && e.steps > e.stepLimit {
		return fmt.Errorf("%w (%d)", ErrStepLimit, e.stepLimit)
	}
	return nil
}

// Steps returns the number of nodes and loop passes executed by the last run.
func (e *Evaluator) Steps() int {
	return e.steps
}

// Values returns the values printed by the last run.
func (e *Evaluator) Values() []byte {
	return e.values
}

// Tape returns a copy of the cells left by the last run.
func (e *Evaluator) Tape() []byte {
	return e.tape.Cells()
}

// Pointer returns the pointer position left by the last run.
func (e *Evaluator) Pointer() int {
	return e.tape.Pointer()
}
