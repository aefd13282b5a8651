package eval

import (
	"errors"
	"fmt"
)

// ErrPointerUnderflow is wrapped by every *UnderflowError.
var ErrPointerUnderflow = errors.New("pointer underflow")

// UnderflowError reports a shift that would move the pointer below cell 0.
type UnderflowError struct {
	Pointer int // Pointer before the shift
	Delta   int
}

func (e *UnderflowError) Error() string {
	return fmt.Sprintf("pointer underflow: shift %d from cell %d", e.Delta, e.Pointer)
}

func (e *UnderflowError) Unwrap() error { return ErrPointerUnderflow }

// Tape is a right-growable sequence of byte cells with a pointer that is
// always a valid index.
type Tape struct {
	cells   []byte
	pointer int
}

// NewTape returns a tape holding a single zero cell.
func NewTape() *Tape {
	return &Tape{cells: []byte{0}}
}

// Shift moves the pointer by delta. Moving right appends one zero cell each
// time the pointer steps onto the current end. Moving left past cell 0
// fails and leaves the tape untouched.
func (t *Tape) Shift(delta int) error {
	if delta < 0 {
		if t.pointer+delta < 0 {
			return &UnderflowError{Pointer: t.pointer, Delta: delta}
		}
		t.pointer += delta
		return nil
	}
	for i := 0; i < delta; i++ {
		t.pointer++
		if t.pointer == len(t.cells) {
			t.cells = append(t.cells, 0)
		}
	}
	return nil
}

// Add adds delta to the current cell, wrapping modulo 256.
func (t *Tape) Add(delta int) {
	t.cells[t.pointer] = byte(int(t.cells[t.pointer]) + delta%256)
}

// Get returns the current cell value.
func (t *Tape) Get() byte {
	return t.cells[t.pointer]
}

// Set overwrites the current cell.
func (t *Tape) Set(v byte) {
	t.cells[t.pointer] = v
}

// Pointer returns the current cell index.
func (t *Tape) Pointer() int {
	return t.pointer
}

// Len returns the number of cells allocated so far.
func (t *Tape) Len() int {
	return len(t.cells)
}

// Cells returns a copy of the tape contents.
func (t *Tape) Cells() []byte {
	out := make([]byte, len(t.cells))
	copy(out, t.cells)
	return out
}
