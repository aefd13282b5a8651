// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package token defines the eight instruction tokens of the tape language.
package token

// Token represents a tape instruction.
type Token int

const (
	MoveLeft  Token = iota // <
	MoveRight              // >
	IncValue               // +
	DecValue               // -
	LoopOpen               // [
	LoopClose              // ]
	Print                  // .
	Input                  // ,
)

// Source runes for each instruction.
const (
	RuneMoveLeft  = '<'
	RuneMoveRight = '>'
	RuneIncValue  = '+'
	RuneDecValue  = '-'
	RuneLoopOpen  = '['
	RuneLoopClose = ']'
	RunePrint     = '.'
	RuneInput     = ','
)

// IsInstruction returns true if the rune maps to a token.
// Every other rune is a comment.
func IsInstruction(r rune) bool {
	_, ok := FromRune(r)
	return ok
}

// FromRune returns the token for an instruction rune.
func FromRune(r rune) (Token, bool) {
	switch r {
	case RuneMoveLeft:
		return MoveLeft, true
	case RuneMoveRight:
		return MoveRight, true
	case RuneIncValue:
		return IncValue, true
	case RuneDecValue:
		return DecValue, true
	case RuneLoopOpen:
		return LoopOpen, true
	case RuneLoopClose:
		return LoopClose, true
	case RunePrint:
		return Print, true
	case RuneInput:
		return Input, true
	}
	return 0, false
}

// Rune returns the source rune of the token.
func (t Token) Rune() rune {
	switch t {
	case MoveLeft:
		return RuneMoveLeft
	case MoveRight:
		return RuneMoveRight
	case IncValue:
		return RuneIncValue
	case DecValue:
		return RuneDecValue
	case LoopOpen:
		return RuneLoopOpen
	case LoopClose:
		return RuneLoopClose
	case Print:
		return RunePrint
	case Input:
		return RuneInput
	}
	return 0
}

// String returns the string representation of a token.
func (t Token) String() string {
	switch t {
	case MoveLeft:
		return "MoveLeft"
	case MoveRight:
		return "MoveRight"
	case IncValue:
		return "IncValue"
	case DecValue:
		return "DecValue"
	case LoopOpen:
		return "LoopOpen"
	case LoopClose:
		return "LoopClose"
	case Print:
		return "Print"
	case Input:
		return "Input"
	}
	return "UNKNOWN"
}

// IsShift returns true for pointer movement tokens.
func (t Token) IsShift() bool {
	return t == MoveLeft || t == MoveRight
}

// IsAdd returns true for value change tokens.
func (t Token) IsAdd() bool {
	return t == IncValue || t == DecValue
}

// Delta returns the signed unit contribution of a shift or add token:
// +1 for MoveRight and IncValue, -1 for MoveLeft and DecValue, 0 otherwise.
func (t Token) Delta() int {
	switch t {
	case MoveRight, IncValue:
		return 1
	case MoveLeft, DecValue:
		return -1
	}
	return 0
}
