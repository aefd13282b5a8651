// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package ast defines the executable node tree of a tape program.
package ast

import (
	"fmt"
	"strings"

	"nickandperla.net/tape/internal/token"
)

// Node is implemented by every node variant.
type Node interface {
	// String returns a debug representation such as Shift(2) or Loop[Add(-1)].
	String() string
	node()
}

// Shift moves the pointer by Delta cells. Positive is rightward.
type Shift struct {
	Delta int
}

// Add changes the current cell by Delta, modulo 256.
type Add struct {
	Delta int
}

// Loop repeats Body while the current cell is nonzero.
type Loop struct {
	Body []Node
}

// Print emits the current cell value.
type Print struct{}

// Input is recognized but inert.
type Input struct{}

func (Shift) node() {}
func (Add) node()   {}
func (Loop) node()  {}
func (Print) node() {}
func (Input) node() {}

func (s Shift) String() string { return fmt.Sprintf("Shift(%d)", s.Delta) }
func (a Add) String() string   { return fmt.Sprintf("Add(%d)", a.Delta) }
func (Print) String() string   { return "Print" }
func (Input) String() string   { return "Input" }

func (l Loop) String() string {
	parts := make([]string, len(l.Body))
	for i, n := range l.Body {
		parts[i] = n.String()
	}
	return "Loop[" + strings.Join(parts, " ") + "]"
}

// Format renders nodes back to canonical source.
func Format(nodes []Node) string {
	var sb strings.Builder
	format(&sb, nodes)
	return sb.String()
}

func format(sb *strings.Builder, nodes []Node) {
	for _, n := range nodes {
		switch n := n.(type) {
		case Shift:
			repeat(sb, token.RuneMoveRight, token.RuneMoveLeft, n.Delta)
		case Add:
			repeat(sb, token.RuneIncValue, token.RuneDecValue, n.Delta)
		case Loop:
			sb.WriteRune(token.RuneLoopOpen)
			format(sb, n.Body)
			sb.WriteRune(token.RuneLoopClose)
		case Print:
			sb.WriteRune(token.RunePrint)
		case Input:
			sb.WriteRune(token.RuneInput)
		}
	}
}

func repeat(sb *strings.Builder, pos, neg rune, delta int) {
	r := pos
	if delta < 0 {
		r = neg
		delta = -delta
	}
	for i := 0; i < delta; i++ {
		sb.WriteRune(r)
	}
}

// Walk visits nodes depth-first in program order. If fn returns false the
// children of that node are skipped.
func Walk(nodes []Node, fn func(Node) bool) {
	for _, n := range nodes {
		if !fn(n) {
			continue
		}
		if l, ok := n.(Loop); ok {
			Walk(l.Body, fn)
		}
	}
}

// Count returns the number of nodes in the tree, loop bodies included.
func Count(nodes []Node) int {
	count := 0
	Walk(nodes, func(Node) bool {
		count++
		return true
	})
	return count
}

// Depth returns the deepest loop nesting level in the tree.
func Depth(nodes []Node) int {
	max := 0
	for _, n := range nodes {
		if l, ok := n.(Loop); ok {
			if d := 1 + Depth(l.Body); d > max {
				max = d
			}
		}
	}
	return max
}
