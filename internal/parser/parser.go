// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package parser builds the node tree from a token sequence by recursive
// descent, fusing runs of shifts and adds into single nodes.
package parser

import (
	"errors"
	"fmt"

	"nickandperla.net/tape/internal/ast"
	"nickandperla.net/tape/internal/scanner"
	"nickandperla.net/tape/internal/token"
)

// ErrUnmatchedBracket is wrapped by every *BracketError.
var ErrUnmatchedBracket = errors.New("unmatched bracket")

// BracketError reports a bracket without a partner.
type BracketError struct {
	// Open is true for a [ that is never closed, false for a stray ].
	Open bool
	// Index is the token index of the offending bracket.
	Index int
	// Line and Col locate the bracket in the source. Zero when parsing
	// bare tokens.
	Line int
	Col  int
}

func (e *BracketError) Error() string {
	kind := "closing"
	if e.Open {
		kind = "opening"
	}
	if e.Line > 0 {
		return fmt.Sprintf("unmatched %s bracket at %d:%d", kind, e.Line, e.Col)
	}
	return fmt.Sprintf("unmatched %s bracket at token %d", kind, e.Index)
}

func (e *BracketError) Unwrap() error { return ErrUnmatchedBracket }

// Parser holds the cursor over a read-only token sequence.
type Parser struct {
	tokens []token.Token
	items  []scanner.Item // Optional positions, parallel to tokens
	index  int
	depth  int   // Loop nesting depth
	opens  []int // Token indexes of the currently open brackets
}

// New creates a parser over tokens.
func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

// NewFromItems creates a parser whose errors carry source positions.
func NewFromItems(items []scanner.Item) *Parser {
	return &Parser{tokens: scanner.Tokens(items), items: items}
}

// Parse parses tokens into a node sequence.
func Parse(tokens []token.Token) ([]ast.Node, error) {
	return New(tokens).Parse()
}

// ParseItems parses positioned items into a node sequence.
func ParseItems(items []scanner.Item) ([]ast.Node, error) {
	return NewFromItems(items).Parse()
}

// Parse consumes the whole token sequence.
func (p *Parser) Parse() ([]ast.Node, error) {
	return p.subparse()
}

func (p *Parser) valid() bool {
	return p.index < len(p.tokens)
}

func (p *Parser) current() token.Token {
	return p.tokens[p.index]
}

func (p *Parser) advance() {
	p.index++
}

// subparse parses nodes until the end of input or the ] closing the
// current loop.
func (p *Parser) subparse() ([]ast.Node, error) {
	var nodes []ast.Node
	for p.valid() {
		switch tok := p.current(); tok {
		case token.MoveLeft, token.MoveRight:
			nodes = append(nodes, ast.Shift{Delta: p.sum(token.Token.IsShift)})

		case token.IncValue, token.DecValue:
			nodes = append(nodes, ast.Add{Delta: p.sum(token.Token.IsAdd) % 256})

		case token.LoopOpen:
			p.opens = append(p.opens, p.index)
			p.advance()
			p.depth++
			body, err := p.subparse()
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, ast.Loop{Body: body})

		case token.LoopClose:
			if p.depth == 0 {
				return nil, p.bracketError(false, p.index)
			}
			p.advance()
			p.depth--
			p.opens = p.opens[:len(p.opens)-1]
			return nodes, nil

		case token.Print:
			nodes = append(nodes, ast.Print{})
			p.advance()

		case token.Input:
			nodes = append(nodes, ast.Input{})
			p.advance()

		default:
			return nil, fmt.Errorf("unknown token %d at %d", int(tok), p.index)
		}
	}
	if p.depth > 0 {
		return nil, p.bracketError(true, p.opens[len(p.opens)-1])
	}
	return nodes, nil
}

// sum consumes a run of tokens of one class and returns their net delta.
func (p *Parser) sum(class func(token.Token) bool) int {
	delta := 0
	for p.valid() && class(p.current()) {
		delta += p.current().Delta()
		p.advance()
	}
	return delta
}

func (p *Parser) bracketError(open bool, index int) error {
	err := &BracketError{Open: open, Index: index}
	if p.items != nil {
		err.Line = p.items[index].Line
		err.Col = p.items[index].Col
	}
	return err
}
