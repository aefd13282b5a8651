// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package scanner provides a streaming lexer for tape programs.
// Runes that are not instructions are comments and never reach the caller.
package scanner

import (
	"bufio"
	"io"
	"strings"

	"nickandperla.net/tape/internal/token"
)

// Scanner tokenizes tape input rune-by-rune.
type Scanner struct {
	reader *bufio.Reader
	peeked *Item
	offset int // Byte offset of the next rune
	line   int // Current line number (1-based)
	col    int // Current column (1-based, in runes)
}

// Item represents a scanned token with its source position.
type Item struct {
	Token  token.Token
	Offset int
	Line   int
	Col    int
}

// New creates a new Scanner from an io.Reader.
func New(r io.Reader) *Scanner {
	return &Scanner{
		reader: bufio.NewReader(r),
		line:   1,
		col:    1,
	}
}

// NewFromString creates a new Scanner from a string.
func NewFromString(s string) *Scanner {
	return New(strings.NewReader(s))
}

// Line returns the current line number (1-based).
func (s *Scanner) Line() int {
	return s.line
}

// Peek returns the next item without consuming it.
func (s *Scanner) Peek() (*Item, error) {
	if s.peeked != nil {
		return s.peeked, nil
	}
	item, err := s.Next()
	if err != nil {
		return nil, err
	}
	s.peeked = item
	return item, nil
}

// Next returns the next instruction in the input, or io.EOF.
func (s *Scanner) Next() (*Item, error) {
	if s.peeked != nil {
		item := s.peeked
		s.peeked = nil
		return item, nil
	}

	for {
		r, size, err := s.reader.ReadRune()
		if err != nil {
			return nil, err
		}

		item := Item{Offset: s.offset, Line: s.line, Col: s.col}
		s.offset += size
		if r == '\n' {
			s.line++
			s.col = 1
		} else {
			s.col++
		}

		if tok, ok := token.FromRune(r); ok {
			item.Token = tok
			return &item, nil
		}
	}
}

// LexItems scans source into positioned items.
func LexItems(source string) ([]Item, error) {
	s := NewFromString(source)
	var items []Item
	for {
		item, err := s.Next()
		if err == io.EOF {
			return items, nil
		}
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
}

// Lex scans source into tokens. It never fails: reading from a string
// cannot error, and non-instruction runes are skipped.
func Lex(source string) []token.Token {
	tokens := make([]token.Token, 0, len(source))
	for _, r := range source {
		if tok, ok := token.FromRune(r); ok {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// Tokens strips positions from items.
func Tokens(items []Item) []token.Token {
	tokens := make([]token.Token, len(items))
	for i, item := range items {
		tokens[i] = item.Token
	}
	return tokens
}
