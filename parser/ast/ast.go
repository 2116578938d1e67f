// Copyright (c) 2020-2023 Ozan Hacıbekiroğlu.
// Use of this source code is governed by a MIT License
// that can be found in the LICENSE file.

package ast

import "strings"

// Pos is a byte offset in the source text.
type Pos int

// NoPos is the position of synthetic nodes.
const NoPos Pos = -1

// IsValid reports whether the position points into a source text.
func (p Pos) IsValid() bool {
	return p >= 0
}

// Node represents a node in the AST.
type Node interface {
	// Pos returns the position of first character belonging to the node.
	Pos() Pos
	// End returns the position of first character immediately after the node.
	End() Pos
	// String returns a string representation of the node.
	String() string
}

// Span is the source range of a node. Nodes embed it to implement Pos and
// End.
type Span struct {
	From Pos
	To   Pos
}

// SpanOf returns the span from the start of a to the end of b.
func SpanOf(a, b Node) Span {
	return Span{From: a.Pos(), To: b.End()}
}

// Pos returns the position of first character belonging to the node.
func (s Span) Pos() Pos { return s.From }

// End returns the position of first character immediately after the node.
func (s Span) End() Pos { return s.To }

// Len returns the length of the span in bytes.
func (s Span) Len() int {
	return int(s.To - s.From)
}

// Flags carry language version and strictness facts derived while a node
// was parsed.
type Flags uint16

func (b *Flags) Set(flag Flags) *Flags    { *b = *b | flag; return b }
func (b *Flags) Clear(flag Flags) *Flags  { *b = *b &^ flag; return b }
func (b *Flags) Toggle(flag Flags) *Flags { *b = *b ^ flag; return b }
func (b Flags) Has(flag Flags) bool       { return b&flag != 0 }

const (
	Strict Flags = 1 << iota
	Module
	Async
	Generator
	Arrow
	// SimpleParams marks parameter lists of plain identifiers only.
	SimpleParams
	// Lazy marks function bodies skipped on reparse.
	Lazy
	Scripting
	DirectEval
	// Parenthesized marks expressions written inside parentheses.
	Parenthesized
)

var flagNames = []struct {
	flag Flags
	name string
}{
	{Strict, "strict"},
	{Module, "module"},
	{Async, "async"},
	{Generator, "generator"},
	{Arrow, "arrow"},
	{SimpleParams, "simple"},
	{Lazy, "lazy"},
	{Scripting, "scripting"},
	{DirectEval, "eval"},
	{Parenthesized, "paren"},
}

func (b Flags) String() string {
	var s []string
	for _, f := range flagNames {
		if b.Has(f.flag) {
			s = append(s, f.name)
		}
	}
	return strings.Join(s, ",")
}
