// Copyright (c) 2020-2023 Ozan Hacıbekiroğlu.
// Use of this source code is governed by a MIT License
// that can be found in the LICENSE file.

package parser

import (
	"github.com/gad-lang/esparse/parser/ast"
	"github.com/gad-lang/esparse/token"
)

// TokenFlags record facts the tokenizer found while scanning a token that
// the parser needs without decoding its value.
type TokenFlags uint8

func (b *TokenFlags) Set(flag TokenFlags) *TokenFlags   { *b = *b | flag; return b }
func (b *TokenFlags) Clear(flag TokenFlags) *TokenFlags { *b = *b &^ flag; return b }
func (b TokenFlags) Has(flag TokenFlags) bool           { return b&flag != 0 }

const (
	// EscapedString marks strings and template spans containing escapes.
	EscapedString TokenFlags = 1 << iota
	// OctalEscape marks strings with legacy octal or \8 \9 escapes.
	OctalEscape
	// LegacyOctal marks numbers such as 017.
	LegacyOctal
	// NonOctalDecimal marks numbers such as 08 or 09.5.
	NonOctalDecimal
	// EscapedIdent marks identifiers written with \u escapes.
	EscapedIdent
	// InvalidEscape marks template spans whose cooked value is undefined.
	InvalidEscape
	// RawHereString marks here-strings with a quoted marker.
	RawHereString
)

// Token is a packed token descriptor. Values are decoded from the source
// text on demand.
type Token struct {
	Kind  token.Token
	Flags TokenFlags
	Start int32
	Len   int32
}

// Pos returns the offset of the first character of the token.
func (t Token) Pos() int {
	return int(t.Start)
}

// End returns the offset of the first character after the token.
func (t Token) End() int {
	return int(t.Start + t.Len)
}

// Span returns the source range of the token.
func (t Token) Span() ast.Span {
	return ast.Span{From: ast.Pos(t.Start), To: ast.Pos(t.Start + t.Len)}
}

// Is returns true if the token is one of the given kinds.
func (t Token) Is(kinds ...token.Token) bool {
	return t.Kind.Is(kinds...)
}

func makeToken(kind token.Token, flags TokenFlags, start, end int) Token {
	return Token{Kind: kind, Flags: flags, Start: int32(start), Len: int32(end - start)}
}
