// Copyright (c) 2020-2023 Ozan Hacıbekiroğlu.
// Use of this source code is governed by a MIT License
// that can be found in the LICENSE file.

package source

import "unicode/utf8"

// EOF is the character returned past the end of the readable range.
const EOF rune = -1

// MaxPeek is the size of the lookahead window in characters.
const MaxPeek = 4

// Mark is a saved cursor position.
type Mark struct {
	offset int
	limit  int
}

// Offset returns the byte offset of the character at the mark.
func (m Mark) Offset() int {
	return m.offset
}

// Cursor reads the source text as a stream of characters. The readable
// range may be narrowed with Limit for nested tokenizers.
type Cursor struct {
	src        []byte
	Ch         rune // current character
	Offset     int  // character offset
	ReadOffset int  // reading offset (position after current character)
	limit      int
}

// NewCursor creates a cursor positioned at the first character of src.
func NewCursor(src []byte) *Cursor {
	c := &Cursor{src: src, limit: len(src)}
	c.Seek(0)
	return c
}

// Source returns the whole text, ignoring limits.
func (c *Cursor) Source() []byte {
	return c.src
}

// Slice returns src[start:end].
func (c *Cursor) Slice(start, end int) []byte {
	return c.src[start:end]
}

// End returns the end offset of the readable range.
func (c *Cursor) End() int {
	return c.limit
}

// Next moves to the next character.
func (c *Cursor) Next() {
	c.Offset = c.ReadOffset
	if c.ReadOffset >= c.limit {
		c.Offset = c.limit
		c.Ch = EOF
		return
	}
	r, w := rune(c.src[c.ReadOffset]), 1
	if r >= utf8.RuneSelf {
		r, w = utf8.DecodeRune(c.src[c.ReadOffset:c.limit])
	}
	c.ReadOffset += w
	c.Ch = r
}

// Peek returns the n-th character after the current one, or EOF. n is
// between 1 and MaxPeek.
func (c *Cursor) Peek(n int) rune {
	if n < 1 || n > MaxPeek {
		panic("peek out of lookahead window")
	}
	offs := c.ReadOffset
	var r rune = EOF
	for ; n > 0; n-- {
		if offs >= c.limit {
			return EOF
		}
		w := 1
		r = rune(c.src[offs])
		if r >= utf8.RuneSelf {
			r, w = utf8.DecodeRune(c.src[offs:c.limit])
		}
		offs += w
	}
	return r
}

// PeekByte returns the byte after the current character, or 0.
func (c *Cursor) PeekByte() byte {
	if c.ReadOffset < c.limit {
		return c.src[c.ReadOffset]
	}
	return 0
}

// Is reports whether the text at the current character starts with s.
func (c *Cursor) Is(s string) bool {
	if c.Offset+len(s) > c.limit {
		return false
	}
	return string(c.src[c.Offset:c.Offset+len(s)]) == s
}

// Skip advances n characters.
func (c *Cursor) Skip(n int) {
	for ; n > 0 && c.Ch != EOF; n-- {
		c.Next()
	}
}

// Seek moves the cursor to offset.
func (c *Cursor) Seek(offset int) {
	if offset > c.limit {
		offset = c.limit
	}
	c.ReadOffset = offset
	c.Next()
}

// Mark saves the current position.
func (c *Cursor) Mark() Mark {
	return Mark{offset: c.Offset, limit: c.limit}
}

// Reset restores a saved position.
func (c *Cursor) Reset(m Mark) {
	c.limit = m.limit
	c.Seek(m.offset)
}

// Limit narrows the readable range to [start, end) and returns the mark
// restoring the previous range and position.
func (c *Cursor) Limit(start, end int) Mark {
	m := c.Mark()
	if end > len(c.src) {
		end = len(c.src)
	}
	c.limit = end
	c.Seek(start)
	return m
}

// AtEOF reports whether the readable range is exhausted.
func (c *Cursor) AtEOF() bool {
	return c.Ch == EOF
}
