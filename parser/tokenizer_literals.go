package parser

import (
	"unicode/utf8"

	"github.com/gad-lang/esparse/parser/source"
	"github.com/gad-lang/esparse/runehelper"
	"github.com/gad-lang/esparse/token"
)

func (t *Tokenizer) scanIdentifier() (token.Token, TokenFlags) {
	c := t.cur
	start := c.Offset
	var flags TokenFlags
	for first := true; ; first = false {
		if c.Ch == '\\' {
			pos := c.Offset
			c.Next()
			if c.Ch != 'u' {
				t.error(pos, MsgInvalidIdentEscape)
			}
			c.Next()
			r := t.scanUnicodeEscape()
			if r < 0 || first && !runehelper.IsIDStart(r) || !first && !runehelper.IsIDPart(r) {
				t.error(pos, MsgInvalidIdentEscape)
			}
			flags.Set(EscapedIdent)
			continue
		}
		if first && runehelper.IsIDStart(c.Ch) || !first && runehelper.IsIDPart(c.Ch) {
			c.Next()
			continue
		}
		break
	}
	if flags.Has(EscapedIdent) {
		return token.Ident, flags
	}
	return token.LookupBytes(c.Slice(start, c.Offset)), flags
}

// scanUnicodeEscape reads the part of a \u escape after the u. It returns
// -1 for a malformed escape.
func (t *Tokenizer) scanUnicodeEscape() rune {
	c := t.cur
	var r rune
	if c.Ch == '{' {
		c.Next()
		n := 0
		overflow := false
		for runehelper.IsHex(c.Ch) {
			r = r*16 + rune(runehelper.DigitVal(c.Ch))
			if r > utf8.MaxRune {
				overflow = true
				r = utf8.MaxRune
			}
			n++
			c.Next()
		}
		if n == 0 || c.Ch != '}' {
			return -1
		}
		c.Next()
		if overflow {
			return -1
		}
		return r
	}
	for i := 0; i < 4; i++ {
		if !runehelper.IsHex(c.Ch) {
			return -1
		}
		r = r*16 + rune(runehelper.DigitVal(c.Ch))
		c.Next()
	}
	return r
}

type escapeKind uint8

const (
	escapeOK escapeKind = iota
	escapeOctal
	escapeBadHex
	escapeBadUnicode
)

// scanEscape reads an escape sequence after the backslash.
func (t *Tokenizer) scanEscape() escapeKind {
	c := t.cur
	switch ch := c.Ch; {
	case ch == '\r':
		c.Next()
		if c.Ch == '\n' {
			c.Next()
		}
	case ch == 'x':
		c.Next()
		for i := 0; i < 2; i++ {
			if !runehelper.IsHex(c.Ch) {
				return escapeBadHex
			}
			c.Next()
		}
	case ch == 'u':
		c.Next()
		if t.scanUnicodeEscape() < 0 {
			return escapeBadUnicode
		}
	case ch == '0' && !runehelper.IsDigit(c.Peek(1)):
		c.Next()
	case ch == '8' || ch == '9':
		c.Next()
		return escapeOctal
	case runehelper.IsOctal(ch):
		c.Next()
		max := 2
		if ch >= '4' {
			max = 1
		}
		for i := 0; i < max && runehelper.IsOctal(c.Ch); i++ {
			c.Next()
		}
		return escapeOctal
	case ch != source.EOF:
		c.Next()
	}
	return escapeOK
}

func (t *Tokenizer) scanString(quote rune, start int) (token.Token, TokenFlags) {
	c := t.cur
	kind := token.String
	var flags TokenFlags
	for {
		switch ch := c.Ch; {
		case ch == quote:
			c.Next()
			return kind, flags
		case ch == source.EOF || ch == '\n' || ch == '\r':
			t.error(start, MsgUnterminatedString)
		case ch == '\\':
			pos := c.Offset
			c.Next()
			if c.Ch == source.EOF {
				t.error(start, MsgUnterminatedString)
			}
			flags.Set(EscapedString)
			switch t.scanEscape() {
			case escapeOctal:
				flags.Set(OctalEscape)
			case escapeBadHex:
				t.error(pos, MsgInvalidHexEscape)
			case escapeBadUnicode:
				t.error(pos, MsgInvalidUnicodeEscape)
			}
		case ch == '$' && quote == '"' && t.cfg.Scripting && c.PeekByte() == '{':
			c.Skip(2)
			t.skipHole(start)
			kind = token.EditString
		default:
			c.Next()
		}
	}
}

// skipHole skips the expression of an edit-string hole up to and
// including its closing brace.
func (t *Tokenizer) skipHole(start int) {
	c := t.cur
	depth := 0
	for {
		switch c.Ch {
		case source.EOF:
			t.error(start, MsgUnterminatedString)
		case '{':
			depth++
		case '}':
			if depth == 0 {
				c.Next()
				return
			}
			depth--
		case '"', '\'', '`':
			q := c.Ch
			c.Next()
			for c.Ch != q {
				if c.Ch == source.EOF {
					t.error(start, MsgUnterminatedString)
				}
				if c.Ch == '\\' {
					c.Next()
				}
				c.Next()
			}
		}
		c.Next()
	}
}

// scanTemplate scans a template span. head is set for a span starting at
// a backquote, otherwise the span starts at the brace closing a hole.
func (t *Tokenizer) scanTemplate(head bool, start int) (token.Token, TokenFlags) {
	c := t.cur
	var flags TokenFlags
	for {
		switch c.Ch {
		case '`':
			c.Next()
			if head {
				return token.NoSubstTemplate, flags
			}
			return token.TemplateTail, flags
		case '$':
			c.Next()
			if c.Ch == '{' {
				c.Next()
				t.braces = append(t.braces, 0)
				if head {
					return token.TemplateHead, flags
				}
				return token.TemplateMiddle, flags
			}
		case '\\':
			c.Next()
			if c.Ch == source.EOF {
				t.error(start, MsgUnterminatedTemplate)
			}
			flags.Set(EscapedString)
			if t.scanEscape() != escapeOK {
				flags.Set(InvalidEscape)
			}
		case source.EOF:
			t.error(start, MsgUnterminatedTemplate)
		default:
			c.Next()
		}
	}
}

func (t *Tokenizer) scanNumber() (token.Token, TokenFlags) {
	c := t.cur
	start := c.Offset
	var flags TokenFlags
	float := false

	if c.Ch == '0' {
		switch c.Peek(1) {
		case 'x', 'X':
			return t.scanPrefixed(start, 16)
		case 'o', 'O':
			return t.scanPrefixed(start, 8)
		case 'b', 'B':
			return t.scanPrefixed(start, 2)
		}
	}

	switch {
	case c.Ch == '0' && (runehelper.IsDigit(c.Peek(1)) || c.Peek(1) == '_'):
		c.Next()
		if c.Ch == '_' {
			t.error(c.Offset, MsgNumericSeparator)
		}
		octal := true
		for runehelper.IsDigit(c.Ch) {
			if c.Ch >= '8' {
				octal = false
			}
			c.Next()
		}
		if c.Ch == '_' {
			t.error(c.Offset, MsgNumericSeparator)
		}
		if octal {
			flags.Set(LegacyOctal)
			t.checkNumberEnd()
			return token.Number, flags
		}
		flags.Set(NonOctalDecimal)
	case c.Ch != '.':
		t.scanDigits(10)
	}

	if c.Ch == '.' {
		float = true
		c.Next()
		if c.Ch == '_' {
			t.error(c.Offset, MsgNumericSeparator)
		}
		t.scanDigits(10)
	}
	if c.Ch == 'e' || c.Ch == 'E' {
		float = true
		c.Next()
		if c.Ch == '+' || c.Ch == '-' {
			c.Next()
		}
		if t.scanDigits(10) == 0 {
			t.error(c.Offset, MsgMissingExponent)
		}
	}
	if c.Ch == 'n' {
		if float || flags.Has(NonOctalDecimal) {
			t.error(start, MsgInvalidBigInt)
		}
		return t.scanBigIntSuffix(start)
	}
	t.checkNumberEnd()
	return token.Number, flags
}

func (t *Tokenizer) scanPrefixed(start, base int) (token.Token, TokenFlags) {
	c := t.cur
	c.Skip(2)
	if t.scanDigits(base) == 0 {
		t.error(start, MsgMissingDigits, string(c.Slice(start, start+2)))
	}
	if c.Ch == 'n' {
		return t.scanBigIntSuffix(start)
	}
	t.checkNumberEnd()
	return token.Number, 0
}

func (t *Tokenizer) scanBigIntSuffix(start int) (token.Token, TokenFlags) {
	if !t.cfg.Allows(FeatureBigInt) {
		t.error(start, MsgFeature, FeatureBigInt.String(), FeatureBigInt.MinVersion().String())
	}
	t.cur.Next()
	t.checkNumberEnd()
	return token.BigInt, 0
}

// scanDigits reads digits of base with numeric separators and returns the
// number of digits read.
func (t *Tokenizer) scanDigits(base int) int {
	c := t.cur
	sep := t.cfg.Allows(FeatureNumericSeparators)
	n := 0
	for {
		if c.Ch == '_' && sep {
			if n == 0 || !(runehelper.DigitVal(c.Peek(1)) < base) {
				t.error(c.Offset, MsgNumericSeparator)
			}
			c.Next()
			continue
		}
		if runehelper.DigitVal(c.Ch) >= base {
			return n
		}
		n++
		c.Next()
	}
}

func (t *Tokenizer) checkNumberEnd() {
	c := t.cur
	if runehelper.IsIDStart(c.Ch) || runehelper.IsDigit(c.Ch) || c.Ch == '\\' {
		t.error(c.Offset, MsgIdentAfterNumber)
	}
}

// RescanRegexp scans a regular expression literal starting at the / or
// /= operator tok. ok is false if tok is not such an operator.
func (t *Tokenizer) RescanRegexp(tok Token) (Token, bool) {
	if !tok.Is(token.Div, token.DivAssign) {
		return tok, false
	}
	t.rewind(tok)
	c := t.cur
	start := tok.Pos()
	c.Seek(start + 1)
	inClass := false
body:
	for {
		ch := c.Ch
		if ch == source.EOF || runehelper.IsLineTerminator(ch) {
			t.error(start, MsgUnterminatedRegexp)
		}
		c.Next()
		switch ch {
		case '\\':
			if c.Ch == source.EOF || runehelper.IsLineTerminator(c.Ch) {
				t.error(start, MsgUnterminatedRegexp)
			}
			c.Next()
		case '[':
			inClass = true
		case ']':
			inClass = false
		case '/':
			if !inClass {
				break body
			}
		}
	}
	flagsStart := c.Offset
	var seen uint32
	for runehelper.IsIDPart(c.Ch) || c.Ch == '\\' {
		i := regexpFlagIndex(c.Ch)
		if i < 0 || seen&(1<<i) != 0 {
			t.error(flagsStart, MsgInvalidRegexpFlags)
		}
		seen |= 1 << i
		c.Next()
	}
	return makeToken(token.Regexp, 0, start, c.Offset), true
}

const regexpFlags = "dgimsuvy"

func regexpFlagIndex(ch rune) int {
	for i, f := range regexpFlags {
		if f == ch {
			return i
		}
	}
	return -1
}

// RescanHereString scans a here-string starting at the << operator tok:
//
//	<<MARKER
//	lines
//	MARKER
//
// A quoted marker (<<'MARKER') makes the body raw. ok is false if no
// here-string starts at tok.
func (t *Tokenizer) RescanHereString(tok Token) (Token, bool) {
	if !tok.Is(token.Shl) || !t.cfg.Scripting {
		return tok, false
	}
	c := t.cur
	start := tok.Pos()
	end := c.Offset
	pending := t.pending
	fail := func() (Token, bool) {
		c.Seek(end)
		t.pending = pending
		return tok, false
	}

	c.Seek(start + 2)
	var flags TokenFlags
	quoted := c.Ch == '\''
	if quoted {
		c.Next()
		flags.Set(RawHereString)
	}
	mstart := c.Offset
	for runehelper.IsIDPart(c.Ch) {
		c.Next()
	}
	marker := string(c.Slice(mstart, c.Offset))
	if marker == "" || !runehelper.IsIDStart([]rune(marker)[0]) || quoted && c.Ch != '\'' {
		return fail()
	}
	if quoted {
		c.Next()
	}
	for runehelper.IsWhitespace(c.Ch) {
		c.Next()
	}
	if !runehelper.IsLineTerminator(c.Ch) {
		return fail()
	}
	t.rewind(tok)
	n := utf8.RuneCountInString(marker)
	for {
		if c.Ch == '\r' {
			c.Next()
			if c.Ch == '\n' {
				c.Next()
			}
		} else {
			c.Next()
		}
		for runehelper.IsWhitespace(c.Ch) {
			c.Next()
		}
		if c.Is(marker) {
			c.Skip(n)
			if !runehelper.IsIDPart(c.Ch) {
				return makeToken(token.HereString, flags, start, c.Offset), true
			}
		}
		for !runehelper.IsLineTerminator(c.Ch) {
			if c.Ch == source.EOF {
				t.error(start, MsgUnterminatedHereString, marker)
			}
			c.Next()
		}
	}
}
