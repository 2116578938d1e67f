// Copyright (c) 2020-2023 Ozan Hacıbekiroğlu.
// Use of this source code is governed by a MIT License
// that can be found in the LICENSE file.

package parser

import (
	"strconv"

	"github.com/gad-lang/esparse/parser/ast"
	"github.com/gad-lang/esparse/parser/source"
	"github.com/gad-lang/esparse/runehelper"
	"github.com/gad-lang/esparse/token"
)

// Tokenizer turns the characters of a cursor into token descriptors.
//
// Operators that may also start a literal (/ and /= for regular
// expressions, << for here-strings) are emitted as operators; the parser
// asks for a rescan when it expects an operand there.
type Tokenizer struct {
	cur  *source.Cursor
	file *source.File
	cfg  *Config
	in   *Interner

	// open brace counts of the template holes, innermost last
	braces  []int
	amb     ambiguous
	pending bool // EOL emitted, whitespace before the next token skipped

	nested bool
	mark   source.Mark
}

// ambiguous is the tokenizer state saved at the last operator that may
// be rescanned as a literal.
type ambiguous struct {
	start  int
	braces []int
}

// NewTokenizer creates a tokenizer over the whole file.
func NewTokenizer(file *source.File, cfg *Config, in *Interner) *Tokenizer {
	if cfg == nil {
		cfg = NewConfig()
	}
	if in == nil {
		in = NewInterner()
	}
	return &Tokenizer{
		cur:  source.NewCursor(file.Data),
		file: file,
		cfg:  cfg,
		in:   in,
		amb:  ambiguous{start: -1},
	}
}

// nest returns a tokenizer reading [start, end) of the same text. It
// shares the cursor, the interner and the configuration; unnest restores
// the cursor for the outer tokenizer.
func (t *Tokenizer) nest(start, end int) *Tokenizer {
	n := &Tokenizer{
		cur:    t.cur,
		file:   t.file,
		cfg:    t.cfg,
		in:     t.in,
		amb:    ambiguous{start: -1},
		nested: true,
	}
	n.mark = t.cur.Limit(start, end)
	return n
}

func (t *Tokenizer) unnest() {
	t.cur.Reset(t.mark)
}

// Interner returns the string table shared by the session.
func (t *Tokenizer) Interner() *Interner {
	return t.in
}

// Next returns the next token, skipping end-of-line markers.
func (t *Tokenizer) Next() Token {
	for {
		if tok := t.NextOrEndOfLine(); tok.Kind != token.EOL {
			return tok
		}
	}
}

// NextOrEndOfLine returns the next token. A run of line terminators
// before it is reported once as an EOL token, except at the end of input.
func (t *Tokenizer) NextOrEndOfLine() Token {
	if t.pending {
		t.pending = false
		return t.scan()
	}
	if nl := t.skipSpace(); nl >= 0 && t.cur.Ch != source.EOF {
		t.pending = true
		return makeToken(token.EOL, 0, nl, nl)
	}
	return t.scan()
}

// skipSpace skips white space and comments. It returns the offset of the
// first line terminator crossed, or -1.
func (t *Tokenizer) skipSpace() int {
	c := t.cur
	nl := -1
	if !t.nested && c.Offset == 0 && c.Is("#!") && t.cfg.Allows(FeatureHashbang) {
		t.skipLine()
	}
	for {
		switch ch := c.Ch; {
		case runehelper.IsLineTerminator(ch):
			if nl < 0 {
				nl = c.Offset
			}
			c.Next()
		case runehelper.IsWhitespace(ch):
			c.Next()
		case ch == '/' && c.PeekByte() == '/':
			if t.isDirectiveComment() {
				return nl
			}
			t.skipLine()
		case ch == '/' && c.PeekByte() == '*':
			if t.skipBlockComment() && nl < 0 {
				nl = c.Offset
			}
		case ch == '<' && t.htmlComments() && c.Is("<!--"):
			t.skipLine()
		case ch == '-' && t.htmlComments() && (nl >= 0 || c.Offset == 0) && c.Is("-->"):
			t.skipLine()
		default:
			return nl
		}
	}
}

func (t *Tokenizer) htmlComments() bool {
	return t.cfg.AnnexB && !t.cfg.Module && !t.nested
}

func (t *Tokenizer) skipLine() {
	c := t.cur
	for c.Ch != source.EOF && !runehelper.IsLineTerminator(c.Ch) {
		c.Next()
	}
}

// skipBlockComment skips a /* */ comment and reports whether it contains
// a line terminator.
func (t *Tokenizer) skipBlockComment() (nl bool) {
	c := t.cur
	start := c.Offset
	c.Skip(2)
	for c.Ch != source.EOF {
		ch := c.Ch
		c.Next()
		if ch == '*' && c.Ch == '/' {
			c.Next()
			return
		}
		if runehelper.IsLineTerminator(ch) {
			nl = true
		}
	}
	t.error(start, MsgUnterminatedComment)
	return
}

// isDirectiveComment reports whether the cursor is at //# or //@
// followed by a space.
func (t *Tokenizer) isDirectiveComment() bool {
	c := t.cur
	if ch := c.Peek(2); ch != '#' && ch != '@' {
		return false
	}
	ch := c.Peek(3)
	return ch == ' ' || ch == '\t'
}

func (t *Tokenizer) scan() Token {
	c := t.cur
	start := c.Offset
	ch := c.Ch

	var (
		kind  token.Token
		flags TokenFlags
	)
	switch {
	case runehelper.IsIDStart(ch) || ch == '\\':
		kind, flags = t.scanIdentifier()
	case runehelper.IsDigit(ch) || ch == '.' && runehelper.IsDigit(c.Peek(1)):
		kind, flags = t.scanNumber()
	default:
		if ch == '/' && c.PeekByte() == '/' {
			// only directive comments are left by skipSpace
			t.skipLine()
			return makeToken(token.DirectiveComment, 0, start, c.Offset)
		}
		c.Next()
		switch ch {
		case source.EOF:
			kind = token.EOF
		case '"', '\'':
			kind, flags = t.scanString(ch, start)
		case '`':
			kind, flags = t.scanTemplate(true, start)
		case '(':
			kind = token.LParen
		case ')':
			kind = token.RParen
		case '[':
			kind = token.LBrack
		case ']':
			kind = token.RBrack
		case '{':
			if n := len(t.braces); n > 0 {
				t.braces[n-1]++
			}
			kind = token.LBrace
		case '}':
			kind = token.RBrace
			if n := len(t.braces); n > 0 {
				if t.braces[n-1] == 0 {
					t.braces = t.braces[:n-1]
					kind, flags = t.scanTemplate(false, start)
				} else {
					t.braces[n-1]--
				}
			}
		case ';':
			kind = token.Semicolon
		case ',':
			kind = token.Comma
		case ':':
			kind = token.Colon
		case '~':
			kind = token.BitNot
		case '@':
			kind = token.At
		case '#':
			if !runehelper.IsIDStart(c.Ch) && c.Ch != '\\' {
				t.error(start, MsgIllegalChar, "#")
			}
			_, flags = t.scanIdentifier()
			kind = token.PrivateName
		case '.':
			kind = token.Period
			if c.Ch == '.' && c.PeekByte() == '.' {
				c.Skip(2)
				kind = token.Ellipsis
			}
		case '?':
			kind = token.Question
			switch {
			case c.Ch == '.' && !runehelper.IsDigit(c.Peek(1)):
				c.Next()
				kind = token.QuestionDot
			case c.Ch == '?':
				c.Next()
				kind = t.switch2(token.Nullish, token.NullishAssign)
			}
		case '=':
			switch c.Ch {
			case '>':
				c.Next()
				kind = token.Arrow
			case '=':
				c.Next()
				kind = t.switch2(token.Equal, token.StrictEqual)
			default:
				kind = token.Assign
			}
		case '!':
			kind = token.Not
			if c.Ch == '=' {
				c.Next()
				kind = t.switch2(token.NotEqual, token.StrictNotEqual)
			}
		case '+':
			kind = t.switch3(token.Add, token.AddAssign, '+', token.Inc)
		case '-':
			kind = t.switch3(token.Sub, token.SubAssign, '-', token.Dec)
		case '*':
			kind = t.switch4(token.Mul, token.MulAssign, '*', token.Exp, token.ExpAssign)
		case '/':
			kind = t.switch2(token.Div, token.DivAssign)
			t.hold(start)
		case '%':
			kind = t.switch2(token.Mod, token.ModAssign)
		case '^':
			kind = t.switch2(token.Xor, token.XorAssign)
		case '&':
			kind = t.switch4(token.And, token.AndAssign, '&', token.LogicalAnd, token.LogicalAndAssign)
		case '|':
			kind = t.switch4(token.Or, token.OrAssign, '|', token.LogicalOr, token.LogicalOrAssign)
		case '<':
			kind = t.switch4(token.Less, token.LessEq, '<', token.Shl, token.ShlAssign)
			if kind == token.Shl {
				t.hold(start)
			}
		case '>':
			kind = token.Greater
			switch c.Ch {
			case '=':
				c.Next()
				kind = token.GreaterEq
			case '>':
				c.Next()
				kind = t.switch4(token.Shr, token.ShrAssign, '>', token.UShr, token.UShrAssign)
			}
		default:
			t.error(start, MsgIllegalChar, strconv.QuoteRune(ch))
		}
	}
	return makeToken(kind, flags, start, c.Offset)
}

func (t *Tokenizer) switch2(tok0, tok1 token.Token) token.Token {
	if t.cur.Ch == '=' {
		t.cur.Next()
		return tok1
	}
	return tok0
}

func (t *Tokenizer) switch3(tok0, tok1 token.Token, ch2 rune, tok2 token.Token) token.Token {
	c := t.cur
	if c.Ch == '=' {
		c.Next()
		return tok1
	}
	if c.Ch == ch2 {
		c.Next()
		return tok2
	}
	return tok0
}

func (t *Tokenizer) switch4(tok0, tok1 token.Token, ch2 rune, tok2, tok3 token.Token) token.Token {
	c := t.cur
	if c.Ch == '=' {
		c.Next()
		return tok1
	}
	if c.Ch == ch2 {
		c.Next()
		if c.Ch == '=' {
			c.Next()
			return tok3
		}
		return tok2
	}
	return tok0
}

// hold saves the state to restore when the operator at start is rescanned
// as a literal.
func (t *Tokenizer) hold(start int) {
	t.amb.start = start
	t.amb.braces = append(t.amb.braces[:0], t.braces...)
}

func (t *Tokenizer) rewind(tok Token) {
	if t.amb.start == tok.Pos() {
		t.braces = append(t.braces[:0], t.amb.braces...)
	}
	t.pending = false
}

// depth returns the number of open template holes.
func (t *Tokenizer) depth() int {
	return len(t.braces)
}

// truncateHoles forgets template holes opened after depth n.
func (t *Tokenizer) truncateHoles(n int) {
	if n < len(t.braces) {
		t.braces = t.braces[:n]
	}
}

// seek moves the tokenizer to offset. Tokens already produced are not
// affected.
func (t *Tokenizer) seek(offset int) {
	t.cur.Seek(offset)
	t.pending = false
}

// skipBlock moves the tokenizer past a balanced block ending at end,
// closing the brace its opening token counted.
func (t *Tokenizer) skipBlock(end int) {
	t.seek(end)
	if n := len(t.braces); n > 0 && t.braces[n-1] > 0 {
		t.braces[n-1]--
	}
}

func (t *Tokenizer) error(offset int, id MessageID, args ...string) {
	panic(t.diag(LexError, offset, 1, id, args...))
}

func (t *Tokenizer) diag(kind DiagKind, offset, length int, id MessageID, args ...string) *Diagnostic {
	pos := t.file.Position(offset)
	return &Diagnostic{
		Kind:   kind,
		ID:     id,
		Args:   args,
		Offset: offset,
		Line:   pos.Line,
		Column: pos.Column,
		Span:   ast.Span{From: ast.Pos(offset), To: ast.Pos(offset + length)},
		File:   t.file,
	}
}
