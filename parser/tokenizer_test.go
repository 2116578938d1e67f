package parser_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	. "github.com/gad-lang/esparse/parser"
	"github.com/gad-lang/esparse/parser/source"
	"github.com/gad-lang/esparse/token"
)

type scanResult struct {
	Token token.Token
	Text  string
}

type tokenTester struct {
	cfg *Config
	eol bool
}

// scan returns the tokens of input up to and including EOF, or the lex
// error that stopped the tokenizer.
func (tt *tokenTester) scan(input string) (res []scanResult, diag *Diagnostic) {
	file := source.NewFileString("test", input)
	tz := NewTokenizer(file, tt.cfg, nil)
	defer func() {
		if r := recover(); r != nil {
			diag = r.(*Diagnostic)
		}
	}()
	for {
		var tok Token
		if tt.eol {
			tok = tz.NextOrEndOfLine()
		} else {
			tok = tz.Next()
		}
		res = append(res, scanResult{tok.Kind, file.Slice(tok.Pos(), tok.End())})
		if tok.Kind == token.EOF {
			return
		}
	}
}

func (tt *tokenTester) expect(t *testing.T, input string, expected ...scanResult) {
	t.Helper()
	res, diag := tt.scan(input)
	require.Nil(t, diag, "input: %q", input)
	require.Equal(t, append(expected, scanResult{Token: token.EOF}), res, "input: %q", input)
}

func (tt *tokenTester) expectKinds(t *testing.T, input string, expected ...token.Token) {
	t.Helper()
	res, diag := tt.scan(input)
	require.Nil(t, diag, "input: %q", input)
	var kinds []token.Token
	for _, r := range res {
		kinds = append(kinds, r.Token)
	}
	require.Equal(t, append(expected, token.EOF), kinds, "input: %q", input)
}

func (tt *tokenTester) expectError(t *testing.T, input string, id MessageID) {
	t.Helper()
	_, diag := tt.scan(input)
	require.NotNil(t, diag, "input: %q", input)
	require.Equal(t, LexError, diag.Kind)
	require.Equal(t, id, diag.ID, "input: %q: %s", input, diag)
}

func TestTokenizer_Operators(t *testing.T) {
	tt := &tokenTester{}
	tt.expectKinds(t, "a = b + 1;",
		token.Ident, token.Assign, token.Ident, token.Add, token.Number, token.Semicolon)
	tt.expectKinds(t, ">>>= ?? ??= ?. ?.5 ... => **= &&= ||=",
		token.UShrAssign, token.Nullish, token.NullishAssign, token.QuestionDot,
		token.Question, token.Number, token.Ellipsis, token.Arrow, token.ExpAssign,
		token.LogicalAndAssign, token.LogicalOrAssign)
	tt.expectKinds(t, "=== !== == != <= >= << >> >>> ** ++ -- ~ ! @",
		token.StrictEqual, token.StrictNotEqual, token.Equal, token.NotEqual,
		token.LessEq, token.GreaterEq, token.Shl, token.Shr, token.UShr,
		token.Exp, token.Inc, token.Dec, token.BitNot, token.Not, token.At)
	tt.expectKinds(t, "a.b?.c",
		token.Ident, token.Period, token.Ident, token.QuestionDot, token.Ident)
}

func TestTokenizer_Keywords(t *testing.T) {
	tt := &tokenTester{}
	tt.expectKinds(t, "let yield async of function instanceof",
		token.Let, token.Yield, token.Async, token.Of, token.Function, token.InstanceOf)
	tt.expect(t, `\u0061b`, scanResult{token.Ident, `\u0061b`})
	tt.expect(t, `l\u0065t`, scanResult{token.Ident, `l\u0065t`})
	tt.expect(t, "#x", scanResult{token.PrivateName, "#x"})
	tt.expect(t, "ünïcödé", scanResult{token.Ident, "ünïcödé"})

	file := source.NewFileString("test", `l\u{65}t`)
	tok := NewTokenizer(file, nil, nil).Next()
	require.True(t, tok.Flags.Has(EscapedIdent))
	require.Equal(t, "let", IdentValue(file.Slice(tok.Pos(), tok.End())))

	tt.expectError(t, `\x61`, MsgInvalidIdentEscape)
	tt.expectError(t, `a\u0020`, MsgInvalidIdentEscape)
	tt.expectError(t, "# x", MsgIllegalChar)
	tt.expectError(t, "a ¤", MsgIllegalChar)
}

func TestTokenizer_Numbers(t *testing.T) {
	tt := &tokenTester{}
	for _, s := range []string{"0", "42", "1.5", ".5", "5.", "1e3", "1E-3", "0x1F", "0o17", "0b101", "1_000", "0xF_F"} {
		tt.expect(t, s, scanResult{token.Number, s})
	}
	tt.expect(t, "1n", scanResult{token.BigInt, "1n"})
	tt.expect(t, "0xFFn", scanResult{token.BigInt, "0xFFn"})
	tt.expect(t, "1..toString",
		scanResult{token.Number, "1."}, scanResult{token.Period, "."}, scanResult{token.Ident, "toString"})

	flags := func(s string) TokenFlags {
		return NewTokenizer(source.NewFileString("test", s), nil, nil).Next().Flags
	}
	require.True(t, flags("017").Has(LegacyOctal))
	require.True(t, flags("08").Has(NonOctalDecimal))
	require.True(t, flags("09.5").Has(NonOctalDecimal))
	require.Zero(t, flags("0.8"))

	tt.expectError(t, "1__0", MsgNumericSeparator)
	tt.expectError(t, "1_", MsgNumericSeparator)
	tt.expectError(t, "0_1", MsgNumericSeparator)
	tt.expectError(t, "0x", MsgMissingDigits)
	tt.expectError(t, "1e", MsgMissingExponent)
	tt.expectError(t, "3in", MsgIdentAfterNumber)
	tt.expectError(t, "1.5n", MsgInvalidBigInt)
	tt.expectError(t, "08n", MsgInvalidBigInt)

	es2019 := NewConfig()
	es2019.Version = token.ES2019
	(&tokenTester{cfg: es2019}).expectError(t, "1n", MsgFeature)
	(&tokenTester{cfg: es2019}).expectError(t, "1_0", MsgIdentAfterNumber)
}

func TestTokenizer_Strings(t *testing.T) {
	tt := &tokenTester{}
	tt.expect(t, `'a' "b"`, scanResult{token.String, `'a'`}, scanResult{token.String, `"b"`})
	tt.expect(t, `'a\'b'`, scanResult{token.String, `'a\'b'`})
	tt.expect(t, "'a\\\nb'", scanResult{token.String, "'a\\\nb'"})
	tt.expect(t, "'a\u2028b'", scanResult{token.String, "'a\u2028b'"})

	flags := func(s string) TokenFlags {
		return NewTokenizer(source.NewFileString("test", s), nil, nil).Next().Flags
	}
	require.Zero(t, flags(`'ab'`))
	require.True(t, flags(`'a\nb'`).Has(EscapedString))
	require.False(t, flags(`'a\nb'`).Has(OctalEscape))
	require.True(t, flags(`'\07'`).Has(OctalEscape))
	require.True(t, flags(`'\8'`).Has(OctalEscape))
	require.False(t, flags(`'\0'`).Has(OctalEscape))

	tt.expectError(t, `'a`, MsgUnterminatedString)
	tt.expectError(t, "'a\nb'", MsgUnterminatedString)
	tt.expectError(t, `'\x4'`, MsgInvalidHexEscape)
	tt.expectError(t, `'\u12'`, MsgInvalidUnicodeEscape)
	tt.expectError(t, `'\u{110000}'`, MsgInvalidUnicodeEscape)
}

func TestTokenizer_Templates(t *testing.T) {
	tt := &tokenTester{}
	tt.expect(t, "`abc`", scanResult{token.NoSubstTemplate, "`abc`"})
	tt.expect(t, "`a${b}c${d}e`",
		scanResult{token.TemplateHead, "`a${"},
		scanResult{token.Ident, "b"},
		scanResult{token.TemplateMiddle, "}c${"},
		scanResult{token.Ident, "d"},
		scanResult{token.TemplateTail, "}e`"})
	tt.expectKinds(t, "`a${`b${c}`}d`",
		token.TemplateHead, token.TemplateHead, token.Ident, token.TemplateTail, token.TemplateTail)
	tt.expectKinds(t, "`${ {a:1} }`",
		token.TemplateHead, token.LBrace, token.Ident, token.Colon, token.Number,
		token.RBrace, token.TemplateTail)
	tt.expectKinds(t, "{`${a}`}",
		token.LBrace, token.TemplateHead, token.Ident, token.TemplateTail, token.RBrace)

	file := source.NewFileString("test", "`\\unicode`")
	tok := NewTokenizer(file, nil, nil).Next()
	require.Equal(t, token.NoSubstTemplate, tok.Kind)
	require.True(t, tok.Flags.Has(InvalidEscape))

	tt.expectError(t, "`abc", MsgUnterminatedTemplate)
	tt.expectError(t, "`a${b}c", MsgUnterminatedTemplate)
}

func TestTokenizer_Lines(t *testing.T) {
	tt := &tokenTester{eol: true}
	tt.expectKinds(t, "a\n\nb", token.Ident, token.EOL, token.Ident)
	tt.expectKinds(t, "a\r\n  b\n", token.Ident, token.EOL, token.Ident)
	tt.expectKinds(t, "a\u2028b", token.Ident, token.EOL, token.Ident)
	tt.expectKinds(t, "a /* x */ b", token.Ident, token.Ident)
	tt.expectKinds(t, "a /*\n*/ b", token.Ident, token.EOL, token.Ident)
	tt.expectKinds(t, "a // c\nd", token.Ident, token.EOL, token.Ident)

	(&tokenTester{}).expectKinds(t, "a\n\nb /* c */ // d\ne", token.Ident, token.Ident, token.Ident)
	(&tokenTester{}).expectError(t, "a /* b", MsgUnterminatedComment)

	res, _ := tt.scan("a\n  b")
	require.Equal(t, scanResult{token.EOL, ""}, res[1])
}

func TestTokenizer_Comments(t *testing.T) {
	tt := &tokenTester{}
	tt.expect(t, "#!/usr/bin/env node\na", scanResult{token.Ident, "a"})
	tt.expect(t, "//# sourceURL=x.js\na",
		scanResult{token.DirectiveComment, "//# sourceURL=x.js"}, scanResult{token.Ident, "a"})
	tt.expect(t, "//@ sourceURL=x.js",
		scanResult{token.DirectiveComment, "//@ sourceURL=x.js"})
	tt.expect(t, "//#sourceURL=x.js")

	// html-like comments are scripts only
	tt.expect(t, "<!-- x\na", scanResult{token.Ident, "a"})
	tt.expect(t, "a\n--> x\nb", scanResult{token.Ident, "a"}, scanResult{token.Ident, "b"})
	tt.expectKinds(t, "a --> b", token.Ident, token.Dec, token.Greater, token.Ident)

	module := NewConfig()
	module.Module = true
	(&tokenTester{cfg: module}).expectKinds(t, "a\n--> b",
		token.Ident, token.Dec, token.Greater, token.Ident)

	es2022 := NewConfig()
	es2022.Version = token.ES2022
	(&tokenTester{cfg: es2022}).expectError(t, "#!x\na", MsgIllegalChar)
}

func TestTokenizer_RescanRegexp(t *testing.T) {
	rescan := func(input string) (Token, string, Token) {
		file := source.NewFileString("test", input)
		tz := NewTokenizer(file, nil, nil)
		tok := tz.Next()
		re, ok := tz.RescanRegexp(tok)
		require.True(t, ok, input)
		return re, file.Slice(re.Pos(), re.End()), tz.Next()
	}

	re, text, next := rescan("/ab+c/g;")
	require.Equal(t, token.Regexp, re.Kind)
	require.Equal(t, "/ab+c/g", text)
	require.Equal(t, token.Semicolon, next.Kind)

	_, text, next = rescan("/=a/ x")
	require.Equal(t, "/=a/", text)
	require.Equal(t, token.Ident, next.Kind)

	_, text, _ = rescan(`/[/]\//dgimsuy`)
	require.Equal(t, `/[/]\//dgimsuy`, text)

	pattern, flags := RegexpParts(text)
	require.Equal(t, `[/]\/`, pattern)
	require.Equal(t, "dgimsuy", flags)

	file := source.NewFileString("test", "a")
	tz := NewTokenizer(file, nil, nil)
	tok := tz.Next()
	_, ok := tz.RescanRegexp(tok)
	require.False(t, ok)

	fail := func(input string, id MessageID) {
		defer func() {
			d, _ := recover().(*Diagnostic)
			require.NotNil(t, d, input)
			require.Equal(t, id, d.ID, input)
		}()
		tz := NewTokenizer(source.NewFileString("test", input), nil, nil)
		tz.RescanRegexp(tz.Next())
	}
	fail("/abc", MsgUnterminatedRegexp)
	fail("/a\nb/", MsgUnterminatedRegexp)
	fail("/a/gg", MsgInvalidRegexpFlags)
	fail("/a/x", MsgInvalidRegexpFlags)
}

func TestTokenizer_RescanRegexpInTemplate(t *testing.T) {
	file := source.NewFileString("test", "`${/}/}`")
	tz := NewTokenizer(file, nil, nil)
	require.Equal(t, token.TemplateHead, tz.Next().Kind)
	re, ok := tz.RescanRegexp(tz.Next())
	require.True(t, ok)
	require.Equal(t, "/}/", file.Slice(re.Pos(), re.End()))
	require.Equal(t, token.TemplateTail, tz.Next().Kind)
	require.Equal(t, token.EOF, tz.Next().Kind)
}

func TestTokenizer_Scripting(t *testing.T) {
	cfg := NewConfig()
	cfg.Scripting = true

	tt := &tokenTester{cfg: cfg}
	tt.expect(t, `"a${b}c"`, scanResult{token.EditString, `"a${b}c"`})
	tt.expect(t, `"a${"}"}c"`, scanResult{token.EditString, `"a${"}"}c"`})
	tt.expect(t, `'a${b}c'`, scanResult{token.String, `'a${b}c'`})
	tt.expectError(t, `"a${b"`, MsgUnterminatedString)
	(&tokenTester{}).expect(t, `"a${b}c"`, scanResult{token.String, `"a${b}c"`})

	here := func(cfg *Config, input string) (Token, bool, string, Token) {
		file := source.NewFileString("test", input)
		tz := NewTokenizer(file, cfg, nil)
		tok := tz.Next()
		hs, ok := tz.RescanHereString(tok)
		return hs, ok, file.Slice(hs.Pos(), hs.End()), tz.Next()
	}

	hs, ok, text, next := here(cfg, "<<EOF\nline 1\nline 2\nEOF\nx")
	require.True(t, ok)
	require.Equal(t, token.HereString, hs.Kind)
	require.False(t, hs.Flags.Has(RawHereString))
	require.Equal(t, "<<EOF\nline 1\nline 2\nEOF", text)
	require.Equal(t, token.Ident, next.Kind)

	hs, ok, _, _ = here(cfg, "<<'EOF'\n${x}\nEOF\n")
	require.True(t, ok)
	require.True(t, hs.Flags.Has(RawHereString))

	// not a here-string header: << stays an operator
	hs, ok, _, next = here(cfg, "<<1")
	require.False(t, ok)
	require.Equal(t, token.Shl, hs.Kind)
	require.Equal(t, token.Number, next.Kind)

	_, ok, _, _ = here(NewConfig(), "<<EOF\nx\nEOF\n")
	require.False(t, ok)

	func() {
		defer func() {
			d, _ := recover().(*Diagnostic)
			require.NotNil(t, d)
			require.Equal(t, MsgUnterminatedHereString, d.ID)
		}()
		here(cfg, "<<EOF\nline\n")
	}()
}

func TestTokenizer_Positions(t *testing.T) {
	file := source.NewFileString("test", "a\n  bb + 'c'")
	tz := NewTokenizer(file, nil, nil)
	var got []int
	for tok := tz.Next(); tok.Kind != token.EOF; tok = tz.Next() {
		pos := file.Position(tok.Pos())
		got = append(got, pos.Line, pos.Column, int(tok.Len))
	}
	require.Equal(t, []int{1, 1, 1, 2, 3, 2, 2, 6, 1, 2, 8, 3}, got)

	_, diag := (&tokenTester{}).scan("a\n  'b")
	require.Equal(t, 2, diag.Line)
	require.Equal(t, 3, diag.Column)
	require.Equal(t, "SyntaxError: unterminated string literal\n\tat test:2:3", diag.Error())
}

func TestInterner(t *testing.T) {
	in := NewInterner()
	a := in.Intern([]byte("abc"))
	b := in.InternString("abc")
	require.Equal(t, "abc", a)
	require.Equal(t, a, b)
	require.Equal(t, 1, in.Len())
	in.InternString("d")
	require.Equal(t, 2, in.Len())

	tz := NewTokenizer(source.NewFileString("test", ""), nil, in)
	require.Same(t, in, tz.Interner())
}
