// Copyright (c) 2020-2023 Ozan Hacıbekiroğlu.
// Use of this source code is governed by a MIT License
// that can be found in the LICENSE file.

package parser

import (
	"fmt"
	"io"
	"strconv"

	"go.uber.org/zap"

	"github.com/gad-lang/esparse/parser/ast"
	"github.com/gad-lang/esparse/parser/node"
	"github.com/gad-lang/esparse/parser/scope"
	"github.com/gad-lang/esparse/parser/source"
	"github.com/gad-lang/esparse/token"
)

// maxErrors is the number of errors after which a recovering session
// gives up.
const maxErrors = 10

type bailout struct{}

// Parser is a parse session. It owns the tokenizer, the lookahead buffer,
// the scope tree and the context stack of one source unit.
type Parser struct {
	File   *source.File
	Errors ErrorList

	cfg    *Config
	mode   Mode
	tz     *Tokenizer
	buf    *tokenBuffer
	in     *Interner
	scopes *scope.Tree
	ctx    contextStack
	sink   Sink
	logger *zap.Logger
	nests  []nestState

	idx     int   // buffer index of tok
	tok     Token // current token
	prev    Token // previous token
	newline bool  // line terminator between prev and tok

	syncPos   int // last sync position
	syncCount int // number of syncs without progress
	lastLine  int // line of the last error
	trace     bool
	indent    int
	traceOut  io.Writer

	noIn       bool // in is not a binary operator (for-in heads)
	module     bool
	sourceName string
	hash       uint64
	exports    map[string]ast.Pos
	localExps  []*node.Ident
	skipped    int
}

type nestState struct {
	tz      *Tokenizer
	idx     int
	tok     Token
	prev    Token
	newline bool
}

func newParser(file *source.File, cfg *Config, sink Sink, mode Mode) *Parser {
	if cfg == nil {
		cfg = NewConfig()
	}
	if sink == nil {
		sink = discard{}
	}
	in := NewInterner()
	tz := NewTokenizer(file, cfg, in)
	p := &Parser{
		File:       file,
		cfg:        cfg,
		mode:       mode,
		tz:         tz,
		buf:        newTokenBuffer(tz),
		in:         in,
		scopes:     scope.NewTree(scope.Rules{AnnexB: cfg.AnnexB}),
		sink:       sink,
		logger:     cfg.logger(),
		idx:        -1,
		syncPos:    -1,
		sourceName: file.Name,
	}
	if cfg.Trace != nil {
		p.trace = true
		p.traceOut = cfg.Trace
	}
	if cfg.SkipCache != nil {
		p.hash = cfg.SkipCache.Hash(file.Data)
	}
	return p
}

// Scopes returns the scope tree of the session.
func (p *Parser) Scopes() *scope.Tree {
	return p.scopes
}

// SourceName returns the file name, or the name given by a sourceURL
// directive comment.
func (p *Parser) SourceName() string {
	return p.sourceName
}

// next moves to the next token, skipping end-of-line markers and directive
// comments. The parser state is unchanged if the tokenizer fails.
func (p *Parser) next() {
	if p.trace && p.idx >= 0 {
		p.traceToken()
	}
	nl := false
	for i := p.idx + 1; ; i++ {
		t := p.buf.Get(i)
		switch t.Kind {
		case token.EOL:
			nl = true
			continue
		case token.DirectiveComment:
			p.directiveComment(t)
			continue
		}
		p.prev = p.tok
		p.tok = t
		p.idx = i
		p.newline = nl
		return
	}
}

// peekAt returns the n-th token after the current one and whether a line
// terminator precedes it.
func (p *Parser) peekAt(n int) (t Token, nl bool) {
	for i := p.idx + 1; ; i++ {
		t = p.buf.Get(i)
		switch t.Kind {
		case token.EOL:
			nl = true
			continue
		case token.DirectiveComment:
			continue
		}
		if n--; n == 0 {
			return
		}
		nl = false
	}
}

func (p *Parser) peek() (Token, bool) {
	return p.peekAt(1)
}

// replace substitutes the current token after a rescan.
func (p *Parser) replace(t Token) {
	p.buf.Replace(p.idx, t)
	p.tok = t
}

// directiveComment handles //# name=value comments.
func (p *Parser) directiveComment(t Token) {
	text := p.text(t)[3:]
	for i := 0; i < len(text); i++ {
		if text[i] != '=' {
			continue
		}
		name, value := trimSpace(text[:i]), trimSpace(text[i+1:])
		if name == "sourceURL" && value != "" {
			p.sourceName = value
		}
		return
	}
}

func trimSpace(s string) string {
	for len(s) > 0 && (s[0] == ' ' || s[0] == '\t') {
		s = s[1:]
	}
	for len(s) > 0 && (s[len(s)-1] == ' ' || s[len(s)-1] == '\t' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}

func (p *Parser) text(t Token) string {
	return p.File.Slice(t.Pos(), t.End())
}

// name returns the interned identifier name of t, escapes decoded.
func (p *Parser) name(t Token) string {
	raw := p.File.Data[t.Pos():t.End()]
	if t.Flags.Has(EscapedIdent) {
		return p.in.InternString(IdentValue(string(raw)))
	}
	return p.in.Intern(raw)
}

func (p *Parser) is(kinds ...token.Token) bool {
	return p.tok.Kind.Is(kinds...)
}

// isIdent reports whether t may be an identifier somewhere: plain names,
// contextual keywords and words reserved in strict code only.
func isIdent(t Token) bool {
	k := t.Kind
	return k == token.Ident || k.IsContextual() || k.IsStrictReserved()
}

// isContextual reports whether t is the contextual keyword kind written
// without escapes.
func isContextual(t Token, kind token.Token) bool {
	return t.Kind == kind && !t.Flags.Has(EscapedIdent)
}

func (p *Parser) strict() bool {
	s := p.scopes.CurrentScope()
	return s != nil && s.Flags.Has(scope.Strict)
}

func (p *Parser) allows(f Feature) bool {
	return p.cfg.Allows(f)
}

// require raises an error if the feature is not enabled.
func (p *Parser) require(f Feature, span ast.Span) {
	if !p.cfg.Allows(f) {
		p.raise(span, MsgFeature, f.String(), f.MinVersion().String())
	}
}

func (p *Parser) inAsync() bool {
	fn := p.ctx.effective()
	return fn != nil && fn.async
}

func (p *Parser) inGenerator() bool {
	fn := p.ctx.effective()
	return fn != nil && fn.generator
}

// awaitReserved reports whether await is a keyword here.
func (p *Parser) awaitReserved() bool {
	return p.inAsync() || p.module
}

// expect consumes a token of the given kind.
func (p *Parser) expect(kind token.Token) Token {
	t := p.tok
	if t.Kind != kind {
		p.errorExpected(t, "'"+kind.String()+"'")
	}
	p.next()
	return t
}

// expectSemi consumes a statement terminator, inserting one where the
// language allows it.
func (p *Parser) expectSemi() {
	switch p.tok.Kind {
	case token.Semicolon:
		p.next()
	case token.RBrace, token.EOF:
		// semicolon is optional before a closing '}' and at the end
	default:
		if !p.newline {
			p.errorExpected(p.tok, "';'")
		}
	}
}

func (p *Parser) canInsertSemi() bool {
	return p.newline || p.is(token.Semicolon, token.RBrace, token.EOF)
}

func (p *Parser) describe(t Token) string {
	switch {
	case t.Kind == token.EOF:
		return "end of input"
	case t.Kind.IsLiteral():
		s := p.text(t)
		if len(s) > 24 {
			s = s[:21] + "..."
		}
		return strconv.Quote(s)
	}
	return "'" + t.Kind.String() + "'"
}

func (p *Parser) diag(kind DiagKind, span ast.Span, id MessageID, args ...string) *Diagnostic {
	pos := p.File.Position(int(span.From))
	return &Diagnostic{
		Kind:   kind,
		ID:     id,
		Args:   args,
		Offset: int(span.From),
		Line:   pos.Line,
		Column: pos.Column,
		Span:   span,
		File:   p.File,
	}
}

// raise unwinds the parser with a syntax error.
func (p *Parser) raise(span ast.Span, id MessageID, args ...string) {
	panic(p.diag(SyntaxError, span, id, args...))
}

func (p *Parser) raiseAt(t Token, id MessageID, args ...string) {
	p.raise(t.Span(), id, args...)
}

func (p *Parser) raiseNode(n node.Node, id MessageID, args ...string) {
	p.raise(ast.Span{From: n.Pos(), To: n.End()}, id, args...)
}

func (p *Parser) unexpected(t Token) {
	if t.Kind == token.EOF {
		p.raiseAt(t, MsgUnexpectedEOF)
	}
	p.raiseAt(t, MsgUnexpectedToken, p.describe(t))
}

func (p *Parser) errorExpected(t Token, what string) {
	if t.Kind == token.EOF {
		p.raiseAt(t, MsgUnexpectedEOF)
	}
	p.raiseAt(t, MsgExpected, what, p.describe(t))
}

// report records a diagnostic. Errors on the line of the previous error
// are dropped; too many errors end the session.
func (p *Parser) report(d *Diagnostic) {
	if d.Kind != Warning {
		n := len(p.Errors.Errors())
		if n > 0 && p.lastLine == d.Line {
			// discard errors reported on the same line
			return
		}
		if n > maxErrors {
			// too many errors; terminate early
			panic(bailout{})
		}
		p.lastLine = d.Line
	}
	p.record(d)
}

func (p *Parser) record(d *Diagnostic) {
	p.Errors.Add(d)
	p.sink.Report(d)
}

// fail reports an error that does not leave the parser out of sync. It
// unwinds unless the session recovers from errors.
func (p *Parser) fail(d *Diagnostic) {
	if p.mode.Has(Recover) {
		p.report(d)
		return
	}
	panic(d)
}

func (p *Parser) warn(span ast.Span, id MessageID, args ...string) {
	p.report(p.diag(Warning, span, id, args...))
}

var conflictMessages = map[scope.ConflictKind]MessageID{
	scope.Redeclaration:     MsgRedeclaration,
	scope.VarLexical:        MsgVarLexical,
	scope.ParamLexical:      MsgParamLexical,
	scope.CatchParamLexical: MsgCatchParamLexical,
	scope.DuplicateParam:    MsgDuplicateParam,
	scope.DuplicatePrivate:  MsgDuplicatePrivate,
	scope.UndeclaredPrivate: MsgUndeclaredPrivate,
	scope.ScopeClosed:       MsgRedeclaration,
}

func (p *Parser) conflict(c *scope.Conflict) {
	if c == nil {
		return
	}
	span := ast.Span{From: ast.Pos(c.Pos), To: ast.Pos(c.Pos + len(c.Name))}
	p.fail(p.diag(SyntaxError, span, conflictMessages[c.Kind], c.Name))
}

// declare binds id in the scope selected by flags.
func (p *Parser) declare(id *node.Ident, flags scope.SymbolFlags) {
	sym, c := p.scopes.Declare(id.Name, flags, int(id.From))
	id.Sym = sym
	p.conflict(c)
}

// reference records id as a use of a name in the current scope.
func (p *Parser) reference(id *node.Ident) {
	r := &scope.Reference{Name: id.Name, Pos: int(id.From)}
	id.Ref = r
	p.scopes.Reference(r)
	if id.Name == "arguments" {
		if fn := p.ctx.nonArrow(); fn != nil && (fn.fieldInit || fn.staticBlock) {
			p.raiseNode(id, MsgArgumentsInClassInit)
		}
	}
}

func (p *Parser) openScope(kind scope.Kind, flags scope.Flags, pos int) scope.ID {
	return p.scopes.Open(kind, flags, pos)
}

func (p *Parser) closeScope(end int) {
	for _, c := range p.scopes.Close(end) {
		p.conflict(c)
	}
}

// recoverStmt parses a statement with fn. A syntax error is reported, the
// session state is restored to the start of the statement and the input
// is skipped to the next statement boundary.
func (p *Parser) recoverStmt(fn func() node.Stmt) (s node.Stmt) {
	var (
		startIdx = p.idx
		start    = p.tok
		cur      = p.scopes.Current()
		depth    = p.ctx.depth()
		holes    = p.tz.depth()
		nests    = len(p.nests)
	)
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		d, ok := r.(*Diagnostic)
		if !ok {
			panic(r)
		}
		p.report(d)
		for len(p.nests) > nests {
			p.unnest()
		}
		for p.scopes.Current() != cur {
			p.scopes.Flatten()
		}
		p.ctx.truncate(depth)
		p.tz.truncateHoles(holes)
		p.noIn = false
		p.sync(startIdx)
		p.logger.Debug("recovered from syntax error",
			zap.String("file", p.sourceName),
			zap.Int("line", d.Line),
			zap.String("message", d.Message()),
			zap.Int("resume", p.tok.Pos()))
		s = &node.BadStmt{Span: ast.Span{From: ast.Pos(start.Pos()), To: ast.Pos(p.prev.End())}}
	}()
	return fn()
}

// sync skips to the end of a failed statement: past a ';' or the '}'
// closing the braces opened since startIdx, or up to the first token of a
// new line.
func (p *Parser) sync(startIdx int) {
	depth := 0
	for i := startIdx; i < p.idx; i++ {
		switch p.buf.Get(i).Kind {
		case token.LBrace, token.TemplateHead:
			depth++
		case token.RBrace, token.TemplateTail:
			depth--
		}
	}
	if depth < 0 {
		depth = 0
	}
	if p.tok.Pos() <= p.syncPos {
		p.syncCount++
		if p.syncCount > maxErrors {
			panic(bailout{})
		}
	} else {
		p.syncPos = p.tok.Pos()
		p.syncCount = 0
	}
	moved := false
	for p.tok.Kind != token.EOF {
		if moved && p.newline && depth == 0 {
			return
		}
		switch p.tok.Kind {
		case token.LBrace, token.TemplateHead:
			depth++
		case token.RBrace, token.TemplateTail:
			if depth > 0 {
				depth--
			}
			if depth == 0 {
				p.skipToken()
				return
			}
		case token.Semicolon:
			if depth == 0 {
				p.skipToken()
				return
			}
		}
		p.skipToken()
		moved = true
	}
}

// skipToken moves to the next token, reporting lex errors instead of
// unwinding.
func (p *Parser) skipToken() {
	defer func() {
		if r := recover(); r != nil {
			d, ok := r.(*Diagnostic)
			if !ok {
				panic(r)
			}
			p.report(d)
		}
	}()
	p.next()
}

// nest parses the text in [start, end) with a nested tokenizer sharing
// the buffer and the interner.
func (p *Parser) nest(start, end int) {
	p.nests = append(p.nests, nestState{tz: p.tz, idx: p.idx, tok: p.tok, prev: p.prev, newline: p.newline})
	nt := p.tz.nest(start, end)
	p.tz = nt
	p.idx = p.buf.Nest(nt) - 1
	p.next()
}

func (p *Parser) unnest() {
	n := len(p.nests) - 1
	st := p.nests[n]
	p.nests = p.nests[:n]
	p.buf.Unnest()
	p.tz.unnest()
	p.tz = st.tz
	p.idx, p.tok, p.prev, p.newline = st.idx, st.tok, st.prev, st.newline
}

func (p *Parser) printTrace(a ...any) {
	const (
		dots = ". . . . . . . . . . . . . . . . . . . . . . . . . . . . . . . "
		n    = len(dots)
	)

	filePos := p.File.Position(p.tok.Pos())
	_, _ = fmt.Fprintf(p.traceOut, "%5d: %5d:%3d: ", p.tok.Pos(), filePos.Line,
		filePos.Column)
	i := 2 * p.indent
	for i > n {
		_, _ = fmt.Fprint(p.traceOut, dots)
		i -= n
	}
	_, _ = fmt.Fprint(p.traceOut, dots[0:i])
	_, _ = fmt.Fprintln(p.traceOut, a...)
}

func (p *Parser) traceToken() {
	s := p.tok.Kind.String()
	switch {
	case p.tok.Kind.IsLiteral():
		p.printTrace(s, p.text(p.tok))
	case p.tok.Kind.IsOperator(), p.tok.Kind.IsKeyword(), p.tok.Kind.IsContextual():
		p.printTrace(`"` + s + `"`)
	default:
		p.printTrace(s)
	}
}

func tracep(p *Parser, msg string) *Parser {
	p.printTrace(msg, "(")
	p.indent++
	return p
}

func untracep(p *Parser) {
	p.indent--
	p.printTrace(")")
}
