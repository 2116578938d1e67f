// Copyright (c) 2020-2023 Ozan Hacıbekiroğlu.
// Use of this source code is governed by a MIT License
// that can be found in the LICENSE file.

package parser

import (
	"go.uber.org/zap"

	"github.com/gad-lang/esparse/parser/ast"
	"github.com/gad-lang/esparse/parser/node"
	"github.com/gad-lang/esparse/parser/scope"
	"github.com/gad-lang/esparse/token"
)

// parseFunctionHead parses the keyword, star and optional name of a
// function declaration or expression. The current token is function.
func (p *Parser) parseFunctionHead(async bool, kind node.FuncKind) (*node.FuncLit, Token) {
	if async {
		p.require(FeatureAsync, p.prev.Span())
	}
	p.expect(token.Function)
	f := &node.FuncLit{Kind: kind}
	if async {
		f.Flags.Set(ast.Async)
	}
	if p.is(token.Mul) {
		p.require(FeatureGenerators, p.tok.Span())
		if async {
			p.require(FeatureAsyncIteration, p.tok.Span())
		}
		f.Flags.Set(ast.Generator)
		p.next()
	}
	t := p.tok
	if isIdent(t) {
		f.Name = &node.Ident{Span: t.Span(), Name: p.name(t)}
		p.next()
	}
	return f, t
}

// parseFunctionExpr parses a function expression. start is the function
// or async token.
func (p *Parser) parseFunctionExpr(start Token, async bool) node.Expr {
	if p.trace {
		defer untracep(tracep(p, "FuncExpr"))
	}

	f, nt := p.parseFunctionHead(async, node.FuncExpression)
	if f.Name != nil {
		// the name is bound inside the function, where yield and await
		// follow the function's own kind
		p.checkIdentIn(nt, f.Name.Name, true, p.strict(), f.IsGenerator(), f.IsAsync() || p.module)
	}
	p.parseFunctionTail(f, p.funcCtxOf(f), 0, start)
	return f
}

// parseFunctionDecl parses a function declaration and binds its name in
// the enclosing scope. Default exports may omit the name.
func (p *Parser) parseFunctionDecl(start Token, async, optionalName bool) *node.FuncLit {
	if p.trace {
		defer untracep(tracep(p, "FuncDecl"))
	}

	f, nt := p.parseFunctionHead(async, node.FuncDeclaration)
	if f.Name == nil {
		if !optionalName {
			p.errorExpected(nt, "identifier")
		}
	} else {
		p.checkIdent(nt, f.Name.Name, true)
		p.declareFunction(f)
	}
	p.parseFunctionTail(f, p.funcCtxOf(f), 0, start)
	return f
}

func (p *Parser) funcCtxOf(f *node.FuncLit) *funcCtx {
	fn := newFuncCtx()
	fn.async, fn.generator = f.IsAsync(), f.IsGenerator()
	fn.allowReturn, fn.allowNewTarget = true, true
	return fn
}

// declareFunction binds the name of a function declaration. Functions at
// the top of a function or script are var-like; in blocks they are lexical
// and may also be hoisted to the function under Annex B.
func (p *Parser) declareFunction(f *node.FuncLit) {
	cur := p.scopes.CurrentScope()
	var flags scope.SymbolFlags
	switch {
	case cur.Kind == scope.Module:
		flags = scope.BlockFunction | scope.Function
	case cur.Kind.IsVarScope():
		flags = scope.Var | scope.Function
	case !p.allows(FeatureES5BlockFunctions):
		if p.strict() {
			p.raiseNode(f.Name, MsgStrictFunction)
		}
		p.warn(f.Name.Span, MsgWarnBlockFunction, FeatureES5BlockFunctions.MinVersion().String())
		flags = scope.Var | scope.Function
	default:
		flags = scope.BlockFunction | scope.Function
		if !f.IsAsync() && !f.IsGenerator() {
			flags |= scope.PlainFunction
		}
	}
	p.declare(f.Name, flags)
}

// parseMethod parses the parameters and body of an object or class
// method. start is the first token of the member.
func (p *Parser) parseMethod(kind node.FuncKind, async, gen bool, start Token, flags scope.Flags) *node.FuncLit {
	if async {
		p.require(FeatureAsync, start.Span())
	}
	f := &node.FuncLit{Kind: kind}
	if async {
		f.Flags.Set(ast.Async)
	}
	if gen {
		f.Flags.Set(ast.Generator)
	}
	fn := p.funcCtxOf(f)
	fn.allowSuperProp = true
	fn.allowSuperCall = flags.Has(scope.DerivedConstructor)
	p.parseFunctionTail(f, fn, flags|scope.Method, start)
	return f
}

// parseFunctionTail parses the parameter list and body of f in a new
// parameter scope.
func (p *Parser) parseFunctionTail(f *node.FuncLit, fn *funcCtx, flags scope.Flags, start Token) {
	f.ParamsScope = p.openScope(scope.FunctionParams, flags, p.tok.Pos())
	if f.Kind == node.FuncExpression && f.Name != nil {
		p.scopes.SetSelfName(f.Name.Name)
	}
	p.ctx.pushFunc(fn)
	fn.inParams = true
	f.Params = p.parseFormalParams()
	fn.inParams = false
	f.Params.Scope = f.ParamsScope
	if f.Params.IsSimple() {
		f.Flags.Set(ast.SimpleParams)
	}
	dupes := p.declareParams(f.Params)
	p.checkAccessorParams(f)

	f.Body = p.parseFuncBody(f, dupes, flags)
	p.ctx.pop()
	if p.strict() {
		f.Flags.Set(ast.Strict)
	}
	p.closeScope(p.prev.End())
	f.Span = p.spanFrom(start)
}

func (p *Parser) checkAccessorParams(f *node.FuncLit) {
	n := len(f.Params.List)
	switch f.Kind {
	case node.GetterFunc:
		if n != 0 {
			p.raiseNode(f.Params, MsgGetterParams)
		}
	case node.SetterFunc:
		if n == 0 && p.cfg.Scripting {
			return
		}
		if n != 1 {
			p.raiseNode(f.Params, MsgSetterParams)
		}
		if _, ok := f.Params.List[0].(*node.RestElement); ok {
			p.raiseNode(f.Params, MsgSetterParams)
		}
	}
}

// parseArrow parses the body of an arrow function whose parameter scope
// is current. start is the first token of the function.
func (p *Parser) parseArrow(start Token, params *node.FormalParams, async bool) *node.FuncLit {
	p.require(FeatureArrows, p.tok.Span())
	if async {
		p.require(FeatureAsync, start.Span())
	}
	p.expect(token.Arrow)
	f := &node.FuncLit{Kind: node.ArrowFunc, Params: params, ParamsScope: params.Scope}
	f.Flags.Set(ast.Arrow)
	if async {
		f.Flags.Set(ast.Async)
	}
	if params.IsSimple() {
		f.Flags.Set(ast.SimpleParams)
	}
	fn := newFuncCtx()
	fn.arrow, fn.async, fn.allowReturn = true, async, true
	p.ctx.pushFunc(fn)
	if p.is(token.LBrace) {
		f.Body = p.parseFuncBody(f, nil, scope.Arrow)
	} else {
		f.BodyScope = p.openScope(scope.FunctionBody, scope.Arrow, p.tok.Pos())
		f.Expr = p.parseAssign(nil)
		p.closeScope(int(f.Expr.End()))
	}
	p.ctx.pop()
	if p.strict() {
		f.Flags.Set(ast.Strict)
	}
	p.closeScope(p.prev.End())
	f.Span = p.spanFrom(start)
	return f
}

// parseFuncBody parses a function body in a new body scope, or skips it
// if the skip cache knows where it ends.
func (p *Parser) parseFuncBody(f *node.FuncLit, dupes []*scope.Conflict, flags scope.Flags) *node.BlockStmt {
	if p.trace {
		defer untracep(tracep(p, "FuncBody"))
	}

	if !p.is(token.LBrace) {
		p.errorExpected(p.tok, "'{'")
	}
	lbrace := p.tok
	env := p.bodyEnv()
	if p.skipBody(f, flags, env) {
		rbrace := p.expect(token.RBrace)
		p.closeScope(rbrace.End())
		return nil
	}

	f.BodyScope = p.openScope(scope.FunctionBody, flags, lbrace.Pos())
	p.next()
	body := &node.BlockStmt{Scope: f.BodyScope}
	var directive ast.Span
	body.Body, directive = p.parseDirectives(p.parseStatementListItem)
	p.checkParams(f, dupes, directive)
	body.Body.Append(p.parseStmtList(token.RBrace)...)
	rbrace := p.expect(token.RBrace)
	body.Span = span(lbrace.Pos(), rbrace.End())
	p.closeScope(rbrace.End())

	if sc := p.cfg.SkipCache; sc != nil && len(p.nests) == 0 {
		sc.store(p.hash, lbrace.Pos(), env, skipRecord{
			end:   rbrace.End(),
			flags: p.scopes.At(f.BodyScope).Flags & replayFlags,
		})
	}
	return body
}

// skipBody skips a body the cache has seen in this text under the same
// environment before, replaying what it contributed to the enclosing
// scopes. On success the current token is the closing brace.
func (p *Parser) skipBody(f *node.FuncLit, flags scope.Flags, env skipEnv) bool {
	sc := p.cfg.SkipCache
	if sc == nil || len(p.nests) > 0 || p.buf.Len() != p.idx+1 {
		return false
	}
	start := p.tok.Pos()
	r, ok := sc.lookup(p.hash, start, env)
	if !ok || r.end > len(p.File.Data) || p.File.Data[r.end-1] != '}' {
		return false
	}

	f.BodyScope = p.openScope(scope.FunctionBody, flags, start)
	if r.flags.Has(scope.Strict) {
		p.scopes.SetStrict(f.BodyScope)
	}
	if r.flags.Has(scope.UsesThis) {
		p.scopes.UseThis()
	}
	if r.flags.Has(scope.UsesSuper) {
		p.scopes.UseSuper()
	}
	if r.flags.Has(scope.UsesSuperCall) {
		p.scopes.UseSuperCall()
	}
	if r.flags.Has(scope.UsesNewTarget) {
		p.scopes.UseNewTarget()
	}
	if r.flags.Has(scope.UsesArguments) {
		p.scopes.Reference(&scope.Reference{Name: "arguments", Pos: start})
	}
	if r.flags.Has(scope.ContainsDirectEval) {
		p.scopes.MarkDirectEval()
	}
	p.scopes.CurrentScope().Flags.Set(r.flags & scope.ContainsClosure)

	p.tz.skipBlock(r.end)
	p.buf.Replace(p.idx+1, makeToken(token.RBrace, 0, r.end-1, r.end))
	p.next()
	f.Flags.Set(ast.Lazy)
	p.skipped++
	p.logger.Debug("skipped function body",
		zap.String("file", p.sourceName),
		zap.Int("start", start),
		zap.Int("end", r.end))
	return true
}

// checkParams validates the parameters of f once the strictness of its
// body is known. directive is the span of a "use strict" directive, if
// the body has one.
func (p *Parser) checkParams(f *node.FuncLit, dupes []*scope.Conflict, directive ast.Span) {
	simple := f.Params == nil || f.Params.IsSimple()
	if directive.To != 0 && !simple {
		p.raise(directive, MsgNonSimpleUseStrict)
	}
	if len(dupes) > 0 {
		switch {
		case p.strict(), !simple:
		case f.Kind == node.FuncDeclaration, f.Kind == node.FuncExpression:
			dupes = nil
		}
		if len(dupes) > 0 {
			p.conflict(dupes[0])
		}
	}
	if directive.To == 0 {
		return
	}
	if f.Params != nil {
		var names []*node.Ident
		for _, x := range f.Params.List {
			names = node.BoundNames(names, x)
		}
		for _, id := range names {
			p.checkStrictName(id)
		}
	}
	if f.Name != nil {
		p.checkStrictName(f.Name)
	}
}

// parseDirectives parses the directive prologue of a body with item. A
// "use strict" directive makes the current scope strict; its span is
// returned.
func (p *Parser) parseDirectives(item func() node.Stmt) (list node.Stmts, strict ast.Span) {
	var octal ast.Span
	for p.is(token.String) {
		t := p.tok
		s := item()
		list = append(list, s)
		es, ok := s.(*node.ExprStmt)
		if !ok {
			break
		}
		lit, ok := es.X.(*node.StringLit)
		if !ok || int(lit.From) != t.Pos() {
			break
		}
		es.Directive = lit.Raw[1 : len(lit.Raw)-1]
		if lit.OctalEscape && octal.To == 0 {
			octal = lit.Span
		}
		if es.Directive == "use strict" {
			strict = lit.Span
			if !p.strict() {
				p.scopes.SetStrict(p.scopes.Current())
			}
		}
	}
	if octal.To != 0 && p.strict() {
		p.raise(octal, MsgStrictOctalEscape)
	}
	return
}

// directives returns the directive texts at the head of list.
func directives(list node.Stmts) (dirs []string) {
	for _, s := range list {
		es, ok := s.(*node.ExprStmt)
		if !ok || es.Directive == "" {
			return
		}
		dirs = append(dirs, es.Directive)
	}
	return
}
