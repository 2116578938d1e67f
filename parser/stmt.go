// Copyright (c) 2020-2023 Ozan Hacıbekiroğlu.
// Use of this source code is governed by a MIT License
// that can be found in the LICENSE file.

package parser

import (
	"github.com/gad-lang/esparse/parser/ast"
	"github.com/gad-lang/esparse/parser/node"
	"github.com/gad-lang/esparse/parser/scope"
	"github.com/gad-lang/esparse/token"
)

// commit releases the buffered tokens before the current one. A
// recovering session keeps them until the next top level statement so it
// can resynchronize.
func (p *Parser) commit(top bool) {
	if top || !p.mode.Has(Recover) {
		p.buf.Commit(p.idx)
	}
}

// parseStmtList parses statement list items up to one of ends.
func (p *Parser) parseStmtList(ends ...token.Token) node.Stmts {
	f := p.ctx.push(&frame{kind: blockFrame, pos: p.tok.Pos()})
	for !p.is(ends...) && !p.is(token.EOF) {
		p.commit(false)
		f.stmts.Append(p.parseStatementListItem())
	}
	p.ctx.pop()
	return f.stmts
}

// parseStatementListItem parses a statement or a declaration.
func (p *Parser) parseStatementListItem() node.Stmt {
	if p.trace {
		defer untracep(tracep(p, "StatementListItem"))
	}

	t := p.tok
	switch t.Kind {
	case token.Function:
		return &node.FuncDecl{Func: p.parseFunctionDecl(t, false, false)}
	case token.Class:
		return &node.ClassDecl{Class: p.parseClass(t, nil, true, false)}
	case token.At:
		decorators := p.parseDecorators()
		switch {
		case p.is(token.Class):
			return &node.ClassDecl{Class: p.parseClass(t, decorators, true, false)}
		case p.is(token.Export):
			return p.parseExportDecl(t, decorators)
		}
		p.raiseAt(p.tok, MsgDecoratorPosition)
	case token.Const:
		return p.parseLexicalDecl()
	case token.Let:
		if p.isLetDecl() {
			return p.parseLexicalDecl()
		}
	case token.Import:
		if nt, _ := p.peek(); nt.Kind != token.LParen && nt.Kind != token.Period {
			return p.parseImportDecl()
		}
	case token.Export:
		return p.parseExportDecl(t, nil)
	default:
		if isContextual(t, token.Async) {
			if nt, nl := p.peek(); nt.Kind == token.Function && !nl {
				p.next()
				return &node.FuncDecl{Func: p.parseFunctionDecl(t, true, false)}
			}
		}
	}
	return p.parseStatement()
}

// isLetDecl reports whether the let at the current token starts a
// lexical declaration rather than an identifier expression.
func (p *Parser) isLetDecl() bool {
	nt, _ := p.peek()
	return isIdent(nt) || nt.Kind == token.LBrack || nt.Kind == token.LBrace
}

func (p *Parser) parseLexicalDecl() node.Stmt {
	t := p.tok
	d := p.parseVarDecl(false)
	p.expectSemi()
	d.Span = p.spanFrom(t)
	return d
}

// parseVarDecl parses a var, let or const declaration list. In a for
// head initializers are optional and in is not an operator.
func (p *Parser) parseVarDecl(inFor bool) *node.VarDecl {
	t := p.tok
	kind := t.Kind
	flags := scope.Var
	switch kind {
	case token.Let:
		flags = scope.Let
	case token.Const:
		flags = scope.Const
	}
	if flags != scope.Var {
		p.require(FeatureLexical, t.Span())
	}
	p.next()

	d := &node.VarDecl{Token: kind}
	for {
		b := &node.VarBinding{Target: p.parseBindingTarget()}
		fl := flags
		if inFor && flags == scope.Var && isContextual(p.tok, token.Of) {
			fl |= scope.ForOf
		}
		p.declareBindings(b.Target, fl)
		if p.is(token.Assign) {
			p.next()
			b.Init = p.parseAssign(nil)
			b.Span = ast.SpanOf(b.Target, b.Init)
		} else {
			b.Span = ast.SpanOf(b.Target, b.Target)
			if !inFor {
				p.checkInitializer(kind, b)
			}
		}
		d.List = append(d.List, b)
		if !p.is(token.Comma) {
			break
		}
		p.next()
	}
	d.Span = p.spanFrom(t)
	return d
}

func (p *Parser) checkInitializer(kind token.Token, b *node.VarBinding) {
	if b.Init != nil {
		return
	}
	switch {
	case kind == token.Const:
		p.raiseNode(b, MsgMissingInitializer, "const")
	case node.IsPattern(b.Target):
		p.raiseNode(b, MsgMissingInitializer, "destructuring")
	}
}

// parseStatement parses a Statement: declarations other than var are not
// allowed here.
func (p *Parser) parseStatement() node.Stmt {
	if p.trace {
		defer untracep(tracep(p, "Statement"))
	}

	t := p.tok
	switch t.Kind {
	case token.LBrace:
		return p.parseBlock(0)
	case token.Var:
		d := p.parseVarDecl(false)
		p.expectSemi()
		d.Span = p.spanFrom(t)
		return d
	case token.Semicolon:
		p.next()
		return &node.EmptyStmt{Span: t.Span()}
	case token.If:
		return p.parseIfStmt()
	case token.For:
		return p.parseForStmt()
	case token.While:
		return p.parseWhileStmt()
	case token.Do:
		return p.parseDoWhileStmt()
	case token.Continue, token.Break:
		return p.parseBranchStmt()
	case token.Return:
		return p.parseReturnStmt()
	case token.With:
		return p.parseWithStmt()
	case token.Switch:
		return p.parseSwitchStmt()
	case token.Throw:
		return p.parseThrowStmt()
	case token.Try:
		return p.parseTryStmt()
	case token.Debugger:
		p.next()
		p.expectSemi()
		return &node.DebuggerStmt{Span: p.spanFrom(t)}
	case token.Function:
		p.raiseAt(t, MsgSingleStatementFunction)
	case token.Class, token.Const:
		p.raiseAt(t, MsgSingleStatementLexical)
	case token.Let:
		if nt, nl := p.peek(); nt.Kind == token.LBrack || !nl && (isIdent(nt) || nt.Kind == token.LBrace) {
			p.raiseAt(t, MsgSingleStatementLexical)
		}
	}
	if isContextual(t, token.Async) {
		if nt, nl := p.peek(); nt.Kind == token.Function && !nl {
			p.raiseAt(t, MsgSingleStatementFunction)
		}
	}
	if isIdent(t) {
		if nt, _ := p.peek(); nt.Kind == token.Colon {
			return p.parseLabeledStmt()
		}
	}

	x := p.parseExpr()
	p.expectSemi()
	return &node.ExprStmt{Span: p.spanFrom(t), X: x}
}

// parseBlock parses a block in a new block scope.
func (p *Parser) parseBlock(flags scope.Flags) *node.BlockStmt {
	lb := p.expect(token.LBrace)
	sid := p.openScope(scope.Block, flags, lb.Pos())
	list := p.parseStmtList(token.RBrace)
	rb := p.expect(token.RBrace)
	p.closeScope(rb.End())
	return &node.BlockStmt{Span: span(lb.Pos(), rb.End()), Body: list, Scope: sid}
}

func (p *Parser) parseIfStmt() node.Stmt {
	t := p.expect(token.If)
	p.expect(token.LParen)
	s := &node.IfStmt{Cond: p.parseExprIn()}
	p.expect(token.RParen)
	s.Then = p.parseIfClause()
	if p.is(token.Else) {
		p.next()
		s.Else = p.parseIfClause()
	}
	s.Span = p.spanFrom(t)
	return s
}

// parseIfClause parses a branch of an if statement. Sloppy code may use a
// function declaration there, which behaves as if wrapped in a block.
func (p *Parser) parseIfClause() node.Stmt {
	if !p.is(token.Function) || !p.cfg.AnnexB || p.strict() {
		return p.parseStatement()
	}
	t := p.tok
	sid := p.openScope(scope.Block, 0, t.Pos())
	f := p.parseFunctionDecl(t, false, false)
	if f.IsGenerator() {
		p.raiseNode(f, MsgSingleStatementFunction)
	}
	p.closeScope(int(f.End()))
	return &node.BlockStmt{Span: f.Span, Body: node.Stmts{&node.FuncDecl{Func: f}}, Scope: sid}
}

// parseLoopBody parses the body of an iteration statement, where break
// and continue have a target.
func (p *Parser) parseLoopBody() node.Stmt {
	p.ctx.push(&frame{kind: loopFrame, pos: p.tok.Pos()})
	body := p.parseStatement()
	p.ctx.pop()
	return body
}

func (p *Parser) parseWhileStmt() node.Stmt {
	t := p.expect(token.While)
	p.expect(token.LParen)
	cond := p.parseExprIn()
	p.expect(token.RParen)
	body := p.parseLoopBody()
	return &node.WhileStmt{Span: p.spanFrom(t), Cond: cond, Body: body}
}

func (p *Parser) parseDoWhileStmt() node.Stmt {
	t := p.expect(token.Do)
	body := p.parseLoopBody()
	p.expect(token.While)
	p.expect(token.LParen)
	cond := p.parseExprIn()
	p.expect(token.RParen)
	// the semicolon after do-while is always optional
	if p.is(token.Semicolon) {
		p.next()
	}
	return &node.DoWhileStmt{Span: p.spanFrom(t), Body: body, Cond: cond}
}

// parseForStmt parses every for form. The head is parsed in a block scope
// holding its lexical declarations.
func (p *Parser) parseForStmt() node.Stmt {
	if p.trace {
		defer untracep(tracep(p, "ForStmt"))
	}

	t := p.expect(token.For)
	var await, each bool
	switch {
	case p.tok.Kind == token.Await:
		if !p.inAsync() {
			p.raiseAt(p.tok, MsgIllegalAwait)
		}
		p.require(FeatureAsyncIteration, p.tok.Span())
		await = true
		p.next()
	case p.cfg.Scripting && isContextual(p.tok, token.Each):
		each = true
		p.next()
	}
	p.expect(token.LParen)
	sid := p.openScope(scope.Block, 0, t.Pos())

	var (
		decl  *node.VarDecl
		x     node.Expr
		c     cover
		start = p.tok
	)
	noIn := p.noIn
	p.noIn = true
	switch {
	case p.is(token.Semicolon):
	case p.is(token.Var, token.Const), p.is(token.Let) && p.isLetDecl():
		decl = p.parseVarDecl(true)
	default:
		x = p.parseAssign(&c)
		if p.is(token.Comma) {
			p.checkCover(&c)
			list := node.Exprs{x}
			for p.is(token.Comma) {
				p.next()
				list = append(list, p.parseAssign(nil))
			}
			x = &node.SeqExpr{Span: ast.SpanOf(x, list[len(list)-1]), List: list}
		}
	}
	p.noIn = noIn

	if of := isContextual(p.tok, token.Of); of || p.is(token.In) && (decl != nil || x != nil) {
		kw := "in"
		if of {
			kw = "of"
			p.require(FeatureForOf, p.tok.Span())
		} else if await {
			p.unexpected(p.tok)
		}
		s := &node.ForInStmt{Of: of, Await: await, Each: each, Scope: sid}
		if decl != nil {
			if len(decl.List) != 1 {
				p.raiseNode(decl, MsgForInMultiple, kw)
			}
			if b := decl.List[0]; b.Init != nil && !p.annexBForInInit(decl, of) {
				p.raiseNode(b, MsgForInInit, kw)
			}
			s.Left = decl
		} else {
			if of && isContextual(start, token.Async) {
				if _, ok := x.(*node.Ident); ok {
					p.unexpected(start)
				}
			}
			s.Left = p.toAssignTarget(x)
		}
		p.next()
		if of {
			s.Right = p.parseAssignIn()
		} else {
			s.Right = p.parseExprIn()
		}
		p.expect(token.RParen)
		s.Body = p.parseLoopBody()
		p.closeScope(p.prev.End())
		s.Span = p.spanFrom(t)
		return s
	}
	if await || each {
		p.errorExpected(p.tok, "'of'")
	}

	s := &node.ForStmt{Scope: sid}
	switch {
	case decl != nil:
		for _, b := range decl.List {
			p.checkInitializer(decl.Token, b)
		}
		s.Init = decl
	case x != nil:
		p.checkCover(&c)
		s.Init = &node.ExprStmt{Span: ast.SpanOf(x, x), X: x}
	}
	p.expect(token.Semicolon)
	if !p.is(token.Semicolon) {
		s.Cond = p.parseExprIn()
	}
	p.expect(token.Semicolon)
	if !p.is(token.RParen) {
		s.Post = p.parseExprIn()
	}
	p.expect(token.RParen)
	s.Body = p.parseLoopBody()
	p.closeScope(p.prev.End())
	s.Span = p.spanFrom(t)
	return s
}

// annexBForInInit reports whether for (var x = init in obj) is allowed.
func (p *Parser) annexBForInInit(decl *node.VarDecl, of bool) bool {
	if of || !p.cfg.AnnexB || p.strict() || decl.Token != token.Var {
		return false
	}
	_, ok := decl.List[0].Target.(*node.Ident)
	return ok
}

func (p *Parser) parseBranchStmt() node.Stmt {
	t := p.tok
	p.next()
	s := &node.BranchStmt{Token: t.Kind}
	if isIdent(p.tok) && !p.newline {
		lt := p.tok
		name := p.name(lt)
		p.next()
		s.Label = &node.Ident{Span: lt.Span(), Name: name}
		if p.ctx.findLabel(name) < 0 {
			p.raiseAt(lt, MsgUndefinedLabel, name)
		}
		if t.Kind == token.Continue && !p.ctx.canContinue(name) {
			p.raiseAt(t, MsgIllegalContinue)
		}
	} else {
		switch {
		case t.Kind == token.Break && !p.ctx.canBreak():
			p.raiseAt(t, MsgIllegalBreak)
		case t.Kind == token.Continue && !p.ctx.canContinue(""):
			p.raiseAt(t, MsgIllegalContinue)
		}
	}
	p.expectSemi()
	s.Span = p.spanFrom(t)
	return s
}

func (p *Parser) parseReturnStmt() node.Stmt {
	t := p.expect(token.Return)
	if fn := p.ctx.effective(); fn == nil || !fn.allowReturn {
		p.raiseAt(t, MsgIllegalReturn)
	}
	s := &node.ReturnStmt{}
	if !p.canInsertSemi() {
		s.Result = p.parseExprIn()
	}
	p.expectSemi()
	s.Span = p.spanFrom(t)
	return s
}

func (p *Parser) parseWithStmt() node.Stmt {
	t := p.expect(token.With)
	if p.strict() {
		p.raiseAt(t, MsgStrictWith)
	}
	p.expect(token.LParen)
	obj := p.parseExprIn()
	p.expect(token.RParen)
	body := p.parseStatement()
	return &node.WithStmt{Span: p.spanFrom(t), Object: obj, Body: body}
}

func (p *Parser) parseSwitchStmt() node.Stmt {
	t := p.expect(token.Switch)
	p.expect(token.LParen)
	s := &node.SwitchStmt{Tag: p.parseExprIn()}
	p.expect(token.RParen)
	lb := p.expect(token.LBrace)
	s.Scope = p.openScope(scope.Switch, 0, lb.Pos())
	p.ctx.push(&frame{kind: switchFrame, pos: t.Pos()})

	hasDefault := false
	for !p.is(token.RBrace) {
		ct := p.tok
		cc := &node.CaseClause{}
		switch ct.Kind {
		case token.Case:
			p.next()
			cc.Test = p.parseExprIn()
		case token.Default:
			if hasDefault {
				p.raiseAt(ct, MsgMultipleDefault)
			}
			hasDefault = true
			p.next()
		default:
			p.errorExpected(ct, "'case' or 'default'")
		}
		p.expect(token.Colon)
		cc.Body = p.parseStmtList(token.Case, token.Default, token.RBrace)
		cc.Span = p.spanFrom(ct)
		s.Cases = append(s.Cases, cc)
	}

	p.ctx.pop()
	rb := p.expect(token.RBrace)
	p.closeScope(rb.End())
	s.Span = p.spanFrom(t)
	return s
}

func (p *Parser) parseThrowStmt() node.Stmt {
	t := p.expect(token.Throw)
	if p.newline {
		p.raiseAt(p.tok, MsgNewlineAfterThrow)
	}
	x := p.parseExprIn()
	p.expectSemi()
	return &node.ThrowStmt{Span: p.spanFrom(t), Value: x}
}

func (p *Parser) parseTryStmt() node.Stmt {
	t := p.expect(token.Try)
	s := &node.TryStmt{CatchScope: scope.NoScope}
	s.Block = p.parseBlock(0)
	if p.is(token.Catch) {
		ct := p.tok
		p.next()
		s.CatchScope = p.openScope(scope.Catch, 0, ct.Pos())
		if p.is(token.LParen) {
			p.next()
			s.Param = p.parseBindingTarget()
			if _, ok := s.Param.(*node.Ident); ok {
				p.scopes.CurrentScope().Flags.Set(scope.SimpleCatchParam)
			}
			p.declareBindings(s.Param, scope.CatchParam)
			p.expect(token.RParen)
		} else {
			p.require(FeatureOptionalCatch, ct.Span())
		}
		s.Handler = p.parseBlock(scope.CatchBody)
		p.closeScope(p.prev.End())
	}
	if p.is(token.Finally) {
		p.next()
		s.Finally = p.parseBlock(0)
	}
	if s.Handler == nil && s.Finally == nil {
		p.raiseAt(p.tok, MsgMissingCatch)
	}
	s.Span = p.spanFrom(t)
	return s
}

func (p *Parser) parseLabeledStmt() node.Stmt {
	t := p.tok
	name := p.name(t)
	p.checkIdent(t, name, false)
	p.next()
	p.expect(token.Colon)
	if p.ctx.findLabel(name) >= 0 {
		p.raiseAt(t, MsgDuplicateLabel, name)
	}

	p.ctx.push(&frame{kind: labelFrame, label: name, pos: t.Pos()})
	var body node.Stmt
	if p.is(token.Function) {
		ft := p.tok
		if p.strict() || !p.cfg.AnnexB {
			p.raiseAt(ft, MsgLabelledFunction)
		}
		f := p.parseFunctionDecl(ft, false, false)
		if f.IsGenerator() {
			p.raiseNode(f, MsgLabelledFunction)
		}
		body = &node.FuncDecl{Func: f}
	} else {
		body = p.parseStatement()
	}
	p.ctx.pop()
	return &node.LabeledStmt{Span: p.spanFrom(t), Label: &node.Ident{Span: t.Span(), Name: name}, Body: body}
}
