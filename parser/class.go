package parser

import (
	"github.com/gad-lang/esparse/parser/ast"
	"github.com/gad-lang/esparse/parser/node"
	"github.com/gad-lang/esparse/parser/scope"
	"github.com/gad-lang/esparse/token"
)

// parseClass parses a class declaration or expression. start is the class
// keyword or the first decorator. Class code is always strict.
func (p *Parser) parseClass(start Token, decorators node.Exprs, decl, optionalName bool) *node.ClassLit {
	if p.trace {
		defer untracep(tracep(p, "Class"))
	}

	ct := p.expect(token.Class)
	p.require(FeatureClasses, ct.Span())
	if len(decorators) > 0 {
		p.require(FeatureDecorators, start.Span())
	}
	c := &node.ClassLit{Decorators: decorators, BodyScope: scope.NoScope}

	nt := p.tok
	var inner *node.Ident
	if isIdent(nt) {
		name := p.name(nt)
		p.checkIdentIn(nt, name, true, true, p.inGenerator(), p.awaitReserved())
		p.next()
		inner = &node.Ident{Span: nt.Span(), Name: name}
		if decl {
			c.Name = &node.Ident{Span: nt.Span(), Name: name}
			if name == "let" {
				p.raiseNode(c.Name, MsgLetInLexical)
			}
			p.declare(c.Name, scope.Class)
		} else {
			c.Name = inner
		}
	} else if decl && !optionalName {
		p.errorExpected(nt, "identifier")
	}

	c.HeadScope = p.openScope(scope.ClassHead, scope.Strict, ct.Pos())
	if inner != nil {
		p.declare(inner, scope.ClassName)
	}
	cls := &classCtx{}
	if p.is(token.Extends) {
		p.next()
		c.Super = p.parseLHS(nil)
		cls.derived = true
	}

	lb := p.expect(token.LBrace)
	c.BodyScope = p.openScope(scope.ClassBody, scope.Strict, lb.Pos())
	p.ctx.push(&frame{kind: classFrame, cls: cls, pos: ct.Pos()})
	for !p.is(token.RBrace) {
		if p.is(token.Semicolon) {
			p.next()
			continue
		}
		c.Members = append(c.Members, p.parseClassMember(cls))
	}
	p.ctx.pop()
	rb := p.expect(token.RBrace)
	p.closeScope(rb.End())
	p.closeScope(rb.End())
	c.Span = span(start.Pos(), rb.End())
	return c
}

func (p *Parser) parseClassMember(cls *classCtx) *node.ClassMember {
	if p.trace {
		defer untracep(tracep(p, "ClassMember"))
	}

	start := p.tok
	m := &node.ClassMember{Scope: scope.NoScope}
	if p.is(token.At) {
		m.Decorators = p.parseDecorators()
	}
	if isContextual(p.tok, token.Static) && !p.isKeyEnd() {
		if nt, _ := p.peek(); nt.Kind == token.LBrace {
			return p.parseStaticBlock(m, start)
		}
		m.Static = true
		p.next()
	}

	var async, gen bool
	kind := node.MemberMethod
	switch {
	case isContextual(p.tok, token.Accessor) && !p.isKeyEnd():
		if _, nl := p.peek(); !nl {
			p.require(FeatureDecorators, p.tok.Span())
			kind = node.MemberAccessor
			p.next()
		}
	case isContextual(p.tok, token.Async) && !p.isKeyEnd():
		if _, nl := p.peek(); !nl {
			p.require(FeatureAsync, p.tok.Span())
			async = true
			p.next()
		}
	}
	if kind == node.MemberMethod && p.is(token.Mul) {
		p.require(FeatureGenerators, p.tok.Span())
		gen = true
		p.next()
	}
	if !async && !gen && kind == node.MemberMethod &&
		(isContextual(p.tok, token.Get) || isContextual(p.tok, token.Set)) && !p.isKeyEnd() {
		kind = node.MemberGetter
		if p.tok.Kind == token.Set {
			kind = node.MemberSetter
		}
		p.next()
	}

	m.Key, m.Computed = p.parsePropertyKey(true)
	name := ""
	if !m.Computed {
		name = propName(m.Key)
	}
	isMethod := p.is(token.LParen) || async || gen || kind == node.MemberGetter || kind == node.MemberSetter
	if kind == node.MemberMethod && !isMethod {
		kind = node.MemberField
	}
	m.Kind = kind

	if pk, ok := m.Key.(*node.PrivateIdent); ok {
		p.declarePrivate(pk, kind, m.Static)
	}
	if m.Static && name == "prototype" {
		p.raiseNode(m.Key, MsgStaticPrototype)
	}

	if isMethod {
		fkind := node.MethodFunc
		var flags scope.Flags
		switch kind {
		case node.MemberGetter:
			fkind = node.GetterFunc
		case node.MemberSetter:
			fkind = node.SetterFunc
		}
		if !m.Static && name == "constructor" {
			switch {
			case fkind != node.MethodFunc:
				p.raiseNode(m.Key, MsgConstructorKind, "an accessor")
			case async:
				p.raiseNode(m.Key, MsgConstructorKind, "async")
			case gen:
				p.raiseNode(m.Key, MsgConstructorKind, "a generator")
			}
			if cls.hasConstructor {
				p.raiseNode(m.Key, MsgDuplicateConstructor)
			}
			cls.hasConstructor = true
			fkind, m.Kind = node.ConstructorFunc, node.MemberConstructor
			if cls.derived {
				flags |= scope.DerivedConstructor
			}
		}
		m.Value = p.parseMethod(fkind, async, gen, start, flags)
		m.Span = p.spanFrom(start)
		return m
	}

	p.require(FeatureClassFields, ast.SpanOf(m.Key, m.Key))
	if name == "constructor" {
		p.raiseNode(m.Key, MsgConstructorField)
	}
	if p.is(token.Assign) {
		at := p.tok
		p.next()
		m.Scope = p.openScope(scope.FunctionBody, scope.Method, at.Pos())
		fn := newFuncCtx()
		fn.fieldInit, fn.allowSuperProp, fn.allowNewTarget = true, true, true
		p.ctx.pushFunc(fn)
		m.Value = p.parseAssignIn()
		p.ctx.pop()
		p.closeScope(int(m.Value.End()))
	}
	p.expectSemi()
	m.Span = p.spanFrom(start)
	return m
}

// declarePrivate binds a private member name in the class body.
func (p *Parser) declarePrivate(pk *node.PrivateIdent, kind node.MemberKind, static bool) {
	if pk.Name == "#constructor" {
		p.raiseNode(pk, MsgPrivateConstructor)
	}
	flags := scope.Private
	switch kind {
	case node.MemberMethod:
		flags |= scope.PrivateMethod
	case node.MemberGetter:
		flags |= scope.PrivateGetter
	case node.MemberSetter:
		flags |= scope.PrivateSetter
	case node.MemberAccessor:
		flags |= scope.PrivateGetter | scope.PrivateSetter
	}
	if static {
		flags |= scope.PrivateStatic
	}
	sym, c := p.scopes.Declare(pk.Name, flags, int(pk.From))
	pk.Sym = sym
	p.conflict(c)
}

// parseStaticBlock parses static { ... }, which runs like a method body
// with await reserved.
func (p *Parser) parseStaticBlock(m *node.ClassMember, start Token) *node.ClassMember {
	st := p.tok
	p.require(FeatureStaticBlocks, st.Span())
	p.next()
	lb := p.expect(token.LBrace)
	m.Kind, m.Static = node.MemberStaticBlock, true
	m.Scope = p.openScope(scope.FunctionBody, scope.StaticBlock|scope.Method, lb.Pos())
	fn := newFuncCtx()
	fn.staticBlock, fn.allowSuperProp, fn.allowNewTarget = true, true, true
	p.ctx.pushFunc(fn)
	list := p.parseStmtList(token.RBrace)
	p.ctx.pop()
	rb := p.expect(token.RBrace)
	p.closeScope(rb.End())
	m.Body = &node.BlockStmt{Span: span(lb.Pos(), rb.End()), Body: list, Scope: m.Scope}
	m.Span = p.spanFrom(start)
	return m
}

// parseDecorators parses a run of @decorator expressions.
func (p *Parser) parseDecorators() node.Exprs {
	var list node.Exprs
	for p.is(token.At) {
		at := p.tok
		p.require(FeatureDecorators, at.Span())
		p.next()
		var x node.Expr
		if p.is(token.LParen) {
			lp := p.tok
			p.next()
			inner := p.parseExprIn()
			rp := p.expect(token.RParen)
			x = &node.ParenExpr{Span: span(lp.Pos(), rp.End()), X: inner}
		} else {
			x = p.parseIdentRef()
			for p.is(token.Period) {
				p.next()
				t := p.tok
				if !t.Kind.IsIdentName() {
					p.errorExpected(t, "identifier")
				}
				p.next()
				prop := &node.Ident{Span: t.Span(), Name: p.name(t)}
				x = &node.MemberExpr{Span: ast.SpanOf(x, prop), Object: x, Property: prop}
			}
			if p.is(token.LParen) {
				args, end := p.parseArgs()
				x = &node.CallExpr{Span: span(int(x.Pos()), end), Callee: x, Args: args}
			}
		}
		list = append(list, x)
	}
	return list
}
