package parser

import (
	"github.com/gad-lang/esparse/parser/ast"
	"github.com/gad-lang/esparse/parser/node"
	"github.com/gad-lang/esparse/parser/scope"
	"github.com/gad-lang/esparse/token"
)

// toAssignTarget converts the left side of = into an assignment target.
func (p *Parser) toAssignTarget(x node.Expr) node.Expr {
	switch x.(type) {
	case *node.ObjectLit, *node.ArrayLit:
		p.require(FeatureDestructuring, ast.SpanOf(x, x))
	}
	return p.toTarget(x, false)
}

// toTarget reinterprets an expression parsed from a cover grammar as an
// assignment target or, with binding set, as a binding pattern.
func (p *Parser) toTarget(x node.Expr, binding bool) node.Expr {
	switch t := x.(type) {
	case *node.Ident:
		if binding {
			p.bindIdent(t)
		} else {
			p.checkAssignIdent(t)
		}
		return t
	case *node.MemberExpr:
		if !binding {
			return t
		}
	case *node.ParenExpr:
		if binding {
			break
		}
		switch inner := unparen(t).(type) {
		case *node.Ident:
			p.checkAssignIdent(inner)
			return t
		case *node.MemberExpr:
			return t
		case *node.ObjectLit, *node.ArrayLit, *node.ObjectPattern, *node.ArrayPattern:
			p.raiseNode(t, MsgParenthesizedPattern)
		}
	case *node.ObjectLit:
		return p.objectPattern(t, binding)
	case *node.ArrayLit:
		return p.arrayPattern(t, binding)
	case *node.ObjectPattern, *node.ArrayPattern:
		return p.rebind(t, binding)
	}
	if binding {
		p.raiseNode(x, MsgInvalidArrowParam)
	}
	p.invalidTarget(x, "assignment")
	return nil
}

// toElement converts a pattern element, which may carry a default.
func (p *Parser) toElement(x node.Expr, binding bool) node.Expr {
	switch e := x.(type) {
	case *node.AssignExpr:
		if e.Op != token.Assign {
			p.raiseNode(e, MsgInvalidDestructuring)
		}
		return &node.AssignPattern{Span: e.Span, Target: p.toTarget(e.LHS, binding), Default: e.RHS}
	case *node.AssignPattern:
		e.Target = p.toTarget(e.Target, binding)
		return e
	}
	return p.toTarget(x, binding)
}

func (p *Parser) objectPattern(lit *node.ObjectLit, binding bool) node.Expr {
	pat := &node.ObjectPattern{Span: lit.Span}
	for i, prop := range lit.Props {
		switch prop.Kind {
		case node.PropSpread:
			if i != len(lit.Props)-1 || lit.TrailingComma {
				p.raiseNode(prop, MsgRestNotLast)
			}
			target := p.toTarget(prop.Value, binding)
			if node.IsPattern(target) {
				p.raiseNode(prop, MsgInvalidDestructuring)
			}
			pat.Rest = target
		case node.PropInit, node.PropShorthand:
			prop.Value = p.toElement(prop.Value, binding)
			pat.Props = append(pat.Props, prop)
		default:
			p.raiseNode(prop, MsgInvalidDestructuring)
		}
	}
	return pat
}

func (p *Parser) arrayPattern(lit *node.ArrayLit, binding bool) node.Expr {
	pat := &node.ArrayPattern{Span: lit.Span}
	for i, el := range lit.Elements {
		sp, ok := el.(*node.SpreadExpr)
		switch {
		case el == nil:
			pat.Elements = append(pat.Elements, nil)
		case ok:
			if i != len(lit.Elements)-1 || lit.TrailingComma {
				p.raiseNode(sp, MsgRestNotLast)
			}
			if _, ok := sp.X.(*node.AssignExpr); ok {
				p.raiseNode(sp.X, MsgRestInit)
			}
			pat.Elements = append(pat.Elements, &node.RestElement{Span: sp.Span, Target: p.toTarget(sp.X, binding)})
		default:
			pat.Elements = append(pat.Elements, p.toElement(el, binding))
		}
	}
	return pat
}

// rebind validates a pattern converted earlier, in the given mode.
func (p *Parser) rebind(x node.Expr, binding bool) node.Expr {
	switch t := x.(type) {
	case *node.ObjectPattern:
		for _, prop := range t.Props {
			prop.Value = p.toElement(prop.Value, binding)
		}
		if t.Rest != nil {
			t.Rest = p.toTarget(t.Rest, binding)
		}
	case *node.ArrayPattern:
		for i, el := range t.Elements {
			switch e := el.(type) {
			case nil:
			case *node.RestElement:
				e.Target = p.toTarget(e.Target, binding)
			default:
				t.Elements[i] = p.toElement(e, binding)
			}
		}
	}
	return x
}

// bindIdent turns an identifier parsed as a reference into a binding.
func (p *Parser) bindIdent(id *node.Ident) {
	if id.Ref != nil {
		id.Ref.Binding = true
		id.Ref = nil
	}
	if p.strict() && (id.Name == "eval" || id.Name == "arguments") {
		p.raiseNode(id, MsgStrictEvalArguments, id.Name)
	}
}

func (p *Parser) checkAssignIdent(id *node.Ident) {
	if p.strict() && (id.Name == "eval" || id.Name == "arguments") {
		p.raiseNode(id, MsgStrictEvalArguments, id.Name)
	}
}

// checkSimpleTarget accepts identifiers and member expressions, possibly
// parenthesized.
func (p *Parser) checkSimpleTarget(x node.Expr, what string) {
	switch t := unparen(x).(type) {
	case *node.Ident:
		p.checkAssignIdent(t)
		return
	case *node.MemberExpr:
		return
	}
	p.invalidTarget(x, what)
}

// invalidTarget raises an invalid assignment target. Editions before
// ES2015 report it as a ReferenceError.
func (p *Parser) invalidTarget(x node.Expr, what string) {
	kind := SyntaxError
	if p.cfg.Version < token.ES2015 {
		kind = ReferenceError
	}
	panic(p.diag(kind, ast.SpanOf(x, x), MsgInvalidAssignTarget, what))
}

func (p *Parser) parseBindingTarget() node.Expr {
	switch p.tok.Kind {
	case token.LBrack:
		p.require(FeatureDestructuring, p.tok.Span())
		return p.parseArrayBindingPattern()
	case token.LBrace:
		p.require(FeatureDestructuring, p.tok.Span())
		return p.parseObjectBindingPattern()
	}
	return p.parseBindingIdent()
}

func (p *Parser) parseBindingIdent() *node.Ident {
	t := p.tok
	if !isIdent(t) {
		p.errorExpected(t, "identifier")
	}
	name := p.name(t)
	p.checkIdent(t, name, true)
	p.next()
	return &node.Ident{Span: t.Span(), Name: name}
}

// parseBindingElement parses a binding target with an optional default.
func (p *Parser) parseBindingElement() node.Expr {
	x := p.parseBindingTarget()
	if !p.is(token.Assign) {
		return x
	}
	p.next()
	def := p.parseAssignIn()
	return &node.AssignPattern{Span: ast.SpanOf(x, def), Target: x, Default: def}
}

func (p *Parser) parseArrayBindingPattern() node.Expr {
	lb := p.expect(token.LBrack)
	pat := &node.ArrayPattern{}
	for !p.is(token.RBrack) {
		if p.is(token.Comma) {
			p.next()
			pat.Elements = append(pat.Elements, nil)
			continue
		}
		if p.is(token.Ellipsis) {
			pat.Elements = append(pat.Elements, p.parseRestBinding(token.RBrack))
			break
		}
		pat.Elements = append(pat.Elements, p.parseBindingElement())
		if !p.is(token.RBrack) {
			p.expect(token.Comma)
		}
	}
	rb := p.expect(token.RBrack)
	pat.Span = span(lb.Pos(), rb.End())
	return pat
}

// parseRestBinding parses ...target, which must be followed by end.
func (p *Parser) parseRestBinding(end token.Token) *node.RestElement {
	t := p.tok
	p.next()
	target := p.parseBindingTarget()
	if p.is(token.Assign) {
		p.raiseAt(p.tok, MsgRestInit)
	}
	rest := &node.RestElement{Span: p.spanFrom(t), Target: target}
	if !p.is(end) {
		p.raise(rest.Span, MsgRestNotLast)
	}
	return rest
}

func (p *Parser) parseObjectBindingPattern() node.Expr {
	lb := p.expect(token.LBrace)
	pat := &node.ObjectPattern{}
	for !p.is(token.RBrace) {
		start := p.tok
		if p.is(token.Ellipsis) {
			p.require(FeatureObjectRestSpread, start.Span())
			p.next()
			pat.Rest = p.parseBindingIdent()
			if !p.is(token.RBrace) {
				p.raise(p.spanFrom(start), MsgRestNotLast)
			}
			break
		}

		kt := p.tok
		key, computed := p.parsePropertyKey(false)
		prop := &node.Property{Key: key, Computed: computed}
		if p.is(token.Colon) {
			p.next()
			prop.Value = p.parseBindingElement()
		} else {
			id, ok := key.(*node.Ident)
			if computed || !ok || !isIdent(kt) {
				p.errorExpected(p.tok, "':'")
			}
			p.checkIdent(kt, id.Name, true)
			prop.Kind = node.PropShorthand
			var value node.Expr = &node.Ident{Span: id.Span, Name: id.Name}
			if p.is(token.Assign) {
				p.next()
				def := p.parseAssignIn()
				value = &node.AssignPattern{Span: ast.SpanOf(value, def), Target: value, Default: def}
			}
			prop.Value = value
		}
		prop.Span = p.spanFrom(start)
		pat.Props = append(pat.Props, prop)
		if !p.is(token.RBrace) {
			p.expect(token.Comma)
		}
	}
	rb := p.expect(token.RBrace)
	pat.Span = span(lb.Pos(), rb.End())
	return pat
}

// parseFormalParams parses a parenthesized parameter list.
func (p *Parser) parseFormalParams() *node.FormalParams {
	lp := p.expect(token.LParen)
	params := &node.FormalParams{}
	p.parseParamList(params, token.RParen)
	rp := p.expect(token.RParen)
	params.Span = span(lp.Pos(), rp.End())
	return params
}

// parseParamList parses parameters up to end, which is not consumed.
func (p *Parser) parseParamList(params *node.FormalParams, end token.Token) {
	for !p.is(end) {
		if p.is(token.Ellipsis) {
			p.require(FeatureSpread, p.tok.Span())
			params.List = append(params.List, p.parseRestBinding(end))
			return
		}
		params.List = append(params.List, p.parseBindingElement())
		if !p.is(end) {
			p.expect(token.Comma)
		}
	}
}

// declareParams declares the names bound by params in the current
// parameter scope. Duplicates are returned rather than reported since
// whether they are allowed depends on the function.
func (p *Parser) declareParams(params *node.FormalParams) (dupes []*scope.Conflict) {
	var names []*node.Ident
	for _, x := range params.List {
		names = node.BoundNames(names, x)
	}
	for _, id := range names {
		sym, c := p.scopes.Declare(id.Name, scope.Param, int(id.From))
		id.Sym = sym
		switch {
		case c == nil:
		case c.Kind == scope.DuplicateParam:
			dupes = append(dupes, c)
		default:
			p.conflict(c)
		}
	}
	return
}

// declareBindings declares the names bound by a declaration target.
func (p *Parser) declareBindings(target node.Expr, flags scope.SymbolFlags) {
	for _, id := range node.BoundNames(nil, target) {
		if flags.Has(scope.Let|scope.Const|scope.Class) && id.Name == "let" {
			p.raiseNode(id, MsgLetInLexical)
		}
		p.declare(id, flags)
	}
}
