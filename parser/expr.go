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

// cover holds the first error found in an expression that is only an error
// if the expression does not turn out to be a pattern, such as {a = 1}.
type cover struct {
	id   MessageID
	span ast.Span
	set  bool
}

// coverError records an error on c, or raises it if there is no cover.
func (p *Parser) coverError(c *cover, span ast.Span, id MessageID) {
	if c == nil {
		p.raise(span, id)
	}
	if !c.set {
		c.id, c.span, c.set = id, span, true
	}
}

func (p *Parser) checkCover(c *cover) {
	if c != nil && c.set {
		p.raise(c.span, c.id)
	}
}

func span(from, to int) ast.Span {
	return ast.Span{From: ast.Pos(from), To: ast.Pos(to)}
}

// spanFrom returns the span from t to the end of the previous token.
func (p *Parser) spanFrom(t Token) ast.Span {
	return span(t.Pos(), p.prev.End())
}

func isArrowFunc(x node.Expr) bool {
	f, ok := x.(*node.FuncLit)
	return ok && f.Kind == node.ArrowFunc
}

// parseExpr parses an Expression: assignments separated by commas.
func (p *Parser) parseExpr() node.Expr {
	if p.trace {
		defer untracep(tracep(p, "Expr"))
	}

	x := p.parseAssign(nil)
	if !p.is(token.Comma) {
		return x
	}
	list := node.Exprs{x}
	for p.is(token.Comma) {
		p.next()
		list = append(list, p.parseAssign(nil))
	}
	return &node.SeqExpr{Span: ast.SpanOf(x, list[len(list)-1]), List: list}
}

// parseExprIn parses an expression with in restored as an operator.
func (p *Parser) parseExprIn() node.Expr {
	noIn := p.noIn
	p.noIn = false
	x := p.parseExpr()
	p.noIn = noIn
	return x
}

func (p *Parser) parseAssignIn() node.Expr {
	noIn := p.noIn
	p.noIn = false
	x := p.parseAssign(nil)
	p.noIn = noIn
	return x
}

// parseAssign parses an AssignmentExpression. Errors that vanish if the
// expression is a pattern are passed to c; with a nil c they are raised.
func (p *Parser) parseAssign(c *cover) node.Expr {
	if p.trace {
		defer untracep(tracep(p, "AssignExpr"))
	}

	if p.is(token.Yield) && p.inGenerator() {
		return p.parseYield()
	}

	var inner cover
	x := p.parseConditional(&inner)
	if isArrowFunc(x) {
		return x
	}
	op := p.tok.Kind
	if !op.IsAssign() {
		if inner.set {
			if c == nil {
				p.checkCover(&inner)
			} else if !c.set {
				*c = inner
			}
		}
		return x
	}

	t := p.tok
	if op == token.Assign {
		x = p.toAssignTarget(x)
	} else {
		p.checkCover(&inner)
		switch {
		case op.IsLogicalAssign():
			p.require(FeatureLogicalAssign, t.Span())
		case op == token.ExpAssign:
			p.require(FeatureExponent, t.Span())
		}
		p.checkSimpleTarget(x, "assignment")
	}
	p.next()
	y := p.parseAssign(nil)
	return &node.AssignExpr{Span: ast.SpanOf(x, y), Op: op, LHS: x, RHS: y}
}

func (p *Parser) parseConditional(c *cover) node.Expr {
	x := p.parseBinary(token.LowestPrec+1, c)
	if isArrowFunc(x) || !p.is(token.Question) {
		return x
	}
	p.checkCover(c)

	p.next()
	y := p.parseAssignIn()
	p.expect(token.Colon)
	z := p.parseAssign(nil)
	return &node.CondExpr{Span: ast.SpanOf(x, z), Cond: x, True: y, False: z}
}

// parseBinary parses binary operators of precedence prec and higher.
func (p *Parser) parseBinary(prec int, c *cover) node.Expr {
	x := p.parseUnary(c)
	if isArrowFunc(x) {
		return x
	}
	for {
		op := p.tok.Kind
		oprec := op.Precedence()
		if oprec < prec || op == token.In && p.noIn {
			return x
		}
		p.checkCover(c)
		c = nil

		t := p.tok
		if _, ok := x.(*node.PrivateIdent); ok && op != token.In {
			p.unexpected(t)
		}
		switch op {
		case token.Nullish:
			p.require(FeatureNullish, t.Span())
		case token.Exp:
			p.require(FeatureExponent, t.Span())
			switch x.(type) {
			case *node.UnaryExpr, *node.AwaitExpr:
				p.raiseNode(x, MsgUnaryBeforeExp)
			}
		}
		p.next()

		var y node.Expr
		if op.RightAssoc() {
			y = p.parseBinary(oprec, nil)
		} else {
			y = p.parseBinary(oprec+1, nil)
		}
		if pi, ok := y.(*node.PrivateIdent); ok {
			p.raiseNode(pi, MsgUnexpectedToken, pi.Name)
		}
		if mixedNullish(op, x) || mixedNullish(op, y) {
			p.raiseAt(t, MsgMixedNullish)
		}
		x = &node.BinaryExpr{Span: ast.SpanOf(x, y), Op: op, LHS: x, RHS: y}
	}
}

// mixedNullish reports whether ?? and a logical operator meet without
// parentheses.
func mixedNullish(op token.Token, operand node.Expr) bool {
	b, ok := operand.(*node.BinaryExpr)
	if !ok {
		return false
	}
	switch op {
	case token.Nullish:
		return b.Op == token.LogicalAnd || b.Op == token.LogicalOr
	case token.LogicalAnd, token.LogicalOr:
		return b.Op == token.Nullish
	}
	return false
}

func (p *Parser) parseUnary(c *cover) node.Expr {
	if p.trace {
		defer untracep(tracep(p, "UnaryExpr"))
	}

	t := p.tok
	switch t.Kind {
	case token.Add, token.Sub, token.Not, token.BitNot, token.TypeOf, token.Void, token.Delete:
		p.next()
		x := p.parseUnary(nil)
		if t.Kind == token.Delete {
			p.checkDelete(x)
		}
		return &node.UnaryExpr{Span: span(t.Pos(), int(x.End())), Op: t.Kind, X: x}
	case token.Inc, token.Dec:
		p.next()
		x := p.parseUnary(nil)
		p.checkSimpleTarget(x, "prefix operation")
		return &node.UpdateExpr{Span: span(t.Pos(), int(x.End())), Op: t.Kind, Prefix: true, X: x}
	case token.Await:
		if p.inAsync() {
			return p.parseAwait()
		}
	}

	x := p.parseLHS(c)
	if isArrowFunc(x) {
		return x
	}
	if p.is(token.Inc, token.Dec) && !p.newline {
		p.checkCover(c)
		p.checkSimpleTarget(x, "postfix operation")
		t := p.tok
		p.next()
		return &node.UpdateExpr{Span: span(int(x.Pos()), t.End()), Op: t.Kind, X: x}
	}
	return x
}

func (p *Parser) checkDelete(x node.Expr) {
	if ch, ok := x.(*node.ChainExpr); ok {
		x = ch.X
	}
	switch x := x.(type) {
	case *node.Ident:
		if p.strict() {
			p.raiseNode(x, MsgStrictDelete)
		}
	case *node.ParenExpr:
		if _, ok := unparen(x).(*node.Ident); ok && p.strict() {
			p.raiseNode(x, MsgStrictDelete)
		}
	case *node.MemberExpr:
		if _, ok := x.Property.(*node.PrivateIdent); ok {
			p.raiseNode(x, MsgPrivateDelete)
		}
	}
}

func unparen(x node.Expr) node.Expr {
	for {
		pe, ok := x.(*node.ParenExpr)
		if !ok {
			return x
		}
		x = pe.X
	}
}

func (p *Parser) parseAwait() node.Expr {
	t := p.tok
	if p.ctx.effective().inParams {
		p.raiseAt(t, MsgAwaitInParams)
	}
	p.ctx.speculating(func(f *funcCtx) {
		if f.awaitPos < 0 {
			f.awaitPos = t.Pos()
		}
	})
	p.next()
	x := p.parseUnary(nil)
	return &node.AwaitExpr{Span: span(t.Pos(), int(x.End())), X: x}
}

func (p *Parser) parseYield() node.Expr {
	t := p.tok
	if p.ctx.effective().inParams {
		p.raiseAt(t, MsgYieldInParams)
	}
	p.ctx.speculating(func(f *funcCtx) {
		if f.yieldPos < 0 {
			f.yieldPos = t.Pos()
		}
	})
	p.next()

	y := &node.YieldExpr{Span: t.Span()}
	if p.newline {
		return y
	}
	switch {
	case p.is(token.Mul):
		p.next()
		y.Delegate = true
		y.X = p.parseAssign(nil)
	case p.startsExpr():
		y.X = p.parseAssign(nil)
	}
	if y.X != nil {
		y.To = y.X.End()
	}
	return y
}

// startsExpr reports whether the current token may begin an operand.
func (p *Parser) startsExpr() bool {
	switch p.tok.Kind {
	case token.RParen, token.RBrack, token.RBrace, token.Comma, token.Semicolon,
		token.Colon, token.Question, token.Arrow, token.In, token.EOF,
		token.TemplateMiddle, token.TemplateTail:
		return false
	}
	return !p.tok.Kind.IsAssign()
}

// parseLHS parses a LeftHandSideExpression: a primary expression followed
// by member accesses, calls and tagged templates.
func (p *Parser) parseLHS(c *cover) node.Expr {
	var x node.Expr
	switch p.tok.Kind {
	case token.New:
		x = p.parseNew()
	case token.Super:
		x = p.parseSuper()
	case token.Import:
		x = p.parseImportExpr()
	default:
		x = p.parsePrimary(c)
		if isArrowFunc(x) {
			return x
		}
	}
	y := p.parseCallTail(x, false)
	if y != x {
		p.checkCover(c)
	}
	return y
}

// parseCallTail parses the member accesses, calls and tagged templates
// applied to x. A callee of new stops at the first argument list.
func (p *Parser) parseCallTail(x node.Expr, noCall bool) node.Expr {
	chain := false
	wrap := func(x node.Expr) node.Expr {
		if chain {
			return &node.ChainExpr{Span: ast.SpanOf(x, x), X: x}
		}
		return x
	}
	for {
		t := p.tok
		switch t.Kind {
		case token.Period:
			p.next()
			x = p.parseMember(x, false)
		case token.QuestionDot:
			p.require(FeatureOptionalChaining, t.Span())
			if noCall {
				p.raiseAt(t, MsgOptionalChainNew)
			}
			chain = true
			p.next()
			switch p.tok.Kind {
			case token.LParen:
				args, end := p.parseArgs()
				x = &node.CallExpr{Span: span(int(x.Pos()), end), Callee: x, Args: args, Optional: true}
			case token.LBrack:
				x = p.parseIndex(x, true)
			case token.NoSubstTemplate, token.TemplateHead:
				p.raiseAt(p.tok, MsgOptionalChainTemplate)
			default:
				x = p.parseMember(x, true)
			}
		case token.LBrack:
			x = p.parseIndex(x, false)
		case token.LParen:
			if noCall {
				return wrap(x)
			}
			args, end := p.parseArgs()
			call := &node.CallExpr{Span: span(int(x.Pos()), end), Callee: x, Args: args}
			if id, ok := x.(*node.Ident); ok && id.Name == "eval" {
				call.DirectEval = true
				p.scopes.MarkDirectEval()
			}
			x = call
		case token.NoSubstTemplate, token.TemplateHead:
			if chain {
				p.raiseAt(t, MsgOptionalChainTemplate)
			}
			q := p.parseTemplate(true)
			x = &node.TaggedTemplate{Span: ast.SpanOf(x, q), Tag: x, Quasi: q}
		default:
			return wrap(x)
		}
	}
}

func (p *Parser) parseMember(x node.Expr, optional bool) node.Expr {
	t := p.tok
	var prop node.Expr
	switch {
	case t.Kind == token.PrivateName:
		p.require(FeaturePrivateNames, t.Span())
		if _, ok := x.(*node.SuperExpr); ok {
			p.unexpected(t)
		}
		prop = p.privateRef(t)
	case t.Kind.IsIdentName():
		prop = &node.Ident{Span: t.Span(), Name: p.name(t)}
	default:
		p.errorExpected(t, "property name")
	}
	p.next()
	return &node.MemberExpr{Span: span(int(x.Pos()), t.End()), Object: x, Property: prop, Optional: optional}
}

func (p *Parser) parseIndex(x node.Expr, optional bool) node.Expr {
	p.expect(token.LBrack)
	index := p.parseExprIn()
	rb := p.expect(token.RBrack)
	return &node.MemberExpr{
		Span:     span(int(x.Pos()), rb.End()),
		Object:   x,
		Property: index,
		Computed: true,
		Optional: optional,
	}
}

// parseArgs parses an argument list and returns the end of its closing
// parenthesis.
func (p *Parser) parseArgs() (node.Exprs, int) {
	p.expect(token.LParen)
	noIn := p.noIn
	p.noIn = false
	var args node.Exprs
	for !p.is(token.RParen) {
		if p.is(token.Ellipsis) {
			t := p.tok
			p.require(FeatureSpread, t.Span())
			p.next()
			x := p.parseAssign(nil)
			args = append(args, &node.SpreadExpr{Span: span(t.Pos(), int(x.End())), X: x})
		} else {
			args = append(args, p.parseAssign(nil))
		}
		if !p.is(token.RParen) {
			p.expect(token.Comma)
		}
	}
	rp := p.expect(token.RParen)
	p.noIn = noIn
	return args, rp.End()
}

func (p *Parser) parseNew() node.Expr {
	t := p.expect(token.New)
	if p.is(token.Period) {
		p.next()
		if !isContextual(p.tok, token.Target) {
			p.errorExpected(p.tok, "'target'")
		}
		end := p.tok
		p.next()
		sp := span(t.Pos(), end.End())
		if fn := p.ctx.nonArrow(); fn == nil || !fn.allowNewTarget {
			p.raise(sp, MsgNewTarget)
		}
		p.require(FeatureNewTarget, sp)
		p.scopes.UseNewTarget()
		return &node.MetaProperty{Span: sp, Meta: "new", Property: "target"}
	}

	var callee node.Expr
	switch p.tok.Kind {
	case token.New:
		callee = p.parseNew()
	case token.Super:
		callee = p.parseSuper()
	case token.Import:
		callee = p.parseImportExpr()
		if _, ok := callee.(*node.ImportCall); ok {
			p.raiseNode(callee, MsgUnexpectedToken, "'import'")
		}
	default:
		callee = p.parsePrimary(nil)
		if isArrowFunc(callee) {
			p.raiseNode(callee, MsgUnexpectedToken, "'=>'")
		}
	}
	callee = p.parseCallTail(callee, true)
	n := &node.NewExpr{Span: span(t.Pos(), int(callee.End())), Callee: callee}
	if p.is(token.LParen) {
		args, end := p.parseArgs()
		n.Args = args
		n.To = ast.Pos(end)
	}
	return n
}

func (p *Parser) parseSuper() node.Expr {
	t := p.expect(token.Super)
	sup := &node.SuperExpr{Span: t.Span()}
	fn := p.ctx.nonArrow()
	switch p.tok.Kind {
	case token.LParen:
		if fn == nil || !fn.allowSuperCall {
			p.raiseAt(t, MsgSuperCall)
		}
		p.scopes.UseSuperCall()
		args, end := p.parseArgs()
		return &node.CallExpr{Span: span(t.Pos(), end), Callee: sup, Args: args}
	case token.Period, token.LBrack:
		if fn == nil || !fn.allowSuperProp {
			p.raiseAt(t, MsgUnexpectedSuper)
		}
		p.scopes.UseSuper()
		return sup
	}
	p.raiseAt(t, MsgUnexpectedSuper)
	return nil
}

// parseImportExpr parses import.meta and import(source[, options]).
func (p *Parser) parseImportExpr() node.Expr {
	t := p.expect(token.Import)
	if p.is(token.Period) {
		p.next()
		if !isContextual(p.tok, token.Meta) {
			p.errorExpected(p.tok, "'meta'")
		}
		end := p.tok
		p.next()
		sp := span(t.Pos(), end.End())
		if !p.module {
			p.raise(sp, MsgImportMeta)
		}
		p.require(FeatureImportMeta, sp)
		return &node.MetaProperty{Span: sp, Meta: "import", Property: "meta"}
	}

	p.require(FeatureDynamicImport, t.Span())
	if !p.is(token.LParen) {
		p.errorExpected(p.tok, "'('")
	}
	p.next()
	noIn := p.noIn
	p.noIn = false
	call := &node.ImportCall{Source: p.parseAssign(nil)}
	if p.is(token.Comma) {
		p.next()
		if !p.is(token.RParen) {
			call.Options = p.parseAssign(nil)
			if p.is(token.Comma) {
				p.next()
			}
		}
	}
	rp := p.expect(token.RParen)
	p.noIn = noIn
	call.Span = span(t.Pos(), rp.End())
	return call
}

// parsePrimary parses a PrimaryExpression. Parenthesized expressions and
// identifiers followed by => become arrow functions.
func (p *Parser) parsePrimary(c *cover) node.Expr {
	if p.trace {
		defer untracep(tracep(p, "Primary"))
	}

	t := p.tok
	switch t.Kind {
	case token.This:
		p.next()
		p.scopes.UseThis()
		return &node.ThisExpr{Span: t.Span()}
	case token.Null:
		p.next()
		return &node.NullLit{Span: t.Span()}
	case token.True, token.False:
		p.next()
		return &node.BoolLit{Span: t.Span(), Value: t.Kind == token.True}
	case token.Number:
		return p.parseNumberLit()
	case token.BigInt:
		return p.parseBigIntLit()
	case token.String:
		return p.parseStringLit()
	case token.NoSubstTemplate, token.TemplateHead:
		return p.parseTemplate(false)
	case token.Div, token.DivAssign:
		return p.parseRegexp()
	case token.Shl:
		if p.cfg.Scripting {
			if ht, ok := p.tz.RescanHereString(t); ok {
				p.replace(ht)
				return p.parseHereString(ht)
			}
		}
	case token.EditString:
		return p.parseEditString()
	case token.LParen:
		return p.parseParenOrArrow()
	case token.LBrack:
		return p.parseArrayLit(c)
	case token.LBrace:
		return p.parseObjectLit(c)
	case token.Function:
		return p.parseFunctionExpr(t, false)
	case token.Class:
		return p.parseClass(t, nil, false, false)
	case token.At:
		decorators := p.parseDecorators()
		if !p.is(token.Class) {
			p.raiseAt(p.tok, MsgDecoratorPosition)
		}
		return p.parseClass(t, decorators, false, false)
	case token.PrivateName:
		if nt, _ := p.peek(); nt.Kind == token.In && !p.noIn {
			p.require(FeaturePrivateIn, t.Span())
			x := p.privateRef(t)
			p.next()
			return x
		}
	default:
		if isIdent(t) {
			return p.parseIdentExpr()
		}
	}
	p.unexpected(t)
	return nil
}

// parseIdentExpr parses an identifier reference, a single parameter arrow
// function or one of the async forms starting with an identifier.
func (p *Parser) parseIdentExpr() node.Expr {
	t := p.tok
	nt, nl := p.peek()
	if isContextual(t, token.Async) && !nl {
		switch {
		case nt.Kind == token.Function:
			p.next()
			return p.parseFunctionExpr(t, true)
		case nt.Kind == token.LParen:
			return p.parseAsyncCallOrArrow()
		case isIdent(nt):
			if at, _ := p.peekAt(2); at.Kind == token.Arrow {
				p.next()
				return p.parseArrowIdent(t, true)
			}
		}
	}
	if nt.Kind == token.Arrow {
		return p.parseArrowIdent(t, false)
	}
	return p.parseIdentRef()
}

func (p *Parser) parseIdentRef() *node.Ident {
	t := p.tok
	name := p.name(t)
	p.checkIdent(t, name, false)
	p.next()
	id := &node.Ident{Span: t.Span(), Name: name}
	p.reference(id)
	return id
}

// checkIdent validates t as an identifier in the current context. binding
// is set for declarations.
func (p *Parser) checkIdent(t Token, name string, binding bool) {
	p.checkIdentIn(t, name, binding, p.strict(), p.inGenerator(), p.awaitReserved())
}

// checkIdentIn validates t as an identifier where yield and await are
// keywords as given.
func (p *Parser) checkIdentIn(t Token, name string, binding, strict, yieldKw, awaitKw bool) {
	kind := t.Kind
	if t.Flags.Has(EscapedIdent) {
		kind = token.Lookup(name)
		if kind.IsKeyword() && !kind.IsStrictReserved() {
			p.raiseAt(t, MsgEscapedKeyword, name)
		}
	}
	switch {
	case kind == token.Yield:
		if yieldKw {
			p.raiseAt(t, MsgReservedWord, name)
		}
		if strict {
			p.raiseAt(t, MsgStrictReserved, name)
		}
		return
	case kind == token.Await:
		if fn := p.ctx.nonArrow(); fn != nil && fn.staticBlock {
			p.raiseAt(t, MsgAwaitInStaticBlock)
		}
		if awaitKw {
			p.raiseAt(t, MsgIllegalAwait)
		}
		p.ctx.speculating(func(f *funcCtx) {
			if f.awaitIdent < 0 {
				f.awaitIdent = t.Pos()
			}
		})
		return
	case kind.IsStrictReserved():
		if strict {
			p.raiseAt(t, MsgStrictReserved, name)
		}
	case kind.IsKeyword():
		p.raiseAt(t, MsgReservedWord, name)
	}
	if binding && strict && (name == "eval" || name == "arguments") {
		p.raiseAt(t, MsgStrictEvalArguments, name)
	}
}

// checkStrictName validates a binding identifier that became strict code
// after it was parsed.
func (p *Parser) checkStrictName(id *node.Ident) {
	switch {
	case id.Name == "eval" || id.Name == "arguments":
		p.raiseNode(id, MsgStrictEvalArguments, id.Name)
	case token.Lookup(id.Name).IsStrictReserved():
		p.raiseNode(id, MsgStrictReserved, id.Name)
	}
}

func (p *Parser) privateRef(t Token) *node.PrivateIdent {
	name := p.name(t)
	id := &node.PrivateIdent{Span: t.Span(), Name: name}
	r := &scope.Reference{Name: name, Pos: t.Pos()}
	id.Ref = r
	p.conflict(p.scopes.ReferencePrivate(r))
	return id
}

func (p *Parser) parseNumberLit() *node.NumberLit {
	t := p.tok
	raw := p.text(t)
	legacy := t.Flags.Has(LegacyOctal) || t.Flags.Has(NonOctalDecimal)
	if legacy && p.strict() {
		p.raiseAt(t, MsgStrictOctal)
	}
	v, err := NumberValue(raw, t.Flags)
	if err != nil {
		p.raiseAt(t, MsgUnexpectedToken, p.describe(t))
	}
	p.next()
	return &node.NumberLit{Span: t.Span(), Raw: raw, Value: v, LegacyOctal: legacy}
}

func (p *Parser) parseBigIntLit() *node.BigIntLit {
	t := p.tok
	p.require(FeatureBigInt, t.Span())
	raw := p.text(t)
	v, ok := BigIntValue(raw)
	if !ok {
		p.raiseAt(t, MsgInvalidBigInt)
	}
	p.next()
	return &node.BigIntLit{Span: t.Span(), Raw: raw, Value: v}
}

func (p *Parser) parseStringLit() *node.StringLit {
	t := p.tok
	raw := p.text(t)
	body := raw[1 : len(raw)-1]
	lit := &node.StringLit{
		Span:        t.Span(),
		Raw:         raw,
		Escaped:     t.Flags.Has(EscapedString),
		OctalEscape: t.Flags.Has(OctalEscape),
	}
	if lit.Escaped {
		lit.Value = p.in.InternString(StringValue(body))
	} else {
		lit.Value = p.in.InternString(body)
	}
	if lit.OctalEscape && p.strict() {
		p.raiseAt(t, MsgStrictOctalEscape)
	}
	p.next()
	return lit
}

func (p *Parser) parseRegexp() node.Expr {
	rt, ok := p.tz.RescanRegexp(p.tok)
	if !ok {
		p.unexpected(p.tok)
	}
	p.replace(rt)
	pattern, flags := RegexpParts(p.text(rt))
	p.next()
	return &node.RegexpLit{Span: rt.Span(), Pattern: pattern, Flags: flags}
}

// parseTemplate parses a template literal. Tagged templates may hold
// escapes without a cooked value.
func (p *Parser) parseTemplate(tagged bool) *node.TemplateLit {
	start := p.tok
	p.require(FeatureTemplates, start.Span())
	lit := &node.TemplateLit{Style: node.Backquote}
	for {
		t := p.tok
		lit.Quasis = append(lit.Quasis, p.templateElement(t, tagged))
		p.next()
		if t.Kind == token.NoSubstTemplate || t.Kind == token.TemplateTail {
			lit.Span = span(start.Pos(), t.End())
			return lit
		}
		lit.Exprs = append(lit.Exprs, p.parseExprIn())
		if !p.is(token.TemplateMiddle, token.TemplateTail) {
			p.errorExpected(p.tok, "'}'")
		}
	}
}

func (p *Parser) templateElement(t Token, tagged bool) *node.TemplateElement {
	text := p.text(t)
	tail := 2
	if t.Kind == token.NoSubstTemplate || t.Kind == token.TemplateTail {
		tail = 1
	}
	raw, cooked, ok := TemplateValue(text[1 : len(text)-tail])
	el := &node.TemplateElement{Span: span(t.Pos()+1, t.End()-tail), Raw: raw}
	switch {
	case ok:
		cooked = p.in.InternString(cooked)
		el.Cooked = &cooked
	case !tagged:
		p.raiseAt(t, MsgInvalidTemplateEscape)
	}
	return el
}

// parseHereString parses a here-string rescanned from <<. Unless it is
// raw, ${} holes are parsed as expressions.
func (p *Parser) parseHereString(t Token) node.Expr {
	raw := p.text(t)
	body, off := hereStringBody(raw)
	lit := &node.TemplateLit{Span: t.Span(), Style: node.HereDoc}
	if t.Flags.Has(RawHereString) {
		s := p.in.InternString(normalizeNewlines(body))
		lit.Quasis = []*node.TemplateElement{{
			Span:   span(t.Pos()+off, t.Pos()+off+len(body)),
			Raw:    body,
			Cooked: &s,
		}}
	} else {
		p.interpolate(lit, body, t.Pos()+off)
	}
	p.next()
	return lit
}

// parseEditString parses a double quoted string with ${} holes.
func (p *Parser) parseEditString() node.Expr {
	t := p.tok
	raw := p.text(t)
	lit := &node.TemplateLit{Span: t.Span(), Style: node.EditString}
	p.interpolate(lit, raw[1:len(raw)-1], t.Pos()+1)
	p.next()
	return lit
}

// interpolate splits the body of an interpolating string at base into
// literal spans and parses the expressions of its holes.
func (p *Parser) interpolate(lit *node.TemplateLit, body string, base int) {
	last := 0
	for _, h := range findHoles(body) {
		lit.Quasis = append(lit.Quasis, p.quasi(lit.Style, body[last:h.start-2], base+last))
		lit.Exprs = append(lit.Exprs, p.parseHole(base+h.start, base+h.end))
		last = h.end + 1
	}
	lit.Quasis = append(lit.Quasis, p.quasi(lit.Style, body[last:], base+last))
}

func (p *Parser) quasi(style node.TemplateStyle, s string, pos int) *node.TemplateElement {
	el := &node.TemplateElement{Span: span(pos, pos+len(s)), Raw: s}
	var (
		cooked string
		ok     bool
	)
	if style == node.HereDoc {
		el.Raw, cooked, ok = TemplateValue(s)
	} else {
		cooked, ok = unescape(s, false)
	}
	if !ok {
		p.raise(el.Span, MsgInvalidEscape)
	}
	cooked = p.in.InternString(cooked)
	el.Cooked = &cooked
	return el
}

// parseHole parses the expression in [start, end) with a nested tokenizer.
func (p *Parser) parseHole(start, end int) node.Expr {
	p.nest(start, end)
	x := p.parseExprIn()
	if !p.is(token.EOF) {
		p.unexpected(p.tok)
	}
	p.unnest()
	return x
}

func (p *Parser) parseArrayLit(c *cover) node.Expr {
	lb := p.expect(token.LBrack)
	noIn := p.noIn
	p.noIn = false
	lit := &node.ArrayLit{}
	for !p.is(token.RBrack) {
		if p.is(token.Comma) {
			p.next()
			lit.Elements = append(lit.Elements, nil)
			continue
		}
		var x node.Expr
		if p.is(token.Ellipsis) {
			t := p.tok
			p.require(FeatureSpread, t.Span())
			p.next()
			y := p.parseAssign(c)
			x = &node.SpreadExpr{Span: span(t.Pos(), int(y.End())), X: y}
		} else {
			x = p.parseAssign(c)
		}
		lit.Elements = append(lit.Elements, x)
		if !p.is(token.RBrack) {
			p.expect(token.Comma)
			lit.TrailingComma = p.is(token.RBrack)
		}
	}
	rb := p.expect(token.RBrack)
	p.noIn = noIn
	lit.Span = span(lb.Pos(), rb.End())
	return lit
}

func (p *Parser) parseObjectLit(c *cover) node.Expr {
	lb := p.expect(token.LBrace)
	noIn := p.noIn
	p.noIn = false
	lit := &node.ObjectLit{}
	proto := false
	for !p.is(token.RBrace) {
		prop := p.parseObjectMember(c)
		if prop.Kind == node.PropInit && !prop.Computed && propName(prop.Key) == "__proto__" {
			if proto {
				p.coverError(c, ast.SpanOf(prop.Key, prop.Key), MsgDuplicateProto)
			}
			proto = true
		}
		lit.Props = append(lit.Props, prop)
		if !p.is(token.RBrace) {
			p.expect(token.Comma)
			lit.TrailingComma = p.is(token.RBrace)
		}
	}
	rb := p.expect(token.RBrace)
	p.noIn = noIn
	lit.Span = span(lb.Pos(), rb.End())
	return lit
}

// propName returns the name of a non-computed property key.
func propName(key node.Expr) string {
	switch k := key.(type) {
	case *node.Ident:
		return k.Name
	case *node.StringLit:
		return k.Value
	}
	return ""
}

// isKeyEnd reports whether the token after a get, set, async or static
// prefix ends a key, making the prefix the key itself.
func (p *Parser) isKeyEnd() bool {
	nt, _ := p.peek()
	switch nt.Kind {
	case token.Comma, token.Colon, token.LParen, token.RBrace, token.Assign,
		token.Semicolon, token.EOF:
		return true
	}
	return false
}

func (p *Parser) parseObjectMember(c *cover) *node.Property {
	start := p.tok
	if p.is(token.Ellipsis) {
		p.require(FeatureObjectRestSpread, start.Span())
		p.next()
		x := p.parseAssign(c)
		return &node.Property{Span: span(start.Pos(), int(x.End())), Kind: node.PropSpread, Value: x}
	}

	var async, gen bool
	kind := node.PropInit
	if isContextual(p.tok, token.Async) && !p.isKeyEnd() {
		if _, nl := p.peek(); !nl {
			p.require(FeatureAsync, start.Span())
			async = true
			p.next()
		}
	}
	if p.is(token.Mul) {
		p.require(FeatureGenerators, p.tok.Span())
		gen = true
		p.next()
	}
	if !async && !gen && (isContextual(p.tok, token.Get) || isContextual(p.tok, token.Set)) && !p.isKeyEnd() {
		kind = node.PropGet
		if p.tok.Kind == token.Set {
			kind = node.PropSet
		}
		p.next()
	}

	kt := p.tok
	key, computed := p.parsePropertyKey(false)
	prop := &node.Property{Key: key, Computed: computed, Kind: kind}
	switch {
	case async || gen || kind != node.PropInit || p.is(token.LParen):
		fkind := node.MethodFunc
		switch kind {
		case node.PropGet:
			fkind = node.GetterFunc
		case node.PropSet:
			fkind = node.SetterFunc
		default:
			prop.Kind = node.PropMethod
		}
		prop.Value = p.parseMethod(fkind, async, gen, start, 0)
	case p.is(token.Colon):
		p.next()
		prop.Value = p.parseAssign(c)
	default:
		id, ok := key.(*node.Ident)
		if computed || !ok || !isIdent(kt) {
			p.unexpected(p.tok)
		}
		p.checkIdent(kt, id.Name, false)
		ref := &node.Ident{Span: id.Span, Name: id.Name}
		p.reference(ref)
		prop.Kind = node.PropShorthand
		prop.Value = ref
		if p.is(token.Assign) {
			p.coverError(c, p.tok.Span(), MsgShorthandInit)
			p.next()
			def := p.parseAssign(nil)
			prop.Value = &node.AssignPattern{Span: ast.SpanOf(ref, def), Target: ref, Default: def}
		}
	}
	prop.Span = p.spanFrom(start)
	return prop
}

// parsePropertyKey parses a literal, computed or private property name.
func (p *Parser) parsePropertyKey(allowPrivate bool) (key node.Expr, computed bool) {
	t := p.tok
	switch {
	case t.Kind == token.String:
		return p.parseStringLit(), false
	case t.Kind == token.Number:
		return p.parseNumberLit(), false
	case t.Kind == token.BigInt:
		return p.parseBigIntLit(), false
	case t.Kind == token.LBrack:
		p.next()
		x := p.parseAssignIn()
		p.expect(token.RBrack)
		return x, true
	case t.Kind == token.PrivateName:
		if !allowPrivate {
			p.unexpected(t)
		}
		p.require(FeaturePrivateNames, t.Span())
		p.next()
		return &node.PrivateIdent{Span: t.Span(), Name: p.name(t)}, false
	case t.Kind.IsIdentName():
		p.next()
		return &node.Ident{Span: t.Span(), Name: p.name(t)}, false
	}
	p.errorExpected(t, "property name")
	return nil, false
}

// coverList is a parenthesized list that is either an expression or the
// parameters of an arrow function. It is parsed in a speculative scope.
type coverList struct {
	open, close Token
	items       node.Exprs
	init        cover
	rest        ast.Span
	trailing    ast.Span
	scope       scope.ID
	fn          *funcCtx
}

func (p *Parser) parseCoverList() *coverList {
	l := &coverList{open: p.tok}
	l.scope = p.openScope(scope.FunctionParams, scope.Arrow|scope.Speculative, p.tok.Pos())
	fn := newFuncCtx()
	fn.arrow, fn.speculative = true, true
	l.fn = fn
	p.ctx.pushFunc(fn)
	noIn := p.noIn
	p.noIn = false

	p.expect(token.LParen)
	for !p.is(token.RParen) {
		if p.is(token.Ellipsis) {
			t := p.tok
			p.next()
			x := p.parseAssign(&l.init)
			sp := &node.SpreadExpr{Span: span(t.Pos(), int(x.End())), X: x}
			if l.rest.To == 0 {
				l.rest = sp.Span
			}
			l.items = append(l.items, sp)
		} else {
			l.items = append(l.items, p.parseAssign(&l.init))
		}
		if !p.is(token.RParen) {
			ct := p.expect(token.Comma)
			if p.is(token.RParen) {
				l.trailing = ct.Span()
			}
		}
	}
	l.close = p.expect(token.RParen)

	p.noIn = noIn
	p.ctx.pop()
	return l
}

func (p *Parser) parseParenOrArrow() node.Expr {
	start := p.tok
	l := p.parseCoverList()
	if p.is(token.Arrow) {
		return p.coverArrow(l, false, start)
	}

	p.scopes.Flatten()
	switch {
	case len(l.items) == 0:
		p.raiseAt(l.close, MsgInvalidCoverParens, "')'")
	case l.rest.To != 0:
		p.raise(l.rest, MsgInvalidCoverParens, "'...'")
	case l.trailing.To != 0:
		p.raise(l.trailing, MsgInvalidCoverParens, "','")
	}
	p.checkCover(&l.init)

	x := l.items[0]
	if len(l.items) > 1 {
		x = &node.SeqExpr{Span: ast.SpanOf(x, l.items[len(l.items)-1]), List: l.items}
	}
	return &node.ParenExpr{Span: span(start.Pos(), l.close.End()), X: x}
}

// parseAsyncCallOrArrow parses async(...) as a call or, when => follows,
// as the head of an async arrow function.
func (p *Parser) parseAsyncCallOrArrow() node.Expr {
	at := p.tok
	p.next()
	l := p.parseCoverList()
	if p.is(token.Arrow) {
		return p.coverArrow(l, true, at)
	}

	p.scopes.Flatten()
	p.checkCover(&l.init)
	callee := &node.Ident{Span: at.Span(), Name: p.name(at)}
	p.reference(callee)
	return &node.CallExpr{Span: span(at.Pos(), l.close.End()), Callee: callee, Args: l.items}
}

// coverArrow turns a cover list into the parameters of an arrow function
// and parses the function.
func (p *Parser) coverArrow(l *coverList, async bool, start Token) node.Expr {
	if p.newline {
		p.raiseAt(p.tok, MsgNewlineBeforeArrow)
	}
	p.scopes.Commit()
	fn := l.fn
	switch {
	case fn.awaitPos >= 0:
		p.raise(span(fn.awaitPos, fn.awaitPos+5), MsgAwaitInParams)
	case fn.yieldPos >= 0:
		p.raise(span(fn.yieldPos, fn.yieldPos+5), MsgYieldInParams)
	case async && fn.awaitIdent >= 0:
		p.raise(span(fn.awaitIdent, fn.awaitIdent+5), MsgIllegalAwait)
	}

	params := &node.FormalParams{Span: span(l.open.Pos(), l.close.End()), Scope: l.scope}
	for i, item := range l.items {
		sp, ok := item.(*node.SpreadExpr)
		if !ok {
			params.List = append(params.List, p.toElement(item, true))
			continue
		}
		if i != len(l.items)-1 || l.trailing.To != 0 {
			p.raiseNode(item, MsgRestNotLast)
		}
		if _, ok := sp.X.(*node.AssignExpr); ok {
			p.raiseNode(sp.X, MsgRestInit)
		}
		params.List = append(params.List, &node.RestElement{Span: sp.Span, Target: p.toTarget(sp.X, true)})
	}
	if dupes := p.declareParams(params); len(dupes) > 0 {
		p.conflict(dupes[0])
	}
	return p.parseArrow(start, params, async)
}

// parseArrowIdent parses an arrow function with a single unparenthesized
// parameter.
func (p *Parser) parseArrowIdent(start Token, async bool) node.Expr {
	t := p.tok
	name := p.name(t)
	p.checkIdentIn(t, name, true, p.strict(), p.inGenerator(), async || p.awaitReserved())
	sid := p.openScope(scope.FunctionParams, scope.Arrow, t.Pos())
	id := &node.Ident{Span: t.Span(), Name: name}
	p.next()
	p.declare(id, scope.Param)
	if p.newline {
		p.raiseAt(p.tok, MsgNewlineBeforeArrow)
	}
	params := &node.FormalParams{Span: t.Span(), List: node.Exprs{id}, Scope: sid}
	return p.parseArrow(start, params, async)
}
