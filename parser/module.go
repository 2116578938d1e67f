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

// checkModuleItem reports import and export declarations outside of the
// top level of a module.
func (p *Parser) checkModuleItem(t Token, what string) {
	switch {
	case !p.module:
		p.raiseAt(t, MsgModuleOnly, what)
	case p.scopes.CurrentScope().Kind != scope.Module:
		p.raiseAt(t, MsgTopLevelOnly, what)
	}
}

// parseImportDecl parses every import declaration form.
func (p *Parser) parseImportDecl() node.Stmt {
	if p.trace {
		defer untracep(tracep(p, "ImportDecl"))
	}

	t := p.expect(token.Import)
	p.checkModuleItem(t, "import")
	d := &node.ImportDecl{}
	if p.is(token.String) {
		d.Source = p.parseStringLit()
		d.Attributes = p.parseImportAttributes()
		p.expectSemi()
		d.Span = p.spanFrom(t)
		return d
	}

	if isIdent(p.tok) {
		d.Default = p.parseImportBinding()
	}
	if d.Default == nil || p.is(token.Comma) {
		if d.Default != nil {
			p.next()
		}
		switch {
		case p.is(token.Mul):
			p.next()
			if !isContextual(p.tok, token.As) {
				p.errorExpected(p.tok, "'as'")
			}
			p.next()
			d.Namespace = p.parseImportBinding()
		case p.is(token.LBrace):
			d.Named = true
			p.next()
			for !p.is(token.RBrace) {
				d.Specifiers = append(d.Specifiers, p.parseImportSpec())
				if !p.is(token.RBrace) {
					p.expect(token.Comma)
				}
			}
			p.next()
		default:
			p.errorExpected(p.tok, "import specifier")
		}
	}

	p.expectFrom()
	d.Source = p.parseStringLit()
	d.Attributes = p.parseImportAttributes()
	p.expectSemi()
	d.Span = p.spanFrom(t)
	return d
}

func (p *Parser) expectFrom() {
	if !isContextual(p.tok, token.From) {
		p.errorExpected(p.tok, "'from'")
	}
	p.next()
	if !p.is(token.String) {
		p.errorExpected(p.tok, "module specifier")
	}
}

// parseImportBinding parses and declares an imported local name.
func (p *Parser) parseImportBinding() *node.Ident {
	t := p.tok
	if !isIdent(t) {
		p.errorExpected(t, "identifier")
	}
	name := p.name(t)
	p.checkIdentIn(t, name, true, true, false, true)
	p.next()
	id := &node.Ident{Span: t.Span(), Name: name}
	if name == "let" {
		p.raiseNode(id, MsgLetInLexical)
	}
	p.declare(id, scope.Import)
	return id
}

func (p *Parser) parseImportSpec() *node.ImportSpec {
	t := p.tok
	s := &node.ImportSpec{}
	switch {
	case t.Kind == token.String:
		s.Imported = p.parseStringLit().Value
		if !isContextual(p.tok, token.As) {
			p.errorExpected(p.tok, "'as'")
		}
	case t.Kind.IsIdentName():
		s.Imported = p.name(t)
		p.next()
	default:
		p.errorExpected(t, "identifier")
	}
	if isContextual(p.tok, token.As) {
		p.next()
		s.Local = p.parseImportBinding()
	} else {
		// import {x} binds x itself, which must be a valid binding name
		p.checkIdentIn(t, s.Imported, true, true, false, true)
		s.Local = &node.Ident{Span: t.Span(), Name: s.Imported}
		p.declare(s.Local, scope.Import)
	}
	s.Span = p.spanFrom(t)
	return s
}

// parseImportAttributes parses an optional with or assert clause.
func (p *Parser) parseImportAttributes() []*node.ImportAttribute {
	switch {
	case p.is(token.With) && p.cfg.ImportAttributes:
	case isContextual(p.tok, token.Ident) && p.text(p.tok) == "assert" && p.cfg.ImportAssertions && !p.newline:
	default:
		return nil
	}
	p.next()
	p.expect(token.LBrace)
	var list []*node.ImportAttribute
	seen := map[string]bool{}
	for !p.is(token.RBrace) {
		t := p.tok
		a := &node.ImportAttribute{}
		switch {
		case t.Kind == token.String:
			a.Key = p.parseStringLit().Value
		case t.Kind.IsIdentName():
			a.Key = p.name(t)
			p.next()
		default:
			p.errorExpected(t, "attribute key")
		}
		if seen[a.Key] {
			p.raise(p.spanFrom(t), MsgDuplicateAttribute, a.Key)
		}
		seen[a.Key] = true
		p.expect(token.Colon)
		if !p.is(token.String) {
			p.errorExpected(p.tok, "string")
		}
		a.Value = p.parseStringLit()
		a.Span = p.spanFrom(t)
		list = append(list, a)
		if !p.is(token.RBrace) {
			p.expect(token.Comma)
		}
	}
	p.next()
	return list
}

// parseExportDecl parses every export declaration form. start is the
// export keyword or the first decorator.
func (p *Parser) parseExportDecl(start Token, decorators node.Exprs) node.Stmt {
	if p.trace {
		defer untracep(tracep(p, "ExportDecl"))
	}

	t := p.expect(token.Export)
	p.checkModuleItem(t, "export")
	if len(decorators) > 0 && !p.is(token.Class) && !p.is(token.Default) {
		p.raiseAt(p.tok, MsgDecoratorPosition)
	}

	switch {
	case p.is(token.Mul):
		return p.parseExportAll(t)
	case p.is(token.Default):
		return p.parseExportDefault(start, decorators)
	case p.is(token.LBrace):
		return p.parseExportNamed(t)
	case p.is(token.At):
		if len(decorators) > 0 {
			p.unexpected(p.tok)
		}
		decorators = p.parseDecorators()
		if !p.is(token.Class) {
			p.raiseAt(p.tok, MsgDecoratorPosition)
		}
	}

	var decl node.Stmt
	dt := p.tok
	switch {
	case p.is(token.Var, token.Const), p.is(token.Let) && p.isLetDecl():
		v := p.parseVarDecl(false)
		p.expectSemi()
		v.Span = p.spanFrom(dt)
		for _, b := range v.List {
			for _, id := range node.BoundNames(nil, b.Target) {
				p.addExport(id.Name, int(id.From))
			}
		}
		decl = v
	case p.is(token.Function):
		f := p.parseFunctionDecl(dt, false, false)
		p.addExport(f.Name.Name, int(f.Name.From))
		decl = &node.FuncDecl{Func: f}
	case isContextual(dt, token.Async):
		if nt, nl := p.peek(); nt.Kind != token.Function || nl {
			p.unexpected(dt)
		}
		p.next()
		f := p.parseFunctionDecl(dt, true, false)
		p.addExport(f.Name.Name, int(f.Name.From))
		decl = &node.FuncDecl{Func: f}
	case p.is(token.Class):
		cs := dt
		if len(decorators) > 0 {
			cs = start
		}
		c := p.parseClass(cs, decorators, true, false)
		p.addExport(c.Name.Name, int(c.Name.From))
		decl = &node.ClassDecl{Class: c}
	default:
		p.unexpected(dt)
	}
	return &node.ExportDecl{Span: p.spanFrom(start), Decl: decl}
}

func (p *Parser) parseExportAll(t Token) node.Stmt {
	p.expect(token.Mul)
	s := &node.ExportAll{}
	if isContextual(p.tok, token.As) {
		p.next()
		at := p.tok
		s.Alias = p.parseModuleExportName()
		p.addExport(s.Alias, at.Pos())
	}
	p.expectFrom()
	s.Source = p.parseStringLit()
	s.Attributes = p.parseImportAttributes()
	p.expectSemi()
	s.Span = p.spanFrom(t)
	return s
}

func (p *Parser) parseExportDefault(start Token, decorators node.Exprs) node.Stmt {
	dt := p.expect(token.Default)
	p.addExport("default", dt.Pos())
	s := &node.ExportDefault{}
	t := p.tok
	switch {
	case p.is(token.At) && len(decorators) == 0:
		decorators = p.parseDecorators()
		if !p.is(token.Class) {
			p.raiseAt(p.tok, MsgDecoratorPosition)
		}
		s.Value = p.parseClass(t, decorators, true, true)
	case p.is(token.Class):
		s.Value = p.parseClass(t, decorators, true, true)
	case len(decorators) > 0:
		p.raiseAt(t, MsgDecoratorPosition)
	case p.is(token.Function):
		s.Value = p.parseFunctionDecl(t, false, true)
	case isContextual(t, token.Async):
		if nt, nl := p.peek(); nt.Kind == token.Function && !nl {
			p.next()
			s.Value = p.parseFunctionDecl(t, true, true)
			break
		}
		fallthrough
	default:
		s.Value = p.parseAssignIn()
		p.expectSemi()
	}
	s.Span = p.spanFrom(start)
	return s
}

func (p *Parser) parseExportNamed(t Token) node.Stmt {
	p.expect(token.LBrace)
	s := &node.ExportNamed{}
	var strLocals []ast.Span
	for !p.is(token.RBrace) {
		lt := p.tok
		if lt.Kind == token.String {
			strLocals = append(strLocals, lt.Span())
		}
		sp := &node.ExportSpec{}
		local := p.parseModuleExportName()
		sp.Local = &node.Ident{Span: lt.Span(), Name: local}
		sp.Exported = local
		et := lt
		if isContextual(p.tok, token.As) {
			p.next()
			et = p.tok
			sp.Exported = p.parseModuleExportName()
		}
		p.addExport(sp.Exported, et.Pos())
		sp.Span = p.spanFrom(lt)
		s.Specifiers = append(s.Specifiers, sp)
		if !p.is(token.RBrace) {
			p.expect(token.Comma)
		}
	}
	p.next()

	if isContextual(p.tok, token.From) {
		p.expectFrom()
		s.Source = p.parseStringLit()
		s.Attributes = p.parseImportAttributes()
	} else {
		if len(strLocals) > 0 {
			p.raise(strLocals[0], MsgExpected, "identifier", "string")
		}
		for _, sp := range s.Specifiers {
			if k := token.Lookup(sp.Local.Name); k.IsKeyword() && !k.IsContextual() {
				p.raiseNode(sp.Local, MsgReservedWord, sp.Local.Name)
			}
			p.reference(sp.Local)
			p.localExps = append(p.localExps, sp.Local)
		}
	}
	p.expectSemi()
	s.Span = p.spanFrom(t)
	return s
}

// parseModuleExportName parses an identifier name or a string literal.
func (p *Parser) parseModuleExportName() string {
	t := p.tok
	switch {
	case t.Kind == token.String:
		return p.parseStringLit().Value
	case t.Kind.IsIdentName():
		p.next()
		return p.name(t)
	}
	p.errorExpected(t, "identifier")
	return ""
}

// addExport records an exported name. Exported names are unique within a
// module.
func (p *Parser) addExport(name string, pos int) {
	if p.exports == nil {
		p.exports = make(map[string]ast.Pos)
	}
	if _, ok := p.exports[name]; ok {
		p.raise(span(pos, pos+len(name)), MsgDuplicateExport, name)
	}
	p.exports[name] = ast.Pos(pos)
}

// checkLocalExports reports exported local names that are not declared in
// the module. It runs after the module scope is closed.
func (p *Parser) checkLocalExports() {
	for _, id := range p.localExps {
		if id.Ref != nil && id.Ref.Symbol == nil {
			p.fail(p.diag(SyntaxError, id.Span, MsgUndefinedExport, id.Name))
		}
	}
}
