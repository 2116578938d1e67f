// Copyright (c) 2020-2023 Ozan Hacıbekiroğlu.
// Use of this source code is governed by a MIT License
// that can be found in the LICENSE file.

package node

import (
	"strings"

	"github.com/gad-lang/esparse/parser/ast"
	"github.com/gad-lang/esparse/parser/scope"
)

// FuncKind is the syntactic form of a function.
type FuncKind uint8

const (
	FuncDeclaration FuncKind = iota
	FuncExpression
	ArrowFunc
	MethodFunc
	GetterFunc
	SetterFunc
	ConstructorFunc
)

var funcKindNames = [...]string{
	FuncDeclaration: "declaration",
	FuncExpression:  "expression",
	ArrowFunc:       "arrow",
	MethodFunc:      "method",
	GetterFunc:      "getter",
	SetterFunc:      "setter",
	ConstructorFunc: "constructor",
}

func (k FuncKind) String() string {
	if int(k) < len(funcKindNames) {
		return funcKindNames[k]
	}
	return "func?"
}

// FuncLit represents every function form. Arrow functions with a concise
// body keep it in Expr; lazily skipped bodies have neither Body nor Expr.
type FuncLit struct {
	ast.Span
	Kind        FuncKind
	Flags       ast.Flags
	Name        *Ident
	Params      *FormalParams
	Body        *BlockStmt
	Expr        Expr
	ParamsScope scope.ID
	BodyScope   scope.ID
}

func (e *FuncLit) ExprNode() {}

func (e *FuncLit) IsAsync() bool     { return e.Flags.Has(ast.Async) }
func (e *FuncLit) IsGenerator() bool { return e.Flags.Has(ast.Generator) }
func (e *FuncLit) IsArrow() bool     { return e.Kind == ArrowFunc }
func (e *FuncLit) IsStrict() bool    { return e.Flags.Has(ast.Strict) }

func (e *FuncLit) body() string {
	switch {
	case e.Expr != nil:
		return e.Expr.String()
	case e.Body != nil:
		return e.Body.String()
	}
	return "{…}"
}

func (e *FuncLit) signature() string {
	return e.Params.String() + " " + e.body()
}

func (e *FuncLit) String() string {
	var b strings.Builder
	if e.IsAsync() {
		b.WriteString("async ")
	}
	if e.Kind == ArrowFunc {
		b.WriteString(e.Params.String())
		b.WriteString(" => ")
		b.WriteString(e.body())
		return b.String()
	}
	b.WriteString("function")
	if e.IsGenerator() {
		b.WriteByte('*')
	}
	if e.Name != nil {
		b.WriteByte(' ')
		b.WriteString(e.Name.Name)
	}
	b.WriteString(e.signature())
	return b.String()
}

// FormalParams is a parameter list. Elements are identifiers, patterns,
// *AssignPattern for defaults and a trailing *RestElement.
type FormalParams struct {
	ast.Span
	List  Exprs
	Scope scope.ID
}

func (p *FormalParams) String() string {
	if p == nil {
		return "()"
	}
	return "(" + p.List.String() + ")"
}

// IsSimple reports whether the list holds plain identifiers only.
func (p *FormalParams) IsSimple() bool {
	for _, e := range p.List {
		if _, ok := e.(*Ident); !ok {
			return false
		}
	}
	return true
}

// ClassLit represents a class declaration or expression.
type ClassLit struct {
	ast.Span
	Name       *Ident
	Super      Expr
	Members    []*ClassMember
	Decorators Exprs
	HeadScope  scope.ID
	BodyScope  scope.ID
}

func (e *ClassLit) ExprNode() {}

func (e *ClassLit) String() string {
	var b strings.Builder
	for _, d := range e.Decorators {
		b.WriteString("@" + d.String() + " ")
	}
	b.WriteString("class")
	if e.Name != nil {
		b.WriteString(" " + e.Name.Name)
	}
	if e.Super != nil {
		b.WriteString(" extends " + e.Super.String())
	}
	b.WriteString(" {")
	for i, m := range e.Members {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(m.String())
	}
	b.WriteString("}")
	return b.String()
}

// Constructor returns the constructor member, if any.
func (e *ClassLit) Constructor() *ClassMember {
	for _, m := range e.Members {
		if m.Kind == MemberConstructor {
			return m
		}
	}
	return nil
}

// MemberKind classifies class members.
type MemberKind uint8

const (
	MemberMethod MemberKind = iota
	MemberGetter
	MemberSetter
	MemberConstructor
	MemberField
	MemberAccessor
	MemberStaticBlock
)

// ClassMember is a class element. Methods keep a *FuncLit in Value, fields
// their initializer; Scope is the function scope of a field initializer
// or static block.
type ClassMember struct {
	ast.Span
	Kind       MemberKind
	Static     bool
	Key        Expr
	Computed   bool
	Value      Expr
	Body       *BlockStmt
	Decorators Exprs
	Scope      scope.ID
}

func (m *ClassMember) String() string {
	var b strings.Builder
	for _, d := range m.Decorators {
		b.WriteString("@" + d.String() + " ")
	}
	if m.Static {
		b.WriteString("static ")
	}
	if m.Kind == MemberStaticBlock {
		b.WriteString(m.Body.String())
		return b.String()
	}
	switch m.Kind {
	case MemberGetter:
		b.WriteString("get ")
	case MemberSetter:
		b.WriteString("set ")
	case MemberAccessor:
		b.WriteString("accessor ")
	}
	key := m.Key.String()
	if m.Computed {
		key = "[" + key + "]"
	}
	if f, ok := m.Value.(*FuncLit); ok && m.Kind != MemberField && m.Kind != MemberAccessor {
		if f.IsAsync() {
			b.WriteString("async ")
		}
		if f.IsGenerator() {
			b.WriteByte('*')
		}
		b.WriteString(key)
		b.WriteString(f.signature())
		return b.String()
	}
	b.WriteString(key)
	if m.Value != nil {
		b.WriteString(" = " + m.Value.String())
	}
	return b.String()
}
