// Copyright (c) 2020-2023 Ozan Hacıbekiroğlu.
// Use of this source code is governed by a MIT License
// that can be found in the LICENSE file.

package node

import (
	"strings"

	"github.com/gad-lang/esparse/parser/ast"
	"github.com/gad-lang/esparse/parser/scope"
	"github.com/gad-lang/esparse/parser/source"
)

// Node is a node of the syntax tree.
type Node = ast.Node

// Expr represents an expression node in the AST. Binding and assignment
// patterns are expressions too.
type Expr interface {
	Node
	ExprNode()
}

// Stmt represents a statement in the AST.
type Stmt interface {
	Node
	StmtNode()
}

// Exprs is a list of expressions.
type Exprs []Expr

func (l Exprs) String() string {
	s := make([]string, len(l))
	for i, e := range l {
		if e != nil {
			s[i] = e.String()
		}
	}
	return strings.Join(s, ", ")
}

// Stmts is a statement list.
type Stmts []Stmt

func (s *Stmts) Append(n ...Stmt) {
	*s = append(*s, n...)
}

func (s Stmts) String() string {
	l := make([]string, len(s))
	for i, stmt := range s {
		l[i] = stmt.String()
	}
	return strings.Join(l, "; ")
}

// IsExpr reports whether n is an expression.
func IsExpr(n Node) (ok bool) {
	_, ok = n.(Expr)
	return
}

// IsStatement reports whether n is a statement.
func IsStatement(n Node) (ok bool) {
	_, ok = n.(Stmt)
	return
}

// ProgramKind is the entry production a program was parsed with.
type ProgramKind uint8

const (
	Script ProgramKind = iota
	ModuleUnit
	EvalUnit
	FunctionBodyUnit
	ExpressionUnit
	ParamsUnit
)

var programKindNames = [...]string{
	Script:           "script",
	ModuleUnit:       "module",
	EvalUnit:         "eval",
	FunctionBodyUnit: "function-body",
	ExpressionUnit:   "expression",
	ParamsUnit:       "params",
}

func (k ProgramKind) String() string {
	if int(k) < len(programKindNames) {
		return programKindNames[k]
	}
	return "program?"
}

// Program is the root of a parsed unit. Its scope tree is fully closed.
type Program struct {
	ast.Span
	Kind  ProgramKind
	Flags ast.Flags
	File  *source.File
	// Name is the source name, possibly overridden by a sourceURL
	// directive comment.
	Name       string
	Directives []string
	// Params holds the assumed parameters of a function body unit.
	Params *FormalParams
	Body   Stmts
	Scopes *scope.Tree
	Scope  scope.ID
}

func (p *Program) StmtNode() {}

func (p *Program) String() string {
	return p.Body.String()
}

// IsStrict reports whether the unit is strict code.
func (p *Program) IsStrict() bool {
	return p.Flags.Has(ast.Strict)
}
