// Copyright (c) 2020-2023 Ozan Hacıbekiroğlu.
// Use of this source code is governed by a MIT License
// that can be found in the LICENSE file.

package node

import (
	"github.com/gad-lang/esparse/parser/ast"
	"github.com/gad-lang/esparse/parser/scope"
	"github.com/gad-lang/esparse/token"
)

// BadExpr represents an expression that failed to parse.
type BadExpr struct {
	ast.Span
}

func (e *BadExpr) ExprNode() {}

func (e *BadExpr) String() string {
	return "<bad expression>"
}

// Ident represents an identifier. A reference carries Ref, resolved when its
// scope closes; a binding carries the declared Sym.
type Ident struct {
	ast.Span
	Name string
	Ref  *scope.Reference
	Sym  *scope.Symbol
}

func (e *Ident) ExprNode() {}

func (e *Ident) String() string {
	return e.Name
}

// Binding returns the symbol the identifier declares or refers to.
func (e *Ident) Binding() *scope.Symbol {
	if e.Sym != nil {
		return e.Sym
	}
	if e.Ref != nil {
		return e.Ref.Symbol
	}
	return nil
}

// PrivateIdent represents a #name.
type PrivateIdent struct {
	ast.Span
	Name string
	Ref  *scope.Reference
	Sym  *scope.Symbol
}

func (e *PrivateIdent) ExprNode() {}

func (e *PrivateIdent) String() string {
	return e.Name
}

// ThisExpr represents this.
type ThisExpr struct {
	ast.Span
}

func (e *ThisExpr) ExprNode() {}

func (e *ThisExpr) String() string {
	return "this"
}

// SuperExpr represents super in a call or member access.
type SuperExpr struct {
	ast.Span
}

func (e *SuperExpr) ExprNode() {}

func (e *SuperExpr) String() string {
	return "super"
}

// ParenExpr represents a parenthesized expression.
type ParenExpr struct {
	ast.Span
	X Expr
}

func (e *ParenExpr) ExprNode() {}

// String prints the inner expression in one pair of parentheses. Inner
// expressions that print their own parentheses are not wrapped again.
func (e *ParenExpr) String() string {
	s := e.X.String()
	if wrapped(s) {
		return s
	}
	return "(" + s + ")"
}

// wrapped reports whether the parenthesis opening s closes at its end.
func wrapped(s string) bool {
	if len(s) < 2 || s[0] != '(' || s[len(s)-1] != ')' {
		return false
	}
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			if depth--; depth == 0 {
				return i == len(s)-1
			}
		}
	}
	return false
}

// UnaryExpr represents a prefix operator other than ++ and --.
type UnaryExpr struct {
	ast.Span
	Op token.Token
	X  Expr
}

func (e *UnaryExpr) ExprNode() {}

func (e *UnaryExpr) String() string {
	if e.Op.IsKeyword() {
		return "(" + e.Op.String() + " " + e.X.String() + ")"
	}
	return "(" + e.Op.String() + e.X.String() + ")"
}

// UpdateExpr represents ++ and --.
type UpdateExpr struct {
	ast.Span
	Op     token.Token
	Prefix bool
	X      Expr
}

func (e *UpdateExpr) ExprNode() {}

func (e *UpdateExpr) String() string {
	if e.Prefix {
		return "(" + e.Op.String() + e.X.String() + ")"
	}
	return "(" + e.X.String() + e.Op.String() + ")"
}

// BinaryExpr represents a binary operator expression, logical operators
// included.
type BinaryExpr struct {
	ast.Span
	Op  token.Token
	LHS Expr
	RHS Expr
}

func (e *BinaryExpr) ExprNode() {}

func (e *BinaryExpr) String() string {
	return "(" + e.LHS.String() + " " + e.Op.String() + " " + e.RHS.String() + ")"
}

// AssignExpr represents an assignment. LHS is a simple target or a pattern.
type AssignExpr struct {
	ast.Span
	Op  token.Token
	LHS Expr
	RHS Expr
}

func (e *AssignExpr) ExprNode() {}

func (e *AssignExpr) String() string {
	return "(" + e.LHS.String() + " " + e.Op.String() + " " + e.RHS.String() + ")"
}

// CondExpr represents a ternary conditional expression.
type CondExpr struct {
	ast.Span
	Cond  Expr
	True  Expr
	False Expr
}

func (e *CondExpr) ExprNode() {}

func (e *CondExpr) String() string {
	return "(" + e.Cond.String() + " ? " + e.True.String() + " : " + e.False.String() + ")"
}

// SeqExpr represents a comma expression.
type SeqExpr struct {
	ast.Span
	List Exprs
}

func (e *SeqExpr) ExprNode() {}

func (e *SeqExpr) String() string {
	return "(" + e.List.String() + ")"
}

// CallExpr represents a call. Callee is a *SuperExpr for super calls.
type CallExpr struct {
	ast.Span
	Callee   Expr
	Args     Exprs
	Optional bool
	// DirectEval marks a plain call of eval.
	DirectEval bool
}

func (e *CallExpr) ExprNode() {}

func (e *CallExpr) String() string {
	if e.Optional {
		return e.Callee.String() + "?.(" + e.Args.String() + ")"
	}
	return e.Callee.String() + "(" + e.Args.String() + ")"
}

// NewExpr represents new with optional arguments.
type NewExpr struct {
	ast.Span
	Callee Expr
	Args   Exprs
}

func (e *NewExpr) ExprNode() {}

func (e *NewExpr) String() string {
	return "new " + e.Callee.String() + "(" + e.Args.String() + ")"
}

// MemberExpr represents a.b, a[b], a.#b and their optional forms.
type MemberExpr struct {
	ast.Span
	Object   Expr
	Property Expr
	Computed bool
	Optional bool
}

func (e *MemberExpr) ExprNode() {}

func (e *MemberExpr) String() string {
	switch {
	case e.Computed && e.Optional:
		return e.Object.String() + "?.[" + e.Property.String() + "]"
	case e.Computed:
		return e.Object.String() + "[" + e.Property.String() + "]"
	case e.Optional:
		return e.Object.String() + "?." + e.Property.String()
	}
	return e.Object.String() + "." + e.Property.String()
}

// ChainExpr wraps an optional chain.
type ChainExpr struct {
	ast.Span
	X Expr
}

func (e *ChainExpr) ExprNode() {}

func (e *ChainExpr) String() string {
	return e.X.String()
}

// SpreadExpr represents ...x in arrays, calls and object literals.
type SpreadExpr struct {
	ast.Span
	X Expr
}

func (e *SpreadExpr) ExprNode() {}

func (e *SpreadExpr) String() string {
	return "..." + e.X.String()
}

// YieldExpr represents yield and yield*.
type YieldExpr struct {
	ast.Span
	X        Expr
	Delegate bool
}

func (e *YieldExpr) ExprNode() {}

func (e *YieldExpr) String() string {
	s := "yield"
	if e.Delegate {
		s += "*"
	}
	if e.X != nil {
		s += " " + e.X.String()
	}
	return "(" + s + ")"
}

// AwaitExpr represents await.
type AwaitExpr struct {
	ast.Span
	X Expr
}

func (e *AwaitExpr) ExprNode() {}

func (e *AwaitExpr) String() string {
	return "(await " + e.X.String() + ")"
}

// MetaProperty represents new.target and import.meta.
type MetaProperty struct {
	ast.Span
	Meta     string
	Property string
}

func (e *MetaProperty) ExprNode() {}

func (e *MetaProperty) String() string {
	return e.Meta + "." + e.Property
}

// ImportCall represents a dynamic import().
type ImportCall struct {
	ast.Span
	Source  Expr
	Options Expr
}

func (e *ImportCall) ExprNode() {}

func (e *ImportCall) String() string {
	if e.Options != nil {
		return "import(" + e.Source.String() + ", " + e.Options.String() + ")"
	}
	return "import(" + e.Source.String() + ")"
}

// TaggedTemplate represents tag`...`.
type TaggedTemplate struct {
	ast.Span
	Tag   Expr
	Quasi *TemplateLit
}

func (e *TaggedTemplate) ExprNode() {}

func (e *TaggedTemplate) String() string {
	return e.Tag.String() + e.Quasi.String()
}
