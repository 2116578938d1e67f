// Copyright (c) 2020-2023 Ozan Hacıbekiroğlu.
// Use of this source code is governed by a MIT License
// that can be found in the LICENSE file.

package node

import (
	"strings"

	"github.com/gad-lang/esparse/parser/ast"
	"github.com/gad-lang/esparse/parser/scope"
	"github.com/gad-lang/esparse/token"
)

// BadStmt is the placeholder spliced in place of a statement that failed to
// parse in recovery mode.
type BadStmt struct {
	ast.Span
}

func (s *BadStmt) StmtNode() {}

func (s *BadStmt) String() string {
	return "<bad statement>"
}

// EmptyStmt represents a lone semicolon.
type EmptyStmt struct {
	ast.Span
}

func (s *EmptyStmt) StmtNode() {}

func (s *EmptyStmt) String() string {
	return ";"
}

// ExprStmt represents an expression statement.
type ExprStmt struct {
	ast.Span
	X Expr
	// Directive is the raw text of a directive prologue entry.
	Directive string
}

func (s *ExprStmt) StmtNode() {}

func (s *ExprStmt) String() string {
	return s.X.String()
}

// BlockStmt represents a braced statement list.
type BlockStmt struct {
	ast.Span
	Body  Stmts
	Scope scope.ID
}

func (s *BlockStmt) StmtNode() {}

func (s *BlockStmt) String() string {
	return "{" + s.Body.String() + "}"
}

// VarDecl represents a var, let or const declaration.
type VarDecl struct {
	ast.Span
	Token token.Token
	List  []*VarBinding
}

func (s *VarDecl) StmtNode() {}

func (s *VarDecl) String() string {
	l := make([]string, len(s.List))
	for i, b := range s.List {
		l[i] = b.String()
	}
	return s.Token.String() + " " + strings.Join(l, ", ")
}

// VarBinding is a single declarator of a VarDecl.
type VarBinding struct {
	ast.Span
	Target Expr
	Init   Expr
}

func (b *VarBinding) String() string {
	if b.Init == nil {
		return b.Target.String()
	}
	return b.Target.String() + " = " + b.Init.String()
}

// FuncDecl represents a function declaration.
type FuncDecl struct {
	Func *FuncLit
}

func (s *FuncDecl) StmtNode() {}

func (s *FuncDecl) Pos() ast.Pos { return s.Func.Pos() }
func (s *FuncDecl) End() ast.Pos { return s.Func.End() }

func (s *FuncDecl) String() string {
	return s.Func.String()
}

// ClassDecl represents a class declaration.
type ClassDecl struct {
	Class *ClassLit
}

func (s *ClassDecl) StmtNode() {}

func (s *ClassDecl) Pos() ast.Pos { return s.Class.Pos() }
func (s *ClassDecl) End() ast.Pos { return s.Class.End() }

func (s *ClassDecl) String() string {
	return s.Class.String()
}

// IfStmt represents an if statement.
type IfStmt struct {
	ast.Span
	Cond Expr
	Then Stmt
	Else Stmt
}

func (s *IfStmt) StmtNode() {}

func (s *IfStmt) String() string {
	str := "if (" + s.Cond.String() + ") " + s.Then.String()
	if s.Else != nil {
		str += " else " + s.Else.String()
	}
	return str
}

// ForStmt represents a classic three clause for statement. Init is a
// *VarDecl or an *ExprStmt.
type ForStmt struct {
	ast.Span
	Init  Stmt
	Cond  Expr
	Post  Expr
	Body  Stmt
	Scope scope.ID
}

func (s *ForStmt) StmtNode() {}

func (s *ForStmt) String() string {
	var b strings.Builder
	b.WriteString("for (")
	if s.Init != nil {
		b.WriteString(s.Init.String())
	}
	b.WriteString("; ")
	if s.Cond != nil {
		b.WriteString(s.Cond.String())
	}
	b.WriteString("; ")
	if s.Post != nil {
		b.WriteString(s.Post.String())
	}
	b.WriteString(") ")
	b.WriteString(s.Body.String())
	return b.String()
}

// ForInStmt represents for-in, for-of, for-await-of and for-each loops.
// Left is a *VarDecl or an assignment target.
type ForInStmt struct {
	ast.Span
	Left  Node
	Right Expr
	Body  Stmt
	Of    bool
	Await bool
	Each  bool
	Scope scope.ID
}

func (s *ForInStmt) StmtNode() {}

func (s *ForInStmt) String() string {
	var b strings.Builder
	b.WriteString("for ")
	if s.Await {
		b.WriteString("await ")
	}
	if s.Each {
		b.WriteString("each ")
	}
	b.WriteString("(")
	b.WriteString(s.Left.String())
	if s.Of {
		b.WriteString(" of ")
	} else {
		b.WriteString(" in ")
	}
	b.WriteString(s.Right.String())
	b.WriteString(") ")
	b.WriteString(s.Body.String())
	return b.String()
}

// WhileStmt represents a while loop.
type WhileStmt struct {
	ast.Span
	Cond Expr
	Body Stmt
}

func (s *WhileStmt) StmtNode() {}

func (s *WhileStmt) String() string {
	return "while (" + s.Cond.String() + ") " + s.Body.String()
}

// DoWhileStmt represents a do-while loop.
type DoWhileStmt struct {
	ast.Span
	Body Stmt
	Cond Expr
}

func (s *DoWhileStmt) StmtNode() {}

func (s *DoWhileStmt) String() string {
	return "do " + s.Body.String() + " while (" + s.Cond.String() + ")"
}

// BranchStmt represents a break or continue statement.
type BranchStmt struct {
	ast.Span
	Token token.Token
	Label *Ident
}

func (s *BranchStmt) StmtNode() {}

func (s *BranchStmt) String() string {
	if s.Label != nil {
		return s.Token.String() + " " + s.Label.Name
	}
	return s.Token.String()
}

// ReturnStmt represents a return statement.
type ReturnStmt struct {
	ast.Span
	Result Expr
}

func (s *ReturnStmt) StmtNode() {}

func (s *ReturnStmt) String() string {
	if s.Result != nil {
		return "return " + s.Result.String()
	}
	return "return"
}

// WithStmt represents a with statement.
type WithStmt struct {
	ast.Span
	Object Expr
	Body   Stmt
}

func (s *WithStmt) StmtNode() {}

func (s *WithStmt) String() string {
	return "with (" + s.Object.String() + ") " + s.Body.String()
}

// SwitchStmt represents a switch statement. Its case clauses share one
// block scope.
type SwitchStmt struct {
	ast.Span
	Tag   Expr
	Cases []*CaseClause
	Scope scope.ID
}

func (s *SwitchStmt) StmtNode() {}

func (s *SwitchStmt) String() string {
	l := make([]string, len(s.Cases))
	for i, c := range s.Cases {
		l[i] = c.String()
	}
	return "switch (" + s.Tag.String() + ") {" + strings.Join(l, " ") + "}"
}

// CaseClause is a case or default clause; Test is nil for default.
type CaseClause struct {
	ast.Span
	Test Expr
	Body Stmts
}

func (c *CaseClause) String() string {
	head := "default:"
	if c.Test != nil {
		head = "case " + c.Test.String() + ":"
	}
	if len(c.Body) == 0 {
		return head
	}
	return head + " " + c.Body.String()
}

// LabeledStmt represents a labelled statement.
type LabeledStmt struct {
	ast.Span
	Label *Ident
	Body  Stmt
}

func (s *LabeledStmt) StmtNode() {}

func (s *LabeledStmt) String() string {
	return s.Label.Name + ": " + s.Body.String()
}

// ThrowStmt represents a throw statement.
type ThrowStmt struct {
	ast.Span
	Value Expr
}

func (s *ThrowStmt) StmtNode() {}

func (s *ThrowStmt) String() string {
	return "throw " + s.Value.String()
}

// TryStmt represents a try statement. Param is nil for an optional catch
// binding; Handler is nil without a catch clause.
type TryStmt struct {
	ast.Span
	Block      *BlockStmt
	Param      Expr
	Handler    *BlockStmt
	CatchScope scope.ID
	Finally    *BlockStmt
}

func (s *TryStmt) StmtNode() {}

func (s *TryStmt) String() string {
	str := "try " + s.Block.String()
	if s.Handler != nil {
		str += " catch "
		if s.Param != nil {
			str += "(" + s.Param.String() + ") "
		}
		str += s.Handler.String()
	}
	if s.Finally != nil {
		str += " finally " + s.Finally.String()
	}
	return str
}

// DebuggerStmt represents a debugger statement.
type DebuggerStmt struct {
	ast.Span
}

func (s *DebuggerStmt) StmtNode() {}

func (s *DebuggerStmt) String() string {
	return "debugger"
}
