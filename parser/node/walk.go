package node

import "fmt"

// A Visitor's Visit method is invoked for each node encountered by Walk.
// If the result visitor w is not nil, Walk visits each of the children of
// node with the visitor w, followed by a call of w.Visit(nil).
type Visitor interface {
	Visit(n Node) (w Visitor)
}

func walkExprs(v Visitor, l Exprs) {
	for _, e := range l {
		if e != nil {
			Walk(v, e)
		}
	}
}

func walkStmts(v Visitor, l Stmts) {
	for _, s := range l {
		Walk(v, s)
	}
}

func walkOpt(v Visitor, n Node) {
	switch t := n.(type) {
	case nil:
	case *Ident:
		if t != nil {
			Walk(v, t)
		}
	case *BlockStmt:
		if t != nil {
			Walk(v, t)
		}
	case *StringLit:
		if t != nil {
			Walk(v, t)
		}
	case *FormalParams:
		if t != nil {
			Walk(v, t)
		}
	default:
		Walk(v, n)
	}
}

// Walk traverses the tree in depth-first order.
func Walk(v Visitor, n Node) {
	if v = v.Visit(n); v == nil {
		return
	}

	switch n := n.(type) {
	case *Program:
		walkOpt(v, n.Params)
		walkStmts(v, n.Body)

	// statements
	case *BadStmt, *EmptyStmt, *DebuggerStmt:
	case *ExprStmt:
		Walk(v, n.X)
	case *BlockStmt:
		walkStmts(v, n.Body)
	case *VarDecl:
		for _, b := range n.List {
			Walk(v, b)
		}
	case *VarBinding:
		Walk(v, n.Target)
		walkOpt(v, n.Init)
	case *FuncDecl:
		Walk(v, n.Func)
	case *ClassDecl:
		Walk(v, n.Class)
	case *IfStmt:
		Walk(v, n.Cond)
		Walk(v, n.Then)
		walkOpt(v, n.Else)
	case *ForStmt:
		walkOpt(v, n.Init)
		walkOpt(v, n.Cond)
		walkOpt(v, n.Post)
		Walk(v, n.Body)
	case *ForInStmt:
		Walk(v, n.Left)
		Walk(v, n.Right)
		Walk(v, n.Body)
	case *WhileStmt:
		Walk(v, n.Cond)
		Walk(v, n.Body)
	case *DoWhileStmt:
		Walk(v, n.Body)
		Walk(v, n.Cond)
	case *BranchStmt:
		walkOpt(v, n.Label)
	case *ReturnStmt:
		walkOpt(v, n.Result)
	case *WithStmt:
		Walk(v, n.Object)
		Walk(v, n.Body)
	case *SwitchStmt:
		Walk(v, n.Tag)
		for _, c := range n.Cases {
			Walk(v, c)
		}
	case *CaseClause:
		walkOpt(v, n.Test)
		walkStmts(v, n.Body)
	case *LabeledStmt:
		Walk(v, n.Label)
		Walk(v, n.Body)
	case *ThrowStmt:
		Walk(v, n.Value)
	case *TryStmt:
		Walk(v, n.Block)
		walkOpt(v, n.Param)
		walkOpt(v, n.Handler)
		walkOpt(v, n.Finally)
	case *ImportDecl:
		walkOpt(v, n.Default)
		walkOpt(v, n.Namespace)
		for _, s := range n.Specifiers {
			Walk(v, s)
		}
		Walk(v, n.Source)
		for _, a := range n.Attributes {
			Walk(v, a)
		}
	case *ImportSpec:
		Walk(v, n.Local)
	case *ImportAttribute:
		Walk(v, n.Value)
	case *ExportDecl:
		Walk(v, n.Decl)
	case *ExportDefault:
		Walk(v, n.Value)
	case *ExportNamed:
		for _, s := range n.Specifiers {
			Walk(v, s)
		}
		walkOpt(v, n.Source)
		for _, a := range n.Attributes {
			Walk(v, a)
		}
	case *ExportSpec:
		Walk(v, n.Local)
	case *ExportAll:
		Walk(v, n.Source)
		for _, a := range n.Attributes {
			Walk(v, a)
		}

	// expressions
	case *BadExpr, *Ident, *PrivateIdent, *ThisExpr, *SuperExpr, *MetaProperty,
		*NullLit, *BoolLit, *NumberLit, *BigIntLit, *StringLit, *RegexpLit,
		*TemplateElement:
	case *ParenExpr:
		Walk(v, n.X)
	case *UnaryExpr:
		Walk(v, n.X)
	case *UpdateExpr:
		Walk(v, n.X)
	case *BinaryExpr:
		Walk(v, n.LHS)
		Walk(v, n.RHS)
	case *AssignExpr:
		Walk(v, n.LHS)
		Walk(v, n.RHS)
	case *CondExpr:
		Walk(v, n.Cond)
		Walk(v, n.True)
		Walk(v, n.False)
	case *SeqExpr:
		walkExprs(v, n.List)
	case *CallExpr:
		Walk(v, n.Callee)
		walkExprs(v, n.Args)
	case *NewExpr:
		Walk(v, n.Callee)
		walkExprs(v, n.Args)
	case *MemberExpr:
		Walk(v, n.Object)
		Walk(v, n.Property)
	case *ChainExpr:
		Walk(v, n.X)
	case *SpreadExpr:
		Walk(v, n.X)
	case *YieldExpr:
		walkOpt(v, n.X)
	case *AwaitExpr:
		Walk(v, n.X)
	case *ImportCall:
		Walk(v, n.Source)
		walkOpt(v, n.Options)
	case *TaggedTemplate:
		Walk(v, n.Tag)
		Walk(v, n.Quasi)
	case *TemplateLit:
		for i, q := range n.Quasis {
			Walk(v, q)
			if i < len(n.Exprs) {
				Walk(v, n.Exprs[i])
			}
		}
	case *ArrayLit:
		walkExprs(v, n.Elements)
	case *ObjectLit:
		for _, p := range n.Props {
			Walk(v, p)
		}
	case *Property:
		walkOpt(v, n.Key)
		// shorthand members share the key node with the value
		if n.Kind != PropShorthand || n.Value != n.Key {
			Walk(v, n.Value)
		}
	case *FuncLit:
		walkOpt(v, n.Name)
		walkOpt(v, n.Params)
		walkOpt(v, n.Body)
		walkOpt(v, n.Expr)
	case *FormalParams:
		walkExprs(v, n.List)
	case *ClassLit:
		walkExprs(v, n.Decorators)
		walkOpt(v, n.Name)
		walkOpt(v, n.Super)
		for _, m := range n.Members {
			Walk(v, m)
		}
	case *ClassMember:
		walkExprs(v, n.Decorators)
		walkOpt(v, n.Key)
		walkOpt(v, n.Value)
		walkOpt(v, n.Body)

	// patterns
	case *ObjectPattern:
		for _, p := range n.Props {
			Walk(v, p)
		}
		walkOpt(v, n.Rest)
	case *ArrayPattern:
		walkExprs(v, n.Elements)
	case *AssignPattern:
		Walk(v, n.Target)
		Walk(v, n.Default)
	case *RestElement:
		Walk(v, n.Target)

	default:
		panic(fmt.Sprintf("node.Walk: unexpected node type %T", n))
	}

	v.Visit(nil)
}

type inspector func(Node) bool

func (f inspector) Visit(n Node) Visitor {
	if f(n) {
		return f
	}
	return nil
}

// Inspect traverses the tree in depth-first order, calling f(n) for each
// node and f(nil) after its children. If f returns false the children are
// skipped.
func Inspect(n Node, f func(Node) bool) {
	Walk(inspector(f), n)
}
