package node_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gad-lang/esparse/parser/ast"
	. "github.com/gad-lang/esparse/parser/node"
	"github.com/gad-lang/esparse/token"
)

func ident(name string, from int) *Ident {
	return &Ident{Span: ast.Span{From: ast.Pos(from), To: ast.Pos(from + len(name))}, Name: name}
}

func num(raw string, from int, v any) *NumberLit {
	return &NumberLit{Span: ast.Span{From: ast.Pos(from), To: ast.Pos(from + len(raw))}, Raw: raw, Value: v}
}

func TestString(t *testing.T) {
	// 1 + 2 * 3
	mul := &BinaryExpr{Op: token.Mul, LHS: num("2", 4, int32(2)), RHS: num("3", 8, int32(3))}
	add := &BinaryExpr{Op: token.Add, LHS: num("1", 0, int32(1)), RHS: mul}
	require.Equal(t, "(1 + (2 * 3))", add.String())

	fn := &FuncLit{
		Kind:   ArrowFunc,
		Params: &FormalParams{List: Exprs{ident("a", 1), &RestElement{Target: ident("b", 7)}}},
		Expr:   &BinaryExpr{Op: token.Add, LHS: ident("a", 13), RHS: ident("b", 17)},
	}
	require.Equal(t, "(a, ...b) => (a + b)", fn.String())

	decl := &VarDecl{Token: token.Let, List: []*VarBinding{
		{Target: &ObjectPattern{
			Props: []*Property{{Kind: PropShorthand, Key: ident("a", 5), Value: ident("a", 5)}},
			Rest:  ident("r", 11),
		}, Init: &ObjectLit{}},
	}}
	require.Equal(t, "let {a, ...r} = {}", decl.String())

	un := &UnaryExpr{Op: token.TypeOf, X: ident("x", 7)}
	require.Equal(t, "(typeof x)", un.String())

	// (-a) ** (b)
	neg := &ParenExpr{X: &UnaryExpr{Op: token.Sub, X: ident("a", 2)}}
	exp := &BinaryExpr{Op: token.Exp, LHS: neg, RHS: &ParenExpr{X: ident("b", 10)}}
	require.Equal(t, "(-a)", neg.String())
	require.Equal(t, "((-a) ** (b))", exp.String())
	require.Equal(t, "(f(a)(b))", (&ParenExpr{X: &CallExpr{
		Callee: &CallExpr{Callee: ident("f", 1), Args: Exprs{ident("a", 3)}},
		Args:   Exprs{ident("b", 6)},
	}}).String())

	text := func(raw, cooked string) *TemplateElement {
		return &TemplateElement{Raw: raw, Cooked: &cooked}
	}
	here := &TemplateLit{Style: HereDoc, Quasis: []*TemplateElement{text("hello ${name}!", "hello ${name}!")}}
	require.Equal(t, "`hello \\${name}!`", here.String())
	edit := &TemplateLit{
		Style:  EditString,
		Quasis: []*TemplateElement{text(`a\"`, `a"`), text("`$", "`$")},
		Exprs:  Exprs{ident("b", 6)},
	}
	require.Equal(t, "`a\"${b}\\`$`", edit.String())
	quoted := &TemplateLit{Quasis: []*TemplateElement{text(`\${x}`, "${x}")}}
	require.Equal(t, "`\\${x}`", quoted.String())

	prog := &Program{Body: Stmts{&ExprStmt{X: ident("a", 0)}, &ReturnStmt{}}}
	require.Equal(t, "a; return", prog.String())
}

func TestBoundNames(t *testing.T) {
	target := &ArrayPattern{Elements: Exprs{
		ident("a", 1),
		nil,
		&AssignPattern{Target: ident("b", 6), Default: num("1", 10, int32(1))},
		&RestElement{Target: &ObjectPattern{Props: []*Property{
			{Kind: PropInit, Key: ident("k", 17), Value: ident("c", 20)},
		}}},
	}}
	var names []string
	for _, id := range BoundNames(nil, target) {
		names = append(names, id.Name)
	}
	require.Equal(t, []string{"a", "b", "c"}, names)
	require.True(t, IsPattern(target))
}

func TestInspect(t *testing.T) {
	call := &CallExpr{Callee: ident("f", 0), Args: Exprs{ident("x", 2), &SpreadExpr{X: ident("y", 8)}}}
	stmt := &IfStmt{Cond: call, Then: &BlockStmt{Body: Stmts{&ExprStmt{X: ident("z", 14)}}}}

	var idents []string
	Inspect(stmt, func(n Node) bool {
		if id, ok := n.(*Ident); ok {
			idents = append(idents, id.Name)
		}
		return true
	})
	require.Equal(t, []string{"f", "x", "y", "z"}, idents)

	var visited int
	Inspect(stmt, func(n Node) bool {
		if n != nil {
			visited++
		}
		_, isCall := n.(*CallExpr)
		return !isCall
	})
	// if, call, block, expr stmt, z
	require.Equal(t, 5, visited)
}

func TestDump(t *testing.T) {
	x := &BinaryExpr{Op: token.Add, LHS: num("1", 0, int32(1)), RHS: num("2.5", 4, 2.5)}
	require.Equal(t, `.
└── BinaryExpr +
    ├── NumberLit 1 (int32)
    └── NumberLit 2.5 (float64)
`, Dump(x))
}

func TestImportAttributes(t *testing.T) {
	str := func(raw string, from int) *StringLit {
		return &StringLit{Span: ast.Span{From: ast.Pos(from), To: ast.Pos(from + len(raw))}, Raw: raw, Value: raw[1 : len(raw)-1]}
	}
	// import x from './x.json' with {type: 'json'}
	attr := &ImportAttribute{Key: "type", Value: str("'json'", 38)}
	decl := &ImportDecl{
		Default:    ident("x", 7),
		Source:     str("'./x.json'", 14),
		Attributes: []*ImportAttribute{attr},
	}
	require.Equal(t, "type: 'json'", attr.String())
	require.Equal(t, "import x from './x.json' with {type: 'json'}", decl.String())

	var kinds []string
	Inspect(decl, func(n Node) bool {
		switch n := n.(type) {
		case *ImportAttribute:
			kinds = append(kinds, "attr "+n.Key)
		case *StringLit:
			kinds = append(kinds, n.Raw)
		}
		return true
	})
	require.Equal(t, []string{"'./x.json'", "attr type", "'json'"}, kinds)
	require.Contains(t, Dump(decl), "ImportAttribute")
}
