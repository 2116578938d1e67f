package scope_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	. "github.com/gad-lang/esparse/parser/scope"
)

func declare(t *testing.T, tree *Tree, name string, flags SymbolFlags, pos int) *Symbol {
	t.Helper()
	sym, c := tree.Declare(name, flags, pos)
	require.Nil(t, c, "declare %s", name)
	return sym
}

func TestVarHoisting(t *testing.T) {
	// { var x; } let x;
	tree := NewTree(Rules{})
	tree.Open(Global, 0, 0)
	tree.Open(Block, 0, 0)
	x := declare(t, tree, "x", Var, 6)
	require.Empty(t, tree.Close(10))
	declare(t, tree, "x", Let, 16)
	require.Empty(t, tree.Close(20))
	require.True(t, x.Flags.Has(Hoisted))
	require.Equal(t, ID(0), x.Scope)

	// { var x; let x; }
	tree = NewTree(Rules{})
	tree.Open(Global, 0, 0)
	tree.Open(Block, 0, 0)
	declare(t, tree, "x", Var, 6)
	declare(t, tree, "x", Let, 13)
	require.Empty(t, tree.Close(17))
	conflicts := tree.Close(17)
	require.Len(t, conflicts, 1)
	require.Equal(t, VarLexical, conflicts[0].Kind)
	require.Equal(t, 13, conflicts[0].Pos)
	require.Equal(t, 6, conflicts[0].PrevPos)
}

func TestRedeclaration(t *testing.T) {
	tree := NewTree(Rules{})
	tree.Open(Global, 0, 0)
	declare(t, tree, "a", Let, 0)
	_, c := tree.Declare("a", Var, 10)
	require.NotNil(t, c)
	require.Equal(t, VarLexical, c.Kind)
	require.Equal(t, 0, c.PrevPos)

	declare(t, tree, "b", Var, 20)
	_, c = tree.Declare("b", Const, 30)
	require.NotNil(t, c)
	require.Equal(t, Redeclaration, c.Kind)

	_, c = tree.Declare("a", Class, 40)
	require.NotNil(t, c)
	require.Equal(t, Redeclaration, c.Kind)

	declare(t, tree, "v", Var, 50)
	v := declare(t, tree, "v", Var|Function, 60)
	require.True(t, v.Flags.Has(Function))
	require.Empty(t, tree.Close(70))
}

func TestParamLexical(t *testing.T) {
	tree := NewTree(Rules{})
	tree.Open(Global, 0, 0)
	tree.Open(FunctionParams, 0, 10)
	declare(t, tree, "a", Param, 11)
	_, c := tree.Declare("a", Param, 14)
	require.NotNil(t, c)
	require.Equal(t, DuplicateParam, c.Kind)

	tree.Open(FunctionBody, 0, 16)
	_, c = tree.Declare("a", Let, 22)
	require.NotNil(t, c)
	require.Equal(t, ParamLexical, c.Kind)
	declare(t, tree, "a", Var, 30)
}

func TestCatchParam(t *testing.T) {
	open := func(rules Rules) *Tree {
		tree := NewTree(rules)
		tree.Open(Global, 0, 0)
		tree.Open(Catch, SimpleCatchParam, 10)
		declare(t, tree, "e", CatchParam, 17)
		tree.Open(Block, CatchBody, 20)
		return tree
	}

	tree := open(Rules{})
	_, c := tree.Declare("e", Let, 26)
	require.NotNil(t, c)
	require.Equal(t, CatchParamLexical, c.Kind)

	tree = open(Rules{AnnexB: true})
	declare(t, tree, "e", Var, 26)
	require.Empty(t, tree.Close(30))
	require.Empty(t, tree.Close(30))
	require.Empty(t, tree.Close(30))

	tree = open(Rules{AnnexB: true})
	declare(t, tree, "e", Var|ForOf, 26)
	tree.Close(30)
	tree.Close(30)
	conflicts := tree.Close(30)
	require.Len(t, conflicts, 1)
	require.Equal(t, VarLexical, conflicts[0].Kind)

	tree = open(Rules{})
	declare(t, tree, "e", Var, 26)
	tree.Close(30)
	tree.Close(30)
	require.Len(t, tree.Close(30), 1)
}

func TestAnnexBFunctions(t *testing.T) {
	tree := NewTree(Rules{AnnexB: true})
	tree.Open(Global, 0, 0)
	tree.Open(Block, 0, 0)
	declare(t, tree, "f", BlockFunction|PlainFunction|Function, 2)
	declare(t, tree, "f", BlockFunction|PlainFunction|Function, 20)
	require.Empty(t, tree.Close(40))
	require.Empty(t, tree.Close(40))

	f := tree.At(0).Lookup("f")
	require.NotNil(t, f)
	require.True(t, f.Flags.Has(AnnexBVar))

	// blocked by an enclosing lexical binding
	tree = NewTree(Rules{AnnexB: true})
	tree.Open(Global, 0, 0)
	declare(t, tree, "g", Let, 0)
	tree.Open(Block, 0, 10)
	declare(t, tree, "g", BlockFunction|PlainFunction|Function, 12)
	tree.Close(30)
	tree.Close(30)
	require.True(t, tree.At(0).Lookup("g").Flags.Has(Let))

	// strict code never merges block functions
	tree = NewTree(Rules{AnnexB: true})
	tree.Open(Global, Strict, 0)
	tree.Open(Block, 0, 0)
	declare(t, tree, "f", BlockFunction|PlainFunction|Function, 2)
	_, c := tree.Declare("f", BlockFunction|PlainFunction|Function, 20)
	require.NotNil(t, c)
	require.Equal(t, Redeclaration, c.Kind)
	tree.Close(40)
	tree.Close(40)
	require.Nil(t, tree.At(0).Lookup("f"))
}

func TestImplicitBindings(t *testing.T) {
	tree := NewTree(Rules{})
	tree.Open(Global, 0, 0)
	tree.Open(FunctionParams, 0, 10)
	tree.SetSelfName("fact")
	tree.Open(FunctionBody, 0, 20)
	tree.UseThis()
	args := &Reference{Name: "arguments", Pos: 25}
	tree.Reference(args)
	self := &Reference{Name: "fact", Pos: 30}
	tree.Reference(self)

	arrowParams := tree.Open(FunctionParams, Arrow, 40)
	tree.Open(FunctionBody, Arrow, 45)
	tree.UseNewTarget()
	require.Empty(t, tree.Close(50))
	require.Empty(t, tree.Close(50))
	require.True(t, tree.At(arrowParams).Flags.Has(UsesNewTarget))

	require.Empty(t, tree.Close(60))
	require.Empty(t, tree.Close(60))
	require.Empty(t, tree.Close(60))

	body := tree.At(2)
	require.True(t, body.Lookup("this").IsImplicit())
	require.True(t, body.Lookup("new.target").IsImplicit())
	require.Nil(t, body.Lookup("super"))
	require.NotNil(t, args.Symbol)
	require.True(t, args.Symbol.Flags.Has(ImplicitArguments))
	require.Equal(t, ID(2), args.Symbol.Scope)
	require.NotNil(t, self.Symbol)
	require.True(t, self.Symbol.Flags.Has(ImplicitSelf))
	require.Equal(t, ID(1), self.Symbol.Scope)
	require.Empty(t, tree.At(0).Unresolved())
}

func TestArgumentsShadowedByParam(t *testing.T) {
	tree := NewTree(Rules{})
	tree.Open(Global, 0, 0)
	tree.Open(FunctionParams, 0, 10)
	p := declare(t, tree, "arguments", Param, 11)
	tree.Open(FunctionBody, 0, 20)
	ref := &Reference{Name: "arguments", Pos: 25}
	tree.Reference(ref)
	tree.Close(30)
	tree.Close(30)
	tree.Close(30)
	require.Same(t, p, ref.Symbol)
}

func TestFreeReferences(t *testing.T) {
	tree := NewTree(Rules{})
	tree.Open(Global, 0, 0)
	declare(t, tree, "a", Let, 0)
	tree.Open(Block, 0, 5)
	ra := &Reference{Name: "a", Pos: 7}
	rb := &Reference{Name: "b", Pos: 9}
	tree.Reference(ra)
	tree.Reference(rb)
	tree.Close(10)
	tree.Close(10)

	require.False(t, ra.IsFree())
	require.Equal(t, 1, ra.Symbol.Uses)
	require.True(t, rb.IsFree())
	require.Equal(t, []*Reference{rb}, tree.At(0).Unresolved())
}

func TestEvalCaller(t *testing.T) {
	outer := NewTree(Rules{})
	outer.Open(Global, 0, 0)
	x := declare(t, outer, "x", Var, 0)
	fn := outer.Open(FunctionParams, 0, 5)

	inner := NewTree(Rules{})
	inner.SetCaller(&Handle{Tree: outer, Scope: fn})
	inner.Open(Eval, 0, 0)
	ref := &Reference{Name: "x", Pos: 0}
	inner.Reference(ref)
	inner.Close(1)
	require.Same(t, x, ref.Symbol)
}

func TestPrivateNames(t *testing.T) {
	tree := NewTree(Rules{})
	tree.Open(Global, 0, 0)
	tree.Open(ClassHead, 0, 0)
	tree.Open(ClassBody, 0, 8)
	declare(t, tree, "#a", Private|PrivateGetter, 10)
	a := declare(t, tree, "#a", Private|PrivateSetter, 20)
	require.True(t, a.Flags.Has(PrivateGetter|PrivateSetter))
	_, c := tree.Declare("#a", Private|PrivateGetter, 30)
	require.NotNil(t, c)
	require.Equal(t, DuplicatePrivate, c.Kind)

	used := &Reference{Name: "#b", Pos: 35}
	require.Nil(t, tree.ReferencePrivate(used))

	// inner class forwards to the outer body
	tree.Open(ClassHead, 0, 40)
	tree.Open(ClassBody, 0, 45)
	fwd := &Reference{Name: "#a", Pos: 47}
	require.Nil(t, tree.ReferencePrivate(fwd))
	require.Empty(t, tree.Close(50))
	require.Empty(t, tree.Close(50))
	declare(t, tree, "#b", Private|PrivateMethod, 55)

	missing := &Reference{Name: "#c", Pos: 57}
	require.Nil(t, tree.ReferencePrivate(missing))
	conflicts := tree.Close(60)
	require.Len(t, conflicts, 1)
	require.Equal(t, UndeclaredPrivate, conflicts[0].Kind)
	require.Equal(t, "#c", conflicts[0].Name)
	require.Same(t, a, fwd.Symbol)
	require.NotNil(t, used.Symbol)

	tree.Close(60)
	c = tree.ReferencePrivate(&Reference{Name: "#a", Pos: 70})
	require.NotNil(t, c)
	require.Equal(t, UndeclaredPrivate, c.Kind)
}

func TestFlatten(t *testing.T) {
	tree := NewTree(Rules{})
	tree.Open(Global, 0, 0)
	spec := tree.Open(FunctionParams, Arrow|Speculative, 1)
	inner := tree.Open(FunctionParams, 0, 3)
	tree.Close(8)
	ref := &Reference{Name: "a", Pos: 10}
	tree.Reference(ref)
	tree.Flatten()

	require.Equal(t, ID(0), tree.Current())
	require.True(t, tree.At(spec).Flags.Has(Discarded))
	require.Equal(t, []ID{inner}, tree.At(0).Children)
	require.Equal(t, ID(0), tree.At(inner).Parent)
	require.Equal(t, ID(0), ref.From)
	require.Equal(t, 1, tree.Count(FunctionParams))
	tree.Close(12)
	require.True(t, ref.IsFree())
}

func TestClosedScope(t *testing.T) {
	tree := NewTree(Rules{})
	tree.Open(Global, 0, 0)
	tree.Close(0)
	require.Equal(t, NoScope, tree.Current())
	require.True(t, tree.At(0).IsClosed())
}

func TestDump(t *testing.T) {
	tree := NewTree(Rules{})
	tree.Open(Global, 0, 0)
	declare(t, tree, "a", Let, 4)
	tree.Open(Block, 0, 10)
	declare(t, tree, "b", Const, 12)
	tree.Reference(&Reference{Name: "c", Pos: 14})
	tree.Close(20)
	tree.Close(20)

	require.Equal(t, `scopes
└── global [0,20]
    ├── a (let)
    ├── free c
    └── block [10,20]
        └── b (const)
`, tree.Dump())
}
