package parser_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	. "github.com/gad-lang/esparse/parser"
	"github.com/gad-lang/esparse/parser/ast"
	"github.com/gad-lang/esparse/parser/node"
	"github.com/gad-lang/esparse/token"
)

func TestSkipCache_Hash(t *testing.T) {
	c, err := NewSkipCache(0)
	require.NoError(t, err)
	require.Equal(t, c.Hash([]byte("function f() {}")), c.Hash([]byte("function f() {}")))
	require.NotEqual(t, c.Hash([]byte("function f() {}")), c.Hash([]byte("function g() {}")))
	require.Zero(t, c.Len())
}

func TestSkipCache_Evict(t *testing.T) {
	const src = "function a() {}\nfunction b() {}\nfunction c() {}"

	c, err := NewSkipCache(2)
	require.NoError(t, err)
	cfg := NewConfig()
	cfg.SkipCache = c
	_, err = ParseString(src, "", cfg)
	require.NoError(t, err)
	require.Equal(t, 2, c.Len())

	c, err = NewSkipCache(8)
	require.NoError(t, err)
	cfg.SkipCache = c
	_, err = ParseString(src, "", cfg)
	require.NoError(t, err)
	require.Equal(t, 3, c.Len())

	prog, err := ParseString(src, "", cfg)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "c"}, lazyFuncs(prog))
	require.Equal(t, "function a() {…}; function b() {…}; function c() {…}", prog.String())

	c.Purge()
	require.Zero(t, c.Len())
	prog, err = ParseString(src, "", cfg)
	require.NoError(t, err)
	require.Empty(t, lazyFuncs(prog))
	require.Equal(t, "function a() {}; function b() {}; function c() {}", prog.String())
}

func lazyFuncs(prog *node.Program) (names []string) {
	for _, s := range prog.Body {
		if f := s.(*node.FuncDecl).Func; f.Flags.Has(ast.Lazy) {
			names = append(names, f.Name.Name)
		}
	}
	return
}

func TestSkipCache_OtherText(t *testing.T) {
	c, err := NewSkipCache(16)
	require.NoError(t, err)
	cfg := NewConfig()
	cfg.SkipCache = c

	_, err = ParseString("function a() { return 1 }", "", cfg)
	require.NoError(t, err)
	// same offsets, different text: nothing is skipped
	prog, err := ParseString("function a() { return 2 }", "", cfg)
	require.NoError(t, err)
	require.Equal(t, "function a() {return 2}", prog.String())
	require.Equal(t, 2, c.Len())
}

func TestSkipCache_Environment(t *testing.T) {
	const src = "function f() { with (a) b; var x = 010 }"

	c, err := NewSkipCache(16)
	require.NoError(t, err)
	sloppy := NewConfig()
	sloppy.SkipCache = c
	_, err = ParseString(src, "", sloppy)
	require.NoError(t, err)
	prog, err := ParseString(src, "", sloppy)
	require.NoError(t, err)
	require.Equal(t, []string{"f"}, lazyFuncs(prog))

	strict := *sloppy
	strict.Strict = true
	prog, err = ParseString(src, "", &strict)
	require.Error(t, err)
	require.Contains(t, err.Error(), "with statement")
	if prog != nil {
		require.Empty(t, lazyFuncs(prog))
	}

	module := *sloppy
	module.Module = true
	_, err = ParseString(src, "", &module)
	require.Error(t, err)

	const arrow = "function g() { return () => 1 }"
	_, err = ParseString(arrow, "", sloppy)
	require.NoError(t, err)
	es5 := *sloppy
	es5.Version = token.ES5
	_, err = ParseString(arrow, "", &es5)
	require.Error(t, err)
}
