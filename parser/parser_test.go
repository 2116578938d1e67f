package parser_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	. "github.com/gad-lang/esparse/parser"
	"github.com/gad-lang/esparse/parser/ast"
	"github.com/gad-lang/esparse/parser/node"
	"github.com/gad-lang/esparse/parser/scope"
	"github.com/gad-lang/esparse/parser/source"
	testhelper "github.com/gad-lang/esparse/parser/test_helper"
	"github.com/gad-lang/esparse/token"
)

func TestParserTrace(t *testing.T) {
	out := testhelper.ParseTrace(t, nil, "let a = b => b * 2\nif (a) { f(a) }")
	require.Contains(t, out, "StatementListItem")
	require.Contains(t, out, "AssignExpr")
	require.Equal(t, out, testhelper.ParseTrace(t, nil, "let a = b => b * 2\nif (a) { f(a) }"))
}

func TestPrecedence(t *testing.T) {
	expectParseString(t, "a + b * c", "(a + (b * c))")
	expectParseString(t, "a * b + c", "((a * b) + c)")
	expectParseString(t, "a - b - c", "((a - b) - c)")
	expectParseString(t, "a ** b ** c", "(a ** (b ** c))")
	expectParseString(t, "(-a) ** b", "((-a) ** b)")
	expectParseString(t, "a || b && c", "(a || (b && c))")
	expectParseString(t, "a ?? b ?? c", "((a ?? b) ?? c)")
	expectParseString(t, "(a || b) ?? c", "((a || b) ?? c)")
	expectParseString(t, "a = b = c", "(a = (b = c))")
	expectParseString(t, "a += b || c", "(a += (b || c))")
	expectParseString(t, "a ? b : c ? d : e", "(a ? b : (c ? d : e))")
	expectParseString(t, "a, b, c", "(a, b, c)")
	expectParseString(t, "typeof a === 'x'", "((typeof a) === 'x')")
	expectParseString(t, "!a instanceof B", "((!a) instanceof B)")
	expectParseString(t, "a in b < c", "((a in b) < c)")
	expectParseString(t, "x = a++ + ++b", "(x = ((a++) + (++b)))")
	expectParseString(t, "a?.b.c", "a?.b.c")
	expectParseString(t, "a?.[0]?.(1)", "a?.[0]?.(1)")
	expectParseString(t, "new A.B(1).c", "new A.B(1).c")
	expectParseString(t, "new new A()()", "new new A()()")
	expectParseString(t, "f(...a, b)", "f(...a, b)")

	expectParseError(t, "-a ** b")
	expectParseError(t, "a ?? b || c")
	expectParseError(t, "a || b ?? c")
	expectParseError(t, "a?.b`t`")
	expectParseError(t, "new a?.b()")
}

func TestLiterals(t *testing.T) {
	expectParseString(t, "[1, , 2]", "[1, , 2]")
	expectParseString(t, "({a: 1, b, [c]: 2, ...d})", "({a: 1, b, [c]: 2, ...d})")
	expectParseString(t, "({m() { return 1 }, get x() { return 2 }})",
		"({m() {return 1}, get x() {return 2}})")
	expectParseString(t, "`a${b}c`", "`a${b}c`")
	expectParseString(t, "tag`x${y}`", "tag`x${y}`")
	expectParseString(t, "x = /ab+c/gi", "(x = /ab+c/gi)")
	expectParseString(t, "a / b / c", "((a / b) / c)")
	expectParseString(t, "0x10n + 1n", "(0x10n + 1n)")
	expectParseString(t, "'use strict'", "'use strict'")

	expectParseError(t, "`\\u{`")
	expectParseError(t, "({a = 1})")
	expectParseError(t, "({__proto__: 1, __proto__: 2})")
	expectParseError(t, "/a/gg")
}

func TestNumberLiteralValues(t *testing.T) {
	prog, diags := parseSource("1; 2147483648; 1.5; 1e3; 0b101; 017", NewConfig())
	require.Empty(t, diags)
	var values []any
	for _, s := range prog.Body {
		values = append(values, s.(*node.ExprStmt).X.(*node.NumberLit).Value)
	}
	require.Equal(t, []any{int32(1), int64(2147483648), 1.5, int32(1000), int32(5), int32(15)}, values)
}

func TestArrowFunctions(t *testing.T) {
	expectParseString(t, "(a, b) => a + b", "(a, b) => (a + b)")
	expectParseString(t, "a => a", "(a) => a")
	expectParseString(t, "() => {}", "() => {}")
	expectParseString(t, "(a = 1, {b}, ...c) => b", "(a = 1, {b}, ...c) => b")
	expectParseString(t, "([a, b]) => { return a }", "([a, b]) => {return a}")
	expectParseString(t, "async (x) => await x", "async (x) => (await x)")
	expectParseString(t, "async x => x", "async (x) => x")
	expectParseString(t, "async(x)", "async(x)")
	expectParseString(t, "(1 + 2)", "(1 + 2)")
	expectParseString(t, "(a, b)", "(a, b)")
	expectParseString(t, "f((a) => a)", "f((a) => a)")

	expectParseError(t, "()")
	expectParseError(t, "(a, b,)")
	expectParseError(t, "(...a)")
	expectParseError(t, "(a, b)\n=> 1")
	expectParseError(t, "(...a, b) => 1")
	expectParseError(t, "((a)) => 1")
	expectParseError(t, "(a + b) => 1")
	expectParseError(t, "(a, a) => 1")
	expectParseError(t, "async (await) => 1")
	expectParseError(t, "async function f() { (a = await b) => 1 }")
}

func TestDestructuring(t *testing.T) {
	expectParseString(t, "[a, b] = c", "([a, b] = c)")
	expectParseString(t, "({a, b: [c]} = d)", "({a, b: [c]} = d)")
	expectParseString(t, "[a.b, c[0]] = d", "([a.b, c[0]] = d)")
	expectParseString(t, "let {a = 1, ...r} = o", "let {a = 1, ...r} = o")
	expectParseString(t, "var [x, , y] = z", "var [x, , y] = z")
	expectParseString(t, "const {a: {b}} = c", "const {a: {b}} = c")
	expectParseString(t, "[{b = 1}] = c", "([{b = 1}] = c)")

	expectParseError(t, "[a + 1] = b")
	expectParseError(t, "({a: 1} = b)")
	expectParseError(t, "([a]) = b")
	expectParseError(t, "[...a, b] = c")
	expectParseError(t, "let [...a = 1] = b")
	expectParseError(t, "let {...{a}} = b")
	expectParseError(t, "({b = 1})")
	expectParseError(t, "[{b = 1}.x] = c")
	expectParseError(t, "1 = 2")
	expectParseError(t, "a + 1 = 2")
	expectParseError(t, "++a.b()")
}

func TestStatements(t *testing.T) {
	expectParseString(t, "if (a) b; else c", "if (a) b else c")
	expectParseString(t, "for (let i = 0; i < n; i++) f(i)", "for (let i = 0; (i < n); (i++)) f(i)")
	expectParseString(t, "for (;;) {}", "for (; ; ) {}")
	expectParseString(t, "for (const x of y) f(x)", "for (const x of y) f(x)")
	expectParseString(t, "for (x in y) ;", "for (x in y) ;")
	expectParseString(t, "for ((a in b);;) break", "for ((a in b); ; ) break")
	expectParseString(t, "while (a) a--", "while (a) (a--)")
	expectParseString(t, "do a(); while (b)", "do a() while (b)")
	expectParseString(t, "l: for (;;) continue l", "l: for (; ; ) continue l")
	expectParseString(t, "switch (a) { case 1: b; default: c }", "switch (a) {case 1: b default: c}")
	expectParseString(t, "try { a } catch (e) { b } finally { c }", "try {a} catch (e) {b} finally {c}")
	expectParseString(t, "try {} catch {}", "try {} catch {}")
	expectParseString(t, "throw new Error()", "throw new Error()")
	expectParseString(t, "function f(a) { return a }", "function f(a) {return a}")
	expectParseString(t, "function* g() { yield* h() }", "function* g() {(yield* h())}")
	expectParseString(t, "async function f() { await g() }", "async function f() {(await g())}")
	expectParseString(t, "let\nx = 1", "let x = 1")
	expectParseString(t, "debugger;", "debugger")

	expectParseError(t, "break")
	expectParseError(t, "continue")
	expectParseError(t, "l: { continue l }")
	expectParseError(t, "for (;;) { break m }")
	expectParseError(t, "return 1")
	expectParseError(t, "l: l: a")
	expectParseError(t, "switch (a) { default: default: }")
	expectParseError(t, "try {}")
	expectParseError(t, "const a")
	expectParseError(t, "let [a]")
	expectParseError(t, "for (let a = 1 of b) {}")
	expectParseError(t, "for (let a, b of c) {}")
	expectParseError(t, "if (a) let b = 1")
	expectParseError(t, "while (a) function f() {}")
	expectParseError(t, "throw\na")
	expectParseError(t, "for await (x of y) {}")
}

func TestAutomaticSemicolons(t *testing.T) {
	expectParseString(t, "a\nb", "a; b")
	expectParseString(t, "a = 1\n++b", "(a = 1); (++b)")
	expectParseString(t, "x\n++\ny", "x; (++y)")
	expectParseString(t, "{ a } b", "{a}; b")
	expectParseString(t, "a\n(b)", "a(b)")
	expectParseString(t, "a\n(b + c)", "a((b + c))")
	expectParseString(t, "a\n[b]", "a[b]")
	expectParseString(t, "do {} while (a) b", "do {} while (a); b")
	expectParseString(t, "function f() { return\na }", "function f() {return; a}")
	expectParseString(t, "l: while (1) { break\nl }", "l: while (1) {break; l}")

	expectParseError(t, "a b")
	expectParseError(t, "if (a) b c")
	expectParseError(t, "for (a\nb) {}")
}

func TestClasses(t *testing.T) {
	expectParseString(t,
		"class A extends B { constructor() { super() } get x() { return 1 } static y = 2 }",
		"class A extends B {constructor() {super()}; get x() {return 1}; static y = 2}")
	expectParseString(t, "class A { #x = 1; m() { return this.#x } }", "class A {#x = 1; m() {return this.#x}}")
	expectParseString(t, "class A { static { this.x = 1 } }", "class A {static {(this.x = 1)}}")
	expectParseString(t, "x = class {}", "(x = class {})")
	expectParseString(t, "class A { async *m() {} }", "class A {async *m() {}}")
	expectParseString(t, "class A { #m() {} has(o) { return #m in o } }", "class A {#m() {}; has(o) {return (#m in o)}}")

	expectParseError(t, "class A { constructor() {} constructor() {} }")
	expectParseError(t, "class A { get constructor() {} }")
	expectParseError(t, "class A { *constructor() {} }")
	expectParseError(t, "class A { constructor = 1 }")
	expectParseError(t, "class A { static prototype() {} }")
	expectParseError(t, "class A { #constructor() {} }")
	expectParseError(t, "class A { #x; #x }")
	expectParseError(t, "class A { m() { return this.#y } }")
	expectParseError(t, "class A { m() { delete this.#x } #x }")
	expectParseError(t, "class A { constructor() { super() } }")
	expectParseError(t, "class A { x = arguments }")
	expectParseError(t, "class A { static { await } }")
	expectParseError(t, "class let {}")
	expectParseError(t, "class A { m() { with (a) {} } }")
	expectParseError(t, "class {}")
}

func TestSuperAndMeta(t *testing.T) {
	expectParseString(t, "function f() { new.target }", "function f() {new.target}")
	expectParseString(t, "({m() { super.m() }})", "({m() {super.m()}})")

	expectParseError(t, "new.target")
	expectParseError(t, "super.x")
	expectParseError(t, "function f() { super() }")
	expectParseError(t, "import.meta")
	expectParseError(t, "() => new.target")
}

func TestStrictMode(t *testing.T) {
	expectParseString(t, "function f(a, a) {}", "function f(a, a) {}")
	expectParseString(t, "var eval = 1", "var eval = 1")
	expectParseString(t, "with (a) b", "with (a) b")
	expectParseString(t, "017", "017")
	expectParseString(t, "'\\07'", "'\\07'")

	expectParseError(t, "'use strict'; function f(a, a) {}")
	expectParseError(t, "function f(a, a) { 'use strict' }")
	expectParseError(t, "function f(a = 1) { 'use strict' }")
	expectParseError(t, "function eval() { 'use strict' }")
	expectParseError(t, "'use strict'; var eval = 1")
	expectParseError(t, "'use strict'; arguments = 1")
	expectParseError(t, "'use strict'; with (a) b")
	expectParseError(t, "'use strict'; delete a")
	expectParseError(t, "'use strict'; 017")
	expectParseError(t, "'use strict'; '\\07'")
	expectParseError(t, "'\\07'; 'use strict'")
	expectParseError(t, "'use strict'; var let = 1")
	expectParseError(t, "'use strict'; var yield")
	expectParseError(t, "'use strict'; if (a) function f() {}")
	expectParseError(t, "(a, a) => 1")

	cfg := NewConfig()
	cfg.Strict = true
	prog, diags := parseSource("a", cfg)
	require.Empty(t, diags)
	require.True(t, prog.IsStrict())
	expectParseErrorConfig(t, cfg, "with (a) b")
}

func TestRedeclaration(t *testing.T) {
	expectParseString(t, "var a; var a", "var a; var a")
	expectParseString(t, "function f() {} function f() {}", "function f() {}; function f() {}")
	expectParseString(t, "let a; { let a }", "let a; {let a}")
	expectParseString(t, "try {} catch (e) { var e }", "try {} catch (e) {var e}")
	expectParseString(t, "{ function f() {} function f() {} }", "{function f() {}; function f() {}}")

	expectParseError(t, "let a; let a")
	expectParseError(t, "let a; var a")
	expectParseError(t, "var a; let a")
	expectParseError(t, "const a = 1; function a() {}")
	expectParseError(t, "{ var a; let a }")
	expectParseError(t, "{ let a; { var a } }")
	expectParseError(t, "function f(a) { let a }")
	expectParseError(t, "try {} catch (e) { let e }")
	expectParseError(t, "try {} catch ([e]) { var e }")
	expectParseError(t, "switch (a) { case 1: let b; case 2: let b }")
	expectParseError(t, "let let = 1")
	expectParseError(t, "'use strict'; { function f() {} function f() {} }")

	_, diags := parseSource("let a = 1;\nlet a = 2;", NewConfig())
	require.Len(t, diags, 1)
	require.Equal(t, MsgRedeclaration, diags[0].ID)
	require.Equal(t, 2, diags[0].Line)
	require.Equal(t, "identifier a has already been declared", diags[0].Message())
}

func TestScopes(t *testing.T) {
	prog, diags := parseSource("var a; { let b; function c() { return a + d } } a; e", NewConfig())
	require.Empty(t, diags)
	tree := prog.Scopes
	root := tree.At(prog.Scope)
	require.Equal(t, scope.Global, root.Kind)

	a := root.Lookup("a")
	require.NotNil(t, a)
	require.True(t, a.Flags.Has(scope.Var))
	require.Equal(t, 2, a.Uses)
	require.Nil(t, root.Lookup("b"))

	var free []string
	for _, r := range root.Unresolved() {
		require.True(t, r.IsFree())
		free = append(free, r.Name)
	}
	require.ElementsMatch(t, []string{"d", "e"}, free)

	require.Equal(t, 1, tree.Count(scope.Block))
	require.Equal(t, 1, tree.Count(scope.FunctionBody))
	tree.Walk(func(id scope.ID, s *scope.Scope, depth int) {
		require.True(t, s.IsClosed(), "scope %d (%s) is open", id, s.Kind)
	})
}

func TestArrowScopeFlattening(t *testing.T) {
	// a parenthesized expression leaves no parameter scope behind
	prog, diags := parseSource("(a, b); (c) => c", NewConfig())
	require.Empty(t, diags)
	require.Equal(t, 1, prog.Scopes.Count(scope.FunctionParams))
	root := prog.Scopes.At(prog.Scope)
	var free []string
	for _, r := range root.Unresolved() {
		free = append(free, r.Name)
	}
	require.ElementsMatch(t, []string{"a", "b"}, free)
}

func TestRecovery(t *testing.T) {
	prog, diags := parseSource("let a = ;\nb = 1\nc()", NewConfig())
	require.NotNil(t, prog)
	require.Len(t, diags, 1)
	require.Equal(t, "<bad statement>; (b = 1); c()", prog.String())
	bad, ok := prog.Body[0].(*node.BadStmt)
	require.True(t, ok)
	require.Equal(t, ast.Pos(0), bad.Pos())

	prog, diags = parseSource("f(;\nfunction g() { x = }\nh()", NewConfig())
	require.NotNil(t, prog)
	require.Len(t, diags, 2)
	require.Equal(t, 1, diags[0].Line)
	require.Equal(t, 2, diags[1].Line)
	require.Equal(t, "h()", prog.Body[len(prog.Body)-1].String())
	prog.Scopes.Walk(func(id scope.ID, s *scope.Scope, depth int) {
		require.True(t, s.IsClosed())
	})

	// one error per line
	prog, diags = parseSource("let x; let x; let y; let y;", NewConfig())
	require.NotNil(t, prog)
	require.Len(t, diags, 1)
	require.Contains(t, diags[0].Error(), "identifier x has already been declared")
	_, diags = parseSource("let x; let x;\nlet y; let y;", NewConfig())
	require.Len(t, diags, 2)

	var lines []string
	for i := 0; i < 30; i++ {
		lines = append(lines, "a = ;")
	}
	prog, diags = parseSource(strings.Join(lines, "\n"), NewConfig())
	require.Nil(t, prog)
	require.Greater(t, len(diags), 10)
}

func TestDiagnosticSink(t *testing.T) {
	var got []*Diagnostic
	sink := SinkFunc(func(d *Diagnostic) { got = append(got, d) })
	prog := ParseProgram(source.NewFileString("test", "a b"), nil, sink)
	require.NotNil(t, prog)
	require.Len(t, got, 1)
	require.Equal(t, SyntaxError, got[0].Kind)
	require.Equal(t, "test", got[0].Position().FileName())
	require.Contains(t, got[0].Error(), "SyntaxError: expected ';'")
	require.Equal(t, 1, got[0].Line)
	require.Equal(t, 3, got[0].Column)
}

func TestLanguageVersions(t *testing.T) {
	es5 := NewConfig()
	es5.Version = token.ES5
	expectParseStringConfig(t, es5, "var a = function () { return 1 }", "var a = function() {return 1}")
	expectParseErrorConfig(t, es5, "let a = 1")
	expectParseErrorConfig(t, es5, "a => a")
	expectParseErrorConfig(t, es5, "class A {}")
	expectParseErrorConfig(t, es5, "`x`")
	expectParseErrorConfig(t, es5, "[a] = b")

	_, diags := parseSource("1 = 2", es5)
	require.Len(t, diags, 1)
	require.Equal(t, ReferenceError, diags[0].Kind)

	es2019 := NewConfig()
	es2019.Version = token.ES2019
	expectParseStringConfig(t, es2019, "async function f() { for await (x of y) {} }",
		"async function f() {for await (x of y) {}}")
	expectParseErrorConfig(t, es2019, "a ?? b")
	expectParseErrorConfig(t, es2019, "a?.b")
	expectParseErrorConfig(t, es2019, "class A { #x }")

	noBigInt := NewConfig()
	noBigInt.BigInt = false
	expectParseErrorConfig(t, noBigInt, "1n")
}

func TestModules(t *testing.T) {
	cfg := NewConfig()
	cfg.Module = true
	expectParseStringConfig(t, cfg,
		"import a, {b as c} from 'm'; export default a + c; export {b as d} from 'n'",
		"import a, {b as c} from 'm'; export default (a + c); export {b as d} from 'n'")
	expectParseStringConfig(t, cfg, "import * as ns from 'm'; export * as x from 'n'",
		"import * as ns from 'm'; export * as x from 'n'")
	expectParseStringConfig(t, cfg, "import 'm'", "import 'm'")
	expectParseStringConfig(t, cfg, "export let a = 1, b; export {a as c}", "export let a = 1, b; export {a as c}")
	expectParseStringConfig(t, cfg, "export default function () {}", "export default function() {}")
	expectParseStringConfig(t, cfg, "export class A {}", "export class A {}")
	expectParseStringConfig(t, cfg, "await x", "(await x)")
	expectParseStringConfig(t, cfg, "x = import.meta", "(x = import.meta)")

	expectParseErrorConfig(t, cfg, "export {a}")
	expectParseErrorConfig(t, cfg, "export let a; export {a}")
	expectParseErrorConfig(t, cfg, "export default 1; export default 2")
	expectParseErrorConfig(t, cfg, "import {a} from 'm'; let a")
	expectParseErrorConfig(t, cfg, "{ import a from 'm' }")
	expectParseErrorConfig(t, cfg, "function f() { export let a }")
	expectParseErrorConfig(t, cfg, "with (a) {}")
	expectParseErrorConfig(t, cfg, "import {'s'} from 'm'")
	expectParseErrorConfig(t, cfg, "export {'s'}")
	expectParseErrorConfig(t, cfg, "import a from 'm' with {type: 'json', type: 'json'}")
	expectParseErrorConfig(t, cfg, "<!-- comment")

	prog, diags := parseSource("export {a}; var a", cfg)
	require.Empty(t, diags)
	require.True(t, prog.Flags.Has(ast.Module))
	require.True(t, prog.IsStrict())

	expectParseError(t, "import a from 'm'")
	expectParseError(t, "export let a")
	expectParseString(t, "import('m')", "import('m')")
}

func TestScripting(t *testing.T) {
	cfg := NewConfig()
	cfg.Scripting = true
	expectParseStringConfig(t, cfg, "x = <<EOF\nhello ${name}\nEOF\n", "(x = `hello ${name}`)")
	expectParseStringConfig(t, cfg, "x = <<'EOF'\nhello ${name}\nEOF\n", "(x = `hello \\${name}`)")
	expectParseStringConfig(t, cfg, "x = <<'EOF'\na\\b `c` $d\nEOF\n", "(x = `a\\\\b \\`c\\` $d`)")
	expectParseStringConfig(t, cfg, `"\${a} ${b}"`, "`\\${a} ${b}`")
	expectParseStringConfig(t, cfg, `"a${b + 1}c"`, "`a${(b + 1)}c`")
	expectParseStringConfig(t, cfg, "for each (x in o) f(x)", "for each (x in o) f(x)")
	expectParseStringConfig(t, cfg, "#!/usr/bin/env node\na", "a")
	expectParseStringConfig(t, cfg, "a << b", "(a << b)")

	expectParseString(t, `"a${b}c"`, `"a${b}c"`)
	expectParseError(t, "for each (x in o) f(x)")
}

func TestEntryPoints(t *testing.T) {
	cfg := NewConfig()

	var diags ErrorList
	body := ParseFunctionBody(source.NewFileString("body", "return a + 1"), cfg, &diags, false, false)
	require.Empty(t, diags)
	require.Equal(t, "return (a + 1)", body.String())
	require.Equal(t, node.FunctionBodyUnit, body.Kind)

	diags = nil
	gen := ParseFunctionBody(source.NewFileString("body", "yield 1"), cfg, &diags, true, false)
	require.Empty(t, diags)
	require.Equal(t, "(yield 1)", gen.String())

	diags = nil
	body = ParseFunctionBody(source.NewFileString("body", "return a +"), cfg, &diags, false, false)
	require.Nil(t, body)
	require.Len(t, diags, 1)

	diags = nil
	assumed := ParseWithAssumedArguments(source.NewFileString("body", "return x + y"), cfg, &diags, []string{"x", "y"})
	require.Empty(t, diags)
	require.Equal(t, "(x, y)", assumed.Params.String())
	require.Empty(t, assumed.Scopes.At(assumed.Scope).Unresolved())

	diags = nil
	params := ParseFormalParameterList(source.NewFileString("params", "a, b = 1, ...c"), cfg, &diags)
	require.Empty(t, diags)
	require.Equal(t, "(a, b = 1, ...c)", params.String())

	diags = nil
	params = ParseFormalParameterList(source.NewFileString("params", "a, [a]"), cfg, &diags)
	require.Nil(t, params)
	require.Len(t, diags, 1)

	diags = nil
	x := ParseStandaloneExpression(source.NewFileString("expr", "a, b"), cfg, &diags)
	require.Empty(t, diags)
	require.Equal(t, "(a, b)", x.String())

	diags = nil
	x = ParseStandaloneExpression(source.NewFileString("expr", "a; b"), cfg, &diags)
	require.Nil(t, x)
	require.Len(t, diags, 1)
}

func TestParseEval(t *testing.T) {
	cfg := NewConfig()
	outer, diags := parseSource("function f() { var x; class A extends B { constructor() { super() } } }", cfg)
	require.Empty(t, diags)

	var fnBody scope.ID = scope.NoScope
	outer.Scopes.Walk(func(id scope.ID, s *scope.Scope, depth int) {
		if s.Kind == scope.FunctionBody && fnBody == scope.NoScope {
			fnBody = id
		}
	})
	require.NotEqual(t, scope.NoScope, fnBody)
	caller := &scope.Handle{Tree: outer.Scopes, Scope: fnBody}

	var ed ErrorList
	prog := ParseEval(source.NewFileString("eval", "x + y"), cfg, &ed, caller, true)
	require.Empty(t, ed)
	require.Equal(t, "(x + y)", prog.String())
	root := prog.Scopes.At(prog.Scope)
	require.Equal(t, scope.Eval, root.Kind)
	require.Len(t, root.Unresolved(), 1)
	require.Equal(t, "y", root.Unresolved()[0].Name)

	ed = nil
	prog = ParseEval(source.NewFileString("eval", "new.target"), cfg, &ed, caller, true)
	require.Empty(t, ed)
	require.NotNil(t, prog)

	ed = nil
	prog = ParseEval(source.NewFileString("eval", "super()"), cfg, &ed, caller, true)
	require.Nil(t, prog)
	require.Len(t, ed, 1)

	ed = nil
	prog = ParseEval(source.NewFileString("eval", "new.target"), cfg, &ed, nil, false)
	require.Nil(t, prog)
	require.Len(t, ed, 1)
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "a.js")
	require.NoError(t, os.WriteFile(name, []byte("let a = 1\nexport {a}"), 0o644))

	cfg := NewConfig()
	cfg.Module = true
	prog, err := ParseFile(name, cfg)
	require.NoError(t, err)
	require.Equal(t, name, prog.Name)
	require.Equal(t, "let a = 1; export {a}", prog.String())

	prog, err = ParseFile(name, NewConfig())
	require.Error(t, err)
	require.NotNil(t, prog)

	_, err = ParseFile(filepath.Join(dir, "missing.js"), cfg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "read ")

	prog, err = ParseString("a\n//# sourceURL=b.js\n", "", nil)
	require.NoError(t, err)
	require.Equal(t, "b.js", prog.Name)

	_, err = ParseString("a b", "", nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), MainName)
}

func TestSkipCache(t *testing.T) {
	sc, err := NewSkipCache(0)
	require.NoError(t, err)
	cfg := NewConfig()
	cfg.SkipCache = sc
	input := "function f() { return this.x }\nf()"

	first, diags := parseSource(input, cfg)
	require.Empty(t, diags)
	require.Equal(t, "function f() {return this.x}; f()", first.String())
	require.Equal(t, 1, sc.Len())

	second, diags := parseSource(input, cfg)
	require.Empty(t, diags)
	require.Equal(t, "function f() {…}; f()", second.String())
	fn := second.Body[0].(*node.FuncDecl).Func
	require.True(t, fn.Flags.Has(ast.Lazy))
	require.True(t, second.Scopes.At(fn.BodyScope).Flags.Has(scope.UsesThis))

	// another text hashes differently
	third, diags := parseSource(input+"\n", cfg)
	require.Empty(t, diags)
	require.Equal(t, first.String(), third.String())

	sc.Purge()
	require.Equal(t, 0, sc.Len())
}

func TestDeterminism(t *testing.T) {
	input := `
var a = 1;
class A extends B { #x; static m() { return this } }
function f(p, {q = 2}, ...r) {
	for (let i of r) { if (i) continue; else break }
	return async () => await p + q;
}
label: { let b = [a, ...r]; }
`
	first, diags := parseSource(input, NewConfig())
	require.Empty(t, diags)
	for i := 0; i < 3; i++ {
		again, diags := parseSource(input, NewConfig())
		require.Empty(t, diags)
		testhelper.EqualText(t, first.String(), again.String())
		testhelper.EqualText(t, first.Scopes.Dump(), again.Scopes.Dump())
	}
}

func parseSource(input string, cfg *Config) (*node.Program, ErrorList) {
	return testhelper.Parse(input, cfg)
}

func expectParseString(t *testing.T, input, expected string) {
	expectParseStringConfig(t, NewConfig(), input, expected)
}

func expectParseStringConfig(t *testing.T, cfg *Config, input, expected string) {
	var ok bool
	defer func() {
		if !ok {
			// print Trace
			testhelper.LogTrace(t, cfg, input)
		}
	}()

	actual, diags := parseSource(input, cfg)
	require.Empty(t, diags, "%s", diags)
	require.NotNil(t, actual)
	require.Equal(t, expected, actual.String())
	ok = true
}

func expectParseError(t *testing.T, input string) {
	expectParseErrorConfig(t, NewConfig(), input)
}

func expectParseErrorConfig(t *testing.T, cfg *Config, input string) {
	var ok bool
	defer func() {
		if !ok {
			// print Trace
			testhelper.LogTrace(t, cfg, input)
		}
	}()

	_, diags := parseSource(input, cfg)
	require.NotEmpty(t, diags.Errors(), "no error for %q", input)
	ok = true
}
