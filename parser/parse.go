package parser

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/gad-lang/esparse/parser/ast"
	"github.com/gad-lang/esparse/parser/node"
	"github.com/gad-lang/esparse/parser/scope"
	"github.com/gad-lang/esparse/parser/source"
	"github.com/gad-lang/esparse/token"
)

// MainName is the source name of units parsed from strings without one.
const MainName = "(main)"

// ParseProgram parses a script, or a module if cfg.Module is set. Syntax
// errors are reported to diags and parsing resumes at the next statement;
// the result is nil only if the session gave up.
func ParseProgram(src *source.File, cfg *Config, diags Sink) *node.Program {
	if cfg != nil && cfg.Module {
		return ParseModule(src, cfg, diags)
	}
	p := newParser(src, cfg, diags, Recover)
	flags := scope.Flags(0)
	if p.cfg.Strict {
		flags = scope.Strict
	}
	return p.parseTopLevel("program", node.Script, scope.Global, flags)
}

// ParseModule parses a module. Modules are strict and may use top level
// await when the language version allows it.
func ParseModule(src *source.File, cfg *Config, diags Sink) *node.Program {
	p := newParser(src, cfg, diags, Recover)
	p.module = true
	if p.allows(FeatureTopLevelAwait) {
		p.mode.Set(TopLevelAsync)
	}
	return p.parseTopLevel("module", node.ModuleUnit, scope.Module, scope.Strict)
}

// ParseEval parses the argument of a direct eval. Unresolved names are
// looked up in the caller's scope chain; isFunctionContext allows
// new.target. It stops at the first error.
func ParseEval(src *source.File, cfg *Config, diags Sink, caller *scope.Handle, isFunctionContext bool) *node.Program {
	p := newParser(src, cfg, diags, 0)
	flags := scope.Flags(0)
	if p.cfg.Strict {
		flags = scope.Strict
	}
	if caller != nil && caller.Tree != nil {
		p.scopes.SetCaller(caller)
		cs := caller.Tree.At(caller.Scope)
		if cs.Flags.Has(scope.Strict) {
			flags = scope.Strict
		}
		if fs := enclosingFunction(caller); fs != nil {
			if fs.Flags.Has(scope.Method) {
				p.mode.Set(AllowSuperProperty)
			}
			if fs.Flags.Has(scope.DerivedConstructor) {
				p.mode.Set(AllowSuperCall)
			}
		}
	}
	if isFunctionContext {
		p.mode.Set(AllowNewTarget)
	}
	return p.parseTopLevel("eval", node.EvalUnit, scope.Eval, flags)
}

// enclosingFunction returns the innermost non-arrow function scope of an
// eval caller.
func enclosingFunction(h *scope.Handle) *scope.Scope {
	for id := h.Scope; id != scope.NoScope; {
		s := h.Tree.At(id)
		if s.Kind.IsFunction() && !s.Flags.Has(scope.Arrow) {
			return s
		}
		id = s.Parent
	}
	return nil
}

// ParseFunctionBody parses the source of a function body, as given to the
// Function constructor. It stops at the first error.
func ParseFunctionBody(src *source.File, cfg *Config, diags Sink, isGenerator, isAsync bool) *node.Program {
	p := newParser(src, cfg, diags, AllowReturn|AllowNewTarget)
	if isGenerator {
		p.mode.Set(TopLevelGenerator)
	}
	if isAsync {
		p.mode.Set(TopLevelAsync)
	}
	return p.parseFunctionUnit("function-body", nil)
}

// ParseWithAssumedArguments parses a function body whose parameters are
// the given names. It stops at the first error.
func ParseWithAssumedArguments(src *source.File, cfg *Config, diags Sink, argumentNames []string) *node.Program {
	p := newParser(src, cfg, diags, AllowReturn|AllowNewTarget)
	params := &node.FormalParams{}
	for _, name := range argumentNames {
		params.List = append(params.List, &node.Ident{Name: p.in.InternString(name)})
	}
	return p.parseFunctionUnit("assumed-arguments", params)
}

// ParseFormalParameterList parses the source of a parameter list, as given
// to the Function constructor. It stops at the first error.
func ParseFormalParameterList(src *source.File, cfg *Config, diags Sink) *node.FormalParams {
	p := newParser(src, cfg, diags, 0)
	var params *node.FormalParams
	ok := p.run("parameters", func() {
		flags := scope.Flags(0)
		if p.cfg.Strict {
			flags = scope.Strict
		}
		sid := p.openScope(scope.FunctionParams, flags, 0)
		fn := p.rootCtx()
		fn.inParams = true
		p.ctx.pushFunc(fn)
		p.next()
		params = &node.FormalParams{Scope: sid}
		p.parseParamList(params, token.EOF)
		params.Span = span(0, p.tok.Pos())
		p.expect(token.EOF)
		dupes := p.declareParams(params)
		p.checkParams(&node.FuncLit{Kind: node.FuncExpression, Params: params}, dupes, ast.Span{})
		p.ctx.pop()
		p.closeScope(len(p.File.Data))
	})
	if !ok {
		return nil
	}
	return params
}

// ParseStandaloneExpression parses a source consisting of one expression.
// It stops at the first error.
func ParseStandaloneExpression(src *source.File, cfg *Config, diags Sink) node.Expr {
	p := newParser(src, cfg, diags, 0)
	var x node.Expr
	ok := p.run("expression", func() {
		flags := scope.Flags(0)
		if p.cfg.Strict {
			flags = scope.Strict
		}
		p.openScope(scope.Global, flags, 0)
		p.ctx.pushFunc(p.rootCtx())
		p.next()
		x = p.parseExprIn()
		if !p.is(token.EOF) {
			p.unexpected(p.tok)
		}
		p.ctx.pop()
		p.closeScope(len(p.File.Data))
	})
	if !ok {
		return nil
	}
	return x
}

// ParseFile reads and parses the named file as a script or module. The
// returned error lists the syntax errors; warnings are not errors.
func ParseFile(name string, cfg *Config) (*node.Program, error) {
	src, err := source.ReadFile(name)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", name)
	}
	var diags ErrorList
	prog := ParseProgram(src, cfg, &diags)
	diags.Sort()
	return prog, diags.Err()
}

// ParseString parses a script held in a string.
func ParseString(input, name string, cfg *Config) (*node.Program, error) {
	if name == "" {
		name = MainName
	}
	var diags ErrorList
	prog := ParseProgram(source.NewFileString(name, input), cfg, &diags)
	diags.Sort()
	return prog, diags.Err()
}

// rootCtx returns the function context of the top level, as selected by
// the session mode.
func (p *Parser) rootCtx() *funcCtx {
	fn := newFuncCtx()
	fn.allowReturn = p.mode.Has(AllowReturn)
	fn.allowNewTarget = p.mode.Has(AllowNewTarget)
	fn.allowSuperProp = p.mode.Has(AllowSuperProperty)
	fn.allowSuperCall = p.mode.Has(AllowSuperCall)
	fn.async = p.mode.Has(TopLevelAsync)
	fn.generator = p.mode.Has(TopLevelGenerator)
	return fn
}

// run calls fn and converts the diagnostic unwinding it into a report. It
// reports whether fn completed.
func (p *Parser) run(entry string, fn func()) (ok bool) {
	p.logger.Debug("parse started",
		zap.String("file", p.sourceName),
		zap.String("entry", entry),
		zap.Stringer("version", p.cfg.Version),
		zap.Bool("recover", p.mode.Has(Recover)))
	defer func() {
		if r := recover(); r != nil {
			switch d := r.(type) {
			case bailout:
				p.logger.Debug("too many errors", zap.String("file", p.sourceName))
			case *Diagnostic:
				p.record(d)
			default:
				panic(r)
			}
			ok = false
		}
		p.logger.Debug("parse finished",
			zap.String("file", p.sourceName),
			zap.String("entry", entry),
			zap.Bool("ok", ok),
			zap.Int("tokens", p.buf.Len()),
			zap.Int("scopes", p.scopes.Len()),
			zap.Int("errors", len(p.Errors.Errors())),
			zap.Int("skipped", p.skipped))
	}()
	fn()
	return true
}

// topLevelItem returns the parser of one top level statement list item.
// A recovering session commits the buffered tokens and resumes after a
// failed item.
func (p *Parser) topLevelItem() func() node.Stmt {
	if !p.mode.Has(Recover) {
		return p.parseStatementListItem
	}
	return func() node.Stmt {
		p.commit(true)
		return p.recoverStmt(p.parseStatementListItem)
	}
}

func (p *Parser) parseTopLevel(entry string, kind node.ProgramKind, root scope.Kind, flags scope.Flags) *node.Program {
	prog := &node.Program{
		Kind:   kind,
		File:   p.File,
		Scopes: p.scopes,
	}
	ok := p.run(entry, func() {
		if kind == node.ModuleUnit {
			p.require(FeatureModules, ast.Span{})
		}
		prog.Scope = p.openScope(root, flags, 0)
		p.ctx.pushFunc(p.rootCtx())
		p.next()

		item := p.topLevelItem()
		body, _ := p.parseDirectives(item)
		for !p.is(token.EOF) {
			body.Append(item())
		}
		prog.Body = body
		prog.Directives = directives(body)

		p.ctx.pop()
		if p.scopes.At(prog.Scope).Flags.Has(scope.Strict) {
			prog.Flags.Set(ast.Strict)
		}
		p.closeScope(len(p.File.Data))
		if p.module {
			p.checkLocalExports()
		}
	})
	if !ok {
		return nil
	}
	p.finish(prog)
	return prog
}

// parseFunctionUnit parses a function body at the top level, optionally
// with assumed parameters.
func (p *Parser) parseFunctionUnit(entry string, params *node.FormalParams) *node.Program {
	prog := &node.Program{
		Kind:   node.FunctionBodyUnit,
		File:   p.File,
		Scopes: p.scopes,
		Params: params,
	}
	ok := p.run(entry, func() {
		flags := scope.Flags(0)
		if p.cfg.Strict {
			flags = scope.Strict
		}
		prog.Scope = p.openScope(scope.FunctionParams, flags, 0)
		var dupes []*scope.Conflict
		if params != nil {
			params.Scope = prog.Scope
			dupes = p.declareParams(params)
		}
		p.openScope(scope.FunctionBody, 0, 0)
		p.ctx.pushFunc(p.rootCtx())
		p.next()

		body, directive := p.parseDirectives(p.parseStatementListItem)
		p.checkParams(&node.FuncLit{Kind: node.FuncExpression, Params: params}, dupes, directive)
		body.Append(p.parseStmtList()...)
		prog.Body = body
		prog.Directives = directives(body)

		p.ctx.pop()
		if p.strict() {
			prog.Flags.Set(ast.Strict)
		}
		p.closeScope(len(p.File.Data))
		p.closeScope(len(p.File.Data))
	})
	if !ok {
		return nil
	}
	p.finish(prog)
	return prog
}

func (p *Parser) finish(prog *node.Program) {
	prog.Span = span(0, len(p.File.Data))
	prog.Name = p.sourceName
	if p.module {
		prog.Flags.Set(ast.Module)
	}
	if p.cfg.Scripting {
		prog.Flags.Set(ast.Scripting)
	}
}
