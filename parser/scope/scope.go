// Copyright (c) 2020-2023 Ozan Hacıbekiroğlu.
// Use of this source code is governed by a MIT License
// that can be found in the LICENSE file.

package scope

import "strings"

// ID addresses a scope in a Tree.
type ID int32

// NoScope is the parent of root scopes.
const NoScope ID = -1

// Kind is the kind of construct owning a scope.
type Kind uint8

const (
	Global Kind = iota
	Module
	FunctionParams
	FunctionBody
	Block
	Catch
	ClassHead
	ClassBody
	Switch
	Eval
)

var kindNames = [...]string{
	Global:         "global",
	Module:         "module",
	FunctionParams: "params",
	FunctionBody:   "function",
	Block:          "block",
	Catch:          "catch",
	ClassHead:      "class-head",
	ClassBody:      "class-body",
	Switch:         "switch",
	Eval:           "eval",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "scope?"
}

// IsVarScope reports whether var declarations bind in scopes of this kind.
func (k Kind) IsVarScope() bool {
	switch k {
	case Global, Module, FunctionBody, Eval:
		return true
	}
	return false
}

// IsFunction reports whether the kind belongs to a function.
func (k Kind) IsFunction() bool {
	return k == FunctionParams || k == FunctionBody
}

// IsBlockLike reports whether the kind is a nested block scope on a var
// declaration path.
func (k Kind) IsBlockLike() bool {
	return k == Block || k == Switch || k == Catch
}

// Flags accumulate facts discovered while a scope is open.
type Flags uint32

func (b *Flags) Set(flag Flags) *Flags    { *b = *b | flag; return b }
func (b *Flags) Clear(flag Flags) *Flags  { *b = *b &^ flag; return b }
func (b *Flags) Toggle(flag Flags) *Flags { *b = *b ^ flag; return b }
func (b Flags) Has(flag Flags) bool       { return b&flag != 0 }

const (
	Strict Flags = 1 << iota
	Arrow
	ContainsDirectEval
	ContainsClosure
	UsesThis
	UsesArguments
	UsesNewTarget
	UsesSuper
	UsesSuperCall
	CatchBody
	SimpleCatchParam
	StaticBlock
	Method
	DerivedConstructor
	Speculative
	Discarded
	Closed
)

var flagNames = []struct {
	flag Flags
	name string
}{
	{Strict, "strict"},
	{Arrow, "arrow"},
	{ContainsDirectEval, "eval"},
	{ContainsClosure, "closure"},
	{UsesThis, "this"},
	{UsesArguments, "arguments"},
	{UsesNewTarget, "new.target"},
	{UsesSuper, "super"},
	{UsesSuperCall, "super()"},
	{CatchBody, "catch-body"},
	{SimpleCatchParam, "simple-catch"},
	{StaticBlock, "static-block"},
	{Method, "method"},
	{DerivedConstructor, "derived-ctor"},
	{Speculative, "speculative"},
	{Discarded, "discarded"},
	{Closed, "closed"},
}

func (b Flags) String() string {
	var s []string
	for _, f := range flagNames {
		if b.Has(f.flag) {
			s = append(s, f.name)
		}
	}
	return strings.Join(s, ",")
}

// Scope is a lexical scope record.
type Scope struct {
	Kind     Kind
	Parent   ID
	Flags    Flags
	Start    int
	End      int
	Children []ID
	// Symbols lists the symbols declared here in declaration order.
	Symbols []*Symbol
	// SelfName is the name a named function expression binds inside itself.
	SelfName string

	lexical      map[string]*Symbol
	vars         map[string]*Symbol
	private      map[string]*Symbol
	refs         []*Reference
	privateRefs  []*Reference
	deferredVars []deferredDecl
	annexB       []deferredDecl
}

type deferredDecl struct {
	sym   *Symbol
	pos   int
	path  []ID
	forOf bool
}

// IsClosed reports whether the scope is frozen.
func (s *Scope) IsClosed() bool {
	return s.Flags.Has(Closed)
}

// Lookup returns the symbol declared in this scope with the given name.
// Lexical bindings shadow var bindings of the same scope.
func (s *Scope) Lookup(name string) *Symbol {
	if sym := s.lexical[name]; sym != nil {
		return sym
	}
	return s.vars[name]
}

// LookupPrivate returns the private name declared in a class body.
func (s *Scope) LookupPrivate(name string) *Symbol {
	return s.private[name]
}

// Unresolved returns the references waiting for resolution.
func (s *Scope) Unresolved() []*Reference {
	return s.refs
}

func (s *Scope) add(table *map[string]*Symbol, sym *Symbol) {
	if *table == nil {
		*table = map[string]*Symbol{}
	}
	(*table)[sym.Name] = sym
	s.Symbols = append(s.Symbols, sym)
}

// SymbolFlags describe a declared name.
type SymbolFlags uint32

func (b *SymbolFlags) Set(flag SymbolFlags) *SymbolFlags   { *b = *b | flag; return b }
func (b *SymbolFlags) Clear(flag SymbolFlags) *SymbolFlags { *b = *b &^ flag; return b }
func (b SymbolFlags) Has(flag SymbolFlags) bool            { return b&flag != 0 }

const (
	Var SymbolFlags = 1 << iota
	Let
	Const
	Class
	Function
	Param
	CatchParam
	Import
	Private
	PrivateGetter
	PrivateSetter
	PrivateMethod
	PrivateStatic
	ImplicitThis
	ImplicitArguments
	ImplicitSuper
	ImplicitNewTarget
	ImplicitSelf
	Hoisted
	InSwitch
	BlockFunction
	AnnexBVar
	PlainFunction
	ClassName
	ForOf
)

// Lexical is the set of flags binding in the current block.
const Lexical = Let | Const | Class | Import | CatchParam | BlockFunction | ClassName

// Implicit is the set of implicit binding flags.
const Implicit = ImplicitThis | ImplicitArguments | ImplicitSuper | ImplicitNewTarget | ImplicitSelf

var symbolFlagNames = []struct {
	flag SymbolFlags
	name string
}{
	{Var, "var"},
	{Let, "let"},
	{Const, "const"},
	{Class, "class"},
	{Function, "function"},
	{Param, "param"},
	{CatchParam, "catch-param"},
	{Import, "import"},
	{Private, "private"},
	{PrivateGetter, "get"},
	{PrivateSetter, "set"},
	{PrivateMethod, "method"},
	{PrivateStatic, "static"},
	{ImplicitThis, "implicit"},
	{ImplicitArguments, "implicit"},
	{ImplicitSuper, "implicit"},
	{ImplicitNewTarget, "implicit"},
	{ImplicitSelf, "self"},
	{Hoisted, "hoisted"},
	{InSwitch, "in-switch"},
	{BlockFunction, "block-function"},
	{AnnexBVar, "annex-b"},
	{ClassName, "class-name"},
}

func (b SymbolFlags) String() string {
	var s []string
	for _, f := range symbolFlagNames {
		if b.Has(f.flag) {
			if n := len(s); n > 0 && s[n-1] == f.name {
				continue
			}
			s = append(s, f.name)
		}
	}
	return strings.Join(s, ",")
}

// Symbol is a declared name.
type Symbol struct {
	Name  string
	Flags SymbolFlags
	Pos   int
	Scope ID
	// Uses counts the references bound to the symbol.
	Uses int
}

// IsLexical reports whether the symbol binds in its block.
func (s *Symbol) IsLexical() bool {
	return s.Flags.Has(Lexical)
}

// IsImplicit reports whether the symbol was allocated on use.
func (s *Symbol) IsImplicit() bool {
	return s.Flags.Has(Implicit)
}

func (s *Symbol) String() string {
	return s.Name + " (" + s.Flags.String() + ")"
}

// Reference is a use of a name. Symbol is set when the reference is
// resolved; a reference still unresolved when its root scope closes is free.
type Reference struct {
	Name   string
	Pos    int
	Symbol *Symbol
	// From is the scope the reference was made in.
	From ID
	// Binding marks references later reinterpreted as declarations.
	Binding bool
}

// IsFree reports whether the reference binds to no declaration.
func (r *Reference) IsFree() bool {
	return r.Symbol == nil
}

// Handle points at a scope of another tree, such as the caller of an eval.
type Handle struct {
	Tree  *Tree
	Scope ID
}
