// Copyright (c) 2020-2023 Ozan Hacıbekiroğlu.
// Use of this source code is governed by a MIT License
// that can be found in the LICENSE file.

package scope

// Tree is the scope arena of one parse session. Scopes are opened and
// closed in strict nesting order; Current is the innermost open scope.
type Tree struct {
	Rules
	scopes  []*Scope
	current ID
	caller  *Handle
}

// NewTree creates an empty tree.
func NewTree(rules Rules) *Tree {
	return &Tree{Rules: rules, current: NoScope}
}

// SetCaller links the root scope to the scope chain of a direct eval
// caller. Unresolved names and private names are looked up there.
func (t *Tree) SetCaller(h *Handle) {
	t.caller = h
}

// Caller returns the eval caller, or nil.
func (t *Tree) Caller() *Handle {
	return t.caller
}

// Len returns the number of scopes ever opened, including discarded ones.
func (t *Tree) Len() int {
	return len(t.scopes)
}

// At returns the scope with the given id.
func (t *Tree) At(id ID) *Scope {
	return t.scopes[id]
}

// Current returns the innermost open scope.
func (t *Tree) Current() ID {
	return t.current
}

// CurrentScope returns the innermost open scope record.
func (t *Tree) CurrentScope() *Scope {
	if t.current == NoScope {
		return nil
	}
	return t.scopes[t.current]
}

// Open opens a scope nested in the current one and makes it current.
func (t *Tree) Open(kind Kind, flags Flags, pos int) ID {
	id := ID(len(t.scopes))
	s := &Scope{Kind: kind, Parent: t.current, Flags: flags, Start: pos, End: -1}
	if t.current != NoScope {
		parent := t.scopes[t.current]
		parent.Children = append(parent.Children, id)
		if parent.Flags.Has(Strict) {
			s.Flags.Set(Strict)
		}
		if kind == FunctionParams && !flags.Has(Speculative) {
			parent.Flags.Set(ContainsClosure)
		}
	}
	t.scopes = append(t.scopes, s)
	t.current = id
	return id
}

// SetStrict marks the scope strict; a function body also marks its
// parameter scope.
func (t *Tree) SetStrict(id ID) {
	s := t.scopes[id]
	s.Flags.Set(Strict)
	if s.Kind == FunctionBody && s.Parent != NoScope {
		if p := t.scopes[s.Parent]; p.Kind == FunctionParams {
			p.Flags.Set(Strict)
		}
	}
}

// SetSelfName records the name a function expression binds in its own
// scope. It must be called with the parameter scope current.
func (t *Tree) SetSelfName(name string) {
	t.scopes[t.current].SelfName = name
}

// Commit turns the current speculative scope into a regular one.
func (t *Tree) Commit() {
	s := t.scopes[t.current]
	s.Flags.Clear(Speculative)
	if s.Kind == FunctionParams && s.Parent != NoScope {
		t.scopes[s.Parent].Flags.Set(ContainsClosure)
	}
}

// Flatten discards the current scope: its children are reparented to its
// parent in place and its pending references move to the parent. The
// record stays in the arena flagged Discarded but is unreachable from the
// root.
func (t *Tree) Flatten() {
	id := t.current
	s := t.scopes[id]
	parent := t.scopes[s.Parent]

	for i, c := range parent.Children {
		if c == id {
			children := make([]ID, 0, len(parent.Children)-1+len(s.Children))
			children = append(children, parent.Children[:i]...)
			children = append(children, s.Children...)
			children = append(children, parent.Children[i+1:]...)
			parent.Children = children
			break
		}
	}
	for _, c := range s.Children {
		t.scopes[c].Parent = s.Parent
	}
	for _, r := range s.refs {
		if r.From == id {
			r.From = s.Parent
		}
	}
	parent.refs = append(parent.refs, s.refs...)
	parent.Flags.Set(s.Flags & (ContainsDirectEval | ContainsClosure))

	s.refs = nil
	s.Children = nil
	s.Flags.Set(Discarded | Closed)
	t.current = s.Parent
}

// Declare binds name in the scope selected by flags:
//
//   - Private names bind in the nearest class body.
//   - Params bind in the current parameter scope.
//   - Var (including top level function declarations) binds in the nearest
//     var scope.
//   - Everything else binds in the current scope.
//
// A returned conflict does not prevent the symbol from being returned.
func (t *Tree) Declare(name string, flags SymbolFlags, pos int) (*Symbol, *Conflict) {
	cur := t.scopes[t.current]
	if cur.IsClosed() {
		return nil, &Conflict{Kind: ScopeClosed, Name: name, Pos: pos}
	}
	switch {
	case flags.Has(Private):
		return t.declarePrivate(name, flags, pos)
	case flags.Has(Param):
		return t.declareParam(cur, name, flags, pos)
	case flags.Has(Var):
		return t.declareVar(name, flags, pos)
	}
	return t.declareLexical(cur, name, flags, pos)
}

func (t *Tree) declareParam(cur *Scope, name string, flags SymbolFlags, pos int) (*Symbol, *Conflict) {
	if prev := cur.vars[name]; prev != nil {
		return prev, &Conflict{Kind: DuplicateParam, Name: name, Pos: pos, PrevPos: prev.Pos}
	}
	sym := &Symbol{Name: name, Flags: flags, Pos: pos, Scope: t.current}
	cur.add(&cur.vars, sym)
	return sym, nil
}

// varScope returns the nearest var scope and the block scopes crossed to
// reach it, innermost first.
func (t *Tree) varScope(from ID) (ID, []ID) {
	var path []ID
	id := from
	for {
		s := t.scopes[id]
		if s.Kind.IsVarScope() || s.Parent == NoScope {
			return id, path
		}
		path = append(path, id)
		id = s.Parent
	}
}

func (t *Tree) declareVar(name string, flags SymbolFlags, pos int) (*Symbol, *Conflict) {
	v, path := t.varScope(t.current)
	vs := t.scopes[v]
	direct := len(path) == 0

	if direct {
		if lex := vs.lexical[name]; lex != nil {
			return lex, &Conflict{Kind: VarLexical, Name: name, Pos: pos, PrevPos: lex.Pos}
		}
	}

	sym := vs.vars[name]
	if sym != nil {
		if t.mergeVar(sym.Flags, flags) == mergeReplace {
			sym.Flags = flags | sym.Flags&Hoisted
		}
		if direct {
			sym.Flags.Clear(Hoisted | AnnexBVar)
		}
	} else {
		sym = &Symbol{Name: name, Flags: flags, Pos: pos, Scope: v}
		if !direct {
			sym.Flags.Set(Hoisted)
		}
		vs.add(&vs.vars, sym)
	}
	if !direct {
		vs.deferredVars = append(vs.deferredVars, deferredDecl{
			sym:   sym,
			pos:   pos,
			path:  path,
			forOf: flags.Has(ForOf),
		})
	}
	return sym, nil
}

func (t *Tree) declareLexical(cur *Scope, name string, flags SymbolFlags, pos int) (*Symbol, *Conflict) {
	if cur.Kind == Switch {
		flags.Set(InSwitch)
	}
	strict := cur.Flags.Has(Strict)

	if prev := cur.lexical[name]; prev != nil {
		if t.mergeLexical(prev.Flags, flags, strict) == mergeReplace {
			prev.Flags = flags
			return prev, nil
		}
		return prev, &Conflict{Kind: Redeclaration, Name: name, Pos: pos, PrevPos: prev.Pos}
	}
	if prev := cur.vars[name]; prev != nil && !prev.Flags.Has(Hoisted) {
		return prev, &Conflict{Kind: Redeclaration, Name: name, Pos: pos, PrevPos: prev.Pos}
	}
	if cur.Parent != NoScope {
		parent := t.scopes[cur.Parent]
		if cur.Kind == FunctionBody && parent.Kind == FunctionParams {
			if prm := parent.vars[name]; prm != nil {
				return prm, &Conflict{Kind: ParamLexical, Name: name, Pos: pos, PrevPos: prm.Pos}
			}
		}
		if cur.Flags.Has(CatchBody) && parent.Kind == Catch {
			if cp := parent.lexical[name]; cp != nil {
				return cp, &Conflict{Kind: CatchParamLexical, Name: name, Pos: pos, PrevPos: cp.Pos}
			}
		}
	}

	sym := &Symbol{Name: name, Flags: flags, Pos: pos, Scope: t.current}
	cur.add(&cur.lexical, sym)

	if t.annexBHoistable(flags, strict) {
		v, path := t.varScope(t.current)
		if len(path) > 0 {
			vs := t.scopes[v]
			vs.annexB = append(vs.annexB, deferredDecl{sym: sym, pos: pos, path: path})
		}
	}
	return sym, nil
}

func (t *Tree) declarePrivate(name string, flags SymbolFlags, pos int) (*Symbol, *Conflict) {
	id := t.nearest(t.current, ClassBody)
	if id == NoScope {
		return nil, &Conflict{Kind: UndeclaredPrivate, Name: name, Pos: pos}
	}
	body := t.scopes[id]
	if prev := body.private[name]; prev != nil {
		accessors := PrivateGetter | PrivateSetter
		if prev.Flags&accessors != 0 && flags&accessors != 0 &&
			prev.Flags&accessors != flags&accessors &&
			prev.Flags.Has(PrivateStatic) == flags.Has(PrivateStatic) &&
			prev.Flags&accessors != accessors {
			prev.Flags |= flags
			return prev, nil
		}
		return prev, &Conflict{Kind: DuplicatePrivate, Name: name, Pos: pos, PrevPos: prev.Pos}
	}
	sym := &Symbol{Name: name, Flags: flags, Pos: pos, Scope: id}
	body.add(&body.private, sym)
	return sym, nil
}

func (t *Tree) nearest(from ID, kinds ...Kind) ID {
	for id := from; id != NoScope; id = t.scopes[id].Parent {
		for _, k := range kinds {
			if t.scopes[id].Kind == k {
				return id
			}
		}
	}
	return NoScope
}

// Reference records a use of a name in the current scope. It is resolved
// when scopes close.
func (t *Tree) Reference(r *Reference) {
	r.From = t.current
	cur := t.scopes[t.current]
	cur.refs = append(cur.refs, r)
}

// ReferencePrivate records a use of a private name. It is checked when the
// enclosing class body closes; outside of any class it is checked against
// the eval caller at once.
func (t *Tree) ReferencePrivate(r *Reference) *Conflict {
	r.From = t.current
	if id := t.nearest(t.current, ClassBody, ClassHead); id != NoScope {
		s := t.scopes[id]
		s.privateRefs = append(s.privateRefs, r)
		return nil
	}
	if sym := t.callerPrivate(r.Name); sym != nil {
		r.Symbol = sym
		return nil
	}
	return &Conflict{Kind: UndeclaredPrivate, Name: r.Name, Pos: r.Pos}
}

// UseThis flags the nearest non-arrow function, or the root, as using
// this. Arrow scopes on the way are flagged as capturing it.
func (t *Tree) UseThis() { t.use(UsesThis) }

// UseSuper flags a super property access.
func (t *Tree) UseSuper() { t.use(UsesSuper) }

// UseSuperCall flags a super() call.
func (t *Tree) UseSuperCall() { t.use(UsesSuperCall) }

// UseNewTarget flags a new.target access.
func (t *Tree) UseNewTarget() { t.use(UsesNewTarget) }

func (t *Tree) use(flag Flags) {
	for id := t.current; id != NoScope; {
		s := t.scopes[id]
		switch {
		case s.Kind.IsFunction() && s.Flags.Has(Arrow):
			s.Flags.Set(flag)
		case s.Kind.IsFunction(), s.Kind == Global, s.Kind == Module, s.Kind == Eval:
			s.Flags.Set(flag)
			return
		}
		id = s.Parent
	}
}

// MarkDirectEval flags the current scope and all its ancestors as
// containing a direct eval call.
func (t *Tree) MarkDirectEval() {
	for id := t.current; id != NoScope; id = t.scopes[id].Parent {
		t.scopes[id].Flags.Set(ContainsDirectEval)
	}
}

// Resolve looks name up from the given scope outwards.
func (t *Tree) Resolve(from ID, name string) *Symbol {
	for id := from; id != NoScope; id = t.scopes[id].Parent {
		if sym := t.scopes[id].Lookup(name); sym != nil {
			return sym
		}
	}
	return nil
}

func (t *Tree) resolvePrivateFrom(from ID, name string) *Symbol {
	for id := from; id != NoScope; id = t.scopes[id].Parent {
		if sym := t.scopes[id].private[name]; sym != nil {
			return sym
		}
	}
	return nil
}

func (t *Tree) callerPrivate(name string) *Symbol {
	if t.caller == nil || t.caller.Tree == nil {
		return nil
	}
	return t.caller.Tree.resolvePrivateFrom(t.caller.Scope, name)
}

// Walk visits the live scopes depth first, skipping discarded ones.
func (t *Tree) Walk(fn func(id ID, s *Scope, depth int)) {
	if len(t.scopes) == 0 {
		return
	}
	var walk func(id ID, depth int)
	walk = func(id ID, depth int) {
		s := t.scopes[id]
		if s.Flags.Has(Discarded) {
			return
		}
		fn(id, s, depth)
		for _, c := range s.Children {
			walk(c, depth+1)
		}
	}
	for id, s := range t.scopes {
		if s.Parent == NoScope {
			walk(ID(id), 0)
		}
	}
}

// Count returns the number of live scopes of the given kind.
func (t *Tree) Count(kind Kind) (n int) {
	t.Walk(func(_ ID, s *Scope, _ int) {
		if s.Kind == kind {
			n++
		}
	})
	return
}
