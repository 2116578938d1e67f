// Copyright (c) 2020-2023 Ozan Hacıbekiroğlu.
// Use of this source code is governed by a MIT License
// that can be found in the LICENSE file.

package scope

const (
	nameThis      = "this"
	nameArguments = "arguments"
	nameNewTarget = "new.target"
	nameSuper     = "super"
)

// Close freezes the current scope and makes its parent current. Deferred
// checks owned by the scope run here exactly once: var declarations
// against the lexical bindings of the blocks they were hoisted through,
// Annex-B function hoisting, implicit bindings, reference resolution and
// private name validation.
func (t *Tree) Close(end int) (conflicts []*Conflict) {
	id := t.current
	s := t.scopes[id]

	if s.Kind.IsVarScope() {
		conflicts = t.checkDeferredVars(s, conflicts)
		t.hoistAnnexB(id, s)
	}
	if s.Kind.IsFunction() && !s.Flags.Has(Arrow) {
		t.allocateImplicit(id, s)
	}
	t.resolve(id, s)
	conflicts = t.resolvePrivate(id, s, conflicts)

	s.End = end
	s.Flags.Set(Closed)
	s.deferredVars = nil
	s.annexB = nil
	t.current = s.Parent
	return
}

func (t *Tree) checkDeferredVars(s *Scope, conflicts []*Conflict) []*Conflict {
	for _, d := range s.deferredVars {
		name := d.sym.Name
		for _, pid := range d.path {
			ps := t.scopes[pid]
			lex := ps.lexical[name]
			if lex == nil || t.varMeetsLexical(lex, ps, d.forOf) {
				continue
			}
			c := &Conflict{Kind: VarLexical, Name: name, Pos: d.pos, PrevPos: lex.Pos}
			if lex.Pos > c.Pos {
				c.Pos, c.PrevPos = lex.Pos, d.pos
			}
			conflicts = append(conflicts, c)
			break
		}
	}
	return conflicts
}

func (t *Tree) hoistAnnexB(id ID, s *Scope) {
	var params *Scope
	if s.Kind == FunctionBody && s.Parent != NoScope {
		if p := t.scopes[s.Parent]; p.Kind == FunctionParams {
			params = p
		}
	}
candidates:
	for _, d := range s.annexB {
		name := d.sym.Name
		// path[0] is the block declaring the function
		for _, pid := range d.path[1:] {
			ps := t.scopes[pid]
			if lex := ps.lexical[name]; lex != nil && !t.varMeetsLexical(lex, ps, false) {
				continue candidates
			}
		}
		if s.lexical[name] != nil {
			continue
		}
		if params != nil && params.vars[name] != nil {
			continue
		}
		if s.vars[name] == nil {
			s.add(&s.vars, &Symbol{
				Name:  name,
				Flags: Var | AnnexBVar | Hoisted,
				Pos:   d.pos,
				Scope: id,
			})
		}
	}
}

// allocateImplicit adds this, new.target and super to a non-arrow function
// scope if they were used. Usage in a parameter list allocates on the
// parameter scope, otherwise on the body.
func (t *Tree) allocateImplicit(id ID, s *Scope) {
	const eval = ContainsDirectEval
	var params *Scope
	if s.Kind == FunctionBody && s.Parent != NoScope {
		if p := t.scopes[s.Parent]; p.Kind == FunctionParams && !p.Flags.Has(Arrow) {
			params = p
		}
	}
	for _, imp := range []struct {
		flag Flags
		name string
		sym  SymbolFlags
	}{
		{UsesThis, nameThis, ImplicitThis},
		{UsesNewTarget, nameNewTarget, ImplicitNewTarget},
		{UsesSuper | UsesSuperCall, nameSuper, ImplicitSuper},
	} {
		if !s.Flags.Has(imp.flag | eval) {
			continue
		}
		if params != nil && params.Flags.Has(imp.flag) {
			// the parameter scope allocates it when it closes
			continue
		}
		if s.lexical[imp.name] == nil {
			s.add(&s.lexical, &Symbol{Name: imp.name, Flags: imp.sym, Pos: s.Start, Scope: id})
		}
	}
}

// implicitArguments decides whether an unresolved arguments reference may
// allocate the binding in s.
func (t *Tree) implicitArguments(s *Scope) bool {
	if s.Flags.Has(Arrow) || s.Flags.Has(StaticBlock) {
		return false
	}
	switch s.Kind {
	case FunctionBody:
		if s.Parent != NoScope {
			if p := t.scopes[s.Parent]; p.Kind == FunctionParams && p.vars[nameArguments] != nil {
				return false
			}
		}
		return true
	case FunctionParams:
		return true
	}
	return false
}

func (t *Tree) declareImplicit(id ID, s *Scope, name string, flags SymbolFlags) *Symbol {
	if sym := s.lexical[name]; sym != nil {
		return sym
	}
	sym := &Symbol{Name: name, Flags: flags, Pos: s.Start, Scope: id}
	s.add(&s.lexical, sym)
	return sym
}

func bind(r *Reference, sym *Symbol) {
	r.Symbol = sym
	sym.Uses++
}

func (t *Tree) resolve(id ID, s *Scope) {
	var pending []*Reference
	for _, r := range s.refs {
		if r.Binding || r.Symbol != nil {
			continue
		}
		if sym := s.Lookup(r.Name); sym != nil {
			bind(r, sym)
			continue
		}
		if r.Name == nameArguments && t.implicitArguments(s) {
			bind(r, t.declareImplicit(id, s, nameArguments, ImplicitArguments))
			s.Flags.Set(UsesArguments)
			continue
		}
		if s.Kind == FunctionParams && s.SelfName != "" && r.Name == s.SelfName {
			bind(r, t.declareImplicit(id, s, r.Name, ImplicitSelf))
			continue
		}
		pending = append(pending, r)
	}
	if s.Flags.Has(ContainsDirectEval) && t.implicitArguments(s) && s.Kind == FunctionBody &&
		s.Lookup(nameArguments) == nil {
		t.declareImplicit(id, s, nameArguments, ImplicitArguments)
		s.Flags.Set(UsesArguments)
	}
	s.refs = nil

	if s.Parent != NoScope {
		parent := t.scopes[s.Parent]
		parent.refs = append(parent.refs, pending...)
		return
	}
	if t.caller != nil && t.caller.Tree != nil {
		free := pending[:0]
		for _, r := range pending {
			if sym := t.caller.Tree.Resolve(t.caller.Scope, r.Name); sym != nil {
				bind(r, sym)
				continue
			}
			free = append(free, r)
		}
		pending = free
	}
	// free references stay on the root for inspection
	s.refs = pending
}

func (t *Tree) resolvePrivate(id ID, s *Scope, conflicts []*Conflict) []*Conflict {
	if len(s.privateRefs) == 0 {
		return conflicts
	}
	var pending []*Reference
	for _, r := range s.privateRefs {
		if s.Kind == ClassBody {
			if sym := s.private[r.Name]; sym != nil {
				bind(r, sym)
				continue
			}
		}
		pending = append(pending, r)
	}
	s.privateRefs = nil
	if len(pending) == 0 {
		return conflicts
	}
	if s.Parent != NoScope {
		if outer := t.nearest(s.Parent, ClassBody); outer != NoScope {
			os := t.scopes[outer]
			os.privateRefs = append(os.privateRefs, pending...)
			return conflicts
		}
	}
	for _, r := range pending {
		if sym := t.callerPrivate(r.Name); sym != nil {
			bind(r, sym)
			continue
		}
		conflicts = append(conflicts, &Conflict{Kind: UndeclaredPrivate, Name: r.Name, Pos: r.Pos})
	}
	return conflicts
}
