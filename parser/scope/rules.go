// Copyright (c) 2020-2023 Ozan Hacıbekiroğlu.
// Use of this source code is governed by a MIT License
// that can be found in the LICENSE file.

package scope

import "fmt"

// ConflictKind classifies scope rule violations.
type ConflictKind uint8

const (
	Redeclaration ConflictKind = iota + 1
	VarLexical
	ParamLexical
	CatchParamLexical
	DuplicateParam
	DuplicatePrivate
	UndeclaredPrivate
	ScopeClosed
)

var conflictNames = [...]string{
	Redeclaration:     "redeclaration",
	VarLexical:        "var-lexical",
	ParamLexical:      "param-lexical",
	CatchParamLexical: "catch-param-lexical",
	DuplicateParam:    "duplicate-param",
	DuplicatePrivate:  "duplicate-private",
	UndeclaredPrivate: "undeclared-private",
	ScopeClosed:       "scope-closed",
}

func (k ConflictKind) String() string {
	if int(k) < len(conflictNames) && conflictNames[k] != "" {
		return conflictNames[k]
	}
	return "conflict?"
}

// Conflict is a declaration rule violation. Pos is the offending
// declaration or reference, PrevPos the earlier declaration if any.
type Conflict struct {
	Kind    ConflictKind
	Name    string
	Pos     int
	PrevPos int
}

func (c *Conflict) Error() string {
	return fmt.Sprintf("%s: %s at %d", c.Kind, c.Name, c.Pos)
}

// Rules carry the session options the declaration rules depend on.
type Rules struct {
	// AnnexB enables legacy web compatibility for block level functions
	// and catch parameters.
	AnnexB bool
}

type mergeResult uint8

const (
	mergeNew mergeResult = iota
	mergeKeep
	mergeReplace
	mergeError
)

// mergeLexical decides a second lexical declaration of a name in the same
// scope.
//
//	existing          new               sloppy+annexB   otherwise
//	block function    block function    replace         error
//	(plain)           (plain)
//	anything else                       error           error
func (r Rules) mergeLexical(existing, next SymbolFlags, strict bool) mergeResult {
	if !strict && r.AnnexB &&
		existing.Has(BlockFunction) && existing.Has(PlainFunction) &&
		next.Has(BlockFunction) && next.Has(PlainFunction) {
		return mergeReplace
	}
	return mergeError
}

// mergeVar decides a var scoped declaration meeting an existing var scoped
// symbol of the var scope.
//
//	existing    new         result
//	var         var         keep
//	var         function    replace (function wins)
//	function    var         keep
//	function    function    replace (last wins)
//	param       var         keep
//	annex-b     var/func    replace
func (r Rules) mergeVar(existing, next SymbolFlags) mergeResult {
	switch {
	case existing.Has(AnnexBVar):
		return mergeReplace
	case next.Has(Function):
		return mergeReplace
	}
	return mergeKeep
}

// varMeetsLexical decides a var declaration on whose path a lexical
// binding of the same name lives in the given scope.
//
//	lexical                      var            result
//	simple catch parameter       plain var      allowed with annex-b
//	simple catch parameter       for-of var     error
//	anything else                any            error
func (r Rules) varMeetsLexical(lex *Symbol, s *Scope, forOf bool) bool {
	if r.AnnexB && lex.Flags.Has(CatchParam) && s.Kind == Catch && s.Flags.Has(SimpleCatchParam) {
		return !forOf
	}
	return false
}

// annexBHoistable reports whether a block function may also bind a var in
// the enclosing var scope.
func (r Rules) annexBHoistable(flags SymbolFlags, strict bool) bool {
	return r.AnnexB && !strict && flags.Has(BlockFunction) && flags.Has(PlainFunction)
}
