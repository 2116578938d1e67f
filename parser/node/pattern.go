package node

import (
	"github.com/gad-lang/esparse/parser/ast"
)

// ObjectPattern represents {a, b: c, ...rest} as a binding or assignment
// target. Property values are the targets.
type ObjectPattern struct {
	ast.Span
	Props []*Property
	Rest  Expr
}

func (e *ObjectPattern) ExprNode() {}

func (e *ObjectPattern) String() string {
	s := (&ObjectLit{Props: e.Props}).String()
	if e.Rest == nil {
		return s
	}
	if len(e.Props) == 0 {
		return "{..." + e.Rest.String() + "}"
	}
	return s[:len(s)-1] + ", ..." + e.Rest.String() + "}"
}

// ArrayPattern represents [a, , b = 1, ...rest] as a target. Nil elements
// are elisions; a trailing *RestElement collects the remainder.
type ArrayPattern struct {
	ast.Span
	Elements Exprs
}

func (e *ArrayPattern) ExprNode() {}

func (e *ArrayPattern) String() string {
	return "[" + e.Elements.String() + "]"
}

// AssignPattern is a target with a default value.
type AssignPattern struct {
	ast.Span
	Target  Expr
	Default Expr
}

func (e *AssignPattern) ExprNode() {}

func (e *AssignPattern) String() string {
	return e.Target.String() + " = " + e.Default.String()
}

// RestElement is the ...target of array patterns and parameter lists.
type RestElement struct {
	ast.Span
	Target Expr
}

func (e *RestElement) ExprNode() {}

func (e *RestElement) String() string {
	return "..." + e.Target.String()
}

// IsPattern reports whether e is a destructuring pattern.
func IsPattern(e Expr) bool {
	switch e.(type) {
	case *ObjectPattern, *ArrayPattern:
		return true
	}
	return false
}

// BoundNames appends the identifiers bound by a target, in source order.
func BoundNames(dst []*Ident, target Expr) []*Ident {
	switch t := target.(type) {
	case *Ident:
		dst = append(dst, t)
	case *AssignPattern:
		dst = BoundNames(dst, t.Target)
	case *RestElement:
		dst = BoundNames(dst, t.Target)
	case *ArrayPattern:
		for _, e := range t.Elements {
			if e != nil {
				dst = BoundNames(dst, e)
			}
		}
	case *ObjectPattern:
		for _, p := range t.Props {
			dst = BoundNames(dst, p.Value)
		}
		if t.Rest != nil {
			dst = BoundNames(dst, t.Rest)
		}
	}
	return dst
}
