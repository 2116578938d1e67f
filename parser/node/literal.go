// Copyright (c) 2020-2023 Ozan Hacıbekiroğlu.
// Use of this source code is governed by a MIT License
// that can be found in the LICENSE file.

package node

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/gad-lang/esparse/parser/ast"
)

// NullLit represents null.
type NullLit struct {
	ast.Span
}

func (e *NullLit) ExprNode() {}

func (e *NullLit) String() string {
	return "null"
}

// BoolLit represents true and false.
type BoolLit struct {
	ast.Span
	Value bool
}

func (e *BoolLit) ExprNode() {}

func (e *BoolLit) String() string {
	return strconv.FormatBool(e.Value)
}

// NumberLit represents a numeric literal. Value holds the narrowest exact
// representation: int32, int64 or float64.
type NumberLit struct {
	ast.Span
	Raw   string
	Value any
	// LegacyOctal marks 017 style and 08 style literals.
	LegacyOctal bool
}

func (e *NumberLit) ExprNode() {}

func (e *NumberLit) String() string {
	return e.Raw
}

// Float64 returns the value as a float64.
func (e *NumberLit) Float64() float64 {
	switch v := e.Value.(type) {
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case float64:
		return v
	}
	return 0
}

// BigIntLit represents a BigInt literal such as 10n.
type BigIntLit struct {
	ast.Span
	Raw   string
	Value *big.Int
}

func (e *BigIntLit) ExprNode() {}

func (e *BigIntLit) String() string {
	return e.Raw
}

// StringLit represents a string literal.
type StringLit struct {
	ast.Span
	// Raw is the source text including quotes.
	Raw   string
	Value string
	// Escaped marks literals containing escape sequences.
	Escaped bool
	// OctalEscape marks legacy octal or \8 \9 escapes, illegal in
	// strict code.
	OctalEscape bool
}

func (e *StringLit) ExprNode() {}

func (e *StringLit) String() string {
	return e.Raw
}

// RegexpLit represents a regular expression literal.
type RegexpLit struct {
	ast.Span
	Pattern string
	Flags   string
}

func (e *RegexpLit) ExprNode() {}

func (e *RegexpLit) String() string {
	return "/" + e.Pattern + "/" + e.Flags
}

// TemplateStyle is the syntax an interpolated string was written in.
type TemplateStyle uint8

const (
	Backquote TemplateStyle = iota
	HereDoc
	EditString
)

// TemplateLit represents a template literal and the interpolating string
// forms of scripting mode. Quasis has one element more than Exprs.
type TemplateLit struct {
	ast.Span
	Style  TemplateStyle
	Quasis []*TemplateElement
	Exprs  Exprs
}

func (e *TemplateLit) ExprNode() {}

func (e *TemplateLit) String() string {
	var b strings.Builder
	b.WriteByte('`')
	for i, q := range e.Quasis {
		if e.Style == Backquote || q.Cooked == nil {
			b.WriteString(q.Raw)
		} else {
			writeTemplateText(&b, *q.Cooked)
		}
		if i < len(e.Exprs) {
			b.WriteString("${")
			b.WriteString(e.Exprs[i].String())
			b.WriteString("}")
		}
	}
	b.WriteByte('`')
	return b.String()
}

// writeTemplateText writes s as the text of a backquoted template, escaping
// the characters that would end the text or open a substitution.
func writeTemplateText(b *strings.Builder, s string) {
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '\\' || c == '`':
			b.WriteByte('\\')
			b.WriteByte(c)
		case c == '$' && i+1 < len(s) && s[i+1] == '{':
			b.WriteString(`\$`)
		default:
			b.WriteByte(c)
		}
	}
}

// TemplateElement is a literal span of a template. Cooked is nil when the
// span holds an escape that is invalid outside tagged templates.
type TemplateElement struct {
	ast.Span
	Raw    string
	Cooked *string
}

func (e *TemplateElement) String() string {
	return e.Raw
}

// ArrayLit represents an array literal; nil elements are holes.
type ArrayLit struct {
	ast.Span
	Elements Exprs
	// TrailingComma is set when a comma follows the last element.
	TrailingComma bool
}

func (e *ArrayLit) ExprNode() {}

func (e *ArrayLit) String() string {
	return "[" + e.Elements.String() + "]"
}

// ObjectLit represents an object literal.
type ObjectLit struct {
	ast.Span
	Props         []*Property
	TrailingComma bool
}

func (e *ObjectLit) ExprNode() {}

func (e *ObjectLit) String() string {
	l := make([]string, len(e.Props))
	for i, p := range e.Props {
		l[i] = p.String()
	}
	return "{" + strings.Join(l, ", ") + "}"
}

// PropKind classifies object literal and object pattern members.
type PropKind uint8

const (
	PropInit PropKind = iota
	PropShorthand
	PropMethod
	PropGet
	PropSet
	PropSpread
)

// Property is a member of an object literal or object pattern. Spread
// members keep their operand in Value and have no Key.
type Property struct {
	ast.Span
	Kind     PropKind
	Key      Expr
	Computed bool
	Value    Expr
}

func (p *Property) String() string {
	key := ""
	if p.Key != nil {
		key = p.Key.String()
		if p.Computed {
			key = "[" + key + "]"
		}
	}
	switch p.Kind {
	case PropSpread:
		return "..." + p.Value.String()
	case PropShorthand:
		if a, ok := p.Value.(*AssignPattern); ok {
			return a.String()
		}
		return key
	case PropMethod, PropGet, PropSet:
		prefix := ""
		if p.Kind == PropGet {
			prefix = "get "
		} else if p.Kind == PropSet {
			prefix = "set "
		}
		if f, ok := p.Value.(*FuncLit); ok {
			return prefix + key + f.signature()
		}
	}
	return key + ": " + p.Value.String()
}
