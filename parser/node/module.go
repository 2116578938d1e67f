package node

import (
	"strings"

	"github.com/gad-lang/esparse/parser/ast"
)

// ImportDecl represents an import declaration.
type ImportDecl struct {
	ast.Span
	Default    *Ident
	Namespace  *Ident
	Specifiers []*ImportSpec
	Source     *StringLit
	Attributes []*ImportAttribute
	// Named is set when a braced specifier list is present, even empty.
	Named bool
}

func (s *ImportDecl) StmtNode() {}

func (s *ImportDecl) String() string {
	var parts []string
	if s.Default != nil {
		parts = append(parts, s.Default.Name)
	}
	if s.Namespace != nil {
		parts = append(parts, "* as "+s.Namespace.Name)
	}
	if s.Named {
		l := make([]string, len(s.Specifiers))
		for i, sp := range s.Specifiers {
			l[i] = sp.String()
		}
		parts = append(parts, "{"+strings.Join(l, ", ")+"}")
	}
	str := "import "
	if len(parts) > 0 {
		str += strings.Join(parts, ", ") + " from "
	}
	return str + s.Source.String() + attributesString(s.Attributes)
}

// ImportSpec is an entry of a braced import list.
type ImportSpec struct {
	ast.Span
	Imported string
	Local    *Ident
}

func (s *ImportSpec) String() string {
	if s.Imported == s.Local.Name {
		return s.Imported
	}
	return s.Imported + " as " + s.Local.Name
}

// ImportAttribute is a key of a with or assert clause.
type ImportAttribute struct {
	ast.Span
	Key   string
	Value *StringLit
}

func (a *ImportAttribute) String() string {
	return a.Key + ": " + a.Value.String()
}

func attributesString(l []*ImportAttribute) string {
	if len(l) == 0 {
		return ""
	}
	s := make([]string, len(l))
	for i, a := range l {
		s[i] = a.String()
	}
	return " with {" + strings.Join(s, ", ") + "}"
}

// ExportDecl represents export of a declaration.
type ExportDecl struct {
	ast.Span
	Decl Stmt
}

func (s *ExportDecl) StmtNode() {}

func (s *ExportDecl) String() string {
	return "export " + s.Decl.String()
}

// ExportDefault represents export default. Value is an expression, a
// *FuncLit or a *ClassLit.
type ExportDefault struct {
	ast.Span
	Value Expr
}

func (s *ExportDefault) StmtNode() {}

func (s *ExportDefault) String() string {
	return "export default " + s.Value.String()
}

// ExportNamed represents export {a, b as c} with an optional source.
type ExportNamed struct {
	ast.Span
	Specifiers []*ExportSpec
	Source     *StringLit
	Attributes []*ImportAttribute
}

func (s *ExportNamed) StmtNode() {}

func (s *ExportNamed) String() string {
	l := make([]string, len(s.Specifiers))
	for i, sp := range s.Specifiers {
		l[i] = sp.String()
	}
	str := "export {" + strings.Join(l, ", ") + "}"
	if s.Source != nil {
		str += " from " + s.Source.String() + attributesString(s.Attributes)
	}
	return str
}

// ExportSpec is an entry of an export list. Local references a binding
// unless the export has a source.
type ExportSpec struct {
	ast.Span
	Local    *Ident
	Exported string
}

func (s *ExportSpec) String() string {
	if s.Local.Name == s.Exported {
		return s.Exported
	}
	return s.Local.Name + " as " + s.Exported
}

// ExportAll represents export * and export * as ns.
type ExportAll struct {
	ast.Span
	Alias      string
	Source     *StringLit
	Attributes []*ImportAttribute
}

func (s *ExportAll) StmtNode() {}

func (s *ExportAll) String() string {
	str := "export *"
	if s.Alias != "" {
		str += " as " + s.Alias
	}
	return str + " from " + s.Source.String() + attributesString(s.Attributes)
}
