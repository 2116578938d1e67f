package node

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/xlab/treeprint"

	"github.com/gad-lang/esparse/parser/scope"
)

type dumper struct {
	stack []treeprint.Tree
	spans bool
}

func (d *dumper) Visit(n Node) Visitor {
	if n == nil {
		d.stack = d.stack[:len(d.stack)-1]
		return nil
	}
	label := Label(n)
	if d.spans {
		label += fmt.Sprintf(" [%d,%d]", n.Pos(), n.End())
	}
	b := d.stack[len(d.stack)-1].AddBranch(label)
	d.stack = append(d.stack, b)
	return d
}

// Dump renders the tree rooted at n, one node per line.
func Dump(n Node) string {
	return dump(n, false)
}

// DumpSpans is Dump with the source range of every node.
func DumpSpans(n Node) string {
	return dump(n, true)
}

func dump(n Node, spans bool) string {
	root := treeprint.New()
	d := &dumper{stack: []treeprint.Tree{root}, spans: spans}
	Walk(d, n)
	// the single top level branch holds the tree
	root.SetValue(".")
	return root.String()
}

func symbolLabel(sym *scope.Symbol) string {
	if sym == nil {
		return "free"
	}
	return sym.Flags.String() + "@" + strconv.Itoa(sym.Pos)
}

// Label returns the one line description of a node used in dumps.
func Label(n Node) string {
	name := reflect.TypeOf(n).Elem().Name()
	switch n := n.(type) {
	case *Program:
		return name + " " + n.Kind.String() + flags(n.Flags.String())
	case *Ident:
		switch {
		case n.Sym != nil:
			return name + " " + n.Name + " decl " + symbolLabel(n.Sym)
		case n.Ref != nil:
			return name + " " + n.Name + " -> " + symbolLabel(n.Ref.Symbol)
		}
		return name + " " + n.Name
	case *PrivateIdent:
		return name + " " + n.Name
	case *NumberLit:
		return fmt.Sprintf("%s %s (%T)", name, n.Raw, n.Value)
	case *BigIntLit:
		return name + " " + n.Raw
	case *StringLit:
		return name + " " + n.Raw
	case *BoolLit:
		return name + " " + n.String()
	case *RegexpLit:
		return name + " " + n.String()
	case *TemplateElement:
		return name + " " + strconv.Quote(n.Raw)
	case *UnaryExpr:
		return name + " " + n.Op.String()
	case *UpdateExpr:
		if n.Prefix {
			return name + " prefix " + n.Op.String()
		}
		return name + " " + n.Op.String()
	case *BinaryExpr:
		return name + " " + n.Op.String()
	case *AssignExpr:
		return name + " " + n.Op.String()
	case *VarDecl:
		return name + " " + n.Token.String()
	case *BranchStmt:
		return name + " " + n.Token.String()
	case *MetaProperty:
		return name + " " + n.String()
	case *MemberExpr:
		switch {
		case n.Computed && n.Optional:
			return name + " ?.[]"
		case n.Computed:
			return name + " []"
		case n.Optional:
			return name + " ?."
		}
	case *CallExpr:
		if n.DirectEval {
			return name + " eval"
		}
		if n.Optional {
			return name + " ?."
		}
	case *FuncLit:
		return name + " " + n.Kind.String() + flags(n.Flags.String())
	case *ClassMember:
		s := name
		if n.Static {
			s += " static"
		}
		return s + " " + [...]string{"method", "get", "set", "constructor", "field", "accessor", "block"}[n.Kind]
	case *Property:
		return name + " " + [...]string{"init", "shorthand", "method", "get", "set", "spread"}[n.Kind]
	case *ForInStmt:
		switch {
		case n.Await:
			return name + " await of"
		case n.Of:
			return name + " of"
		case n.Each:
			return name + " each in"
		}
		return name + " in"
	case *YieldExpr:
		if n.Delegate {
			return name + "*"
		}
	case *ExportSpec:
		return name + " " + n.Exported
	case *ImportSpec:
		return name + " " + n.Imported
	case *ExportAll:
		if n.Alias != "" {
			return name + " as " + n.Alias
		}
	case *ImportAttribute:
		return name + " " + n.Key
	}
	return name
}

func flags(s string) string {
	if s == "" {
		return ""
	}
	return " <" + s + ">"
}
