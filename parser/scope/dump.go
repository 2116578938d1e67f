package scope

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xlab/treeprint"
)

// Dump renders the live scopes as a tree. Each scope line shows its kind,
// range and flags; its symbols follow as leaves sorted by position.
func (t *Tree) Dump() string {
	tree := treeprint.New()
	tree.SetValue("scopes")
	branches := map[ID]treeprint.Tree{}

	t.Walk(func(id ID, s *Scope, _ int) {
		parent := tree
		if b, ok := branches[s.Parent]; ok {
			parent = b
		}
		b := parent.AddBranch(s.label())
		branches[id] = b

		syms := append([]*Symbol(nil), s.Symbols...)
		sort.SliceStable(syms, func(i, j int) bool { return syms[i].Pos < syms[j].Pos })
		for _, sym := range syms {
			b.AddNode(sym.String())
		}
		if s.Parent == NoScope {
			for _, r := range s.refs {
				if r.IsFree() {
					b.AddNode("free " + r.Name)
				}
			}
		}
	})
	return tree.String()
}

func (s *Scope) label() string {
	var b strings.Builder
	b.WriteString(s.Kind.String())
	fmt.Fprintf(&b, " [%d,%d]", s.Start, s.End)
	if f := s.Flags &^ Closed; f != 0 {
		b.WriteString(" <" + f.String() + ">")
	}
	if s.SelfName != "" {
		b.WriteString(" self=" + s.SelfName)
	}
	return b.String()
}
