package importers

import (
	"context"
	"path/filepath"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/gad-lang/esparse/parser"
	"github.com/gad-lang/esparse/parser/node"
	"github.com/gad-lang/esparse/parser/source"
)

// Module is a loaded module of a graph.
type Module struct {
	Path    string
	URL     string
	Program *node.Program
	Diags   parser.ErrorList
	// Imports are the resolved paths of the modules this one depends on,
	// in source order.
	Imports []string
	// External are the bare specifiers left unresolved.
	External []string
}

// Graph is the set of modules reachable from an entry module.
type Graph struct {
	Entry   string
	Order   []string
	Modules map[string]*Module
}

// Errors returns the errors of every module, in load order.
func (g *Graph) Errors() (l parser.ErrorList) {
	for _, p := range g.Order {
		l = append(l, g.Modules[p].Diags.Errors()...)
	}
	return
}

// Specifiers returns the module specifiers of the static imports and
// re-exports of prog, and of dynamic imports of string literals.
func Specifiers(prog *node.Program) (list []string) {
	node.Inspect(prog, func(n node.Node) bool {
		switch n := n.(type) {
		case *node.ImportDecl:
			list = append(list, n.Source.Value)
		case *node.ExportAll:
			list = append(list, n.Source.Value)
		case *node.ExportNamed:
			if n.Source != nil {
				list = append(list, n.Source.Value)
			}
		case *node.ImportCall:
			if s, ok := n.Source.(*node.StringLit); ok {
				list = append(list, s.Value)
			}
		}
		return true
	})
	return
}

// Load parses the module at entry and every module it reaches through
// relative specifiers. Each module is loaded once. Syntax errors are kept
// on the modules; the returned error is for I/O failures and cancellation.
func Load(ctx context.Context, entry string, cfg *parser.Config) (*Graph, error) {
	if cfg == nil {
		cfg = parser.NewConfig()
	}
	c := *cfg
	c.Module = true
	logger := c.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	abs, err := filepath.Abs(entry)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", entry)
	}
	g := &Graph{Entry: abs, Modules: map[string]*Module{}}
	root := &FileImporter{WorkDir: filepath.Dir(abs)}
	queue := []string{abs}
	importers := map[string]*FileImporter{abs: root}

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return g, err
		}
		path := queue[0]
		queue = queue[1:]
		if _, ok := g.Modules[path]; ok {
			continue
		}
		imp := importers[path]
		data, url, err := imp.Import(path)
		if err != nil {
			return g, err
		}

		m := &Module{Path: path, URL: url}
		m.Program = parser.ParseModule(source.NewFile(path, data), &c, &m.Diags)
		m.Diags.Sort()
		g.Modules[path] = m
		g.Order = append(g.Order, path)
		logger.Debug("module loaded",
			zap.String("path", path),
			zap.Int("errors", len(m.Diags.Errors())))
		if m.Program == nil {
			continue
		}

		fork := imp.Fork(path)
		for _, spec := range Specifiers(m.Program) {
			dep, err := fork.Name(spec)
			if errors.Is(err, ErrExternal) {
				m.External = append(m.External, spec)
				continue
			} else if err != nil {
				return g, errors.Wrapf(err, "resolve %q from %s", spec, path)
			}
			m.Imports = append(m.Imports, dep)
			if _, ok := importers[dep]; !ok {
				importers[dep] = fork
				queue = append(queue, dep)
			}
		}
	}
	return g, nil
}
