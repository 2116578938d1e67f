package importers_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/gad-lang/esparse/importers"
	"github.com/gad-lang/esparse/parser"
)

func writeFiles(t *testing.T, files map[string]string) string {
	dir := t.TempDir()
	for name, content := range files {
		p := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	return dir
}

func TestFileImporter(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a.js":      "",
		"lib/b.mjs": "",
		"lib/c":     "",
	})
	imp := &importers.FileImporter{WorkDir: dir}

	name, err := imp.Name("./a.js")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "a.js"), name)

	name, err = imp.Name("./a")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "a.js"), name)

	name, err = imp.Name("./lib/b")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "lib", "b.mjs"), name)

	name, err = imp.Name("./lib/c")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "lib", "c"), name)

	fork := imp.Fork(filepath.Join(dir, "lib", "b.mjs"))
	name, err = fork.Name("../a")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "a.js"), name)

	_, err = imp.Name("lodash")
	require.ErrorIs(t, err, importers.ErrExternal)
	_, err = imp.Name("")
	require.Error(t, err)

	data, url, err := imp.Import(filepath.Join(dir, "a.js"))
	require.NoError(t, err)
	require.Empty(t, data)
	require.Equal(t, "file:"+filepath.Join(dir, "a.js"), url)

	_, _, err = imp.Import(filepath.Join(dir, "missing.js"))
	require.Error(t, err)
	require.True(t, os.IsNotExist(errors.Cause(err)))

	custom := &importers.FileImporter{
		NameResolver: func(cwd, name string) (string, error) { return "mem:" + name, nil },
		FileReader: func(path string) ([]byte, string, error) {
			return []byte("export default 1"), path, nil
		},
	}
	name, err = custom.Name("lodash")
	require.NoError(t, err)
	require.Equal(t, "mem:lodash", name)
	data, url, err = custom.Import(name)
	require.NoError(t, err)
	require.Equal(t, "export default 1", string(data))
	require.Equal(t, "mem:lodash", url)
}

func TestSpecifiers(t *testing.T) {
	prog, err := parser.ParseString("", "", nil)
	require.NoError(t, err)
	require.Empty(t, importers.Specifiers(prog))

	cfg := parser.NewConfig()
	cfg.Module = true
	prog, err = parser.ParseString(`
import a from "./a";
import "./b";
export * from "./c";
export {x} from "./d";
export {a};
const m = import("./e"), n = import(a);
`, "", cfg)
	require.NoError(t, err)
	require.Equal(t, []string{"./a", "./b", "./c", "./d", "./e"}, importers.Specifiers(prog))
}

func TestLoad(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a.js":      `import {x} from "./b"; import _ from "lodash"; export const y = x;`,
		"b.js":      `export * from "./lib/c.mjs"; export const x = 1;`,
		"lib/c.mjs": "import \"../a.js\";\nlet = ;\n",
	})
	a := filepath.Join(dir, "a.js")
	b := filepath.Join(dir, "b.js")
	c := filepath.Join(dir, "lib", "c.mjs")

	g, err := importers.Load(context.Background(), a, nil)
	require.NoError(t, err)
	require.Equal(t, a, g.Entry)
	require.Equal(t, []string{a, b, c}, g.Order)
	require.Equal(t, []string{b}, g.Modules[a].Imports)
	require.Equal(t, []string{"lodash"}, g.Modules[a].External)
	require.Equal(t, []string{c}, g.Modules[b].Imports)
	require.Equal(t, []string{a}, g.Modules[c].Imports)
	require.True(t, g.Modules[a].Program.IsStrict())

	require.Empty(t, g.Modules[a].Diags)
	errs := g.Errors()
	require.Len(t, errs, 1)
	require.Equal(t, c, errs[0].Position().FileName())
	require.Equal(t, 2, errs[0].Line)
}

func TestLoadErrors(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a.js": `import "./missing";`,
	})
	_, err := importers.Load(context.Background(), filepath.Join(dir, "a.js"), nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "missing")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = importers.Load(ctx, filepath.Join(dir, "a.js"), nil)
	require.ErrorIs(t, err, context.Canceled)
}
