package testhelper

import (
	"strings"
	"testing"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/stretchr/testify/require"

	"github.com/gad-lang/esparse/parser"
	"github.com/gad-lang/esparse/parser/node"
	"github.com/gad-lang/esparse/parser/source"
)

// Tracer collects the trace output of a parse session.
type Tracer struct {
	out []string
}

func (o *Tracer) Write(p []byte) (n int, err error) {
	o.out = append(o.out, string(p))
	return len(p), nil
}

func (o *Tracer) String() string {
	return strings.Join(o.out, "")
}

// Parse parses input as a script named "test" and returns the sorted
// diagnostics.
func Parse(input string, cfg *parser.Config) (*node.Program, parser.ErrorList) {
	var diags parser.ErrorList
	prog := parser.ParseProgram(source.NewFileString("test", input), cfg, &diags)
	diags.Sort()
	return prog, diags
}

// ParseTrace parses input with tracing on and returns the trace.
func ParseTrace(t *testing.T, cfg *parser.Config, input string) string {
	if cfg == nil {
		cfg = parser.NewConfig()
	}
	tr := &Tracer{}
	c := *cfg
	c.Trace = tr
	c.SkipCache = nil
	_, diags := Parse(input, &c)
	require.Empty(t, diags.Errors(), "%s", diags)
	return tr.String()
}

// LogTrace logs the parsed program and the trace of input.
func LogTrace(t *testing.T, cfg *parser.Config, input string) {
	tr := &Tracer{}
	c := *cfg
	c.Trace = tr
	c.SkipCache = nil
	actual, _ := Parse(input, &c)
	if actual != nil {
		t.Logf("Parsed:\n%s", actual.String())
	}
	t.Logf("Trace:\n%s", tr.String())
}

// EqualText fails the test with a unified diff if the texts differ. Line
// endings are normalized first.
func EqualText(t *testing.T, expected, actual string, msgAndArgs ...any) {
	t.Helper()
	expected = strings.ReplaceAll(expected, "\r\n", "\n")
	actual = strings.ReplaceAll(actual, "\r\n", "\n")
	if expected == actual {
		return
	}
	diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(expected),
		B:        difflib.SplitLines(actual),
		FromFile: "expected",
		ToFile:   "actual",
		Context:  2,
	})
	require.FailNow(t, "texts differ:\n"+diff, msgAndArgs...)
}
