package parser

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gad-lang/esparse/parser/ast"
	"github.com/gad-lang/esparse/parser/source"
)

// DiagKind is the type tag of a diagnostic.
type DiagKind uint8

const (
	LexError DiagKind = iota + 1
	SyntaxError
	ReferenceError
	Warning
)

var diagKindNames = [...]string{
	LexError:       "SyntaxError",
	SyntaxError:    "SyntaxError",
	ReferenceError: "ReferenceError",
	Warning:        "Warning",
}

func (k DiagKind) String() string {
	if int(k) < len(diagKindNames) && diagKindNames[k] != "" {
		return diagKindNames[k]
	}
	return "Error"
}

// Diagnostic is an error or warning produced by a parse session. Lex and
// syntax errors unwind the parser as panics carrying *Diagnostic.
type Diagnostic struct {
	Kind   DiagKind
	ID     MessageID
	Args   []string
	Offset int
	Line   int
	Column int
	// Span is the offending token.
	Span ast.Span
	File *source.File
}

// Message returns the formatted message text.
func (d *Diagnostic) Message() string {
	return d.ID.Format(d.Args...)
}

// Position returns the file position of the diagnostic.
func (d *Diagnostic) Position() source.FilePos {
	return source.FilePos{File: d.File, Offset: d.Offset, Line: d.Line, Column: d.Column}
}

// IsWarning reports whether the diagnostic does not fail the parse.
func (d *Diagnostic) IsWarning() bool {
	return d.Kind == Warning
}

func (d *Diagnostic) Error() string {
	pos := d.Position()
	if pos.FileName() != "" || pos.IsValid() {
		return fmt.Sprintf("%s: %s\n\tat %s", d.Kind, d.Message(), pos)
	}
	return fmt.Sprintf("%s: %s", d.Kind, d.Message())
}

// Format implements fmt.Formatter. The %+v verb prints the source
// excerpt under the message with a caret at the column; width and
// precision select the number of lines before and after.
func (d *Diagnostic) Format(f fmt.State, verb rune) {
	switch verb {
	case 'v':
		if f.Flag('+') && d.File != nil {
			var (
				up, _   = f.Width()
				down, _ = f.Precision()
			)
			fmt.Fprint(f, d.Error())
			f.Write([]byte{'\n'})
			d.Position().TraceLines(f, up, down)
		} else {
			f.Write([]byte(d.Error()))
		}
	case 's':
		f.Write([]byte(d.Error()))
	}
}

// Sink receives the diagnostics of a parse session.
type Sink interface {
	Report(d *Diagnostic)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(d *Diagnostic)

func (f SinkFunc) Report(d *Diagnostic) { f(d) }

type discard struct{}

func (discard) Report(*Diagnostic) {}

// ErrorList is a collection of diagnostics. It implements Sink.
type ErrorList []*Diagnostic

// Add adds a new diagnostic to the collection.
func (p *ErrorList) Add(d *Diagnostic) {
	*p = append(*p, d)
}

// Report implements Sink.
func (p *ErrorList) Report(d *Diagnostic) {
	p.Add(d)
}

// Len returns the number of elements in the collection.
func (p ErrorList) Len() int {
	return len(p)
}

func (p ErrorList) Swap(i, j int) {
	p[i], p[j] = p[j], p[i]
}

func (p ErrorList) Less(i, j int) bool {
	e, f := p[i], p[j]
	if en, fn := e.Position().FileName(), f.Position().FileName(); en != fn {
		return en < fn
	}
	if e.Offset != f.Offset {
		return e.Offset < f.Offset
	}
	return e.Message() < f.Message()
}

// Sort sorts the collection.
func (p ErrorList) Sort() {
	sort.Stable(p)
}

// Errors returns the diagnostics that are not warnings.
func (p ErrorList) Errors() (l ErrorList) {
	for _, d := range p {
		if !d.IsWarning() {
			l = append(l, d)
		}
	}
	return
}

// Warnings returns the warnings.
func (p ErrorList) Warnings() (l ErrorList) {
	for _, d := range p {
		if d.IsWarning() {
			l = append(l, d)
		}
	}
	return
}

func (p ErrorList) Format(f fmt.State, verb rune) {
	l := len(p)
	switch l {
	case 0:
		f.Write([]byte("no errors"))
	case 1:
		p[0].Format(f, verb)
	default:
		p[0].Format(f, verb)
		fmt.Fprintf(f, " (and %d more errors)", l-1)
	}
}

func (p ErrorList) Error() string {
	switch len(p) {
	case 0:
		return "no errors"
	case 1:
		return p[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", p[0], len(p)-1)
}

// Err returns an error equivalent to the error part of the list, or nil.
func (p ErrorList) Err() error {
	if l := p.Errors(); len(l) > 0 {
		return l
	}
	return nil
}

// String lists every diagnostic on its own line.
func (p ErrorList) String() string {
	s := make([]string, len(p))
	for i, d := range p {
		s[i] = d.Error()
	}
	return strings.Join(s, "\n")
}
