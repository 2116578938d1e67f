// Copyright (c) 2020-2023 Ozan Hacıbekiroğlu.
// Use of this source code is governed by a MIT License
// that can be found in the LICENSE file.

package source

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// FilePos represents a position information in the file.
type FilePos struct {
	File   *File // filename, if any
	Offset int   // offset, starting at 0
	Line   int   // line number, starting at 1
	Column int   // column number, starting at 1 (byte count)
}

// IsValid returns true if the position is valid.
func (p FilePos) IsValid() bool {
	return p.Line > 0
}

func (p FilePos) FileName() string {
	if p.File != nil {
		return p.File.Name
	}
	return ""
}

// String returns a string in one of several forms:
//
//	file:line:column    valid position with file name
//	line:column         valid position without file name
//	file                invalid position with file name
//	-                   invalid position without file name
func (p FilePos) String() string {
	s := p.FileName()

	if p.IsValid() {
		if s != "" {
			s += ":"
		}
		s += fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	if s == "" {
		s = "-"
	}
	return s
}

func (p FilePos) TraceLines(w io.Writer, up, down int) {
	if p.File != nil {
		p.File.TraceLines(w, p.Line, p.Column, up, down)
	}
}

// File is an immutable source text. Line starts are computed on the first
// position lookup.
type File struct {
	// Name is the file name used in positions; a directive comment
	// may override it
	Name string
	// Data is the source text
	Data []byte
	// lines contains the offset of the first character for each line
	// (the first entry is always 0)
	lines []int
}

// NewFile creates a file.
func NewFile(name string, data []byte) *File {
	return &File{Name: name, Data: data}
}

// NewFileString creates a file from string.
func NewFileString(name, data string) *File {
	return NewFile(name, []byte(data))
}

// ReadFile reads the named file.
func ReadFile(name string) (*File, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrapf(err, "read source %q", name)
	}
	return NewFile(name, data), nil
}

// Size returns the source length in bytes.
func (f *File) Size() int {
	return len(f.Data)
}

// Slice returns the text in [start, end).
func (f *File) Slice(start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(f.Data) {
		end = len(f.Data)
	}
	if start >= end {
		return ""
	}
	return string(f.Data[start:end])
}

func (f *File) check() {
	if f.lines != nil {
		return
	}
	f.lines = []int{0}
	data := f.Data
	for i := 0; i < len(data); i++ {
		switch c := data[i]; c {
		case '\n':
			f.lines = append(f.lines, i+1)
		case '\r':
			if i+1 < len(data) && data[i+1] == '\n' {
				i++
			}
			f.lines = append(f.lines, i+1)
		case 0xE2:
			// U+2028 and U+2029
			if i+2 < len(data) && data[i+1] == 0x80 && (data[i+2] == 0xA8 || data[i+2] == 0xA9) {
				i += 2
				f.lines = append(f.lines, i+1)
			}
		}
	}
}

// LineCount returns the number of lines.
func (f *File) LineCount() int {
	f.check()
	return len(f.lines)
}

// LineStart returns the offset of the first character in the line, or -1.
func (f *File) LineStart(line int) int {
	f.check()
	if line < 1 || line > len(f.lines) {
		return -1
	}
	return f.lines[line-1]
}

// Position translates the offset into the file position.
func (f *File) Position(offset int) (pos FilePos) {
	f.check()
	if offset < 0 {
		offset = 0
	} else if offset > len(f.Data) {
		offset = len(f.Data)
	}
	pos.File = f
	pos.Offset = offset
	if i := searchInts(f.lines, offset); i >= 0 {
		pos.Line, pos.Column = i+1, offset-f.lines[i]+1
	}
	return
}

// Line returns the line of given offset.
func (f *File) Line(offset int) int {
	return f.Position(offset).Line
}

// LineData return line data without the line terminator.
func (f *File) LineData(line int) (d []byte, valid bool) {
	start := f.LineStart(line)
	if start < 0 {
		return nil, false
	}
	end := len(f.Data)
	if next := f.LineStart(line + 1); next >= 0 {
		end = next
	}
	d = f.Data[start:end]
	for len(d) > 0 {
		if c := d[len(d)-1]; c == '\n' || c == '\r' {
			d = d[:len(d)-1]
			continue
		}
		if r, w := utf8.DecodeLastRune(d); r == '\u2028' || r == '\u2029' {
			d = d[:len(d)-w]
			continue
		}
		break
	}
	return d, true
}

// LineSliceData return slice data of lines
func (f *File) LineSliceData(lineStart, count int) (s []*LineData) {
	for i := 0; i < count; i++ {
		if d, ok := f.LineData(lineStart + i); ok {
			s = append(s, &LineData{
				Line: lineStart + i,
				Data: d,
			})
		}
	}
	return
}

// LineSliceDataUpDown returns data of line and slices of up and down lines
func (f *File) LineSliceDataUpDown(line, upCount, downCount int) (up, down []*LineData, s []byte) {
	var ok bool
	if s, ok = f.LineData(line); !ok {
		return
	}

	if line > 1 {
		firstLine := line - upCount
		if firstLine < 1 {
			firstLine = 1
		}

		up = f.LineSliceData(firstLine, line-firstLine)
	}

	if lastLine := f.LineCount(); line < lastLine {
		endLine := line + downCount
		if endLine > lastLine {
			endLine = lastLine
		}
		down = f.LineSliceData(line+1, endLine-line)
	}

	return
}

// TraceLines writes the line with a caret under column, surrounded by up
// lines before and down lines after.
func (f *File) TraceLines(s io.Writer, line, column, up, down int) {
	upl, downl, l := f.LineSliceDataUpDown(line, up, down)
	s.Write([]byte{'\n'})

	var (
		linef = "\t%5d| "
		lines []string
		add   = func(s ...*LineData) {
			for _, l := range s {
				lines = append(lines, fmt.Sprintf(linef+"%s", l.Line, string(l.Data)))
			}
		}
	)

	add(upl...)
	add(&LineData{Line: line, Data: l})

	var (
		prefixCount = len(fmt.Sprintf(linef, line))
		caret       strings.Builder
	)

	caret.WriteByte('\t')
	for i := 1; i < prefixCount; i++ {
		caret.WriteByte(' ')
	}

	for i := 0; i < column-1 && i < len(l); i++ {
		if l[i] == '\t' {
			caret.WriteByte('\t')
		} else {
			caret.WriteByte(' ')
		}
	}
	caret.WriteByte('^')
	lines = append(lines, caret.String())
	add(downl...)
	s.Write([]byte(strings.Join(lines, "\n")))
}

type LineData struct {
	Line int
	Data []byte
}

func searchInts(a []int, x int) int {
	// This function body is a manually inlined version of:
	//   return sort.Search(len(a), func(i int) bool { return a[i] > x }) - 1
	i, j := 0, len(a)
	for i < j {
		h := i + (j-i)/2 // avoid overflow when computing h
		// i ≤ h < j
		if a[h] <= x {
			i = h + 1
		} else {
			j = h
		}
	}
	return i - 1
}
