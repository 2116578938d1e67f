package source

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFile_Position(t *testing.T) {
	f := NewFileString("test.js", "a\nbc\r\nd\re\u2028f")
	require.Equal(t, 5, f.LineCount())

	for _, tt := range []struct {
		offset, line, column int
	}{
		{0, 1, 1},
		{2, 2, 1},
		{3, 2, 2},
		{6, 3, 1},
		{8, 4, 1},
		{12, 5, 1}, // after the 3 byte separator
		{100, 5, 2},
	} {
		pos := f.Position(tt.offset)
		require.Equal(t, tt.line, pos.Line, "offset %d", tt.offset)
		require.Equal(t, tt.column, pos.Column, "offset %d", tt.offset)
	}
	require.Equal(t, "test.js:2:2", f.Position(3).String())
	require.Equal(t, "-", FilePos{}.String())
}

func TestFile_LineData(t *testing.T) {
	f := NewFileString("", "i j\nk\r\nl\n")
	for line, want := range map[int]string{1: "i j", 2: "k", 3: "l", 4: ""} {
		d, ok := f.LineData(line)
		require.True(t, ok)
		require.Equal(t, want, string(d), "line %d", line)
	}
	_, ok := f.LineData(5)
	require.False(t, ok)
	_, ok = f.LineData(0)
	require.False(t, ok)
}

func TestFile_TraceLines(t *testing.T) {
	f := NewFileString("x.js", "let a = 1;\nlet b = ;\nlet c = 3;")
	var buf bytes.Buffer
	f.Position(19).TraceLines(&buf, 1, 1)
	require.Equal(t, "\n\t    1| let a = 1;\n\t    2| let b = ;\n\t"+strings.Repeat(" ", 15)+"^\n\t    3| let c = 3;", buf.String())
}

func TestCursor(t *testing.T) {
	c := NewCursor([]byte("aé\U0001F600z"))
	require.Equal(t, 'a', c.Ch)
	require.Equal(t, 'é', c.Peek(1))
	require.Equal(t, '\U0001F600', c.Peek(2))
	require.Equal(t, 'z', c.Peek(3))
	require.Equal(t, EOF, c.Peek(4))

	m := c.Mark()
	c.Next()
	require.Equal(t, 'é', c.Ch)
	require.Equal(t, 1, c.Offset)
	c.Next()
	require.Equal(t, 3, c.Offset)
	c.Reset(m)
	require.Equal(t, 'a', c.Ch)

	restore := c.Limit(1, 3)
	require.Equal(t, 'é', c.Ch)
	c.Next()
	require.True(t, c.AtEOF())
	require.Equal(t, 3, c.Offset)
	c.Reset(restore)
	require.Equal(t, 0, c.Offset)
	require.Equal(t, 8, c.End())
	require.True(t, c.Is("aé"))
	c.Skip(10)
	require.True(t, c.AtEOF())
}
