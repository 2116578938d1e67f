package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gad-lang/esparse/token"
)

// countSource emits identifiers whose start is their sequence number.
type countSource struct {
	kind token.Token
	n    int
}

func (s *countSource) NextOrEndOfLine() Token {
	s.n++
	return makeToken(s.kind, 0, s.n-1, s.n)
}

func TestTokenBuffer_Grow(t *testing.T) {
	b := newTokenBuffer(&countSource{kind: token.Ident})
	require.Equal(t, 100, b.Get(100).Pos())
	require.Equal(t, 0, b.Get(0).Pos())
	require.Equal(t, 101, b.Len())
	require.Equal(t, 101, b.Buffered())
	for i := 0; i <= 100; i++ {
		require.Equal(t, i, b.Get(i).Pos())
	}
}

func TestTokenBuffer_Commit(t *testing.T) {
	b := newTokenBuffer(&countSource{kind: token.Ident})
	b.Get(100)
	b.Commit(1000)
	require.Equal(t, 101, b.committed)
	b.Commit(50)
	require.Equal(t, 101, b.committed)

	require.Equal(t, 1000, b.Get(1000).Pos())
	require.LessOrEqual(t, b.Buffered(), len(b.ring))
	require.Panics(t, func() { b.Get(50) })
	require.Panics(t, func() { b.Truncate(50) })
}

func TestTokenBuffer_Truncate(t *testing.T) {
	src := &countSource{kind: token.Ident}
	b := newTokenBuffer(src)
	b.Get(9)
	b.Truncate(5)
	require.Equal(t, 5, b.Len())
	// truncated tokens are pulled again from the source
	require.Equal(t, 10, b.Get(5).Pos())
	require.Equal(t, 4, b.Get(4).Pos())

	b.Replace(3, makeToken(token.RBrace, 0, 42, 43))
	require.Equal(t, 4, b.Len())
	require.Equal(t, token.RBrace, b.Get(3).Kind)
	require.Equal(t, 11, b.Get(4).Pos())

	b = newTokenBuffer(&countSource{kind: token.Ident})
	b.Replace(5, makeToken(token.RBrace, 0, 42, 43))
	require.Equal(t, 6, b.Len())
	require.Equal(t, 4, b.Get(4).Pos())
	require.Equal(t, 42, b.Get(5).Pos())
}

func TestTokenBuffer_Nest(t *testing.T) {
	b := newTokenBuffer(&countSource{kind: token.Ident})
	b.Get(2)
	b.Commit(1)

	first := b.Nest(&countSource{kind: token.Number, n: 500})
	require.Equal(t, 3, first)
	require.Equal(t, token.Number, b.Get(first).Kind)
	require.Equal(t, 500, b.Get(first).Pos())
	b.Commit(4)
	require.Equal(t, 1, b.committed)

	b.Unnest()
	require.Equal(t, 3, b.Len())
	require.Equal(t, token.Ident, b.Get(3).Kind)
	require.Equal(t, 3, b.Get(3).Pos())
}
