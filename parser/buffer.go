package parser

// tokenSource produces the token stream, end-of-line markers included.
type tokenSource interface {
	NextOrEndOfLine() Token
}

// tokenBuffer is a growable ring of token descriptors addressed by the
// index of the token since the start of the session. Tokens from the
// committed watermark on are kept; slots below it are recycled.
type tokenBuffer struct {
	ring      []Token
	head      int // oldest retained index
	tail      int // next index to fill
	committed int
	src       tokenSource
	nest      []nestMark
}

type nestMark struct {
	src       tokenSource
	tail      int
	committed int
}

const initialBufferSize = 64

func newTokenBuffer(src tokenSource) *tokenBuffer {
	return &tokenBuffer{ring: make([]Token, initialBufferSize), src: src}
}

// Get returns the i-th token, pulling tokens from the source as needed.
func (b *tokenBuffer) Get(i int) Token {
	if i < b.head {
		panic("token buffer: index below the committed watermark")
	}
	for i >= b.tail {
		b.fill()
	}
	return b.ring[i&(len(b.ring)-1)]
}

// Len returns the number of tokens pulled so far.
func (b *tokenBuffer) Len() int {
	return b.tail
}

// Buffered returns the number of retained tokens.
func (b *tokenBuffer) Buffered() int {
	return b.tail - b.head
}

func (b *tokenBuffer) fill() {
	if b.tail-b.head == len(b.ring) {
		if b.committed > b.head {
			b.head = b.committed
		}
		if b.tail-b.head == len(b.ring) {
			b.grow()
		}
	}
	t := b.src.NextOrEndOfLine()
	b.ring[b.tail&(len(b.ring)-1)] = t
	b.tail++
}

func (b *tokenBuffer) grow() {
	ring := make([]Token, 2*len(b.ring))
	for i := b.head; i < b.tail; i++ {
		ring[i&(len(ring)-1)] = b.ring[i&(len(b.ring)-1)]
	}
	b.ring = ring
}

// Commit moves the watermark to k: no index below k will be read again.
// Commits are ignored while a nested source is active.
func (b *tokenBuffer) Commit(k int) {
	if len(b.nest) > 0 {
		return
	}
	if k > b.tail {
		k = b.tail
	}
	if k > b.committed {
		b.committed = k
	}
}

// Truncate drops the tokens from index i on; they are pulled again from
// the source.
func (b *tokenBuffer) Truncate(i int) {
	if i < b.committed || i < b.head {
		panic("token buffer: truncate below the committed watermark")
	}
	if i < b.tail {
		b.tail = i
	}
}

// Replace truncates the buffer at i and stores t there.
func (b *tokenBuffer) Replace(i int, t Token) {
	b.Truncate(i)
	for b.tail < i {
		b.fill()
	}
	if b.tail-b.head == len(b.ring) {
		b.grow()
	}
	b.ring[b.tail&(len(b.ring)-1)] = t
	b.tail++
}

// Nest makes src the active source. Its tokens are appended after the
// tokens already buffered; the index of the first one is returned.
func (b *tokenBuffer) Nest(src tokenSource) int {
	b.nest = append(b.nest, nestMark{src: b.src, tail: b.tail, committed: b.committed})
	b.src = src
	return b.tail
}

// Unnest drops the tokens of the innermost nested source and restores
// the outer one.
func (b *tokenBuffer) Unnest() {
	n := len(b.nest) - 1
	m := b.nest[n]
	b.nest = b.nest[:n]
	b.src = m.src
	b.tail = m.tail
	b.committed = m.committed
}
