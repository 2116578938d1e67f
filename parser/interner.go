package parser

// Interner deduplicates identifier and string text for a parse session.
// Every tokenizer of the session shares one interner, so equal names are
// equal strings backed by the same storage.
type Interner struct {
	m map[string]string
}

// NewInterner creates an empty interner.
func NewInterner() *Interner {
	return &Interner{m: map[string]string{}}
}

// Intern returns the shared copy of b.
func (in *Interner) Intern(b []byte) string {
	if s, ok := in.m[string(b)]; ok {
		return s
	}
	s := string(b)
	in.m[s] = s
	return s
}

// InternString returns the shared copy of s.
func (in *Interner) InternString(s string) string {
	if v, ok := in.m[s]; ok {
		return v
	}
	in.m[s] = s
	return s
}

// Len returns the number of distinct strings.
func (in *Interner) Len() int {
	return len(in.m)
}
