package parser

import (
	"github.com/dgryski/go-spooky"
	lru "github.com/hashicorp/golang-lru"

	"github.com/gad-lang/esparse/parser/scope"
	"github.com/gad-lang/esparse/token"
)

// DefaultSkipCacheSize is the number of function bodies a skip cache
// created with size 0 remembers.
const DefaultSkipCacheSize = 4096

// SkipCache remembers where the function bodies of previously parsed texts
// end, keyed by a hash of the text, the offset of the opening brace and the
// session settings the body was checked under. A
// session configured with a cache skips the bodies it finds there instead
// of parsing them again. It is safe for concurrent use.
type SkipCache struct {
	cache *lru.Cache
}

type skipKey struct {
	hash  uint64
	start int
	env   skipEnv
}

// skipEnv holds the settings that decide which errors a body can raise. A
// body checked under one environment is never skipped under another.
type skipEnv struct {
	version token.Version
	mode    Mode
	opts    uint8
}

const (
	envStrict uint8 = 1 << iota
	envModule
	envScripting
	envAnnexB
	envBigInt
	envImportAttributes
	envImportAssertions
)

// skipRecord is what a skipped body contributes to the enclosing scopes.
type skipRecord struct {
	end   int
	flags scope.Flags
}

// replayFlags are the body scope flags restored when a body is skipped.
const replayFlags = scope.Strict | scope.ContainsDirectEval | scope.ContainsClosure |
	scope.UsesThis | scope.UsesArguments | scope.UsesNewTarget | scope.UsesSuper | scope.UsesSuperCall

// NewSkipCache creates a cache holding up to size bodies.
func NewSkipCache(size int) (*SkipCache, error) {
	if size <= 0 {
		size = DefaultSkipCacheSize
	}
	c, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &SkipCache{cache: c}, nil
}

// Hash returns the content hash used to key the bodies of data.
func (c *SkipCache) Hash(data []byte) uint64 {
	return spooky.Hash64(data)
}

// Len returns the number of remembered bodies.
func (c *SkipCache) Len() int {
	return c.cache.Len()
}

// Purge forgets every body.
func (c *SkipCache) Purge() {
	c.cache.Purge()
}

func (c *SkipCache) lookup(hash uint64, start int, env skipEnv) (skipRecord, bool) {
	v, ok := c.cache.Get(skipKey{hash, start, env})
	if !ok {
		return skipRecord{}, false
	}
	return v.(skipRecord), true
}

func (c *SkipCache) store(hash uint64, start int, env skipEnv, r skipRecord) {
	c.cache.Add(skipKey{hash, start, env}, r)
}

// bodyEnv returns the environment of a body starting at the current token.
func (p *Parser) bodyEnv() skipEnv {
	env := skipEnv{version: p.cfg.Version, mode: p.mode}
	set := func(on bool, bit uint8) {
		if on {
			env.opts |= bit
		}
	}
	set(p.strict(), envStrict)
	set(p.module, envModule)
	set(p.cfg.Scripting, envScripting)
	set(p.cfg.AnnexB, envAnnexB)
	set(p.cfg.BigInt, envBigInt)
	set(p.cfg.ImportAttributes, envImportAttributes)
	set(p.cfg.ImportAssertions, envImportAssertions)
	return env
}
