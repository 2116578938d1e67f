// Copyright (c) 2020-2023 Ozan Hacıbekiroğlu.
// Use of this source code is governed by a MIT License
// that can be found in the LICENSE file.

package parser

import (
	"io"

	"go.uber.org/zap"

	"github.com/gad-lang/esparse/token"
)

// Mode value is a set of flags for a parse session.
type Mode uint16

func (b *Mode) Set(flag Mode) *Mode    { *b = *b | flag; return b }
func (b *Mode) Clear(flag Mode) *Mode  { *b = *b &^ flag; return b }
func (b *Mode) Toggle(flag Mode) *Mode { *b = *b ^ flag; return b }
func (b Mode) Has(flag Mode) bool      { return b&flag != 0 }

const (
	// Recover reports syntax errors and resumes at the next statement
	// instead of aborting.
	Recover Mode = 1 << iota
	// AllowReturn accepts return statements at the top level.
	AllowReturn
	// AllowNewTarget accepts new.target outside of functions.
	AllowNewTarget
	// AllowSuperProperty accepts super.x outside of methods.
	AllowSuperProperty
	// AllowSuperCall accepts super() outside of constructors.
	AllowSuperCall
	// TopLevelAsync makes await a keyword at the top level.
	TopLevelAsync
	// TopLevelGenerator makes yield a keyword at the top level.
	TopLevelGenerator
)

// Config selects the language version and the optional syntax of a parse
// session.
type Config struct {
	// Version gates the grammar productions.
	Version token.Version
	// Strict starts every unit in strict mode.
	Strict bool
	// Scripting enables shell friendly extensions: here-strings, edit
	// strings, shebang lines and for each loops.
	Scripting bool
	// Module parses programs as modules.
	Module bool
	// BigInt accepts BigInt literals.
	BigInt bool
	// AnnexB enables legacy web compatibility rules.
	AnnexB bool
	// ImportAttributes accepts `with {...}` clauses on imports.
	ImportAttributes bool
	// ImportAssertions accepts the legacy `assert {...}` spelling.
	ImportAssertions bool

	// Trace receives the grammar trace when not nil.
	Trace io.Writer
	// Logger receives session events at debug level.
	Logger *zap.Logger
	// SkipCache enables lazy skipping of function bodies parsed before.
	SkipCache *SkipCache
}

// NewConfig returns the default configuration: latest language version,
// BigInt, import attributes and Annex-B enabled.
func NewConfig() *Config {
	return &Config{
		Version:          token.ESNext,
		BigInt:           true,
		AnnexB:           true,
		ImportAttributes: true,
		Logger:           zap.NewNop(),
	}
}

func (c *Config) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

// Feature is an optional grammar production.
type Feature uint8

const (
	FeatureArrows Feature = iota
	FeatureLexical
	FeatureClasses
	FeatureGenerators
	FeatureDestructuring
	FeatureSpread
	FeatureTemplates
	FeatureForOf
	FeatureModules
	FeatureNewTarget
	FeatureExponent
	FeatureAsync
	FeatureAsyncIteration
	FeatureObjectRestSpread
	FeatureOptionalCatch
	FeatureDynamicImport
	FeatureImportMeta
	FeatureBigInt
	FeatureOptionalChaining
	FeatureNullish
	FeatureLogicalAssign
	FeatureNumericSeparators
	FeatureClassFields
	FeaturePrivateNames
	FeatureStaticBlocks
	FeatureTopLevelAwait
	FeaturePrivateIn
	FeatureHashbang
	FeatureDecorators
	FeatureES5BlockFunctions
)

var featureVersions = [...]token.Version{
	FeatureArrows:            token.ES2015,
	FeatureLexical:           token.ES2015,
	FeatureClasses:           token.ES2015,
	FeatureGenerators:        token.ES2015,
	FeatureDestructuring:     token.ES2015,
	FeatureSpread:            token.ES2015,
	FeatureTemplates:         token.ES2015,
	FeatureForOf:             token.ES2015,
	FeatureModules:           token.ES2015,
	FeatureNewTarget:         token.ES2015,
	FeatureExponent:          token.ES2016,
	FeatureAsync:             token.ES2017,
	FeatureAsyncIteration:    token.ES2018,
	FeatureObjectRestSpread:  token.ES2018,
	FeatureOptionalCatch:     token.ES2019,
	FeatureDynamicImport:     token.ES2020,
	FeatureImportMeta:        token.ES2020,
	FeatureBigInt:            token.ES2020,
	FeatureOptionalChaining:  token.ES2020,
	FeatureNullish:           token.ES2020,
	FeatureLogicalAssign:     token.ES2021,
	FeatureNumericSeparators: token.ES2021,
	FeatureClassFields:       token.ES2022,
	FeaturePrivateNames:      token.ES2022,
	FeatureStaticBlocks:      token.ES2022,
	FeatureTopLevelAwait:     token.ES2022,
	FeaturePrivateIn:         token.ES2022,
	FeatureHashbang:          token.ES2023,
	FeatureDecorators:        token.ESNext,
	FeatureES5BlockFunctions: token.ES2015,
}

var featureNames = [...]string{
	FeatureArrows:            "arrow functions",
	FeatureLexical:           "lexical declarations",
	FeatureClasses:           "classes",
	FeatureGenerators:        "generators",
	FeatureDestructuring:     "destructuring",
	FeatureSpread:            "spread elements",
	FeatureTemplates:         "template literals",
	FeatureForOf:             "for-of loops",
	FeatureModules:           "modules",
	FeatureNewTarget:         "new.target",
	FeatureExponent:          "exponentiation",
	FeatureAsync:             "async functions",
	FeatureAsyncIteration:    "async iteration",
	FeatureObjectRestSpread:  "object rest and spread",
	FeatureOptionalCatch:     "optional catch binding",
	FeatureDynamicImport:     "dynamic import",
	FeatureImportMeta:        "import.meta",
	FeatureBigInt:            "BigInt literals",
	FeatureOptionalChaining:  "optional chaining",
	FeatureNullish:           "nullish coalescing",
	FeatureLogicalAssign:     "logical assignment",
	FeatureNumericSeparators: "numeric separators",
	FeatureClassFields:       "class fields",
	FeaturePrivateNames:      "private names",
	FeatureStaticBlocks:      "class static blocks",
	FeatureTopLevelAwait:     "top level await",
	FeaturePrivateIn:         "private brand checks",
	FeatureHashbang:          "hashbang comments",
	FeatureDecorators:        "decorators",
	FeatureES5BlockFunctions: "block level functions",
}

func (f Feature) String() string {
	if int(f) < len(featureNames) {
		return featureNames[f]
	}
	return "feature?"
}

// MinVersion returns the first language version supporting the feature.
func (f Feature) MinVersion() token.Version {
	return featureVersions[f]
}

// Allows reports whether the configuration enables the feature.
func (c *Config) Allows(f Feature) bool {
	switch f {
	case FeatureBigInt:
		return c.BigInt && c.Version >= token.ES2020
	case FeatureHashbang:
		return c.Scripting || c.Version >= token.ES2023
	}
	return c.Version >= featureVersions[f]
}
