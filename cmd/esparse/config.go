package main

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/gad-lang/esparse/parser"
	"github.com/gad-lang/esparse/token"
)

// FileConfig is the YAML configuration file of the command. Unset fields
// keep the parser defaults.
type FileConfig struct {
	Version          *token.Version `yaml:"version"`
	Module           *bool          `yaml:"module"`
	Strict           *bool          `yaml:"strict"`
	Scripting        *bool          `yaml:"scripting"`
	BigInt           *bool          `yaml:"bigint"`
	AnnexB           *bool          `yaml:"annexb"`
	ImportAttributes *bool          `yaml:"import_attributes"`
	ImportAssertions *bool          `yaml:"import_assertions"`
	// SkipCache is the number of function bodies remembered between parses
	// of the repl and of check --follow; 0 disables the cache.
	SkipCache int `yaml:"skip_cache"`
	Context   struct {
		Up   int `yaml:"up"`
		Down int `yaml:"down"`
	} `yaml:"context"`
}

// LoadFileConfig reads the configuration file at path.
func LoadFileConfig(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config %s", path)
	}
	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}
	return &fc, nil
}

// Apply overlays the configured fields on cfg.
func (fc *FileConfig) Apply(cfg *parser.Config) error {
	if fc.Version != nil {
		cfg.Version = *fc.Version
	}
	set := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}
	set(&cfg.Module, fc.Module)
	set(&cfg.Strict, fc.Strict)
	set(&cfg.Scripting, fc.Scripting)
	set(&cfg.BigInt, fc.BigInt)
	set(&cfg.AnnexB, fc.AnnexB)
	set(&cfg.ImportAttributes, fc.ImportAttributes)
	set(&cfg.ImportAssertions, fc.ImportAssertions)
	if fc.SkipCache > 0 {
		sc, err := parser.NewSkipCache(fc.SkipCache)
		if err != nil {
			return err
		}
		cfg.SkipCache = sc
	}
	return nil
}
