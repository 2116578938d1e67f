// Command esparse parses ECMAScript sources and prints their syntax trees,
// tokens, scopes or diagnostics.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gad-lang/esparse/parser"
	"github.com/gad-lang/esparse/token"
)

// options are the flags shared by every command.
type options struct {
	configPath string
	version    string
	module     bool
	strict     bool
	scripting  bool
	noAnnexB   bool
	noBigInt   bool
	verbose    bool
	// recovered passes programs with syntax errors to the commands.
	recovered  bool

	logger    *zap.Logger
	humanizer *parser.ErrorHumanizing
}

// config builds the parser configuration: defaults, then the config file,
// then the flags that were set.
func (o *options) config(cmd *cobra.Command) (*parser.Config, error) {
	cfg := parser.NewConfig()
	o.humanizer = &parser.ErrorHumanizing{}
	if o.configPath != "" {
		fc, err := LoadFileConfig(o.configPath)
		if err != nil {
			return nil, err
		}
		if err := fc.Apply(cfg); err != nil {
			return nil, err
		}
		o.humanizer.Current = parser.UpDownLines{Up: fc.Context.Up, Down: fc.Context.Down}
	}

	flags := cmd.Flags()
	if flags.Changed("es") {
		v, err := token.ParseVersion(o.version)
		if err != nil {
			return nil, err
		}
		cfg.Version = v
	}
	if flags.Changed("module") {
		cfg.Module = o.module
	}
	if flags.Changed("strict") {
		cfg.Strict = o.strict
	}
	if flags.Changed("scripting") {
		cfg.Scripting = o.scripting
	}
	if o.noAnnexB {
		cfg.AnnexB = false
	}
	if o.noBigInt {
		cfg.BigInt = false
	}

	if o.logger == nil {
		l, err := newLogger(o.verbose)
		if err != nil {
			return nil, err
		}
		o.logger = l
	}
	cfg.Logger = o.logger
	return cfg, nil
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	o := &options{}
	root := &cobra.Command{
		Use:           "esparse",
		Short:         "parse ECMAScript sources and report syntax errors",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVarP(&o.configPath, "config", "c", "", "YAML configuration file")
	pf.StringVar(&o.version, "es", "esnext", "language version (es5, es2015 .. es2024, esnext)")
	pf.BoolVarP(&o.module, "module", "m", false, "parse sources as modules")
	pf.BoolVar(&o.strict, "strict", false, "parse scripts as strict code")
	pf.BoolVar(&o.scripting, "scripting", false, "enable shell scripting extensions")
	pf.BoolVar(&o.noAnnexB, "no-annexb", false, "disable web compatibility syntax")
	pf.BoolVar(&o.noBigInt, "no-bigint", false, "reject BigInt literals")
	pf.BoolVarP(&o.verbose, "verbose", "v", false, "log parse sessions to stderr")

	root.AddCommand(
		newParseCmd(o),
		newTokensCmd(o),
		newScopesCmd(o),
		newCheckCmd(o),
		newReplCmd(o),
	)
	return root
}

func main() {
	root := newRootCmd(os.Stdout, os.Stderr)
	if err := root.Execute(); err != nil {
		if _, ok := err.(errSyntax); !ok {
			fmt.Fprintln(os.Stderr, "esparse:", err)
		}
		os.Exit(1)
	}
}
