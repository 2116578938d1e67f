package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gad-lang/esparse/importers"
	"github.com/gad-lang/esparse/parser"
	"github.com/gad-lang/esparse/parser/node"
	"github.com/gad-lang/esparse/parser/scope"
	"github.com/gad-lang/esparse/parser/source"
	"github.com/gad-lang/esparse/token"
)

// errSyntax is returned once the diagnostics of a command were printed.
type errSyntax int

func (e errSyntax) Error() string {
	if e == 1 {
		return "1 syntax error"
	}
	return fmt.Sprintf("%d syntax errors", int(e))
}

// readSource reads the named file, or standard input for "-".
func readSource(cmd *cobra.Command, name string) (*source.File, error) {
	if name != "-" {
		return source.ReadFile(name)
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil, err
	}
	return source.NewFile("(stdin)", data), nil
}

// sourceArgs defaults an empty argument list to standard input.
func sourceArgs(args []string) []string {
	if len(args) == 0 {
		return []string{"-"}
	}
	return args
}

// parseEach parses every named source and calls fn with the parsed
// program. Diagnostics are printed to the command's error stream; the
// returned error counts the syntax errors of all sources. Programs with
// syntax errors reach fn only when o.recovered is set.
func (o *options) parseEach(cmd *cobra.Command, args []string, fn func(src *source.File, prog *node.Program, took time.Duration)) error {
	cfg, err := o.config(cmd)
	if err != nil {
		return err
	}
	var nerr int
	for _, name := range sourceArgs(args) {
		src, err := readSource(cmd, name)
		if err != nil {
			return err
		}
		var diags parser.ErrorList
		start := time.Now()
		prog := parser.ParseProgram(src, cfg, &diags)
		took := time.Since(start)
		diags.Sort()
		if len(diags) > 0 {
			o.humanizer.Humanize(cmd.ErrOrStderr(), diags)
		}
		errs := len(diags.Errors())
		nerr += errs
		if prog != nil && (errs == 0 || o.recovered) {
			fn(src, prog, took)
		}
	}
	if nerr > 0 {
		return errSyntax(nerr)
	}
	return nil
}

func newParseCmd(o *options) *cobra.Command {
	var tree, spans, stats bool
	cmd := &cobra.Command{
		Use:   "parse [file...]",
		Short: "print the parsed program",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			return o.parseEach(cmd, args, func(src *source.File, prog *node.Program, took time.Duration) {
				switch {
				case spans:
					fmt.Fprint(out, node.DumpSpans(prog))
				case tree:
					fmt.Fprint(out, node.Dump(prog))
				default:
					fmt.Fprintln(out, prog.String())
				}
				if stats {
					var nodes int64
					node.Inspect(prog, func(node.Node) bool {
						nodes++
						return true
					})
					var scopes int64
					prog.Scopes.Walk(func(scope.ID, *scope.Scope, int) { scopes++ })
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s, %s lines, %s nodes, %s scopes in %s\n",
						src.Name,
						humanize.Bytes(uint64(src.Size())),
						humanize.Comma(int64(src.LineCount())),
						humanize.Comma(nodes),
						humanize.Comma(scopes),
						took)
				}
			})
		},
	}
	f := cmd.Flags()
	f.BoolVarP(&tree, "tree", "t", false, "print the syntax tree")
	f.BoolVar(&spans, "spans", false, "print the syntax tree with source ranges")
	f.BoolVar(&stats, "stats", false, "print parse statistics to stderr")
	f.BoolVar(&o.recovered, "recovered", false, "print programs with syntax errors, with bad statements in place")
	return cmd
}

// regexpAllowed reports whether a slash after prev starts a regular
// expression rather than a division.
func regexpAllowed(prev token.Token) bool {
	switch prev {
	case token.Ident, token.PrivateName, token.Number, token.BigInt, token.String,
		token.NoSubstTemplate, token.TemplateTail, token.Regexp,
		token.RParen, token.RBrack, token.RBrace, token.Inc, token.Dec,
		token.This, token.Super, token.True, token.False, token.Null:
		return false
	}
	return true
}

func newTokensCmd(o *options) *cobra.Command {
	var eol bool
	cmd := &cobra.Command{
		Use:   "tokens [file]",
		Short: "print the token stream of a source",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			cfg, err := o.config(cmd)
			if err != nil {
				return err
			}
			src, err := readSource(cmd, sourceArgs(args)[0])
			if err != nil {
				return err
			}
			defer func() {
				if r := recover(); r != nil {
					d, ok := r.(*parser.Diagnostic)
					if !ok {
						panic(r)
					}
					o.humanizer.Humanize(cmd.ErrOrStderr(), d)
					err = errSyntax(1)
				}
			}()
			printTokens(cmd.OutOrStdout(), src, cfg, eol)
			return nil
		},
	}
	cmd.Flags().BoolVar(&eol, "eol", false, "report line terminators as tokens")
	return cmd
}

// printTokens writes one line per token: position, kind and text. It
// panics with a *parser.Diagnostic on a lexical error.
func printTokens(out io.Writer, src *source.File, cfg *parser.Config, eol bool) {
	tz := parser.NewTokenizer(src, cfg, nil)
	prev := token.Illegal
	for {
		var tok parser.Token
		if eol {
			tok = tz.NextOrEndOfLine()
		} else {
			tok = tz.Next()
		}
		if tok.Kind.Is(token.Div, token.DivAssign) && regexpAllowed(prev) {
			tok, _ = tz.RescanRegexp(tok)
		}
		pos := src.Position(tok.Pos())
		fmt.Fprintf(out, "%d:%d\t%s\t%q\n", pos.Line, pos.Column, tok.Kind, src.Slice(tok.Pos(), tok.End()))
		if tok.Kind == token.EOF {
			return
		}
		if !tok.Kind.Is(token.EOL, token.DirectiveComment) {
			prev = tok.Kind
		}
	}
}

func newScopesCmd(o *options) *cobra.Command {
	var free bool
	cmd := &cobra.Command{
		Use:   "scopes [file...]",
		Short: "print the scope tree of a source",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			return o.parseEach(cmd, args, func(src *source.File, prog *node.Program, _ time.Duration) {
				fmt.Fprint(out, prog.Scopes.Dump())
				if !free {
					return
				}
				for _, r := range prog.Scopes.At(prog.Scope).Unresolved() {
					if !r.IsFree() {
						continue
					}
					pos := src.Position(r.Pos)
					fmt.Fprintf(out, "free %s at %s:%d:%d\n", r.Name, src.Name, pos.Line, pos.Column)
				}
			})
		},
	}
	cmd.Flags().BoolVar(&free, "free", false, "list the references left unresolved at the top level")
	return cmd
}

func newCheckCmd(o *options) *cobra.Command {
	var follow, quiet bool
	cmd := &cobra.Command{
		Use:   "check [file...]",
		Short: "report the syntax errors of sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !follow {
				var n int
				err := o.parseEach(cmd, args, func(*source.File, *node.Program, time.Duration) { n++ })
				if err == nil && !quiet {
					fmt.Fprintf(cmd.OutOrStdout(), "%s ok\n", plural(n, "source"))
				}
				return err
			}

			cfg, err := o.config(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			var nerr int
			for _, entry := range args {
				g, err := importers.Load(ctx, entry, cfg)
				if err != nil {
					return err
				}
				for _, p := range g.Order {
					m := g.Modules[p]
					if len(m.Diags) > 0 {
						o.humanizer.Humanize(cmd.ErrOrStderr(), m.Diags)
					}
					for _, ext := range m.External {
						o.logger.Debug("external import", zap.String("module", p), zap.String("specifier", ext))
					}
				}
				errs := g.Errors()
				nerr += len(errs)
				if !quiet && len(errs) == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %s ok\n", entry, plural(len(g.Order), "module"))
				}
			}
			if nerr > 0 {
				return errSyntax(nerr)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.BoolVarP(&follow, "follow", "f", false, "load every module reachable through relative imports")
	f.BoolVarP(&quiet, "quiet", "q", false, "print diagnostics only")
	return cmd
}

func plural(n int, what string) string {
	if n == 1 {
		return "1 " + what
	}
	return humanize.Comma(int64(n)) + " " + what + "s"
}
