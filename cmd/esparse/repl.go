package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/gad-lang/esparse/parser"
	"github.com/gad-lang/esparse/parser/node"
	"github.com/gad-lang/esparse/parser/source"
)

const (
	historyFile = ".esparse_history"
	promptMain  = "es> "
	promptCont  = "... "
)

// replMode selects what the repl prints for a parsed entry.
type replMode int

const (
	replSource replMode = iota
	replTree
	replScopes
)

func newReplCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "parse entries interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := o.config(cmd)
			if err != nil {
				return err
			}
			home, _ := os.UserHomeDir()
			histPath := filepath.Join(home, historyFile)

			ln := liner.NewLiner()
			defer ln.Close()
			ln.SetCtrlCAborts(true)
			if f, err := os.Open(histPath); err == nil {
				_, _ = ln.ReadHistory(f)
				_ = f.Close()
			}
			defer func() {
				if f, err := os.Create(histPath); err == nil {
					_, _ = ln.WriteHistory(f)
					_ = f.Close()
				}
			}()

			r := &repl{o: o, cfg: cfg, out: cmd.OutOrStdout(), errOut: cmd.ErrOrStderr()}
			for n := 1; ; n++ {
				code, ok := r.read(ln, n)
				if !ok {
					fmt.Fprintln(r.out)
					return nil
				}
				trimmed := strings.TrimSpace(code)
				switch {
				case trimmed == "":
					continue
				case strings.HasPrefix(trimmed, ":"):
					if r.command(trimmed) {
						return nil
					}
					continue
				}
				r.eval(code, n)
				ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
			}
		},
	}
}

type repl struct {
	o      *options
	cfg    *parser.Config
	mode   replMode
	out    io.Writer
	errOut io.Writer
}

// incomplete reports whether every error of diags sits at the end of the
// input, so that more lines may complete the entry.
func incomplete(diags parser.ErrorList, size int) bool {
	errs := diags.Errors()
	if len(errs) == 0 {
		return false
	}
	for _, d := range errs {
		if d.Offset < size {
			return false
		}
	}
	return true
}

// read collects lines until they form an entry without errors at its end.
func (r *repl) read(ln *liner.State, n int) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			return "", false
		}
		if err != nil {
			return "", true
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") {
			return src, true
		}
		var diags parser.ErrorList
		parser.ParseProgram(source.NewFileString(entryName(n), src), r.cfg, &diags)
		if !incomplete(diags, len(src)) || line == "" {
			return src, true
		}
	}
}

// command runs a repl command. It reports whether the repl should exit.
func (r *repl) command(c string) bool {
	switch strings.ToLower(c) {
	case ":quit", ":q":
		return true
	case ":source":
		r.mode = replSource
	case ":tree":
		r.mode = replTree
	case ":scopes":
		r.mode = replScopes
	case ":module":
		r.cfg.Module = !r.cfg.Module
		fmt.Fprintf(r.out, "module %v\n", r.cfg.Module)
	case ":strict":
		r.cfg.Strict = !r.cfg.Strict
		fmt.Fprintf(r.out, "strict %v\n", r.cfg.Strict)
	default:
		fmt.Fprintln(r.out, "commands: :source :tree :scopes :module :strict :quit")
	}
	return false
}

func (r *repl) eval(code string, n int) {
	var diags parser.ErrorList
	prog := parser.ParseProgram(source.NewFileString(entryName(n), code), r.cfg, &diags)
	diags.Sort()
	if len(diags) > 0 {
		r.o.humanizer.Humanize(r.errOut, diags)
	}
	if prog == nil || len(diags.Errors()) > 0 {
		return
	}
	switch r.mode {
	case replTree:
		fmt.Fprint(r.out, node.Dump(prog))
	case replScopes:
		fmt.Fprint(r.out, prog.Scopes.Dump())
	default:
		fmt.Fprintln(r.out, prog.String())
	}
}

func entryName(n int) string {
	return fmt.Sprintf("(repl %d)", n)
}
