/*
Command earleygoc compiles an EBNF grammar file and prints its canonical
rules — a one-shot, non-interactive exercise of the earleygo façade from
outside a test binary. It is explicitly not a REPL: it reads one file,
optionally parses one token list, and exits.
*/
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rodolf0/earleygo"
	"github.com/rodolf0/earleygo/earley"
)

func main() {
	var start string
	var tokens string
	var showTree bool
	var sexpr bool
	var showSymbols bool

	rootCmd := &cobra.Command{
		Use:   "earleygoc <grammar.ebnf>",
		Short: "Compile and validate an EBNF grammar, printing its canonical rules",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0], start, tokens, showTree, sexpr, showSymbols)
		},
	}
	rootCmd.Flags().StringVar(&start, "start", "", "start symbol (required)")
	rootCmd.Flags().StringVar(&tokens, "tokens", "", "comma-separated lexeme list for a sample parse")
	rootCmd.Flags().BoolVar(&showTree, "tree", false, "print a derivation tree for --tokens")
	rootCmd.Flags().BoolVar(&sexpr, "sexpr", false, "collapse single-child reductions in --tree output")
	rootCmd.Flags().BoolVar(&showSymbols, "symbols", false, "print every declared symbol name, sorted")
	rootCmd.MarkFlagRequired("start")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "earleygoc:", err)
		os.Exit(1)
	}
}

func run(path, start, tokens string, showTree, sexpr, showSymbols bool) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	pb := earleygo.NewParserBuilder()
	p, err := pb.IntoParser(start, string(source))
	if err != nil {
		return fmt.Errorf("compile %s: %w", path, err)
	}

	g := p.Grammar()
	for _, r := range g.Rules() {
		fmt.Println(r.String())
	}

	if showSymbols {
		fmt.Println("symbols:", strings.Join(g.SymbolNames(), ", "))
	}

	if tokens == "" {
		return nil
	}
	lexemes := strings.Split(tokens, ",")
	for i, l := range lexemes {
		lexemes[i] = strings.TrimSpace(l)
	}

	if !showTree {
		chart, err := p.Parse(earley.NewSliceSource(lexemes))
		if err != nil {
			return fmt.Errorf("parse: %w", err)
		}
		fmt.Printf("accepted: %d state sets, %d accepting item(s)\n", chart.Len(), len(chart.Accepting()))
		return nil
	}

	builder := earleygo.TreeBuilder(g)
	if sexpr {
		builder = earleygo.SexprBuilder(g)
	}
	trees, err := builder(earley.NewSliceSource(lexemes))
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	for i, t := range trees {
		if len(trees) > 1 {
			fmt.Printf("-- derivation %d --\n", i+1)
		}
		if err := earleygo.PrintTree(t); err != nil {
			return fmt.Errorf("print tree: %w", err)
		}
	}
	return nil
}
