/*
Package grammar assembles symbols and rules (package symbol) into an
immutable Grammar: a finalized, read-only bundle a Recognizer can share
across any number of parses.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package grammar

import (
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/exp/slices"

	"github.com/rodolf0/earleygo/symbol"
)

func tracer() tracing.Trace {
	return tracing.Select("earleygo.grammar")
}

// Grammar is an immutable bundle of symbols, rules, a start symbol and a
// precomputed nullable set, per spec.md §3. Build one with a Builder; there
// is no public way to construct a Grammar directly, so every Grammar in
// circulation has already passed Builder.Build's invariant checks.
type Grammar struct {
	symbols    map[string]*symbol.Symbol
	rules      []*symbol.Rule
	rulesByLHS map[string][]*symbol.Rule
	start      *symbol.Symbol
	nullable   map[string]bool
}

// Start returns the grammar's designated start nonterminal.
func (g *Grammar) Start() *symbol.Symbol {
	return g.start
}

// Rules returns every rule in the grammar, in declaration order. The slice
// is owned by the Grammar; callers must not mutate it.
func (g *Grammar) Rules() []*symbol.Rule {
	return g.rules
}

// Rule returns the grammar's idx'th rule (0-indexed, in declaration order),
// or nil if idx is out of range. Build adds no rules of its own, so Rule(0)
// is the first rule the caller added.
func (g *Grammar) Rule(idx int) *symbol.Rule {
	if idx < 0 || idx >= len(g.rules) {
		return nil
	}
	return g.rules[idx]
}

// RulesFor returns the rules headed by the nonterminal named name, in
// declaration order, or nil if there are none (which is legal — spec.md
// §4.B: "No rule is required to exist for every nonterminal").
func (g *Grammar) RulesFor(name string) []*symbol.Rule {
	return g.rulesByLHS[name]
}

// Symbol looks up a declared symbol by name.
func (g *Grammar) Symbol(name string) (*symbol.Symbol, bool) {
	s, ok := g.symbols[name]
	return s, ok
}

// EachSymbol calls fn once for every declared symbol, in an unspecified
// order. Intended for debugging/dumping, not for anything order-sensitive.
func (g *Grammar) EachSymbol(fn func(*symbol.Symbol)) {
	for _, s := range g.symbols {
		fn(s)
	}
}

// IsNullable reports whether the named nonterminal derives the empty
// string, i.e. whether it is a member of the nullable set computed at
// Build time (spec.md §4.B).
func (g *Grammar) IsNullable(name string) bool {
	return g.nullable[name]
}

// SymbolNames returns every declared symbol's name, sorted. EachSymbol's
// map-backed iteration order is unspecified, which makes debugging output
// (dumping a whole grammar, including the anonymous `<Uniq-N>` symbols the
// EBNF front-end mints) hard to diff across runs; sort once here instead of
// asking every caller to do it themselves.
func (g *Grammar) SymbolNames() []string {
	names := make([]string, 0, len(g.symbols))
	for name := range g.symbols {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
