package grammar

import (
	"strconv"

	"github.com/rodolf0/earleygo/symbol"
)

// Builder accumulates symbol declarations and rules, then finalizes into an
// immutable Grammar. Declare every symbol referenced by a rule body or used
// as a start symbol before calling Build; Build resolves all references
// eagerly and fails terminally if any are missing (spec.md §4.B).
type Builder struct {
	symbols map[string]*symbol.Symbol
	rules   []pendingRule
}

// pendingRule defers symbol resolution until Build, so that an EBNF
// compiler (package ebnf) can add rules referencing nonterminals it hasn't
// produced a declaration for yet within the same desugaring pass.
type pendingRule struct {
	head string
	body []string
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{symbols: make(map[string]*symbol.Symbol)}
}

// Nonterminal declares (or re-fetches) name as a nonterminal and returns it.
// Calling it twice for the same name is idempotent as long as the symbol
// was not already declared as a terminal.
func (b *Builder) Nonterminal(name string) *symbol.Symbol {
	if s, ok := b.symbols[name]; ok && !s.IsTerminal() {
		return s
	}
	s := symbol.Nonterminal(name)
	b.symbols[name] = s
	return s
}

// Terminal declares name as a terminal classified by predicate and returns
// it. Per spec.md §6, "redeclaration replaces": calling Terminal again for
// a name already declared swaps in the new predicate. Rules are resolved by
// name at Build time, so every rule of a later Build uses the new symbol,
// including rules added before the redeclaration; a Grammar already built
// keeps the *Symbol it was built with, since a Symbol is immutable once
// handed out.
func (b *Builder) Terminal(name string, predicate symbol.Predicate) *symbol.Symbol {
	s := symbol.Terminal(name, predicate)
	b.symbols[name] = s
	return s
}

// HasSymbol reports whether name has been declared, as either kind.
func (b *Builder) HasSymbol(name string) bool {
	_, ok := b.symbols[name]
	return ok
}

// Rule records a production headName -> bodyNames. Resolution against the
// symbol table (and the UnknownSymbol check) is deferred to Build.
func (b *Builder) Rule(headName string, bodyNames ...string) {
	b.rules = append(b.rules, pendingRule{head: headName, body: append([]string(nil), bodyNames...)})
}

// RenameSymbol renames a previously declared nonterminal, rewriting every
// pending rule's head and body references from oldName to newName. It
// exists for front-ends (package ebnf) that mint a placeholder name for an
// anonymous nonterminal before learning its final name (an EBNF `@tag`
// suffix folded in after the fact) — callers outside this module's own
// front-end have no reason to call it. Renaming a terminal, or renaming to
// a name already in use, is a caller error and panics.
func (b *Builder) RenameSymbol(oldName, newName string) {
	s, ok := b.symbols[oldName]
	if !ok || s.IsTerminal() {
		panic("grammar: RenameSymbol: " + oldName + " is not a declared nonterminal")
	}
	if _, taken := b.symbols[newName]; taken {
		panic("grammar: RenameSymbol: " + newName + " is already declared")
	}
	delete(b.symbols, oldName)
	b.symbols[newName] = symbol.Nonterminal(newName)
	for i, p := range b.rules {
		if p.head == oldName {
			b.rules[i].head = newName
		}
		for j, name := range p.body {
			if name == oldName {
				b.rules[i].body[j] = newName
			}
		}
	}
}

// Build finalizes the grammar, assigning rule serials in declaration order,
// verifying every symbol reference, and computing the nullable closure
// (spec.md §4.B):
//
//	nullable ← ∅
//	repeat
//	  for each rule r: if every symbol in r.body is in nullable, add r.head
//	until no change
func (b *Builder) Build(start string) (*Grammar, error) {
	startSym, ok := b.symbols[start]
	if !ok || startSym.IsTerminal() {
		return nil, &Error{Kind: NoStart, Symbol: start}
	}
	rules := make([]*symbol.Rule, len(b.rules))
	rulesByLHS := make(map[string][]*symbol.Rule)
	for i, p := range b.rules {
		head, ok := b.symbols[p.head]
		if !ok || head.IsTerminal() {
			return nil, &Error{Kind: UnknownSymbol, Symbol: p.head}
		}
		body := make([]*symbol.Symbol, len(p.body))
		for j, name := range p.body {
			s, ok := b.symbols[name]
			if !ok {
				return nil, &Error{Kind: UnknownSymbol, Symbol: name + " (rule " + strconv.Itoa(i) + ")"}
			}
			body[j] = s
		}
		r := &symbol.Rule{Head: head, Body: body, Serial: i}
		rules[i] = r
		rulesByLHS[head.Name()] = append(rulesByLHS[head.Name()], r)
	}
	g := &Grammar{
		symbols:    b.symbols,
		rules:      rules,
		rulesByLHS: rulesByLHS,
		start:      startSym,
		nullable:   computeNullable(rules),
	}
	tracer().Debugf("grammar built: %d symbols, %d rules, start=%s", len(g.symbols), len(g.rules), start)
	return g, nil
}

func computeNullable(rules []*symbol.Rule) map[string]bool {
	nullable := make(map[string]bool)
	for {
		changed := false
		for _, r := range rules {
			if nullable[r.Head.Name()] {
				continue
			}
			allNullable := true
			for _, s := range r.Body {
				if s.IsTerminal() || !nullable[s.Name()] {
					allNullable = false
					break
				}
			}
			if allNullable {
				nullable[r.Head.Name()] = true
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	return nullable
}
