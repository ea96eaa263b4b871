/*
Package symbol implements the grammar symbol and rule model for the Earley
engine: nonterminals, predicate-driven terminals, and productions built from
them.

A Symbol is either a nonterminal, identified by name, or a terminal,
identified by a name plus a classifier predicate. Names are expected to be
unique within a single Grammar; the grammar package enforces that, not this
one — Symbol itself only knows how to compare and print.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package symbol

import "reflect"

// Predicate classifies an input lexeme as matching a terminal symbol.
type Predicate func(lexeme string) bool

// Symbol is either a nonterminal (identified by Name) or a terminal
// (identified by Name plus Predicate). Construct one with Nonterminal or
// Terminal; the zero value is not useful.
type Symbol struct {
	name      string
	terminal  bool
	predicate Predicate
}

// Nonterminal creates a nonterminal symbol with the given name.
func Nonterminal(name string) *Symbol {
	return &Symbol{name: name}
}

// Terminal creates a terminal symbol classified by predicate. Two terminals
// with the same name but different predicates are distinct symbols.
func Terminal(name string, predicate Predicate) *Symbol {
	if predicate == nil {
		predicate = func(string) bool { return false }
	}
	return &Symbol{name: name, terminal: true, predicate: predicate}
}

// Name returns the symbol's name, as it appears in canonical rule strings.
func (s *Symbol) Name() string {
	if s == nil {
		return "<nil>"
	}
	return s.name
}

// IsTerminal reports whether s classifies input lexemes rather than
// standing for a production.
func (s *Symbol) IsTerminal() bool {
	return s != nil && s.terminal
}

// Match reports whether lexeme is accepted by s's predicate. Always false
// for nonterminals.
func (s *Symbol) Match(lexeme string) bool {
	if s == nil || !s.terminal {
		return false
	}
	return s.predicate(lexeme)
}

// Equal implements the equality spec.md §3 describes: nonterminals compare
// by name, terminals by name plus predicate identity.
func (s *Symbol) Equal(o *Symbol) bool {
	if s == o {
		return true
	}
	if s == nil || o == nil {
		return false
	}
	if s.terminal != o.terminal || s.name != o.name {
		return false
	}
	if !s.terminal {
		return true
	}
	return reflect.ValueOf(s.predicate).Pointer() == reflect.ValueOf(o.predicate).Pointer()
}

// String returns the symbol's name, matching how it appears in a Rule's
// canonical string form.
func (s *Symbol) String() string {
	return s.Name()
}
