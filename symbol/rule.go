package symbol

import "strings"

// Rule is a production head -> body. Body may be empty (an epsilon rule).
//
// Serial is the rule's ordinal position within the Grammar it was built for
// (0 for the very first rule added), assigned by grammar.Builder.Build in
// declaration order. It exists as a stable, hashable proxy for rule
// identity: package earley's item de-duplication keys on it rather than on
// the full Rule, since a Rule's Symbols can carry an unexported predicate
// func that reflection-based hashing can't see into. The forest walker's
// single-parse evaluation does not consult it — ambiguity there resolves by
// taking the first-recorded derivation, not by any serial-based tie-break.
type Rule struct {
	Head   *Symbol
	Body   []*Symbol
	Serial int
}

// NewRule constructs a Rule. Serial defaults to 0; callers assembling a
// grammar (see package grammar) are responsible for assigning it in
// declaration order.
func NewRule(head *Symbol, body []*Symbol) *Rule {
	return &Rule{Head: head, Body: body}
}

// String renders the canonical rule string spec.md §4.A and §6 define:
// "head -> s1 s2 … sk", with an empty body printing as "head -> " (the
// trailing space is part of the format; it is the public key semantic
// actions are registered under, see package forest).
func (r *Rule) String() string {
	if r == nil {
		return ""
	}
	if len(r.Body) == 0 {
		return r.Head.Name() + " -> "
	}
	parts := make([]string, len(r.Body))
	for i, s := range r.Body {
		parts[i] = s.Name()
	}
	return r.Head.Name() + " -> " + strings.Join(parts, " ")
}

// Equal compares rules by their canonical string, as spec.md §3 mandates:
// "Rule equality is by head name plus the sequence of symbol names".
func (r *Rule) Equal(o *Rule) bool {
	if r == o {
		return true
	}
	if r == nil || o == nil {
		return false
	}
	return r.String() == o.String()
}

// IsEmpty reports whether the rule's body is the empty sequence.
func (r *Rule) IsEmpty() bool {
	return len(r.Body) == 0
}
