package earley

import "github.com/rodolf0/earleygo/symbol"

// Item is an Earley item (rule, dot, origin): "we have matched
// rule.Body[0:Dot] of rule, starting at input position Origin" (spec.md
// §3). Items are value types; two items with the same (Rule, Dot, Origin)
// are the same item, even if constructed independently.
type Item struct {
	Rule   *symbol.Rule
	Dot    int
	Origin int
}

// Complete reports whether the dot has reached the end of the rule's body.
func (it Item) Complete() bool {
	return it.Dot >= len(it.Rule.Body)
}

// NextSymbol returns the symbol immediately after the dot, or nil if the
// item is complete.
func (it Item) NextSymbol() *symbol.Symbol {
	if it.Complete() {
		return nil
	}
	return it.Rule.Body[it.Dot]
}

// Advance returns the item with its dot moved one position to the right.
// It panics if called on a complete item.
func (it Item) Advance() Item {
	if it.Complete() {
		panic("earley: Advance on a complete item")
	}
	return Item{Rule: it.Rule, Dot: it.Dot + 1, Origin: it.Origin}
}

// TriggerKind distinguishes the two ways a derivation explains how an item
// was reached.
type TriggerKind int

const (
	// TriggerScan means the dot advanced over a terminal by consuming a
	// lexeme from the input.
	TriggerScan TriggerKind = iota
	// TriggerComplete means the dot advanced over a nonterminal because
	// some other item completed it.
	TriggerComplete
)

// Trigger is the right-hand half of a derivation: what caused the dot to
// move. For a scan, Lexeme holds the consumed token; for a completion,
// Child points at the completed item's node.
type Trigger struct {
	Kind   TriggerKind
	Lexeme string
	Child  *Node
}

// Derivation explains one way an item was produced: from Pred (the item
// one step behind the dot; for an item with Dot 1 this is the rule's Dot 0
// prediction) via Trigger. A Node may carry several Derivations when the
// underlying grammar is ambiguous (spec.md §3).
type Derivation struct {
	Pred    *Node
	Trigger Trigger
}

// Node is an Item plus every Derivation recorded for it. Nodes are shared
// by reference across state sets and across each other's derivations,
// making the forest a DAG rather than a tree (spec.md §3).
type Node struct {
	Item        Item
	Derivations []Derivation
}

// addDerivation appends d unless an equal derivation is already recorded.
// The dedup guards against the retroactive nullable-completion replay in
// predictItem and the ordinary Complete step both reaching the same
// (Pred, Trigger) pair — an Earley item's predecessor chain can be
// discovered more than once, but it is still one derivation.
func (n *Node) addDerivation(d Derivation) {
	for _, existing := range n.Derivations {
		if existing.Pred == d.Pred && existing.Trigger == d.Trigger {
			return
		}
	}
	n.Derivations = append(n.Derivations, d)
}
