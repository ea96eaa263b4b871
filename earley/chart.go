package earley

import (
	"github.com/google/uuid"

	"github.com/rodolf0/earleygo/grammar"
)

// Chart is the result of a successful or failed recognition run: the
// ordered state sets S₀…Sₙ plus the lexemes accepted along the way
// (spec.md §3). A Chart is produced once by Parse and is read-only
// thereafter; the forest walker (package forest) only reads it.
type Chart struct {
	// ID identifies this parse run. It has no bearing on parsing itself;
	// it exists so callers juggling many charts (a REPL replaying history,
	// a batch harness) have a stable handle to log and correlate by.
	ID uuid.UUID

	Grammar *grammar.Grammar
	States  []*StateSet
	Tokens  []string
}

// Len returns the number of state sets, n+1 for n accepted tokens.
func (c *Chart) Len() int {
	return len(c.States)
}

// Accepting returns the complete item(s) in the final state set headed by
// the grammar's start symbol and originating at position 0, i.e. the root
// nodes a derivation walk can start from. Empty means the chart did not
// accept its input — Parse would have already reported PartialParse rather
// than return such a chart.
func (c *Chart) Accepting() []*Node {
	if len(c.States) == 0 {
		return nil
	}
	start := c.Grammar.Start()
	last := c.States[len(c.States)-1]
	var roots []*Node
	last.Each(func(n *Node) {
		if n.Item.Complete() && n.Item.Origin == 0 && n.Item.Rule.Head.Equal(start) {
			roots = append(roots, n)
		}
	})
	return roots
}
