/*
Package earley builds an Earley chart from a grammar.Grammar and an ordered
token source: the Predict/Scan/Complete recognizer of component D. It knows
nothing about semantic values — folding a Chart into caller values is
package forest's job.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package earley

import (
	"github.com/google/uuid"
	"github.com/npillmayer/schuko/tracing"

	"github.com/rodolf0/earleygo/grammar"
)

func tracer() tracing.Trace {
	return tracing.Select("earleygo.earley")
}

// TokenSource is an ordered producer of lexemes. Next returns the next
// lexeme and true, or ("", false) once exhausted. The recognizer pulls from
// it exactly once per position and never looks ahead or pushes back
// (spec.md §6's token protocol).
type TokenSource interface {
	Next() (lexeme string, ok bool)
}

// sliceSource adapts a []string to TokenSource.
type sliceSource struct {
	tokens []string
	pos    int
}

// NewSliceSource returns a TokenSource that yields tokens in order.
func NewSliceSource(tokens []string) TokenSource {
	return &sliceSource{tokens: tokens}
}

func (s *sliceSource) Next() (string, bool) {
	if s.pos >= len(s.tokens) {
		return "", false
	}
	t := s.tokens[s.pos]
	s.pos++
	return t, true
}

// Parse runs the recognizer over tokens against g, producing a Chart.
//
// The nullable short-circuit spec.md §4.D calls "magical completion" is an
// optimization, not a correctness requirement — §9 explicitly sanctions a
// plain repeated-completion fixpoint as an equivalent alternative. Parse
// takes that alternative: Predict and Complete interleave freely within
// the same growing state set (a classic Earley work queue), so a chain of
// nullable completions resolves across however many iterations it needs.
// The one case the queue order alone doesn't cover — predicting a
// nonterminal that some earlier item already drove to completion in this
// same set, before the new predecessor existed to be notified — is handled
// by predictItem retroactively replaying that completion for the new
// predecessor; see its comment.
func Parse(g *grammar.Grammar, tokens TokenSource) (*Chart, error) {
	runID, err := uuid.NewRandom()
	if err != nil {
		return nil, err
	}
	chart := &Chart{ID: runID, Grammar: g}

	s0 := newStateSet()
	for _, r := range g.RulesFor(g.Start().Name()) {
		s0.Ensure(Item{Rule: r, Dot: 0, Origin: 0})
	}
	chart.States = append(chart.States, s0)
	closeSet(g, chart.States, 0)

	pos := 0
	for {
		lexeme, ok := tokens.Next()
		if !ok {
			break
		}
		next := newStateSet()
		cur := chart.States[pos]
		scanned := false
		cur.Each(func(n *Node) {
			sym := n.Item.NextSymbol()
			if sym == nil || !sym.IsTerminal() {
				return
			}
			if !sym.Match(lexeme) {
				return
			}
			scanned = true
			advanced := n.Item.Advance()
			child, _ := next.Ensure(advanced)
			child.addDerivation(Derivation{
				Pred:    n,
				Trigger: Trigger{Kind: TriggerScan, Lexeme: lexeme},
			})
		})
		if !scanned {
			return nil, &Error{Kind: BadInput, Pos: pos}
		}
		chart.States = append(chart.States, next)
		chart.Tokens = append(chart.Tokens, lexeme)
		pos++
		closeSet(g, chart.States, pos)
	}

	if len(chart.Accepting()) > 0 {
		tracer().Debugf("chart accepted, %d state sets", len(chart.States))
		return chart, nil
	}
	return nil, &Error{Kind: PartialParse, Pos: pos}
}

// closeSet runs Predict and Complete against chart.States[i] until it stops
// growing.
func closeSet(g *grammar.Grammar, states []*StateSet, i int) {
	s := states[i]
	for idx := 0; idx < s.Len(); idx++ {
		n := s.At(idx)
		sym := n.Item.NextSymbol()
		switch {
		case sym == nil:
			completeItem(states, i, n)
		case !sym.IsTerminal():
			predictItem(g, s, i, n, sym.Name())
		}
	}
	dumpState(states, i)
}

// predictItem adds (B -> ·γ, i) to s for every rule headed by symName, and
// records pred — the item whose next symbol is B — as their predecessor.
//
// If some rule headed by symName has already reached (B -> γ·, i) earlier in
// this same closeSet pass, its own turn through completeItem has already
// come and gone: that one-time scan of states[i] ran before pred existed,
// so it could never have advanced pred past B. Ordinary queue order only
// gets this right the first time a position needs B; a second reference to
// the same nullable nonterminal at the same origin — e.g. "S := r r" with r
// nullable — needs this retroactive replay, or it never reaches (S->r r·).
// Node.addDerivation dedups, so replaying a completion that completeItem
// also reaches on its own one-time scan records it once, not twice.
func predictItem(g *grammar.Grammar, s *StateSet, i int, pred *Node, symName string) {
	for _, r := range g.RulesFor(symName) {
		completeKey := Item{Rule: r, Dot: len(r.Body), Origin: i}
		completed, alreadyComplete := s.Get(completeKey)
		s.Ensure(Item{Rule: r, Dot: 0, Origin: i})
		if alreadyComplete {
			advanceOverCompletion(s, pred, completed)
		}
	}
}

// advanceOverCompletion advances pred past the nonterminal completed
// resolves, exactly as completeItem would have done had pred existed at the
// time completed was processed.
func advanceOverCompletion(s *StateSet, pred *Node, completed *Node) {
	advanced := pred.Item.Advance()
	child, _ := s.Ensure(advanced)
	child.addDerivation(Derivation{
		Pred:    pred,
		Trigger: Trigger{Kind: TriggerComplete, Child: completed},
	})
}

// completeItem implements Complete for the already-complete item owned by
// node: every item (A -> α·Bβ, k) in states[node.Item.Origin] advances past
// B into states[i], recording node as the completing child.
func completeItem(states []*StateSet, i int, node *Node) {
	head := node.Item.Rule.Head
	origin := states[node.Item.Origin]
	target := states[i]

	// Snapshot candidates before mutating target: when origin == target
	// (i == node.Item.Origin), Ensure below appends to the very set we are
	// iterating conceptually, but closeSet's index loop already tolerates
	// that — Each here only needs a stable view of what exists right now.
	var advances []*Node
	origin.Each(func(cand *Node) {
		sym := cand.Item.NextSymbol()
		if sym != nil && !sym.IsTerminal() && sym.Equal(head) {
			advances = append(advances, cand)
		}
	})
	for _, cand := range advances {
		advanced := cand.Item.Advance()
		child, _ := target.Ensure(advanced)
		child.addDerivation(Derivation{
			Pred:    cand,
			Trigger: Trigger{Kind: TriggerComplete, Child: node},
		})
	}
}
