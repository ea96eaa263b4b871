/*
Package forest walks the back-pointer DAG a Chart (package earley)
accumulates during recognition, folding it into caller-defined values: the
derivation forest and semantic-action evaluator of component E.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package forest

import (
	"fmt"

	"github.com/npillmayer/schuko/gconf"
	"github.com/npillmayer/schuko/tracing"

	"github.com/rodolf0/earleygo/earley"
)

func tracer() tracing.Trace {
	return tracing.Select("earleygo.forest")
}

// LeafAction computes a value for a scanned terminal, given the name of
// the terminal symbol the dot passed over and the lexeme that was
// consumed. Exactly one is active at a time (spec.md §4.E).
type LeafAction func(terminalName, lexeme string) (interface{}, error)

// RuleAction reduces the values of a rule's body symbols, in body order,
// into a single value for the head. Keyed by canonical rule string
// (symbol.Rule.String()).
type RuleAction func(args []interface{}) (interface{}, error)

// Forest evaluates a Chart by walking its back-pointers. Register actions
// with SetLeafAction and SetRuleAction before calling Eval or EvalAll.
type Forest struct {
	leaf  LeafAction
	rules map[string]RuleAction
}

// New creates an empty Forest with no registered actions.
func New() *Forest {
	return &Forest{rules: make(map[string]RuleAction)}
}

// SetLeafAction installs the single terminal action used for every scan
// trigger encountered during a walk.
func (f *Forest) SetLeafAction(fn LeafAction) {
	f.leaf = fn
}

// SetRuleAction installs the reduction action for the rule whose canonical
// string is ruleString.
func (f *Forest) SetRuleAction(ruleString string, fn RuleAction) {
	f.rules[ruleString] = fn
}

// Eval performs a single-parse walk: at every ambiguous item it takes the
// first recorded derivation (spec.md §4.E and SPEC_FULL.md's resolution of
// the corresponding open question). The caller promises chart's grammar is
// unambiguous for the parsed input; Eval does not check this.
func (f *Forest) Eval(chart *earley.Chart) (interface{}, error) {
	roots := chart.Accepting()
	if len(roots) == 0 {
		return nil, fmt.Errorf("forest: chart has no accepting item")
	}
	return f.reduceFirst(roots[0])
}

// reduceFirst walks node's chain always choosing Derivations[0], reducing
// to a single value.
func (f *Forest) reduceFirst(node *earley.Node) (interface{}, error) {
	args, err := f.firstArgSeq(node)
	if err != nil {
		return nil, err
	}
	action, ok := f.rules[node.Item.Rule.String()]
	if !ok {
		return nil, missingAction(node.Item.Rule.String())
	}
	return action(args)
}

// firstArgSeq collects, for a complete item, the values of its body
// symbols in order by walking the Derivations[0] chain back to Dot 0.
func (f *Forest) firstArgSeq(node *earley.Node) ([]interface{}, error) {
	n := node.Item.Rule.Body
	args := make([]interface{}, len(n))
	cur := node
	for cur.Item.Dot > 0 {
		if len(cur.Derivations) == 0 {
			return nil, fmt.Errorf("forest: item %s has no recorded derivation", cur.Item)
		}
		d := cur.Derivations[0]
		val, err := f.valueFor(cur, d)
		if err != nil {
			return nil, err
		}
		args[cur.Item.Dot-1] = val
		cur = d.Pred
	}
	return args, nil
}

// valueFor computes the value a single derivation step at item contributes
// (leaf action for a scan, recursive reduction for a completion).
func (f *Forest) valueFor(item *earley.Node, d earley.Derivation) (interface{}, error) {
	switch d.Trigger.Kind {
	case earley.TriggerScan:
		if f.leaf == nil {
			termName := item.Item.Rule.Body[item.Item.Dot-1].Name()
			return nil, missingAction(fmt.Sprintf("<terminal %s>", termName))
		}
		termName := item.Item.Rule.Body[item.Item.Dot-1].Name()
		return f.leaf(termName, d.Trigger.Lexeme)
	case earley.TriggerComplete:
		return f.reduceFirst(d.Trigger.Child)
	default:
		return nil, fmt.Errorf("forest: unknown trigger kind %d", d.Trigger.Kind)
	}
}

// EvalAll performs an all-parses walk: it enumerates every derivation
// reachable from every accepting root, per the combinatorial formula in
// spec.md §4.E. Nodes are memoized per call so a value shared by many
// derivations (the DAG's whole point) is computed once.
func (f *Forest) EvalAll(chart *earley.Chart) ([]interface{}, error) {
	roots := chart.Accepting()
	w := &allWalker{f: f, values: make(map[*earley.Node][]interface{}), argSeqs: make(map[*earley.Node][][]interface{})}
	var out []interface{}
	for _, root := range roots {
		vals, err := w.values_(root)
		if err != nil {
			return nil, err
		}
		out = append(out, vals...)
	}
	if len(out) == 0 && len(roots) == 0 {
		return nil, fmt.Errorf("forest: chart has no accepting item")
	}
	return out, nil
}

type allWalker struct {
	f       *Forest
	values  map[*earley.Node][]interface{}
	argSeqs map[*earley.Node][][]interface{}
}

// values_ returns every value this complete node can reduce to.
func (w *allWalker) values_(node *earley.Node) ([]interface{}, error) {
	if v, ok := w.values[node]; ok {
		return v, nil
	}
	action, ok := w.f.rules[node.Item.Rule.String()]
	if !ok {
		return nil, missingAction(node.Item.Rule.String())
	}
	seqs, err := w.argSeqsFor(node)
	if err != nil {
		return nil, err
	}
	vals := make([]interface{}, 0, len(seqs))
	for _, seq := range seqs {
		v, err := action(seq)
		if err != nil {
			return nil, err
		}
		vals = append(vals, v)
	}
	w.values[node] = vals
	tracer().Debugf("node %s: %d derivations -> %d values", node.Item, len(node.Derivations), len(vals))
	return vals, nil
}

// argSeqsFor enumerates every possible body-values sequence for a node at
// any dot position, i.e. every way to fill in the symbols matched so far.
// Dot 0 has exactly one, empty, sequence.
func (w *allWalker) argSeqsFor(node *earley.Node) ([][]interface{}, error) {
	if node.Item.Dot == 0 {
		return [][]interface{}{{}}, nil
	}
	if v, ok := w.argSeqs[node]; ok {
		return v, nil
	}
	var combos [][]interface{}
	for _, d := range node.Derivations {
		prefixes, err := w.argSeqsFor(d.Pred)
		if err != nil {
			return nil, err
		}
		stepVals, err := w.stepValues(node, d)
		if err != nil {
			return nil, err
		}
		for _, prefix := range prefixes {
			for _, v := range stepVals {
				combo := make([]interface{}, len(prefix)+1)
				copy(combo, prefix)
				combo[len(prefix)] = v
				combos = append(combos, combo)
			}
		}
	}
	w.argSeqs[node] = combos
	return combos, nil
}

// stepValues returns every value the step described by d could contribute.
func (w *allWalker) stepValues(node *earley.Node, d earley.Derivation) ([]interface{}, error) {
	switch d.Trigger.Kind {
	case earley.TriggerScan:
		if w.f.leaf == nil {
			termName := node.Item.Rule.Body[node.Item.Dot-1].Name()
			return nil, missingAction(fmt.Sprintf("<terminal %s>", termName))
		}
		termName := node.Item.Rule.Body[node.Item.Dot-1].Name()
		v, err := w.f.leaf(termName, d.Trigger.Lexeme)
		if err != nil {
			return nil, err
		}
		return []interface{}{v}, nil
	case earley.TriggerComplete:
		return w.values_(d.Trigger.Child)
	default:
		return nil, fmt.Errorf("forest: unknown trigger kind %d", d.Trigger.Kind)
	}
}

// missingAction builds the error for a missing rule or leaf action. When
// the "earleygo.panic-on-error" debug flag is set — the same gconf-backed
// switch the teacher's parser uses for its "panic-on-parser-stuck" knob —
// it panics instead, which is handy while wiring up a new grammar's
// actions interactively and wanting a stack trace at the first gap rather
// than an error bubbling all the way back up.
func missingAction(key string) error {
	err := &Error{Kind: MissingAction, Key: key}
	if gconf.GetBool("earleygo.panic-on-error") {
		panic(err)
	}
	return err
}
