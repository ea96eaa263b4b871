package earleygo

import (
	"fmt"

	"github.com/pterm/pterm"

	"github.com/rodolf0/earleygo/earley"
	"github.com/rodolf0/earleygo/grammar"
)

// Tree is a labeled syntax tree: an internal node carries the canonical
// rule string of the production that produced it, a leaf carries the
// terminal name and the lexeme it matched (spec.md §4.F).
type Tree struct {
	Label    string // canonical rule string, or a terminal name for a leaf
	Lexeme   string // set only when IsLeaf
	IsLeaf   bool
	Children []*Tree
}

// TreeBuilder returns a function that parses a token stream against g and
// returns one *Tree per distinct derivation the chart admits — a thin,
// structural cousin of forest.Forest.EvalAll that reduces to trees instead
// of caller-defined values, for callers that want to inspect or pretty
// print a parse rather than fold it.
func TreeBuilder(g *grammar.Grammar) func(tokens earley.TokenSource) ([]*Tree, error) {
	return func(tokens earley.TokenSource) ([]*Tree, error) {
		chart, err := earley.Parse(g, tokens)
		if err != nil {
			return nil, err
		}
		return buildTrees(chart, false)
	}
}

// SexprBuilder is TreeBuilder's pretty-printing cousin: a production with
// exactly one child collapses to that child, trimming the long chains of
// single-alternative reductions (Sum -> Product -> Factor -> ...) that
// otherwise pad every rendered tree.
func SexprBuilder(g *grammar.Grammar) func(tokens earley.TokenSource) ([]*Tree, error) {
	return func(tokens earley.TokenSource) ([]*Tree, error) {
		chart, err := earley.Parse(g, tokens)
		if err != nil {
			return nil, err
		}
		return buildTrees(chart, true)
	}
}

func buildTrees(chart *earley.Chart, collapse bool) ([]*Tree, error) {
	roots := chart.Accepting()
	if len(roots) == 0 {
		return nil, fmt.Errorf("earleygo: chart has no accepting item")
	}
	w := &treeWalker{memo: make(map[*earley.Node][]*Tree), collapse: collapse}
	var out []*Tree
	for _, root := range roots {
		trees, err := w.treesFor(root)
		if err != nil {
			return nil, err
		}
		out = append(out, trees...)
	}
	return out, nil
}

type treeWalker struct {
	memo     map[*earley.Node][]*Tree
	collapse bool
}

func (w *treeWalker) treesFor(node *earley.Node) ([]*Tree, error) {
	if v, ok := w.memo[node]; ok {
		return v, nil
	}
	seqs, err := w.argSeqs(node)
	if err != nil {
		return nil, err
	}
	label := node.Item.Rule.String()
	trees := make([]*Tree, 0, len(seqs))
	for _, children := range seqs {
		trees = append(trees, w.reduce(label, children))
	}
	w.memo[node] = trees
	return trees, nil
}

// reduce builds the node for one completed sequence of children,
// collapsing it to its sole child when sexpr mode asks for that.
func (w *treeWalker) reduce(label string, children []*Tree) *Tree {
	if w.collapse && len(children) == 1 {
		return children[0]
	}
	return &Tree{Label: label, Children: children}
}

// argSeqs enumerates every possible children sequence for node, walking its
// Derivations back to Dot 0 exactly as forest.allWalker.argSeqsFor does.
func (w *treeWalker) argSeqs(node *earley.Node) ([][]*Tree, error) {
	if node.Item.Dot == 0 {
		return [][]*Tree{{}}, nil
	}
	var combos [][]*Tree
	for _, d := range node.Derivations {
		prefixes, err := w.argSeqs(d.Pred)
		if err != nil {
			return nil, err
		}
		stepTrees, err := w.stepTrees(node, d)
		if err != nil {
			return nil, err
		}
		for _, prefix := range prefixes {
			for _, t := range stepTrees {
				combo := make([]*Tree, len(prefix)+1)
				copy(combo, prefix)
				combo[len(prefix)] = t
				combos = append(combos, combo)
			}
		}
	}
	return combos, nil
}

func (w *treeWalker) stepTrees(node *earley.Node, d earley.Derivation) ([]*Tree, error) {
	switch d.Trigger.Kind {
	case earley.TriggerScan:
		termName := node.Item.Rule.Body[node.Item.Dot-1].Name()
		return []*Tree{{Label: termName, Lexeme: d.Trigger.Lexeme, IsLeaf: true}}, nil
	case earley.TriggerComplete:
		return w.treesFor(d.Trigger.Child)
	default:
		return nil, fmt.Errorf("earleygo: unknown trigger kind %d", d.Trigger.Kind)
	}
}

// PrintTree renders t to stdout as a box-drawing tree via pterm, the
// idiomatic-Go equivalent of the original Rust front-end's ebnftree example
// (see SPEC_FULL.md). Leaves render as "terminal-name: lexeme".
func PrintTree(t *Tree) error {
	return pterm.DefaultTree.WithRoot(toPtermNode(t)).Render()
}

func toPtermNode(t *Tree) pterm.TreeNode {
	if t.IsLeaf {
		return pterm.TreeNode{Text: fmt.Sprintf("%s: %s", t.Label, t.Lexeme)}
	}
	children := make([]pterm.TreeNode, len(t.Children))
	for i, c := range t.Children {
		children[i] = toPtermNode(c)
	}
	return pterm.TreeNode{Text: t.Label, Children: children}
}
