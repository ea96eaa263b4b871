package earley

import (
	"bytes"
	"fmt"
)

// String renders an item in the classic dotted-rule notation, e.g.
// "A -> a . B c  (origin 2)".
func (it Item) String() string {
	var b bytes.Buffer
	fmt.Fprintf(&b, "%s -> ", it.Rule.Head.Name())
	for i, s := range it.Rule.Body {
		if i == it.Dot {
			b.WriteString(". ")
		}
		b.WriteString(s.Name())
		b.WriteString(" ")
	}
	if it.Complete() {
		b.WriteString(". ")
	}
	fmt.Fprintf(&b, " (origin %d)", it.Origin)
	return b.String()
}

// dumpState traces every item in states[i], in insertion order. closeSet
// calls it for every state set; its lines are Debug-level traces of
// earleygo.earley, emitted only when that trace level is enabled.
func dumpState(states []*StateSet, i int) {
	tracer().Debugf("--- State %04d ------------------------------------", i)
	n := 1
	states[i].Each(func(node *Node) {
		tracer().Debugf("[%2d] %s (%d derivations)", n, node.Item, len(node.Derivations))
		n++
	})
}

func itemSetString(s *StateSet) string {
	var b bytes.Buffer
	b.WriteString("{")
	first := true
	s.Each(func(node *Node) {
		if first {
			b.WriteString(" ")
			first = false
		} else {
			b.WriteString(", ")
		}
		b.WriteString(node.Item.String())
	})
	b.WriteString(" }")
	return b.String()
}
