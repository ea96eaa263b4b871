package earley

import (
	"fmt"

	"github.com/cnf/structhash"
	"github.com/emirpasic/gods/lists/arraylist"
)

// StateSet is one Sᵢ: an ordered, de-duplicated collection of *Node, all
// sharing the same end position (spec.md §3). Order is insertion order;
// inserting an Item already present merges derivations into the existing
// Node instead of creating a duplicate one.
//
// Nodes are held in an arraylist.List to keep the insertion order the
// algorithm's iteration discipline depends on; a side index keyed by a
// structhash digest of the item gives O(1) de-duplication, the same
// technique the teacher's recognizer uses to key its backlink table.
type StateSet struct {
	nodes *arraylist.List
	index map[string]*Node
}

func newStateSet() *StateSet {
	return &StateSet{
		nodes: arraylist.New(),
		index: make(map[string]*Node),
	}
}

func itemHash(it Item) string {
	key := struct {
		RuleSerial int
		Dot        int
		Origin     int
	}{it.Rule.Serial, it.Dot, it.Origin}
	h, err := structhash.Hash(key, 1)
	if err != nil {
		panic(fmt.Sprintf("earley: hashing item: %v", err))
	}
	return h
}

// Len returns the number of distinct items currently in the set.
func (s *StateSet) Len() int {
	return s.nodes.Size()
}

// At returns the idx'th node in insertion order.
func (s *StateSet) At(idx int) *Node {
	v, ok := s.nodes.Get(idx)
	if !ok {
		return nil
	}
	return v.(*Node)
}

// Get looks up the node for it, if one has already been added.
func (s *StateSet) Get(it Item) (*Node, bool) {
	n, ok := s.index[itemHash(it)]
	return n, ok
}

// Ensure returns the Node for it, creating and appending a fresh one (with
// no derivations yet) if it is not already present. The caller is
// responsible for attaching a Derivation when the item is non-initial.
func (s *StateSet) Ensure(it Item) (node *Node, created bool) {
	key := itemHash(it)
	if n, ok := s.index[key]; ok {
		return n, false
	}
	n := &Node{Item: it}
	s.index[key] = n
	s.nodes.Add(n)
	return n, true
}

// Each calls fn once per node, in insertion order.
func (s *StateSet) Each(fn func(*Node)) {
	s.nodes.Each(func(_ int, v interface{}) {
		fn(v.(*Node))
	})
}

// String renders the set as "{ item1, item2, ... }", for debugging and
// test failure messages.
func (s *StateSet) String() string {
	return itemSetString(s)
}
