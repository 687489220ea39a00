// Package bpe builds Byte Pair Encoding vocabularies over arbitrary
// element types and uses them to encode and decode sequences.
//
// The element type is a comparable type parameter, so the same trainer
// tokenizes bytes, runes, or any other discrete alphabet. Training
// repeatedly merges the most frequent adjacent token pair into a new
// token, recording every merge in a flat, append-only token tree.
package bpe

import "fmt"

// Pair is an ordered pair of adjacent token ids.
type Pair struct {
	Left  int
	Right int
}

// node is one arena entry. A leaf wraps a raw element; a merge node
// references the two earlier ids it concatenates.
type node[T comparable] struct {
	leaf  bool
	value T
	pair  Pair
}

// Node describes one tree entry for persistence and inspection.
// Exactly one of Value (Leaf true) or Left/Right (Leaf false) is
// meaningful.
type Node[T comparable] struct {
	ID    int
	Leaf  bool
	Value T
	Left  int
	Right int
}

// Tree is the token tree: a flat arena of nodes indexed by id, plus
// the alphabet registry mapping raw elements to their leaf ids. Leaf
// and merge ids come from the same increasing counter, so a merge
// node's children always have smaller ids than the node itself and the
// tree is acyclic by construction. The tree only ever grows.
type Tree[T comparable] struct {
	nodes  []node[T]
	leafID map[T]int
}

// NewTree creates an empty token tree.
func NewTree[T comparable]() *Tree[T] {
	return &Tree[T]{leafID: make(map[T]int)}
}

// Intern returns the leaf id for v, allocating the next id on first
// sight. Every distinct element gets exactly one leaf.
func (t *Tree[T]) Intern(v T) int {
	if id, ok := t.leafID[v]; ok {
		return id
	}
	id := len(t.nodes)
	t.nodes = append(t.nodes, node[T]{leaf: true, value: v})
	t.leafID[v] = id
	return id
}

// LeafID returns the leaf id for v, or false if v was never interned.
func (t *Tree[T]) LeafID(v T) (int, bool) {
	id, ok := t.leafID[v]
	return id, ok
}

// merge allocates a merge node for p and returns its id.
// Both children must already exist.
func (t *Tree[T]) merge(p Pair) int {
	id := len(t.nodes)
	t.nodes = append(t.nodes, node[T]{pair: p})
	return id
}

// Len returns the total number of nodes, leaves and merges.
func (t *Tree[T]) Len() int {
	return len(t.nodes)
}

// AlphabetSize returns the number of leaf nodes.
func (t *Tree[T]) AlphabetSize() int {
	return len(t.leafID)
}

// Expand appends the raw elements covered by id to dst and returns the
// extended slice. Ids outside the tree are reported as
// *InvalidTokenError.
func (t *Tree[T]) Expand(dst []T, id int) ([]T, error) {
	if id < 0 || id >= len(t.nodes) {
		return dst, &InvalidTokenError{ID: id, Size: len(t.nodes)}
	}
	return t.expand(dst, id), nil
}

// expand walks the subtree under id. Children are in range by
// construction, so no bounds check on the way down. Recursion depth is
// bounded by the tree height.
func (t *Tree[T]) expand(dst []T, id int) []T {
	n := &t.nodes[id]
	if n.leaf {
		return append(dst, n.value)
	}
	dst = t.expand(dst, n.pair.Left)
	return t.expand(dst, n.pair.Right)
}

// Nodes returns a snapshot of the arena in id order.
func (t *Tree[T]) Nodes() []Node[T] {
	out := make([]Node[T], len(t.nodes))
	for id, n := range t.nodes {
		out[id] = Node[T]{ID: id, Leaf: n.leaf, Value: n.value, Left: n.pair.Left, Right: n.pair.Right}
	}
	return out
}

// newTreeFromNodes rebuilds an arena from a node table, validating the
// structural invariants. Used when loading a persisted tokenizer.
func newTreeFromNodes[T comparable](nodes []Node[T]) (*Tree[T], error) {
	t := &Tree[T]{
		nodes:  make([]node[T], 0, len(nodes)),
		leafID: make(map[T]int, len(nodes)),
	}
	for i, n := range nodes {
		if n.ID != i {
			return nil, fmt.Errorf("node %d: id %d out of order", i, n.ID)
		}
		if n.Leaf {
			if prev, ok := t.leafID[n.Value]; ok {
				return nil, fmt.Errorf("node %d: duplicate leaf value %v (leaf %d)", i, n.Value, prev)
			}
			t.leafID[n.Value] = i
			t.nodes = append(t.nodes, node[T]{leaf: true, value: n.Value})
			continue
		}
		if n.Left < 0 || n.Left >= i || n.Right < 0 || n.Right >= i {
			return nil, fmt.Errorf("node %d: child pair (%d, %d) not before node", i, n.Left, n.Right)
		}
		t.nodes = append(t.nodes, node[T]{pair: Pair{Left: n.Left, Right: n.Right}})
	}
	return t, nil
}
