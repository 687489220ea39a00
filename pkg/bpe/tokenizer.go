package bpe

import "fmt"

// Tokenizer is the trained artifact: the alphabet registry, the full
// token tree, and the ordered merge rules. It is immutable once
// training returns, so Encode and Decode may be called concurrently
// without coordination.
type Tokenizer[T comparable] struct {
	tree  *Tree[T]
	rules []MergeRule
}

// NewTokenizer reconstructs a Tokenizer from a node table and merge
// rule list, typically read back from persisted state. It rejects any
// structurally inconsistent input: out-of-order ids, duplicate leaf
// values, merge children at or after their parent, or rules that do
// not match the node table one-for-one in creation order.
func NewTokenizer[T comparable](nodes []Node[T], rules []MergeRule) (*Tokenizer[T], error) {
	tree, err := newTreeFromNodes(nodes)
	if err != nil {
		return nil, err
	}

	merged := 0
	for _, n := range nodes {
		if !n.Leaf {
			merged++
		}
	}
	if merged != len(rules) {
		return nil, fmt.Errorf("%d merge nodes but %d merge rules", merged, len(rules))
	}
	for rank, r := range rules {
		if r.New < 0 || r.New >= len(nodes) {
			return nil, fmt.Errorf("rule %d: merge id %d outside tree of %d nodes", rank, r.New, len(nodes))
		}
		n := nodes[r.New]
		if n.Leaf {
			return nil, fmt.Errorf("rule %d: id %d is a leaf, not a merge", rank, r.New)
		}
		if n.Left != r.Left || n.Right != r.Right {
			return nil, fmt.Errorf("rule %d: pair (%d, %d) does not match node %d pair (%d, %d)",
				rank, r.Left, r.Right, r.New, n.Left, n.Right)
		}
		if rank > 0 && r.New <= rules[rank-1].New {
			return nil, fmt.Errorf("rule %d: merge id %d not after previous merge %d", rank, r.New, rules[rank-1].New)
		}
	}

	return &Tokenizer[T]{tree: tree, rules: rules}, nil
}

// Encode maps seq to token ids: each element becomes its leaf id, then
// every merge rule is replayed in rank order with the same
// non-overlapping left-to-right rewrite used during training. An
// element with no leaf id is reported as *UnknownElementError.
func (t *Tokenizer[T]) Encode(seq []T) ([]int, error) {
	if len(seq) == 0 {
		return nil, nil
	}

	ids := make([]int, len(seq))
	for i, v := range seq {
		id, ok := t.tree.LeafID(v)
		if !ok {
			return nil, &UnknownElementError[T]{Element: v}
		}
		ids[i] = id
	}

	for _, r := range t.rules {
		ids = replacePair(ids, Pair{Left: r.Left, Right: r.Right}, r.New)
	}
	return ids, nil
}

// Decode expands token ids back to raw elements. An id outside the
// tree is reported as *InvalidTokenError.
func (t *Tokenizer[T]) Decode(ids []int) ([]T, error) {
	out := make([]T, 0, len(ids))
	var err error
	for _, id := range ids {
		out, err = t.tree.Expand(out, id)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Tree returns the token tree. Callers must treat it as read-only.
func (t *Tokenizer[T]) Tree() *Tree[T] {
	return t.tree
}

// Rules returns the merge rules in rank order. Callers must treat the
// slice as read-only.
func (t *Tokenizer[T]) Rules() []MergeRule {
	return t.rules
}

// VocabSize returns the total vocabulary size, leaves plus merges.
func (t *Tokenizer[T]) VocabSize() int {
	return t.tree.Len()
}

// NumMerges returns the number of learned merge rules.
func (t *Tokenizer[T]) NumMerges() int {
	return len(t.rules)
}
