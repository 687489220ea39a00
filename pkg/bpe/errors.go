package bpe

import "fmt"

// UnknownElementError reports an element with no leaf id: it never
// appeared in the training input (or seeded alphabet) and cannot be
// encoded.
type UnknownElementError[T comparable] struct {
	Element T
}

func (e *UnknownElementError[T]) Error() string {
	return fmt.Sprintf("bpe: unknown element %v", e.Element)
}

// InvalidTokenError reports a token id outside the tree.
type InvalidTokenError struct {
	ID   int // the offending id
	Size int // number of nodes in the tree
}

func (e *InvalidTokenError) Error() string {
	return fmt.Sprintf("bpe: token id %d outside tree of %d nodes", e.ID, e.Size)
}
