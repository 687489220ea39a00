// Package model persists trained tokenizers as JSON.
//
// The format is human-inspectable and records the full token tree in
// id order plus the ordered merge rule list, so a loaded tokenizer
// reproduces the exact encode/decode behavior of the one saved.
// Loading validates the structure and refuses to build an
// inconsistent tree.
package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/bpekit/bpekit/pkg/bpe"
)

// Version is the current file format version.
const Version = 1

var (
	ErrCorrupt = errors.New("model: corrupt tokenizer file")
	ErrVersion = errors.New("model: unsupported format version")
)

// document is the on-disk shape of a trained tokenizer.
type document[T comparable] struct {
	Version int          `json:"version"`
	Nodes   []docNode[T] `json:"nodes"`
	Merges  []docMerge   `json:"merges"`
}

// docNode is one tree entry. Leaves carry a value; merges carry a
// child pair. Presence of the value field distinguishes the two.
type docNode[T comparable] struct {
	ID    int  `json:"id"`
	Value *T   `json:"value,omitempty"`
	Left  *int `json:"left,omitempty"`
	Right *int `json:"right,omitempty"`
}

// docMerge is one merge rule; list position is the rank.
type docMerge struct {
	Left  int `json:"left"`
	Right int `json:"right"`
	New   int `json:"new"`
}

// Save writes tok to w. The element type must be marshalable by
// encoding/json.
func Save[T comparable](w io.Writer, tok *bpe.Tokenizer[T]) error {
	doc := document[T]{Version: Version}

	for _, n := range tok.Tree().Nodes() {
		dn := docNode[T]{ID: n.ID}
		if n.Leaf {
			v := n.Value
			dn.Value = &v
		} else {
			left, right := n.Left, n.Right
			dn.Left = &left
			dn.Right = &right
		}
		doc.Nodes = append(doc.Nodes, dn)
	}
	for _, r := range tok.Rules() {
		doc.Merges = append(doc.Merges, docMerge{Left: r.Left, Right: r.Right, New: r.New})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// Load reads a tokenizer from r, validating the tree structure. Any
// structural inconsistency is reported wrapping ErrCorrupt.
func Load[T comparable](r io.Reader) (*bpe.Tokenizer[T], error) {
	var doc document[T]
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if doc.Version != Version {
		return nil, fmt.Errorf("%w: got version %d, want %d", ErrVersion, doc.Version, Version)
	}

	nodes := make([]bpe.Node[T], 0, len(doc.Nodes))
	for i, dn := range doc.Nodes {
		switch {
		case dn.Value != nil && (dn.Left != nil || dn.Right != nil):
			return nil, fmt.Errorf("%w: node %d is both leaf and merge", ErrCorrupt, i)
		case dn.Value != nil:
			nodes = append(nodes, bpe.Node[T]{ID: dn.ID, Leaf: true, Value: *dn.Value})
		case dn.Left != nil && dn.Right != nil:
			nodes = append(nodes, bpe.Node[T]{ID: dn.ID, Left: *dn.Left, Right: *dn.Right})
		default:
			return nil, fmt.Errorf("%w: node %d has neither value nor child pair", ErrCorrupt, i)
		}
	}

	rules := make([]bpe.MergeRule, 0, len(doc.Merges))
	for _, m := range doc.Merges {
		rules = append(rules, bpe.MergeRule{Left: m.Left, Right: m.Right, New: m.New})
	}

	tok, err := bpe.NewTokenizer(nodes, rules)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return tok, nil
}

// SaveFile writes tok to a file.
func SaveFile[T comparable](path string, tok *bpe.Tokenizer[T]) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Save(f, tok); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadFile reads a tokenizer from a file.
func LoadFile[T comparable](path string) (*bpe.Tokenizer[T], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load[T](f)
}
