package bpe

// minPairCount is the lowest pair frequency worth a merge. A pair seen
// once would add a token that can never shorten another sequence.
const minPairCount = 2

// MergeRule records one learned merge. Rules are kept in learning
// order; a rule's index in the list is its rank, and encoding replays
// rules in rank order.
type MergeRule struct {
	Left  int // id of the left token
	Right int // id of the right token
	New   int // id of the merge token created for the pair
}

// Train builds a Tokenizer from seq, performing at most merges merge
// steps. Training stops early once the working sequence is shorter
// than two tokens or no adjacent pair occurs at least twice, so the
// returned rule list may be shorter than requested. An empty or
// single-element input is valid and yields zero merges.
//
// Each iteration counts adjacent pair frequencies over the working
// sequence, picks the most frequent pair (earliest first occurrence
// wins ties), records the merge, and rewrites the sequence in a single
// left-to-right non-overlapping pass. Every merge strictly shortens
// the working sequence, so training always terminates.
func Train[T comparable](seq []T, merges int) *Tokenizer[T] {
	return TrainWithAlphabet(seq, nil, merges)
}

// TrainWithAlphabet seeds the alphabet registry with the given
// elements, in order, before scanning seq, then trains exactly as
// Train does. Seeding lets the finished Tokenizer encode elements that
// never occur in the training input.
func TrainWithAlphabet[T comparable](seq []T, alphabet []T, merges int) *Tokenizer[T] {
	tree := NewTree[T]()
	for _, v := range alphabet {
		tree.Intern(v)
	}

	work := make([]int, len(seq))
	for i, v := range seq {
		work[i] = tree.Intern(v)
	}

	var rules []MergeRule
	for len(rules) < merges && len(work) >= 2 {
		pair, count := bestPair(countPairs(work))
		if count < minPairCount {
			break
		}
		id := tree.merge(pair)
		rules = append(rules, MergeRule{Left: pair.Left, Right: pair.Right, New: id})
		work = replacePair(work, pair, id)
	}

	return &Tokenizer[T]{tree: tree, rules: rules}
}

// replacePair rewrites every non-overlapping occurrence of p in seq
// with id, scanning left to right in a single pass. A pair starting
// where the previous replacement ended is still eligible; one starting
// inside a just-replaced span is not. The rewrite reuses seq's
// backing array, so the returned slice aliases seq.
func replacePair(seq []int, p Pair, id int) []int {
	out := seq[:0]
	i := 0
	for i < len(seq) {
		if i+1 < len(seq) && seq[i] == p.Left && seq[i+1] == p.Right {
			out = append(out, id)
			i += 2
		} else {
			out = append(out, seq[i])
			i++
		}
	}
	return out
}
