package bpe

// pairStat tracks one adjacent pair during a counting pass.
type pairStat struct {
	count int
	first int // index in the sequence where the pair first occurred
}

// countPairs counts every adjacent ordered pair in seq and remembers
// where each pair was first seen.
func countPairs(seq []int) map[Pair]pairStat {
	stats := make(map[Pair]pairStat, len(seq))
	for i := 0; i+1 < len(seq); i++ {
		p := Pair{Left: seq[i], Right: seq[i+1]}
		s, ok := stats[p]
		if !ok {
			s.first = i
		}
		s.count++
		stats[p] = s
	}
	return stats
}

// bestPair selects the most frequent pair, breaking ties by earliest
// first occurrence. The positional tie-break keeps training
// deterministic regardless of map iteration order. Returns a zero
// count when stats is empty.
func bestPair(stats map[Pair]pairStat) (Pair, int) {
	var best Pair
	bestStat := pairStat{first: -1}
	for p, s := range stats {
		if s.count > bestStat.count ||
			(s.count == bestStat.count && s.first < bestStat.first) {
			best = p
			bestStat = s
		}
	}
	return best, bestStat.count
}
