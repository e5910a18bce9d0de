// Package similarity scores how closely two descriptions align.
//
// Ratio follows the Ratcliff/Obershelp "gestalt pattern matching" scheme: find
// the longest matching block, recurse on the unmatched text to its left and
// right, and report 2*M/T where M is the number of matched characters and T
// the combined length of both strings.
package similarity

// autojunkMin is the length of b from which very frequent characters are
// excluded from the block index.
const autojunkMin = 200

// Ratio returns the similarity of a and b in [0, 1]. Two empty strings are
// identical.
func Ratio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1
	}
	return 2 * float64(newMatcher(ra, rb).matched()) / float64(total)
}

type matcher struct {
	a, b []rune
	b2j  map[rune][]int
}

func newMatcher(a, b []rune) *matcher {
	b2j := make(map[rune][]int)
	for j, r := range b {
		b2j[r] = append(b2j[r], j)
	}
	if n := len(b); n >= autojunkMin {
		limit := n/100 + 1
		for r, idx := range b2j {
			if len(idx) > limit {
				delete(b2j, r)
			}
		}
	}
	return &matcher{a: a, b: b, b2j: b2j}
}

type span struct{ alo, ahi, blo, bhi int }

// matched sums the sizes of all matching blocks.
func (m *matcher) matched() int {
	total := 0
	queue := []span{{0, len(m.a), 0, len(m.b)}}
	for len(queue) > 0 {
		s := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		i, j, k := m.longest(s)
		if k == 0 {
			continue
		}
		total += k
		if s.alo < i && s.blo < j {
			queue = append(queue, span{s.alo, i, s.blo, j})
		}
		if i+k < s.ahi && j+k < s.bhi {
			queue = append(queue, span{i + k, s.ahi, j + k, s.bhi})
		}
	}
	return total
}

// longest finds the longest block a[i:i+k] == b[j:j+k] inside s, preferring
// the earliest i and then the earliest j.
func (m *matcher) longest(s span) (besti, bestj, bestk int) {
	besti, bestj = s.alo, s.blo
	j2len := map[int]int{}
	for i := s.alo; i < s.ahi; i++ {
		next := map[int]int{}
		for _, j := range m.b2j[m.a[i]] {
			if j < s.blo {
				continue
			}
			if j >= s.bhi {
				break
			}
			k := j2len[j-1] + 1
			next[j] = k
			if k > bestk {
				besti, bestj, bestk = i-k+1, j-k+1, k
			}
		}
		j2len = next
	}

	// Characters dropped from the index as too frequent can still extend a
	// block on either side.
	for besti > s.alo && bestj > s.blo && m.a[besti-1] == m.b[bestj-1] {
		besti, bestj, bestk = besti-1, bestj-1, bestk+1
	}
	for besti+bestk < s.ahi && bestj+bestk < s.bhi && m.a[besti+bestk] == m.b[bestj+bestk] {
		bestk++
	}
	return besti, bestj, bestk
}
