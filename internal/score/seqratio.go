package score

// SequenceRatio computes the classic difference-ratio between two strings:
// twice the total length of matching blocks divided by the combined length.
// Matching blocks are found greedily, longest-first, the way
// difflib.SequenceMatcher does (no junk heuristics; inputs here are short
// normalized titles).
func SequenceRatio(a, b string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	b2j := make(map[byte][]int, len(b))
	for j := 0; j < len(b); j++ {
		b2j[b[j]] = append(b2j[b[j]], j)
	}

	matched := 0
	type span struct{ alo, ahi, blo, bhi int }
	queue := []span{{0, len(a), 0, len(b)}}
	for len(queue) > 0 {
		s := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		i, j, k := longestMatch(a, b2j, s.alo, s.ahi, s.blo, s.bhi)
		if k == 0 {
			continue
		}
		matched += k
		if s.alo < i && s.blo < j {
			queue = append(queue, span{s.alo, i, s.blo, j})
		}
		if i+k < s.ahi && j+k < s.bhi {
			queue = append(queue, span{i + k, s.ahi, j + k, s.bhi})
		}
	}

	return 2.0 * float64(matched) / float64(len(a)+len(b))
}

// longestMatch finds the longest matching block of a[alo:ahi] in b[blo:bhi],
// preferring the earliest block in a (and then in b) on equal length.
func longestMatch(a string, b2j map[byte][]int, alo, ahi, blo, bhi int) (besti, bestj, bestk int) {
	besti, bestj, bestk = alo, blo, 0
	j2len := make(map[int]int)
	for i := alo; i < ahi; i++ {
		newj2len := make(map[int]int)
		for _, j := range b2j[a[i]] {
			if j < blo {
				continue
			}
			if j >= bhi {
				break
			}
			k := j2len[j-1] + 1
			newj2len[j] = k
			if k > bestk {
				besti, bestj, bestk = i-k+1, j-k+1, k
			}
		}
		j2len = newj2len
	}
	return besti, bestj, bestk
}
