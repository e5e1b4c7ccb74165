package textutil

// Ratio computes a similarity ratio between two strings in [0, 1].
//
// The metric is the classic sequence-matching ratio 2*M/T, where M is the
// total length of matching blocks found by greedy longest-common-substring
// decomposition and T is the combined length of both strings. It is
// symmetric and returns 1 for two equal strings, including two empty ones.
//
// Callers are expected to pass normalized text; Ratio itself performs no
// canonicalization.
func Ratio(a, b string) float64 {
	ra := []rune(a)
	rb := []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1
	}
	matched := matchingRunes(ra, rb)
	return 2 * float64(matched) / float64(total)
}

// matchingRunes returns the total length of matching blocks between a and b.
// The longest common substring splits both sequences; the regions to its left
// and right are decomposed recursively.
func matchingRunes(a, b []rune) int {
	ai, bi, size := longestCommonBlock(a, b)
	if size == 0 {
		return 0
	}
	matched := size
	matched += matchingRunes(a[:ai], b[:bi])
	matched += matchingRunes(a[ai+size:], b[bi+size:])
	return matched
}

// longestCommonBlock finds the longest common substring of a and b, returning
// its start offsets and length. Ties resolve to the earliest position in a,
// then the earliest in b, so decomposition is deterministic.
func longestCommonBlock(a, b []rune) (ai, bi, size int) {
	if len(a) == 0 || len(b) == 0 {
		return 0, 0, 0
	}
	positions := make(map[rune][]int, len(b))
	for j, r := range b {
		positions[r] = append(positions[r], j)
	}
	lengths := make(map[int]int)
	for i, r := range a {
		next := make(map[int]int, len(positions[r]))
		for _, j := range positions[r] {
			k := lengths[j-1] + 1
			next[j] = k
			if k > size {
				ai = i - k + 1
				bi = j - k + 1
				size = k
			}
		}
		lengths = next
	}
	return ai, bi, size
}
