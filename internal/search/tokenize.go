package search

import "strings"

// Tokenize lowercases the term and splits it on whitespace, treating the
// full-width space (U+3000) common in Japanese input as a separator too.
func Tokenize(term string) []string {
	term = strings.ToLower(term)
	term = strings.ReplaceAll(term, "　", " ")
	return strings.Fields(term)
}

// Similarity returns a ratio in [0,1] between two strings. A literal
// substring match scores 1.0; otherwise the Ratcliff/Obershelp ratio over
// runes: twice the matched character count divided by the total length.
func Similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0.0
	}
	if strings.Contains(b, a) {
		return 1.0
	}

	ar, br := []rune(a), []rune(b)
	m := matchingTotal(ar, br)
	return 2.0 * float64(m) / float64(len(ar)+len(br))
}

// matchingTotal sums the sizes of matching blocks: the longest common
// substring, then recursively the pieces to its left and right.
func matchingTotal(a, b []rune) int {
	ai, bi, size := longestMatch(a, b)
	if size == 0 {
		return 0
	}
	return size +
		matchingTotal(a[:ai], b[:bi]) +
		matchingTotal(a[ai+size:], b[bi+size:])
}

func longestMatch(a, b []rune) (ai, bi, size int) {
	if len(a) == 0 || len(b) == 0 {
		return 0, 0, 0
	}

	// lengths[j] holds the running match length ending at b[j-1] for the
	// previous row of a.
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i, ra := range a {
		for j, rb := range b {
			if ra != rb {
				cur[j+1] = 0
				continue
			}
			cur[j+1] = prev[j] + 1
			if cur[j+1] > size {
				size = cur[j+1]
				ai = i - size + 1
				bi = j - size + 1
			}
		}
		prev, cur = cur, prev
	}
	return ai, bi, size
}
