// file: internal/matcher/levenshtein.go
// version: 2.0.0
// guid: 0d1aef71-7fa1-46cb-82a4-26cf7ab69f8c

package matcher

// Levenshtein returns the single-rune insert/delete/substitute edit distance
// between a and b. Comparison is exact; callers normalize first.
func Levenshtein(a, b string) int {
	return levenshteinRunes([]rune(a), []rune(b))
}

func levenshteinRunes(a, b []rune) int {
	la, lb := len(a), len(b)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}

	// Two rolling rows of len(b)+1
	prev := make([]int, lb+1)
	curr := make([]int, lb+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= la; i++ {
		curr[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[lb]
}

// similarity maps edit distance onto [0,1] relative to the longer input.
func similarity(a, b []rune) float64 {
	maxLen := max(len(a), len(b))
	if maxLen == 0 {
		return 1
	}
	return 1 - float64(levenshteinRunes(a, b))/float64(maxLen)
}
