// file: internal/matcher/block.go
// version: 1.0.0
// guid: 39114c98-174d-4040-8e4a-c138a1c287f2

package matcher

import "strings"

// MatchTokenToBlock scores token against the block's full text and then
// against each of its words, returning the highest score and the word index
// that produced it. Full text is evaluated first and wins ties.
func MatchTokenToBlock(token, block string) (MatchSpan, int) {
	q := canonical(token)
	normalized := Normalize(block)

	best := windowSimilarity(Singularize(normalized), q)
	wordIndex := NoPosition

	for i, word := range strings.Fields(normalized) {
		span := windowSimilarity(Singularize(word), q)
		if span.Score > best.Score {
			best = span
			wordIndex = i
		}
	}
	return best, wordIndex
}
