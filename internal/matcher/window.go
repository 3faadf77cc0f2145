// file: internal/matcher/window.go
// version: 1.0.0
// guid: 749134d1-883b-4117-a044-30c58eb1494a

package matcher

import (
	"strings"
	"unicode/utf8"
)

// BestWindowSimilarity scores how well token occurs inside candidate.
//
// Both sides are normalized and singularized. An exact substring scores 1.
// Otherwise the result is the best of three measures: a prefix ratio when one
// string starts with the other, the best sliding window of the token's length,
// and whole-string similarity. Only a winning window carries a span; on ties
// the window is preferred so callers can still highlight it.
func BestWindowSimilarity(candidate, token string) MatchSpan {
	return windowSimilarity(canonical(candidate), canonical(token))
}

func windowSimilarity(t, q string) MatchSpan {
	none := MatchSpan{Start: NoPosition, End: NoPosition}
	if q == "" {
		return none
	}

	if idx := strings.Index(t, q); idx >= 0 {
		start := utf8.RuneCountInString(t[:idx])
		return MatchSpan{
			Score: 1,
			Start: start,
			End:   start + utf8.RuneCountInString(q),
			Exact: true,
		}
	}

	tr, qr := []rune(t), []rune(q)

	best := none
	best.Score = -1
	if len(qr) <= len(tr) {
		for i := 0; i+len(qr) <= len(tr); i++ {
			score := similarity(tr[i:i+len(qr)], qr)
			if score > best.Score {
				best = MatchSpan{Score: score, Start: i, End: i + len(qr)}
				if score == 1 {
					return best
				}
			}
		}
	}

	if whole := similarity(tr, qr); whole > best.Score {
		best = MatchSpan{Score: whole, Start: NoPosition, End: NoPosition}
	}

	// t containing q was handled above, so only q can extend t here.
	if strings.HasPrefix(q, t) {
		prefix := float64(len(tr)) / float64(len(qr))
		if prefix > best.Score {
			best = MatchSpan{Score: prefix, Start: NoPosition, End: NoPosition}
		}
	}

	return best
}
