// file: internal/matcher/threshold.go
// version: 1.0.0
// guid: a82eed6b-41ff-44a4-ba37-f1017e51719c

package matcher

import "unicode/utf8"

// ThresholdFor returns the minimum similarity a token of the given rune length
// must reach. Short tokens must match exactly; the bar relaxes with length.
func ThresholdFor(tokenLen int) float64 {
	switch {
	case tokenLen <= 2:
		return 1.0
	case tokenLen == 3:
		return 0.85
	case tokenLen <= 5:
		return 0.78
	case tokenLen <= 8:
		return 0.72
	default:
		return 0.68
	}
}

func thresholdForToken(token string) float64 {
	return ThresholdFor(utf8.RuneCountInString(token))
}
