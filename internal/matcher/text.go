// file: internal/matcher/text.go
// version: 1.0.0
// guid: 848cbfad-ec06-4426-85d6-4338000867db

package matcher

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Normalize lowercases s, applies NFKC so compatibility forms collapse to one
// representation, and squeezes whitespace runs into single spaces.
func Normalize(s string) string {
	s = norm.NFKC.String(strings.ToLower(s))
	return strings.Join(strings.Fields(s), " ")
}

// Singularize strips simple English plural suffixes. The first matching rule
// wins; the rules are heuristic and intentionally incomplete.
func Singularize(s string) string {
	n := utf8.RuneCountInString(s)
	switch {
	case strings.HasSuffix(s, "ies") && n > 3:
		return strings.TrimSuffix(s, "ies") + "y"
	case strings.HasSuffix(s, "sses"):
		return strings.TrimSuffix(s, "es")
	case strings.HasSuffix(s, "xes"), strings.HasSuffix(s, "ches"), strings.HasSuffix(s, "shes"):
		return strings.TrimSuffix(s, "es")
	case strings.HasSuffix(s, "es") && n > 3:
		return strings.TrimSuffix(s, "es")
	case strings.HasSuffix(s, "s") && n > 3:
		return strings.TrimSuffix(s, "s")
	}
	return s
}

// canonical is the comparison form used on both sides of every match.
func canonical(s string) string {
	return Singularize(Normalize(s))
}

// Tokenize splits a raw query on runs of commas and whitespace and returns the
// canonical form of each piece. An empty result means there is no active
// search, not that everything matches.
func Tokenize(query string) []string {
	pieces := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})

	tokens := make([]string, 0, len(pieces))
	for _, p := range pieces {
		if tok := canonical(p); tok != "" {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}
