// file: internal/render/highlight.go
// version: 1.0.0
// guid: f5aadf02-ec20-4d81-a47c-6d64e63dd080

package render

import (
	"strings"
	"unicode/utf8"

	"github.com/jdfalk/kitfinder/internal/matcher"
)

// Marker wraps the highlighted part of a block.
type Marker func(string) string

// Brackets is the plain-text marker.
func Brackets(s string) string {
	return "[" + s + "]"
}

// Highlight returns the block text with the matched region marked. Offsets
// refer to the normalized text; the original spelling is used when it lines
// up rune for rune, otherwise the normalized form is shown.
func Highlight(m matcher.BlockMatch, mark Marker) string {
	display := strings.Join(strings.Fields(m.Block), " ")
	normalized := matcher.Normalize(m.Block)
	if utf8.RuneCountInString(display) != utf8.RuneCountInString(normalized) {
		display = normalized
	}

	if m.WordIndex == matcher.NoPosition {
		if !m.Span.HasWindow() {
			return display
		}
		return markRange(display, m.Span.Start, m.Span.End, mark)
	}

	words := strings.Split(display, " ")
	if m.WordIndex >= len(words) {
		return display
	}
	word := words[m.WordIndex]
	if m.Span.HasWindow() {
		words[m.WordIndex] = markRange(word, m.Span.Start, m.Span.End, mark)
	} else {
		words[m.WordIndex] = mark(word)
	}
	return strings.Join(words, " ")
}

// markRange marks runes [start, end) of s, clamping to its length.
func markRange(s string, start, end int, mark Marker) string {
	r := []rune(s)
	start = max(0, min(start, len(r)))
	end = max(start, min(end, len(r)))
	if start == end {
		return s
	}
	return string(r[:start]) + mark(string(r[start:end])) + string(r[end:])
}
