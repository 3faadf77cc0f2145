// file: internal/render/text.go
// version: 1.0.0
// guid: 7cb7bf8f-7346-4cd7-9cc5-212441efc954

package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jdfalk/kitfinder/internal/matcher"
	"github.com/jdfalk/kitfinder/internal/search"
)

var (
	kitStyle   = lipgloss.NewStyle().Bold(true)
	matchStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// TextOptions controls terminal output.
type TextOptions struct {
	Color bool
}

func (o TextOptions) marker() Marker {
	if o.Color {
		return func(s string) string { return matchStyle.Render(s) }
	}
	return Brackets
}

func (o TextOptions) kit(s string) string {
	if o.Color {
		return kitStyle.Render(s)
	}
	return s
}

func (o TextOptions) dim(s string) string {
	if o.Color {
		return dimStyle.Render(s)
	}
	return s
}

// WriteText prints a human-readable result listing. The no-query and
// no-match states get distinct messages.
func WriteText(w io.Writer, query string, resp search.Response, opts TextOptions) error {
	switch resp.State {
	case matcher.StateNoQuery:
		_, err := fmt.Fprintln(w, "Nothing to search for: enter one or more block names.")
		return err
	case matcher.StateNoMatches:
		_, err := fmt.Fprintf(w, "No kits contain a block matching %q.\n", strings.TrimSpace(query))
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d %s matched", resp.TotalMatches, plural(resp.TotalMatches, "kit", "kits"))
	if len(resp.Results) < resp.TotalMatches {
		fmt.Fprintf(&b, " (showing %d)", len(resp.Results))
	}
	b.WriteString("\n")

	mark := opts.marker()
	for i, r := range resp.Results {
		fmt.Fprintf(&b, "\n%2d. %s  %s\n", i+1, opts.kit(r.Kit.Name),
			opts.dim(fmt.Sprintf("score %.2f, %d %s", r.KitScore, r.HitsCount, plural(r.HitsCount, "hit", "hits"))))
		for _, m := range r.MatchedBlocks {
			fmt.Fprintf(&b, "    - %s  %s\n", Highlight(m, mark), opts.dim(fmt.Sprintf("%.2f", m.Span.Score)))
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteKits prints the catalog listing.
func WriteKits(w io.Writer, kits []matcher.Kit, opts TextOptions) error {
	var b strings.Builder
	for _, k := range kits {
		fmt.Fprintf(&b, "%s  %s\n", opts.kit(k.Name), opts.dim(fmt.Sprintf("(%d %s)", len(k.Blocks), plural(len(k.Blocks), "block", "blocks"))))
		for _, block := range k.Blocks {
			fmt.Fprintf(&b, "    - %s\n", block)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
