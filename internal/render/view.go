// file: internal/render/view.go
// version: 1.0.0
// guid: 6b0ab5f4-2c15-4398-bad7-2bf6b32c6e33

package render

import (
	"github.com/jdfalk/kitfinder/internal/matcher"
	"github.com/jdfalk/kitfinder/internal/search"
)

// SpanView is the wire form of a match span. Nil bounds mean "none".
type SpanView struct {
	Score float64 `json:"score"`
	Start *int    `json:"start"`
	End   *int    `json:"end"`
	Exact bool    `json:"exact"`
}

// BlockView describes one matched block.
type BlockView struct {
	Block       string   `json:"block"`
	BlockIndex  int      `json:"block_index"`
	Token       string   `json:"token"`
	Span        SpanView `json:"span"`
	WordIndex   *int     `json:"matched_word_index"`
	Highlighted string   `json:"highlighted"`
}

// KitView describes one ranked kit.
type KitView struct {
	Name          string      `json:"name"`
	KitScore      float64     `json:"kit_score"`
	HitsCount     int         `json:"hits_count"`
	MatchedBlocks []BlockView `json:"matched_blocks"`
}

// SearchView is the response body shared by the CLI's JSON mode and the HTTP API.
type SearchView struct {
	RequestID      string    `json:"request_id,omitempty"`
	Query          string    `json:"query"`
	Tokens         []string  `json:"tokens"`
	State          string    `json:"state"`
	TotalMatches   int       `json:"total_matches"`
	CatalogVersion uint64    `json:"catalog_version"`
	Cached         bool      `json:"cached"`
	Results        []KitView `json:"results"`
}

func position(p int) *int {
	if p == matcher.NoPosition {
		return nil
	}
	return &p
}

// NewSearchView converts a search response. Slices are never nil so JSON
// encodes empty arrays.
func NewSearchView(query string, resp search.Response) SearchView {
	v := SearchView{
		Query:          query,
		Tokens:         resp.Tokens,
		State:          resp.State.String(),
		TotalMatches:   resp.TotalMatches,
		CatalogVersion: resp.CatalogVersion,
		Cached:         resp.Cached,
		Results:        make([]KitView, 0, len(resp.Results)),
	}
	if v.Tokens == nil {
		v.Tokens = []string{}
	}
	for _, r := range resp.Results {
		kv := KitView{
			Name:          r.Kit.Name,
			KitScore:      r.KitScore,
			HitsCount:     r.HitsCount,
			MatchedBlocks: make([]BlockView, 0, len(r.MatchedBlocks)),
		}
		for _, m := range r.MatchedBlocks {
			kv.MatchedBlocks = append(kv.MatchedBlocks, BlockView{
				Block:      m.Block,
				BlockIndex: m.BlockIndex,
				Token:      m.Token,
				Span: SpanView{
					Score: m.Span.Score,
					Start: position(m.Span.Start),
					End:   position(m.Span.End),
					Exact: m.Span.Exact,
				},
				WordIndex:   position(m.WordIndex),
				Highlighted: Highlight(m, Brackets),
			})
		}
		v.Results = append(v.Results, kv)
	}
	return v
}
