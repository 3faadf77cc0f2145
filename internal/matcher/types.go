// file: internal/matcher/types.go
// version: 1.0.0
// guid: 858a9224-bc30-4001-8198-252eac6bf7c1

package matcher

// NoPosition marks an absent span bound or word index.
const NoPosition = -1

// Kit is a named collection of block labels.
type Kit struct {
	Name   string   `json:"name" yaml:"name"`
	Blocks []string `json:"blocks" yaml:"blocks"`
}

// MatchSpan locates the best match inside a canonical candidate string.
// Start and End are rune offsets (End exclusive) or NoPosition when the
// score came from whole-string or prefix similarity.
type MatchSpan struct {
	Score float64 `json:"score"`
	Start int     `json:"start"`
	End   int     `json:"end"`
	Exact bool    `json:"exact"`
}

// HasWindow reports whether the span points at a concrete window.
func (s MatchSpan) HasWindow() bool {
	return s.Start != NoPosition && s.End != NoPosition
}

// BlockMatch is the single best admitted token match for one block.
type BlockMatch struct {
	Block      string    `json:"block"`
	BlockIndex int       `json:"block_index"`
	Token      string    `json:"token"`
	Span       MatchSpan `json:"span"`
	// WordIndex is NoPosition when the block's full text matched.
	WordIndex int `json:"word_index"`
}

// KitResult aggregates the admitted blocks of one kit.
type KitResult struct {
	Kit           *Kit         `json:"-"`
	MatchedBlocks []BlockMatch `json:"matched_blocks"`
	KitScore      float64      `json:"kit_score"`
	HitsCount     int          `json:"hits_count"`
}

// State tells callers which empty-state, if any, a search landed in.
type State int

const (
	StateNoQuery State = iota
	StateNoMatches
	StateMatches
)

func (s State) String() string {
	switch s {
	case StateNoQuery:
		return "no_query"
	case StateNoMatches:
		return "no_matches"
	case StateMatches:
		return "matches"
	default:
		return "unknown"
	}
}

// Outcome is the result of tokenizing and ranking one query.
type Outcome struct {
	State   State
	Tokens  []string
	Results []KitResult
}
