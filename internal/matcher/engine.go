// file: internal/matcher/engine.go
// version: 1.0.0
// guid: 1eef198e-d406-43da-ab81-cc36c5a0765f

package matcher

import (
	"sort"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Engine ranks kits against query tokens. It holds no mutable state and is
// safe for concurrent use.
type Engine struct {
	workers int
	lang    language.Tag
}

// Option configures an Engine.
type Option func(*Engine)

// WithWorkers evaluates kits on up to n goroutines. Values below 2 keep
// evaluation on the calling goroutine. Ordering is unaffected.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n < 1 {
			n = 1
		}
		e.workers = n
	}
}

// WithLanguage sets the locale used to order kit names on score ties.
func WithLanguage(tag language.Tag) Option {
	return func(e *Engine) {
		e.lang = tag
	}
}

// NewEngine creates an engine. The default is sequential with English collation.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{workers: 1, lang: language.English}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var defaultEngine = NewEngine()

// Rank ranks kits with the default sequential engine.
func Rank(kits []Kit, tokens []string) []KitResult {
	return defaultEngine.Rank(kits, tokens)
}

// Search tokenizes query and ranks kits with the default sequential engine.
func Search(kits []Kit, query string) Outcome {
	return defaultEngine.Search(kits, query)
}

// Search tokenizes query and ranks kits, reporting which empty state applies.
func (e *Engine) Search(kits []Kit, query string) Outcome {
	tokens := Tokenize(query)
	if len(tokens) == 0 {
		return Outcome{State: StateNoQuery, Tokens: tokens}
	}
	results := e.Rank(kits, tokens)
	state := StateMatches
	if len(results) == 0 {
		state = StateNoMatches
	}
	return Outcome{State: state, Tokens: tokens, Results: results}
}

// Rank scores every kit against tokens and returns the kits with at least one
// admitted block, ordered by kit score, then hit count (both descending), then
// kit name under case-insensitive collation. No tokens yields no results.
func (e *Engine) Rank(kits []Kit, tokens []string) []KitResult {
	if len(tokens) == 0 || len(kits) == 0 {
		return nil
	}

	thresholds := make([]float64, len(tokens))
	for i, tok := range tokens {
		thresholds[i] = thresholdForToken(tok)
	}

	partial := make([]*KitResult, len(kits))
	if e.workers > 1 && len(kits) > 1 {
		var g errgroup.Group
		g.SetLimit(e.workers)
		for i := range kits {
			g.Go(func() error {
				partial[i] = evaluateKit(&kits[i], tokens, thresholds)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i := range kits {
			partial[i] = evaluateKit(&kits[i], tokens, thresholds)
		}
	}

	results := make([]KitResult, 0, len(kits))
	for _, r := range partial {
		if r != nil {
			results = append(results, *r)
		}
	}
	if len(results) == 0 {
		return nil
	}

	// Collators keep scratch buffers, so each call gets its own.
	col := collate.New(e.lang, collate.IgnoreCase)
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.KitScore != b.KitScore {
			return a.KitScore > b.KitScore
		}
		if a.HitsCount != b.HitsCount {
			return a.HitsCount > b.HitsCount
		}
		return col.CompareString(a.Kit.Name, b.Kit.Name) < 0
	})
	return results
}

// evaluateKit returns nil when no block admits any token.
func evaluateKit(kit *Kit, tokens []string, thresholds []float64) *KitResult {
	var matched []BlockMatch
	var total float64

	for bi, block := range kit.Blocks {
		var best *BlockMatch
		for ti, tok := range tokens {
			span, word := MatchTokenToBlock(tok, block)
			if span.Score < thresholds[ti] {
				continue
			}
			if best == nil || span.Score > best.Span.Score {
				best = &BlockMatch{
					Block:      block,
					BlockIndex: bi,
					Token:      tok,
					Span:       span,
					WordIndex:  word,
				}
			}
		}
		if best != nil {
			matched = append(matched, *best)
			total += best.Span.Score
		}
	}

	if len(matched) == 0 {
		return nil
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Span.Score > matched[j].Span.Score
	})
	return &KitResult{
		Kit:           kit,
		MatchedBlocks: matched,
		KitScore:      total,
		HitsCount:     len(matched),
	}
}
