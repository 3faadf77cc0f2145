// file: internal/matcher/engine_test.go
// version: 1.0.0
// guid: 6ca867de-aa31-4b79-b1f5-56ac8553cc1a

package matcher

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/text/language"
)

func forestCatalog() []Kit {
	return []Kit{
		{Name: "Forest Kit", Blocks: []string{"Grass Block", "Oak Planks", "Stone"}},
	}
}

func TestRank_TypoAdmitted(t *testing.T) {
	kits := forestCatalog()
	results := Rank(kits, Tokenize("stome"))

	require.Len(t, results, 1)
	r := results[0]
	assert.Equal(t, "Forest Kit", r.Kit.Name)
	require.Len(t, r.MatchedBlocks, 1)
	m := r.MatchedBlocks[0]
	assert.Equal(t, "Stone", m.Block)
	assert.Equal(t, 2, m.BlockIndex)
	assert.Equal(t, "stome", m.Token)
	assert.InDelta(t, 0.8, m.Span.Score, 1e-9)
	assert.False(t, m.Span.Exact)
	assert.Equal(t, NoPosition, m.WordIndex)
	assert.InDelta(t, 0.8, r.KitScore, 1e-9)
	assert.Equal(t, 1, r.HitsCount)
}

func TestRank_ShortTokenNeedsExact(t *testing.T) {
	results := Rank(forestCatalog(), Tokenize("gr"))

	require.Len(t, results, 1)
	require.Len(t, results[0].MatchedBlocks, 1)
	m := results[0].MatchedBlocks[0]
	assert.Equal(t, "Grass Block", m.Block)
	assert.Equal(t, 1.0, m.Span.Score)
	assert.True(t, m.Span.Exact)
	assert.Equal(t, 0, m.Span.Start)
	assert.Equal(t, 2, m.Span.End)
}

func TestRank_NoMatches(t *testing.T) {
	assert.Empty(t, Rank(forestCatalog(), Tokenize("xyz999")))
}

func TestRank_EmptyInputs(t *testing.T) {
	assert.Empty(t, Rank(forestCatalog(), nil))
	assert.Empty(t, Rank(nil, []string{"stone"}))
	assert.Empty(t, Rank([]Kit{{Name: "Empty"}}, []string{"stone"}))
}

func TestSearch_States(t *testing.T) {
	kits := forestCatalog()

	out := Search(kits, "   ,  ")
	assert.Equal(t, StateNoQuery, out.State)
	assert.Empty(t, out.Tokens)
	assert.Empty(t, out.Results)

	out = Search(kits, "xyz999")
	assert.Equal(t, StateNoMatches, out.State)
	assert.Equal(t, []string{"xyz999"}, out.Tokens)
	assert.Empty(t, out.Results)

	out = Search(kits, "oak")
	assert.Equal(t, StateMatches, out.State)
	assert.Len(t, out.Results, 1)
}

func TestRank_BestTokenPerBlock(t *testing.T) {
	kits := []Kit{{Name: "Planks", Blocks: []string{"Oak Planks"}}}
	results := Rank(kits, []string{"oak", "plank"})

	require.Len(t, results, 1)
	require.Len(t, results[0].MatchedBlocks, 1)
	assert.Equal(t, "oak", results[0].MatchedBlocks[0].Token, "first token wins score ties")
	assert.Equal(t, 1.0, results[0].KitScore)
	assert.Equal(t, 1, results[0].HitsCount)
}

func TestRank_MatchedBlocksByScore(t *testing.T) {
	kits := []Kit{{Name: "Walls", Blocks: []string{"Stone", "Stome Wall"}}}
	results := Rank(kits, Tokenize("stome"))

	require.Len(t, results, 1)
	r := results[0]
	require.Len(t, r.MatchedBlocks, 2)
	assert.Equal(t, "Stome Wall", r.MatchedBlocks[0].Block)
	assert.Equal(t, "Stone", r.MatchedBlocks[1].Block)
	assert.InDelta(t, 1.8, r.KitScore, 1e-9)
	assert.Equal(t, 2, r.HitsCount)

	var sum float64
	for _, m := range r.MatchedBlocks {
		sum += m.Span.Score
	}
	assert.InDelta(t, sum, r.KitScore, 1e-9)
}

func TestRank_OrderByScoreThenName(t *testing.T) {
	kits := []Kit{
		{Name: "Beta", Blocks: []string{"Stone"}},
		{Name: "zeta", Blocks: []string{"Stone", "Stone Bricks"}},
		{Name: "alpha", Blocks: []string{"Stone"}},
		{Name: "Nether", Blocks: []string{"Netherrack"}},
	}
	results := Rank(kits, Tokenize("stone"))

	names := make([]string, len(results))
	for i, r := range results {
		names[i] = r.Kit.Name
	}
	assert.Equal(t, []string{"zeta", "alpha", "Beta"}, names)
}

func TestRank_CollationFollowsLanguage(t *testing.T) {
	kits := []Kit{
		{Name: "Zinc Kit", Blocks: []string{"Stone"}},
		{Name: "Öre Kit", Blocks: []string{"Stone"}},
	}
	tokens := Tokenize("stone")

	en := NewEngine().Rank(kits, tokens)
	require.Len(t, en, 2)
	assert.Equal(t, "Öre Kit", en[0].Kit.Name)

	sv := NewEngine(WithLanguage(language.Swedish)).Rank(kits, tokens)
	require.Len(t, sv, 2)
	assert.Equal(t, "Zinc Kit", sv[0].Kit.Name)
}

func syntheticCatalog(n int) []Kit {
	materials := []string{"Stone", "Oak Planks", "Birch Log", "Sweet Berries", "Glass Pane", "Cobblestone", "Deepslate Tiles", "Torches"}
	kits := make([]Kit, n)
	for i := range kits {
		blocks := make([]string, 0, 4)
		for j := 0; j < 4; j++ {
			blocks = append(blocks, materials[(i*3+j)%len(materials)])
		}
		kits[i] = Kit{Name: fmt.Sprintf("Kit %03d", n-i), Blocks: blocks}
	}
	return kits
}

func TestRank_ParallelMatchesSequential(t *testing.T) {
	defer goleak.VerifyNone(t)

	kits := syntheticCatalog(200)
	tokens := Tokenize("stone, berry glas torch")

	sequential := NewEngine().Rank(kits, tokens)
	parallel := NewEngine(WithWorkers(8)).Rank(kits, tokens)

	require.NotEmpty(t, sequential)
	assert.Equal(t, sequential, parallel)
}

func TestRank_Idempotent(t *testing.T) {
	kits := syntheticCatalog(50)
	tokens := Tokenize("cobble, pane")

	first := Rank(kits, tokens)
	second := Rank(kits, tokens)
	assert.Equal(t, first, second)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "no_query", StateNoQuery.String())
	assert.Equal(t, "no_matches", StateNoMatches.String())
	assert.Equal(t, "matches", StateMatches.String())
	assert.Equal(t, "unknown", State(42).String())
}

func BenchmarkRank(b *testing.B) {
	kits := syntheticCatalog(500)
	tokens := Tokenize("stome, berries glas")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Rank(kits, tokens)
	}
}

func BenchmarkRankParallel(b *testing.B) {
	kits := syntheticCatalog(500)
	tokens := Tokenize("stome, berries glas")
	e := NewEngine(WithWorkers(4))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.Rank(kits, tokens)
	}
}
