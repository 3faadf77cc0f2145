// file: internal/search/service.go
// version: 1.0.0
// guid: e66cb41d-2782-428f-80da-1af5cb54a71e

package search

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jdfalk/kitfinder/internal/cache"
	"github.com/jdfalk/kitfinder/internal/catalog"
	"github.com/jdfalk/kitfinder/internal/matcher"
	"github.com/jdfalk/kitfinder/internal/metrics"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// ErrNoCatalog is returned when searching before any catalog was loaded.
var ErrNoCatalog = errors.New("no catalog loaded")

// Request is one search invocation.
type Request struct {
	Query string
	// KitFilter keeps only kits whose name fuzzy-matches it. Empty keeps all.
	KitFilter string
	// Limit caps the number of kits returned; 0 falls back to the service default.
	Limit int
}

// Response carries the ranked kits plus the state the caller should render.
type Response struct {
	State          matcher.State
	Tokens         []string
	Results        []matcher.KitResult
	TotalMatches   int
	CatalogVersion uint64
	Cached         bool
}

// Options configures a Service.
type Options struct {
	Engine          *matcher.Engine
	CacheEnabled    bool
	CacheTTL        time.Duration
	CacheMaxEntries int
	MaxResults      int
}

// Service runs searches against the live catalog.
type Service struct {
	store      *catalog.Store
	engine     *matcher.Engine
	cache      *cache.Cache[matcher.Outcome]
	maxResults int
}

// NewService creates a search service over store.
func NewService(store *catalog.Store, opts Options) *Service {
	engine := opts.Engine
	if engine == nil {
		engine = matcher.NewEngine()
	}
	s := &Service{
		store:      store,
		engine:     engine,
		maxResults: opts.MaxResults,
	}
	if opts.CacheEnabled && opts.CacheTTL > 0 {
		s.cache = cache.New[matcher.Outcome](opts.CacheTTL, opts.CacheMaxEntries)
	}
	return s
}

// Search tokenizes and ranks req.Query. The context is checked before the
// ranking starts; a running ranking is not interrupted.
func (s *Service) Search(ctx context.Context, req Request) (Response, error) {
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}

	kits, version := s.store.Snapshot()
	if version == 0 {
		return Response{}, ErrNoCatalog
	}

	start := time.Now()
	tokens := matcher.Tokenize(req.Query)
	resp := Response{Tokens: tokens, CatalogVersion: version}

	if len(tokens) == 0 {
		resp.State = matcher.StateNoQuery
		metrics.IncSearch(resp.State.String())
		return resp, nil
	}

	key := cacheKey(version, req.KitFilter, tokens)
	outcome, hit := s.lookup(key)
	if !hit {
		outcome = matcher.Outcome{
			State:   matcher.StateNoMatches,
			Tokens:  tokens,
			Results: s.engine.Rank(FilterKits(kits, req.KitFilter), tokens),
		}
		if len(outcome.Results) > 0 {
			outcome.State = matcher.StateMatches
		}
		if s.cache != nil {
			s.cache.Set(key, outcome)
		}
	}

	resp.State = outcome.State
	resp.Results = outcome.Results
	resp.TotalMatches = len(outcome.Results)
	resp.Cached = hit
	if limit := s.limit(req.Limit); limit > 0 && len(resp.Results) > limit {
		resp.Results = resp.Results[:limit]
	}

	elapsed := time.Since(start)
	metrics.IncSearch(resp.State.String())
	metrics.ObserveSearchDuration(elapsed)
	metrics.ObserveKitsMatched(resp.TotalMatches)
	log.Printf("[DEBUG] search: tokens=%v kits=%d matches=%d cached=%v took=%s",
		tokens, len(kits), resp.TotalMatches, hit, elapsed)
	return resp, nil
}

func (s *Service) lookup(key string) (matcher.Outcome, bool) {
	if s.cache == nil {
		return matcher.Outcome{}, false
	}
	outcome, ok := s.cache.Get(key)
	if ok {
		metrics.IncCacheHit()
	} else {
		metrics.IncCacheMiss()
	}
	return outcome, ok
}

func (s *Service) limit(requested int) int {
	if requested > 0 {
		if s.maxResults > 0 && requested > s.maxResults {
			return s.maxResults
		}
		return requested
	}
	return s.maxResults
}

// Reload re-reads the catalog from disk and drops cached results.
func (s *Service) Reload() error {
	if err := s.store.Reload(); err != nil {
		metrics.IncCatalogReload(false)
		return fmt.Errorf("catalog reload failed: %w", err)
	}
	if s.cache != nil {
		s.cache.InvalidateAll()
	}
	metrics.IncCatalogReload(true)
	metrics.SetCatalogKits(s.store.Len())
	return nil
}

// CatalogPath returns the file the catalog was loaded from.
func (s *Service) CatalogPath() string {
	return s.store.Path()
}

// Kits returns the current catalog snapshot.
func (s *Service) Kits() ([]matcher.Kit, uint64) {
	return s.store.Snapshot()
}

// FilterKits keeps kits whose name fuzzy-matches filter, ignoring case and
// diacritics. The input slice is never modified.
func FilterKits(kits []matcher.Kit, filter string) []matcher.Kit {
	filter = strings.TrimSpace(filter)
	if filter == "" {
		return kits
	}
	out := make([]matcher.Kit, 0, len(kits))
	for _, k := range kits {
		if fuzzy.MatchNormalizedFold(filter, k.Name) {
			out = append(out, k)
		}
	}
	return out
}

func cacheKey(version uint64, filter string, tokens []string) string {
	return fmt.Sprintf("%d\x00%s\x00%s", version, strings.ToLower(strings.TrimSpace(filter)), strings.Join(tokens, "\x00"))
}
