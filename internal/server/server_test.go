// file: internal/server/server_test.go
// version: 2.0.0
// guid: 4d5e6f7a-8b9c-0d1e-2f3a-4b5c6d7e8f9a

package server

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jdfalk/kitfinder/internal/catalog"
	"github.com/jdfalk/kitfinder/internal/config"
	"github.com/jdfalk/kitfinder/internal/matcher"
	"github.com/jdfalk/kitfinder/internal/realtime"
	"github.com/jdfalk/kitfinder/internal/render"
	"github.com/jdfalk/kitfinder/internal/search"
	"github.com/jdfalk/kitfinder/internal/server/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServerConfig() config.ServerConfig {
	return config.ServerConfig{
		Host:               "127.0.0.1",
		Port:               "0",
		RateLimitPerMinute: 6000,
		RateLimitBurst:     1000,
		MaxBodyBytes:       1 << 20,
	}
}

func testKits() []matcher.Kit {
	return []matcher.Kit{
		{Name: "Forest Kit", Blocks: []string{"Grass Block", "Oak Planks", "Stone"}},
		{Name: "Mountain Kit", Blocks: []string{"Stone", "Cobblestone", "Gravel"}},
		{Name: "Ocean Kit", Blocks: []string{"Prismarine", "Sea Lantern", "Sand"}},
	}
}

func newTestServer(t *testing.T, store *catalog.Store, cfg config.ServerConfig) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc := search.NewService(store, search.Options{CacheEnabled: true, CacheTTL: time.Minute})
	return NewServer(svc, cfg, WithVersion("test"))
}

func loadedStore() *catalog.Store {
	store := catalog.NewStore()
	store.Replace(testKits())
	return store
}

func doRequest(t *testing.T, s *Server, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	if req.RemoteAddr == "" {
		req.RemoteAddr = "192.0.2.10:5555"
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decodeView(t *testing.T, w *httptest.ResponseRecorder) render.SearchView {
	t.Helper()
	var view render.SearchView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view), w.Body.String())
	return view
}

func TestHealthCheck(t *testing.T) {
	s := newTestServer(t, loadedStore(), testServerConfig())

	w := doRequest(t, s, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "test", resp.Version)
	assert.Equal(t, 3, resp.CatalogKits)
	assert.Equal(t, uint64(1), resp.CatalogVersion)
}

func TestHealthCheck_DegradedWithoutCatalog(t *testing.T) {
	s := newTestServer(t, catalog.NewStore(), testServerConfig())

	w := doRequest(t, s, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"degraded"`)
}

func TestSearch_Matches(t *testing.T) {
	s := newTestServer(t, loadedStore(), testServerConfig())

	w := doRequest(t, s, httptest.NewRequest(http.MethodGet, "/api/v1/search?q=stone", nil))
	require.Equal(t, http.StatusOK, w.Code)

	view := decodeView(t, w)
	assert.Equal(t, "matches", view.State)
	assert.Equal(t, "stone", view.Query)
	assert.Equal(t, []string{"stone"}, view.Tokens)
	assert.Equal(t, 2, view.TotalMatches)
	require.Len(t, view.Results, 2)
	assert.Equal(t, "Mountain Kit", view.Results[0].Name)
	assert.Equal(t, 2, view.Results[0].HitsCount)
	assert.InDelta(t, 2.0, view.Results[0].KitScore, 1e-9)

	assert.NotEmpty(t, view.RequestID)
	assert.Equal(t, w.Header().Get(middleware.RequestIDHeader), view.RequestID)
}

func TestSearch_SpanFields(t *testing.T) {
	s := newTestServer(t, loadedStore(), testServerConfig())

	w := doRequest(t, s, httptest.NewRequest(http.MethodGet, "/api/v1/search?q=lantern", nil))
	require.Equal(t, http.StatusOK, w.Code)

	view := decodeView(t, w)
	require.Len(t, view.Results, 1)
	require.Len(t, view.Results[0].MatchedBlocks, 1)
	block := view.Results[0].MatchedBlocks[0]
	assert.Equal(t, "Sea Lantern", block.Block)
	assert.Equal(t, 1, block.BlockIndex)
	assert.True(t, block.Span.Exact)
	require.NotNil(t, block.Span.Start)
	require.NotNil(t, block.Span.End)
	assert.Equal(t, 4, *block.Span.Start)
	assert.Equal(t, 11, *block.Span.End)
	assert.Nil(t, block.WordIndex, "substring hits are found on the full text")
	assert.Equal(t, "Sea [Lantern]", block.Highlighted)
}

func TestSearch_NoQueryAndNoMatches(t *testing.T) {
	s := newTestServer(t, loadedStore(), testServerConfig())

	w := doRequest(t, s, httptest.NewRequest(http.MethodGet, "/api/v1/search?q=+,+", nil))
	require.Equal(t, http.StatusOK, w.Code)
	view := decodeView(t, w)
	assert.Equal(t, "no_query", view.State)
	assert.Empty(t, view.Results)
	assert.Contains(t, w.Body.String(), `"results":[]`)

	w = doRequest(t, s, httptest.NewRequest(http.MethodGet, "/api/v1/search?q=xyz999", nil))
	require.Equal(t, http.StatusOK, w.Code)
	view = decodeView(t, w)
	assert.Equal(t, "no_matches", view.State)
	assert.Empty(t, view.Results)
}

func TestSearch_LimitAndFilter(t *testing.T) {
	s := newTestServer(t, loadedStore(), testServerConfig())

	w := doRequest(t, s, httptest.NewRequest(http.MethodGet, "/api/v1/search?q=stone&limit=1", nil))
	require.Equal(t, http.StatusOK, w.Code)
	view := decodeView(t, w)
	assert.Len(t, view.Results, 1)
	assert.Equal(t, 2, view.TotalMatches)

	w = doRequest(t, s, httptest.NewRequest(http.MethodGet, "/api/v1/search?q=stone&kit=forest", nil))
	require.Equal(t, http.StatusOK, w.Code)
	view = decodeView(t, w)
	require.Len(t, view.Results, 1)
	assert.Equal(t, "Forest Kit", view.Results[0].Name)
}

func TestSearch_BadLimit(t *testing.T) {
	s := newTestServer(t, loadedStore(), testServerConfig())

	for _, limit := range []string{"abc", "-1"} {
		w := doRequest(t, s, httptest.NewRequest(http.MethodGet, "/api/v1/search?q=stone&limit="+limit, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
	}
}

func TestSearch_QueryTooLong(t *testing.T) {
	s := newTestServer(t, loadedStore(), testServerConfig())

	body, _ := json.Marshal(SearchRequest{Query: strings.Repeat("a", MaxQueryLength+1)})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/search", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := doRequest(t, s, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "QUERY_TOO_LONG")
}

func TestSearch_NoCatalog(t *testing.T) {
	s := newTestServer(t, catalog.NewStore(), testServerConfig())

	w := doRequest(t, s, httptest.NewRequest(http.MethodGet, "/api/v1/search?q=stone", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "CATALOG_UNAVAILABLE", resp.Code)
	assert.NotEmpty(t, resp.RequestID)
}

func TestSearchJSON(t *testing.T) {
	s := newTestServer(t, loadedStore(), testServerConfig())

	body := `{"query":"prismarine, sand","limit":5}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/search", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := doRequest(t, s, req)
	require.Equal(t, http.StatusOK, w.Code)

	view := decodeView(t, w)
	assert.Equal(t, []string{"prismarine", "sand"}, view.Tokens)
	require.Len(t, view.Results, 1)
	assert.Equal(t, "Ocean Kit", view.Results[0].Name)
	assert.Equal(t, 2, view.Results[0].HitsCount)
}

func TestSearchJSON_Malformed(t *testing.T) {
	s := newTestServer(t, loadedStore(), testServerConfig())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/search", strings.NewReader(`{"query":`))
	req.Header.Set("Content-Type", "application/json")
	w := doRequest(t, s, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/search", strings.NewReader(`{"query":"stone","limit":-3}`))
	req.Header.Set("Content-Type", "application/json")
	w = doRequest(t, s, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
}

func TestSearchJSON_BodyTooLarge(t *testing.T) {
	cfg := testServerConfig()
	cfg.MaxBodyBytes = 16
	s := newTestServer(t, loadedStore(), cfg)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/search", strings.NewReader(`{"query":"a long stone query"}`))
	req.Header.Set("Content-Type", "application/json")
	w := doRequest(t, s, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestListKits(t *testing.T) {
	s := newTestServer(t, loadedStore(), testServerConfig())

	w := doRequest(t, s, httptest.NewRequest(http.MethodGet, "/api/v1/kits", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp KitsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Count)
	assert.Equal(t, uint64(1), resp.CatalogVersion)
	assert.Equal(t, "Forest Kit", resp.Items[0].Name)
}

func writeCatalog(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestReloadCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kits.txt")
	writeCatalog(t, path, "Castle:\n- Stone\n")

	store := catalog.NewStore()
	require.NoError(t, store.Load(path))
	cfg := testServerConfig()
	cfg.AdminUser = "admin"
	cfg.AdminPassword = "secret"
	s := newTestServer(t, store, cfg)

	// Warm the cache so the reload has something to invalidate.
	w := doRequest(t, s, httptest.NewRequest(http.MethodGet, "/api/v1/search?q=sand", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "no_matches", decodeView(t, w).State)

	writeCatalog(t, path, "Castle:\n- Stone\nBeach: Sand, Shell\n")

	w = doRequest(t, s, httptest.NewRequest(http.MethodPost, "/api/v1/catalog/reload", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/catalog/reload", nil)
	req.SetBasicAuth("admin", "secret")
	w = doRequest(t, s, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp ReloadResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Reloaded)
	assert.Equal(t, 2, resp.CatalogKits)
	assert.Equal(t, uint64(2), resp.CatalogVersion)

	w = doRequest(t, s, httptest.NewRequest(http.MethodGet, "/api/v1/search?q=sand", nil))
	view := decodeView(t, w)
	assert.Equal(t, "matches", view.State)
	assert.False(t, view.Cached)
	require.Len(t, view.Results, 1)
	assert.Equal(t, "Beach", view.Results[0].Name)
}

func TestReloadCatalog_NoPath(t *testing.T) {
	s := newTestServer(t, loadedStore(), testServerConfig())

	w := doRequest(t, s, httptest.NewRequest(http.MethodPost, "/api/v1/catalog/reload", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "CATALOG_UNAVAILABLE")
}

func TestReloadCatalog_BrokenFileKeepsCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kits.txt")
	writeCatalog(t, path, "Castle:\n- Stone\n")
	store := catalog.NewStore()
	require.NoError(t, store.Load(path))
	s := newTestServer(t, store, testServerConfig())

	writeCatalog(t, path, "- orphan block\n")

	w := doRequest(t, s, httptest.NewRequest(http.MethodPost, "/api/v1/catalog/reload", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = doRequest(t, s, httptest.NewRequest(http.MethodGet, "/api/v1/kits", nil))
	var resp KitsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, uint64(1), resp.CatalogVersion)
}

func TestReloadCatalog_PublishesEvents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kits.txt")
	writeCatalog(t, path, "Castle:\n- Stone\n")
	store := catalog.NewStore()
	require.NoError(t, store.Load(path))

	gin.SetMode(gin.TestMode)
	hub := realtime.NewHub()
	_, events, cancel := hub.Subscribe()
	defer cancel()
	s := NewServer(search.NewService(store, search.Options{}), testServerConfig(), WithEventHub(hub))

	w := doRequest(t, s, httptest.NewRequest(http.MethodPost, "/api/v1/catalog/reload", nil))
	require.Equal(t, http.StatusOK, w.Code)
	event := <-events
	assert.Equal(t, realtime.EventCatalogReloaded, event.Type)
	assert.Equal(t, path, event.Data["path"])
	assert.Equal(t, uint64(2), event.Data["catalog_version"])

	writeCatalog(t, path, "- orphan block\n")
	w = doRequest(t, s, httptest.NewRequest(http.MethodPost, "/api/v1/catalog/reload", nil))
	require.Equal(t, http.StatusInternalServerError, w.Code)
	event = <-events
	assert.Equal(t, realtime.EventCatalogReloadFailed, event.Type)
}

func TestEventsEndpoint(t *testing.T) {
	s := newTestServer(t, loadedStore(), testServerConfig())
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/v1/events")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	line, err := bufio.NewReader(resp.Body).ReadString('\n')
	require.NoError(t, err)
	assert.Contains(t, line, `"type":"connection.established"`)
}

func TestRateLimit(t *testing.T) {
	cfg := testServerConfig()
	cfg.RateLimitPerMinute = 1
	cfg.RateLimitBurst = 1
	s := newTestServer(t, loadedStore(), cfg)

	w := doRequest(t, s, httptest.NewRequest(http.MethodGet, "/api/v1/kits", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	w = doRequest(t, s, httptest.NewRequest(http.MethodGet, "/api/v1/kits", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	// Health checks are not rate limited.
	w = doRequest(t, s, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, loadedStore(), testServerConfig())
	doRequest(t, s, httptest.NewRequest(http.MethodGet, "/api/v1/search?q=stone", nil))

	w := doRequest(t, s, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "kitfinder_searches_total")
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, loadedStore(), testServerConfig())

	w := doRequest(t, s, httptest.NewRequest(http.MethodOptions, "/api/v1/search", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestServe_ShutsDownOnContextCancel(t *testing.T) {
	s := newTestServer(t, loadedStore(), testServerConfig())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	url := "http://" + ln.Addr().String() + "/api/v1/health"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
