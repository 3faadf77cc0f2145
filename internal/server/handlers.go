// file: internal/server/handlers.go
// version: 1.0.0
// guid: 2b7e4c91-6d0a-4f38-9e15-c83a5f7d1b42

package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jdfalk/kitfinder/internal/catalog"
	"github.com/jdfalk/kitfinder/internal/render"
	"github.com/jdfalk/kitfinder/internal/search"
	"github.com/jdfalk/kitfinder/internal/server/middleware"
)

func (s *Server) operation(c *gin.Context, handler string) *OperationLogger {
	return NewOperationLogger(handler, c.Request.Method, c.Request.URL.Path, middleware.GetRequestID(c))
}

func (s *Server) healthCheck(c *gin.Context) {
	kits, version := s.svc.Kits()
	status := "ok"
	if version == 0 {
		status = "degraded"
	}
	c.JSON(http.StatusOK, HealthResponse{
		Status:         status,
		Timestamp:      time.Now().Unix(),
		Version:        s.version,
		CatalogKits:    len(kits),
		CatalogVersion: version,
	})
}

// searchKits handles GET /api/v1/search?q=&kit=&limit=
func (s *Server) searchKits(c *gin.Context) {
	limit, err := ParseLimit(c.Query("limit"))
	if err != nil {
		s.operation(c, "searchKits").LogWarning(err.Error())
		RespondWithValidationError(c, err)
		return
	}
	s.runSearch(c, search.Request{
		Query:     c.Query("q"),
		KitFilter: c.Query("kit"),
		Limit:     limit,
	})
}

// searchKitsJSON handles POST /api/v1/search with a SearchRequest body
func (s *Server) searchKitsJSON(c *gin.Context) {
	var body SearchRequest
	if HandleBindError(c, c.ShouldBindJSON(&body)) {
		return
	}
	if err := ValidateInteger(body.Limit, "limit", 0, -1); err != nil {
		s.operation(c, "searchKitsJSON").LogWarning(err.Error())
		RespondWithValidationError(c, err)
		return
	}
	s.runSearch(c, search.Request{
		Query:     body.Query,
		KitFilter: body.Kit,
		Limit:     body.Limit,
	})
}

func (s *Server) runSearch(c *gin.Context, req search.Request) {
	op := s.operation(c, "search")
	if err := ValidateQuery(req.Query); err != nil {
		op.LogWarning(err.Error())
		RespondWithValidationError(c, err)
		return
	}

	resp, err := s.svc.Search(c.Request.Context(), req)
	switch {
	case errors.Is(err, search.ErrNoCatalog):
		op.LogError(http.StatusServiceUnavailable, err)
		RespondWithServiceUnavailable(c, "no catalog loaded", "CATALOG_UNAVAILABLE")
		return
	case err != nil:
		op.LogError(http.StatusInternalServerError, err)
		RespondWithInternalError(c, "search failed")
		return
	}

	view := render.NewSearchView(req.Query, resp)
	view.RequestID = middleware.GetRequestID(c)

	op.AddDetail("state", view.State)
	op.AddDetail("matches", resp.TotalMatches)
	op.AddDetail("cached", resp.Cached)
	op.LogSuccess(http.StatusOK)
	c.JSON(http.StatusOK, view)
}

// listKits handles GET /api/v1/kits
func (s *Server) listKits(c *gin.Context) {
	kits, version := s.svc.Kits()
	c.JSON(http.StatusOK, NewKitsResponse(kits, version))
}

// reloadCatalog handles POST /api/v1/catalog/reload
func (s *Server) reloadCatalog(c *gin.Context) {
	op := s.operation(c, "reloadCatalog")
	if err := s.svc.Reload(); err != nil {
		if errors.Is(err, catalog.ErrNoCatalogPath) {
			op.LogError(http.StatusServiceUnavailable, err)
			RespondWithServiceUnavailable(c, "no catalog path configured", "CATALOG_UNAVAILABLE")
			return
		}
		op.LogError(http.StatusInternalServerError, err)
		s.events.CatalogReloadFailed(s.svc.CatalogPath(), err)
		RespondWithInternalError(c, "catalog reload failed: "+err.Error())
		return
	}

	kits, version := s.svc.Kits()
	op.AddDetail("kits", len(kits))
	op.AddDetail("version", version)
	op.LogSuccess(http.StatusOK)
	s.events.CatalogReloaded(s.svc.CatalogPath(), len(kits), version)
	c.JSON(http.StatusOK, ReloadResponse{
		Reloaded:       true,
		CatalogKits:    len(kits),
		CatalogVersion: version,
	})
}
