// file: internal/server/response_types.go
// version: 2.0.0
// guid: 7f8a9b0c-1d2e-3f4a-5b6c-7d8e9f0a1b2c

package server

import "github.com/jdfalk/kitfinder/internal/matcher"

// SearchRequest is the JSON body accepted by POST /api/v1/search
type SearchRequest struct {
	Query string `json:"query"`
	Kit   string `json:"kit,omitempty"`
	Limit int    `json:"limit,omitempty"`
}

// HealthResponse reports liveness and catalog state
type HealthResponse struct {
	Status         string `json:"status"` // "ok", "degraded"
	Timestamp      int64  `json:"timestamp"`
	Version        string `json:"version"`
	CatalogKits    int    `json:"catalog_kits"`
	CatalogVersion uint64 `json:"catalog_version"`
}

// KitsResponse lists the loaded catalog
type KitsResponse struct {
	Items          []matcher.Kit `json:"items"`
	Count          int           `json:"count"`
	CatalogVersion uint64        `json:"catalog_version"`
}

// ReloadResponse reports the catalog after a manual reload
type ReloadResponse struct {
	Reloaded       bool   `json:"reloaded"`
	CatalogKits    int    `json:"catalog_kits"`
	CatalogVersion uint64 `json:"catalog_version"`
}

// NewKitsResponse never returns a nil Items slice so the JSON is always a list
func NewKitsResponse(kits []matcher.Kit, version uint64) KitsResponse {
	if kits == nil {
		kits = []matcher.Kit{}
	}
	return KitsResponse{Items: kits, Count: len(kits), CatalogVersion: version}
}
