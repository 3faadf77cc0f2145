// file: internal/metrics/metrics.go
// version: 2.0.0
// guid: 9f8e7d6c-5b4a-3210-9fed-cba876543210

package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	searchesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "kitfinder",
		Name:      "searches_total",
		Help:      "Total number of searches by outcome state",
	}, []string{"state"})
	searchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "kitfinder",
		Name:      "search_duration_seconds",
		Help:      "Histogram of search durations in seconds",
		Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 14), // 100µs up to ~1.6s
	})
	kitsMatched = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "kitfinder",
		Name:      "kits_matched",
		Help:      "Number of kits returned per search",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
	})
	cacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "kitfinder",
		Name:      "cache_lookups_total",
		Help:      "Search cache lookups by result (hit or miss)",
	}, []string{"result"})

	catalogKits = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "kitfinder",
		Name:      "catalog_kits",
		Help:      "Number of kits in the loaded catalog",
	})
	catalogReloads = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "kitfinder",
		Name:      "catalog_reloads_total",
		Help:      "Catalog reload attempts by status",
	}, []string{"status"})
)

// Register initializes metrics with the global Prometheus registry (idempotent)
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(searchesTotal, searchDuration, kitsMatched, cacheLookups,
			catalogKits, catalogReloads)
	})
}

// Search helpers
func IncSearch(state string)               { searchesTotal.WithLabelValues(state).Inc() }
func ObserveSearchDuration(d time.Duration) { searchDuration.Observe(d.Seconds()) }
func ObserveKitsMatched(n int)             { kitsMatched.Observe(float64(n)) }

// Cache helpers
func IncCacheHit()  { cacheLookups.WithLabelValues("hit").Inc() }
func IncCacheMiss() { cacheLookups.WithLabelValues("miss").Inc() }

// Catalog helpers
func SetCatalogKits(n int) { catalogKits.Set(float64(n)) }
func IncCatalogReload(ok bool) {
	status := "ok"
	if !ok {
		status = "error"
	}
	catalogReloads.WithLabelValues(status).Inc()
}
