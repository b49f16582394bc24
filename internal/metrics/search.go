package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Search and extraction metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_requests_total",
			Help:      "Total number of catalog searches",
		},
		[]string{"sort", "status"},
	)

	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Catalog search duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"sort"},
	)

	SearchResultsTotal = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_matched_items",
			Help:      "Number of catalog items matched per search",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 500, 1000},
		},
	)

	ExtractRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "extract_requests_total",
			Help:      "Total number of candidate extractions",
		},
		[]string{"result"}, // "found" / "empty"
	)

	SearchCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_cache_total",
			Help:      "Search cache lookups",
		},
		[]string{"op", "result"}, // op: find/count; result: hit/miss/error
	)
)

var registerOnce sync.Once

// Register registers every collector with the default registry. Safe to call
// more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			httpRequestDuration,
			httpRequestsTotal,
			SearchRequestsTotal,
			SearchDuration,
			SearchResultsTotal,
			ExtractRequestsTotal,
			SearchCacheTotal,
		)
	})
}

// ObserveSearch records one search. total is ignored when err is set.
func ObserveSearch(sort string, d time.Duration, total int, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	SearchRequestsTotal.WithLabelValues(sort, status).Inc()
	SearchDuration.WithLabelValues(sort).Observe(d.Seconds())
	if err == nil {
		SearchResultsTotal.Observe(float64(total))
	}
}

// ObserveExtract records one extraction.
func ObserveExtract(found bool) {
	result := "empty"
	if found {
		result = "found"
	}
	ExtractRequestsTotal.WithLabelValues(result).Inc()
}
