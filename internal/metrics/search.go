package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search pipeline Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docchat",
			Name:      "search_requests_total",
			Help:      "Total number of hybrid search requests",
		},
		[]string{"index", "status"},
	)

	SearchRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "docchat",
			Name:      "search_request_duration_seconds",
			Help:      "Hybrid search duration in seconds, including result paging",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"index"},
	)

	// SearchHitsTotal counts hits by relevance gate outcome ("kept" / "dropped").
	SearchHitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docchat",
			Name:      "search_hits_total",
			Help:      "Search hits by relevance gate outcome",
		},
		[]string{"outcome"},
	)

	SecretFetchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docchat",
			Name:      "secret_fetch_total",
			Help:      "Secret store batch fetches",
		},
		[]string{"driver", "status"},
	)
)
