// Package metrics holds the docchat Prometheus collectors.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var registerOnce sync.Once

// Register registers all docchat Prometheus metrics with the default registry.
// Safe to call more than once; called from main and from tests.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			EmbeddingRequestsTotal,
			EmbeddingRequestDuration,
			EmbeddingTokensTotal,
			EmbeddingErrorsTotal,
			SearchRequestsTotal,
			SearchRequestDuration,
			SearchHitsTotal,
			SecretFetchTotal,
			httpRequestDuration,
			httpRequestsTotal,
			httpRequestsInFlight,
		)
	})
}
