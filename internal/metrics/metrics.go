package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ProviderRequestDuration tracks outbound call latency per provider
	// and operation (tmdb/discover, tmdb/videos, openai/curate).
	ProviderRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "provider_request_duration_seconds",
			Help:    "Duration of outbound provider requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider", "operation"},
	)

	// ProviderRequestErrors counts failed outbound provider requests.
	ProviderRequestErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_request_errors_total",
			Help: "Total number of failed outbound provider requests",
		},
		[]string{"provider", "operation"},
	)

	// HTTPRequestsTotal counts served HTTP requests by route and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests served",
		},
		[]string{"route", "method", "status"},
	)

	// HTTPRequestDuration tracks HTTP handler latency by route.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
)

// ObserveProviderRequest records one outbound call outcome.
func ObserveProviderRequest(provider, operation string, start time.Time, err error) {
	ProviderRequestDuration.WithLabelValues(provider, operation).Observe(time.Since(start).Seconds())
	if err != nil {
		ProviderRequestErrors.WithLabelValues(provider, operation).Inc()
	}
}
