package metrics

import "github.com/prometheus/client_golang/prometheus"

// Places provider and matching Prometheus metrics.
var (
	PlacesRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bestnight",
			Name:      "places_requests_total",
			Help:      "Total number of places provider requests",
		},
		[]string{"operation", "status"},
	)

	PlacesRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "bestnight",
			Name:      "places_request_duration_seconds",
			Help:      "Places provider request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"operation"},
	)

	PlacesErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bestnight",
			Name:      "places_errors_total",
			Help:      "Total places provider errors",
		},
		[]string{"operation", "error_type"},
	)

	CacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bestnight",
			Name:      "cache_total",
			Help:      "Result cache hits and misses",
		},
		[]string{"kind", "result"}, // kind: nearby/geocode/reverse/details; result: "hit" / "miss"
	)

	CombosReturned = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "bestnight",
			Name:      "combos_returned",
			Help:      "Number of combos returned per search",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100},
		},
	)
)

var placesMetricsRegistered bool

// RegisterPlacesMetrics registers provider, cache and matching metrics. Must be called once from main.
func RegisterPlacesMetrics() {
	if placesMetricsRegistered {
		return
	}
	prometheus.MustRegister(PlacesRequestsTotal)
	prometheus.MustRegister(PlacesRequestDuration)
	prometheus.MustRegister(PlacesErrorsTotal)
	prometheus.MustRegister(CacheTotal)
	prometheus.MustRegister(CombosReturned)
	placesMetricsRegistered = true
}
