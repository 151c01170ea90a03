// Package metrics provides Prometheus metrics for the gym discovery service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SearchesTotal tracks total gym searches by status
	SearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gymintel",
			Subsystem: "search",
			Name:      "searches_total",
			Help:      "Total number of gym searches by status",
		},
		[]string{"status"},
	)

	// SearchDuration tracks end-to-end search duration in seconds
	SearchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "gymintel",
			Subsystem: "search",
			Name:      "duration_seconds",
			Help:      "Duration of gym searches in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
	)

	// SearchResultsCount tracks the number of merged results per search
	SearchResultsCount = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "gymintel",
			Subsystem: "search",
			Name:      "results_count",
			Help:      "Number of merged results returned per search",
			Buckets:   []float64{0, 5, 10, 25, 50, 100, 200},
		},
	)

	// ProviderRequestsTotal tracks requests to directory providers
	ProviderRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gymintel",
			Subsystem: "provider",
			Name:      "requests_total",
			Help:      "Total number of directory provider requests",
		},
		[]string{"provider", "status"},
	)

	// ProviderRequestDuration tracks directory provider request duration
	ProviderRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "gymintel",
			Subsystem: "provider",
			Name:      "request_duration_seconds",
			Help:      "Duration of directory provider requests in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"provider"},
	)

	// MatchPairsTotal tracks cross-provider record pairs produced by matching
	MatchPairsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "gymintel",
			Subsystem: "matching",
			Name:      "pairs_total",
			Help:      "Total number of cross-provider record pairs matched",
		},
	)

	// MatchConfidence tracks the confidence score distribution of matched pairs
	MatchConfidence = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "gymintel",
			Subsystem: "matching",
			Name:      "confidence",
			Help:      "Confidence score distribution of matched pairs",
			Buckets:   []float64{0.35, 0.45, 0.55, 0.65, 0.75, 0.85, 0.95},
		},
	)

	// GeocodeRequestsTotal tracks geocoding lookups by outcome
	GeocodeRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gymintel",
			Subsystem: "geocode",
			Name:      "requests_total",
			Help:      "Total number of geocoding lookups",
		},
		[]string{"source", "status"},
	)

	// CacheOperationsTotal tracks search cache hits and misses
	CacheOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gymintel",
			Subsystem: "cache",
			Name:      "operations_total",
			Help:      "Total number of search cache operations",
		},
		[]string{"operation", "result"},
	)

	// KafkaMessagesPublished tracks Kafka messages published
	KafkaMessagesPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gymintel",
			Subsystem: "kafka",
			Name:      "messages_published_total",
			Help:      "Total number of messages published to Kafka",
		},
		[]string{"topic", "status"},
	)

	// DatabaseQueryDuration tracks database query duration
	DatabaseQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "gymintel",
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Duration of database queries in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"operation"},
	)
)

// RecordSearch records a completed search metric
func RecordSearch(status string, durationSeconds float64, resultCount int) {
	SearchesTotal.WithLabelValues(status).Inc()
	SearchDuration.Observe(durationSeconds)
	SearchResultsCount.Observe(float64(resultCount))
}

// RecordProviderRequest records a directory provider request metric
func RecordProviderRequest(provider, status string, durationSeconds float64) {
	ProviderRequestsTotal.WithLabelValues(provider, status).Inc()
	ProviderRequestDuration.WithLabelValues(provider).Observe(durationSeconds)
}

// RecordMatch records a matched pair and its confidence
func RecordMatch(confidence float64) {
	MatchPairsTotal.Inc()
	MatchConfidence.Observe(confidence)
}

// RecordGeocode records a geocoding lookup
func RecordGeocode(source, status string) {
	GeocodeRequestsTotal.WithLabelValues(source, status).Inc()
}

// RecordCacheOperation records a search cache operation
func RecordCacheOperation(operation, result string) {
	CacheOperationsTotal.WithLabelValues(operation, result).Inc()
}

// RecordKafkaPublish records a Kafka publish operation
func RecordKafkaPublish(topic, status string) {
	KafkaMessagesPublished.WithLabelValues(topic, status).Inc()
}
