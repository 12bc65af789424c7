// Package metrics exposes Prometheus collectors for the query assistant.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// QueriesClassified counts classifications by resolved domain and intent.
	QueriesClassified = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_queries_classified_total",
			Help: "Total number of natural language queries classified",
		},
		[]string{"domain", "intent"},
	)

	// QueryBuildFailures counts SQL builder refusals by reason.
	QueryBuildFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_query_build_failures_total",
			Help: "Total number of queries the SQL builder refused",
		},
		[]string{"reason"},
	)

	// GuardRejections counts SQL statements rejected by the validator.
	GuardRejections = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "assistant_guard_rejections_total",
			Help: "Total number of SQL statements rejected by the security guard",
		},
	)

	// CacheHits counts result cache hits.
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "assistant_cache_hits_total",
			Help: "Total number of query result cache hits",
		},
	)

	// CacheMisses counts result cache misses.
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "assistant_cache_misses_total",
			Help: "Total number of query result cache misses",
		},
	)

	// ClassificationConfidence observes classifier confidence scores.
	ClassificationConfidence = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "assistant_classification_confidence",
			Help:    "Distribution of classifier confidence scores",
			Buckets: []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
		},
	)

	// QueryDuration observes end to end query processing time by domain.
	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "assistant_query_duration_seconds",
			Help:    "End to end query processing duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"domain"},
	)
)
