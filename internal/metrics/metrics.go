// Package metrics provides the centralized Prometheus metrics registry for
// the feature generators.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	FeatureQueriesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "keiba_features",
		Name:      "feature_queries_total",
		Help:      "Total number of feature queries served",
	}, []string{"generator", "operation"})
	FeatureQueryErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "keiba_features",
		Name:      "feature_query_errors_total",
		Help:      "Total number of feature queries degraded by data-source failures",
	}, []string{"generator", "operation"})
	RollupCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "keiba_features",
		Name:      "rollup_cache_hits_total",
		Help:      "Total number of population rollup cache hits",
	})
	RollupCacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "keiba_features",
		Name:      "rollup_cache_misses_total",
		Help:      "Total number of population rollup cache misses",
	})
	PedigreeTreesBuiltTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "keiba_features",
		Name:      "pedigree_trees_built_total",
		Help:      "Total number of pedigree trees built",
	})
)

// Histogram metrics
var (
	FeatureQueryDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "keiba_features",
		Name:      "feature_query_duration_seconds",
		Help:      "Duration of feature queries in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"generator", "operation"})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(FeatureQueriesTotal)
		registry.MustRegister(FeatureQueryErrorsTotal)
		registry.MustRegister(RollupCacheHitsTotal)
		registry.MustRegister(RollupCacheMissesTotal)
		registry.MustRegister(PedigreeTreesBuiltTotal)
		registry.MustRegister(FeatureQueryDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordFeatureQuery records a served feature query and its duration.
func RecordFeatureQuery(generator, operation string, durationSeconds float64) {
	FeatureQueriesTotal.WithLabelValues(generator, operation).Inc()
	FeatureQueryDuration.WithLabelValues(generator, operation).Observe(durationSeconds)
}

// RecordFeatureQueryError records a query degraded by a data-source failure.
func RecordFeatureQueryError(generator, operation string) {
	FeatureQueryErrorsTotal.WithLabelValues(generator, operation).Inc()
}

// RecordCacheHit records a rollup cache hit.
func RecordCacheHit() {
	RollupCacheHitsTotal.Inc()
}

// RecordCacheMiss records a rollup cache miss.
func RecordCacheMiss() {
	RollupCacheMissesTotal.Inc()
}

// RecordPedigreeTree records a built pedigree tree.
func RecordPedigreeTree() {
	PedigreeTreesBuiltTotal.Inc()
}
