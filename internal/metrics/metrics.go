// ScreenScout - Semantic Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/screenscout

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus Metrics Integration for Production Observability
// This package provides comprehensive instrumentation for:
// - Recommendation pipeline stages (embed, search, rerank, enrich)
// - Embedding and generative API calls (Gemini)
// - Vector index queries (Pinecone / Qdrant)
// - Metadata enrichment (OMDB)
// - Catalog store queries (SQLite)
// - API endpoint latency and throughput
// - Cache efficiency

var (
	// Recommendation Pipeline Metrics
	RecommendRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_requests_total",
			Help: "Total number of recommendation requests by outcome",
		},
		[]string{"status"}, // "ok", "fallback", "empty", "error"
	)

	RecommendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_duration_seconds",
			Help:    "End-to-end recommendation request duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30}, // Dominated by upstream AI latency
		},
	)

	PipelineStageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pipeline_stage_duration_seconds",
			Help:    "Duration of individual recommendation pipeline stages in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"stage"}, // "augment", "embed", "search", "filter", "rerank", "enrich", "assemble"
	)

	PipelineCandidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pipeline_candidates",
			Help:    "Number of deduplicated candidates entering the re-ranking stage",
			Buckets: []float64{0, 5, 10, 15, 25, 50, 75, 100},
		},
	)

	// Oracle (Generative Re-Ranking) Metrics
	OracleRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oracle_requests_total",
			Help: "Total number of generative re-ranking calls",
		},
		[]string{"result"}, // "success", "failure"
	)

	OracleFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oracle_fallbacks_total",
			Help: "Total number of deterministic fallback selections",
		},
		[]string{"reason"}, // "api_error", "parse_error", "empty_selection"
	)

	OracleSelectionSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "oracle_selection_size",
			Help:    "Number of candidate IDs honored from each oracle response",
			Buckets: []float64{0, 1, 3, 5, 10, 15, 20, 25},
		},
	)

	// Embedding Metrics
	EmbeddingRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "embedding_requests_total",
			Help: "Total number of embedding API calls",
		},
		[]string{"task_type", "result"}, // task_type: "query", "document"; result: "success", "failure"
	)

	EmbeddingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "embedding_duration_seconds",
			Help:    "Duration of embedding API calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	EmbeddingBatchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "embedding_batch_size",
			Help:    "Number of texts per batch embedding call",
			Buckets: []float64{1, 10, 25, 50, 100, 150, 250},
		},
	)

	// Vector Index Metrics
	VectorQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vector_query_duration_seconds",
			Help:    "Duration of vector index similarity queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider"}, // "pinecone", "qdrant"
	)

	VectorQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vector_query_errors_total",
			Help: "Total number of vector index query errors",
		},
		[]string{"provider"},
	)

	VectorMatchesReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "vector_matches_returned",
			Help:    "Number of matches returned per vector query",
			Buckets: []float64{0, 5, 10, 25, 50, 75, 100},
		},
	)

	VectorUpsertsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vector_upserts_total",
			Help: "Total number of vectors upserted into the index",
		},
		[]string{"provider", "result"},
	)

	// Enrichment Metrics
	EnrichmentRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enrichment_requests_total",
			Help: "Total number of metadata enrichment lookups",
		},
		[]string{"outcome"}, // "success", "not_found", "error", "cache_hit", "skipped"
	)

	EnrichmentDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "enrichment_duration_seconds",
			Help:    "Duration of metadata enrichment lookups in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Catalog Store Metrics
	CatalogQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_query_duration_seconds",
			Help:    "Duration of catalog store queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"}, // "titles_by_ids", "list", "count", "iterate"
	)

	CatalogQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_query_errors_total",
			Help: "Total number of catalog store query errors",
		},
		[]string{"operation", "error_type"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30}, // Recommendation requests wait on upstream AI
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Cache Metrics (General)
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"}, // "embedding", "enrichment", "enrichment_redis", "catalog"
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	CacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_entries",
			Help: "Current number of cached entries",
		},
		[]string{"cache_type"},
	)

	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_evictions_total",
			Help: "Total number of cache evictions (TTL expiry or LRU pressure)",
		},
		[]string{"cache_type"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Ingestion Metrics
	IngestBatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_batches_total",
			Help: "Total number of ingestion batches processed",
		},
		[]string{"result"}, // "success", "failure"
	)

	IngestMoviesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ingest_movies_total",
			Help: "Total number of movies embedded and upserted",
		},
	)

	IngestBatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ingest_batch_duration_seconds",
			Help:    "Duration of ingestion batches (embed + upsert) in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)

	IngestRetriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ingest_retries_total",
			Help: "Total number of ingestion batch retries",
		},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// RecordRecommendRequest records the outcome of a full recommendation request
func RecordRecommendRequest(status string, duration time.Duration) {
	RecommendRequestsTotal.WithLabelValues(status).Inc()
	RecommendDuration.Observe(duration.Seconds())
}

// RecordPipelineStage records the duration of a single pipeline stage
func RecordPipelineStage(stage string, duration time.Duration) {
	PipelineStageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordOracleCall records a re-ranking call and its honored selection size.
// A failed call records the fallback reason instead of a selection size.
func RecordOracleCall(selected int, fallbackReason string) {
	if fallbackReason != "" {
		OracleRequestsTotal.WithLabelValues("failure").Inc()
		OracleFallbacksTotal.WithLabelValues(fallbackReason).Inc()
		return
	}
	OracleRequestsTotal.WithLabelValues("success").Inc()
	OracleSelectionSize.Observe(float64(selected))
}

// RecordEmbedding records an embedding API call
func RecordEmbedding(taskType string, duration time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	EmbeddingRequestsTotal.WithLabelValues(taskType, result).Inc()
	EmbeddingDuration.Observe(duration.Seconds())
}

// RecordEmbeddingBatch records the size of a batch embedding call
func RecordEmbeddingBatch(size int) {
	EmbeddingBatchSize.Observe(float64(size))
}

// RecordVectorQuery records a vector index similarity query
func RecordVectorQuery(provider string, matches int, duration time.Duration, err error) {
	VectorQueryDuration.WithLabelValues(provider).Observe(duration.Seconds())
	if err != nil {
		VectorQueryErrors.WithLabelValues(provider).Inc()
		return
	}
	VectorMatchesReturned.Observe(float64(matches))
}

// RecordVectorUpsert records vectors written to the index
func RecordVectorUpsert(provider string, count int, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	VectorUpsertsTotal.WithLabelValues(provider, result).Add(float64(count))
}

// RecordEnrichment records a metadata enrichment lookup
func RecordEnrichment(outcome string, duration time.Duration) {
	EnrichmentRequestsTotal.WithLabelValues(outcome).Inc()
	EnrichmentDuration.Observe(duration.Seconds())
}

// RecordCatalogQuery records a catalog store query metric
func RecordCatalogQuery(operation string, duration time.Duration, err error) {
	CatalogQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		errorType := err.Error()
		// Truncate long error messages
		if len(errorType) > 50 {
			errorType = errorType[:50]
		}
		CatalogQueryErrors.WithLabelValues(operation, errorType).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRateLimitHit records a rate limit rejection for an endpoint
func RecordRateLimitHit(endpoint string) {
	APIRateLimitHits.WithLabelValues(endpoint).Inc()
}

// RecordCacheHit records a cache hit for the given cache type
func RecordCacheHit(cacheType string) {
	CacheHits.WithLabelValues(cacheType).Inc()
}

// RecordCacheMiss records a cache miss for the given cache type
func RecordCacheMiss(cacheType string) {
	CacheMisses.WithLabelValues(cacheType).Inc()
}

// RecordCacheEviction records cache entries evicted for the given cache type
func RecordCacheEviction(cacheType string, count int) {
	CacheEvictions.WithLabelValues(cacheType).Add(float64(count))
}

// SetCacheSize sets the current entry count for the given cache type
func SetCacheSize(cacheType string, size int) {
	CacheSize.WithLabelValues(cacheType).Set(float64(size))
}

// RecordBreakerRequest records a request passing through a circuit breaker
func RecordBreakerRequest(name, result string) {
	CircuitBreakerRequests.WithLabelValues(name, result).Inc()
}

// RecordBreakerTransition records a circuit breaker state change and
// updates the state gauge
func RecordBreakerTransition(name, from, to string, stateValue float64) {
	CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
	CircuitBreakerState.WithLabelValues(name).Set(stateValue)
}

// RecordIngestBatch records an ingestion batch (embed + upsert) outcome
func RecordIngestBatch(size int, duration time.Duration, err error) {
	IngestBatchDuration.Observe(duration.Seconds())
	if err != nil {
		IngestBatchesTotal.WithLabelValues("failure").Inc()
		return
	}
	IngestBatchesTotal.WithLabelValues("success").Inc()
	IngestMoviesTotal.Add(float64(size))
}

// RecordIngestRetry records a retried ingestion batch
func RecordIngestRetry() {
	IngestRetriesTotal.Inc()
}
