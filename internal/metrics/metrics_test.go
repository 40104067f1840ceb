// ScreenScout - Semantic Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/screenscout

package metrics

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// TestRecordRecommendRequest tests recommendation outcome recording
func TestRecordRecommendRequest(t *testing.T) {
	tests := []struct {
		name     string
		status   string
		duration time.Duration
	}{
		{
			name:     "successful request",
			status:   "ok",
			duration: 2 * time.Second,
		},
		{
			name:     "fallback request",
			status:   "fallback",
			duration: 25 * time.Second,
		},
		{
			name:     "no matches",
			status:   "empty",
			duration: 500 * time.Millisecond,
		},
		{
			name:     "failed request",
			status:   "error",
			duration: 100 * time.Millisecond,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Record the request - should not panic
			RecordRecommendRequest(tt.status, tt.duration)
		})
	}
}

// TestRecordPipelineStage tests per-stage duration recording
func TestRecordPipelineStage(t *testing.T) {
	stages := []string{"augment", "embed", "search", "filter", "rerank", "enrich", "assemble"}

	for _, stage := range stages {
		t.Run(stage, func(t *testing.T) {
			RecordPipelineStage(stage, 50*time.Millisecond)
		})
	}
}

// TestRecordOracleCall tests re-ranking call recording
func TestRecordOracleCall(t *testing.T) {
	tests := []struct {
		name           string
		selected       int
		fallbackReason string
	}{
		{
			name:           "successful selection",
			selected:       15,
			fallbackReason: "",
		},
		{
			name:           "partial selection",
			selected:       3,
			fallbackReason: "",
		},
		{
			name:           "api error fallback",
			selected:       0,
			fallbackReason: "api_error",
		},
		{
			name:           "parse error fallback",
			selected:       0,
			fallbackReason: "parse_error",
		},
		{
			name:           "empty selection fallback",
			selected:       0,
			fallbackReason: "empty_selection",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			RecordOracleCall(tt.selected, tt.fallbackReason)
		})
	}
}

// TestRecordOracleCall_FallbackCounter verifies fallback reasons increment the counter
func TestRecordOracleCall_FallbackCounter(t *testing.T) {
	reason := "test_reason_counter"
	before := testutil.ToFloat64(OracleFallbacksTotal.WithLabelValues(reason))

	RecordOracleCall(0, reason)
	RecordOracleCall(0, reason)

	after := testutil.ToFloat64(OracleFallbacksTotal.WithLabelValues(reason))
	if after-before != 2 {
		t.Errorf("OracleFallbacksTotal delta = %v, want 2", after-before)
	}
}

// TestRecordEmbedding tests embedding call recording
func TestRecordEmbedding(t *testing.T) {
	tests := []struct {
		name     string
		taskType string
		duration time.Duration
		err      error
	}{
		{
			name:     "successful query embedding",
			taskType: "query",
			duration: 200 * time.Millisecond,
			err:      nil,
		},
		{
			name:     "successful document embedding",
			taskType: "document",
			duration: 350 * time.Millisecond,
			err:      nil,
		},
		{
			name:     "failed embedding",
			taskType: "query",
			duration: 10 * time.Second,
			err:      errors.New("context deadline exceeded"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			RecordEmbedding(tt.taskType, tt.duration, tt.err)
		})
	}
}

// TestRecordVectorQuery tests vector query recording
func TestRecordVectorQuery(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		matches  int
		duration time.Duration
		err      error
	}{
		{
			name:     "pinecone query with matches",
			provider: "pinecone",
			matches:  50,
			duration: 80 * time.Millisecond,
			err:      nil,
		},
		{
			name:     "qdrant query with no matches",
			provider: "qdrant",
			matches:  0,
			duration: 15 * time.Millisecond,
			err:      nil,
		},
		{
			name:     "failed query",
			provider: "pinecone",
			matches:  0,
			duration: 10 * time.Second,
			err:      errors.New("connection refused"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			RecordVectorQuery(tt.provider, tt.matches, tt.duration, tt.err)
		})
	}
}

// TestRecordVectorQuery_ErrorCounter verifies errors increment the error counter only
func TestRecordVectorQuery_ErrorCounter(t *testing.T) {
	provider := "test_provider_errors"
	before := testutil.ToFloat64(VectorQueryErrors.WithLabelValues(provider))

	RecordVectorQuery(provider, 0, time.Millisecond, errors.New("boom"))

	after := testutil.ToFloat64(VectorQueryErrors.WithLabelValues(provider))
	if after-before != 1 {
		t.Errorf("VectorQueryErrors delta = %v, want 1", after-before)
	}
}

// TestRecordEnrichment tests enrichment lookup recording
func TestRecordEnrichment(t *testing.T) {
	outcomes := []string{"success", "not_found", "error", "cache_hit", "skipped"}

	for _, outcome := range outcomes {
		t.Run(outcome, func(t *testing.T) {
			RecordEnrichment(outcome, 120*time.Millisecond)
		})
	}
}

// TestRecordCatalogQuery tests catalog query metric recording
func TestRecordCatalogQuery(t *testing.T) {
	tests := []struct {
		name      string
		operation string
		duration  time.Duration
		err       error
	}{
		{
			name:      "successful title lookup",
			operation: "titles_by_ids",
			duration:  2 * time.Millisecond,
			err:       nil,
		},
		{
			name:      "successful paginated list",
			operation: "list",
			duration:  5 * time.Millisecond,
			err:       nil,
		},
		{
			name:      "failed query with short error",
			operation: "count",
			duration:  100 * time.Millisecond,
			err:       errors.New("database is locked"),
		},
		{
			name:      "failed query with long error - should truncate to 50 chars",
			operation: "list",
			duration:  50 * time.Millisecond,
			err:       errors.New("this is a very long error message that exceeds fifty characters and should be truncated properly"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Record the query - should not panic
			RecordCatalogQuery(tt.operation, tt.duration, tt.err)
		})
	}
}

// TestRecordCatalogQuery_ErrorTruncation verifies error messages are truncated at 50 chars
func TestRecordCatalogQuery_ErrorTruncation(t *testing.T) {
	err50 := errors.New(strings.Repeat("a", 50))
	RecordCatalogQuery("list", time.Millisecond, err50)

	err51 := errors.New(strings.Repeat("b", 51))
	RecordCatalogQuery("list", time.Millisecond, err51)

	err100 := errors.New(strings.Repeat("c", 100))
	RecordCatalogQuery("list", time.Millisecond, err100)

	errShort := errors.New("err")
	RecordCatalogQuery("list", time.Millisecond, errShort)
}

// TestRecordAPIRequest tests API request metric recording
func TestRecordAPIRequest(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		endpoint   string
		statusCode string
		duration   time.Duration
	}{
		{
			name:       "successful recommendation",
			method:     "POST",
			endpoint:   "/recommend",
			statusCode: "200",
			duration:   3 * time.Second,
		},
		{
			name:       "successful movie listing",
			method:     "GET",
			endpoint:   "/movies",
			statusCode: "200",
			duration:   10 * time.Millisecond,
		},
		{
			name:       "bad request",
			method:     "POST",
			endpoint:   "/recommend",
			statusCode: "400",
			duration:   1 * time.Millisecond,
		},
		{
			name:       "rate limited request",
			method:     "POST",
			endpoint:   "/recommend",
			statusCode: "429",
			duration:   1 * time.Millisecond,
		},
		{
			name:       "not found request",
			method:     "GET",
			endpoint:   "/unknown",
			statusCode: "404",
			duration:   2 * time.Millisecond,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Record the request - should not panic
			RecordAPIRequest(tt.method, tt.endpoint, tt.statusCode, tt.duration)
		})
	}
}

// TestTrackActiveRequest_RequestLifecycle simulates realistic request lifecycle
func TestTrackActiveRequest_RequestLifecycle(t *testing.T) {
	for i := 0; i < 10; i++ {
		TrackActiveRequest(true) // Request starts
	}

	for i := 0; i < 10; i++ {
		TrackActiveRequest(false) // Request ends
	}
}

// TestCacheMetrics tests cache hit/miss/eviction recording
func TestCacheMetrics(t *testing.T) {
	cacheTypes := []string{"embedding", "enrichment", "enrichment_redis"}

	for _, cacheType := range cacheTypes {
		t.Run(cacheType, func(t *testing.T) {
			RecordCacheHit(cacheType)
			RecordCacheMiss(cacheType)
			RecordCacheEviction(cacheType, 3)
			SetCacheSize(cacheType, 42)
		})
	}
}

// TestBreakerMetrics tests circuit breaker metric recording
func TestBreakerMetrics(t *testing.T) {
	RecordBreakerRequest("omdb", "success")
	RecordBreakerRequest("omdb", "failure")
	RecordBreakerRequest("omdb", "rejected")

	RecordBreakerTransition("omdb", "closed", "open", 2)
	RecordBreakerTransition("omdb", "open", "half-open", 1)
	RecordBreakerTransition("omdb", "half-open", "closed", 0)
}

// TestRecordIngestBatch tests ingestion batch recording
func TestRecordIngestBatch(t *testing.T) {
	tests := []struct {
		name     string
		size     int
		duration time.Duration
		err      error
	}{
		{
			name:     "full batch",
			size:     100,
			duration: 12 * time.Second,
			err:      nil,
		},
		{
			name:     "final partial batch",
			size:     37,
			duration: 4 * time.Second,
			err:      nil,
		},
		{
			name:     "failed batch",
			size:     100,
			duration: 30 * time.Second,
			err:      errors.New("upsert failed"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			RecordIngestBatch(tt.size, tt.duration, tt.err)
		})
	}

	RecordIngestRetry()
}

// TestConcurrentMetricRecording tests thread safety of metric recording
func TestConcurrentMetricRecording(t *testing.T) {
	var wg sync.WaitGroup
	numGoroutines := 100
	operationsPerGoroutine := 50

	// Test concurrent pipeline stage recording
	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < operationsPerGoroutine; j++ {
				RecordPipelineStage("search", time.Duration(j)*time.Millisecond)
			}
		}(i)
	}

	// Test concurrent API request recording
	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < operationsPerGoroutine; j++ {
				RecordAPIRequest("POST", "/recommend", "200", time.Duration(j)*time.Millisecond)
			}
		}(i)
	}

	// Test concurrent enrichment recording
	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < operationsPerGoroutine; j++ {
				RecordEnrichment("success", time.Duration(j)*time.Millisecond)
			}
		}(i)
	}

	wg.Wait()
}

// TestMetricDescriptors verifies all metrics expose at least one descriptor
func TestMetricDescriptors(t *testing.T) {
	metrics := []prometheus.Collector{
		RecommendRequestsTotal,
		RecommendDuration,
		PipelineStageDuration,
		PipelineCandidates,
		OracleRequestsTotal,
		OracleFallbacksTotal,
		OracleSelectionSize,
		EmbeddingRequestsTotal,
		EmbeddingDuration,
		EmbeddingBatchSize,
		VectorQueryDuration,
		VectorQueryErrors,
		VectorMatchesReturned,
		VectorUpsertsTotal,
		EnrichmentRequestsTotal,
		EnrichmentDuration,
		CatalogQueryDuration,
		CatalogQueryErrors,
		APIRequestsTotal,
		APIRequestDuration,
		APIActiveRequests,
		APIRateLimitHits,
		CacheHits,
		CacheMisses,
		CacheSize,
		CacheEvictions,
		CircuitBreakerState,
		CircuitBreakerRequests,
		CircuitBreakerTransitions,
		IngestBatchesTotal,
		IngestMoviesTotal,
		IngestBatchDuration,
		IngestRetriesTotal,
		AppInfo,
		AppUptime,
	}

	for _, m := range metrics {
		ch := make(chan *prometheus.Desc, 10)
		m.Describe(ch)
		close(ch)

		count := 0
		for range ch {
			count++
		}
		if count == 0 {
			t.Errorf("Metric has no descriptors")
		}
	}
}

// TestMetricGathering tests that metrics can be gathered using testutil
func TestMetricGathering(t *testing.T) {
	RecordCatalogQuery("list", time.Millisecond, nil)
	RecordAPIRequest("GET", "/test", "200", time.Millisecond)

	// Verify we can lint the metrics (checks for consistency issues)
	problems, err := testutil.GatherAndLint(prometheus.DefaultGatherer)
	if err != nil {
		t.Logf("Lint errors (may be expected): %v", err)
	}
	for _, p := range problems {
		t.Logf("Metric lint problem: %s", p.Text)
	}
}

// Benchmark tests for metrics performance

func BenchmarkRecordPipelineStage(b *testing.B) {
	for i := 0; i < b.N; i++ {
		RecordPipelineStage("embed", 10*time.Millisecond)
	}
}

func BenchmarkRecordAPIRequest(b *testing.B) {
	for i := 0; i < b.N; i++ {
		RecordAPIRequest("POST", "/recommend", "200", 25*time.Millisecond)
	}
}

func BenchmarkRecordEnrichment(b *testing.B) {
	for i := 0; i < b.N; i++ {
		RecordEnrichment("success", 100*time.Millisecond)
	}
}

func BenchmarkRecordCatalogQueryWithError(b *testing.B) {
	err := errors.New("database is locked")
	for i := 0; i < b.N; i++ {
		RecordCatalogQuery("list", 10*time.Millisecond, err)
	}
}
