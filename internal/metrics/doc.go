// ScreenScout - Semantic Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/screenscout

/*
Package metrics provides Prometheus metrics collection and export for observability.

This package implements comprehensive application instrumentation using the Prometheus
client library, exposing metrics for monitoring performance, errors, and system health.

# Overview

The package provides metrics for:
  - Recommendation pipeline stages and outcomes
  - Embedding and generative re-ranking API calls
  - Vector index query performance (Pinecone / Qdrant)
  - Metadata enrichment lookups (OMDB)
  - Catalog store query performance (SQLite)
  - HTTP request latency and throughput
  - Cache hit/miss rates
  - Circuit breaker state transitions

# Metrics Endpoint

Metrics are exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:8000/metrics

# Available Metrics

Pipeline Metrics:
  - recommend_requests_total: Recommendation requests (counter)
    Labels: status (ok, fallback, empty, error)
  - recommend_duration_seconds: End-to-end request latency (histogram)
  - pipeline_stage_duration_seconds: Per-stage latency (histogram)
    Labels: stage (augment, embed, search, filter, rerank, enrich, assemble)
  - pipeline_candidates: Candidate count entering re-ranking (histogram)

Oracle Metrics:
  - oracle_requests_total: Re-ranking calls (counter)
    Labels: result (success, failure)
  - oracle_fallbacks_total: Deterministic fallback selections (counter)
    Labels: reason (api_error, parse_error, empty_selection)
  - oracle_selection_size: Honored IDs per response (histogram)

Embedding Metrics:
  - embedding_requests_total: Embedding API calls (counter)
    Labels: task_type (query, document), result
  - embedding_duration_seconds: API call latency (histogram)
  - embedding_batch_size: Texts per batch call (histogram)

Vector Index Metrics:
  - vector_query_duration_seconds: Similarity query latency (histogram)
    Labels: provider (pinecone, qdrant)
  - vector_query_errors_total: Failed queries (counter)
    Labels: provider
  - vector_matches_returned: Matches per query (histogram)
  - vector_upserts_total: Vectors written (counter)
    Labels: provider, result

Enrichment Metrics:
  - enrichment_requests_total: Metadata lookups (counter)
    Labels: outcome (success, not_found, error, cache_hit, skipped)
  - enrichment_duration_seconds: Lookup latency (histogram)

Catalog Metrics:
  - catalog_query_duration_seconds: Query execution time (histogram)
    Labels: operation (titles_by_ids, list, count, iterate)
  - catalog_query_errors_total: Failed queries (counter)
    Labels: operation, error_type

API Metrics:
  - api_requests_total: Total API requests (counter)
    Labels: method, endpoint, status_code
  - api_request_duration_seconds: Request latency (histogram)
    Labels: method, endpoint
  - api_active_requests: Active requests (gauge)
  - api_rate_limit_hits_total: Rate limit rejections (counter)
    Labels: endpoint

Cache Metrics:
  - cache_hits_total / cache_misses_total: Cache efficiency (counter)
    Labels: cache_type (embedding, enrichment, enrichment_redis)
  - cache_entries: Current entry count (gauge)
    Labels: cache_type
  - cache_evictions_total: Evictions (counter)
    Labels: cache_type

Circuit Breaker Metrics:
  - circuit_breaker_state: Current state (gauge)
    Labels: name
    Values: 0=closed, 1=half-open, 2=open
  - circuit_breaker_requests_total: Requests through breaker (counter)
    Labels: name, result (success, failure, rejected)
  - circuit_breaker_state_transitions_total: State changes (counter)
    Labels: name, from_state, to_state

Ingestion Metrics:
  - ingest_batches_total: Batches processed (counter)
    Labels: result
  - ingest_movies_total: Movies embedded and upserted (counter)
  - ingest_batch_duration_seconds: Batch latency (histogram)
  - ingest_retries_total: Batch retries (counter)

# Usage Pattern

Metrics are package-level variables registered via promauto, so recording
is a plain function call with no setup:

	start := time.Now()
	matches, err := index.Query(ctx, vector, topK)
	metrics.RecordVectorQuery("pinecone", len(matches), time.Since(start), err)

Helper functions are preferred over direct metric access so that label
values stay consistent across call sites.

# Cardinality

Label values are drawn from small fixed sets (stage names, outcomes,
provider names). Never use request-derived strings (queries, movie IDs,
titles) as label values.
*/
package metrics
