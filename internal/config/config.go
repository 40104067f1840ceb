// ScreenScout - Semantic Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/screenscout

package config

import (
	"time"
)

// Config holds all application configuration loaded from environment variables and config files.
// Provides centralized configuration management for every component: the HTTP server, the
// recommendation pipeline tunables, the catalog store, and the external AI/metadata services.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for all optional settings
//  2. Config File: Optional YAML config file (config.yaml) for persistent settings
//  3. Environment Variables: Override any setting via environment variables
//
// Configuration Categories:
//
//  1. Serving:
//     - Server: HTTP server configuration (port, host, timeouts, CORS, rate limiting)
//     - Logging: Log levels and output formats
//
//  2. Stores:
//     - Catalog: SQLite movie database (title lookup, paginated listing, ingestion source)
//     - Vector: Vector index provider (Pinecone or Qdrant) and search fan-out
//
//  3. Pipeline:
//     - Embedding: Text embedding service (model, dimension, timeout)
//     - Oracle: Generative re-ranking (model, rerank count R, context size C)
//     - Enrichment: Secondary metadata source (OMDB), per-call timeout, caching
//     - Images: Poster URL resolution base
//
//  4. Batch:
//     - Ingest: Batch ingestion job tunables (batch size, retries, rate limit)
//
// Example - Load configuration:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    logging.Fatal().Err(err).Msg("Failed to load config")
//	}
//
// Validation:
// Load() validates all sections and returns an error if required credentials are
// missing (embedding API key, vector index credentials), values are out of range
// (port, top_k), or enumerations carry unknown values (vector provider, log level).
//
// Thread Safety:
// Config is immutable after Load() and safe for concurrent read access.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Logging    LoggingConfig    `koanf:"logging"`
	Catalog    CatalogConfig    `koanf:"catalog"`
	Images     ImagesConfig     `koanf:"images"`
	Embedding  EmbeddingConfig  `koanf:"embedding"`
	Vector     VectorConfig     `koanf:"vector"`
	Oracle     OracleConfig     `koanf:"oracle"`
	Enrichment EnrichmentConfig `koanf:"enrichment"`
	Ingest     IngestConfig     `koanf:"ingest"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	CORSOrigins     []string      `koanf:"cors_origins"`
	// RateLimitRPM is the per-IP request budget per minute on /recommend.
	// Zero disables rate limiting.
	RateLimitRPM int `koanf:"rate_limit_rpm"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// CatalogConfig holds the SQLite movie store settings.
type CatalogConfig struct {
	Path string `koanf:"path"`
}

// ImagesConfig holds poster URL resolution settings.
type ImagesConfig struct {
	BaseURL string `koanf:"base_url"`
}

// EmbeddingConfig holds text-embedding service settings.
// The API key doubles as the oracle credential; both talk to the same
// Google Generative Language API.
type EmbeddingConfig struct {
	APIKey    string        `koanf:"api_key"`
	BaseURL   string        `koanf:"base_url"`
	Model     string        `koanf:"model"`
	Dimension int           `koanf:"dimension"`
	Timeout   time.Duration `koanf:"timeout"`
	// CacheSize is the LRU entry budget for query-embedding reuse.
	// Zero disables the cache.
	CacheSize int `koanf:"cache_size"`
}

// VectorConfig holds vector-index settings. Provider selects the backend.
type VectorConfig struct {
	Provider string        `koanf:"provider"`
	TopK     int           `koanf:"top_k"`
	Timeout  time.Duration `koanf:"timeout"`

	Pinecone PineconeConfig `koanf:"pinecone"`
	Qdrant   QdrantConfig   `koanf:"qdrant"`
}

// PineconeConfig holds Pinecone REST data-plane settings.
// Host is the index-specific endpoint, e.g.
// "https://screenscout-google-v1-abc123.svc.us-east-1.pinecone.io".
type PineconeConfig struct {
	Host      string `koanf:"host"`
	APIKey    string `koanf:"api_key"`
	Namespace string `koanf:"namespace"`
}

// QdrantConfig holds Qdrant gRPC settings.
type QdrantConfig struct {
	Host       string `koanf:"host"`
	Port       int    `koanf:"port"`
	APIKey     string `koanf:"api_key"`
	UseTLS     bool   `koanf:"use_tls"`
	Collection string `koanf:"collection"`
}

// OracleConfig holds generative re-ranking settings.
type OracleConfig struct {
	Model   string        `koanf:"model"`
	Timeout time.Duration `koanf:"timeout"`
	// RerankCount is R: how many candidates the oracle is asked to pick,
	// and the size of the deterministic fallback selection.
	RerankCount int `koanf:"rerank_count"`
	// ContextSize is C: how many filtered candidates are rendered into
	// the oracle prompt.
	ContextSize int `koanf:"context_size"`
}

// EnrichmentConfig holds secondary-metadata (OMDB) settings.
// An empty APIKey disables enrichment entirely; recommendations are then
// served without year/rating data.
type EnrichmentConfig struct {
	APIKey        string        `koanf:"api_key"`
	BaseURL       string        `koanf:"base_url"`
	Timeout       time.Duration `koanf:"timeout"`
	MaxConcurrent int           `koanf:"max_concurrent"`
	// DetachFromRequest keeps in-flight enrichment lookups running when
	// the client disconnects mid-request.
	DetachFromRequest bool          `koanf:"detach_from_request"`
	RateLimitRPS      float64       `koanf:"rate_limit_rps"`
	CacheTTL          time.Duration `koanf:"cache_ttl"`
	// RedisURL enables a shared cache tier in front of the per-process one.
	// Empty means in-memory caching only.
	RedisURL string `koanf:"redis_url"`
}

// IngestConfig holds batch-ingestion job settings.
type IngestConfig struct {
	BatchSize     int     `koanf:"batch_size"`
	OverviewLimit int     `koanf:"overview_limit"`
	RateLimitRPS  float64 `koanf:"rate_limit_rps"`
	MaxRetries    int     `koanf:"max_retries"`
}
