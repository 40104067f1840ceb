// ScreenScout - Semantic Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/screenscout

package config

import (
	"fmt"
	"strings"
)

// Vector index provider names accepted by VectorConfig.Provider.
const (
	VectorProviderPinecone = "pinecone"
	VectorProviderQdrant   = "qdrant"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateLogging(); err != nil {
		return err
	}

	if err := c.validateCatalog(); err != nil {
		return err
	}

	if err := c.validateEmbedding(); err != nil {
		return err
	}

	if err := c.validateVector(); err != nil {
		return err
	}

	if err := c.validateOracle(); err != nil {
		return err
	}

	if err := c.validateEnrichment(); err != nil {
		return err
	}

	return c.validateIngest()
}

// validateServer validates HTTP server configuration
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server.read_timeout must be positive, got %v", c.Server.ReadTimeout)
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server.write_timeout must be positive, got %v", c.Server.WriteTimeout)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be positive, got %v", c.Server.ShutdownTimeout)
	}
	if c.Server.RateLimitRPM < 0 {
		return fmt.Errorf("server.rate_limit_rpm must not be negative, got %d", c.Server.RateLimitRPM)
	}
	return nil
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "disabled":
	default:
		return fmt.Errorf("logging.level must be one of trace/debug/info/warn/error/fatal, got %q", c.Logging.Level)
	}

	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

// validateCatalog validates the movie store configuration
func (c *Config) validateCatalog() error {
	if c.Catalog.Path == "" {
		return fmt.Errorf("catalog.path is required")
	}
	return nil
}

// validateEmbedding validates embedding service configuration
func (c *Config) validateEmbedding() error {
	if c.Embedding.APIKey == "" {
		return fmt.Errorf("embedding.api_key is required (set SCREENSCOUT_EMBEDDING_API_KEY or GEMINI_KEY)")
	}
	if c.Embedding.BaseURL == "" {
		return fmt.Errorf("embedding.base_url is required")
	}
	if c.Embedding.Model == "" {
		return fmt.Errorf("embedding.model is required")
	}
	if c.Embedding.Dimension < 1 {
		return fmt.Errorf("embedding.dimension must be positive, got %d", c.Embedding.Dimension)
	}
	if c.Embedding.Timeout <= 0 {
		return fmt.Errorf("embedding.timeout must be positive, got %v", c.Embedding.Timeout)
	}
	if c.Embedding.CacheSize < 0 {
		return fmt.Errorf("embedding.cache_size must not be negative, got %d", c.Embedding.CacheSize)
	}
	return nil
}

// validateVector validates vector index configuration.
// Only the selected provider's credentials are required.
func (c *Config) validateVector() error {
	if c.Vector.TopK < 1 || c.Vector.TopK > 1000 {
		return fmt.Errorf("vector.top_k must be between 1 and 1000, got %d", c.Vector.TopK)
	}
	if c.Vector.Timeout <= 0 {
		return fmt.Errorf("vector.timeout must be positive, got %v", c.Vector.Timeout)
	}

	switch c.Vector.Provider {
	case VectorProviderPinecone:
		if c.Vector.Pinecone.Host == "" {
			return fmt.Errorf("vector.pinecone.host is required when vector.provider=pinecone")
		}
		if c.Vector.Pinecone.APIKey == "" {
			return fmt.Errorf("vector.pinecone.api_key is required when vector.provider=pinecone (set SCREENSCOUT_VECTOR_PINECONE_API_KEY or PINECONE_KEY)")
		}
	case VectorProviderQdrant:
		if c.Vector.Qdrant.Host == "" {
			return fmt.Errorf("vector.qdrant.host is required when vector.provider=qdrant")
		}
		if c.Vector.Qdrant.Port < 1 || c.Vector.Qdrant.Port > 65535 {
			return fmt.Errorf("vector.qdrant.port must be between 1 and 65535, got %d", c.Vector.Qdrant.Port)
		}
		if c.Vector.Qdrant.Collection == "" {
			return fmt.Errorf("vector.qdrant.collection is required when vector.provider=qdrant")
		}
	default:
		return fmt.Errorf("vector.provider must be %s or %s, got %q", VectorProviderPinecone, VectorProviderQdrant, c.Vector.Provider)
	}
	return nil
}

// validateOracle validates re-ranking configuration
func (c *Config) validateOracle() error {
	if c.Oracle.Model == "" {
		return fmt.Errorf("oracle.model is required")
	}
	if c.Oracle.Timeout <= 0 {
		return fmt.Errorf("oracle.timeout must be positive, got %v", c.Oracle.Timeout)
	}
	if c.Oracle.RerankCount < 1 {
		return fmt.Errorf("oracle.rerank_count must be positive, got %d", c.Oracle.RerankCount)
	}
	if c.Oracle.ContextSize < 1 {
		return fmt.Errorf("oracle.context_size must be positive, got %d", c.Oracle.ContextSize)
	}
	return nil
}

// validateEnrichment validates metadata enrichment configuration.
// Enrichment is optional; most settings are only checked when a key is set.
func (c *Config) validateEnrichment() error {
	if c.Enrichment.APIKey == "" {
		return nil // Enrichment disabled - no validation needed
	}
	if c.Enrichment.BaseURL == "" {
		return fmt.Errorf("enrichment.base_url is required when enrichment is enabled")
	}
	if c.Enrichment.Timeout <= 0 {
		return fmt.Errorf("enrichment.timeout must be positive, got %v", c.Enrichment.Timeout)
	}
	if c.Enrichment.MaxConcurrent < 1 {
		return fmt.Errorf("enrichment.max_concurrent must be positive, got %d", c.Enrichment.MaxConcurrent)
	}
	if c.Enrichment.RateLimitRPS < 0 {
		return fmt.Errorf("enrichment.rate_limit_rps must not be negative, got %v", c.Enrichment.RateLimitRPS)
	}
	if c.Enrichment.CacheTTL < 0 {
		return fmt.Errorf("enrichment.cache_ttl must not be negative, got %v", c.Enrichment.CacheTTL)
	}
	return nil
}

// validateIngest validates batch ingestion configuration
func (c *Config) validateIngest() error {
	if c.Ingest.BatchSize < 1 || c.Ingest.BatchSize > 250 {
		return fmt.Errorf("ingest.batch_size must be between 1 and 250, got %d", c.Ingest.BatchSize)
	}
	if c.Ingest.OverviewLimit < 0 {
		return fmt.Errorf("ingest.overview_limit must not be negative, got %d", c.Ingest.OverviewLimit)
	}
	if c.Ingest.RateLimitRPS < 0 {
		return fmt.Errorf("ingest.rate_limit_rps must not be negative, got %v", c.Ingest.RateLimitRPS)
	}
	if c.Ingest.MaxRetries < 0 {
		return fmt.Errorf("ingest.max_retries must not be negative, got %d", c.Ingest.MaxRetries)
	}
	return nil
}
