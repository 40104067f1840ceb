// ScreenScout - Semantic Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/screenscout

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/screenscout/config.yaml",
	"/etc/screenscout/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "SCREENSCOUT_CONFIG_PATH"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8000,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{"*"},
			RateLimitRPM:    60,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Catalog: CatalogConfig{
			Path: "movies.db",
		},
		Images: ImagesConfig{
			BaseURL: "https://image.tmdb.org/t/p/w500",
		},
		Embedding: EmbeddingConfig{
			APIKey:    "",
			BaseURL:   "https://generativelanguage.googleapis.com",
			Model:     "models/text-embedding-004",
			Dimension: 768,
			Timeout:   10 * time.Second,
			CacheSize: 2048,
		},
		Vector: VectorConfig{
			Provider: "pinecone",
			TopK:     50,
			Timeout:  10 * time.Second,
			Pinecone: PineconeConfig{
				Host:      "",
				APIKey:    "",
				Namespace: "",
			},
			Qdrant: QdrantConfig{
				Host:       "localhost",
				Port:       6334,
				APIKey:     "",
				UseTLS:     false,
				Collection: "screenscout",
			},
		},
		Oracle: OracleConfig{
			Model:       "gemini-1.5-flash",
			Timeout:     20 * time.Second,
			RerankCount: 15,
			ContextSize: 50,
		},
		Enrichment: EnrichmentConfig{
			APIKey:            "", // Optional - empty disables enrichment
			BaseURL:           "https://www.omdbapi.com",
			Timeout:           5 * time.Second,
			MaxConcurrent:     8,
			DetachFromRequest: true,
			RateLimitRPS:      5,
			CacheTTL:          24 * time.Hour,
			RedisURL:          "",
		},
		Ingest: IngestConfig{
			BatchSize:     100,
			OverviewLimit: 500,
			RateLimitRPS:  1,
			MaxRetries:    3,
		},
	}
}

// Load loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
//
// This function is the only way to obtain a Config and provides:
//   - Type-safe configuration unmarshaling
//   - Clear precedence: ENV > File > Defaults
//   - Support for nested configuration via koanf struct tags
//   - Compatibility with the legacy flat environment variables
//     (GEMINI_KEY, PINECONE_KEY, OMDB_API_KEY)
func Load() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// Transform environment variable names to koanf paths:
	// SCREENSCOUT_SERVER_PORT -> server.port
	// GEMINI_KEY              -> embedding.api_key
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Post-process slice fields from comma-separated strings
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	// Unmarshal into Config struct
	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	// Validate the configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	// Check environment variable first
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	// Search default paths
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"server.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// This is necessary because env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		// If it's already a slice (from YAML file), skip
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		// If it's a string, split by comma
		if strVal, ok := val.(string); ok {
			if strVal == "" {
				continue
			}
			parts := strings.Split(strVal, ",")
			trimmed := make([]string, 0, len(parts))
			for _, p := range parts {
				p = strings.TrimSpace(p)
				if p != "" {
					trimmed = append(trimmed, p)
				}
			}
			if len(trimmed) > 0 {
				if err := k.Set(path, trimmed); err != nil {
					return fmt.Errorf("failed to set %s: %w", path, err)
				}
			}
		}
	}
	return nil
}

// envTransformFunc transforms environment variable names to koanf config paths.
// Canonical variables carry the SCREENSCOUT_ prefix; the flat legacy names used
// by earlier deployments remain mapped.
//
// Examples:
//   - SCREENSCOUT_SERVER_PORT       -> server.port
//   - SCREENSCOUT_ORACLE_RERANK_COUNT -> oracle.rerank_count
//   - GEMINI_KEY                    -> embedding.api_key
//   - PINECONE_KEY                  -> vector.pinecone.api_key
//   - OMDB_API_KEY                  -> enrichment.api_key
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	envMappings := map[string]string{
		// Server mappings
		"screenscout_server_host":             "server.host",
		"screenscout_server_port":             "server.port",
		"screenscout_server_read_timeout":     "server.read_timeout",
		"screenscout_server_write_timeout":    "server.write_timeout",
		"screenscout_server_shutdown_timeout": "server.shutdown_timeout",
		"screenscout_server_cors_origins":     "server.cors_origins",
		"screenscout_server_rate_limit_rpm":   "server.rate_limit_rpm",

		// Logging mappings
		"screenscout_logging_level":  "logging.level",
		"screenscout_logging_format": "logging.format",
		"screenscout_logging_caller": "logging.caller",

		// Catalog mappings
		"screenscout_catalog_path": "catalog.path",

		// Images mappings
		"screenscout_images_base_url": "images.base_url",

		// Embedding mappings
		"screenscout_embedding_api_key":    "embedding.api_key",
		"screenscout_embedding_base_url":   "embedding.base_url",
		"screenscout_embedding_model":      "embedding.model",
		"screenscout_embedding_dimension":  "embedding.dimension",
		"screenscout_embedding_timeout":    "embedding.timeout",
		"screenscout_embedding_cache_size": "embedding.cache_size",

		// Vector index mappings
		"screenscout_vector_provider":           "vector.provider",
		"screenscout_vector_top_k":              "vector.top_k",
		"screenscout_vector_timeout":            "vector.timeout",
		"screenscout_vector_pinecone_host":      "vector.pinecone.host",
		"screenscout_vector_pinecone_api_key":   "vector.pinecone.api_key",
		"screenscout_vector_pinecone_namespace": "vector.pinecone.namespace",
		"screenscout_vector_qdrant_host":        "vector.qdrant.host",
		"screenscout_vector_qdrant_port":        "vector.qdrant.port",
		"screenscout_vector_qdrant_api_key":     "vector.qdrant.api_key",
		"screenscout_vector_qdrant_use_tls":     "vector.qdrant.use_tls",
		"screenscout_vector_qdrant_collection":  "vector.qdrant.collection",

		// Oracle mappings
		"screenscout_oracle_model":        "oracle.model",
		"screenscout_oracle_timeout":      "oracle.timeout",
		"screenscout_oracle_rerank_count": "oracle.rerank_count",
		"screenscout_oracle_context_size": "oracle.context_size",

		// Enrichment mappings
		"screenscout_enrichment_api_key":             "enrichment.api_key",
		"screenscout_enrichment_base_url":            "enrichment.base_url",
		"screenscout_enrichment_timeout":             "enrichment.timeout",
		"screenscout_enrichment_max_concurrent":      "enrichment.max_concurrent",
		"screenscout_enrichment_detach_from_request": "enrichment.detach_from_request",
		"screenscout_enrichment_rate_limit_rps":      "enrichment.rate_limit_rps",
		"screenscout_enrichment_cache_ttl":           "enrichment.cache_ttl",
		"screenscout_enrichment_redis_url":           "enrichment.redis_url",

		// Ingest mappings
		"screenscout_ingest_batch_size":     "ingest.batch_size",
		"screenscout_ingest_overview_limit": "ingest.overview_limit",
		"screenscout_ingest_rate_limit_rps": "ingest.rate_limit_rps",
		"screenscout_ingest_max_retries":    "ingest.max_retries",

		// Legacy flat variables from earlier deployments
		"gemini_key":   "embedding.api_key",
		"pinecone_key": "vector.pinecone.api_key",
		"omdb_api_key": "enrichment.api_key",
		"log_level":    "logging.level",
		"log_format":   "logging.format",
		"http_port":    "server.port",
		"http_host":    "server.host",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}

	// For unmapped keys, return empty string to skip them
	// This prevents random environment variables from polluting config
	return ""
}
