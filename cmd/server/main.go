// ScreenScout - Semantic Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/screenscout

// Package main is the entry point for the ScreenScout server.
//
// ScreenScout recommends movies from free-text queries. It embeds the
// query, retrieves nearest candidates from a vector index, asks a
// generative oracle to curate the list, and enriches the winners with
// OMDB metadata before responding.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: Load settings from environment variables and config files (Koanf v2)
//  2. Catalog: Open the SQLite movie store (pure-Go driver)
//  3. Gemini client: Query/document embeddings and oracle generation
//  4. Vector index: Pinecone (REST) or Qdrant (gRPC), chosen by config
//  5. OMDB client: Metadata enrichment with TTL cache and optional Redis tier
//  6. Engine: The recommendation pipeline
//  7. HTTP server: Chi router supervised by a Suture v4 tree
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest priority wins):
//   - Environment variables (SCREENSCOUT_ prefix, plus legacy flat names)
//   - Config file (config.yaml, or SCREENSCOUT_CONFIG_PATH)
//   - Built-in defaults
//
// # Signal Handling
//
// The server handles graceful shutdown on SIGINT and SIGTERM:
//   - Stops accepting new connections
//   - Waits for in-flight requests to complete (server.shutdown_timeout)
//   - Closes the catalog store, vector index, and enrichment caches
//
// # Example Usage
//
// Pinecone backend (default):
//
//	export GEMINI_KEY=your-gemini-key
//	export PINECONE_KEY=your-pinecone-key
//	export SCREENSCOUT_VECTOR_PINECONE_HOST=https://movies-abc123.svc.pinecone.io
//	export OMDB_API_KEY=your-omdb-key
//	./screenscout
//
// Qdrant backend:
//
//	export GEMINI_KEY=your-gemini-key
//	export SCREENSCOUT_VECTOR_PROVIDER=qdrant
//	export SCREENSCOUT_VECTOR_QDRANT_HOST=localhost
//	./screenscout
//
// Without OMDB_API_KEY the server still runs; recommendations ship
// without year and rating fields.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/screenscout/internal/api"
	"github.com/tomtom215/screenscout/internal/catalog"
	"github.com/tomtom215/screenscout/internal/config"
	"github.com/tomtom215/screenscout/internal/gemini"
	"github.com/tomtom215/screenscout/internal/logging"
	"github.com/tomtom215/screenscout/internal/omdb"
	"github.com/tomtom215/screenscout/internal/recommend"
	"github.com/tomtom215/screenscout/internal/supervisor"
	"github.com/tomtom215/screenscout/internal/vector"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		// Use default logger for config errors (config not yet available)
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize zerolog with configuration
	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().Msg("Starting ScreenScout with supervisor tree")

	logging.Info().
		Str("catalog_path", cfg.Catalog.Path).
		Str("vector_provider", cfg.Vector.Provider).
		Str("oracle_model", cfg.Oracle.Model).
		Msg("Configuration loaded")

	// Open the movie catalog
	store, err := catalog.New(&cfg.Catalog)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open catalog store")
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing catalog store")
		}
	}()

	if count, err := store.CountMovies(context.Background()); err != nil {
		logging.Warn().Err(err).Msg("Failed to count catalog movies")
	} else {
		logging.Info().Int("movies", count).Msg("Catalog store opened")
	}

	// Gemini serves both embedding and oracle calls
	geminiClient := gemini.New(&cfg.Embedding)

	index, err := vector.New(&cfg.Vector)
	if err != nil {
		// Close the store before fatal exit to ensure the defer runs
		if closeErr := store.Close(); closeErr != nil {
			logging.Error().Err(closeErr).Msg("Error closing catalog store")
		}
		logging.Fatal().Err(err).Msg("Failed to create vector index client")
	}
	defer func() {
		if err := index.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing vector index client")
		}
	}()
	logging.Info().
		Str("provider", index.Provider()).
		Int("top_k", cfg.Vector.TopK).
		Msg("Vector index client ready")

	// OMDB client probes the optional Redis tier during construction
	enricher := omdb.New(&cfg.Enrichment)
	defer func() {
		if err := enricher.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing enrichment client")
		}
	}()
	if !enricher.Enabled() {
		logging.Info().Msg("OMDB enrichment disabled (no API key), results ship without year or rating")
	}

	engine := recommend.NewEngine(cfg, recommend.Deps{
		Titles:   store,
		Embedder: geminiClient,
		Index:    index,
		Oracle:   geminiClient,
		Enricher: enricher,
	}, logging.Logger())

	handler := api.NewHandler(cfg, engine, store, enricher, logging.Logger())
	router := api.NewRouter(handler, &cfg.Server)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.SetupChi(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Create structured logger for supervisor using our slog adapter
	// This bridges zerolog to slog for sutureslog compatibility
	tree, err := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		if closeErr := store.Close(); closeErr != nil {
			logging.Error().Err(closeErr).Msg("Error closing catalog store")
		}
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddAPIService(supervisor.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	// Setup signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	// Wait for supervisor to finish (either from signal or error)
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Wait for the error channel to close (supervisor finished)
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	// Report any services that failed to stop within timeout
	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}
