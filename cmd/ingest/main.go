// ScreenScout - Semantic Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/screenscout

// Package main is the ScreenScout ingestion job.
//
// It streams every movie from the catalog store, embeds
// "{title}: {overview}" in document mode, and upserts the vectors with
// their metadata into the configured vector index. The job is safe to
// re-run: upserts overwrite by movie ID.
//
// Batches are rate-limited against the embedding API and retried with
// exponential backoff. A batch that keeps failing is logged and
// skipped; the run continues. The exit code is non-zero only when
// setup fails (configuration, catalog store, vector index) or the
// catalog read aborts mid-run.
//
// # Example Usage
//
//	export GEMINI_KEY=your-gemini-key
//	export PINECONE_KEY=your-pinecone-key
//	export SCREENSCOUT_VECTOR_PINECONE_HOST=https://movies-abc123.svc.pinecone.io
//	export SCREENSCOUT_CATALOG_PATH=movies.db
//	./screenscout-ingest
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/screenscout/internal/catalog"
	"github.com/tomtom215/screenscout/internal/config"
	"github.com/tomtom215/screenscout/internal/gemini"
	"github.com/tomtom215/screenscout/internal/logging"
	"github.com/tomtom215/screenscout/internal/vector"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("catalog_path", cfg.Catalog.Path).
		Str("vector_provider", cfg.Vector.Provider).
		Int("batch_size", cfg.Ingest.BatchSize).
		Msg("Starting ingestion")

	store, err := catalog.New(&cfg.Catalog)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open catalog store")
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing catalog store")
		}
	}()

	total, err := store.CountMovies(context.Background())
	if err != nil {
		if closeErr := store.Close(); closeErr != nil {
			logging.Error().Err(closeErr).Msg("Error closing catalog store")
		}
		logging.Fatal().Err(err).Msg("Failed to count catalog movies")
	}
	logging.Info().Int("movies", total).Msg("Catalog store opened")

	index, err := vector.New(&cfg.Vector)
	if err != nil {
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

	embedder := gemini.New(&cfg.Embedding)

	// SIGINT/SIGTERM stop the run between batches
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	ing := newIngestor(&cfg.Ingest, embedder, index, logging.Logger())
	stats, err := ing.run(ctx, store)

	logging.Info().
		Int("batches", stats.Batches).
		Int("movies", stats.Movies).
		Int("failed_batches", stats.FailedBatches).
		Int("skipped_movies", stats.SkippedMovies).
		Msg("Ingestion finished")

	if err != nil {
		if errors.Is(err, context.Canceled) {
			logging.Info().Msg("Ingestion interrupted")
			return
		}
		if closeErr := store.Close(); closeErr != nil {
			logging.Error().Err(closeErr).Msg("Error closing catalog store")
		}
		if closeErr := index.Close(); closeErr != nil {
			logging.Error().Err(closeErr).Msg("Error closing vector index client")
		}
		logging.Fatal().Err(err).Msg("Ingestion aborted")
	}
}
