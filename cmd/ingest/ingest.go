// ScreenScout - Semantic Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/screenscout

package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/screenscout/internal/config"
	"github.com/tomtom215/screenscout/internal/metrics"
	"github.com/tomtom215/screenscout/internal/models"
	"github.com/tomtom215/screenscout/internal/vector"
)

// maxBackoff caps the exponential retry delay between batch attempts.
const maxBackoff = 30 * time.Second

// documentEmbedder is the batch embedding call the job needs;
// *gemini.Client implements it.
type documentEmbedder interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
}

// vectorWriter is the index write call the job needs.
type vectorWriter interface {
	Upsert(ctx context.Context, items []vector.Item) error
}

// movieSource streams catalog rows; *catalog.Store implements it.
type movieSource interface {
	Movies(ctx context.Context, fn func(models.Movie) error) error
}

// ingestStats summarizes one ingestion run.
type ingestStats struct {
	Batches       int
	Movies        int
	FailedBatches int
	SkippedMovies int
}

// ingestor pushes catalog movies into the vector index in rate-limited
// batches. A batch that keeps failing after retries is skipped so one
// bad stretch of data cannot sink the whole run.
type ingestor struct {
	embedder documentEmbedder
	index    vectorWriter
	limiter  *rate.Limiter
	logger   zerolog.Logger

	batchSize     int
	overviewLimit int
	maxRetries    int
	baseBackoff   time.Duration
}

func newIngestor(cfg *config.IngestConfig, embedder documentEmbedder, index vectorWriter, logger zerolog.Logger) *ingestor {
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 100
	}
	overviewLimit := cfg.OverviewLimit
	if overviewLimit <= 0 {
		overviewLimit = 500
	}
	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	rps := cfg.RateLimitRPS
	if rps <= 0 {
		rps = 1
	}

	return &ingestor{
		embedder:      embedder,
		index:         index,
		limiter:       rate.NewLimiter(rate.Limit(rps), 1),
		logger:        logger.With().Str("component", "ingest").Logger(),
		batchSize:     batchSize,
		overviewLimit: overviewLimit,
		maxRetries:    maxRetries,
		baseBackoff:   time.Second,
	}
}

// run streams the catalog and flushes full batches as they accumulate.
// It returns an error only when the catalog read itself fails or the
// context is canceled; embed and upsert failures are absorbed per batch.
func (ing *ingestor) run(ctx context.Context, source movieSource) (ingestStats, error) {
	var stats ingestStats
	batch := make([]models.Movie, 0, ing.batchSize)

	err := source.Movies(ctx, func(m models.Movie) error {
		batch = append(batch, m)
		if len(batch) < ing.batchSize {
			return nil
		}
		if err := ing.flush(ctx, batch, &stats); err != nil {
			return err
		}
		batch = batch[:0]
		return nil
	})
	if err != nil {
		return stats, fmt.Errorf("iterate catalog: %w", err)
	}

	// Trailing partial batch
	if len(batch) > 0 {
		if err := ing.flush(ctx, batch, &stats); err != nil {
			return stats, err
		}
	}

	return stats, nil
}

// flush embeds and upserts one batch, retrying with exponential backoff.
// A batch that exhausts its retries is logged, counted, and skipped.
func (ing *ingestor) flush(ctx context.Context, batch []models.Movie, stats *ingestStats) error {
	start := time.Now()
	stats.Batches++

	var err error
	backoff := ing.baseBackoff
	for attempt := 0; ; attempt++ {
		if err = ing.limiter.Wait(ctx); err != nil {
			return err
		}

		err = ing.flushOnce(ctx, batch)
		if err == nil || attempt >= ing.maxRetries {
			break
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		metrics.RecordIngestRetry()
		ing.logger.Warn().
			Err(err).
			Int("attempt", attempt+1).
			Int("batch_size", len(batch)).
			Dur("backoff", backoff).
			Msg("Batch failed, retrying")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}

	metrics.RecordIngestBatch(len(batch), time.Since(start), err)

	if err != nil {
		stats.FailedBatches++
		stats.SkippedMovies += len(batch)
		ing.logger.Error().
			Err(err).
			Int("batch_size", len(batch)).
			Str("first_id", batch[0].ID).
			Msg("Batch failed after retries, skipping")
		return nil
	}

	stats.Movies += len(batch)
	ing.logger.Info().
		Int("batch_size", len(batch)).
		Int("total_movies", stats.Movies).
		Dur("duration", time.Since(start)).
		Msg("Batch ingested")
	return nil
}

// flushOnce performs a single embed plus upsert attempt.
func (ing *ingestor) flushOnce(ctx context.Context, batch []models.Movie) error {
	texts := make([]string, len(batch))
	for i := 0; i < len(batch); i++ {
		texts[i] = embedText(batch[i])
	}

	vectors, err := ing.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed batch: %w", err)
	}
	if len(vectors) != len(batch) {
		return fmt.Errorf("embed batch: got %d vectors for %d movies", len(vectors), len(batch))
	}

	items := make([]vector.Item, len(batch))
	for i := 0; i < len(batch); i++ {
		items[i] = vector.Item{
			ID:       batch[i].ID,
			Vector:   vectors[i],
			Metadata: ing.metadata(batch[i]),
		}
	}

	if err := ing.index.Upsert(ctx, items); err != nil {
		return fmt.Errorf("upsert batch: %w", err)
	}
	return nil
}

// embedText builds the document-mode embedding input for one movie.
func embedText(m models.Movie) string {
	return fmt.Sprintf("%s: %s", m.Title, m.Overview)
}

// metadata builds the string-valued payload stored alongside each
// vector. The query path reads these fields back from matches.
func (ing *ingestor) metadata(m models.Movie) map[string]string {
	return map[string]string{
		"title":        m.Title,
		"poster_path":  m.PosterPath,
		"overview":     truncateRunes(m.Overview, ing.overviewLimit),
		"release_date": m.ReleaseDate,
		"vote_average": strconv.FormatFloat(m.VoteAverage, 'f', -1, 64),
	}
}

// truncateRunes shortens s to at most limit runes, never splitting a
// multi-byte character.
func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
