// ScreenScout - Semantic Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/screenscout

package api

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/screenscout/internal/config"
	"github.com/tomtom215/screenscout/internal/models"
	"github.com/tomtom215/screenscout/internal/recommend"
)

// serviceVersion is reported by the liveness endpoint.
const serviceVersion = "1.0.0"

// Recommender runs the recommendation pipeline for one request.
// Pipeline outcomes, including fatal stage failures, are encoded in the
// response body; the method never returns a Go error.
type Recommender interface {
	Recommend(ctx context.Context, req *models.RecommendationRequest) *models.RecommendationResponse
}

// CatalogReader pages through the movie catalog and reports store health.
type CatalogReader interface {
	ListMovies(ctx context.Context, page, limit int) ([]models.Movie, int, error)
	Ping(ctx context.Context) error
}

// EnrichmentProber reports health of the enrichment cache tiers.
type EnrichmentProber interface {
	RedisEnabled() bool
	PingRedis(ctx context.Context) error
}

// Handler holds the dependencies shared by all HTTP handlers.
type Handler struct {
	cfg       *config.Config
	engine    Recommender
	store     CatalogReader
	enricher  EnrichmentProber
	resolver  *recommend.PosterResolver
	logger    zerolog.Logger
	startTime time.Time
}

// NewHandler creates the API handler. The poster resolver is derived from
// the configured image base URL so the catalog listing serves the same
// URLs the recommendation pipeline does.
func NewHandler(cfg *config.Config, engine Recommender, store CatalogReader, enricher EnrichmentProber, logger zerolog.Logger) *Handler {
	return &Handler{
		cfg:       cfg,
		engine:    engine,
		store:     store,
		enricher:  enricher,
		resolver:  recommend.NewPosterResolver(cfg.Images.BaseURL),
		logger:    logger.With().Str("component", "api").Logger(),
		startTime: time.Now(),
	}
}
