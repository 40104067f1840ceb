// ScreenScout - Semantic Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/screenscout

package recommend

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/screenscout/internal/config"
	"github.com/tomtom215/screenscout/internal/metrics"
	"github.com/tomtom215/screenscout/internal/models"
	"github.com/tomtom215/screenscout/internal/vector"
)

// TitleLookup resolves catalog titles for movie ids. Missing ids are
// skipped, not errors; *catalog.Store implements this.
type TitleLookup interface {
	TitlesByIDs(ctx context.Context, ids []string) ([]string, error)
}

// Embedder turns query text into a vector; *gemini.Client implements
// this.
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Searcher is the nearest-neighbor lookup the pipeline needs from the
// vector index. Both index backends implement it.
type Searcher interface {
	Query(ctx context.Context, queryVec []float32, topK int) ([]vector.Match, error)
}

// Deps bundles the engine's collaborators. All handles are constructed
// at startup and immutable afterwards.
type Deps struct {
	Titles   TitleLookup
	Embedder Embedder
	Index    Searcher
	Oracle   Generator
	Enricher MetadataSource
}

// Engine runs the recommendation pipeline. One instance serves all
// requests concurrently; it holds no per-request state.
type Engine struct {
	titles   TitleLookup
	embedder Embedder
	index    Searcher
	oracle   *Oracle
	enricher MetadataSource
	resolver *PosterResolver

	topK             int
	contextSize      int
	maxConcurrent    int
	detachEnrichment bool

	logger zerolog.Logger
}

// NewEngine wires the pipeline from configuration and injected
// collaborators.
func NewEngine(cfg *config.Config, deps Deps, logger zerolog.Logger) *Engine {
	componentLogger := logger.With().Str("component", "recommend").Logger()
	maxConcurrent := cfg.Enrichment.MaxConcurrent
	if maxConcurrent < 1 {
		// Validation skips enrichment settings when no key is set, but
		// enrichAll still runs against the disabled client.
		maxConcurrent = 1
	}
	return &Engine{
		titles:           deps.Titles,
		embedder:         deps.Embedder,
		index:            deps.Index,
		oracle:           NewOracle(deps.Oracle, &cfg.Oracle, logger),
		enricher:         deps.Enricher,
		resolver:         NewPosterResolver(cfg.Images.BaseURL),
		topK:             cfg.Vector.TopK,
		contextSize:      cfg.Oracle.ContextSize,
		maxConcurrent:    maxConcurrent,
		detachEnrichment: cfg.Enrichment.DetachFromRequest,
		logger:           componentLogger,
	}
}

// Recommend runs the full pipeline and always produces a response
// body. Fatal stage failures surface in the payload's error field with
// an empty movie list; the caller still answers HTTP 200.
func (e *Engine) Recommend(ctx context.Context, req *models.RecommendationRequest) *models.RecommendationResponse {
	start := time.Now()
	logger := e.logger.With().
		Int("query_len", len(req.Query)).
		Int("selected", len(req.SelectedMovieIDs)).
		Logger()

	resp, err := e.run(ctx, req, logger)
	if err != nil {
		var fatalErr *FatalError
		if !errors.As(err, &fatalErr) {
			fatalErr = &FatalError{Stage: "internal", Err: err}
		}
		logger.Error().Err(fatalErr.Err).Str("stage", fatalErr.Stage).Msg("Recommendation pipeline failed")
		metrics.RecordRecommendRequest("error", time.Since(start))
		return &models.RecommendationResponse{
			Movies: []models.MovieResult{},
			Error:  fatalErr.userMessage(),
		}
	}

	status := "success"
	if len(resp.Movies) == 0 {
		status = "no_matches"
	}
	metrics.RecordRecommendRequest(status, time.Since(start))
	return resp
}

func (e *Engine) run(ctx context.Context, req *models.RecommendationRequest, logger zerolog.Logger) (*models.RecommendationResponse, error) {
	stageStart := time.Now()
	titles := e.selectedTitles(ctx, req.SelectedMovieIDs, logger)
	augmented := AugmentQuery(req.Query, titles)
	metrics.RecordPipelineStage("augment", time.Since(stageStart))

	stageStart = time.Now()
	queryVec, err := e.embedder.EmbedQuery(ctx, augmented)
	metrics.RecordPipelineStage("embed", time.Since(stageStart))
	if err != nil {
		return nil, fatal(StageEmbedding, err)
	}

	stageStart = time.Now()
	matches, err := e.index.Query(ctx, queryVec, e.topK)
	metrics.RecordPipelineStage("search", time.Since(stageStart))
	if err != nil {
		return nil, fatal(StageSearch, err)
	}

	if len(matches) == 0 {
		logger.Debug().Msg("No index matches for query")
		reasoning := noMatchesMessage
		return &models.RecommendationResponse{
			AIReasoning: &reasoning,
			Movies:      []models.MovieResult{},
		}, nil
	}

	candidates := make([]Candidate, len(matches))
	for i, m := range matches {
		candidates[i] = newCandidate(m)
	}

	stageStart = time.Now()
	filtered := FilterCandidates(candidates, req.SelectedMovieIDs, titles, e.contextSize)
	metrics.RecordPipelineStage("filter", time.Since(stageStart))

	stageStart = time.Now()
	decision := e.oracle.Rank(ctx, req.Query, titles, filtered)
	metrics.RecordPipelineStage("rank", time.Since(stageStart))

	selected := selectInOrder(filtered, decision.SelectedIDs)

	stageStart = time.Now()
	enriched := e.enrichAll(ctx, selected)
	metrics.RecordPipelineStage("enrich", time.Since(stageStart))

	resp := e.assemble(selected, enriched, decision.Reasoning)

	logger.Debug().
		Int("matches", len(matches)).
		Int("filtered", len(filtered)).
		Int("returned", len(resp.Movies)).
		Msg("Recommendation complete")

	return resp, nil
}

// selectedTitles resolves the titles of already-picked movies. Lookup
// failures degrade to no titles: augmentation then runs on the raw
// query instead of failing the request.
func (e *Engine) selectedTitles(ctx context.Context, ids []string, logger zerolog.Logger) []string {
	if len(ids) == 0 {
		return nil
	}
	titles, err := e.titles.TitlesByIDs(ctx, ids)
	if err != nil {
		logger.Warn().Err(err).Msg("Title lookup failed, augmenting without picks")
		return nil
	}
	return titles
}

// selectInOrder restricts candidates to the decision's ids while
// preserving the index's similarity order. The oracle's own ordering
// is deliberately discarded, and ids it invented match nothing.
func selectInOrder(candidates []Candidate, ids []string) []Candidate {
	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	selected := make([]Candidate, 0, len(ids))
	for _, c := range candidates {
		if _, ok := wanted[c.ID]; ok {
			selected = append(selected, c)
		}
	}
	return selected
}

// assemble builds the wire response. Enrichment attaches by id, an
// enrichment poster wins over the stored reference, every reference
// goes through the resolver, and reasoning is normalized per movie.
func (e *Engine) assemble(selected []Candidate, enriched map[string]EnrichedFields, reasoning Reasoning) *models.RecommendationResponse {
	movies := make([]models.MovieResult, 0, len(selected))
	for _, c := range selected {
		fields := enriched[c.ID]

		rawPoster := c.RawPoster
		if fields.PosterURL != "" {
			rawPoster = fields.PosterURL
		}

		movies = append(movies, models.MovieResult{
			ID:         c.ID,
			Title:      c.Title,
			Overview:   c.Overview,
			PosterURL:  e.resolver.Resolve(rawPoster),
			Score:      c.Score,
			Year:       optional(fields.Year),
			IMDBRating: optional(fields.Rating),
			Reasoning:  reasoning.For(c.ID),
		})
	}

	resp := &models.RecommendationResponse{Movies: movies}
	if text, ok := reasoning.Global(); ok {
		resp.AIReasoning = &text
	}
	return resp
}

// optional maps an empty string to an explicit JSON null.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
