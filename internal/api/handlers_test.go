// ScreenScout - Semantic Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/screenscout

package api

import (
	"context"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/screenscout/internal/config"
	"github.com/tomtom215/screenscout/internal/models"
)

// mockRecommender returns a canned pipeline response and records the
// request it was handed.
type mockRecommender struct {
	resp   *models.RecommendationResponse
	gotReq *models.RecommendationRequest
	calls  int
}

func (m *mockRecommender) Recommend(_ context.Context, req *models.RecommendationRequest) *models.RecommendationResponse {
	m.calls++
	m.gotReq = req
	return m.resp
}

// mockCatalog serves a fixed movie page with injectable errors.
type mockCatalog struct {
	movies   []models.Movie
	total    int
	err      error
	pingErr  error
	gotPage  int
	gotLimit int
}

func (m *mockCatalog) ListMovies(_ context.Context, page, limit int) ([]models.Movie, int, error) {
	m.gotPage = page
	m.gotLimit = limit
	if m.err != nil {
		return nil, 0, m.err
	}
	return m.movies, m.total, nil
}

func (m *mockCatalog) Ping(_ context.Context) error {
	return m.pingErr
}

// mockProber fakes the enrichment cache health probes.
type mockProber struct {
	enabled bool
	pingErr error
}

func (m *mockProber) RedisEnabled() bool {
	return m.enabled
}

func (m *mockProber) PingRedis(_ context.Context) error {
	return m.pingErr
}

// newTestHandler wires a Handler with the given mocks and a quiet logger.
func newTestHandler(engine Recommender, store CatalogReader, enricher EnrichmentProber) *Handler {
	cfg := &config.Config{}
	cfg.Images.BaseURL = "https://images.example.com/w500"

	return NewHandler(cfg, engine, store, enricher, zerolog.Nop())
}

// decodeEnvelope parses a standard envelope response body.
func decodeEnvelope(t *testing.T, body []byte) models.APIResponse {
	t.Helper()

	var envelope models.APIResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return envelope
}
