// ScreenScout - Semantic Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/screenscout

// Package vector abstracts the nearest-neighbor index behind a small
// interface with two backends: Pinecone over REST and Qdrant over gRPC.
// The provider is chosen once at startup from configuration; the
// pipeline only ever sees the Index interface.
package vector

import (
	"context"
	"fmt"

	"github.com/tomtom215/screenscout/internal/config"
)

// Match is one similarity-search result. Metadata carries the movie
// fields written at ingestion time (title, overview, poster_path,
// release_date, vote_average), all as strings.
type Match struct {
	ID       string
	Score    float64
	Metadata map[string]string
}

// Item is one vector to write. Metadata values must be strings; the
// ingestion job stringifies everything before upserting.
type Item struct {
	ID       string
	Vector   []float32
	Metadata map[string]string
}

// Index is a nearest-neighbor search backend.
type Index interface {
	// Query returns up to topK matches ranked by descending similarity.
	// Implementations apply the configured query timeout internally.
	Query(ctx context.Context, vector []float32, topK int) ([]Match, error)

	// Upsert inserts or overwrites items by ID. Deadlines are the
	// caller's responsibility; the ingestion job budgets per batch.
	Upsert(ctx context.Context, items []Item) error

	// Provider names the backend for logs and metrics.
	Provider() string

	// Close releases backend connections.
	Close() error
}

// New builds the configured backend. The config layer has already
// validated provider-specific settings.
func New(cfg *config.VectorConfig) (Index, error) {
	switch cfg.Provider {
	case config.VectorProviderPinecone:
		return NewPinecone(&cfg.Pinecone, cfg.Timeout), nil
	case config.VectorProviderQdrant:
		return NewQdrant(&cfg.Qdrant, cfg.Timeout)
	default:
		return nil, fmt.Errorf("unknown vector provider %q", cfg.Provider)
	}
}
