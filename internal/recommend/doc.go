// ScreenScout - Semantic Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/screenscout

// Package recommend implements the recommendation pipeline: query
// augmentation, embedding, vector search, candidate filtering,
// generative re-ranking and metadata enrichment, assembled into the
// wire response.
//
// # Pipeline
//
// A request moves through fixed stages:
//
//  1. Augment: resolve the user's picked movie titles and fold them
//     into the query text.
//  2. Embed: turn the augmented text into a query vector.
//  3. Search: nearest-neighbor lookup against the vector index.
//  4. Filter: drop already-picked movies and duplicates, cap the
//     candidate list.
//  5. Rank: ask the oracle model to pick the best R candidates, with a
//     deterministic similarity-order fallback when it misbehaves.
//  6. Enrich: concurrent per-movie secondary metadata lookups.
//  7. Assemble: build the response in vector-similarity order.
//
// Only embedding and search failures abort a request. Every stage after
// search degrades: a dead oracle falls back to similarity order, a dead
// enrichment source yields null metadata fields. The result ordering is
// always the index's descending-similarity order; the oracle decides
// membership, never position.
//
// # Construction
//
// Collaborators are injected once at startup and defined as consumer-side
// interfaces, so tests swap in fakes without touching the real clients:
//
//	engine := recommend.NewEngine(cfg, recommend.Deps{
//	    Titles:   store,
//	    Embedder: geminiClient,
//	    Index:    idx,
//	    Oracle:   geminiClient,
//	    Enricher: omdbClient,
//	}, logger)
//	resp := engine.Recommend(ctx, req)
//
// Recommend never returns a Go error. Fatal stage failures surface in
// the response payload's error field; the HTTP layer always answers 200
// for a request that reached the pipeline.
package recommend
