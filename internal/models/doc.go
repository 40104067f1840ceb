// ScreenScout - Semantic Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/screenscout

/*
Package models defines the wire-level data structures shared across the
HTTP API and the recommendation pipeline.

Two response families coexist:

  - RecommendationResponse and CatalogResponse are frozen contracts.
    Their field names (ai_reasoning, selected_movie_ids, poster_url,
    imdb_rating, data/meta) predate this service and existing clients
    depend on them, so they bypass the APIResponse envelope.

  - APIResponse wraps everything else: health/readiness payloads and
    every error the transport layer itself produces (validation
    failures, rate limiting, unknown routes).

Request structs carry go-playground/validator tags; handlers validate
them through internal/validation before touching the pipeline.

Null semantics in MovieResult are deliberate: poster_url, year and
imdb_rating serialize as explicit JSON nulls when a value is absent,
because enrichment is best-effort per item and clients render the
difference. Movies slices always serialize as [] rather than null.
*/
package models
