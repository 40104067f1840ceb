// ScreenScout - Semantic Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/screenscout

package models

// Movie is a catalog row as stored in the SQLite movies table.
// IDs are opaque strings (upstream TMDB IDs in practice, but nothing
// may assume they are numeric).
type Movie struct {
	ID          string
	Title       string
	Overview    string
	PosterPath  string
	ReleaseDate string
	VoteAverage float64
}

// RecommendationRequest is the POST /recommend request body.
//
// SelectedMovieIDs carries the IDs of movies the user already picked;
// their titles steer query augmentation and the picks themselves are
// excluded from the results.
type RecommendationRequest struct {
	Query            string   `json:"query" validate:"required,max=1000"`
	SelectedMovieIDs []string `json:"selected_movie_ids" validate:"max=100,dive,required"`
}

// MovieResult is a single recommended movie in the /recommend response.
//
// PosterURL, Year and IMDBRating serialize as explicit nulls when absent:
// enrichment is best-effort per item and clients distinguish "not
// enriched" from "missing key".
type MovieResult struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Overview   string  `json:"overview"`
	PosterURL  *string `json:"poster_url"`
	Score      float64 `json:"score"`
	Year       *string `json:"year"`
	IMDBRating *string `json:"imdb_rating"`
	Reasoning  string  `json:"reasoning,omitempty"`
}

// RecommendationResponse is the POST /recommend response body.
//
// Exactly one of the three shapes is emitted, always with HTTP 200:
//   - success:  {"ai_reasoning": "...", "movies": [...]}
//   - no-match: {"ai_reasoning": "...", "movies": []}
//   - fatal:    {"error": "...", "movies": []}
//
// Movies is never null on the wire; an empty result serializes as [].
type RecommendationResponse struct {
	AIReasoning *string       `json:"ai_reasoning,omitempty"`
	Movies      []MovieResult `json:"movies"`
	Error       string        `json:"error,omitempty"`
}

// CatalogMovie is a single movie in the GET /movies listing.
// Score mirrors the stored vote_average; PosterURL is fully resolved.
type CatalogMovie struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	PosterURL   *string `json:"poster_url"`
	Score       float64 `json:"score"`
	ReleaseDate string  `json:"release_date"`
}

// CatalogMeta carries page-based pagination metadata for GET /movies.
type CatalogMeta struct {
	CurrentPage int `json:"current_page"`
	Limit       int `json:"limit"`
	TotalItems  int `json:"total_items"`
	TotalPages  int `json:"total_pages"`
}

// CatalogResponse is the GET /movies response body.
type CatalogResponse struct {
	Data []CatalogMovie `json:"data"`
	Meta CatalogMeta    `json:"meta"`
}
