// ScreenScout - Semantic Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/screenscout

package api

import (
	"net/http"

	"github.com/tomtom215/screenscout/internal/models"
)

// Pagination bounds for the catalog listing.
const (
	defaultPageLimit = 24
	maxPageLimit     = 100
)

// ListMovies handles GET /movies.
//
// Supports page-based pagination via ?page and ?limit query parameters.
// Out-of-range values clamp to the valid range rather than erroring, so
// a stale bookmark still returns a usable page. Responses carry a weak
// ETag for conditional requests.
func (h *Handler) ListMovies(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
		return
	}

	page := getIntParam(r, "page", 1)
	if page < 1 {
		page = 1
	}

	limit := getIntParam(r, "limit", defaultPageLimit)
	if limit < 1 {
		limit = 1
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	movies, total, err := h.store.ListMovies(r.Context(), page, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query the movie catalog", err)
		return
	}

	data := make([]models.CatalogMovie, len(movies))
	for i := 0; i < len(movies); i++ {
		m := movies[i]
		data[i] = models.CatalogMovie{
			ID:          m.ID,
			Title:       m.Title,
			Overview:    m.Overview,
			PosterURL:   h.resolver.Resolve(m.PosterPath),
			Score:       m.VoteAverage,
			ReleaseDate: m.ReleaseDate,
		}
	}

	totalPages := 0
	if total > 0 {
		totalPages = (total + limit - 1) / limit
	}

	respondJSONCached(w, r, http.StatusOK, &models.CatalogResponse{
		Data: data,
		Meta: models.CatalogMeta{
			CurrentPage: page,
			Limit:       limit,
			TotalItems:  total,
			TotalPages:  totalPages,
		},
	})
}
