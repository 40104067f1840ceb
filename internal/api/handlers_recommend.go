// ScreenScout - Semantic Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/screenscout

package api

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/screenscout/internal/models"
)

// Recommend handles POST /recommend.
//
// The request body carries the free-text query and any movies the user
// already picked. Validation failure is the only transport-level error
// (HTTP 400 with the standard envelope); every pipeline outcome, fatal
// stage failures included, returns HTTP 200 with the bare response shape
// so clients branch on the body rather than the status code.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
		return
	}

	var req models.RecommendationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid JSON body", err)
		return
	}

	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	resp := h.engine.Recommend(r.Context(), &req)

	respondJSON(w, http.StatusOK, resp)
}
