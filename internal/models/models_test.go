// ScreenScout - Semantic Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/screenscout

package models

import (
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

func strPtr(s string) *string { return &s }

// TestMovieResultNullSemantics verifies that absent enrichment fields
// serialize as explicit JSON nulls rather than being omitted.
func TestMovieResultNullSemantics(t *testing.T) {
	t.Parallel()

	result := MovieResult{
		ID:        "27205",
		Title:     "Inception",
		Overview:  "A thief who steals corporate secrets.",
		Score:     0.91,
		Reasoning: "Matches the heist-inside-dreams premise.",
	}

	data, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	payload := string(data)
	for _, key := range []string{`"poster_url":null`, `"year":null`, `"imdb_rating":null`} {
		if !strings.Contains(payload, key) {
			t.Errorf("payload missing %s: %s", key, payload)
		}
	}
	if !strings.Contains(payload, `"score":0.91`) {
		t.Errorf("payload missing score: %s", payload)
	}
}

// TestMovieResultEnriched verifies populated enrichment fields serialize as strings
func TestMovieResultEnriched(t *testing.T) {
	t.Parallel()

	result := MovieResult{
		ID:         "27205",
		Title:      "Inception",
		PosterURL:  strPtr("https://image.tmdb.org/t/p/w500/poster.jpg"),
		Score:      0.91,
		Year:       strPtr("2010"),
		IMDBRating: strPtr("8.8"),
	}

	data, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if decoded["year"] != "2010" {
		t.Errorf("year = %v, want 2010", decoded["year"])
	}
	if decoded["imdb_rating"] != "8.8" {
		t.Errorf("imdb_rating = %v, want 8.8", decoded["imdb_rating"])
	}
	if decoded["poster_url"] != "https://image.tmdb.org/t/p/w500/poster.jpg" {
		t.Errorf("poster_url = %v", decoded["poster_url"])
	}
}

// TestRecommendationResponseShapes verifies the three wire shapes
func TestRecommendationResponseShapes(t *testing.T) {
	t.Parallel()

	t.Run("success shape", func(t *testing.T) {
		resp := RecommendationResponse{
			AIReasoning: strPtr("These match your taste for heist movies."),
			Movies: []MovieResult{
				{ID: "27205", Title: "Inception", Score: 0.91},
			},
		}

		data, err := json.Marshal(resp)
		if err != nil {
			t.Fatalf("Marshal() error = %v", err)
		}

		payload := string(data)
		if !strings.Contains(payload, `"ai_reasoning":"These match your taste for heist movies."`) {
			t.Errorf("payload missing ai_reasoning: %s", payload)
		}
		if strings.Contains(payload, `"error"`) {
			t.Errorf("success payload should omit error key: %s", payload)
		}
	})

	t.Run("empty result shape", func(t *testing.T) {
		resp := RecommendationResponse{
			AIReasoning: strPtr("I couldn't find any matches. Try a broader search."),
			Movies:      []MovieResult{},
		}

		data, err := json.Marshal(resp)
		if err != nil {
			t.Fatalf("Marshal() error = %v", err)
		}

		payload := string(data)
		if !strings.Contains(payload, `"movies":[]`) {
			t.Errorf("empty movies must serialize as [], got: %s", payload)
		}
	})

	t.Run("fatal error shape", func(t *testing.T) {
		resp := RecommendationResponse{
			Movies: []MovieResult{},
			Error:  "embedding failed: context deadline exceeded",
		}

		data, err := json.Marshal(resp)
		if err != nil {
			t.Fatalf("Marshal() error = %v", err)
		}

		payload := string(data)
		if strings.Contains(payload, `"ai_reasoning"`) {
			t.Errorf("fatal payload should omit ai_reasoning key: %s", payload)
		}
		if !strings.Contains(payload, `"error":"embedding failed: context deadline exceeded"`) {
			t.Errorf("payload missing error: %s", payload)
		}
		if !strings.Contains(payload, `"movies":[]`) {
			t.Errorf("fatal payload must carry empty movies array: %s", payload)
		}
	})
}

// TestRecommendationRequestDecoding verifies request body decoding defaults
func TestRecommendationRequestDecoding(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		body      string
		wantQuery string
		wantIDs   int
	}{
		{
			name:      "query only",
			body:      `{"query": "mind bending sci-fi"}`,
			wantQuery: "mind bending sci-fi",
			wantIDs:   0,
		},
		{
			name:      "query with selections",
			body:      `{"query": "like these", "selected_movie_ids": ["27205", "157336"]}`,
			wantQuery: "like these",
			wantIDs:   2,
		},
		{
			name:      "explicit empty selections",
			body:      `{"query": "anything", "selected_movie_ids": []}`,
			wantQuery: "anything",
			wantIDs:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req RecommendationRequest
			if err := json.Unmarshal([]byte(tt.body), &req); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if req.Query != tt.wantQuery {
				t.Errorf("Query = %q, want %q", req.Query, tt.wantQuery)
			}
			if len(req.SelectedMovieIDs) != tt.wantIDs {
				t.Errorf("len(SelectedMovieIDs) = %d, want %d", len(req.SelectedMovieIDs), tt.wantIDs)
			}
		})
	}
}

// TestCatalogResponseShape verifies the data/meta listing contract
func TestCatalogResponseShape(t *testing.T) {
	t.Parallel()

	resp := CatalogResponse{
		Data: []CatalogMovie{
			{
				ID:          "27205",
				Title:       "Inception",
				Overview:    "A thief who steals corporate secrets.",
				PosterURL:   strPtr("https://image.tmdb.org/t/p/w500/poster.jpg"),
				Score:       8.4,
				ReleaseDate: "2010-07-16",
			},
		},
		Meta: CatalogMeta{
			CurrentPage: 2,
			Limit:       24,
			TotalItems:  100,
			TotalPages:  5,
		},
	}

	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	meta, ok := decoded["meta"].(map[string]interface{})
	if !ok {
		t.Fatalf("meta missing from payload: %s", data)
	}
	if meta["current_page"] != float64(2) {
		t.Errorf("current_page = %v, want 2", meta["current_page"])
	}
	if meta["total_pages"] != float64(5) {
		t.Errorf("total_pages = %v, want 5", meta["total_pages"])
	}

	items, ok := decoded["data"].([]interface{})
	if !ok || len(items) != 1 {
		t.Fatalf("data should carry one movie: %s", data)
	}
}

// TestAPIResponseEnvelope verifies the operational envelope shape
func TestAPIResponseEnvelope(t *testing.T) {
	t.Parallel()

	t.Run("error envelope", func(t *testing.T) {
		resp := APIResponse{
			Status: "error",
			Error: &APIError{
				Code:    "VALIDATION_ERROR",
				Message: "Query is required",
				Details: map[string]interface{}{"field": "Query"},
			},
		}

		data, err := json.Marshal(resp)
		if err != nil {
			t.Fatalf("Marshal() error = %v", err)
		}

		var decoded APIResponse
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("Unmarshal() error = %v", err)
		}
		if decoded.Error == nil || decoded.Error.Code != "VALIDATION_ERROR" {
			t.Errorf("Error = %+v, want VALIDATION_ERROR", decoded.Error)
		}
	})

	t.Run("success envelope omits error", func(t *testing.T) {
		resp := APIResponse{
			Status: "success",
			Data:   map[string]string{"status": "ok"},
		}

		data, err := json.Marshal(resp)
		if err != nil {
			t.Fatalf("Marshal() error = %v", err)
		}
		if strings.Contains(string(data), `"error"`) {
			t.Errorf("success envelope should omit error key: %s", data)
		}
	})
}
