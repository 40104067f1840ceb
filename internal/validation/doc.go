// ScreenScout - Semantic Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/screenscout

// Package validation provides struct validation using go-playground/validator v10.
//
// This package wraps the go-playground/validator library to provide a thread-safe
// singleton validator instance with user-friendly error messages. It integrates
// with the application's API error format for consistent error responses.
//
// # Overview
//
// The package provides:
//   - Thread-safe singleton validator (initialized once, cached struct info)
//   - Comprehensive error translation to human-readable messages
//   - APIError conversion matching the application's error format
//   - Future v11 compatibility with WithRequiredStructEnabled
//
// # Quick Start
//
//	type RecommendationRequest struct {
//	    Query            string   `json:"query" validate:"required,max=1000"`
//	    SelectedMovieIDs []string `json:"selected_movie_ids" validate:"max=100,dive,required"`
//	}
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//	    var req RecommendationRequest
//	    if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
//	        // handle decode error
//	    }
//
//	    if verr := validation.ValidateStruct(&req); verr != nil {
//	        apiErr := verr.ToAPIError()
//	        respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
//	        return
//	    }
//
//	    // proceed with valid request
//	}
//
// # Common Validation Tags
//
// String validations:
//   - required: Field must not be empty
//   - min=n: Minimum length n characters
//   - max=n: Maximum length n characters
//   - url: Valid URL format
//
// Collection validations:
//   - max=n: Maximum n elements
//   - dive: Apply subsequent tags to each element
//
// Numeric validations:
//   - gte=n / lte=n: Inclusive bounds
//   - gt=n / lt=n: Exclusive bounds
//
// Enum validations:
//   - oneof=a b c: Must be one of the specified values
//
// # API Error Integration
//
// The ToAPIError method produces errors matching the application format:
//
//	// Single field error
//	{
//	    "code": "VALIDATION_ERROR",
//	    "message": "Query is required",
//	    "details": {"field": "Query", "tag": "required", "value": ""}
//	}
//
//	// Multiple field errors
//	{
//	    "code": "VALIDATION_ERROR",
//	    "message": "Query: Query is required; SelectedMovieIDs: SelectedMovieIDs must be at most 100",
//	    "details": {
//	        "fields": [
//	            {"field": "Query", "tag": "required", "message": "..."},
//	            {"field": "SelectedMovieIDs", "tag": "max", "message": "..."}
//	        ]
//	    }
//	}
//
// # Thread Safety
//
// The singleton validator is initialized once and safe for concurrent use:
//
//	validate := validation.GetValidator()  // Thread-safe
//	err := validation.ValidateStruct(&req) // Thread-safe
//
// # Performance
//
// The validator caches struct reflection information:
//   - First validation of a struct type: ~1ms (reflection + caching)
//   - Subsequent validations: ~10us (cached)
//
// # See Also
//
//   - internal/api: Request handlers using validation
//   - github.com/go-playground/validator/v10: Underlying library
package validation
