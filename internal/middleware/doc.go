// ScreenScout - Semantic Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/screenscout

/*
Package middleware provides transport-agnostic HTTP middleware.

Request tracking, logging, CORS, and rate limiting live with the router
in internal/api; this package holds middleware with no dependency on
the rest of the application, currently gzip response compression.

Usage:

	r.With(middleware.Compression).Get("/movies", handler.ListMovies)

Compression Details:

  - Requires Accept-Encoding: gzip from the client
  - Defers the decision to WriteHeader: 204, 304, and responses that
    already carry a Content-Encoding pass through untouched
  - Sets Vary: Accept-Encoding so shared caches key on the encoding
  - Pools gzip writers across requests

Thread Safety:

Compression is safe for concurrent use; each request checks a writer
out of a sync.Pool for its own response stream.
*/
package middleware
