// ScreenScout - Semantic Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/screenscout

/*
Package api provides the HTTP REST API layer for ScreenScout.

This package implements the service's public endpoints on top of the Chi
router: the recommendation pipeline entry point, the paginated catalog
listing, and the operational health and metrics surface.

Key Components:

  - Router: Chi route configuration and middleware stack (request ID,
    logging, recovery, CORS, gzip compression, per-IP rate limiting)
  - Handler: request handlers holding the engine, catalog store, and
    enrichment client dependencies
  - Response formatting: frozen wire shapes for /recommend and /movies,
    standardized envelope for operational errors
  - ETag support: FNV-1a weak ETags with If-None-Match handling on the
    catalog listing

Endpoints:

 1. POST /recommend: runs the recommendation pipeline. Pipeline outcomes
    (success, zero matches, fatal stage failure) all return HTTP 200 with
    the bare response shape; the only transport-level failure is request
    validation, which returns HTTP 400 with the standard error envelope.

 2. GET /movies: paginated catalog listing with page/limit query
    parameters, resolved poster URLs, and ETag-based conditional requests.

 3. GET /health: liveness probe with version and uptime.

 4. GET /ready: readiness probe; pings the catalog store and, when
    configured, the enrichment Redis tier. Returns 503 naming the failing
    components.

 5. GET /metrics: Prometheus exposition.

Usage Example:

	import (
	    "github.com/tomtom215/screenscout/internal/api"
	    "github.com/tomtom215/screenscout/internal/catalog"
	    "github.com/tomtom215/screenscout/internal/recommend"
	)

	handler := api.NewHandler(cfg, engine, store, enricher, logger)
	router := api.NewRouter(handler, &cfg.Server)
	http.ListenAndServe(":8000", router.SetupChi())

Thread Safety:

All handlers are stateless apart from injected dependencies and are safe
for concurrent request handling. The engine, store, and enrichment client
carry their own synchronization.
*/
package api
