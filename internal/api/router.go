// ScreenScout - Semantic Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/screenscout

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/screenscout/internal/config"
	"github.com/tomtom215/screenscout/internal/middleware"
)

// Router wires the handlers and middleware into a Chi mux.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router for the given handler and server configuration.
func NewRouter(handler *Handler, cfg *config.ServerConfig) *Router {
	return &Router{
		handler:       handler,
		chiMiddleware: NewChiMiddlewareFromServer(cfg),
	}
}

// SetupChi configures all HTTP routes using the Chi router.
//
// The endpoint paths are frozen for existing clients, so everything
// lives at the root rather than under a versioned prefix.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to all routes in order
	r.Use(RequestIDWithLogging())      // X-Request-ID header plus logging context
	r.Use(chimiddleware.RealIP)        // Extract real IP from X-Forwarded-For
	r.Use(RequestLogging())            // Completion log plus API metrics
	r.Use(chimiddleware.Recoverer)     // Recover from panics
	r.Use(APISecurityHeaders())        // nosniff, frame denial, referrer policy
	r.Use(router.chiMiddleware.CORS()) // CORS must be global to handle OPTIONS preflight

	// Recommendation pipeline. Per-IP rate limited because each request
	// fans out to paid upstream APIs.
	r.With(router.chiMiddleware.RateLimit("/recommend"), middleware.Compression).
		Post("/recommend", router.handler.Recommend)

	// Catalog listing; the largest payload, so worth compressing
	r.With(middleware.Compression).Get("/movies", router.handler.ListMovies)

	// Operational endpoints. /metrics negotiates its own encoding.
	r.Get("/health", router.handler.Health)
	r.Get("/ready", router.handler.Ready)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
