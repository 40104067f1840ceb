// ScreenScout - Semantic Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/screenscout

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/screenscout/internal/models"
)

// readinessTimeout bounds the dependency pings of one readiness probe.
const readinessTimeout = 5 * time.Second

// Health handles GET /health, the liveness probe.
//
// Returns 200 while the process is alive, regardless of external
// dependencies. The response shape is frozen for existing clients.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":         "online",
		"version":        serviceVersion,
		"uptime_seconds": time.Since(h.startTime).Seconds(),
	})
}

// Ready handles GET /ready, the readiness probe.
//
// Pings the catalog store and, when an enrichment Redis tier is
// configured, the Redis connection. Returns 503 naming the failing
// components so operators see at a glance what is down.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	components := map[string]bool{}
	failing := []string{}

	catalogOK := h.store.Ping(ctx) == nil
	components["catalog"] = catalogOK
	if !catalogOK {
		failing = append(failing, "catalog")
	}

	if h.enricher != nil && h.enricher.RedisEnabled() {
		redisOK := h.enricher.PingRedis(ctx) == nil
		components["redis"] = redisOK
		if !redisOK {
			failing = append(failing, "redis")
		}
	}

	statusCode := http.StatusOK
	status := "ready"
	if len(failing) > 0 {
		statusCode = http.StatusServiceUnavailable
		status = "not_ready"
		h.logger.Warn().Strs("failing", failing).Msg("Readiness probe failed")
	}

	respondJSON(w, statusCode, &models.APIResponse{
		Status: status,
		Data: map[string]interface{}{
			"components":     components,
			"failing":        failing,
			"ready_to_serve": len(failing) == 0,
			"uptime":         time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}
