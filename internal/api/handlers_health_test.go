// ScreenScout - Semantic Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/screenscout

package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
)

func TestHealth(t *testing.T) {
	h := newTestHandler(&mockRecommender{}, &mockCatalog{}, &mockProber{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	h.Health(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var body struct {
		Status        string  `json:"status"`
		Version       string  `json:"version"`
		UptimeSeconds float64 `json:"uptime_seconds"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Status != "online" {
		t.Errorf("status = %q, want online", body.Status)
	}
	if body.Version == "" {
		t.Error("version missing")
	}
	if body.UptimeSeconds < 0 {
		t.Errorf("uptime_seconds = %v", body.UptimeSeconds)
	}
}

func TestHealthMethodNotAllowed(t *testing.T) {
	h := newTestHandler(&mockRecommender{}, &mockCatalog{}, &mockProber{})

	req := httptest.NewRequest(http.MethodDelete, "/health", nil)
	rec := httptest.NewRecorder()

	h.Health(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}

func TestReady(t *testing.T) {
	tests := []struct {
		name        string
		store       *mockCatalog
		prober      *mockProber
		wantStatus  int
		wantFailing []string
	}{
		{
			name:       "catalog healthy, redis not configured",
			store:      &mockCatalog{},
			prober:     &mockProber{},
			wantStatus: http.StatusOK,
		},
		{
			name:       "catalog and redis healthy",
			store:      &mockCatalog{},
			prober:     &mockProber{enabled: true},
			wantStatus: http.StatusOK,
		},
		{
			name:        "catalog down",
			store:       &mockCatalog{pingErr: errors.New("locked")},
			prober:      &mockProber{},
			wantStatus:  http.StatusServiceUnavailable,
			wantFailing: []string{"catalog"},
		},
		{
			name:        "redis down",
			store:       &mockCatalog{},
			prober:      &mockProber{enabled: true, pingErr: errors.New("refused")},
			wantStatus:  http.StatusServiceUnavailable,
			wantFailing: []string{"redis"},
		},
		{
			name:        "everything down",
			store:       &mockCatalog{pingErr: errors.New("locked")},
			prober:      &mockProber{enabled: true, pingErr: errors.New("refused")},
			wantStatus:  http.StatusServiceUnavailable,
			wantFailing: []string{"catalog", "redis"},
		},
		{
			name:       "redis unreachable but not configured",
			store:      &mockCatalog{},
			prober:     &mockProber{enabled: false, pingErr: errors.New("refused")},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(&mockRecommender{}, tt.store, tt.prober)

			req := httptest.NewRequest(http.MethodGet, "/ready", nil)
			rec := httptest.NewRecorder()

			h.Ready(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			var body struct {
				Status string `json:"status"`
				Data   struct {
					Failing      []string `json:"failing"`
					ReadyToServe bool     `json:"ready_to_serve"`
				} `json:"data"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode response: %v", err)
			}

			wantReady := tt.wantStatus == http.StatusOK
			if body.Data.ReadyToServe != wantReady {
				t.Errorf("ready_to_serve = %v, want %v", body.Data.ReadyToServe, wantReady)
			}
			if wantReady && body.Status != "ready" {
				t.Errorf("status = %q, want ready", body.Status)
			}
			if !wantReady && body.Status != "not_ready" {
				t.Errorf("status = %q, want not_ready", body.Status)
			}

			if len(body.Data.Failing) != len(tt.wantFailing) {
				t.Fatalf("failing = %v, want %v", body.Data.Failing, tt.wantFailing)
			}
			for i := 0; i < len(tt.wantFailing); i++ {
				if body.Data.Failing[i] != tt.wantFailing[i] {
					t.Errorf("failing = %v, want %v", body.Data.Failing, tt.wantFailing)
				}
			}
		})
	}
}
