// ScreenScout - Semantic Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/screenscout

package vector

import (
	"testing"
	"time"

	"github.com/tomtom215/screenscout/internal/config"
)

func TestNewSelectsProvider(t *testing.T) {
	tests := []struct {
		name         string
		provider     string
		wantProvider string
		wantErr      bool
	}{
		{name: "pinecone", provider: config.VectorProviderPinecone, wantProvider: "pinecone"},
		{name: "qdrant", provider: config.VectorProviderQdrant, wantProvider: "qdrant"},
		{name: "unknown", provider: "weaviate", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.VectorConfig{
				Provider: tt.provider,
				TopK:     50,
				Timeout:  5 * time.Second,
				Pinecone: config.PineconeConfig{Host: "https://example.pinecone.io", APIKey: "k"},
				Qdrant:   config.QdrantConfig{Host: "localhost", Port: 6334, Collection: "movies"},
			}

			idx, err := New(cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatal("New() error = nil, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			defer idx.Close()

			if got := idx.Provider(); got != tt.wantProvider {
				t.Errorf("Provider() = %q, want %q", got, tt.wantProvider)
			}
		})
	}
}
