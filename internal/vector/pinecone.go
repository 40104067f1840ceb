// ScreenScout - Semantic Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/screenscout

package vector

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/screenscout/internal/config"
	"github.com/tomtom215/screenscout/internal/metrics"
)

// Pinecone talks to a Pinecone index over its data-plane REST API.
// The host is index-specific (assigned when the index is created), so
// requests go straight to it rather than through a control plane.
type Pinecone struct {
	host       string
	apiKey     string
	namespace  string
	timeout    time.Duration
	httpClient *http.Client
}

// NewPinecone creates a Pinecone backend for the given index host.
func NewPinecone(cfg *config.PineconeConfig, timeout time.Duration) *Pinecone {
	host := cfg.Host
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "https://" + host
	}

	return &Pinecone{
		host:      strings.TrimSuffix(host, "/"),
		apiKey:    cfg.APIKey,
		namespace: cfg.Namespace,
		timeout:   timeout,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type pineconeQueryRequest struct {
	Vector          []float32 `json:"vector"`
	TopK            int       `json:"topK"`
	IncludeMetadata bool      `json:"includeMetadata"`
	Namespace       string    `json:"namespace,omitempty"`
}

type pineconeMatch struct {
	ID       string            `json:"id"`
	Score    float64           `json:"score"`
	Metadata map[string]string `json:"metadata"`
}

type pineconeQueryResponse struct {
	Matches []pineconeMatch `json:"matches"`
}

type pineconeVector struct {
	ID       string            `json:"id"`
	Values   []float32         `json:"values"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type pineconeUpsertRequest struct {
	Vectors   []pineconeVector `json:"vectors"`
	Namespace string           `json:"namespace,omitempty"`
}

// Query runs a similarity search against the index.
func (p *Pinecone) Query(ctx context.Context, vector []float32, topK int) ([]Match, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	reqBody := pineconeQueryRequest{
		Vector:          vector,
		TopK:            topK,
		IncludeMetadata: true,
		Namespace:       p.namespace,
	}

	start := time.Now()
	var resp pineconeQueryResponse
	err := p.post(ctx, p.host+"/query", reqBody, &resp)
	metrics.RecordVectorQuery(p.Provider(), len(resp.Matches), time.Since(start), err)
	if err != nil {
		return nil, err
	}

	matches := make([]Match, len(resp.Matches))
	for i, m := range resp.Matches {
		matches[i] = Match{
			ID:       m.ID,
			Score:    m.Score,
			Metadata: m.Metadata,
		}
	}

	return matches, nil
}

// Upsert writes vectors to the index.
func (p *Pinecone) Upsert(ctx context.Context, items []Item) error {
	if len(items) == 0 {
		return nil
	}

	reqBody := pineconeUpsertRequest{
		Vectors:   make([]pineconeVector, len(items)),
		Namespace: p.namespace,
	}
	for i, item := range items {
		reqBody.Vectors[i] = pineconeVector{
			ID:       item.ID,
			Values:   item.Vector,
			Metadata: item.Metadata,
		}
	}

	var resp struct {
		UpsertedCount int `json:"upsertedCount"`
	}
	err := p.post(ctx, p.host+"/vectors/upsert", reqBody, &resp)
	metrics.RecordVectorUpsert(p.Provider(), len(items), err)
	if err != nil {
		return err
	}

	return nil
}

// Provider implements Index.
func (p *Pinecone) Provider() string {
	return config.VectorProviderPinecone
}

// Close implements Index.
func (p *Pinecone) Close() error {
	p.httpClient.CloseIdleConnections()
	return nil
}

func (p *Pinecone) post(ctx context.Context, url string, reqBody, respBody interface{}) error {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Api-Key", p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("pinecone call: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("pinecone error %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(respBody); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
