// ScreenScout - Semantic Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/screenscout

// Package gemini is a REST client for the Google Generative Language
// API. It covers the three calls the pipeline makes: single-text
// embedding in query mode, batch embedding in document mode, and JSON
// generation for the re-ranking oracle.
package gemini

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/screenscout/internal/cache"
	"github.com/tomtom215/screenscout/internal/config"
	"github.com/tomtom215/screenscout/internal/logging"
	"github.com/tomtom215/screenscout/internal/metrics"
)

// Embedding task types. Query and document vectors live in the same
// space but are optimized for their side of retrieval; queries must
// never be embedded in document mode or similarity degrades.
const (
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
)

const apiVersion = "v1beta"

// maxErrorBodyBytes caps how much of an error response is kept for the
// error message.
const maxErrorBodyBytes = 512

// Client calls the Generative Language REST API.
type Client struct {
	apiKey       string
	baseURL      string
	embedModel   string
	embedTimeout time.Duration
	// dimension is the expected vector length; responses with any other
	// length are rejected before they can poison the index.
	dimension  int
	httpClient *http.Client

	// queryCache holds query-mode embeddings; nil when disabled.
	queryCache *cache.LRUCache
}

// New creates a client from the embedding configuration. The query
// cache is sized by cfg.CacheSize (zero disables it).
func New(cfg *config.EmbeddingConfig) *Client {
	c := &Client{
		apiKey:       cfg.APIKey,
		baseURL:      strings.TrimSuffix(cfg.BaseURL, "/"),
		embedModel:   normalizeModel(cfg.Model),
		embedTimeout: cfg.Timeout,
		dimension:    cfg.Dimension,
		httpClient: &http.Client{
			// Outer bound only; per-call budgets come from contexts.
			Timeout: 60 * time.Second,
		},
	}

	if cfg.CacheSize > 0 {
		c.queryCache = cache.NewLRUCache(cfg.CacheSize, 24*time.Hour)
	}

	return c
}

// normalizeModel ensures the "models/" resource prefix the API expects.
func normalizeModel(model string) string {
	if strings.HasPrefix(model, "models/") {
		return model
	}
	return "models/" + model
}

// Wire types for the Generative Language API.

type contentPart struct {
	Text string `json:"text"`
}

type content struct {
	Parts []contentPart `json:"parts"`
}

type embedContentRequest struct {
	Model    string  `json:"model"`
	Content  content `json:"content"`
	TaskType string  `json:"taskType"`
}

type embeddingValues struct {
	Values []float32 `json:"values"`
}

type embedContentResponse struct {
	Embedding embeddingValues `json:"embedding"`
}

type batchEmbedRequest struct {
	Requests []embedContentRequest `json:"requests"`
}

type batchEmbedResponse struct {
	Embeddings []embeddingValues `json:"embeddings"`
}

type generationConfig struct {
	ResponseMIMEType string `json:"responseMimeType"`
}

type generateContentRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

type apiErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// EmbedQuery embeds search text in query mode. Identical texts hit the
// LRU cache and skip the API. The returned vector is shared with the
// cache; callers must not mutate it.
func (c *Client) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if c.queryCache != nil {
		if vec, ok := c.queryCache.Get(text); ok {
			metrics.RecordCacheHit("embedding")
			return vec, nil
		}
		metrics.RecordCacheMiss("embedding")
	}

	ctx, cancel := context.WithTimeout(ctx, c.embedTimeout)
	defer cancel()

	start := time.Now()
	vec, err := c.embedContent(ctx, text, TaskRetrievalQuery)
	metrics.RecordEmbedding("query", time.Since(start), err)
	if err != nil {
		return nil, err
	}

	if c.queryCache != nil {
		c.queryCache.Add(text, vec)
		_, _, size := c.queryCache.Stats()
		metrics.SetCacheSize("embedding", size)
	}

	return vec, nil
}

// EmbedDocuments embeds a batch of texts in document mode, preserving
// input order. No cache and no internal timeout: the ingestion job owns
// its own per-batch deadlines and retry budget.
func (c *Client) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	reqBody := batchEmbedRequest{
		Requests: make([]embedContentRequest, len(texts)),
	}
	for i, text := range texts {
		reqBody.Requests[i] = embedContentRequest{
			Model:    c.embedModel,
			Content:  content{Parts: []contentPart{{Text: text}}},
			TaskType: TaskRetrievalDocument,
		}
	}

	url := fmt.Sprintf("%s/%s/%s:batchEmbedContents", c.baseURL, apiVersion, c.embedModel)

	start := time.Now()
	var resp batchEmbedResponse
	err := c.post(ctx, url, reqBody, &resp)
	metrics.RecordEmbedding("document", time.Since(start), err)
	metrics.RecordEmbeddingBatch(len(texts))
	if err != nil {
		return nil, err
	}

	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("batch embedding returned %d vectors for %d texts", len(resp.Embeddings), len(texts))
	}

	vectors := make([][]float32, len(resp.Embeddings))
	for i, emb := range resp.Embeddings {
		if len(emb.Values) == 0 {
			return nil, fmt.Errorf("batch embedding %d is empty", i)
		}
		if c.dimension > 0 && len(emb.Values) != c.dimension {
			return nil, fmt.Errorf("batch embedding %d has %d dimensions, expected %d", i, len(emb.Values), c.dimension)
		}
		vectors[i] = emb.Values
	}

	return vectors, nil
}

// embedContent performs a single embedContent call.
func (c *Client) embedContent(ctx context.Context, text, taskType string) ([]float32, error) {
	reqBody := embedContentRequest{
		Model:    c.embedModel,
		Content:  content{Parts: []contentPart{{Text: text}}},
		TaskType: taskType,
	}

	url := fmt.Sprintf("%s/%s/%s:embedContent", c.baseURL, apiVersion, c.embedModel)

	var resp embedContentResponse
	if err := c.post(ctx, url, reqBody, &resp); err != nil {
		return nil, err
	}

	if len(resp.Embedding.Values) == 0 {
		return nil, fmt.Errorf("embedding response contained no values")
	}
	if c.dimension > 0 && len(resp.Embedding.Values) != c.dimension {
		return nil, fmt.Errorf("embedding has %d dimensions, expected %d", len(resp.Embedding.Values), c.dimension)
	}

	return resp.Embedding.Values, nil
}

// GenerateJSON asks the given generation model for a JSON response and
// returns the raw text of the first candidate. The caller owns the
// context deadline and all parsing; malformed model output is the
// caller's fallback case, not an error here.
func (c *Client) GenerateJSON(ctx context.Context, model, prompt string) (string, error) {
	reqBody := generateContentRequest{
		Contents: []content{
			{Parts: []contentPart{{Text: prompt}}},
		},
		GenerationConfig: generationConfig{
			ResponseMIMEType: "application/json",
		},
	}

	url := fmt.Sprintf("%s/%s/%s:generateContent", c.baseURL, apiVersion, normalizeModel(model))

	var resp generateContentResponse
	if err := c.post(ctx, url, reqBody, &resp); err != nil {
		return "", err
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("generation response contained no candidates")
	}

	return resp.Candidates[0].Content.Parts[0].Text, nil
}

// post sends a JSON request and decodes a JSON response. API errors are
// surfaced with the server's message when one is present.
func (c *Client) post(ctx context.Context, url string, reqBody, respBody interface{}) error {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	// Header auth keeps the key out of URLs and request logs.
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("api call: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return decodeAPIError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(respBody); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

// decodeAPIError turns a non-200 response into an error, preferring the
// structured message the API returns.
func decodeAPIError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))

	var apiErr apiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		logging.Debug().
			Int("status", resp.StatusCode).
			Str("api_status", apiErr.Error.Status).
			Msg("Generative Language API error")
		return fmt.Errorf("api error %d: %s", resp.StatusCode, apiErr.Error.Message)
	}

	return fmt.Errorf("api error %d: %s", resp.StatusCode, string(body))
}
