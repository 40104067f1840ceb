// ScreenScout - Semantic Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/screenscout

// Package omdb enriches recommendations with year, IMDB rating and poster
// data from the OMDB API. The free tier allows 1000 requests per day, so
// every lookup goes through an outbound rate limit, a circuit breaker and
// a two-tier cache (in-process TTL cache, optional shared Redis tier).
package omdb

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/screenscout/internal/cache"
	"github.com/tomtom215/screenscout/internal/config"
	"github.com/tomtom215/screenscout/internal/logging"
	"github.com/tomtom215/screenscout/internal/metrics"
)

const breakerName = "omdb-api"

// Fields holds the enrichment data for one movie. Empty string means the
// source had no value; OMDB's "N/A" sentinel is normalized to empty here
// so callers never see it.
type Fields struct {
	Year       string `json:"year,omitempty"`
	IMDBRating string `json:"imdb_rating,omitempty"`
	Poster     string `json:"poster,omitempty"`
}

// lookupResult separates "title not found" from transport failures so the
// circuit breaker only counts the latter against the API.
type lookupResult struct {
	fields Fields
	found  bool
}

type omdbResponse struct {
	Title      string `json:"Title"`
	Year       string `json:"Year"`
	IMDBRating string `json:"imdbRating"`
	Poster     string `json:"Poster"`
	Response   string `json:"Response"`
	Error      string `json:"Error"`
}

// Client looks up movie metadata on OMDB.
//
// The circuit breaker uses real time (via sony/gobreaker) for its interval
// and timeout calculations. Tests should point the client at a stub server
// rather than trying to control the breaker clock.
type Client struct {
	apiKey     string
	baseURL    string
	timeout    time.Duration
	cacheTTL   time.Duration
	httpClient *http.Client
	limiter    *rate.Limiter
	cb         *gobreaker.CircuitBreaker[lookupResult]
	memory     *cache.Cache
	redis      *redis.Client
}

// New creates an OMDB client. An empty API key yields a disabled client
// whose lookups return empty fields without any network traffic.
//
// When cfg.RedisURL is set the shared cache tier is probed once; an
// unreachable Redis logs a warning and the client degrades to the
// in-process cache only.
func New(cfg *config.EnrichmentConfig) *Client {
	burst := cfg.MaxConcurrent
	if burst < 1 {
		burst = 1
	}

	c := &Client{
		apiKey:   cfg.APIKey,
		baseURL:  strings.TrimSuffix(cfg.BaseURL, "/"),
		timeout:  cfg.Timeout,
		cacheTTL: cfg.CacheTTL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), burst),
		memory:  cache.New(cfg.CacheTTL),
		cb:      newBreaker(),
		redis:   connectRedis(cfg.RedisURL),
	}

	return c
}

// newBreaker configures the OMDB circuit breaker:
// opens after a 60% failure rate with at least 10 requests in a 1 minute
// window, waits 2 minutes before probing with up to 3 half-open requests.
func newBreaker() *gobreaker.CircuitBreaker[lookupResult] {
	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)

	return gobreaker.NewCircuitBreaker[lookupResult](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			if failureRatio >= 0.6 {
				logging.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("[CIRCUIT BREAKER] Opening OMDB circuit")
				return true
			}
			return false
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)
			logging.Info().Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")
			metrics.RecordBreakerTransition(name, fromStr, toStr, stateToFloat(to))
		},
	})
}

// connectRedis builds and probes the optional shared cache tier.
func connectRedis(redisURL string) *redis.Client {
	if redisURL == "" {
		return nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		logging.Warn().Err(err).Msg("Invalid Redis URL, enrichment cache is memory-only")
		return nil
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logging.Warn().Err(err).Str("addr", opts.Addr).Msg("Redis unreachable, enrichment cache is memory-only")
		_ = client.Close()
		return nil
	}

	logging.Info().Str("addr", opts.Addr).Msg("Redis enrichment cache tier connected")
	return client
}

// Enabled reports whether lookups will reach OMDB at all.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

// RedisEnabled reports whether the shared cache tier survived the startup
// probe. Readiness checks include Redis only when this is true.
func (c *Client) RedisEnabled() bool {
	return c.redis != nil
}

// PingRedis verifies the shared cache tier. Nil when the tier is inactive.
func (c *Client) PingRedis(ctx context.Context) error {
	if c.redis == nil {
		return nil
	}
	return c.redis.Ping(ctx).Err()
}

// Close releases the Redis connection if one is active.
func (c *Client) Close() error {
	if c.redis == nil {
		return nil
	}
	return c.redis.Close()
}

// Lookup fetches enrichment fields for a title. A missing title is not an
// error: it returns empty Fields so the movie ships without year or rating.
// Results, including not-found ones, are cached by normalized title; cache
// hits bypass the limiter, the breaker and the network.
func (c *Client) Lookup(ctx context.Context, title string) (Fields, error) {
	start := time.Now()

	title = strings.TrimSpace(title)
	if !c.Enabled() || title == "" {
		metrics.RecordEnrichment("skipped", time.Since(start))
		return Fields{}, nil
	}

	key := cacheKey(title)
	if fields, ok := c.fromCache(ctx, key); ok {
		metrics.RecordEnrichment("cache_hit", time.Since(start))
		return fields, nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		metrics.RecordEnrichment("error", time.Since(start))
		return Fields{}, fmt.Errorf("rate limit wait: %w", err)
	}

	result, err := c.execute(func() (lookupResult, error) {
		return c.fetch(ctx, title)
	})
	if err != nil {
		metrics.RecordEnrichment("error", time.Since(start))
		return Fields{}, err
	}

	c.store(ctx, key, result.fields)

	if result.found {
		metrics.RecordEnrichment("success", time.Since(start))
	} else {
		metrics.RecordEnrichment("not_found", time.Since(start))
	}
	return result.fields, nil
}

// execute wraps one OMDB call with circuit breaker protection.
func (c *Client) execute(fn func() (lookupResult, error)) (lookupResult, error) {
	result, err := c.cb.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.RecordBreakerRequest(breakerName, "rejected")
			logging.Warn().Err(err).Msg("[CIRCUIT BREAKER] OMDB request rejected")
		} else {
			metrics.RecordBreakerRequest(breakerName, "failure")
		}
		return lookupResult{}, err
	}

	metrics.RecordBreakerRequest(breakerName, "success")
	return result, nil
}

func (c *Client) fetch(ctx context.Context, title string) (lookupResult, error) {
	params := url.Values{}
	params.Set("t", title)
	params.Set("apikey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/?"+params.Encode(), nil)
	if err != nil {
		return lookupResult{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return lookupResult{}, fmt.Errorf("omdb call: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return lookupResult{}, fmt.Errorf("omdb status %d", resp.StatusCode)
	}

	var body omdbResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return lookupResult{}, fmt.Errorf("decode response: %w", err)
	}

	if body.Response != "True" {
		return lookupResult{found: false}, nil
	}

	return lookupResult{
		found: true,
		fields: Fields{
			Year:       naToEmpty(body.Year),
			IMDBRating: naToEmpty(body.IMDBRating),
			Poster:     naToEmpty(body.Poster),
		},
	}, nil
}

// fromCache checks the in-process tier, then Redis. A Redis hit is
// promoted into the in-process tier. Redis failures count as misses so a
// flaky tier never breaks a lookup.
func (c *Client) fromCache(ctx context.Context, key string) (Fields, bool) {
	if v, ok := c.memory.Get(key); ok {
		if fields, ok := v.(Fields); ok {
			metrics.RecordCacheHit("omdb")
			return fields, true
		}
	}
	metrics.RecordCacheMiss("omdb")

	if c.redis == nil {
		return Fields{}, false
	}

	data, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logging.Debug().Err(err).Msg("Redis read failed, treating as miss")
		}
		metrics.RecordCacheMiss("omdb_redis")
		return Fields{}, false
	}

	var fields Fields
	if err := json.Unmarshal(data, &fields); err != nil {
		metrics.RecordCacheMiss("omdb_redis")
		return Fields{}, false
	}

	metrics.RecordCacheHit("omdb_redis")
	c.memory.Set(key, fields)
	return fields, true
}

func (c *Client) store(ctx context.Context, key string, fields Fields) {
	c.memory.Set(key, fields)

	if c.redis == nil {
		return
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, key, data, c.cacheTTL).Err(); err != nil {
		logging.Debug().Err(err).Msg("Redis write failed")
	}
}

func cacheKey(title string) string {
	return cache.GenerateKey("omdb", strings.ToLower(title))
}

// naToEmpty maps OMDB's "N/A" placeholder to an absent value.
func naToEmpty(s string) string {
	if s == "N/A" {
		return ""
	}
	return s
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
