// ScreenScout - Semantic Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/screenscout

/*
Package cache provides thread-safe in-memory caching for the two hot
paths of the recommendation pipeline: embedding lookups and enrichment
lookups.

# Overview

Two implementations with different eviction policies:

  - Cache: TTL-based, unbounded. Entries expire after a configurable
    duration, checked lazily on Get and swept by a background loop.
  - LRUCache: capacity-bounded with TTL, storing embedding vectors.
    O(1) Get/Add/eviction via a doubly-linked list plus hashmap.

# Use Cases

Primary use cases:
  - OMDB enrichment responses (Cache, 24-hour TTL): ratings and poster
    data for a title change rarely, and the free API tier is limited to
    1000 requests per day.
  - Query embeddings (LRUCache, capacity from embedding.cache_size):
    embeddings are deterministic per model and input, so repeated or
    popular queries skip the embedding API entirely.

The enrichment tier optionally sits in front of a shared Redis tier
(see internal/omdb); this package is the always-on in-process layer.

# Usage Example

Enrichment caching:

	c := cache.New(24 * time.Hour)

	key := cache.GenerateKey("omdb", lookupParams{Title: title})
	if cached, ok := c.Get(key); ok {
	    return cached.(*Enrichment), nil
	}

	enrichment, err := client.Lookup(ctx, title)
	if err != nil {
	    return nil, err
	}
	c.Set(key, enrichment)

Embedding caching:

	lru := cache.NewLRUCache(cfg.Embedding.CacheSize, 24*time.Hour)

	if vec, ok := lru.Get(queryKey); ok {
	    return vec, nil
	}
	vec, err := client.EmbedQuery(ctx, query)
	if err != nil {
	    return nil, err
	}
	lru.Add(queryKey, vec)

# Cache Keys

GenerateKey builds deterministic keys by hashing JSON-marshaled
parameters, so structurally equal params always map to the same key:

	omdb:9f86d081884c7d65...    // OMDB lookup for a title
	embed:query:a591a6d40bf4... // query embedding

# Thread Safety

All methods on both caches are safe for concurrent use. Cache uses
sync.RWMutex with separate stats locking; LRUCache serializes list
mutation under a single mutex (Get mutates recency order, so it takes
the write lock).

# Limitations

  - Cache has no size bound; it relies on TTL expiry and the cleanup
    loop. Enrichment entries are small (a few hundred bytes) and keyed
    by catalog titles, so growth is bounded by catalog size in practice.
  - Neither cache persists across restarts. The optional Redis tier in
    internal/omdb covers cross-process reuse.

# See Also

  - internal/omdb: enrichment client layering Cache under Redis
  - internal/gemini: embedding client using LRUCache
*/
package cache
