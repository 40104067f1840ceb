// ScreenScout - Semantic Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/screenscout

package recommend

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/screenscout/internal/omdb"
)

type mockEnricher struct {
	fields  map[string]omdb.Fields
	failFor map[string]bool

	mu       sync.Mutex
	ctxErrs  []error
	inflight atomic.Int32
	maxSeen  atomic.Int32
}

func (m *mockEnricher) Lookup(ctx context.Context, title string) (omdb.Fields, error) {
	cur := m.inflight.Add(1)
	defer m.inflight.Add(-1)
	for {
		seen := m.maxSeen.Load()
		if cur <= seen || m.maxSeen.CompareAndSwap(seen, cur) {
			break
		}
	}
	time.Sleep(2 * time.Millisecond)

	m.mu.Lock()
	m.ctxErrs = append(m.ctxErrs, ctx.Err())
	m.mu.Unlock()

	if m.failFor[title] {
		return omdb.Fields{}, errors.New("lookup failed")
	}
	return m.fields[title], nil
}

func newEnrichEngine(enricher MetadataSource, maxConcurrent int, detach bool) *Engine {
	return &Engine{
		enricher:         enricher,
		maxConcurrent:    maxConcurrent,
		detachEnrichment: detach,
		logger:           zerolog.Nop(),
	}
}

func TestEnrichAllKeysByID(t *testing.T) {
	enricher := &mockEnricher{fields: map[string]omdb.Fields{
		"Inception":    {Year: "2010", IMDBRating: "8.8"},
		"Interstellar": {Year: "2014", IMDBRating: "8.7"},
	}}
	engine := newEnrichEngine(enricher, 4, false)

	selected := []Candidate{
		{ID: "a", Title: "Inception"},
		{ID: "b", Title: "Interstellar"},
	}
	got := engine.enrichAll(context.Background(), selected)

	if got["a"].Year != "2010" || got["a"].Rating != "8.8" {
		t.Errorf("enrichAll()[a] = %+v, want 2010/8.8", got["a"])
	}
	if got["b"].Year != "2014" || got["b"].Rating != "8.7" {
		t.Errorf("enrichAll()[b] = %+v, want 2014/8.7", got["b"])
	}
}

func TestEnrichAllIsolatesFailures(t *testing.T) {
	enricher := &mockEnricher{
		fields: map[string]omdb.Fields{
			"Alpha": {Year: "2001"},
			"Gamma": {Year: "2003"},
		},
		failFor: map[string]bool{"Beta": true},
	}
	engine := newEnrichEngine(enricher, 4, false)

	selected := []Candidate{
		{ID: "1", Title: "Alpha"},
		{ID: "2", Title: "Beta"},
		{ID: "3", Title: "Gamma"},
	}
	got := engine.enrichAll(context.Background(), selected)

	if got["1"].Year != "2001" {
		t.Errorf("enrichAll()[1].Year = %q, want 2001", got["1"].Year)
	}
	if got["2"] != (EnrichedFields{}) {
		t.Errorf("enrichAll()[2] = %+v, want zero fields after failure", got["2"])
	}
	if got["3"].Year != "2003" {
		t.Errorf("enrichAll()[3].Year = %q, want 2003", got["3"].Year)
	}
}

func TestEnrichAllBoundsConcurrency(t *testing.T) {
	enricher := &mockEnricher{}
	engine := newEnrichEngine(enricher, 2, false)

	selected := make([]Candidate, 0, 8)
	for i := 0; i < 8; i++ {
		selected = append(selected, Candidate{ID: string(rune('a' + i)), Title: "Movie"})
	}
	engine.enrichAll(context.Background(), selected)

	if seen := enricher.maxSeen.Load(); seen > 2 {
		t.Errorf("observed %d concurrent lookups, limit is 2", seen)
	}
}

func TestEnrichAllDetachesFromCanceledRequest(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	enricher := &mockEnricher{}
	engine := newEnrichEngine(enricher, 2, true)

	engine.enrichAll(ctx, []Candidate{{ID: "a", Title: "Movie"}})

	enricher.mu.Lock()
	defer enricher.mu.Unlock()
	if len(enricher.ctxErrs) != 1 {
		t.Fatalf("lookups = %d, want 1", len(enricher.ctxErrs))
	}
	if enricher.ctxErrs[0] != nil {
		t.Errorf("lookup context error = %v, want nil after detach", enricher.ctxErrs[0])
	}
}

func TestEnrichAllHonorsCancelWhenAttached(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	enricher := &mockEnricher{}
	engine := newEnrichEngine(enricher, 2, false)

	engine.enrichAll(ctx, []Candidate{{ID: "a", Title: "Movie"}})

	enricher.mu.Lock()
	defer enricher.mu.Unlock()
	if len(enricher.ctxErrs) != 1 {
		t.Fatalf("lookups = %d, want 1", len(enricher.ctxErrs))
	}
	if !errors.Is(enricher.ctxErrs[0], context.Canceled) {
		t.Errorf("lookup context error = %v, want context.Canceled", enricher.ctxErrs[0])
	}
}

func TestEnrichAllEmptySelection(t *testing.T) {
	engine := newEnrichEngine(&mockEnricher{}, 2, false)

	got := engine.enrichAll(context.Background(), nil)
	if got == nil {
		t.Fatal("enrichAll() = nil, want empty map")
	}
	if len(got) != 0 {
		t.Errorf("enrichAll() has %d entries, want 0", len(got))
	}
}
