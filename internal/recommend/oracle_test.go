// ScreenScout - Semantic Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/screenscout

package recommend

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/screenscout/internal/config"
)

type mockGenerator struct {
	output    string
	err       error
	calls     int
	gotModel  string
	gotPrompt string
}

func (m *mockGenerator) GenerateJSON(_ context.Context, model, prompt string) (string, error) {
	m.calls++
	m.gotModel = model
	m.gotPrompt = prompt
	if m.err != nil {
		return "", m.err
	}
	return m.output, nil
}

func newTestOracle(gen Generator) *Oracle {
	cfg := &config.OracleConfig{
		Model:       "gemini-2.0-flash",
		Timeout:     time.Second,
		RerankCount: 3,
		ContextSize: 50,
	}
	return NewOracle(gen, cfg, zerolog.Nop())
}

func rankCandidates() []Candidate {
	return []Candidate{
		{ID: "m1", Title: "Movie One", Overview: "First.", Score: 0.95},
		{ID: "m2", Title: "Movie Two", Overview: "Second.", Score: 0.90},
		{ID: "m3", Title: "Movie Three", Overview: "Third.", Score: 0.85},
		{ID: "m4", Title: "Movie Four", Overview: "Fourth.", Score: 0.80},
	}
}

func TestOracleRankHonorsSelection(t *testing.T) {
	gen := &mockGenerator{output: `{"reasoning": "Close matches.", "movie_ids": ["m3", "m1"]}`}
	oracle := newTestOracle(gen)

	decision := oracle.Rank(context.Background(), "space opera", nil, rankCandidates())

	if !equalIDs(decision.SelectedIDs, []string{"m3", "m1"}) {
		t.Errorf("SelectedIDs = %v, want [m3 m1]", decision.SelectedIDs)
	}
	text, ok := decision.Reasoning.Global()
	if !ok || text != "Close matches." {
		t.Errorf("Global() = %q, %v, want Close matches., true", text, ok)
	}
	if gen.gotModel != "gemini-2.0-flash" {
		t.Errorf("model = %q, want gemini-2.0-flash", gen.gotModel)
	}
}

func TestOracleRankNumericIDs(t *testing.T) {
	gen := &mockGenerator{output: `{"reasoning": "ok", "movie_ids": [603, "604", 6.5]}`}
	oracle := newTestOracle(gen)

	decision := oracle.Rank(context.Background(), "q", nil, rankCandidates())

	if !equalIDs(decision.SelectedIDs, []string{"603", "604", "6.5"}) {
		t.Errorf("SelectedIDs = %v, want literal renderings [603 604 6.5]", decision.SelectedIDs)
	}
}

func TestOracleRankFallbackOnCallError(t *testing.T) {
	gen := &mockGenerator{err: errors.New("deadline exceeded")}
	oracle := newTestOracle(gen)

	decision := oracle.Rank(context.Background(), "q", nil, rankCandidates())

	if !equalIDs(decision.SelectedIDs, []string{"m1", "m2", "m3"}) {
		t.Errorf("SelectedIDs = %v, want first three in similarity order", decision.SelectedIDs)
	}
	text, ok := decision.Reasoning.Global()
	if !ok || text != "Here are the most relevant movies from our database." {
		t.Errorf("Global() = %q, want the fixed fallback sentence", text)
	}
}

func TestOracleRankFallbackOnBadOutput(t *testing.T) {
	tests := []struct {
		name   string
		output string
	}{
		{name: "not json", output: "here are my picks: m1, m2"},
		{name: "top level array", output: `["m1", "m2"]`},
		{name: "top level string", output: `"m1"`},
		{name: "top level null", output: `null`},
		{name: "movie_ids not an array", output: `{"movie_ids": "m1"}`},
		{name: "movie_ids entry boolean", output: `{"movie_ids": [true]}`},
		{name: "movie_ids entry null", output: `{"movie_ids": [null]}`},
		{name: "movie_ids entry object", output: `{"movie_ids": [{"id": "m1"}]}`},
		{name: "reasoning null", output: `{"reasoning": null, "movie_ids": ["m1"]}`},
		{name: "reasoning number", output: `{"reasoning": 7, "movie_ids": ["m1"]}`},
		{name: "reasoning object with non-string value", output: `{"reasoning": {"m1": 5}, "movie_ids": ["m1"]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &mockGenerator{output: tt.output}
			oracle := newTestOracle(gen)

			decision := oracle.Rank(context.Background(), "q", nil, rankCandidates())

			if !equalIDs(decision.SelectedIDs, []string{"m1", "m2", "m3"}) {
				t.Errorf("SelectedIDs = %v, want similarity fallback", decision.SelectedIDs)
			}
			text, _ := decision.Reasoning.Global()
			if text != "Here are the most relevant movies from our database." {
				t.Errorf("Global() = %q, want the fixed fallback sentence", text)
			}
		})
	}
}

func TestOracleRankEmptySelectionKeepsReasoning(t *testing.T) {
	gen := &mockGenerator{output: `{"reasoning": "Nothing fit well.", "movie_ids": []}`}
	oracle := newTestOracle(gen)

	decision := oracle.Rank(context.Background(), "q", nil, rankCandidates())

	if !equalIDs(decision.SelectedIDs, []string{"m1", "m2", "m3"}) {
		t.Errorf("SelectedIDs = %v, want substituted similarity pick", decision.SelectedIDs)
	}
	text, ok := decision.Reasoning.Global()
	if !ok || text != "Nothing fit well." {
		t.Errorf("Global() = %q, want the model's own reasoning kept", text)
	}
}

func TestOracleRankNullMovieIDsBehavesLikeEmpty(t *testing.T) {
	gen := &mockGenerator{output: `{"reasoning": "Hmm.", "movie_ids": null}`}
	oracle := newTestOracle(gen)

	decision := oracle.Rank(context.Background(), "q", nil, rankCandidates())

	if !equalIDs(decision.SelectedIDs, []string{"m1", "m2", "m3"}) {
		t.Errorf("SelectedIDs = %v, want substituted similarity pick", decision.SelectedIDs)
	}
	text, _ := decision.Reasoning.Global()
	if text != "Hmm." {
		t.Errorf("Global() = %q, want Hmm.", text)
	}
}

func TestOracleRankMissingReasoning(t *testing.T) {
	gen := &mockGenerator{output: `{"movie_ids": ["m2"]}`}
	oracle := newTestOracle(gen)

	decision := oracle.Rank(context.Background(), "q", nil, rankCandidates())

	if !equalIDs(decision.SelectedIDs, []string{"m2"}) {
		t.Errorf("SelectedIDs = %v, want [m2]", decision.SelectedIDs)
	}
	if _, ok := decision.Reasoning.Global(); ok {
		t.Error("Global() ok = true, want no reasoning at all")
	}
	if got := decision.Reasoning.For("m2"); got != "" {
		t.Errorf("For(m2) = %q, want empty", got)
	}
}

func TestOracleRankPerItemReasoning(t *testing.T) {
	gen := &mockGenerator{output: `{"reasoning": {"m2": "tight pacing"}, "movie_ids": ["m2", "m4"]}`}
	oracle := newTestOracle(gen)

	decision := oracle.Rank(context.Background(), "q", nil, rankCandidates())

	if !equalIDs(decision.SelectedIDs, []string{"m2", "m4"}) {
		t.Errorf("SelectedIDs = %v, want [m2 m4]", decision.SelectedIDs)
	}
	if got := decision.Reasoning.For("m2"); got != "tight pacing" {
		t.Errorf("For(m2) = %q, want tight pacing", got)
	}
	if got := decision.Reasoning.For("m4"); got != "Recommended based on your preferences." {
		t.Errorf("For(m4) = %q, want the per-item default", got)
	}
	text, ok := decision.Reasoning.Global()
	if !ok || text != "Here are the most relevant movies from our database." {
		t.Errorf("Global() = %q, want the fixed generic sentence", text)
	}
}

func TestOracleRankSkipsCallWithoutCandidates(t *testing.T) {
	gen := &mockGenerator{output: `{"movie_ids": ["m1"]}`}
	oracle := newTestOracle(gen)

	decision := oracle.Rank(context.Background(), "q", nil, nil)

	if gen.calls != 0 {
		t.Errorf("generator calls = %d, want 0", gen.calls)
	}
	if len(decision.SelectedIDs) != 0 {
		t.Errorf("SelectedIDs = %v, want empty", decision.SelectedIDs)
	}
}

func TestOracleRankFallbackShorterThanR(t *testing.T) {
	gen := &mockGenerator{err: errors.New("boom")}
	oracle := newTestOracle(gen)

	decision := oracle.Rank(context.Background(), "q", nil, rankCandidates()[:2])

	if !equalIDs(decision.SelectedIDs, []string{"m1", "m2"}) {
		t.Errorf("SelectedIDs = %v, want all available candidates", decision.SelectedIDs)
	}
}

func TestBuildPrompt(t *testing.T) {
	candidates := []Candidate{
		{ID: "1", Title: "Star Wars", Overview: "Epic."},
		{ID: "2", Title: "Solaris", Overview: "Moody."},
	}

	got := buildPrompt("space opera", []string{"Dune", "Alien"}, candidates, 2)

	want := `User Query: "space opera"
User Likes: Dune, Alien

Candidates:
ID: 1 | Title: Star Wars | Overview: Epic.
ID: 2 | Title: Solaris | Overview: Moody.

Pick top 2. Return JSON:
{
    "reasoning": "Short explanation" or {"<movie_id>": "why this one"},
    "movie_ids": ["id1", "id2"]
}`
	if got != want {
		t.Errorf("buildPrompt() =\n%s\nwant\n%s", got, want)
	}
}

func TestBuildPromptQuotesOriginalQuery(t *testing.T) {
	gen := &mockGenerator{output: `{"movie_ids": ["m1"]}`}
	oracle := newTestOracle(gen)

	oracle.Rank(context.Background(), "gritty noir", []string{"Se7en"}, rankCandidates())

	if !strings.Contains(gen.gotPrompt, `User Query: "gritty noir"`) {
		t.Errorf("prompt does not quote the original query:\n%s", gen.gotPrompt)
	}
	if !strings.Contains(gen.gotPrompt, "User Likes: Se7en") {
		t.Errorf("prompt does not list liked titles:\n%s", gen.gotPrompt)
	}
}
