// ScreenScout - Semantic Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/screenscout

package recommend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/screenscout/internal/config"
	"github.com/tomtom215/screenscout/internal/metrics"
)

// Generator produces model output for a prompt. The response is
// expected to be a JSON document; *gemini.Client implements this.
type Generator interface {
	GenerateJSON(ctx context.Context, model, prompt string) (string, error)
}

// Oracle asks a generative model to curate the candidate list. Its
// output is untrusted: any call failure, timeout or schema violation
// falls back to the first R candidates in similarity order, so ranking
// can never fail a request.
type Oracle struct {
	gen       Generator
	model     string
	timeout   time.Duration
	pickCount int

	logger zerolog.Logger
}

// NewOracle builds the ranking stage around an injected generator.
func NewOracle(gen Generator, cfg *config.OracleConfig, logger zerolog.Logger) *Oracle {
	return &Oracle{
		gen:       gen,
		model:     cfg.Model,
		timeout:   cfg.Timeout,
		pickCount: cfg.RerankCount,
		logger:    logger.With().Str("component", "oracle").Logger(),
	}
}

// Rank picks up to R candidate ids and the reasoning to attach. It
// never returns an error. A structurally valid response with an empty
// selection keeps the model's reasoning but substitutes the
// deterministic pick; everything else falls back wholesale.
func (o *Oracle) Rank(ctx context.Context, query string, likedTitles []string, candidates []Candidate) Decision {
	if len(candidates) == 0 {
		o.logger.Debug().Msg("No candidates to rank, skipping oracle call")
		return o.fallback(candidates)
	}

	prompt := buildPrompt(query, likedTitles, candidates, o.pickCount)

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	raw, err := o.gen.GenerateJSON(ctx, o.model, prompt)
	if err != nil {
		o.logger.Warn().Err(err).Msg("Oracle call failed, using similarity fallback")
		metrics.RecordOracleCall(0, "call_error")
		return o.fallback(candidates)
	}

	decision, err := parseDecision(raw)
	if err != nil {
		o.logger.Warn().Err(err).Str("model", o.model).Msg("Oracle output rejected, using similarity fallback")
		metrics.RecordOracleCall(0, "invalid_output")
		return o.fallback(candidates)
	}

	if len(decision.SelectedIDs) == 0 {
		// Valid response, nothing picked. Keep whatever reasoning the
		// model gave and substitute the deterministic selection.
		o.logger.Debug().Msg("Oracle picked nothing, substituting similarity order")
		metrics.RecordOracleCall(0, "empty_selection")
		decision.SelectedIDs = topIDs(candidates, o.pickCount)
		return decision
	}

	metrics.RecordOracleCall(len(decision.SelectedIDs), "")
	return decision
}

// fallback is the deterministic selection: the first R filtered
// candidates in similarity order, one fixed generic explanation.
func (o *Oracle) fallback(candidates []Candidate) Decision {
	return Decision{
		SelectedIDs: topIDs(candidates, o.pickCount),
		Reasoning:   UniformReasoning(fallbackReasoning),
	}
}

func topIDs(candidates []Candidate, n int) []string {
	if n > len(candidates) {
		n = len(candidates)
	}
	ids := make([]string, 0, n)
	for _, c := range candidates[:n] {
		ids = append(ids, c.ID)
	}
	return ids
}

// buildPrompt renders the re-ranking prompt. The user's original query
// is quoted verbatim, not the augmented embedding text, so the model
// judges relevance against what the user actually typed.
func buildPrompt(query string, likedTitles []string, candidates []Candidate, pickCount int) string {
	var context strings.Builder
	for _, c := range candidates {
		fmt.Fprintf(&context, "ID: %s | Title: %s | Overview: %s\n", c.ID, c.Title, c.Overview)
	}

	return fmt.Sprintf(`User Query: "%s"
User Likes: %s

Candidates:
%s
Pick top %d. Return JSON:
{
    "reasoning": "Short explanation" or {"<movie_id>": "why this one"},
    "movie_ids": ["id1", "id2"]
}`, query, strings.Join(likedTitles, ", "), context.String(), pickCount)
}

// parseDecision validates the model's JSON against the requested shape.
// The payload is untrusted, so every field is checked by hand: the top
// level must be an object, movie_ids entries must be strings or
// numbers, reasoning must be a string or a string-valued object. Any
// violation rejects the whole response; there is no partial salvage.
func parseDecision(raw string) (Decision, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return Decision{}, fmt.Errorf("decode oracle output: %w", err)
	}
	if fields == nil {
		return Decision{}, errors.New("oracle output is not a JSON object")
	}

	ids, err := parseMovieIDs(fields["movie_ids"])
	if err != nil {
		return Decision{}, err
	}
	reasoning, err := parseReasoning(fields["reasoning"])
	if err != nil {
		return Decision{}, err
	}

	return Decision{SelectedIDs: ids, Reasoning: reasoning}, nil
}

// parseMovieIDs accepts an array of strings and numbers. Numbers keep
// their literal rendering ("603", not "603.0") because catalog ids are
// opaque strings that happen to look numeric. A missing or null field
// reads as an empty selection; any other entry type is a violation.
func parseMovieIDs(raw json.RawMessage) ([]string, error) {
	if raw == nil {
		return nil, nil
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("movie_ids is not an array: %w", err)
	}

	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		token := bytes.TrimSpace(entry)
		if len(token) == 0 {
			return nil, errors.New("movie_ids contains an empty entry")
		}
		switch {
		case token[0] == '"':
			var id string
			if err := json.Unmarshal(token, &id); err != nil {
				return nil, fmt.Errorf("decode movie_ids entry: %w", err)
			}
			ids = append(ids, id)
		case token[0] == '-' || (token[0] >= '0' && token[0] <= '9'):
			var id json.Number
			if err := json.Unmarshal(token, &id); err != nil {
				return nil, fmt.Errorf("decode movie_ids entry: %w", err)
			}
			ids = append(ids, id.String())
		default:
			return nil, fmt.Errorf("movie_ids entry %s is neither string nor number", token)
		}
	}
	return ids, nil
}

// parseReasoning accepts a string, a string-valued object, or nothing.
// A missing field means the model offered no reasoning, which is valid;
// null or any other type is a violation.
func parseReasoning(raw json.RawMessage) (Reasoning, error) {
	if raw == nil {
		return Reasoning{}, nil
	}

	token := bytes.TrimSpace(raw)
	if len(token) == 0 {
		return Reasoning{}, errors.New("reasoning is empty")
	}

	switch token[0] {
	case '"':
		var text string
		if err := json.Unmarshal(token, &text); err != nil {
			return Reasoning{}, fmt.Errorf("decode reasoning: %w", err)
		}
		return UniformReasoning(text), nil
	case '{':
		var rawItems map[string]json.RawMessage
		if err := json.Unmarshal(token, &rawItems); err != nil {
			return Reasoning{}, fmt.Errorf("decode reasoning object: %w", err)
		}
		items := make(map[string]string, len(rawItems))
		for id, value := range rawItems {
			v := bytes.TrimSpace(value)
			if len(v) == 0 || v[0] != '"' {
				return Reasoning{}, fmt.Errorf("reasoning for %q is not a string", id)
			}
			var text string
			if err := json.Unmarshal(v, &text); err != nil {
				return Reasoning{}, fmt.Errorf("decode reasoning for %q: %w", id, err)
			}
			items[id] = text
		}
		return PerItemReasoning(items), nil
	default:
		return Reasoning{}, errors.New("reasoning is neither string nor object")
	}
}
