// ScreenScout - Semantic Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/screenscout

package recommend

// Canonical user-facing strings. Clients and tests match these
// verbatim; do not reword them without a contract version bump.
const (
	// fallbackReasoning replaces oracle output when the ranking call
	// fails or returns nothing usable, and serves as the response-level
	// explanation when reasoning is per-movie.
	fallbackReasoning = "Here are the most relevant movies from our database."

	// defaultItemReasoning fills per-movie reasoning for ids the
	// oracle's mapping does not cover.
	defaultItemReasoning = "Recommended based on your preferences."

	// noMatchesMessage is returned when the index has nothing at all
	// for the query vector.
	noMatchesMessage = "I couldn't find any matches. Try a broader search."
)

// Reasoning is the oracle's justification in one of its two shapes: a
// single string for the whole selection, or a per-movie-id mapping.
// The zero value means the oracle supplied no reasoning at all; the
// response-level explanation is then null and items carry none.
type Reasoning struct {
	uniform string
	perItem map[string]string
	present bool
}

// UniformReasoning applies one explanation to every selected movie.
func UniformReasoning(text string) Reasoning {
	return Reasoning{uniform: text, present: true}
}

// PerItemReasoning attaches explanations keyed by movie id.
func PerItemReasoning(items map[string]string) Reasoning {
	return Reasoning{perItem: items, present: true}
}

// For returns the reasoning text to attach to one movie. Per-movie
// gaps, including mapped-but-empty entries, get the fixed default.
func (r Reasoning) For(id string) string {
	if !r.present {
		return ""
	}
	if r.perItem != nil {
		if text, ok := r.perItem[id]; ok && text != "" {
			return text
		}
		return defaultItemReasoning
	}
	return r.uniform
}

// Global returns the response-level explanation and whether one exists.
// Uniform reasoning is its own explanation; per-movie reasoning gets
// the fixed generic sentence since no single string covers it.
func (r Reasoning) Global() (string, bool) {
	if !r.present {
		return "", false
	}
	if r.perItem != nil {
		return fallbackReasoning, true
	}
	return r.uniform, true
}
