// ScreenScout - Semantic Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/screenscout

package recommend

import (
	"github.com/tomtom215/screenscout/internal/vector"
)

// Candidate is one movie retrieved from the vector index, carried
// through filtering, ranking and assembly. Score is the index's
// similarity value and is never recomputed downstream.
type Candidate struct {
	ID        string
	Title     string
	Overview  string
	RawPoster string
	Score     float64
}

// newCandidate maps an index match into the pipeline's shape. Title,
// overview and poster reference live in the match metadata, written by
// the ingestion job. Older index entries may carry the poster under
// poster_url instead of poster_path.
func newCandidate(m vector.Match) Candidate {
	poster := m.Metadata["poster_path"]
	if poster == "" {
		poster = m.Metadata["poster_url"]
	}
	return Candidate{
		ID:        m.ID,
		Title:     m.Metadata["title"],
		Overview:  m.Metadata["overview"],
		RawPoster: poster,
		Score:     m.Score,
	}
}

// Decision is the outcome of the ranking stage: which candidate ids to
// keep plus the reasoning to attach. Selection order is not meaningful;
// assembly restores vector-similarity order by membership.
type Decision struct {
	SelectedIDs []string
	Reasoning   Reasoning
}

// EnrichedFields holds per-movie secondary metadata. An empty string
// means the source had nothing; assembly maps empties to JSON null.
type EnrichedFields struct {
	PosterURL string
	Year      string
	Rating    string
}
