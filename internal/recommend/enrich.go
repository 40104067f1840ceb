// ScreenScout - Semantic Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/screenscout

package recommend

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/screenscout/internal/omdb"
)

// MetadataSource supplies secondary metadata by movie title.
// *omdb.Client implements this; a disabled client returns empty fields.
type MetadataSource interface {
	Lookup(ctx context.Context, title string) (omdb.Fields, error)
}

// enrichAll fans out one metadata lookup per selected candidate with a
// bounded concurrency limit. Lookups fail independently: an error
// leaves that movie's fields empty and never aborts the batch. Results
// are keyed by candidate id, so assembly order stays independent of
// completion order.
func (e *Engine) enrichAll(ctx context.Context, selected []Candidate) map[string]EnrichedFields {
	byID := make(map[string]EnrichedFields, len(selected))
	if len(selected) == 0 {
		return byID
	}

	if e.detachEnrichment {
		// Keep lookups running past client disconnect so results still
		// land in the shared caches for the next request.
		ctx = context.WithoutCancel(ctx)
	}

	results := make([]EnrichedFields, len(selected))

	g := new(errgroup.Group)
	g.SetLimit(e.maxConcurrent)
	for i, candidate := range selected {
		g.Go(func() error {
			fields, err := e.enricher.Lookup(ctx, candidate.Title)
			if err != nil {
				e.logger.Debug().Err(err).Str("title", candidate.Title).Msg("Enrichment lookup failed")
				return nil
			}
			results[i] = EnrichedFields{
				PosterURL: fields.Poster,
				Year:      fields.Year,
				Rating:    fields.IMDBRating,
			}
			return nil
		})
	}
	// Wait never fails here, every worker swallows its own error.
	_ = g.Wait()

	for i, candidate := range selected {
		byID[candidate.ID] = results[i]
	}
	return byID
}
