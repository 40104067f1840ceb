// ScreenScout - Semantic Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/screenscout

package recommend

import "strings"

// PosterResolver turns raw poster references into absolute URLs. A
// reference can be a full URL (enrichment data), a TMDB-style path with
// or without the leading slash (catalog and index metadata), empty, or
// the literal placeholder "nan" left behind by the CSV export that fed
// the catalog.
type PosterResolver struct {
	baseURL string
}

// NewPosterResolver builds a resolver rooted at baseURL. A trailing
// slash on baseURL is dropped so path joins stay single-slash.
func NewPosterResolver(baseURL string) *PosterResolver {
	return &PosterResolver{baseURL: strings.TrimSuffix(baseURL, "/")}
}

// Resolve maps a raw reference to an absolute URL. Empty and "nan"
// references (case-insensitive, after trimming) resolve to nil, which
// serializes as JSON null.
func (p *PosterResolver) Resolve(raw string) *string {
	ref := strings.TrimSpace(raw)
	if ref == "" || strings.EqualFold(ref, "nan") {
		return nil
	}

	var resolved string
	switch {
	case strings.HasPrefix(ref, "http"):
		resolved = ref
	case strings.HasPrefix(ref, "/"):
		resolved = p.baseURL + ref
	default:
		resolved = p.baseURL + "/" + ref
	}
	return &resolved
}
