// ScreenScout - Semantic Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/screenscout

package recommend

import "strings"

// FilterCandidates removes candidates the user already picked and
// duplicates from the search results, preserving rank order. A
// candidate is dropped when its id is among selectedIDs, its id was
// already kept, or its normalized title collides with a picked title or
// an earlier survivor. Survivors are capped at limit; zero or negative
// means uncapped.
//
// Title collisions matter because the index can hold near-duplicate
// entries (re-releases, remasters) that differ in id but not title.
func FilterCandidates(candidates []Candidate, selectedIDs, selectedTitles []string, limit int) []Candidate {
	selected := make(map[string]struct{}, len(selectedIDs))
	for _, id := range selectedIDs {
		selected[id] = struct{}{}
	}

	seenIDs := make(map[string]struct{}, len(candidates))
	seenTitles := make(map[string]struct{}, len(candidates)+len(selectedTitles))
	for _, title := range selectedTitles {
		seenTitles[normalizeTitle(title)] = struct{}{}
	}

	kept := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if limit > 0 && len(kept) == limit {
			break
		}
		if _, ok := selected[c.ID]; ok {
			continue
		}
		if _, ok := seenIDs[c.ID]; ok {
			continue
		}
		title := normalizeTitle(c.Title)
		if _, ok := seenTitles[title]; ok {
			continue
		}
		seenIDs[c.ID] = struct{}{}
		seenTitles[title] = struct{}{}
		kept = append(kept, c)
	}
	return kept
}

func normalizeTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}
