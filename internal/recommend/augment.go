// ScreenScout - Semantic Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/screenscout

package recommend

import (
	"fmt"
	"strings"
)

// AugmentQuery builds the text that gets embedded. Titles of movies the
// user already picked steer retrieval toward similar items; without
// picks the query passes through unchanged. Only the embedding sees the
// augmented text, the oracle prompt quotes the original query.
func AugmentQuery(query string, selectedTitles []string) string {
	if len(selectedTitles) == 0 {
		return query
	}
	return fmt.Sprintf("Movies similar to %s. Context: %s",
		strings.Join(selectedTitles, ", "), query)
}
