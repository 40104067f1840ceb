// ScreenScout - Semantic Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/screenscout

package recommend

import "testing"

func TestAugmentQuery(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		titles []string
		want   string
	}{
		{
			name:   "no picks passes query through",
			query:  "dream heist thriller",
			titles: nil,
			want:   "dream heist thriller",
		},
		{
			name:   "empty picks slice passes query through",
			query:  "dream heist thriller",
			titles: []string{},
			want:   "dream heist thriller",
		},
		{
			name:   "single pick",
			query:  "dream heist thriller",
			titles: []string{"Inception"},
			want:   "Movies similar to Inception. Context: dream heist thriller",
		},
		{
			name:   "multiple picks joined with comma",
			query:  "space survival",
			titles: []string{"Interstellar", "The Martian"},
			want:   "Movies similar to Interstellar, The Martian. Context: space survival",
		},
		{
			name:   "empty query keeps template",
			query:  "",
			titles: []string{"Alien"},
			want:   "Movies similar to Alien. Context: ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AugmentQuery(tt.query, tt.titles)
			if got != tt.want {
				t.Errorf("AugmentQuery() = %q, want %q", got, tt.want)
			}
		})
	}
}
