// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import "testing"

func TestScoreTitle(t *testing.T) {
	tests := []struct {
		name  string
		title string
		query string
		want  int
	}{
		{
			name:  "exact phrase plus all tokens",
			title: "Organic electrochemical transistors",
			query: "organic electrochemical transistors",
			want:  5, // 2 for the phrase, 1 per token
		},
		{
			name:  "phrase inside a longer title",
			title: "Organic electrochemical transistors for biochemical sensing",
			query: "organic electrochemical transistors",
			want:  5,
		},
		{
			name:  "partial token hits only",
			title: "Electrochemical sensors based on conducting polymers",
			query: "organic electrochemical transistors",
			want:  1,
		},
		{
			name:  "no overlap",
			title: "Deep learning for protein folding",
			query: "organic electrochemical transistors",
			want:  0,
		},
		{
			name:  "empty title",
			title: "",
			query: "transistors",
			want:  0,
		},
		{
			name:  "token matches inside words",
			title: "Bioelectrochemistry of transistor arrays",
			query: "electro transistor",
			want:  2, // both tokens as substrings, no phrase hit
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScoreTitle(tt.title, tt.query); got != tt.want {
				t.Errorf("ScoreTitle(%q, %q) = %d, want %d", tt.title, tt.query, got, tt.want)
			}
		})
	}
}

func TestScoreTitleCaseInsensitive(t *testing.T) {
	title := "ORGANIC Electrochemical Transistors For Sensing"
	query := "Organic electrochemical TRANSISTORS"

	upper := ScoreTitle(title, query)
	lower := ScoreTitle("organic electrochemical transistors for sensing", "organic electrochemical transistors")
	if upper != lower {
		t.Errorf("score differs under case change: %d vs %d", upper, lower)
	}
}

func TestScoreTitlePhraseGuarantee(t *testing.T) {
	// Any title containing the query verbatim scores at least 2.
	titles := []string{
		"organic mixed ionic-electronic conductors",
		"Advances in ORGANIC MIXED IONIC-ELECTRONIC CONDUCTORS and beyond",
	}
	for _, title := range titles {
		if got := ScoreTitle(title, "organic mixed ionic-electronic conductors"); got < 2 {
			t.Errorf("ScoreTitle(%q) = %d, want >= 2", title, got)
		}
	}
}

func TestYearToInt(t *testing.T) {
	tests := []struct {
		year string
		want int
	}{
		{"2021", 2021},
		{"(n.d.)", 0},
		{"", 0},
		{" 1999 ", 1999},
		{"circa 2000", 0},
	}
	for _, tt := range tests {
		if got := yearToInt(tt.year); got != tt.want {
			t.Errorf("yearToInt(%q) = %d, want %d", tt.year, got, tt.want)
		}
	}
}
