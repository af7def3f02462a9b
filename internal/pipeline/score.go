// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline merges, deduplicates, ranks, and enriches paper records
// fetched from the bibliographic sources. The pipeline is synchronous and
// performs no I/O of its own; network access happens in the injected
// sources and fetch functions.
package pipeline

import (
	"strconv"
	"strings"
)

// ScoreTitle computes an integer relevance score of a title against a query.
// Both strings are case-folded. A whole-query substring match adds 2; each
// whitespace-split query token found as a substring of the title adds 1.
// No stemming, no edit distance: exact-phrase hits beat partial-token hits
// while the score stays cheap and explainable.
func ScoreTitle(title, query string) int {
	t := strings.ToLower(title)
	q := strings.ToLower(query)

	score := 0
	if strings.Contains(t, q) {
		score += 2
	}
	for _, w := range strings.Fields(q) {
		if strings.Contains(t, w) {
			score++
		}
	}
	return score
}

// yearToInt converts a Record year to an int for sorting. Sentinel or
// malformed years sort as 0; the display value is untouched.
func yearToInt(year string) int {
	n, err := strconv.Atoi(strings.TrimSpace(year))
	if err != nil {
		return 0
	}
	return n
}
