// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"sort"

	"github.com/pdiddy/paper-alert/pkg/types"
)

// Rank orders merged records by title relevance (descending) with
// publication year (descending) as tiebreaker, and truncates to the top N.
// The sort is stable, so records whose score and year tie keep their
// merge-order position. topN <= 0 returns an empty result.
func Rank(records []types.Record, query string, topN int) []types.Record {
	if topN <= 0 || len(records) == 0 {
		return nil
	}

	type scored struct {
		score, year int
		rec         types.Record
	}

	list := make([]scored, len(records))
	for i, r := range records {
		list[i] = scored{
			score: ScoreTitle(r.Title, query),
			year:  yearToInt(r.Year),
			rec:   r,
		}
	}

	sort.SliceStable(list, func(i, j int) bool {
		if list[i].score != list[j].score {
			return list[i].score > list[j].score
		}
		return list[i].year > list[j].year
	})

	if len(list) > topN {
		list = list[:topN]
	}

	top := make([]types.Record, len(list))
	for i, s := range list {
		top[i] = s.rec
	}
	return top
}
