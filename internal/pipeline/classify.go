// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"strings"

	"github.com/pdiddy/paper-alert/pkg/types"
)

// articleTypeRules maps publication-type substrings to display labels in
// priority order: higher-evidence study types first, so a record tagged
// both "Review" and "Meta-Analysis" classifies as a meta-analysis. The
// "review" rule must come after the more specific "systematic review".
var articleTypeRules = []struct {
	substr string
	label  string
}{
	{"meta-analysis", "Meta-analysis"},
	{"systematic review", "Systematic review"},
	{"review", "Review"},
	{"randomized controlled trial", "Randomized controlled trial"},
	{"clinical trial", "Clinical trial"},
	{"case report", "Case report"},
	{"editorial", "Editorial"},
	{"letter", "Letter"},
	{"comment", "Comment"},
}

// Classify derives an article-type label from the record's publication-type
// tags. The first matching rule wins; a record with tags but no match keeps
// its first tag verbatim; a record without tags is "(unknown)".
func Classify(r types.Record) string {
	for _, rule := range articleTypeRules {
		for _, tag := range r.PubTypes {
			if strings.Contains(strings.ToLower(tag), rule.substr) {
				return rule.label
			}
		}
	}
	if len(r.PubTypes) > 0 {
		return r.PubTypes[0]
	}
	return types.Unknown
}

// AnnotateTypes returns a copy of records with ArticleType filled in.
func AnnotateTypes(records []types.Record) []types.Record {
	out := make([]types.Record, len(records))
	for i, r := range records {
		r.ArticleType = Classify(r)
		out[i] = r
	}
	return out
}
