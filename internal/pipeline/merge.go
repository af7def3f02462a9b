// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"strings"

	"github.com/pdiddy/paper-alert/pkg/types"
)

// DedupKey returns the string used to decide whether two records refer to
// the same work: the lowercased DOI when one is present, otherwise
// lowercased title plus year. The title+year fallback is an approximation;
// titles differing in punctuation will not merge.
func DedupKey(r types.Record) string {
	if r.HasDOI() {
		return strings.ToLower(r.DOI)
	}
	return strings.ToLower(r.Title) + "_" + r.Year
}

// Merge combines per-source record lists into one deduplicated,
// insertion-ordered list. Records are processed in the order the lists are
// given, so on a key collision the earlier record's fields win except
// where the merge policy fills gaps. The second return value counts the
// duplicates that were folded in.
//
// All lists empty yields an empty result; that is a "no records"
// condition, not an error.
func Merge(lists ...[]types.Record) ([]types.Record, int) {
	seen := make(map[string]int) // dedup key → index in merged
	var merged []types.Record
	removed := 0

	for _, list := range lists {
		for _, r := range list {
			key := DedupKey(r)
			if idx, ok := seen[key]; ok {
				mergeInto(&merged[idx], r)
				removed++
				continue
			}
			seen[key] = len(merged)
			merged = append(merged, r)
		}
	}
	return merged, removed
}

// mergeInto folds a duplicate record into the one seen first:
//   - Source becomes the "+"-joined union of provider names, idempotent.
//   - PMID and Abstract keep the first non-empty value.
//   - PubTypes becomes the order-preserving union.
//   - Every other field keeps the first encounter's value.
func mergeInto(dst *types.Record, src types.Record) {
	for _, name := range strings.Split(src.Source, "+") {
		if name != "" && !dst.HasSource(name) {
			dst.Source += "+" + name
		}
	}
	if dst.PMID == "" && src.PMID != "" {
		dst.PMID = src.PMID
	}
	if dst.Abstract == "" && src.Abstract != "" {
		dst.Abstract = src.Abstract
	}
	dst.PubTypes = unionTags(dst.PubTypes, src.PubTypes)
}

// unionTags returns the order-preserving set union of two tag lists, or nil
// when both are empty.
func unionTags(first, second []string) []string {
	if len(first) == 0 && len(second) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(first)+len(second))
	out := make([]string, 0, len(first)+len(second))
	for _, list := range [][]string{first, second} {
		for _, tag := range list {
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			out = append(out, tag)
		}
	}
	return out
}
