// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"sort"

	"github.com/pdiddy/paper-alert/pkg/types"
)

// EnrichFunc fetches enrichment data for a set of PMIDs in a single call.
// The returned map may omit ids for which nothing was found.
type EnrichFunc func(ctx context.Context, pmids []string) (map[string]types.Enrichment, error)

// Enrich augments the already-ranked records with abstracts and publication
// types from enrichment data keyed by PMID. Only records whose sources
// include PubMed participate; when none do, the input is returned unchanged
// and no call is made, which bounds external calls to the ranked subset.
//
// A fetched non-empty abstract overwrites the record's abstract: at this
// stage the citation database is authoritative, unlike the merge step where
// the first-seen value wins. Publication types become the order-preserving
// union of existing then fetched tags.
//
// Enrichment is best-effort: a failed fetch or an empty result returns the
// input unchanged. Records are copied, never mutated in place.
func Enrich(ctx context.Context, ranked []types.Record, fetch EnrichFunc) []types.Record {
	pmids := pubmedIDs(ranked)
	if len(pmids) == 0 || fetch == nil {
		return ranked
	}

	info, err := fetch(ctx, pmids)
	if err != nil || len(info) == 0 {
		return ranked
	}

	out := make([]types.Record, len(ranked))
	for i, r := range ranked {
		if e, ok := info[r.PMID]; ok && r.PMID != "" {
			if e.Abstract != "" {
				r.Abstract = e.Abstract
			}
			r.PubTypes = unionTags(r.PubTypes, e.PubTypes)
		}
		out[i] = r
	}
	return out
}

// pubmedIDs returns the sorted distinct PMIDs among records that PubMed
// reported.
func pubmedIDs(records []types.Record) []string {
	set := make(map[string]struct{})
	for _, r := range records {
		if r.PMID != "" && r.FromPubMed() {
			set[r.PMID] = struct{}{}
		}
	}
	if len(set) == 0 {
		return nil
	}
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
