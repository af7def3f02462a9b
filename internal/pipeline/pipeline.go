// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/pdiddy/paper-alert/pkg/types"
)

// Source fetches candidate papers from one bibliographic API and
// normalizes them into the common Record schema. Each provider (Crossref,
// PubMed) implements this interface.
type Source interface {
	Name() string
	Fetch(ctx context.Context, query string, cfg types.FetchConfig) ([]types.Record, error)
}

// Pipeline runs one query through fetch, merge, rank, enrichment,
// translation, and classification. A Pipeline holds no per-run state;
// independent queries may run through separate Pipeline values (or the same
// one) concurrently.
type Pipeline struct {
	Sources []Source
	Fetch   types.FetchConfig
	TopN    int

	// EnrichFetch supplies abstracts and publication types for ranked
	// PubMed records; nil disables enrichment.
	EnrichFetch EnrichFunc

	// Translate supplies abstract translations; nil disables translation.
	Translate TranslateFunc

	// Log receives progress and warning lines; nil discards them.
	Log io.Writer
}

// QueryResult is the outcome of one query's pipeline run.
type QueryResult struct {
	// Query is the keyword query that produced these records.
	Query string

	// Records is the ordered top-N, fully reconciled.
	Records []types.Record

	// SourceNotes carries advisory per-source messages: transport or
	// parse failures, and sources that returned no candidates. A note
	// never implies the whole run failed.
	SourceNotes []string

	// DupsRemoved counts records folded into another during the merge.
	DupsRemoved int
}

// Empty reports whether the run surfaced no papers at all. Together with
// SourceNotes this keeps "nothing matched" distinguishable from "a source
// failed".
func (r QueryResult) Empty() bool { return len(r.Records) == 0 }

// Run executes the pipeline for a single query. Sources are fetched
// concurrently but their results are merged in configured source order, so
// the first source's field values win on a dedup collision regardless of
// response timing. A failing source contributes zero records and an
// advisory note; only the core stages past fetching are deterministic.
func (p *Pipeline) Run(ctx context.Context, query string) QueryResult {
	log := p.Log
	if log == nil {
		log = io.Discard
	}

	fetched := make([][]types.Record, len(p.Sources))
	errs := make([]error, len(p.Sources))

	var wg sync.WaitGroup
	for i, src := range p.Sources {
		wg.Add(1)
		go func(i int, src Source) {
			defer wg.Done()
			fetched[i], errs[i] = src.Fetch(ctx, query, p.Fetch)
		}(i, src)
	}
	wg.Wait()

	result := QueryResult{Query: query}
	for i, src := range p.Sources {
		switch {
		case errs[i] != nil:
			note := fmt.Sprintf("%s: %v", src.Name(), errs[i])
			result.SourceNotes = append(result.SourceNotes, note)
			fmt.Fprintf(log, "warning: source %s failed: %v\n", src.Name(), errs[i])
		case len(fetched[i]) == 0:
			result.SourceNotes = append(result.SourceNotes, src.Name()+": no candidates found")
		default:
			fmt.Fprintf(log, "%s: %d candidates for %q\n", src.Name(), len(fetched[i]), query)
		}
	}

	merged, removed := Merge(fetched...)
	result.DupsRemoved = removed
	if len(merged) == 0 {
		fmt.Fprintf(log, "no papers found for %q\n", query)
		return result
	}
	fmt.Fprintf(log, "%d unique papers after dedup (%d duplicates folded)\n", len(merged), removed)

	ranked := Rank(merged, query, p.TopN)
	ranked = Enrich(ctx, ranked, p.EnrichFetch)
	ranked = Translate(ctx, ranked, p.Translate)
	result.Records = AnnotateTypes(ranked)
	return result
}
