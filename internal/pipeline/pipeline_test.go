// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/paper-alert/pkg/types"
)

// mockSource returns canned records or a canned error, optionally after a
// delay so tests can force response-order inversions.
type mockSource struct {
	name    string
	records []types.Record
	err     error
	delay   time.Duration
}

func (m *mockSource) Name() string { return m.name }

func (m *mockSource) Fetch(ctx context.Context, query string, _ types.FetchConfig) ([]types.Record, error) {
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.err != nil {
		return nil, m.err
	}
	out := make([]types.Record, len(m.records))
	for i, r := range m.records {
		r.Query = query
		out[i] = r
	}
	return out, nil
}

func TestPipelineRunMergesAcrossSources(t *testing.T) {
	crossref := &mockSource{
		name: types.SourceCrossref,
		records: []types.Record{
			{Title: "Organic transistors", DOI: "10.1/A", Year: "2021", Source: types.SourceCrossref},
			{Title: "Unrelated work", DOI: "10.1/b", Year: "2015", Source: types.SourceCrossref},
		},
	}
	pubmed := &mockSource{
		name: types.SourcePubMed,
		records: []types.Record{
			{Title: "Organic transistors", DOI: "10.1/a", Year: "2021", Source: types.SourcePubMed, PMID: "42"},
		},
	}

	p := &Pipeline{
		Sources: []Source{crossref, pubmed},
		TopN:    3,
	}
	result := p.Run(context.Background(), "organic transistors")

	if result.DupsRemoved != 1 {
		t.Errorf("DupsRemoved = %d, want 1", result.DupsRemoved)
	}
	if len(result.Records) != 2 {
		t.Fatalf("len(Records) = %d, want 2", len(result.Records))
	}

	top := result.Records[0]
	if top.Source != "Crossref+PubMed" {
		t.Errorf("top Source = %q, want both providers", top.Source)
	}
	if top.PMID != "42" {
		t.Errorf("top PMID = %q, want filled from PubMed", top.PMID)
	}
	if top.ArticleType != types.Unknown {
		t.Errorf("top ArticleType = %q, want %q", top.ArticleType, types.Unknown)
	}
	if len(result.SourceNotes) != 0 {
		t.Errorf("SourceNotes = %v, want none", result.SourceNotes)
	}
}

func TestPipelineRunMergeOrderIgnoresResponseTiming(t *testing.T) {
	// The first source responds last; its title must still win the merge.
	crossref := &mockSource{
		name:  types.SourceCrossref,
		delay: 30 * time.Millisecond,
		records: []types.Record{
			{Title: "Crossref Title", DOI: "10.1/x", Year: "2021", Source: types.SourceCrossref},
		},
	}
	pubmed := &mockSource{
		name: types.SourcePubMed,
		records: []types.Record{
			{Title: "pubmed title", DOI: "10.1/x", Year: "2021", Source: types.SourcePubMed},
		},
	}

	p := &Pipeline{Sources: []Source{crossref, pubmed}, TopN: 1}
	result := p.Run(context.Background(), "q")

	if len(result.Records) != 1 {
		t.Fatalf("len(Records) = %d, want 1", len(result.Records))
	}
	if result.Records[0].Title != "Crossref Title" {
		t.Errorf("Title = %q, want the first configured source's value", result.Records[0].Title)
	}
}

func TestPipelineRunSourceFailureIsAdvisory(t *testing.T) {
	crossref := &mockSource{name: types.SourceCrossref, err: errors.New("connection refused")}
	pubmed := &mockSource{
		name: types.SourcePubMed,
		records: []types.Record{
			{Title: "Survivor", DOI: "10.1/s", Year: "2022", Source: types.SourcePubMed, PMID: "7"},
		},
	}

	var log bytes.Buffer
	p := &Pipeline{Sources: []Source{crossref, pubmed}, TopN: 3, Log: &log}
	result := p.Run(context.Background(), "q")

	if len(result.Records) != 1 {
		t.Fatalf("len(Records) = %d, want the healthy source's record", len(result.Records))
	}
	if len(result.SourceNotes) != 1 || !strings.Contains(result.SourceNotes[0], "connection refused") {
		t.Errorf("SourceNotes = %v, want the failure note", result.SourceNotes)
	}
	if !strings.Contains(log.String(), "warning: source Crossref failed") {
		t.Errorf("log missing the warning: %q", log.String())
	}
}

func TestPipelineRunEmptySourceNoted(t *testing.T) {
	crossref := &mockSource{name: types.SourceCrossref}
	pubmed := &mockSource{name: types.SourcePubMed}

	p := &Pipeline{Sources: []Source{crossref, pubmed}, TopN: 3}
	result := p.Run(context.Background(), "q")

	if !result.Empty() {
		t.Error("expected an empty result")
	}
	want := []string{
		"Crossref: no candidates found",
		"PubMed: no candidates found",
	}
	if len(result.SourceNotes) != 2 || result.SourceNotes[0] != want[0] || result.SourceNotes[1] != want[1] {
		t.Errorf("SourceNotes = %v, want %v", result.SourceNotes, want)
	}
}

func TestPipelineRunEnrichesAndTranslates(t *testing.T) {
	pubmed := &mockSource{
		name: types.SourcePubMed,
		records: []types.Record{
			{Title: "Enriched paper", DOI: "10.1/e", Year: "2023", Source: types.SourcePubMed, PMID: "99"},
		},
	}

	p := &Pipeline{
		Sources: []Source{&mockSource{name: types.SourceCrossref}, pubmed},
		TopN:    3,
		EnrichFetch: func(_ context.Context, pmids []string) (map[string]types.Enrichment, error) {
			return map[string]types.Enrichment{
				"99": {Abstract: "fetched abstract", PubTypes: []string{"Review"}},
			}, nil
		},
		Translate: func(_ context.Context, texts []string) ([]string, error) {
			out := make([]string, len(texts))
			for i, s := range texts {
				out[i] = "[fr] " + s
			}
			return out, nil
		},
	}
	result := p.Run(context.Background(), "q")

	if len(result.Records) != 1 {
		t.Fatalf("len(Records) = %d, want 1", len(result.Records))
	}
	r := result.Records[0]
	if r.Abstract != "fetched abstract" {
		t.Errorf("Abstract = %q", r.Abstract)
	}
	if r.AbstractTranslated != "[fr] fetched abstract" {
		t.Errorf("AbstractTranslated = %q", r.AbstractTranslated)
	}
	if r.ArticleType != "Review" {
		t.Errorf("ArticleType = %q, want Review", r.ArticleType)
	}
}

func TestPipelineRunMergesEverySource(t *testing.T) {
	crossref := &mockSource{
		name: types.SourceCrossref,
		records: []types.Record{
			{Title: "Shared work", DOI: "10.1/shared", Year: "2022", Source: types.SourceCrossref},
		},
	}
	pubmed := &mockSource{
		name: types.SourcePubMed,
		records: []types.Record{
			{Title: "PubMed only", DOI: "10.1/pm", Year: "2021", Source: types.SourcePubMed},
		},
	}
	third := &mockSource{
		name: "Scopus",
		records: []types.Record{
			{Title: "shared work", DOI: "10.1/SHARED", Year: "2022", Source: "Scopus"},
			{Title: "Scopus only", DOI: "10.1/sc", Year: "2020", Source: "Scopus"},
		},
	}

	p := &Pipeline{Sources: []Source{crossref, pubmed, third}, TopN: 5}
	result := p.Run(context.Background(), "q")

	if result.DupsRemoved != 1 {
		t.Errorf("DupsRemoved = %d, want 1", result.DupsRemoved)
	}
	if len(result.Records) != 3 {
		t.Fatalf("len(Records) = %d, want every source's records merged", len(result.Records))
	}

	byDOI := make(map[string]types.Record, len(result.Records))
	for _, r := range result.Records {
		byDOI[strings.ToLower(r.DOI)] = r
	}
	if _, ok := byDOI["10.1/sc"]; !ok {
		t.Error("third source's record missing from the merge")
	}
	if shared := byDOI["10.1/shared"]; shared.Source != "Crossref+Scopus" {
		t.Errorf("shared Source = %q, want the union including the third source", shared.Source)
	}
}

func TestPipelineRunTopNTruncates(t *testing.T) {
	var records []types.Record
	for _, y := range []string{"2019", "2023", "2021"} {
		records = append(records, types.Record{
			Title: "match query", DOI: "10.1/" + y, Year: y, Source: types.SourceCrossref,
		})
	}
	crossref := &mockSource{name: types.SourceCrossref, records: records}

	p := &Pipeline{Sources: []Source{crossref, &mockSource{name: types.SourcePubMed}}, TopN: 2}
	result := p.Run(context.Background(), "match query")

	if len(result.Records) != 2 {
		t.Fatalf("len(Records) = %d, want 2", len(result.Records))
	}
	if result.Records[0].Year != "2023" || result.Records[1].Year != "2021" {
		t.Errorf("years = [%s, %s], want [2023, 2021]",
			result.Records[0].Year, result.Records[1].Year)
	}
}
