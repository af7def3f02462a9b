// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pdiddy/paper-alert/pkg/types"
)

const esearchSample = `{"esearchresult": {"idlist": ["33333", "44444"]}}`

const esummarySample = `{
  "result": {
    "uids": ["33333", "44444"],
    "33333": {
      "title": "Conducting polymer bioelectronics.",
      "authors": [{"name": "Rivnay J"}, {"name": "Owens RM"}],
      "fulljournalname": "Nature Reviews Materials",
      "source": "Nat Rev Mater",
      "pubdate": "2023 Mar 14",
      "articleids": [
        {"idtype": "pubmed", "value": "33333"},
        {"idtype": "doi", "value": "10.1038/poly.33333"}
      ]
    },
    "44444": {
      "title": "An untitled summary placeholder",
      "authors": [],
      "source": "J Short Name",
      "epubdate": "2021 Nov-Dec",
      "articleids": [{"idtype": "pubmed", "value": "44444"}]
    }
  }
}`

func newEutilsServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	orig := eutilsBase
	eutilsBase = server.URL
	t.Cleanup(func() {
		eutilsBase = orig
		server.Close()
	})
	return server
}

func TestPubMedFetch(t *testing.T) {
	var searchParams, summaryParams map[string][]string
	server := newEutilsServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/esearch.fcgi"):
			searchParams = r.URL.Query()
			w.Write([]byte(esearchSample))
		case strings.HasSuffix(r.URL.Path, "/esummary.fcgi"):
			summaryParams = r.URL.Query()
			w.Write([]byte(esummarySample))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			http.NotFound(w, r)
		}
	})

	s := NewPubMed(server.Client(), "test-key")
	cfg := types.FetchConfig{
		Rows:         20,
		FromDate:     "2010-01-01",
		ContactEmail: "a@b.c",
	}
	records, err := s.Fetch(context.Background(), "conducting polymers", cfg)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if got := searchParams["term"]; len(got) != 1 || got[0] != "conducting polymers[Title/Abstract]" {
		t.Errorf("term param = %v", got)
	}
	if got := searchParams["mindate"]; len(got) != 1 || got[0] != "2010/01/01" {
		t.Errorf("mindate param = %v", got)
	}
	for _, key := range []string{"tool", "email", "api_key"} {
		if len(searchParams[key]) == 0 {
			t.Errorf("ESearch missing %s param", key)
		}
	}
	if got := summaryParams["id"]; len(got) != 1 || got[0] != "33333,44444" {
		t.Errorf("ESummary id param = %v", got)
	}

	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}

	first := records[0]
	if first.PMID != "33333" {
		t.Errorf("PMID = %q", first.PMID)
	}
	if first.Title != "Conducting polymer bioelectronics." {
		t.Errorf("Title = %q", first.Title)
	}
	if first.Authors != "Rivnay J, Owens RM" {
		t.Errorf("Authors = %q", first.Authors)
	}
	if first.Journal != "Nature Reviews Materials" {
		t.Errorf("Journal = %q, want the full journal name", first.Journal)
	}
	if first.Year != "2023" {
		t.Errorf("Year = %q", first.Year)
	}
	if first.DOI != "10.1038/poly.33333" {
		t.Errorf("DOI = %q", first.DOI)
	}
	if first.URL != "https://doi.org/10.1038/poly.33333" {
		t.Errorf("URL = %q", first.URL)
	}
	if first.Source != types.SourcePubMed {
		t.Errorf("Source = %q", first.Source)
	}

	second := records[1]
	if second.DOI != types.NoDOI {
		t.Errorf("DOI = %q, want the sentinel", second.DOI)
	}
	if second.URL != "https://pubmed.ncbi.nlm.nih.gov/44444/" {
		t.Errorf("URL = %q, want a PubMed link", second.URL)
	}
	if second.Journal != "J Short Name" {
		t.Errorf("Journal = %q, want the source fallback", second.Journal)
	}
	if second.Year != "2021" {
		t.Errorf("Year = %q, want the epubdate year", second.Year)
	}
	if second.Authors != types.NoAuthors {
		t.Errorf("Authors = %q, want the sentinel", second.Authors)
	}
}

func TestPubMedFetchEmptyIDList(t *testing.T) {
	summaryCalled := false
	server := newEutilsServer(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/esummary.fcgi") {
			summaryCalled = true
		}
		w.Write([]byte(`{"esearchresult": {"idlist": []}}`))
	})

	s := NewPubMed(server.Client(), "")
	records, err := s.Fetch(context.Background(), "no such topic", types.FetchConfig{})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if records != nil {
		t.Errorf("records = %v, want nil for no matches", records)
	}
	if summaryCalled {
		t.Error("ESummary must not run for an empty id list")
	}
}

func TestPubMedFetchServerError(t *testing.T) {
	server := newEutilsServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	})

	s := NewPubMed(server.Client(), "")
	if _, err := s.Fetch(context.Background(), "q", types.FetchConfig{}); err == nil {
		t.Error("expected an error for HTTP 502")
	}
}

func TestNewPubMedRateDependsOnKey(t *testing.T) {
	without := NewPubMed(nil, "")
	with := NewPubMed(nil, "key")
	if without.limiter.Limit() != ncbiRateWithoutKey {
		t.Errorf("limit without key = %v, want %d", without.limiter.Limit(), ncbiRateWithoutKey)
	}
	if with.limiter.Limit() != ncbiRateWithKey {
		t.Errorf("limit with key = %v, want %d", with.limiter.Limit(), ncbiRateWithKey)
	}
}
