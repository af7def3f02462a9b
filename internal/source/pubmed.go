// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/time/rate"

	"github.com/pdiddy/paper-alert/pkg/types"
)

// eutilsBase is the NCBI E-utilities base URL. Declared as a var so tests
// can substitute an httptest server.
var eutilsBase = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"

// Rate limits per NCBI policy, requests per second.
const (
	ncbiRateWithoutKey = 3
	ncbiRateWithKey    = 10
)

// yearPattern extracts the first 4-digit year from a PubMed pubdate string
// such as "2023 Mar 14" or "2021 Nov-Dec".
var yearPattern = regexp.MustCompile(`\b(\d{4})\b`)

// PubMed queries the NCBI E-utilities (ESearch + ESummary) for records in
// the citation database. Abstracts and publication types are not fetched
// here; the EFetch client supplies them later for the ranked subset only.
type PubMed struct {
	Client  *http.Client
	limiter *rate.Limiter
	apiKey  string
}

// NewPubMed returns a PubMed source rate-limited per NCBI policy: 3
// requests per second without an API key, 10 with one.
func NewPubMed(client *http.Client, apiKey string) *PubMed {
	r := ncbiRateWithoutKey
	if apiKey != "" {
		r = ncbiRateWithKey
	}
	return &PubMed{
		Client:  client,
		limiter: rate.NewLimiter(rate.Limit(r), 1),
		apiKey:  apiKey,
	}
}

// Name returns the provider name as it appears in Record.Source.
func (s *PubMed) Name() string { return types.SourcePubMed }

// Fetch runs ESearch for PMIDs matching the query in title or abstract,
// then ESummary for their metadata, and normalizes the summaries into
// Records. An empty id list yields no records and no error.
func (s *PubMed) Fetch(ctx context.Context, query string, cfg types.FetchConfig) ([]types.Record, error) {
	retmax := cfg.Rows
	if retmax <= 0 {
		retmax = 20
	}

	params := url.Values{
		"db":      {"pubmed"},
		"term":    {query + "[Title/Abstract]"},
		"retmode": {"json"},
		"retmax":  {strconv.Itoa(retmax)},
		"sort":    {"relevance"},
	}
	if cfg.FromDate != "" {
		params.Set("datetype", "pdat")
		// PubMed dates use slashes: 2010-01-01 → 2010/01/01.
		params.Set("mindate", strings.ReplaceAll(cfg.FromDate, "-", "/"))
	}

	body, err := s.get(ctx, "esearch.fcgi", params, cfg)
	if err != nil {
		return nil, fmt.Errorf("PubMed ESearch: %w", err)
	}

	var es esearchResponse
	if err := json.Unmarshal(body, &es); err != nil {
		return nil, fmt.Errorf("parsing ESearch response: %w", err)
	}
	if len(es.Result.IDList) == 0 {
		return nil, nil
	}

	sumParams := url.Values{
		"db":      {"pubmed"},
		"id":      {strings.Join(es.Result.IDList, ",")},
		"retmode": {"json"},
	}
	body, err = s.get(ctx, "esummary.fcgi", sumParams, cfg)
	if err != nil {
		return nil, fmt.Errorf("PubMed ESummary: %w", err)
	}

	var sum esummaryResponse
	if err := json.Unmarshal(body, &sum); err != nil {
		return nil, fmt.Errorf("parsing ESummary response: %w", err)
	}

	uids, docs, err := sum.docs()
	if err != nil {
		return nil, fmt.Errorf("parsing ESummary documents: %w", err)
	}

	var records []types.Record
	for _, pmid := range uids {
		doc, ok := docs[pmid]
		if !ok {
			continue
		}
		records = append(records, normalizePubMed(pmid, doc, query))
	}
	return records, nil
}

// get performs one rate-limited E-utilities GET and returns the body.
// The tool, email, and api_key parameters NCBI expects are appended here.
func (s *PubMed) get(ctx context.Context, endpoint string, params url.Values, cfg types.FetchConfig) ([]byte, error) {
	params.Set("tool", toolName)
	if cfg.ContactEmail != "" {
		params.Set("email", cfg.ContactEmail)
	}
	if s.apiKey != "" {
		params.Set("api_key", s.apiKey)
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	return eutilsGet(ctx, s.Client, endpoint, params, cfg.UserAgent)
}

// normalizePubMed maps one ESummary document into the common Record
// schema, substituting sentinels for missing fields.
func normalizePubMed(pmid string, doc esummaryDoc, query string) types.Record {
	r := types.Record{
		Title:   types.NoTitle,
		DOI:     types.NoDOI,
		Authors: types.NoAuthors,
		Year:    types.NoYear,
		Journal: types.NoJournal,
		Query:   query,
		Source:  types.SourcePubMed,
		PMID:    pmid,
	}

	if doc.Title != "" {
		r.Title = doc.Title
	}

	var authors []string
	for _, a := range doc.Authors {
		if a.Name != "" {
			authors = append(authors, a.Name)
		}
	}
	if len(authors) > 0 {
		r.Authors = strings.Join(authors, ", ")
	}

	switch {
	case doc.FullJournalName != "":
		r.Journal = doc.FullJournalName
	case doc.Source != "":
		r.Journal = doc.Source
	}

	pubdate := doc.PubDate
	if pubdate == "" {
		pubdate = doc.EPubDate
	}
	if m := yearPattern.FindString(pubdate); m != "" {
		r.Year = m
	}

	for _, aid := range doc.ArticleIDs {
		if aid.IDType == "doi" && aid.Value != "" {
			r.DOI = aid.Value
			break
		}
	}

	if r.DOI != types.NoDOI {
		r.URL = "https://doi.org/" + r.DOI
	} else {
		r.URL = "https://pubmed.ncbi.nlm.nih.gov/" + pmid + "/"
	}

	return r
}

// NCBI E-utilities JSON structures.
type esearchResponse struct {
	Result struct {
		IDList []string `json:"idlist"`
	} `json:"esearchresult"`
}

// esummaryResponse holds the ESummary result object, which mixes a "uids"
// list with one document field per PMID, so documents are decoded lazily.
type esummaryResponse struct {
	Result map[string]json.RawMessage `json:"result"`
}

type esummaryDoc struct {
	Title           string           `json:"title"`
	Authors         []esummaryAuthor `json:"authors"`
	FullJournalName string           `json:"fulljournalname"`
	Source          string           `json:"source"`
	PubDate         string           `json:"pubdate"`
	EPubDate        string           `json:"epubdate"`
	ArticleIDs      []esummaryArtID  `json:"articleids"`
}

type esummaryAuthor struct {
	Name string `json:"name"`
}

type esummaryArtID struct {
	IDType string `json:"idtype"`
	Value  string `json:"value"`
}

// docs returns the uid order and the per-PMID documents.
func (r esummaryResponse) docs() ([]string, map[string]esummaryDoc, error) {
	raw, ok := r.Result["uids"]
	if !ok {
		return nil, nil, fmt.Errorf("missing uids")
	}
	var uids []string
	if err := json.Unmarshal(raw, &uids); err != nil {
		return nil, nil, fmt.Errorf("decoding uids: %w", err)
	}

	docs := make(map[string]esummaryDoc, len(uids))
	for _, uid := range uids {
		rawDoc, ok := r.Result[uid]
		if !ok {
			continue
		}
		var doc esummaryDoc
		if err := json.Unmarshal(rawDoc, &doc); err != nil {
			return nil, nil, fmt.Errorf("decoding summary %s: %w", uid, err)
		}
		docs[uid] = doc
	}
	return uids, docs, nil
}
