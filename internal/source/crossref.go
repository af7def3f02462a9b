// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/paper-alert/internal/httputil"
	"github.com/pdiddy/paper-alert/pkg/types"
)

// crossrefAPIBase is the Crossref works endpoint. Declared as a var so
// tests can substitute an httptest server.
var crossrefAPIBase = "https://api.crossref.org/works"

// Crossref queries the Crossref REST API for journal articles.
type Crossref struct {
	Client *http.Client
}

// Name returns the provider name as it appears in Record.Source.
func (s *Crossref) Name() string { return types.SourceCrossref }

// Fetch queries Crossref for up to cfg.Rows journal articles matching the
// query, newest first, published on or after cfg.FromDate, and normalizes
// them into Records.
func (s *Crossref) Fetch(ctx context.Context, query string, cfg types.FetchConfig) ([]types.Record, error) {
	rows := cfg.Rows
	if rows <= 0 {
		rows = 20
	}

	params := url.Values{
		"query": {query},
		"rows":  {strconv.Itoa(rows)},
		"sort":  {"published"},
		"order": {"desc"},
	}
	filter := "type:journal-article"
	if cfg.FromDate != "" {
		filter += ",from-pub-date:" + cfg.FromDate
	}
	params.Set("filter", filter)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, crossrefAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, s.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("Crossref request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Crossref returned HTTP %d", resp.StatusCode)
	}

	var cr crossrefResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, fmt.Errorf("parsing Crossref response: %w", err)
	}

	records := make([]types.Record, 0, len(cr.Message.Items))
	for _, it := range cr.Message.Items {
		records = append(records, normalizeCrossref(it, query))
	}
	return records, nil
}

// normalizeCrossref maps one Crossref work into the common Record schema,
// substituting sentinels for missing fields.
func normalizeCrossref(it crossrefItem, query string) types.Record {
	r := types.Record{
		Title:   types.NoTitle,
		DOI:     types.NoDOI,
		Authors: types.NoAuthors,
		Year:    types.NoYear,
		Journal: types.NoJournal,
		Query:   query,
		Source:  types.SourceCrossref,
	}

	if len(it.Title) > 0 && it.Title[0] != "" {
		r.Title = it.Title[0]
	}
	if it.DOI != "" {
		r.DOI = it.DOI
	}

	switch {
	case it.URL != "":
		r.URL = it.URL
	case r.DOI != types.NoDOI:
		r.URL = "https://doi.org/" + r.DOI
	default:
		r.URL = types.NoURL
	}

	var authors []string
	for _, a := range it.Author {
		name := strings.TrimSpace(a.Given + " " + a.Family)
		if name == "" {
			name = "(no name)"
		}
		authors = append(authors, name)
	}
	if len(authors) > 0 {
		r.Authors = strings.Join(authors, ", ")
	}

	// First of published-print, published-online, issued that carries a
	// usable year.
	for _, d := range []*crossrefDate{it.PublishedPrint, it.PublishedOnline, it.Issued} {
		if d != nil && len(d.DateParts) > 0 && len(d.DateParts[0]) > 0 && d.DateParts[0][0] != 0 {
			r.Year = strconv.Itoa(d.DateParts[0][0])
			break
		}
	}

	if len(it.ContainerTitle) > 0 && it.ContainerTitle[0] != "" {
		r.Journal = it.ContainerTitle[0]
	}

	if it.Type != "" {
		r.PubTypes = []string{it.Type}
	} else {
		r.PubTypes = []string{types.NoType}
	}

	if it.Abstract != "" {
		r.Abstract = stripTags(it.Abstract)
	}

	return r
}

// Crossref API JSON structures.
type crossrefResponse struct {
	Message struct {
		Items []crossrefItem `json:"items"`
	} `json:"message"`
}

type crossrefItem struct {
	Title           []string         `json:"title"`
	DOI             string           `json:"DOI"`
	URL             string           `json:"URL"`
	Author          []crossrefAuthor `json:"author"`
	PublishedPrint  *crossrefDate    `json:"published-print"`
	PublishedOnline *crossrefDate    `json:"published-online"`
	Issued          *crossrefDate    `json:"issued"`
	ContainerTitle  []string         `json:"container-title"`
	Type            string           `json:"type"`
	Abstract        string           `json:"abstract"`
}

type crossrefAuthor struct {
	Given  string `json:"given"`
	Family string `json:"family"`
}

type crossrefDate struct {
	DateParts [][]int `json:"date-parts"`
}
