// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/time/rate"

	"github.com/pdiddy/paper-alert/pkg/types"
)

// EFetch retrieves abstracts and publication types for a batch of PMIDs in
// one EFetch call. It backs the pipeline's enrichment stage, which only
// runs for the already-ranked subset, so one alert run costs at most one
// EFetch request per query.
type EFetch struct {
	Client  *http.Client
	limiter *rate.Limiter
	apiKey  string
	cfg     types.FetchConfig
}

// NewEFetch returns an EFetch client with the same NCBI rate policy as the
// PubMed source.
func NewEFetch(client *http.Client, apiKey string, cfg types.FetchConfig) *EFetch {
	r := ncbiRateWithoutKey
	if apiKey != "" {
		r = ncbiRateWithKey
	}
	return &EFetch{
		Client:  client,
		limiter: rate.NewLimiter(rate.Limit(r), 1),
		apiKey:  apiKey,
		cfg:     cfg,
	}
}

// Fetch returns enrichment data keyed by PMID. Articles without abstract
// text map to an Enrichment with an empty Abstract so existing values are
// never clobbered by a placeholder. An empty id list makes no request.
func (e *EFetch) Fetch(ctx context.Context, pmids []string) (map[string]types.Enrichment, error) {
	if len(pmids) == 0 {
		return map[string]types.Enrichment{}, nil
	}

	params := url.Values{
		"db":      {"pubmed"},
		"id":      {strings.Join(pmids, ",")},
		"retmode": {"xml"},
		"tool":    {toolName},
	}
	if e.cfg.ContactEmail != "" {
		params.Set("email", e.cfg.ContactEmail)
	}
	if e.apiKey != "" {
		params.Set("api_key", e.apiKey)
	}

	if err := e.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	body, err := eutilsGet(ctx, e.Client, "efetch.fcgi", params, e.cfg.UserAgent)
	if err != nil {
		return nil, fmt.Errorf("PubMed EFetch: %w", err)
	}

	var set pubmedArticleSet
	if err := xml.Unmarshal(body, &set); err != nil {
		return nil, fmt.Errorf("parsing EFetch response: %w", err)
	}

	info := make(map[string]types.Enrichment, len(set.Articles))
	for _, article := range set.Articles {
		pmid := strings.TrimSpace(article.PMID)
		if pmid == "" {
			continue
		}

		var sections []string
		for _, a := range article.AbstractTexts {
			if text := stripTags(a.InnerXML); text != "" {
				sections = append(sections, text)
			}
		}

		var pubTypes []string
		for _, pt := range article.PubTypes {
			if t := strings.TrimSpace(pt); t != "" {
				pubTypes = append(pubTypes, t)
			}
		}

		info[pmid] = types.Enrichment{
			Abstract: strings.Join(sections, "\n"),
			PubTypes: pubTypes,
		}
	}
	return info, nil
}

// EFetch XML structures. AbstractText bodies can nest inline markup, so
// they are captured as innerxml and tag-stripped.
type pubmedArticleSet struct {
	Articles []pubmedArticle `xml:"PubmedArticle"`
}

type pubmedArticle struct {
	PMID          string         `xml:"MedlineCitation>PMID"`
	AbstractTexts []abstractText `xml:"MedlineCitation>Article>Abstract>AbstractText"`
	PubTypes      []string       `xml:"MedlineCitation>Article>PublicationTypeList>PublicationType"`
}

type abstractText struct {
	InnerXML string `xml:",innerxml"`
}
