// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package translate calls the DeepL API to translate abstracts. Translation
// is an optional enrichment: every failure mode degrades to "no
// translation" rather than an aborted run.
package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pdiddy/paper-alert/pkg/types"
)

// DefaultAPIURL is the DeepL free-tier translate endpoint.
const DefaultAPIURL = "https://api-free.deepl.com/v2/translate"

// Client translates batches of text via the DeepL JSON API.
type Client struct {
	HTTP *http.Client
	Cfg  types.TranslationConfig
}

// Translate translates texts in one request and returns the results in
// input order. When DeepL returns fewer translations than requested the
// missing tail is empty strings; entries the API could not translate stay
// empty. The caller treats empty as "skip".
func (c *Client) Translate(ctx context.Context, texts []string) ([]string, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	apiURL := c.Cfg.APIURL
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	target := c.Cfg.TargetLang
	if target == "" {
		target = "JA"
	}

	payload, err := json.Marshal(deeplRequest{Text: texts, TargetLang: target})
	if err != nil {
		return nil, fmt.Errorf("marshaling DeepL request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "DeepL-Auth-Key "+c.Cfg.AuthKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("DeepL request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("DeepL returned HTTP %d", resp.StatusCode)
	}

	var dr deeplResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return nil, fmt.Errorf("parsing DeepL response: %w", err)
	}

	out := make([]string, len(texts))
	for i := range texts {
		if i < len(dr.Translations) {
			out[i] = dr.Translations[i].Text
		}
	}
	return out, nil
}

// DeepL API JSON structures.
type deeplRequest struct {
	Text       []string `json:"text"`
	TargetLang string   `json:"target_lang"`
}

type deeplResponse struct {
	Translations []struct {
		Text string `json:"text"`
	} `json:"translations"`
}
