// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package source implements the bibliographic providers behind the
// pipeline's Source interface: Crossref and PubMed candidate fetching plus
// the PubMed EFetch enrichment client. Each provider normalizes its raw
// payload into the common Record schema; raw provider shapes never leave
// this package.
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/pdiddy/paper-alert/internal/httputil"
)

// toolName identifies this application to NCBI (tool parameter) and names
// the Crossref polite-pool User-Agent.
const toolName = "paper-alert"

// tagPattern matches markup tags. Crossref abstracts arrive with JATS
// markup and EFetch abstract sections can nest inline tags; both get the
// same rough strip.
var tagPattern = regexp.MustCompile(`<[^>]+>`)

// stripTags removes markup tags and trims the result.
func stripTags(s string) string {
	return strings.TrimSpace(tagPattern.ReplaceAllString(s, ""))
}

// eutilsGet performs one GET against an E-utilities endpoint with retry on
// rate-limit responses and returns the full body.
func eutilsGet(ctx context.Context, client *http.Client, endpoint string, params url.Values, userAgent string) ([]byte, error) {
	reqURL := eutilsBase + "/" + endpoint + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, endpoint)
	}
	return io.ReadAll(resp.Body)
}
