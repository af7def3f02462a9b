// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "paper-alert/0.1 (mailto:you@example.com)").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// FetchConfig holds settings for the candidate-fetch stage, shared by the
// Crossref and PubMed sources.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// Rows is the maximum number of candidates requested per source
	// (default 20).
	Rows int `json:"rows" yaml:"rows"`

	// FromDate restricts results to papers published on or after this
	// date, formatted YYYY-MM-DD (default 2010-01-01). Each source
	// rewrites it into its own date syntax.
	FromDate string `json:"from_date" yaml:"from_date"`

	// ContactEmail is sent to both APIs for polite-pool access and is
	// required by NCBI usage policy.
	ContactEmail string `json:"contact_email" yaml:"contact_email"`

	// NCBIAPIKey raises the PubMed rate limit from 3 to 10 requests per
	// second when set.
	NCBIAPIKey string `json:"ncbi_api_key,omitempty" yaml:"ncbi_api_key,omitempty"`
}

// PipelineConfig holds settings for merge, rank, and enrichment.
type PipelineConfig struct {
	// TopN is the number of ranked papers kept per query (default 3).
	TopN int `json:"top_n" yaml:"top_n"`

	// AbstractCharLimit truncates abstracts in the digest; 0 disables
	// truncation (default 500).
	AbstractCharLimit int `json:"abstract_char_limit" yaml:"abstract_char_limit"`
}

// TranslationConfig holds settings for the optional DeepL abstract translation.
type TranslationConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIURL is the DeepL translate endpoint (default the free-tier URL).
	APIURL string `json:"api_url" yaml:"api_url"`

	// AuthKey enables translation when non-empty.
	AuthKey string `json:"auth_key,omitempty" yaml:"auth_key,omitempty"`

	// TargetLang is the DeepL target language code (default "JA").
	TargetLang string `json:"target_lang" yaml:"target_lang"`
}

// Enabled reports whether translation should run.
func (c TranslationConfig) Enabled() bool { return c.AuthKey != "" }

// MailConfig holds SMTP delivery settings for the digest.
type MailConfig struct {
	// SMTPHost is the SMTP server hostname (default smtp.gmail.com).
	SMTPHost string `json:"smtp_host" yaml:"smtp_host"`

	// SMTPPort is the SMTP submission port (default 587, STARTTLS).
	SMTPPort int `json:"smtp_port" yaml:"smtp_port"`

	// Username authenticates to the SMTP server and is the From address.
	Username string `json:"username" yaml:"username"`

	// Password is the SMTP password (for Gmail, an app password).
	Password string `json:"password,omitempty" yaml:"password,omitempty"`

	// To is the recipient address; defaults to Username.
	To string `json:"to" yaml:"to"`
}

// HistoryConfig holds settings for the run-history store.
type HistoryConfig struct {
	// Path is the SQLite database file (default paper-alert.db).
	Path string `json:"path" yaml:"path"`
}

// AlertConfig groups all settings for one alert run.
type AlertConfig struct {
	// Queries lists the keyword queries; each runs through its own
	// pipeline instance.
	Queries []string `json:"queries" yaml:"queries"`

	Fetch       FetchConfig       `json:"fetch" yaml:"fetch"`
	Pipeline    PipelineConfig    `json:"pipeline" yaml:"pipeline"`
	Translation TranslationConfig `json:"translation" yaml:"translation"`
	Mail        MailConfig        `json:"mail" yaml:"mail"`
	History     HistoryConfig     `json:"history" yaml:"history"`
}
