// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the paper-alert pipeline.
package types

import "strings"

// Sentinel values substitute for missing provider data so every display
// field of a Record is always populated.
const (
	NoTitle    = "(no title)"
	NoDOI      = "(no DOI)"
	NoURL      = "(no URL)"
	NoAuthors  = "(no authors)"
	NoJournal  = "(no journal)"
	NoYear     = "(n.d.)"
	NoAbstract = "(no abstract)"
	NoType     = "(no type)"
	Unknown    = "(unknown)"
)

// Source names as they appear in Record.Source. A record confirmed by both
// providers carries them joined with "+".
const (
	SourceCrossref = "Crossref"
	SourcePubMed   = "PubMed"
)

// Record is a paper in the common schema produced by the source
// normalizers. All string fields except PMID, Abstract and
// AbstractTranslated are guaranteed non-empty: sentinels stand in for data
// a provider did not supply.
type Record struct {
	// Title is the paper title, or NoTitle.
	Title string `json:"title" yaml:"title"`

	// DOI is the digital object identifier as reported by the provider,
	// or NoDOI. Compared case-insensitively; the stored value keeps the
	// provider's casing.
	DOI string `json:"doi" yaml:"doi"`

	// URL is the provider URL, a doi.org link derived from DOI, or NoURL.
	URL string `json:"url" yaml:"url"`

	// Authors is a comma-joined list of display names, or NoAuthors.
	Authors string `json:"authors" yaml:"authors"`

	// Year is a 4-digit publication year, or NoYear.
	Year string `json:"year" yaml:"year"`

	// Journal is the container title, or NoJournal.
	Journal string `json:"journal" yaml:"journal"`

	// Query is the search query that produced this record.
	Query string `json:"query" yaml:"query"`

	// Source names the provider(s) that reported this record, e.g.
	// "Crossref", "PubMed", or "Crossref+PubMed" after a merge.
	Source string `json:"source" yaml:"source"`

	// PMID is the PubMed identifier, set only for records seen by PubMed.
	// It keys the abstract/publication-type enrichment lookup.
	PMID string `json:"pmid,omitempty" yaml:"pmid,omitempty"`

	// Abstract is the English abstract when available.
	Abstract string `json:"abstract,omitempty" yaml:"abstract,omitempty"`

	// AbstractTranslated is the translated abstract when translation ran.
	AbstractTranslated string `json:"abstract_translated,omitempty" yaml:"abstract_translated,omitempty"`

	// PubTypes lists provider-asserted publication type labels, unique,
	// in first-seen order. Nil when no provider reported any.
	PubTypes []string `json:"pub_types,omitempty" yaml:"pub_types,omitempty"`

	// ArticleType is the classifier label derived from PubTypes. Empty
	// until classification runs.
	ArticleType string `json:"article_type,omitempty" yaml:"article_type,omitempty"`
}

// Enrichment carries the supplementary fields the enrichment fetch returns
// for one PMID: the full abstract text and the PublicationTypeList labels.
type Enrichment struct {
	Abstract string   `json:"abstract" yaml:"abstract"`
	PubTypes []string `json:"pub_types,omitempty" yaml:"pub_types,omitempty"`
}

// HasDOI reports whether the record carries a usable DOI.
func (r Record) HasDOI() bool {
	return r.DOI != "" && r.DOI != NoDOI
}

// HasSource reports whether name appears in the "+"-separated source list.
func (r Record) HasSource(name string) bool {
	for _, s := range strings.Split(r.Source, "+") {
		if s == name {
			return true
		}
	}
	return false
}

// FromPubMed reports whether PubMed is among the record's sources.
func (r Record) FromPubMed() bool {
	return r.HasSource(SourcePubMed)
}
