// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package mail renders the per-run digest and delivers it over SMTP.
package mail

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/pdiddy/paper-alert/internal/pipeline"
)

// Digest is one alert run's renderable outcome: a section per query, with
// per-source advisory notes kept distinct from "no papers found".
type Digest struct {
	RunTime            time.Time
	Sections           []pipeline.QueryResult
	TranslationEnabled bool

	// AbstractCharLimit truncates rendered abstracts; 0 renders in full.
	AbstractCharLimit int
}

const timeLayout = "2006-01-02 15:04"

// HasPapers reports whether any query surfaced at least one paper.
func (d Digest) HasPapers() bool {
	for _, s := range d.Sections {
		if !s.Empty() {
			return true
		}
	}
	return false
}

// Subject returns the mail subject; a run with no papers at all is flagged
// as an error so it stands out in the inbox.
func (d Digest) Subject() string {
	ts := d.RunTime.Format(timeLayout)
	if !d.HasPapers() {
		return fmt.Sprintf("paper-alert ERROR (no results) - %s", ts)
	}
	return fmt.Sprintf("paper-alert (%d queries) - %s", len(d.Sections), ts)
}

// PlainBody renders the plain-text alternative.
func (d Digest) PlainBody() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Run time: %s\n\n", d.RunTime.Format(timeLayout))
	if !d.TranslationEnabled {
		b.WriteString("NOTE: abstract translation disabled (no DeepL auth key).\n\n")
	}

	sections := make([]string, 0, len(d.Sections))
	for _, s := range d.Sections {
		sections = append(sections, d.plainSection(s))
	}
	b.WriteString(strings.Join(sections, "\n"+strings.Repeat("-", 60)+"\n\n"))
	return b.String()
}

func (d Digest) plainSection(s pipeline.QueryResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "=== Query: %q ===\n", s.Query)

	if s.Empty() {
		b.WriteString("No papers found.\n")
		for _, note := range s.SourceNotes {
			fmt.Fprintf(&b, "[%s]\n", note)
		}
		return b.String()
	}

	for _, note := range s.SourceNotes {
		fmt.Fprintf(&b, "[note: %s]\n", note)
	}
	if len(s.SourceNotes) > 0 {
		b.WriteString("\n")
	}

	for i, r := range s.Records {
		fmt.Fprintf(&b, "[%d] %s\n", i+1, r.Title)
		fmt.Fprintf(&b, "    Authors: %s\n", r.Authors)
		fmt.Fprintf(&b, "    Journal: %s\n", r.Journal)
		fmt.Fprintf(&b, "    Year   : %s\n", r.Year)
		fmt.Fprintf(&b, "    Type   : %s\n", r.ArticleType)
		fmt.Fprintf(&b, "    DOI    : %s\n", r.DOI)
		fmt.Fprintf(&b, "    Source : %s\n", r.Source)
		fmt.Fprintf(&b, "    URL    : %s\n", r.URL)

		if r.Abstract != "" {
			b.WriteString("    Abstract:\n")
			for _, line := range strings.Split(d.clipAbstract(r.Abstract), "\n") {
				b.WriteString("        " + line + "\n")
			}
		}
		if r.AbstractTranslated != "" {
			b.WriteString("    Abstract (translated):\n")
			for _, line := range strings.Split(d.clipAbstract(r.AbstractTranslated), "\n") {
				b.WriteString("        " + line + "\n")
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

// clipAbstract truncates an abstract to the configured character limit.
// The limit counts runes, not bytes: translated abstracts are routinely
// multibyte and a byte cut could split a rune.
func (d Digest) clipAbstract(s string) string {
	if d.AbstractCharLimit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= d.AbstractCharLimit {
		return s
	}
	return string(runes[:d.AbstractCharLimit]) + "..."
}

const htmlTemplate = `<html><body>
<p>Run time: {{.RunTime}}</p>
{{- if not .TranslationEnabled}}
<p><i>NOTE: abstract translation disabled (no DeepL auth key).</i></p>
{{- end}}
<hr>
{{- range $i, $s := .Sections}}
{{- if $i}}<hr>{{end}}
<h2>Query: &quot;{{$s.Query}}&quot;</h2>
{{- if $s.Empty}}
<p>No papers found.</p>
{{- range $s.SourceNotes}}<p><i>[{{.}}]</i></p>{{end}}
{{- else}}
{{- range $s.SourceNotes}}<p><i>[note: {{.}}]</i></p>{{end}}
{{- range $n, $r := $s.Records}}
<p>
<b>[{{inc $n}}] {{$r.Title}}</b><br>
Authors: {{$r.Authors}}<br>
Journal: {{$r.Journal}}<br>
Year: {{$r.Year}}<br>
Type: {{$r.ArticleType}}<br>
DOI: {{$r.DOI}}<br>
Source: {{$r.Source}}<br>
URL: <a href="{{$r.URL}}">{{$r.URL}}</a><br>
{{- if $r.Abstract}}
<br><b>Abstract:</b><br>
<div style="white-space: pre-wrap; font-size:90%;">{{clip $r.Abstract}}</div>
{{- end}}
{{- if $r.AbstractTranslated}}
<br><b>Abstract (translated):</b><br>
<div style="white-space: pre-wrap; font-size:90%;">{{clip $r.AbstractTranslated}}</div>
{{- end}}
</p>
{{- end}}
{{- end}}
{{- end}}
</body></html>
`

// HTMLBody renders the HTML alternative. Record fields are escaped by the
// template engine.
func (d Digest) HTMLBody() (string, error) {
	tmpl, err := template.New("digest").Funcs(template.FuncMap{
		"inc":  func(n int) int { return n + 1 },
		"clip": d.clipAbstract,
	}).Parse(htmlTemplate)
	if err != nil {
		return "", fmt.Errorf("parsing digest template: %w", err)
	}

	var b strings.Builder
	data := struct {
		RunTime            string
		TranslationEnabled bool
		Sections           []pipeline.QueryResult
	}{
		RunTime:            d.RunTime.Format(timeLayout),
		TranslationEnabled: d.TranslationEnabled,
		Sections:           d.Sections,
	}
	if err := tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("rendering HTML digest: %w", err)
	}
	return b.String(), nil
}
