// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// FormatTable writes a query result as a human-readable table to w.
func FormatTable(result QueryResult, w io.Writer) {
	for _, note := range result.SourceNotes {
		fmt.Fprintf(w, "note: %s\n", note)
	}

	if result.Empty() {
		fmt.Fprintln(w, "No papers found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-60s  %-5s  %-6s  %-18s  %s\n",
		"Rank", "Title", "Year", "Score", "Source", "DOI")
	fmt.Fprintln(w, strings.Repeat("-", 110))

	for i, r := range result.Records {
		fmt.Fprintf(w, "%-4d  %-60s  %-5s  %-6d  %-18s  %s\n",
			i+1, truncate(r.Title, 60), r.Year,
			ScoreTitle(r.Title, result.Query), r.Source, r.DOI)
	}

	fmt.Fprintf(w, "\n%d papers", len(result.Records))
	if result.DupsRemoved > 0 {
		fmt.Fprintf(w, " (%d duplicates removed)", result.DupsRemoved)
	}
	fmt.Fprintln(w)
}

// FormatJSON writes a query result's records as indented JSON to w.
func FormatJSON(result QueryResult, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result.Records)
}

// truncate shortens s to max runes, ellipsis included. Titles can carry
// multibyte characters, so the cut must land on a rune boundary.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
