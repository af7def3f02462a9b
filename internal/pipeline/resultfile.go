// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paper-alert/pkg/types"
)

// ResultFile is the on-disk representation of one query's ranked results.
// A search can be saved to a file and reloaded later without re-querying
// the APIs.
type ResultFile struct {
	Query   string         `yaml:"query"`
	Config  ResultConfig   `yaml:"config"`
	Records []types.Record `yaml:"records"`
	Summary ResultSummary  `yaml:"summary"`
}

// ResultConfig stores the settings that produced the results.
type ResultConfig struct {
	TopN int `yaml:"top_n"`
	Rows int `yaml:"rows"`
}

// ResultSummary stores result statistics and a timestamp.
type ResultSummary struct {
	Total       int       `yaml:"total"`
	DupsRemoved int       `yaml:"duplicates_removed"`
	SourceNotes []string  `yaml:"source_notes,omitempty"`
	Timestamp   time.Time `yaml:"timestamp"`
}

// WriteResultFile saves a query result to a YAML file.
func WriteResultFile(path string, result QueryResult, topN, rows int) error {
	rf := ResultFile{
		Query:   result.Query,
		Config:  ResultConfig{TopN: topN, Rows: rows},
		Records: result.Records,
		Summary: ResultSummary{
			Total:       len(result.Records),
			DupsRemoved: result.DupsRemoved,
			SourceNotes: result.SourceNotes,
			Timestamp:   time.Now(),
		},
	}

	data, err := yaml.Marshal(&rf)
	if err != nil {
		return fmt.Errorf("marshaling result file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadResultFile loads a previously saved result file from disk.
func ReadResultFile(path string) (*ResultFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading result file: %w", err)
	}
	var rf ResultFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing result file: %w", err)
	}
	return &rf, nil
}
