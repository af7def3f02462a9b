// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history persists alert runs in a local SQLite database so past
// digests remain inspectable from the CLI.
package history

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/paper-alert/internal/pipeline"
	"github.com/pdiddy/paper-alert/pkg/types"
)

// Store manages the run-history SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the history database at cfg.Path and creates the
// schema if it does not exist.
func Open(cfg types.HistoryConfig) (*Store, error) {
	path := cfg.Path
	if path == "" {
		path = "paper-alert.db"
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_at TEXT NOT NULL,
			queries TEXT NOT NULL,
			papers_sent INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS run_papers (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id INTEGER NOT NULL REFERENCES runs(id),
			query TEXT NOT NULL,
			rank INTEGER NOT NULL,
			title TEXT,
			doi TEXT,
			year TEXT,
			source TEXT,
			article_type TEXT,
			url TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_run_papers_run_id ON run_papers(run_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// RecordRun stores one alert run and its ranked papers, returning the run id.
func (s *Store) RecordRun(runAt time.Time, results []pipeline.QueryResult) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var queries []string
	sent := 0
	for _, r := range results {
		queries = append(queries, r.Query)
		sent += len(r.Records)
	}

	res, err := tx.Exec(
		`INSERT INTO runs (run_at, queries, papers_sent) VALUES (?, ?, ?)`,
		runAt.UTC().Format(time.RFC3339), strings.Join(queries, "; "), sent,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	for _, r := range results {
		for i, rec := range r.Records {
			_, err := tx.Exec(
				`INSERT INTO run_papers
					(run_id, query, rank, title, doi, year, source, article_type, url)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				runID, r.Query, i+1, rec.Title, rec.DOI, rec.Year,
				rec.Source, rec.ArticleType, rec.URL,
			)
			if err != nil {
				return 0, fmt.Errorf("inserting paper: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// RunSummary describes one recorded run.
type RunSummary struct {
	ID         int64
	RunAt      time.Time
	Queries    string
	PapersSent int
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, run_at, queries, papers_sent FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var r RunSummary
		var runAt string
		if err := rows.Scan(&r.ID, &runAt, &r.Queries, &r.PapersSent); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if t, parseErr := time.Parse(time.RFC3339, runAt); parseErr == nil {
			r.RunAt = t
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// PaperEntry is one ranked paper as recorded for a run.
type PaperEntry struct {
	Query       string
	Rank        int
	Title       string
	DOI         string
	Year        string
	Source      string
	ArticleType string
	URL         string
}

// Papers returns the papers recorded for a run, in query and rank order.
func (s *Store) Papers(runID int64) ([]PaperEntry, error) {
	rows, err := s.db.Query(
		`SELECT query, rank, title, doi, year, source, article_type, url
		 FROM run_papers WHERE run_id = ? ORDER BY query, rank`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying papers: %w", err)
	}
	defer rows.Close()

	var papers []PaperEntry
	for rows.Next() {
		var p PaperEntry
		if err := rows.Scan(&p.Query, &p.Rank, &p.Title, &p.DOI, &p.Year,
			&p.Source, &p.ArticleType, &p.URL); err != nil {
			return nil, fmt.Errorf("scanning paper: %w", err)
		}
		papers = append(papers, p)
	}
	return papers, rows.Err()
}
