// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive keeps a SQLite history of classification runs so the
// stage of a technology can be compared across source data releases.
package archive

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/techlife/pkg/types"
)

// timeLayout is fixed-width so recorded_at sorts chronologically as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Store manages the run history database.
type Store struct {
	db *sql.DB
}

// Run identifies one archived pipeline run.
type Run struct {
	ID         string    `json:"id" yaml:"id"`
	RecordedAt time.Time `json:"recorded_at" yaml:"recorded_at"`
	OutputPath string    `json:"output_path" yaml:"output_path"`
	Total      int       `json:"total" yaml:"total"`
}

// Classification is the archived stage of one technology in one run.
type Classification struct {
	RunID      string       `json:"run_id" yaml:"run_id"`
	RecordedAt time.Time    `json:"recorded_at" yaml:"recorded_at"`
	Name       string       `json:"name" yaml:"name"`
	Stage      string       `json:"stage" yaml:"stage"`
	Bucket     types.Bucket `json:"bucket" yaml:"bucket"`
}

// Open opens or creates the database at path, creating parent directories
// and the schema as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating archive directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
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
			id TEXT PRIMARY KEY,
			recorded_at TEXT NOT NULL,
			output_path TEXT,
			total INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS classifications (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			stage TEXT NOT NULL,
			bucket TEXT NOT NULL,
			PRIMARY KEY (run_id, name)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_classifications_name ON classifications(name)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores doc as a new run in a single transaction and returns it.
func (s *Store) Record(ctx context.Context, doc types.OutputDocument, outputPath string, at time.Time) (Run, error) {
	run := Run{
		ID:         uuid.NewString(),
		RecordedAt: at.UTC(),
		OutputPath: outputPath,
		Total:      len(doc.TechLifeCycle),
	}

	buckets := bucketIndex(doc.PortfolioSuggestions)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, recorded_at, output_path, total) VALUES (?, ?, ?, ?)`,
		run.ID, run.RecordedAt.Format(timeLayout), run.OutputPath, run.Total,
	); err != nil {
		return Run{}, fmt.Errorf("inserting run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO classifications (run_id, name, stage, bucket) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return Run{}, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range doc.TechLifeCycle {
		if _, err := stmt.ExecContext(ctx, run.ID, e.Name, e.Stage, string(buckets[e.Name])); err != nil {
			return Run{}, fmt.Errorf("inserting %q: %w", e.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("committing run: %w", err)
	}
	return run, nil
}

// History returns every archived classification of name, newest run first.
func (s *Store) History(ctx context.Context, name string) ([]Classification, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.run_id, r.recorded_at, c.name, c.stage, c.bucket
		FROM classifications c JOIN runs r ON r.id = c.run_id
		WHERE c.name = ?
		ORDER BY r.recorded_at DESC`, name)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var out []Classification
	for rows.Next() {
		var (
			c        Classification
			recorded string
			bucket   string
		)
		if err := rows.Scan(&c.RunID, &recorded, &c.Name, &c.Stage, &bucket); err != nil {
			return nil, fmt.Errorf("scanning history: %w", err)
		}
		c.RecordedAt, _ = time.Parse(timeLayout, recorded)
		c.Bucket = types.Bucket(bucket)
		out = append(out, c)
	}
	return out, rows.Err()
}

// Runs lists archived runs, newest first.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, recorded_at, output_path, total FROM runs ORDER BY recorded_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var (
			r        Run
			recorded string
		)
		if err := rows.Scan(&r.ID, &recorded, &r.OutputPath, &r.Total); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.RecordedAt, _ = time.Parse(timeLayout, recorded)
		out = append(out, r)
	}
	return out, rows.Err()
}

func bucketIndex(ps types.PortfolioSuggestions) map[string]types.Bucket {
	idx := make(map[string]types.Bucket, len(ps.HighRisk)+len(ps.MediumRisk)+len(ps.LowRisk))
	for _, n := range ps.HighRisk {
		idx[n] = types.BucketHighRisk
	}
	for _, n := range ps.MediumRisk {
		idx[n] = types.BucketMediumRisk
	}
	for _, n := range ps.LowRisk {
		idx[n] = types.BucketLowRisk
	}
	return idx
}
