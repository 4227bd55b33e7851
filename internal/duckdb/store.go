// Package duckdb persists exon skip decisions and splice sites in DuckDB so
// results from several annotation runs can be queried with SQL.
package duckdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"
)

// Store manages a DuckDB connection holding skip results.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// ensureSchema creates tables if they don't exist.
func (s *Store) ensureSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			run_id BIGINT PRIMARY KEY,
			source_path VARCHAR,
			source_size BIGINT,
			source_mtime BIGINT,
			convention VARCHAR,
			max_skip BIGINT,
			created_at TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS skip_decisions (
			run_id BIGINT,
			transcript_id VARCHAR,
			first_exon BIGINT,
			last_exon BIGINT,
			exon_count BIGINT,
			skipped_length BIGINT
		)`,
		`CREATE TABLE IF NOT EXISTS splice_sites (
			run_id BIGINT,
			transcript_id VARCHAR,
			chrom VARCHAR,
			begin_pos BIGINT,
			end_pos BIGINT,
			name VARCHAR
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
