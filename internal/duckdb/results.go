package duckdb

import (
	"context"
	"database/sql/driver"
	"fmt"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/inodb/vibe-skip/internal/pipeline"
	"github.com/inodb/vibe-skip/internal/splice"
)

// DecisionRow is a stored skip decision. Exon positions are 0-based
// indexes into the transcript's exon list.
type DecisionRow struct {
	RunID         int64
	TranscriptID  string
	FirstExon     int
	LastExon      int
	ExonCount     int
	SkippedLength int64
}

// WriteResults batch-inserts decisions and sites of one run using the
// Appender API.
func (s *Store) WriteResults(runID int64, results []*pipeline.Result) error {
	if len(results) == 0 {
		return nil
	}

	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var decisions, sites *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		decisions, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "skip_decisions")
		if err != nil {
			return err
		}
		sites, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "splice_sites")
		if err != nil {
			decisions.Close()
		}
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer decisions.Close()
	defer sites.Close()

	for _, r := range results {
		for _, d := range r.Decisions {
			if err := decisions.AppendRow(
				runID, r.TranscriptID,
				int64(d.Run.First()), int64(d.Run.Last()),
				int64(len(d.Run)), d.SkippedLength,
			); err != nil {
				return fmt.Errorf("append decision: %w", err)
			}
			for _, site := range d.Sites {
				if err := sites.AppendRow(
					runID, r.TranscriptID,
					site.Chrom, site.Begin, site.End, site.Name,
				); err != nil {
					return fmt.Errorf("append site: %w", err)
				}
			}
		}
	}

	if err := decisions.Flush(); err != nil {
		return fmt.Errorf("flush decisions: %w", err)
	}
	return sites.Flush()
}

// Decisions returns the decisions of a run ordered by transcript and first exon.
func (s *Store) Decisions(runID int64) ([]DecisionRow, error) {
	rows, err := s.db.Query(`SELECT run_id, transcript_id, first_exon, last_exon,
		exon_count, skipped_length
		FROM skip_decisions WHERE run_id = ?
		ORDER BY transcript_id, first_exon, last_exon`, runID)
	if err != nil {
		return nil, fmt.Errorf("query decisions: %w", err)
	}
	defer rows.Close()

	var out []DecisionRow
	for rows.Next() {
		var (
			d                  DecisionRow
			first, last, count int64
		)
		if err := rows.Scan(&d.RunID, &d.TranscriptID, &first, &last, &count, &d.SkippedLength); err != nil {
			return nil, fmt.Errorf("scan decision: %w", err)
		}
		d.FirstExon, d.LastExon, d.ExonCount = int(first), int(last), int(count)
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate decisions: %w", err)
	}
	return out, nil
}

// Sites returns the distinct sites of a run in BED order.
func (s *Store) Sites(runID int64) ([]splice.Site, error) {
	return s.querySites(`SELECT DISTINCT chrom, begin_pos, end_pos, name
		FROM splice_sites WHERE run_id = ?
		ORDER BY chrom, begin_pos, end_pos, name`, runID)
}

// SitesByTranscript returns the distinct sites stored for a transcript
// across all runs.
func (s *Store) SitesByTranscript(transcriptID string) ([]splice.Site, error) {
	return s.querySites(`SELECT DISTINCT chrom, begin_pos, end_pos, name
		FROM splice_sites WHERE transcript_id = ?
		ORDER BY chrom, begin_pos, end_pos, name`, transcriptID)
}

func (s *Store) querySites(query string, args ...any) ([]splice.Site, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sites: %w", err)
	}
	defer rows.Close()

	var out []splice.Site
	for rows.Next() {
		var site splice.Site
		if err := rows.Scan(&site.Chrom, &site.Begin, &site.End, &site.Name); err != nil {
			return nil, fmt.Errorf("scan site: %w", err)
		}
		out = append(out, site)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sites: %w", err)
	}
	return out, nil
}

// CountDecisions returns the number of decisions stored for a run.
func (s *Store) CountDecisions(runID int64) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM skip_decisions WHERE run_id = ?`, runID).Scan(&n)
	return n, err
}

// ClearResults removes all runs and their results.
func (s *Store) ClearResults() error {
	for _, table := range []string{"splice_sites", "skip_decisions", "runs"} {
		if _, err := s.db.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}

// SaveRun registers a run and stores its results. A run whose results
// cannot be stored is removed again.
func (s *Store) SaveRun(source FileFingerprint, convention string, maxSkip int, results []*pipeline.Result) (Run, error) {
	run, err := s.BeginRun(source, convention, maxSkip)
	if err != nil {
		return Run{}, err
	}
	if err := s.WriteResults(run.ID, results); err != nil {
		if derr := s.DeleteRun(run.ID); derr != nil {
			return Run{}, fmt.Errorf("store results: %w (remove run %d: %v)", err, run.ID, derr)
		}
		return Run{}, fmt.Errorf("store results: %w", err)
	}
	return run, nil
}

// DeleteRun removes a run and its results.
func (s *Store) DeleteRun(runID int64) error {
	for _, table := range []string{"splice_sites", "skip_decisions", "runs"} {
		if _, err := s.db.Exec("DELETE FROM "+table+" WHERE run_id = ?", runID); err != nil {
			return fmt.Errorf("delete run %d from %s: %w", runID, table, err)
		}
	}
	return nil
}
