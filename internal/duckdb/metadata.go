package duckdb

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"
)

// FileFingerprint holds stat-based identity for a file.
type FileFingerprint struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// StatFile creates a FileFingerprint from an on-disk file.
func StatFile(path string) (FileFingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileFingerprint{}, err
	}
	return FileFingerprint{
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// Run records where a set of results came from.
type Run struct {
	ID         int64
	Source     FileFingerprint
	Convention string
	MaxSkip    int
	CreatedAt  time.Time
}

// BeginRun registers a new run and returns its id.
func (s *Store) BeginRun(source FileFingerprint, convention string, maxSkip int) (Run, error) {
	var id int64
	if err := s.db.QueryRow(`SELECT COALESCE(MAX(run_id), 0) + 1 FROM runs`).Scan(&id); err != nil {
		return Run{}, fmt.Errorf("next run id: %w", err)
	}

	r := Run{
		ID:         id,
		Source:     source,
		Convention: convention,
		MaxSkip:    maxSkip,
		CreatedAt:  time.Now().UTC().Truncate(time.Microsecond),
	}
	_, err := s.db.Exec(`INSERT INTO runs VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, source.Path, source.Size, source.ModTime.UnixNano(),
		convention, int64(maxSkip), r.CreatedAt)
	if err != nil {
		return Run{}, fmt.Errorf("insert run: %w", err)
	}
	return r, nil
}

// LatestRun returns the most recent run for the source path, or false when
// there is none.
func (s *Store) LatestRun(path string) (Run, bool, error) {
	var (
		r       Run
		mtime   int64
		maxSkip int64
	)
	err := s.db.QueryRow(`SELECT run_id, source_path, source_size, source_mtime,
		convention, max_skip, created_at
		FROM runs WHERE source_path = ?
		ORDER BY run_id DESC LIMIT 1`, path).Scan(
		&r.ID, &r.Source.Path, &r.Source.Size, &mtime,
		&r.Convention, &maxSkip, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, false, nil
	}
	if err != nil {
		return Run{}, false, fmt.Errorf("query run: %w", err)
	}
	r.Source.ModTime = time.Unix(0, mtime)
	r.MaxSkip = int(maxSkip)
	return r, true, nil
}

// Fresh reports whether the run was computed from a file with the given
// fingerprint.
func (r Run) Fresh(fp FileFingerprint) bool {
	return r.Source.Size == fp.Size && r.Source.ModTime.Equal(fp.ModTime)
}
