// Package transcript groups exon records into transcripts.
package transcript

import (
	"github.com/inodb/vibe-skip/internal/gtf"
)

// Grouping keys.
const (
	KeyTranscriptID   = "transcript_id"
	KeyTranscriptName = "transcript_name"
)

// Defaults for the biotype filter (Ensembl naming).
const (
	DefaultBiotypeKey = "transcript_biotype"
	DefaultBiotype    = "protein_coding"
)

// RecordSource yields records one at a time, nil at the end.
// *gtf.Parser implements it.
type RecordSource interface {
	Next() (*gtf.Record, error)
}

// Options controls which records are grouped and how.
type Options struct {
	// Key is the attribute identifying a transcript.
	Key string
	// BiotypeKey is the attribute holding the transcript biotype.
	BiotypeKey string
	// Biotype is the accepted biotype. Empty disables the filter.
	Biotype string
}

// DefaultOptions groups protein coding exons by transcript_id.
func DefaultOptions() Options {
	return Options{
		Key:        KeyTranscriptID,
		BiotypeKey: DefaultBiotypeKey,
		Biotype:    DefaultBiotype,
	}
}

// Group is one transcript: exons in file order sharing an identifier.
type Group struct {
	ID    string
	Exons []*gtf.Record
}

// Grouper groups consecutive usable exon records that share a transcript
// identifier. Exons of one transcript must be contiguous in the input: only
// the current group is held in memory, and an identifier that re-appears
// after another transcript starts a new group.
type Grouper struct {
	src     RecordSource
	opts    Options
	current *Group
	done    bool
}

// NewGrouper creates a grouper over src.
func NewGrouper(src RecordSource, opts Options) *Grouper {
	if opts.Key == "" {
		opts.Key = KeyTranscriptID
	}
	if opts.BiotypeKey == "" {
		opts.BiotypeKey = DefaultBiotypeKey
	}
	return &Grouper{src: src, opts: opts}
}

// Usable reports whether a record takes part in exon-skip analysis.
func (g *Grouper) Usable(r *gtf.Record) bool {
	if r.Feature != "exon" {
		return false
	}
	if g.opts.Biotype == "" {
		return true
	}
	biotype, ok := r.Attr(g.opts.BiotypeKey)
	return ok && biotype == g.opts.Biotype
}

// Next returns the next complete transcript group.
// Returns nil, nil when the input is exhausted.
func (g *Grouper) Next() (*Group, error) {
	if g.done {
		return nil, nil
	}

	for {
		r, err := g.src.Next()
		if err != nil {
			return nil, err
		}
		if r == nil {
			// Flush the last group
			g.done = true
			last := g.current
			g.current = nil
			return last, nil
		}

		if !g.Usable(r) {
			continue
		}

		id, err := r.RequireAttr(g.opts.Key)
		if err != nil {
			return nil, err
		}

		if g.current == nil {
			g.current = &Group{ID: id, Exons: []*gtf.Record{r}}
			continue
		}
		if g.current.ID == id {
			g.current.Exons = append(g.current.Exons, r)
			continue
		}

		finished := g.current
		g.current = &Group{ID: id, Exons: []*gtf.Record{r}}
		return finished, nil
	}
}

// Lengths returns the exon lengths of the group in order.
func (gr *Group) Lengths() ([]int64, error) {
	lengths := make([]int64, len(gr.Exons))
	for i, e := range gr.Exons {
		n, err := e.Length()
		if err != nil {
			return nil, err
		}
		lengths[i] = n
	}
	return lengths, nil
}
