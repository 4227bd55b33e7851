// Package include selects exons listed in a BED inclusion file.
//
// Each BED4 line names an exon as {transcript_id}:{exon_number}, the form
// emitted by the sites command. Exons can be selected by that name or by
// overlap with the BED intervals.
package include

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/biogo/biogo/io/featio"
	"github.com/biogo/biogo/io/featio/bed"
	"github.com/biogo/store/interval"

	"github.com/inodb/vibe-skip/internal/gtf"
)

// Key identifies an exon within a transcript.
type Key struct {
	ID         string
	ExonNumber string
}

// ParseName splits a site name of the form {id}:{exon_number}. The id may
// itself contain colons; the exon number follows the last one.
func ParseName(name string) (Key, bool) {
	i := strings.LastIndexByte(name, ':')
	if i <= 0 || i == len(name)-1 {
		return Key{}, false
	}
	return Key{ID: name[:i], ExonNumber: name[i+1:]}, true
}

// Set holds the exons and intervals read from a BED file.
type Set struct {
	names   map[Key]struct{}
	trees   map[string]*interval.IntTree
	regions int
	// Unnamed counts BED lines whose name did not parse as an exon key.
	Unnamed int
}

// LoadBED reads an inclusion set from a BED file.
func LoadBED(path string) (*Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open BED file: %w", err)
	}
	defer f.Close()

	s, err := ReadBED(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return s, nil
}

// ReadBED reads an inclusion set from BED4 data.
func ReadBED(r io.Reader) (*Set, error) {
	br, err := bed.NewReader(r, 4)
	if err != nil {
		return nil, err
	}

	s := &Set{
		names: make(map[Key]struct{}),
		trees: make(map[string]*interval.IntTree),
	}

	sc := featio.NewScanner(br)
	for sc.Next() {
		f := sc.Feat()
		if f.End() <= f.Start() {
			return nil, fmt.Errorf("empty interval %s:%d-%d", f.Location().Name(), f.Start(), f.End())
		}
		if k, ok := ParseName(f.Name()); ok {
			s.names[k] = struct{}{}
		} else {
			s.Unnamed++
		}

		chrom := normalizeChrom(f.Location().Name())
		t, ok := s.trees[chrom]
		if !ok {
			t = &interval.IntTree{}
			s.trees[chrom] = t
		}
		s.regions++
		if err := t.Insert(region{start: f.Start(), end: f.End(), id: uintptr(s.regions)}, true); err != nil {
			return nil, fmt.Errorf("index interval: %w", err)
		}
	}
	if err := sc.Error(); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	for _, t := range s.trees {
		t.AdjustRanges()
	}
	return s, nil
}

// Len returns the number of named exons in the set.
func (s *Set) Len() int { return len(s.names) }

// Regions returns the number of intervals in the set.
func (s *Set) Regions() int { return s.regions }

// Contains reports whether the exon is named in the set.
func (s *Set) Contains(id, exonNumber string) bool {
	_, ok := s.names[Key{ID: id, ExonNumber: exonNumber}]
	return ok
}

// ContainsRecord reports whether the record is named in the set, using idKey
// for the identifier attribute.
func (s *Set) ContainsRecord(r *gtf.Record, idKey string) bool {
	id, ok := r.Attr(idKey)
	if !ok {
		return false
	}
	n, ok := r.Attr("exon_number")
	if !ok {
		return false
	}
	return s.Contains(id, n)
}

// Overlaps reports whether the record overlaps any interval in the set.
// Chromosome names are compared without a "chr" prefix.
func (s *Set) Overlaps(r *gtf.Record) bool {
	t, ok := s.trees[normalizeChrom(r.Seqname)]
	if !ok {
		return false
	}
	// GTF is 1-based inclusive; the tree holds 0-based half-open ranges.
	q := region{start: int(r.Start - 1), end: int(r.End)}
	return len(t.Get(q)) > 0
}

type region struct {
	start, end int
	id         uintptr
}

func (r region) Overlap(b interval.IntRange) bool {
	return r.end > b.Start && r.start < b.End
}
func (r region) ID() uintptr              { return r.id }
func (r region) Range() interval.IntRange { return interval.IntRange{Start: r.start, End: r.end} }

func normalizeChrom(chrom string) string {
	return strings.TrimPrefix(chrom, "chr")
}
