// Package splice projects exons onto splice-acceptor editing sites in BED
// coordinates.
package splice

import (
	"fmt"
	"strings"

	"github.com/inodb/vibe-skip/internal/gtf"
)

// Convention locates the editing window relative to an exon start:
// begin = start - Offset, end = begin + Width. Start is the 1-based GTF
// coordinate; begin and end are 0-based half-open.
type Convention struct {
	Name   string
	Offset int64
	Width  int64
}

// Conventions used in the literature. See Figure 1 of Gapinske et al. 2018,
// https://doi.org/10.1186/s13059-018-1482-5
var (
	// AcceptorG targets the conserved G of the AG dinucleotide directly
	// upstream of the exon.
	AcceptorG = Convention{Name: "acceptor-g", Offset: 2, Width: 1}
	// AcceptorMotif covers the 5 bp acceptor motif.
	AcceptorMotif = Convention{Name: "acceptor-motif", Offset: 3, Width: 5}
)

// DefaultConvention is used when none is configured.
var DefaultConvention = AcceptorG

// LookupConvention returns a named preset.
func LookupConvention(name string) (Convention, error) {
	switch name {
	case AcceptorG.Name:
		return AcceptorG, nil
	case AcceptorMotif.Name:
		return AcceptorMotif, nil
	}
	return Convention{}, fmt.Errorf("unknown splice convention %q (want %s or %s)",
		name, AcceptorG.Name, AcceptorMotif.Name)
}

// Validate checks that the window is non-empty.
func (c Convention) Validate() error {
	if c.Width <= 0 {
		return fmt.Errorf("splice convention %q: width must be positive, got %d", c.Name, c.Width)
	}
	return nil
}

// ChromStyle controls the chromosome naming of emitted sites.
type ChromStyle int

const (
	// ChromAddPrefix prefixes "chr" when it is missing (Ensembl to UCSC).
	ChromAddPrefix ChromStyle = iota
	// ChromKeep keeps the GTF seqname.
	ChromKeep
	// ChromStripPrefix removes a leading "chr" (UCSC to Ensembl).
	ChromStripPrefix
)

// ParseChromStyle parses "add", "keep" or "strip".
func ParseChromStyle(s string) (ChromStyle, error) {
	switch s {
	case "add", "":
		return ChromAddPrefix, nil
	case "keep":
		return ChromKeep, nil
	case "strip":
		return ChromStripPrefix, nil
	}
	return 0, fmt.Errorf("unknown chromosome style %q (want add, keep or strip)", s)
}

// Apply renames a chromosome according to the style.
func (s ChromStyle) Apply(chrom string) string {
	switch s {
	case ChromAddPrefix:
		if strings.HasPrefix(chrom, "chr") {
			return chrom
		}
		return "chr" + chrom
	case ChromStripPrefix:
		return strings.TrimPrefix(chrom, "chr")
	}
	return chrom
}

// Projector converts exon records to splice sites.
type Projector struct {
	conv    Convention
	style   ChromStyle
	nameKey string
}

// NewProjector creates a projector. nameKey is the attribute used as the
// site name prefix, normally the transcript grouping key.
func NewProjector(conv Convention, style ChromStyle, nameKey string) *Projector {
	return &Projector{conv: conv, style: style, nameKey: nameKey}
}

// Convention returns the configured convention.
func (p *Projector) Convention() Convention {
	return p.conv
}

// Project returns the acceptor editing site upstream of exon's start.
func (p *Projector) Project(exon *gtf.Record) (Site, error) {
	id, err := exon.RequireAttr(p.nameKey)
	if err != nil {
		return Site{}, err
	}
	exonNumber, err := exon.RequireAttr("exon_number")
	if err != nil {
		return Site{}, err
	}

	begin := exon.Start - p.conv.Offset
	if begin < 0 {
		return Site{}, &gtf.InvariantViolation{
			Line:    exon.Line,
			Message: fmt.Sprintf("splice site begins before contig start (exon start %d)", exon.Start),
		}
	}

	return Site{
		Chrom: p.style.Apply(exon.Seqname),
		Begin: begin,
		End:   begin + p.conv.Width,
		Name:  id + ":" + exonNumber,
	}, nil
}
