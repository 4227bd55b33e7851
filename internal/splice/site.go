package splice

import (
	"cmp"
	"fmt"
	"slices"
)

// Site is a zero-based half-open genomic interval (BED convention).
type Site struct {
	Chrom string
	Begin int64
	End   int64
	Name  string
}

// String formats the site as a BED4 line without the newline.
func (s Site) String() string {
	return fmt.Sprintf("%s\t%d\t%d\t%s", s.Chrom, s.Begin, s.End, s.Name)
}

// Compare orders sites by chromosome, begin, end, then name.
func Compare(a, b Site) int {
	if c := cmp.Compare(a.Chrom, b.Chrom); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Begin, b.Begin); c != 0 {
		return c
	}
	if c := cmp.Compare(a.End, b.End); c != 0 {
		return c
	}
	return cmp.Compare(a.Name, b.Name)
}

// Set collects distinct sites.
type Set struct {
	sites map[Site]struct{}
}

// NewSet creates an empty set.
func NewSet() *Set {
	return &Set{sites: make(map[Site]struct{})}
}

// Add inserts sites, ignoring duplicates.
func (s *Set) Add(sites ...Site) {
	for _, site := range sites {
		s.sites[site] = struct{}{}
	}
}

// Len returns the number of distinct sites.
func (s *Set) Len() int {
	return len(s.sites)
}

// Sorted returns the sites in Compare order.
func (s *Set) Sorted() []Site {
	out := make([]Site, 0, len(s.sites))
	for site := range s.sites {
		out = append(out, site)
	}
	slices.SortFunc(out, Compare)
	return out
}
