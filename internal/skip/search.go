// Package skip finds runs of internal exons that can be removed from a
// transcript without shifting the reading frame.
package skip

import "iter"

// Run is a contiguous list of exon indices, ascending.
type Run []int

// First returns the index of the first skipped exon.
func (r Run) First() int { return r[0] }

// Last returns the index of the last skipped exon.
func (r Run) Last() int { return r[len(r)-1] }

// Search yields, for every internal start index i, the shortest run of
// exons starting at i whose summed length is a multiple of three.
//
// The first and last exons are never part of a run. Once a run is found for
// a start index, longer runs from the same start are not considered.
// Transcripts with fewer than three exons yield nothing.
func Search(lengths []int64) iter.Seq[Run] {
	return func(yield func(Run) bool) {
		n := len(lengths)
		if n < 3 {
			return
		}

		for i := 1; i < n; i++ {
			var total int64
			for j := i + 1; j < n; j++ {
				total += lengths[j-1]
				if total%3 != 0 {
					continue
				}
				run := make(Run, 0, j-i)
				for k := i; k < j; k++ {
					run = append(run, k)
				}
				if !yield(run) {
					return
				}
				break
			}
		}
	}
}

// WithinMax drops runs longer than max exons. A max of zero or less keeps
// every run.
func WithinMax(runs iter.Seq[Run], max int) iter.Seq[Run] {
	if max <= 0 {
		return runs
	}
	return func(yield func(Run) bool) {
		for r := range runs {
			if len(r) > max {
				continue
			}
			if !yield(r) {
				return
			}
		}
	}
}

// Length returns the summed length of the exons in the run.
func (r Run) Length(lengths []int64) int64 {
	var total int64
	for _, i := range r {
		total += lengths[i]
	}
	return total
}
