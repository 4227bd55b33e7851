// Package gtf reads GTF (GFF version 2) gene annotation files.
package gtf

import (
	"fmt"
	"strconv"
)

// fieldNames lists the nine positional GTF columns in file order.
// See https://www.ensembl.org/info/website/upload/gff.html
var fieldNames = [...]string{
	"seqname", "source", "feature", "start", "end",
	"score", "strand", "frame", "attribute",
}

// FieldNames returns a copy of the positional GTF column names.
func FieldNames() []string {
	names := fieldNames
	return names[:]
}

// Record is one annotation line.
type Record struct {
	Seqname    string
	Source     string
	Feature    string
	Start      int64 // 1-based, inclusive
	End        int64 // 1-based, inclusive
	Score      string
	Strand     string
	Frame      string
	Attributes map[string]string
	// AttributeKeys holds the attribute keys in order of first appearance.
	AttributeKeys []string
	// Line is the 1-based line number the record was read from.
	Line int
}

// Attr returns the value of an attribute and whether it is present.
func (r *Record) Attr(key string) (string, bool) {
	v, ok := r.Attributes[key]
	return v, ok
}

// RequireAttr returns the value of an attribute, or a MissingAttributeError.
func (r *Record) RequireAttr(key string) (string, error) {
	v, ok := r.Attributes[key]
	if !ok {
		return "", &MissingAttributeError{Line: r.Line, Attribute: key}
	}
	return v, nil
}

// Length returns the number of bases covered by the record.
//
// Both start and end are inclusive, so start=1 end=2 describes two bases.
func (r *Record) Length() (int64, error) {
	n := r.End - r.Start + 1
	if n <= 0 {
		return 0, &InvariantViolation{
			Line:    r.Line,
			Message: fmt.Sprintf("non-positive length %d (start %d, end %d)", n, r.Start, r.End),
		}
	}
	return n, nil
}

// Fields returns the eight positional columns preceding the attribute column.
func (r *Record) Fields() []string {
	return []string{
		r.Seqname,
		r.Source,
		r.Feature,
		strconv.FormatInt(r.Start, 10),
		strconv.FormatInt(r.End, 10),
		r.Score,
		r.Strand,
		r.Frame,
	}
}
