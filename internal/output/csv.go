package output

import (
	"encoding/csv"
	"io"

	"github.com/inodb/vibe-skip/internal/gtf"
)

// CSVWriter flattens GTF records into CSV, one column per attribute key.
type CSVWriter struct {
	w    *csv.Writer
	keys []string
}

// NewCSVWriter creates a writer for the given attribute columns, usually
// the keys collected by a first pass over the file.
func NewCSVWriter(w io.Writer, attributeKeys []string) *CSVWriter {
	return &CSVWriter{w: csv.NewWriter(w), keys: attributeKeys}
}

// WriteHeader writes the positional columns followed by the attribute keys.
func (cw *CSVWriter) WriteHeader() error {
	names := gtf.FieldNames()
	header := append(names[:len(names)-1], cw.keys...)
	return cw.w.Write(header)
}

// Write writes one record. Attributes missing from the record are empty.
func (cw *CSVWriter) Write(r *gtf.Record) error {
	row := r.Fields()
	for _, k := range cw.keys {
		row = append(row, r.Attributes[k])
	}
	return cw.w.Write(row)
}

// Flush flushes any buffered data to the underlying writer.
func (cw *CSVWriter) Flush() error {
	cw.w.Flush()
	return cw.w.Error()
}
