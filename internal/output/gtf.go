package output

import (
	"bufio"
	"io"
	"strings"

	"github.com/inodb/vibe-skip/internal/gtf"
)

// GTFWriter writes records back in GTF format.
type GTFWriter struct {
	w *bufio.Writer
}

// NewGTFWriter creates a new GTF writer.
func NewGTFWriter(w io.Writer) *GTFWriter {
	return &GTFWriter{w: bufio.NewWriter(w)}
}

// Write writes a single record, attributes in file order.
func (gw *GTFWriter) Write(r *gtf.Record) error {
	fields := append(r.Fields(), gtf.FormatAttributes(r.Attributes, r.AttributeKeys))
	_, err := gw.w.WriteString(strings.Join(fields, "\t") + "\n")
	return err
}

// Flush flushes any buffered data to the underlying writer.
func (gw *GTFWriter) Flush() error {
	return gw.w.Flush()
}
