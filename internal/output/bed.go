// Package output provides formatters for splice sites and GTF records.
package output

import (
	"bufio"
	"io"
	"strconv"

	"github.com/inodb/vibe-skip/internal/splice"
)

// BEDWriter writes splice sites as BED4 lines.
type BEDWriter struct {
	w *bufio.Writer
}

// NewBEDWriter creates a new BED writer.
func NewBEDWriter(w io.Writer) *BEDWriter {
	return &BEDWriter{w: bufio.NewWriter(w)}
}

// Write writes a single site.
func (bw *BEDWriter) Write(s splice.Site) error {
	var buf []byte
	buf = append(buf, s.Chrom...)
	buf = append(buf, '\t')
	buf = strconv.AppendInt(buf, s.Begin, 10)
	buf = append(buf, '\t')
	buf = strconv.AppendInt(buf, s.End, 10)
	buf = append(buf, '\t')
	buf = append(buf, s.Name...)
	buf = append(buf, '\n')
	_, err := bw.w.Write(buf)
	return err
}

// WriteAll writes sites in the given order.
func (bw *BEDWriter) WriteAll(sites []splice.Site) error {
	for _, s := range sites {
		if err := bw.Write(s); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes any buffered data to the underlying writer.
func (bw *BEDWriter) Flush() error {
	return bw.w.Flush()
}
