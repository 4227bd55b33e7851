package output

import (
	"bufio"
	"fmt"
	"io"

	"github.com/inodb/vibe-skip/internal/transcript"
)

// ExonWriter writes a per-exon length report: name, length and the length
// modulo three.
type ExonWriter struct {
	w *bufio.Writer
}

// NewExonWriter creates an exon report writer. Exon names are built as
// {group id}:{exon_number}.
func NewExonWriter(w io.Writer) *ExonWriter {
	return &ExonWriter{w: bufio.NewWriter(w)}
}

// WriteHeader writes the header line.
func (ew *ExonWriter) WriteHeader() error {
	_, err := ew.w.WriteString("#exon\tlength\tframe_shift\n")
	return err
}

// WriteGroup writes one line per exon of the group.
func (ew *ExonWriter) WriteGroup(g *transcript.Group) error {
	for _, e := range g.Exons {
		n, err := e.Length()
		if err != nil {
			return err
		}
		number, err := e.RequireAttr("exon_number")
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(ew.w, "%s:%s\t%d\t%d\n", g.ID, number, n, n%3); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes any buffered data to the underlying writer.
func (ew *ExonWriter) Flush() error {
	return ew.w.Flush()
}
