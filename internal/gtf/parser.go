package gtf

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const maxLineSize = 1024 * 1024

// Parser reads records from a GTF file, one line at a time.
type Parser struct {
	scanner    *bufio.Scanner
	closer     io.Closer
	lineNumber int
}

// NewParser creates a parser for the given path.
// Supports plain and gzipped GTF files; "-" reads from stdin.
func NewParser(path string) (*Parser, error) {
	f, err := Open(path)
	if err != nil {
		return nil, err
	}
	p := NewParserFromReader(f)
	p.closer = f
	return p, nil
}

// NewParserFromReader creates a parser reading from r. The caller keeps
// ownership of r.
func NewParserFromReader(r io.Reader) *Parser {
	scanner := bufio.NewScanner(r)
	// Attribute columns of GENCODE files can be long
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, maxLineSize)
	return &Parser{scanner: scanner}
}

// Next reads the next record.
// Returns nil, nil when there are no more records.
func (p *Parser) Next() (*Record, error) {
	for p.scanner.Scan() {
		p.lineNumber++
		line := strings.TrimRight(p.scanner.Text(), "\r")

		// Skip headers, comments and empty lines
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		return p.parseLine(line)
	}
	if err := p.scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, &FormatError{
				Line:    p.lineNumber + 1,
				Message: fmt.Sprintf("line longer than %d bytes", maxLineSize),
			}
		}
		return nil, fmt.Errorf("scan GTF: %w", err)
	}
	return nil, nil
}

// parseLine parses a single GTF data line.
func (p *Parser) parseLine(line string) (*Record, error) {
	fields := strings.Split(line, "\t")
	if len(fields) != len(fieldNames) {
		return nil, &FormatError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("expected %d tab-separated fields, found %d", len(fieldNames), len(fields)),
		}
	}

	start, err := strconv.ParseInt(fields[3], 10, 64)
	if err != nil {
		return nil, &FormatError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("invalid start: %s", fields[3]),
		}
	}

	end, err := strconv.ParseInt(fields[4], 10, 64)
	if err != nil {
		return nil, &FormatError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("invalid end: %s", fields[4]),
		}
	}

	attrs, keys, err := ParseAttributes(fields[8])
	if err != nil {
		if fe, ok := err.(*FormatError); ok {
			fe.Line = p.lineNumber
		}
		return nil, err
	}

	return &Record{
		Seqname:       fields[0],
		Source:        fields[1],
		Feature:       fields[2],
		Start:         start,
		End:           end,
		Score:         fields[5],
		Strand:        fields[6],
		Frame:         fields[7],
		Attributes:    attrs,
		AttributeKeys: keys,
		Line:          p.lineNumber,
	}, nil
}

// LineNumber returns the current line number being processed.
func (p *Parser) LineNumber() int {
	return p.lineNumber
}

// Close closes the underlying file if the parser opened it.
func (p *Parser) Close() error {
	if p.closer != nil {
		return p.closer.Close()
	}
	return nil
}
