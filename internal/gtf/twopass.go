package gtf

import (
	"fmt"
	"io"
	"sort"
)

// TwoPass drives two complete reads over the same input: the first computes
// a summary of the whole file, the second emits records against it. This
// keeps memory bounded for annotation files too large to hold at once.
// The input must support repositioning.
type TwoPass struct {
	src io.ReadSeeker
}

// NewTwoPass checks that r can be rewound and returns a two-pass reader.
// Non-seekable inputs fail with ErrNotSeekable.
func NewTwoPass(r io.Reader) (*TwoPass, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		return nil, ErrNotSeekable
	}
	// Pipes implement Seek but fail on use
	if _, err := rs.Seek(0, io.SeekCurrent); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotSeekable, err)
	}
	return &TwoPass{src: rs}, nil
}

// Run calls summarize for every record of the first pass, rewinds the input
// and calls emit for every record of the second pass. A fresh parser is used
// for each pass.
func (tp *TwoPass) Run(summarize, emit func(*Record) error) error {
	if err := tp.pass(summarize); err != nil {
		return fmt.Errorf("first pass: %w", err)
	}
	if err := tp.pass(emit); err != nil {
		return fmt.Errorf("second pass: %w", err)
	}
	return nil
}

func (tp *TwoPass) pass(fn func(*Record) error) error {
	if _, err := tp.src.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewind input: %w", err)
	}

	p := NewParserFromReader(tp.src)
	for {
		rec, err := p.Next()
		if err != nil {
			return err
		}
		if rec == nil {
			return nil
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
}

// AttributeKeys accumulates the set of attribute keys seen across records.
type AttributeKeys struct {
	seen map[string]struct{}
}

// NewAttributeKeys creates an empty key set.
func NewAttributeKeys() *AttributeKeys {
	return &AttributeKeys{seen: make(map[string]struct{})}
}

// Add records the attribute keys of rec. It has the signature of a
// TwoPass summarize function.
func (ak *AttributeKeys) Add(rec *Record) error {
	for k := range rec.Attributes {
		ak.seen[k] = struct{}{}
	}
	return nil
}

// Sorted returns the collected keys in lexical order.
func (ak *AttributeKeys) Sorted() []string {
	keys := make([]string, 0, len(ak.seen))
	for k := range ak.seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
