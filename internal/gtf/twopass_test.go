package gtf

import (
	"compress/gzip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTwoPass_SummaryThenEmit(t *testing.T) {
	tp, err := NewTwoPass(strings.NewReader(twoExons))
	require.NoError(t, err)

	keys := NewAttributeKeys()
	var emitted []*Record
	err = tp.Run(keys.Add, func(r *Record) error {
		emitted = append(emitted, r)
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"exon_number", "gene_id", "gene_name", "transcript_id"}, keys.Sorted())
	require.Len(t, emitted, 2)
	assert.Equal(t, 3, emitted[0].Line, "second pass restarts line numbering")
}

func TestTwoPass_PassesMatch(t *testing.T) {
	f, err := Open("../../testdata/sample.gtf")
	require.NoError(t, err)
	defer f.Close()

	tp, err := NewTwoPass(f)
	require.NoError(t, err)

	var first, second []int
	err = tp.Run(
		func(r *Record) error { first = append(first, r.Line); return nil },
		func(r *Record) error { second = append(second, r.Line); return nil },
	)
	require.NoError(t, err)
	assert.Len(t, first, 17)
	assert.Equal(t, first, second)
}

func TestTwoPass_Gzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "two.gtf.gz")
	out, err := os.Create(path)
	require.NoError(t, err)
	gz := gzip.NewWriter(out)
	_, err = io.WriteString(gz, twoExons)
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, out.Close())

	f, err := Open(path)
	require.NoError(t, err)
	defer f.Close()

	tp, err := NewTwoPass(f)
	require.NoError(t, err)

	var n1, n2 int
	err = tp.Run(
		func(*Record) error { n1++; return nil },
		func(*Record) error { n2++; return nil },
	)
	require.NoError(t, err)
	assert.Equal(t, 2, n1)
	assert.Equal(t, 2, n2)

	_, err = f.Seek(10, io.SeekStart)
	assert.ErrorIs(t, err, ErrNotSeekable)
}

func TestNewTwoPass_NotSeekable(t *testing.T) {
	// io.MultiReader hides the Seek method
	_, err := NewTwoPass(io.MultiReader(strings.NewReader(twoExons)))
	assert.ErrorIs(t, err, ErrNotSeekable)

	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	defer w.Close()

	_, err = NewTwoPass(r)
	assert.ErrorIs(t, err, ErrNotSeekable)
}

func TestTwoPass_StopsOnError(t *testing.T) {
	tp, err := NewTwoPass(strings.NewReader(twoExons))
	require.NoError(t, err)

	boom := errors.New("boom")
	emitCalled := false
	err = tp.Run(
		func(*Record) error { return boom },
		func(*Record) error { emitCalled = true; return nil },
	)
	assert.ErrorIs(t, err, boom)
	assert.False(t, emitCalled)
}
