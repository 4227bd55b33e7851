package pipeline

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vibe-skip/internal/gtf"
	"github.com/inodb/vibe-skip/internal/splice"
	"github.com/inodb/vibe-skip/internal/transcript"
)

// makeGroup builds a transcript whose exons all have the given length.
func makeGroup(id string, exonLen int64, n int) *transcript.Group {
	g := &transcript.Group{ID: id}
	for i := range n {
		start := int64(1000*(i+1) + 1)
		g.Exons = append(g.Exons, &gtf.Record{
			Seqname: "1",
			Feature: "exon",
			Start:   start,
			End:     start + exonLen - 1,
			Attributes: map[string]string{
				"transcript_id": id,
				"exon_number":   fmt.Sprint(i + 1),
			},
		})
	}
	return g
}

func makeItems(n int) <-chan WorkItem {
	ch := make(chan WorkItem, n)
	for i := range n {
		ch <- WorkItem{Seq: i, Group: makeGroup(fmt.Sprintf("T%03d", i), 30, 3+i%3)}
	}
	close(ch)
	return ch
}

func newTestFinder() *Finder {
	return NewFinder(splice.NewProjector(splice.AcceptorG, splice.ChromAddPrefix, "transcript_id"))
}

// collectSeqs runs items through the pool and returns the sequence numbers
// in the order OrderedCollect delivered them.
func collectSeqs(t *testing.T, items <-chan WorkItem, workers int) []int {
	t.Helper()
	var seqs []int
	err := OrderedCollect(newTestFinder().ParallelFind(nil, items, workers), nil, func(r WorkResult) error {
		require.NoError(t, r.Err)
		assert.Equal(t, r.Group.ID, r.Result.TranscriptID)
		seqs = append(seqs, r.Seq)
		return nil
	})
	require.NoError(t, err)
	return seqs
}

func TestOrderedCollect_InputOrder(t *testing.T) {
	tests := []struct {
		name    string
		items   int
		workers int
	}{
		{"many workers", 200, 8},
		{"single worker", 50, 1},
		{"default pool", 64, 0},
		{"empty input", 0, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seqs := collectSeqs(t, makeItems(tt.items), tt.workers)
			require.Len(t, seqs, tt.items)
			for i, seq := range seqs {
				assert.Equal(t, i, seq)
			}
		})
	}
}

func TestOrderedCollect_StopsAtError(t *testing.T) {
	done := make(chan struct{})
	cancelled := 0

	count := 0
	err := OrderedCollect(newTestFinder().ParallelFind(done, makeItems(100), 4), func() {
		cancelled++
		close(done)
	}, func(WorkResult) error {
		count++
		if count == 5 {
			return fmt.Errorf("stop at 5")
		}
		return nil
	})
	require.EqualError(t, err, "stop at 5")
	assert.Equal(t, 5, count)
	assert.Equal(t, 1, cancelled)
}

func TestParallelFind_DoneStopsWorkers(t *testing.T) {
	done := make(chan struct{})
	close(done)

	// Unbuffered and never closed: workers only return through done.
	items := make(chan WorkItem)

	n := 0
	for range newTestFinder().ParallelFind(done, items, 4) {
		n++
	}
	assert.Zero(t, n)
}
