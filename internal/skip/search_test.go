package skip

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSearch(t *testing.T) {
	tests := []struct {
		name     string
		lengths  []int64
		expected []Run
	}{
		{"single exon", []int64{30}, nil},
		{"two exons", []int64{30, 30}, nil},
		{"three exons", []int64{30, 30, 30}, []Run{{1}}},
		{"four exons", []int64{30, 30, 30, 30}, []Run{{1}, {2}}},
		{"extends to next exon", []int64{30, 31, 32, 30}, []Run{{1, 2}}},
		{"nothing in frame", []int64{30, 32, 32, 30}, nil},
		{"never reaches last exon", []int64{30, 31, 31, 31, 30}, []Run{{1, 2, 3}}},
		{"minimal run per start", []int64{10, 3, 3, 3, 10}, []Run{{1}, {2}, {3}}},
		{"empty", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := slices.Collect(Search(tt.lengths))
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSearch_LastExonExcluded(t *testing.T) {
	// Only the last exon would bring the run into frame
	got := slices.Collect(Search([]int64{30, 31, 30, 32}))
	for _, r := range got {
		assert.NotContains(t, r, 3)
		assert.NotContains(t, r, 0)
	}
}

func TestSearch_EarlyStop(t *testing.T) {
	var got []Run
	for r := range Search([]int64{30, 30, 30, 30, 30}) {
		got = append(got, r)
		if len(got) == 2 {
			break
		}
	}
	assert.Equal(t, []Run{{1}, {2}}, got)
}

func TestWithinMax(t *testing.T) {
	lengths := []int64{30, 31, 32, 30, 31, 30}
	all := slices.Collect(Search(lengths))
	assert.Equal(t, []Run{{1, 2}, {2, 3, 4}, {3}}, all)

	assert.Equal(t, []Run{{3}}, slices.Collect(WithinMax(Search(lengths), 1)))
	assert.Equal(t, []Run{{1, 2}, {3}}, slices.Collect(WithinMax(Search(lengths), 2)))
	assert.Equal(t, all, slices.Collect(WithinMax(Search(lengths), 0)))
}

func TestRun_Accessors(t *testing.T) {
	r := Run{2, 3, 4}
	assert.Equal(t, 2, r.First())
	assert.Equal(t, 4, r.Last())
	assert.Equal(t, int64(93), r.Length([]int64{30, 30, 31, 31, 31, 30}))
}
