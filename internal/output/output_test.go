package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vibe-skip/internal/gtf"
	"github.com/inodb/vibe-skip/internal/splice"
	"github.com/inodb/vibe-skip/internal/transcript"
)

func exonRecord(id, number string, start, end int64) *gtf.Record {
	return &gtf.Record{
		Seqname: "1",
		Source:  "ensembl",
		Feature: "exon",
		Start:   start,
		End:     end,
		Score:   ".",
		Strand:  "+",
		Frame:   ".",
		Attributes: map[string]string{
			"transcript_id": id,
			"exon_number":   number,
		},
		AttributeKeys: []string{"transcript_id", "exon_number"},
	}
}

func TestBEDWriter_Write(t *testing.T) {
	var buf bytes.Buffer
	w := NewBEDWriter(&buf)

	require.NoError(t, w.WriteAll([]splice.Site{
		{Chrom: "chr1", Begin: 1999, End: 2000, Name: "ENST01:2"},
		{Chrom: "chrX", Begin: 199, End: 200, Name: "ENST02:2"},
	}))
	require.NoError(t, w.Flush())

	assert.Equal(t, "chr1\t1999\t2000\tENST01:2\nchrX\t199\t200\tENST02:2\n", buf.String())
}

func TestBEDWriter_MatchesSiteString(t *testing.T) {
	s := splice.Site{Chrom: "chr7", Begin: 10, End: 15, Name: "T:3"}

	var buf bytes.Buffer
	w := NewBEDWriter(&buf)
	require.NoError(t, w.Write(s))
	require.NoError(t, w.Flush())

	assert.Equal(t, s.String()+"\n", buf.String())
}

func TestCSVWriter(t *testing.T) {
	a := exonRecord("T1", "1", 11, 20)
	b := exonRecord("T1", "2", 31, 40)
	b.Attributes["note"] = "a, quoted"
	b.AttributeKeys = append(b.AttributeKeys, "note")

	var buf bytes.Buffer
	w := NewCSVWriter(&buf, []string{"exon_number", "note", "transcript_id"})
	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.Write(a))
	require.NoError(t, w.Write(b))
	require.NoError(t, w.Flush())

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "seqname,source,feature,start,end,score,strand,frame,exon_number,note,transcript_id", lines[0])
	assert.Equal(t, "1,ensembl,exon,11,20,.,+,.,1,,T1", lines[1])
	assert.Equal(t, `1,ensembl,exon,31,40,.,+,.,2,"a, quoted",T1`, lines[2])
}

func TestCSVWriter_HeaderDoesNotMutateFieldNames(t *testing.T) {
	var buf bytes.Buffer
	w := NewCSVWriter(&buf, []string{"gene_id"})
	require.NoError(t, w.WriteHeader())

	assert.Equal(t, "attribute", gtf.FieldNames()[8])
}

func TestGTFWriter_RoundTrip(t *testing.T) {
	const line = "1\tensembl\texon\t11\t20\t.\t+\t.\ttranscript_id \"T1\"; exon_number \"1\";\n"

	p := gtf.NewParserFromReader(strings.NewReader(line))
	r, err := p.Next()
	require.NoError(t, err)
	require.NotNil(t, r)

	var buf bytes.Buffer
	w := NewGTFWriter(&buf)
	require.NoError(t, w.Write(r))
	require.NoError(t, w.Flush())

	assert.Equal(t, line, buf.String())
}

func TestExonWriter(t *testing.T) {
	g := &transcript.Group{ID: "T1", Exons: []*gtf.Record{
		exonRecord("T1", "1", 1001, 1030),
		exonRecord("T1", "2", 2001, 2031),
		exonRecord("T1", "3", 3001, 3032),
	}}

	var buf bytes.Buffer
	w := NewExonWriter(&buf)
	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.WriteGroup(g))
	require.NoError(t, w.Flush())

	assert.Equal(t,
		"#exon\tlength\tframe_shift\n"+
			"T1:1\t30\t0\n"+
			"T1:2\t31\t1\n"+
			"T1:3\t32\t2\n",
		buf.String())
}

func TestExonWriter_MissingExonNumber(t *testing.T) {
	r := exonRecord("T1", "1", 1, 3)
	delete(r.Attributes, "exon_number")

	var buf bytes.Buffer
	err := NewExonWriter(&buf).WriteGroup(&transcript.Group{ID: "T1", Exons: []*gtf.Record{r}})

	var me *gtf.MissingAttributeError
	assert.ErrorAs(t, err, &me)
}
