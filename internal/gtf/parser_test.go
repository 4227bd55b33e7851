package gtf

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoExons = `##description: Test GTF
#!genome-build GRCh38
chr12	HAVANA	exon	25250751	25250929	.	-	.	gene_id "ENSG00000133703"; transcript_id "ENST00000311936"; gene_name "KRAS"; exon_number "1";
chr12	HAVANA	exon	25245274	25245395	.	-	.	gene_id "ENSG00000133703"; transcript_id "ENST00000311936"; gene_name "KRAS"; exon_number "2";
`

func readAll(t *testing.T, p *Parser) []*Record {
	t.Helper()
	var recs []*Record
	for {
		rec, err := p.Next()
		require.NoError(t, err)
		if rec == nil {
			return recs
		}
		recs = append(recs, rec)
	}
}

func TestParser_Records(t *testing.T) {
	p := NewParserFromReader(strings.NewReader(twoExons))
	recs := readAll(t, p)
	require.Len(t, recs, 2)

	r := recs[0]
	assert.Equal(t, "chr12", r.Seqname)
	assert.Equal(t, "HAVANA", r.Source)
	assert.Equal(t, "exon", r.Feature)
	assert.Equal(t, int64(25250751), r.Start)
	assert.Equal(t, int64(25250929), r.End)
	assert.Equal(t, ".", r.Score)
	assert.Equal(t, "-", r.Strand)
	assert.Equal(t, ".", r.Frame)
	assert.Equal(t, "ENST00000311936", r.Attributes["transcript_id"])
	assert.Equal(t, "1", r.Attributes["exon_number"])
	assert.Equal(t, 3, r.Line)
	assert.Equal(t, 4, recs[1].Line)

	// Exhausted parser keeps returning nil
	rec, err := p.Next()
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestParser_SkipsBlankAndCRLF(t *testing.T) {
	input := "#header\r\n\r\n" +
		"1\tsrc\texon\t1\t2\t.\t+\t.\ttranscript_id \"T1\";\r\n"
	recs := readAll(t, NewParserFromReader(strings.NewReader(input)))
	require.Len(t, recs, 1)
	assert.Equal(t, "T1", recs[0].Attributes["transcript_id"])
}

func TestParser_FormatErrors(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		message string
	}{
		{"too few fields", "1\tsrc\texon\t1\t2\t.\t+\t.", "found 8"},
		{"too many fields", "1\tsrc\texon\t1\t2\t.\t+\t.\tgene_id \"G\";\textra", "found 10"},
		{"bad start", "1\tsrc\texon\tx\t2\t.\t+\t.\tgene_id \"G\";", "invalid start"},
		{"bad end", "1\tsrc\texon\t1\ty\t.\t+\t.\tgene_id \"G\";", "invalid end"},
		{"attribute without value", "1\tsrc\texon\t1\t2\t.\t+\t.\tgene_id;", "no value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := "#header\n" + tt.line + "\n"
			p := NewParserFromReader(strings.NewReader(input))

			rec, err := p.Next()
			assert.Nil(t, rec)

			var fe *FormatError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, 2, fe.Line)
			assert.Contains(t, fe.Error(), tt.message)
		})
	}
}

func TestParser_LineTooLong(t *testing.T) {
	ok := "1\tsrc\texon\t1\t2\t.\t+\t.\ttranscript_id \"T1\";\n"
	long := "1\tsrc\texon\t1\t2\t.\t+\t.\tnote \"" + strings.Repeat("x", maxLineSize) + "\";\n"
	p := NewParserFromReader(strings.NewReader("#header\n" + ok + long))

	rec, err := p.Next()
	require.NoError(t, err)
	require.NotNil(t, rec)

	rec, err = p.Next()
	assert.Nil(t, rec)
	var fe *FormatError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, 3, fe.Line)
	assert.Contains(t, fe.Error(), "line longer than")
}

func TestRecord_Length(t *testing.T) {
	n, err := (&Record{Start: 1, End: 2}).Length()
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = (&Record{Start: 10, End: 10}).Length()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = (&Record{Start: 10, End: 9, Line: 7}).Length()
	var iv *InvariantViolation
	require.ErrorAs(t, err, &iv)
	assert.Equal(t, 7, iv.Line)
}

func TestRecord_RequireAttr(t *testing.T) {
	r := &Record{Line: 5, Attributes: map[string]string{"transcript_id": "T1"}}

	v, err := r.RequireAttr("transcript_id")
	require.NoError(t, err)
	assert.Equal(t, "T1", v)

	_, err = r.RequireAttr("exon_number")
	var me *MissingAttributeError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, "exon_number", me.Attribute)
	assert.Equal(t, 5, me.Line)
}

func TestFieldNames_ReturnsCopy(t *testing.T) {
	names := FieldNames()
	require.Len(t, names, 9)
	assert.Equal(t, "seqname", names[0])
	assert.Equal(t, "attribute", names[8])

	names[0] = "mutated"
	assert.Equal(t, "seqname", FieldNames()[0])
}

func TestNewParser_SampleFile(t *testing.T) {
	p, err := NewParser("../../testdata/sample.gtf")
	require.NoError(t, err)
	defer p.Close()

	recs := readAll(t, p)
	assert.Len(t, recs, 17)
	assert.Equal(t, 19, p.LineNumber())
}

func TestNewParser_Gzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "two.gtf.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write([]byte(twoExons))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	p, err := NewParser(path)
	require.NoError(t, err)
	defer p.Close()

	assert.Len(t, readAll(t, p), 2)
}

func TestNewParser_NotFound(t *testing.T) {
	_, err := NewParser("/nonexistent/file.gtf")
	assert.Error(t, err)
}
