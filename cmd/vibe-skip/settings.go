package main

import (
	"github.com/spf13/cobra"

	"github.com/inodb/vibe-skip/internal/splice"
	"github.com/inodb/vibe-skip/internal/transcript"
)

var transcriptFlags = map[string]string{
	"key":         "transcript.key",
	"biotype":     "transcript.biotype",
	"biotype-key": "transcript.biotype_key",
}

func addTranscriptFlags(cmd *cobra.Command) {
	def := transcript.DefaultOptions()
	cmd.Flags().String("key", def.Key, "Attribute identifying a transcript (transcript_id or transcript_name)")
	cmd.Flags().String("biotype", def.Biotype, "Only use exons of this transcript biotype (empty: all)")
	cmd.Flags().String("biotype-key", def.BiotypeKey, "Attribute holding the transcript biotype")
}

// transcriptKey is the grouping attribute; an empty setting means
// transcript_id.
func (a *app) transcriptKey() string {
	if key := a.v.GetString("transcript.key"); key != "" {
		return key
	}
	return transcript.KeyTranscriptID
}

func (a *app) transcriptOptions() transcript.Options {
	return transcript.Options{
		Key:        a.transcriptKey(),
		BiotypeKey: a.v.GetString("transcript.biotype_key"),
		Biotype:    a.v.GetString("transcript.biotype"),
	}
}

var spliceFlags = map[string]string{
	"convention":  "splice.convention",
	"offset":      "splice.offset",
	"width":       "splice.width",
	"chrom-style": "splice.chrom_style",
}

func addSpliceFlags(cmd *cobra.Command) {
	cmd.Flags().String("convention", splice.DefaultConvention.Name, "Editing site convention: acceptor-g or acceptor-motif")
	cmd.Flags().Int64("offset", 0, "Override the convention's offset upstream of the exon start")
	cmd.Flags().Int64("width", 0, "Override the convention's window width")
	cmd.Flags().String("chrom-style", "add", "Chromosome names: add (chr prefix), keep, or strip")
}

// convention resolves the configured preset and applies any custom offset or
// width on top of it.
func (a *app) convention() (splice.Convention, error) {
	conv, err := splice.LookupConvention(a.v.GetString("splice.convention"))
	if err != nil {
		return conv, err
	}
	if a.v.IsSet("splice.offset") {
		conv.Offset = a.v.GetInt64("splice.offset")
		conv.Name = "custom"
	}
	if a.v.IsSet("splice.width") {
		conv.Width = a.v.GetInt64("splice.width")
		conv.Name = "custom"
	}
	return conv, conv.Validate()
}

func (a *app) projector() (*splice.Projector, error) {
	conv, err := a.convention()
	if err != nil {
		return nil, err
	}
	style, err := splice.ParseChromStyle(a.v.GetString("splice.chrom_style"))
	if err != nil {
		return nil, err
	}
	return splice.NewProjector(conv, style, a.transcriptKey()), nil
}

// merge combines flag to key maps.
func merge(maps ...map[string]string) map[string]string {
	out := make(map[string]string)
	for _, m := range maps {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}
