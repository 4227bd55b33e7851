package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inodb/vibe-skip/internal/gtf"
	"github.com/inodb/vibe-skip/internal/output"
	"github.com/inodb/vibe-skip/internal/transcript"
)

func newExonsCmd(a *app) *cobra.Command {
	var (
		outputFile string
		only       string
	)

	cmd := &cobra.Command{
		Use:   "exons [flags] <gtf>",
		Short: "Report exon lengths and their frame shift",
		Long: `Print one line per usable exon: {transcript}:{exon_number}, the exon
length and the length modulo three. A frame shift of zero means the exon
can be skipped on its own without changing the reading frame.`,
		Example: `  vibe-skip exons annotation.gtf
  vibe-skip exons --transcript ENST00000357033 annotation.gtf.gz`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.bind(cmd, transcriptFlags); err != nil {
				return err
			}
			return a.runExons(cmd, args[0], outputFile, only)
		},
	}

	addTranscriptFlags(cmd)
	cmd.Flags().StringVarP(&only, "transcript", "t", "", "Only report this transcript")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

func (a *app) runExons(cmd *cobra.Command, path, outputFile, only string) error {
	p, err := gtf.NewParser(path)
	if err != nil {
		return err
	}
	defer p.Close()

	out, closeOut, err := openOutput(cmd, outputFile)
	if err != nil {
		return err
	}
	defer closeOut()

	w := output.NewExonWriter(out)
	if err := w.WriteHeader(); err != nil {
		return err
	}

	g := transcript.NewGrouper(p, a.transcriptOptions())
	found := false
	for {
		group, err := g.Next()
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		if group == nil {
			break
		}
		if only != "" && group.ID != only {
			continue
		}
		found = true
		if err := w.WriteGroup(group); err != nil {
			return fmt.Errorf("transcript %s: %w", group.ID, err)
		}
	}
	if only != "" && !found {
		return fmt.Errorf("transcript %q not found in %s", only, path)
	}
	return w.Flush()
}
