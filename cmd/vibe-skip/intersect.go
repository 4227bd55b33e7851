package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inodb/vibe-skip/internal/gtf"
	"github.com/inodb/vibe-skip/internal/include"
	"github.com/inodb/vibe-skip/internal/output"
	"github.com/inodb/vibe-skip/internal/transcript"
)

func newIntersectCmd(a *app) *cobra.Command {
	var (
		bedFile    string
		outputFile string
		overlap    bool
	)

	cmd := &cobra.Command{
		Use:   "intersect --bed <bed> [flags] <gtf>",
		Short: "Print the exons named in a BED file as GTF",
		Long: `Read a BED4 inclusion file whose names are {transcript}:{exon_number},
as written by the sites command, and print the matching usable exon records
of the GTF. With --overlap, exons are matched by overlap with the BED
intervals instead of by name.`,
		Example: `  vibe-skip sites annotation.gtf > sites.bed
  vibe-skip intersect --bed sites.bed annotation.gtf
  vibe-skip intersect --overlap --bed regions.bed annotation.gtf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.bind(cmd, transcriptFlags); err != nil {
				return err
			}
			return a.runIntersect(cmd, args[0], bedFile, outputFile, overlap)
		},
	}

	addTranscriptFlags(cmd)
	cmd.Flags().StringVar(&bedFile, "bed", "", "BED4 inclusion file")
	cmd.Flags().BoolVar(&overlap, "overlap", false, "Match exons overlapping the BED intervals")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	_ = cmd.MarkFlagRequired("bed")

	return cmd
}

func (a *app) runIntersect(cmd *cobra.Command, path, bedFile, outputFile string, overlap bool) error {
	set, err := include.LoadBED(bedFile)
	if err != nil {
		return err
	}
	if !overlap && set.Unnamed > 0 {
		a.logger.Warn("BED names not in {transcript}:{exon_number} form", zap.Int("lines", set.Unnamed))
	}

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

	opts := a.transcriptOptions()
	g := transcript.NewGrouper(p, opts)
	w := output.NewGTFWriter(out)
	matched := 0
	for {
		group, err := g.Next()
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		if group == nil {
			break
		}
		for _, e := range group.Exons {
			var ok bool
			if overlap {
				ok = set.Overlaps(e)
			} else {
				ok = set.ContainsRecord(e, opts.Key)
			}
			if !ok {
				continue
			}
			matched++
			if err := w.Write(e); err != nil {
				return fmt.Errorf("write gtf: %w", err)
			}
		}
	}

	a.logger.Info("exons matched", zap.Int("matched", matched), zap.Int("bed_names", set.Len()))
	return w.Flush()
}
