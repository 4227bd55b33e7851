package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inodb/vibe-skip/internal/duckdb"
	"github.com/inodb/vibe-skip/internal/gtf"
	"github.com/inodb/vibe-skip/internal/output"
	"github.com/inodb/vibe-skip/internal/pipeline"
	"github.com/inodb/vibe-skip/internal/splice"
	"github.com/inodb/vibe-skip/internal/transcript"
)

func newSitesCmd(a *app) *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:   "sites [flags] <gtf>",
		Short: "Print editing sites of frame-preserving exon skips as BED",
		Long: `Group exons into transcripts, find every run of exons whose combined
length is a multiple of three and print the splice-acceptor site of the
skipped exons. The first and last exon of a transcript are never skipped.

Sites are sorted and deduplicated. Use '-' to read the GTF from stdin.`,
		Example: `  vibe-skip sites annotation.gtf.gz > sites.bed
  vibe-skip sites --max-skip 0 --all-sites annotation.gtf
  vibe-skip sites --convention acceptor-motif --chrom-style keep annotation.gtf
  vibe-skip sites --key transcript_name --db skips.duckdb annotation.gtf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.bind(cmd, merge(transcriptFlags, spliceFlags, map[string]string{
				"max-skip":  "skip.max",
				"all-sites": "skip.all_sites",
				"workers":   "skip.workers",
				"db":        "db",
			})); err != nil {
				return err
			}
			return a.runSites(cmd, args[0], outputFile)
		},
	}

	addTranscriptFlags(cmd)
	addSpliceFlags(cmd)
	cmd.Flags().Int("max-skip", 1, "Largest number of exons skipped at once (0: unlimited)")
	cmd.Flags().Bool("all-sites", false, "Emit a site for every exon of a run, not only the first")
	cmd.Flags().Int("workers", 0, "Worker goroutines (0: one per CPU)")
	cmd.Flags().String("db", "", "Also store decisions and sites in this DuckDB database")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

func (a *app) runSites(cmd *cobra.Command, path, outputFile string) error {
	proj, err := a.projector()
	if err != nil {
		return err
	}

	var store *duckdb.Store
	if dbPath := a.v.GetString("db"); dbPath != "" {
		store, err = duckdb.Open(dbPath)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	p, err := gtf.NewParser(path)
	if err != nil {
		return err
	}
	defer p.Close()

	finder := pipeline.NewFinder(proj)
	finder.SetMaxSkip(a.v.GetInt("skip.max"))
	finder.SetAllSites(a.v.GetBool("skip.all_sites"))
	finder.SetWorkers(a.v.GetInt("skip.workers"))
	finder.SetLogger(a.logger)

	sites := splice.NewSet()
	var results []*pipeline.Result
	err = finder.FindAll(transcript.NewGrouper(p, a.transcriptOptions()), func(r *pipeline.Result) error {
		for _, d := range r.Decisions {
			sites.Add(d.Sites...)
		}
		if store != nil && len(r.Decisions) > 0 {
			results = append(results, r)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("find skips in %s: %w", path, err)
	}

	out, closeOut, err := openOutput(cmd, outputFile)
	if err != nil {
		return err
	}
	w := output.NewBEDWriter(out)
	if err := w.WriteAll(sites.Sorted()); err != nil {
		closeOut()
		return fmt.Errorf("write sites: %w", err)
	}
	if err := w.Flush(); err != nil {
		closeOut()
		return fmt.Errorf("write sites: %w", err)
	}
	if err := closeOut(); err != nil {
		return err
	}
	a.logger.Info("sites written", zap.Int("sites", sites.Len()), zap.String("convention", proj.Convention().Name))

	if store != nil {
		return a.persist(store, path, proj.Convention(), results)
	}
	return nil
}

// persist stores the results of one sites run together with the
// fingerprint of the input file.
func (a *app) persist(store *duckdb.Store, path string, conv splice.Convention, results []*pipeline.Result) error {
	fp := duckdb.FileFingerprint{Path: path}
	if path != "-" {
		var err error
		if fp, err = duckdb.StatFile(path); err != nil {
			return fmt.Errorf("stat input: %w", err)
		}
	}

	run, err := store.SaveRun(fp, conv.Name, a.v.GetInt("skip.max"), results)
	if err != nil {
		return err
	}
	a.logger.Info("results stored",
		zap.Int64("run", run.ID),
		zap.Int("transcripts", len(results)),
		zap.String("db", a.v.GetString("db")))
	return nil
}
