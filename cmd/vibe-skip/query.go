package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inodb/vibe-skip/internal/duckdb"
	"github.com/inodb/vibe-skip/internal/output"
	"github.com/inodb/vibe-skip/internal/splice"
)

func newQueryCmd(a *app) *cobra.Command {
	var (
		transcriptID string
		source       string
		clearAll     bool
	)

	cmd := &cobra.Command{
		Use:   "query --db <path> [flags]",
		Short: "Print splice sites stored by 'sites --db'",
		Long: `Read stored results from a DuckDB database written by 'sites --db'.
Select the sites of one transcript across all runs, or the sites of the
latest run over a GTF file. A warning is logged when that file changed
since the run.`,
		Example: `  vibe-skip query --db skips.duckdb --transcript ENST00000357033
  vibe-skip query --db skips.duckdb --source annotation.gtf
  vibe-skip query --db skips.duckdb --clear`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.bind(cmd, map[string]string{"db": "db"}); err != nil {
				return err
			}
			return a.runQuery(cmd, transcriptID, source, clearAll)
		},
	}

	cmd.Flags().String("db", "", "DuckDB database")
	cmd.Flags().StringVarP(&transcriptID, "transcript", "t", "", "Sites of this transcript")
	cmd.Flags().StringVar(&source, "source", "", "Sites of the latest run over this GTF file")
	cmd.Flags().BoolVar(&clearAll, "clear", false, "Remove all stored results")

	return cmd
}

func (a *app) runQuery(cmd *cobra.Command, transcriptID, source string, clearAll bool) error {
	dbPath := a.v.GetString("db")
	if dbPath == "" {
		return errors.New("no database: set --db or the db config key")
	}

	store, err := duckdb.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if clearAll {
		if err := store.ClearResults(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Cleared stored results in %s\n", dbPath)
		return nil
	}

	var sites []splice.Site
	switch {
	case transcriptID != "":
		sites, err = store.SitesByTranscript(transcriptID)
	case source != "":
		sites, err = a.latestSites(store, source)
	default:
		return errors.New("one of --transcript, --source or --clear is required")
	}
	if err != nil {
		return err
	}

	w := output.NewBEDWriter(cmd.OutOrStdout())
	if err := w.WriteAll(sites); err != nil {
		return err
	}
	return w.Flush()
}

func (a *app) latestSites(store *duckdb.Store, source string) ([]splice.Site, error) {
	run, ok, err := store.LatestRun(source)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("no stored run for %s", source)
	}

	if fp, err := duckdb.StatFile(source); err == nil && !run.Fresh(fp) {
		a.logger.Warn("input changed since stored run",
			zap.String("source", source),
			zap.Int64("run", run.ID),
			zap.Time("run_created", run.CreatedAt))
	}
	a.logger.Info("stored run",
		zap.Int64("run", run.ID),
		zap.String("convention", run.Convention),
		zap.Int("max_skip", run.MaxSkip))

	return store.Sites(run.ID)
}
