// Package main provides the vibe-skip command-line tool.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
	ExitUsage   = 2
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const configName = ".vibe-skip.yaml"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	a := newApp()
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	_ = a.logger.Sync()
	if err == nil {
		return ExitSuccess
	}

	fmt.Fprintf(stderr, "Error: %v\n", err)
	if !a.started {
		fmt.Fprintf(stderr, "Run 'vibe-skip --help' for usage.\n")
		return ExitUsage
	}
	if errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(stderr, "Hint: Check that the file path is correct\n")
	}
	return ExitError
}

// app holds state shared by all commands of one invocation.
type app struct {
	v       *viper.Viper
	logger  *zap.Logger
	cfgFile string
	verbose bool
	// started is set once argument validation passed and a command runs.
	started bool
}

func newApp() *app {
	v := viper.New()
	v.SetEnvPrefix("VIBE_SKIP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("transcript.key", "transcript_id")
	v.SetDefault("transcript.biotype", "protein_coding")
	v.SetDefault("transcript.biotype_key", "transcript_biotype")
	v.SetDefault("skip.max", 1)
	v.SetDefault("skip.all_sites", false)
	v.SetDefault("skip.workers", 0)
	v.SetDefault("splice.convention", "acceptor-g")
	v.SetDefault("splice.chrom_style", "add")

	return &app{v: v, logger: zap.NewNop()}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "vibe-skip",
		Short: "Find frame-preserving exon skips in GTF annotations",
		Long: `vibe-skip finds runs of exons whose removal keeps the reading frame
and reports the splice-acceptor sites to edit for skipping them.

Settings come from flags, VIBE_SKIP_* environment variables and
~/.vibe-skip.yaml, in that order of precedence.`,
		Example: `  # BED of editing sites for single-exon skips
  vibe-skip sites Homo_sapiens.GRCh38.gtf.gz > sites.bed

  # Allow skipping up to three exons, keep results in DuckDB
  vibe-skip sites --max-skip 3 --db skips.duckdb annotation.gtf

  # Print the exons named in a BED file
  vibe-skip intersect --bed sites.bed annotation.gtf`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.started = true
			if err := a.loadConfig(); err != nil {
				return err
			}
			logger, err := newLogger(a.verbose)
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			a.logger = logger
			return nil
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "Config file (default: ~/"+configName+")")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Log progress to stderr")

	root.AddCommand(newSitesCmd(a))
	root.AddCommand(newExonsCmd(a))
	root.AddCommand(newFlattenCmd(a))
	root.AddCommand(newIntersectCmd(a))
	root.AddCommand(newQueryCmd(a))
	root.AddCommand(newConfigCmd(a))
	root.AddCommand(newVersionCmd())

	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "vibe-skip version %s (%s) built %s\n", version, commit, date)
		},
	}
}

// loadConfig reads the config file if one exists.
func (a *app) loadConfig() error {
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", a.cfgFile, err)
		}
		return nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	path := filepath.Join(home, configName)
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	a.v.SetConfigFile(path)
	if err := a.v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	return nil
}

// bind maps command flags onto config keys. Call it from RunE: viper keeps
// one binding per key and several commands share flag names.
func (a *app) bind(cmd *cobra.Command, flags map[string]string) error {
	for name, key := range flags {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			return fmt.Errorf("unknown flag %q", name)
		}
		if err := a.v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

// openOutput returns stdout for an empty path, otherwise a created file.
func openOutput(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create output file: %w", err)
	}
	return f, f.Close, nil
}
