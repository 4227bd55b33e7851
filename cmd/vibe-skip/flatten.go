package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inodb/vibe-skip/internal/gtf"
	"github.com/inodb/vibe-skip/internal/output"
)

func newFlattenCmd(a *app) *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:   "flatten [flags] <gtf>",
		Short: "Convert a GTF file to CSV with one column per attribute",
		Long: `Read the GTF twice: the first pass collects every attribute key, the
second writes the eight positional columns followed by one column per key.
Missing attributes are left empty. The input must be a file; stdin cannot
be rewound.`,
		Example: `  vibe-skip flatten annotation.gtf > annotation.csv
  vibe-skip flatten -o annotation.csv annotation.gtf.gz`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runFlatten(cmd, args[0], outputFile)
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

func (a *app) runFlatten(cmd *cobra.Command, path, outputFile string) error {
	f, err := gtf.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	tp, err := gtf.NewTwoPass(f)
	if err != nil {
		return fmt.Errorf("flatten %s: %w", path, err)
	}

	out, closeOut, err := openOutput(cmd, outputFile)
	if err != nil {
		return err
	}
	defer closeOut()

	keys := gtf.NewAttributeKeys()
	var w *output.CSVWriter
	start := func() error {
		w = output.NewCSVWriter(out, keys.Sorted())
		return w.WriteHeader()
	}

	rows := 0
	err = tp.Run(keys.Add, func(r *gtf.Record) error {
		if w == nil {
			if err := start(); err != nil {
				return err
			}
		}
		rows++
		return w.Write(r)
	})
	if err != nil {
		return fmt.Errorf("flatten %s: %w", path, err)
	}
	if w == nil {
		if err := start(); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}

	a.logger.Info("flattened", zap.String("input", path), zap.Int("records", rows), zap.Int("attributes", len(keys.Sorted())))
	return nil
}
