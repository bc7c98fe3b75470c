package main

import (
	"context"
	"io"

	"github.com/viant/pprl/dataset"
	"github.com/viant/pprl/record"
)

func runGenerate(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var (
		outPath string
		header  bool
		opts    dataset.GenerateOptions
	)
	fs := newFlagSet("generate", stderr)
	fs.StringVarP(&outPath, "out", "o", "-", "output CSV, - for stdout")
	fs.IntVar(&opts.Size, "size", 1000, "records per source")
	fs.Float64Var(&opts.Overlap, "overlap", 0.5, "fraction of persons present in both sources")
	fs.Float64Var(&opts.ErrorRate, "error-rate", 0.1, "per-attribute typo probability")
	fs.Int64Var(&opts.Seed, "seed", 1, "generator seed, 0 for a random one")
	fs.BoolVar(&header, "header", false, "write a header row")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := opts.Validate(); err != nil {
		return usage("%v", err)
	}
	records, err := dataset.Generate(opts)
	if err != nil {
		return err
	}
	w, closeFn, err := create(outPath, stdout)
	if err != nil {
		return err
	}
	if err := dataset.WriteCSV(w, records, record.DefaultSchema(), header); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}
