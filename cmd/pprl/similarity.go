package main

import (
	"context"
	"fmt"
	"io"

	"github.com/viant/pprl/pprlerr"
	"github.com/viant/pprl/record"
)

func runSimilarity(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var (
		dataPath   string
		configPath string
		header     bool
		idA, idB   string
		opts       overrides
		logs       logFlags
	)
	fs := newFlagSet("similarity", stderr)
	fs.StringVar(&dataPath, "data", "", "input records CSV (required)")
	fs.StringVarP(&configPath, "config", "c", "", "YAML configuration file")
	fs.BoolVar(&header, "header", false, "the input starts with a header row")
	fs.StringVar(&idA, "a", "", "identifier of the source A record (required)")
	fs.StringVar(&idB, "b", "", "identifier of the source B record (required)")
	opts.add(fs)
	logs.add(fs)
	if err := parse(fs, args); err != nil {
		return err
	}
	if dataPath == "" || idA == "" || idB == "" {
		return usage("--data, --a and --b are required")
	}
	logger, err := logs.logger(stderr)
	if err != nil {
		return err
	}

	p, err := openPipeline(ctx, configPath, fs, &opts, logger)
	if err != nil {
		return err
	}
	defer p.Close()
	records, err := readRecords(p, dataPath, header)
	if err != nil {
		return err
	}
	a, err := findRecord(records, record.SideA, idA)
	if err != nil {
		return err
	}
	b, err := findRecord(records, record.SideB, idB)
	if err != nil {
		return err
	}
	sim, err := p.Similarity(ctx, a, b)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%.6f\n", sim)
	return nil
}

// findRecord returns the first record of side with the given identifier.
func findRecord(records []*record.Record, side record.Side, id string) (*record.Record, error) {
	for _, r := range records {
		if r.Side() == side && r.Identifier() == id {
			return r, nil
		}
	}
	return nil, pprlerr.NotFound("no source %v record with identifier %q", side, id)
}
