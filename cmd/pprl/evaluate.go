package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/viant/pprl/config"
	"github.com/viant/pprl/dataset"
	"github.com/viant/pprl/evaluation"
)

func runEvaluate(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var (
		dataPath    string
		matchesPath string
		configPath  string
		header      bool
	)
	fs := newFlagSet("evaluate", stderr)
	fs.StringVar(&dataPath, "data", "", "records CSV (required)")
	fs.StringVar(&matchesPath, "matches", "", "match CSV written by link (required)")
	fs.StringVarP(&configPath, "config", "c", "", "YAML configuration providing the schema")
	fs.BoolVar(&header, "header", false, "the records file starts with a header row")
	if err := parse(fs, args); err != nil {
		return err
	}
	if dataPath == "" || matchesPath == "" {
		return usage("--data and --matches are required")
	}
	cfg := config.Default()
	var err error
	if configPath != "" {
		if cfg, err = config.LoadFile(configPath); err != nil {
			return err
		}
	}
	schema, err := cfg.RecordSchema()
	if err != nil {
		return err
	}

	data, err := os.Open(dataPath)
	if err != nil {
		return err
	}
	defer data.Close()
	records, err := dataset.ReadCSV(data, schema, dataset.ReadOptions{Header: header})
	if err != nil {
		return fmt.Errorf("%s: %w", dataPath, err)
	}
	matches, err := os.Open(matchesPath)
	if err != nil {
		return err
	}
	defer matches.Close()
	links, err := evaluation.ReadLinks(matches, schema)
	if err != nil {
		return fmt.Errorf("%s: %w", matchesPath, err)
	}

	res := evaluation.EvaluateLinks(records, links)
	fmt.Fprintf(stdout, "true_positives\t%d\n", res.TruePositives)
	fmt.Fprintf(stdout, "false_positives\t%d\n", res.FalsePositives)
	fmt.Fprintf(stdout, "false_negatives\t%d\n", res.FalseNegatives)
	fmt.Fprintf(stdout, "true_negatives\t%d\n", res.TrueNegatives())
	fmt.Fprintf(stdout, "precision\t%.4f\n", res.Precision)
	fmt.Fprintf(stdout, "recall\t%.4f\n", res.Recall)
	fmt.Fprintf(stdout, "f_measure\t%.4f\n", res.FMeasure)
	return nil
}
