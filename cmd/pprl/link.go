package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"github.com/viant/pprl/config"
	"github.com/viant/pprl/dataset"
	"github.com/viant/pprl/evaluation"
	"github.com/viant/pprl/pipeline"
	"github.com/viant/pprl/record"
	"github.com/viant/pprl/store"
)

// overrides binds one flag per configuration option. Only flags set on the
// command line replace file values.
type overrides struct {
	scheme      string
	h1, h2      string
	bitLength   int
	hashCount   int
	weighted    bool
	salt        string
	normalize   bool
	mode        string
	threshold   float64
	similarity  string
	blocking    bool
	cheat       bool
	strategies  []string
	concurrency int
	storage     string
	storageKind string
	redisAddr   string
	recreate    bool
}

func (o *overrides) add(fs *pflag.FlagSet) {
	def := config.Default()
	fs.StringVar(&o.scheme, "scheme", def.HashingScheme, "hashing scheme: double, enhanced-double, triple, random")
	fs.StringVar(&o.h1, "h1", def.H1, "first digest algorithm")
	fs.StringVar(&o.h2, "h2", def.H2, "second digest algorithm")
	fs.IntVar(&o.bitLength, "bit-length", def.BitLength, "Bloom filter length in bits")
	fs.IntVar(&o.hashCount, "hash-count", def.HashCount, "hash functions per bigram")
	fs.BoolVar(&o.weighted, "weighted", def.Weighted, "scale the hash count by attribute weight")
	fs.StringVar(&o.salt, "salt", "", "token salt (shared secret)")
	fs.BoolVar(&o.normalize, "normalize", def.Normalize, "strip diacritics and upper-case values before encoding")
	fs.StringVar(&o.mode, "mode", def.LinkingMode, "linking mode: polygamous, semi-monogamous-left, semi-monogamous-right, stable-marriage")
	fs.Float64Var(&o.threshold, "threshold", def.Threshold, "minimum similarity of a match")
	fs.StringVar(&o.similarity, "similarity", def.Similarity, "similarity metric: jaccard or dice")
	fs.BoolVar(&o.blocking, "blocking", def.BlockingEnabled, "block records by phonetic keys")
	fs.BoolVar(&o.cheat, "blocking-cheat", def.BlockingCheat, "also block by the ground-truth identifier")
	fs.StringSliceVar(&o.strategies, "strategies", nil, "blocking strategies: first-name-year, last-name-year, first-last-name, identifier-cheat")
	fs.IntVar(&o.concurrency, "concurrency", def.Concurrency, "worker count, 0 for GOMAXPROCS")
	fs.StringVar(&o.storage, "storage", "", "encoding store: SQLite file (.db, .sqlite) or snapshot directory")
	fs.StringVar(&o.storageKind, "storage-kind", "", "store backend overriding the --storage guess: none, sqlite, file, redis")
	fs.StringVar(&o.redisAddr, "redis-addr", "", "redis address for --storage-kind redis")
	fs.BoolVar(&o.recreate, "recreate", false, "ignore stored encodings and overwrite them")
}

func (o *overrides) apply(fs *pflag.FlagSet, cfg *config.Config) {
	set := func(name string, fn func()) {
		if fs.Changed(name) {
			fn()
		}
	}
	set("scheme", func() { cfg.HashingScheme = o.scheme })
	set("h1", func() { cfg.H1 = o.h1 })
	set("h2", func() { cfg.H2 = o.h2 })
	set("bit-length", func() { cfg.BitLength = o.bitLength })
	set("hash-count", func() { cfg.HashCount = o.hashCount })
	set("weighted", func() { cfg.Weighted = o.weighted })
	set("salt", func() { cfg.TokenSalt = o.salt })
	set("normalize", func() { cfg.Normalize = o.normalize })
	set("mode", func() { cfg.LinkingMode = o.mode })
	set("threshold", func() { cfg.Threshold = o.threshold })
	set("similarity", func() { cfg.Similarity = o.similarity })
	set("blocking", func() { cfg.BlockingEnabled = o.blocking })
	set("blocking-cheat", func() { cfg.BlockingCheat = o.cheat })
	set("strategies", func() { cfg.BlockingStrategies = o.strategies })
	set("concurrency", func() { cfg.Concurrency = o.concurrency })
	set("storage", func() {
		cfg.Storage.Path = o.storage
		switch strings.ToLower(filepath.Ext(o.storage)) {
		case ".db", ".sqlite", ".sqlite3":
			cfg.Storage.Kind = store.KindSQLite
		default:
			cfg.Storage.Kind = store.KindFile
		}
	})
	set("storage-kind", func() { cfg.Storage.Kind = store.Kind(o.storageKind) })
	set("redis-addr", func() { cfg.Storage.Addr = o.redisAddr })
	set("recreate", func() { cfg.Storage.Recreate = o.recreate })
}

func runLink(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var (
		dataPath       string
		outPath        string
		configPath     string
		header         bool
		withSimilarity bool
		evaluate       bool
		opts           overrides
		logs           logFlags
	)
	fs := newFlagSet("link", stderr)
	fs.StringVar(&dataPath, "data", "", "input records CSV (required)")
	fs.StringVarP(&outPath, "out", "o", "matches.csv", "output file; .xlsx writes a spreadsheet, - writes CSV to stdout")
	fs.StringVarP(&configPath, "config", "c", "", "YAML configuration file")
	fs.BoolVar(&header, "header", false, "the input starts with a header row")
	fs.BoolVar(&withSimilarity, "with-similarity", false, "add a similarity column to CSV output")
	fs.BoolVar(&evaluate, "evaluate", false, "log precision and recall against the identifier attribute")
	opts.add(fs)
	logs.add(fs)
	if err := parse(fs, args); err != nil {
		return err
	}
	if dataPath == "" {
		return usage("--data is required")
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

	res, err := p.Run(ctx, records)
	if err != nil {
		return err
	}
	if err := writePairs(outPath, res, p, withSimilarity, stdout); err != nil {
		return err
	}
	logger.Info("matches written", "run_id", res.RunID, "pairs", len(res.Pairs), "out", outPath)
	if evaluate {
		logger.Info("evaluation", "run_id", res.RunID, "result", evaluation.Evaluate(records, res.Pairs))
	}
	return nil
}

// openPipeline loads configPath, or the defaults, applies the flags set on fs
// and builds the pipeline.
func openPipeline(ctx context.Context, configPath string, fs *pflag.FlagSet, opts *overrides, logger *slog.Logger) (*pipeline.Pipeline, error) {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.LoadFile(configPath); err != nil {
			return nil, err
		}
	}
	opts.apply(fs, cfg)
	return pipeline.New(ctx, cfg, pipeline.Options{Logger: logger})
}

func readRecords(p *pipeline.Pipeline, path string, header bool) ([]*record.Record, error) {
	in, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer in.Close()
	records, err := p.ReadCSV(in, dataset.ReadOptions{Header: header})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

func writePairs(path string, res *pipeline.Result, p *pipeline.Pipeline, withSimilarity bool, stdout io.Writer) error {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return dataset.WritePairsXLSX(path, res.Pairs, p.Schema())
	}
	w, closeFn, err := create(path, stdout)
	if err != nil {
		return err
	}
	if err := dataset.WritePairsCSV(w, res.Pairs, p.Schema(), withSimilarity); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}
