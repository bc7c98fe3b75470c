package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/viant/pprl/blocking"
	"github.com/viant/pprl/bloom"
	"github.com/viant/pprl/config"
	"github.com/viant/pprl/dataset"
	"github.com/viant/pprl/internal/parallel"
	"github.com/viant/pprl/linkage"
	"github.com/viant/pprl/pprlerr"
	"github.com/viant/pprl/record"
	"github.com/viant/pprl/similarity"
	"github.com/viant/pprl/store"
)

// Options customizes a Pipeline.
type Options struct {
	// Schema overrides the schema built from the configuration. Records
	// passed to Run must be built with the pipeline schema.
	Schema *record.Schema
	// Store overrides cfg.Storage. The pipeline does not close it.
	Store  store.Store
	Logger *slog.Logger
}

// Stats reports what each phase did.
type Stats struct {
	Records int
	// Cached encodings were loaded from the store, Encoded ones computed.
	Cached  int
	Encoded int
	// Stored counts the encodings the store holds for the fingerprint after
	// the encode phase; zero without a store.
	Stored  int
	Encode  time.Duration
	Block   time.Duration
	Linkage linkage.Stats
}

// Result is the outcome of a run.
type Result struct {
	RunID       string
	Fingerprint string
	Pairs       []record.Pair
	Encodings   map[string]*bloom.Encoding
	Buckets     blocking.Buckets
	Stats       Stats
}

// Pipeline holds the validated components of a configuration.
type Pipeline struct {
	cfg         *config.Config
	schema      *record.Schema
	encoder     *bloom.Encoder
	metric      similarity.Metric
	strategies  []blocking.Strategy
	mode        linkage.Mode
	fingerprint string
	store       store.Store
	ownStore    bool
	logger      *slog.Logger
}

// New validates cfg, builds the encoder and opens the configured store.
func New(ctx context.Context, cfg *config.Config, opts Options) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p := &Pipeline{cfg: cfg, schema: opts.Schema, logger: opts.Logger}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	var err error
	if p.schema == nil {
		if p.schema, err = cfg.RecordSchema(); err != nil {
			return nil, err
		}
	}
	params, err := cfg.Params()
	if err != nil {
		return nil, err
	}
	if p.encoder, err = bloom.NewEncoder(p.schema, params); err != nil {
		return nil, err
	}
	if p.fingerprint, err = params.Fingerprint(p.schema); err != nil {
		return nil, err
	}
	metric, err := cfg.Metric()
	if err != nil {
		return nil, err
	}
	p.metric = metric
	if p.strategies, err = cfg.Strategies(); err != nil {
		return nil, err
	}
	if p.mode, err = cfg.Mode(); err != nil {
		return nil, err
	}
	p.store = opts.Store
	if p.store == nil {
		if p.store, err = store.Open(ctx, cfg.Storage); err != nil {
			return nil, err
		}
		p.ownStore = p.store != nil
	}
	return p, nil
}

// Schema returns the schema records must be built with.
func (p *Pipeline) Schema() *record.Schema { return p.schema }

// Fingerprint returns the identity of the encoder configuration.
func (p *Pipeline) Fingerprint() string { return p.fingerprint }

// ReadCSV reads records of the pipeline schema.
func (p *Pipeline) ReadCSV(r io.Reader, opts dataset.ReadOptions) ([]*record.Record, error) {
	return dataset.ReadCSV(r, p.schema, opts)
}

// Close closes the store when the pipeline opened it.
func (p *Pipeline) Close() error {
	if p.ownStore {
		return p.store.Close()
	}
	return nil
}

// Run links records.
func (p *Pipeline) Run(ctx context.Context, records []*record.Record) (*Result, error) {
	res := &Result{RunID: uuid.NewString(), Fingerprint: p.fingerprint}
	logger := p.logger.With("run_id", res.RunID)
	logger.Info("run started", append([]any{"records", len(records)}, p.cfg.Summary()...)...)
	res.Stats.Records = len(records)

	started := time.Now()
	encodings, cached, err := p.encode(ctx, records)
	if err != nil {
		return nil, fmt.Errorf("pipeline: encode: %w", err)
	}
	res.Encodings = encodings
	res.Stats.Cached = cached
	res.Stats.Encoded = len(encodings) - cached
	if p.store != nil {
		if res.Stats.Stored, err = p.store.Count(ctx, p.fingerprint); err != nil {
			return nil, fmt.Errorf("pipeline: count stored encodings: %w", err)
		}
	}
	res.Stats.Encode = time.Since(started)
	logger.Info("phase done", "phase", "encode", "records", len(records), "cached", cached,
		"encoded", res.Stats.Encoded, "stored", res.Stats.Stored, "elapsed", res.Stats.Encode)

	started = time.Now()
	blocker := blocking.New(p.cfg.BlockingCheat)
	blocker.Enabled = p.cfg.BlockingEnabled
	blocker.Strategies = p.strategies
	blocker.Concurrency = p.cfg.Concurrency
	blocker.Logger = logger
	if res.Buckets, err = blocker.Block(ctx, records); err != nil {
		return nil, fmt.Errorf("pipeline: block: %w", err)
	}
	res.Stats.Block = time.Since(started)
	logger.Info("phase done", "phase", "block", "records", len(records), "buckets", len(res.Buckets),
		"memberships", res.Buckets.Memberships(), "elapsed", res.Stats.Block)

	matcher := &linkage.Matcher{
		Mode:        p.mode,
		Threshold:   p.cfg.Threshold,
		Scorer:      linkage.NewEncodingScorer(encodings, p.metric.Func()),
		Concurrency: p.cfg.Concurrency,
		Logger:      logger,
	}
	pairs, stats, err := matcher.LinkWithStats(ctx, res.Buckets)
	if err != nil {
		return nil, fmt.Errorf("pipeline: link: %w", err)
	}
	res.Pairs = pairs.Pairs()
	res.Stats.Linkage = stats
	logger.Info("phase done", "phase", "link", "buckets", stats.Buckets, "pairs", stats.Pairs, "elapsed", stats.Elapsed)
	return res, nil
}

// sqlSimilarity is implemented by stores that compute similarities next to
// the stored encodings.
type sqlSimilarity interface {
	Similarity(ctx context.Context, fingerprint, keyA, keyB string, metric similarity.Metric) (float64, error)
}

// Similarity returns the similarity of the encodings of a and b under the
// configured metric. Both encodings are stored first; a store implementing
// Similarity, such as the SQLite store, then evaluates it.
func (p *Pipeline) Similarity(ctx context.Context, a, b *record.Record) (float64, error) {
	if a == nil || b == nil {
		return 0, pprlerr.InvalidArgument("pipeline: similarity needs two records")
	}
	encodings, _, err := p.encode(ctx, []*record.Record{a, b})
	if err != nil {
		return 0, fmt.Errorf("pipeline: encode: %w", err)
	}
	if s, ok := p.store.(sqlSimilarity); ok {
		return s.Similarity(ctx, p.fingerprint, a.Key(), b.Key(), p.metric)
	}
	return p.metric.Func()(encodings[a.Key()], encodings[b.Key()])
}

// encode returns the encoding of every distinct record and how many came
// from the store. Fresh encodings are written into per-record slots by
// workers, merged, and saved.
func (p *Pipeline) encode(ctx context.Context, records []*record.Record) (map[string]*bloom.Encoding, int, error) {
	var (
		keys   []string
		unique []*record.Record
		seen   = make(map[string]bool, len(records))
	)
	for _, r := range records {
		if seen[r.Key()] {
			continue
		}
		seen[r.Key()] = true
		keys = append(keys, r.Key())
		unique = append(unique, r)
	}

	encodings := make(map[string]*bloom.Encoding, len(unique))
	if p.store != nil && !p.cfg.Storage.Recreate {
		loaded, err := p.store.Load(ctx, p.fingerprint, keys)
		if err != nil {
			return nil, 0, err
		}
		for k, e := range loaded {
			if seen[k] {
				encodings[k] = e
			}
		}
	}
	cached := len(encodings)

	var missing []*record.Record
	for _, r := range unique {
		if _, ok := encodings[r.Key()]; !ok {
			missing = append(missing, r)
		}
	}
	slots := make([]*bloom.Encoding, len(missing))
	g, gctx := errgroup.WithContext(ctx)
	for _, rg := range parallel.Split(len(missing), parallel.Workers(p.cfg.Concurrency)) {
		g.Go(func() error {
			for i := rg.Lo; i < rg.Hi; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				e, err := p.encoder.Encode(missing[i])
				if err != nil {
					return err
				}
				slots[i] = e
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	fresh := make(map[string]*bloom.Encoding, len(missing))
	for i, r := range missing {
		fresh[r.Key()] = slots[i]
		encodings[r.Key()] = slots[i]
	}
	if p.store != nil && len(fresh) > 0 {
		if err := p.store.Save(ctx, p.fingerprint, fresh); err != nil {
			return nil, 0, err
		}
	}
	return encodings, cached, nil
}

// Run links records under cfg with a one-off Pipeline. Unless opts.Schema is
// set, the schema of the first record is used.
func Run(ctx context.Context, cfg *config.Config, records []*record.Record, opts Options) (*Result, error) {
	if opts.Schema == nil && len(records) > 0 {
		opts.Schema = records[0].Schema()
	}
	p, err := New(ctx, cfg, opts)
	if err != nil {
		return nil, err
	}
	defer p.Close()
	return p.Run(ctx, records)
}
