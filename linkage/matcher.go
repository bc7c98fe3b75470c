package linkage

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/viant/pprl/blocking"
	"github.com/viant/pprl/internal/parallel"
	"github.com/viant/pprl/pprlerr"
	"github.com/viant/pprl/record"
	"golang.org/x/sync/errgroup"
)

// Matcher links the records of candidate buckets.
type Matcher struct {
	Mode Mode
	// Threshold is the minimum similarity of a pair in the polygamous and
	// semi-monogamous modes.
	Threshold float64
	Scorer    Scorer
	// Concurrency bounds the number of buckets processed at once; 0 means
	// GOMAXPROCS.
	Concurrency int
	Logger      *slog.Logger
}

// Stats summarizes a Link call.
type Stats struct {
	Buckets     int
	Comparisons int64
	// Excluded counts bucket memberships of records whose source label is
	// neither of the two configured sources.
	Excluded int
	Pairs    int
	Elapsed  time.Duration
}

func (m *Matcher) logger() *slog.Logger {
	if m.Logger == nil {
		return slog.Default()
	}
	return m.Logger
}

func (m *Matcher) validate() error {
	switch m.Mode {
	case StableMarriage, SemiMonogamousLeft, SemiMonogamousRight, Polygamous:
	default:
		return pprlerr.Config("linkage: unknown linking mode %q", m.Mode)
	}
	if m.Threshold < 0 || m.Threshold > 1 {
		return pprlerr.Config("linkage: threshold %v is outside [0, 1]", m.Threshold)
	}
	if m.Scorer == nil {
		return pprlerr.Config("linkage: scorer is nil")
	}
	return nil
}

// Link returns the matched pairs of buckets.
func (m *Matcher) Link(ctx context.Context, buckets blocking.Buckets) (*record.PairSet, error) {
	pairs, _, err := m.LinkWithStats(ctx, buckets)
	return pairs, err
}

// bucketResult is the private accumulator of one bucket task.
type bucketResult struct {
	pairs    *record.PairSet
	best     map[string]candidate
	excluded int
}

// LinkWithStats is Link that also reports Stats.
func (m *Matcher) LinkWithStats(ctx context.Context, buckets blocking.Buckets) (*record.PairSet, Stats, error) {
	started := time.Now()
	if err := m.validate(); err != nil {
		return nil, Stats{}, err
	}
	keys := buckets.Keys()
	results := make([]bucketResult, len(keys))
	scorer := &countingScorer{Scorer: m.Scorer}
	logger := m.logger()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel.Workers(m.Concurrency))
	for i, key := range keys {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			a, b, excluded := buckets[key].Split()
			if excluded > 0 {
				logger.Debug("records excluded from matching", "bucket", key, "excluded", excluded)
			}
			res := bucketResult{excluded: excluded}
			var err error
			switch m.Mode {
			case Polygamous:
				res.pairs, err = polygamous(a, b, m.Threshold, scorer)
			case SemiMonogamousLeft:
				res.best, err = semiMonogamous(a, b, m.Threshold, scorer)
			case SemiMonogamousRight:
				res.best, err = semiMonogamous(b, a, m.Threshold, scorer)
			case StableMarriage:
				res.pairs, err = stableMarriage(a, b, scorer)
			}
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, Stats{}, err
	}

	out := record.NewPairSet()
	best := make(map[string]candidate)
	stats := Stats{Buckets: len(keys)}
	for _, res := range results {
		stats.Excluded += res.excluded
		out.Merge(res.pairs)
		for k, c := range res.best {
			if cur, ok := best[k]; !ok || c.beats(cur) {
				best[k] = c
			}
		}
	}
	for _, c := range best {
		out.Add(record.NewPair(c.self, c.partner, c.similarity))
	}
	stats.Pairs = out.Len()
	stats.Comparisons = scorer.calls.Load()
	stats.Elapsed = time.Since(started)
	attrs := []any{"mode", string(m.Mode), "buckets", stats.Buckets, "comparisons", stats.Comparisons,
		"pairs", stats.Pairs, "excluded", stats.Excluded, "elapsed", stats.Elapsed}
	if m.Mode.UsesThreshold() {
		attrs = append(attrs, "threshold", m.Threshold)
	}
	logger.Info("linkage done", attrs...)
	return out, stats, nil
}

type countingScorer struct {
	Scorer
	calls atomic.Int64
}

func (s *countingScorer) Score(a, b *record.Record) (float64, error) {
	s.calls.Add(1)
	return s.Scorer.Score(a, b)
}

// rank orders candidates for r, through Ranker when the scorer has one.
func (s *countingScorer) rank(r *record.Record, candidates []*record.Record) ([]int, []float64, error) {
	if ranker, ok := s.Scorer.(Ranker); ok {
		s.calls.Add(int64(len(candidates)))
		return ranker.Rank(r, candidates)
	}
	return rankByScore(s, r, candidates)
}
