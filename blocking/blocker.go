package blocking

import (
	"context"
	"log/slog"
	"sort"

	"github.com/viant/pprl/internal/parallel"
	"github.com/viant/pprl/record"
	"golang.org/x/sync/errgroup"
)

// DummyKey is the key of the only bucket when blocking is disabled.
const DummyKey = "DUMMY_VALUE"

// Bucket is a set of records sharing a blocking key, ordered by record Key.
type Bucket struct {
	Key     string
	Records []*record.Record
}

// Buckets maps a blocking key to its bucket.
type Buckets map[string]*Bucket

// Keys returns the bucket keys in sorted order.
func (b Buckets) Keys() []string {
	keys := make([]string, 0, len(b))
	for k := range b {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Memberships returns the total number of record insertions over all buckets.
func (b Buckets) Memberships() int {
	n := 0
	for _, bucket := range b {
		n += len(bucket.Records)
	}
	return n
}

// Blocker assigns records to buckets.
type Blocker struct {
	Enabled    bool
	Strategies []Strategy
	// Concurrency bounds the number of workers; 0 means GOMAXPROCS.
	Concurrency int
	Logger      *slog.Logger
}

// New returns an enabled Blocker using the default strategies.
func New(cheat bool) *Blocker {
	return &Blocker{Enabled: true, Strategies: DefaultStrategies(cheat)}
}

func (b *Blocker) logger() *slog.Logger {
	if b.Logger == nil {
		return slog.Default()
	}
	return b.Logger
}

// Block inserts every record under the key of every strategy. Duplicate
// records (equal Key) are kept once per bucket. Each worker fills a private
// map; the maps are merged in worker order once all of them finish.
func (b *Blocker) Block(ctx context.Context, records []*record.Record) (Buckets, error) {
	if !b.Enabled {
		return Buckets{DummyKey: newBucket(DummyKey, dedup(records))}, nil
	}
	if len(records) == 0 {
		return Buckets{}, nil
	}
	for _, s := range b.Strategies {
		if err := s.Check(records[0].Schema()); err != nil {
			return nil, err
		}
	}
	ranges := parallel.Split(len(records), parallel.Workers(b.Concurrency))
	partials := make([]map[string]map[string]*record.Record, len(ranges))
	g, gctx := errgroup.WithContext(ctx)
	for i, rg := range ranges {
		g.Go(func() error {
			local := make(map[string]map[string]*record.Record)
			for _, r := range records[rg.Lo:rg.Hi] {
				if err := gctx.Err(); err != nil {
					return err
				}
				for _, s := range b.Strategies {
					key, err := s.Key(r)
					if err != nil {
						return err
					}
					set, ok := local[key]
					if !ok {
						set = make(map[string]*record.Record)
						local[key] = set
					}
					set[r.Key()] = r
				}
			}
			partials[i] = local
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	merged := make(map[string]map[string]*record.Record)
	for _, local := range partials {
		for key, set := range local {
			dst, ok := merged[key]
			if !ok {
				merged[key] = set
				continue
			}
			for k, r := range set {
				dst[k] = r
			}
		}
	}
	out := make(Buckets, len(merged))
	for key, set := range merged {
		members := make([]*record.Record, 0, len(set))
		for _, r := range set {
			members = append(members, r)
		}
		out[key] = newBucket(key, members)
	}
	b.logger().Debug("blocking done", "records", len(records), "buckets", len(out), "strategies", len(b.Strategies))
	return out, nil
}

func dedup(records []*record.Record) []*record.Record {
	seen := make(map[string]bool, len(records))
	out := make([]*record.Record, 0, len(records))
	for _, r := range records {
		if seen[r.Key()] {
			continue
		}
		seen[r.Key()] = true
		out = append(out, r)
	}
	return out
}

func newBucket(key string, members []*record.Record) *Bucket {
	sort.Slice(members, func(i, j int) bool { return members[i].Key() < members[j].Key() })
	return &Bucket{Key: key, Records: members}
}

// Split returns the records of the bucket by side. Records of neither side
// are counted in excluded.
func (b *Bucket) Split() (a, bs []*record.Record, excluded int) {
	for _, r := range b.Records {
		switch r.Side() {
		case record.SideA:
			a = append(a, r)
		case record.SideB:
			bs = append(bs, r)
		default:
			excluded++
		}
	}
	return a, bs, excluded
}
