package linkage

import (
	"strconv"

	"github.com/viant/pprl/bloom"
	"github.com/viant/pprl/index"
	"github.com/viant/pprl/index/bruteforce"
	"github.com/viant/pprl/pprlerr"
	"github.com/viant/pprl/record"
	"github.com/viant/pprl/similarity"
)

// Scorer returns the similarity of two records. Implementations must be safe
// for concurrent use and symmetric.
type Scorer interface {
	Score(a, b *record.Record) (float64, error)
}

// Ranker is implemented by scorers that can order candidates for a record in
// one pass. Rank returns candidate positions by decreasing similarity, equal
// scores keeping candidate order.
type Ranker interface {
	Rank(r *record.Record, candidates []*record.Record) ([]int, []float64, error)
}

// EncodingScorer scores records by the similarity of their encodings, keyed by
// record Key.
type EncodingScorer struct {
	Encodings map[string]*bloom.Encoding
	Metric    similarity.Func
	// NewIndex builds the index Rank orders candidates with; nil means a
	// brute-force index.
	NewIndex func(metric similarity.Func) index.Index
}

// NewEncodingScorer returns a scorer over encodings using metric; a nil metric
// means Jaccard.
func NewEncodingScorer(encodings map[string]*bloom.Encoding, metric similarity.Func) *EncodingScorer {
	if metric == nil {
		metric = similarity.Jaccard
	}
	return &EncodingScorer{Encodings: encodings, Metric: metric}
}

func (s *EncodingScorer) encoding(r *record.Record) (*bloom.Encoding, error) {
	e, ok := s.Encodings[r.Key()]
	if !ok || e == nil {
		return nil, pprlerr.NotFound("linkage: no encoding for record %q", r.Identifier())
	}
	return e, nil
}

// Score implements Scorer.
func (s *EncodingScorer) Score(a, b *record.Record) (float64, error) {
	ea, err := s.encoding(a)
	if err != nil {
		return 0, err
	}
	eb, err := s.encoding(b)
	if err != nil {
		return 0, err
	}
	return s.Metric(ea, eb)
}

func (s *EncodingScorer) newIndex() index.Index {
	if s.NewIndex != nil {
		return s.NewIndex(s.Metric)
	}
	return bruteforce.New(s.Metric)
}

// Rank implements Ranker with an index built over the candidates.
func (s *EncodingScorer) Rank(r *record.Record, candidates []*record.Record) ([]int, []float64, error) {
	query, err := s.encoding(r)
	if err != nil {
		return nil, nil, err
	}
	ids := make([]string, len(candidates))
	encs := make([]*bloom.Encoding, len(candidates))
	pos := make(map[string]int, len(candidates))
	for i, c := range candidates {
		if encs[i], err = s.encoding(c); err != nil {
			return nil, nil, err
		}
		ids[i] = strconv.Itoa(i)
		pos[ids[i]] = i
	}
	ix := s.newIndex()
	if err := ix.Build(ids, encs); err != nil {
		return nil, nil, err
	}
	ranked, scores, err := ix.Rank(query)
	if err != nil {
		return nil, nil, err
	}
	out := make([]int, len(ranked))
	for i, id := range ranked {
		out[i] = pos[id]
	}
	return out, scores, nil
}
