package bruteforce

import (
	"errors"
	"fmt"
	"sort"

	"github.com/viant/pprl/bloom"
	"github.com/viant/pprl/index"
	"github.com/viant/pprl/similarity"
)

// Index is a brute-force encoding index. The zero value scores with Jaccard.
type Index struct {
	Metric similarity.Func

	ids  []string
	encs []*bloom.Encoding
}

// New returns an index scoring with metric.
func New(metric similarity.Func) *Index { return &Index{Metric: metric} }

func (i *Index) metric() similarity.Func {
	if i.Metric == nil {
		return similarity.Jaccard
	}
	return i.Metric
}

// Build loads ids and encodings.
func (i *Index) Build(ids []string, encodings []*bloom.Encoding) error {
	if len(ids) != len(encodings) {
		return fmt.Errorf("bruteforce: ids and encodings length mismatch: %d != %d", len(ids), len(encodings))
	}
	if len(ids) == 0 {
		i.ids, i.encs = nil, nil
		return nil
	}
	for j, e := range encodings {
		if e == nil {
			return fmt.Errorf("bruteforce: encoding of %q is nil", ids[j])
		}
		if e.Length != encodings[0].Length {
			return fmt.Errorf("bruteforce: inconsistent encoding lengths %d vs %d", e.Length, encodings[0].Length)
		}
	}
	i.ids = append([]string(nil), ids...)
	i.encs = append([]*bloom.Encoding(nil), encodings...)
	return nil
}

// Rank returns every entry ordered by decreasing similarity to query; equal
// scores keep build order.
func (i *Index) Rank(query *bloom.Encoding) ([]string, []float64, error) {
	if len(i.encs) == 0 {
		return nil, nil, nil
	}
	if query == nil {
		return nil, nil, errors.New("bruteforce: query encoding is nil")
	}
	type scored struct {
		idx   int
		score float64
	}
	metric := i.metric()
	scoreds := make([]scored, 0, len(i.encs))
	for j, e := range i.encs {
		s, err := metric(query, e)
		if err != nil {
			return nil, nil, fmt.Errorf("bruteforce: %w", err)
		}
		scoreds = append(scoreds, scored{idx: j, score: s})
	}
	sort.SliceStable(scoreds, func(a, b int) bool { return scoreds[a].score > scoreds[b].score })
	outIDs := make([]string, len(scoreds))
	outScores := make([]float64, len(scoreds))
	for n, sc := range scoreds {
		outIDs[n] = i.ids[sc.idx]
		outScores[n] = sc.score
	}
	return outIDs, outScores, nil
}

var _ index.Index = (*Index)(nil)
