package linkage

import "github.com/viant/pprl/record"

// polygamous keeps every pair of a×b at or above threshold.
func polygamous(a, b []*record.Record, threshold float64, scorer Scorer) (*record.PairSet, error) {
	out := record.NewPairSet()
	for _, x := range a {
		for _, y := range b {
			sim, err := scorer.Score(x, y)
			if err != nil {
				return nil, err
			}
			if sim >= threshold {
				out.Add(record.NewPair(x, y, sim))
			}
		}
	}
	return out, nil
}
