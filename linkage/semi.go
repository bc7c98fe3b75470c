package linkage

import "github.com/viant/pprl/record"

// candidate is the current best partner of a constrained record.
type candidate struct {
	self       *record.Record
	partner    *record.Record
	similarity float64
}

// beats orders candidates by similarity, then by the smaller partner Key.
func (c candidate) beats(o candidate) bool {
	if c.similarity != o.similarity {
		return c.similarity > o.similarity
	}
	return c.partner.Key() < o.partner.Key()
}

// semiMonogamous returns, for every record of constrained, its best partner
// among free whose similarity reaches threshold, keyed by record Key.
func semiMonogamous(constrained, free []*record.Record, threshold float64, scorer Scorer) (map[string]candidate, error) {
	out := make(map[string]candidate)
	for _, x := range constrained {
		for _, y := range free {
			sim, err := scorer.Score(x, y)
			if err != nil {
				return nil, err
			}
			if sim < threshold {
				continue
			}
			c := candidate{self: x, partner: y, similarity: sim}
			if cur, ok := out[x.Key()]; !ok || c.beats(cur) {
				out[x.Key()] = c
			}
		}
	}
	return out, nil
}
