package linkage

import (
	"sort"

	"github.com/viant/pprl/record"
)

// preference is one entry of a proposer's list.
type preference struct {
	target     int
	similarity float64
}

// stableMarriage runs deferred acceptance with a as proposers. Every proposer
// walks its preference list best first and each proposal is made once. A
// receiver accepts a proposer scoring at least as high as its current partner;
// the displaced partner proposes again later. The loop ends when every free
// proposer has exhausted its list.
func stableMarriage(a, b []*record.Record, scorer *countingScorer) (*record.PairSet, error) {
	out := record.NewPairSet()
	if len(a) == 0 || len(b) == 0 {
		return out, nil
	}
	prefs := make([][]preference, len(a))
	for i, x := range a {
		order, scores, err := scorer.rank(x, b)
		if err != nil {
			return nil, err
		}
		prefs[i] = make([]preference, len(order))
		for n := range order {
			prefs[i][n] = preference{target: order[n], similarity: scores[n]}
		}
	}

	next := make([]int, len(a))
	partner := make([]int, len(b))
	held := make([]float64, len(b))
	for j := range partner {
		partner[j] = -1
	}
	free := make([]int, len(a))
	for i := range free {
		free[i] = i
	}
	for len(free) > 0 {
		x := free[0]
		free = free[1:]
		for next[x] < len(prefs[x]) {
			p := prefs[x][next[x]]
			next[x]++
			current := partner[p.target]
			if current == -1 {
				partner[p.target], held[p.target] = x, p.similarity
				break
			}
			if p.similarity >= held[p.target] {
				partner[p.target], held[p.target] = x, p.similarity
				free = append(free, current)
				break
			}
		}
	}
	for j, x := range partner {
		if x >= 0 {
			out.Add(record.NewPair(a[x], b[j], held[j]))
		}
	}
	return out, nil
}

// rankByScore orders candidates by decreasing Score; equal scores keep
// candidate order.
func rankByScore(scorer Scorer, r *record.Record, candidates []*record.Record) ([]int, []float64, error) {
	scores := make([]float64, len(candidates))
	order := make([]int, len(candidates))
	for i, c := range candidates {
		s, err := scorer.Score(r, c)
		if err != nil {
			return nil, nil, err
		}
		scores[i], order[i] = s, i
	}
	sort.SliceStable(order, func(i, j int) bool { return scores[order[i]] > scores[order[j]] })
	sorted := make([]float64, len(order))
	for n, i := range order {
		sorted[n] = scores[i]
	}
	return order, sorted, nil
}
