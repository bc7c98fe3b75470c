package record

import (
	"sort"
)

// Pair is an unordered match between two records, optionally scored. A is the
// record from source A whenever the two records come from opposite sources;
// otherwise the records are ordered by Key.
type Pair struct {
	A, B       *Record
	Similarity float64
}

// PairKey is the canonical identity of an unordered pair.
type PairKey struct {
	Lo, Hi string
}

// NewPair returns the pair of x and y in canonical orientation.
func NewPair(x, y *Record, similarity float64) Pair {
	switch {
	case x.side == SideB && y.side == SideA:
		x, y = y, x
	case x.side == y.side && y.key < x.key:
		x, y = y, x
	}
	return Pair{A: x, B: y, Similarity: similarity}
}

// Key returns the order-independent identity of p.
func (p Pair) Key() PairKey { return keyOf(p.A, p.B) }

func keyOf(x, y *Record) PairKey {
	if y.key < x.key {
		return PairKey{Lo: y.key, Hi: x.key}
	}
	return PairKey{Lo: x.key, Hi: y.key}
}

// PairSet is a set of pairs with symmetric deduplication: pair(a,b) and
// pair(b,a) occupy one slot. It is not safe for concurrent use; concurrent
// producers accumulate private sets and Merge them afterwards.
type PairSet struct {
	pairs map[PairKey]Pair
}

// NewPairSet returns an empty set.
func NewPairSet() *PairSet {
	return &PairSet{pairs: make(map[PairKey]Pair)}
}

// Add inserts p and reports whether it was not present yet. When p is already
// present the higher similarity is kept.
func (s *PairSet) Add(p Pair) bool {
	k := p.Key()
	if prev, ok := s.pairs[k]; ok {
		if p.Similarity > prev.Similarity {
			prev.Similarity = p.Similarity
			s.pairs[k] = prev
		}
		return false
	}
	s.pairs[k] = p
	return true
}

// Contains reports whether the unordered pair of x and y is in the set.
func (s *PairSet) Contains(x, y *Record) bool {
	_, ok := s.pairs[keyOf(x, y)]
	return ok
}

// Get returns the stored pair of x and y.
func (s *PairSet) Get(x, y *Record) (Pair, bool) {
	p, ok := s.pairs[keyOf(x, y)]
	return p, ok
}

// Len returns the number of pairs.
func (s *PairSet) Len() int { return len(s.pairs) }

// Merge adds every pair of other to s.
func (s *PairSet) Merge(other *PairSet) {
	if other == nil {
		return
	}
	for _, p := range other.pairs {
		s.Add(p)
	}
}

// Pairs returns the pairs ordered by the identifiers of A and B, then by
// record keys.
func (s *PairSet) Pairs() []Pair {
	out := make([]Pair, 0, len(s.pairs))
	for _, p := range s.pairs {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if ai, bi := a.A.Identifier(), b.A.Identifier(); ai != bi {
			return ai < bi
		}
		if ai, bi := a.B.Identifier(), b.B.Identifier(); ai != bi {
			return ai < bi
		}
		if a.A.key != b.A.key {
			return a.A.key < b.A.key
		}
		return a.B.key < b.B.key
	})
	return out
}
