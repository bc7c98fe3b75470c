package bloom

import (
	"encoding/binary"
	"math/bits"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/viant/pprl/digest"
	"github.com/viant/pprl/pprlerr"
	"github.com/zeebo/blake3"
)

// Kind names a hashing scheme.
type Kind string

const (
	Double         Kind = "double"
	EnhancedDouble Kind = "enhanced-double"
	Triple         Kind = "triple"
	Random         Kind = "random"
)

// ParseKind accepts the scheme names and their short forms (DH, ED, TH, RH),
// case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "double", "dh", "double_hashing":
		return Double, nil
	case "enhanced-double", "ed", "enhanced_double_hashing":
		return EnhancedDouble, nil
	case "triple", "th", "triple_hashing":
		return Triple, nil
	case "random", "rh", "random_hashing":
		return Random, nil
	}
	return "", pprlerr.Config("bloom: unknown hashing scheme %q", s)
}

// id is the stable numeric form of a Kind used in BLOB headers.
func (k Kind) id() byte {
	switch k {
	case Double:
		return 1
	case EnhancedDouble:
		return 2
	case Triple:
		return 3
	case Random:
		return 4
	}
	return 0
}

func kindOf(id byte) Kind {
	switch id {
	case 1:
		return Double
	case 2:
		return EnhancedDouble
	case 3:
		return Triple
	case 4:
		return Random
	}
	return ""
}

// Scheme emits the bit positions of one salted token.
type Scheme interface {
	Kind() Kind
	// Emit calls set k times with positions in [0, L).
	Emit(token string, k int, set func(uint))
}

// NewScheme builds the scheme selected by p. Params must be valid.
func NewScheme(p Params) (Scheme, error) {
	m := uint64(p.BitLength)
	switch p.Scheme {
	case Double, EnhancedDouble, Triple:
		h1, err := digest.Lookup(p.H1)
		if err != nil {
			return nil, err
		}
		h2, err := digest.Lookup(p.H2)
		if err != nil {
			return nil, err
		}
		base := digestScheme{m: m, h1: h1, h2: h2}
		switch p.Scheme {
		case Double:
			return &doubleScheme{base}, nil
		case EnhancedDouble:
			return &enhancedScheme{base}, nil
		}
		h3, err := digest.Lookup(digest.Third)
		if err != nil {
			return nil, err
		}
		return &tripleScheme{digestScheme: base, h3: h3}, nil
	case Random:
		return &randomScheme{m: m, seed: saltSeed(p.Salt)}, nil
	}
	return nil, pprlerr.Config("bloom: unknown hashing scheme %q", p.Scheme)
}

type digestScheme struct {
	m      uint64
	h1, h2 digest.Func
}

// start returns both digests of token reduced modulo m. Reducing first keeps
// the recurrences in uint64 without changing any position mod m.
func (s *digestScheme) start(token string) (uint64, uint64) {
	data := []byte(token)
	return digest.Mod(s.h1, data, s.m), digest.Mod(s.h2, data, s.m)
}

func (s *digestScheme) add(a, b uint64) uint64 { return (a + b) % s.m }

func (s *digestScheme) mul(a, b uint64) uint64 {
	hi, lo := bits.Mul64(a, b%s.m)
	_, rem := bits.Div64(hi, lo, s.m)
	return rem
}

// doubleScheme: position_i = (h1 + i*h2) mod L.
type doubleScheme struct{ digestScheme }

func (s *doubleScheme) Kind() Kind { return Double }

func (s *doubleScheme) Emit(token string, k int, set func(uint)) {
	h1, h2 := s.start(token)
	for i := 0; i < k; i++ {
		set(uint(h1))
		h1 = s.add(h1, h2)
	}
}

// enhancedScheme grows the step by i after every position.
type enhancedScheme struct{ digestScheme }

func (s *enhancedScheme) Kind() Kind { return EnhancedDouble }

func (s *enhancedScheme) Emit(token string, k int, set func(uint)) {
	h1, h2 := s.start(token)
	for i := 0; i < k; i++ {
		set(uint(h1))
		h1 = s.add(h1, h2)
		h2 = s.add(h2, uint64(i)%s.m)
	}
}

// tripleScheme adds h3 times the i-th odd number (0, 1, 3, 5, ...) to every
// step.
type tripleScheme struct {
	digestScheme
	h3 digest.Func
}

func (s *tripleScheme) Kind() Kind { return Triple }

func (s *tripleScheme) Emit(token string, k int, set func(uint)) {
	h1, h2 := s.start(token)
	h3 := digest.Mod(s.h3, []byte(token), s.m)
	for i := 0; i < k; i++ {
		odd := uint64(0)
		if i > 0 {
			odd = uint64(2*i - 1)
		}
		set(uint(h1))
		h1 = s.add(s.add(h1, h2), s.mul(h3, odd))
	}
}

// randomScheme draws positions from a generator seeded with the salt seed plus
// the base-257 sum of the token's code points.
type randomScheme struct {
	m    uint64
	seed int64
}

func (s *randomScheme) Kind() Kind { return Random }

func (s *randomScheme) Emit(token string, k int, set func(uint)) {
	seed := s.seed
	pow := int64(1)
	for _, r := range token {
		seed += int64(r) * pow
		pow *= 257
	}
	gen := rand.New(rand.NewPCG(uint64(seed), 0))
	for i := 0; i < k; i++ {
		set(uint(gen.Uint64N(s.m)))
	}
}

// saltSeed reads an integer salt as is; any other salt is folded into an
// int64 through BLAKE3.
func saltSeed(salt string) int64 {
	if v, err := strconv.ParseInt(strings.TrimSpace(salt), 10, 64); err == nil {
		return v
	}
	sum := blake3.Sum256([]byte(salt))
	return int64(binary.BigEndian.Uint64(sum[:8]))
}
