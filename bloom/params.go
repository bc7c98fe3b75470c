package bloom

import (
	"encoding/hex"
	"fmt"
	"math"

	"github.com/fxamacker/cbor/v2"
	"github.com/viant/pprl/digest"
	"github.com/viant/pprl/pprlerr"
	"github.com/viant/pprl/record"
	"github.com/zeebo/blake3"
)

// MaxBitLength is the largest supported filter length.
const MaxBitLength = math.MaxUint32

// Params configures an Encoder.
type Params struct {
	Scheme Kind `cbor:"1,keyasint"`
	// H1 and H2 name the digests of the double, enhanced-double and triple
	// schemes; see digest.Lookup.
	H1 string `cbor:"2,keyasint"`
	H2 string `cbor:"3,keyasint"`
	// BitLength is L, the number of bits of every Encoding.
	BitLength int `cbor:"4,keyasint"`
	// HashCount is k, the number of positions emitted per bigram.
	HashCount int `cbor:"5,keyasint"`
	// Weighted scales k by the attribute weight (floor(k*w)).
	Weighted bool   `cbor:"6,keyasint"`
	Salt     string `cbor:"7,keyasint"`
	// Normalize folds diacritics and case before bigrams are extracted.
	Normalize bool `cbor:"8,keyasint"`
}

// DefaultParams mirrors the settings the linkage experiments ran with.
func DefaultParams() Params {
	return Params{
		Scheme:    EnhancedDouble,
		H1:        "SHA-1",
		H2:        "MD5",
		BitLength: 1000,
		HashCount: 10,
		Weighted:  true,
		Salt:      "1",
	}
}

// Validate reports the first configuration problem as an ErrConfig error.
func (p Params) Validate() error {
	if p.BitLength <= 0 {
		return pprlerr.Config("bloom: bit length must be positive, got %d", p.BitLength)
	}
	if uint64(p.BitLength) > MaxBitLength {
		return pprlerr.Config("bloom: bit length %d exceeds %d", p.BitLength, uint64(MaxBitLength))
	}
	if p.HashCount < 0 {
		return pprlerr.Config("bloom: hash count must not be negative, got %d", p.HashCount)
	}
	if p.Scheme.id() == 0 {
		return pprlerr.Config("bloom: unknown hashing scheme %q", p.Scheme)
	}
	// digests are checked for every scheme, random included
	if _, err := digest.Lookup(p.H1); err != nil {
		return fmt.Errorf("bloom: h1: %w", err)
	}
	if _, err := digest.Lookup(p.H2); err != nil {
		return fmt.Errorf("bloom: h2: %w", err)
	}
	return nil
}

var fingerprintMode cbor.EncMode

func init() {
	var err error
	fingerprintMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("bloom: CBOR encoder initialization failed: " + err.Error())
	}
}

type fingerprintAttr struct {
	Name   string  `cbor:"1,keyasint"`
	Weight float64 `cbor:"2,keyasint"`
}

type fingerprintInput struct {
	Params     Params            `cbor:"1,keyasint"`
	Attributes []fingerprintAttr `cbor:"2,keyasint"`
}

// Fingerprint identifies encodings built with p over schema: two runs get the
// same fingerprint only when every bit they would produce is the same. The
// salt takes part in the hash and cannot be recovered from it.
func (p Params) Fingerprint(schema *record.Schema) (string, error) {
	in := fingerprintInput{Params: p}
	// digest names are folded so "sha1" and "SHA-1" agree
	if n := digest.Name(p.H1); n != "" {
		in.Params.H1 = n
	}
	if n := digest.Name(p.H2); n != "" {
		in.Params.H2 = n
	}
	if p.Scheme == Random {
		in.Params.H1, in.Params.H2 = "", ""
	}
	for _, a := range schema.Attributes() {
		in.Attributes = append(in.Attributes, fingerprintAttr{Name: a.Name, Weight: a.Weight})
	}
	data, err := fingerprintMode.Marshal(in)
	if err != nil {
		return "", fmt.Errorf("bloom: failed to encode fingerprint input: %w", err)
	}
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
