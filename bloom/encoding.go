package bloom

import (
	"encoding/binary"
	"fmt"

	"github.com/bits-and-blooms/bitset"
	"github.com/viant/pprl/pprlerr"
)

// Encoding is the Bloom filter of one record: Length bits plus the hash count
// and scheme that produced them. An Encoding is not modified after the
// Encoder returns it.
type Encoding struct {
	Length    int
	HashCount int
	Scheme    Kind
	bits      *bitset.BitSet
}

// NewEncoding returns an all-zero Encoding of length bits.
func NewEncoding(length, hashCount int, scheme Kind) *Encoding {
	return &Encoding{Length: length, HashCount: hashCount, Scheme: scheme, bits: bitset.New(uint(length))}
}

// FromBits builds an Encoding with the listed bits set; positions must be in
// [0, len(bits)). It is meant for fixtures.
func FromBits(bits ...bool) *Encoding {
	e := NewEncoding(len(bits), 0, "")
	for i, b := range bits {
		if b {
			e.bits.Set(uint(i))
		}
	}
	return e
}

func (e *Encoding) set(i uint) { e.bits.Set(i) }

// Test reports whether bit i is set.
func (e *Encoding) Test(i int) bool { return e.bits.Test(uint(i)) }

// Count returns the number of set bits.
func (e *Encoding) Count() int { return int(e.bits.Count()) }

// Intersection returns the number of bits set in both encodings.
func (e *Encoding) Intersection(o *Encoding) (int, error) {
	if err := e.sameLength(o); err != nil {
		return 0, err
	}
	return int(e.bits.IntersectionCardinality(o.bits)), nil
}

// Union returns the number of bits set in either encoding.
func (e *Encoding) Union(o *Encoding) (int, error) {
	if err := e.sameLength(o); err != nil {
		return 0, err
	}
	return int(e.bits.UnionCardinality(o.bits)), nil
}

func (e *Encoding) sameLength(o *Encoding) error {
	if e.Length != o.Length {
		return pprlerr.InvalidArgument("bloom: encoding length mismatch: %d vs %d", e.Length, o.Length)
	}
	return nil
}

// Equal reports whether both encodings hold the same bits.
func (e *Encoding) Equal(o *Encoding) bool {
	if e == nil || o == nil {
		return e == o
	}
	return e.Length == o.Length && e.bits.Equal(o.bits)
}

// Positions returns the set bits in increasing order.
func (e *Encoding) Positions() []int {
	out := make([]int, 0, e.bits.Count())
	for i, ok := e.bits.NextSet(0); ok; i, ok = e.bits.NextSet(i + 1) {
		out = append(out, int(i))
	}
	return out
}

// String renders the encoding as a string of 0s and 1s.
func (e *Encoding) String() string {
	b := make([]byte, e.Length)
	for i := range b {
		b[i] = '0'
		if e.bits.Test(uint(i)) {
			b[i] = '1'
		}
	}
	return string(b)
}

// MarshalBinary implements encoding.BinaryMarshaler using EncodeFilter.
func (e *Encoding) MarshalBinary() ([]byte, error) { return EncodeFilter(e) }

// UnmarshalBinary implements encoding.BinaryUnmarshaler using DecodeFilter.
func (e *Encoding) UnmarshalBinary(data []byte) error {
	d, err := DecodeFilter(data)
	if err != nil {
		return err
	}
	*e = *d
	return nil
}

const (
	filterVersion = 1
	headerSize    = 10
)

// EncodeFilter encodes an Encoding into a BLOB: a version byte, the scheme
// id, little-endian uint32 length and hash count, then the bits packed eight
// per byte, least significant bit first.
func EncodeFilter(e *Encoding) ([]byte, error) {
	if e == nil {
		return nil, nil
	}
	if e.Length < 0 || uint64(e.Length) > MaxBitLength {
		return nil, fmt.Errorf("bloom: invalid encoding length %d", e.Length)
	}
	b := make([]byte, headerSize+(e.Length+7)/8)
	b[0] = filterVersion
	b[1] = e.Scheme.id()
	binary.LittleEndian.PutUint32(b[2:], uint32(e.Length))
	binary.LittleEndian.PutUint32(b[6:], uint32(e.HashCount))
	body := b[headerSize:]
	for i, ok := e.bits.NextSet(0); ok; i, ok = e.bits.NextSet(i + 1) {
		body[i/8] |= 1 << (i % 8)
	}
	return b, nil
}

// DecodeFilter decodes a BLOB produced by EncodeFilter.
func DecodeFilter(b []byte) (*Encoding, error) {
	if len(b) == 0 {
		return nil, nil
	}
	if len(b) < headerSize {
		return nil, fmt.Errorf("bloom: filter blob too short: %d bytes", len(b))
	}
	if b[0] != filterVersion {
		return nil, fmt.Errorf("bloom: unsupported filter blob version %d", b[0])
	}
	length := int(binary.LittleEndian.Uint32(b[2:]))
	body := b[headerSize:]
	if len(body) != (length+7)/8 {
		return nil, fmt.Errorf("bloom: filter blob has %d body bytes, want %d for %d bits", len(body), (length+7)/8, length)
	}
	e := NewEncoding(length, int(binary.LittleEndian.Uint32(b[6:])), kindOf(b[1]))
	for i, v := range body {
		for j := 0; v != 0; j++ {
			if v&1 == 1 {
				pos := i*8 + j
				if pos >= length {
					return nil, fmt.Errorf("bloom: filter blob sets bit %d beyond length %d", pos, length)
				}
				e.bits.Set(uint(pos))
			}
			v >>= 1
		}
	}
	return e, nil
}
