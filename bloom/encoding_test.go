package bloom

import (
	"errors"
	"testing"

	"github.com/viant/pprl/pprlerr"
)

func TestEncodeDecodeFilter_RoundTrip(t *testing.T) {
	orig := NewEncoding(13, 7, Triple)
	for _, i := range []uint{0, 3, 8, 12} {
		orig.set(i)
	}
	b, err := EncodeFilter(orig)
	if err != nil {
		t.Fatalf("EncodeFilter failed: %v", err)
	}
	if len(b) != headerSize+2 {
		t.Fatalf("blob length = %d, want %d", len(b), headerSize+2)
	}
	decoded, err := DecodeFilter(b)
	if err != nil {
		t.Fatalf("DecodeFilter failed: %v", err)
	}
	if !decoded.Equal(orig) {
		t.Fatalf("decoded = %s, want %s", decoded, orig)
	}
	if decoded.HashCount != 7 || decoded.Scheme != Triple {
		t.Fatalf("decoded metadata = %d/%s, want 7/triple", decoded.HashCount, decoded.Scheme)
	}
	var viaBinary Encoding
	if err := viaBinary.UnmarshalBinary(b); err != nil {
		t.Fatalf("UnmarshalBinary failed: %v", err)
	}
	if !viaBinary.Equal(orig) {
		t.Fatalf("UnmarshalBinary = %s, want %s", &viaBinary, orig)
	}
}

func TestDecodeFilter_Invalid(t *testing.T) {
	if e, err := DecodeFilter(nil); e != nil || err != nil {
		t.Fatalf("DecodeFilter(nil) = %v, %v, want nil, nil", e, err)
	}
	if _, err := DecodeFilter([]byte{1, 2, 3}); err == nil {
		t.Fatalf("expected error for short blob")
	}
	b, _ := EncodeFilter(FromBits(true, false, true))
	if _, err := DecodeFilter(b[:len(b)-1]); err == nil {
		t.Fatalf("expected error for truncated body")
	}
	b[headerSize] = 0xFF
	if _, err := DecodeFilter(b); err == nil {
		t.Fatalf("expected error for bits beyond length")
	}
	b[0] = 9
	if _, err := DecodeFilter(b); err == nil {
		t.Fatalf("expected error for unknown version")
	}
}

func TestEncoding_Counts(t *testing.T) {
	a := FromBits(true, true, false, false, true)
	b := FromBits(true, false, false, true, true)
	if got, _ := a.Intersection(b); got != 2 {
		t.Fatalf("Intersection = %d, want 2", got)
	}
	if got, _ := a.Union(b); got != 4 {
		t.Fatalf("Union = %d, want 4", got)
	}
	if got := a.String(); got != "11001" {
		t.Fatalf("String = %s, want 11001", got)
	}
	if got := a.Positions(); len(got) != 3 || got[2] != 4 {
		t.Fatalf("Positions = %v, want [0 1 4]", got)
	}
	if _, err := a.Union(FromBits(true)); !errors.Is(err, pprlerr.ErrInvalidArgument) {
		t.Fatalf("Union length mismatch error = %v, want ErrInvalidArgument", err)
	}
}
