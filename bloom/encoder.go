package bloom

import (
	"math"
	"unicode"
	"unicode/utf8"

	"github.com/viant/pprl/pprlerr"
	"github.com/viant/pprl/record"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Encoder turns records of one schema into Encodings. It is safe for
// concurrent use.
type Encoder struct {
	schema *record.Schema
	params Params
	scheme Scheme
	fields []field
}

// field is an encoded attribute and its per-bigram hash count.
type field struct {
	index int
	k     int
}

// NewEncoder validates params against schema. Every configuration problem is
// reported here, before any record is encoded.
func NewEncoder(schema *record.Schema, params Params) (*Encoder, error) {
	if schema == nil {
		return nil, pprlerr.Config("bloom: schema is nil")
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	scheme, err := NewScheme(params)
	if err != nil {
		return nil, err
	}
	enc := &Encoder{schema: schema, params: params, scheme: scheme}
	for i, a := range schema.Attributes() {
		if a.Weight == 0 {
			continue
		}
		enc.fields = append(enc.fields, field{index: i, k: HashCount(params.HashCount, a.Weight, params.Weighted)})
	}
	return enc, nil
}

// HashCount returns the per-bigram hash count of an attribute: k, or
// floor(k*weight) in weighted mode.
func HashCount(k int, weight float64, weighted bool) int {
	if !weighted {
		return k
	}
	return int(math.Floor(float64(k) * weight))
}

// Params returns the encoder configuration.
func (e *Encoder) Params() Params { return e.params }

// Schema returns the schema records must conform to.
func (e *Encoder) Schema() *record.Schema { return e.schema }

// Encode builds the Encoding of r. Attributes with weight zero are never
// hashed. A value that is not valid UTF-8 fails with ErrInvalidArgument.
func (e *Encoder) Encode(r *record.Record) (*Encoding, error) {
	if r == nil {
		return nil, pprlerr.InvalidArgument("bloom: record is nil")
	}
	if r.Schema() != e.schema {
		return nil, pprlerr.InvalidArgument("bloom: record schema differs from encoder schema")
	}
	out := NewEncoding(e.params.BitLength, e.params.HashCount, e.params.Scheme)
	var fold transform.Transformer
	if e.params.Normalize {
		fold = newFolder()
	}
	salt := e.params.Salt
	for _, f := range e.fields {
		if f.k <= 0 {
			continue
		}
		value := r.At(f.index)
		if !utf8.ValidString(value) {
			return nil, pprlerr.InvalidArgument("bloom: attribute %q holds invalid UTF-8", e.schema.Attributes()[f.index].Name)
		}
		if fold != nil {
			folded, _, err := transform.String(fold, value)
			if err != nil {
				return nil, pprlerr.InvalidArgument("bloom: cannot normalize %q: %v", value, err)
			}
			value = folded
		}
		for _, bigram := range Bigrams(value) {
			e.scheme.Emit(salt+bigram+salt, f.k, out.set)
		}
	}
	return out, nil
}

// newFolder strips diacritics and upper-cases. Transformers keep state, so
// every Encode call builds its own.
func newFolder() transform.Transformer {
	return transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		norm.NFC,
		cases.Upper(language.Und),
	)
}

// Bigrams returns the overlapping two-rune substrings of value padded with
// '_' on both ends: "AB" yields "_A", "AB", "B_".
func Bigrams(value string) []string {
	padded := []rune("_" + value + "_")
	out := make([]string, 0, len(padded)-1)
	for i := 0; i+1 < len(padded); i++ {
		out = append(out, string(padded[i:i+2]))
	}
	return out
}
