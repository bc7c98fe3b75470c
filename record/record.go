package record

import (
	"strconv"
	"strings"

	"github.com/viant/pprl/pprlerr"
)

// Side identifies which of the two linked sources a record belongs to.
type Side int8

const (
	// SideNone marks a record whose source label matches neither configured
	// source; such records never take part in matching.
	SideNone Side = iota
	SideA
	SideB
)

func (s Side) String() string {
	switch s {
	case SideA:
		return "A"
	case SideB:
		return "B"
	default:
		return "none"
	}
}

// Record is an immutable tuple of attribute values. Two records are equal when
// all of their values are equal.
type Record struct {
	schema *Schema
	values []string
	key    string
	side   Side
}

// New copies values into a Record. It fails with ErrInvalidArgument when the
// number of values differs from the schema size.
func New(schema *Schema, values ...string) (*Record, error) {
	if schema == nil {
		return nil, pprlerr.InvalidArgument("record: schema is nil")
	}
	if len(values) != schema.Len() {
		return nil, pprlerr.InvalidArgument("record: got %d values, schema has %d attributes", len(values), schema.Len())
	}
	r := &Record{
		schema: schema,
		values: append([]string(nil), values...),
	}
	r.key = tupleKey(r.values)
	switch r.values[schema.index[schema.roles.Source]] {
	case schema.roles.SourceA:
		r.side = SideA
	case schema.roles.SourceB:
		r.side = SideB
	}
	return r, nil
}

// tupleKey length-prefixes every value so distinct tuples never collide.
func tupleKey(values []string) string {
	var b strings.Builder
	for _, v := range values {
		b.WriteString(strconv.Itoa(len(v)))
		b.WriteByte(':')
		b.WriteString(v)
	}
	return b.String()
}

// Schema returns the schema the record conforms to.
func (r *Record) Schema() *Schema { return r.schema }

// Values returns a copy of the attribute values.
func (r *Record) Values() []string { return append([]string(nil), r.values...) }

// At returns the i-th value.
func (r *Record) At(i int) string { return r.values[i] }

// Value returns the value of the named attribute.
func (r *Record) Value(name string) (string, error) {
	i, err := r.schema.Index(name)
	if err != nil {
		return "", err
	}
	return r.values[i], nil
}

// Key returns the canonical identity of the record. Equal records have equal
// keys; encodings and buckets are keyed by it.
func (r *Record) Key() string { return r.key }

// Side returns the source group of the record.
func (r *Record) Side() Side { return r.side }

// SourceLabel returns the raw source label.
func (r *Record) SourceLabel() string { return r.values[r.schema.index[r.schema.roles.Source]] }

// Identifier returns the identifier attribute value.
func (r *Record) Identifier() string { return r.values[r.schema.index[r.schema.roles.Identifier]] }

// Phonetic returns the Soundex code of the named attribute.
func (r *Record) Phonetic(name string) (string, error) {
	v, err := r.Value(name)
	if err != nil {
		return "", err
	}
	return Soundex(v), nil
}

// Equal reports whether both records hold the same values.
func (r *Record) Equal(o *Record) bool {
	if r == nil || o == nil {
		return r == o
	}
	return r.key == o.key
}
