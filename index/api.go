package index

import "github.com/viant/pprl/bloom"

// Index ranks a fixed set of encodings by similarity to a query encoding.
type Index interface {
	// Build constructs the index from the given ids and encodings. ids and
	// encodings must have the same length and all encodings the same bit
	// length.
	Build(ids []string, encodings []*bloom.Encoding) error

	// Rank returns every entry as parallel slices of ids and scores, most
	// similar first. Equal scores keep build order.
	Rank(query *bloom.Encoding) (ids []string, scores []float64, err error)
}
