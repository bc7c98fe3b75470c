// Package index defines a minimal abstraction for similarity indexes over
// Bloom filter encodings: built from (id, encoding) pairs and asked for the
// full similarity order of a query. The brute-force implementation produces
// the preference lists of stable-marriage matching.
package index
