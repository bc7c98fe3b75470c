// Package similarity scores pairs of Bloom filter encodings by the overlap of
// their set bits.
package similarity
