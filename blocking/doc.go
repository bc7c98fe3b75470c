// Package blocking partitions records into overlapping candidate buckets so
// that matching only compares records that share a cheap key.
//
// Keys come from a small set of strategies: Soundex of the first or last
// name combined with the year of birth, both Soundex codes together, and,
// for benchmarking only, the ground-truth identifier. A record is inserted
// under the key of every strategy. With blocking disabled every record lands
// in the single bucket DummyKey.
package blocking
