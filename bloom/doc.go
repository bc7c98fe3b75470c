// Package bloom encodes records into fixed-length Bloom filter bit vectors.
//
// Every attribute with a positive weight is split into padded bigrams, each
// bigram is wrapped in the run salt, and a hashing scheme (double,
// enhanced-double, triple or random) sets k bit positions for it. Encodings
// are deterministic: the same record, schema and Params always yield the same
// bits, so they can be persisted and reloaded. EncodeFilter and DecodeFilter
// convert an Encoding to and from the BLOB form the storage layer uses.
package bloom
