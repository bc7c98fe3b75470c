// Package store persists record encodings so repeated runs over the same
// dataset and configuration skip re-encoding.
//
// Encodings are grouped by the fingerprint of the encoder configuration
// (bloom.Params.Fingerprint) and keyed by record Key. Three backends are
// provided: SQLite via the engine package, a directory of zstd-compressed
// CBOR snapshots, and Redis hashes.
package store
