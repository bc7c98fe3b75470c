// Package linkage resolves candidate buckets into a set of matched pairs.
//
// Four modes are supported. Polygamous keeps every cross-source pair of a
// bucket whose similarity reaches the threshold. Semi-monogamous left (right)
// keeps, for every A (B) record, its single most similar partner over all of
// its buckets. Stable marriage runs deferred acceptance inside each bucket
// and ignores the threshold.
//
// Buckets are processed concurrently; each bucket task accumulates into a
// private result and the results are reduced in sorted bucket-key order, so
// the output does not depend on scheduling.
package linkage
