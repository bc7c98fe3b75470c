// Package pipeline runs one linkage end to end: encode every record (reusing
// stored encodings when a store is configured), block, link, and report
// per-phase statistics. Every log line of a run carries its run_id.
package pipeline
