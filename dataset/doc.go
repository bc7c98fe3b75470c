// Package dataset moves records and matches across the file boundary.
//
// ReadCSV parses a record file against a Schema, WritePairsCSV and
// WritePairsXLSX export matches keyed by the identifier attribute, and
// Generate produces a seeded synthetic two-source person dataset for
// experiments and tests.
package dataset
