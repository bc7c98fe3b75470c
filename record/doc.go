// Package record defines the data model shared by every linkage stage:
//   - Schema: ordered attribute names with similarity weights and the roles
//     (source label, identifier, blocking attributes) some of them play
//   - Record: an immutable tuple of attribute values conforming to a Schema
//   - Pair and PairSet: unordered matches between records of opposite sources
//
// A Schema is built once per run and passed by pointer into every Record and
// encoder; nothing in this package holds process-wide state.
package record
