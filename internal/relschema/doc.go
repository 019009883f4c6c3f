// Package relschema defines Schema, the ordered column-id sequence with
// per-column metadata that every QueryRep node's output is described
// by, plus TableInfoMap, the catalog of base-table schemas schema
// inference and SQL lowering take as an explicit, read-only input.
//
// Schema is persistent: Extend returns a new Schema rather than
// mutating the receiver, so a Schema computed for one subquery can be
// safely shared (aliased) by multiple callers — the same DAG-sharing
// discipline internal/relquery's QueryRep tree relies on.
package relschema
