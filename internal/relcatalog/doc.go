// Package relcatalog loads a table catalog (spec §4.6) authored as a
// CUE value:
//
//	tables: bart: columns: [
//	    {id: "Name", type: "string"},
//	    {id: "Title", type: "string"},
//	    {id: "Base", type: "integer"},
//	]
//
// Load walks tables.<name>.columns — an ordered list, not a struct,
// since CUE structs don't guarantee field order is preserved across
// re-encodes and column order is part of a table's identity — and
// resolves each column's type string against the injected Dialect,
// building one relschema.Schema per table.
package relcatalog
