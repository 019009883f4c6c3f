// Package relinfer implements schema inference (spec §4.2): a single
// recursive function, GetQuerySchema, walking a relquery.Query tree and
// producing the relschema.Schema it outputs, given a TableInfoMap
// catalog and a Dialect.
//
// The dispatch here follows the same shape internal/relsql's lowering
// uses (one function per QueryRep operator, a type switch at the top,
// an InvalidOperator catch-all) deliberately — the spec requires any
// new operator to add both an inference rule and a lowering rule in
// the same change (spec §9), and keeping the two dispatch functions
// structurally parallel is what makes that easy to verify by eye.
package relinfer
