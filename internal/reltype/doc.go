// Package reltype defines the core column type registry shared by every
// layer of the query compiler: schema inference consults it to resolve
// extend-expression literals and join/groupBy defaults, and the SQL
// lowering layer consults it to pick a default aggregate function for a
// bare groupBy column.
//
// A ColumnType is a value, not a class hierarchy: reltype.Registry is a
// plain map from Kind to *ColumnType, and dialects (internal/reldialect)
// reference the same values rather than redefining their own. This keeps
// "what is a numeric type" a single source of truth instead of a
// predicate scattered across packages.
package reltype
