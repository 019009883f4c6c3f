package reltype

import "fmt"

// AggFn names an aggregate function from the normative vocabulary a
// query can ask the SQL lowering layer to emit: sum, avg, min, max,
// count, uniq, null, nullstr, any, mode. "null" is a sentinel meaning
// "this type has no natural default aggregate"; lowering rewrites it to
// "nullstr" when the aggregated column is string-typed (see
// internal/relsql's groupBy lowering).
type AggFn string

const (
	AggSum     AggFn = "sum"
	AggAvg     AggFn = "avg"
	AggMin     AggFn = "min"
	AggMax     AggFn = "max"
	AggCount   AggFn = "count"
	AggUniq    AggFn = "uniq"
	AggNull    AggFn = "null"
	AggNullStr AggFn = "nullstr"
	AggAny     AggFn = "any"
	AggMode    AggFn = "mode"
)

// Kind discriminates the core column kinds named by the spec. Dialects
// may register additional kinds beyond these six ("dialect extras");
// Kind is a string specifically so a Dialect can extend the set without
// modifying this package.
type Kind string

const (
	KindString    Kind = "string"
	KindInteger   Kind = "integer"
	KindBoolean   Kind = "boolean"
	KindReal      Kind = "real"
	KindDate      Kind = "date"
	KindTimestamp Kind = "timestamp"
)

// ColumnType describes a column's value domain: its SQL spelling, its
// kind, the numeric/string predicate flags, its default aggregate
// function, and a renderer for turning a Go scalar of this kind into a
// display string.
//
// Invariant: IsNumeric and IsString are never both true for a type
// registered in Registry — the core registry keeps them disjoint; a
// dialect is free to register a type where neither is true (e.g. a
// boolean), but never one where both are.
type ColumnType struct {
	Kind         Kind
	SQLTypeName  string
	IsNumeric    bool
	IsString     bool
	DefaultAggFn AggFn
	StringRender func(v any) string
}

// Registry is a name-indexed table of the core column types. Dialects
// embed (a subset of) these values directly rather than redeclaring
// them, so "is this type numeric" has one source of truth across the
// whole compiler.
var Registry = map[Kind]*ColumnType{
	KindString: {
		Kind:         KindString,
		SQLTypeName:  "TEXT",
		IsString:     true,
		DefaultAggFn: AggUniq,
		StringRender: func(v any) string { return fmt.Sprintf("%s", v) },
	},
	KindInteger: {
		Kind:         KindInteger,
		SQLTypeName:  "INTEGER",
		IsNumeric:    true,
		DefaultAggFn: AggSum,
		StringRender: func(v any) string { return fmt.Sprintf("%d", v) },
	},
	KindBoolean: {
		Kind:         KindBoolean,
		SQLTypeName:  "BOOLEAN",
		DefaultAggFn: AggNull,
		StringRender: func(v any) string { return fmt.Sprintf("%t", v) },
	},
	KindReal: {
		Kind:         KindReal,
		SQLTypeName:  "REAL",
		IsNumeric:    true,
		DefaultAggFn: AggSum,
		StringRender: func(v any) string { return fmt.Sprintf("%v", v) },
	},
	KindDate: {
		Kind:         KindDate,
		SQLTypeName:  "DATE",
		DefaultAggFn: AggNull,
		StringRender: func(v any) string { return fmt.Sprintf("%v", v) },
	},
	KindTimestamp: {
		Kind:         KindTimestamp,
		SQLTypeName:  "TIMESTAMP",
		DefaultAggFn: AggNull,
		StringRender: func(v any) string { return fmt.Sprintf("%v", v) },
	},
}

// Lookup returns the core ColumnType for kind, or nil if kind is not a
// core kind (it may still be a dialect extra — callers that need
// dialect extras go through Dialect.CoreColumnTypes instead).
func Lookup(kind Kind) *ColumnType {
	return Registry[kind]
}

// ResolveAggFn applies the "null" → "nullstr" rewrite used by groupBy
// lowering when a bare column name is aggregated with its type's
// default function: a type with no natural aggregate (DefaultAggFn ==
// AggNull) aggregates string-typed columns with "nullstr" instead, so
// the rewrite only ever touches the sentinel, never an explicit
// caller-chosen function.
func ResolveAggFn(ct *ColumnType) AggFn {
	fn := ct.DefaultAggFn
	if fn == AggNull && ct.IsString {
		return AggNullStr
	}
	return fn
}
