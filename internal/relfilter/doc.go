// Package relfilter defines the boolean filter expression tree used by
// QueryRep's filter operator. Join ON conditions are plain column id
// lists (relquery.Join.On), not FilterExps.
//
// FilterExp and ColumnExpr are sealed interfaces using the marker
// method pattern: only types declared in this package implement them,
// which lets every consumer (schema inference, SQL lowering, the
// pretty-printer) use an exhaustive type switch instead of an
// inheritance hierarchy.
//
// relfilter is deliberately opaque to the compilation core (spec §4.4):
// neither schema inference nor SQL lowering inspects a FilterExp at
// all, not even the ColRef names it mentions — rendering
// and evaluating the predicate tree itself is the pretty-printer's job
// (internal/relprint), a downstream concern.
package relfilter
