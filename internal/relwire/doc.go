// Package relwire implements the JSON wire form and revival protocol
// (spec §4.5): queries and results round-trip through JSON via a
// reviver keyed on each node's expType discriminator
// (ColRef/ConstVal/BinRelExp/UnaryRelExp/FilterExp/QueryExp, plus
// AsString for relquery's extend-expression leaf the distilled spec's
// discriminator list does not separately enumerate but which still
// needs a wire shape).
//
// A plain dispatch function per direction, switching on a discriminant
// field read off the raw JSON, with unknown input producing a logged,
// explicit failure rather than a silently wrong value. Dispatch is on
// an explicit expType string rather than structural sniffing of the
// JSON value's shape.
//
// relfilter.FilterExp, relfilter.ColumnExpr, relquery.Query, and
// relquery.ColumnExtendExpr are sealed interfaces whose marker methods
// are package-private — no type outside those packages can implement
// them. That means an unrecognized expType cannot be "passed through"
// as some opaque value still satisfying the sealed interface; relwire
// logs the unrecognized discriminator via log.Printf for diagnostic
// visibility and then fails the decode with an ordinary error, rather
// than fabricating a semantically meaningless domain value to satisfy
// a literal reading of "passed through."
package relwire
