// Package reldialect holds the Dialect value object injected into every
// schema-inference and SQL-lowering call: identifier quoting, string
// escaping, and the mapping from core column kinds to this dialect's
// concrete types. Dialects are immutable and carry no ambient state —
// the same *Dialect value is safe to share across concurrent
// compilations (internal/relquery's lifecycle guarantees hold here too).
package reldialect

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/relq/relq/internal/reltype"
)

// Dialect is a value object: coreColumnTypes plus the two rendering
// rules (identifier quoting, string-literal escaping) that vary across
// SQL engines. Construct one with New or use a predefined dialect
// (SQLite, Postgres); never mutate a Dialect's fields after
// construction — copy it if you genuinely need a variant.
type Dialect struct {
	Name            string
	CoreColumnTypes map[reltype.Kind]*reltype.ColumnType
	identifierQuote string
	stringQuote     string
}

// New constructs a Dialect over the core registry plus any dialect
// extras, using the given identifier- and string-quote characters.
func New(name string, extras map[reltype.Kind]*reltype.ColumnType, identifierQuote, stringQuote string) *Dialect {
	types := make(map[reltype.Kind]*reltype.ColumnType, len(reltype.Registry)+len(extras))
	for k, v := range reltype.Registry {
		types[k] = v
	}
	for k, v := range extras {
		types[k] = v
	}
	return &Dialect{
		Name:            name,
		CoreColumnTypes: types,
		identifierQuote: identifierQuote,
		stringQuote:     stringQuote,
	}
}

// QuoteCol quotes a column or table identifier for this dialect,
// doubling any embedded quote character per the standard SQL escaping
// convention (e.g. `"a""b"` for an identifier literally named `a"b`).
func (d *Dialect) QuoteCol(id string) string {
	q := d.identifierQuote
	escaped := strings.ReplaceAll(id, q, q+q)
	return q + escaped + q
}

// EscapeString renders s as a dialect string literal, including the
// surrounding quotes. The input is first NFC-normalized so that two
// byte-distinct but canonically equivalent strings always escape to
// identical SQL text.
func (d *Dialect) EscapeString(s string) string {
	normalized := norm.NFC.String(s)
	q := d.stringQuote
	escaped := strings.ReplaceAll(normalized, q, q+q)
	return q + escaped + q
}

// ColumnType looks up a type by kind in this dialect's core+extra type
// map. Returns nil if the dialect does not know this kind.
func (d *Dialect) ColumnType(kind reltype.Kind) *reltype.ColumnType {
	return d.CoreColumnTypes[kind]
}

// SQLite is the standard SQLite dialect: double-quoted identifiers,
// single-quoted strings, no dialect extras beyond the core kinds.
var SQLite = New("sqlite", nil, `"`, `'`)

// Postgres is the standard PostgreSQL dialect: double-quoted
// identifiers, single-quoted strings, plus a "jsonb" extra kind.
var Postgres = New("postgres", map[reltype.Kind]*reltype.ColumnType{
	"jsonb": {
		Kind:         "jsonb",
		SQLTypeName:  "JSONB",
		IsString:     true,
		DefaultAggFn: reltype.AggNull,
		StringRender: func(v any) string { return toString(v) },
	},
}, `"`, `'`)

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// DefaultDialect exists solely for diagnostic messages formed before a
// real dialect is known (e.g. an error constructed while still parsing
// a catalog, prior to any compilation call). Never used by schema
// inference or SQL lowering themselves — both always take an explicit
// *Dialect argument.
var DefaultDialect = SQLite
