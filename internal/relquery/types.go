package relquery

import "github.com/relq/relq/internal/relfilter"

// Query is the sealed root of the QueryRep tagged tree. Table, Project,
// Filter, GroupBy, MapColumns, MapColumnsByIndex, Concat, Sort, Extend,
// and Join are its only implementations; the operator struct's own type
// is the discriminator (there is no separate string tag to fall out of
// sync with the Go type).
type Query interface {
	queryNode()
}

// JoinType enumerates supported join kinds. LeftOuter is the only
// value the core implements (spec §1 Non-goals); any other value fails
// both schema inference and SQL lowering with UnsupportedJoin.
type JoinType string

const (
	LeftOuter JoinType = "LeftOuter"
)

// Table is a leaf QueryRep node referencing a base table by name.
// Schema inference resolves TableName against the caller-supplied
// TableInfoMap.
type Table struct {
	TableName string
}

func (Table) queryNode() {}

// Project restricts and reorders the columns of From to exactly Cols,
// in the given order.
type Project struct {
	Cols []string
	From Query
}

func (Project) queryNode() {}

// Filter applies a boolean predicate over From's rows. Schema
// inference passes From's schema through unchanged; Fexp is otherwise
// opaque to the core (spec §4.4).
type Filter struct {
	Fexp relfilter.FilterExp
	From Query
}

func (Filter) queryNode() {}

// AggSpec names one aggregated output column of a GroupBy. Fn is the
// explicit aggregate function, or the empty string to mean "use the
// aggregated column's default aggregate function" (spec: a bare column
// name in aggs).
type AggSpec struct {
	Fn  string
	Col string
}

// GroupBy groups From's rows by Cols and appends one aggregated output
// column per entry of Aggs, named by each AggSpec's Col.
type GroupBy struct {
	Cols []string
	Aggs []AggSpec
	From Query
}

func (GroupBy) queryNode() {}

// ColumnMapEntry renames and/or re-annotates one column during
// MapColumns/MapColumnsByIndex. A nil ID leaves the column id
// unchanged; a nil DisplayName leaves the existing display name.
type ColumnMapEntry struct {
	ID          *string
	DisplayName *string
}

// MapColumns renames and/or re-annotates columns of From by column id.
// Columns of From with no entry in Cmap pass through unchanged.
type MapColumns struct {
	Cmap map[string]ColumnMapEntry
	From Query
}

func (MapColumns) queryNode() {}

// MapColumnsByIndex is MapColumns keyed by zero-based column position
// instead of column id — otherwise identical semantics.
type MapColumnsByIndex struct {
	Cmap map[int]ColumnMapEntry
	From Query
}

func (MapColumnsByIndex) queryNode() {}

// Concat is the union (by row, not by column rewrite) of From and
// Target, which must have identical schemas (spec §9: this is a
// required check, not merely implied).
type Concat struct {
	From   Query
	Target Query
}

func (Concat) queryNode() {}

// SortKey orders output rows by Col, ascending if Asc.
type SortKey struct {
	Col string
	Asc bool
}

// Sort orders From's rows by Keys, applied in slice order (Keys[0] is
// the primary sort key).
type Sort struct {
	Keys []SortKey
	From Query
}

func (Sort) queryNode() {}

// ExtendOpts carries Extend's optional explicit type and display name.
// A nil Type triggers type inference (spec §4.2); a nil DisplayName
// defaults to ColID.
type ExtendOpts struct {
	Type        *string
	DisplayName *string
}

// Extend appends one computed column, ColID, to From, computed from
// ColExp (spec §4.2's ColumnExtendExp: ColRef, ConstVal, or AsString).
type Extend struct {
	ColID  string
	ColExp ColumnExtendExpr
	Opts   ExtendOpts
	From   Query
}

func (Extend) queryNode() {}

// Join combines Lhs and Rhs on On (one or more column ids present in
// both schemas), keeping every Lhs row (LeftOuter is the only
// supported JoinType).
type Join struct {
	Lhs      Query
	Rhs      Query
	On       []string
	JoinType JoinType
}

func (Join) queryNode() {}
