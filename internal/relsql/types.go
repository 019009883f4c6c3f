package relsql

import (
	"github.com/relq/relq/internal/relfilter"
	"github.com/relq/relq/internal/reltype"
)

// SelectExpr is the sealed set of expressions a SELECT's column list can
// hold: a bare column reference, a literal, an aggregate call, or an
// AsString cast. relprint owns turning each one into dialect SQL text.
type SelectExpr interface {
	selectExprNode()
}

// ColumnRef references a column of the enclosing SELECT's FROM.
type ColumnRef struct {
	Name string
}

func (ColumnRef) selectExprNode() {}

// Const is a literal operand, carried over from an Extend's ConstVal.
type Const struct {
	Value any
}

func (Const) selectExprNode() {}

// AggCall applies an aggregate function to a single column reference.
type AggCall struct {
	Fn  reltype.AggFn
	Arg ColumnRef
}

func (AggCall) selectExprNode() {}

// AsStringCall renders Inner as the dialect's string type.
type AsStringCall struct {
	Inner SelectExpr
}

func (AsStringCall) selectExprNode() {}

// CountStar is queryToCountSql's "count(*)" select item; it has no
// column operand, so it is its own SelectExpr variant rather than an
// AggCall with an empty Arg.
type CountStar struct{}

func (CountStar) selectExprNode() {}

// SelectItem is one column of a SELECT's output list. As is the output
// id this item presents to whatever reads it (an enclosing operator or
// the final result set); an empty As means the item's identity is
// whatever ColExp already names (a bare ColumnRef's Name).
type SelectItem struct {
	ColExp  SelectExpr
	ColType *reltype.ColumnType
	As      string
}

// From is the sealed set of a SELECT's FROM clause shapes: a base
// table, a derived subquery, or a join of two Froms.
type From interface {
	fromNode()
}

// FromTable references a base table by name.
type FromTable struct {
	Name string
}

func (FromTable) fromNode() {}

// FromSubquery wraps a compiled SQLQueryAST as a derived table —
// produced whenever an operator cannot fuse into its subquery and must
// wrap it instead.
type FromSubquery struct {
	Query SQLQueryAST
}

func (FromSubquery) fromNode() {}

// FromJoin combines Lhs and Rhs (each typically a FromSubquery wrapping
// one side's compiled AST) per JoinType, matched On a list of shared
// column ids.
type FromJoin struct {
	JoinType string
	Lhs      From
	Rhs      From
}

func (FromJoin) fromNode() {}

// OrderKey is one ORDER BY key: Col ascending if Asc, else descending.
type OrderKey struct {
	Col string
	Asc bool
}

// SQLSelectAST is a single SELECT statement: its output column list, its
// FROM, and the optional WHERE/GROUP BY/ORDER BY clauses fusion may have
// folded into it. On is populated only when From is a FromJoin.
type SQLSelectAST struct {
	SelectCols []SelectItem
	From       From
	Where      relfilter.FilterExp
	GroupBy    []string
	OrderBy    []OrderKey
	On         []string
}

// SQLQueryAST is the result of lowering a relquery.Query: one SELECT, or
// several to be joined by UNION ALL at print time (the output of a
// Concat chain).
type SQLQueryAST struct {
	SelectStmts []SQLSelectAST
}
