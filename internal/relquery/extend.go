package relquery

// ColumnExtendExpr is the sealed interface for Extend's computed-column
// expression (spec §3's ColumnExtendExp): ColRef, ConstVal, or
// AsString(inner). Unknown forms are rejected by schema inference with
// TypeInferenceFailed rather than guessed at (spec §9 Open Questions —
// arithmetic forms are deliberately not implemented).
type ColumnExtendExpr interface {
	extendExprNode()
}

// ColRef references a column of Extend's input schema; its type is
// looked up there during inference.
type ColRef struct {
	Name string
}

func (ColRef) extendExprNode() {}

// ConstVal is a literal operand; its type is inferred from the runtime
// kind of Value (string, int64/int, bool).
type ConstVal struct {
	Value any
}

func (ConstVal) extendExprNode() {}

// AsString renders Inner as the dialect's string type, regardless of
// Inner's own type.
type AsString struct {
	Inner ColumnExtendExpr
}

func (AsString) extendExprNode() {}
