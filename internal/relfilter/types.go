package relfilter

// Op names a comparison or unary relational operator usable in a
// BinRelExp or UnaryRelExp. The set is fixed by the spec; relprint owns
// rendering each one to dialect SQL text.
type Op string

const (
	OpEq        Op = "="
	OpNeq       Op = "<>"
	OpLt        Op = "<"
	OpLte       Op = "<="
	OpGt        Op = ">"
	OpGte       Op = ">="
	OpLike      Op = "LIKE"
	OpBegins    Op = "BEGINS"
	OpEnds      Op = "ENDS"
	OpContains  Op = "CONTAINS"
	OpIsNull    Op = "IS NULL"
	OpIsNotNull Op = "IS NOT NULL"
)

// FilterExp is the sealed root of the boolean filter expression tree:
// And, Or, BinRelExp, and UnaryRelExp are its only implementations.
type FilterExp interface {
	filterExpNode()
}

// ColumnExpr is the sealed interface for the operands of a relational
// expression: ColRef (a column reference) or ConstVal (a literal).
type ColumnExpr interface {
	columnExprNode()
}

// And is true iff every one of Predicates is true. An empty Predicates
// slice is vacuously true.
type And struct {
	Predicates []FilterExp
}

func (And) filterExpNode() {}

// Or is true iff at least one of Predicates is true. An empty
// Predicates slice is vacuously false.
type Or struct {
	Predicates []FilterExp
}

func (Or) filterExpNode() {}

// BinRelExp is a binary relational comparison: Lhs <Op> Rhs, e.g.
// ColRef("Base") > ConstVal(100000).
type BinRelExp struct {
	Op  Op
	Lhs ColumnExpr
	Rhs ColumnExpr
}

func (BinRelExp) filterExpNode() {}

// UnaryRelExp is a unary relational test on a single operand, e.g.
// ColRef("MiddleName") IS NULL.
type UnaryRelExp struct {
	Op  Op
	Arg ColumnExpr
}

func (UnaryRelExp) filterExpNode() {}

// ColRef references a column by id. It is valid only within the scope
// of the subquery whose output schema it is checked against.
type ColRef struct {
	Name string
}

func (ColRef) columnExprNode() {}

// ConstVal is a literal scalar operand: a string, integer (int64),
// real (float64), or boolean, matching the runtime-kind dispatch used
// by extend's type inference (spec §4.2).
type ConstVal struct {
	Value any
}

func (ConstVal) columnExprNode() {}

// ColumnRefs walks a FilterExp and returns every ColRef.Name mentioned,
// in traversal order with duplicates preserved. Neither schema
// inference nor SQL lowering calls it: column references inside a
// filter are not checked against the subquery's output schema.
func ColumnRefs(f FilterExp) []string {
	var names []string
	var walkExpr func(e ColumnExpr)
	walkExpr = func(e ColumnExpr) {
		if ref, ok := e.(ColRef); ok {
			names = append(names, ref.Name)
		}
	}
	var walk func(f FilterExp)
	walk = func(f FilterExp) {
		switch n := f.(type) {
		case And:
			for _, p := range n.Predicates {
				walk(p)
			}
		case Or:
			for _, p := range n.Predicates {
				walk(p)
			}
		case BinRelExp:
			walkExpr(n.Lhs)
			walkExpr(n.Rhs)
		case UnaryRelExp:
			walkExpr(n.Arg)
		}
	}
	walk(f)
	return names
}
