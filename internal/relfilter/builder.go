package relfilter

// Builder accumulates predicates for a conjunction or disjunction and
// renders them with And() or Or(). It exists purely for construction
// ergonomics — the resulting FilterExp trees are what every other
// package actually consumes.
type Builder struct {
	predicates []FilterExp
}

// NewAnd starts a new conjunction builder.
func NewAnd() *Builder { return &Builder{} }

// NewOr starts a new disjunction builder.
func NewOr() *Builder { return &Builder{} }

// Col builds a ColRef operand.
func Col(name string) ColRef { return ColRef{Name: name} }

// Const builds a ConstVal operand.
func Const(v any) ConstVal { return ConstVal{Value: v} }

func (b *Builder) bin(op Op, lhs, rhs ColumnExpr) *Builder {
	b.predicates = append(b.predicates, BinRelExp{Op: op, Lhs: lhs, Rhs: rhs})
	return b
}

// Eq appends a Lhs = Rhs comparison.
func (b *Builder) Eq(lhs, rhs ColumnExpr) *Builder { return b.bin(OpEq, lhs, rhs) }

// Neq appends a Lhs <> Rhs comparison.
func (b *Builder) Neq(lhs, rhs ColumnExpr) *Builder { return b.bin(OpNeq, lhs, rhs) }

// Lt appends a Lhs < Rhs comparison.
func (b *Builder) Lt(lhs, rhs ColumnExpr) *Builder { return b.bin(OpLt, lhs, rhs) }

// Lte appends a Lhs <= Rhs comparison.
func (b *Builder) Lte(lhs, rhs ColumnExpr) *Builder { return b.bin(OpLte, lhs, rhs) }

// Gt appends a Lhs > Rhs comparison.
func (b *Builder) Gt(lhs, rhs ColumnExpr) *Builder { return b.bin(OpGt, lhs, rhs) }

// Gte appends a Lhs >= Rhs comparison.
func (b *Builder) Gte(lhs, rhs ColumnExpr) *Builder { return b.bin(OpGte, lhs, rhs) }

// Like appends a Lhs LIKE Rhs comparison.
func (b *Builder) Like(lhs, rhs ColumnExpr) *Builder { return b.bin(OpLike, lhs, rhs) }

// IsNull appends an Arg IS NULL test.
func (b *Builder) IsNull(arg ColumnExpr) *Builder {
	b.predicates = append(b.predicates, UnaryRelExp{Op: OpIsNull, Arg: arg})
	return b
}

// IsNotNull appends an Arg IS NOT NULL test.
func (b *Builder) IsNotNull(arg ColumnExpr) *Builder {
	b.predicates = append(b.predicates, UnaryRelExp{Op: OpIsNotNull, Arg: arg})
	return b
}

// And renders the accumulated predicates as an And node. An empty
// builder renders to And{} (vacuously true), matching the spec.
func (b *Builder) And() And { return And{Predicates: b.predicates} }

// Or renders the accumulated predicates as an Or node. An empty
// builder renders to Or{} (vacuously false).
func (b *Builder) Or() Or { return Or{Predicates: b.predicates} }
