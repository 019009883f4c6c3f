package relquery

import "github.com/relq/relq/internal/relfilter"

// Builder is the fluent construction API over QueryRep: TableQuery
// seeds a leaf, and every other method wraps the Builder's current
// tree as the `from` (or `lhs`/`target`) of a new node and returns a
// new Builder. The Builder performs no validation itself — every check
// named by the spec happens in internal/relinfer or internal/relsql,
// never here (spec §4.1).
type Builder struct {
	q Query
}

// TableQuery seeds a new Builder at a base-table leaf.
func TableQuery(name string) *Builder {
	return &Builder{q: Table{TableName: name}}
}

// Build returns the Builder's accumulated QueryRep tree.
func (b *Builder) Build() Query {
	return b.q
}

// Project wraps the current tree in a Project over cols.
func (b *Builder) Project(cols []string) *Builder {
	return &Builder{q: Project{Cols: cols, From: b.q}}
}

// Filter wraps the current tree in a Filter over fexp.
func (b *Builder) Filter(fexp relfilter.FilterExp) *Builder {
	return &Builder{q: Filter{Fexp: fexp, From: b.q}}
}

// GroupBy wraps the current tree in a GroupBy over cols/aggs.
func (b *Builder) GroupBy(cols []string, aggs []AggSpec) *Builder {
	return &Builder{q: GroupBy{Cols: cols, Aggs: aggs, From: b.q}}
}

// Distinct is a macro for GroupBy([col], nil) — spec §4.1/§9's defining
// semantics for row deduplication by a single column.
func (b *Builder) Distinct(col string) *Builder {
	return b.GroupBy([]string{col}, nil)
}

// MapColumns wraps the current tree in a MapColumns over cmap.
func (b *Builder) MapColumns(cmap map[string]ColumnMapEntry) *Builder {
	return &Builder{q: MapColumns{Cmap: cmap, From: b.q}}
}

// MapColumnsByIndex wraps the current tree in a MapColumnsByIndex over cmap.
func (b *Builder) MapColumnsByIndex(cmap map[int]ColumnMapEntry) *Builder {
	return &Builder{q: MapColumnsByIndex{Cmap: cmap, From: b.q}}
}

// Concat wraps the current tree and target in a Concat node.
func (b *Builder) Concat(target *Builder) *Builder {
	return &Builder{q: Concat{From: b.q, Target: target.q}}
}

// Sort wraps the current tree in a Sort over keys.
func (b *Builder) Sort(keys []SortKey) *Builder {
	return &Builder{q: Sort{Keys: keys, From: b.q}}
}

// Extend wraps the current tree in an Extend computing colID from
// colExp, with optional opts (pass ExtendOpts{} for none).
func (b *Builder) Extend(colID string, colExp ColumnExtendExpr, opts ExtendOpts) *Builder {
	return &Builder{q: Extend{ColID: colID, ColExp: colExp, Opts: opts, From: b.q}}
}

// Join wraps the current tree (as Lhs) and rhs in a Join node over the
// given column id(s) and joinType.
func (b *Builder) Join(rhs *Builder, on []string, joinType JoinType) *Builder {
	return &Builder{q: Join{Lhs: b.q, Rhs: rhs.q, On: on, JoinType: joinType}}
}
