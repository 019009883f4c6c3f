package relsql

import (
	"fmt"

	"github.com/relq/relq/internal/reldialect"
	"github.com/relq/relq/internal/relerr"
	"github.com/relq/relq/internal/relinfer"
	"github.com/relq/relq/internal/relquery"
	"github.com/relq/relq/internal/relschema"
	"github.com/relq/relq/internal/reltype"
)

// QueryToSQL lowers query to a SQLQueryAST, given the catalog and
// dialect schema inference resolves types against. Dispatch mirrors
// internal/relinfer.GetQuerySchema's: one function per QueryRep
// operator, a type switch at the top, an InvalidOperator catch-all.
func QueryToSQL(dialect *reldialect.Dialect, tableMap relschema.TableInfoMap, query relquery.Query) (SQLQueryAST, error) {
	switch q := query.(type) {
	case relquery.Table:
		return lowerTable(dialect, tableMap, q)
	case relquery.Project:
		return lowerProject(dialect, tableMap, q)
	case relquery.Filter:
		return lowerFilter(dialect, tableMap, q)
	case relquery.GroupBy:
		return lowerGroupBy(dialect, tableMap, q)
	case relquery.MapColumns:
		return lowerMapColumns(dialect, tableMap, q)
	case relquery.MapColumnsByIndex:
		return lowerMapColumnsByIndex(dialect, tableMap, q)
	case relquery.Concat:
		return lowerConcat(dialect, tableMap, q)
	case relquery.Sort:
		return lowerSort(dialect, tableMap, q)
	case relquery.Extend:
		return lowerExtend(dialect, tableMap, q)
	case relquery.Join:
		return lowerJoin(dialect, tableMap, q)
	default:
		return SQLQueryAST{}, relerr.InvalidOperator(fmt.Sprintf("%T", query))
	}
}

func selectItemsFromSchema(schema relschema.Schema) []SelectItem {
	items := make([]SelectItem, len(schema.Columns))
	for i, c := range schema.Columns {
		meta, _ := schema.Lookup(c)
		items[i] = SelectItem{ColExp: ColumnRef{Name: c}, ColType: meta.Type}
	}
	return items
}

// idOf returns the output id a SelectItem presents to the operator
// above it: its alias if set, or a bare ColumnRef's name. The second
// result is false for a shape with no addressable identity (an
// unaliased AggCall, Const, or AsStringCall — none should occur at a
// point where an operator above needs to address it by id, since
// fusion always assigns As for anything but a pass-through ColumnRef).
func idOf(item SelectItem) (string, bool) {
	if item.As != "" {
		return item.As, true
	}
	if ref, ok := item.ColExp.(ColumnRef); ok {
		return ref.Name, true
	}
	return "", false
}

// passThroughItems builds the SelectItems an operator needs when it
// wraps sub as a derived table: one bare reference per output id of
// sub's first SELECT, carrying that item's resolved type forward.
func passThroughItems(sub SQLSelectAST) []SelectItem {
	items := make([]SelectItem, 0, len(sub.SelectCols))
	for _, it := range sub.SelectCols {
		id, ok := idOf(it)
		if !ok {
			continue
		}
		items = append(items, SelectItem{ColExp: ColumnRef{Name: id}, ColType: it.ColType})
	}
	return items
}

func wrap(sub SQLQueryAST) From {
	return FromSubquery{Query: sub}
}

func lowerTable(dialect *reldialect.Dialect, tableMap relschema.TableInfoMap, q relquery.Table) (SQLQueryAST, error) {
	schema, err := relinfer.GetQuerySchema(dialect, tableMap, q)
	if err != nil {
		return SQLQueryAST{}, err
	}
	sel := SQLSelectAST{SelectCols: selectItemsFromSchema(schema), From: FromTable{Name: q.TableName}}
	return SQLQueryAST{SelectStmts: []SQLSelectAST{sel}}, nil
}

// lowerProject always fuses: column reordering/restriction is always
// safe to fold into whatever SELECT(s) the subquery already compiled
// to, regardless of where/groupBy/orderBy state (spec §4.3).
func lowerProject(dialect *reldialect.Dialect, tableMap relschema.TableInfoMap, q relquery.Project) (SQLQueryAST, error) {
	sub, err := QueryToSQL(dialect, tableMap, q.From)
	if err != nil {
		return SQLQueryAST{}, err
	}
	for i := range sub.SelectStmts {
		sel := &sub.SelectStmts[i]
		byID := make(map[string]SelectItem, len(sel.SelectCols))
		for _, it := range sel.SelectCols {
			if id, ok := idOf(it); ok {
				byID[id] = it
			}
		}
		newCols := make([]SelectItem, 0, len(q.Cols))
		for _, c := range q.Cols {
			it, ok := byID[c]
			if !ok {
				return SQLQueryAST{}, relerr.UnknownColumn("project", c)
			}
			newCols = append(newCols, it)
		}
		sel.SelectCols = newCols
	}
	return sub, nil
}

// canFuseBoundary reports whether sub is a single SELECT with no where
// and no groupBy yet — the shape filter and groupBy both require before
// folding into it rather than wrapping it as a derived table.
func canFuseBoundary(sub SQLQueryAST) bool {
	if len(sub.SelectStmts) != 1 {
		return false
	}
	sel := sub.SelectStmts[0]
	return sel.Where == nil && len(sel.GroupBy) == 0
}

func lowerFilter(dialect *reldialect.Dialect, tableMap relschema.TableInfoMap, q relquery.Filter) (SQLQueryAST, error) {
	sub, err := QueryToSQL(dialect, tableMap, q.From)
	if err != nil {
		return SQLQueryAST{}, err
	}
	if canFuseBoundary(sub) {
		sub.SelectStmts[0].Where = q.Fexp
		return sub, nil
	}
	outer := SQLSelectAST{
		SelectCols: passThroughItems(sub.SelectStmts[0]),
		From:       wrap(sub),
		Where:      q.Fexp,
	}
	return SQLQueryAST{SelectStmts: []SQLSelectAST{outer}}, nil
}

// canFuseGroupBy additionally requires every existing select item to be
// a bare, unaliased column reference — groupBy can only fold into a
// SELECT whose columns are still plain table columns, not expressions
// or renames it would have to re-derive — and that the SELECT carries
// no orderBy yet, since an ORDER BY referencing a pre-group column
// would be invalid (or silently wrong) once GROUP BY folds in.
func canFuseGroupBy(sub SQLQueryAST) bool {
	if !canFuseBoundary(sub) {
		return false
	}
	if len(sub.SelectStmts[0].OrderBy) != 0 {
		return false
	}
	for _, it := range sub.SelectStmts[0].SelectCols {
		if it.As != "" {
			return false
		}
		if _, ok := it.ColExp.(ColumnRef); !ok {
			return false
		}
	}
	return true
}

func lowerGroupBy(dialect *reldialect.Dialect, tableMap relschema.TableInfoMap, q relquery.GroupBy) (SQLQueryAST, error) {
	sub, err := QueryToSQL(dialect, tableMap, q.From)
	if err != nil {
		return SQLQueryAST{}, err
	}
	inSchema, err := relinfer.GetQuerySchema(dialect, tableMap, q.From)
	if err != nil {
		return SQLQueryAST{}, err
	}

	newCols := make([]SelectItem, 0, len(q.Cols)+len(q.Aggs))
	for _, c := range q.Cols {
		meta, ok := inSchema.Lookup(c)
		if !ok {
			return SQLQueryAST{}, relerr.UnknownColumn("groupBy", c)
		}
		newCols = append(newCols, SelectItem{ColExp: ColumnRef{Name: c}, ColType: meta.Type})
	}
	for _, agg := range q.Aggs {
		meta, ok := inSchema.Lookup(agg.Col)
		if !ok {
			return SQLQueryAST{}, relerr.UnknownColumn("groupBy", agg.Col)
		}
		fn := reltype.AggFn(agg.Fn)
		if fn == "" {
			fn = reltype.ResolveAggFn(meta.Type)
		}
		newCols = append(newCols, SelectItem{
			ColExp:  AggCall{Fn: fn, Arg: ColumnRef{Name: agg.Col}},
			ColType: meta.Type,
			As:      agg.Col,
		})
	}
	groupBy := append([]string{}, q.Cols...)

	if canFuseGroupBy(sub) {
		sel := &sub.SelectStmts[0]
		sel.SelectCols = newCols
		sel.GroupBy = groupBy
		return sub, nil
	}
	outer := SQLSelectAST{SelectCols: newCols, From: wrap(sub), GroupBy: groupBy}
	return SQLQueryAST{SelectStmts: []SQLSelectAST{outer}}, nil
}

// lowerMapColumns always fuses: renaming an output id is an alias
// rewrite on whatever SELECT(s) already exist, never a reason to wrap.
func lowerMapColumns(dialect *reldialect.Dialect, tableMap relschema.TableInfoMap, q relquery.MapColumns) (SQLQueryAST, error) {
	sub, err := QueryToSQL(dialect, tableMap, q.From)
	if err != nil {
		return SQLQueryAST{}, err
	}
	for i := range sub.SelectStmts {
		sel := &sub.SelectStmts[i]
		for j := range sel.SelectCols {
			id, ok := idOf(sel.SelectCols[j])
			if !ok {
				continue
			}
			entry, ok := q.Cmap[id]
			if !ok || entry.ID == nil {
				continue
			}
			sel.SelectCols[j].As = *entry.ID
		}
	}
	return sub, nil
}

func lowerMapColumnsByIndex(dialect *reldialect.Dialect, tableMap relschema.TableInfoMap, q relquery.MapColumnsByIndex) (SQLQueryAST, error) {
	sub, err := QueryToSQL(dialect, tableMap, q.From)
	if err != nil {
		return SQLQueryAST{}, err
	}
	for i := range sub.SelectStmts {
		sel := &sub.SelectStmts[i]
		for j := range sel.SelectCols {
			entry, ok := q.Cmap[j]
			if !ok || entry.ID == nil {
				continue
			}
			sel.SelectCols[j].As = *entry.ID
		}
	}
	return sub, nil
}

// lowerConcat never fuses: the two sides stay distinct SELECTs, joined
// by UNION ALL at print time. Schema agreement is re-checked here
// (rather than trusted from an earlier inference pass) since QueryToSQL
// may be called directly.
func lowerConcat(dialect *reldialect.Dialect, tableMap relschema.TableInfoMap, q relquery.Concat) (SQLQueryAST, error) {
	lhs, err := QueryToSQL(dialect, tableMap, q.From)
	if err != nil {
		return SQLQueryAST{}, err
	}
	rhs, err := QueryToSQL(dialect, tableMap, q.Target)
	if err != nil {
		return SQLQueryAST{}, err
	}
	lhsSchema, err := relinfer.GetQuerySchema(dialect, tableMap, q.From)
	if err != nil {
		return SQLQueryAST{}, err
	}
	rhsSchema, err := relinfer.GetQuerySchema(dialect, tableMap, q.Target)
	if err != nil {
		return SQLQueryAST{}, err
	}
	if !lhsSchema.Equal(rhsSchema) {
		return SQLQueryAST{}, relerr.SchemaMismatch("concat")
	}

	stmts := make([]SQLSelectAST, 0, len(lhs.SelectStmts)+len(rhs.SelectStmts))
	stmts = append(stmts, lhs.SelectStmts...)
	stmts = append(stmts, rhs.SelectStmts...)
	return SQLQueryAST{SelectStmts: stmts}, nil
}

func lowerSort(dialect *reldialect.Dialect, tableMap relschema.TableInfoMap, q relquery.Sort) (SQLQueryAST, error) {
	sub, err := QueryToSQL(dialect, tableMap, q.From)
	if err != nil {
		return SQLQueryAST{}, err
	}
	inSchema, err := relinfer.GetQuerySchema(dialect, tableMap, q.From)
	if err != nil {
		return SQLQueryAST{}, err
	}
	keys := make([]OrderKey, len(q.Keys))
	for i, k := range q.Keys {
		if !inSchema.Has(k.Col) {
			return SQLQueryAST{}, relerr.UnknownColumn("sort", k.Col)
		}
		keys[i] = OrderKey{Col: k.Col, Asc: k.Asc}
	}

	if len(sub.SelectStmts) == 1 && len(sub.SelectStmts[0].OrderBy) == 0 {
		sub.SelectStmts[0].OrderBy = keys
		return sub, nil
	}
	outer := SQLSelectAST{
		SelectCols: passThroughItems(sub.SelectStmts[0]),
		From:       wrap(sub),
		OrderBy:    keys,
	}
	return SQLQueryAST{SelectStmts: []SQLSelectAST{outer}}, nil
}

// toSelectExpr converts a relquery.ColumnExtendExpr to the SelectExpr
// vocabulary relprint renders.
func toSelectExpr(e relquery.ColumnExtendExpr) (SelectExpr, error) {
	switch v := e.(type) {
	case relquery.ColRef:
		return ColumnRef{Name: v.Name}, nil
	case relquery.ConstVal:
		return Const{Value: v.Value}, nil
	case relquery.AsString:
		inner, err := toSelectExpr(v.Inner)
		if err != nil {
			return nil, err
		}
		return AsStringCall{Inner: inner}, nil
	default:
		return nil, relerr.TypeInferenceFailed(fmt.Sprintf("%T", e))
	}
}

// lowerExtend fuses only when the new column is a constant and the
// subquery is a single SELECT — a computed column referencing an
// existing one can only be added once that column is resolvable as a
// plain identifier, which a wrap's pass-through items always guarantee
// but a fused SELECT's arbitrary expressions might not (spec §4.3).
func lowerExtend(dialect *reldialect.Dialect, tableMap relschema.TableInfoMap, q relquery.Extend) (SQLQueryAST, error) {
	sub, err := QueryToSQL(dialect, tableMap, q.From)
	if err != nil {
		return SQLQueryAST{}, err
	}
	extSchema, err := relinfer.GetQuerySchema(dialect, tableMap, q)
	if err != nil {
		return SQLQueryAST{}, err
	}
	meta, _ := extSchema.Lookup(q.ColID)
	expr, err := toSelectExpr(q.ColExp)
	if err != nil {
		return SQLQueryAST{}, err
	}
	newItem := SelectItem{ColExp: expr, ColType: meta.Type, As: q.ColID}

	_, isConst := q.ColExp.(relquery.ConstVal)
	if isConst && len(sub.SelectStmts) == 1 {
		sel := &sub.SelectStmts[0]
		sel.SelectCols = append(sel.SelectCols, newItem)
		return sub, nil
	}

	outer := SQLSelectAST{
		SelectCols: append(passThroughItems(sub.SelectStmts[0]), newItem),
		From:       wrap(sub),
	}
	return SQLQueryAST{SelectStmts: []SQLSelectAST{outer}}, nil
}

// lowerJoin never fuses: both sides are wrapped as derived tables under
// a single new SELECT whose columns come straight from the join's
// inferred output schema (spec §4.3).
func lowerJoin(dialect *reldialect.Dialect, tableMap relschema.TableInfoMap, q relquery.Join) (SQLQueryAST, error) {
	if q.JoinType != relquery.LeftOuter {
		return SQLQueryAST{}, relerr.UnsupportedJoin(string(q.JoinType))
	}
	lhsAST, err := QueryToSQL(dialect, tableMap, q.Lhs)
	if err != nil {
		return SQLQueryAST{}, err
	}
	rhsAST, err := QueryToSQL(dialect, tableMap, q.Rhs)
	if err != nil {
		return SQLQueryAST{}, err
	}
	schema, err := relinfer.GetQuerySchema(dialect, tableMap, q)
	if err != nil {
		return SQLQueryAST{}, err
	}

	sel := SQLSelectAST{
		SelectCols: selectItemsFromSchema(schema),
		From:       FromJoin{JoinType: string(q.JoinType), Lhs: wrap(lhsAST), Rhs: wrap(rhsAST)},
		On:         append([]string{}, q.On...),
	}
	return SQLQueryAST{SelectStmts: []SQLSelectAST{sel}}, nil
}
