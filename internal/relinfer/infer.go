package relinfer

import (
	"fmt"

	"github.com/relq/relq/internal/reldialect"
	"github.com/relq/relq/internal/relerr"
	"github.com/relq/relq/internal/relquery"
	"github.com/relq/relq/internal/relschema"
	"github.com/relq/relq/internal/reltype"
)

// GetQuerySchema computes the output Schema of query, given the
// catalog tableMap and the dialect used to resolve types. Dispatch is
// exhaustive over relquery.Query's ten variants; an unrecognized
// concrete type (only reachable if relquery grows a new operator
// without a matching case here) fails with relerr.InvalidOperator.
func GetQuerySchema(dialect *reldialect.Dialect, tableMap relschema.TableInfoMap, query relquery.Query) (relschema.Schema, error) {
	switch q := query.(type) {
	case relquery.Table:
		return inferTable(tableMap, q)
	case relquery.Project:
		return inferProject(dialect, tableMap, q)
	case relquery.Filter:
		return GetQuerySchema(dialect, tableMap, q.From)
	case relquery.GroupBy:
		return inferGroupBy(dialect, tableMap, q)
	case relquery.MapColumns:
		return inferMapColumns(dialect, tableMap, q)
	case relquery.MapColumnsByIndex:
		return inferMapColumnsByIndex(dialect, tableMap, q)
	case relquery.Concat:
		return inferConcat(dialect, tableMap, q)
	case relquery.Sort:
		return GetQuerySchema(dialect, tableMap, q.From)
	case relquery.Extend:
		return inferExtend(dialect, tableMap, q)
	case relquery.Join:
		return inferJoin(dialect, tableMap, q)
	default:
		return relschema.Schema{}, relerr.InvalidOperator(fmt.Sprintf("%T", query))
	}
}

func inferTable(tableMap relschema.TableInfoMap, q relquery.Table) (relschema.Schema, error) {
	info, ok := tableMap.Lookup(q.TableName)
	if !ok {
		return relschema.Schema{}, relerr.UnknownTable("table", q.TableName)
	}
	return info.Schema, nil
}

func inferProject(dialect *reldialect.Dialect, tableMap relschema.TableInfoMap, q relquery.Project) (relschema.Schema, error) {
	in, err := GetQuerySchema(dialect, tableMap, q.From)
	if err != nil {
		return relschema.Schema{}, err
	}
	for _, c := range q.Cols {
		if !in.Has(c) {
			return relschema.Schema{}, relerr.UnknownColumn("project", c)
		}
	}
	return in.Restrict(q.Cols)
}

func inferGroupBy(dialect *reldialect.Dialect, tableMap relschema.TableInfoMap, q relquery.GroupBy) (relschema.Schema, error) {
	in, err := GetQuerySchema(dialect, tableMap, q.From)
	if err != nil {
		return relschema.Schema{}, err
	}

	cols := make([]string, 0, len(q.Cols)+len(q.Aggs))
	md := make(map[string]relschema.ColumnMetadata, len(q.Cols)+len(q.Aggs))

	for _, c := range q.Cols {
		m, ok := in.Lookup(c)
		if !ok {
			return relschema.Schema{}, relerr.UnknownColumn("groupBy", c)
		}
		cols = append(cols, c)
		md[c] = m
	}
	for _, agg := range q.Aggs {
		m, ok := in.Lookup(agg.Col)
		if !ok {
			return relschema.Schema{}, relerr.UnknownColumn("groupBy", agg.Col)
		}
		cols = append(cols, agg.Col)
		md[agg.Col] = m
	}

	return relschema.New(cols, md)
}

// mapColumnsCore implements the shared rename/re-annotate rule behind
// both MapColumns and MapColumnsByIndex, parameterized by a keyOf
// selector (spec §9's "implement as one routine parameterized by a
// keyOf selector").
func mapColumnsCore(in relschema.Schema, operator string, entryFor func(index int, colID string) (relquery.ColumnMapEntry, bool)) (relschema.Schema, error) {
	cols := make([]string, 0, len(in.Columns))
	md := make(map[string]relschema.ColumnMetadata, len(in.Columns))
	seen := make(map[string]bool, len(in.Columns))

	for i, oldID := range in.Columns {
		meta, _ := in.Lookup(oldID)
		newID := oldID

		if entry, ok := entryFor(i, oldID); ok {
			if entry.ID != nil {
				newID = *entry.ID
			}
			if entry.DisplayName != nil {
				meta = relschema.ColumnMetadata{Type: meta.Type, DisplayName: *entry.DisplayName}
			}
		}

		if seen[newID] {
			return relschema.Schema{}, relerr.DuplicateColumn(operator, newID)
		}
		seen[newID] = true
		cols = append(cols, newID)
		md[newID] = meta
	}

	return relschema.New(cols, md)
}

func inferMapColumns(dialect *reldialect.Dialect, tableMap relschema.TableInfoMap, q relquery.MapColumns) (relschema.Schema, error) {
	in, err := GetQuerySchema(dialect, tableMap, q.From)
	if err != nil {
		return relschema.Schema{}, err
	}
	return mapColumnsCore(in, "mapColumns", func(_ int, colID string) (relquery.ColumnMapEntry, bool) {
		e, ok := q.Cmap[colID]
		return e, ok
	})
}

func inferMapColumnsByIndex(dialect *reldialect.Dialect, tableMap relschema.TableInfoMap, q relquery.MapColumnsByIndex) (relschema.Schema, error) {
	in, err := GetQuerySchema(dialect, tableMap, q.From)
	if err != nil {
		return relschema.Schema{}, err
	}
	return mapColumnsCore(in, "mapColumnsByIndex", func(index int, _ string) (relquery.ColumnMapEntry, bool) {
		e, ok := q.Cmap[index]
		return e, ok
	})
}

func inferConcat(dialect *reldialect.Dialect, tableMap relschema.TableInfoMap, q relquery.Concat) (relschema.Schema, error) {
	fromSchema, err := GetQuerySchema(dialect, tableMap, q.From)
	if err != nil {
		return relschema.Schema{}, err
	}
	targetSchema, err := GetQuerySchema(dialect, tableMap, q.Target)
	if err != nil {
		return relschema.Schema{}, err
	}
	if !fromSchema.Equal(targetSchema) {
		return relschema.Schema{}, relerr.SchemaMismatch("concat")
	}
	return fromSchema, nil
}

func inferExtend(dialect *reldialect.Dialect, tableMap relschema.TableInfoMap, q relquery.Extend) (relschema.Schema, error) {
	in, err := GetQuerySchema(dialect, tableMap, q.From)
	if err != nil {
		return relschema.Schema{}, err
	}

	colType, err := getOrInferColumnType(dialect, in, q.Opts, q.ColExp)
	if err != nil {
		return relschema.Schema{}, err
	}

	displayName := q.ColID
	if q.Opts.DisplayName != nil {
		displayName = *q.Opts.DisplayName
	}

	out, err := in.Extend(q.ColID, relschema.ColumnMetadata{Type: colType, DisplayName: displayName})
	if err != nil {
		return relschema.Schema{}, relerr.DuplicateColumn("extend", q.ColID)
	}
	return out, nil
}

// getOrInferColumnType implements spec §4.2's getOrInferColumnType.
func getOrInferColumnType(dialect *reldialect.Dialect, in relschema.Schema, opts relquery.ExtendOpts, colExp relquery.ColumnExtendExpr) (*reltype.ColumnType, error) {
	if opts.Type != nil {
		if ct := dialect.ColumnType(reltype.Kind(*opts.Type)); ct != nil {
			return ct, nil
		}
		return nil, relerr.TypeInferenceFailed(*opts.Type)
	}

	switch e := colExp.(type) {
	case relquery.ColRef:
		m, ok := in.Lookup(e.Name)
		if !ok {
			return nil, relerr.UnknownColumn("extend", e.Name)
		}
		return m.Type, nil
	case relquery.AsString:
		return dialect.ColumnType(reltype.KindString), nil
	case relquery.ConstVal:
		switch e.Value.(type) {
		case int, int32, int64, float32, float64:
			return dialect.ColumnType(reltype.KindInteger), nil
		case string:
			return dialect.ColumnType(reltype.KindString), nil
		case bool:
			return dialect.ColumnType(reltype.KindBoolean), nil
		default:
			return nil, relerr.TypeInferenceFailed(fmt.Sprintf("%v", e.Value))
		}
	default:
		return nil, relerr.TypeInferenceFailed(fmt.Sprintf("%T", colExp))
	}
}

func inferJoin(dialect *reldialect.Dialect, tableMap relschema.TableInfoMap, q relquery.Join) (relschema.Schema, error) {
	if q.JoinType != relquery.LeftOuter {
		return relschema.Schema{}, relerr.UnsupportedJoin(string(q.JoinType))
	}

	lhsSchema, err := GetQuerySchema(dialect, tableMap, q.Lhs)
	if err != nil {
		return relschema.Schema{}, err
	}
	rhsSchema, err := GetQuerySchema(dialect, tableMap, q.Rhs)
	if err != nil {
		return relschema.Schema{}, err
	}

	onSet := make(map[string]bool, len(q.On))
	for _, c := range q.On {
		onSet[c] = true
	}
	lhsSet := make(map[string]bool, len(lhsSchema.Columns))
	for _, c := range lhsSchema.Columns {
		lhsSet[c] = true
	}

	cols := make([]string, 0, len(lhsSchema.Columns)+len(rhsSchema.Columns))
	md := make(map[string]relschema.ColumnMetadata, len(lhsSchema.Columns)+len(rhsSchema.Columns))

	for _, c := range lhsSchema.Columns {
		cols = append(cols, c)
		m, _ := lhsSchema.Lookup(c)
		md[c] = m
	}
	for _, c := range rhsSchema.Columns {
		if onSet[c] || lhsSet[c] {
			continue
		}
		cols = append(cols, c)
		m, _ := rhsSchema.Lookup(c)
		md[c] = m
	}

	return relschema.New(cols, md)
}
