package relwire

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/relq/relq/internal/relquery"
)

// queryRepWire is the nested QueryRep shape carried inside a top-level
// QueryExp envelope (and recursively, inside every operator's From/
// Target/Lhs/Rhs). Only the fields its Operator needs are populated;
// the rest are left at their zero value and omitted on marshal.
type queryRepWire struct {
	Operator  string                        `json:"operator"`
	TableName string                        `json:"tableName,omitempty"`
	Cols      []string                      `json:"cols,omitempty"`
	From      json.RawMessage               `json:"from,omitempty"`
	Fexp      json.RawMessage               `json:"fexp,omitempty"`
	Aggs      []aggSpecWire                 `json:"aggs,omitempty"`
	Cmap      map[string]columnMapEntryWire `json:"cmap,omitempty"`
	Target    json.RawMessage               `json:"target,omitempty"`
	Keys      []sortKeyWire                 `json:"keys,omitempty"`
	ColID     string                        `json:"colId,omitempty"`
	ColExp    json.RawMessage               `json:"colExp,omitempty"`
	Opts      *extendOptsWire               `json:"opts,omitempty"`
	Lhs       json.RawMessage               `json:"lhs,omitempty"`
	Rhs       json.RawMessage               `json:"rhs,omitempty"`
	On        []string                      `json:"on,omitempty"`
	JoinType  string                        `json:"joinType,omitempty"`
}

type aggSpecWire struct {
	Fn  string `json:"fn,omitempty"`
	Col string `json:"col"`
}

type columnMapEntryWire struct {
	ID          *string `json:"id,omitempty"`
	DisplayName *string `json:"displayName,omitempty"`
}

type sortKeyWire struct {
	Col string `json:"col"`
	Asc bool   `json:"asc"`
}

type extendOptsWire struct {
	Type        *string `json:"type,omitempty"`
	DisplayName *string `json:"displayName,omitempty"`
}

type queryExpWire struct {
	ExpType string       `json:"expType"`
	Rep     queryRepWire `json:"_rep"`
}

// MarshalQuery encodes a relquery.Query as the top-level
// {expType: "QueryExp", _rep: QueryRep} wire document (spec §4.5).
func MarshalQuery(q relquery.Query) ([]byte, error) {
	rep, err := marshalQueryRep(q)
	if err != nil {
		return nil, err
	}
	return json.Marshal(queryExpWire{ExpType: "QueryExp", Rep: rep})
}

// UnmarshalQuery decodes a top-level QueryExp wire document back into a
// relquery.Query.
func UnmarshalQuery(data []byte) (relquery.Query, error) {
	var env expTypeEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("relwire: decode query envelope: %w", err)
	}
	if env.ExpType != "QueryExp" {
		return nil, unknownExpType("relquery.Query", env.ExpType)
	}
	var w queryExpWire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("relwire: decode QueryExp: %w", err)
	}
	return resolveQueryRep(w.Rep)
}

func marshalQueryRep(q relquery.Query) (queryRepWire, error) {
	switch v := q.(type) {
	case relquery.Table:
		return queryRepWire{Operator: "Table", TableName: v.TableName}, nil

	case relquery.Project:
		from, err := marshalQueryRepRaw(v.From)
		if err != nil {
			return queryRepWire{}, err
		}
		return queryRepWire{Operator: "Project", Cols: v.Cols, From: from}, nil

	case relquery.Filter:
		from, err := marshalQueryRepRaw(v.From)
		if err != nil {
			return queryRepWire{}, err
		}
		fexp, err := MarshalFilterExp(v.Fexp)
		if err != nil {
			return queryRepWire{}, err
		}
		return queryRepWire{Operator: "Filter", From: from, Fexp: fexp}, nil

	case relquery.GroupBy:
		from, err := marshalQueryRepRaw(v.From)
		if err != nil {
			return queryRepWire{}, err
		}
		aggs := make([]aggSpecWire, len(v.Aggs))
		for i, a := range v.Aggs {
			aggs[i] = aggSpecWire{Fn: a.Fn, Col: a.Col}
		}
		return queryRepWire{Operator: "GroupBy", Cols: v.Cols, Aggs: aggs, From: from}, nil

	case relquery.MapColumns:
		from, err := marshalQueryRepRaw(v.From)
		if err != nil {
			return queryRepWire{}, err
		}
		cmap := make(map[string]columnMapEntryWire, len(v.Cmap))
		for k, e := range v.Cmap {
			cmap[k] = columnMapEntryWire{ID: e.ID, DisplayName: e.DisplayName}
		}
		return queryRepWire{Operator: "MapColumns", Cmap: cmap, From: from}, nil

	case relquery.MapColumnsByIndex:
		from, err := marshalQueryRepRaw(v.From)
		if err != nil {
			return queryRepWire{}, err
		}
		cmap := make(map[string]columnMapEntryWire, len(v.Cmap))
		for k, e := range v.Cmap {
			cmap[strconv.Itoa(k)] = columnMapEntryWire{ID: e.ID, DisplayName: e.DisplayName}
		}
		return queryRepWire{Operator: "MapColumnsByIndex", Cmap: cmap, From: from}, nil

	case relquery.Concat:
		from, err := marshalQueryRepRaw(v.From)
		if err != nil {
			return queryRepWire{}, err
		}
		target, err := marshalQueryRepRaw(v.Target)
		if err != nil {
			return queryRepWire{}, err
		}
		return queryRepWire{Operator: "Concat", From: from, Target: target}, nil

	case relquery.Sort:
		from, err := marshalQueryRepRaw(v.From)
		if err != nil {
			return queryRepWire{}, err
		}
		keys := make([]sortKeyWire, len(v.Keys))
		for i, k := range v.Keys {
			keys[i] = sortKeyWire{Col: k.Col, Asc: k.Asc}
		}
		return queryRepWire{Operator: "Sort", Keys: keys, From: from}, nil

	case relquery.Extend:
		from, err := marshalQueryRepRaw(v.From)
		if err != nil {
			return queryRepWire{}, err
		}
		colExp, err := MarshalColumnExtendExpr(v.ColExp)
		if err != nil {
			return queryRepWire{}, err
		}
		var opts *extendOptsWire
		if v.Opts.Type != nil || v.Opts.DisplayName != nil {
			opts = &extendOptsWire{Type: v.Opts.Type, DisplayName: v.Opts.DisplayName}
		}
		return queryRepWire{Operator: "Extend", ColID: v.ColID, ColExp: colExp, Opts: opts, From: from}, nil

	case relquery.Join:
		lhs, err := marshalQueryRepRaw(v.Lhs)
		if err != nil {
			return queryRepWire{}, err
		}
		rhs, err := marshalQueryRepRaw(v.Rhs)
		if err != nil {
			return queryRepWire{}, err
		}
		return queryRepWire{Operator: "Join", Lhs: lhs, Rhs: rhs, On: v.On, JoinType: string(v.JoinType)}, nil

	default:
		return queryRepWire{}, fmt.Errorf("relwire: unrecognized relquery.Query type %T", q)
	}
}

func marshalQueryRepRaw(q relquery.Query) (json.RawMessage, error) {
	rep, err := marshalQueryRep(q)
	if err != nil {
		return nil, err
	}
	return json.Marshal(rep)
}

func resolveQueryRep(w queryRepWire) (relquery.Query, error) {
	switch w.Operator {
	case "Table":
		return relquery.Table{TableName: w.TableName}, nil

	case "Project":
		from, err := decodeQueryRepRaw(w.From)
		if err != nil {
			return nil, err
		}
		return relquery.Project{Cols: w.Cols, From: from}, nil

	case "Filter":
		from, err := decodeQueryRepRaw(w.From)
		if err != nil {
			return nil, err
		}
		fexp, err := UnmarshalFilterExp(w.Fexp)
		if err != nil {
			return nil, err
		}
		return relquery.Filter{Fexp: fexp, From: from}, nil

	case "GroupBy":
		from, err := decodeQueryRepRaw(w.From)
		if err != nil {
			return nil, err
		}
		aggs := make([]relquery.AggSpec, len(w.Aggs))
		for i, a := range w.Aggs {
			aggs[i] = relquery.AggSpec{Fn: a.Fn, Col: a.Col}
		}
		return relquery.GroupBy{Cols: w.Cols, Aggs: aggs, From: from}, nil

	case "MapColumns":
		from, err := decodeQueryRepRaw(w.From)
		if err != nil {
			return nil, err
		}
		cmap := make(map[string]relquery.ColumnMapEntry, len(w.Cmap))
		for k, e := range w.Cmap {
			cmap[k] = relquery.ColumnMapEntry{ID: e.ID, DisplayName: e.DisplayName}
		}
		return relquery.MapColumns{Cmap: cmap, From: from}, nil

	case "MapColumnsByIndex":
		from, err := decodeQueryRepRaw(w.From)
		if err != nil {
			return nil, err
		}
		cmap := make(map[int]relquery.ColumnMapEntry, len(w.Cmap))
		for k, e := range w.Cmap {
			idx, convErr := strconv.Atoi(k)
			if convErr != nil {
				return nil, fmt.Errorf("relwire: non-numeric mapColumnsByIndex key %q: %w", k, convErr)
			}
			cmap[idx] = relquery.ColumnMapEntry{ID: e.ID, DisplayName: e.DisplayName}
		}
		return relquery.MapColumnsByIndex{Cmap: cmap, From: from}, nil

	case "Concat":
		from, err := decodeQueryRepRaw(w.From)
		if err != nil {
			return nil, err
		}
		target, err := decodeQueryRepRaw(w.Target)
		if err != nil {
			return nil, err
		}
		return relquery.Concat{From: from, Target: target}, nil

	case "Sort":
		from, err := decodeQueryRepRaw(w.From)
		if err != nil {
			return nil, err
		}
		keys := make([]relquery.SortKey, len(w.Keys))
		for i, k := range w.Keys {
			keys[i] = relquery.SortKey{Col: k.Col, Asc: k.Asc}
		}
		return relquery.Sort{Keys: keys, From: from}, nil

	case "Extend":
		from, err := decodeQueryRepRaw(w.From)
		if err != nil {
			return nil, err
		}
		colExp, err := UnmarshalColumnExtendExpr(w.ColExp)
		if err != nil {
			return nil, err
		}
		var opts relquery.ExtendOpts
		if w.Opts != nil {
			opts = relquery.ExtendOpts{Type: w.Opts.Type, DisplayName: w.Opts.DisplayName}
		}
		return relquery.Extend{ColID: w.ColID, ColExp: colExp, Opts: opts, From: from}, nil

	case "Join":
		lhs, err := decodeQueryRepRaw(w.Lhs)
		if err != nil {
			return nil, err
		}
		rhs, err := decodeQueryRepRaw(w.Rhs)
		if err != nil {
			return nil, err
		}
		return relquery.Join{Lhs: lhs, Rhs: rhs, On: w.On, JoinType: relquery.JoinType(w.JoinType)}, nil

	default:
		return nil, unknownExpType("relquery.Query operator", w.Operator)
	}
}

func decodeQueryRepRaw(data json.RawMessage) (relquery.Query, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("relwire: missing query operand")
	}
	var w queryRepWire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("relwire: decode nested QueryRep: %w", err)
	}
	return resolveQueryRep(w)
}
