package relwire

import (
	"encoding/json"
	"fmt"

	"github.com/relq/relq/internal/relquery"
)

type asStringWire struct {
	ExpType string          `json:"expType"`
	Inner   json.RawMessage `json:"inner"`
}

// MarshalColumnExtendExpr encodes a relquery.ColumnExtendExpr (ColRef,
// ConstVal, or AsString — Extend's computed-column expression, distinct
// from relfilter's own ColRef/ConstVal types).
func MarshalColumnExtendExpr(e relquery.ColumnExtendExpr) (json.RawMessage, error) {
	switch v := e.(type) {
	case relquery.ColRef:
		return json.Marshal(colRefWire{ExpType: "ColRef", Name: v.Name})
	case relquery.ConstVal:
		return json.Marshal(constValWire{ExpType: "ConstVal", Value: v.Value})
	case relquery.AsString:
		inner, err := MarshalColumnExtendExpr(v.Inner)
		if err != nil {
			return nil, err
		}
		return json.Marshal(asStringWire{ExpType: "AsString", Inner: inner})
	default:
		return nil, fmt.Errorf("relwire: unrecognized relquery.ColumnExtendExpr type %T", e)
	}
}

// UnmarshalColumnExtendExpr decodes a tagged ColRef, ConstVal, or
// AsString wire node into a relquery.ColumnExtendExpr.
func UnmarshalColumnExtendExpr(data json.RawMessage) (relquery.ColumnExtendExpr, error) {
	var env expTypeEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("relwire: decode extend expr envelope: %w", err)
	}
	switch env.ExpType {
	case "ColRef":
		var w colRefWire
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, fmt.Errorf("relwire: decode ColRef: %w", err)
		}
		return relquery.ColRef{Name: w.Name}, nil
	case "ConstVal":
		var w constValWire
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, fmt.Errorf("relwire: decode ConstVal: %w", err)
		}
		return relquery.ConstVal{Value: normalizeConstVal(w.Value)}, nil
	case "AsString":
		var w asStringWire
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, fmt.Errorf("relwire: decode AsString: %w", err)
		}
		inner, err := UnmarshalColumnExtendExpr(w.Inner)
		if err != nil {
			return nil, err
		}
		return relquery.AsString{Inner: inner}, nil
	default:
		return nil, unknownExpType("relquery.ColumnExtendExpr", env.ExpType)
	}
}
