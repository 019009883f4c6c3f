package relwire

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/relq/relq/internal/relfilter"
)

type expTypeEnvelope struct {
	ExpType string `json:"expType"`
}

type colRefWire struct {
	ExpType string `json:"expType"`
	Name    string `json:"name"`
}

type constValWire struct {
	ExpType string `json:"expType"`
	Value   any    `json:"value"`
}

type binRelWire struct {
	ExpType string          `json:"expType"`
	Op      string          `json:"op"`
	Lhs     json.RawMessage `json:"lhs"`
	Rhs     json.RawMessage `json:"rhs"`
}

type unaryRelWire struct {
	ExpType string          `json:"expType"`
	Op      string          `json:"op"`
	Arg     json.RawMessage `json:"arg"`
}

type filterCompositeWire struct {
	ExpType    string            `json:"expType"`
	Kind       string            `json:"kind"`
	Predicates []json.RawMessage `json:"predicates"`
}

// MarshalColumnExpr encodes a relfilter.ColumnExpr (ColRef or ConstVal)
// to its tagged wire form.
func MarshalColumnExpr(e relfilter.ColumnExpr) (json.RawMessage, error) {
	switch v := e.(type) {
	case relfilter.ColRef:
		return json.Marshal(colRefWire{ExpType: "ColRef", Name: v.Name})
	case relfilter.ConstVal:
		return json.Marshal(constValWire{ExpType: "ConstVal", Value: v.Value})
	default:
		return nil, fmt.Errorf("relwire: unrecognized relfilter.ColumnExpr type %T", e)
	}
}

// UnmarshalColumnExpr decodes a tagged ColRef or ConstVal wire node.
func UnmarshalColumnExpr(data json.RawMessage) (relfilter.ColumnExpr, error) {
	var env expTypeEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("relwire: decode column expr envelope: %w", err)
	}
	switch env.ExpType {
	case "ColRef":
		var w colRefWire
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, fmt.Errorf("relwire: decode ColRef: %w", err)
		}
		return relfilter.ColRef{Name: w.Name}, nil
	case "ConstVal":
		var w constValWire
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, fmt.Errorf("relwire: decode ConstVal: %w", err)
		}
		return relfilter.ConstVal{Value: normalizeConstVal(w.Value)}, nil
	default:
		return nil, unknownExpType("relfilter.ColumnExpr", env.ExpType)
	}
}

// normalizeConstVal undoes encoding/json's untyped-any-decodes-to-
// float64 behavior for whole numbers, so a ConstVal built with an int64
// literal round-trips through Marshal/Unmarshal as the same Go type
// instead of surfacing as a float64. Non-whole numbers stay float64.
func normalizeConstVal(v any) any {
	f, ok := v.(float64)
	if !ok {
		return v
	}
	if i := int64(f); float64(i) == f {
		return i
	}
	return f
}

// MarshalFilterExp encodes a relfilter.FilterExp tree. And/Or compose
// under the shared "FilterExp" discriminator (distinguished by a
// "kind" field); BinRelExp and UnaryRelExp carry their own discriminator
// since each has a fixed, non-recursive-list shape.
func MarshalFilterExp(f relfilter.FilterExp) (json.RawMessage, error) {
	switch v := f.(type) {
	case relfilter.And:
		return marshalFilterComposite("And", v.Predicates)
	case relfilter.Or:
		return marshalFilterComposite("Or", v.Predicates)
	case relfilter.BinRelExp:
		lhs, err := MarshalColumnExpr(v.Lhs)
		if err != nil {
			return nil, err
		}
		rhs, err := MarshalColumnExpr(v.Rhs)
		if err != nil {
			return nil, err
		}
		return json.Marshal(binRelWire{ExpType: "BinRelExp", Op: string(v.Op), Lhs: lhs, Rhs: rhs})
	case relfilter.UnaryRelExp:
		arg, err := MarshalColumnExpr(v.Arg)
		if err != nil {
			return nil, err
		}
		return json.Marshal(unaryRelWire{ExpType: "UnaryRelExp", Op: string(v.Op), Arg: arg})
	default:
		return nil, fmt.Errorf("relwire: unrecognized relfilter.FilterExp type %T", f)
	}
}

func marshalFilterComposite(kind string, predicates []relfilter.FilterExp) (json.RawMessage, error) {
	encoded := make([]json.RawMessage, len(predicates))
	for i, p := range predicates {
		raw, err := MarshalFilterExp(p)
		if err != nil {
			return nil, err
		}
		encoded[i] = raw
	}
	return json.Marshal(filterCompositeWire{ExpType: "FilterExp", Kind: kind, Predicates: encoded})
}

// UnmarshalFilterExp decodes a tagged FilterExp tree.
func UnmarshalFilterExp(data json.RawMessage) (relfilter.FilterExp, error) {
	var env expTypeEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("relwire: decode filter expr envelope: %w", err)
	}
	switch env.ExpType {
	case "FilterExp":
		var w filterCompositeWire
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, fmt.Errorf("relwire: decode FilterExp: %w", err)
		}
		predicates := make([]relfilter.FilterExp, len(w.Predicates))
		for i, raw := range w.Predicates {
			p, err := UnmarshalFilterExp(raw)
			if err != nil {
				return nil, err
			}
			predicates[i] = p
		}
		switch w.Kind {
		case "And":
			return relfilter.And{Predicates: predicates}, nil
		case "Or":
			return relfilter.Or{Predicates: predicates}, nil
		default:
			return nil, fmt.Errorf("relwire: unrecognized FilterExp kind %q", w.Kind)
		}
	case "BinRelExp":
		var w binRelWire
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, fmt.Errorf("relwire: decode BinRelExp: %w", err)
		}
		lhs, err := UnmarshalColumnExpr(w.Lhs)
		if err != nil {
			return nil, err
		}
		rhs, err := UnmarshalColumnExpr(w.Rhs)
		if err != nil {
			return nil, err
		}
		return relfilter.BinRelExp{Op: relfilter.Op(w.Op), Lhs: lhs, Rhs: rhs}, nil
	case "UnaryRelExp":
		var w unaryRelWire
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, fmt.Errorf("relwire: decode UnaryRelExp: %w", err)
		}
		arg, err := UnmarshalColumnExpr(w.Arg)
		if err != nil {
			return nil, err
		}
		return relfilter.UnaryRelExp{Op: relfilter.Op(w.Op), Arg: arg}, nil
	default:
		return nil, unknownExpType("relfilter.FilterExp", env.ExpType)
	}
}

// unknownExpType logs the unrecognized discriminator (spec §4.5) and
// returns the error relwire's decode functions surface to their caller.
func unknownExpType(context, expType string) error {
	log.Printf("relwire: unrecognized expType %q while reviving %s", expType, context)
	return fmt.Errorf("relwire: unrecognized expType %q reviving %s", expType, context)
}
