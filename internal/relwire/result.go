package relwire

import (
	"encoding/json"
	"fmt"

	"github.com/relq/relq/internal/reldialect"
	"github.com/relq/relq/internal/relschema"
	"github.com/relq/relq/internal/reltype"
)

type columnMetaWire struct {
	Type        string `json:"type"`
	DisplayName string `json:"displayName"`
}

type schemaWire struct {
	Columns        []string                  `json:"columns"`
	ColumnMetadata map[string]columnMetaWire `json:"columnMetadata"`
}

type resultWire struct {
	Schema  schemaWire `json:"schema"`
	RowData [][]any    `json:"rowData"`
}

// MarshalSchema encodes a relschema.Schema as the "schema" wire
// payload (spec §4.5: columns + columnMetadata).
func MarshalSchema(schema relschema.Schema) (json.RawMessage, error) {
	return json.Marshal(buildSchemaWire(schema))
}

func buildSchemaWire(schema relschema.Schema) schemaWire {
	md := make(map[string]columnMetaWire, len(schema.Columns))
	for _, c := range schema.Columns {
		m, _ := schema.Lookup(c)
		var kind string
		if m.Type != nil {
			kind = string(m.Type.Kind)
		}
		md[c] = columnMetaWire{Type: kind, DisplayName: m.DisplayName}
	}
	return schemaWire{Columns: schema.Columns, ColumnMetadata: md}
}

// UnmarshalSchema rebuilds a relschema.Schema from its wire payload,
// resolving each column's type string against dialect.
func UnmarshalSchema(dialect *reldialect.Dialect, data json.RawMessage) (relschema.Schema, error) {
	var w schemaWire
	if err := json.Unmarshal(data, &w); err != nil {
		return relschema.Schema{}, fmt.Errorf("relwire: decode schema: %w", err)
	}
	return resolveSchemaWire(dialect, w)
}

func resolveSchemaWire(dialect *reldialect.Dialect, w schemaWire) (relschema.Schema, error) {
	md := make(map[string]relschema.ColumnMetadata, len(w.Columns))
	for _, c := range w.Columns {
		cm, ok := w.ColumnMetadata[c]
		if !ok {
			return relschema.Schema{}, fmt.Errorf("relwire: schema missing metadata for column %q", c)
		}
		ct := dialect.ColumnType(reltype.Kind(cm.Type))
		if ct == nil {
			return relschema.Schema{}, fmt.Errorf("relwire: schema column %q has unknown type %q", c, cm.Type)
		}
		md[c] = relschema.ColumnMetadata{Type: ct, DisplayName: cm.DisplayName}
	}
	return relschema.New(w.Columns, md)
}

// MarshalResult encodes a relschema.TableRep as a result payload: a
// "schema" key plus a "rowData" array of scalar arrays (spec §4.5's
// result payload, the schema key rebuilt into a Schema object on the
// way back in).
func MarshalResult(table relschema.TableRep) ([]byte, error) {
	rows := make([][]any, len(table.RowData))
	for i, r := range table.RowData {
		rows[i] = []any(r)
	}
	return json.Marshal(resultWire{Schema: buildSchemaWire(table.Schema), RowData: rows})
}

// UnmarshalResult decodes a result payload back into a relschema.TableRep,
// resolving the embedded schema's column types against dialect.
func UnmarshalResult(dialect *reldialect.Dialect, data []byte) (relschema.TableRep, error) {
	var w resultWire
	if err := json.Unmarshal(data, &w); err != nil {
		return relschema.TableRep{}, fmt.Errorf("relwire: decode result: %w", err)
	}
	schema, err := resolveSchemaWire(dialect, w.Schema)
	if err != nil {
		return relschema.TableRep{}, err
	}
	rows := make([]relschema.Row, len(w.RowData))
	for i, r := range w.RowData {
		rows[i] = relschema.Row(r)
	}
	return relschema.TableRep{Schema: schema, RowData: rows}, nil
}
