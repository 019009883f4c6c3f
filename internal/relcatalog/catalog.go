package relcatalog

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/relq/relq/internal/reldialect"
	"github.com/relq/relq/internal/relschema"
	"github.com/relq/relq/internal/reltype"
)

// CompileError represents a catalog compilation error with a source
// position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError unwraps a CUE error list into a single positioned
// CompileError, taking the first reported error.
func formatCUEError(field string, err error) error {
	if err == nil {
		return nil
	}
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}
	first := errs[0]
	positions := errors.Positions(first)
	if len(positions) > 0 {
		return &CompileError{Field: field, Message: first.Error(), Pos: positions[0]}
	}
	return err
}

// Load walks v's "tables" field and builds a relschema.TableInfoMap,
// one entry per table, resolving each column's declared type string
// against dialect.
func Load(dialect *reldialect.Dialect, v cue.Value) (relschema.TableInfoMap, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError("catalog", err)
	}

	tablesVal := v.LookupPath(cue.ParsePath("tables"))
	if !tablesVal.Exists() {
		return nil, &CompileError{Field: "tables", Message: "catalog has no \"tables\" field", Pos: v.Pos()}
	}

	iter, err := tablesVal.Fields()
	if err != nil {
		return nil, formatCUEError("tables", err)
	}

	catalog := make(relschema.TableInfoMap)
	for iter.Next() {
		tableName := iter.Label()
		schema, err := loadTableSchema(dialect, tableName, iter.Value())
		if err != nil {
			return nil, err
		}
		catalog[tableName] = relschema.TableInfo{Schema: schema}
	}
	return catalog, nil
}

func loadTableSchema(dialect *reldialect.Dialect, tableName string, tableVal cue.Value) (relschema.Schema, error) {
	colsVal := tableVal.LookupPath(cue.ParsePath("columns"))
	if !colsVal.Exists() {
		return relschema.Schema{}, &CompileError{
			Field:   fmt.Sprintf("tables.%s.columns", tableName),
			Message: "table has no \"columns\" field",
			Pos:     tableVal.Pos(),
		}
	}

	colIter, err := colsVal.List()
	if err != nil {
		return relschema.Schema{}, formatCUEError(fmt.Sprintf("tables.%s.columns", tableName), err)
	}

	var cols []string
	md := make(map[string]relschema.ColumnMetadata)
	for colIter.Next() {
		colVal := colIter.Value()

		id, err := colVal.LookupPath(cue.ParsePath("id")).String()
		if err != nil {
			return relschema.Schema{}, &CompileError{
				Field:   fmt.Sprintf("tables.%s.columns[].id", tableName),
				Message: "column id must be a string",
				Pos:     colVal.Pos(),
			}
		}

		kindStr, err := colVal.LookupPath(cue.ParsePath("type")).String()
		if err != nil {
			return relschema.Schema{}, &CompileError{
				Field:   fmt.Sprintf("tables.%s.columns.%s.type", tableName, id),
				Message: "column type must be a string",
				Pos:     colVal.Pos(),
			}
		}

		ct := dialect.ColumnType(reltype.Kind(kindStr))
		if ct == nil {
			return relschema.Schema{}, &CompileError{
				Field:   fmt.Sprintf("tables.%s.columns.%s.type", tableName, id),
				Message: fmt.Sprintf("unrecognized column type %q for dialect %q", kindStr, dialect.Name),
				Pos:     colVal.Pos(),
			}
		}

		displayName := id
		if dn := colVal.LookupPath(cue.ParsePath("displayName")); dn.Exists() {
			if s, err := dn.String(); err == nil {
				displayName = s
			}
		}

		cols = append(cols, id)
		md[id] = relschema.ColumnMetadata{Type: ct, DisplayName: displayName}
	}

	schema, err := relschema.New(cols, md)
	if err != nil {
		return relschema.Schema{}, &CompileError{
			Field:   fmt.Sprintf("tables.%s.columns", tableName),
			Message: err.Error(),
			Pos:     tableVal.Pos(),
		}
	}
	return schema, nil
}
