// Package relerr defines the error kinds shared by schema inference
// (internal/relinfer) and SQL lowering (internal/relsql): both
// operations walk the same QueryRep tree and can fail for the same
// reasons (spec §7), so they share one error shape rather than each
// inventing its own.
//
// Compilation aborts entirely on the first error; there is no partial
// result and nothing is retried within the core (spec §7
// Propagation) — callers see a single *CompileError, never a slice.
package relerr

import (
	"errors"
	"fmt"
)

// Code categorizes a compilation failure.
type Code string

const (
	CodeUnknownTable        Code = "UNKNOWN_TABLE"
	CodeUnknownColumn       Code = "UNKNOWN_COLUMN"
	CodeDuplicateColumn     Code = "DUPLICATE_COLUMN"
	CodeSchemaMismatch      Code = "SCHEMA_MISMATCH"
	CodeUnsupportedJoin     Code = "UNSUPPORTED_JOIN"
	CodeTypeInferenceFailed Code = "TYPE_INFERENCE_FAILED"
	CodeInvalidOperator     Code = "INVALID_OPERATOR"
)

// CompileError is the single error type both relinfer and relsql
// return. Its fields carry enough context (operator, table, column) to
// identify the offending node, per spec §7.
type CompileError struct {
	Code     Code
	Message  string
	Operator string
	Table    string
	Column   string
}

func (e *CompileError) Error() string {
	switch {
	case e.Table != "" && e.Column != "":
		return fmt.Sprintf("%s: %s (operator=%s table=%s column=%s)", e.Code, e.Message, e.Operator, e.Table, e.Column)
	case e.Table != "":
		return fmt.Sprintf("%s: %s (operator=%s table=%s)", e.Code, e.Message, e.Operator, e.Table)
	case e.Column != "":
		return fmt.Sprintf("%s: %s (operator=%s column=%s)", e.Code, e.Message, e.Operator, e.Column)
	default:
		return fmt.Sprintf("%s: %s (operator=%s)", e.Code, e.Message, e.Operator)
	}
}

// Is lets errors.Is match two CompileErrors by Code alone, so callers
// can write errors.Is(err, &CompileError{Code: CodeUnknownTable}).
func (e *CompileError) Is(target error) bool {
	t, ok := target.(*CompileError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// UnknownTable builds a CodeUnknownTable error.
func UnknownTable(operator, table string) *CompileError {
	return &CompileError{Code: CodeUnknownTable, Message: "table not found in catalog", Operator: operator, Table: table}
}

// UnknownColumn builds a CodeUnknownColumn error.
func UnknownColumn(operator, column string) *CompileError {
	return &CompileError{Code: CodeUnknownColumn, Message: "column not found in input schema", Operator: operator, Column: column}
}

// DuplicateColumn builds a CodeDuplicateColumn error.
func DuplicateColumn(operator, column string) *CompileError {
	return &CompileError{Code: CodeDuplicateColumn, Message: "column already present", Operator: operator, Column: column}
}

// SchemaMismatch builds a CodeSchemaMismatch error.
func SchemaMismatch(operator string) *CompileError {
	return &CompileError{Code: CodeSchemaMismatch, Message: "operand schemas disagree on columns or types", Operator: operator}
}

// UnsupportedJoin builds a CodeUnsupportedJoin error.
func UnsupportedJoin(joinType string) *CompileError {
	return &CompileError{Code: CodeUnsupportedJoin, Message: fmt.Sprintf("unsupported join type %q", joinType), Operator: "join"}
}

// TypeInferenceFailed builds a CodeTypeInferenceFailed error.
func TypeInferenceFailed(column string) *CompileError {
	return &CompileError{Code: CodeTypeInferenceFailed, Message: "cannot infer type for extend expression", Operator: "extend", Column: column}
}

// InvalidOperator builds a CodeInvalidOperator error — the defensive
// catch-all for an operator with no case in a type switch. Unreachable
// if the QueryRep tree is well-formed (spec §7).
func InvalidOperator(operator string) *CompileError {
	return &CompileError{Code: CodeInvalidOperator, Message: "unrecognized query operator", Operator: operator}
}

// Is* predicates are errors.As-friendly tests for a specific error
// kind.

func IsUnknownTable(err error) bool    { return hasCode(err, CodeUnknownTable) }
func IsUnknownColumn(err error) bool   { return hasCode(err, CodeUnknownColumn) }
func IsDuplicateColumn(err error) bool { return hasCode(err, CodeDuplicateColumn) }
func IsSchemaMismatch(err error) bool  { return hasCode(err, CodeSchemaMismatch) }
func IsUnsupportedJoin(err error) bool { return hasCode(err, CodeUnsupportedJoin) }
func IsTypeInferenceFailed(err error) bool {
	return hasCode(err, CodeTypeInferenceFailed)
}
func IsInvalidOperator(err error) bool { return hasCode(err, CodeInvalidOperator) }

func hasCode(err error, code Code) bool {
	var ce *CompileError
	return errors.As(err, &ce) && ce.Code == code
}
