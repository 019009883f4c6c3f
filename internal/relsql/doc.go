// Package relsql implements SQL AST lowering: QueryToSQL recursively
// compiles a relquery.Query into an SQLQueryAST, a list of SELECTs,
// fusing an operator into its subquery's outer SELECT whenever that
// subquery presents the minimal shape the operator needs, and
// otherwise wrapping the subquery as a derived table.
//
// The resulting SQLQueryAST is handed to internal/relprint for
// rendering; relsql itself never produces SQL text, only the
// structured AST.
//
// Dispatch is a single type switch in QueryToSQL over the ten operator
// value types, with one lowerX function per operator holding that
// operator's fusion rule.
package relsql
