package reldriver

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/relq/relq/internal/reldialect"
	"github.com/relq/relq/internal/relschema"
	"github.com/relq/relq/internal/reltype"
)

// SQLiteDriver is the demo backend behind internal/relharness's
// end-to-end scenarios: compiled query text in, a relschema.TableRep
// out, plus table-description support for building the catalog a
// compilation needs in the first place.
type SQLiteDriver struct {
	db      *sql.DB
	dialect *reldialect.Dialect
}

// Open creates or opens a SQLite database at path (use ":memory:" for
// an ephemeral demo database) and applies the pragmas a single-writer
// demo backend needs. Idempotent — safe to call multiple times against
// the same path.
func Open(path string) (*SQLiteDriver, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("reldriver: open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("reldriver: connect to database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("reldriver: apply %q: %w", pragma, err)
		}
	}

	return &SQLiteDriver{db: db, dialect: reldialect.SQLite}, nil
}

// Close closes the underlying database connection.
func (d *SQLiteDriver) Close() error {
	return d.db.Close()
}

// Exec runs a non-query statement (DDL, inserts for fixture seeding).
// Used by internal/relharness to load a scenario's CSV fixtures before
// running the compiled query under test.
func (d *SQLiteDriver) Exec(ctx context.Context, stmt string, args ...any) error {
	_, err := d.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("reldriver: exec: %w", err)
	}
	return nil
}

// RunQuery executes already-compiled SQL text and returns the result
// as a relschema.TableRep, inferring each output column's Kind from
// SQLite's reported declared type (database/sql's driver.ColumnType
// surfaces the column's declared affinity, which for tables this
// driver itself created always matches a reltype.ColumnType's
// SQLTypeName).
func (d *SQLiteDriver) RunQuery(ctx context.Context, sqlText string) (relschema.TableRep, error) {
	rows, err := d.db.QueryContext(ctx, sqlText)
	if err != nil {
		return relschema.TableRep{}, fmt.Errorf("reldriver: run query: %w", err)
	}
	defer rows.Close()

	colTypes, err := rows.ColumnTypes()
	if err != nil {
		return relschema.TableRep{}, fmt.Errorf("reldriver: column types: %w", err)
	}

	cols := make([]string, len(colTypes))
	md := make(map[string]relschema.ColumnMetadata, len(colTypes))
	for i, ct := range colTypes {
		cols[i] = ct.Name()
		md[ct.Name()] = relschema.ColumnMetadata{
			Type:        kindFromSQLType(d.dialect, ct.DatabaseTypeName()),
			DisplayName: ct.Name(),
		}
	}
	schema, err := relschema.New(cols, md)
	if err != nil {
		return relschema.TableRep{}, fmt.Errorf("reldriver: build result schema: %w", err)
	}

	var data []relschema.Row
	for rows.Next() {
		scanDest := make([]any, len(cols))
		for i := range scanDest {
			scanDest[i] = new(any)
		}
		if err := rows.Scan(scanDest...); err != nil {
			return relschema.TableRep{}, fmt.Errorf("reldriver: scan row: %w", err)
		}
		row := make(relschema.Row, len(cols))
		for i, d := range scanDest {
			row[i] = *(d.(*any))
		}
		data = append(data, row)
	}
	if err := rows.Err(); err != nil {
		return relschema.TableRep{}, fmt.Errorf("reldriver: iterate rows: %w", err)
	}
	if data == nil {
		data = []relschema.Row{}
	}

	return relschema.TableRep{Schema: schema, RowData: data}, nil
}

// TableInfo describes a base table's Schema by way of SQLite's
// table_info pragma, resolving each column's declared type against the
// dialect the same way RunQuery's result schema does.
func (d *SQLiteDriver) TableInfo(ctx context.Context, name string) (relschema.Schema, error) {
	rows, err := d.db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", d.dialect.QuoteCol(name)))
	if err != nil {
		return relschema.Schema{}, fmt.Errorf("reldriver: table_info(%s): %w", name, err)
	}
	defer rows.Close()

	var cols []string
	md := make(map[string]relschema.ColumnMetadata)
	for rows.Next() {
		var (
			cid        int
			colName    string
			colType    string
			notNull    int
			dfltValue  any
			primaryKey int
		)
		if err := rows.Scan(&cid, &colName, &colType, &notNull, &dfltValue, &primaryKey); err != nil {
			return relschema.Schema{}, fmt.Errorf("reldriver: scan table_info row: %w", err)
		}
		cols = append(cols, colName)
		md[colName] = relschema.ColumnMetadata{Type: kindFromSQLType(d.dialect, colType), DisplayName: colName}
	}
	if err := rows.Err(); err != nil {
		return relschema.Schema{}, fmt.Errorf("reldriver: iterate table_info: %w", err)
	}
	if len(cols) == 0 {
		return relschema.Schema{}, fmt.Errorf("reldriver: table %q not found", name)
	}

	return relschema.New(cols, md)
}

// kindFromSQLType maps a SQLite declared type name back onto a
// reltype.ColumnType by matching it against the dialect's own
// SQLTypeName spellings, falling back to string — the permissive
// default SQLite itself applies to an unrecognized declared type.
func kindFromSQLType(dialect *reldialect.Dialect, sqlType string) *reltype.ColumnType {
	for _, ct := range dialect.CoreColumnTypes {
		if ct.SQLTypeName == sqlType {
			return ct
		}
	}
	return dialect.ColumnType(reltype.KindString)
}
