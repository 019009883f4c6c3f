package relharness

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/relq/relq/internal/reldialect"
	"github.com/relq/relq/internal/reldriver"
	"github.com/relq/relq/internal/relschema"
	"github.com/relq/relq/internal/reltype"
)

// SeedCSV creates tableName in driver using schema's column types and
// loads every data row from the CSV file at path (first row is the
// header and is skipped; its cells are matched to schema.Columns by
// position, not by name). encoding/csv is stdlib: the pack carries no
// CSV-parsing dependency for relharness to adopt, and tabular-fixture
// loading has no parsing subtlety beyond what encoding/csv already
// gives for free.
func SeedCSV(ctx context.Context, driver *reldriver.SQLiteDriver, dialect *reldialect.Dialect, tableName string, schema relschema.Schema, path string) error {
	if err := createTable(ctx, driver, dialect, tableName, schema); err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("relharness: open fixture %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	if _, err := r.Read(); err != nil {
		return fmt.Errorf("relharness: read fixture header: %w", err)
	}

	placeholders := make([]string, len(schema.Columns))
	for i := range placeholders {
		placeholders[i] = "?"
	}
	insertSQL := fmt.Sprintf("INSERT INTO %s VALUES (%s)", dialect.QuoteCol(tableName), strings.Join(placeholders, ", "))

	for {
		record, err := r.Read()
		if err != nil {
			break
		}
		args, err := convertRow(schema, record)
		if err != nil {
			return err
		}
		if err := driver.Exec(ctx, insertSQL, args...); err != nil {
			return fmt.Errorf("relharness: insert fixture row: %w", err)
		}
	}
	return nil
}

func createTable(ctx context.Context, driver *reldriver.SQLiteDriver, dialect *reldialect.Dialect, tableName string, schema relschema.Schema) error {
	defs := make([]string, len(schema.Columns))
	for i, col := range schema.Columns {
		md, _ := schema.Lookup(col)
		defs[i] = fmt.Sprintf("%s %s", dialect.QuoteCol(col), md.Type.SQLTypeName)
	}
	createSQL := fmt.Sprintf("CREATE TABLE %s (%s)", dialect.QuoteCol(tableName), strings.Join(defs, ", "))
	if err := driver.Exec(ctx, createSQL); err != nil {
		return fmt.Errorf("relharness: create fixture table %s: %w", tableName, err)
	}
	return nil
}

func convertRow(schema relschema.Schema, record []string) ([]any, error) {
	if len(record) != len(schema.Columns) {
		return nil, fmt.Errorf("relharness: fixture row has %d cells, schema has %d columns", len(record), len(schema.Columns))
	}
	args := make([]any, len(record))
	for i, cell := range record {
		col := schema.Columns[i]
		md, _ := schema.Lookup(col)
		v, err := convertCell(md.Type.Kind, cell)
		if err != nil {
			return nil, fmt.Errorf("relharness: column %q: %w", col, err)
		}
		args[i] = v
	}
	return args, nil
}

func convertCell(kind reltype.Kind, cell string) (any, error) {
	switch kind {
	case reltype.KindInteger:
		return strconv.ParseInt(cell, 10, 64)
	case reltype.KindReal:
		return strconv.ParseFloat(cell, 64)
	case reltype.KindBoolean:
		return strconv.ParseBool(cell)
	default:
		return cell, nil
	}
}
