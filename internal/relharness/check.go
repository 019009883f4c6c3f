package relharness

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/relq/relq/internal/reldialect"
)

// dialectByName maps a scenario's dialect name to its reldialect.Dialect,
// defaulting to SQLite (the only dialect internal/reldriver executes
// against).
func dialectByName(name string) *reldialect.Dialect {
	switch name {
	case "postgres":
		return reldialect.Postgres
	default:
		return reldialect.SQLite
	}
}

// CheckExpect verifies result against every assertion scenario.Expect
// sets, returning the first violation found.
func CheckExpect(scenario *Scenario, result *Result) error {
	expect := scenario.Expect

	if expect.Columns != nil {
		if !reflect.DeepEqual(expect.Columns, result.Table.Schema.Columns) {
			return fmt.Errorf("relharness: %s: expected columns %v, got %v",
				scenario.Name, expect.Columns, result.Table.Schema.Columns)
		}
	}

	if expect.RowCount != nil {
		if len(result.Table.RowData) != *expect.RowCount {
			return fmt.Errorf("relharness: %s: expected %d rows, got %d",
				scenario.Name, *expect.RowCount, len(result.Table.RowData))
		}
	}

	if expect.Row0 != nil {
		if len(result.Table.RowData) == 0 {
			return fmt.Errorf("relharness: %s: expected a row 0, got no rows", scenario.Name)
		}
		got := []any(result.Table.RowData[0])
		if !rowEqual(expect.Row0, got) {
			return fmt.Errorf("relharness: %s: expected row 0 %v, got %v", scenario.Name, expect.Row0, got)
		}
	}

	for _, substr := range expect.SQLContains {
		if !strings.Contains(result.SQL, substr) {
			return fmt.Errorf("relharness: %s: expected SQL to contain %q, got %q", scenario.Name, substr, result.SQL)
		}
	}

	return nil
}

// rowEqual compares a row loosely: YAML decodes integers as int, while
// reldriver's scan path can produce int64 for the same column, so
// values compare by their fmt.Sprint spelling rather than by dynamic
// type.
func rowEqual(expect, got []any) bool {
	if len(expect) != len(got) {
		return false
	}
	for i := range expect {
		if fmt.Sprint(expect[i]) != fmt.Sprint(got[i]) {
			return false
		}
	}
	return true
}
