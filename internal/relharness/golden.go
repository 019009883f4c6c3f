package relharness

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// resultSnapshot is the canonical shape a scenario's result is
// compared against in its golden file: the compiled SQL text plus the
// result schema's columns and every row.
type resultSnapshot struct {
	SQL     string   `json:"sql"`
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// RunWithGolden runs scenario (resolving its paths relative to
// basePath) and compares its compiled SQL and result rows against the
// golden file testdata/golden/{scenario.Name}.golden. Run with
// `go test ./internal/relharness -update` to regenerate golden files
// after an intentional behavior change.
func RunWithGolden(t *testing.T, dialectName string, scenario *Scenario, basePath string) *Result {
	t.Helper()

	dialect := dialectByName(dialectName)
	result, err := Run(t.Context(), dialect, scenario, basePath)
	if err != nil {
		t.Fatalf("relharness: running scenario %q: %v", scenario.Name, err)
	}

	rows := make([][]any, len(result.Table.RowData))
	for i, r := range result.Table.RowData {
		rows[i] = []any(r)
	}
	snapshot := resultSnapshot{SQL: result.SQL, Columns: result.Table.Schema.Columns, Rows: rows}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		t.Fatalf("relharness: marshaling snapshot: %v", err)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, data)

	return result
}
