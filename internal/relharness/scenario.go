package relharness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines an end-to-end conformance test: a catalog, a CSV
// fixture to seed one of its tables from, a QueryRep to compile and
// run, and the expectations to check the result against.
type Scenario struct {
	// Name uniquely identifies this scenario (also the golden file's
	// base name).
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Catalog is a directory of CUE files defining the table catalog,
	// relative to the scenario file's own directory.
	Catalog string `yaml:"catalog"`

	// Table is the catalog table the Fixture CSV seeds.
	Table string `yaml:"table"`

	// Fixture is a CSV file whose header row matches Table's column
	// ids, relative to the scenario file's own directory.
	Fixture string `yaml:"fixture"`

	// Query is a QueryRep wire-JSON file, relative to the scenario
	// file's own directory.
	Query string `yaml:"query"`

	// Expect lists the assertions to check the compiled query's result
	// against.
	Expect ExpectClause `yaml:"expect"`
}

// ExpectClause specifies expected compile/execute behavior. Every
// field is optional; an empty/nil field is simply not checked.
type ExpectClause struct {
	// Columns, if set, must equal the result schema's column ids, in
	// order.
	Columns []string `yaml:"columns,omitempty"`

	// RowCount, if set, must equal the number of result rows.
	RowCount *int `yaml:"rowCount,omitempty"`

	// Row0, if set, must equal the first result row's scalars.
	Row0 []any `yaml:"row0,omitempty"`

	// SQLContains, if set, lists substrings the compiled SQL text must
	// contain.
	SQLContains []string `yaml:"sqlContains,omitempty"`
}

// LoadScenario reads and strictly parses a scenario YAML file,
// rejecting unknown fields so a typo (e.g. "colum:" vs "columns:")
// fails loudly instead of silently no-oping.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("relharness: read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("relharness: parse scenario YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("relharness: invalid scenario: %w", err)
	}
	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Catalog == "" {
		return fmt.Errorf("catalog is required")
	}
	if s.Table == "" {
		return fmt.Errorf("table is required")
	}
	if s.Fixture == "" {
		return fmt.Errorf("fixture is required")
	}
	if s.Query == "" {
		return fmt.Errorf("query is required")
	}
	return nil
}
