package relharness

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"

	"github.com/relq/relq/internal/reldialect"
	"github.com/relq/relq/internal/reldriver"
	"github.com/relq/relq/internal/relcatalog"
	"github.com/relq/relq/internal/relprint"
	"github.com/relq/relq/internal/relquery"
	"github.com/relq/relq/internal/relschema"
	"github.com/relq/relq/internal/relsql"
	"github.com/relq/relq/internal/relwire"
)

// Result is everything a scenario run produces: the compiled SQL text
// plus the table a conforming backend returned for it.
type Result struct {
	SQL   string
	Table relschema.TableRep
}

// Run loads scenario's catalog, seeds its fixture table into an
// in-memory SQLite database, compiles and executes its query, and
// returns the compiled SQL and result table. Every path in scenario is
// resolved relative to basePath (the scenario file's own directory).
func Run(ctx context.Context, dialect *reldialect.Dialect, scenario *Scenario, basePath string) (*Result, error) {
	catalog, err := loadCatalogDir(dialect, resolve(basePath, scenario.Catalog))
	if err != nil {
		return nil, err
	}

	info, ok := catalog.Lookup(scenario.Table)
	if !ok {
		return nil, fmt.Errorf("relharness: catalog has no table %q", scenario.Table)
	}

	driver, err := reldriver.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("relharness: open driver: %w", err)
	}
	defer driver.Close()

	if err := SeedCSV(ctx, driver, dialect, scenario.Table, info.Schema, resolve(basePath, scenario.Fixture)); err != nil {
		return nil, err
	}

	query, err := loadQuery(resolve(basePath, scenario.Query))
	if err != nil {
		return nil, err
	}

	ast, err := relsql.QueryToSQL(dialect, catalog, query)
	if err != nil {
		return nil, fmt.Errorf("relharness: lower query: %w", err)
	}

	sql, err := relprint.Print(dialect, ast, -1, -1)
	if err != nil {
		return nil, fmt.Errorf("relharness: print SQL: %w", err)
	}

	table, err := driver.RunQuery(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("relharness: run query: %w", err)
	}

	return &Result{SQL: sql, Table: table}, nil
}

func resolve(basePath, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(basePath, path)
}

func loadCatalogDir(dialect *reldialect.Dialect, dir string) (relschema.TableInfoMap, error) {
	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, fmt.Errorf("relharness: no CUE instances in %s", dir)
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, fmt.Errorf("relharness: loading CUE files in %s: %w", dir, inst.Err)
	}
	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, fmt.Errorf("relharness: building CUE value: %w", err)
	}
	return relcatalog.Load(dialect, value)
}

func loadQuery(path string) (relquery.Query, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("relharness: read query file %s: %w", path, err)
	}
	query, err := relwire.UnmarshalQuery(data)
	if err != nil {
		return nil, fmt.Errorf("relharness: parse query %s: %w", path, err)
	}
	return query, nil
}
