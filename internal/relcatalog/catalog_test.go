package relcatalog

import (
	"testing"

	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relq/relq/internal/reldialect"
)

func TestLoad_MultiTableCatalogPreservesColumnOrder(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`
		tables: bart: columns: [
			{id: "Name", type: "string"},
			{id: "JobFamily", type: "string", displayName: "Job Family"},
			{id: "Base", type: "integer"},
			{id: "TCOE", type: "integer"},
		]
		tables: carts: columns: [
			{id: "cart_id", type: "string"},
			{id: "total", type: "real"},
		]
	`)
	require.NoError(t, v.Err())

	catalog, err := Load(reldialect.SQLite, v)
	require.NoError(t, err)
	require.Contains(t, catalog, "bart")
	require.Contains(t, catalog, "carts")

	bart := catalog["bart"].Schema
	assert.Equal(t, []string{"Name", "JobFamily", "Base", "TCOE"}, bart.Columns)

	meta, ok := bart.Lookup("JobFamily")
	require.True(t, ok)
	assert.Equal(t, "Job Family", meta.DisplayName)

	meta, ok = bart.Lookup("Name")
	require.True(t, ok)
	assert.Equal(t, "Name", meta.DisplayName)

	carts := catalog["carts"].Schema
	assert.Equal(t, []string{"cart_id", "total"}, carts.Columns)
}

func TestLoad_UnknownColumnTypeErrors(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`
		tables: bart: columns: [
			{id: "Name", type: "vector3"},
		]
	`)
	require.NoError(t, v.Err())

	_, err := Load(reldialect.SQLite, v)
	require.Error(t, err)
	var compileErr *CompileError
	require.ErrorAs(t, err, &compileErr)
	assert.Contains(t, compileErr.Message, "unrecognized column type")
}

func TestLoad_MissingTablesFieldErrors(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`foo: "bar"`)
	require.NoError(t, v.Err())

	_, err := Load(reldialect.SQLite, v)
	require.Error(t, err)
	var compileErr *CompileError
	require.ErrorAs(t, err, &compileErr)
	assert.Equal(t, "tables", compileErr.Field)
}

func TestLoad_MissingColumnsFieldErrors(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`tables: bart: {}`)
	require.NoError(t, v.Err())

	_, err := Load(reldialect.SQLite, v)
	require.Error(t, err)
	var compileErr *CompileError
	require.ErrorAs(t, err, &compileErr)
	assert.Contains(t, compileErr.Field, "columns")
}

func TestLoad_ColumnMissingIDErrors(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`
		tables: bart: columns: [
			{type: "string"},
		]
	`)
	require.NoError(t, v.Err())

	_, err := Load(reldialect.SQLite, v)
	require.Error(t, err)
}
