package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relq/relq/internal/reldialect"
)

func TestLoadCatalog_ValidDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "catalog.cue"), []byte(catalogFixture), 0o644))

	catalog, loadErr := LoadCatalog(reldialect.SQLite, dir)
	require.Nil(t, loadErr)
	require.Contains(t, catalog, "carts")
	assert.Equal(t, []string{"cart_id", "total"}, catalog["carts"].Schema.Columns)
}

func TestLoadCatalog_MissingDirectory(t *testing.T) {
	_, loadErr := LoadCatalog(reldialect.SQLite, filepath.Join(t.TempDir(), "nope"))
	require.NotNil(t, loadErr)
	assert.Equal(t, ErrCodeNotFound, loadErr.Code)
}

func TestLoadCatalog_PathIsAFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "not-a-dir")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	_, loadErr := LoadCatalog(reldialect.SQLite, file)
	require.NotNil(t, loadErr)
	assert.Equal(t, ErrCodeNotFound, loadErr.Code)
}

func TestLoadCatalog_NoCUEFiles(t *testing.T) {
	dir := t.TempDir()
	_, loadErr := LoadCatalog(reldialect.SQLite, dir)
	require.NotNil(t, loadErr)
	assert.Equal(t, ErrCodeNoFiles, loadErr.Code)
}

func TestLoadCatalog_InvalidCatalogReportsCatalogInvalid(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "catalog.cue"), []byte(`package catalog

tables: {
	carts: {
		columns: [
			{id: "cart_id", type: "not-a-real-kind"},
		]
	}
}
`), 0o644))

	_, loadErr := LoadCatalog(reldialect.SQLite, dir)
	require.NotNil(t, loadErr)
	assert.Equal(t, ErrCodeCatalogInvalid, loadErr.Code)
}

func TestLoadCatalog_MissingTablesField(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "catalog.cue"), []byte(`package catalog

notTables: {}
`), 0o644))

	_, loadErr := LoadCatalog(reldialect.SQLite, dir)
	require.NotNil(t, loadErr)
	assert.Equal(t, ErrCodeCatalogInvalid, loadErr.Code)
}

func TestLoadError_ErrorStringIncludesPosition(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "catalog.cue"), []byte(`package catalog

tables: {
	carts: {
		columns: [
			{id: "cart_id", type: "not-a-real-kind"},
		]
	}
}
`), 0o644))

	_, loadErr := LoadCatalog(reldialect.SQLite, dir)
	require.NotNil(t, loadErr)
	assert.Contains(t, loadErr.Error(), "catalog.cue")
}

func TestFindCUEFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.cue"), []byte("package catalog"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("ignored"), 0o644))
	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "c.cue"), []byte("package catalog"), 0o644))

	files, err := findCUEFiles(dir)
	require.NoError(t, err)
	assert.Len(t, files, 2)
}
