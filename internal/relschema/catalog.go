package relschema

// TableInfo is the catalog entry for a single base table: just its
// output Schema. The spec leaves room for a driver to attach more (row
// counts, indexes); the core never looks past Schema.
type TableInfo struct {
	Schema Schema
}

// TableInfoMap is the catalog the driver supplies on every schema
// inference or SQL lowering call: tableName -> TableInfo. Treated as
// read-only for the duration of a compilation — the core never
// mutates it.
type TableInfoMap map[string]TableInfo

// Lookup returns the TableInfo for name and whether it was present.
func (m TableInfoMap) Lookup(name string) (TableInfo, bool) {
	t, ok := m[name]
	return t, ok
}

// Scalar is any literal value storable in a Row: string, int64, float64,
// bool, or nil.
type Scalar = any

// Row is one tuple of scalars, positionally aligned with a Schema's
// Columns.
type Row []Scalar

// TableRep is the in-memory result of running a compiled query: its
// output Schema paired with the rows a conforming backend returned.
type TableRep struct {
	Schema  Schema
	RowData []Row
}
