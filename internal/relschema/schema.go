package relschema

import (
	"fmt"

	"github.com/relq/relq/internal/reltype"
)

// ColumnMetadata carries a column's resolved type and display name.
type ColumnMetadata struct {
	Type        *reltype.ColumnType
	DisplayName string
}

// Schema is an ordered sequence of column ids, each with metadata.
// Every id in Columns has an entry in the metadata map; ids are unique
// within a Schema. Build one with New, extend it with Extend — never
// mutate Columns or the metadata map directly, since both may be
// shared by other Schema values in the compilation's DAG.
type Schema struct {
	Columns  []string
	metadata map[string]ColumnMetadata
}

// New builds a Schema from columns in order, alongside their metadata.
// Returns an error if cols contains a duplicate id or if metadata is
// missing an entry for one of cols.
func New(cols []string, metadata map[string]ColumnMetadata) (Schema, error) {
	seen := make(map[string]bool, len(cols))
	md := make(map[string]ColumnMetadata, len(cols))
	for _, c := range cols {
		if seen[c] {
			return Schema{}, fmt.Errorf("duplicate column id %q", c)
		}
		seen[c] = true
		m, ok := metadata[c]
		if !ok {
			return Schema{}, fmt.Errorf("missing metadata for column %q", c)
		}
		md[c] = m
	}
	colsCopy := make([]string, len(cols))
	copy(colsCopy, cols)
	return Schema{Columns: colsCopy, metadata: md}, nil
}

// Has reports whether colId is present in the schema.
func (s Schema) Has(colID string) bool {
	_, ok := s.metadata[colID]
	return ok
}

// Lookup returns the metadata for colId and whether it was present.
func (s Schema) Lookup(colID string) (ColumnMetadata, bool) {
	m, ok := s.metadata[colID]
	return m, ok
}

// Extend returns a new Schema with colId appended and associated with
// meta. Fails if colId is already present — Schema never silently
// overwrites a column.
func (s Schema) Extend(colID string, meta ColumnMetadata) (Schema, error) {
	if s.Has(colID) {
		return Schema{}, fmt.Errorf("column %q already present in schema", colID)
	}
	cols := make([]string, len(s.Columns)+1)
	copy(cols, s.Columns)
	cols[len(s.Columns)] = colID

	md := make(map[string]ColumnMetadata, len(s.metadata)+1)
	for k, v := range s.metadata {
		md[k] = v
	}
	md[colID] = meta

	return Schema{Columns: cols, metadata: md}, nil
}

// Restrict returns a new Schema containing only the given column ids,
// in the given order, carrying over each one's existing metadata.
// Fails if any requested id is absent from s.
func (s Schema) Restrict(cols []string) (Schema, error) {
	md := make(map[string]ColumnMetadata, len(cols))
	for _, c := range cols {
		m, ok := s.Lookup(c)
		if !ok {
			return Schema{}, fmt.Errorf("unknown column %q", c)
		}
		md[c] = m
	}
	return New(cols, md)
}

// Equal reports whether s and other have identical columns, in the
// same order, with identical types — the check concat's schema-
// agreement requirement (spec §4.3/§9) is built from. Display names are
// not compared: two schemas that differ only in a display name are
// still considered the same shape for concat purposes.
func (s Schema) Equal(other Schema) bool {
	if len(s.Columns) != len(other.Columns) {
		return false
	}
	for i, c := range s.Columns {
		if other.Columns[i] != c {
			return false
		}
		sm, _ := s.Lookup(c)
		om, _ := other.Lookup(c)
		if sm.Type == nil || om.Type == nil {
			if sm.Type != om.Type {
				return false
			}
			continue
		}
		if sm.Type.Kind != om.Type.Kind {
			return false
		}
	}
	return true
}
