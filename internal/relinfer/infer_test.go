package relinfer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relq/relq/internal/reldialect"
	"github.com/relq/relq/internal/relerr"
	"github.com/relq/relq/internal/relquery"
	"github.com/relq/relq/internal/relschema"
	"github.com/relq/relq/internal/reltype"
)

func col(name string, kind reltype.Kind) (string, relschema.ColumnMetadata) {
	return name, relschema.ColumnMetadata{Type: reltype.Lookup(kind), DisplayName: name}
}

func mustSchema(t *testing.T, cols []string, md map[string]relschema.ColumnMetadata) relschema.Schema {
	t.Helper()
	s, err := relschema.New(cols, md)
	require.NoError(t, err)
	return s
}

func bartCatalog(t *testing.T) relschema.TableInfoMap {
	t.Helper()
	names := []string{"Name", "Title", "Base", "OT", "Other", "MDV", "ER", "EE", "DC", "Misc", "TCOE", "Source", "JobFamily", "Union"}
	numeric := map[string]bool{"Base": true, "OT": true, "Other": true, "MDV": true, "ER": true, "EE": true, "DC": true, "Misc": true, "TCOE": true}

	cols := make([]string, len(names))
	md := make(map[string]relschema.ColumnMetadata, len(names))
	for i, n := range names {
		kind := reltype.KindString
		if numeric[n] {
			kind = reltype.KindInteger
		}
		cols[i] = n
		_, meta := col(n, kind)
		md[n] = meta
	}
	schema := mustSchema(t, cols, md)
	return relschema.TableInfoMap{"bart": {Schema: schema}}
}

func TestInferTable_UnknownTable(t *testing.T) {
	_, err := GetQuerySchema(reldialect.SQLite, relschema.TableInfoMap{}, relquery.Table{TableName: "nope"})
	require.Error(t, err)
	assert.True(t, relerr.IsUnknownTable(err))
}

func TestInferProject_ReordersAndRestricts(t *testing.T) {
	catalog := bartCatalog(t)
	q := relquery.Project{
		Cols: []string{"JobFamily", "Title", "Union", "Name", "Base", "TCOE"},
		From: relquery.Table{TableName: "bart"},
	}
	s, err := GetQuerySchema(reldialect.SQLite, catalog, q)
	require.NoError(t, err)
	assert.Equal(t, []string{"JobFamily", "Title", "Union", "Name", "Base", "TCOE"}, s.Columns)
}

func TestInferProject_UnknownColumn(t *testing.T) {
	catalog := bartCatalog(t)
	q := relquery.Project{Cols: []string{"Nope"}, From: relquery.Table{TableName: "bart"}}
	_, err := GetQuerySchema(reldialect.SQLite, catalog, q)
	require.Error(t, err)
	assert.True(t, relerr.IsUnknownColumn(err))
}

func TestInferProject_Idempotent(t *testing.T) {
	catalog := bartCatalog(t)
	cols := []string{"JobFamily", "Title"}
	once := relquery.Project{Cols: cols, From: relquery.Table{TableName: "bart"}}
	twice := relquery.Project{Cols: cols, From: once}

	s1, err := GetQuerySchema(reldialect.SQLite, catalog, once)
	require.NoError(t, err)
	s2, err := GetQuerySchema(reldialect.SQLite, catalog, twice)
	require.NoError(t, err)
	assert.True(t, s1.Equal(s2))
}

func TestInferGroupBy_ColsThenAggs(t *testing.T) {
	catalog := bartCatalog(t)
	q := relquery.GroupBy{
		Cols: []string{"JobFamily", "Title"},
		Aggs: []relquery.AggSpec{{Col: "TCOE"}},
		From: relquery.Table{TableName: "bart"},
	}
	s, err := GetQuerySchema(reldialect.SQLite, catalog, q)
	require.NoError(t, err)
	assert.Equal(t, []string{"JobFamily", "Title", "TCOE"}, s.Columns)
}

func TestInferMapColumns_RenamesAndDetectsDuplicates(t *testing.T) {
	catalog := bartCatalog(t)
	newID := "job_family"
	q := relquery.MapColumns{
		Cmap: map[string]relquery.ColumnMapEntry{"JobFamily": {ID: &newID}},
		From: relquery.Table{TableName: "bart"},
	}
	s, err := GetQuerySchema(reldialect.SQLite, catalog, q)
	require.NoError(t, err)
	assert.Contains(t, s.Columns, "job_family")
	assert.NotContains(t, s.Columns, "JobFamily")

	dupID := "Title" // collides with an existing, unrenamed column
	dup := relquery.MapColumns{
		Cmap: map[string]relquery.ColumnMapEntry{"JobFamily": {ID: &dupID}},
		From: relquery.Table{TableName: "bart"},
	}
	_, err = GetQuerySchema(reldialect.SQLite, catalog, dup)
	require.Error(t, err)
	assert.True(t, relerr.IsDuplicateColumn(err))
}

func TestInferConcat_RequiresEqualSchema(t *testing.T) {
	catalog := bartCatalog(t)
	lhs := relquery.Project{Cols: []string{"Name", "Title"}, From: relquery.Table{TableName: "bart"}}
	rhsMatching := relquery.Project{Cols: []string{"Name", "Title"}, From: relquery.Table{TableName: "bart"}}
	rhsMismatch := relquery.Project{Cols: []string{"Name"}, From: relquery.Table{TableName: "bart"}}

	_, err := GetQuerySchema(reldialect.SQLite, catalog, relquery.Concat{From: lhs, Target: rhsMatching})
	assert.NoError(t, err)

	_, err = GetQuerySchema(reldialect.SQLite, catalog, relquery.Concat{From: lhs, Target: rhsMismatch})
	require.Error(t, err)
	assert.True(t, relerr.IsSchemaMismatch(err))
}

func TestInferExtend_ConstValInfersIntegerStringBool(t *testing.T) {
	catalog := bartCatalog(t)
	base := relquery.Table{TableName: "bart"}

	intExt := relquery.Extend{ColID: "one", ColExp: relquery.ConstVal{Value: 1}, From: base}
	s, err := GetQuerySchema(reldialect.SQLite, catalog, intExt)
	require.NoError(t, err)
	m, _ := s.Lookup("one")
	assert.Equal(t, reltype.KindInteger, m.Type.Kind)

	strExt := relquery.Extend{ColID: "label", ColExp: relquery.ConstVal{Value: "x"}, From: base}
	s, err = GetQuerySchema(reldialect.SQLite, catalog, strExt)
	require.NoError(t, err)
	m, _ = s.Lookup("label")
	assert.Equal(t, reltype.KindString, m.Type.Kind)

	boolExt := relquery.Extend{ColID: "flag", ColExp: relquery.ConstVal{Value: true}, From: base}
	s, err = GetQuerySchema(reldialect.SQLite, catalog, boolExt)
	require.NoError(t, err)
	m, _ = s.Lookup("flag")
	assert.Equal(t, reltype.KindBoolean, m.Type.Kind)
}

func TestInferExtend_AsStringForcesDialectStringType(t *testing.T) {
	catalog := bartCatalog(t)
	ext := relquery.Extend{
		ColID:  "base_str",
		ColExp: relquery.AsString{Inner: relquery.ColRef{Name: "Base"}},
		From:   relquery.Table{TableName: "bart"},
	}
	s, err := GetQuerySchema(reldialect.SQLite, catalog, ext)
	require.NoError(t, err)
	m, _ := s.Lookup("base_str")
	assert.Equal(t, reltype.KindString, m.Type.Kind)
}

func TestInferExtend_UnknownColRefFails(t *testing.T) {
	ext := relquery.Extend{
		ColID:  "x",
		ColExp: relquery.ColRef{Name: "Nope"},
		From:   relquery.Table{TableName: "bart"},
	}
	_, err := GetQuerySchema(reldialect.SQLite, bartCatalog(t), ext)
	require.Error(t, err)
	assert.True(t, relerr.IsUnknownColumn(err))
}

func TestInferExtend_DuplicateColumnFails(t *testing.T) {
	ext := relquery.Extend{
		ColID:  "Name",
		ColExp: relquery.ConstVal{Value: "x"},
		From:   relquery.Table{TableName: "bart"},
	}
	_, err := GetQuerySchema(reldialect.SQLite, bartCatalog(t), ext)
	require.Error(t, err)
	assert.True(t, relerr.IsDuplicateColumn(err))
}

func TestInferJoin_LeftOuterSchemaExcludesOnAndDuplicates(t *testing.T) {
	carts := mustSchema(t, []string{"cart_id", "customer"}, map[string]relschema.ColumnMetadata{
		"cart_id":  {Type: reltype.Lookup(reltype.KindInteger), DisplayName: "cart_id"},
		"customer": {Type: reltype.Lookup(reltype.KindString), DisplayName: "customer"},
	})
	items := mustSchema(t, []string{"cart_id", "item_id"}, map[string]relschema.ColumnMetadata{
		"cart_id": {Type: reltype.Lookup(reltype.KindInteger), DisplayName: "cart_id"},
		"item_id": {Type: reltype.Lookup(reltype.KindInteger), DisplayName: "item_id"},
	})
	catalog := relschema.TableInfoMap{
		"carts": {Schema: carts},
		"items": {Schema: items},
	}

	q := relquery.Join{
		Lhs:      relquery.Table{TableName: "carts"},
		Rhs:      relquery.Table{TableName: "items"},
		On:       []string{"cart_id"},
		JoinType: relquery.LeftOuter,
	}
	s, err := GetQuerySchema(reldialect.SQLite, catalog, q)
	require.NoError(t, err)
	assert.Equal(t, []string{"cart_id", "customer", "item_id"}, s.Columns)
}

func TestInferJoin_UnsupportedJoinType(t *testing.T) {
	catalog := bartCatalog(t)
	q := relquery.Join{
		Lhs:      relquery.Table{TableName: "bart"},
		Rhs:      relquery.Table{TableName: "bart"},
		On:       []string{"Name"},
		JoinType: relquery.JoinType("RightOuter"),
	}
	_, err := GetQuerySchema(reldialect.SQLite, catalog, q)
	require.Error(t, err)
	assert.True(t, relerr.IsUnsupportedJoin(err))
}
