package relwire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relq/relq/internal/reldialect"
	"github.com/relq/relq/internal/relfilter"
	"github.com/relq/relq/internal/relquery"
	"github.com/relq/relq/internal/relschema"
	"github.com/relq/relq/internal/reltype"
)

func TestColumnExpr_RoundTrip(t *testing.T) {
	ref := relfilter.ColRef{Name: "Base"}
	raw, err := MarshalColumnExpr(ref)
	require.NoError(t, err)
	back, err := UnmarshalColumnExpr(raw)
	require.NoError(t, err)
	assert.Equal(t, ref, back)

	val := relfilter.ConstVal{Value: "gov't"}
	raw, err = MarshalColumnExpr(val)
	require.NoError(t, err)
	back, err = UnmarshalColumnExpr(raw)
	require.NoError(t, err)
	assert.Equal(t, val, back)
}

func TestColumnExpr_ConstValNumericRoundTripPreservesIntegerType(t *testing.T) {
	val := relfilter.ConstVal{Value: int64(100000)}
	raw, err := MarshalColumnExpr(val)
	require.NoError(t, err)
	back, err := UnmarshalColumnExpr(raw)
	require.NoError(t, err)
	assert.Equal(t, val, back, "a whole-number literal must decode back to int64, not float64")
}

func TestFilterExp_RoundTrip(t *testing.T) {
	f := relfilter.And{Predicates: []relfilter.FilterExp{
		relfilter.BinRelExp{Op: relfilter.OpGt, Lhs: relfilter.ColRef{Name: "Base"}, Rhs: relfilter.ConstVal{Value: "100000"}},
		relfilter.UnaryRelExp{Op: relfilter.OpIsNotNull, Arg: relfilter.ColRef{Name: "Name"}},
	}}
	raw, err := MarshalFilterExp(f)
	require.NoError(t, err)
	back, err := UnmarshalFilterExp(raw)
	require.NoError(t, err)
	assert.Equal(t, f, back)
}

func TestFilterExp_UnknownExpTypeLogsAndErrors(t *testing.T) {
	_, err := UnmarshalFilterExp([]byte(`{"expType":"SomethingNew"}`))
	require.Error(t, err)
}

func TestColumnExtendExpr_RoundTrip(t *testing.T) {
	e := relquery.AsString{Inner: relquery.ColRef{Name: "JobFamily"}}
	raw, err := MarshalColumnExtendExpr(e)
	require.NoError(t, err)
	back, err := UnmarshalColumnExtendExpr(raw)
	require.NoError(t, err)
	assert.Equal(t, e, back)
}

func TestQuery_RoundTrip(t *testing.T) {
	q := relquery.Project{
		Cols: []string{"Name", "TCOE"},
		From: relquery.Filter{
			Fexp: relfilter.UnaryRelExp{Op: relfilter.OpIsNotNull, Arg: relfilter.ColRef{Name: "Name"}},
			From: relquery.Table{TableName: "bart"},
		},
	}
	data, err := MarshalQuery(q)
	require.NoError(t, err)
	back, err := UnmarshalQuery(data)
	require.NoError(t, err)
	assert.Equal(t, q, back)
}

func TestQuery_JoinRoundTrip(t *testing.T) {
	q := relquery.Join{
		Lhs:      relquery.Table{TableName: "carts"},
		Rhs:      relquery.Table{TableName: "items"},
		On:       []string{"cart_id"},
		JoinType: relquery.LeftOuter,
	}
	data, err := MarshalQuery(q)
	require.NoError(t, err)
	back, err := UnmarshalQuery(data)
	require.NoError(t, err)
	assert.Equal(t, q, back)
}

func TestQuery_MapColumnsByIndexRoundTrip(t *testing.T) {
	newID := "renamed"
	q := relquery.MapColumnsByIndex{
		Cmap: map[int]relquery.ColumnMapEntry{1: {ID: &newID}},
		From: relquery.Table{TableName: "bart"},
	}
	data, err := MarshalQuery(q)
	require.NoError(t, err)
	back, err := UnmarshalQuery(data)
	require.NoError(t, err)
	assert.Equal(t, q, back)
}

func TestQuery_UnrecognizedExpTypeLogsAndErrors(t *testing.T) {
	_, err := UnmarshalQuery([]byte(`{"expType":"NotAQuery","_rep":{"operator":"Table","tableName":"bart"}}`))
	require.Error(t, err)
}

func TestResult_RoundTrip(t *testing.T) {
	schema, err := relschema.New([]string{"Name", "TCOE"}, map[string]relschema.ColumnMetadata{
		"Name": {Type: reltype.Lookup(reltype.KindString), DisplayName: "Name"},
		"TCOE": {Type: reltype.Lookup(reltype.KindInteger), DisplayName: "TCOE"},
	})
	require.NoError(t, err)
	table := relschema.TableRep{Schema: schema, RowData: []relschema.Row{
		{"Jane Doe", int64(123456)},
	}}

	data, err := MarshalResult(table)
	require.NoError(t, err)
	back, err := UnmarshalResult(reldialect.SQLite, data)
	require.NoError(t, err)
	assert.Equal(t, table.Schema.Columns, back.Schema.Columns)
	require.Len(t, back.RowData, 1)
	assert.Equal(t, "Jane Doe", back.RowData[0][0])
}
