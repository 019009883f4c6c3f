package relquery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableQuery_SeedsLeaf(t *testing.T) {
	q := TableQuery("bart").Build()
	tbl, ok := q.(Table)
	require.True(t, ok)
	assert.Equal(t, "bart", tbl.TableName)
}

func TestProject_WrapsFrom(t *testing.T) {
	q := TableQuery("bart").Project([]string{"Name", "Title"}).Build()
	proj, ok := q.(Project)
	require.True(t, ok)
	assert.Equal(t, []string{"Name", "Title"}, proj.Cols)
	assert.Equal(t, Table{TableName: "bart"}, proj.From)
}

func TestDistinct_IsGroupByMacro(t *testing.T) {
	q := TableQuery("bart").Distinct("JobFamily").Build()
	gb, ok := q.(GroupBy)
	require.True(t, ok)
	assert.Equal(t, []string{"JobFamily"}, gb.Cols)
	assert.Empty(t, gb.Aggs)
}

func TestConcat_SharesBothSubtrees(t *testing.T) {
	left := TableQuery("a")
	right := TableQuery("b")
	q := left.Concat(right).Build()
	cc, ok := q.(Concat)
	require.True(t, ok)
	assert.Equal(t, Table{TableName: "a"}, cc.From)
	assert.Equal(t, Table{TableName: "b"}, cc.Target)
}

func TestBuilder_ChainDoesNotMutatePriorBuilder(t *testing.T) {
	base := TableQuery("bart")
	projected := base.Project([]string{"Name"})

	assert.Equal(t, Table{TableName: "bart"}, base.Build())
	assert.NotEqual(t, base.Build(), projected.Build())
}

func TestJoin_WrapsBothSides(t *testing.T) {
	q := TableQuery("carts").Join(TableQuery("items"), []string{"cart_id"}, LeftOuter).Build()
	j, ok := q.(Join)
	require.True(t, ok)
	assert.Equal(t, LeftOuter, j.JoinType)
	assert.Equal(t, []string{"cart_id"}, j.On)
}
