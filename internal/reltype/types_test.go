package reltype

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistry_DisjointNumericString(t *testing.T) {
	for kind, ct := range Registry {
		assert.Falsef(t, ct.IsNumeric && ct.IsString, "kind %s has both IsNumeric and IsString set", kind)
	}
}

func TestRegistry_DefaultAggregates(t *testing.T) {
	assert.Equal(t, AggSum, Registry[KindInteger].DefaultAggFn)
	assert.Equal(t, AggSum, Registry[KindReal].DefaultAggFn)
	assert.Equal(t, AggUniq, Registry[KindString].DefaultAggFn)
}

func TestResolveAggFn_NullRewrittenForString(t *testing.T) {
	stringExtra := &ColumnType{Kind: "json", IsString: true, DefaultAggFn: AggNull}
	assert.Equal(t, AggNullStr, ResolveAggFn(stringExtra))
}

func TestResolveAggFn_NullLeftAloneForNonString(t *testing.T) {
	assert.Equal(t, AggNull, ResolveAggFn(Registry[KindBoolean]))
}

func TestResolveAggFn_ExplicitDefaultUntouched(t *testing.T) {
	assert.Equal(t, AggSum, ResolveAggFn(Registry[KindInteger]))
}

func TestLookup_UnknownKind(t *testing.T) {
	assert.Nil(t, Lookup(Kind("nope")))
}
