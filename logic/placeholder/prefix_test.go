package placeholder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradedoc/types"
)

func TestIdentifyLongestPrefixWins(t *testing.T) {
	tax := NewTaxonomy(DefaultRules)

	// departure_port_ 和 port_ 都能匹配，必须选长的
	rule, field, ok := tax.Identify("departure_port_name")
	require.True(t, ok)
	assert.Equal(t, types.KeyDeparturePort, rule.Key)
	assert.Equal(t, "name", field)

	rule, field, ok = tax.Identify("port_name")
	require.True(t, ok)
	assert.Equal(t, types.KeyPort, rule.Key)
	assert.Equal(t, "name", field)
}

func TestIdentifyDelimiterInsensitive(t *testing.T) {
	tax := NewTaxonomy(DefaultRules)
	rule, field, ok := tax.Identify("{{Buyer Bank SWIFT}}")
	require.True(t, ok)
	assert.Equal(t, types.KeyBuyerBank, rule.Key)
	assert.Equal(t, "swift", field)
}

func TestIdentifyUnmatched(t *testing.T) {
	tax := NewTaxonomy(DefaultRules)
	_, _, ok := tax.Identify("effective_date")
	assert.False(t, ok, "没命中前缀的 token 不应该被判成数据库可解析")
}

func TestTaxonomyCustomRules(t *testing.T) {
	// 规则是注入的，测试可以用自己的表
	tax := NewTaxonomy([]PrefixRule{
		{Prefix: "v_", Key: types.KeyVessel},
	})
	rule, field, ok := tax.Identify("v_imo")
	require.True(t, ok)
	assert.Equal(t, types.KeyVessel, rule.Key)
	assert.Equal(t, "imo", field)
}
