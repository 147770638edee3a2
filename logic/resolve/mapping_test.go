package resolve

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradedoc/types"
)

func TestPartitionAIKeysNeverTouchStore(t *testing.T) {
	mappings := []types.TemplateMapping{
		{PlaceholderName: "Vessel Name", Source: types.SourceAI},
		{PlaceholderName: "contract_number", Source: types.SourceDatabase, DatabaseTable: "deals", DatabaseColumn: "reference_code"},
	}
	dbRows, aiKeys := Partition(mappings)

	require.Len(t, dbRows, 1)
	assert.Equal(t, "contract_number", dbRows[0].PlaceholderName)
	// ai 来源的连名字都归一化好了，上层据此跳过前缀推导和实体查询
	assert.True(t, aiKeys["vesselname"])
}

func TestMappingOverridesPrefixDerivedValue(t *testing.T) {
	store := newFakeStore()
	store.tables["deals"] = []map[string]any{
		{"id": "d801", "reference_code": "DEAL-2026-0042", "number": "42"},
	}

	set := newEntitySet()
	set.add(types.KeyDeal, "deals", store.tables["deals"][0])

	vals := NewResolvedValues()
	// 第一轮前缀推导已经给出了一个非空值
	vals.Set("contractnumber", "42")

	r := NewMappingResolver(store)
	pending := r.Apply(context.Background(), []types.TemplateMapping{
		{PlaceholderName: "contract_number", Source: types.SourceDatabase, DatabaseTable: "deals", DatabaseColumn: "reference_code"},
	}, set, vals)

	assert.Empty(t, pending)
	// 显式配置压过前缀推导，哪怕旧值非空
	v, _ := vals.Get("contractnumber")
	assert.Equal(t, "DEAL-2026-0042", v)
}

func TestMappingFailureGoesToPending(t *testing.T) {
	store := newFakeStore()
	store.tables["deals"] = []map[string]any{
		{"id": "d801", "reference_code": nil},
	}
	set := newEntitySet()
	set.add(types.KeyDeal, "deals", store.tables["deals"][0])
	vals := NewResolvedValues()
	r := NewMappingResolver(store)

	// 值为 null -> 转生成兜底
	pending := r.Apply(context.Background(), []types.TemplateMapping{
		{PlaceholderName: "contract_number", Source: types.SourceDatabase, DatabaseTable: "deals", DatabaseColumn: "reference_code"},
	}, set, vals)
	require.Len(t, pending, 1)
	assert.Equal(t, "contractnumber", pending[0].Name)

	// 表对应的实体没解析出 ID -> 也转生成兜底
	pending = r.Apply(context.Background(), []types.TemplateMapping{
		{PlaceholderName: "broker_license", Source: types.SourceDatabase, DatabaseTable: "broker_profiles", DatabaseColumn: "license_no"},
	}, set, vals)
	require.Len(t, pending, 1)
	assert.Equal(t, "brokerlicense", pending[0].Name)
	assert.False(t, vals.Has("brokerlicense"))
}

func TestValuesNeverRemoveKeys(t *testing.T) {
	vals := NewResolvedValues()
	vals.Set("a", "1")
	vals.Set("b", "2")
	vals.Set("a", "3") // 覆盖而不是删除
	assert.Equal(t, 2, vals.Len())
	v, ok := vals.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "3", v)
}
