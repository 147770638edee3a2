package resolve

import (
	"context"
	"log"

	"tradedoc/logic/placeholder"
	"tradedoc/types"
)

// Pending 还没解析出值、等着交给生成兜底的占位符。
// 两轮式控制流里的中间产物，显式建模而不是靠代码顺序。
type Pending struct {
	Name   string // 归一化 key
	Reason string
}

// Partition 把模板的显式映射分成两摊：
// source=ai 的直接进生成队列，从头到尾不碰数据库（哪怕名字命中已知前缀）；
// source=database 的留到第二轮（实体 ID 都定了之后）再解析。
func Partition(mappings []types.TemplateMapping) (dbRows []types.TemplateMapping, aiKeys map[string]bool) {
	aiKeys = map[string]bool{}
	for _, m := range mappings {
		if m.Source == types.SourceAI {
			aiKeys[placeholder.Normalize(m.PlaceholderName)] = true
			continue
		}
		dbRows = append(dbRows, m)
	}
	return dbRows, aiKeys
}

// MappingResolver 第二轮：显式 placeholder -> (table, column) 映射。
// 只能在全部实体（含继承来的）ID 定稿之后跑。
type MappingResolver struct {
	store Store
}

func NewMappingResolver(store Store) *MappingResolver {
	return &MappingResolver{store: store}
}

// Apply 逐条解析 database 来源的映射行。成功就无条件写入——
// 显式配置压过前缀推导出来的值，哪怕前者已经非空（这是有意的）。
// 失败（没 ID、没行、值为 null）的转进生成队列。
func (r *MappingResolver) Apply(ctx context.Context, rows []types.TemplateMapping, set *EntitySet, vals *ResolvedValues) []Pending {
	var pending []Pending
	tableIDs := set.TableIDs()

	for _, m := range rows {
		key := placeholder.Normalize(m.PlaceholderName)

		id, ok := tableIDs[m.DatabaseTable]
		if !ok {
			pending = append(pending, Pending{Name: key, Reason: "no resolved id for table " + m.DatabaseTable})
			continue
		}

		row, err := r.store.SelectByID(ctx, m.DatabaseTable, id)
		if err != nil {
			log.Printf("[Mapping] 映射查询失败 table=%s id=%v: %v", m.DatabaseTable, id, err)
			pending = append(pending, Pending{Name: key, Reason: "lookup failed"})
			continue
		}

		v, ok := row[m.DatabaseColumn]
		if !ok || v == nil {
			pending = append(pending, Pending{Name: key, Reason: "column " + m.DatabaseColumn + " empty"})
			continue
		}

		s := formatValue(v)
		if prev, had := vals.Get(key); had && prev != "" && prev != s {
			// 显式映射吃掉了一个前缀推导出的非空值，留条日志方便排查配置
			log.Printf("[Mapping] 显式映射覆盖已有值 placeholder=%s old=%q new=%q", m.PlaceholderName, prev, s)
		}
		vals.Set(key, s)
	}
	return pending
}
