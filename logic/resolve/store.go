package resolve

import "context"

// Store 关系数据服务的通用查询面。表是动态的，行用 map 表示，
// 主键类型（int / uuid 字符串）由表决定。
type Store interface {
	SelectByID(ctx context.Context, table string, id any) (map[string]any, error)
	SelectWhere(ctx context.Context, table string, conds map[string]any, limit int) ([]map[string]any, error)
	SelectILike(ctx context.Context, table, column, pattern string, limit int) ([]map[string]any, error)
	SelectPage(ctx context.Context, table string, limit int) ([]map[string]any, error)
}
