package resolve

import (
	"context"
	"fmt"
	"log"
	"math/rand"

	"tradedoc/logic/placeholder"
	"tradedoc/types"
)

// EntitySet 一次请求内解析出的全部实体。只读快照，不跨请求复用。
type EntitySet struct {
	entities map[types.EntityKey]*types.Entity
	// 每个实体的 归一化列名 -> 值 索引
	index map[types.EntityKey]map[string]any
	// 表名 -> 已解析 ID（显式映射第二轮按表名取 ID 用）
	tableIDs map[string]any
}

func newEntitySet() *EntitySet {
	return &EntitySet{
		entities: map[types.EntityKey]*types.Entity{},
		index:    map[types.EntityKey]map[string]any{},
		tableIDs: map[string]any{},
	}
}

func (s *EntitySet) add(key types.EntityKey, table string, row map[string]any) {
	ent := &types.Entity{Key: key, Table: table, ID: row["id"], Fields: row}
	s.entities[key] = ent

	idx := make(map[string]any, len(row))
	for col, v := range row {
		idx[placeholder.Normalize(col)] = v
	}
	s.index[key] = idx

	// 先解析出来的占住表名，ports 这类一表多实体的以最先解析的为准
	if _, ok := s.tableIDs[table]; !ok {
		s.tableIDs[table] = ent.ID
	}
}

func (s *EntitySet) Get(key types.EntityKey) *types.Entity {
	return s.entities[key]
}

// TableIDs 表名 -> 已解析 ID
func (s *EntitySet) TableIDs() map[string]any {
	return s.tableIDs
}

// Value 从已解析实体里取字段值。
// field 是剥掉前缀后的归一化字段名；空字段名当 name 处理。
// 直接命中不了就试几种变体（补回实体词、表名单数）。
// 列存在但为 null 算 resolved-but-empty，返回空串和 true；
// 实体缺失或列不存在才返回 false。
func (s *EntitySet) Value(key types.EntityKey, field string) (string, bool) {
	idx, ok := s.index[key]
	if !ok {
		return "", false
	}
	if field == "" {
		field = "name"
	}
	for _, cand := range fieldCandidates(key, field) {
		if v, ok := idx[cand]; ok {
			if v == nil {
				return "", true
			}
			return formatValue(v), true
		}
	}
	return "", false
}

// ContextInfo 给生成模型的上下文（已解析主体的显示名）
func (s *EntitySet) ContextInfo() []string {
	var out []string
	for _, key := range fetchOrder {
		ent := s.entities[key]
		if ent == nil {
			continue
		}
		if name := ent.Name(); name != "" {
			out = append(out, fmt.Sprintf("%s: %s", key, name))
		}
	}
	return out
}

func fieldCandidates(key types.EntityKey, field string) []string {
	kindWord := placeholder.Normalize(string(key))
	table := kinds[key].table
	single := placeholder.Normalize(table)
	if len(single) > 1 && single[len(single)-1] == 's' {
		single = single[:len(single)-1]
	}
	cands := []string{field, kindWord + field, single + field}
	// 字段名本身又带了实体词的情况（如 vessel_vessel_name）
	if len(field) > len(kindWord) && field[:len(kindWord)] == kindWord {
		cands = append(cands, field[len(kindWord):])
	}
	return cands
}

// Fetcher 实体解析器。每种实体按固定顺序尝试：
// 显式 ID -> 继承外键 -> （公司）按类别随机 / （银行）primary 标记 -> 无过滤随机。
// 随机源注入，测试给确定性源。
type Fetcher struct {
	store     Store
	rng       *rand.Rand
	pageLimit int
}

func NewFetcher(store Store, rng *rand.Rand) *Fetcher {
	return &Fetcher{store: store, rng: rng, pageLimit: 50}
}

// FetchAll 解析 needed 里标记的全部实体。每个实体的每次数据库调用都
// 单独兜错：失败只降级这一个实体，绝不中断整个请求。
func (f *Fetcher) FetchAll(ctx context.Context, req *types.GenerateRequest, needed map[types.EntityKey]bool) *EntitySet {
	set := newEntitySet()
	for _, key := range fetchOrder {
		if !needed[key] {
			continue
		}
		spec := kinds[key]
		row := f.resolveKind(ctx, key, spec, req, set)
		if row == nil {
			log.Printf("[Resolve] 实体未解析: %s", key)
			continue
		}
		set.add(key, spec.table, row)
	}
	return set
}

func (f *Fetcher) resolveKind(ctx context.Context, key types.EntityKey, spec kindSpec, req *types.GenerateRequest, set *EntitySet) map[string]any {
	// 1. 调用方显式给的 ID。银行账户也一样：显式账户 ID 直接压过 primary 查找
	if id, ok := explicitID(req, key); ok {
		if row := f.byID(ctx, spec.table, id); row != nil {
			return row
		}
	}

	// 2. 银行账户：用已解析的所属公司 ID 找 primary 标记的那行
	if spec.bankOwner != "" {
		if owner := set.Get(spec.bankOwner); owner != nil {
			rows, err := f.store.SelectWhere(ctx, spec.table, map[string]any{
				"company_id": owner.ID,
				"is_primary": true,
			}, 1)
			if err != nil {
				log.Printf("[Resolve] primary 账户查询失败 table=%s: %v", spec.table, err)
			} else if len(rows) > 0 {
				return rows[0]
			}
		}
	}

	// 3. 主实体记录上带的继承外键：调用方不用把每个关联 ID 都报一遍
	if spec.fk != "" {
		if primary := set.Get(types.KeyVessel); primary != nil {
			if fkVal, ok := primary.Fields[spec.fk]; ok && fkVal != nil {
				if row := f.byID(ctx, spec.table, fkVal); row != nil {
					return row
				}
			}
		}
	}

	// 4. 公司类：按类别列做不区分大小写的模糊匹配再随机挑
	if spec.typeHint != "" {
		if row := f.randomByType(ctx, spec.table, spec.typeHint); row != nil {
			return row
		}
	}

	// 5. 无过滤随机兜底，保证演示/预览时占位符不落空。
	// 不播种，同一请求里调两次可能取到不同的行。
	return f.randomPick(ctx, spec.table)
}

func (f *Fetcher) byID(ctx context.Context, table string, id any) map[string]any {
	row, err := f.store.SelectByID(ctx, table, id)
	if err != nil {
		log.Printf("[Resolve] 按 ID 查询失败 table=%s id=%v: %v", table, id, err)
		return nil
	}
	return row
}

// randomByType 先试显式的类别列，再试次级分类列，最后拿名称列兜底
func (f *Fetcher) randomByType(ctx context.Context, table, hint string) map[string]any {
	pattern := "%" + hint + "%"
	for _, col := range []string{"company_type", "category", "name"} {
		rows, err := f.store.SelectILike(ctx, table, col, pattern, f.pageLimit)
		if err != nil {
			log.Printf("[Resolve] 类别过滤查询失败 table=%s col=%s: %v", table, col, err)
			continue
		}
		if len(rows) > 0 {
			return rows[f.rng.Intn(len(rows))]
		}
	}
	return nil
}

func (f *Fetcher) randomPick(ctx context.Context, table string) map[string]any {
	rows, err := f.store.SelectPage(ctx, table, f.pageLimit)
	if err != nil {
		log.Printf("[Resolve] 随机兜底查询失败 table=%s: %v", table, err)
		return nil
	}
	if len(rows) == 0 {
		return nil
	}
	return rows[f.rng.Intn(len(rows))]
}

func explicitID(req *types.GenerateRequest, key types.EntityKey) (any, bool) {
	switch key {
	case types.KeyVessel:
		if req.VesselID != nil {
			return *req.VesselID, true
		}
	case types.KeyDeparturePort, types.KeyPort:
		if req.DeparturePortID != nil {
			return *req.DeparturePortID, true
		}
	case types.KeyDestinationPort:
		if req.DestinationPortID != nil {
			return *req.DestinationPortID, true
		}
	case types.KeyBuyer, types.KeyCompany:
		if req.BuyerID != nil {
			return *req.BuyerID, true
		}
	case types.KeySeller:
		if req.SellerID != nil {
			return *req.SellerID, true
		}
	case types.KeyProduct:
		if req.ProductID != nil {
			return *req.ProductID, true
		}
	case types.KeyRefinery:
		if req.RefineryID != nil {
			return *req.RefineryID, true
		}
	case types.KeyBroker:
		if req.BrokerID != nil {
			return *req.BrokerID, true
		}
	case types.KeyBuyerBank:
		if req.BuyerBankID != nil {
			return *req.BuyerBankID, true
		}
	case types.KeySellerBank:
		if req.SellerBankID != nil {
			return *req.SellerBankID, true
		}
	case types.KeyDeal:
		if req.DealID != nil {
			return *req.DealID, true
		}
	}
	return nil, false
}
