package placeholder

import (
	"sort"
	"strings"

	"tradedoc/types"
)

// PrefixRule 前缀 -> 实体类别
type PrefixRule struct {
	Prefix string
	Key    types.EntityKey

	norm string // 归一化后的前缀，构建时算好
}

// Taxonomy 前缀表。规则不可变，进程启动时装配一次，显式传进解析引擎，
// 测试可以换一套规则。
type Taxonomy struct {
	rules []PrefixRule
}

// NewTaxonomy 归一化并按长度降序排好：最长前缀优先，
// "departure_port_" 永远赢过 "port_"。
func NewTaxonomy(rules []PrefixRule) *Taxonomy {
	sorted := make([]PrefixRule, len(rules))
	copy(sorted, rules)
	for i := range sorted {
		sorted[i].norm = Normalize(sorted[i].Prefix)
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].norm) > len(sorted[j].norm)
	})
	return &Taxonomy{rules: sorted}
}

// Identify 识别 token 的前缀。返回命中的规则、剩余的字段名（归一化），
// 没命中的 token 不走数据库，落到生成兜底。
func (t *Taxonomy) Identify(token string) (PrefixRule, string, bool) {
	key := Normalize(token)
	for _, rule := range t.rules {
		if strings.HasPrefix(key, rule.norm) {
			return rule, strings.TrimPrefix(key, rule.norm), true
		}
	}
	return PrefixRule{}, "", false
}

// DefaultRules 默认前缀表，覆盖贸易单证里常见的叫法
var DefaultRules = []PrefixRule{
	{Prefix: "vessel_", Key: types.KeyVessel},
	{Prefix: "ship_", Key: types.KeyVessel},
	{Prefix: "port_", Key: types.KeyPort},
	{Prefix: "departure_port_", Key: types.KeyDeparturePort},
	{Prefix: "loading_port_", Key: types.KeyDeparturePort},
	{Prefix: "destination_port_", Key: types.KeyDestinationPort},
	{Prefix: "discharge_port_", Key: types.KeyDestinationPort},
	{Prefix: "company_", Key: types.KeyCompany},
	{Prefix: "buyer_", Key: types.KeyBuyer},
	{Prefix: "buyer_company_", Key: types.KeyBuyer},
	{Prefix: "seller_", Key: types.KeySeller},
	{Prefix: "seller_company_", Key: types.KeySeller},
	{Prefix: "product_", Key: types.KeyProduct},
	{Prefix: "oil_product_", Key: types.KeyProduct},
	{Prefix: "commodity_", Key: types.KeyProduct},
	{Prefix: "refinery_", Key: types.KeyRefinery},
	{Prefix: "broker_", Key: types.KeyBroker},
	{Prefix: "buyer_bank_", Key: types.KeyBuyerBank},
	{Prefix: "seller_bank_", Key: types.KeySellerBank},
	{Prefix: "deal_", Key: types.KeyDeal},
	{Prefix: "contract_", Key: types.KeyDeal},
}
