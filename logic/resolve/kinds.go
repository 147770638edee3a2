package resolve

import "tradedoc/types"

// kindSpec 每种实体的解析参数
type kindSpec struct {
	table  string
	idType types.IDType
	// 主实体(vessel)记录上指向该实体的外键列；空表示不能继承
	fk string
	// 公司类表按类别模糊过滤用的关键词（buyer/seller）
	typeHint string
	// 银行账户所属的公司实体
	bankOwner types.EntityKey
}

var kinds = map[types.EntityKey]kindSpec{
	types.KeyVessel:          {table: "vessels", idType: types.IDInt},
	types.KeyPort:            {table: "ports", idType: types.IDInt, fk: "port_id"},
	types.KeyDeparturePort:   {table: "ports", idType: types.IDInt, fk: "departure_port_id"},
	types.KeyDestinationPort: {table: "ports", idType: types.IDInt, fk: "destination_port_id"},
	types.KeyCompany:         {table: "companies", idType: types.IDInt, fk: "company_id"},
	types.KeyBuyer:           {table: "buyer_companies", idType: types.IDInt, fk: "buyer_company_id", typeHint: "buyer"},
	types.KeySeller:          {table: "seller_companies", idType: types.IDInt, fk: "seller_company_id", typeHint: "seller"},
	types.KeyProduct:         {table: "oil_products", idType: types.IDUUID, fk: "oil_product_id"},
	types.KeyRefinery:        {table: "refineries", idType: types.IDUUID, fk: "refinery_id"},
	types.KeyBroker:          {table: "broker_profiles", idType: types.IDUUID, fk: "broker_id"},
	types.KeyBuyerBank:       {table: "buyer_company_bank_accounts", idType: types.IDUUID, bankOwner: types.KeyBuyer},
	types.KeySellerBank:      {table: "seller_company_bank_accounts", idType: types.IDUUID, bankOwner: types.KeySeller},
	types.KeyDeal:            {table: "deals", idType: types.IDUUID, fk: "deal_id"},
}

// fetchOrder 解析顺序：主实体最先（别人要继承它的外键），银行账户最后
// （要用已解析的公司 ID 查 primary 账户）
var fetchOrder = []types.EntityKey{
	types.KeyVessel,
	types.KeyPort,
	types.KeyDeparturePort,
	types.KeyDestinationPort,
	types.KeyCompany,
	types.KeyBuyer,
	types.KeySeller,
	types.KeyProduct,
	types.KeyRefinery,
	types.KeyBroker,
	types.KeyDeal,
	types.KeyBuyerBank,
	types.KeySellerBank,
}

// TableFor 实体类别对应的表名
func TableFor(key types.EntityKey) string {
	return kinds[key].table
}

// KindForTable 表名对应的默认实体类别。ports 这类一表多实体的表
// 取解析顺序里最靠前的那个
func KindForTable(table string) (types.EntityKey, bool) {
	for _, key := range fetchOrder {
		if kinds[key].table == table {
			return key, true
		}
	}
	return "", false
}

// IDTypeFor 表的主键类型（按类别）
func IDTypeFor(key types.EntityKey) types.IDType {
	return kinds[key].idType
}
