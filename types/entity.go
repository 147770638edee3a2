package types

// --- 常量定义 ---

// IDType 每张表的主键类型是固定的，整型和 UUID 不能混用
type IDType int

const (
	IDInt IDType = iota + 1
	IDUUID
)

// EntityKey 实体类别（前缀表和解析结果都用它做 key）
type EntityKey string

const (
	KeyVessel          EntityKey = "vessel"
	KeyPort            EntityKey = "port"
	KeyDeparturePort   EntityKey = "departure_port"
	KeyDestinationPort EntityKey = "destination_port"
	KeyCompany         EntityKey = "company"
	KeyBuyer           EntityKey = "buyer"
	KeySeller          EntityKey = "seller"
	KeyProduct         EntityKey = "product"
	KeyRefinery        EntityKey = "refinery"
	KeyBroker          EntityKey = "broker"
	KeyBuyerBank       EntityKey = "buyer_bank"
	KeySellerBank      EntityKey = "seller_bank"
	KeyDeal            EntityKey = "deal"
)

// --- 结构体定义 ---

// Entity 从数据库取出的一行实体快照，请求范围内只读，不做缓存
// ID 是 int64 或 string(UUID)，类型由表决定
type Entity struct {
	Key    EntityKey
	Table  string
	ID     any
	Fields map[string]any // 原始列名 -> 值
}

// Name 实体显示名，用于给生成模型做上下文
func (e *Entity) Name() string {
	for _, col := range []string{"name", "vessel_name", "company_name", "port_name"} {
		if v, ok := e.Fields[col]; ok && v != nil {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

// 映射来源
const (
	SourceDatabase = "database"
	SourceAI       = "ai"
)

// TemplateMapping 模板配置的占位符显式映射（document_template_fields 表一行）
type TemplateMapping struct {
	PlaceholderName string `json:"placeholder_name"`
	Source          string `json:"source"` // "database" / "ai"
	DatabaseTable   string `json:"database_table"`
	DatabaseColumn  string `json:"database_column"`
}
