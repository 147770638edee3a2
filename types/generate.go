package types

// GenerateRequest 生成单证的请求参数
// 除 template_id 外全部可选：缺的 ID 走继承外键或随机兜底
type GenerateRequest struct {
	TemplateID string `json:"template_id" binding:"required"`

	// 整型 ID（vessels / ports / companies 系列表）
	VesselID          *int64 `json:"vessel_id,omitempty"`
	DeparturePortID   *int64 `json:"departure_port_id,omitempty"`
	DestinationPortID *int64 `json:"destination_port_id,omitempty"`
	BuyerID           *int64 `json:"buyer_id,omitempty"`
	SellerID          *int64 `json:"seller_id,omitempty"`

	// UUID 字符串 ID
	ProductID    *string `json:"product_id,omitempty"`
	RefineryID   *string `json:"refinery_id,omitempty"`
	BrokerID     *string `json:"broker_id,omitempty"`
	BuyerBankID  *string `json:"buyer_bank_id,omitempty"`
	SellerBankID *string `json:"seller_bank_id,omitempty"`
	DealID       *string `json:"deal_id,omitempty"`

	// "pdf"(默认，光栅化) / "docx"(返回填好的原文档)
	OutputFormat string `json:"output_format,omitempty"`
}

// GenerateResult 生成结果
type GenerateResult struct {
	DocID    string `json:"doc_id"`
	FileName string `json:"file_name"`
	Format   string `json:"format"`
	Payload  string `json:"payload"` // base64 编码的 PDF 或 DOCX

	DBCount             int      `json:"db_count"` // 数据库解析出的值数量
	AICount             int      `json:"ai_count"` // 生成兜底的值数量
	MissingPlaceholders []string `json:"missing_placeholders"`
	ChangedParagraphs   int      `json:"changed_paragraphs"`
}

// RegisterTemplateRequest 登记模板
type RegisterTemplateRequest struct {
	Name     string `json:"name" binding:"required"`
	FilePath string `json:"file_path" binding:"required"`
}

// UpsertMappingRequest 配置某个模板的占位符显式映射
type UpsertMappingRequest struct {
	TemplateID string            `json:"template_id" binding:"required"`
	Mappings   []TemplateMapping `json:"mappings" binding:"required"`
}
