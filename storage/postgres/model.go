package postgres

import (
	"time"

	"tradedoc/types"
)

// DocumentTemplate 对应 document_templates 表
type DocumentTemplate struct {
	// 手动指定的 UUID，不用自增 ID
	ID       string `gorm:"column:id;primaryKey;type:uuid"`
	Name     string `gorm:"column:name;type:varchar(255);not null"`
	FilePath string `gorm:"column:file_path;type:varchar(512);not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (DocumentTemplate) TableName() string {
	return "document_templates"
}

// TemplateField 对应 document_template_fields 表：
// 某个模板里一个占位符的显式映射配置，一行一个占位符
type TemplateField struct {
	ID              string `gorm:"column:id;primaryKey;type:uuid"`
	TemplateID      string `gorm:"column:template_id;type:uuid;index;not null"`
	PlaceholderName string `gorm:"column:placeholder_name;type:varchar(255);not null"`
	Source          string `gorm:"column:source;type:varchar(20);not null"` // database / ai
	DatabaseTable   string `gorm:"column:database_table;type:varchar(100)"`
	DatabaseColumn  string `gorm:"column:database_column;type:varchar(100)"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (TemplateField) TableName() string {
	return "document_template_fields"
}

func (f *TemplateField) ToMapping() types.TemplateMapping {
	return types.TemplateMapping{
		PlaceholderName: f.PlaceholderName,
		Source:          f.Source,
		DatabaseTable:   f.DatabaseTable,
		DatabaseColumn:  f.DatabaseColumn,
	}
}

// GeneratedDocument 对应 generated_documents 表：每次生成落一条账
type GeneratedDocument struct {
	DocID      string `gorm:"column:doc_id;primaryKey;type:uuid"`
	TemplateID string `gorm:"column:template_id;type:uuid;index"`
	FileName   string `gorm:"column:file_name;type:varchar(255)"`
	OutputPath string `gorm:"column:output_path;type:varchar(512)"`
	Format     string `gorm:"column:format;type:varchar(10)"`

	DBCount      int `gorm:"column:db_count"`
	AICount      int `gorm:"column:ai_count"`
	MissingCount int `gorm:"column:missing_count"`

	CreatedAt time.Time
}

func (GeneratedDocument) TableName() string {
	return "generated_documents"
}
