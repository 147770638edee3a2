package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tradedoc/types"
)

// RowRepo 关系数据服务的通用查询面：业务表（船/港口/公司/炼厂/deal...）
// 是动态的，统一走 Table + map 行，不为每张表建模型
type RowRepo struct {
	db *gorm.DB
}

func NewRowRepo(db *gorm.DB) *RowRepo {
	return &RowRepo{db: db}
}

// SelectByID 按主键取一行。查不到返回 gorm.ErrRecordNotFound
func (r *RowRepo) SelectByID(ctx context.Context, table string, id any) (map[string]any, error) {
	var rows []map[string]any
	err := r.db.WithContext(ctx).Table(table).Where("id = ?", id).Limit(1).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return rows[0], nil
}

// SelectWhere 等值条件查询
func (r *RowRepo) SelectWhere(ctx context.Context, table string, conds map[string]any, limit int) ([]map[string]any, error) {
	var rows []map[string]any
	err := r.db.WithContext(ctx).Table(table).Where(conds).Limit(limit).Find(&rows).Error
	return rows, err
}

// SelectILike 单列不区分大小写模糊匹配（公司按类别过滤用）
func (r *RowRepo) SelectILike(ctx context.Context, table, column, pattern string, limit int) ([]map[string]any, error) {
	var rows []map[string]any
	err := r.db.WithContext(ctx).Table(table).
		Where(fmt.Sprintf("%s ILIKE ?", column), pattern).
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

// SelectPage 取一页，随机兜底用
func (r *RowRepo) SelectPage(ctx context.Context, table string, limit int) ([]map[string]any, error) {
	var rows []map[string]any
	err := r.db.WithContext(ctx).Table(table).Limit(limit).Find(&rows).Error
	return rows, err
}

// Insert 插入一行
func (r *RowRepo) Insert(ctx context.Context, table string, row map[string]any) error {
	return r.db.WithContext(ctx).Table(table).Create(row).Error
}

// TemplateRepo 封装本服务自己的表（模板、映射配置、生成台账）
type TemplateRepo struct {
	db *gorm.DB
}

func NewTemplateRepo(db *gorm.DB) *TemplateRepo {
	return &TemplateRepo{db: db}
}

func (r *TemplateRepo) GetTemplate(ctx context.Context, id string) (*DocumentTemplate, error) {
	var tpl DocumentTemplate
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&tpl).Error
	if err != nil {
		return nil, err
	}
	return &tpl, nil
}

func (r *TemplateRepo) ListTemplates(ctx context.Context) ([]DocumentTemplate, error) {
	var tpls []DocumentTemplate
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&tpls).Error
	return tpls, err
}

func (r *TemplateRepo) CreateTemplate(ctx context.Context, tpl *DocumentTemplate) error {
	return r.db.WithContext(ctx).Create(tpl).Error
}

// Mappings 某模板的全部显式占位符映射
func (r *TemplateRepo) Mappings(ctx context.Context, templateID string) ([]types.TemplateMapping, error) {
	var fields []TemplateField
	err := r.db.WithContext(ctx).
		Where("template_id = ?", templateID).
		Find(&fields).Error
	if err != nil {
		return nil, err
	}
	out := make([]types.TemplateMapping, 0, len(fields))
	for i := range fields {
		out = append(out, fields[i].ToMapping())
	}
	return out, nil
}

// UpsertMappings 覆盖式更新某模板的映射配置：同名占位符先删后插
func (r *TemplateRepo) UpsertMappings(ctx context.Context, templateID string, mappings []types.TemplateMapping) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range mappings {
			err := tx.Where("template_id = ? AND placeholder_name = ?", templateID, m.PlaceholderName).
				Delete(&TemplateField{}).Error
			if err != nil {
				return err
			}
			field := TemplateField{
				ID:              uuid.NewString(),
				TemplateID:      templateID,
				PlaceholderName: m.PlaceholderName,
				Source:          m.Source,
				DatabaseTable:   m.DatabaseTable,
				DatabaseColumn:  m.DatabaseColumn,
			}
			if err := tx.Create(&field).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// RecordGenerated 生成台账落一条
func (r *TemplateRepo) RecordGenerated(ctx context.Context, doc *GeneratedDocument) error {
	return r.db.WithContext(ctx).Create(doc).Error
}

// PurgeGeneratedBefore 定时任务用：取出并删掉过期的台账行，
// 返回被删的行（调用方负责清文件）
func (r *TemplateRepo) PurgeGeneratedBefore(ctx context.Context, cutoff time.Time) ([]GeneratedDocument, error) {
	var docs []GeneratedDocument
	err := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Find(&docs).Error
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, nil
	}
	err = r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&GeneratedDocument{}).Error
	return docs, err
}
