package service

import (
	"context"

	"github.com/google/uuid"

	"tradedoc/storage/postgres"
	"tradedoc/types"
)

// TemplateService 模板和映射配置的管理面（生成流水线外围的 CRUD）
type TemplateService struct {
	repo *postgres.TemplateRepo
}

func NewTemplateService(repo *postgres.TemplateRepo) *TemplateService {
	return &TemplateService{repo: repo}
}

func (s *TemplateService) List(ctx context.Context) ([]postgres.DocumentTemplate, error) {
	return s.repo.ListTemplates(ctx)
}

// Register 登记一个模板，返回分配的 UUID
func (s *TemplateService) Register(ctx context.Context, req *types.RegisterTemplateRequest) (string, error) {
	tpl := &postgres.DocumentTemplate{
		ID:       uuid.NewString(),
		Name:     req.Name,
		FilePath: req.FilePath,
	}
	if err := s.repo.CreateTemplate(ctx, tpl); err != nil {
		return "", err
	}
	return tpl.ID, nil
}

func (s *TemplateService) Mappings(ctx context.Context, templateID string) ([]types.TemplateMapping, error) {
	return s.repo.Mappings(ctx, templateID)
}

func (s *TemplateService) UpsertMappings(ctx context.Context, req *types.UpsertMappingRequest) error {
	return s.repo.UpsertMappings(ctx, req.TemplateID, req.Mappings)
}
