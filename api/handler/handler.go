package handler

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tradedoc/api/response"
	"tradedoc/logic/generate"
	"tradedoc/service"
	"tradedoc/types"
)

type DocumentHandler struct {
	fillSvc *service.FillService
	tplSvc  *service.TemplateService
}

func NewDocumentHandler(fillSvc *service.FillService, tplSvc *service.TemplateService) *DocumentHandler {
	return &DocumentHandler{
		fillSvc: fillSvc,
		tplSvc:  tplSvc,
	}
}

// Generate 填充模板并出单
func (h *DocumentHandler) Generate(c *gin.Context) {
	var req types.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, "参数错误: template_id 不能为空")
		return
	}

	// UUID 型 ID 先验掉：调用方传错类型是明确的客户端错误，不往下走
	if msg, ok := validateUUIDs(&req); !ok {
		response.Fail(c, msg)
		return
	}

	fmt.Printf(">>> [DEBUG] 收到生成请求: template=%s\n", req.TemplateID)

	result, err := h.fillSvc.Generate(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, generate.ErrQuotaExceeded) {
			// 兜底通道整个不可用，区分于普通失败报出去
			response.FailWith(c, response.CodeQuota, err.Error())
			return
		}
		response.Fail(c, err.Error())
		return
	}

	response.Success(c, result)
}

func validateUUIDs(req *types.GenerateRequest) (string, bool) {
	checks := map[string]*string{
		"template_id":    &req.TemplateID,
		"product_id":     req.ProductID,
		"refinery_id":    req.RefineryID,
		"broker_id":      req.BrokerID,
		"buyer_bank_id":  req.BuyerBankID,
		"seller_bank_id": req.SellerBankID,
		"deal_id":        req.DealID,
	}
	for name, v := range checks {
		if v == nil || *v == "" {
			continue
		}
		if _, err := uuid.Parse(*v); err != nil {
			return fmt.Sprintf("参数错误: %s 不是合法的 UUID", name), false
		}
	}
	return "", true
}

// ListTemplates 模板列表
func (h *DocumentHandler) ListTemplates(c *gin.Context) {
	tpls, err := h.tplSvc.List(c.Request.Context())
	if err != nil {
		response.Fail(c, err.Error())
		return
	}
	response.Success(c, tpls)
}

// RegisterTemplate 登记模板
func (h *DocumentHandler) RegisterTemplate(c *gin.Context) {
	var req types.RegisterTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, "参数错误: name 和 file_path 不能为空")
		return
	}
	id, err := h.tplSvc.Register(c.Request.Context(), &req)
	if err != nil {
		response.Fail(c, err.Error())
		return
	}
	response.Success(c, map[string]any{"template_id": id})
}

// ListMappings 查看某模板的占位符显式映射
func (h *DocumentHandler) ListMappings(c *gin.Context) {
	templateID := c.Query("template_id")
	if _, err := uuid.Parse(templateID); err != nil {
		response.Fail(c, "参数错误: template_id 不是合法的 UUID")
		return
	}
	mappings, err := h.tplSvc.Mappings(c.Request.Context(), templateID)
	if err != nil {
		response.Fail(c, err.Error())
		return
	}
	response.Success(c, mappings)
}

// UpsertMappings 配置某模板的占位符显式映射
func (h *DocumentHandler) UpsertMappings(c *gin.Context) {
	var req types.UpsertMappingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, "参数错误: template_id 和 mappings 不能为空")
		return
	}
	for _, m := range req.Mappings {
		if m.Source != types.SourceDatabase && m.Source != types.SourceAI {
			response.Fail(c, fmt.Sprintf("参数错误: source 只能是 database 或 ai (placeholder=%s)", m.PlaceholderName))
			return
		}
	}
	if err := h.tplSvc.UpsertMappings(c.Request.Context(), &req); err != nil {
		response.Fail(c, err.Error())
		return
	}
	response.Success(c, map[string]any{"count": len(req.Mappings)})
}
