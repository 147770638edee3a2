package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/google/uuid"

	"tradedoc/logic/docword"
	"tradedoc/logic/docwrite"
	"tradedoc/logic/generate"
	"tradedoc/logic/placeholder"
	"tradedoc/logic/resolve"
	"tradedoc/storage/postgres"
	"tradedoc/types"
	"tradedoc/vars"
)

// TemplateStore 填充流水线要用的模板面
type TemplateStore interface {
	GetTemplate(ctx context.Context, id string) (*postgres.DocumentTemplate, error)
	Mappings(ctx context.Context, templateID string) ([]types.TemplateMapping, error)
	RecordGenerated(ctx context.Context, doc *postgres.GeneratedDocument) error
}

// Rasterizer docx -> 不可编辑 PDF
type Rasterizer interface {
	Rasterize(ctx context.Context, docxPath string) ([]byte, error)
}

// FillService 单证填充流水线：
// 提取 token -> 前缀表+实体解析(第一轮) -> 显式映射(第二轮) ->
// 差集进生成兜底 -> 写回文档 -> 光栅化。
// 请求内部严格串行（后面的实体要用前面解析出的 ID），请求之间无共享可变状态。
type FillService struct {
	templates TemplateStore
	fetcher   *resolve.Fetcher
	mapping   *resolve.MappingResolver
	gen       *generate.Generator
	raster    Rasterizer
	taxonomy  *placeholder.Taxonomy
	outputDir string

	// 测试可以换成内存文档
	openDoc func(path string) (docword.File, error)
}

// NewFillService 构造函数：依赖注入
func NewFillService(templates TemplateStore, store resolve.Store, chatModel model.ToolCallingChatModel, raster Rasterizer, rng *rand.Rand) *FillService {
	return &FillService{
		templates: templates,
		fetcher:   resolve.NewFetcher(store, rng),
		mapping:   resolve.NewMappingResolver(store),
		gen:       generate.NewGenerator(chatModel, rng, generate.DefaultConfig()),
		raster:    raster,
		taxonomy:  placeholder.NewTaxonomy(placeholder.DefaultRules),
		outputDir: vars.OUTPUT_DIR,
		openDoc: func(path string) (docword.File, error) {
			return docword.OpenWord(path)
		},
	}
}

// Generate 处理一次生成请求
func (s *FillService) Generate(ctx context.Context, req *types.GenerateRequest) (*types.GenerateResult, error) {
	start := time.Now()

	// 1. 模板本身不存在是唯一的硬失败
	tpl, err := s.templates.GetTemplate(ctx, req.TemplateID)
	if err != nil {
		return nil, fmt.Errorf("模板不存在: %v", err)
	}
	doc, err := s.openDoc(tpl.FilePath)
	if err != nil {
		return nil, fmt.Errorf("模板文件打开失败: %v", err)
	}

	// 2. 提取占位符
	tokens := placeholder.ExtractTokens(doc)
	fmt.Printf(">>> [DEBUG] 模板 %s 提取到 %d 个占位符\n", tpl.Name, len(tokens))

	// 3. 映射配置。读失败只降级：没有显式映射照样能走前缀推导
	mappings, err := s.templates.Mappings(ctx, req.TemplateID)
	if err != nil {
		log.Printf("[Fill] 映射配置读取失败，按无映射处理: %v", err)
		mappings = nil
	}
	dbRows, aiKeys := resolve.Partition(mappings)

	// 4. 第一轮：实体解析。ai 来源的占位符不参与实体需求，也不查库
	needed := s.neededKinds(tokens, dbRows, aiKeys)
	fetchStart := time.Now()
	set := s.fetcher.FetchAll(ctx, req, needed)
	fmt.Printf(">>> [性能] 实体解析耗时: %v\n", time.Since(fetchStart))

	vals := resolve.NewResolvedValues()
	for _, tok := range tokens {
		if aiKeys[tok.Key] {
			continue
		}
		rule, field, ok := s.taxonomy.Identify(tok.Key)
		if !ok {
			continue
		}
		if v, found := set.Value(rule.Key, field); found {
			vals.Set(tok.Key, v)
		}
	}

	// 5. 第二轮：显式映射，这时继承来的实体 ID 都定了
	pending := s.mapping.Apply(ctx, dbRows, set, vals)
	dbCount := vals.Len()

	// 6. 差集 -> 生成兜底
	display := map[string]string{} // 归一化 key -> 报告用原名
	var genNames []string
	seen := map[string]bool{}
	queue := func(key, name string) {
		if key == "" || seen[key] || vals.Has(key) {
			return
		}
		seen[key] = true
		display[key] = name
		genNames = append(genNames, key)
	}
	for _, tok := range tokens {
		queue(tok.Key, tok.Inner)
	}
	for key := range aiKeys {
		queue(key, key)
	}
	for _, p := range pending {
		queue(p.Name, p.Name)
	}
	sort.Strings(genNames)

	genVals, err := s.gen.Generate(ctx, genNames, set.ContextInfo())
	if err != nil {
		// 额度错误是明确要上抛的；生成器对其他失败自己降级了
		return nil, err
	}
	for k, v := range genVals {
		vals.Set(k, v)
	}
	aiCount := len(genVals)

	// 7. 写回文档。没值的 token 原样留着，记进 missing
	writer := docwrite.NewWriter(vals.Map())
	changed := writer.Apply(doc)

	var missing []string
	for _, tok := range tokens {
		if !vals.Has(tok.Key) {
			missing = append(missing, tok.Inner)
		}
	}
	for key, name := range display {
		if !vals.Has(key) && !tokenKeyIn(tokens, key) {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)

	// 8. 落盘 + 光栅化
	docID := uuid.NewString()
	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return nil, err
	}
	docxPath := filepath.Join(s.outputDir, docID+".docx")
	if err := doc.SaveToFile(docxPath); err != nil {
		return nil, fmt.Errorf("文档保存失败: %v", err)
	}

	format := req.OutputFormat
	if format == "" {
		format = vars.FormatPDF
	}
	var payload []byte
	outPath := docxPath
	if format == vars.FormatPDF {
		payload, err = s.raster.Rasterize(ctx, docxPath)
		if err != nil {
			return nil, fmt.Errorf("光栅化失败: %v", err)
		}
		outPath = filepath.Join(s.outputDir, docID+".pdf")
		if err := os.WriteFile(outPath, payload, 0o644); err != nil {
			log.Printf("[Fill] PDF 落盘失败: %v", err)
		}
	} else {
		payload, err = os.ReadFile(docxPath)
		if err != nil {
			return nil, err
		}
	}

	// 9. 台账。记账失败不影响出单
	record := &postgres.GeneratedDocument{
		DocID:        docID,
		TemplateID:   req.TemplateID,
		FileName:     tpl.Name,
		OutputPath:   outPath,
		Format:       format,
		DBCount:      dbCount,
		AICount:      aiCount,
		MissingCount: len(missing),
	}
	if err := s.templates.RecordGenerated(ctx, record); err != nil {
		log.Printf("[Fill] 生成台账写入失败: %v", err)
	}

	fmt.Printf(">>> [性能] 全流程耗时: %v (db=%d ai=%d missing=%d)\n",
		time.Since(start), dbCount, aiCount, len(missing))

	return &types.GenerateResult{
		DocID:               docID,
		FileName:            tpl.Name,
		Format:              format,
		Payload:             base64.StdEncoding.EncodeToString(payload),
		DBCount:             dbCount,
		AICount:             aiCount,
		MissingPlaceholders: missing,
		ChangedParagraphs:   changed,
	}, nil
}

// neededKinds 算出这次请求要解析哪些实体：
// token 前缀命中的（剔除 ai 来源的），加上显式映射引用到的表
func (s *FillService) neededKinds(tokens []placeholder.Token, dbRows []types.TemplateMapping, aiKeys map[string]bool) map[types.EntityKey]bool {
	needed := map[types.EntityKey]bool{}
	for _, tok := range tokens {
		if aiKeys[tok.Key] {
			continue
		}
		if rule, _, ok := s.taxonomy.Identify(tok.Key); ok {
			needed[rule.Key] = true
		}
	}
	for _, m := range dbRows {
		if key, ok := resolve.KindForTable(m.DatabaseTable); ok {
			needed[key] = true
		}
	}
	// 银行账户要靠所属公司，主实体是继承外键的来源
	if needed[types.KeyBuyerBank] {
		needed[types.KeyBuyer] = true
	}
	if needed[types.KeySellerBank] {
		needed[types.KeySeller] = true
	}
	if len(needed) > 0 {
		needed[types.KeyVessel] = true
	}
	return needed
}

func tokenKeyIn(tokens []placeholder.Token, key string) bool {
	for _, tok := range tokens {
		if tok.Key == key {
			return true
		}
	}
	return false
}
