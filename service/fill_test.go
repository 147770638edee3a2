package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradedoc/logic/docword"
	"tradedoc/logic/generate"
	"tradedoc/storage/postgres"
	"tradedoc/types"
)

// --- 测试替身 ---

type fakeTemplateStore struct {
	tpl      *postgres.DocumentTemplate
	mappings []types.TemplateMapping
	recorded []*postgres.GeneratedDocument
}

func (f *fakeTemplateStore) GetTemplate(ctx context.Context, id string) (*postgres.DocumentTemplate, error) {
	if f.tpl == nil || f.tpl.ID != id {
		return nil, errors.New("record not found")
	}
	return f.tpl, nil
}

func (f *fakeTemplateStore) Mappings(ctx context.Context, templateID string) ([]types.TemplateMapping, error) {
	return f.mappings, nil
}

func (f *fakeTemplateStore) RecordGenerated(ctx context.Context, doc *postgres.GeneratedDocument) error {
	f.recorded = append(f.recorded, doc)
	return nil
}

type fakeRowStore struct {
	tables     map[string][]map[string]any
	failTables map[string]bool
	queried    map[string]int
}

func newFakeRowStore() *fakeRowStore {
	return &fakeRowStore{
		tables:     map[string][]map[string]any{},
		failTables: map[string]bool{},
		queried:    map[string]int{},
	}
}

func (f *fakeRowStore) SelectByID(ctx context.Context, table string, id any) (map[string]any, error) {
	f.queried[table]++
	if f.failTables[table] {
		return nil, errors.New("connection refused")
	}
	for _, row := range f.tables[table] {
		if fmt.Sprintf("%v", row["id"]) == fmt.Sprintf("%v", id) {
			return row, nil
		}
	}
	return nil, errors.New("record not found")
}

func (f *fakeRowStore) SelectWhere(ctx context.Context, table string, conds map[string]any, limit int) ([]map[string]any, error) {
	f.queried[table]++
	if f.failTables[table] {
		return nil, errors.New("connection refused")
	}
	var out []map[string]any
	for _, row := range f.tables[table] {
		match := true
		for col, want := range conds {
			if fmt.Sprintf("%v", row[col]) != fmt.Sprintf("%v", want) {
				match = false
				break
			}
		}
		if match {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakeRowStore) SelectILike(ctx context.Context, table, column, pattern string, limit int) ([]map[string]any, error) {
	f.queried[table]++
	if f.failTables[table] {
		return nil, errors.New("connection refused")
	}
	needle := strings.ToLower(strings.Trim(pattern, "%"))
	var out []map[string]any
	for _, row := range f.tables[table] {
		v, ok := row[column]
		if !ok || v == nil {
			continue
		}
		if strings.Contains(strings.ToLower(fmt.Sprintf("%v", v)), needle) {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakeRowStore) SelectPage(ctx context.Context, table string, limit int) ([]map[string]any, error) {
	f.queried[table]++
	if f.failTables[table] {
		return nil, errors.New("connection refused")
	}
	return f.tables[table], nil
}

type fakeChatModel struct {
	resp string
	err  error
}

func (f *fakeChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	return schema.AssistantMessage(f.resp, nil), nil
}

func (f *fakeChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("not implemented")
}

func (f *fakeChatModel) WithTools(tools []*schema.ToolInfo) (model.ToolCallingChatModel, error) {
	return f, nil
}

const testTemplateID = "3f2b8c1a-9a55-4f4e-8e36-6a1d2c9b7e10"

func newTestService(t *testing.T, store *fakeRowStore, tplStore *fakeTemplateStore, chatModel model.ToolCallingChatModel, doc *docword.MemDocument) *FillService {
	t.Helper()
	svc := NewFillService(tplStore, store, chatModel, nil, rand.New(rand.NewSource(1)))
	svc.outputDir = t.TempDir()
	svc.openDoc = func(path string) (docword.File, error) {
		return doc, nil
	}
	return svc
}

func testTemplate() *postgres.DocumentTemplate {
	return &postgres.DocumentTemplate{ID: testTemplateID, Name: "Charter Party", FilePath: "charter.docx"}
}

func int64p(v int64) *int64 { return &v }

// --- 场景测试 ---

func TestGenerateFullScenario(t *testing.T) {
	// 模板里混着 数据库可解析 / primary 银行账户 / 日期 / 数值结果 四类占位符，
	// 请求只给了船 ID，买方靠外键继承，银行账户靠 primary 标记
	doc := docword.NewMemDocument(
		"Vessel: {{vessel_name}}",
		"Buyer bank SWIFT: {{buyer_bank_swift}}",
		"Effective date: {{effective_date}}",
		"Result: {{Result1}}",
	)
	store := newFakeRowStore()
	store.tables["vessels"] = []map[string]any{
		{"id": int64(7), "name": "MT Aurora", "buyer_company_id": int64(3)},
	}
	store.tables["buyer_companies"] = []map[string]any{
		{"id": int64(3), "name": "Helios Energy DMCC"},
	}
	store.tables["buyer_company_bank_accounts"] = []map[string]any{
		{"id": "c2f1", "company_id": int64(3), "is_primary": true, "swift": "DEUTDEFF500"},
	}
	tplStore := &fakeTemplateStore{tpl: testTemplate()}
	svc := newTestService(t, store, tplStore, &fakeChatModel{resp: "{}"}, doc)

	result, err := svc.Generate(context.Background(), &types.GenerateRequest{
		TemplateID:   testTemplateID,
		VesselID:     int64p(7),
		OutputFormat: "docx",
	})
	require.NoError(t, err)

	payload, err := base64.StdEncoding.DecodeString(result.Payload)
	require.NoError(t, err)
	text := string(payload)

	assert.Contains(t, text, "Vessel: MT Aurora")
	assert.Contains(t, text, "SWIFT: DEUTDEFF500")

	// 日期是近期人类可读格式，不是 ISO
	assert.NotContains(t, text, "{{effective_date}}")
	assert.NotRegexp(t, `Effective date: \d{4}-\d{2}-\d{2}`, text)

	// Result 是纯数字
	m := regexp.MustCompile(`Result: (\S+)`).FindStringSubmatch(text)
	require.Len(t, m, 2)
	assert.Regexp(t, `^\d+(\.\d+)?$`, m[1])

	assert.Equal(t, 2, result.DBCount)
	assert.Equal(t, 2, result.AICount)
	assert.Empty(t, result.MissingPlaceholders)
	require.Len(t, tplStore.recorded, 1)
	assert.Equal(t, result.DocID, tplStore.recorded[0].DocID)
}

func TestGenerateMappingResolvedInSecondPass(t *testing.T) {
	// contract_number 显式映射到 (deals, reference_code)，而 deal 的 ID
	// 只能从主实体的外键继承——必须等第一轮实体解析完才解析得出来
	doc := docword.NewMemDocument("Contract No: {{contract_number}}")
	store := newFakeRowStore()
	store.tables["vessels"] = []map[string]any{
		{"id": int64(7), "name": "MT Aurora", "deal_id": "d801"},
	}
	store.tables["deals"] = []map[string]any{
		{"id": "d801", "reference_code": "DEAL-2026-0042"},
	}
	tplStore := &fakeTemplateStore{
		tpl: testTemplate(),
		mappings: []types.TemplateMapping{
			{PlaceholderName: "contract_number", Source: types.SourceDatabase, DatabaseTable: "deals", DatabaseColumn: "reference_code"},
		},
	}
	svc := newTestService(t, store, tplStore, &fakeChatModel{resp: "{}"}, doc)

	result, err := svc.Generate(context.Background(), &types.GenerateRequest{
		TemplateID:   testTemplateID,
		VesselID:     int64p(7),
		OutputFormat: "docx",
	})
	require.NoError(t, err)

	payload, _ := base64.StdEncoding.DecodeString(result.Payload)
	assert.Contains(t, string(payload), "Contract No: DEAL-2026-0042")
	assert.Empty(t, result.MissingPlaceholders)
}

func TestGenerateAISourceBypassesDatabase(t *testing.T) {
	// source=ai 的占位符就算名字命中 vessel_ 前缀，也一次都不能查库
	doc := docword.NewMemDocument("Vessel: {{vessel_name}}")
	store := newFakeRowStore()
	store.tables["vessels"] = []map[string]any{
		{"id": int64(7), "name": "MT Aurora"},
	}
	tplStore := &fakeTemplateStore{
		tpl: testTemplate(),
		mappings: []types.TemplateMapping{
			{PlaceholderName: "vessel_name", Source: types.SourceAI},
		},
	}
	chatModel := &fakeChatModel{resp: `{"vesselname": "MT Meridian Star"}`}
	svc := newTestService(t, store, tplStore, chatModel, doc)

	result, err := svc.Generate(context.Background(), &types.GenerateRequest{
		TemplateID:   testTemplateID,
		VesselID:     int64p(7),
		OutputFormat: "docx",
	})
	require.NoError(t, err)

	assert.Zero(t, store.queried["vessels"], "ai 来源的占位符不允许碰数据库")
	payload, _ := base64.StdEncoding.DecodeString(result.Payload)
	assert.Contains(t, string(payload), "MT Meridian Star")
}

func TestGenerateStoreOutageDegrades(t *testing.T) {
	// 公司表整个不可达：请求照样出单，公司占位符进 missing
	doc := docword.NewMemDocument("{{vessel_name}} sold to {{buyer_name}}")
	store := newFakeRowStore()
	store.tables["vessels"] = []map[string]any{
		{"id": int64(7), "name": "MT Aurora", "buyer_company_id": int64(3)},
	}
	store.failTables["buyer_companies"] = true
	tplStore := &fakeTemplateStore{tpl: testTemplate()}
	svc := newTestService(t, store, tplStore, &fakeChatModel{err: errors.New("connection reset")}, doc)

	result, err := svc.Generate(context.Background(), &types.GenerateRequest{
		TemplateID:   testTemplateID,
		VesselID:     int64p(7),
		OutputFormat: "docx",
	})
	require.NoError(t, err, "单表故障只降级，不拖垮请求")

	payload, _ := base64.StdEncoding.DecodeString(result.Payload)
	text := string(payload)
	assert.Contains(t, text, "MT Aurora")
	// 没值的 token 原样留在文档里，同时报 missing
	assert.Contains(t, text, "{{buyer_name}}")
	assert.Equal(t, []string{"buyer_name"}, result.MissingPlaceholders)
}

func TestGenerateQuotaErrorSurfaced(t *testing.T) {
	doc := docword.NewMemDocument("{{some_unknown_thing}}")
	store := newFakeRowStore()
	tplStore := &fakeTemplateStore{tpl: testTemplate()}
	svc := newTestService(t, store, tplStore,
		&fakeChatModel{err: errors.New("429 insufficient_quota: billing hard limit reached")}, doc)

	_, err := svc.Generate(context.Background(), &types.GenerateRequest{
		TemplateID:   testTemplateID,
		OutputFormat: "docx",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, generate.ErrQuotaExceeded))
}

func TestGenerateTemplateMissingIsFatal(t *testing.T) {
	svc := newTestService(t, newFakeRowStore(), &fakeTemplateStore{}, &fakeChatModel{resp: "{}"}, docword.NewMemDocument())
	_, err := svc.Generate(context.Background(), &types.GenerateRequest{
		TemplateID:   testTemplateID,
		OutputFormat: "docx",
	})
	assert.Error(t, err, "模板不存在是唯一的硬失败")
}

// 两次生成各自建解析状态，互不串值
func TestGenerateNoSharedStateAcrossRequests(t *testing.T) {
	store := newFakeRowStore()
	store.tables["vessels"] = []map[string]any{
		{"id": int64(7), "name": "MT Aurora"},
		{"id": int64(8), "name": "MT Celeste"},
	}
	tplStore := &fakeTemplateStore{tpl: testTemplate()}

	for _, want := range []struct {
		id   int64
		name string
	}{{7, "MT Aurora"}, {8, "MT Celeste"}} {
		doc := docword.NewMemDocument("Vessel: {{vessel_name}}")
		svc := newTestService(t, store, tplStore, &fakeChatModel{resp: "{}"}, doc)
		result, err := svc.Generate(context.Background(), &types.GenerateRequest{
			TemplateID:   testTemplateID,
			VesselID:     int64p(want.id),
			OutputFormat: "docx",
		})
		require.NoError(t, err)
		payload, _ := base64.StdEncoding.DecodeString(result.Payload)
		assert.Contains(t, string(payload), want.name)
	}
}
