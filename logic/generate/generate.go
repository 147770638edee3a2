package generate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"tradedoc/vars"
)

// ErrQuotaExceeded 生成服务因额度/账单问题拒绝服务。
// 这是要直接报给调用方的错误：兜底通道整个不可用了，不能静默降级。
var ErrQuotaExceeded = errors.New("生成服务额度不足")

// Config 分类规则，不可变，进程启动时装配一次显式传入
type Config struct {
	// 归一化子串 -> 固定值，无视上下文（公证人签名这类）
	FixedOverrides map[string]string
	// 命中即按未来日期处理的关键词（先于通用 date 判断）
	FutureKeywords []string
	// 命中即按近期日期处理的关键词
	CurrentKeywords []string
}

func DefaultConfig() Config {
	return Config{
		FixedOverrides: map[string]string{
			"notarypublic": "Margaret H. Ellison",
			"notaryname":   "Margaret H. Ellison",
			"notarynumber": "NP-2214-087",
			"witnessname":  "Daniel R. Okafor",
		},
		FutureKeywords: []string{
			"amendment", "expiry", "expiration", "validuntil", "deadline", "maturity",
		},
		CurrentKeywords: []string{
			"current", "today", "issue", "signing", "effective",
		},
	}
}

var resultPattern = regexp.MustCompile(`^result\d*$`)

// Generator 兜底值生成器。数据库两轮都没解析出来的占位符到这里分类：
// 固定值 / 日期类 / 数值结果类 本地出值，剩下的打包一次丢给聊天模型。
type Generator struct {
	chatModel model.ToolCallingChatModel // nil 表示没配生成后端
	rng       *rand.Rand
	cfg       Config
	now       func() time.Time
}

func NewGenerator(chatModel model.ToolCallingChatModel, rng *rand.Rand, cfg Config) *Generator {
	return &Generator{chatModel: chatModel, rng: rng, cfg: cfg, now: time.Now}
}

const dateLayout = "January 2, 2006"

// Generate 为 pending 里的占位符生成值。contextInfo 是已解析主体的
// 显示名，用来让生成结果贴着这单交易。
// 返回 归一化 key -> 值；额度错误原样上抛，其他生成失败只降级。
func (g *Generator) Generate(ctx context.Context, pending []string, contextInfo []string) (map[string]string, error) {
	out := map[string]string{}
	var remote []string

	for _, name := range pending {
		if v, ok := g.classify(name); ok {
			out[name] = v
			continue
		}
		remote = append(remote, name)
	}

	if len(remote) == 0 {
		return out, nil
	}
	if g.chatModel == nil {
		log.Printf("[Generate] 未配置生成后端，%d 个占位符保持缺失", len(remote))
		return out, nil
	}

	generated, err := g.callModel(ctx, remote, contextInfo)
	if err != nil {
		if isQuotaError(err) {
			return out, fmt.Errorf("%w: %v", ErrQuotaExceeded, err)
		}
		// 其他失败降级：这批占位符保持缺失，不拖垮请求
		log.Printf("[Generate] 批量生成失败，%d 个占位符保持缺失: %v", len(remote), err)
		return out, nil
	}
	for k, v := range generated {
		if v != "" {
			out[k] = v
		}
	}
	return out, nil
}

// classify 本地分类出值。顺序即优先级：
// 固定覆盖 -> 未来日期关键词 -> 近期/通用日期 -> Result 数值。
// 未来关键词必须先于通用 "date" 判断：像 amendment_issue_date 这种
// 名字两边都沾，必须落在未来日期规则上。
func (g *Generator) classify(name string) (string, bool) {
	for sub, v := range g.cfg.FixedOverrides {
		if strings.Contains(name, sub) {
			return v, true
		}
	}

	for _, kw := range g.cfg.FutureKeywords {
		if strings.Contains(name, kw) {
			// 5~30 天之后
			d := g.now().AddDate(0, 0, 5+g.rng.Intn(26))
			return d.Format(dateLayout), true
		}
	}

	if containsAny(name, g.cfg.CurrentKeywords) || strings.Contains(name, "date") {
		// 0~21 天之前
		d := g.now().AddDate(0, 0, -g.rng.Intn(22))
		return d.Format(dateLayout), true
	}

	if resultPattern.MatchString(name) {
		// 数值结果：纯数字字符串，绝不给文字
		if g.rng.Intn(2) == 0 {
			return strconv.Itoa(1000 + g.rng.Intn(99000)), true
		}
		return strconv.FormatFloat(float64(100+g.rng.Intn(9900))+float64(g.rng.Intn(100))/100, 'f', 2, 64), true
	}

	return "", false
}

// callModel 剩余占位符一次批量调用，返回按占位符名为键的 JSON
func (g *Generator) callModel(ctx context.Context, names []string, contextInfo []string) (map[string]string, error) {
	prompt := strings.ReplaceAll(vars.GENERATE, "{{.CurrentDate}}", g.now().Format("2006-01-02"))
	prompt = strings.ReplaceAll(prompt, "{{.Context}}", strings.Join(contextInfo, "\n"))
	prompt = strings.ReplaceAll(prompt, "{{.Placeholders}}", strings.Join(names, "\n"))

	resp, err := g.chatModel.Generate(ctx, []*schema.Message{
		schema.UserMessage(prompt),
	})
	if err != nil {
		return nil, err
	}

	jsonStr := strings.TrimSpace(resp.Content)
	jsonStr = strings.TrimPrefix(jsonStr, "```json")
	jsonStr = strings.TrimPrefix(jsonStr, "```")
	jsonStr = strings.TrimSuffix(jsonStr, "```")

	var raw map[string]any
	if err := json.Unmarshal([]byte(jsonStr), &raw); err != nil {
		return nil, fmt.Errorf("json unmarshal failed: %v, raw: %s", err, jsonStr)
	}

	out := make(map[string]string, len(raw))
	for k, v := range raw {
		switch t := v.(type) {
		case string:
			out[k] = t
		case float64:
			out[k] = strconv.FormatFloat(t, 'f', -1, 64)
		default:
			out[k] = fmt.Sprintf("%v", t)
		}
	}
	return out, nil
}

// isQuotaError 额度/账单类拒绝要和普通失败区分开
func isQuotaError(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, kw := range []string{"quota", "billing", "insufficient_quota", "payment", "429"} {
		if strings.Contains(msg, kw) {
			return true
		}
	}
	return false
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
