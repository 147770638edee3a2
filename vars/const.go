package vars

import (
	"os"
)

// GetEnv 获取环境变量，如果不存在则返回默认值
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

const (
	// 模型名称
	QWEN7B = "qwen2.5:7b"
	QWEN3B = "qwen2.5:3b"
	GPT4O  = "gpt-4o-mini"

	// 聊天后端
	BackendOpenAI = "openai"
	BackendOllama = "ollama"

	// 输出格式
	FormatPDF  = "pdf"
	FormatDocx = "docx"
)

// 环境变量配置（支持 Docker 部署）
var (
	// PG
	PGUSER = GetEnv("PGUSER", "root")
	PGPWD  = GetEnv("PGPWD", "root")
	PGDB   = GetEnv("PGDB", "tradedocDB")
	PGHOST = GetEnv("PGHOST", "localhost")
	PGPORT = GetEnv("PGPORT", "5432")

	// 聊天模型后端: openai / ollama
	CHAT_BACKEND = GetEnv("CHAT_BACKEND", BackendOpenAI)
	OPENAI_KEY   = GetEnv("OPENAI_API_KEY", "")
	OPENAI_BASE  = GetEnv("OPENAI_BASE_URL", "")
	OPENAI_MODEL = GetEnv("OPENAI_MODEL", GPT4O)
	OLLAMA_PATH  = GetEnv("OLLAMA_PATH", "http://localhost:11434")
	OLLAMA_MODEL = GetEnv("OLLAMA_MODEL", QWEN3B)

	// 模板文件与产物目录
	TEMPLATE_DIR = GetEnv("TEMPLATE_DIR", "./templates")
	OUTPUT_DIR   = GetEnv("OUTPUT_DIR", "./output")

	// 转换工具链
	SOFFICE_BIN  = GetEnv("SOFFICE_BIN", "soffice")
	UNOCONV_BIN  = GetEnv("UNOCONV_BIN", "unoconv")
	PDFTOPPM_BIN = GetEnv("PDFTOPPM_BIN", "pdftoppm")

	// 提示词
	GENERATE = `
你是一个国际贸易单证填写助手。模板里有一些占位符在数据库中找不到对应的值，
需要你根据上下文编造出合理的值。当前日期: {{.CurrentDate}}。

上下文信息（已解析的交易主体）:
{{.Context}}

需要生成的占位符列表:
{{.Placeholders}}

请严格遵守以下规则:

1. **语言**: 所有生成的值必须是英文（这些是英文贸易单证）。
2. **真实感**: 公司名、人名、地名必须像真实存在的一样。
   - 禁止使用 "ABC Company"、"XYZ Corp"、"John Doe" 这类模板味十足的名字。
   - 人名用常见的欧美/中东/亚洲姓名组合，公司名带 Ltd / S.A. / GmbH / LLC 等后缀。
3. **日期**: 如果占位符名称暗示日期，生成一个接近当前日期的合理日期，
   格式如 "January 2, 2026"。**绝对不要**直接回显当前日期本身。
4. **数值**: 数量、价格、百分比等给出符合石油贸易常识的数值（如 50000 MT、2%）。
5. **简洁**: 每个值一行以内，不要解释，不要加引号以外的修饰。

Output JSON only，键为占位符原名:
{"placeholder_name": "generated value", ...}
`
)
