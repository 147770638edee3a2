package placeholder

import (
	"strings"

	"tradedoc/logic/docword"
)

// Token 从文档里提出来的一个占位符
type Token struct {
	Raw   string // 带定界符的原文，如 "{{Vessel Name}}"
	Inner string // 去定界符后的原名，如 "Vessel Name"
	Key   string // 归一化 key，如 "vesselname"
}

// ExtractTokens 扫描文档全部文本区域，返回去重后的占位符集合。
// 只读，不改文档。去重按归一化 key：{{x}} 的内层同时命中单花括号
// 模式也只算一个语义 token。
func ExtractTokens(doc docword.Document) []Token {
	var texts []string
	for _, p := range docword.AllParagraphs(doc) {
		texts = append(texts, docword.ParagraphText(p))
	}
	return ExtractFromText(texts)
}

// ExtractFromText 对已拼接好的段落文本做模式匹配
func ExtractFromText(texts []string) []Token {
	seen := map[string]bool{}
	var out []Token
	for _, text := range texts {
		for _, syn := range Syntaxes {
			for _, m := range syn.Re.FindAllStringSubmatch(text, -1) {
				inner := strings.TrimSpace(m[1])
				key := Normalize(inner)
				if key == "" || seen[key] {
					continue
				}
				seen[key] = true
				out = append(out, Token{Raw: m[0], Inner: inner, Key: key})
			}
		}
	}
	return out
}
