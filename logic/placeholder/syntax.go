package placeholder

import "regexp"

// Syntax 一种占位符定界语法
type Syntax struct {
	Name string
	Re   *regexp.Regexp
}

// Syntaxes 支持的全部定界语法，各自独立求值，结果取并集。
// 双字符形式排在单字符形式前面：先把 {{x}} 整体替换掉，
// 单花括号的模式就不会再去撕它的内层。
var Syntaxes = []Syntax{
	{"double_brace", regexp.MustCompile(`\{\{([^{}]+)\}\}`)},
	{"single_brace", regexp.MustCompile(`\{([^{}]+)\}`)},
	{"double_bracket", regexp.MustCompile(`\[\[([^\[\]]+)\]\]`)},
	{"single_bracket", regexp.MustCompile(`\[([^\[\]]+)\]`)},
	// 百分号要求内部至少一个字母，避免把 "2% ... 5%" 之间的正文当成占位符
	{"percent", regexp.MustCompile(`%([^%]*[A-Za-z][^%]*)%`)},
	{"angle", regexp.MustCompile(`<<([^<>]+)>>`)},
	{"hash", regexp.MustCompile(`##([^#]+)##`)},
}

// StrayDelims 清理阶段要剥掉的散落定界字符
const StrayDelims = "{}[]%<>#"

// HasToken 文本里是否还存在任一语法的完整占位符
func HasToken(text string) bool {
	for _, s := range Syntaxes {
		if s.Re.MatchString(text) {
			return true
		}
	}
	return false
}
