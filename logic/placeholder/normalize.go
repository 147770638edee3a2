package placeholder

import "strings"

// Normalize 把 token 归一化成可比较的 key：
// 去掉所有定界符，转小写，去掉空白/连字符/下划线。
// "{{IMO Number}}"、"{imo_number}"、"[[ImoNumber]]" 归一化后完全相同。
// 前缀规则和候选列名也走同一个函数，保证各处比较口径一致。
func Normalize(token string) string {
	token = strings.ToLower(token)
	return strings.Map(func(r rune) rune {
		switch r {
		case '{', '}', '[', ']', '%', '<', '>', '#':
			return -1
		case ' ', '\t', '\n', '\r', '-', '_':
			return -1
		}
		return r
	}, token)
}
