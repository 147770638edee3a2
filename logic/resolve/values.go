package resolve

import "sort"

// ResolvedValues 归一化 key -> 最终写进文档的字符串。
// 跨多轮累积：只增不删，后面的轮次只会用已定义的值覆盖。
// 每次生成请求各建一份，用完即弃。
type ResolvedValues struct {
	m map[string]string
}

func NewResolvedValues() *ResolvedValues {
	return &ResolvedValues{m: map[string]string{}}
}

func (v *ResolvedValues) Set(key, val string) {
	v.m[key] = val
}

func (v *ResolvedValues) Get(key string) (string, bool) {
	s, ok := v.m[key]
	return s, ok
}

func (v *ResolvedValues) Has(key string) bool {
	_, ok := v.m[key]
	return ok
}

func (v *ResolvedValues) Len() int { return len(v.m) }

// Map 替换写入器要用的快照
func (v *ResolvedValues) Map() map[string]string {
	out := make(map[string]string, len(v.m))
	for k, s := range v.m {
		out[k] = s
	}
	return out
}

func (v *ResolvedValues) Keys() []string {
	keys := make([]string, 0, len(v.m))
	for k := range v.m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
