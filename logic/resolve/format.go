package resolve

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// 数据库里的日期在单证里用人类可读格式，不用 ISO
const dateLayout = "January 2, 2006"

// formatValue 把数据库标量/列表值转成要写进文档的字符串。
// nil 在这里不会出现（上层把 nil 当作 resolved-but-empty 处理）。
func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case time.Time:
		return t.Format(dateLayout)
	case *time.Time:
		if t == nil {
			return ""
		}
		return t.Format(dateLayout)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int64:
		return strconv.FormatInt(t, 10)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	case []any:
		// 列表值拼成一个字符串
		parts := make([]string, 0, len(t))
		for _, e := range t {
			parts = append(parts, formatValue(e))
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprintf("%v", t)
	}
}
