package docwrite

import (
	"strings"

	"tradedoc/logic/docword"
	"tradedoc/logic/placeholder"
)

// Writer 把最终值写回文档。原地改 run 文本，尽量保住排版。
// 没有对应值的 token 原样留着（绝不替换成空串），由上层报 missing。
type Writer struct {
	values map[string]string // 归一化 key -> 值
}

func NewWriter(values map[string]string) *Writer {
	return &Writer{values: values}
}

// Apply 处理全部段落（含表格单元格和页眉页脚），返回改动的段落数
func (w *Writer) Apply(doc docword.Document) int {
	paragraphs := docword.AllParagraphs(doc)

	changed := 0
	for _, p := range paragraphs {
		if w.applyParagraph(p) {
			changed++
		}
	}

	// 强制兜底轮：前面跨 run 重写可能在别的段落重新拼出完整 token，
	// 再扫一遍，凡是还能替换的在拼接文本层面强replace
	for _, p := range paragraphs {
		w.forceParagraph(p)
	}
	return changed
}

func (w *Writer) applyParagraph(p docword.Paragraph) bool {
	runs := p.Runs()
	if len(runs) == 0 {
		return false
	}
	changed := false

	// 1. run 内替换：完整 token 落在单个 run 里的，原地换，排版原样保住
	for _, r := range runs {
		if nt, ch := w.replaceText(r.Text()); ch {
			r.SetText(nt)
			changed = true
		}
	}

	// 2. 跨 run 兜底：token 被排版工具拆到多个 run 里时，把段落文本
	// 拼起来替换，结果写进第一个 run，后面的清空。第一个 run 的排版赢，
	// 被拆的 token 少见且通常同排版，丢掉尾部 run 的格式可以接受。
	if full := docword.ParagraphText(p); w.hasReplaceable(full) {
		nt, _ := w.replaceText(full)
		runs[0].SetText(nt)
		for _, r := range runs[1:] {
			r.SetText("")
		}
		changed = true
	}

	// 3. 清理散落的定界字符
	if cleanupRuns(runs) {
		changed = true
	}
	return changed
}

// forceParagraph 最后一轮：段落拼接文本里还有可替换 token 就强替换
func (w *Writer) forceParagraph(p docword.Paragraph) {
	runs := p.Runs()
	if len(runs) == 0 {
		return
	}
	full := docword.ParagraphText(p)
	if !w.hasReplaceable(full) {
		return
	}
	nt, _ := w.replaceText(full)
	runs[0].SetText(nt)
	for _, r := range runs[1:] {
		r.SetText("")
	}
}

// replaceText 对一段文本依次跑所有定界语法。
// 有值的换掉，没值的原文保留。
func (w *Writer) replaceText(text string) (string, bool) {
	changed := false
	for _, syn := range placeholder.Syntaxes {
		text = syn.Re.ReplaceAllStringFunc(text, func(m string) string {
			if v, ok := w.values[placeholder.Normalize(m)]; ok {
				changed = true
				return v
			}
			return m
		})
	}
	return text, changed
}

// hasReplaceable 文本里是否还有值已就绪的完整 token
func (w *Writer) hasReplaceable(text string) bool {
	for _, syn := range placeholder.Syntaxes {
		for _, m := range syn.Re.FindAllString(text, -1) {
			if _, ok := w.values[placeholder.Normalize(m)]; ok {
				return true
			}
		}
	}
	return false
}

// cleanupRuns 收掉部分匹配留下的定界符残渣：
// 整个 run 只剩一个定界字符的直接清掉；没有完整 token 语法的 run
// 剥掉首尾的散落定界字符，不动中间的文本。对已干净的段落再跑一遍
// 不会产生任何新改动。
func cleanupRuns(runs []docword.Run) bool {
	changed := false
	for _, r := range runs {
		t := r.Text()
		if t == "" {
			continue
		}
		trimmed := strings.TrimSpace(t)
		if len(trimmed) == 1 && strings.ContainsAny(trimmed, placeholder.StrayDelims) {
			r.SetText("")
			changed = true
			continue
		}
		if placeholder.HasToken(t) {
			continue
		}
		if stripped := strings.Trim(t, placeholder.StrayDelims); stripped != t {
			r.SetText(stripped)
			changed = true
		}
	}
	return changed
}
