package docword

// 文档标记库的窄接口。占位符引擎只需要两件事：
// 枚举各文本区域（正文/表格/页眉/页脚）的段落和 run，修改 run 的文本。
// 这样核心逻辑不绑死某个 docx 库，测试也可以用内存文档。

type Run interface {
	Text() string
	SetText(s string)
}

type Paragraph interface {
	Runs() []Run
}

type Document interface {
	// 正文段落
	Paragraphs() []Paragraph
	// 表格单元格里的段落
	TableParagraphs() []Paragraph
	// 页眉段落
	HeaderParagraphs() []Paragraph
	// 页脚段落
	FooterParagraphs() []Paragraph
}

// File 可以落盘的文档（服务层用）
type File interface {
	Document
	SaveToFile(path string) error
}

// AllParagraphs 按 正文 -> 表格 -> 页眉 -> 页脚 的顺序展开全部段落
func AllParagraphs(d Document) []Paragraph {
	var out []Paragraph
	out = append(out, d.Paragraphs()...)
	out = append(out, d.TableParagraphs()...)
	out = append(out, d.HeaderParagraphs()...)
	out = append(out, d.FooterParagraphs()...)
	return out
}

// ParagraphText 拼接段落里所有 run 的文本
// 占位符可能被排版工具拆到多个 run 里，匹配前必须先拼回来
func ParagraphText(p Paragraph) string {
	var sb []byte
	for _, r := range p.Runs() {
		sb = append(sb, r.Text()...)
	}
	return string(sb)
}
