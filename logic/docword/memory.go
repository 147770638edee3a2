package docword

import (
	"os"
	"strings"
)

// 内存文档实现，测试和本地调试用

type MemRun struct {
	text string
}

func NewMemRun(text string) *MemRun { return &MemRun{text: text} }

func (r *MemRun) Text() string { return r.text }

func (r *MemRun) SetText(s string) { r.text = s }

type MemParagraph struct {
	runs []*MemRun
}

// NewMemParagraph 每个参数一个 run，方便构造跨 run 的场景
func NewMemParagraph(runTexts ...string) *MemParagraph {
	p := &MemParagraph{}
	for _, t := range runTexts {
		p.runs = append(p.runs, NewMemRun(t))
	}
	return p
}

func (p *MemParagraph) Runs() []Run {
	out := make([]Run, 0, len(p.runs))
	for _, r := range p.runs {
		out = append(out, r)
	}
	return out
}

type MemDocument struct {
	Body    []*MemParagraph
	Tables  []*MemParagraph
	Headers []*MemParagraph
	Footers []*MemParagraph
}

// NewMemDocument 每个参数一个正文段落（单 run）
func NewMemDocument(paragraphs ...string) *MemDocument {
	d := &MemDocument{}
	for _, t := range paragraphs {
		d.Body = append(d.Body, NewMemParagraph(t))
	}
	return d
}

func (d *MemDocument) Paragraphs() []Paragraph       { return memToIface(d.Body) }
func (d *MemDocument) TableParagraphs() []Paragraph  { return memToIface(d.Tables) }
func (d *MemDocument) HeaderParagraphs() []Paragraph { return memToIface(d.Headers) }
func (d *MemDocument) FooterParagraphs() []Paragraph { return memToIface(d.Footers) }

// SaveToFile 纯文本落盘，仅测试用
func (d *MemDocument) SaveToFile(path string) error {
	var lines []string
	for _, p := range AllParagraphs(d) {
		lines = append(lines, ParagraphText(p))
	}
	return os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644)
}

func memToIface(ps []*MemParagraph) []Paragraph {
	out := make([]Paragraph, 0, len(ps))
	for _, p := range ps {
		out = append(out, p)
	}
	return out
}
