package docword

import (
	"fmt"

	"github.com/unidoc/unioffice/document"
)

// unioffice 适配层：把 docx 的段落/run 映射到窄接口上

type wordRun struct {
	r document.Run
}

func (w wordRun) Text() string { return w.r.Text() }

func (w wordRun) SetText(s string) {
	w.r.ClearContent()
	if s != "" {
		w.r.AddText(s)
	}
}

type wordParagraph struct {
	p document.Paragraph
}

func (w wordParagraph) Runs() []Run {
	rs := w.p.Runs()
	out := make([]Run, 0, len(rs))
	for _, r := range rs {
		out = append(out, wordRun{r: r})
	}
	return out
}

// WordDocument docx 文档
type WordDocument struct {
	doc *document.Document
}

// OpenWord 打开模板文件
func OpenWord(path string) (*WordDocument, error) {
	doc, err := document.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open docx failed: %w", err)
	}
	return &WordDocument{doc: doc}, nil
}

func (w *WordDocument) Paragraphs() []Paragraph {
	return wrapParagraphs(w.doc.Paragraphs())
}

func (w *WordDocument) TableParagraphs() []Paragraph {
	var out []Paragraph
	for _, tbl := range w.doc.Tables() {
		for _, row := range tbl.Rows() {
			for _, cell := range row.Cells() {
				out = append(out, wrapParagraphs(cell.Paragraphs())...)
			}
		}
	}
	return out
}

func (w *WordDocument) HeaderParagraphs() []Paragraph {
	var out []Paragraph
	for _, hdr := range w.doc.Headers() {
		out = append(out, wrapParagraphs(hdr.Paragraphs())...)
	}
	return out
}

func (w *WordDocument) FooterParagraphs() []Paragraph {
	var out []Paragraph
	for _, ftr := range w.doc.Footers() {
		out = append(out, wrapParagraphs(ftr.Paragraphs())...)
	}
	return out
}

func (w *WordDocument) SaveToFile(path string) error {
	return w.doc.SaveToFile(path)
}

func wrapParagraphs(ps []document.Paragraph) []Paragraph {
	out := make([]Paragraph, 0, len(ps))
	for _, p := range ps {
		out = append(out, wordParagraph{p: p})
	}
	return out
}
