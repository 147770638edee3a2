package placeholder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradedoc/logic/docword"
)

func keys(tokens []Token) []string {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		out = append(out, tok.Key)
	}
	return out
}

func TestExtractAllSyntaxes(t *testing.T) {
	doc := docword.NewMemDocument(
		"A {{vessel_name}} B {port_name} C [[buyer_name]]",
		"D [seller_name] E %deal_number% F <<broker_name>> G ##product_grade##",
	)
	tokens := ExtractTokens(doc)
	assert.ElementsMatch(t, []string{
		"vesselname", "portname", "buyername",
		"sellername", "dealnumber", "brokername", "productgrade",
	}, keys(tokens))
}

func TestExtractDedupeAcrossSyntaxes(t *testing.T) {
	// {{x}} 的内层也会被单花括号模式命中，归一化去重后只能算一个
	doc := docword.NewMemDocument("{{vessel_name}} and {vessel_name} and [[Vessel Name]]")
	tokens := ExtractTokens(doc)
	require.Len(t, tokens, 1)
	assert.Equal(t, "vesselname", tokens[0].Key)
}

func TestExtractSplitAcrossRuns(t *testing.T) {
	// 排版工具会把一个占位符拆进多个 run，匹配按段落拼接文本做
	doc := &docword.MemDocument{}
	doc.Body = append(doc.Body, docword.NewMemParagraph("{{ves", "sel_", "name}}"))
	tokens := ExtractTokens(doc)
	require.Len(t, tokens, 1)
	assert.Equal(t, "vesselname", tokens[0].Key)
}

func TestExtractCoversAllZones(t *testing.T) {
	doc := &docword.MemDocument{
		Body:    []*docword.MemParagraph{docword.NewMemParagraph("{{a}}")},
		Tables:  []*docword.MemParagraph{docword.NewMemParagraph("{{b}}")},
		Headers: []*docword.MemParagraph{docword.NewMemParagraph("{{c}}")},
		Footers: []*docword.MemParagraph{docword.NewMemParagraph("{{d}}")},
	}
	tokens := ExtractTokens(doc)
	assert.ElementsMatch(t, []string{"a", "b", "c", "d"}, keys(tokens))
}

func TestExtractReadOnly(t *testing.T) {
	doc := docword.NewMemDocument("{{vessel_name}}")
	ExtractTokens(doc)
	assert.Equal(t, "{{vessel_name}}", docword.ParagraphText(doc.Paragraphs()[0]))
}
