package placeholder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDelimiterAgnostic(t *testing.T) {
	// 同一个字段不管用哪种定界语法写，归一化后必须是同一个 key
	variants := []string{
		"{{IMO Number}}",
		"{imo_number}",
		"[[ImoNumber]]",
		"[imo-number]",
		"%IMO NUMBER%",
		"<<imo_Number>>",
		"##imo number##",
	}
	for _, v := range variants {
		assert.Equal(t, "imonumber", Normalize(v), "variant: %s", v)
	}
}

func TestNormalizePlain(t *testing.T) {
	assert.Equal(t, "result1", Normalize("Result1"))
	assert.Equal(t, "buyerbankswift", Normalize("Buyer_Bank_SWIFT"))
	assert.Equal(t, "", Normalize("{{ }}"))
}
