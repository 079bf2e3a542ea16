package page

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"rankboard/domain/table"
)

func TestFormatUnmarshalShorthandAndMapping(t *testing.T) {
	var formats map[string]Format
	doc := `
CURRENT_PRICE: fixed
MEAN: {kind: Percent, decimals: 2}
`
	require.NoError(t, yaml.Unmarshal([]byte(doc), &formats))

	assert.Equal(t, FormatFixed, formats["CURRENT_PRICE"].Kind)
	assert.Equal(t, 1, formats["CURRENT_PRICE"].Places())
	assert.Equal(t, FormatPercent, formats["MEAN"].Kind)
	assert.Equal(t, 2, formats["MEAN"].Places())
	assert.True(t, formats["MEAN"].Valid())
	assert.False(t, Format{Kind: "currency"}.Valid())
}

func TestFormatFor(t *testing.T) {
	sec := Section{
		Percent: []string{"MEAN", "STD_DEV"},
		Formats: map[string]Format{"CURRENT_PRICE": {Kind: FormatFixed}, "STD_DEV": {Kind: FormatText}},
		Bold:    []string{"ETF"},
	}

	assert.Equal(t, FormatPercent, sec.FormatFor("MEAN").Kind)
	assert.Equal(t, FormatText, sec.FormatFor("STD_DEV").Kind, "explicit entry wins")
	assert.Equal(t, FormatFixed, sec.FormatFor("CURRENT_PRICE").Kind)
	assert.Equal(t, FormatText, sec.FormatFor("COUNTRY").Kind)
	assert.True(t, sec.IsBold("ETF"))
	assert.False(t, sec.IsBold("COUNTRY"))
}

func TestParseModes(t *testing.T) {
	m, err := ParseSchemaMode(" PAD ")
	require.NoError(t, err)
	assert.Equal(t, SchemaPad, m)
	_, err = ParseSchemaMode("loose")
	assert.Error(t, err)

	c, err := ParseCoercionMode("column")
	require.NoError(t, err)
	assert.Equal(t, CoerceColumn, c)
	_, err = ParseCoercionMode("row")
	assert.Error(t, err)
}

func TestEffectiveOverrides(t *testing.T) {
	dash := "n/a"
	sec := Section{SchemaMode: SchemaLenient, Missing: &dash}
	assert.Equal(t, SchemaLenient, sec.EffectiveSchemaMode(SchemaStrict))
	assert.Equal(t, CoercePerCell, sec.EffectiveCoercionMode(CoercePerCell))
	assert.Equal(t, "n/a", sec.MissingPlaceholder("-"))
	assert.Equal(t, "-", Section{}.MissingPlaceholder("-"))
}

func TestLoadRequest(t *testing.T) {
	p := Page{Source: "COUNTRY.xlsx"}
	sec := Section{Sheet: "FILTER1", Columns: "A:I", HeaderRow: 0, MaxRows: 25}

	req := p.LoadRequest(sec, "data")
	assert.Equal(t, table.LoadRequest{
		Source:  filepath.Join("data", "COUNTRY.xlsx"),
		Sheet:   "FILTER1",
		Columns: "A:I",
		MaxRows: 25,
	}, req)

	sec.Source = "/abs/OTHER.xlsx"
	assert.Equal(t, "/abs/OTHER.xlsx", p.LoadRequest(sec, "data").Source)
}

func TestSitePageLookup(t *testing.T) {
	site := Site{Pages: []Page{{Slug: "a"}, {Slug: "b", Title: "B"}}}
	p, ok := site.Page("b")
	require.True(t, ok)
	assert.Equal(t, "B", p.Title)
	_, ok = site.Page("c")
	assert.False(t, ok)
}
