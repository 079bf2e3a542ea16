package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rankboard/domain/page"
	"rankboard/domain/table"
	apperrors "rankboard/internal/errors"
)

var countryColumns = []string{"ETF", "COUNTRY", "CATEGORY", "CURRENT_RETURNS", "MEAN", "STD_DEV", "2_SIGMA", "CURRENT_PRICE", "200_DMA"}

// spyTable is the table a reader produces for a single SPY row whose numbers were typed as text
func spyTable(t *testing.T, names []string) *table.Table {
	t.Helper()
	raw := []table.Value{
		table.Text("SPY"), table.Text("US"), table.Text("Developed"),
		table.Text("9.9%"), table.Text("5.0%"), table.Text("2.0%"), table.Text("4.0%"),
		table.Text("450.25"), table.Text("440.10"),
	}
	cols := make([]table.Column, len(names))
	for i, name := range names {
		cols[i] = table.Column{Name: name, Values: []table.Value{raw[i]}}
	}
	return table.MustNew(cols)
}

func countrySchema() Schema {
	return Schema{
		Expected: countryColumns,
		Percent:  []string{"CURRENT_RETURNS", "MEAN", "STD_DEV", "2_SIGMA"},
		Display:  []string{"ETF", "COUNTRY", "CATEGORY", "CURRENT_RETURNS", "MEAN", "STD_DEV", "2_SIGMA", "CURRENT_PRICE", "200_DMA"},
	}
}

func TestProjectCountryRow(t *testing.T) {
	src := spyTable(t, []string{"etf", "country", "category", "ret", "mean", "sd", "2sd", "px", "dma"})

	out, report, err := Project(src, countrySchema(), Options{})
	require.NoError(t, err)

	assert.Equal(t, countryColumns, out.Names())
	assert.True(t, report.Renamed)
	assert.False(t, report.SchemaMismatch)
	assert.Equal(t, []string{"CURRENT_RETURNS", "MEAN", "STD_DEV", "2_SIGMA"}, report.Coerced)

	assert.Equal(t, table.Number(0.099), out.Value(0, "CURRENT_RETURNS"))
	assert.Equal(t, table.Number(0.05), out.Value(0, "MEAN"))
	assert.Equal(t, table.Number(0.02), out.Value(0, "STD_DEV"))
	assert.Equal(t, table.Number(0.04), out.Value(0, "2_SIGMA"))
	assert.Equal(t, table.Text("450.25"), out.Value(0, "CURRENT_PRICE"))
	assert.Equal(t, table.Text("440.10"), out.Value(0, "200_DMA"))

	// the loaded table is untouched
	assert.Equal(t, "ret", src.Names()[3])
	assert.Equal(t, table.Text("9.9%"), src.Value(0, "ret"))
}

func TestProjectDisplayReordersAndReduces(t *testing.T) {
	src := spyTable(t, countryColumns)
	schema := Schema{Percent: []string{"MEAN"}, Display: []string{"MEAN", "ETF"}}

	out, _, err := Project(src, schema, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"MEAN", "ETF"}, out.Names())
	assert.Equal(t, table.Number(0.05), out.Value(0, "MEAN"))
}

func TestProjectEmptyDisplayKeepsAllColumns(t *testing.T) {
	src := spyTable(t, countryColumns)
	out, _, err := Project(src, Schema{}, Options{})
	require.NoError(t, err)
	assert.Equal(t, countryColumns, out.Names())
	assert.True(t, out.Equal(src))
}

func TestProjectMissingDisplayColumn(t *testing.T) {
	tests := []struct {
		name    string
		display []string
	}{
		{"single absent name", []string{"ETF", "ALPHA"}},
		{"several absent names", []string{"BETA", "ETF", "GAMMA"}},
		{"case differs", []string{"etf"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := spyTable(t, countryColumns)
			_, _, err := Project(src, Schema{Display: tt.display}, Options{})
			require.Error(t, err)
			assert.True(t, apperrors.IsMissingColumn(err))
		})
	}
}

func TestProjectAbsentPercentColumnIsSkipped(t *testing.T) {
	src := spyTable(t, countryColumns)
	schema := Schema{Percent: []string{"MEAN", "SHARPE"}}

	out, report, err := Project(src, schema, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"SHARPE"}, report.SkippedPercent)
	assert.Equal(t, []string{"MEAN"}, report.Coerced)
	assert.False(t, out.Has("SHARPE"))
	assert.Equal(t, table.Number(0.05), out.Value(0, "MEAN"))
}

func TestProjectSchemaModes(t *testing.T) {
	short := countryColumns[:7]

	t.Run("strict rejects length mismatch", func(t *testing.T) {
		src := spyTable(t, countryColumns)
		_, report, err := Project(src, Schema{Expected: short}, Options{SchemaMode: page.SchemaStrict})
		require.Error(t, err)
		assert.True(t, apperrors.IsSchemaMismatch(err))
		assert.True(t, report.SchemaMismatch)
	})

	t.Run("default mode is strict", func(t *testing.T) {
		src := spyTable(t, countryColumns)
		_, _, err := Project(src, Schema{Expected: short}, Options{})
		assert.True(t, apperrors.IsSchemaMismatch(err))
	})

	t.Run("lenient keeps source names", func(t *testing.T) {
		names := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i"}
		src := spyTable(t, names)
		out, report, err := Project(src, Schema{Expected: short}, Options{SchemaMode: page.SchemaLenient})
		require.NoError(t, err)
		assert.True(t, report.SchemaMismatch)
		assert.False(t, report.Renamed)
		assert.Equal(t, names, out.Names())
	})

	t.Run("pad renames what fits and adds absent names", func(t *testing.T) {
		src := spyTable(t, []string{"a", "b", "c"})
		expected := []string{"ETF", "COUNTRY", "CATEGORY", "MEAN"}
		out, report, err := Project(src, Schema{Expected: expected, Percent: []string{"MEAN"}}, Options{SchemaMode: page.SchemaPad})
		require.NoError(t, err)
		assert.True(t, report.SchemaMismatch)
		assert.Equal(t, []string{"MEAN"}, report.Padded)
		assert.Equal(t, expected, out.Names())
		assert.True(t, out.Value(0, "MEAN").IsMissing())
	})

	t.Run("pad keeps surplus source columns", func(t *testing.T) {
		src := spyTable(t, []string{"a", "b", "c", "d"})
		out, report, err := Project(src, Schema{Expected: []string{"ETF", "COUNTRY"}}, Options{SchemaMode: page.SchemaPad})
		require.NoError(t, err)
		assert.Empty(t, report.Padded)
		assert.Equal(t, []string{"ETF", "COUNTRY", "c", "d"}, out.Names())
	})

	t.Run("pad collision is a mismatch", func(t *testing.T) {
		src := spyTable(t, []string{"a", "ETF", "c"})
		_, _, err := Project(src, Schema{Expected: []string{"ETF"}}, Options{SchemaMode: page.SchemaPad})
		assert.True(t, apperrors.IsSchemaMismatch(err))
	})
}

func TestProjectColumnCoercionMode(t *testing.T) {
	src := table.MustNew([]table.Column{
		{Name: "MEAN", Values: []table.Value{table.Number(0.05), table.Text("9.9%")}},
	})
	schema := Schema{Percent: []string{"MEAN"}}

	perCell, _, err := Project(src, schema, Options{CoercionMode: page.CoercePerCell})
	require.NoError(t, err)
	assert.Equal(t, table.Number(0.05), perCell.Value(0, "MEAN"))

	columnWide, _, err := Project(src, schema, Options{CoercionMode: page.CoerceColumn})
	require.NoError(t, err)
	assert.Equal(t, table.Number(0.0005), columnWide.Value(0, "MEAN"))
	assert.Equal(t, table.Number(0.099), columnWide.Value(1, "MEAN"))
}

func TestSchemaFromSection(t *testing.T) {
	sec := page.Section{
		Expected: []string{"A", "B"},
		Percent:  []string{"B"},
		Display:  []string{"B"},
	}
	assert.Equal(t, Schema{Expected: []string{"A", "B"}, Percent: []string{"B"}, Display: []string{"B"}}, SchemaFromSection(sec))
}
