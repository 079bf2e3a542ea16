package samplegen

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestGenerateIsDeterministic(t *testing.T) {
	a, err := Generate(DefaultConfig())
	require.NoError(t, err)
	b, err := Generate(DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, a, b)

	other := DefaultConfig()
	other.Seed = 7
	c, err := Generate(other)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestGenerateShapes(t *testing.T) {
	workbooks, err := Generate(DefaultConfig())
	require.NoError(t, err)
	require.Len(t, workbooks, 2)

	countryBook := workbooks[0]
	assert.Equal(t, CountryWorkbookName, countryBook.Name)
	require.Len(t, countryBook.Sheets, 2)
	dataRows := 0
	for _, sheet := range countryBook.Sheets {
		assert.Equal(t, headerRow(CountryHeader), sheet.Rows[0])
		dataRows += len(sheet.Rows) - 1
		for _, row := range sheet.Rows[1:] {
			assert.Len(t, row, len(CountryHeader))
		}
	}
	assert.Equal(t, len(countries), dataRows)

	companyBook := workbooks[1]
	assert.Equal(t, CompanyWorkbookName, companyBook.Name)
	require.Len(t, companyBook.Sheets, len(CompanySheets))
	for i, sheet := range companyBook.Sheets {
		assert.Equal(t, CompanySheets[i], sheet.Name)
		assert.Len(t, sheet.Rows, DefaultConfig().CompanyRows+1)
	}
}

func TestGenerateMixesRepresentations(t *testing.T) {
	workbooks, err := Generate(Config{Seed: 1, CompanyRows: 10})
	require.NoError(t, err)

	var numbers, texts int
	for _, sheet := range workbooks[0].Sheets {
		for _, row := range sheet.Rows[1:] {
			switch row[3].(type) {
			case float64:
				numbers++
			case string:
				texts++
			}
		}
	}
	assert.Positive(t, numbers)
	assert.Positive(t, texts)
}

func TestGenerateRejectsBadConfig(t *testing.T) {
	_, err := Generate(Config{CompanyRows: 0})
	assert.Error(t, err)
	_, err = Generate(Config{CompanyRows: 5, BlankRate: 1})
	assert.Error(t, err)
}

func TestWriteAll(t *testing.T) {
	dir := t.TempDir()
	paths, err := WriteAll(dir, DefaultConfig())
	require.NoError(t, err)
	require.Len(t, paths, 2)

	for _, p := range paths {
		_, err := os.Stat(p)
		require.NoError(t, err)
	}

	f, err := excelize.OpenFile(paths[1])
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, CompanySheets, f.GetSheetList())

	header, err := f.GetCellValue("VALUE", "A1")
	require.NoError(t, err)
	assert.Equal(t, "RANK", header)
	rank, err := f.GetCellValue("VALUE", "A2")
	require.NoError(t, err)
	assert.Equal(t, "1", rank)
}

func TestFormatThousands(t *testing.T) {
	assert.Equal(t, "1,234.50", formatThousands(1234.5))
	assert.Equal(t, "999.00", formatThousands(999))
	assert.Equal(t, "1,000,000.25", formatThousands(1000000.25))
}

func TestWriteXLSXNeedsSheets(t *testing.T) {
	assert.Error(t, WriteXLSX(t.TempDir()+"/x.xlsx", Workbook{Name: "x"}))
}
