// Package samplegen writes deterministic example workbooks for the built-in pages.
package samplegen

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// Workbook file names referenced by the built-in page definition
const (
	CountryWorkbookName = "COUNTRY_TRADING_STRATEGY_20.xlsx"
	CompanyWorkbookName = "TOP_30_COMPANIES.xlsx"
)

// CountryHeader is the header row of the country screen sheets
var CountryHeader = []string{"ETF", "COUNTRY", "CATEGORY", "CURRENT_RETURNS", "MEAN", "STD_DEV", "2_SIGMA", "CURRENT_PRICE", "200_DMA"}

// CompanyHeader is the header row of the company score sheets
var CompanyHeader = []string{"RANK", "TICKER", "COMPANY", "SECTOR", "SCORE", "DIV_YIELD", "RETURN_1Y", "PRICE"}

// CompanySheets are the score sheets of the company workbook
var CompanySheets = []string{"VALUE", "QUALITY", "MOMENTUM", "SAFETY"}

// Sheet is one worksheet; nil cells are left empty
type Sheet struct {
	Name string
	Rows [][]interface{}
}

// Workbook is a named set of sheets
type Workbook struct {
	Name   string
	Sheets []Sheet
}

type Config struct {
	Seed int64
	// CompanyRows is the number of ranked rows per company sheet
	CompanyRows int
	// BlankRate is the share of percent cells left empty
	BlankRate float64
}

func DefaultConfig() Config {
	return Config{
		Seed:        42,
		CompanyRows: 40,
		BlankRate:   0.05,
	}
}

type country struct {
	etf, name, category string
}

var countries = []country{
	{"SPY", "US", "Developed"},
	{"EWJ", "Japan", "Developed"},
	{"EWG", "Germany", "Developed"},
	{"EWU", "United Kingdom", "Developed"},
	{"EWC", "Canada", "Developed"},
	{"EWA", "Australia", "Developed"},
	{"EWL", "Switzerland", "Developed"},
	{"EWQ", "France", "Developed"},
	{"EWZ", "Brazil", "Emerging"},
	{"INDA", "India", "Emerging"},
	{"MCHI", "China", "Emerging"},
	{"EWW", "Mexico", "Emerging"},
	{"EWY", "South Korea", "Emerging"},
	{"EWT", "Taiwan", "Emerging"},
	{"EZA", "South Africa", "Emerging"},
	{"TUR", "Turkey", "Emerging"},
}

var sectors = []string{"Technology", "Financials", "Healthcare", "Industrials", "Energy", "Consumer", "Utilities", "Materials"}

var companyWords = []string{"North", "Atlas", "Summit", "Harbor", "Pioneer", "Cedar", "Beacon", "Vertex", "Crest", "Meridian", "Granite", "Silver"}
var companySuffixes = []string{"Holdings", "Systems", "Group", "Industries", "Partners", "Labs"}

// Generate builds every sample workbook
func Generate(cfg Config) ([]Workbook, error) {
	if cfg.CompanyRows <= 0 {
		return nil, fmt.Errorf("company rows must be > 0")
	}
	if cfg.BlankRate < 0 || cfg.BlankRate >= 1 {
		return nil, fmt.Errorf("blank rate must be in [0, 1)")
	}
	rng := rand.New(rand.NewSource(cfg.Seed))
	return []Workbook{
		countryWorkbook(rng, cfg),
		companyWorkbook(rng, cfg),
	}, nil
}

// countryWorkbook splits the countries by whether the current monthly return is
// above twice the standard deviation. Percent cells alternate between native
// fractions and "N.N%" text, and prices are stored as text on odd rows.
func countryWorkbook(rng *rand.Rand, cfg Config) Workbook {
	above := Sheet{Name: "FILTER1", Rows: [][]interface{}{headerRow(CountryHeader)}}
	below := Sheet{Name: "FILTER2", Rows: [][]interface{}{headerRow(CountryHeader)}}

	for i, c := range countries {
		mean := round(rng.NormFloat64()*0.01+0.008, 3)
		std := round(0.02+rng.Float64()*0.04, 3)
		sigma2 := round(2*std, 3)
		current := round(mean+rng.NormFloat64()*2.5*std, 3)
		price := round(20+rng.Float64()*480, 2)
		dma := round(price*(0.9+rng.Float64()*0.2), 2)

		asText := i%2 == 1
		row := []interface{}{
			c.etf, c.name, c.category,
			percentCell(rng, cfg, current, asText),
			percentCell(rng, cfg, mean, asText),
			percentCell(rng, cfg, std, asText),
			percentCell(rng, cfg, sigma2, asText),
			priceCell(price, asText),
			priceCell(dma, asText),
		}
		if current > sigma2 || current < -sigma2 {
			above.Rows = append(above.Rows, row)
		} else {
			below.Rows = append(below.Rows, row)
		}
	}

	return Workbook{Name: CountryWorkbookName, Sheets: []Sheet{above, below}}
}

func companyWorkbook(rng *rand.Rand, cfg Config) Workbook {
	wb := Workbook{Name: CompanyWorkbookName}
	for _, name := range CompanySheets {
		sheet := Sheet{Name: name, Rows: [][]interface{}{headerRow(CompanyHeader)}}
		score := 0.99
		for r := 0; r < cfg.CompanyRows; r++ {
			score = round(score-rng.Float64()*0.015, 3)
			asText := rng.Intn(3) == 0
			price := round(5+rng.Float64()*2500, 2)

			var priceValue interface{} = price
			if asText {
				// thousands separators as exported by some terminals
				priceValue = formatThousands(price)
			}
			sheet.Rows = append(sheet.Rows, []interface{}{
				r + 1,
				ticker(rng),
				companyWords[rng.Intn(len(companyWords))] + " " + companySuffixes[rng.Intn(len(companySuffixes))],
				sectors[rng.Intn(len(sectors))],
				percentCell(rng, cfg, score, asText),
				percentCell(rng, cfg, round(rng.Float64()*0.06, 4), asText),
				percentCell(rng, cfg, round(rng.NormFloat64()*0.2+0.08, 3), asText),
				priceValue,
			})
		}
		wb.Sheets = append(wb.Sheets, sheet)
	}
	return wb
}

func headerRow(names []string) []interface{} {
	row := make([]interface{}, len(names))
	for i, n := range names {
		row[i] = n
	}
	return row
}

func percentCell(rng *rand.Rand, cfg Config, fraction float64, asText bool) interface{} {
	if rng.Float64() < cfg.BlankRate {
		return nil
	}
	if asText {
		return strconv.FormatFloat(fraction*100, 'f', 1, 64) + "%"
	}
	return fraction
}

func priceCell(price float64, asText bool) interface{} {
	if asText {
		return strconv.FormatFloat(price, 'f', 2, 64)
	}
	return price
}

func ticker(rng *rand.Rand) string {
	n := 3 + rng.Intn(2)
	b := make([]byte, n)
	for i := range b {
		b[i] = byte('A' + rng.Intn(26))
	}
	return string(b)
}

func formatThousands(x float64) string {
	s := strconv.FormatFloat(x, 'f', 2, 64)
	whole, frac := s[:len(s)-3], s[len(s)-3:]
	var out []byte
	for i := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, whole[i])
	}
	return string(out) + frac
}

func round(x float64, places int) float64 {
	v, _ := strconv.ParseFloat(strconv.FormatFloat(x, 'f', places, 64), 64)
	return v
}

// WriteXLSX saves wb at path, one worksheet per sheet in order
func WriteXLSX(path string, wb Workbook) error {
	if len(wb.Sheets) == 0 {
		return fmt.Errorf("workbook %s has no sheets", wb.Name)
	}
	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range wb.Sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet.Name); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			return err
		}

		for r, row := range sheet.Rows {
			for c, v := range row {
				if v == nil {
					continue
				}
				cell, err := excelize.CoordinatesToCellName(c+1, r+1)
				if err != nil {
					return err
				}
				if err := f.SetCellValue(sheet.Name, cell, v); err != nil {
					return err
				}
			}
		}
	}

	return f.SaveAs(path)
}

// WriteAll generates every sample workbook into dir and returns the written paths
func WriteAll(dir string, cfg Config) ([]string, error) {
	workbooks, err := Generate(cfg)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(workbooks))
	for _, wb := range workbooks {
		path := filepath.Join(dir, wb.Name)
		if err := WriteXLSX(path, wb); err != nil {
			return nil, fmt.Errorf("write %s: %w", wb.Name, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
