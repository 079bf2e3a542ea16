// Package format turns normalized tables into display-ready text cells.
package format

import (
	"strings"

	"github.com/shopspring/decimal"

	"rankboard/domain/page"
	"rankboard/domain/table"
)

// DefaultMissing is shown for missing values unless a section overrides it
const DefaultMissing = "-"

var hundred = decimal.NewFromInt(100)

// Header is a display column
type Header struct {
	Name    string `json:"name"`
	Bold    bool   `json:"bold,omitempty"`
	Numeric bool   `json:"numeric,omitempty"`
}

// Cell is one rendered value
type Cell struct {
	Text    string `json:"text"`
	Missing bool   `json:"missing,omitempty"`
	Bold    bool   `json:"bold,omitempty"`
	Numeric bool   `json:"numeric,omitempty"`
}

// Table is the view model of a rendered section
type Table struct {
	Headers []Header `json:"headers"`
	Rows    [][]Cell `json:"rows"`
}

// Empty reports whether the table has no data rows
func (t *Table) Empty() bool {
	return len(t.Rows) == 0
}

// Render formats every cell of t with the section's display directives.
// Missing values become the placeholder.
func Render(t *table.Table, sec page.Section, missing string) *Table {
	names := t.Names()
	out := &Table{
		Headers: make([]Header, len(names)),
		Rows:    make([][]Cell, t.NumRows()),
	}

	formats := make([]page.Format, len(names))
	for j, name := range names {
		formats[j] = sec.FormatFor(name)
		out.Headers[j] = Header{
			Name:    name,
			Bold:    sec.IsBold(name),
			Numeric: formats[j].Kind != page.FormatText,
		}
	}

	for i := range out.Rows {
		row := make([]Cell, len(names))
		for j, v := range t.Row(i) {
			cell := Value(v, formats[j], missing)
			cell.Bold = out.Headers[j].Bold
			row[j] = cell
		}
		out.Rows[i] = row
	}
	return out
}

// Value renders a single value
func Value(v table.Value, f page.Format, missing string) Cell {
	if v.IsMissing() {
		return Cell{Text: missing, Missing: true}
	}

	switch f.Kind {
	case page.FormatPercent:
		if n, ok := v.Float(); ok {
			return Cell{Text: Percent(n, f.Places()), Numeric: true}
		}
	case page.FormatFixed:
		if d, ok := asDecimal(v); ok {
			return Cell{Text: d.StringFixed(int32(f.Places())), Numeric: true}
		}
	}
	return Cell{Text: v.String(), Numeric: v.IsNumber()}
}

// Percent renders a fraction as a percentage: 0.099 becomes "9.9%" with one place.
// Halves round away from zero.
func Percent(fraction float64, places int) string {
	return decimal.NewFromFloat(fraction).Mul(hundred).StringFixed(int32(places)) + "%"
}

// Fixed renders a number with a fixed count of decimals; 450.25 becomes "450.3" with one place
func Fixed(n float64, places int) string {
	return decimal.NewFromFloat(n).StringFixed(int32(places))
}

// asDecimal reads numbers natively and numeric-looking text with thousands commas stripped
func asDecimal(v table.Value) (decimal.Decimal, bool) {
	if n, ok := v.Float(); ok {
		return decimal.NewFromFloat(n), true
	}
	s := strings.ReplaceAll(strings.TrimSpace(v.Text), ",", "")
	if s == "" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}
