package normalize

import (
	"strings"

	"github.com/shopspring/decimal"

	"rankboard/domain/page"
	"rankboard/domain/table"
)

// CoercePercent converts a percent-like column into fractions. It never fails:
// text that does not parse becomes the missing marker.
//
// Native numbers are taken to be fractions already (0.099 is 9.9%) and pass
// through. Text has surrounding whitespace, "%" signs and thousands commas
// removed and is divided by 100, so "9.9%" and "9.9" both become 0.099.
// No rounding, clamping or sign check is applied.
//
// In CoercePerCell mode each cell is judged on its own representation. In
// CoerceColumn mode a single non-number cell sends the whole column through
// text parsing, numbers included (0.05 is read as "0.05" and becomes 0.0005).
func CoercePercent(col table.Column, mode page.CoercionMode) table.Column {
	out := table.Column{Name: col.Name, Values: make([]table.Value, len(col.Values))}

	textBranch := mode == page.CoerceColumn && !allNumeric(col.Values)
	for i, v := range col.Values {
		switch {
		case v.IsMissing():
			out.Values[i] = table.Missing()
		case v.IsNumber() && !textBranch:
			out.Values[i] = v
		default:
			out.Values[i] = parsePercentText(v.String())
		}
	}
	return out
}

// allNumeric reports whether every non-missing value is a native number
func allNumeric(values []table.Value) bool {
	for _, v := range values {
		if !v.IsMissing() && !v.IsNumber() {
			return false
		}
	}
	return true
}

// parsePercentText parses " 1,234.5 % " style text into a fraction
func parsePercentText(s string) table.Value {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.ReplaceAll(cleaned, "%", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return table.Missing()
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return table.Missing()
	}
	return table.Number(d.Shift(-2).InexactFloat64())
}
