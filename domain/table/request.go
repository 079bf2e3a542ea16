package table

import "fmt"

// LoadRequest identifies one rectangular read from a workbook. It is comparable and
// doubles as the memoization key: two requests with equal fields name the same table.
type LoadRequest struct {
	Source    string // workbook path
	Sheet     string // sheet name
	Columns   string // column span such as "A:I" or "A:C,F"
	HeaderRow int    // 0-based row supplying column names
	MaxRows   int    // cap on returned data rows; 0 means all
}

func (r LoadRequest) String() string {
	return fmt.Sprintf("%s[%s]!%s header=%d max=%d", r.Source, r.Sheet, r.Columns, r.HeaderRow, r.MaxRows)
}
