package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// columnIndexToLetter converts a 1-based column number to its letter name (1 -> A, 27 -> AA)
func columnIndexToLetter(col int) string {
	name, err := excelize.ColumnNumberToName(col)
	if err != nil {
		return fmt.Sprintf("#%d", col)
	}
	return name
}

// populatedWidth returns the 1-based number of the rightmost non-empty cell
// across rows, or 0 when every cell is empty.
func populatedWidth(rows [][]string) int {
	widest := 0
	for _, row := range rows {
		for c := len(row); c > widest; c-- {
			if row[c-1] != "" {
				widest = c
				break
			}
		}
	}
	return widest
}
