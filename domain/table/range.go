package table

import (
	"fmt"
	"strings"

	apperrors "rankboard/internal/errors"
)

// MaxColumns is the widest sheet a workbook can hold (column XFD)
const MaxColumns = 16384

// ParseColumnRange expands a column span into 1-based column numbers in
// left-to-right order. Accepted forms: "A:I", "C", and comma lists such as
// "A:C,F,H:I". Letters are case-insensitive; a column may appear only once.
func ParseColumnRange(spec string) ([]int, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, apperrors.InvalidInput("empty column range")
	}

	var cols []int
	seen := make(map[int]bool)
	for _, part := range strings.Split(spec, ",") {
		lo, hi, isSpan := strings.Cut(strings.TrimSpace(part), ":")

		start, err := columnNumber(lo)
		if err != nil {
			return nil, apperrors.InvalidInput(fmt.Sprintf("invalid column range %q: %v", spec, err))
		}
		end := start
		if isSpan {
			if end, err = columnNumber(hi); err != nil {
				return nil, apperrors.InvalidInput(fmt.Sprintf("invalid column range %q: %v", spec, err))
			}
		}
		if end < start {
			return nil, apperrors.InvalidInput(fmt.Sprintf("invalid column range %q: %s comes after %s", spec, lo, hi))
		}

		for c := start; c <= end; c++ {
			if seen[c] {
				return nil, apperrors.InvalidInput(fmt.Sprintf("invalid column range %q: column %d listed twice", spec, c))
			}
			seen[c] = true
			cols = append(cols, c)
		}
	}
	return cols, nil
}

// Range parses r.Columns
func (r LoadRequest) Range() ([]int, error) {
	return ParseColumnRange(r.Columns)
}

// columnNumber converts a column name to its 1-based number (A -> 1, AA -> 27)
func columnNumber(name string) (int, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	if name == "" {
		return 0, fmt.Errorf("missing column name")
	}
	n := 0
	for _, r := range name {
		if r < 'A' || r > 'Z' {
			return 0, fmt.Errorf("invalid column name %q", name)
		}
		n = n*26 + int(r-'A'+1)
		if n > MaxColumns {
			return 0, fmt.Errorf("column %s is beyond %d", name, MaxColumns)
		}
	}
	return n, nil
}
