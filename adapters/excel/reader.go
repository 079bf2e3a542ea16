package excel

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"rankboard/domain/table"
	apperrors "rankboard/internal/errors"
)

// Reader loads sheet ranges from xlsx workbooks. It holds no state between
// calls; wrap it in a CachedLoader for memoization.
type Reader struct {
	logger *slog.Logger
}

// NewReader creates a workbook reader
func NewReader(logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{logger: logger.With("component", "excel.reader")}
}

// Load reads req.Columns of req.Sheet in req.Source. The row at req.HeaderRow names
// the columns; every following row that is not entirely blank within the range
// becomes a data row, up to req.MaxRows when it is positive.
func (r *Reader) Load(ctx context.Context, req table.LoadRequest) (*table.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	cols, err := req.Range()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(req.Source); err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.SourceNotFound(fmt.Sprintf("workbook %s", req.Source))
		}
		return nil, apperrors.SourceUnreadable(req.Source, err)
	}

	startTime := time.Now()
	f, err := excelize.OpenFile(req.Source)
	if err != nil {
		return nil, apperrors.SourceUnreadable(req.Source, err)
	}
	defer f.Close()

	// an invalid sheet name cannot exist in the workbook, so both cases are not-found
	idx, err := f.GetSheetIndex(req.Sheet)
	if err != nil || idx == -1 {
		return nil, apperrors.SourceNotFound(fmt.Sprintf("sheet %q in %s", req.Sheet, req.Source))
	}

	rows, err := f.GetRows(req.Sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, apperrors.SourceUnreadable(req.Source, err)
	}
	if req.HeaderRow >= len(rows) {
		return nil, apperrors.SourceNotFound(fmt.Sprintf(
			"header row %d in sheet %q (sheet has %d rows)", req.HeaderRow, req.Sheet, len(rows)))
	}

	// every requested column must hold data somewhere from the header down
	width := populatedWidth(rows[req.HeaderRow:])
	for _, col := range cols {
		if col > width {
			return nil, apperrors.Newf(apperrors.CodeSourceNotFound, "range %s not found in sheet %q: column %s is past the last populated column %s",
				req.Columns, req.Sheet, columnIndexToLetter(col), lastColumnName(width))
		}
	}

	names := headerNames(rows[req.HeaderRow], cols)
	values := make([][]table.Value, len(cols))

	dataRows := 0
	for rowIdx := req.HeaderRow + 1; rowIdx < len(rows); rowIdx++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if req.MaxRows > 0 && dataRows >= req.MaxRows {
			break
		}

		rowValues, blank, err := r.readRow(f, req.Sheet, rows[rowIdx], rowIdx, cols)
		if err != nil {
			return nil, apperrors.SourceUnreadable(req.Source, err)
		}
		if blank {
			continue
		}
		for i, v := range rowValues {
			values[i] = append(values[i], v)
		}
		dataRows++
	}

	columns := make([]table.Column, len(cols))
	for i, name := range names {
		if values[i] == nil {
			values[i] = []table.Value{}
		}
		columns[i] = table.Column{Name: name, Values: values[i]}
	}

	tbl, err := table.New(columns)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("sheet range read",
		"source", req.Source,
		"sheet", req.Sheet,
		"span", fmt.Sprintf("%s:%s", columnIndexToLetter(cols[0]), columnIndexToLetter(cols[len(cols)-1])),
		"columns", tbl.NumColumns(),
		"rows", tbl.NumRows(),
		"elapsed_ms", float64(time.Since(startTime).Nanoseconds())/1e6)

	return tbl, nil
}

// readRow extracts the selected cells of one sheet row. rowIdx is 0-based.
func (r *Reader) readRow(f *excelize.File, sheet string, raw []string, rowIdx int, cols []int) ([]table.Value, bool, error) {
	out := make([]table.Value, len(cols))
	blank := true
	for i, col := range cols {
		if col > len(raw) || raw[col-1] == "" {
			out[i] = table.Missing()
			continue
		}
		cell, err := excelize.CoordinatesToCellName(col, rowIdx+1)
		if err != nil {
			return nil, false, err
		}
		cellType, err := f.GetCellType(sheet, cell)
		if err != nil {
			return nil, false, err
		}
		out[i] = classifyCell(cellType, raw[col-1])
		if !out[i].IsMissing() {
			blank = false
		}
	}
	return out, blank, nil
}

// classifyCell turns a raw cell into a Value using the workbook's own type tag.
// Numeric cells carry no type attribute (or "n"); only they become native numbers,
// so text that merely looks numeric ("450.25" typed as a string) stays text.
func classifyCell(cellType excelize.CellType, raw string) table.Value {
	if raw == "" {
		return table.Missing()
	}
	switch cellType {
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		if n, err := strconv.ParseFloat(raw, 64); err == nil {
			return table.Number(n)
		}
		return table.Text(raw)
	case excelize.CellTypeBool:
		if raw == "1" || strings.EqualFold(raw, "true") {
			return table.Text("TRUE")
		}
		return table.Text("FALSE")
	case excelize.CellTypeError:
		return table.Missing()
	default:
		return table.Text(raw)
	}
}

// headerNames builds unique column names from the header row. Blank headers become
// "Unnamed: <position>" and repeats get ".1", ".2" suffixes.
func headerNames(header []string, cols []int) []string {
	names := make([]string, len(cols))
	used := make(map[string]bool, len(cols))
	suffix := make(map[string]int)
	for i, col := range cols {
		name := ""
		if col <= len(header) {
			name = strings.TrimSpace(header[col-1])
		}
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		base := name
		for used[name] {
			suffix[base]++
			name = fmt.Sprintf("%s.%d", base, suffix[base])
		}
		used[name] = true
		names[i] = name
	}
	return names
}

func lastColumnName(width int) string {
	if width == 0 {
		return "(none)"
	}
	return columnIndexToLetter(width)
}

func validateRequest(req table.LoadRequest) error {
	switch {
	case strings.TrimSpace(req.Source) == "":
		return apperrors.InvalidInput("workbook source is required")
	case strings.TrimSpace(req.Sheet) == "":
		return apperrors.InvalidInput("sheet name is required")
	case req.HeaderRow < 0:
		return apperrors.InvalidInput(fmt.Sprintf("header row must be >= 0, got %d", req.HeaderRow))
	case req.MaxRows < 0:
		return apperrors.InvalidInput(fmt.Sprintf("max rows must be >= 0, got %d", req.MaxRows))
	}
	return nil
}
