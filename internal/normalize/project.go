package normalize

import (
	"log/slog"

	"rankboard/domain/page"
	"rankboard/domain/table"
	apperrors "rankboard/internal/errors"
)

// Schema declares the shape a loaded table is normalized into
type Schema struct {
	// Expected renames columns by position. Empty leaves source names alone.
	Expected []string
	// Percent lists percent-like columns; names absent from the table are skipped.
	Percent []string
	// Display is the final column order. Empty keeps every column.
	Display []string
}

// SchemaFromSection extracts the normalization schema of a page section
func SchemaFromSection(sec page.Section) Schema {
	return Schema{
		Expected: sec.Expected,
		Percent:  sec.Percent,
		Display:  sec.Display,
	}
}

// Options tune projection
type Options struct {
	SchemaMode   page.SchemaMode
	CoercionMode page.CoercionMode
	Logger       *slog.Logger
}

// Report records what projection did besides producing the table
type Report struct {
	// SchemaMismatch is set when Expected and the loaded column count differ
	SchemaMismatch bool     `json:"schema_mismatch"`
	Renamed        bool     `json:"renamed"`
	Padded         []string `json:"padded,omitempty"`
	SkippedPercent []string `json:"skipped_percent,omitempty"`
	Coerced        []string `json:"coerced,omitempty"`
}

// Project normalizes t into a new table: rename by position, coerce percent-like
// columns, then reduce and reorder to the display columns. t itself is not modified.
//
// Renaming is positional, not by value: a sheet whose columns were reordered
// upstream gets mislabelled silently when the lengths still match. When lengths
// differ the schema mode decides: strict fails with SCHEMA_MISMATCH, pad renames
// what fits and adds absent names as all-missing columns, lenient keeps the
// source names. Both permissive modes log a warning and flag the report.
//
// Every display column must exist after coercion or MISSING_COLUMN is returned.
func Project(t *table.Table, schema Schema, opts Options) (*table.Table, Report, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	schemaMode := opts.SchemaMode
	if schemaMode == "" {
		schemaMode = page.SchemaStrict
	}
	coercionMode := opts.CoercionMode
	if coercionMode == "" {
		coercionMode = page.CoercePerCell
	}

	var report Report
	cols := t.Columns()

	if len(schema.Expected) > 0 {
		renamed, err := rename(cols, schema.Expected, t.NumRows(), schemaMode, &report)
		if err != nil {
			return nil, report, err
		}
		if report.SchemaMismatch {
			logger.Warn("schema length mismatch",
				"mode", string(schemaMode),
				"expected", len(schema.Expected),
				"actual", len(cols),
				"padded", report.Padded)
		}
		cols = renamed
	}

	position := make(map[string]int, len(cols))
	for i, col := range cols {
		position[col.Name] = i
	}

	for _, name := range schema.Percent {
		i, ok := position[name]
		if !ok {
			report.SkippedPercent = append(report.SkippedPercent, name)
			continue
		}
		cols[i] = CoercePercent(cols[i], coercionMode)
		report.Coerced = append(report.Coerced, name)
	}
	if len(report.SkippedPercent) > 0 {
		logger.Debug("percent columns not present", "columns", report.SkippedPercent)
	}

	if len(schema.Display) == 0 {
		out, err := table.New(cols)
		return out, report, err
	}

	var missing []string
	selected := make([]table.Column, 0, len(schema.Display))
	for _, name := range schema.Display {
		i, ok := position[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		selected = append(selected, cols[i])
	}
	if len(missing) > 0 {
		return nil, report, apperrors.MissingColumn(missing)
	}

	out, err := table.New(selected)
	if err != nil {
		return nil, report, err
	}
	return out, report, nil
}

func rename(cols []table.Column, expected []string, rows int, mode page.SchemaMode, report *Report) ([]table.Column, error) {
	if len(expected) == len(cols) {
		for i := range cols {
			cols[i].Name = expected[i]
		}
		report.Renamed = true
		return cols, checkUnique(cols)
	}

	report.SchemaMismatch = true
	switch mode {
	case page.SchemaLenient:
		return cols, nil

	case page.SchemaPad:
		n := len(cols)
		if len(expected) < n {
			n = len(expected)
		}
		for i := 0; i < n; i++ {
			cols[i].Name = expected[i]
		}
		for _, name := range expected[n:] {
			values := make([]table.Value, rows)
			for r := range values {
				values[r] = table.Missing()
			}
			cols = append(cols, table.Column{Name: name, Values: values})
			report.Padded = append(report.Padded, name)
		}
		report.Renamed = true
		return cols, checkUnique(cols)

	default:
		return nil, apperrors.SchemaMismatch(len(expected), len(cols))
	}
}

// checkUnique rejects renames that leave two columns with the same name
func checkUnique(cols []table.Column) error {
	seen := make(map[string]bool, len(cols))
	for _, col := range cols {
		if seen[col.Name] {
			return apperrors.Newf(apperrors.CodeSchemaMismatch, "rename produces duplicate column %q", col.Name)
		}
		seen[col.Name] = true
	}
	return nil
}
