package table

import (
	"fmt"

	apperrors "rankboard/internal/errors"
)

// Column is a named, ordered sequence of cell values
type Column struct {
	Name   string
	Values []Value
}

// Clone returns a deep copy of the column
func (c Column) Clone() Column {
	values := make([]Value, len(c.Values))
	copy(values, c.Values)
	return Column{Name: c.Name, Values: values}
}

// Table is an ordered set of uniquely named, equal-length columns. Rows are aligned
// by position and keep the order they were read in.
//
// A Table is immutable once built: accessors hand out copies, and derived tables
// (projection, coercion) are new instances. Loaded tables may be shared through the
// loader cache, so nothing may write through to the underlying slices.
type Table struct {
	columns []Column
	index   map[string]int
	rows    int
}

// New builds a table from columns, taking ownership of the slices passed in.
func New(columns []Column) (*Table, error) {
	t := &Table{
		columns: columns,
		index:   make(map[string]int, len(columns)),
	}
	for i, col := range columns {
		if _, dup := t.index[col.Name]; dup {
			return nil, apperrors.InvalidInput(fmt.Sprintf("duplicate column name %q", col.Name))
		}
		t.index[col.Name] = i
		if i == 0 {
			t.rows = len(col.Values)
			continue
		}
		if len(col.Values) != t.rows {
			return nil, apperrors.InvalidInput(fmt.Sprintf(
				"column %q has %d values, expected %d", col.Name, len(col.Values), t.rows))
		}
	}
	return t, nil
}

// MustNew is New for statically known inputs such as test fixtures.
func MustNew(columns []Column) *Table {
	t, err := New(columns)
	if err != nil {
		panic(err)
	}
	return t
}

// NumRows returns the number of data rows
func (t *Table) NumRows() int {
	return t.rows
}

// NumColumns returns the number of columns
func (t *Table) NumColumns() int {
	return len(t.columns)
}

// Names returns the column names in order
func (t *Table) Names() []string {
	names := make([]string, len(t.columns))
	for i, col := range t.columns {
		names[i] = col.Name
	}
	return names
}

// Has reports whether a column named name exists
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column returns a copy of the named column
func (t *Table) Column(name string) (Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return Column{}, false
	}
	return t.columns[i].Clone(), true
}

// ColumnAt returns a copy of the column at position i
func (t *Table) ColumnAt(i int) Column {
	return t.columns[i].Clone()
}

// Columns returns deep copies of every column
func (t *Table) Columns() []Column {
	out := make([]Column, len(t.columns))
	for i, col := range t.columns {
		out[i] = col.Clone()
	}
	return out
}

// Value returns the cell at row for the named column; unknown columns read as missing.
func (t *Table) Value(row int, name string) Value {
	i, ok := t.index[name]
	if !ok || row < 0 || row >= t.rows {
		return Missing()
	}
	return t.columns[i].Values[row]
}

// Row returns the values of row across all columns
func (t *Table) Row(row int) []Value {
	out := make([]Value, len(t.columns))
	for i, col := range t.columns {
		out[i] = col.Values[row]
	}
	return out
}

// Records returns every row keyed by column name
func (t *Table) Records() []map[string]Value {
	records := make([]map[string]Value, t.rows)
	for r := 0; r < t.rows; r++ {
		rec := make(map[string]Value, len(t.columns))
		for _, col := range t.columns {
			rec[col.Name] = col.Values[r]
		}
		records[r] = rec
	}
	return records
}

// Clone returns a deep copy of the table
func (t *Table) Clone() *Table {
	return MustNew(t.Columns())
}

// Equal reports whether both tables hold the same column names and values in the same order
func (t *Table) Equal(other *Table) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.rows != other.rows || len(t.columns) != len(other.columns) {
		return false
	}
	for i, col := range t.columns {
		oc := other.columns[i]
		if col.Name != oc.Name {
			return false
		}
		for r := range col.Values {
			if col.Values[r] != oc.Values[r] {
				return false
			}
		}
	}
	return true
}
