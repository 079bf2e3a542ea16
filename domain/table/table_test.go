package table

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "rankboard/internal/errors"
)

func sampleTable(t *testing.T) *Table {
	t.Helper()
	tbl, err := New([]Column{
		{Name: "ETF", Values: []Value{Text("SPY"), Text("EWJ")}},
		{Name: "MEAN", Values: []Value{Number(0.05), Missing()}},
	})
	require.NoError(t, err)
	return tbl
}

func TestNewRejectsDuplicateNames(t *testing.T) {
	_, err := New([]Column{
		{Name: "ETF", Values: []Value{Text("SPY")}},
		{Name: "ETF", Values: []Value{Text("EWJ")}},
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidInput, apperrors.GetCode(err))
}

func TestNewRejectsRaggedColumns(t *testing.T) {
	_, err := New([]Column{
		{Name: "ETF", Values: []Value{Text("SPY"), Text("EWJ")}},
		{Name: "MEAN", Values: []Value{Number(0.05)}},
	})
	require.Error(t, err)
}

func TestAccessorsReturnCopies(t *testing.T) {
	tbl := sampleTable(t)

	col, ok := tbl.Column("ETF")
	require.True(t, ok)
	col.Values[0] = Text("MUTATED")

	cols := tbl.Columns()
	cols[1].Values[0] = Number(99)

	assert.Equal(t, Text("SPY"), tbl.Value(0, "ETF"))
	assert.Equal(t, Number(0.05), tbl.Value(0, "MEAN"))
}

func TestShape(t *testing.T) {
	tbl := sampleTable(t)
	assert.Equal(t, 2, tbl.NumRows())
	assert.Equal(t, 2, tbl.NumColumns())
	assert.Equal(t, []string{"ETF", "MEAN"}, tbl.Names())
	assert.True(t, tbl.Has("MEAN"))
	assert.False(t, tbl.Has("STD_DEV"))
	assert.Equal(t, []Value{Text("EWJ"), Missing()}, tbl.Row(1))
	assert.True(t, tbl.Value(5, "ETF").IsMissing())
	assert.True(t, tbl.Value(0, "NOPE").IsMissing())
}

func TestEqualAndClone(t *testing.T) {
	tbl := sampleTable(t)
	clone := tbl.Clone()
	assert.True(t, tbl.Equal(clone))
	assert.NotSame(t, tbl, clone)

	other := MustNew([]Column{
		{Name: "ETF", Values: []Value{Text("SPY"), Text("EWJ")}},
		{Name: "MEAN", Values: []Value{Number(0.05), Number(0.01)}},
	})
	assert.False(t, tbl.Equal(other))
}

func TestValueRepresentations(t *testing.T) {
	tests := []struct {
		name   string
		value  Value
		str    string
		asJSON string
	}{
		{"number", Number(0.05), "0.05", "0.05"},
		{"text", Text("9.9%"), "9.9%", `"9.9%"`},
		{"missing", Missing(), "", "null"},
		{"empty text is missing", Text(""), "", "null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.str, tt.value.String())
			raw, err := json.Marshal(tt.value)
			require.NoError(t, err)
			assert.JSONEq(t, tt.asJSON, string(raw))
		})
	}
}

func TestRecords(t *testing.T) {
	recs := sampleTable(t).Records()
	require.Len(t, recs, 2)
	assert.Equal(t, Text("EWJ"), recs[1]["ETF"])
	assert.True(t, recs[1]["MEAN"].IsMissing())
}
