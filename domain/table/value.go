package table

import (
	"encoding/json"
	"strconv"
)

// ValueKind tags the representation a cell value was read or coerced into
type ValueKind string

const (
	KindMissing ValueKind = "missing"
	KindNumber  ValueKind = "number"
	KindText    ValueKind = "text"
)

// Value is a single cell. The zero Value is the missing marker.
type Value struct {
	Kind ValueKind `json:"kind"`
	Num  float64   `json:"num,omitempty"`
	Text string    `json:"text,omitempty"`
}

// Missing returns the missing marker
func Missing() Value {
	return Value{Kind: KindMissing}
}

// Number wraps a native numeric cell
func Number(n float64) Value {
	return Value{Kind: KindNumber, Num: n}
}

// Text wraps a textual cell; an empty string is treated as missing
func Text(s string) Value {
	if s == "" {
		return Missing()
	}
	return Value{Kind: KindText, Text: s}
}

// IsMissing reports whether v is the missing marker
func (v Value) IsMissing() bool {
	return v.Kind == KindMissing || v.Kind == ""
}

// IsNumber reports whether v holds a native number
func (v Value) IsNumber() bool {
	return v.Kind == KindNumber
}

// Float returns the numeric payload for number values
func (v Value) Float() (float64, bool) {
	if v.Kind != KindNumber {
		return 0, false
	}
	return v.Num, true
}

// String renders the raw representation: shortest round-trip form for numbers,
// the text as-is, and "" for missing.
func (v Value) String() string {
	switch v.Kind {
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindText:
		return v.Text
	default:
		return ""
	}
}

// MarshalJSON emits numbers as JSON numbers, text as strings and missing as null
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindNumber:
		return json.Marshal(v.Num)
	case KindText:
		return json.Marshal(v.Text)
	default:
		return []byte("null"), nil
	}
}
