package ingestion

import (
	"strconv"
	"strings"
	"time"
)

// ValueType tags which representation a cell arrived in
type ValueType string

const (
	ValueTypeText    ValueType = "text"
	ValueTypeNumeric ValueType = "numeric"
	ValueTypeDate    ValueType = "date"
	ValueTypeMissing ValueType = "missing"
)

// Value is one spreadsheet cell. Exactly one payload field is meaningful,
// selected by Type.
type Value struct {
	Type    ValueType `json:"type"`
	Text    string    `json:"text,omitempty"`
	Numeric float64   `json:"numeric,omitempty"`
	Date    time.Time `json:"date,omitzero"`
}

// RawRow is one positional row of cells as delivered by a workbook source
type RawRow []Value

// RowWarning records a row that was dropped during parsing. Warnings are
// logged and counted; they never abort an import.
type RowWarning struct {
	RowIndex int    `json:"row_index"`
	Reason   string `json:"reason"`
}

// NewTextValue creates a text value. Blank text is missing.
func NewTextValue(s string) Value {
	if strings.TrimSpace(s) == "" {
		return NewMissingValue()
	}
	return Value{Type: ValueTypeText, Text: s}
}

// NewNumericValue creates a numeric value
func NewNumericValue(n float64) Value {
	return Value{Type: ValueTypeNumeric, Numeric: n}
}

// NewDateValue creates a date-like value
func NewDateValue(t time.Time) Value {
	if t.IsZero() {
		return NewMissingValue()
	}
	return Value{Type: ValueTypeDate, Date: t}
}

// NewMissingValue creates a missing value
func NewMissingValue() Value {
	return Value{Type: ValueTypeMissing}
}

// IsMissing reports whether the cell was blank
func (v Value) IsMissing() bool {
	return v.Type == ValueTypeMissing || v.Type == ""
}

// String returns the cell as display text. Numbers are printed without
// exponent or trailing zeros so that a phone number stored as a number
// reads back as its digits.
func (v Value) String() string {
	switch v.Type {
	case ValueTypeText:
		return v.Text
	case ValueTypeNumeric:
		return strconv.FormatFloat(v.Numeric, 'f', -1, 64)
	case ValueTypeDate:
		return v.Date.Format(time.RFC3339)
	}
	return ""
}

// Cell returns the value at a column, or a missing value past the row end
func (r RawRow) Cell(col int) Value {
	if col < 0 || col >= len(r) {
		return NewMissingValue()
	}
	return r[col]
}

// Text returns the trimmed display text of a column
func (r RawRow) Text(col int) string {
	return strings.TrimSpace(r.Cell(col).String())
}
