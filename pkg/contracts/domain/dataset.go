package domain

import (
	"encoding/json"
	"math"
	"strconv"
)

// Known student dataset columns.
const (
	ColumnGender               = "Gender"
	ColumnParentEducationLevel = "Parent_Education_Level"
	ColumnAttendance           = "Attendance (%)"
	ColumnAge                  = "Age"
	ColumnSleepHours           = "Sleep_Hours_per_Night"
	ColumnFinalScore           = "Final_Score"
	ColumnMidtermScore         = "Midterm_Score"
)

// RequiredColumns lists the columns every uploaded dataset must carry.
var RequiredColumns = []string{
	ColumnGender,
	ColumnParentEducationLevel,
	ColumnAttendance,
	ColumnAge,
	ColumnSleepHours,
	ColumnFinalScore,
	ColumnMidtermScore,
}

// NoneLiteral is the literal cell text rewritten to the missing marker after load.
const NoneLiteral = "None"

// ValueKind identifies which variant a Value holds.
type ValueKind int

const (
	KindMissing ValueKind = iota
	KindString
	KindInt
	KindFloat
)

// String returns the kind name
func (k ValueKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "integer"
	case KindFloat:
		return "float"
	default:
		return "missing"
	}
}

// Value is a single table cell. The zero Value is the missing marker.
type Value struct {
	kind ValueKind
	s    string
	i    int64
	f    float64
}

// Missing returns the missing marker.
func Missing() Value { return Value{} }

// String wraps a text value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Int wraps an integer value.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float wraps a floating point value. NaN is stored as missing.
func Float(f float64) Value {
	if math.IsNaN(f) {
		return Missing()
	}
	return Value{kind: KindFloat, f: f}
}

// Kind reports the variant held by v.
func (v Value) Kind() ValueKind { return v.kind }

// IsMissing reports whether v is the missing marker.
func (v Value) IsMissing() bool { return v.kind == KindMissing }

// Text returns the string payload and whether v is a string.
func (v Value) Text() (string, bool) {
	return v.s, v.kind == KindString
}

// Number returns the numeric payload and whether v is numeric.
func (v Value) Number() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.i), true
	case KindFloat:
		return v.f, true
	}
	return 0, false
}

// Equal compares kind and payload.
func (v Value) Equal(o Value) bool {
	return v.kind == o.kind && v.s == o.s && v.i == o.i && v.f == o.f
}

// String renders the value for display. Missing renders as an empty string.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.s
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	}
	return ""
}

// Interface returns the payload as a plain Go value (nil for missing).
func (v Value) Interface() interface{} {
	switch v.kind {
	case KindString:
		return v.s
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	}
	return nil
}

// MarshalJSON encodes missing as null and the other variants as their payload.
// Infinite floats have no JSON number form and are written as strings.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.kind == KindFloat && math.IsInf(v.f, 0) {
		return json.Marshal(v.String())
	}
	return json.Marshal(v.Interface())
}

// Row maps column name to cell value.
type Row map[string]Value

// Clone returns a shallow copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Table is an ordered set of rows sharing one ordered column set.
type Table struct {
	columns []string
	rows    []Row
}

// NewTable creates an empty table with the given columns.
func NewTable(columns []string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{columns: cols}
}

// AppendRow adds a row. Columns absent from the row are stored as missing and
// keys that are not table columns are ignored, so every row keeps the table's column set.
func (t *Table) AppendRow(r Row) {
	row := make(Row, len(t.columns))
	for _, c := range t.columns {
		row[c] = r[c]
	}
	t.rows = append(t.rows, row)
}

// Columns returns a copy of the column names in order.
func (t *Table) Columns() []string {
	cols := make([]string, len(t.columns))
	copy(cols, t.columns)
	return cols
}

// HasColumn reports whether the table carries the named column.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.columns {
		if c == name {
			return true
		}
	}
	return false
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Row returns the i-th row. The returned map must not be modified.
func (t *Table) Row(i int) Row { return t.rows[i] }

// Value returns the cell at row i, column col.
func (t *Table) Value(i int, col string) Value { return t.rows[i][col] }

// Set replaces a single cell.
func (t *Table) Set(i int, col string, v Value) { t.rows[i][col] = v }

// Column returns the values of one column in row order.
func (t *Table) Column(name string) []Value {
	out := make([]Value, len(t.rows))
	for i, r := range t.rows {
		out[i] = r[name]
	}
	return out
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	c := NewTable(t.columns)
	c.rows = make([]Row, len(t.rows))
	for i, r := range t.rows {
		c.rows[i] = r.Clone()
	}
	return c
}

// Preview returns the first limit rows as a row-major grid aligned to Columns.
// A non-positive limit returns every row.
func (t *Table) Preview(limit int) TablePreview {
	n := len(t.rows)
	if limit > 0 && limit < n {
		n = limit
	}
	rows := make([][]Value, n)
	for i := 0; i < n; i++ {
		cells := make([]Value, len(t.columns))
		for j, c := range t.columns {
			cells[j] = t.rows[i][c]
		}
		rows[i] = cells
	}
	return TablePreview{
		Columns:   t.Columns(),
		Rows:      rows,
		TotalRows: len(t.rows),
	}
}

// TablePreview is the wire shape of a table.
type TablePreview struct {
	Columns   []string  `json:"columns"`
	Rows      [][]Value `json:"rows"`
	TotalRows int       `json:"total_rows"`
}
