// Package table defines the in-memory tabular structure shared by the
// cleaning and alignment engines: an ordered header plus ordered data rows
// of string fields. Cells are dynamically typed; numeric-vs-text
// classification happens on demand in the engines, never here.
package table

// missingMarkers are the sentinel strings treated as absent values,
// compared case-sensitively.
var missingMarkers = map[string]struct{}{
	"NaN":  {},
	"nan":  {},
	"NA":   {},
	"NULL": {},
}

// IsMissing reports whether a cell value counts as missing: the empty
// string or one of the missing-value sentinels.
func IsMissing(value string) bool {
	if value == "" {
		return true
	}
	_, ok := missingMarkers[value]
	return ok
}

// Table is a header row plus data rows of string fields. Rows should have
// the same width as the header; short rows are tolerated everywhere (a
// missing trailing field reads as the empty string) because malformed rows
// are the parser's problem, not the engines'.
type Table struct {
	Header []string
	Rows   [][]string
}

// New returns an empty table with the given header.
func New(header []string) *Table {
	return &Table{Header: header}
}

// FromRecords builds a table from combined records where the first record
// is the header. Returns an empty table for empty input.
func FromRecords(records [][]string) *Table {
	if len(records) == 0 {
		return &Table{}
	}
	return &Table{Header: records[0], Rows: records[1:]}
}

// Records returns the header and data rows as a single slice, header first.
// The row slices are shared with the table, not copied.
func (t *Table) Records() [][]string {
	records := make([][]string, 0, len(t.Rows)+1)
	records = append(records, t.Header)
	return append(records, t.Rows...)
}

// ColumnIndex returns the position of the named header column.
func (t *Table) ColumnIndex(name string) (int, bool) {
	for i, h := range t.Header {
		if h == name {
			return i, true
		}
	}
	return 0, false
}

// Column returns the named column's data values in row order. Short rows
// contribute an empty string. The second return is false when the column
// is not in the header.
func (t *Table) Column(name string) ([]string, bool) {
	idx, ok := t.ColumnIndex(name)
	if !ok {
		return nil, false
	}
	values := make([]string, len(t.Rows))
	for i := range t.Rows {
		values[i] = t.Cell(i, idx)
	}
	return values, true
}

// Cell returns the field at the given data row and column, or the empty
// string when the row is short or the indices are out of range.
func (t *Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) {
		return ""
	}
	r := t.Rows[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return r[col]
}

// RowCount returns the number of data rows (header excluded).
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// ColumnCount returns the header width.
func (t *Table) ColumnCount() int {
	return len(t.Header)
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	clone := &Table{
		Header: append([]string(nil), t.Header...),
		Rows:   make([][]string, len(t.Rows)),
	}
	for i, row := range t.Rows {
		clone.Rows[i] = append([]string(nil), row...)
	}
	return clone
}
