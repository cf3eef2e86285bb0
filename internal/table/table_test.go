package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsMissing(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  bool
	}{
		{"empty string", "", true},
		{"NaN", "NaN", true},
		{"nan", "nan", true},
		{"NA", "NA", true},
		{"NULL", "NULL", true},
		{"case sensitive null", "null", false},
		{"case sensitive Na", "Na", false},
		{"number", "10", false},
		{"text", "hello", false},
		{"whitespace is a value", " ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsMissing(tt.value))
		})
	}
}

func TestFromRecords(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		tbl := FromRecords(nil)
		assert.Equal(t, 0, tbl.RowCount())
		assert.Equal(t, 0, tbl.ColumnCount())
	})

	t.Run("header and rows", func(t *testing.T) {
		tbl := FromRecords([][]string{
			{"time", "value"},
			{"0", "10"},
			{"1", "20"},
		})
		assert.Equal(t, []string{"time", "value"}, tbl.Header)
		assert.Equal(t, 2, tbl.RowCount())
		assert.Equal(t, 2, tbl.ColumnCount())
	})
}

func TestRecords(t *testing.T) {
	tbl := FromRecords([][]string{
		{"a", "b"},
		{"1", "2"},
	})
	records := tbl.Records()
	require.Len(t, records, 2)
	assert.Equal(t, []string{"a", "b"}, records[0])
	assert.Equal(t, []string{"1", "2"}, records[1])
}

func TestColumnIndex(t *testing.T) {
	tbl := New([]string{"time", "temperature", "pressure"})

	idx, ok := tbl.ColumnIndex("temperature")
	require.True(t, ok)
	assert.Equal(t, 1, idx)

	_, ok = tbl.ColumnIndex("humidity")
	assert.False(t, ok)
}

func TestColumn(t *testing.T) {
	tbl := &Table{
		Header: []string{"time", "value"},
		Rows: [][]string{
			{"0", "10"},
			{"1"}, // short row
			{"2", "30"},
		},
	}

	values, ok := tbl.Column("value")
	require.True(t, ok)
	assert.Equal(t, []string{"10", "", "30"}, values)

	_, ok = tbl.Column("missing")
	assert.False(t, ok)
}

func TestCell(t *testing.T) {
	tbl := &Table{
		Header: []string{"a", "b"},
		Rows:   [][]string{{"1", "2"}, {"3"}},
	}

	tests := []struct {
		name     string
		row, col int
		want     string
	}{
		{"in range", 0, 1, "2"},
		{"short row", 1, 1, ""},
		{"row out of range", 5, 0, ""},
		{"negative column", 0, -1, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tbl.Cell(tt.row, tt.col))
		})
	}
}

func TestClone(t *testing.T) {
	tbl := FromRecords([][]string{
		{"a", "b"},
		{"1", "2"},
	})
	clone := tbl.Clone()
	clone.Rows[0][0] = "changed"
	clone.Header[0] = "changed"

	assert.Equal(t, "1", tbl.Rows[0][0])
	assert.Equal(t, "a", tbl.Header[0])
}
