// Package parser builds tables from CSV and Excel inputs. It owns the
// upstream row-width contract: data rows whose field count does not match
// the header are rejected here with a warning so the engines can assume
// uniform width.
package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"adapter/internal/table"
)

// CSVParser reads delimited text into a table. The first non-empty record
// is the header; header and cell fields are whitespace-trimmed.
type CSVParser struct {
	delimiter rune
	logger    *slog.Logger
}

// NewCSVParser creates a CSV parser. A zero delimiter means comma; a nil
// logger falls back to slog.Default().
func NewCSVParser(logger *slog.Logger, delimiter rune) *CSVParser {
	if delimiter == 0 {
		delimiter = ','
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVParser{delimiter: delimiter, logger: logger.With(slog.String("component", "csv_parser"))}
}

// ParseFile reads and parses a CSV file.
func (p *CSVParser) ParseFile(path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()
	return p.Parse(f)
}

// Parse reads delimited records into a table, skipping malformed rows.
func (p *CSVParser) Parse(r io.Reader) (*table.Table, error) {
	reader := csv.NewReader(r)
	reader.Comma = p.delimiter
	// Row-width enforcement happens below so short rows can be skipped
	// with a warning instead of failing the whole read.
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var t *table.Table
	skipped := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}
		trimFields(record)
		if isBlank(record) {
			continue
		}
		if t == nil {
			t = table.New(record)
			continue
		}
		if len(record) != len(t.Header) {
			skipped++
			p.logger.Warn("skipping malformed row",
				slog.Int("fields", len(record)),
				slog.Int("expected", len(t.Header)))
			continue
		}
		t.Rows = append(t.Rows, record)
	}
	if t == nil {
		return nil, fmt.Errorf("input contains no records")
	}
	if skipped > 0 {
		p.logger.Warn("malformed rows skipped", slog.Int("count", skipped))
	}
	p.logger.Info("parsed input",
		slog.Int("rows", t.RowCount()),
		slog.Int("columns", t.ColumnCount()))
	return t, nil
}

func trimFields(record []string) {
	for i := range record {
		record[i] = strings.TrimSpace(record[i])
	}
}

func isBlank(record []string) bool {
	for _, field := range record {
		if field != "" {
			return false
		}
	}
	return true
}
