package parser

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"adapter/internal/table"
)

// ExcelParser reads the tabular contents of an .xlsx workbook. Excel rows
// arrive ragged (trailing empty cells are dropped by the reader), so short
// rows are padded to the header width instead of rejected; rows wider than
// the header are skipped like malformed CSV rows.
type ExcelParser struct {
	sheet  string
	logger *slog.Logger
}

// NewExcelParser creates an Excel parser. An empty sheet name selects the
// first sheet that contains more than one non-empty row.
func NewExcelParser(logger *slog.Logger, sheet string) *ExcelParser {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExcelParser{sheet: sheet, logger: logger.With(slog.String("component", "excel_parser"))}
}

// ParseFile reads and parses a workbook file.
func (p *ExcelParser) ParseFile(path string) (*table.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()
	return p.parse(f)
}

// Parse reads and parses a workbook from a stream.
func (p *ExcelParser) Parse(r io.Reader) (*table.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()
	return p.parse(f)
}

func (p *ExcelParser) parse(f *excelize.File) (*table.Table, error) {
	sheet, rows, err := p.findSheet(f)
	if err != nil {
		return nil, err
	}
	p.logger.Info("found tabular data in sheet", slog.String("sheet_name", sheet))

	var t *table.Table
	skipped := 0
	for _, row := range rows {
		trimFields(row)
		if isBlank(row) {
			continue
		}
		if t == nil {
			t = table.New(row)
			continue
		}
		if len(row) > len(t.Header) {
			skipped++
			p.logger.Warn("skipping over-wide row",
				slog.Int("fields", len(row)),
				slog.Int("expected", len(t.Header)))
			continue
		}
		for len(row) < len(t.Header) {
			row = append(row, "")
		}
		t.Rows = append(t.Rows, row)
	}
	if t == nil {
		return nil, fmt.Errorf("sheet %q contains no records", sheet)
	}
	if skipped > 0 {
		p.logger.Warn("malformed rows skipped", slog.Int("count", skipped))
	}
	p.logger.Info("parsed workbook",
		slog.String("sheet_name", sheet),
		slog.Int("rows", t.RowCount()),
		slog.Int("columns", t.ColumnCount()))
	return t, nil
}

// findSheet returns the configured sheet, or the first sheet with at
// least a header row and one data row, or failing that the first sheet.
func (p *ExcelParser) findSheet(f *excelize.File) (string, [][]string, error) {
	if p.sheet != "" {
		rows, err := f.GetRows(p.sheet)
		if err != nil {
			return "", nil, fmt.Errorf("failed to read sheet %q: %w", p.sheet, err)
		}
		return p.sheet, rows, nil
	}
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", nil, fmt.Errorf("workbook contains no sheets")
	}
	for _, name := range sheets {
		rows, err := f.GetRows(name)
		if err == nil && len(rows) > 1 {
			return name, rows, nil
		}
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return "", nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return sheets[0], rows, nil
}

// ParseFile dispatches on the file extension: .xlsx/.xlsm workbooks go
// through the Excel parser, everything else is read as delimited text.
func ParseFile(logger *slog.Logger, path string, delimiter rune) (*table.Table, error) {
	switch {
	case HasExcelExt(path):
		return NewExcelParser(logger, "").ParseFile(path)
	default:
		return NewCSVParser(logger, delimiter).ParseFile(path)
	}
}

// HasExcelExt reports whether the path names an Excel workbook.
func HasExcelExt(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasSuffix(lower, ".xlsx") || strings.HasSuffix(lower, ".xlsm")
}
