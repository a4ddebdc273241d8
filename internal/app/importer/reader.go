// Package importer turns donor spreadsheets into donor records.
package importer

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/hemope/doador-api/internal/pkg/apperrors"
)

// Row is one non-blank data row of a sheet, keyed by trimmed header text.
type Row struct {
	// Number counts data rows from 2, the header being row 1. Blank rows
	// are not counted, so leading or interleaved blank lines do not shift it.
	Number  int
	Headers []string
	Values  map[string]string
}

// Get returns the trimmed cell value under header, or false when the cell is
// missing or empty.
func (r Row) Get(header string) (string, bool) {
	v, ok := r.Values[header]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Sheet is the parsed first worksheet of a workbook.
type Sheet struct {
	Name    string
	Headers []string
	Rows    []Row
}

// ReadSheet parses the first worksheet of an .xlsx workbook read from r.
func ReadSheet(r io.Reader) (*Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrSpreadsheetUnreadable, err)
	}
	defer f.Close()
	return parseWorkbook(f)
}

// ReadFile parses the first worksheet of the workbook stored at path.
func ReadFile(path string) (*Sheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrSpreadsheetUnreadable, err)
	}
	defer f.Close()
	return parseWorkbook(f)
}

// parseWorkbook reads the first worksheet. The first non-blank row is the
// header; later blank rows are skipped. Cells are read raw, so
// date-formatted cells arrive as spreadsheet serial numbers.
func parseWorkbook(f *excelize.File) (*Sheet, error) {
	name := f.GetSheetName(0)
	if name == "" {
		return nil, fmt.Errorf("%w: workbook has no sheets", apperrors.ErrSpreadsheetUnreadable)
	}

	raw, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrSpreadsheetUnreadable, err)
	}

	sheet := &Sheet{Name: name}
	headerSeen := false
	for _, cells := range raw {
		if isBlank(cells) {
			continue
		}
		if !headerSeen {
			headerSeen = true
			sheet.Headers = trimAll(cells)
			continue
		}
		sheet.Rows = append(sheet.Rows, buildRow(len(sheet.Rows)+2, sheet.Headers, cells))
	}

	if len(sheet.Rows) == 0 {
		return nil, apperrors.ErrSpreadsheetEmpty
	}
	return sheet, nil
}

func buildRow(number int, headers, cells []string) Row {
	row := Row{Number: number, Headers: headers, Values: make(map[string]string, len(headers))}
	for col, header := range headers {
		if header == "" || col >= len(cells) {
			continue
		}
		if _, dup := row.Values[header]; dup {
			continue
		}
		if v := strings.TrimSpace(cells[col]); v != "" {
			row.Values[header] = v
		}
	}
	return row
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func trimAll(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = strings.TrimSpace(c)
	}
	return out
}
