// Package tabular converts between spreadsheet files and an in-memory sheet
// model: an ordered header row plus data rows aligned to those headers.
//
// Two formats are supported: delimited text (CSV) and the XLSX workbook
// format. Readers tolerate ragged rows and skip rows whose cells are all
// empty; writers emit the header row first and one record per data row.
package tabular

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Format identifies a supported spreadsheet encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// Ext returns the file extension for the format, including the dot.
func (f Format) Ext() string {
	switch f {
	case FormatXLSX:
		return ".xlsx"
	default:
		return ".csv"
	}
}

// ContentType returns the MIME type used when serving files of this format.
func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/csv; charset=utf-8"
	}
}

// ParseFormat resolves a user-supplied format name such as "csv" or "xlsx".
// An empty value defaults to CSV.
func ParseFormat(value string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "csv":
		return FormatCSV, nil
	case "xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported format %q (expected csv or xlsx)", value)
	}
}

// DetectFormat resolves the format from a filename extension.
func DetectFormat(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(strings.TrimSpace(filename))) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported file type %q (expected .csv or .xlsx)", filepath.Ext(filename))
	}
}

// Sheet is an ordered header row plus data rows. Rows may be ragged; cells
// beyond a row's length read as empty.
type Sheet struct {
	Headers []string
	Rows    [][]string
}

// Cell returns the value of column col in the given row, or "" when the row
// is shorter than the header list.
func (s *Sheet) Cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}

// Read parses the header row and data rows from r in the given format.
// Rows whose cells are all empty are dropped.
func Read(r io.Reader, format Format) (*Sheet, error) {
	switch format {
	case FormatCSV:
		return readCSV(r)
	case FormatXLSX:
		return readXLSX(r)
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

// Write encodes the sheet to w in the given format, header row first.
func Write(w io.Writer, format Format, sheet *Sheet) error {
	if sheet == nil {
		return fmt.Errorf("sheet is required")
	}
	if len(sheet.Headers) == 0 {
		return fmt.Errorf("sheet requires a header row")
	}
	switch format {
	case FormatCSV:
		return writeCSV(w, sheet)
	case FormatXLSX:
		return writeXLSX(w, sheet)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

func blankRow(cells []string) bool {
	for _, cell := range cells {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
