package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

func readCSV(r io.Reader) (*Sheet, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("file contains no header row")
	}

	headers := records[0]
	if len(headers) > 0 {
		// Spreadsheet exports from Windows tools often prepend a UTF-8 BOM.
		headers[0] = strings.TrimPrefix(headers[0], "\uFEFF")
	}

	sheet := &Sheet{Headers: headers}
	for _, record := range records[1:] {
		if blankRow(record) {
			continue
		}
		sheet.Rows = append(sheet.Rows, record)
	}
	return sheet, nil
}

func writeCSV(w io.Writer, sheet *Sheet) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(sheet.Headers); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range sheet.Rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
