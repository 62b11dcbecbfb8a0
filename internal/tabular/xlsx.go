package tabular

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

func readXLSX(r io.Reader) (*Sheet, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook contains no sheets")
	}
	rows, err := file.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("file contains no header row")
	}

	sheet := &Sheet{Headers: rows[0]}
	for _, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	return sheet, nil
}

func writeXLSX(w io.Writer, sheet *Sheet) error {
	file := excelize.NewFile()
	defer file.Close()

	name := file.GetSheetName(0)
	if err := setRow(file, name, 1, sheet.Headers); err != nil {
		return err
	}
	for i, row := range sheet.Rows {
		if err := setRow(file, name, i+2, row); err != nil {
			return err
		}
	}
	if _, err := file.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func setRow(file *excelize.File, sheet string, rowNum int, cells []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("locate row %d: %w", rowNum, err)
	}
	if err := file.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("write row %d: %w", rowNum, err)
	}
	return nil
}
