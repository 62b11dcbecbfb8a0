// Package importer maps heterogeneous spreadsheet columns onto canonical
// queue item fields. Header matching is fuzzy: case is folded, separators
// collapse to single spaces, and a fixed synonym table decides which header
// feeds which field. Individual bad rows never fail the whole import; they
// are reported as row-level errors alongside the valid items.
package importer

import (
	"fmt"
	"strings"

	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/queue"
	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/tabular"
)

// Item is one normalized spreadsheet row, ready for insertion.
type Item struct {
	MainKeyword     string
	ServiceURL      string
	ClusterKeywords string
	Status          queue.Status
}

// Result carries the valid items plus human-readable errors for the rows
// that were rejected. Row numbers in the messages count from the top of the
// spreadsheet, so the header is row 1 and the first data row is row 2.
type Result struct {
	Items  []Item
	Errors []string
}

// Normalize resolves the sheet's headers against the synonym table and
// converts each data row into an Item. Rows missing a usable main keyword
// are rejected with a per-row error; unrecognized status values fall back
// to pending.
func Normalize(sheet *tabular.Sheet) Result {
	var result Result
	if sheet == nil {
		return result
	}

	cols := resolveColumns(sheet.Headers)
	for i, row := range sheet.Rows {
		rowNum := i + 2

		if cols.keyword < 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: no main keyword column found", rowNum))
			continue
		}
		keyword := strings.TrimSpace(sheet.Cell(row, cols.keyword))
		if keyword == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: main keyword is empty", rowNum))
			continue
		}

		item := Item{
			MainKeyword:     keyword,
			ServiceURL:      strings.TrimSpace(sheet.Cell(row, cols.serviceURL)),
			ClusterKeywords: strings.TrimSpace(sheet.Cell(row, cols.cluster)),
			Status:          queue.StatusPending,
		}
		if cols.status >= 0 {
			if status, ok := queue.ParseStatus(sheet.Cell(row, cols.status)); ok {
				item.Status = status
			}
		}
		result.Items = append(result.Items, item)
	}
	return result
}
