package importer

import (
	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/queue"
	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/tabular"
)

// ExportHeaders is the canonical header row written by export. Each header
// folds back onto its own field, so an exported file re-imports cleanly.
var ExportHeaders = []string{"main_keyword", "service_url", "cluster_keywords", "status"}

// ExportSheet renders items into a sheet using the canonical headers.
func ExportSheet(items []*queue.Item) *tabular.Sheet {
	sheet := &tabular.Sheet{Headers: append([]string(nil), ExportHeaders...)}
	for _, item := range items {
		if item == nil {
			continue
		}
		sheet.Rows = append(sheet.Rows, []string{
			item.MainKeyword,
			item.ServiceURL,
			item.ClusterKeywords,
			string(item.Status),
		})
	}
	return sheet
}
