package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/api"
)

func buildItemListRows(items []api.Item) [][]string {
	if len(items) == 0 {
		return nil
	}
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			fmt.Sprintf("%d", item.ID),
			truncateCell(item.MainKeyword, 48),
			formatStatusLabel(item.Status),
			formatDisplayTime(item.CreatedAt),
			truncateCell(item.WPPostURL, 48),
		})
	}
	return rows
}

func buildStatusCountRows(counts map[string]int) [][]string {
	if len(counts) == 0 {
		return nil
	}
	keys := make([]string, 0, len(counts))
	for key := range counts {
		if counts[key] > 0 {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	rows := make([][]string, 0, len(keys))
	for _, key := range keys {
		rows = append(rows, []string{formatStatusLabel(key), fmt.Sprintf("%d", counts[key])})
	}
	return rows
}

func formatStatusLabel(status string) string {
	status = strings.TrimSpace(status)
	if status == "" {
		return ""
	}
	parts := strings.Split(status, "_")
	for i, part := range parts {
		lower := strings.ToLower(part)
		if lower == "" {
			continue
		}
		parts[i] = strings.ToUpper(lower[:1]) + lower[1:]
	}
	return strings.Join(parts, " ")
}

func formatDisplayTime(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	t := api.ParseTime(value)
	if t.IsZero() {
		return value
	}
	return t.UTC().Format("2006-01-02 15:04")
}

func truncateCell(value string, max int) string {
	value = strings.TrimSpace(value)
	if max <= 3 || len(value) <= max {
		return value
	}
	return value[:max-3] + "..."
}

func orDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}
