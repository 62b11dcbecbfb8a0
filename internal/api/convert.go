package api

import (
	"time"

	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/credits"
	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/engine"
	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/profile"
	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/queue"
)

// FromItem converts a queue record to its API representation.
func FromItem(item *queue.Item) Item {
	if item == nil {
		return Item{}
	}
	dto := Item{
		ID:              item.ID,
		MainKeyword:     item.MainKeyword,
		ServiceURL:      item.ServiceURL,
		ClusterKeywords: item.ClusterKeywords,
		Status:          string(item.Status),
		WPPostURL:       item.WPPostURL,
		FeatureImage:    item.FeatureImage,
	}
	dto.CreatedAt = FormatTime(item.CreatedAt)
	dto.UpdatedAt = FormatTime(item.UpdatedAt)
	return dto
}

// FromItems converts a slice of queue records into API DTOs.
func FromItems(items []*queue.Item) []Item {
	if len(items) == 0 {
		return nil
	}
	out := make([]Item, 0, len(items))
	for _, item := range items {
		out = append(out, FromItem(item))
	}
	return out
}

// FromBalance converts a ledger balance into its API representation.
func FromBalance(balance credits.Balance) Credits {
	return Credits{
		Tier:      balance.Tier,
		Included:  balance.Included,
		Used:      balance.Used,
		Available: balance.Available,
		Unlimited: balance.Unlimited,
	}
}

// FromFlags converts owner profile flags into their API representation.
func FromFlags(flags profile.Flags) Profile {
	return Profile{
		AutoFeatureImage: flags.AutoFeatureImage,
		AutoPublish:      flags.AutoPublish,
	}
}

// Flags converts the API profile back into persistence flags.
func (p Profile) Flags() profile.Flags {
	return profile.Flags{
		AutoFeatureImage: p.AutoFeatureImage,
		AutoPublish:      p.AutoPublish,
	}
}

// FromStatusSummary converts an engine status summary to its API payload.
func FromStatusSummary(summary engine.StatusSummary) EngineStatus {
	status := EngineStatus{
		ActiveTasks: summary.ActiveTasks,
		QueueStats:  MergeQueueStats(summary.QueueStats),
		LastError:   summary.LastError,
	}
	if summary.LastItem != nil {
		last := FromItem(summary.LastItem)
		status.LastItem = &last
	}
	return status
}

// FromReceipt converts an admission receipt to its API payload.
func FromReceipt(receipt engine.Receipt) ProcessReceipt {
	return ProcessReceipt{
		Admitted: receipt.Admitted,
		ItemIDs:  append([]int64(nil), receipt.ItemIDs...),
	}
}

// MergeQueueStats produces a string-keyed representation of queue counts
// with every known status present, so clients never branch on missing keys.
func MergeQueueStats(stats map[queue.Status]int) map[string]int {
	out := make(map[string]int, len(queue.AllStatuses()))
	for _, status := range queue.AllStatuses() {
		out[string(status)] = stats[status]
	}
	return out
}

// FormatTime converts a time to the payload timestamp format, or returns an
// empty string for the zero time.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateTimeFormat)
}

// ParseTime parses a payload timestamp for display formatting. Unparseable
// values yield the zero time.
func ParseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t
	}
	return time.Time{}
}
