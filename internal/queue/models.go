package queue

import (
	"strings"
	"time"
)

// Status represents the lifecycle of a queue item.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusDone       Status = "done"
	StatusError      Status = "error"
)

var allStatuses = []Status{
	StatusPending,
	StatusProcessing,
	StatusDone,
	StatusError,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// Item represents a queue item persisted in SQLite. Every item belongs to
// exactly one owner; reads and writes are always scoped by OwnerID.
type Item struct {
	ID              int64
	OwnerID         string
	MainKeyword     string
	ServiceURL      string
	ClusterKeywords string
	Status          Status
	WPPostURL       string
	FeatureImage    string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// DatabaseHealth captures diagnostic information about the queue database.
type DatabaseHealth struct {
	DBPath           string
	DatabaseExists   bool
	DatabaseReadable bool
	SchemaVersion    string
	TableExists      bool
	ColumnsPresent   []string
	MissingColumns   []string
	IntegrityCheck   bool
	TotalItems       int
	Error            string
}

// HealthSummary describes aggregated queue counts per lifecycle state.
type HealthSummary struct {
	Total      int
	Pending    int
	Processing int
	Done       int
	Errored    int
}

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// IsTerminal reports whether a status can never transition again.
func IsTerminal(status Status) bool {
	return status == StatusDone || status == StatusError
}

// IsTerminal reports whether the item reached a terminal state.
func (i Item) IsTerminal() bool {
	return IsTerminal(i.Status)
}

// Editable reports whether the item's request fields may still be changed.
// Items that are processing or already done are locked.
func (i Item) Editable() bool {
	return i.Status == StatusPending || i.Status == StatusError
}

// HasKeyword reports whether the item carries a non-empty main keyword.
func (i Item) HasKeyword() bool {
	return strings.TrimSpace(i.MainKeyword) != ""
}
