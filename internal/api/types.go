package api

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// Item describes a queue entry in a transport-friendly format.
type Item struct {
	ID              int64  `json:"id"`
	MainKeyword     string `json:"mainKeyword"`
	ServiceURL      string `json:"serviceUrl,omitempty"`
	ClusterKeywords string `json:"clusterKeywords,omitempty"`
	Status          string `json:"status"`
	WPPostURL       string `json:"wpPostUrl,omitempty"`
	FeatureImage    string `json:"featureImage,omitempty"`
	CreatedAt       string `json:"createdAt,omitempty"`
	UpdatedAt       string `json:"updatedAt,omitempty"`
}

// ItemResponse wraps a single queue item.
type ItemResponse struct {
	Item Item `json:"item"`
}

// ListResponse wraps one page of queue items plus aggregate counts for the
// same owner. Total counts rows matching the filter, not just the page.
type ListResponse struct {
	Items  []Item         `json:"items"`
	Total  int            `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
	Counts map[string]int `json:"counts"`
}

// CreateItemRequest enqueues a single item.
type CreateItemRequest struct {
	MainKeyword     string `json:"mainKeyword"`
	ServiceURL      string `json:"serviceUrl,omitempty"`
	ClusterKeywords string `json:"clusterKeywords,omitempty"`
}

// UpdateItemRequest edits an item's request fields. Nil fields keep their
// current value.
type UpdateItemRequest struct {
	MainKeyword     *string `json:"mainKeyword,omitempty"`
	ServiceURL      *string `json:"serviceUrl,omitempty"`
	ClusterKeywords *string `json:"clusterKeywords,omitempty"`
}

// ProcessReceipt acknowledges an admitted processing request. The items are
// already flipped to processing when the caller sees this.
type ProcessReceipt struct {
	Admitted int     `json:"admitted"`
	ItemIDs  []int64 `json:"itemIds,omitempty"`
}

// ImportReport summarizes a bulk import: how many rows became items and the
// per-row errors for the ones that did not.
type ImportReport struct {
	Created int      `json:"created"`
	Errors  []string `json:"errors,omitempty"`
}

// Credits describes an owner's credit position.
type Credits struct {
	Tier      string `json:"tier"`
	Included  int    `json:"included"`
	Used      int    `json:"used"`
	Available int    `json:"available"`
	Unlimited bool   `json:"unlimited"`
}

// Profile carries the owner's switches for the optional pipeline steps.
type Profile struct {
	AutoFeatureImage bool `json:"autoFeatureImage"`
	AutoPublish      bool `json:"autoPublish"`
}

// EngineStatus summarizes background executor state.
type EngineStatus struct {
	ActiveTasks int            `json:"activeTasks"`
	QueueStats  map[string]int `json:"queueStats"`
	LastError   string         `json:"lastError,omitempty"`
	LastItem    *Item          `json:"lastItem,omitempty"`
}

// DaemonStatus aggregates daemon runtime information for API consumers.
type DaemonStatus struct {
	Running         bool         `json:"running"`
	PID             int          `json:"pid"`
	QueueDBPath     string       `json:"queueDbPath"`
	WriterReachable bool         `json:"writerReachable"`
	WriterDetail    string       `json:"writerDetail,omitempty"`
	Engine          EngineStatus `json:"engine"`
}

// ErrorResponse is the uniform error envelope. Credit refusals additionally
// carry the required/available counts so callers can size a top-up.
type ErrorResponse struct {
	Error     string `json:"error"`
	Required  int    `json:"required,omitempty"`
	Available int    `json:"available,omitempty"`
}
