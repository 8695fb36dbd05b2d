package schema

import "time"

// HistoryStatus represents the status of the render history store.
type HistoryStatus struct {
	Backend          string           `json:"backend"`
	Connected        bool             `json:"connected"`
	SchemaVersion    uint             `json:"schema_version"`
	TotalRenders     int              `json:"total_renders"`
	LastRenderID     int64            `json:"last_render_id"`
	LastRenderTime   time.Time        `json:"last_render_time"`
	OldestRenderTime time.Time        `json:"oldest_render_time"`
	TotalSamples     int              `json:"total_samples"`
	TableSizes       map[string]int64 `json:"table_sizes"`
}
