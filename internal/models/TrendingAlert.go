package models

import "time"

// TrendingAlert is produced transiently by growth detection and handed to
// the notifier; nothing persists it.
type TrendingAlert struct {
	EntityID          string         `json:"entity_id"`
	Previous          MetricSnapshot `json:"previous"`
	Current           MetricSnapshot `json:"current"`
	ElapsedHours      float64        `json:"elapsed_hours"`
	AbsoluteDelta     int64          `json:"absolute_delta"`
	RelativeGrowthPct float64        `json:"relative_growth_pct"`
	// RelativeDefined is false when the prior view count was zero and
	// relative growth is therefore undefined.
	RelativeDefined bool `json:"relative_defined"`
}

// ErrorReport is the best-effort failure notification sent once per
// aborted run.
type ErrorReport struct {
	RunID     string    `json:"run_id"`
	Stage     string    `json:"stage"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}
