package models

import "time"

// AggregateReport is one full run's persisted summary. ReportDate is the
// conflict key: re-running the same calendar date overwrites the earlier row.
// Payload is the opaque serialized analysis result, kept for audit/replay.
type AggregateReport struct {
	ReportDate    time.Time `json:"report_date"`
	TotalEntities int       `json:"total_entities"`
	AverageMetric float64   `json:"average_metric"`
	TrendingCount int       `json:"trending_count"`
	Payload       []byte    `json:"-"`
}
