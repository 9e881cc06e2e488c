package models

import "time"

// MetricSnapshot is one tracked video's measured state at collection time.
// Descriptive fields (title, channel, category, url) are carried through to
// notifications but never used in growth comparisons.
type MetricSnapshot struct {
	EntityID     string    `json:"entity_id"`
	Title        string    `json:"title"`
	Channel      string    `json:"channel"`
	Category     string    `json:"category"`
	URL          string    `json:"url"`
	ViewCount    int64     `json:"view_count"`
	LikeCount    int64     `json:"like_count"`
	CommentCount int64     `json:"comment_count"`
	CollectedAt  time.Time `json:"collected_at"`
}

// RawMetricRecord is what the collector service returns before analysis.
type RawMetricRecord struct {
	VideoID      string    `json:"video_id"`
	Title        string    `json:"title"`
	ChannelTitle string    `json:"channel_title"`
	CategoryID   string    `json:"category_id"`
	URL          string    `json:"url"`
	ViewCount    int64     `json:"view_count"`
	LikeCount    int64     `json:"like_count"`
	CommentCount int64     `json:"comment_count"`
	PublishedAt  time.Time `json:"published_at"`
	FetchedAt    time.Time `json:"fetched_at"`
}

type ChannelStat struct {
	Channel    string `json:"channel"`
	Entities   int    `json:"entities"`
	TotalViews int64  `json:"total_views"`
}

type AnalysisSummary struct {
	TotalEntities     int            `json:"total_entities"`
	AverageMetric     float64        `json:"average_metric"`
	TrendingCount     int            `json:"trending_count"`
	CategoryBreakdown map[string]int `json:"category_breakdown"`
	TopChannels       []ChannelStat  `json:"top_channels"`
	KeywordCounts     map[string]int `json:"keyword_counts"`
}

// AnalysisResult is the analyzer service's structured output for one batch.
type AnalysisResult struct {
	Entities []MetricSnapshot `json:"entities"`
	Summary  AnalysisSummary  `json:"summary"`
}
