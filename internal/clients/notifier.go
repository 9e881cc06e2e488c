package clients

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"tad/internal/models"
	"tad/internal/providers"
	"tad/internal/structures"

	"github.com/failsafe-go/failsafe-go"
	json "github.com/goccy/go-json"
)

const topChannelsInDigest = 3

// NotifierInterface delivers the three payload kinds to the chat channel.
// Delivery is fire-and-forget from the pipeline's perspective: the caller
// logs failures and moves on, it never retries beyond the shared executor.
type NotifierInterface interface {
	SendDailyReport(ctx context.Context, analysis *models.AnalysisResult, alerts []models.TrendingAlert) error
	SendTrendingAlert(ctx context.Context, alert models.TrendingAlert) error
	SendErrorReport(ctx context.Context, report models.ErrorReport) error
}

type Notifier struct {
	webhookURL string
	client     *http.Client
	executor   failsafe.Executor[*http.Response]
	logger     providers.Logger
}

func NewNotifier(conf *structures.Config, logger providers.Logger) NotifierInterface {
	return &Notifier{
		webhookURL: conf.Notifier.WebhookURL,
		client:     &http.Client{Timeout: conf.Notifier.Timeout},
		executor:   NewHTTPExecutor(conf.Retry),
		logger:     logger,
	}
}

type webhookPayload struct {
	Text string `json:"text"`
}

func (n *Notifier) SendDailyReport(ctx context.Context, analysis *models.AnalysisResult, alerts []models.TrendingAlert) error {
	return n.post(ctx, renderDailyReport(analysis, alerts))
}

func (n *Notifier) SendTrendingAlert(ctx context.Context, alert models.TrendingAlert) error {
	return n.post(ctx, renderTrendingAlert(alert))
}

func (n *Notifier) SendErrorReport(ctx context.Context, report models.ErrorReport) error {
	return n.post(ctx, renderErrorReport(report))
}

func (n *Notifier) post(ctx context.Context, text string) error {
	body, err := json.Marshal(webhookPayload{Text: text})
	if err != nil {
		return fmt.Errorf("webhook payload encode failed: %w", err)
	}

	resp, err := doWithRetry(ctx, n.executor, n.client, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
	if err != nil {
		return fmt.Errorf("webhook delivery failed: %w", err)
	}
	defer resp.Body.Close()

	return checkStatus(resp, "webhook")
}

func renderDailyReport(analysis *models.AnalysisResult, alerts []models.TrendingAlert) string {
	var b strings.Builder
	s := analysis.Summary

	fmt.Fprintf(&b, ":bar_chart: Daily trend report\n")
	fmt.Fprintf(&b, "Entities analyzed: %d | avg views: %.0f | trending: %d\n",
		s.TotalEntities, s.AverageMetric, s.TrendingCount)

	if len(s.TopChannels) > 0 {
		b.WriteString("Top channels:\n")
		for i, ch := range s.TopChannels {
			if i >= topChannelsInDigest {
				break
			}
			fmt.Fprintf(&b, "  %d. %s — %d videos, %d views\n", i+1, ch.Channel, ch.Entities, ch.TotalViews)
		}
	}

	if len(s.CategoryBreakdown) > 0 {
		b.WriteString("Categories: ")
		b.WriteString(formatCounts(s.CategoryBreakdown))
		b.WriteString("\n")
	}

	if len(s.KeywordCounts) > 0 {
		b.WriteString("Keywords: ")
		b.WriteString(formatCounts(s.KeywordCounts))
		b.WriteString("\n")
	}

	if len(alerts) > 0 {
		fmt.Fprintf(&b, "Rapidly trending now: %d\n", len(alerts))
	}
	return b.String()
}

func renderTrendingAlert(alert models.TrendingAlert) string {
	growth := "n/a (no baseline views)"
	if alert.RelativeDefined {
		growth = fmt.Sprintf("%.1f%%", alert.RelativeGrowthPct)
	}
	return fmt.Sprintf(
		":fire: Rapid growth: %s\n%s | +%d views in %.1fh (growth %s)\n%s",
		alert.Current.Title, alert.Current.Channel,
		alert.AbsoluteDelta, alert.ElapsedHours, growth, alert.Current.URL,
	)
}

func renderErrorReport(report models.ErrorReport) string {
	return fmt.Sprintf(
		":rotating_light: Trend analysis run %s failed at stage %q\n%s\nat %s",
		report.RunID, report.Stage, report.Message, report.Timestamp.Format("2006-01-02 15:04:05 MST"),
	)
}

// formatCounts renders a count map as "a: 3, b: 1", highest first, capped
// at five entries.
func formatCounts(counts map[string]int) string {
	type kv struct {
		key   string
		count int
	}
	pairs := make([]kv, 0, len(counts))
	for k, v := range counts {
		pairs = append(pairs, kv{k, v})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].count != pairs[j].count {
			return pairs[i].count > pairs[j].count
		}
		return pairs[i].key < pairs[j].key
	})
	if len(pairs) > 5 {
		pairs = pairs[:5]
	}

	parts := make([]string, len(pairs))
	for i, p := range pairs {
		parts[i] = fmt.Sprintf("%s: %d", p.key, p.count)
	}
	return strings.Join(parts, ", ")
}
