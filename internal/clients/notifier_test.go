package clients

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"tad/internal/models"
	"tad/internal/structures"
	"tad/internal/testutil"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type webhookRecorder struct {
	mu       sync.Mutex
	payloads []webhookPayload
	status   int
}

func (wr *webhookRecorder) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var p webhookPayload
		_ = json.Unmarshal(body, &p)

		wr.mu.Lock()
		wr.payloads = append(wr.payloads, p)
		status := wr.status
		wr.mu.Unlock()

		if status != 0 {
			w.WriteHeader(status)
		}
	}
}

func (wr *webhookRecorder) last(t *testing.T) webhookPayload {
	t.Helper()
	wr.mu.Lock()
	defer wr.mu.Unlock()
	require.NotEmpty(t, wr.payloads)
	return wr.payloads[len(wr.payloads)-1]
}

func notifierConfig(webhookURL string) *structures.Config {
	return &structures.Config{
		Notifier: structures.NotifierConfig{
			WebhookURL: webhookURL,
			Timeout:    5 * time.Second,
		},
		Retry: testRetryConfig(),
	}
}

func sampleAlert() models.TrendingAlert {
	return models.TrendingAlert{
		EntityID: "a",
		Current: models.MetricSnapshot{
			EntityID: "a", Title: "Surprise hit", Channel: "SomeChannel",
			URL: "https://example.com/watch?v=a", ViewCount: 160000,
		},
		Previous:          models.MetricSnapshot{EntityID: "a", ViewCount: 100000},
		ElapsedHours:      2.0,
		AbsoluteDelta:     60000,
		RelativeGrowthPct: 60.0,
		RelativeDefined:   true,
	}
}

func TestNotifier_SendDailyReport(t *testing.T) {
	wr := &webhookRecorder{}
	srv := httptest.NewServer(wr.handler())
	defer srv.Close()

	n := NewNotifier(notifierConfig(srv.URL), &testutil.MockLogger{})
	analysis := &models.AnalysisResult{
		Summary: models.AnalysisSummary{
			TotalEntities: 50,
			AverageMetric: 123456,
			TrendingCount: 2,
			TopChannels: []models.ChannelStat{
				{Channel: "first", Entities: 10, TotalViews: 5000000},
				{Channel: "second", Entities: 8, TotalViews: 3000000},
				{Channel: "third", Entities: 5, TotalViews: 1000000},
				{Channel: "fourth", Entities: 2, TotalViews: 500000},
			},
			CategoryBreakdown: map[string]int{"Music": 20, "Gaming": 15},
			KeywordCounts:     map[string]int{"live": 7, "new": 4},
		},
	}

	err := n.SendDailyReport(context.Background(), analysis, []models.TrendingAlert{sampleAlert()})
	require.NoError(t, err)

	text := wr.last(t).Text
	assert.Contains(t, text, "Daily trend report")
	assert.Contains(t, text, "Entities analyzed: 50")
	assert.Contains(t, text, "trending: 2")
	assert.Contains(t, text, "1. first")
	assert.Contains(t, text, "3. third")
	assert.NotContains(t, text, "fourth") // digest caps top channels
	assert.Contains(t, text, "Music: 20")
	assert.Contains(t, text, "live: 7")
	assert.Contains(t, text, "Rapidly trending now: 1")
}

func TestNotifier_SendTrendingAlert(t *testing.T) {
	wr := &webhookRecorder{}
	srv := httptest.NewServer(wr.handler())
	defer srv.Close()

	n := NewNotifier(notifierConfig(srv.URL), &testutil.MockLogger{})
	require.NoError(t, n.SendTrendingAlert(context.Background(), sampleAlert()))

	text := wr.last(t).Text
	assert.Contains(t, text, "Surprise hit")
	assert.Contains(t, text, "SomeChannel")
	assert.Contains(t, text, "+60000 views in 2.0h")
	assert.Contains(t, text, "60.0%")
	assert.Contains(t, text, "https://example.com/watch?v=a")
}

func TestNotifier_AlertWithoutBaselineViews(t *testing.T) {
	wr := &webhookRecorder{}
	srv := httptest.NewServer(wr.handler())
	defer srv.Close()

	alert := sampleAlert()
	alert.RelativeDefined = false
	alert.RelativeGrowthPct = 0

	n := NewNotifier(notifierConfig(srv.URL), &testutil.MockLogger{})
	require.NoError(t, n.SendTrendingAlert(context.Background(), alert))

	assert.Contains(t, wr.last(t).Text, "n/a (no baseline views)")
}

func TestNotifier_SendErrorReport(t *testing.T) {
	wr := &webhookRecorder{}
	srv := httptest.NewServer(wr.handler())
	defer srv.Close()

	n := NewNotifier(notifierConfig(srv.URL), &testutil.MockLogger{})
	report := models.ErrorReport{
		RunID:     "run-123",
		Stage:     "collect",
		Message:   "collection failed: upstream 503",
		Timestamp: time.Date(2026, 3, 5, 23, 50, 12, 0, time.UTC),
	}
	require.NoError(t, n.SendErrorReport(context.Background(), report))

	text := wr.last(t).Text
	assert.Contains(t, text, "run-123")
	assert.Contains(t, text, `"collect"`)
	assert.Contains(t, text, "upstream 503")
	assert.Contains(t, text, "2026-03-05")
}

func TestNotifier_DeliveryFailureReturnsError(t *testing.T) {
	wr := &webhookRecorder{status: http.StatusNotFound}
	srv := httptest.NewServer(wr.handler())
	defer srv.Close()

	n := NewNotifier(notifierConfig(srv.URL), &testutil.MockLogger{})
	err := n.SendTrendingAlert(context.Background(), sampleAlert())

	require.Error(t, err)
	assert.ErrorContains(t, err, "webhook")
	assert.ErrorContains(t, err, "404")
}

func TestFormatCounts(t *testing.T) {
	counts := map[string]int{"b": 3, "a": 3, "c": 10, "d": 1, "e": 2, "f": 5}

	// Highest first, key order breaks ties, capped at five entries.
	assert.Equal(t, "c: 10, f: 5, a: 3, b: 3, e: 2", formatCounts(counts))
	assert.Equal(t, "", formatCounts(nil))
}
