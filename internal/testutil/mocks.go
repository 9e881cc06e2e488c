package testutil

import (
	"context"
	"sync"
	"tad/internal/models"
	"tad/internal/providers"
	"time"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// CountByLevel returns how many entries were recorded at the given level.
func (m *MockLogger) CountByLevel(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.Logs {
		if e.Level == level {
			n++
		}
	}
	return n
}

// MockMetrics implements providers.MetricsProviderInterface and counts calls.
type MockMetrics struct {
	mu                   sync.Mutex
	Runs                 map[string]int // "mode/status"
	SnapshotsUpserted    int
	AlertsEmitted        int
	NotificationFailures map[string]int
	CacheHits            int
	CacheMisses          int
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) ObserveRunDuration(_ string, _ time.Duration)     {}
func (m *MockMetrics) ObserveStageDuration(_ string, _ time.Duration)   {}

func (m *MockMetrics) IncRunsTotal(mode, status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Runs == nil {
		m.Runs = make(map[string]int)
	}
	m.Runs[mode+"/"+status]++
}

func (m *MockMetrics) AddSnapshotsUpserted(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SnapshotsUpserted += count
}

func (m *MockMetrics) AddAlertsEmitted(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AlertsEmitted += count
}

func (m *MockMetrics) IncNotificationFailures(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.NotificationFailures == nil {
		m.NotificationFailures = make(map[string]int)
	}
	m.NotificationFailures[kind]++
}

func (m *MockMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}

func (m *MockMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}

// MockStore implements store.SnapshotStoreInterface in memory.
type MockStore struct {
	mu        sync.Mutex
	Snapshots map[string]models.MetricSnapshot
	Reports   map[string]models.AggregateReport // keyed by report date

	LatestErr  error
	UpsertErr  error
	PingErr    error
	UpsertedAt []time.Time
}

func NewMockStore() *MockStore {
	return &MockStore{
		Snapshots: make(map[string]models.MetricSnapshot),
		Reports:   make(map[string]models.AggregateReport),
	}
}

func (m *MockStore) Latest(_ context.Context, entityID string) (*models.MetricSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LatestErr != nil {
		return nil, m.LatestErr
	}
	snap, ok := m.Snapshots[entityID]
	if !ok {
		return nil, nil
	}
	return &snap, nil
}

func (m *MockStore) UpsertSnapshots(_ context.Context, batch []models.MetricSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpsertErr != nil {
		return m.UpsertErr
	}
	for _, s := range batch {
		m.Snapshots[s.EntityID] = s
	}
	m.UpsertedAt = append(m.UpsertedAt, time.Now())
	return nil
}

func (m *MockStore) UpsertAggregateReport(_ context.Context, report *models.AggregateReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpsertErr != nil {
		return m.UpsertErr
	}
	m.Reports[report.ReportDate.Format("2006-01-02")] = *report
	return nil
}

func (m *MockStore) UpsertAll(ctx context.Context, batch []models.MetricSnapshot, report *models.AggregateReport) error {
	m.mu.Lock()
	if m.UpsertErr != nil {
		m.mu.Unlock()
		return m.UpsertErr
	}
	m.mu.Unlock()
	if err := m.UpsertSnapshots(ctx, batch); err != nil {
		return err
	}
	return m.UpsertAggregateReport(ctx, report)
}

func (m *MockStore) Ping(_ context.Context) error { return m.PingErr }
func (m *MockStore) Close() error                 { return nil }

func (m *MockStore) SnapshotCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Snapshots)
}

// MockCollector implements clients.CollectorInterface.
type MockCollector struct {
	mu      sync.Mutex
	Records []models.RawMetricRecord
	Err     error
	Calls   []CollectCall
}

type CollectCall struct {
	LookbackHours int
	MaxResults    int
}

func (m *MockCollector) Collect(_ context.Context, lookbackHours, maxResults int) ([]models.RawMetricRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, CollectCall{LookbackHours: lookbackHours, MaxResults: maxResults})
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Records, nil
}

// MockAnalyzer implements clients.AnalyzerInterface.
type MockAnalyzer struct {
	mu     sync.Mutex
	Result *models.AnalysisResult
	Err    error
	Calls  int
}

func (m *MockAnalyzer) Analyze(_ context.Context, _ []models.RawMetricRecord) (*models.AnalysisResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Result, nil
}

// MockNotifier implements clients.NotifierInterface and records payloads.
type MockNotifier struct {
	mu           sync.Mutex
	DailyReports []*models.AnalysisResult
	Alerts       []models.TrendingAlert
	ErrorReports []models.ErrorReport

	DailyErr error
	AlertErr error
	ErrorErr error
}

func (m *MockNotifier) SendDailyReport(_ context.Context, analysis *models.AnalysisResult, _ []models.TrendingAlert) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DailyReports = append(m.DailyReports, analysis)
	return m.DailyErr
}

func (m *MockNotifier) SendTrendingAlert(_ context.Context, alert models.TrendingAlert) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Alerts = append(m.Alerts, alert)
	return m.AlertErr
}

func (m *MockNotifier) SendErrorReport(_ context.Context, report models.ErrorReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ErrorReports = append(m.ErrorReports, report)
	return m.ErrorErr
}

func (m *MockNotifier) AlertCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Alerts)
}

// MockCompressor passes data through unchanged.
type MockCompressor struct{}

func (m *MockCompressor) Compress(val []byte) ([]byte, error)   { return val, nil }
func (m *MockCompressor) Decompress(val []byte) ([]byte, error) { return val, nil }
func (m *MockCompressor) Close()                                {}
