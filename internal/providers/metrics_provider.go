package providers

import (
	"tad/internal/structures"
	"tad/internal/trend/interfaces"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncRunsTotal(mode, status string)
	ObserveRunDuration(mode string, duration time.Duration)
	ObserveStageDuration(stage string, duration time.Duration)
	AddSnapshotsUpserted(count int)
	AddAlertsEmitted(count int)
	IncNotificationFailures(kind string)
	IncCacheHits()
	IncCacheMisses()
}

type MetricsProvider struct {
	requestsTotal        *prometheus.CounterVec
	requestDuration      *prometheus.HistogramVec
	runsTotal            *prometheus.CounterVec
	runDuration          *prometheus.HistogramVec
	stageDuration        *prometheus.HistogramVec
	snapshotsUpserted    prometheus.Counter
	alertsEmitted        prometheus.Counter
	notificationFailures *prometheus.CounterVec
	cacheHits            prometheus.Counter
	cacheMisses          prometheus.Counter
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncRunsTotal(mode, status string) {
	m.runsTotal.WithLabelValues(mode, status).Inc()
}

func (m *MetricsProvider) ObserveRunDuration(mode string, duration time.Duration) {
	m.runDuration.WithLabelValues(mode).Observe(duration.Seconds())
}

func (m *MetricsProvider) ObserveStageDuration(stage string, duration time.Duration) {
	m.stageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

func (m *MetricsProvider) AddSnapshotsUpserted(count int) {
	m.snapshotsUpserted.Add(float64(count))
}

func (m *MetricsProvider) AddAlertsEmitted(count int) {
	m.alertsEmitted.Add(float64(count))
}

func (m *MetricsProvider) IncNotificationFailures(kind string) {
	m.notificationFailures.WithLabelValues(kind).Inc()
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config, guard interfaces.RunGuardInterface) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	m := &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tad_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tad_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		runsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tad_runs_total",
			Help: "Total number of pipeline runs by mode and outcome",
		}, []string{"mode", "status"}),

		runDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tad_run_duration_seconds",
			Help:    "Duration of whole pipeline runs in seconds",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
		}, []string{"mode"}),

		stageDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tad_stage_duration_seconds",
			Help:    "Duration of individual pipeline stages in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"stage"}),

		snapshotsUpserted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tad_snapshots_upserted_total",
			Help: "Total number of metric snapshots written to the store",
		}),

		alertsEmitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tad_alerts_emitted_total",
			Help: "Total number of trending alerts emitted by growth detection",
		}),

		notificationFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tad_notification_failures_total",
			Help: "Total number of failed notifier deliveries by payload kind",
		}, []string{"kind"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tad_cache_hits_total",
			Help: "Total number of snapshot cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tad_cache_misses_total",
			Help: "Total number of snapshot cache misses",
		}),
	}

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "tad_run_in_flight",
		Help: "1 while a pipeline run is active, 0 otherwise",
	}, func() float64 {
		if guard.Status().IsRunning {
			return 1
		}
		return 0
	})

	return m
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                  {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration)  {}
func (n *noopMetrics) IncRunsTotal(_, _ string)                          {}
func (n *noopMetrics) ObserveRunDuration(_ string, _ time.Duration)      {}
func (n *noopMetrics) ObserveStageDuration(_ string, _ time.Duration)    {}
func (n *noopMetrics) AddSnapshotsUpserted(_ int)                        {}
func (n *noopMetrics) AddAlertsEmitted(_ int)                            {}
func (n *noopMetrics) IncNotificationFailures(_ string)                  {}
func (n *noopMetrics) IncCacheHits()                                     {}
func (n *noopMetrics) IncCacheMisses()                                   {}
