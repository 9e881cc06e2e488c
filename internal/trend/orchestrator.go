package trend

import (
	"context"
	"sort"
	"tad/internal/clients"
	"tad/internal/models"
	"tad/internal/providers"
	"tad/internal/store"
	"tad/internal/structures"
	"tad/internal/trend/interfaces"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Orchestrator sequences one pipeline run: collect, analyze, detect,
// persist, notify. Stage failures in collect/analyze/persist abort the run
// with a classified error and one best-effort error report; detection and
// notification failures are logged and absorbed.
type Orchestrator struct {
	config    *structures.Config
	logger    providers.Logger
	store     store.SnapshotStoreInterface
	collector clients.CollectorInterface
	analyzer  clients.AnalyzerInterface
	notifier  clients.NotifierInterface
	metrics   providers.MetricsProviderInterface
}

func NewOrchestrator(
	config *structures.Config,
	logger providers.Logger,
	st store.SnapshotStoreInterface,
	collector clients.CollectorInterface,
	analyzer clients.AnalyzerInterface,
	notifier clients.NotifierInterface,
	metrics providers.MetricsProviderInterface,
) interfaces.OrchestratorInterface {
	return &Orchestrator{
		config:    config,
		logger:    logger,
		store:     st,
		collector: collector,
		analyzer:  analyzer,
		notifier:  notifier,
		metrics:   metrics,
	}
}

func (o *Orchestrator) Run(ctx context.Context, params models.RunParams) models.RunResult {
	res := models.RunResult{
		RunID:     uuid.NewString(),
		Mode:      params.Mode,
		StartedAt: time.Now(),
	}

	o.logger.Infof(providers.TypeRun, "[%s] run started: mode=%s lookback=%dh max=%d",
		res.RunID, params.Mode, params.LookbackHours, params.MaxResults)

	// Collect
	stageStart := time.Now()
	records, err := o.collector.Collect(ctx, params.LookbackHours, params.MaxResults)
	if err != nil {
		return o.abort(ctx, res, StageCollect, &CollectionError{Err: err})
	}
	o.metrics.ObserveStageDuration(StageCollect, time.Since(stageStart))
	res.Collected = len(records)

	// Analyze
	stageStart = time.Now()
	analysis, err := o.analyzer.Analyze(ctx, records)
	if err != nil {
		return o.abort(ctx, res, StageAnalyze, &AnalysisError{Err: err})
	}
	o.metrics.ObserveStageDuration(StageAnalyze, time.Since(stageStart))
	res.Analyzed = len(analysis.Entities)

	// Detect. Runs in both modes; full runs want the trending count in the
	// aggregate report too. Never blocks persistence.
	stageStart = time.Now()
	alerts := o.detect(ctx, analysis.Entities)
	o.metrics.ObserveStageDuration(StageDetect, time.Since(stageStart))
	sort.Slice(alerts, func(i, j int) bool {
		return alerts[i].AbsoluteDelta > alerts[j].AbsoluteDelta
	})
	res.Alerts = len(alerts)

	// Persist
	stageStart = time.Now()
	if params.Mode == models.RunModeFull {
		report, rerr := buildReport(analysis, len(alerts), res.StartedAt)
		if rerr == nil {
			err = o.store.UpsertAll(ctx, analysis.Entities, report)
		} else {
			err = rerr
		}
	} else {
		err = o.store.UpsertSnapshots(ctx, analysis.Entities)
	}
	if err != nil {
		return o.abort(ctx, res, StagePersist, &PersistenceError{Err: err})
	}
	o.metrics.ObserveStageDuration(StagePersist, time.Since(stageStart))
	res.Persisted = len(analysis.Entities)
	o.metrics.AddSnapshotsUpserted(res.Persisted)
	o.metrics.AddAlertsEmitted(res.Alerts)

	// Notify. Persistence is already committed; delivery failures are
	// isolated per payload and never fail the run.
	o.notify(ctx, res.RunID, params.Mode, analysis, alerts)

	res.Duration = time.Since(res.StartedAt)
	o.metrics.IncRunsTotal(string(params.Mode), "success")
	o.metrics.ObserveRunDuration(string(params.Mode), res.Duration)
	o.logger.Infof(providers.TypeRun, "[%s] run finished: collected=%d analyzed=%d alerts=%d persisted=%d in %s",
		res.RunID, res.Collected, res.Analyzed, res.Alerts, res.Persisted, res.Duration)

	return res
}

func (o *Orchestrator) detect(ctx context.Context, entities []models.MetricSnapshot) []models.TrendingAlert {
	lookup := func(entityID string) *models.MetricSnapshot {
		snap, err := o.store.Latest(ctx, entityID)
		if err != nil {
			o.logger.Warnf(providers.TypeRun, "Baseline lookup for %s failed, entity skipped: %s", entityID, err)
			return nil
		}
		return snap
	}
	return Detect(entities, lookup, o.config.Detector)
}

func (o *Orchestrator) notify(ctx context.Context, runID string, mode models.RunMode, analysis *models.AnalysisResult, alerts []models.TrendingAlert) {
	if mode == models.RunModeFull {
		if err := o.notifier.SendDailyReport(ctx, analysis, alerts); err != nil {
			o.logger.Warnf(providers.TypeRun, "[%s] daily report delivery failed: %s", runID, err)
			o.metrics.IncNotificationFailures("daily_report")
		}
	}

	limit := o.config.Notifier.MaxAlertsPerRun
	for i, alert := range alerts {
		if i >= limit {
			o.logger.Infof(providers.TypeRun, "[%s] %d further alerts not sent (cap %d)", runID, len(alerts)-limit, limit)
			break
		}
		if err := o.notifier.SendTrendingAlert(ctx, alert); err != nil {
			o.logger.Warnf(providers.TypeRun, "[%s] alert delivery for %s failed: %s", runID, alert.EntityID, err)
			o.metrics.IncNotificationFailures("trending_alert")
		}
	}
}

// abort classifies the failed stage, records it, and attempts exactly one
// error report before returning.
func (o *Orchestrator) abort(ctx context.Context, res models.RunResult, stage string, runErr error) models.RunResult {
	res.Err = runErr
	res.Duration = time.Since(res.StartedAt)

	o.logger.Errorf(providers.TypeRun, "[%s] run aborted at stage %s: %s", res.RunID, stage, runErr)
	o.metrics.IncRunsTotal(string(res.Mode), "failed")
	o.metrics.ObserveRunDuration(string(res.Mode), res.Duration)

	report := models.ErrorReport{
		RunID:     res.RunID,
		Stage:     stage,
		Message:   runErr.Error(),
		Timestamp: time.Now(),
	}
	if err := o.notifier.SendErrorReport(ctx, report); err != nil {
		o.logger.Warnf(providers.TypeRun, "[%s] error report delivery failed: %s", res.RunID, err)
		o.metrics.IncNotificationFailures("error_report")
	}

	return res
}

func buildReport(analysis *models.AnalysisResult, trendingCount int, startedAt time.Time) (*models.AggregateReport, error) {
	payload, err := json.Marshal(analysis)
	if err != nil {
		return nil, err
	}

	year, month, day := startedAt.Date()
	return &models.AggregateReport{
		ReportDate:    time.Date(year, month, day, 0, 0, 0, 0, time.UTC),
		TotalEntities: analysis.Summary.TotalEntities,
		AverageMetric: analysis.Summary.AverageMetric,
		TrendingCount: trendingCount,
		Payload:       payload,
	}, nil
}
