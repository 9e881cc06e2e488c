package trend

import (
	"context"
	"sync"
	"tad/internal/models"
	"tad/internal/providers"
	"tad/internal/structures"
	"tad/internal/trend/interfaces"
	"time"

	"github.com/roylee0704/gron"
)

// TriggerManager owns the two standing triggers (daily full analysis,
// periodic monitoring) and the manual entry point. Every fire goes through
// the run guard: a busy guard means the fire is skipped, never queued.
type TriggerManager struct {
	config       *structures.Config
	logger       providers.Logger
	guard        interfaces.RunGuardInterface
	orchestrator interfaces.OrchestratorInterface
	cron         *gron.Cron
	loc          *time.Location

	mu               sync.Mutex
	monitoringAnchor time.Time
}

func NewTriggerManager(
	config *structures.Config,
	logger providers.Logger,
	guard interfaces.RunGuardInterface,
	orchestrator interfaces.OrchestratorInterface,
) interfaces.TriggerManagerInterface {
	return &TriggerManager{
		config:       config,
		logger:       logger,
		guard:        guard,
		orchestrator: orchestrator,
	}
}

func (tm *TriggerManager) Init() {
	tm.cron = gron.New()

	loc, err := time.LoadLocation(tm.config.Scheduler.Timezone)
	if err != nil {
		tm.logger.Warnf(providers.TypeApp, "Timezone %q not loadable, falling back to local: %s",
			tm.config.Scheduler.Timezone, err)
		loc = time.Local
	}
	tm.loc = loc

	tm.mu.Lock()
	tm.monitoringAnchor = time.Now()
	tm.mu.Unlock()

	tm.cron.AddFunc(gron.Every(24*time.Hour).At(tm.dailyAtServerLocal()), func() {
		tm.fire("daily", tm.paramsFor(models.RunModeFull))
	})

	tm.cron.AddFunc(gron.Every(tm.config.Scheduler.MonitoringEvery), func() {
		tm.mu.Lock()
		tm.monitoringAnchor = time.Now()
		tm.mu.Unlock()
		tm.fire("monitoring", tm.paramsFor(models.RunModeMonitoring))
	})

	tm.cron.Start()
	tm.logger.Infof(providers.TypeApp, "Triggers armed: daily at %s %s, monitoring every %s",
		tm.config.Scheduler.DailyAt, tm.config.Scheduler.Timezone, tm.config.Scheduler.MonitoringEvery)
}

func (tm *TriggerManager) Stop() {
	if tm.cron != nil {
		tm.cron.Stop()
	}
}

// TriggerManual admits a run with the same semantics as a scheduled fire
// and returns immediately; the pipeline runs in its own goroutine.
func (tm *TriggerManager) TriggerManual(mode models.RunMode) bool {
	if !tm.guard.TryAcquire() {
		tm.logger.Infof(providers.TypeRun, "Manual trigger rejected: run already in flight")
		return false
	}
	go tm.runAdmitted("manual", tm.paramsFor(mode))
	return true
}

// NextScheduledRun reports the earlier of the next daily fire and the next
// monitoring fire, for the status endpoint.
func (tm *TriggerManager) NextScheduledRun() *time.Time {
	if tm.cron == nil {
		return nil
	}

	now := time.Now()
	next := tm.nextDaily(now)

	tm.mu.Lock()
	nextMonitoring := tm.monitoringAnchor.Add(tm.config.Scheduler.MonitoringEvery)
	tm.mu.Unlock()
	if nextMonitoring.Before(next) {
		next = nextMonitoring
	}

	return &next
}

// fire runs in gron's trigger goroutine. Guard rejection is expected
// behavior whenever runs overlap a trigger boundary, so it logs at info.
func (tm *TriggerManager) fire(name string, params models.RunParams) {
	if !tm.guard.TryAcquire() {
		tm.logger.Infof(providers.TypeRun, "Trigger %q skipped: run already in flight", name)
		return
	}
	tm.runAdmitted(name, params)
}

// runAdmitted owns the guard from here on; release is unconditional.
func (tm *TriggerManager) runAdmitted(name string, params models.RunParams) {
	success := false
	defer func() {
		tm.guard.Release(success)
	}()

	tm.logger.Infof(providers.TypeRun, "Trigger %q admitted, mode=%s", name, params.Mode)
	res := tm.orchestrator.Run(context.Background(), params)
	success = res.Err == nil
}

func (tm *TriggerManager) paramsFor(mode models.RunMode) models.RunParams {
	sc := tm.config.Scheduler
	if mode == models.RunModeFull {
		return models.RunParams{
			Mode:          models.RunModeFull,
			LookbackHours: sc.DailyLookbackHours,
			MaxResults:    sc.MaxResults,
		}
	}
	return models.RunParams{
		Mode:          models.RunModeMonitoring,
		LookbackHours: sc.MonitoringLookbackHours,
		MaxResults:    sc.MaxResults,
	}
}

// dailyAtServerLocal converts the configured wall-clock time in the
// configured timezone into the server-local "HH:MM" string gron expects.
// The offset is fixed when the trigger is armed: a DST transition in
// either zone shifts the fire by an hour until the process restarts,
// which the daily report's date-keyed upsert tolerates.
func (tm *TriggerManager) dailyAtServerLocal() string {
	at, err := time.Parse("15:04", tm.config.Scheduler.DailyAt)
	if err != nil {
		// Validated at config load; fall back to midnight if it slipped through.
		tm.logger.Errorf(providers.TypeApp, "Invalid dailyAt %q: %s", tm.config.Scheduler.DailyAt, err)
		return "00:00"
	}

	now := time.Now().In(tm.loc)
	inZone := time.Date(now.Year(), now.Month(), now.Day(), at.Hour(), at.Minute(), 0, 0, tm.loc)
	return inZone.In(time.Local).Format("15:04")
}

func (tm *TriggerManager) nextDaily(now time.Time) time.Time {
	at, err := time.Parse("15:04", tm.config.Scheduler.DailyAt)
	if err != nil {
		return now.Add(24 * time.Hour)
	}

	local := now.In(tm.loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), at.Hour(), at.Minute(), 0, 0, tm.loc)
	if !next.After(now) {
		next = next.Add(24 * time.Hour)
	}
	return next
}
