package interfaces

import (
	"context"
	"tad/internal/models"
	"time"
)

// TriggerManagerInterface owns the standing triggers and the manual run
// entry point. TriggerManual returns false when the run guard rejects the
// request because a run is already in flight.
type TriggerManagerInterface interface {
	Init()
	Stop()
	TriggerManual(mode models.RunMode) bool
	NextScheduledRun() *time.Time
}

// RunGuardInterface is the single mutual-exclusion point for pipeline runs.
// Between a TryAcquire that returned true and the matching Release, every
// other TryAcquire returns false.
type RunGuardInterface interface {
	TryAcquire() bool
	Release(success bool)
	Status() models.RunState
}

type OrchestratorInterface interface {
	Run(ctx context.Context, params models.RunParams) models.RunResult
}
