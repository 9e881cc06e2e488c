package models

import "time"

// RunState is the run guard's externally visible state. It lives only in
// memory and resets on process restart.
type RunState struct {
	IsRunning     bool       `json:"is_running"`
	LastSuccessAt *time.Time `json:"last_success_at"`
}

type RunMode string

const (
	RunModeFull       RunMode = "full"
	RunModeMonitoring RunMode = "monitoring"
)

func (m RunMode) Valid() bool {
	return m == RunModeFull || m == RunModeMonitoring
}

// RunParams parameterizes one orchestrated pipeline run.
type RunParams struct {
	Mode          RunMode `json:"mode"`
	LookbackHours int     `json:"lookback_hours"`
	MaxResults    int     `json:"max_results"`
}

// RunResult summarizes one finished run. Err is nil on success and carries
// the classified stage error otherwise.
type RunResult struct {
	RunID     string        `json:"run_id"`
	Mode      RunMode       `json:"mode"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Collected int           `json:"collected"`
	Analyzed  int           `json:"analyzed"`
	Persisted int           `json:"persisted"`
	Alerts    int           `json:"alerts"`
	Err       error         `json:"-"`
}
