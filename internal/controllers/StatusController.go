package controllers

import (
	"net/http"
	"tad/internal/trend/interfaces"
	"time"

	json "github.com/goccy/go-json"
)

// StatusController exposes the run guard's state plus the next scheduled
// fire, for operational tooling.
type StatusController struct {
	guard    interfaces.RunGuardInterface
	triggers interfaces.TriggerManagerInterface
}

type statusResponse struct {
	IsRunning        bool       `json:"is_running"`
	LastSuccessAt    *time.Time `json:"last_success_at"`
	NextScheduledRun *time.Time `json:"next_scheduled_run"`
}

func NewStatusController(guard interfaces.RunGuardInterface, triggers interfaces.TriggerManagerInterface) *StatusController {
	return &StatusController{
		guard:    guard,
		triggers: triggers,
	}
}

func (sc *StatusController) Status(w http.ResponseWriter, r *http.Request) {
	state := sc.guard.Status()
	resp := statusResponse{
		IsRunning:        state.IsRunning,
		LastSuccessAt:    state.LastSuccessAt,
		NextScheduledRun: sc.triggers.NextScheduledRun(),
	}

	gson, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}
