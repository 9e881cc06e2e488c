package controllers

import (
	"net/http"
	"tad/internal/models"
	"tad/internal/providers"
	"tad/internal/trend/interfaces"

	json "github.com/goccy/go-json"
)

// TriggerController is the manual run entry point. It answers immediately
// with "started" or "already running" and never blocks on the pipeline.
type TriggerController struct {
	logger   providers.Logger
	triggers interfaces.TriggerManagerInterface
}

type triggerResponse struct {
	Status string `json:"status"`
	Mode   string `json:"mode,omitempty"`
}

func NewTriggerController(logger providers.Logger, triggers interfaces.TriggerManagerInterface) *TriggerController {
	return &TriggerController{
		logger:   logger,
		triggers: triggers,
	}
}

func (tc *TriggerController) Run(w http.ResponseWriter, r *http.Request) {
	mode := models.RunMode(r.URL.Query().Get("mode"))
	if mode == "" {
		mode = models.RunModeMonitoring
	}
	if !mode.Valid() {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	tc.logger.Infof(providers.GetLogTypeByRequestType(r.Method), "Manual run requested, mode=%s", mode)

	if tc.triggers.TriggerManual(mode) {
		writeJSON(w, http.StatusAccepted, triggerResponse{Status: "started", Mode: string(mode)})
		return
	}
	writeJSON(w, http.StatusConflict, triggerResponse{Status: "already running"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	gson, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}
