package controllers

import (
	"context"
	"fmt"
	"net/http"
	"tad/internal/store"
	"time"

	json "github.com/goccy/go-json"
)

const storePingTimeout = 2 * time.Second

type HealthController struct {
	store     store.SnapshotStoreInterface
	startTime time.Time
}

type healthResponse struct {
	Status        string  `json:"status"`
	Uptime        string  `json:"uptime"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	Database      string  `json:"database"`
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), storePingTimeout)
	defer cancel()

	status, database := "ok", "ok"
	if err := hc.store.Ping(ctx); err != nil {
		status, database = "degraded", err.Error()
	}

	uptime := time.Since(hc.startTime)
	resp := healthResponse{
		Status:        status,
		Uptime:        formatDuration(uptime),
		UptimeSeconds: uptime.Seconds(),
		Database:      database,
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

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func NewHealthController(store store.SnapshotStoreInterface) *HealthController {
	return &HealthController{
		store:     store,
		startTime: time.Now(),
	}
}
