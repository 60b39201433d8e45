package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/frahmantamala/mvd-portal/internal/store"
)

type HealthStatus string

const (
	HealthHealthy   HealthStatus = "healthy"
	HealthUnhealthy HealthStatus = "unhealthy"
)

type HealthResponse struct {
	Status     HealthStatus          `json:"status"`
	CheckedAt  time.Time             `json:"checked_at"`
	Components map[string]CheckEntry `json:"components"`
}

type CheckEntry struct {
	Status     HealthStatus   `json:"status"`
	Message    string         `json:"message,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
	CheckedAt  time.Time      `json:"checked_at"`
	DurationMs int64          `json:"duration_ms"`
}

type HealthHandler struct {
	store *store.Store
}

func NewHealthHandler(st *store.Store) *HealthHandler {
	return &HealthHandler{store: st}
}

func (h *HealthHandler) pingHandler(w http.ResponseWriter, r *http.Request) {
	writeHealthJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

// healthCheckHandler pings the state backend and reports the snapshot revision.
func (h *HealthHandler) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	start := time.Now()
	entry := CheckEntry{Status: HealthHealthy}

	if h.store == nil {
		entry.Status = HealthUnhealthy
		entry.Message = "store not configured"
	} else if err := h.store.Ping(ctx); err != nil {
		entry.Status = HealthUnhealthy
		entry.Message = err.Error()
	} else {
		entry.Details = map[string]any{"revision": h.store.Revision()}
	}
	entry.CheckedAt = time.Now()
	entry.DurationMs = time.Since(start).Milliseconds()

	statusCode := http.StatusOK
	if entry.Status == HealthUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}
	writeHealthJSON(w, statusCode, HealthResponse{
		Status:     entry.Status,
		CheckedAt:  entry.CheckedAt,
		Components: map[string]CheckEntry{"store": entry},
	})
}

func writeHealthJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
