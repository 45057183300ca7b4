package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	applog "recipebook/internal/log"
)

type healthResponse struct {
	Status string    `json:"status"`
	Time   time.Time `json:"time"`
}

// Health is a simple liveness handler suitable for infrastructure probes.
func Health(w http.ResponseWriter, r *http.Request) {
	applog.Debug(r.Context(), "health check requested", "method", r.Method)
	resp := healthResponse{
		Status: "ok",
		Time:   time.Now().UTC(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		applog.Error(r.Context(), "failed to encode health response", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// Ready reports whether the database answers a ping.
func Ready(w http.ResponseWriter, r *http.Request) {
	if database == nil {
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "no database", Time: time.Now().UTC()})
		return
	}

	sqlDB, err := database.DB()
	if err == nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		applog.Error(r.Context(), "readiness check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable", Time: time.Now().UTC()})
		return
	}

	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Time: time.Now().UTC()})
}
