// Umrah Advisor - Pilgrimage Package Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/umrahadvisor

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/umrahadvisor/internal/history"
	"github.com/tomtom215/umrahadvisor/internal/models"
)

// HealthStatus is the data of GET /api/v1/health.
type HealthStatus struct {
	Status         string         `json:"status"`
	Version        string         `json:"version"`
	SchemeVersion  string         `json:"scheme_version"`
	Classes        int            `json:"classes"`
	Requests       uint64         `json:"requests"`
	Failures       uint64         `json:"failures"`
	HistoryEnabled bool           `json:"history_enabled"`
	History        *history.Stats `json:"history,omitempty"`
	UptimeSeconds  float64        `json:"uptime_seconds"`
}

// Health handles GET /api/v1/health. The service is "healthy" when artifacts
// are loaded and history, if configured, is loaded; otherwise "degraded".
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	w.Header().Set("Cache-Control", "no-store")

	status := HealthStatus{
		Status:         "healthy",
		Version:        h.version,
		HistoryEnabled: h.history != nil,
		UptimeSeconds:  time.Since(h.startTime).Seconds(),
	}
	if h.recommender != nil {
		a := h.recommender.Artifacts()
		stats := h.recommender.Stats()
		status.SchemeVersion = a.Scheme().Version
		status.Classes = len(a.Classes())
		status.Requests = stats.Requests
		status.Failures = stats.Failures
	} else {
		status.Status = "degraded"
	}
	if h.history != nil {
		hs := h.history.Stats()
		status.History = &hs
		if !hs.Loaded {
			status.Status = "degraded"
		}
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     status,
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// HealthLive handles the liveness probe. It answers 200 while the process
// serves HTTP at all.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	w.Header().Set("Cache-Control", "no-store")

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"alive":  true,
			"uptime": time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// HealthReady handles the readiness probe: 200 once artifacts are loaded,
// 503 otherwise. History does not affect readiness.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	w.Header().Set("Cache-Control", "no-store")

	ready := h.recommender != nil && h.recommender.Artifacts() != nil
	statusCode := http.StatusOK
	status := "ready"
	if !ready {
		statusCode = http.StatusServiceUnavailable
		status = "not_ready"
	}

	respondJSON(w, statusCode, &models.APIResponse{
		Status: status,
		Data: map[string]interface{}{
			"artifacts_loaded": ready,
			"ready_to_serve":   ready,
			"uptime":           time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}
