// Umrah Advisor - Pilgrimage Package Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/umrahadvisor

package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/tomtom215/umrahadvisor/internal/history"
	"github.com/tomtom215/umrahadvisor/internal/logging"
)

// historyQuery runs fn against the history store and writes the envelope.
// Without a store every chart answers 503.
func (h *Handler) historyQuery(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, store HistoryStore) (interface{}, error)) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	if h.history == nil {
		respondError(w, http.StatusServiceUnavailable, CodeHistoryUnavailable, "Booking history is not configured", nil)
		return
	}
	start := time.Now()

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	data, err := fn(ctx, h.history)
	if err != nil {
		status, code := classifyHistoryError(err)
		message := "Failed to query booking history"
		if code == CodeValidation {
			message = err.Error()
		}
		respondError(w, status, code, message, err)
		return
	}
	respondSuccess(w, data, start)
}

// HistoryPackages handles GET /api/v1/history/packages.
func (h *Handler) HistoryPackages(w http.ResponseWriter, r *http.Request) {
	h.historyQuery(w, r, func(ctx context.Context, s HistoryStore) (interface{}, error) {
		return s.PackageDistribution(ctx)
	})
}

// HistoryMonthly handles GET /api/v1/history/monthly?since=YYYY-MM-DD.
func (h *Handler) HistoryMonthly(w http.ResponseWriter, r *http.Request) {
	req := HistoryRangeRequest{Since: r.URL.Query().Get("since")}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr, nil)
		return
	}
	h.historyQuery(w, r, func(ctx context.Context, s HistoryStore) (interface{}, error) {
		return s.MonthlyBookings(ctx, req.sinceTime())
	})
}

// HistoryPackagesPerMonth handles
// GET /api/v1/history/packages-per-month?from=YYYY-MM&to=YYYY-MM.
func (h *Handler) HistoryPackagesPerMonth(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := HistoryRangeRequest{From: q.Get("from"), To: q.Get("to")}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr, nil)
		return
	}
	if req.From != "" && req.To != "" {
		if req.To < req.From {
			respondError(w, http.StatusBadRequest, CodeValidation, "to must not be before from", nil)
			return
		}
		if span := req.monthSpan(); span > history.MaxRangeMonths {
			respondError(w, http.StatusBadRequest, CodeValidation,
				fmt.Sprintf("range spans %d months, limit is %d", span, history.MaxRangeMonths), nil)
			return
		}
	}
	h.historyQuery(w, r, func(ctx context.Context, s HistoryStore) (interface{}, error) {
		return s.PackagesPerMonth(ctx, req.From, req.To)
	})
}

// HistoryAgeGroups handles GET /api/v1/history/age-groups.
func (h *Handler) HistoryAgeGroups(w http.ResponseWriter, r *http.Request) {
	h.historyQuery(w, r, func(ctx context.Context, s HistoryStore) (interface{}, error) {
		return s.AgeGroups(ctx)
	})
}

// HistoryGender handles GET /api/v1/history/gender.
func (h *Handler) HistoryGender(w http.ResponseWriter, r *http.Request) {
	h.historyQuery(w, r, func(ctx context.Context, s HistoryStore) (interface{}, error) {
		return s.GenderByPackage(ctx)
	})
}

// HistoryReload handles POST /api/v1/history/reload: re-reads the bookings
// export and drops cached charts.
func (h *Handler) HistoryReload(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	if h.history == nil {
		respondError(w, http.StatusServiceUnavailable, CodeHistoryUnavailable, "Booking history is not configured", nil)
		return
	}
	start := time.Now()
	w.Header().Set("Cache-Control", "no-store")

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.history.Reload(ctx); err != nil {
		respondError(w, http.StatusInternalServerError, CodeQueryFailed, "Failed to reload booking history", err)
		return
	}
	logging.Ctx(r.Context()).Info().Int64("rows", h.history.Stats().Rows).Msg("booking history reloaded")
	respondSuccess(w, h.history.Stats(), start)
}
