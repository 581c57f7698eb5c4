// Umrah Advisor - Pilgrimage Package Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/umrahadvisor

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/umrahadvisor/internal/logging"
	"github.com/tomtom215/umrahadvisor/internal/metrics"
	"github.com/tomtom215/umrahadvisor/internal/models"
	"github.com/tomtom215/umrahadvisor/internal/recommend"
)

// maxRequestBody caps recommendation request bodies.
const maxRequestBody = 16 << 10

// Recommend handles POST /api/v1/recommendations.
//
// The body is validated, encoded with the active scheme and scored by the
// forest. The response carries the predicted package, its price and the
// probability table sorted by descending probability.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	start := time.Now()
	w.Header().Set("Cache-Control", "no-store")

	var req RecommendationRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, CodeValidation, "Invalid JSON body: "+err.Error(), err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr, nil)
		return
	}

	scheme := h.recommender.Artifacts().Scheme()
	if verr := req.checkAgainstScheme(scheme); verr != nil {
		respondAPIError(w, http.StatusBadRequest, toModelError(verr), nil)
		return
	}

	profile, err := req.toProfile()
	if err != nil {
		respondError(w, http.StatusBadRequest, CodeValidation, err.Error(), err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	rec, err := h.recommender.RecommendProfile(ctx, profile)
	if err != nil {
		status, code, stage := classifyRecommendError(err)
		metrics.RecordPredictionFailure(stage)
		respondAPIError(w, status, &models.APIError{
			Code:    code,
			Message: err.Error(),
			Details: map[string]interface{}{"stage": stage},
		}, err)
		return
	}

	metrics.RecordPrediction(rec.PackageID, time.Since(start))
	logging.Ctx(r.Context()).Info().
		Str("package", rec.PackageID).
		Str("region", sanitizeLogValue(profile.Region)).
		Int("month", profile.DepartureMonth).
		Msg("recommendation served")

	respondSuccess(w, newRecommendationResponse(rec), start)
}

// Packages handles GET /api/v1/packages: every class the model can predict
// with its display name and price.
func (h *Handler) Packages(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	start := time.Now()

	a := h.recommender.Artifacts()
	prices := a.Prices()
	classes := a.Classes()
	packages := make([]PackageResponse, len(classes))
	for i, id := range classes {
		packages[i] = PackageResponse{
			PackageID:   id,
			PackageName: recommend.DisplayName(id),
			Price:       prices.Lookup(id),
		}
	}
	respondSuccess(w, packages, start)
}

// Options handles GET /api/v1/options: the values the form offers.
func (h *Handler) Options(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	start := time.Now()

	scheme := h.recommender.Artifacts().Scheme()
	opts := OptionsResponse{
		SchemeVersion: scheme.Version,
		Genders:       recommend.GenderLabels,
		Regions:       scheme.Regions,
		Months:        recommend.MonthNames,
		MinAge:        18,
		MaxAge:        100,
	}
	if scheme.HasYear() {
		opts.Years = scheme.Years
	}
	respondSuccess(w, opts, start)
}
