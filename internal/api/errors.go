// Umrah Advisor - Pilgrimage Package Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/umrahadvisor

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/umrahadvisor/internal/history"
	"github.com/tomtom215/umrahadvisor/internal/recommend"
)

// API error codes.
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeEncoding           = "ENCODING_ERROR"
	CodeSchemaMismatch     = "SCHEMA_MISMATCH"
	CodePredictionFailed   = "PREDICTION_FAILED"
	CodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	CodeHistoryUnavailable = "HISTORY_UNAVAILABLE"
	CodeQueryFailed        = "QUERY_FAILED"
	CodeInternal           = "INTERNAL_ERROR"
)

// Failure stages for metrics in addition to the prediction stages.
const (
	stageEncode = "encode"
	stageSchema = "schema"
)

// classifyRecommendError maps a pipeline error to an HTTP status, error code
// and metrics stage.
func classifyRecommendError(err error) (status int, code, stage string) {
	var encErr *recommend.EncodingError
	var predErr *recommend.PredictionFailure

	switch {
	case errors.As(err, &encErr):
		return http.StatusUnprocessableEntity, CodeEncoding, stageEncode
	case errors.Is(err, recommend.ErrSchemaMismatch):
		return http.StatusUnprocessableEntity, CodeSchemaMismatch, stageSchema
	case errors.As(err, &predErr):
		return http.StatusInternalServerError, CodePredictionFailed, predErr.Stage
	default:
		return http.StatusInternalServerError, CodeInternal, "unknown"
	}
}

// classifyHistoryError maps a history store error to status and code.
func classifyHistoryError(err error) (int, string) {
	switch {
	case errors.Is(err, history.ErrNotLoaded):
		return http.StatusServiceUnavailable, CodeHistoryUnavailable
	case errors.Is(err, history.ErrInvalidRange):
		return http.StatusBadRequest, CodeValidation
	}
	return http.StatusInternalServerError, CodeQueryFailed
}
