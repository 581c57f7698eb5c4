// Umrah Advisor - Pilgrimage Package Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/umrahadvisor

// Package validation provides struct validation using go-playground/validator v10.
//
// A singleton validator caches struct metadata, reports fields by their json
// names and adds the gender and month tags for customer profile input.
// Failures convert to the VALIDATION_ERROR envelope via ToAPIError.
//
// Example usage:
//
//	type RecommendationRequest struct {
//	    Gender string `json:"gender" validate:"required,gender"`
//	    Age    int    `json:"age" validate:"min=18,max=100"`
//	    Month  string `json:"month" validate:"required,month"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, verr)
//	    return
//	}
package validation
