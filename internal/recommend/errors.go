// Umrah Advisor - Pilgrimage Package Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/umrahadvisor

package recommend

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrSchemaMismatch matches any *SchemaMismatchError via errors.Is.
var ErrSchemaMismatch = errors.New("feature schema mismatch")

// EncodingError reports a categorical value the scheme cannot encode.
type EncodingError struct {
	Field string
	Value string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("cannot encode %s %q", e.Field, e.Value)
}

// SchemaMismatchError reports a feature vector whose columns differ from
// the fit columns. Missing lists expected columns absent from the vector.
// When nothing is missing, Expected and Got show the disagreeing order, or
// the vector carries a different number of values than columns.
type SchemaMismatchError struct {
	Missing  []string
	Expected []string
	Got      []string
}

func (e *SchemaMismatchError) Error() string {
	switch {
	case len(e.Missing) > 0:
		return fmt.Sprintf("%s: missing columns [%s]", ErrSchemaMismatch, strings.Join(e.Missing, ", "))
	case !slices.Equal(e.Expected, e.Got):
		return fmt.Sprintf("%s: columns out of order: got [%s], want [%s]",
			ErrSchemaMismatch, strings.Join(e.Got, ", "), strings.Join(e.Expected, ", "))
	default:
		return fmt.Sprintf("%s: value count does not match columns", ErrSchemaMismatch)
	}
}

func (e *SchemaMismatchError) Is(target error) bool {
	return target == ErrSchemaMismatch
}

// Prediction stages reported in PredictionFailure.Stage.
const (
	StagePredict      = "predict"
	StagePredictProba = "predict_proba"
	StageDecode       = "decode"
)

// PredictionFailure wraps an error raised by the classifier or the label
// decoder.
type PredictionFailure struct {
	Stage string
	Err   error
}

func (e *PredictionFailure) Error() string {
	return fmt.Sprintf("prediction failed at %s: %v", e.Stage, e.Err)
}

func (e *PredictionFailure) Unwrap() error {
	return e.Err
}
