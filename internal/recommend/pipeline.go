// Umrah Advisor - Pilgrimage Package Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/umrahadvisor

package recommend

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/umrahadvisor/internal/logging"
)

// Artifacts is the read-only context shared by all requests.
type Artifacts struct {
	classifier Classifier
	decoder    LabelDecoder
	columns    []string
	scheme     EncodingScheme
	prices     PriceTable
}

// NewArtifacts validates and copies the loaded collaborators.
func NewArtifacts(c Classifier, d LabelDecoder, columns []string, scheme EncodingScheme, prices PriceTable) (*Artifacts, error) {
	if c == nil {
		return nil, errors.New("classifier is required")
	}
	if d == nil {
		return nil, errors.New("label decoder is required")
	}
	if len(columns) == 0 {
		return nil, errors.New("feature columns are required")
	}
	if err := scheme.Validate(); err != nil {
		return nil, err
	}
	return &Artifacts{
		classifier: c,
		decoder:    d,
		columns:    slices.Clone(columns),
		scheme:     scheme.clone(),
		prices:     prices,
	}, nil
}

// Columns returns a copy of the expected feature columns.
func (a *Artifacts) Columns() []string { return slices.Clone(a.columns) }

// Scheme returns the encoding scheme.
func (a *Artifacts) Scheme() EncodingScheme {
	return a.scheme.clone()
}

// Prices returns the price table.
func (a *Artifacts) Prices() PriceTable { return a.prices }

// Classes returns the package ids known to the decoder.
func (a *Artifacts) Classes() []string { return slices.Clone(a.decoder.Classes()) }

// Pipeline encodes profiles and queries the classifier.
type Pipeline struct {
	artifacts *Artifacts
	logger    zerolog.Logger

	requests atomic.Uint64
	failures atomic.Uint64
}

// NewPipeline binds a pipeline to artifacts.
func NewPipeline(a *Artifacts, logger zerolog.Logger) (*Pipeline, error) {
	if a == nil {
		return nil, errors.New("artifacts are required")
	}
	return &Pipeline{
		artifacts: a,
		logger:    logger.With().Str("component", "recommend").Logger(),
	}, nil
}

// Artifacts returns the bound artifacts.
func (p *Pipeline) Artifacts() *Artifacts {
	return p.artifacts
}

// Encode encodes profile and projects it onto the artifact columns.
func (p *Pipeline) Encode(profile CustomerProfile) (FeatureVector, error) {
	rec, err := Encode(p.artifacts.scheme, profile)
	if err != nil {
		return FeatureVector{}, err
	}
	return rec.Project(p.artifacts.columns)
}

// RecommendProfile runs Encode then Recommend.
func (p *Pipeline) RecommendProfile(ctx context.Context, profile CustomerProfile) (*PackageRecommendation, error) {
	fv, err := p.Encode(profile)
	if err != nil {
		p.requests.Add(1)
		p.failures.Add(1)
		return nil, err
	}
	return p.Recommend(ctx, fv)
}

// Recommend queries the classifier with features and builds the result.
//
// The vector must already match the artifact columns. Classifier and decoder
// errors are returned as *PredictionFailure.
func (p *Pipeline) Recommend(ctx context.Context, features FeatureVector) (*PackageRecommendation, error) {
	start := time.Now()
	p.requests.Add(1)

	rec, err := p.recommend(features)
	if err != nil {
		p.failures.Add(1)
		p.logger.Debug().
			Str("request_id", logging.RequestIDFromContext(ctx)).
			Err(err).
			Msg("recommendation failed")
		return nil, err
	}

	p.logger.Debug().
		Str("request_id", logging.RequestIDFromContext(ctx)).
		Str("package", rec.PackageID).
		Float64("probability", rec.Probabilities[0].Probability).
		Dur("latency", time.Since(start)).
		Msg("recommendation complete")
	return rec, nil
}

func (p *Pipeline) recommend(fv FeatureVector) (*PackageRecommendation, error) {
	if !slices.Equal(fv.Columns, p.artifacts.columns) || len(fv.Values) != len(fv.Columns) {
		return nil, &SchemaMismatchError{
			Missing:  missingColumns(p.artifacts.columns, fv.Columns),
			Expected: slices.Clone(p.artifacts.columns),
			Got:      slices.Clone(fv.Columns),
		}
	}

	a := p.artifacts
	classID, err := a.classifier.Predict(fv)
	if err != nil {
		return nil, &PredictionFailure{Stage: StagePredict, Err: err}
	}
	proba, err := a.classifier.PredictProba(fv)
	if err != nil {
		return nil, &PredictionFailure{Stage: StagePredictProba, Err: err}
	}
	packageID, err := a.decoder.Decode(classID)
	if err != nil {
		return nil, &PredictionFailure{Stage: StageDecode, Err: err}
	}

	classes := a.decoder.Classes()
	if len(classes) == 0 {
		return nil, &PredictionFailure{Stage: StageDecode, Err: errors.New("label decoder has no classes")}
	}
	if len(classes) != len(proba) {
		return nil, &PredictionFailure{
			Stage: StagePredictProba,
			Err:   fmt.Errorf("classifier returned %d probabilities for %d classes", len(proba), len(classes)),
		}
	}

	table := make([]ClassProbability, len(classes))
	for i, id := range classes {
		table[i] = ClassProbability{
			PackageID:   id,
			DisplayName: DisplayName(id),
			Price:       a.prices.Lookup(id),
			Probability: proba[i],
		}
	}
	sort.SliceStable(table, func(i, j int) bool {
		return table[i].Probability > table[j].Probability
	})

	return &PackageRecommendation{
		PackageID:     packageID,
		DisplayName:   DisplayName(packageID),
		Price:         a.prices.Lookup(packageID),
		Probabilities: table,
		SchemeVersion: a.scheme.Version,
	}, nil
}

// Stats returns cumulative counters.
func (p *Pipeline) Stats() Stats {
	return Stats{
		Requests: p.requests.Load(),
		Failures: p.failures.Load(),
	}
}

// missingColumns returns expected columns absent from got.
func missingColumns(expected, got []string) []string {
	var missing []string
	for _, c := range expected {
		if !slices.Contains(got, c) {
			missing = append(missing, c)
		}
	}
	return missing
}
