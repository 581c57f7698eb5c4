// Umrah Advisor - Pilgrimage Package Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/umrahadvisor

// Package recommend turns a customer profile into a package recommendation.
//
// # Pipeline
//
// A request flows through three steps:
//
//   - Encode: the profile becomes a FeatureRecord using an EncodingScheme
//     (gender code, region position, remapped month, day, optional year).
//   - Project: the record is reordered onto the column list the classifier
//     was trained with. A missing or reordered column is a SchemaMismatchError.
//   - Recommend: the Classifier predicts a class and its probabilities, the
//     LabelDecoder names the class, and the PriceTable prices it.
//
// # Encoding contract
//
// Region codes are positions in the scheme's ordered region list and the
// month code is a fixed function of (year, month). Both must match the
// scheme that produced the deployed model, so schemes are versioned values
// selected by configuration rather than constants:
//
//	scheme, err := recommend.SchemeByVersion("year-conditioned")
//
// # Artifacts
//
// Artifacts bundles the loaded classifier, decoder, column list, scheme and
// price table. It is built once at startup and never mutated, so a single
// Pipeline is safe for concurrent use. Tests construct Artifacts from stub
// collaborators.
//
// # Errors
//
// Encoding problems are *EncodingError or *SchemaMismatchError. Any error
// raised by the classifier or decoder is returned as *PredictionFailure with
// the original cause available through errors.Unwrap.
package recommend
