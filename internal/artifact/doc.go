// Umrah Advisor - Pilgrimage Package Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/umrahadvisor

// Package artifact loads the trained model files used by the recommendation
// pipeline.
//
// Three JSON files are read once at startup:
//
//   - the random forest, exported as per-tree node arrays
//     (children_left, children_right, feature, threshold, value)
//   - the label encoder classes, in the order the forest emits them
//   - the ordered list of feature columns used for fitting
//
// Forest implements recommend.Classifier and LabelEncoder implements
// recommend.LabelDecoder. Any read or validation problem is returned as an
// *Error naming the artifact and path; callers treat it as fatal.
package artifact
