// Umrah Advisor - Pilgrimage Package Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/umrahadvisor

package recommend

// Classifier is a trained model over encoded feature vectors.
type Classifier interface {
	// Predict returns the internal class id with the highest probability.
	Predict(features FeatureVector) (int, error)

	// PredictProba returns one probability per class, in the classifier's
	// native class order.
	PredictProba(features FeatureVector) ([]float64, error)
}

// LabelDecoder maps class ids to package ids.
type LabelDecoder interface {
	Decode(classID int) (string, error)

	// Classes returns package ids in native class order.
	Classes() []string
}

// ClassProbability is one row of the probability table.
type ClassProbability struct {
	PackageID   string  `json:"package_id"`
	DisplayName string  `json:"display_name"`
	Price       string  `json:"price"`
	Probability float64 `json:"probability"`
}

// PackageRecommendation is the pipeline output for one profile.
type PackageRecommendation struct {
	// PackageID is the decoded predicted class.
	PackageID string `json:"package_id"`

	DisplayName string `json:"display_name"`

	// Price is the formatted price or PriceUnknown.
	Price string `json:"price"`

	// Probabilities covers every class, highest first. Ties keep the
	// classifier's class order.
	Probabilities []ClassProbability `json:"probabilities"`

	// SchemeVersion names the encoding used for the request.
	SchemeVersion string `json:"scheme_version"`
}

// Stats are cumulative pipeline counters.
type Stats struct {
	Requests uint64 `json:"requests"`
	Failures uint64 `json:"failures"`
}
