// Umrah Advisor - Pilgrimage Package Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/umrahadvisor

package artifact

import (
	"fmt"
	"math"
	"slices"

	"github.com/tomtom215/umrahadvisor/internal/recommend"
)

// leaf marks a node without children in children_left/children_right.
const leaf = -1

// Tree is one decision tree in array form. Node i splits on
// Feature[i] <= Threshold[i] (left) and is a leaf when ChildrenLeft[i] is -1.
type Tree struct {
	ChildrenLeft  []int       `json:"children_left"`
	ChildrenRight []int       `json:"children_right"`
	Feature       []int       `json:"feature"`
	Threshold     []float64   `json:"threshold"`
	Value         [][]float64 `json:"value"`
}

// Forest is a random-forest classifier that averages per-tree class
// distributions.
type Forest struct {
	NFeatures int `json:"n_features"`
	NClasses  int `json:"n_classes"`

	// FeatureNames, when present, must equal the columns of every vector.
	FeatureNames []string `json:"feature_names,omitempty"`

	Trees []Tree `json:"trees"`
}

var _ recommend.Classifier = (*Forest)(nil)

// Validate checks the forest is structurally sound so prediction cannot
// index out of range or loop.
func (f *Forest) Validate() error {
	if f.NFeatures <= 0 {
		return fmt.Errorf("n_features must be positive, got %d", f.NFeatures)
	}
	if f.NClasses <= 0 {
		return fmt.Errorf("n_classes must be positive, got %d", f.NClasses)
	}
	if len(f.FeatureNames) > 0 && len(f.FeatureNames) != f.NFeatures {
		return fmt.Errorf("feature_names has %d entries, n_features is %d", len(f.FeatureNames), f.NFeatures)
	}
	if len(f.Trees) == 0 {
		return fmt.Errorf("forest has no trees")
	}
	for i := range f.Trees {
		if err := f.Trees[i].validate(f.NFeatures, f.NClasses); err != nil {
			return fmt.Errorf("tree %d: %w", i, err)
		}
	}
	return nil
}

func (t *Tree) validate(nFeatures, nClasses int) error {
	n := len(t.ChildrenLeft)
	if n == 0 {
		return fmt.Errorf("no nodes")
	}
	if len(t.ChildrenRight) != n || len(t.Feature) != n || len(t.Threshold) != n || len(t.Value) != n {
		return fmt.Errorf("node arrays differ in length")
	}
	for i := 0; i < n; i++ {
		l, r := t.ChildrenLeft[i], t.ChildrenRight[i]
		if (l == leaf) != (r == leaf) {
			return fmt.Errorf("node %d has one child", i)
		}
		if l == leaf {
			if len(t.Value[i]) != nClasses {
				return fmt.Errorf("leaf %d has %d class weights, want %d", i, len(t.Value[i]), nClasses)
			}
			if err := checkLeafWeights(t.Value[i]); err != nil {
				return fmt.Errorf("leaf %d %w", i, err)
			}
			continue
		}
		// Children always follow their parent in depth-first export order,
		// which also rules out cycles.
		if l <= i || l >= n || r <= i || r >= n {
			return fmt.Errorf("node %d has children out of range (%d, %d)", i, l, r)
		}
		if t.Feature[i] < 0 || t.Feature[i] >= nFeatures {
			return fmt.Errorf("node %d splits on feature %d of %d", i, t.Feature[i], nFeatures)
		}
	}
	return nil
}

// checkLeafWeights requires finite, non-negative weights with a positive
// total, so every leaf normalises to a distribution summing to 1.
func checkLeafWeights(weights []float64) error {
	total := 0.0
	for c, w := range weights {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return fmt.Errorf("has non-finite weight for class %d", c)
		}
		if w < 0 {
			return fmt.Errorf("has negative weight %g for class %d", w, c)
		}
		total += w
	}
	if total <= 0 {
		return fmt.Errorf("has non-positive total weight")
	}
	return nil
}

// leafDistribution walks x to a leaf and returns its normalised class
// weights.
func (t *Tree) leafDistribution(x []float64) []float64 {
	node := 0
	for t.ChildrenLeft[node] != leaf {
		if x[t.Feature[node]] <= t.Threshold[node] {
			node = t.ChildrenLeft[node]
		} else {
			node = t.ChildrenRight[node]
		}
	}

	weights := t.Value[node]
	total := 0.0
	for _, w := range weights {
		total += w
	}
	dist := make([]float64, len(weights))
	for i, w := range weights {
		dist[i] = w / total
	}
	return dist
}

func (f *Forest) checkInput(fv recommend.FeatureVector) error {
	if len(fv.Values) != f.NFeatures {
		return fmt.Errorf("X has %d features, but forest expects %d", len(fv.Values), f.NFeatures)
	}
	if len(f.FeatureNames) > 0 && !slices.Equal(fv.Columns, f.FeatureNames) {
		return fmt.Errorf("feature names %v do not match those seen at fit time %v", fv.Columns, f.FeatureNames)
	}
	return nil
}

// PredictProba averages the leaf distributions of all trees.
func (f *Forest) PredictProba(fv recommend.FeatureVector) ([]float64, error) {
	if err := f.checkInput(fv); err != nil {
		return nil, err
	}
	proba := make([]float64, f.NClasses)
	for i := range f.Trees {
		for c, p := range f.Trees[i].leafDistribution(fv.Values) {
			proba[c] += p
		}
	}
	n := float64(len(f.Trees))
	for c := range proba {
		proba[c] /= n
	}
	return proba, nil
}

// Predict returns the class with the highest averaged probability. The
// lowest class id wins ties.
func (f *Forest) Predict(fv recommend.FeatureVector) (int, error) {
	proba, err := f.PredictProba(fv)
	if err != nil {
		return 0, err
	}
	best := 0
	for c := 1; c < len(proba); c++ {
		if proba[c] > proba[best] {
			best = c
		}
	}
	return best, nil
}
