// Umrah Advisor - Pilgrimage Package Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/umrahadvisor

package artifact

import (
	"bytes"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/umrahadvisor/internal/recommend"
)

// Artifact names used in errors, logs and metrics.
const (
	NameModel   = "model"
	NameLabels  = "label_encoder"
	NameColumns = "fit_columns"
)

// Error reports a missing or corrupt artifact.
type Error struct {
	Artifact string
	Path     string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("load %s artifact %s: %v", e.Artifact, e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// LabelEncoder maps class ids to package ids.
type LabelEncoder struct {
	classes []string
}

var _ recommend.LabelDecoder = (*LabelEncoder)(nil)

// NewLabelEncoder copies classes, which must be non-empty and unique.
func NewLabelEncoder(classes []string) (*LabelEncoder, error) {
	if len(classes) == 0 {
		return nil, fmt.Errorf("no classes")
	}
	seen := make(map[string]struct{}, len(classes))
	for _, c := range classes {
		if strings.TrimSpace(c) == "" {
			return nil, fmt.Errorf("empty class name")
		}
		if _, dup := seen[c]; dup {
			return nil, fmt.Errorf("duplicate class %q", c)
		}
		seen[c] = struct{}{}
	}
	return &LabelEncoder{classes: slices.Clone(classes)}, nil
}

// Decode returns the package id for classID.
func (l *LabelEncoder) Decode(classID int) (string, error) {
	if classID < 0 || classID >= len(l.classes) {
		return "", fmt.Errorf("y contains previously unseen label %d", classID)
	}
	return l.classes[classID], nil
}

// Classes returns the package ids in class order.
func (l *LabelEncoder) Classes() []string {
	return slices.Clone(l.classes)
}

// Paths locates the artifact files.
type Paths struct {
	Model   string
	Labels  string
	Columns string
}

// Bundle is the loaded, cross-checked artifact set.
type Bundle struct {
	Forest  *Forest
	Labels  *LabelEncoder
	Columns []string
}

// Load reads and validates all three artifacts.
//
// Besides per-file checks it verifies the forest emits one probability per
// label and expects one value per fit column.
func Load(p Paths) (*Bundle, error) {
	var forest Forest
	if err := readJSON(p.Model, &forest); err != nil {
		return nil, &Error{Artifact: NameModel, Path: p.Model, Err: err}
	}
	if err := forest.Validate(); err != nil {
		return nil, &Error{Artifact: NameModel, Path: p.Model, Err: err}
	}

	var enc struct {
		Classes []string `json:"classes"`
	}
	if err := readJSON(p.Labels, &enc); err != nil {
		return nil, &Error{Artifact: NameLabels, Path: p.Labels, Err: err}
	}
	labels, err := NewLabelEncoder(enc.Classes)
	if err != nil {
		return nil, &Error{Artifact: NameLabels, Path: p.Labels, Err: err}
	}

	var columns []string
	if err := readJSON(p.Columns, &columns); err != nil {
		return nil, &Error{Artifact: NameColumns, Path: p.Columns, Err: err}
	}
	if err := checkColumns(columns); err != nil {
		return nil, &Error{Artifact: NameColumns, Path: p.Columns, Err: err}
	}

	if forest.NClasses != len(enc.Classes) {
		return nil, &Error{Artifact: NameLabels, Path: p.Labels,
			Err: fmt.Errorf("%d classes but model has %d", len(enc.Classes), forest.NClasses)}
	}
	if forest.NFeatures != len(columns) {
		return nil, &Error{Artifact: NameColumns, Path: p.Columns,
			Err: fmt.Errorf("%d columns but model expects %d features", len(columns), forest.NFeatures)}
	}
	if len(forest.FeatureNames) > 0 && !slices.Equal(forest.FeatureNames, columns) {
		return nil, &Error{Artifact: NameColumns, Path: p.Columns,
			Err: fmt.Errorf("columns %v differ from model feature names %v", columns, forest.FeatureNames)}
	}

	return &Bundle{Forest: &forest, Labels: labels, Columns: columns}, nil
}

func checkColumns(columns []string) error {
	if len(columns) == 0 {
		return fmt.Errorf("no columns")
	}
	seen := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		if _, dup := seen[c]; dup {
			return fmt.Errorf("duplicate column %q", c)
		}
		seen[c] = struct{}{}
	}
	return nil
}

func readJSON(path string, v any) error {
	if path == "" {
		return fmt.Errorf("path is empty")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return fmt.Errorf("file is empty")
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}

// Artifacts combines the bundle with an encoding scheme and price table.
//
// The scheme must emit every fit column; otherwise every request would fail
// with a schema mismatch, so the problem is reported at load time.
func (b *Bundle) Artifacts(scheme recommend.EncodingScheme, prices recommend.PriceTable) (*recommend.Artifacts, error) {
	var missing []string
	for _, c := range b.Columns {
		if !slices.Contains(scheme.Columns, c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("encoding scheme %s cannot produce fit columns: %w",
			scheme.Version, &recommend.SchemaMismatchError{Missing: missing})
	}
	return recommend.NewArtifacts(b.Forest, b.Labels, b.Columns, scheme, prices)
}
